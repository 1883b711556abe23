package events

import (
	"strconv"

	"github.com/holiman/uint256"

	"moduschain/core/types"
)

const (
	// TypeLoyaltyTokensMinted is emitted when loyalty tokens are created,
	// either by an authorised minter or through a wei-funded purchase.
	TypeLoyaltyTokensMinted = "loyalty.tokens.minted"
	// TypeLoyaltyTokensBurned is emitted when loyalty tokens are destroyed.
	TypeLoyaltyTokensBurned = "loyalty.tokens.burned"
	// TypeLoyaltyTokensTransferred is emitted on a balance move between two
	// accounts.
	TypeLoyaltyTokensTransferred = "loyalty.tokens.transferred"
	// TypeLoyaltyMinterAdded is emitted when the owner grants the minter role.
	TypeLoyaltyMinterAdded = "loyalty.minter.added"
	// TypeLoyaltyMinterRemoved is emitted when the owner revokes the minter role.
	TypeLoyaltyMinterRemoved = "loyalty.minter.removed"
	// TypeLoyaltyBurnerAdded is emitted when the owner grants the burner role.
	TypeLoyaltyBurnerAdded = "loyalty.burner.added"
	// TypeLoyaltyBurnerRemoved is emitted when the owner revokes the burner role.
	TypeLoyaltyBurnerRemoved = "loyalty.burner.removed"
	// TypeLoyaltyUserRegistered is emitted when a user profile is activated.
	TypeLoyaltyUserRegistered = "loyalty.user.registered"
	// TypeLoyaltyUserDeactivated is emitted when a user profile is deactivated.
	TypeLoyaltyUserDeactivated = "loyalty.user.deactivated"
	// TypeLoyaltyMintPriceUpdated is emitted when the owner changes the wei
	// price of a loyalty token.
	TypeLoyaltyMintPriceUpdated = "loyalty.mintprice.updated"
	// TypeLoyaltyMaxSupplyUpdated is emitted when the owner raises or lowers
	// the supply cap.
	TypeLoyaltyMaxSupplyUpdated = "loyalty.maxsupply.updated"
	// TypeLoyaltyPaused is emitted when the circuit breaker engages.
	TypeLoyaltyPaused = "loyalty.ledger.paused"
	// TypeLoyaltyUnpaused is emitted when the circuit breaker disengages.
	TypeLoyaltyUnpaused = "loyalty.ledger.unpaused"
	// TypeLoyaltyMintingToggled is emitted when minting is enabled or disabled.
	TypeLoyaltyMintingToggled = "loyalty.minting.toggled"
	// TypeLoyaltyBurningToggled is emitted when burning is enabled or disabled.
	TypeLoyaltyBurningToggled = "loyalty.burning.toggled"
	// TypeLoyaltyWithdrawn is emitted when the owner drains the collector vault.
	TypeLoyaltyWithdrawn = "loyalty.vault.withdrawn"
)

// LoyaltyTokensMinted captures a supply increase credited to an account. Paid
// is zero for role-gated mints and the settled wei cost for purchases.
type LoyaltyTokensMinted struct {
	To     [20]byte
	Amount *uint256.Int
	Paid   *uint256.Int
}

// EventType implements the Event interface.
func (LoyaltyTokensMinted) EventType() string { return TypeLoyaltyTokensMinted }

// Event converts the mint record to the generic event payload.
func (e LoyaltyTokensMinted) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyTokensMinted,
		Attributes: map[string]string{
			"to":     addrHex(e.To),
			"amount": amountString(e.Amount),
			"paid":   amountString(e.Paid),
		},
	}
}

// LoyaltyTokensBurned captures a supply decrease debited from an account.
type LoyaltyTokensBurned struct {
	Account [20]byte
	Amount  *uint256.Int
}

// EventType implements the Event interface.
func (LoyaltyTokensBurned) EventType() string { return TypeLoyaltyTokensBurned }

// Event converts the burn record to the generic event payload.
func (e LoyaltyTokensBurned) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyTokensBurned,
		Attributes: map[string]string{
			"account": addrHex(e.Account),
			"amount":  amountString(e.Amount),
		},
	}
}

// LoyaltyTokensTransferred captures a balance move between two accounts.
type LoyaltyTokensTransferred struct {
	From   [20]byte
	To     [20]byte
	Amount *uint256.Int
}

// EventType implements the Event interface.
func (LoyaltyTokensTransferred) EventType() string { return TypeLoyaltyTokensTransferred }

// Event converts the transfer record to the generic event payload.
func (e LoyaltyTokensTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyTokensTransferred,
		Attributes: map[string]string{
			"from":   addrHex(e.From),
			"to":     addrHex(e.To),
			"amount": amountString(e.Amount),
		},
	}
}

// LoyaltyRoleChanged captures a minter or burner set mutation. Role is one of
// "minter"/"burner" and Added reports the direction.
type LoyaltyRoleChanged struct {
	Role    string
	Account [20]byte
	Added   bool
}

// EventType implements the Event interface.
func (e LoyaltyRoleChanged) EventType() string {
	switch {
	case e.Role == "minter" && e.Added:
		return TypeLoyaltyMinterAdded
	case e.Role == "minter":
		return TypeLoyaltyMinterRemoved
	case e.Added:
		return TypeLoyaltyBurnerAdded
	default:
		return TypeLoyaltyBurnerRemoved
	}
}

// Event converts the role change to the generic event payload.
func (e LoyaltyRoleChanged) Event() *types.Event {
	return &types.Event{
		Type: e.EventType(),
		Attributes: map[string]string{
			"role":    e.Role,
			"account": addrHex(e.Account),
		},
	}
}

// LoyaltyUserRegistered captures a profile activation.
type LoyaltyUserRegistered struct {
	Account      [20]byte
	RegisteredAt int64
}

// EventType implements the Event interface.
func (LoyaltyUserRegistered) EventType() string { return TypeLoyaltyUserRegistered }

// Event converts the registration to the generic event payload.
func (e LoyaltyUserRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyUserRegistered,
		Attributes: map[string]string{
			"account":      addrHex(e.Account),
			"registeredAt": strconv.FormatInt(e.RegisteredAt, 10),
		},
	}
}

// LoyaltyUserDeactivated captures a profile deactivation.
type LoyaltyUserDeactivated struct {
	Account [20]byte
}

// EventType implements the Event interface.
func (LoyaltyUserDeactivated) EventType() string { return TypeLoyaltyUserDeactivated }

// Event converts the deactivation to the generic event payload.
func (e LoyaltyUserDeactivated) Event() *types.Event {
	return &types.Event{
		Type:       TypeLoyaltyUserDeactivated,
		Attributes: map[string]string{"account": addrHex(e.Account)},
	}
}

// LoyaltyMintPriceUpdated captures a mint price change.
type LoyaltyMintPriceUpdated struct {
	Price *uint256.Int
}

// EventType implements the Event interface.
func (LoyaltyMintPriceUpdated) EventType() string { return TypeLoyaltyMintPriceUpdated }

// Event converts the price change to the generic event payload.
func (e LoyaltyMintPriceUpdated) Event() *types.Event {
	return &types.Event{
		Type:       TypeLoyaltyMintPriceUpdated,
		Attributes: map[string]string{"price": amountString(e.Price)},
	}
}

// LoyaltyMaxSupplyUpdated captures a supply cap change.
type LoyaltyMaxSupplyUpdated struct {
	MaxSupply *uint256.Int
}

// EventType implements the Event interface.
func (LoyaltyMaxSupplyUpdated) EventType() string { return TypeLoyaltyMaxSupplyUpdated }

// Event converts the cap change to the generic event payload.
func (e LoyaltyMaxSupplyUpdated) Event() *types.Event {
	return &types.Event{
		Type:       TypeLoyaltyMaxSupplyUpdated,
		Attributes: map[string]string{"maxSupply": amountString(e.MaxSupply)},
	}
}

// LoyaltyPauseChanged captures the circuit breaker moving.
type LoyaltyPauseChanged struct {
	Paused bool
}

// EventType implements the Event interface.
func (e LoyaltyPauseChanged) EventType() string {
	if e.Paused {
		return TypeLoyaltyPaused
	}
	return TypeLoyaltyUnpaused
}

// Event converts the pause change to the generic event payload.
func (e LoyaltyPauseChanged) Event() *types.Event {
	return &types.Event{
		Type:       e.EventType(),
		Attributes: map[string]string{"paused": strconv.FormatBool(e.Paused)},
	}
}

// LoyaltySwitchToggled captures the minting or burning enable flags moving.
// Switch is "minting" or "burning".
type LoyaltySwitchToggled struct {
	Switch  string
	Enabled bool
}

// EventType implements the Event interface.
func (e LoyaltySwitchToggled) EventType() string {
	if e.Switch == "burning" {
		return TypeLoyaltyBurningToggled
	}
	return TypeLoyaltyMintingToggled
}

// Event converts the toggle to the generic event payload.
func (e LoyaltySwitchToggled) Event() *types.Event {
	return &types.Event{
		Type: e.EventType(),
		Attributes: map[string]string{
			"switch":  e.Switch,
			"enabled": strconv.FormatBool(e.Enabled),
		},
	}
}

// LoyaltyWithdrawn captures the owner draining the accumulated mint proceeds.
type LoyaltyWithdrawn struct {
	To     [20]byte
	Amount *uint256.Int
}

// EventType implements the Event interface.
func (LoyaltyWithdrawn) EventType() string { return TypeLoyaltyWithdrawn }

// Event converts the withdrawal to the generic event payload.
func (e LoyaltyWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeLoyaltyWithdrawn,
		Attributes: map[string]string{
			"to":     addrHex(e.To),
			"amount": amountString(e.Amount),
		},
	}
}
