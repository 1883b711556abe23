package loyalty

import (
	"time"

	"github.com/holiman/uint256"

	"moduschain/core/events"
	"moduschain/core/types"
)

type engineState interface {
	TokenStateGet() (*TokenState, bool, error)
	TokenStatePut(*TokenState) error
	RoleMembers(role string) ([][20]byte, error)
	RoleContains(role string, addr [20]byte) (bool, error)
	RoleAdd(role string, addr [20]byte) error
	RoleRemove(role string, addr [20]byte) error
	UserProfileGet(addr [20]byte) (*UserProfile, bool, error)
	UserProfilePut(addr [20]byte, profile *UserProfile) error
	UserList() ([][20]byte, error)
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

// Engine implements the fungible loyalty ledger: role-gated supply mutation,
// wei-funded minting with exact settlement, the pause circuit breaker and the
// per-user directory. All operations validate their preconditions before any
// state is written, so a failed call leaves the ledger untouched.
type Engine struct {
	state     engineState
	emitter   events.Emitter
	nowFn     func() int64
	owner     [20]byte
	collector [20]byte

	// pauseBlocksTransfers extends the circuit breaker to plain balance
	// moves. Mint and burn paths are always blocked while paused.
	pauseBlocksTransfers bool
}

// NewEngine constructs a loyalty engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter:              events.NoopEmitter{},
		nowFn:                func() int64 { return time.Now().Unix() },
		pauseBlocksTransfers: true,
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetOwner configures the contract owner. The owner is an implicit permanent
// member of both the minter and burner sets.
func (e *Engine) SetOwner(addr [20]byte) { e.owner = addr }

// Owner returns the configured contract owner.
func (e *Engine) Owner() [20]byte { return e.owner }

// SetCollector configures the vault account that accumulates wei proceeds
// from funded mints until the owner withdraws them.
func (e *Engine) SetCollector(addr [20]byte) { e.collector = addr }

// SetPauseBlocksTransfers controls whether the circuit breaker also rejects
// plain transfers. Defaults to true.
func (e *Engine) SetPauseBlocksTransfers(block bool) { e.pauseBlocksTransfers = block }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 { return e.nowFn() }

func (e *Engine) emit(evt events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(evt)
	}
}

func isZeroAddress(addr [20]byte) bool {
	var zero [20]byte
	return addr == zero
}

func amount(v *uint256.Int) *uint256.Int {
	if v == nil {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(v)
}

// Initialize writes the singleton token state. It fails if the ledger has
// already been initialized; minting and burning start enabled.
func (e *Engine) Initialize(name, symbol string, decimals uint8, maxSupply, mintPrice *uint256.Int) error {
	if _, ok, err := e.state.TokenStateGet(); err != nil {
		return err
	} else if ok {
		return ErrAlreadyInitialized
	}
	state := &TokenState{
		Name:           name,
		Symbol:         symbol,
		Decimals:       decimals,
		TotalSupply:    uint256.NewInt(0),
		MaxSupply:      amount(maxSupply),
		MintPrice:      amount(mintPrice),
		MintingEnabled: true,
		BurningEnabled: true,
	}
	return e.state.TokenStatePut(state)
}

func (e *Engine) tokenState() (*TokenState, error) {
	state, ok, err := e.state.TokenStateGet()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return state.EnsureDefaults(), nil
}

func (e *Engine) requireOwner(caller [20]byte) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	return nil
}

func (e *Engine) profile(addr [20]byte) (*UserProfile, error) {
	profile, ok, err := e.state.UserProfileGet(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		profile = &UserProfile{}
	}
	return profile.EnsureDefaults(), nil
}

// creditProfile books a mint into the recipient profile, activating it on
// first contact with the ledger.
func (e *Engine) creditProfile(addr [20]byte, amt *uint256.Int, spent *uint256.Int) (*UserProfile, error) {
	profile, err := e.profile(addr)
	if err != nil {
		return nil, err
	}
	if _, overflow := profile.Balance.AddOverflow(profile.Balance, amt); overflow {
		return nil, ErrAmountOverflow
	}
	if _, overflow := profile.TotalEarned.AddOverflow(profile.TotalEarned, amt); overflow {
		return nil, ErrAmountOverflow
	}
	if spent != nil {
		if _, overflow := profile.TotalSpent.AddOverflow(profile.TotalSpent, spent); overflow {
			return nil, ErrAmountOverflow
		}
	}
	if !profile.Active {
		profile.Active = true
		profile.RegisteredAt = uint64(e.now())
	}
	return profile, nil
}

// Mint credits freshly created tokens to an account. The caller must hold the
// minter role (the owner always does).
func (e *Engine) Mint(caller, to [20]byte, amt *uint256.Int) error {
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if state.Paused {
		return ErrPaused
	}
	if !state.MintingEnabled {
		return ErrMintingDisabled
	}
	if ok, err := e.IsMinter(caller); err != nil {
		return err
	} else if !ok {
		return ErrUnauthorized
	}
	if isZeroAddress(to) {
		return ErrZeroAddress
	}
	if amt == nil || amt.IsZero() {
		return ErrZeroAmount
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(state.TotalSupply, amt)
	if overflow {
		return ErrAmountOverflow
	}
	if newSupply.Gt(state.MaxSupply) {
		return ErrSupplyExceeded
	}
	profile, err := e.creditProfile(to, amt, nil)
	if err != nil {
		return err
	}
	state.TotalSupply = newSupply
	if err := e.state.UserProfilePut(to, profile); err != nil {
		return err
	}
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	e.emit(events.LoyaltyTokensMinted{To: to, Amount: amount(amt), Paid: uint256.NewInt(0)})
	return nil
}

// MintWithETH mints tokens to the caller against attached wei value. Anyone
// may call; the cost is amount times the configured mint price. The cost is
// settled into the collector vault and only after all ledger mutation, so a
// re-entering recipient observes updated state. The excess value stays with
// the caller.
func (e *Engine) MintWithETH(caller [20]byte, amt *uint256.Int, value *uint256.Int) error {
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if state.Paused {
		return ErrPaused
	}
	if !state.MintingEnabled {
		return ErrMintingDisabled
	}
	if isZeroAddress(caller) {
		return ErrZeroAddress
	}
	if amt == nil || amt.IsZero() {
		return ErrZeroAmount
	}
	cost, overflow := new(uint256.Int).MulOverflow(amt, state.MintPrice)
	if overflow {
		return ErrAmountOverflow
	}
	if value == nil || value.Lt(cost) {
		return ErrInsufficientPayment
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(state.TotalSupply, amt)
	if overflow {
		return ErrAmountOverflow
	}
	if newSupply.Gt(state.MaxSupply) {
		return ErrSupplyExceeded
	}
	payer, err := e.state.GetAccount(caller)
	if err != nil {
		return err
	}
	payer = payer.EnsureDefaults()
	if payer.BalanceWei.Lt(value) {
		return ErrInsufficientFunds
	}
	profile, err := e.creditProfile(caller, amt, cost)
	if err != nil {
		return err
	}
	state.TotalSupply = newSupply
	if err := e.state.UserProfilePut(caller, profile); err != nil {
		return err
	}
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	// Settlement happens last: debit exactly the cost, never the excess.
	payer.BalanceWei = new(uint256.Int).Sub(payer.BalanceWei, cost)
	if err := e.state.PutAccount(caller, payer); err != nil {
		return err
	}
	vault, err := e.state.GetAccount(e.collector)
	if err != nil {
		return err
	}
	vault = vault.EnsureDefaults()
	vault.BalanceWei = new(uint256.Int).Add(vault.BalanceWei, cost)
	if err := e.state.PutAccount(e.collector, vault); err != nil {
		return err
	}
	e.emit(events.LoyaltyTokensMinted{To: caller, Amount: amount(amt), Paid: cost})
	return nil
}

func (e *Engine) burn(state *TokenState, account [20]byte, amt *uint256.Int) error {
	if amt == nil || amt.IsZero() {
		return ErrZeroAmount
	}
	profile, err := e.profile(account)
	if err != nil {
		return err
	}
	if profile.Balance.Lt(amt) {
		return ErrInsufficientBalance
	}
	profile.Balance = new(uint256.Int).Sub(profile.Balance, amt)
	state.TotalSupply = new(uint256.Int).Sub(state.TotalSupply, amt)
	if err := e.state.UserProfilePut(account, profile); err != nil {
		return err
	}
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	e.emit(events.LoyaltyTokensBurned{Account: account, Amount: amount(amt)})
	return nil
}

// Burn destroys tokens held by the caller.
func (e *Engine) Burn(caller [20]byte, amt *uint256.Int) error {
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if state.Paused {
		return ErrPaused
	}
	if !state.BurningEnabled {
		return ErrBurningDisabled
	}
	return e.burn(state, caller, amt)
}

// BurnFrom destroys tokens held by another account. The caller must hold the
// burner role (the owner always does). The pause breaker takes precedence
// over authorization, as in Mint.
func (e *Engine) BurnFrom(caller, account [20]byte, amt *uint256.Int) error {
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if state.Paused {
		return ErrPaused
	}
	if !state.BurningEnabled {
		return ErrBurningDisabled
	}
	if ok, err := e.IsBurner(caller); err != nil {
		return err
	} else if !ok {
		return ErrUnauthorized
	}
	return e.burn(state, account, amt)
}

// Transfer moves tokens between two accounts, keeping both profiles
// consistent. Depending on configuration the pause breaker also blocks this
// path.
func (e *Engine) Transfer(caller, to [20]byte, amt *uint256.Int) error {
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if state.Paused && e.pauseBlocksTransfers {
		return ErrPaused
	}
	if isZeroAddress(to) {
		return ErrZeroAddress
	}
	if amt == nil || amt.IsZero() {
		return ErrZeroAmount
	}
	sender, err := e.profile(caller)
	if err != nil {
		return err
	}
	if sender.Balance.Lt(amt) {
		return ErrInsufficientBalance
	}
	// A self-transfer is a funded no-op; writing both profile copies back
	// would double-count the amount.
	if to == caller {
		e.emit(events.LoyaltyTokensTransferred{From: caller, To: to, Amount: amount(amt)})
		return nil
	}
	recipient, err := e.profile(to)
	if err != nil {
		return err
	}
	if _, overflow := recipient.Balance.AddOverflow(recipient.Balance, amt); overflow {
		return ErrAmountOverflow
	}
	sender.Balance = new(uint256.Int).Sub(sender.Balance, amt)
	if err := e.state.UserProfilePut(caller, sender); err != nil {
		return err
	}
	if err := e.state.UserProfilePut(to, recipient); err != nil {
		return err
	}
	e.emit(events.LoyaltyTokensTransferred{From: caller, To: to, Amount: amount(amt)})
	return nil
}

func (e *Engine) addRole(caller [20]byte, role string, account [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if isZeroAddress(account) {
		return ErrZeroAddress
	}
	if account == e.owner {
		return ErrAlreadyInRole
	}
	if ok, err := e.state.RoleContains(role, account); err != nil {
		return err
	} else if ok {
		return ErrAlreadyInRole
	}
	if err := e.state.RoleAdd(role, account); err != nil {
		return err
	}
	e.emit(events.LoyaltyRoleChanged{Role: role, Account: account, Added: true})
	return nil
}

func (e *Engine) removeRole(caller [20]byte, role string, account [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if account == e.owner {
		return ErrCannotRemoveOwner
	}
	if ok, err := e.state.RoleContains(role, account); err != nil {
		return err
	} else if !ok {
		return ErrNotInRole
	}
	if err := e.state.RoleRemove(role, account); err != nil {
		return err
	}
	e.emit(events.LoyaltyRoleChanged{Role: role, Account: account, Added: false})
	return nil
}

// AddMinter grants the minter role. Owner only.
func (e *Engine) AddMinter(caller, account [20]byte) error {
	return e.addRole(caller, RoleMinter, account)
}

// RemoveMinter revokes the minter role. Owner only; the owner itself can
// never be removed.
func (e *Engine) RemoveMinter(caller, account [20]byte) error {
	return e.removeRole(caller, RoleMinter, account)
}

// AddBurner grants the burner role. Owner only.
func (e *Engine) AddBurner(caller, account [20]byte) error {
	return e.addRole(caller, RoleBurner, account)
}

// RemoveBurner revokes the burner role. Owner only; the owner itself can
// never be removed.
func (e *Engine) RemoveBurner(caller, account [20]byte) error {
	return e.removeRole(caller, RoleBurner, account)
}

// IsMinter reports whether the account may mint. The owner always may.
func (e *Engine) IsMinter(account [20]byte) (bool, error) {
	if account == e.owner {
		return true, nil
	}
	return e.state.RoleContains(RoleMinter, account)
}

// IsBurner reports whether the account may burn on behalf of others. The
// owner always may.
func (e *Engine) IsBurner(account [20]byte) (bool, error) {
	if account == e.owner {
		return true, nil
	}
	return e.state.RoleContains(RoleBurner, account)
}

// RegisterUser activates a profile for the account. Owner only; registering
// an already-active account fails.
func (e *Engine) RegisterUser(caller, account [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if isZeroAddress(account) {
		return ErrZeroAddress
	}
	profile, err := e.profile(account)
	if err != nil {
		return err
	}
	if profile.Active {
		return ErrAlreadyRegistered
	}
	profile.Active = true
	profile.RegisteredAt = uint64(e.now())
	if err := e.state.UserProfilePut(account, profile); err != nil {
		return err
	}
	e.emit(events.LoyaltyUserRegistered{Account: account, RegisteredAt: int64(profile.RegisteredAt)})
	return nil
}

// DeactivateUser marks an active profile inactive. Owner only.
func (e *Engine) DeactivateUser(caller, account [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	profile, ok, err := e.state.UserProfileGet(account)
	if err != nil {
		return err
	}
	if !ok || !profile.Active {
		return ErrNotRegistered
	}
	profile.Active = false
	if err := e.state.UserProfilePut(account, profile.EnsureDefaults()); err != nil {
		return err
	}
	e.emit(events.LoyaltyUserDeactivated{Account: account})
	return nil
}

// UpdateMintPrice sets the wei price of one token. Owner only.
func (e *Engine) UpdateMintPrice(caller [20]byte, price *uint256.Int) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	state.MintPrice = amount(price)
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	e.emit(events.LoyaltyMintPriceUpdated{Price: amount(price)})
	return nil
}

// UpdateMaxSupply changes the supply cap. Owner only; the cap can never be
// set below the outstanding supply.
func (e *Engine) UpdateMaxSupply(caller [20]byte, max *uint256.Int) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	capped := amount(max)
	if capped.Lt(state.TotalSupply) {
		return ErrBelowCurrentSupply
	}
	state.MaxSupply = capped
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	e.emit(events.LoyaltyMaxSupplyUpdated{MaxSupply: amount(max)})
	return nil
}

func (e *Engine) setSwitch(caller [20]byte, name string, enabled bool) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if name == "burning" {
		state.BurningEnabled = enabled
	} else {
		state.MintingEnabled = enabled
	}
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	e.emit(events.LoyaltySwitchToggled{Switch: name, Enabled: enabled})
	return nil
}

// SetMintingEnabled toggles the minting switch. Owner only.
func (e *Engine) SetMintingEnabled(caller [20]byte, enabled bool) error {
	return e.setSwitch(caller, "minting", enabled)
}

// SetBurningEnabled toggles the burning switch. Owner only.
func (e *Engine) SetBurningEnabled(caller [20]byte, enabled bool) error {
	return e.setSwitch(caller, "burning", enabled)
}

// Pause engages the circuit breaker. Owner only.
func (e *Engine) Pause(caller [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if state.Paused {
		return ErrPaused
	}
	state.Paused = true
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	e.emit(events.LoyaltyPauseChanged{Paused: true})
	return nil
}

// Unpause disengages the circuit breaker. Owner only.
func (e *Engine) Unpause(caller [20]byte) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	state, err := e.tokenState()
	if err != nil {
		return err
	}
	if !state.Paused {
		return ErrNotPaused
	}
	state.Paused = false
	if err := e.state.TokenStatePut(state); err != nil {
		return err
	}
	e.emit(events.LoyaltyPauseChanged{Paused: false})
	return nil
}

// Withdraw drains the collector vault to the owner. Owner only.
func (e *Engine) Withdraw(caller [20]byte) (*uint256.Int, error) {
	if err := e.requireOwner(caller); err != nil {
		return nil, err
	}
	vault, err := e.state.GetAccount(e.collector)
	if err != nil {
		return nil, err
	}
	vault = vault.EnsureDefaults()
	if vault.BalanceWei.IsZero() {
		return nil, ErrNothingToWithdraw
	}
	drained := new(uint256.Int).Set(vault.BalanceWei)
	vault.BalanceWei = uint256.NewInt(0)
	if err := e.state.PutAccount(e.collector, vault); err != nil {
		return nil, err
	}
	ownerAcc, err := e.state.GetAccount(e.owner)
	if err != nil {
		return nil, err
	}
	ownerAcc = ownerAcc.EnsureDefaults()
	ownerAcc.BalanceWei = new(uint256.Int).Add(ownerAcc.BalanceWei, drained)
	if err := e.state.PutAccount(e.owner, ownerAcc); err != nil {
		return nil, err
	}
	e.emit(events.LoyaltyWithdrawn{To: e.owner, Amount: new(uint256.Int).Set(drained)})
	return drained, nil
}

// BalanceOf returns the loyalty balance for the account.
func (e *Engine) BalanceOf(account [20]byte) (*uint256.Int, error) {
	profile, err := e.profile(account)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Set(profile.Balance), nil
}

// TotalSupply returns the outstanding token supply.
func (e *Engine) TotalSupply() (*uint256.Int, error) {
	state, err := e.tokenState()
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Set(state.TotalSupply), nil
}

// MaxSupply returns the supply cap.
func (e *Engine) MaxSupply() (*uint256.Int, error) {
	state, err := e.tokenState()
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Set(state.MaxSupply), nil
}

// MintPrice returns the wei price of one token.
func (e *Engine) MintPrice() (*uint256.Int, error) {
	state, err := e.tokenState()
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Set(state.MintPrice), nil
}

// MintingEnabled reports whether minting is currently allowed.
func (e *Engine) MintingEnabled() (bool, error) {
	state, err := e.tokenState()
	if err != nil {
		return false, err
	}
	return state.MintingEnabled, nil
}

// BurningEnabled reports whether burning is currently allowed.
func (e *Engine) BurningEnabled() (bool, error) {
	state, err := e.tokenState()
	if err != nil {
		return false, err
	}
	return state.BurningEnabled, nil
}

// Paused reports whether the circuit breaker is engaged.
func (e *Engine) Paused() (bool, error) {
	state, err := e.tokenState()
	if err != nil {
		return false, err
	}
	return state.Paused, nil
}

// GetUserInfo returns the profile for the account, zero-valued when the
// account has never touched the ledger.
func (e *Engine) GetUserInfo(account [20]byte) (*UserProfile, error) {
	profile, err := e.profile(account)
	if err != nil {
		return nil, err
	}
	return profile.Clone(), nil
}

// GetTokenInfo returns the token metadata and supply aggregates.
func (e *Engine) GetTokenInfo() (*TokenInfo, error) {
	state, err := e.tokenState()
	if err != nil {
		return nil, err
	}
	return &TokenInfo{
		Name:        state.Name,
		Symbol:      state.Symbol,
		Decimals:    state.Decimals,
		TotalSupply: new(uint256.Int).Set(state.TotalSupply),
		MaxSupply:   new(uint256.Int).Set(state.MaxSupply),
		MintPrice:   new(uint256.Int).Set(state.MintPrice),
		Creator:     e.owner,
	}, nil
}

// GetStats returns role and user-directory counts. The owner counts once in
// each role set.
func (e *Engine) GetStats() (*LedgerStats, error) {
	minters, err := e.state.RoleMembers(RoleMinter)
	if err != nil {
		return nil, err
	}
	burners, err := e.state.RoleMembers(RoleBurner)
	if err != nil {
		return nil, err
	}
	users, err := e.state.UserList()
	if err != nil {
		return nil, err
	}
	stats := &LedgerStats{
		Minters:    uint64(len(minters)) + 1,
		Burners:    uint64(len(burners)) + 1,
		TotalUsers: uint64(len(users)),
	}
	for _, addr := range users {
		profile, ok, err := e.state.UserProfileGet(addr)
		if err != nil {
			return nil, err
		}
		if ok && profile.Active {
			stats.ActiveUsers++
		}
	}
	return stats, nil
}
