package types

import "github.com/holiman/uint256"

// Account carries the wei-denominated value balance tracked for an address.
// Loyalty balances and the user profile live in the loyalty ledger records,
// not here; this is the settlement currency side of the system.
type Account struct {
	Nonce      uint64       `json:"nonce"`
	BalanceWei *uint256.Int `json:"balanceWei"`
}

// EnsureDefaults replaces nil big-value fields with zero so callers can
// mutate the account without nil checks.
func (a *Account) EnsureDefaults() *Account {
	if a == nil {
		return &Account{BalanceWei: uint256.NewInt(0)}
	}
	if a.BalanceWei == nil {
		a.BalanceWei = uint256.NewInt(0)
	}
	return a
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.BalanceWei != nil {
		clone.BalanceWei = new(uint256.Int).Set(a.BalanceWei)
	}
	return &clone
}
