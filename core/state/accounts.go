package state

import (
	"moduschain/core/types"
)

// GetAccount returns the native value account for the address, defaulting to
// a zero balance when the address has never been funded.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	account := new(types.Account)
	ok, err := m.load(accountKey(addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return (&types.Account{}).EnsureDefaults(), nil
	}
	return account.EnsureDefaults(), nil
}

// PutAccount persists the native value account for the address.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	return m.store(accountKey(addr), account.EnsureDefaults())
}
