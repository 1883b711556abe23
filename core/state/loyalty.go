package state

import (
	"moduschain/native/loyalty"
)

// TokenStateGet returns the loyalty ledger singleton.
func (m *Manager) TokenStateGet() (*loyalty.TokenState, bool, error) {
	state := new(loyalty.TokenState)
	ok, err := m.load(tokenStateKey, state)
	if err != nil || !ok {
		return nil, ok, err
	}
	return state.EnsureDefaults(), true, nil
}

// TokenStatePut persists the loyalty ledger singleton.
func (m *Manager) TokenStatePut(state *loyalty.TokenState) error {
	return m.store(tokenStateKey, state.EnsureDefaults())
}

func (m *Manager) roleMembers(role string) ([][20]byte, error) {
	var members [][20]byte
	if _, err := m.load(roleKey(role), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// RoleMembers returns the explicit members of the role set. The owner is an
// implicit member and never appears here.
func (m *Manager) RoleMembers(role string) ([][20]byte, error) {
	return m.roleMembers(role)
}

// RoleContains reports explicit membership in the role set.
func (m *Manager) RoleContains(role string, addr [20]byte) (bool, error) {
	members, err := m.roleMembers(role)
	if err != nil {
		return false, err
	}
	for _, member := range members {
		if member == addr {
			return true, nil
		}
	}
	return false, nil
}

// RoleAdd appends the address to the role set.
func (m *Manager) RoleAdd(role string, addr [20]byte) error {
	members, err := m.roleMembers(role)
	if err != nil {
		return err
	}
	for _, member := range members {
		if member == addr {
			return nil
		}
	}
	return m.store(roleKey(role), append(members, addr))
}

// RoleRemove drops the address from the role set using swap-and-remove.
func (m *Manager) RoleRemove(role string, addr [20]byte) error {
	members, err := m.roleMembers(role)
	if err != nil {
		return err
	}
	for i, member := range members {
		if member == addr {
			members[i] = members[len(members)-1]
			return m.store(roleKey(role), members[:len(members)-1])
		}
	}
	return nil
}

// UserProfileGet returns the stored profile for the address.
func (m *Manager) UserProfileGet(addr [20]byte) (*loyalty.UserProfile, bool, error) {
	profile := new(loyalty.UserProfile)
	ok, err := m.load(userKey(addr), profile)
	if err != nil || !ok {
		return nil, ok, err
	}
	return profile.EnsureDefaults(), true, nil
}

// UserProfilePut persists the profile, registering the address in the user
// index on first write.
func (m *Manager) UserProfilePut(addr [20]byte, profile *loyalty.UserProfile) error {
	_, existed, err := m.UserProfileGet(addr)
	if err != nil {
		return err
	}
	if err := m.store(userKey(addr), profile.EnsureDefaults()); err != nil {
		return err
	}
	if existed {
		return nil
	}
	users, err := m.UserList()
	if err != nil {
		return err
	}
	return m.store(userIndexKey, append(users, addr))
}

// UserList returns every address that ever had a profile.
func (m *Manager) UserList() ([][20]byte, error) {
	var users [][20]byte
	if _, err := m.load(userIndexKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}
