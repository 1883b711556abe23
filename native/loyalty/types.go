package loyalty

import "github.com/holiman/uint256"

// Role names used by the access registry.
const (
	RoleMinter = "minter"
	RoleBurner = "burner"
)

// TokenState is the singleton record describing the fungible ledger: supply
// accounting, pricing and the governance switches.
type TokenState struct {
	Name           string       `json:"name"`
	Symbol         string       `json:"symbol"`
	Decimals       uint8        `json:"decimals"`
	TotalSupply    *uint256.Int `json:"totalSupply"`
	MaxSupply      *uint256.Int `json:"maxSupply"`
	MintPrice      *uint256.Int `json:"mintPrice"`
	MintingEnabled bool         `json:"mintingEnabled"`
	BurningEnabled bool         `json:"burningEnabled"`
	Paused         bool         `json:"paused"`
}

// EnsureDefaults replaces nil amount fields with zero.
func (s *TokenState) EnsureDefaults() *TokenState {
	if s == nil {
		return &TokenState{
			TotalSupply: uint256.NewInt(0),
			MaxSupply:   uint256.NewInt(0),
			MintPrice:   uint256.NewInt(0),
		}
	}
	if s.TotalSupply == nil {
		s.TotalSupply = uint256.NewInt(0)
	}
	if s.MaxSupply == nil {
		s.MaxSupply = uint256.NewInt(0)
	}
	if s.MintPrice == nil {
		s.MintPrice = uint256.NewInt(0)
	}
	return s
}

// Clone returns a deep copy of the token state.
func (s *TokenState) Clone() *TokenState {
	if s == nil {
		return nil
	}
	clone := *s
	if s.TotalSupply != nil {
		clone.TotalSupply = new(uint256.Int).Set(s.TotalSupply)
	}
	if s.MaxSupply != nil {
		clone.MaxSupply = new(uint256.Int).Set(s.MaxSupply)
	}
	if s.MintPrice != nil {
		clone.MintPrice = new(uint256.Int).Set(s.MintPrice)
	}
	return &clone
}

// UserProfile is the per-account record kept consistent with every mint,
// burn and transfer. Profiles are created on first registration or first
// credit and are never deleted.
type UserProfile struct {
	Balance      *uint256.Int `json:"balance"`
	TotalEarned  *uint256.Int `json:"totalEarned"`
	TotalSpent   *uint256.Int `json:"totalSpent"`
	Active       bool         `json:"isActive"`
	RegisteredAt uint64       `json:"registeredAt"`
}

// EnsureDefaults replaces nil amount fields with zero.
func (p *UserProfile) EnsureDefaults() *UserProfile {
	if p == nil {
		return &UserProfile{
			Balance:     uint256.NewInt(0),
			TotalEarned: uint256.NewInt(0),
			TotalSpent:  uint256.NewInt(0),
		}
	}
	if p.Balance == nil {
		p.Balance = uint256.NewInt(0)
	}
	if p.TotalEarned == nil {
		p.TotalEarned = uint256.NewInt(0)
	}
	if p.TotalSpent == nil {
		p.TotalSpent = uint256.NewInt(0)
	}
	return p
}

// Clone returns a deep copy of the profile.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Balance != nil {
		clone.Balance = new(uint256.Int).Set(p.Balance)
	}
	if p.TotalEarned != nil {
		clone.TotalEarned = new(uint256.Int).Set(p.TotalEarned)
	}
	if p.TotalSpent != nil {
		clone.TotalSpent = new(uint256.Int).Set(p.TotalSpent)
	}
	return &clone
}

// TokenInfo is the read-only aggregate returned by GetTokenInfo.
type TokenInfo struct {
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Decimals    uint8        `json:"decimals"`
	TotalSupply *uint256.Int `json:"totalSupply"`
	MaxSupply   *uint256.Int `json:"maxSupply"`
	MintPrice   *uint256.Int `json:"mintPrice"`
	Creator     [20]byte     `json:"creator"`
}

// LedgerStats is the read-only aggregate returned by GetStats.
type LedgerStats struct {
	Minters     uint64 `json:"totalMinters"`
	Burners     uint64 `json:"totalBurners"`
	ActiveUsers uint64 `json:"activeUsers"`
	TotalUsers  uint64 `json:"totalUsers"`
}
