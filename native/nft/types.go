package nft

import "github.com/holiman/uint256"

// Asset is one registered non-fungible token: ownership, provenance, the
// descriptive metadata and the marketplace listing state. Token ids are
// sequential starting at 1 and never reused; burning an asset removes the
// record entirely.
type Asset struct {
	TokenID     uint64       `json:"tokenId"`
	Owner       [20]byte     `json:"owner"`
	Creator     [20]byte     `json:"creator"`
	URI         string       `json:"uri"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ImageURI    string       `json:"imageURI"`
	Category    string       `json:"category"`
	Rarity      string       `json:"rarity,omitempty"`
	Level       uint64       `json:"level,omitempty"`
	ForSale     bool         `json:"isForSale"`
	Price       *uint256.Int `json:"price"`
	MintedAt    uint64       `json:"mintedAt"`
}

// EnsureDefaults replaces a nil price with zero.
func (a *Asset) EnsureDefaults() *Asset {
	if a == nil {
		return nil
	}
	if a.Price == nil {
		a.Price = uint256.NewInt(0)
	}
	return a
}

// Clone returns a deep copy of the asset.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Price != nil {
		clone.Price = new(uint256.Int).Set(a.Price)
	}
	return &clone
}

// MintParams carries the inputs for registering a new asset. Rarity and Level
// are optional; the achievement mint path populates them.
type MintParams struct {
	To          [20]byte
	URI         string
	Name        string
	Description string
	ImageURI    string
	Category    string
	Rarity      string
	Level       uint64
}

// RegistryStats is the read-only aggregate returned by Stats.
type RegistryStats struct {
	TotalNFTs     uint64 `json:"totalNFTs"`
	TotalCreators uint64 `json:"totalCreators"`
	ForSale       uint64 `json:"nftsForSale"`
}
