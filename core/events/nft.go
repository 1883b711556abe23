package events

import (
	"strconv"

	"github.com/holiman/uint256"

	"moduschain/core/types"
)

const (
	// TypeNFTMinted is emitted when a new asset enters the registry.
	TypeNFTMinted = "nft.minted"
	// TypeNFTMetadataUpdated is emitted when the token owner rewrites the
	// mutable metadata fields.
	TypeNFTMetadataUpdated = "nft.metadata.updated"
	// TypeNFTListed is emitted when an asset is put up for sale.
	TypeNFTListed = "nft.listed"
	// TypeNFTUnlisted is emitted when a listing is withdrawn.
	TypeNFTUnlisted = "nft.unlisted"
	// TypeNFTPriceUpdated is emitted when an active listing is repriced.
	TypeNFTPriceUpdated = "nft.price.updated"
	// TypeNFTSold is emitted when a buyer settles an active listing.
	TypeNFTSold = "nft.sold"
	// TypeNFTBurned is emitted when an asset is destroyed.
	TypeNFTBurned = "nft.burned"
	// TypeNFTTransferred is emitted when ownership moves outside of a sale.
	TypeNFTTransferred = "nft.transferred"
)

// NFTMinted captures the creation of a new asset.
type NFTMinted struct {
	TokenID uint64
	Creator [20]byte
	Owner   [20]byte
	URI     string
}

// EventType implements the Event interface.
func (NFTMinted) EventType() string { return TypeNFTMinted }

// Event converts the mint record to the generic event payload.
func (e NFTMinted) Event() *types.Event {
	return &types.Event{
		Type: TypeNFTMinted,
		Attributes: map[string]string{
			"tokenId": strconv.FormatUint(e.TokenID, 10),
			"creator": addrHex(e.Creator),
			"owner":   addrHex(e.Owner),
			"uri":     e.URI,
		},
	}
}

// NFTMetadataUpdated captures a metadata rewrite by the token owner.
type NFTMetadataUpdated struct {
	TokenID     uint64
	Name        string
	Description string
}

// EventType implements the Event interface.
func (NFTMetadataUpdated) EventType() string { return TypeNFTMetadataUpdated }

// Event converts the update to the generic event payload.
func (e NFTMetadataUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeNFTMetadataUpdated,
		Attributes: map[string]string{
			"tokenId":     strconv.FormatUint(e.TokenID, 10),
			"name":        e.Name,
			"description": e.Description,
		},
	}
}

// NFTListed captures an asset entering the marketplace.
type NFTListed struct {
	TokenID uint64
	Price   *uint256.Int
}

// EventType implements the Event interface.
func (NFTListed) EventType() string { return TypeNFTListed }

// Event converts the listing to the generic event payload.
func (e NFTListed) Event() *types.Event {
	return &types.Event{
		Type: TypeNFTListed,
		Attributes: map[string]string{
			"tokenId": strconv.FormatUint(e.TokenID, 10),
			"price":   amountString(e.Price),
		},
	}
}

// NFTUnlisted captures a listing being withdrawn by the token owner.
type NFTUnlisted struct {
	TokenID uint64
}

// EventType implements the Event interface.
func (NFTUnlisted) EventType() string { return TypeNFTUnlisted }

// Event converts the delisting to the generic event payload.
func (e NFTUnlisted) Event() *types.Event {
	return &types.Event{
		Type:       TypeNFTUnlisted,
		Attributes: map[string]string{"tokenId": strconv.FormatUint(e.TokenID, 10)},
	}
}

// NFTPriceUpdated captures an active listing being repriced.
type NFTPriceUpdated struct {
	TokenID uint64
	Price   *uint256.Int
}

// EventType implements the Event interface.
func (NFTPriceUpdated) EventType() string { return TypeNFTPriceUpdated }

// Event converts the reprice to the generic event payload.
func (e NFTPriceUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeNFTPriceUpdated,
		Attributes: map[string]string{
			"tokenId": strconv.FormatUint(e.TokenID, 10),
			"price":   amountString(e.Price),
		},
	}
}

// NFTSold captures the marketplace settling a sale: ownership moved, the
// listing cleared, the seller paid and any excess refunded to the buyer.
type NFTSold struct {
	TokenID uint64
	Seller  [20]byte
	Buyer   [20]byte
	Price   *uint256.Int
	Refund  *uint256.Int
}

// EventType implements the Event interface.
func (NFTSold) EventType() string { return TypeNFTSold }

// Event converts the sale to the generic event payload.
func (e NFTSold) Event() *types.Event {
	return &types.Event{
		Type: TypeNFTSold,
		Attributes: map[string]string{
			"tokenId": strconv.FormatUint(e.TokenID, 10),
			"seller":  addrHex(e.Seller),
			"buyer":   addrHex(e.Buyer),
			"price":   amountString(e.Price),
			"refund":  amountString(e.Refund),
		},
	}
}

// NFTBurned captures an asset leaving the registry for good.
type NFTBurned struct {
	TokenID uint64
	Creator [20]byte
}

// EventType implements the Event interface.
func (NFTBurned) EventType() string { return TypeNFTBurned }

// Event converts the burn to the generic event payload.
func (e NFTBurned) Event() *types.Event {
	return &types.Event{
		Type: TypeNFTBurned,
		Attributes: map[string]string{
			"tokenId": strconv.FormatUint(e.TokenID, 10),
			"creator": addrHex(e.Creator),
		},
	}
}

// NFTTransferred captures an ownership move outside the marketplace.
type NFTTransferred struct {
	TokenID uint64
	From    [20]byte
	To      [20]byte
}

// EventType implements the Event interface.
func (NFTTransferred) EventType() string { return TypeNFTTransferred }

// Event converts the transfer to the generic event payload.
func (e NFTTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeNFTTransferred,
		Attributes: map[string]string{
			"tokenId": strconv.FormatUint(e.TokenID, 10),
			"from":    addrHex(e.From),
			"to":      addrHex(e.To),
		},
	}
}
