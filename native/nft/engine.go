package nft

import (
	"fmt"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"moduschain/core/events"
	"moduschain/core/types"
)

type engineState interface {
	AssetGet(id uint64) (*Asset, bool, error)
	AssetPut(asset *Asset) error
	AssetDelete(id uint64) error
	NextAssetID() (uint64, error)
	OwnerAssets(addr [20]byte) ([]uint64, error)
	ForSaleAssets() ([]uint64, error)
	CreatorCount(addr [20]byte) (uint64, error)
	AssetStats() (*RegistryStats, error)
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

// Engine implements the asset registry and its marketplace. Listings and
// ownership lookups are served from maintained per-owner and for-sale index
// structures kept consistent by the state layer, so queries cost only the
// result size.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
	owner   [20]byte
}

// NewEngine constructs an NFT engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetOwner configures the contract owner, the only account allowed to mint.
func (e *Engine) SetOwner(addr [20]byte) { e.owner = addr }

// Owner returns the configured contract owner.
func (e *Engine) Owner() [20]byte { return e.owner }

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

func (e *Engine) emit(evt events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(evt)
	}
}

func isZeroAddress(addr [20]byte) bool {
	var zero [20]byte
	return addr == zero
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyField, name)
	}
	return nil
}

func (e *Engine) asset(id uint64) (*Asset, error) {
	asset, ok, err := e.state.AssetGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTokenNotFound
	}
	return asset.EnsureDefaults(), nil
}

func (e *Engine) tokenOwnerAsset(caller [20]byte, id uint64) (*Asset, error) {
	asset, err := e.asset(id)
	if err != nil {
		return nil, err
	}
	if asset.Owner != caller {
		return nil, ErrNotTokenOwner
	}
	return asset, nil
}

// Mint registers a new asset for the recipient, attributing the caller as
// creator. Contract owner only. Name, description, image URI and category are
// required; rarity and level are optional achievement attributes.
func (e *Engine) Mint(caller [20]byte, params MintParams) (*Asset, error) {
	if caller != e.owner {
		return nil, ErrNotOwner
	}
	if isZeroAddress(params.To) {
		return nil, ErrZeroAddress
	}
	if err := requireField("name", params.Name); err != nil {
		return nil, err
	}
	if err := requireField("description", params.Description); err != nil {
		return nil, err
	}
	if err := requireField("imageURI", params.ImageURI); err != nil {
		return nil, err
	}
	if err := requireField("category", params.Category); err != nil {
		return nil, err
	}
	id, err := e.state.NextAssetID()
	if err != nil {
		return nil, err
	}
	asset := &Asset{
		TokenID:     id,
		Owner:       params.To,
		Creator:     caller,
		URI:         strings.TrimSpace(params.URI),
		Name:        strings.TrimSpace(params.Name),
		Description: strings.TrimSpace(params.Description),
		ImageURI:    strings.TrimSpace(params.ImageURI),
		Category:    strings.TrimSpace(params.Category),
		Rarity:      strings.TrimSpace(params.Rarity),
		Level:       params.Level,
		Price:       uint256.NewInt(0),
		MintedAt:    uint64(e.nowFn()),
	}
	if err := e.state.AssetPut(asset); err != nil {
		return nil, err
	}
	e.emit(events.NFTMinted{TokenID: id, Creator: caller, Owner: params.To, URI: asset.URI})
	return asset.Clone(), nil
}

// UpdateMetadata rewrites the mutable name and description fields. Token
// owner only.
func (e *Engine) UpdateMetadata(caller [20]byte, id uint64, name, description string) error {
	asset, err := e.tokenOwnerAsset(caller, id)
	if err != nil {
		return err
	}
	if err := requireField("name", name); err != nil {
		return err
	}
	if err := requireField("description", description); err != nil {
		return err
	}
	asset.Name = strings.TrimSpace(name)
	asset.Description = strings.TrimSpace(description)
	if err := e.state.AssetPut(asset); err != nil {
		return err
	}
	e.emit(events.NFTMetadataUpdated{TokenID: id, Name: asset.Name, Description: asset.Description})
	return nil
}

// PutForSale lists the asset at the given price. Token owner only.
func (e *Engine) PutForSale(caller [20]byte, id uint64, price *uint256.Int) error {
	asset, err := e.tokenOwnerAsset(caller, id)
	if err != nil {
		return err
	}
	if price == nil || price.IsZero() {
		return ErrZeroPrice
	}
	asset.ForSale = true
	asset.Price = new(uint256.Int).Set(price)
	if err := e.state.AssetPut(asset); err != nil {
		return err
	}
	e.emit(events.NFTListed{TokenID: id, Price: new(uint256.Int).Set(price)})
	return nil
}

// RemoveFromSale clears the listing. Token owner only; clearing an unlisted
// asset is a no-op mutation that still validates ownership.
func (e *Engine) RemoveFromSale(caller [20]byte, id uint64) error {
	asset, err := e.tokenOwnerAsset(caller, id)
	if err != nil {
		return err
	}
	asset.ForSale = false
	asset.Price = uint256.NewInt(0)
	if err := e.state.AssetPut(asset); err != nil {
		return err
	}
	e.emit(events.NFTUnlisted{TokenID: id})
	return nil
}

// UpdatePrice reprices an active listing. Token owner only.
func (e *Engine) UpdatePrice(caller [20]byte, id uint64, price *uint256.Int) error {
	asset, err := e.tokenOwnerAsset(caller, id)
	if err != nil {
		return err
	}
	if !asset.ForSale {
		return ErrNotForSale
	}
	if price == nil || price.IsZero() {
		return ErrZeroPrice
	}
	asset.Price = new(uint256.Int).Set(price)
	if err := e.state.AssetPut(asset); err != nil {
		return err
	}
	e.emit(events.NFTPriceUpdated{TokenID: id, Price: new(uint256.Int).Set(price)})
	return nil
}

// Buy settles an active listing: ownership moves to the caller and the
// listing is cleared before the former owner is paid, so a re-entering seller
// observes updated state. Only the listed price is debited from the attached
// value; the excess stays with the buyer.
func (e *Engine) Buy(caller [20]byte, id uint64, value *uint256.Int) error {
	asset, err := e.asset(id)
	if err != nil {
		return err
	}
	if asset.Owner == caller {
		return ErrCannotBuyOwnToken
	}
	if !asset.ForSale {
		return ErrNotForSale
	}
	price := new(uint256.Int).Set(asset.Price)
	if value == nil || value.Lt(price) {
		return ErrInsufficientPayment
	}
	buyer, err := e.state.GetAccount(caller)
	if err != nil {
		return err
	}
	buyer = buyer.EnsureDefaults()
	if buyer.BalanceWei.Lt(value) {
		return ErrInsufficientFunds
	}
	seller := asset.Owner
	asset.Owner = caller
	asset.ForSale = false
	asset.Price = uint256.NewInt(0)
	if err := e.state.AssetPut(asset); err != nil {
		return err
	}
	// Settlement strictly after the registry mutation.
	buyer.BalanceWei = new(uint256.Int).Sub(buyer.BalanceWei, price)
	if err := e.state.PutAccount(caller, buyer); err != nil {
		return err
	}
	sellerAcc, err := e.state.GetAccount(seller)
	if err != nil {
		return err
	}
	sellerAcc = sellerAcc.EnsureDefaults()
	sellerAcc.BalanceWei = new(uint256.Int).Add(sellerAcc.BalanceWei, price)
	if err := e.state.PutAccount(seller, sellerAcc); err != nil {
		return err
	}
	refund := new(uint256.Int).Sub(value, price)
	e.emit(events.NFTSold{TokenID: id, Seller: seller, Buyer: caller, Price: price, Refund: refund})
	return nil
}

// Transfer moves ownership outside the marketplace, clearing any active
// listing so the new owner does not inherit a stale price.
func (e *Engine) Transfer(caller, to [20]byte, id uint64) error {
	asset, err := e.tokenOwnerAsset(caller, id)
	if err != nil {
		return err
	}
	if isZeroAddress(to) {
		return ErrZeroAddress
	}
	asset.Owner = to
	asset.ForSale = false
	asset.Price = uint256.NewInt(0)
	if err := e.state.AssetPut(asset); err != nil {
		return err
	}
	e.emit(events.NFTTransferred{TokenID: id, From: caller, To: to})
	return nil
}

// Burn destroys the asset. Token owner only; the id becomes permanently
// unresolvable and the creator's live count drops by one.
func (e *Engine) Burn(caller [20]byte, id uint64) error {
	asset, err := e.tokenOwnerAsset(caller, id)
	if err != nil {
		return err
	}
	if err := e.state.AssetDelete(id); err != nil {
		return err
	}
	e.emit(events.NFTBurned{TokenID: id, Creator: asset.Creator})
	return nil
}

// OwnerOf returns the current owner of the token.
func (e *Engine) OwnerOf(id uint64) ([20]byte, error) {
	asset, err := e.asset(id)
	if err != nil {
		return [20]byte{}, err
	}
	return asset.Owner, nil
}

// TokenURI returns the metadata URI of the token.
func (e *Engine) TokenURI(id uint64) (string, error) {
	asset, err := e.asset(id)
	if err != nil {
		return "", err
	}
	return asset.URI, nil
}

// Metadata returns the full asset record.
func (e *Engine) Metadata(id uint64) (*Asset, error) {
	asset, err := e.asset(id)
	if err != nil {
		return nil, err
	}
	return asset.Clone(), nil
}

// TotalSupply returns the count of live assets.
func (e *Engine) TotalSupply() (uint64, error) {
	stats, err := e.state.AssetStats()
	if err != nil {
		return 0, err
	}
	return stats.TotalNFTs, nil
}

// CreatorCount returns the number of live assets minted by the creator.
func (e *Engine) CreatorCount(creator [20]byte) (uint64, error) {
	return e.state.CreatorCount(creator)
}

// UserNFTs returns the token ids currently owned by the account.
func (e *Engine) UserNFTs(account [20]byte) ([]uint64, error) {
	return e.state.OwnerAssets(account)
}

// NFTsForSale returns the token ids with an active listing.
func (e *Engine) NFTsForSale() ([]uint64, error) {
	return e.state.ForSaleAssets()
}

// Stats returns the registry aggregates.
func (e *Engine) Stats() (*RegistryStats, error) {
	return e.state.AssetStats()
}
