package nft

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"moduschain/core/types"
)

type mockState struct {
	assets   map[uint64]*Asset
	seq      uint64
	owned    map[[20]byte][]uint64
	forSale  []uint64
	creators map[[20]byte]uint64
	accounts map[[20]byte]*types.Account
}

func newMockState() *mockState {
	return &mockState{
		assets:   make(map[uint64]*Asset),
		owned:    make(map[[20]byte][]uint64),
		creators: make(map[[20]byte]uint64),
		accounts: make(map[[20]byte]*types.Account),
	}
}

func removeID(ids []uint64, id uint64) []uint64 {
	for i, candidate := range ids {
		if candidate == id {
			ids[i] = ids[len(ids)-1]
			return ids[:len(ids)-1]
		}
	}
	return ids
}

func (m *mockState) AssetGet(id uint64) (*Asset, bool, error) {
	asset, ok := m.assets[id]
	if !ok {
		return nil, false, nil
	}
	return asset.Clone(), true, nil
}

func (m *mockState) AssetPut(asset *Asset) error {
	previous, existed := m.assets[asset.TokenID]
	if !existed {
		m.owned[asset.Owner] = append(m.owned[asset.Owner], asset.TokenID)
		m.creators[asset.Creator]++
		if asset.ForSale {
			m.forSale = append(m.forSale, asset.TokenID)
		}
		m.assets[asset.TokenID] = asset.Clone()
		return nil
	}
	if previous.Owner != asset.Owner {
		m.owned[previous.Owner] = removeID(m.owned[previous.Owner], asset.TokenID)
		m.owned[asset.Owner] = append(m.owned[asset.Owner], asset.TokenID)
	}
	if previous.ForSale != asset.ForSale {
		if asset.ForSale {
			m.forSale = append(m.forSale, asset.TokenID)
		} else {
			m.forSale = removeID(m.forSale, asset.TokenID)
		}
	}
	m.assets[asset.TokenID] = asset.Clone()
	return nil
}

func (m *mockState) AssetDelete(id uint64) error {
	asset, ok := m.assets[id]
	if !ok {
		return nil
	}
	m.owned[asset.Owner] = removeID(m.owned[asset.Owner], id)
	if asset.ForSale {
		m.forSale = removeID(m.forSale, id)
	}
	if m.creators[asset.Creator] > 0 {
		m.creators[asset.Creator]--
	}
	delete(m.assets, id)
	return nil
}

func (m *mockState) NextAssetID() (uint64, error) {
	m.seq++
	return m.seq, nil
}

func (m *mockState) OwnerAssets(addr [20]byte) ([]uint64, error) {
	return append([]uint64{}, m.owned[addr]...), nil
}

func (m *mockState) ForSaleAssets() ([]uint64, error) {
	return append([]uint64{}, m.forSale...), nil
}

func (m *mockState) CreatorCount(addr [20]byte) (uint64, error) {
	return m.creators[addr], nil
}

func (m *mockState) AssetStats() (*RegistryStats, error) {
	creators := uint64(0)
	for _, count := range m.creators {
		if count > 0 {
			creators++
		}
	}
	return &RegistryStats{
		TotalNFTs:     uint64(len(m.assets)),
		TotalCreators: creators,
		ForSale:       uint64(len(m.forSale)),
	}, nil
}

func (m *mockState) GetAccount(addr [20]byte) (*types.Account, error) {
	account, ok := m.accounts[addr]
	if !ok {
		return (&types.Account{}).EnsureDefaults(), nil
	}
	return account.Clone().EnsureDefaults(), nil
}

func (m *mockState) PutAccount(addr [20]byte, account *types.Account) error {
	m.accounts[addr] = account.Clone()
	return nil
}

var (
	contractOwner = [20]byte{0x01}
	aliceAddr     = [20]byte{0x0a}
	bobAddr       = [20]byte{0x0b}
)

func newTestEngine(t *testing.T) (*Engine, *mockState) {
	t.Helper()
	state := newMockState()
	engine := NewEngine()
	engine.SetState(state)
	engine.SetOwner(contractOwner)
	engine.SetNowFunc(func() int64 { return 1_700_000_000 })
	return engine, state
}

func testParams(to [20]byte) MintParams {
	return MintParams{
		To:          to,
		URI:         "ipfs://asset",
		Name:        "Golden Badge",
		Description: "Awarded for the first purchase",
		ImageURI:    "ipfs://image",
		Category:    "achievement",
		Rarity:      "rare",
		Level:       3,
	}
}

func mustMint(t *testing.T, engine *Engine, to [20]byte) *Asset {
	t.Helper()
	asset, err := engine.Mint(contractOwner, testParams(to))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return asset
}

func TestMintAssignsSequentialIDs(t *testing.T) {
	engine, _ := newTestEngine(t)
	first := mustMint(t, engine, aliceAddr)
	second := mustMint(t, engine, bobAddr)
	if first.TokenID != 1 || second.TokenID != 2 {
		t.Fatalf("unexpected ids %d, %d", first.TokenID, second.TokenID)
	}
	if first.Creator != contractOwner || first.Owner != aliceAddr {
		t.Fatalf("unexpected provenance %+v", first)
	}
	total, err := engine.TotalSupply()
	if err != nil || total != 2 {
		t.Fatalf("total supply = %d, err %v", total, err)
	}
	count, _ := engine.CreatorCount(contractOwner)
	if count != 2 {
		t.Fatalf("creator count = %d", count)
	}
}

func TestMintValidation(t *testing.T) {
	engine, _ := newTestEngine(t)
	if _, err := engine.Mint(aliceAddr, testParams(bobAddr)); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	params := testParams([20]byte{})
	if _, err := engine.Mint(contractOwner, params); !errors.Is(err, ErrZeroAddress) {
		t.Fatalf("expected ErrZeroAddress, got %v", err)
	}
	for _, field := range []string{"name", "description", "imageURI", "category"} {
		params := testParams(aliceAddr)
		switch field {
		case "name":
			params.Name = ""
		case "description":
			params.Description = "  "
		case "imageURI":
			params.ImageURI = ""
		case "category":
			params.Category = ""
		}
		if _, err := engine.Mint(contractOwner, params); !errors.Is(err, ErrEmptyField) {
			t.Fatalf("expected ErrEmptyField for %s, got %v", field, err)
		}
	}
}

func TestUpdateMetadata(t *testing.T) {
	engine, _ := newTestEngine(t)
	asset := mustMint(t, engine, aliceAddr)
	if err := engine.UpdateMetadata(bobAddr, asset.TokenID, "New", "Desc"); !errors.Is(err, ErrNotTokenOwner) {
		t.Fatalf("expected ErrNotTokenOwner, got %v", err)
	}
	if err := engine.UpdateMetadata(aliceAddr, 99, "New", "Desc"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	if err := engine.UpdateMetadata(aliceAddr, asset.TokenID, "Platinum Badge", "Upgraded"); err != nil {
		t.Fatalf("update metadata: %v", err)
	}
	updated, err := engine.Metadata(asset.TokenID)
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if updated.Name != "Platinum Badge" || updated.Description != "Upgraded" {
		t.Fatalf("metadata not rewritten: %+v", updated)
	}
}

func TestListingLifecycle(t *testing.T) {
	engine, _ := newTestEngine(t)
	asset := mustMint(t, engine, aliceAddr)
	if err := engine.PutForSale(aliceAddr, asset.TokenID, uint256.NewInt(0)); !errors.Is(err, ErrZeroPrice) {
		t.Fatalf("expected ErrZeroPrice, got %v", err)
	}
	if err := engine.PutForSale(bobAddr, asset.TokenID, uint256.NewInt(100)); !errors.Is(err, ErrNotTokenOwner) {
		t.Fatalf("expected ErrNotTokenOwner, got %v", err)
	}
	if err := engine.UpdatePrice(aliceAddr, asset.TokenID, uint256.NewInt(100)); !errors.Is(err, ErrNotForSale) {
		t.Fatalf("expected ErrNotForSale, got %v", err)
	}
	if err := engine.PutForSale(aliceAddr, asset.TokenID, uint256.NewInt(100)); err != nil {
		t.Fatalf("put for sale: %v", err)
	}
	listed, err := engine.NFTsForSale()
	if err != nil || len(listed) != 1 || listed[0] != asset.TokenID {
		t.Fatalf("unexpected for-sale index %v err %v", listed, err)
	}
	if err := engine.UpdatePrice(aliceAddr, asset.TokenID, uint256.NewInt(250)); err != nil {
		t.Fatalf("update price: %v", err)
	}
	meta, _ := engine.Metadata(asset.TokenID)
	if !meta.ForSale || !meta.Price.Eq(uint256.NewInt(250)) {
		t.Fatalf("listing not updated: %+v", meta)
	}
	if err := engine.RemoveFromSale(aliceAddr, asset.TokenID); err != nil {
		t.Fatalf("remove from sale: %v", err)
	}
	listed, _ = engine.NFTsForSale()
	if len(listed) != 0 {
		t.Fatalf("for-sale index not cleared: %v", listed)
	}
}

func TestBuySettlesExactly(t *testing.T) {
	engine, state := newTestEngine(t)
	asset := mustMint(t, engine, aliceAddr)
	if err := engine.PutForSale(aliceAddr, asset.TokenID, uint256.NewInt(100_000)); err != nil {
		t.Fatalf("put for sale: %v", err)
	}
	state.accounts[bobAddr] = &types.Account{BalanceWei: uint256.NewInt(200_000)}
	// Overpay: only the listed price moves, the rest never leaves the buyer.
	if err := engine.Buy(bobAddr, asset.TokenID, uint256.NewInt(150_000)); err != nil {
		t.Fatalf("buy: %v", err)
	}
	owner, err := engine.OwnerOf(asset.TokenID)
	if err != nil || owner != bobAddr {
		t.Fatalf("ownership not transferred, owner %x err %v", owner, err)
	}
	if !state.accounts[bobAddr].BalanceWei.Eq(uint256.NewInt(100_000)) {
		t.Fatalf("buyer debited %s, want exactly the price", state.accounts[bobAddr].BalanceWei.Dec())
	}
	if !state.accounts[aliceAddr].BalanceWei.Eq(uint256.NewInt(100_000)) {
		t.Fatalf("seller credited %s", state.accounts[aliceAddr].BalanceWei.Dec())
	}
	meta, _ := engine.Metadata(asset.TokenID)
	if meta.ForSale {
		t.Fatalf("listing survived the sale")
	}
	aliceAssets, _ := engine.UserNFTs(aliceAddr)
	bobAssets, _ := engine.UserNFTs(bobAddr)
	if len(aliceAssets) != 0 || len(bobAssets) != 1 {
		t.Fatalf("owner indexes not moved: %v / %v", aliceAssets, bobAssets)
	}
	// Creator attribution is permanent across transfers.
	count, _ := engine.CreatorCount(contractOwner)
	if count != 1 {
		t.Fatalf("creator count changed on sale: %d", count)
	}
}

func TestBuyValidation(t *testing.T) {
	engine, state := newTestEngine(t)
	asset := mustMint(t, engine, aliceAddr)
	if err := engine.Buy(bobAddr, 99, uint256.NewInt(1)); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	if err := engine.Buy(bobAddr, asset.TokenID, uint256.NewInt(1)); !errors.Is(err, ErrNotForSale) {
		t.Fatalf("expected ErrNotForSale, got %v", err)
	}
	if err := engine.PutForSale(aliceAddr, asset.TokenID, uint256.NewInt(100)); err != nil {
		t.Fatalf("put for sale: %v", err)
	}
	if err := engine.Buy(aliceAddr, asset.TokenID, uint256.NewInt(100)); !errors.Is(err, ErrCannotBuyOwnToken) {
		t.Fatalf("expected ErrCannotBuyOwnToken, got %v", err)
	}
	if err := engine.Buy(bobAddr, asset.TokenID, uint256.NewInt(99)); !errors.Is(err, ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}
	state.accounts[bobAddr] = &types.Account{BalanceWei: uint256.NewInt(50)}
	if err := engine.Buy(bobAddr, asset.TokenID, uint256.NewInt(100)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	owner, _ := engine.OwnerOf(asset.TokenID)
	if owner != aliceAddr {
		t.Fatalf("ownership mutated on failed buy")
	}
}

func TestTransferClearsListing(t *testing.T) {
	engine, _ := newTestEngine(t)
	asset := mustMint(t, engine, aliceAddr)
	if err := engine.PutForSale(aliceAddr, asset.TokenID, uint256.NewInt(100)); err != nil {
		t.Fatalf("put for sale: %v", err)
	}
	if err := engine.Transfer(bobAddr, aliceAddr, asset.TokenID); !errors.Is(err, ErrNotTokenOwner) {
		t.Fatalf("expected ErrNotTokenOwner, got %v", err)
	}
	if err := engine.Transfer(aliceAddr, [20]byte{}, asset.TokenID); !errors.Is(err, ErrZeroAddress) {
		t.Fatalf("expected ErrZeroAddress, got %v", err)
	}
	if err := engine.Transfer(aliceAddr, bobAddr, asset.TokenID); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	owner, _ := engine.OwnerOf(asset.TokenID)
	if owner != bobAddr {
		t.Fatalf("ownership not transferred")
	}
	meta, _ := engine.Metadata(asset.TokenID)
	if meta.ForSale {
		t.Fatalf("listing survived the transfer")
	}
	listed, _ := engine.NFTsForSale()
	if len(listed) != 0 {
		t.Fatalf("for-sale index not cleared: %v", listed)
	}
}

func TestBurnIsTerminal(t *testing.T) {
	engine, _ := newTestEngine(t)
	asset := mustMint(t, engine, aliceAddr)
	if err := engine.PutForSale(aliceAddr, asset.TokenID, uint256.NewInt(100)); err != nil {
		t.Fatalf("put for sale: %v", err)
	}
	if err := engine.Burn(bobAddr, asset.TokenID); !errors.Is(err, ErrNotTokenOwner) {
		t.Fatalf("expected ErrNotTokenOwner, got %v", err)
	}
	if err := engine.Burn(aliceAddr, asset.TokenID); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if _, err := engine.Metadata(asset.TokenID); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	if _, err := engine.OwnerOf(asset.TokenID); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	count, _ := engine.CreatorCount(contractOwner)
	if count != 0 {
		t.Fatalf("creator count not decremented: %d", count)
	}
	total, _ := engine.TotalSupply()
	if total != 0 {
		t.Fatalf("total supply not decremented: %d", total)
	}
	listed, _ := engine.NFTsForSale()
	if len(listed) != 0 {
		t.Fatalf("for-sale index survived the burn: %v", listed)
	}
}

func TestStats(t *testing.T) {
	engine, _ := newTestEngine(t)
	first := mustMint(t, engine, aliceAddr)
	mustMint(t, engine, bobAddr)
	if err := engine.PutForSale(aliceAddr, first.TokenID, uint256.NewInt(10)); err != nil {
		t.Fatalf("put for sale: %v", err)
	}
	stats, err := engine.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalNFTs != 2 || stats.TotalCreators != 1 || stats.ForSale != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
