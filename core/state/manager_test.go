package state

import (
	"testing"

	"github.com/holiman/uint256"

	"moduschain/native/loyalty"
	"moduschain/native/nft"
	"moduschain/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(storage.NewMemDB())
}

func TestAccountRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	addr := [20]byte{0x01}

	account, err := manager.GetAccount(addr)
	if err != nil {
		t.Fatalf("get missing account: %v", err)
	}
	if account.Nonce != 0 || !account.BalanceWei.IsZero() {
		t.Fatalf("missing account not zero-valued: %+v", account)
	}

	account.Nonce = 7
	account.BalanceWei = uint256.NewInt(42)
	if err := manager.PutAccount(addr, account); err != nil {
		t.Fatalf("put account: %v", err)
	}
	loaded, err := manager.GetAccount(addr)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if loaded.Nonce != 7 || !loaded.BalanceWei.Eq(uint256.NewInt(42)) {
		t.Fatalf("account round trip mismatch: %+v", loaded)
	}
}

func TestTokenStateRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	if _, ok, err := manager.TokenStateGet(); err != nil || ok {
		t.Fatalf("expected empty token state, ok=%v err=%v", ok, err)
	}
	state := &loyalty.TokenState{
		Name:           "MyModus Loyalty Token",
		Symbol:         "MMLT",
		Decimals:       18,
		TotalSupply:    uint256.NewInt(100),
		MaxSupply:      uint256.NewInt(1000),
		MintPrice:      uint256.NewInt(5),
		MintingEnabled: true,
		BurningEnabled: true,
	}
	if err := manager.TokenStatePut(state); err != nil {
		t.Fatalf("put token state: %v", err)
	}
	loaded, ok, err := manager.TokenStateGet()
	if err != nil || !ok {
		t.Fatalf("get token state, ok=%v err=%v", ok, err)
	}
	if loaded.Symbol != "MMLT" || !loaded.TotalSupply.Eq(uint256.NewInt(100)) || !loaded.MintingEnabled {
		t.Fatalf("token state round trip mismatch: %+v", loaded)
	}
}

func TestRoleSet(t *testing.T) {
	manager := newTestManager(t)
	a := [20]byte{0x0a}
	b := [20]byte{0x0b}

	if ok, err := manager.RoleContains(loyalty.RoleMinter, a); err != nil || ok {
		t.Fatalf("expected empty role set, ok=%v err=%v", ok, err)
	}
	if err := manager.RoleAdd(loyalty.RoleMinter, a); err != nil {
		t.Fatalf("role add: %v", err)
	}
	if err := manager.RoleAdd(loyalty.RoleMinter, a); err != nil {
		t.Fatalf("duplicate role add: %v", err)
	}
	if err := manager.RoleAdd(loyalty.RoleMinter, b); err != nil {
		t.Fatalf("role add: %v", err)
	}
	members, err := manager.RoleMembers(loyalty.RoleMinter)
	if err != nil {
		t.Fatalf("role members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("duplicate add changed membership: %v", members)
	}
	if err := manager.RoleRemove(loyalty.RoleMinter, a); err != nil {
		t.Fatalf("role remove: %v", err)
	}
	if ok, _ := manager.RoleContains(loyalty.RoleMinter, a); ok {
		t.Fatalf("member not removed")
	}
	if ok, _ := manager.RoleContains(loyalty.RoleMinter, b); !ok {
		t.Fatalf("removal disturbed other member")
	}
}

func TestUserDirectory(t *testing.T) {
	manager := newTestManager(t)
	addr := [20]byte{0x0c}

	if _, ok, err := manager.UserProfileGet(addr); err != nil || ok {
		t.Fatalf("expected missing profile, ok=%v err=%v", ok, err)
	}
	profile := &loyalty.UserProfile{
		Balance:      uint256.NewInt(10),
		TotalEarned:  uint256.NewInt(10),
		TotalSpent:   uint256.NewInt(0),
		Active:       true,
		RegisteredAt: 1_700_000_000,
	}
	if err := manager.UserProfilePut(addr, profile); err != nil {
		t.Fatalf("put profile: %v", err)
	}
	if err := manager.UserProfilePut(addr, profile); err != nil {
		t.Fatalf("rewrite profile: %v", err)
	}
	users, err := manager.UserList()
	if err != nil {
		t.Fatalf("user list: %v", err)
	}
	if len(users) != 1 || users[0] != addr {
		t.Fatalf("user index should record each address once: %v", users)
	}
	loaded, ok, err := manager.UserProfileGet(addr)
	if err != nil || !ok {
		t.Fatalf("get profile, ok=%v err=%v", ok, err)
	}
	if !loaded.Active || loaded.RegisteredAt != 1_700_000_000 {
		t.Fatalf("profile round trip mismatch: %+v", loaded)
	}
}

func TestNextAssetIDSequence(t *testing.T) {
	manager := newTestManager(t)
	for want := uint64(1); want <= 3; want++ {
		id, err := manager.NextAssetID()
		if err != nil {
			t.Fatalf("next id: %v", err)
		}
		if id != want {
			t.Fatalf("id = %d, want %d", id, want)
		}
	}
}

func testAsset(id uint64, owner, creator [20]byte) *nft.Asset {
	return &nft.Asset{
		TokenID:     id,
		Owner:       owner,
		Creator:     creator,
		URI:         "ipfs://asset",
		Name:        "Badge",
		Description: "Test badge",
		ImageURI:    "ipfs://image",
		Category:    "achievement",
		Price:       uint256.NewInt(0),
		MintedAt:    1_700_000_000,
	}
}

func TestAssetIndexesFollowWrites(t *testing.T) {
	manager := newTestManager(t)
	alice := [20]byte{0x0a}
	bob := [20]byte{0x0b}
	creator := [20]byte{0x01}

	if err := manager.AssetPut(testAsset(1, alice, creator)); err != nil {
		t.Fatalf("put asset: %v", err)
	}
	if err := manager.AssetPut(testAsset(2, alice, creator)); err != nil {
		t.Fatalf("put asset: %v", err)
	}
	owned, err := manager.OwnerAssets(alice)
	if err != nil || len(owned) != 2 {
		t.Fatalf("owner index %v err %v", owned, err)
	}
	count, _ := manager.CreatorCount(creator)
	if count != 2 {
		t.Fatalf("creator count = %d", count)
	}

	// Listing moves the token into the for-sale index.
	listed := testAsset(1, alice, creator)
	listed.ForSale = true
	listed.Price = uint256.NewInt(500)
	if err := manager.AssetPut(listed); err != nil {
		t.Fatalf("list asset: %v", err)
	}
	forSale, _ := manager.ForSaleAssets()
	if len(forSale) != 1 || forSale[0] != 1 {
		t.Fatalf("for-sale index %v", forSale)
	}

	// A sale rewrites the owner and clears the listing in one put.
	sold := testAsset(1, bob, creator)
	if err := manager.AssetPut(sold); err != nil {
		t.Fatalf("sell asset: %v", err)
	}
	forSale, _ = manager.ForSaleAssets()
	if len(forSale) != 0 {
		t.Fatalf("for-sale index survived the sale: %v", forSale)
	}
	aliceOwned, _ := manager.OwnerAssets(alice)
	bobOwned, _ := manager.OwnerAssets(bob)
	if len(aliceOwned) != 1 || aliceOwned[0] != 2 {
		t.Fatalf("previous owner index %v", aliceOwned)
	}
	if len(bobOwned) != 1 || bobOwned[0] != 1 {
		t.Fatalf("new owner index %v", bobOwned)
	}
	count, _ = manager.CreatorCount(creator)
	if count != 2 {
		t.Fatalf("creator count changed on sale: %d", count)
	}

	stats, err := manager.AssetStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalNFTs != 2 || stats.TotalCreators != 1 || stats.ForSale != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAssetDeleteUnwindsIndexes(t *testing.T) {
	manager := newTestManager(t)
	alice := [20]byte{0x0a}
	creator := [20]byte{0x01}

	listed := testAsset(1, alice, creator)
	listed.ForSale = true
	listed.Price = uint256.NewInt(500)
	if err := manager.AssetPut(listed); err != nil {
		t.Fatalf("put asset: %v", err)
	}
	if err := manager.AssetDelete(1); err != nil {
		t.Fatalf("delete asset: %v", err)
	}
	if _, ok, err := manager.AssetGet(1); err != nil || ok {
		t.Fatalf("asset survived delete, ok=%v err=%v", ok, err)
	}
	owned, _ := manager.OwnerAssets(alice)
	if len(owned) != 0 {
		t.Fatalf("owner index survived delete: %v", owned)
	}
	forSale, _ := manager.ForSaleAssets()
	if len(forSale) != 0 {
		t.Fatalf("for-sale index survived delete: %v", forSale)
	}
	count, _ := manager.CreatorCount(creator)
	if count != 0 {
		t.Fatalf("creator count survived delete: %d", count)
	}
	stats, _ := manager.AssetStats()
	if stats.TotalNFTs != 0 || stats.TotalCreators != 0 {
		t.Fatalf("stats survived delete: %+v", stats)
	}
}
