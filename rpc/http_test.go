package rpc

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"

	"moduschain/core/state"
	"moduschain/core/types"
	"moduschain/crypto"
	"moduschain/native/loyalty"
	"moduschain/native/nft"
	"moduschain/storage"
)

type testEnv struct {
	server *httptest.Server
	state  *state.Manager
	owner  string
	user   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())

	ownerKey, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate owner key: %v", err)
	}
	userKey, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate user key: %v", err)
	}
	ownerAddr := ownerKey.PubKey().Address()
	userAddr := userKey.PubKey().Address()

	loyaltyEngine := loyalty.NewEngine()
	loyaltyEngine.SetState(manager)
	loyaltyEngine.SetOwner(ownerAddr.Bytes())
	loyaltyEngine.SetCollector([20]byte{0xfe})
	if err := loyaltyEngine.Initialize("MyModus Loyalty Token", "MMLT", 18, uint256.NewInt(1_000_000), uint256.NewInt(1_000)); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	nftEngine := nft.NewEngine()
	nftEngine.SetState(manager)
	nftEngine.SetOwner(ownerAddr.Bytes())

	userAccount := &types.Account{BalanceWei: uint256.NewInt(10_000_000)}
	if err := manager.PutAccount(userAddr.Bytes(), userAccount); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(loyaltyEngine, nftEngine, manager, log, nil)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, state: manager, owner: ownerAddr.String(), user: userAddr.String()}
}

func (env *testEnv) call(t *testing.T, method string, params interface{}) rpcResponse {
	t.Helper()
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  []interface{}{params},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(env.server.URL, "application/json", bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return decoded
}

func (env *testEnv) mustCall(t *testing.T, method string, params interface{}) interface{} {
	t.Helper()
	resp := env.call(t, method, params)
	if resp.Error != nil {
		t.Fatalf("%s failed: %d %s", method, resp.Error.Code, resp.Error.Message)
	}
	return resp.Result
}

func TestLoyaltyMintAndQuery(t *testing.T) {
	env := newTestEnv(t)
	env.mustCall(t, "loyalty_mint", map[string]string{
		"caller": env.owner,
		"to":     env.user,
		"amount": "1000",
	})
	result := env.mustCall(t, "loyalty_balanceOf", map[string]string{"account": env.user}).(map[string]interface{})
	if result["balance"] != "1000" {
		t.Fatalf("balance = %v, want 1000", result["balance"])
	}
	info := env.mustCall(t, "loyalty_getTokenInfo", map[string]string{}).(map[string]interface{})
	if info["totalSupply"] != "1000" || info["symbol"] != "MMLT" {
		t.Fatalf("unexpected token info %v", info)
	}
	supply := env.mustCall(t, "loyalty_totalSupply", map[string]string{}).(map[string]interface{})
	if supply["totalSupply"] != "1000" {
		t.Fatalf("unexpected total supply %v", supply)
	}
	paused := env.mustCall(t, "loyalty_paused", map[string]string{}).(map[string]interface{})
	if paused["paused"] != false {
		t.Fatalf("unexpected paused flag %v", paused)
	}
}

func TestLoyaltyMintWithETHOverRPC(t *testing.T) {
	env := newTestEnv(t)
	env.mustCall(t, "loyalty_mintWithETH", map[string]string{
		"caller": env.user,
		"amount": "100",
		"value":  "150000",
	})
	result := env.mustCall(t, "loyalty_balanceOf", map[string]string{"account": env.user}).(map[string]interface{})
	if result["balance"] != "100" {
		t.Fatalf("balance = %v, want 100", result["balance"])
	}
	balance := env.mustCall(t, "bank_getBalance", map[string]string{"account": env.user}).(map[string]interface{})
	// 10_000_000 funded, 100 tokens at 1_000 wei each.
	if balance["balanceWei"] != "9900000" {
		t.Fatalf("wei balance = %v, want 9900000", balance["balanceWei"])
	}
}

func TestUnauthorizedErrorCode(t *testing.T) {
	env := newTestEnv(t)
	resp := env.call(t, "loyalty_mint", map[string]string{
		"caller": env.user,
		"to":     env.user,
		"amount": "10",
	})
	if resp.Error == nil || resp.Error.Code != codeUnauthorized {
		t.Fatalf("expected unauthorized error, got %+v", resp.Error)
	}
}

func TestInvalidParamsErrorCode(t *testing.T) {
	env := newTestEnv(t)
	resp := env.call(t, "loyalty_mint", map[string]string{
		"caller": "not-an-address",
		"to":     env.user,
		"amount": "10",
	})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid params error, got %+v", resp.Error)
	}
}

func TestMethodNotFound(t *testing.T) {
	env := newTestEnv(t)
	resp := env.call(t, "loyalty_unknown", map[string]string{})
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found error, got %+v", resp.Error)
	}
}

func TestNFTLifecycleOverRPC(t *testing.T) {
	env := newTestEnv(t)
	minted := env.mustCall(t, "nft_mint", map[string]interface{}{
		"caller":      env.owner,
		"to":          env.owner,
		"uri":         "ipfs://asset",
		"name":        "Golden Badge",
		"description": "First purchase",
		"imageURI":    "ipfs://image",
		"category":    "achievement",
	}).(map[string]interface{})
	tokenID := minted["tokenId"].(float64)
	if tokenID != 1 {
		t.Fatalf("token id = %v", tokenID)
	}

	env.mustCall(t, "nft_putForSale", map[string]interface{}{
		"caller":  env.owner,
		"tokenId": tokenID,
		"price":   "100000",
	})
	env.mustCall(t, "nft_buy", map[string]interface{}{
		"caller":  env.user,
		"tokenId": tokenID,
		"value":   "100000",
	})
	owner := env.mustCall(t, "nft_ownerOf", map[string]interface{}{"tokenId": tokenID}).(map[string]interface{})
	if owner["owner"] != env.user {
		t.Fatalf("owner = %v, want %v", owner["owner"], env.user)
	}

	resp := env.call(t, "nft_getMetadata", map[string]interface{}{"tokenId": float64(99)})
	if resp.Error == nil || resp.Error.Code != codeNotFound {
		t.Fatalf("expected not-found error, got %+v", resp.Error)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(env.server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}
}
