package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moduschain/core/types"
	"moduschain/crypto"
	"moduschain/native/loyalty"
	"moduschain/native/nft"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeNotFound       = -32010
)

// BalanceSource reads native wei accounts for the bank query surface.
type BalanceSource interface {
	GetAccount(addr [20]byte) (*types.Account, error)
}

// Server exposes the loyalty and NFT ledger entry points over JSON-RPC 2.0,
// plus health and metrics endpoints.
type Server struct {
	loyalty  *loyalty.Engine
	nft      *nft.Engine
	balances BalanceSource
	log      *slog.Logger
	registry *prometheus.Registry
	methods  map[string]handlerFunc
}

type handlerFunc func(params json.RawMessage) (interface{}, error)

// NewServer wires the engines into a JSON-RPC dispatcher.
func NewServer(loyaltyEngine *loyalty.Engine, nftEngine *nft.Engine, balances BalanceSource, log *slog.Logger, registry *prometheus.Registry) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		loyalty:  loyaltyEngine,
		nft:      nftEngine,
		balances: balances,
		log:      log,
		registry: registry,
	}
	s.methods = map[string]handlerFunc{}
	s.registerLoyaltyHandlers()
	s.registerNFTHandlers()
	s.registerBankHandlers()
	return s
}

// Router builds the HTTP surface: JSON-RPC at the root, liveness at /healthz
// and Prometheus metrics at /metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/", s.handle)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Start serves the router on addr and blocks.
func (s *Server) Start(addr string) error {
	s.log.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

type rpcResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	resp := rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Error: &rpcError{Code: code, Message: message}}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, codeParseError, "malformed request body")
		return
	}
	if req.JSONRPC != jsonRPCVersion || req.Method == "" {
		writeError(w, req.ID, codeInvalidRequest, "invalid JSON-RPC request")
		return
	}
	handler, ok := s.methods[req.Method]
	if !ok {
		writeError(w, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %q", req.Method))
		return
	}
	var params json.RawMessage
	if len(req.Params) > 0 {
		params = req.Params[0]
	}
	result, err := handler(params)
	if err != nil {
		s.log.Warn("rpc call failed", "method", req.Method, "err", err)
		writeError(w, req.ID, errorCode(err), err.Error())
		return
	}
	writeResult(w, req.ID, result)
}

// errorCode maps the engine error taxonomy onto JSON-RPC codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, loyalty.ErrNotOwner),
		errors.Is(err, loyalty.ErrUnauthorized),
		errors.Is(err, nft.ErrNotOwner),
		errors.Is(err, nft.ErrNotTokenOwner):
		return codeUnauthorized
	case errors.Is(err, nft.ErrTokenNotFound):
		return codeNotFound
	case errors.Is(err, loyalty.ErrZeroAddress),
		errors.Is(err, loyalty.ErrZeroAmount),
		errors.Is(err, loyalty.ErrInsufficientPayment),
		errors.Is(err, loyalty.ErrAmountOverflow),
		errors.Is(err, nft.ErrZeroAddress),
		errors.Is(err, nft.ErrEmptyField),
		errors.Is(err, nft.ErrZeroPrice),
		errors.Is(err, nft.ErrInsufficientPayment),
		errors.Is(err, errBadParams):
		return codeInvalidParams
	default:
		return codeServerError
	}
}

var errBadParams = errors.New("rpc: invalid params")

func decodeParams(params json.RawMessage, into interface{}) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: missing params object", errBadParams)
	}
	if err := json.Unmarshal(params, into); err != nil {
		return fmt.Errorf("%w: %v", errBadParams, err)
	}
	return nil
}

func parseAddress(raw string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(raw)
	if err != nil {
		return [20]byte{}, fmt.Errorf("%w: %v", errBadParams, err)
	}
	return addr.Bytes(), nil
}

func parseAmount(raw string) (*uint256.Int, error) {
	if raw == "" {
		return uint256.NewInt(0), nil
	}
	value, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", errBadParams, raw)
	}
	return value, nil
}

func formatAddress(addr [20]byte) string {
	encoded, err := crypto.NewAddress(addr[:])
	if err != nil {
		return ""
	}
	return encoded.String()
}
