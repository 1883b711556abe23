package rpc

import (
	"encoding/json"

	"github.com/holiman/uint256"
)

type callerParams struct {
	Caller string `json:"caller"`
}

type callerAccountParams struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
}

type mintParams struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type mintWithETHParams struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
	Value  string `json:"value"`
}

type burnParams struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

type burnFromParams struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type transferParams struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type priceParams struct {
	Caller string `json:"caller"`
	Price  string `json:"price"`
}

type maxSupplyParams struct {
	Caller    string `json:"caller"`
	MaxSupply string `json:"maxSupply"`
}

type switchParams struct {
	Caller  string `json:"caller"`
	Enabled bool   `json:"enabled"`
}

type accountParams struct {
	Account string `json:"account"`
}

type userInfoResult struct {
	Balance      string `json:"balance"`
	TotalEarned  string `json:"totalEarned"`
	TotalSpent   string `json:"totalSpent"`
	IsActive     bool   `json:"isActive"`
	RegisteredAt uint64 `json:"registeredAt"`
}

type tokenInfoResult struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"totalSupply"`
	MaxSupply   string `json:"maxSupply"`
	MintPrice   string `json:"mintPrice"`
	Creator     string `json:"creator"`
	Minting     bool   `json:"mintingEnabled"`
	Burning     bool   `json:"burningEnabled"`
	Paused      bool   `json:"paused"`
}

func (s *Server) registerLoyaltyHandlers() {
	s.methods["loyalty_mint"] = s.handleLoyaltyMint
	s.methods["loyalty_mintWithETH"] = s.handleLoyaltyMintWithETH
	s.methods["loyalty_burn"] = s.handleLoyaltyBurn
	s.methods["loyalty_burnFrom"] = s.handleLoyaltyBurnFrom
	s.methods["loyalty_transfer"] = s.handleLoyaltyTransfer
	s.methods["loyalty_addMinter"] = s.roleHandler(s.loyalty.AddMinter)
	s.methods["loyalty_removeMinter"] = s.roleHandler(s.loyalty.RemoveMinter)
	s.methods["loyalty_addBurner"] = s.roleHandler(s.loyalty.AddBurner)
	s.methods["loyalty_removeBurner"] = s.roleHandler(s.loyalty.RemoveBurner)
	s.methods["loyalty_registerUser"] = s.roleHandler(s.loyalty.RegisterUser)
	s.methods["loyalty_deactivateUser"] = s.roleHandler(s.loyalty.DeactivateUser)
	s.methods["loyalty_updateMintPrice"] = s.handleLoyaltyUpdateMintPrice
	s.methods["loyalty_updateMaxSupply"] = s.handleLoyaltyUpdateMaxSupply
	s.methods["loyalty_setMintingEnabled"] = s.switchHandler(s.loyalty.SetMintingEnabled)
	s.methods["loyalty_setBurningEnabled"] = s.switchHandler(s.loyalty.SetBurningEnabled)
	s.methods["loyalty_pause"] = s.callerHandler(s.loyalty.Pause)
	s.methods["loyalty_unpause"] = s.callerHandler(s.loyalty.Unpause)
	s.methods["loyalty_withdraw"] = s.handleLoyaltyWithdraw
	s.methods["loyalty_balanceOf"] = s.handleLoyaltyBalanceOf
	s.methods["loyalty_totalSupply"] = s.amountQuery("totalSupply", s.loyalty.TotalSupply)
	s.methods["loyalty_maxSupply"] = s.amountQuery("maxSupply", s.loyalty.MaxSupply)
	s.methods["loyalty_mintPrice"] = s.amountQuery("mintPrice", s.loyalty.MintPrice)
	s.methods["loyalty_mintingEnabled"] = s.flagQuery("enabled", s.loyalty.MintingEnabled)
	s.methods["loyalty_burningEnabled"] = s.flagQuery("enabled", s.loyalty.BurningEnabled)
	s.methods["loyalty_paused"] = s.flagQuery("paused", s.loyalty.Paused)
	s.methods["loyalty_getUserInfo"] = s.handleLoyaltyGetUserInfo
	s.methods["loyalty_getTokenInfo"] = s.handleLoyaltyGetTokenInfo
	s.methods["loyalty_getStats"] = s.handleLoyaltyGetStats
	s.methods["loyalty_isMinter"] = s.membershipHandler(s.loyalty.IsMinter)
	s.methods["loyalty_isBurner"] = s.membershipHandler(s.loyalty.IsBurner)
}

func (s *Server) handleLoyaltyMint(raw json.RawMessage) (interface{}, error) {
	var params mintParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(params.To)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.loyalty.Mint(caller, to, amount); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleLoyaltyMintWithETH(raw json.RawMessage) (interface{}, error) {
	var params mintWithETHParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(params.Value)
	if err != nil {
		return nil, err
	}
	if err := s.loyalty.MintWithETH(caller, amount, value); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleLoyaltyBurn(raw json.RawMessage) (interface{}, error) {
	var params burnParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.loyalty.Burn(caller, amount); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleLoyaltyBurnFrom(raw json.RawMessage) (interface{}, error) {
	var params burnFromParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	account, err := parseAddress(params.Account)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.loyalty.BurnFrom(caller, account, amount); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleLoyaltyTransfer(raw json.RawMessage) (interface{}, error) {
	var params transferParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress(params.To)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.loyalty.Transfer(caller, to, amount); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

// roleHandler adapts the owner-gated (caller, account) operations that share
// a parameter shape.
func (s *Server) roleHandler(op func(caller, account [20]byte) error) handlerFunc {
	return func(raw json.RawMessage) (interface{}, error) {
		var params callerAccountParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		caller, err := parseAddress(params.Caller)
		if err != nil {
			return nil, err
		}
		account, err := parseAddress(params.Account)
		if err != nil {
			return nil, err
		}
		if err := op(caller, account); err != nil {
			return nil, err
		}
		return map[string]bool{"ok": true}, nil
	}
}

func (s *Server) callerHandler(op func(caller [20]byte) error) handlerFunc {
	return func(raw json.RawMessage) (interface{}, error) {
		var params callerParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		caller, err := parseAddress(params.Caller)
		if err != nil {
			return nil, err
		}
		if err := op(caller); err != nil {
			return nil, err
		}
		return map[string]bool{"ok": true}, nil
	}
}

func (s *Server) switchHandler(op func(caller [20]byte, enabled bool) error) handlerFunc {
	return func(raw json.RawMessage) (interface{}, error) {
		var params switchParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		caller, err := parseAddress(params.Caller)
		if err != nil {
			return nil, err
		}
		if err := op(caller, params.Enabled); err != nil {
			return nil, err
		}
		return map[string]bool{"ok": true}, nil
	}
}

func (s *Server) amountQuery(key string, query func() (*uint256.Int, error)) handlerFunc {
	return func(json.RawMessage) (interface{}, error) {
		value, err := query()
		if err != nil {
			return nil, err
		}
		return map[string]string{key: value.Dec()}, nil
	}
}

func (s *Server) flagQuery(key string, query func() (bool, error)) handlerFunc {
	return func(json.RawMessage) (interface{}, error) {
		value, err := query()
		if err != nil {
			return nil, err
		}
		return map[string]bool{key: value}, nil
	}
}

func (s *Server) membershipHandler(query func(account [20]byte) (bool, error)) handlerFunc {
	return func(raw json.RawMessage) (interface{}, error) {
		var params accountParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		account, err := parseAddress(params.Account)
		if err != nil {
			return nil, err
		}
		ok, err := query(account)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"member": ok}, nil
	}
}

func (s *Server) handleLoyaltyUpdateMintPrice(raw json.RawMessage) (interface{}, error) {
	var params priceParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount(params.Price)
	if err != nil {
		return nil, err
	}
	if err := s.loyalty.UpdateMintPrice(caller, price); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleLoyaltyUpdateMaxSupply(raw json.RawMessage) (interface{}, error) {
	var params maxSupplyParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	max, err := parseAmount(params.MaxSupply)
	if err != nil {
		return nil, err
	}
	if err := s.loyalty.UpdateMaxSupply(caller, max); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleLoyaltyWithdraw(raw json.RawMessage) (interface{}, error) {
	var params callerParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	drained, err := s.loyalty.Withdraw(caller)
	if err != nil {
		return nil, err
	}
	return map[string]string{"withdrawn": drained.Dec()}, nil
}

func (s *Server) handleLoyaltyBalanceOf(raw json.RawMessage) (interface{}, error) {
	var params accountParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	account, err := parseAddress(params.Account)
	if err != nil {
		return nil, err
	}
	balance, err := s.loyalty.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	return map[string]string{"balance": balance.Dec()}, nil
}

func (s *Server) handleLoyaltyGetUserInfo(raw json.RawMessage) (interface{}, error) {
	var params accountParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	account, err := parseAddress(params.Account)
	if err != nil {
		return nil, err
	}
	profile, err := s.loyalty.GetUserInfo(account)
	if err != nil {
		return nil, err
	}
	return userInfoResult{
		Balance:      profile.Balance.Dec(),
		TotalEarned:  profile.TotalEarned.Dec(),
		TotalSpent:   profile.TotalSpent.Dec(),
		IsActive:     profile.Active,
		RegisteredAt: profile.RegisteredAt,
	}, nil
}

func (s *Server) handleLoyaltyGetTokenInfo(json.RawMessage) (interface{}, error) {
	info, err := s.loyalty.GetTokenInfo()
	if err != nil {
		return nil, err
	}
	minting, err := s.loyalty.MintingEnabled()
	if err != nil {
		return nil, err
	}
	burning, err := s.loyalty.BurningEnabled()
	if err != nil {
		return nil, err
	}
	paused, err := s.loyalty.Paused()
	if err != nil {
		return nil, err
	}
	return tokenInfoResult{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: info.TotalSupply.Dec(),
		MaxSupply:   info.MaxSupply.Dec(),
		MintPrice:   info.MintPrice.Dec(),
		Creator:     formatAddress(info.Creator),
		Minting:     minting,
		Burning:     burning,
		Paused:      paused,
	}, nil
}

func (s *Server) handleLoyaltyGetStats(json.RawMessage) (interface{}, error) {
	stats, err := s.loyalty.GetStats()
	if err != nil {
		return nil, err
	}
	return stats, nil
}
