package rpc

import "encoding/json"

func (s *Server) registerBankHandlers() {
	s.methods["bank_getBalance"] = s.handleBankGetBalance
}

func (s *Server) handleBankGetBalance(raw json.RawMessage) (interface{}, error) {
	var params accountParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	account, err := parseAddress(params.Account)
	if err != nil {
		return nil, err
	}
	record, err := s.balances.GetAccount(account)
	if err != nil {
		return nil, err
	}
	return map[string]string{"balanceWei": record.BalanceWei.Dec()}, nil
}
