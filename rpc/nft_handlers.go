package rpc

import (
	"encoding/json"

	"moduschain/native/nft"
)

type nftMintParams struct {
	Caller      string `json:"caller"`
	To          string `json:"to"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURI    string `json:"imageURI"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity,omitempty"`
	Level       uint64 `json:"level,omitempty"`
}

type nftMetadataParams struct {
	Caller      string `json:"caller"`
	TokenID     uint64 `json:"tokenId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type nftListParams struct {
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
	Price   string `json:"price"`
}

type nftTokenParams struct {
	Caller  string `json:"caller,omitempty"`
	TokenID uint64 `json:"tokenId"`
}

type nftBuyParams struct {
	Caller  string `json:"caller"`
	TokenID uint64 `json:"tokenId"`
	Value   string `json:"value"`
}

type nftTransferParams struct {
	Caller  string `json:"caller"`
	To      string `json:"to"`
	TokenID uint64 `json:"tokenId"`
}

type nftMetadataResult struct {
	TokenID     uint64 `json:"tokenId"`
	Owner       string `json:"owner"`
	Creator     string `json:"creator"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURI    string `json:"imageURI"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity,omitempty"`
	Level       uint64 `json:"level,omitempty"`
	IsForSale   bool   `json:"isForSale"`
	Price       string `json:"price"`
	MintedAt    uint64 `json:"mintedAt"`
}

func assetResult(asset *nft.Asset) nftMetadataResult {
	return nftMetadataResult{
		TokenID:     asset.TokenID,
		Owner:       formatAddress(asset.Owner),
		Creator:     formatAddress(asset.Creator),
		URI:         asset.URI,
		Name:        asset.Name,
		Description: asset.Description,
		ImageURI:    asset.ImageURI,
		Category:    asset.Category,
		Rarity:      asset.Rarity,
		Level:       asset.Level,
		IsForSale:   asset.ForSale,
		Price:       asset.Price.Dec(),
		MintedAt:    asset.MintedAt,
	}
}

func (s *Server) registerNFTHandlers() {
	s.methods["nft_mint"] = s.handleNFTMint
	s.methods["nft_updateMetadata"] = s.handleNFTUpdateMetadata
	s.methods["nft_putForSale"] = s.handleNFTPutForSale
	s.methods["nft_removeFromSale"] = s.handleNFTRemoveFromSale
	s.methods["nft_updatePrice"] = s.handleNFTUpdatePrice
	s.methods["nft_buy"] = s.handleNFTBuy
	s.methods["nft_transfer"] = s.handleNFTTransfer
	s.methods["nft_burn"] = s.handleNFTBurn
	s.methods["nft_ownerOf"] = s.handleNFTOwnerOf
	s.methods["nft_tokenURI"] = s.handleNFTTokenURI
	s.methods["nft_getMetadata"] = s.handleNFTGetMetadata
	s.methods["nft_totalSupply"] = s.handleNFTTotalSupply
	s.methods["nft_creatorCount"] = s.handleNFTCreatorCount
	s.methods["nft_getUserNFTs"] = s.handleNFTGetUserNFTs
	s.methods["nft_getNFTsForSale"] = s.handleNFTGetForSale
	s.methods["nft_getStats"] = s.handleNFTGetStats
}

func (s *Server) handleNFTMint(raw json.RawMessage) (interface{}, error) {
	var params nftMintParams
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
	asset, err := s.nft.Mint(caller, nft.MintParams{
		To:          to,
		URI:         params.URI,
		Name:        params.Name,
		Description: params.Description,
		ImageURI:    params.ImageURI,
		Category:    params.Category,
		Rarity:      params.Rarity,
		Level:       params.Level,
	})
	if err != nil {
		return nil, err
	}
	return assetResult(asset), nil
}

func (s *Server) handleNFTUpdateMetadata(raw json.RawMessage) (interface{}, error) {
	var params nftMetadataParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	if err := s.nft.UpdateMetadata(caller, params.TokenID, params.Name, params.Description); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleNFTPutForSale(raw json.RawMessage) (interface{}, error) {
	var params nftListParams
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
	if err := s.nft.PutForSale(caller, params.TokenID, price); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleNFTRemoveFromSale(raw json.RawMessage) (interface{}, error) {
	var params nftTokenParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	if err := s.nft.RemoveFromSale(caller, params.TokenID); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleNFTUpdatePrice(raw json.RawMessage) (interface{}, error) {
	var params nftListParams
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
	if err := s.nft.UpdatePrice(caller, params.TokenID, price); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleNFTBuy(raw json.RawMessage) (interface{}, error) {
	var params nftBuyParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	value, err := parseAmount(params.Value)
	if err != nil {
		return nil, err
	}
	if err := s.nft.Buy(caller, params.TokenID, value); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleNFTTransfer(raw json.RawMessage) (interface{}, error) {
	var params nftTransferParams
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
	if err := s.nft.Transfer(caller, to, params.TokenID); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleNFTBurn(raw json.RawMessage) (interface{}, error) {
	var params nftTokenParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return nil, err
	}
	if err := s.nft.Burn(caller, params.TokenID); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleNFTOwnerOf(raw json.RawMessage) (interface{}, error) {
	var params nftTokenParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	owner, err := s.nft.OwnerOf(params.TokenID)
	if err != nil {
		return nil, err
	}
	return map[string]string{"owner": formatAddress(owner)}, nil
}

func (s *Server) handleNFTTokenURI(raw json.RawMessage) (interface{}, error) {
	var params nftTokenParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	uri, err := s.nft.TokenURI(params.TokenID)
	if err != nil {
		return nil, err
	}
	return map[string]string{"uri": uri}, nil
}

func (s *Server) handleNFTGetMetadata(raw json.RawMessage) (interface{}, error) {
	var params nftTokenParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	asset, err := s.nft.Metadata(params.TokenID)
	if err != nil {
		return nil, err
	}
	return assetResult(asset), nil
}

func (s *Server) handleNFTTotalSupply(json.RawMessage) (interface{}, error) {
	total, err := s.nft.TotalSupply()
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"totalSupply": total}, nil
}

func (s *Server) handleNFTCreatorCount(raw json.RawMessage) (interface{}, error) {
	var params accountParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	account, err := parseAddress(params.Account)
	if err != nil {
		return nil, err
	}
	count, err := s.nft.CreatorCount(account)
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"count": count}, nil
}

func (s *Server) handleNFTGetUserNFTs(raw json.RawMessage) (interface{}, error) {
	var params accountParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	account, err := parseAddress(params.Account)
	if err != nil {
		return nil, err
	}
	ids, err := s.nft.UserNFTs(account)
	if err != nil {
		return nil, err
	}
	return map[string][]uint64{"tokenIds": ids}, nil
}

func (s *Server) handleNFTGetForSale(json.RawMessage) (interface{}, error) {
	ids, err := s.nft.NFTsForSale()
	if err != nil {
		return nil, err
	}
	return map[string][]uint64{"tokenIds": ids}, nil
}

func (s *Server) handleNFTGetStats(json.RawMessage) (interface{}, error) {
	stats, err := s.nft.Stats()
	if err != nil {
		return nil, err
	}
	return stats, nil
}
