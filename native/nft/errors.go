package nft

import "errors"

var (
	// Authorization failures.
	ErrNotOwner      = errors.New("nft: caller is not the contract owner")
	ErrNotTokenOwner = errors.New("nft: caller is not the token owner")

	// Validation failures.
	ErrZeroAddress         = errors.New("nft: zero address")
	ErrEmptyField          = errors.New("nft: required field empty")
	ErrZeroPrice           = errors.New("nft: price must be greater than zero")
	ErrInsufficientPayment = errors.New("nft: insufficient payment")
	ErrInsufficientFunds   = errors.New("nft: attached value exceeds account balance")

	// State failures.
	ErrNotForSale        = errors.New("nft: token not for sale")
	ErrCannotBuyOwnToken = errors.New("nft: cannot buy own token")

	// Not-found failures.
	ErrTokenNotFound = errors.New("nft: token not found")
)
