package loyalty

import "errors"

var (
	// Authorization failures.
	ErrNotOwner     = errors.New("loyalty: caller is not the owner")
	ErrUnauthorized = errors.New("loyalty: unauthorized")

	// Validation failures.
	ErrZeroAddress         = errors.New("loyalty: zero address")
	ErrZeroAmount          = errors.New("loyalty: amount must be greater than zero")
	ErrInsufficientPayment = errors.New("loyalty: insufficient payment")
	ErrInsufficientFunds   = errors.New("loyalty: attached value exceeds account balance")
	ErrAmountOverflow      = errors.New("loyalty: amount overflow")

	// State failures.
	ErrPaused              = errors.New("loyalty: ledger paused")
	ErrNotPaused           = errors.New("loyalty: ledger not paused")
	ErrMintingDisabled     = errors.New("loyalty: minting disabled")
	ErrBurningDisabled     = errors.New("loyalty: burning disabled")
	ErrSupplyExceeded      = errors.New("loyalty: exceeds max supply")
	ErrBelowCurrentSupply  = errors.New("loyalty: max supply below current supply")
	ErrInsufficientBalance = errors.New("loyalty: insufficient balance")
	ErrAlreadyInRole       = errors.New("loyalty: account already holds role")
	ErrNotInRole           = errors.New("loyalty: account does not hold role")
	ErrCannotRemoveOwner   = errors.New("loyalty: cannot remove owner from role")
	ErrAlreadyRegistered   = errors.New("loyalty: user already registered")
	ErrNotRegistered       = errors.New("loyalty: user not registered")
	ErrNothingToWithdraw   = errors.New("loyalty: nothing to withdraw")
	ErrNotInitialized      = errors.New("loyalty: token state not initialized")
	ErrAlreadyInitialized  = errors.New("loyalty: token state already initialized")
)
