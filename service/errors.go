package service

import "errors"

// Typed failure kinds returned by the services. The transport layer maps
// these onto HTTP status codes; the engine itself never partially commits on
// any of them.
var (
	// ErrInvalidQuantity is returned for a non-positive share quantity
	ErrInvalidQuantity = errors.New("share quantity must be a positive whole number")

	// ErrInvalidAmount is returned for a non-positive deposit amount
	ErrInvalidAmount = errors.New("deposit amount must be positive")

	// ErrUnknownSymbol is returned when the quote provider does not
	// recognize the requested symbol
	ErrUnknownSymbol = errors.New("unknown stock symbol")

	// ErrInsufficientFunds is returned when a purchase would cost more than
	// the user's cash balance
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares is returned when a sale asks for more shares
	// than the user holds
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrUsernameTaken is returned when registering an existing username
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned for a failed username/password or
	// old-password check
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound is returned when an operation references a missing user
	ErrUserNotFound = errors.New("user not found")
)
