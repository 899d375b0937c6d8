package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when credentials are wrong or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserExists is returned when a username or email is already taken
	ErrUserExists = errors.New("username or email already registered")

	// ErrOfferNotFound is returned when an offer does not exist or is not sellable
	ErrOfferNotFound = errors.New("offer not found")

	// ErrStockExceeded is returned when the requested quantity is above the
	// offer's available stock
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")

	// ErrEmptyBasket is returned when confirming a basket with no items
	ErrEmptyBasket = errors.New("basket is empty")

	// ErrNotBasket is returned when the order is not in basket status
	ErrNotBasket = errors.New("order is not an open basket")

	// ErrContactNotFound is returned when a contact does not exist or is not owned
	ErrContactNotFound = errors.New("contact not found")
)
