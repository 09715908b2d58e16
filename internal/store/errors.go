package store

import "errors"

var (
	// ErrStockExceeded means the requested quantity is above what the
	// catalog reports as available. The cart is left untouched.
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")

	// ErrNotFound means the mutation targeted a product that is not in
	// the cart. Removing or updating an absent product is a failure,
	// not a no-op.
	ErrNotFound = errors.New("product not in cart")
)
