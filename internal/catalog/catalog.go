package catalog

import (
	"context"
	"errors"

	"github.com/fjod/cart-manager/internal/domain"
)

// Lookup is the read-only view of the remote catalog the cart needs:
// availability and descriptive product data. Consumers define this
// interface, not the HTTP implementation.
type Lookup interface {
	StockFor(ctx context.Context, productID int64) (domain.Stock, error)
	ProductFor(ctx context.Context, productID int64) (domain.Product, error)
}

var ErrProductNotFound = errors.New("product not found")
