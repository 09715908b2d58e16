package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/cart-manager/internal/domain"
)

// Store is the byte-store the cart snapshot is persisted to. The key is
// fixed by the implementation; callers only deal in opaque bytes.
type Store interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, data []byte) error
}

var ErrNoSnapshot = errors.New("no snapshot stored")

// Encode serializes the cart so that entry order and quantities survive
// a round-trip.
func Encode(cart domain.Cart) ([]byte, error) {
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// Decode restores a cart from a serialized snapshot.
func Decode(data []byte) (domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart, nil
}
