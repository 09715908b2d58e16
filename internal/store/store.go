package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/fjod/cart-manager/internal/catalog"
	"github.com/fjod/cart-manager/internal/domain"
	"github.com/fjod/cart-manager/internal/notify"
	"github.com/fjod/cart-manager/internal/snapshot"
)

// CartStore owns the in-memory cart. All mutations go through stock
// validation and end with a commit that persists the new snapshot before
// it becomes visible. The mutex is held across validate-then-commit, so
// two mutations can never interleave against a stale cart.
type CartStore struct {
	mu       sync.Mutex
	cart     domain.Cart
	snap     snapshot.Store
	catalog  catalog.Lookup
	notifier notify.Notifier
	watchers []func(domain.Cart)
}

// New builds a store seeded from the persisted snapshot. A missing or
// unreadable snapshot means an empty cart, never an error.
func New(ctx context.Context, snap snapshot.Store, lookup catalog.Lookup, notifier notify.Notifier) *CartStore {
	s := &CartStore{
		snap:     snap,
		catalog:  lookup,
		notifier: notifier,
	}

	data, err := snap.Get(ctx)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNoSnapshot) {
			log.Printf("snapshot read failed, starting empty: %v", err)
		}
		return s
	}

	cart, err := snapshot.Decode(data)
	if err != nil {
		log.Printf("snapshot decode failed, starting empty: %v", err)
		return s
	}

	s.cart = cart
	return s
}

// Entries returns a copy of the current cart in insertion order.
func (s *CartStore) Entries() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Watch registers fn to be called with the new cart after every
// committed mutation. Must be called before the store is in use.
func (s *CartStore) Watch(fn func(domain.Cart)) {
	s.watchers = append(s.watchers, fn)
}

// AddProduct puts one more unit of productID into the cart: an existing
// entry is incremented, otherwise product data is fetched and a new
// entry with quantity 1 is appended.
func (s *CartStore) AddProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.cart.Find(productID)
	target := 1
	if exists {
		target = existing.Quantity + 1
	}

	stock, err := s.catalog.StockFor(ctx, productID)
	if err != nil {
		s.notifier.Notify(notify.MsgAddFailed)
		return fmt.Errorf("stock lookup for product %d: %w", productID, err)
	}
	if target > stock.Amount {
		s.notifier.Notify(notify.MsgStockExceeded)
		return ErrStockExceeded
	}

	updated := s.cart.Clone()
	if exists {
		updated[updated.IndexOf(productID)].Quantity = target
	} else {
		product, err := s.catalog.ProductFor(ctx, productID)
		if err != nil {
			s.notifier.Notify(notify.MsgAddFailed)
			return fmt.Errorf("product lookup for product %d: %w", productID, err)
		}
		updated = append(updated, domain.CartEntry{
			ProductID: product.ID,
			Title:     product.Title,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  1,
		})
	}

	s.commit(ctx, updated)
	return nil
}

// RemoveProduct deletes the entry for productID, preserving the order of
// the remaining entries.
func (s *CartStore) RemoveProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.IndexOf(productID)
	if i < 0 {
		s.notifier.Notify(notify.MsgRemoveFailed)
		return ErrNotFound
	}

	updated := s.cart.Clone()
	updated = append(updated[:i], updated[i+1:]...)

	s.commit(ctx, updated)
	return nil
}

// UpdateProductAmount sets the quantity of an existing entry to amount.
// A non-positive amount is ignored entirely: no error, no notification.
// Stock is validated against the requested amount, not the delta from
// the current quantity.
func (s *CartStore) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stock, err := s.catalog.StockFor(ctx, productID)
	if err != nil {
		s.notifier.Notify(notify.MsgUpdateFailed)
		return fmt.Errorf("stock lookup for product %d: %w", productID, err)
	}
	if amount > stock.Amount {
		s.notifier.Notify(notify.MsgStockExceeded)
		return ErrStockExceeded
	}

	i := s.cart.IndexOf(productID)
	if i < 0 {
		s.notifier.Notify(notify.MsgUpdateFailed)
		return ErrNotFound
	}

	updated := s.cart.Clone()
	updated[i].Quantity = amount

	s.commit(ctx, updated)
	return nil
}

// ReconcileStock applies an externally pushed stock level: if the cart
// holds more of productID than is now available, the entry is clamped,
// or removed when nothing is available. No lookups are performed.
func (s *CartStore) ReconcileStock(ctx context.Context, productID int64, available int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.IndexOf(productID)
	if i < 0 || s.cart[i].Quantity <= available {
		return nil
	}

	updated := s.cart.Clone()
	if available <= 0 {
		updated = append(updated[:i], updated[i+1:]...)
	} else {
		updated[i].Quantity = available
	}

	s.notifier.Notify(notify.MsgStockExceeded)
	s.commit(ctx, updated)
	return nil
}

// commit persists cart and swaps it in. Callers hold the mutex. A failed
// snapshot write is logged and not rolled back: the byte-store is
// last-writer-wins and the next commit rewrites the full snapshot.
func (s *CartStore) commit(ctx context.Context, cart domain.Cart) {
	data, err := snapshot.Encode(cart)
	if err != nil {
		log.Printf("snapshot encode failed: %v", err)
	} else if err := s.snap.Set(ctx, data); err != nil {
		log.Printf("snapshot write failed: %v", err)
	}

	s.cart = cart
	for _, fn := range s.watchers {
		fn(cart.Clone())
	}
}
