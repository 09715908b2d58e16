package view

import (
	"context"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fjod/cart-manager/internal/domain"
	"github.com/fjod/cart-manager/internal/store"
)

// Line is one cart entry enriched with display-only derived data.
type Line struct {
	domain.CartEntry
	PriceFormatted    string `json:"price_formatted"`
	SubtotalFormatted string `json:"subtotal_formatted"`
}

// View reads the store and derives presentation data. It never mutates
// the cart itself; user intents are forwarded to the store operations.
type View struct {
	store *store.CartStore
}

func New(s *store.CartStore) *View {
	return &View{store: s}
}

// Lines returns the cart in insertion order with formatted prices.
func (v *View) Lines() []Line {
	entries := v.store.Entries()
	lines := make([]Line, len(entries))
	for i, e := range entries {
		lines[i] = Line{
			CartEntry:         e,
			PriceFormatted:    FormatPrice(e.Price),
			SubtotalFormatted: FormatPrice(e.Subtotal()),
		}
	}
	return lines
}

// Total returns the formatted grand total over all lines.
func (v *View) Total() string {
	return FormatPrice(v.store.Entries().Total())
}

func (v *View) Add(ctx context.Context, productID int64) error {
	return v.store.AddProduct(ctx, productID)
}

// Update forwards an explicit quantity request to the store.
func (v *View) Update(ctx context.Context, productID int64, amount int) error {
	return v.store.UpdateProductAmount(ctx, productID, amount)
}

// Increment asks for one unit more than the line currently shows.
func (v *View) Increment(ctx context.Context, productID int64) error {
	current, _ := v.store.Entries().Find(productID)
	return v.store.UpdateProductAmount(ctx, productID, current.Quantity+1)
}

// Decrement asks for one unit less. On a quantity-1 line the requested
// amount is zero, which the store ignores; the line stays at 1.
func (v *View) Decrement(ctx context.Context, productID int64) error {
	current, ok := v.store.Entries().Find(productID)
	if !ok {
		return store.ErrNotFound
	}
	return v.store.UpdateProductAmount(ctx, productID, current.Quantity-1)
}

func (v *View) Remove(ctx context.Context, productID int64) error {
	return v.store.RemoveProduct(ctx, productID)
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatPrice renders a value as Brazilian reais, e.g. "R$ 1.234,56".
func FormatPrice(value float64) string {
	return printer.Sprint(currency.Symbol(currency.BRL.Amount(value)))
}
