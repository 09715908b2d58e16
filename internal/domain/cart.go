package domain

// CartEntry is one product line item in the cart. Quantity is the only
// field that changes after the entry is created.
type CartEntry struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns the line total for this entry.
func (e CartEntry) Subtotal() float64 {
	return e.Price * float64(e.Quantity)
}

// Cart is the ordered list of entries. Insertion order is preserved and
// no two entries share a ProductID.
type Cart []CartEntry

// IndexOf returns the position of the entry for productID, or -1.
func (c Cart) IndexOf(productID int64) int {
	for i, e := range c {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

// Find returns the entry for productID and whether it exists.
func (c Cart) Find(productID int64) (CartEntry, bool) {
	if i := c.IndexOf(productID); i >= 0 {
		return c[i], true
	}
	return CartEntry{}, false
}

// Clone returns a copy that shares no backing storage with c.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Total sums the subtotals of all entries.
func (c Cart) Total() float64 {
	var sum float64
	for _, e := range c {
		sum += e.Subtotal()
	}
	return sum
}
