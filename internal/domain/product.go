package domain

// Product is the descriptive catalog data for a purchasable item.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Stock is the externally authoritative availability figure for a product.
type Stock struct {
	ProductID int64 `json:"id"`
	Amount    int   `json:"amount"`
}
