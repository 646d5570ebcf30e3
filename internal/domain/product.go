package domain

// Product belongs to exactly one shop. ShopID is set from the
// authenticated identity at creation and never changes afterwards.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Photo       string  `json:"-"`
	ShopID      string  `json:"shop_id"`
}

// PhotoURL returns the public path of the product photo, or "" when unset.
func (p Product) PhotoURL() string {
	if p.Photo == "" {
		return ""
	}
	return "/products/" + p.Photo
}
