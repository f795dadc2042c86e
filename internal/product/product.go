package product

import "strings"

// Product maps to the `products` table. Price is kept as text to match the
// catalogue import format ("49.99").
type Product struct {
	ID          int      `json:"id"`
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Gender      string   `json:"gender"`
	IsActive    bool     `json:"-"`
}

// Filter narrows a product listing. Zero values match everything.
type Filter struct {
	Gender   string
	Category string
}

// Match reports whether p passes the filter: gender compares lower-cased,
// category is a case-insensitive substring match. Inactive products never match.
func (f Filter) Match(p Product) bool {
	if !p.IsActive {
		return false
	}
	if f.Gender != "" && p.Gender != strings.ToLower(f.Gender) {
		return false
	}
	if f.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(f.Category)) {
		return false
	}
	return true
}

// Genders served by the storefront sections.
const (
	GenderMen   = "men"
	GenderWomen = "women"
)
