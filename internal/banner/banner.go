package banner

// Banner is one hero slide served by GET /banners.
type Banner struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
	Alt   string `json:"alt,omitempty"`
}

// DefaultBanners is what the dev backend serves without a database.
func DefaultBanners() []Banner {
	return []Banner{
		{ID: 1, Image: "/static/images/hero/new-season.jpg", Link: "/products?gender=women", Alt: "New season"},
		{ID: 2, Image: "/static/images/hero/denim.jpg", Link: "/products?category=jackets", Alt: "Denim week"},
		{ID: 3, Image: "/static/images/hero/mens-basics.jpg", Link: "/products?gender=men", Alt: "Men's basics"},
	}
}
