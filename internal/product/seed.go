package product

// DefaultCatalog is the sample catalogue the dev backend starts with when no
// database is configured.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID: 1, SKU: "MJ-001", Name: "Classic Denim Jacket", Price: "89.99",
			Category: "Jackets", Image: "/static/images/products/denim-jacket.jpg",
			Description: "Stonewashed denim jacket with a relaxed fit",
			Sizes:       []string{"S", "M", "L", "XL"}, Colors: []string{"Blue", "Black"},
			Gender: GenderMen, IsActive: true,
		},
		{
			ID: 2, SKU: "MT-014", Name: "Linen Summer Shirt", Price: "45.00",
			Category: "Shirts", Image: "/static/images/products/linen-shirt.jpg",
			Description: "Breathable linen shirt for warm days",
			Sizes:       []string{"M", "L", "XL"}, Colors: []string{"White", "Sand"},
			Gender: GenderMen, IsActive: true,
		},
		{
			ID: 3, SKU: "MP-007", Name: "Slim Chino Trousers", Price: "59.50",
			Category: "Trousers", Image: "/static/images/products/chino.jpg",
			Description: "Stretch cotton chinos with a tapered leg",
			Sizes:       []string{"30", "32", "34", "36"}, Colors: []string{"Khaki", "Navy"},
			Gender: GenderMen, IsActive: true,
		},
		{
			ID: 4, SKU: "WD-021", Name: "Wrap Midi Dress", Price: "74.00",
			Category: "Dresses", Image: "/static/images/products/wrap-dress.jpg",
			Description: "Floral wrap dress with a tie waist",
			Sizes:       []string{"XS", "S", "M", "L"}, Colors: []string{"Red", "Green"},
			Gender: GenderWomen, IsActive: true,
		},
		{
			ID: 5, SKU: "WJ-003", Name: "Cropped Denim Jacket", Price: "79.99",
			Category: "Jackets", Image: "/static/images/products/cropped-jacket.jpg",
			Description: "Cropped jacket in light wash denim",
			Sizes:       []string{"XS", "S", "M"}, Colors: []string{"Light Blue"},
			Gender: GenderWomen, IsActive: true,
		},
		{
			ID: 6, SKU: "WK-010", Name: "Cable Knit Sweater", Price: "65.00",
			Category: "Knitwear", Image: "/static/images/products/cable-knit.jpg",
			Description: "Chunky cable knit in soft wool blend",
			Sizes:       []string{"S", "M", "L"}, Colors: []string{"Cream", "Grey"},
			Gender: GenderWomen, IsActive: true,
		},
	}
}
