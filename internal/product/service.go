package product

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(f Filter) []Product {
	return s.repo.List(f)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GetBySKU(sku string) (Product, error) {
	return s.repo.GetBySKU(sku)
}

func (s *Service) Categories() []string {
	return s.repo.Categories()
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(products []Product) error {
	for i := range products {
		products[i].IsActive = true
	}
	return s.repo.Reset(products)
}
