package catalog

// Product holds the catalog attributes used for enrichment.
type Product struct {
	ID       int
	Title    string
	Category string
	Brand    string
	Price    float64
	Rating   float64
}

// Service provides in-memory lookup over the product catalog.
type Service struct {
	products []Product
	byID     map[int]Product
}

// NewService creates a Service from a product list. Entries without a usable
// integer identifier are skipped, mirroring how a raw provider payload is
// normalized into the lookup mapping.
func NewService(products []Product) *Service {
	byID := make(map[int]Product, len(products))
	var kept []Product
	for _, p := range products {
		if p.ID <= 0 {
			continue
		}
		if _, seen := byID[p.ID]; !seen {
			kept = append(kept, p)
		}
		byID[p.ID] = p
	}
	return &Service{products: kept, byID: byID}
}

// All returns the normalized products.
func (s *Service) All() []Product {
	return s.products
}

// Get returns a product by numeric ID.
func (s *Service) Get(id int) (Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Exists reports whether a product ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of products in the mapping.
func (s *Service) Len() int {
	return len(s.byID)
}
