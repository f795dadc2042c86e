package banner

import "sync"

// Repository provides access to banner items.
type Repository interface {
	List(limit int) ([]Banner, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	banners []Banner
}

func NewInMemoryRepository(seed []Banner) *InMemoryRepository {
	return &InMemoryRepository{banners: append([]Banner(nil), seed...)}
}

func (r *InMemoryRepository) List(limit int) ([]Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := min(limit, len(r.banners))
	out := make([]Banner, n)
	copy(out, r.banners[:n])
	return out, nil
}
