package memory

import (
	"sort"
	"sync"

	"github.com/drivncook/fleetops/internal/domain"
)

// ProductRepository — in-memory каталог продуктов.
type ProductRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает пустой каталог.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		items: make(map[string]domain.Product),
	}
}

// List возвращает продукты, отсортированные по названию.
func (r *ProductRepository) List() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, p := range r.items {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Get возвращает продукт или ErrProductNotFound.
func (r *ProductRepository) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// ReplaceAll заменяет снапшот целиком.
func (r *ProductRepository) ReplaceAll(products []domain.Product) {
	next := make(map[string]domain.Product, len(products))
	for _, p := range products {
		next[p.ID] = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = next
}

var _ domain.ProductRepository = (*ProductRepository)(nil)
