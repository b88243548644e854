package memory

import (
	"sort"
	"sync"

	"github.com/drivncook/fleetops/internal/domain"
)

// WarehouseRepository — in-memory справочник складов. Снапшот заменяется
// целиком через ReplaceAll при синхронизации с внешней системой.
type WarehouseRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Warehouse
}

// NewWarehouseRepository возвращает пустой справочник складов.
func NewWarehouseRepository() *WarehouseRepository {
	return &WarehouseRepository{
		items: make(map[string]domain.Warehouse),
	}
}

// List возвращает склады, отсортированные по названию.
func (r *WarehouseRepository) List() ([]domain.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Warehouse, 0, len(r.items))
	for _, w := range r.items {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Get возвращает склад или ErrWarehouseNotFound.
func (r *WarehouseRepository) Get(id string) (domain.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.items[id]
	if !ok {
		return domain.Warehouse{}, domain.ErrWarehouseNotFound
	}
	return w, nil
}

// ReplaceAll заменяет снапшот целиком.
func (r *WarehouseRepository) ReplaceAll(warehouses []domain.Warehouse) {
	next := make(map[string]domain.Warehouse, len(warehouses))
	for _, w := range warehouses {
		next[w.ID] = w
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = next
}

var _ domain.WarehouseRepository = (*WarehouseRepository)(nil)
