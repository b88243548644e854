package memory

import (
	"sort"
	"sync"

	"github.com/drivncook/fleetops/internal/domain"
)

// TruckRepository — in-memory справочник траков.
type TruckRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Truck
}

// NewTruckRepository возвращает пустой справочник траков.
func NewTruckRepository() *TruckRepository {
	return &TruckRepository{
		items: make(map[string]domain.Truck),
	}
}

// List возвращает траки, отсортированные по бортовому номеру.
func (r *TruckRepository) List() ([]domain.Truck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Truck, 0, len(r.items))
	for _, t := range r.items {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Number != result[j].Number {
			return result[i].Number < result[j].Number
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Get возвращает трак или ErrTruckNotFound.
func (r *TruckRepository) Get(id string) (domain.Truck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return domain.Truck{}, domain.ErrTruckNotFound
	}
	return t, nil
}

// ReplaceAll заменяет снапшот целиком.
func (r *TruckRepository) ReplaceAll(trucks []domain.Truck) {
	next := make(map[string]domain.Truck, len(trucks))
	for _, t := range trucks {
		next[t.ID] = t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = next
}

var _ domain.TruckRepository = (*TruckRepository)(nil)
