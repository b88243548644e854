package memory

import (
	"sort"
	"sync"

	"github.com/drivncook/fleetops/internal/domain"
)

// StockRepository — in-memory снапшот остатков. Ключ записи — пара
// продукт+склад, как и во внешней системе.
type StockRepository struct {
	mu    sync.RWMutex
	items []domain.Stock
}

// NewStockRepository возвращает пустой снапшот остатков.
func NewStockRepository() *StockRepository {
	return &StockRepository{}
}

// List возвращает остатки, отсортированные по складу и продукту.
func (r *StockRepository) List() ([]domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Stock, len(r.items))
	copy(result, r.items)
	sortStocks(result)
	return result, nil
}

// ListByWarehouse возвращает остатки одного склада.
func (r *StockRepository) ListByWarehouse(warehouseID string) ([]domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Stock, 0, len(r.items))
	for _, s := range r.items {
		if s.WarehouseID == warehouseID {
			result = append(result, s)
		}
	}
	sortStocks(result)
	return result, nil
}

// ReplaceAll заменяет снапшот целиком, схлопывая дубли по паре продукт+склад.
func (r *StockRepository) ReplaceAll(stocks []domain.Stock) {
	type key struct{ productID, warehouseID string }
	seen := make(map[key]int, len(stocks))
	next := make([]domain.Stock, 0, len(stocks))
	for _, s := range stocks {
		k := key{productID: s.ProductID, warehouseID: s.WarehouseID}
		if idx, ok := seen[k]; ok {
			next[idx] = s
			continue
		}
		seen[k] = len(next)
		next = append(next, s)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = next
}

func sortStocks(stocks []domain.Stock) {
	sort.Slice(stocks, func(i, j int) bool {
		if stocks[i].WarehouseID != stocks[j].WarehouseID {
			return stocks[i].WarehouseID < stocks[j].WarehouseID
		}
		return stocks[i].ProductID < stocks[j].ProductID
	})
}

var _ domain.StockRepository = (*StockRepository)(nil)
