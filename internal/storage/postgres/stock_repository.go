package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/drivncook/fleetops/internal/domain"
)

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository создаёт PostgreSQL-реализацию StockRepository.
func NewStockRepository(store *Store) domain.StockRepository {
	return &stockRepository{db: store.DB()}
}

func (r *stockRepository) List() ([]domain.Stock, error) {
	return r.query(`
		SELECT product_id, warehouse_id, available_quantity
		FROM stocks
		ORDER BY warehouse_id, product_id
	`)
}

func (r *stockRepository) ListByWarehouse(warehouseID string) ([]domain.Stock, error) {
	return r.query(`
		SELECT product_id, warehouse_id, available_quantity
		FROM stocks
		WHERE warehouse_id = $1
		ORDER BY product_id
	`, warehouseID)
}

func (r *stockRepository) query(q string, args ...any) ([]domain.Stock, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select stocks: %w", err)
	}
	defer rows.Close()

	var result []domain.Stock
	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.AvailableQuantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stocks: %w", err)
	}

	return result, nil
}

var _ domain.StockRepository = (*stockRepository)(nil)
