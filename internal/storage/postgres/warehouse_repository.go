package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/drivncook/fleetops/internal/domain"
)

const opTimeout = 5 * time.Second

type warehouseRepository struct {
	db *sql.DB
}

// NewWarehouseRepository создаёт PostgreSQL-реализацию WarehouseRepository.
func NewWarehouseRepository(store *Store) domain.WarehouseRepository {
	return &warehouseRepository{db: store.DB()}
}

func (r *warehouseRepository) List() ([]domain.Warehouse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category
		FROM warehouses
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}
	defer rows.Close()

	var result []domain.Warehouse
	for rows.Next() {
		var (
			w        domain.Warehouse
			category string
		)
		if err := rows.Scan(&w.ID, &w.Name, &category); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		w.Category = domain.WarehouseCategory(category)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouses: %w", err)
	}

	return result, nil
}

func (r *warehouseRepository) Get(id string) (domain.Warehouse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		w        domain.Warehouse
		category string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, category
		FROM warehouses
		WHERE id = $1
	`, id).Scan(&w.ID, &w.Name, &category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Warehouse{}, domain.ErrWarehouseNotFound
		}
		return domain.Warehouse{}, fmt.Errorf("select warehouse: %w", err)
	}
	w.Category = domain.WarehouseCategory(category)

	return w, nil
}

var _ domain.WarehouseRepository = (*warehouseRepository)(nil)
