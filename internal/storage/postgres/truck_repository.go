package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drivncook/fleetops/internal/domain"
)

type truckRepository struct {
	db *sql.DB
}

// NewTruckRepository создаёт PostgreSQL-реализацию TruckRepository.
func NewTruckRepository(store *Store) domain.TruckRepository {
	return &truckRepository{db: store.DB()}
}

func (r *truckRepository) List() ([]domain.Truck, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, franchise_id, status
		FROM trucks
		ORDER BY number, id
	`)
	if err != nil {
		return nil, fmt.Errorf("select trucks: %w", err)
	}
	defer rows.Close()

	var result []domain.Truck
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trucks: %w", err)
	}

	return result, nil
}

func (r *truckRepository) Get(id string) (domain.Truck, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, number, franchise_id, status
		FROM trucks
		WHERE id = $1
	`, id)

	t, err := scanTruck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Truck{}, domain.ErrTruckNotFound
	}
	if err != nil {
		return domain.Truck{}, err
	}

	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTruck(row rowScanner) (domain.Truck, error) {
	var t domain.Truck
	var status string
	if err := row.Scan(&t.ID, &t.Number, &t.FranchiseID, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Truck{}, err
		}
		return domain.Truck{}, fmt.Errorf("scan truck: %w", err)
	}
	t.Status = domain.TruckStatus(status)
	return t, nil
}

var _ domain.TruckRepository = (*truckRepository)(nil)
