package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/drivncook/fleetops/internal/domain"
)

const assignmentColumns = `id, truck_id, location_id, start_date, end_date, start_time, end_time, status`

type assignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository создаёт PostgreSQL-реализацию AssignmentRepository.
func NewAssignmentRepository(store *Store) domain.AssignmentRepository {
	return &assignmentRepository{db: store.DB()}
}

func (r *assignmentRepository) List() ([]domain.Assignment, error) {
	return r.query(`
		SELECT ` + assignmentColumns + `
		FROM assignments
		ORDER BY start_date DESC, id
	`)
}

func (r *assignmentRepository) ListByTruck(truckID string) ([]domain.Assignment, error) {
	return r.query(`
		SELECT `+assignmentColumns+`
		FROM assignments
		WHERE truck_id = $1
		ORDER BY start_date DESC, id
	`, truckID)
}

func (r *assignmentRepository) ListByLocation(locationID string) ([]domain.Assignment, error) {
	return r.query(`
		SELECT `+assignmentColumns+`
		FROM assignments
		WHERE location_id = $1
		ORDER BY start_date DESC, id
	`, locationID)
}

func (r *assignmentRepository) query(q string, args ...any) ([]domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var endDate sql.NullTime
		var status string
		err := rows.Scan(
			&a.ID,
			&a.TruckID,
			&a.LocationID,
			&a.StartDate,
			&endDate,
			&a.StartTime,
			&a.EndTime,
			&status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if endDate.Valid {
			a.EndDate = endDate.Time
		}
		a.Status = domain.AssignmentStatus(status)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}

	return result, nil
}

var _ domain.AssignmentRepository = (*assignmentRepository)(nil)
