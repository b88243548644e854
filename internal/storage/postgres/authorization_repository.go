package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/drivncook/fleetops/internal/domain"
)

type authorizationRepository struct {
	db *sql.DB
}

// NewAuthorizationRepository создаёт PostgreSQL-реализацию AuthorizationRepository.
func NewAuthorizationRepository(store *Store) domain.AuthorizationRepository {
	return &authorizationRepository{db: store.DB()}
}

func (r *authorizationRepository) ListByFranchise(franchiseID string) ([]domain.LocationAuthorization, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT franchise_id, location_id, active, expires_at
		FROM location_authorizations
		WHERE franchise_id = $1
		ORDER BY location_id
	`, franchiseID)
	if err != nil {
		return nil, fmt.Errorf("select location authorizations: %w", err)
	}
	defer rows.Close()

	var result []domain.LocationAuthorization
	for rows.Next() {
		var auth domain.LocationAuthorization
		var expiresAt sql.NullTime
		if err := rows.Scan(&auth.FranchiseID, &auth.LocationID, &auth.Active, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan location authorization: %w", err)
		}
		if expiresAt.Valid {
			auth.ExpiresAt = expiresAt.Time
		}
		result = append(result, auth)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location authorizations: %w", err)
	}

	return result, nil
}

var _ domain.AuthorizationRepository = (*authorizationRepository)(nil)
