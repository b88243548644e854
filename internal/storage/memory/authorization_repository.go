package memory

import (
	"sort"
	"sync"

	"github.com/drivncook/fleetops/internal/domain"
)

// AuthorizationRepository — in-memory снапшот разрешений франшиз на точки.
type AuthorizationRepository struct {
	mu    sync.RWMutex
	items []domain.LocationAuthorization
}

// NewAuthorizationRepository возвращает пустой снапшот разрешений.
func NewAuthorizationRepository() *AuthorizationRepository {
	return &AuthorizationRepository{}
}

// ListByFranchise возвращает разрешения одной франшизы.
func (r *AuthorizationRepository) ListByFranchise(franchiseID string) ([]domain.LocationAuthorization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.LocationAuthorization, 0, len(r.items))
	for _, a := range r.items {
		if a.FranchiseID == franchiseID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LocationID < result[j].LocationID
	})
	return result, nil
}

// ReplaceAll заменяет снапшот целиком.
func (r *AuthorizationRepository) ReplaceAll(auths []domain.LocationAuthorization) {
	next := make([]domain.LocationAuthorization, len(auths))
	copy(next, auths)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = next
}

var _ domain.AuthorizationRepository = (*AuthorizationRepository)(nil)
