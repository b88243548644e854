package memory

import (
	"sort"
	"sync"

	"github.com/drivncook/fleetops/internal/domain"
)

// AssignmentRepository — in-memory снапшот аффектаций, видимых актору.
type AssignmentRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Assignment
}

// NewAssignmentRepository возвращает пустой снапшот аффектаций.
func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{
		items: make(map[string]domain.Assignment),
	}
}

// List возвращает аффектации, свежие даты первыми.
func (r *AssignmentRepository) List() ([]domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Assignment, 0, len(r.items))
	for _, a := range r.items {
		result = append(result, a)
	}
	sortAssignments(result)
	return result, nil
}

// ListByTruck возвращает аффектации одного трака.
func (r *AssignmentRepository) ListByTruck(truckID string) ([]domain.Assignment, error) {
	return r.listFiltered(func(a domain.Assignment) bool { return a.TruckID == truckID })
}

// ListByLocation возвращает аффектации одной точки.
func (r *AssignmentRepository) ListByLocation(locationID string) ([]domain.Assignment, error) {
	return r.listFiltered(func(a domain.Assignment) bool { return a.LocationID == locationID })
}

func (r *AssignmentRepository) listFiltered(keep func(domain.Assignment) bool) ([]domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Assignment, 0, len(r.items))
	for _, a := range r.items {
		if keep(a) {
			result = append(result, a)
		}
	}
	sortAssignments(result)
	return result, nil
}

// ReplaceAll заменяет снапшот целиком.
func (r *AssignmentRepository) ReplaceAll(assignments []domain.Assignment) {
	next := make(map[string]domain.Assignment, len(assignments))
	for _, a := range assignments {
		next[a.ID] = a
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = next
}

// sortAssignments повторяет порядок внешней системы: убывание даты начала.
func sortAssignments(assignments []domain.Assignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if !assignments[i].StartDate.Equal(assignments[j].StartDate) {
			return assignments[i].StartDate.After(assignments[j].StartDate)
		}
		return assignments[i].ID < assignments[j].ID
	})
}

var _ domain.AssignmentRepository = (*AssignmentRepository)(nil)
