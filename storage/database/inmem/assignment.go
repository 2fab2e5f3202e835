package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.assignment.mutex.Lock()
	defer repo.db.assignment.mutex.Unlock()

	// the check and insert share the table lock: of two concurrent
	// creates for the same student, one inserts and the other gets the
	// winner back
	if curr, ok := repo.activeFor(a.StudentNIM); ok {
		return repo.hydrate(*curr), nil
	}
	repo.db.assignment.table[a.ID] = &a
	return repo.hydrate(a), nil
}

func (repo *assignmentRepository) ReplaceActiveAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.assignment.mutex.Lock()
	defer repo.db.assignment.mutex.Unlock()

	if curr, ok := repo.activeFor(a.StudentNIM); ok {
		curr.IsActive = false
	}
	repo.db.assignment.table[a.ID] = &a
	return repo.hydrate(a), nil
}

func (repo *assignmentRepository) GetActiveAssignment(ctx context.Context, nim string) (assignment.Assignment, error) {
	repo.db.assignment.mutex.RLock()
	defer repo.db.assignment.mutex.RUnlock()

	if curr, ok := repo.activeFor(nim); ok {
		return repo.hydrate(*curr), nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	repo.db.assignment.mutex.RLock()
	defer repo.db.assignment.mutex.RUnlock()

	if a, ok := repo.db.assignment.table[id]; ok {
		return repo.hydrate(*a), nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignmentsByStudent(ctx context.Context, nim string) ([]assignment.Assignment, error) {
	repo.db.assignment.mutex.RLock()
	defer repo.db.assignment.mutex.RUnlock()

	as := make([]assignment.Assignment, 0)
	for _, a := range repo.db.assignment.table {
		if a.StudentNIM == nim {
			as = append(as, repo.hydrate(*a))
		}
	}
	sort.Slice(as, func(i, j int) bool { return as[i].CreatedAt.After(as[j].CreatedAt) })
	return as, nil
}

// activeFor must be called with the assignment table lock held.
func (repo *assignmentRepository) activeFor(nim string) (*assignment.Assignment, bool) {
	for _, a := range repo.db.assignment.table {
		if a.StudentNIM == nim && a.IsActive {
			return a, true
		}
	}
	return nil, false
}

// hydrate attaches the referenced dataset; nil when it has been deleted.
func (repo *assignmentRepository) hydrate(a assignment.Assignment) assignment.Assignment {
	repo.db.dataset.mutex.RLock()
	defer repo.db.dataset.mutex.RUnlock()

	if ds, ok := repo.db.dataset.table[a.DatasetID]; ok {
		dsCopy := *ds
		a.Dataset = &dsCopy
	} else {
		a.Dataset = nil
	}
	return a
}
