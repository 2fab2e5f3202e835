package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/student"
)

var (
	ErrNotFound   = core.NewNotFoundError("assignment not found")
	ErrNoDatasets = core.NewValidationError(errors.New("no datasets available"))
)

type (
	Repository interface {
		// CreateAssignment persists `a` as its student's active
		// assignment. If an active one already exists (eg. a concurrent
		// first access won the race) it is returned unchanged instead.
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		// ReplaceActiveAssignment atomically retires the student's active
		// assignment (if any) and persists `a` as the new active one.
		ReplaceActiveAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetActiveAssignment(ctx context.Context, nim string) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id uuid.UUID) (Assignment, error)
		// QueryAssignmentsByStudent returns all assignments, newest first,
		// retired ones included.
		QueryAssignmentsByStudent(ctx context.Context, nim string) ([]Assignment, error)
	}

	Service struct {
		repo     Repository
		students student.Repository
		datasets dataset.Repository
		provider Provider
		pick     Picker
	}
)

func NewService(
	repo Repository,
	students student.Repository,
	datasets dataset.Repository,
	provider Provider,
	pick Picker,
) *Service {
	if pick == nil {
		pick = RandomPicker
	}
	return &Service{
		repo:     repo,
		students: students,
		datasets: datasets,
		provider: provider,
		pick:     pick,
	}
}

// GetOrCreateForStudent returns the student's active assignment, creating
// one just-in-time on first access.
func (svc *Service) GetOrCreateForStudent(ctx context.Context, nim string) (Assignment, error) {
	stud, err := svc.students.GetStudentByNIM(ctx, core.CleanString(nim))
	if err != nil {
		return Assignment{}, err
	}

	a, err := svc.repo.GetActiveAssignment(ctx, stud.NIM)
	if err == nil {
		return a, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Assignment{}, errors.Wrap(err, "getting active assignment")
	}

	a, err = svc.newAssignment(ctx, stud)
	if err != nil {
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(ctx, a)
}

// Regenerate retires the student's active assignment and creates a fresh
// one in its place. Chat, submissions and grade of the retired assignment
// stay attached to it and are only reachable through its ID.
func (svc *Service) Regenerate(ctx context.Context, nim string) (Assignment, error) {
	stud, err := svc.students.GetStudentByNIM(ctx, core.CleanString(nim))
	if err != nil {
		return Assignment{}, err
	}

	a, err := svc.newAssignment(ctx, stud)
	if err != nil {
		return Assignment{}, err
	}
	return svc.repo.ReplaceActiveAssignment(ctx, a)
}

func (svc *Service) GetByID(ctx context.Context, id uuid.UUID) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

// History returns all of a student's assignments, newest first.
func (svc *Service) History(ctx context.Context, nim string) ([]Assignment, error) {
	if _, err := svc.students.GetStudentByNIM(ctx, core.CleanString(nim)); err != nil {
		return nil, err
	}
	return svc.repo.QueryAssignmentsByStudent(ctx, core.CleanString(nim))
}

func (svc *Service) newAssignment(ctx context.Context, stud student.Student) (Assignment, error) {
	dss, err := svc.datasets.QueryAllDatasets(ctx)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "querying datasets")
	}
	if len(dss) == 0 {
		return Assignment{}, ErrNoDatasets
	}
	ds := svc.pick(dss)

	sc, err := svc.provider.GenerateScenario(ctx, stud, ds)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "generating scenario")
	}

	return Assignment{
		ID:         uuid.New(),
		StudentNIM: stud.NIM,
		DatasetID:  ds.ID,
		Scenario:   sc,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
		Dataset:    &ds,
	}, nil
}
