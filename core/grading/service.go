package grading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
)

var (
	ErrNotFound      = core.NewNotFoundError("grade not found")
	ErrAlreadyGraded = core.NewConflictError("assignment has already been graded")

	errScoreRange = errors.New("score must be between 0 and 100")
)

type (
	Repository interface {
		// CreateGrade persists `g` unless a grade already exists for its
		// assignment, in which case it returns ErrAlreadyGraded. The
		// existence check and insert are atomic: of two concurrent calls
		// exactly one succeeds.
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		GetGrade(ctx context.Context, assignmentID uuid.UUID) (Grade, error)
	}

	Service struct {
		repo        Repository
		assignments assignment.Repository
	}
)

func NewService(repo Repository, assignments assignment.Repository) *Service {
	return &Service{repo: repo, assignments: assignments}
}

// SubmitGrade transitions an assignment from Ungraded to Graded. A second
// attempt fails with ErrAlreadyGraded; it never overwrites.
func (svc *Service) SubmitGrade(ctx context.Context, assignmentID uuid.UUID, score int, feedback string) (Grade, error) {
	if score < 0 || score > 100 {
		return Grade{}, core.NewValidationError(errScoreRange, core.FieldError{Field: "score", Error: errScoreRange.Error()})
	}
	if _, err := svc.assignments.GetAssignmentByID(ctx, assignmentID); err != nil {
		return Grade{}, err
	}

	g := Grade{
		AssignmentID: assignmentID,
		Score:        score,
		Feedback:     core.CleanString(feedback),
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateGrade(ctx, g)
}

// GetGrade returns the assignment's grade, or nil if it is ungraded.
// Ungraded is a normal state, not an error.
func (svc *Service) GetGrade(ctx context.Context, assignmentID uuid.UUID) (*Grade, error) {
	if _, err := svc.assignments.GetAssignmentByID(ctx, assignmentID); err != nil {
		return nil, err
	}
	g, err := svc.repo.GetGrade(ctx, assignmentID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
