package submission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
)

var errBadURL = errors.New("must be a valid http(s) URL")

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		// QuerySubmissions returns all submissions for an assignment in
		// creation order, oldest first.
		QuerySubmissions(ctx context.Context, assignmentID uuid.UUID) ([]Submission, error)
	}

	Service struct {
		repo        Repository
		assignments assignment.Repository
	}
)

func NewService(repo Repository, assignments assignment.Repository) *Service {
	return &Service{repo: repo, assignments: assignments}
}

func (svc *Service) Record(ctx context.Context, assignmentID uuid.UUID, linkURL, kind string) (Submission, error) {
	linkURL = core.CleanString(linkURL)
	if !core.IsHTTPURL(linkURL) {
		return Submission{}, core.NewValidationError(errBadURL, core.FieldError{Field: "link_url", Error: errBadURL.Error()})
	}
	k, err := ParseKind(core.CleanString(kind, true /* lower */))
	if err != nil {
		return Submission{}, core.NewValidationError(err, core.FieldError{Field: "submission_type", Error: err.Error()})
	}
	if _, err := svc.assignments.GetAssignmentByID(ctx, assignmentID); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		LinkURL:      linkURL,
		Kind:         k,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

func (svc *Service) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]Submission, error) {
	if _, err := svc.assignments.GetAssignmentByID(ctx, assignmentID); err != nil {
		return nil, err
	}
	return svc.repo.QuerySubmissions(ctx, assignmentID)
}
