package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
)

var errEmptyBody = errors.New("message body cannot be empty")

type (
	Repository interface {
		// AppendMessage persists `msg` with a store-assigned, strictly
		// increasing Seq within its assignment, so concurrent appends
		// still take a total order.
		AppendMessage(ctx context.Context, msg Message) (Message, error)
		// QueryMessages returns the full log, oldest first.
		QueryMessages(ctx context.Context, assignmentID uuid.UUID) ([]Message, error)
	}

	Service struct {
		repo        Repository
		assignments assignment.Repository
	}
)

func NewService(repo Repository, assignments assignment.Repository) *Service {
	return &Service{repo: repo, assignments: assignments}
}

func (svc *Service) Append(ctx context.Context, assignmentID uuid.UUID, sender Sender, body string) (Message, error) {
	if _, err := ParseSender(string(sender)); err != nil {
		return Message{}, core.NewValidationError(err, core.FieldError{Field: "sender", Error: err.Error()})
	}
	body = core.CleanString(body)
	if body == "" {
		return Message{}, core.NewValidationError(errEmptyBody, core.FieldError{Field: "body", Error: errEmptyBody.Error()})
	}
	if _, err := svc.assignments.GetAssignmentByID(ctx, assignmentID); err != nil {
		return Message{}, err
	}

	msg := Message{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		Sender:       sender,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.AppendMessage(ctx, msg)
}

func (svc *Service) List(ctx context.Context, assignmentID uuid.UUID) ([]Message, error) {
	if _, err := svc.assignments.GetAssignmentByID(ctx, assignmentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryMessages(ctx, assignmentID)
}
