package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
)

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderStudent     Sender = "student"
	SenderStakeholder Sender = "stakeholder"
)

var errUnknownSender = errors.New("unknown sender role")

// ParseSender converts a raw role string into a Sender.
func ParseSender(s string) (Sender, error) {
	switch Sender(s) {
	case SenderStudent:
		return SenderStudent, nil
	case SenderStakeholder:
		return SenderStakeholder, nil
	}
	return "", errUnknownSender
}

// Message is one entry of an assignment's chat log. Messages are append
// only and never mutated or deleted; Seq gives the total order within an
// assignment, assigned by the store.
type Message struct {
	ID           uuid.UUID `json:"id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	Sender       Sender    `json:"sender"`
	Body         string    `json:"body"`
	Seq          int64     `json:"seq"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// Responder produces the simulated stakeholder's reply to a student
// message. It is an external collaborator; its failures must not lose the
// student's message.
type Responder interface {
	Reply(ctx context.Context, sc assignment.Scenario, history []Message, body string) (string, error)
}
