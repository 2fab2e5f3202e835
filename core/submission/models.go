package submission

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind tags a submission as work-in-progress or final.
type Kind string

const (
	KindProgress Kind = "progress"
	KindFinal    Kind = "final"
)

var errUnknownKind = errors.New("submission type must be one of: progress, final")

// ParseKind converts a raw submission type string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProgress:
		return KindProgress, nil
	case KindFinal:
		return KindFinal, nil
	}
	return "", errUnknownKind
}

// Submission is a link to externally hosted student work. The tracker keeps
// the full history: submissions are never edited, deleted, deduplicated or
// superseded.
type Submission struct {
	ID           uuid.UUID `json:"id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	LinkURL      string    `json:"link_url"`
	Kind         Kind      `json:"submission_type"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}
