package grading

import (
	"time"

	"github.com/google/uuid"
)

// Grade is the single terminal grading record of an assignment
// (Ungraded → Graded, no way back). Keyed one-to-one by assignment ID.
type Grade struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	Score        int       `json:"score"` // [0,100]
	Feedback     string    `json:"feedback,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}
