package assignment

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/student"
)

// Scenario is the narrative task content a student works through. It is
// produced by an external Provider; the engine only stores and serves it.
type Scenario struct {
	Title           string   `json:"title"`
	Difficulty      string   `json:"difficulty"`
	StakeholderName string   `json:"stakeholder_name"`
	StakeholderRole string   `json:"stakeholder_role"`
	Narrative       string   `json:"narrative"`
	Objectives      []string `json:"objectives"`

	// PersonaInstruction drives the stakeholder simulation and is never
	// sent to clients.
	PersonaInstruction string `json:"-"`
}

// Assignment binds one student to one scenario and one dataset for the
// duration of an exercise. At most one assignment per student is active;
// regeneration retires the old one and its history stays attached to it.
type Assignment struct {
	ID         uuid.UUID `json:"id"`
	StudentNIM string    `json:"student_nim"`
	DatasetID  uuid.UUID `json:"dataset_id"`
	Scenario   Scenario  `json:"scenario"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"` // UTC

	// Dataset is hydrated on reads; nil when the dataset was deleted
	// after assignment.
	Dataset *dataset.Dataset `json:"dataset,omitempty"`
}

// Provider generates scenario content for a student/dataset pair.
// Content generation itself is out of the engine's scope.
type Provider interface {
	GenerateScenario(ctx context.Context, stud student.Student, ds dataset.Dataset) (Scenario, error)
}

// Picker selects the dataset for a new assignment from the current catalog.
type Picker func(dss []dataset.Dataset) dataset.Dataset

// RandomPicker picks a random dataset with replacement.
func RandomPicker(dss []dataset.Dataset) dataset.Dataset {
	return dss[rand.Intn(len(dss))]
}
