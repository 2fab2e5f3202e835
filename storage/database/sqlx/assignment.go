package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
)

// scenarioRecord carries all scenario fields into the jsonb column,
// including the persona instruction that the API-facing struct hides.
type scenarioRecord struct {
	Title              string   `json:"title"`
	Difficulty         string   `json:"difficulty"`
	StakeholderName    string   `json:"stakeholder_name"`
	StakeholderRole    string   `json:"stakeholder_role"`
	Narrative          string   `json:"narrative"`
	Objectives         []string `json:"objectives"`
	PersonaInstruction string   `json:"persona_instruction"`
}

type assignmentRecord struct {
	ID         uuid.UUID `db:"id"`
	StudentNIM string    `db:"student_nim"`
	DatasetID  uuid.UUID `db:"dataset_id"`
	Scenario   []byte    `db:"scenario"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
}

func newAssignmentRecord(a assignment.Assignment) (assignmentRecord, error) {
	sc, err := json.Marshal(scenarioRecord{
		Title:              a.Scenario.Title,
		Difficulty:         a.Scenario.Difficulty,
		StakeholderName:    a.Scenario.StakeholderName,
		StakeholderRole:    a.Scenario.StakeholderRole,
		Narrative:          a.Scenario.Narrative,
		Objectives:         a.Scenario.Objectives,
		PersonaInstruction: a.Scenario.PersonaInstruction,
	})
	if err != nil {
		return assignmentRecord{}, errors.Wrap(err, "encoding scenario")
	}
	return assignmentRecord{
		ID:         a.ID,
		StudentNIM: a.StudentNIM,
		DatasetID:  a.DatasetID,
		Scenario:   sc,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
	}, nil
}

func (rec assignmentRecord) toAssignment() (assignment.Assignment, error) {
	var sc scenarioRecord
	if err := json.Unmarshal(rec.Scenario, &sc); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "decoding scenario")
	}
	return assignment.Assignment{
		ID:         rec.ID,
		StudentNIM: rec.StudentNIM,
		DatasetID:  rec.DatasetID,
		Scenario: assignment.Scenario{
			Title:              sc.Title,
			Difficulty:         sc.Difficulty,
			StakeholderName:    sc.StakeholderName,
			StakeholderRole:    sc.StakeholderRole,
			Narrative:          sc.Narrative,
			Objectives:         sc.Objectives,
			PersonaInstruction: sc.PersonaInstruction,
		},
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt,
	}, nil
}

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	rec, err := newAssignmentRecord(a)
	if err != nil {
		return assignment.Assignment{}, err
	}

	// The partial unique index on (student_nim) WHERE is_active arbitrates
	// concurrent first accesses; the loser's insert is a no-op and the
	// winner's row is returned instead.
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO assignment (id, student_nim, dataset_id, scenario, is_active, created_at)
		VALUES ($1, $2, $3, $4, true, $5)
		ON CONFLICT (student_nim) WHERE is_active DO NOTHING`,
		rec.ID, rec.StudentNIM, rec.DatasetID, rec.Scenario, rec.CreatedAt,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return repo.GetActiveAssignment(ctx, a.StudentNIM)
}

func (repo assignmentRepository) ReplaceActiveAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	rec, err := newAssignmentRecord(a)
	if err != nil {
		return assignment.Assignment{}, err
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "replacing assignment")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx,
		`UPDATE assignment SET is_active = false WHERE student_nim = $1 AND is_active`,
		rec.StudentNIM,
	); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "retiring assignment")
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO assignment (id, student_nim, dataset_id, scenario, is_active, created_at)
		VALUES ($1, $2, $3, $4, true, $5)`,
		rec.ID, rec.StudentNIM, rec.DatasetID, rec.Scenario, rec.CreatedAt,
	); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	if err = tx.Commit(); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "replacing assignment")
	}
	return repo.hydrate(ctx, a)
}

func (repo assignmentRepository) GetActiveAssignment(ctx context.Context, nim string) (assignment.Assignment, error) {
	var rec assignmentRecord
	err := repo.db.GetContext(ctx, &rec,
		`SELECT * FROM assignment WHERE student_nim = $1 AND is_active`, nim)
	if err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting active assignment")
	}

	a, err := rec.toAssignment()
	if err != nil {
		return assignment.Assignment{}, err
	}
	return repo.hydrate(ctx, a)
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (assignment.Assignment, error) {
	var rec assignmentRecord
	err := repo.db.GetContext(ctx, &rec, `SELECT * FROM assignment WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}

	a, err := rec.toAssignment()
	if err != nil {
		return assignment.Assignment{}, err
	}
	return repo.hydrate(ctx, a)
}

func (repo assignmentRepository) QueryAssignmentsByStudent(ctx context.Context, nim string) ([]assignment.Assignment, error) {
	var recs []assignmentRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM assignment WHERE student_nim = $1 ORDER BY created_at DESC, id`, nim)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	ass := make([]assignment.Assignment, len(recs))
	for i, rec := range recs {
		a, err := rec.toAssignment()
		if err != nil {
			return nil, err
		}
		if ass[i], err = repo.hydrate(ctx, a); err != nil {
			return nil, err
		}
	}
	return ass, nil
}

// hydrate attaches the assignment's dataset; a deleted dataset degrades to
// nil rather than failing the read.
func (repo assignmentRepository) hydrate(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	var rec datasetRecord
	err := repo.db.GetContext(ctx, &rec, `SELECT * FROM dataset WHERE id = $1`, a.DatasetID)
	if err != nil {
		if err == sql.ErrNoRows {
			a.Dataset = nil
			return a, nil
		}
		return assignment.Assignment{}, errors.Wrap(err, "hydrating dataset")
	}
	ds := rec.toDataset()
	a.Dataset = &ds
	return a, nil
}
