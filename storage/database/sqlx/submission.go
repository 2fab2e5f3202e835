package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/submission"
)

type submissionRecord struct {
	ID           uuid.UUID `db:"id"`
	AssignmentID uuid.UUID `db:"assignment_id"`
	LinkURL      string    `db:"link_url"`
	Kind         string    `db:"submission_type"`
	CreatedAt    time.Time `db:"created_at"`
}

func (rec submissionRecord) toSubmission() submission.Submission {
	return submission.Submission{
		ID:           rec.ID,
		AssignmentID: rec.AssignmentID,
		LinkURL:      rec.LinkURL,
		Kind:         submission.Kind(rec.Kind),
		CreatedAt:    rec.CreatedAt,
	}
}

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO submission (id, assignment_id, link_url, submission_type, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.AssignmentID, sub.LinkURL, string(sub.Kind), sub.CreatedAt,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo submissionRepository) QuerySubmissions(ctx context.Context, assignmentID uuid.UUID) ([]submission.Submission, error) {
	var recs []submissionRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM submission WHERE assignment_id = $1 ORDER BY created_at, id`, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	subs := make([]submission.Submission, len(recs))
	for i, rec := range recs {
		subs[i] = rec.toSubmission()
	}
	return subs, nil
}
