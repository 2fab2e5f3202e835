package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db.submission}
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[sub.AssignmentID] = append(repo.db.table[sub.AssignmentID], sub)
	return sub, nil
}

func (repo *submissionRepository) QuerySubmissions(ctx context.Context, assignmentID uuid.UUID) ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := repo.db.table[assignmentID]
	out := make([]submission.Submission, len(subs))
	copy(out, subs)
	return out, nil
}
