package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/grading"
)

type gradeRepository struct {
	db *gradeTable
}

func NewGradeRepository(db *DB) grading.Repository {
	return &gradeRepository{db: db.grade}
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, g grading.Grade) (grading.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// check and insert share the lock: of two concurrent submissions
	// exactly one wins
	if _, ok := repo.db.table[g.AssignmentID]; ok {
		return grading.Grade{}, grading.ErrAlreadyGraded
	}
	repo.db.table[g.AssignmentID] = &g
	return g, nil
}

func (repo *gradeRepository) GetGrade(ctx context.Context, assignmentID uuid.UUID) (grading.Grade, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if g, ok := repo.db.table[assignmentID]; ok {
		return *g, nil
	}
	return grading.Grade{}, grading.ErrNotFound
}
