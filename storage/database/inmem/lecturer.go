package inmemdb

import (
	"context"

	"github.com/trezcool/kazi/core/lecturer"
)

type lecturerRepository struct {
	db *lecturerTable
}

func NewLecturerRepository(db *DB) lecturer.Repository {
	return &lecturerRepository{db: db.lecturer}
}

func (repo *lecturerRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, lect := range repo.db.table {
		if lect.Email == email {
			return lecturer.ErrEmailExists
		}
	}
	return nil
}

func (repo *lecturerRepository) CreateLecturer(ctx context.Context, lect lecturer.Lecturer) (lecturer.Lecturer, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, l := range repo.db.table {
		if l.Email == lect.Email {
			return lecturer.Lecturer{}, lecturer.ErrEmailExists
		}
	}
	repo.db.table[lect.ID] = &lect
	return lect, nil
}

func (repo *lecturerRepository) GetLecturerByEmail(ctx context.Context, email string) (lecturer.Lecturer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, lect := range repo.db.table {
		if lect.Email == email {
			return *lect, nil
		}
	}
	return lecturer.Lecturer{}, lecturer.ErrNotFound
}

func (repo *lecturerRepository) UpdateLecturerPassword(ctx context.Context, lect lecturer.Lecturer) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[lect.ID]
	if !ok {
		return lecturer.ErrNotFound
	}
	orig.PasswordHash = lect.PasswordHash
	return nil
}
