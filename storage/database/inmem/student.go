package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/kazi/core/student"
)

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

// query returns all students ordered by creation time then NIM, the stable
// order the roster views page over.
func (repo *studentRepository) query() []student.Student {
	studs := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		studs = append(studs, *s)
	}
	sort.Slice(studs, func(i, j int) bool {
		if !studs[i].CreatedAt.Equal(studs[j].CreatedAt) {
			return studs[i].CreatedAt.Before(studs[j].CreatedAt)
		}
		return studs[i].NIM < studs[j].NIM
	})
	return studs
}

func (repo *studentRepository) UpsertStudents(ctx context.Context, studs ...student.Student) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, stud := range studs {
		stud := stud
		if orig, ok := repo.db.table[stud.NIM]; ok {
			// last write wins on the name; creation time is immutable so
			// the roster ordering does not shift on re-upload
			orig.Name = stud.Name
			orig.UpdatedAt = time.Now().UTC()
			continue
		}
		repo.db.table[stud.NIM] = &stud
	}
	return len(studs), nil
}

func (repo *studentRepository) GetStudentByNIM(ctx context.Context, nim string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if stud, ok := repo.db.table[nim]; ok {
		return *stud, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}
