package inmemdb

import (
	"context"
	"strings"

	"github.com/trezcool/kazi/core/roster"
	"github.com/trezcool/kazi/core/student"
	"github.com/trezcool/kazi/core/submission"
)

type rosterRepository struct {
	db *DB
}

func NewRosterRepository(db *DB) roster.Repository {
	return &rosterRepository{db: db}
}

func (repo *rosterRepository) QueryRowsPage(ctx context.Context, limit, offset int) ([]roster.Row, int, error) {
	studs := repo.allStudents()
	total := len(studs)

	if offset >= total {
		return []roster.Row{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return repo.join(ctx, studs[offset:end]), total, nil
}

func (repo *rosterRepository) SearchRows(ctx context.Context, query string) ([]roster.Row, error) {
	query = strings.ToLower(query)

	matched := make([]student.Student, 0)
	for _, stud := range repo.allStudents() {
		if strings.Contains(strings.ToLower(stud.NIM), query) ||
			strings.Contains(strings.ToLower(stud.Name), query) {
			matched = append(matched, stud)
		}
	}
	return repo.join(ctx, matched), nil
}

func (repo *rosterRepository) allStudents() []student.Student {
	studRepo := &studentRepository{db: repo.db.student}
	repo.db.student.mutex.RLock()
	defer repo.db.student.mutex.RUnlock()
	return studRepo.query()
}

// join builds the denormalized dashboard rows: each student with their
// active assignment, its submissions and its grade.
func (repo *rosterRepository) join(ctx context.Context, studs []student.Student) []roster.Row {
	assignRepo := NewAssignmentRepository(repo.db)
	subRepo := NewSubmissionRepository(repo.db)
	gradeRepo := NewGradeRepository(repo.db)

	rows := make([]roster.Row, 0, len(studs))
	for _, stud := range studs {
		row := roster.Row{Student: stud, Submissions: []submission.Submission{}}

		a, err := assignRepo.GetActiveAssignment(ctx, stud.NIM)
		if err == nil {
			row.Assignment = &a
			if subs, err := subRepo.QuerySubmissions(ctx, a.ID); err == nil && subs != nil {
				row.Submissions = subs
			}
			if g, err := gradeRepo.GetGrade(ctx, a.ID); err == nil {
				row.Grade = &g
			}
		}
		rows = append(rows, row)
	}
	return rows
}
