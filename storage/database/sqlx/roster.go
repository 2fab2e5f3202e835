package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/grading"
	"github.com/trezcool/kazi/core/roster"
	"github.com/trezcool/kazi/core/submission"
)

type rosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) roster.Repository {
	return &rosterRepository{db: db}
}

func (repo rosterRepository) QueryRowsPage(ctx context.Context, limit, offset int) ([]roster.Row, int, error) {
	var total int
	if err := repo.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM student`); err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}

	var recs []studentRecord
	err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM student ORDER BY created_at, nim LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying roster page")
	}

	rows, err := repo.buildRows(ctx, recs)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (repo rosterRepository) SearchRows(ctx context.Context, query string) ([]roster.Row, error) {
	var recs []studentRecord
	err := repo.db.SelectContext(ctx, &recs, `
		SELECT * FROM student
		WHERE nim ILIKE $1 OR name ILIKE $1
		ORDER BY created_at, nim`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, errors.Wrap(err, "searching roster")
	}
	return repo.buildRows(ctx, recs)
}

// buildRows joins a slice of students with their active assignment and the
// assignment's submissions and grade, batching all lookups per page.
func (repo rosterRepository) buildRows(ctx context.Context, recs []studentRecord) ([]roster.Row, error) {
	rows := make([]roster.Row, len(recs))
	if len(recs) == 0 {
		return rows, nil
	}

	nims := make([]string, len(recs))
	for i, rec := range recs {
		nims[i] = rec.NIM
	}

	assByNIM, err := repo.activeAssignments(ctx, nims)
	if err != nil {
		return nil, err
	}

	assIDs := make([]uuid.UUID, 0, len(assByNIM))
	for _, a := range assByNIM {
		assIDs = append(assIDs, a.ID)
	}
	subsByAss, err := repo.submissions(ctx, assIDs)
	if err != nil {
		return nil, err
	}
	gradeByAss, err := repo.grades(ctx, assIDs)
	if err != nil {
		return nil, err
	}

	for i, rec := range recs {
		row := roster.Row{
			Student:     rec.toStudent(),
			Submissions: []submission.Submission{},
		}
		if a, ok := assByNIM[rec.NIM]; ok {
			row.Assignment = a
			if subs, ok := subsByAss[a.ID]; ok {
				row.Submissions = subs
			}
			row.Grade = gradeByAss[a.ID]
		}
		rows[i] = row
	}
	return rows, nil
}

func (repo rosterRepository) activeAssignments(ctx context.Context, nims []string) (map[string]*assignment.Assignment, error) {
	query, args, err := sqlx.In(`SELECT * FROM assignment WHERE is_active AND student_nim IN (?)`, nims)
	if err != nil {
		return nil, errors.Wrap(err, "querying active assignments")
	}
	var recs []assignmentRecord
	if err = repo.db.SelectContext(ctx, &recs, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying active assignments")
	}

	dsByID, err := repo.datasets(ctx, recs)
	if err != nil {
		return nil, err
	}

	byNIM := make(map[string]*assignment.Assignment, len(recs))
	for _, rec := range recs {
		a, err := rec.toAssignment()
		if err != nil {
			return nil, err
		}
		a.Dataset = dsByID[a.DatasetID]
		byNIM[a.StudentNIM] = &a
	}
	return byNIM, nil
}

func (repo rosterRepository) datasets(ctx context.Context, ass []assignmentRecord) (map[uuid.UUID]*dataset.Dataset, error) {
	byID := make(map[uuid.UUID]*dataset.Dataset)
	if len(ass) == 0 {
		return byID, nil
	}

	ids := make([]uuid.UUID, len(ass))
	for i, a := range ass {
		ids[i] = a.DatasetID
	}
	query, args, err := sqlx.In(`SELECT * FROM dataset WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "querying datasets")
	}
	var recs []datasetRecord
	if err = repo.db.SelectContext(ctx, &recs, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying datasets")
	}

	for _, rec := range recs {
		ds := rec.toDataset()
		byID[ds.ID] = &ds
	}
	return byID, nil
}

func (repo rosterRepository) submissions(ctx context.Context, assIDs []uuid.UUID) (map[uuid.UUID][]submission.Submission, error) {
	byAss := make(map[uuid.UUID][]submission.Submission)
	if len(assIDs) == 0 {
		return byAss, nil
	}

	query, args, err := sqlx.In(
		`SELECT * FROM submission WHERE assignment_id IN (?) ORDER BY created_at, id`, assIDs)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	var recs []submissionRecord
	if err = repo.db.SelectContext(ctx, &recs, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	for _, rec := range recs {
		byAss[rec.AssignmentID] = append(byAss[rec.AssignmentID], rec.toSubmission())
	}
	return byAss, nil
}

func (repo rosterRepository) grades(ctx context.Context, assIDs []uuid.UUID) (map[uuid.UUID]*grading.Grade, error) {
	byAss := make(map[uuid.UUID]*grading.Grade)
	if len(assIDs) == 0 {
		return byAss, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM grade WHERE assignment_id IN (?)`, assIDs)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	var recs []gradeRecord
	if err = repo.db.SelectContext(ctx, &recs, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}

	for _, rec := range recs {
		g := rec.toGrade()
		byAss[g.AssignmentID] = &g
	}
	return byAss, nil
}
