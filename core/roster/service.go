// Package roster provides the read-only, denormalized roster views backing
// the grading dashboard: paginated listing and free-text search over
// students joined with their current assignment, submissions and grade.
// It never mutates the entities it joins.
package roster

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/grading"
	"github.com/trezcool/kazi/core/student"
	"github.com/trezcool/kazi/core/submission"
)

var (
	errBadPage     = errors.New("page must be >= 1")
	errBadPageSize = errors.New("page size must be one of: 10, 20, 50")

	// PageSizes are the only page sizes the dashboard may request.
	PageSizes = []int{10, 20, 50}
)

type (
	// Row is one student joined with their current (active) assignment
	// state. Assignment and Grade are nil when absent; Submissions is
	// empty, not nil, for rendering convenience.
	Row struct {
		Student     student.Student         `json:"student"`
		Assignment  *assignment.Assignment  `json:"assignment"`
		Submissions []submission.Submission `json:"submissions"`
		Grade       *grading.Grade          `json:"grade"`
	}

	// Page is one deterministic slice of the roster plus the total row
	// count for page-count computation.
	Page struct {
		Rows  []Row `json:"students"`
		Total int   `json:"total"`
	}

	Repository interface {
		// QueryRowsPage returns `limit` rows starting at `offset`,
		// ordered by student creation time then NIM, plus the total
		// student count. The ordering key is stable: page boundaries do
		// not shift between calls absent roster mutation.
		QueryRowsPage(ctx context.Context, limit, offset int) ([]Row, int, error)
		// SearchRows returns all rows whose student NIM or name contains
		// `query` (case-insensitive substring), same ordering, unpaginated.
		SearchRows(ctx context.Context, query string) ([]Row, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) ListPage(ctx context.Context, page, pageSize int) (Page, error) {
	if page < 1 {
		return Page{}, core.NewValidationError(errBadPage, core.FieldError{Field: "page", Error: errBadPage.Error()})
	}
	if !validPageSize(pageSize) {
		return Page{}, core.NewValidationError(errBadPageSize, core.FieldError{Field: "page_size", Error: errBadPageSize.Error()})
	}

	rows, total, err := svc.repo.QueryRowsPage(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return Page{}, errors.Wrap(err, "querying roster page")
	}
	if rows == nil {
		rows = []Row{}
	}
	return Page{Rows: rows, Total: total}, nil
}

func (svc *Service) Search(ctx context.Context, query string) ([]Row, error) {
	rows, err := svc.repo.SearchRows(ctx, core.CleanString(query))
	if err != nil {
		return nil, errors.Wrap(err, "searching roster")
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

func validPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
