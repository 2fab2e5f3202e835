package student

import (
	"context"
	"time"

	"github.com/trezcool/kazi/core"
)

var ErrNotFound = core.NewNotFoundError("student not found")

type (
	Repository interface {
		// UpsertStudents inserts new students and overwrites the name of
		// existing ones, per NIM. Returns the number of rows applied.
		UpsertStudents(ctx context.Context, studs ...Student) (int, error)
		GetStudentByNIM(ctx context.Context, nim string) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UploadRoster upserts a batch of roster entries. Malformed entries (empty
// NIM or name after trimming) are dropped from the batch; duplicates within
// the batch collapse to the last occurrence. Returns the accepted count.
func (svc *Service) UploadRoster(ctx context.Context, entries []RosterEntry) (int, error) {
	now := time.Now().UTC()

	byNIM := make(map[string]int, len(entries))
	studs := make([]Student, 0, len(entries))
	for _, entry := range entries {
		entry.Clean()
		if !entry.IsValid() {
			continue
		}
		if i, ok := byNIM[entry.NIM]; ok { // last write wins within the batch
			studs[i].Name = entry.Name
			continue
		}
		byNIM[entry.NIM] = len(studs)
		studs = append(studs, Student{
			NIM:       entry.NIM,
			Name:      entry.Name,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(studs) == 0 {
		return 0, nil
	}
	return svc.repo.UpsertStudents(ctx, studs...)
}

func (svc *Service) GetByNIM(ctx context.Context, nim string) (Student, error) {
	return svc.repo.GetStudentByNIM(ctx, core.CleanString(nim))
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}
