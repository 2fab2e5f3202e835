package grading_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/grading"
	scenariosvc "github.com/trezcool/kazi/services/scenario"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	testutil "github.com/trezcool/kazi/tests"
)

type fixture struct {
	svc           *grading.Service
	assignmentSvc *assignment.Service
	a             assignment.Assignment
}

func setup(t *testing.T) fixture {
	db := testutil.OpenDB(t)
	studentRepo := inmemdb.NewStudentRepository(db)
	datasetRepo := inmemdb.NewDatasetRepository(db)
	assignmentRepo := inmemdb.NewAssignmentRepository(db)

	stud := testutil.CreateStudent(t, studentRepo, "2110511001", "Adi Nugroho")
	testutil.CreateDataset(t, datasetRepo, "retail-sales")

	assignmentSvc := assignment.NewService(
		assignmentRepo, studentRepo, datasetRepo, scenariosvc.NewStaticService(), testutil.FirstPicker)
	a, err := assignmentSvc.GetOrCreateForStudent(context.Background(), stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}

	return fixture{
		svc:           grading.NewService(inmemdb.NewGradeRepository(db), assignmentRepo),
		assignmentSvc: assignmentSvc,
		a:             a,
	}
}

func TestService_SubmitGrade_scoreBounds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{name: "lower bound", score: 0},
		{name: "upper bound", score: 100},
		{name: "mid", score: 85},
		{name: "below range", score: -1, wantErr: true},
		{name: "above range", score: 101, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			g, err := f.svc.SubmitGrade(ctx, f.a.ID, tt.score, "solid work")
			if tt.wantErr {
				if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
					t.Errorf("SubmitGrade() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SubmitGrade() failed: %v", err)
			}
			if g.Score != tt.score {
				t.Errorf("Score = %v, want %v", g.Score, tt.score)
			}
		})
	}
}

func TestService_SubmitGrade_atMostOnce(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	if _, err := f.svc.SubmitGrade(ctx, f.a.ID, 80, "first"); err != nil {
		t.Fatalf("SubmitGrade() failed: %v", err)
	}
	if _, err := f.svc.SubmitGrade(ctx, f.a.ID, 90, "second"); errors.Cause(err) != grading.ErrAlreadyGraded {
		t.Errorf("SubmitGrade() error = %v, want %v", err, grading.ErrAlreadyGraded)
	}

	// the first grade is untouched
	g, err := f.svc.GetGrade(ctx, f.a.ID)
	if err != nil {
		t.Fatalf("GetGrade() failed: %v", err)
	}
	if g == nil || g.Score != 80 || g.Feedback != "first" {
		t.Errorf("GetGrade() = %+v, want the first grade", g)
	}
}

func TestService_SubmitGrade_concurrent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	var won, conflicts int
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(score int) {
			defer wg.Done()
			_, err := f.svc.SubmitGrade(ctx, f.a.ID, score, "")
			mu.Lock()
			defer mu.Unlock()
			switch errors.Cause(err) {
			case nil:
				won++
			case grading.ErrAlreadyGraded:
				conflicts++
			default:
				t.Errorf("SubmitGrade() failed: %v", err)
			}
		}(i % 101)
	}
	wg.Wait()

	if won != 1 {
		t.Errorf("concurrent SubmitGrade() successes = %v, want exactly 1", won)
	}
	if conflicts != n-1 {
		t.Errorf("conflicts = %v, want %v", conflicts, n-1)
	}
}

func TestService_SubmitGrade_errors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	if _, err := f.svc.SubmitGrade(ctx, uuid.New(), 50, ""); errors.Cause(err) != assignment.ErrNotFound {
		t.Errorf("SubmitGrade() error = %v, want %v", err, assignment.ErrNotFound)
	}
}

func TestService_GetGrade_ungraded(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	g, err := f.svc.GetGrade(ctx, f.a.ID)
	if err != nil {
		t.Fatalf("GetGrade() failed: %v", err)
	}
	if g != nil {
		t.Errorf("GetGrade() = %+v, want nil for ungraded", g)
	}
}

// a retired assignment can still be graded through its ID
func TestService_SubmitGrade_retiredAssignment(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	if _, err := f.assignmentSvc.Regenerate(ctx, f.a.StudentNIM); err != nil {
		t.Fatalf("Regenerate() failed: %v", err)
	}
	if _, err := f.svc.SubmitGrade(ctx, f.a.ID, 70, "late grading"); err != nil {
		t.Fatalf("SubmitGrade() on retired assignment failed: %v", err)
	}
}
