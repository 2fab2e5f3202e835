package assignment_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/student"
	scenariosvc "github.com/trezcool/kazi/services/scenario"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	testutil "github.com/trezcool/kazi/tests"
)

type fixture struct {
	svc         *assignment.Service
	studentRepo student.Repository
	datasetRepo dataset.Repository
	repo        assignment.Repository
}

func setup(t *testing.T) fixture {
	db := testutil.OpenDB(t)
	f := fixture{
		studentRepo: inmemdb.NewStudentRepository(db),
		datasetRepo: inmemdb.NewDatasetRepository(db),
		repo:        inmemdb.NewAssignmentRepository(db),
	}
	f.svc = assignment.NewService(f.repo, f.studentRepo, f.datasetRepo, scenariosvc.NewStaticService(), testutil.FirstPicker)
	return f
}

func TestService_GetOrCreateForStudent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stud := testutil.CreateStudent(t, f.studentRepo, "2110511001", "Adi Nugroho")
	ds := testutil.CreateDataset(t, f.datasetRepo, "retail-sales")

	// first access creates just-in-time
	a, err := f.svc.GetOrCreateForStudent(ctx, stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}
	if !a.IsActive {
		t.Errorf("IsActive = false, want true")
	}
	if a.StudentNIM != stud.NIM {
		t.Errorf("StudentNIM = %v, want %v", a.StudentNIM, stud.NIM)
	}
	if a.DatasetID != ds.ID {
		t.Errorf("DatasetID = %v, want %v", a.DatasetID, ds.ID)
	}
	if a.Dataset == nil || a.Dataset.ID != ds.ID {
		t.Errorf("Dataset not hydrated")
	}
	if a.Scenario.Title == "" || a.Scenario.PersonaInstruction == "" {
		t.Errorf("Scenario not generated: %+v", a.Scenario)
	}

	// second access returns the same assignment
	again, err := f.svc.GetOrCreateForStudent(ctx, stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}
	if again.ID != a.ID {
		t.Errorf("second access created a new assignment: %v != %v", again.ID, a.ID)
	}
}

func TestService_GetOrCreateForStudent_errors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stud := testutil.CreateStudent(t, f.studentRepo, "2110511001", "Adi Nugroho")

	// no datasets in the catalog
	if _, err := f.svc.GetOrCreateForStudent(ctx, stud.NIM); errors.Cause(err) != assignment.ErrNoDatasets {
		t.Errorf("GetOrCreateForStudent() error = %v, want %v", err, assignment.ErrNoDatasets)
	}

	// unknown student
	testutil.CreateDataset(t, f.datasetRepo, "retail-sales")
	if _, err := f.svc.GetOrCreateForStudent(ctx, "000"); errors.Cause(err) != student.ErrNotFound {
		t.Errorf("GetOrCreateForStudent() error = %v, want %v", err, student.ErrNotFound)
	}
}

func TestService_Regenerate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stud := testutil.CreateStudent(t, f.studentRepo, "2110511001", "Adi Nugroho")
	testutil.CreateDataset(t, f.datasetRepo, "retail-sales")

	orig, err := f.svc.GetOrCreateForStudent(ctx, stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}

	fresh, err := f.svc.Regenerate(ctx, stud.NIM)
	if err != nil {
		t.Fatalf("Regenerate() failed: %v", err)
	}
	if fresh.ID == orig.ID {
		t.Fatalf("Regenerate() returned the old assignment")
	}
	if !fresh.IsActive {
		t.Errorf("fresh.IsActive = false, want true")
	}

	// the old assignment is retired, not deleted
	old, err := f.svc.GetByID(ctx, orig.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if old.IsActive {
		t.Errorf("old.IsActive = true, want false")
	}

	// exactly one active assignment; both appear in history
	active, err := f.svc.GetOrCreateForStudent(ctx, stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}
	if active.ID != fresh.ID {
		t.Errorf("active assignment = %v, want %v", active.ID, fresh.ID)
	}
	history, err := f.svc.History(ctx, stud.NIM)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("History() len = %v, want 2", len(history))
	}
}

func TestService_GetByID_notFound(t *testing.T) {
	f := setup(t)
	if _, err := f.svc.GetByID(context.Background(), uuid.New()); errors.Cause(err) != assignment.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, assignment.ErrNotFound)
	}
}

func TestService_datasetDeletionDegradesHydration(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stud := testutil.CreateStudent(t, f.studentRepo, "2110511001", "Adi Nugroho")
	ds := testutil.CreateDataset(t, f.datasetRepo, "retail-sales")

	a, err := f.svc.GetOrCreateForStudent(ctx, stud.NIM)
	if err != nil {
		t.Fatalf("GetOrCreateForStudent() failed: %v", err)
	}

	if err = f.datasetRepo.DeleteDataset(ctx, ds.ID); err != nil {
		t.Fatalf("DeleteDataset() failed: %v", err)
	}

	// the assignment survives; only the hydrated dataset is gone
	a, err = f.svc.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if a.Dataset != nil {
		t.Errorf("Dataset = %+v, want nil after deletion", a.Dataset)
	}
	if a.DatasetID != ds.ID {
		t.Errorf("DatasetID = %v, want %v", a.DatasetID, ds.ID)
	}
}

func TestService_GetOrCreate_concurrentFirstAccess(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stud := testutil.CreateStudent(t, f.studentRepo, "2110511001", "Adi Nugroho")
	testutil.CreateDataset(t, f.datasetRepo, "retail-sales")

	const n = 16
	results := make(chan assignment.Assignment, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			a, err := f.svc.GetOrCreateForStudent(ctx, stud.NIM)
			if err != nil {
				errs <- err
				return
			}
			results <- a
		}()
	}

	ids := make(map[string]bool)
	for i := 0; i < n; i++ {
		select {
		case a := <-results:
			ids[a.ID.String()] = true
		case err := <-errs:
			t.Fatalf("GetOrCreateForStudent() failed: %v", err)
		}
	}
	if len(ids) != 1 {
		t.Errorf("concurrent first accesses produced %d assignments, want 1", len(ids))
	}
}
