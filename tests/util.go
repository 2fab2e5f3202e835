package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/dataset"
	"github.com/trezcool/kazi/core/lecturer"
	"github.com/trezcool/kazi/core/student"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
)

// OpenDB returns a fresh in-memory DB.
func OpenDB(t *testing.T) *inmemdb.DB {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

// NewValidator returns a validator with all app validations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	lecturer.RegisterValidators(validate, translator)
	return validate, translator
}

// NewConfig returns a deterministic test configuration.
func NewConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		AppName:   "Kazi",
		Env:       "TEST",
		SecretKey: "poq5-wer)enb$+57=dz&uoxh2p&*äq^1o$+6t#v4>i*5p(qa*}",
		Server: core.ServerConfig{
			Port:                      "8000",
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func CreateStudent(t *testing.T, repo student.Repository, nim, name string, createdAt ...time.Time) student.Student {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	stud := student.Student{
		NIM:       nim,
		Name:      name,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if _, err := repo.UpsertStudents(context.Background(), stud); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	stud, err := repo.GetStudentByNIM(context.Background(), nim)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stud
}

func CreateLecturer(t *testing.T, repo lecturer.Repository, email, pwd string) lecturer.Lecturer {
	t.Helper()
	lect := lecturer.Lecturer{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := lect.SetPassword(pwd); err != nil {
		t.Fatalf("CreateLecturer() failed: %v", err)
	}
	lect, err := repo.CreateLecturer(context.Background(), lect)
	if err != nil {
		t.Fatalf("CreateLecturer() failed: %v", err)
	}
	return lect
}

func CreateDataset(t *testing.T, repo dataset.Repository, name string) dataset.Dataset {
	t.Helper()
	ds := dataset.Dataset{
		ID:           uuid.New(),
		Name:         name,
		URL:          "https://datasets.example.com/" + name + ".csv",
		Description:  "Synthetic sales records for " + name + ".",
		Columns:      []string{"date", "region", "amount"},
		SampleData:   "2024-01-02,North,153.40",
		QualityNotes: "amount has a few negative outliers",
		CreatedAt:    time.Now().UTC(),
	}
	ds, err := repo.CreateDataset(context.Background(), ds)
	if err != nil {
		t.Fatalf("CreateDataset() failed: %v", err)
	}
	return ds
}

// FirstPicker always picks the first dataset. For deterministic tests.
func FirstPicker(dss []dataset.Dataset) dataset.Dataset {
	return dss[0]
}
