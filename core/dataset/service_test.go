package dataset_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/dataset"
	inmemdb "github.com/trezcool/kazi/storage/database/inmem"
	testutil "github.com/trezcool/kazi/tests"
)

func setup(t *testing.T) *dataset.Service {
	db := testutil.OpenDB(t)
	return dataset.NewService(inmemdb.NewDatasetRepository(db))
}

func TestNewDataset_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name    string
		data    dataset.NewDataset
		wantErr bool
	}{
		{name: "valid", data: dataset.NewDataset{Name: "retail-sales", URL: "https://datasets.example.com/retail.csv"}},
		{name: "http allowed", data: dataset.NewDataset{Name: "retail-sales", URL: "http://datasets.example.com/retail.csv"}},
		{name: "missing name", data: dataset.NewDataset{URL: "https://datasets.example.com/retail.csv"}, wantErr: true},
		{name: "missing url", data: dataset.NewDataset{Name: "retail-sales"}, wantErr: true},
		{name: "not a url", data: dataset.NewDataset{Name: "retail-sales", URL: "retail.csv"}, wantErr: true},
		{name: "ftp url", data: dataset.NewDataset{Name: "retail-sales", URL: "ftp://host/retail.csv"}, wantErr: true},
		{name: "whitespace in url", data: dataset.NewDataset{Name: "retail-sales", URL: "https://data sets.example.com"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate, translator)
			if tt.wantErr && err == nil {
				t.Errorf("Validate() = nil, want rejection")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	ds, err := svc.Create(ctx, dataset.NewDataset{
		Name:         "retail-sales",
		URL:          "https://datasets.example.com/retail.csv",
		Columns:      []string{"date", "region", "amount"},
		QualityNotes: "negative outliers in amount",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if ds.ID == uuid.Nil {
		t.Errorf("ID not assigned")
	}

	got, err := svc.GetByID(ctx, ds.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Name != ds.Name || got.URL != ds.URL {
		t.Errorf("GetByID() = %+v, want %+v", got, ds)
	}

	all, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("QueryAll() len = %v, want 1", len(all))
	}

	if err = svc.Delete(ctx, ds.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err = svc.GetByID(ctx, ds.ID); errors.Cause(err) != dataset.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, dataset.ErrNotFound)
	}
	if err = svc.Delete(ctx, ds.ID); errors.Cause(err) != dataset.ErrNotFound {
		t.Errorf("Delete() error = %v, want %v", err, dataset.ErrNotFound)
	}
}
