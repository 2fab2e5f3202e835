package dataset

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core"
)

var ErrNotFound = core.NewNotFoundError("dataset not found")

type (
	Repository interface {
		CreateDataset(ctx context.Context, ds Dataset) (Dataset, error)
		GetDatasetByID(ctx context.Context, id uuid.UUID) (Dataset, error)
		QueryAllDatasets(ctx context.Context) ([]Dataset, error)
		// DeleteDataset returns ErrNotFound if the ID does not exist.
		// It never cascades: assignments referencing the dataset keep
		// their reference and reads degrade to a nil dataset.
		DeleteDataset(ctx context.Context, id uuid.UUID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nd NewDataset) (Dataset, error) {
	ds := Dataset{
		ID:           uuid.New(),
		Name:         nd.Name,
		URL:          nd.URL,
		Description:  nd.Description,
		Columns:      nd.Columns,
		SampleData:   nd.SampleData,
		QualityNotes: nd.QualityNotes,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateDataset(ctx, ds)
}

func (svc *Service) GetByID(ctx context.Context, id uuid.UUID) (Dataset, error) {
	return svc.repo.GetDatasetByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Dataset, error) {
	return svc.repo.QueryAllDatasets(ctx)
}

func (svc *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return svc.repo.DeleteDataset(ctx, id)
}
