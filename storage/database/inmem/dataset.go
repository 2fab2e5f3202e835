package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/dataset"
)

type datasetRepository struct {
	db *datasetTable
}

func NewDatasetRepository(db *DB) dataset.Repository {
	return &datasetRepository{db: db.dataset}
}

func (repo *datasetRepository) CreateDataset(ctx context.Context, ds dataset.Dataset) (dataset.Dataset, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[ds.ID] = &ds
	return ds, nil
}

func (repo *datasetRepository) GetDatasetByID(ctx context.Context, id uuid.UUID) (dataset.Dataset, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ds, ok := repo.db.table[id]; ok {
		return *ds, nil
	}
	return dataset.Dataset{}, dataset.ErrNotFound
}

func (repo *datasetRepository) QueryAllDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	dss := make([]dataset.Dataset, 0, len(repo.db.table))
	for _, ds := range repo.db.table {
		dss = append(dss, *ds)
	}
	sort.Slice(dss, func(i, j int) bool { return dss[i].CreatedAt.Before(dss[j].CreatedAt) })
	return dss, nil
}

func (repo *datasetRepository) DeleteDataset(ctx context.Context, id uuid.UUID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return dataset.ErrNotFound
	}
	// no cascade: assignments keep their dataset_id and reads degrade
	delete(repo.db.table, id)
	return nil
}
