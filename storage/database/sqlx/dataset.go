package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/dataset"
)

type datasetRecord struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	URL          string         `db:"url"`
	Description  string         `db:"description"`
	Columns      pq.StringArray `db:"columns"`
	SampleData   string         `db:"sample_data"`
	QualityNotes string         `db:"quality_notes"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (rec datasetRecord) toDataset() dataset.Dataset {
	return dataset.Dataset{
		ID:           rec.ID,
		Name:         rec.Name,
		URL:          rec.URL,
		Description:  rec.Description,
		Columns:      rec.Columns,
		SampleData:   rec.SampleData,
		QualityNotes: rec.QualityNotes,
		CreatedAt:    rec.CreatedAt,
	}
}

type datasetRepository struct {
	db *sqlx.DB
}

func NewDatasetRepository(db *sqlx.DB) dataset.Repository {
	return &datasetRepository{db: db}
}

func (repo datasetRepository) CreateDataset(ctx context.Context, ds dataset.Dataset) (dataset.Dataset, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO dataset (id, name, url, description, columns, sample_data, quality_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ds.ID, ds.Name, ds.URL, ds.Description, pq.StringArray(ds.Columns), ds.SampleData, ds.QualityNotes, ds.CreatedAt,
	)
	if err != nil {
		return dataset.Dataset{}, errors.Wrap(err, "creating dataset")
	}
	return ds, nil
}

func (repo datasetRepository) GetDatasetByID(ctx context.Context, id uuid.UUID) (dataset.Dataset, error) {
	var rec datasetRecord
	err := repo.db.GetContext(ctx, &rec, `SELECT * FROM dataset WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return dataset.Dataset{}, dataset.ErrNotFound
		}
		return dataset.Dataset{}, errors.Wrap(err, "getting dataset")
	}
	return rec.toDataset(), nil
}

func (repo datasetRepository) QueryAllDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	var recs []datasetRecord
	err := repo.db.SelectContext(ctx, &recs, `SELECT * FROM dataset ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying datasets")
	}

	dss := make([]dataset.Dataset, len(recs))
	for i, rec := range recs {
		dss[i] = rec.toDataset()
	}
	return dss, nil
}

func (repo datasetRepository) DeleteDataset(ctx context.Context, id uuid.UUID) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM dataset WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting dataset")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return dataset.ErrNotFound
	}
	return nil
}
