package dataset

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/kazi/core"
)

// Dataset is a data source students are assigned to analyse. The column
// list, sample rows and quality notes feed the scenario provider.
type Dataset struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Description  string    `json:"description,omitempty"`
	Columns      []string  `json:"columns,omitempty"`
	SampleData   string    `json:"sample_data,omitempty"` // raw text, first few rows
	QualityNotes string    `json:"quality_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// NewDataset contains information needed to create a new Dataset.
type NewDataset struct {
	Name         string   `json:"name" validate:"required"`
	URL          string   `json:"url" validate:"required,httpurl"`
	Description  string   `json:"description"`
	Columns      []string `json:"columns"`
	SampleData   string   `json:"sample_data"`
	QualityNotes string   `json:"quality_notes"`
}

func (nd *NewDataset) Validate(validate *validator.Validate, _ ut.Translator) error {
	nd.Name = core.CleanString(nd.Name)
	nd.URL = core.CleanString(nd.URL)
	for i, col := range nd.Columns {
		nd.Columns[i] = core.CleanString(col)
	}
	return validate.Struct(nd)
}
