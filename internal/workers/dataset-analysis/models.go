package datasetanalysis

import (
	"college-finder/internal/models"
	"college-finder/internal/tabular"
)

// Distribution is a local value count over one matched column.
type Distribution struct {
	Column  string           `json:"column"`
	Buckets []tabular.Bucket `json:"buckets"`
}

type Output struct {
	Analysis      models.DatasetAnalysis  `json:"analysis"`
	RowCount      int                     `json:"rowCount"`
	Distributions map[string]Distribution `json:"distributions"`
	Cached        bool                    `json:"cached"`
}
