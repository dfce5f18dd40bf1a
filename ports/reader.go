package ports

import "context"

// Dataset is a column-oriented view of a local data file. Row order is
// semantically meaningful (time index) and preserved exactly as read.
type Dataset struct {
	Headers []string
	Columns map[string][]float64
	NumRows int
}

// DatasetReaderPort reads local tabular files (xlsx, csv) into a Dataset.
// Remote data acquisition is out of scope; this port only parses files the
// caller already has.
type DatasetReaderPort interface {
	ReadDataset(ctx context.Context, path string) (*Dataset, error)
}
