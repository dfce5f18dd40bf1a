package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bootdw/ports"
)

// DataReader reads local Excel and CSV files into a column-oriented Dataset.
// Only local files: this repo deliberately ships no remote data acquisition.
type DataReader struct{}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader() *DataReader {
	return &DataReader{}
}

// ReadDataset reads the file at path. The first row is treated as the header;
// subsequent rows are parsed as numeric columns. Row order is preserved
// because downstream tests treat it as the time index.
func (r *DataReader) ReadDataset(ctx context.Context, path string) (*ports.Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file not found: %s", path)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readExcelRows(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return buildDataset(rows)
}

// ResponseAndDesign extracts a response vector and design matrix from a
// dataset by column name, in the dataset's row order.
func ResponseAndDesign(ds *ports.Dataset, responseCol string, covariateCols []string) ([]float64, [][]float64, error) {
	response, ok := ds.Columns[responseCol]
	if !ok {
		return nil, nil, fmt.Errorf("response column %q not in dataset", responseCol)
	}

	if len(covariateCols) == 0 {
		return response, nil, nil
	}

	design := make([][]float64, ds.NumRows)
	for i := range design {
		design[i] = make([]float64, len(covariateCols))
	}
	for j, name := range covariateCols {
		col, ok := ds.Columns[name]
		if !ok {
			return nil, nil, fmt.Errorf("covariate column %q not in dataset", name)
		}
		for i, v := range col {
			design[i][j] = v
		}
	}
	return response, design, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func buildDataset(rows [][]string) (*ports.Dataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset needs a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	columns := make(map[string][]float64, len(headers))
	for _, h := range headers {
		columns[h] = make([]float64, 0, len(rows)-1)
	}

	for rowIdx, row := range rows[1:] {
		for colIdx, h := range headers {
			cell := ""
			if colIdx < len(row) {
				cell = strings.TrimSpace(row[colIdx])
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: non-numeric value %q", rowIdx+2, h, cell)
			}
			columns[h] = append(columns[h], value)
		}
	}

	return &ports.Dataset{
		Headers: headers,
		Columns: columns,
		NumRows: len(rows) - 1,
	}, nil
}
