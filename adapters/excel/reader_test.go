package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDataset_CSV(t *testing.T) {
	path := writeTempCSV(t, "y,x1,x2\n1.5,0.1,10\n2.5,0.2,20\n3.5,0.3,30\n")

	ds, err := NewDataReader().ReadDataset(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"y", "x1", "x2"}, ds.Headers)
	assert.Equal(t, 3, ds.NumRows)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, ds.Columns["y"])
	assert.Equal(t, []float64{10, 20, 30}, ds.Columns["x2"])
}

func TestReadDataset_PreservesRowOrder(t *testing.T) {
	path := writeTempCSV(t, "y\n5\n1\n4\n2\n3\n")

	ds, err := NewDataReader().ReadDataset(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, ds.Columns["y"])
}

func TestReadDataset_NonNumericCell(t *testing.T) {
	path := writeTempCSV(t, "y,x\n1,2\n3,oops\n")

	_, err := NewDataReader().ReadDataset(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric")
}

func TestReadDataset_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "y,x\n")

	_, err := NewDataReader().ReadDataset(context.Background(), path)
	assert.Error(t, err)
}

func TestReadDataset_MissingFile(t *testing.T) {
	_, err := NewDataReader().ReadDataset(context.Background(), "/nonexistent/data.csv")
	assert.Error(t, err)
}

func TestReadDataset_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewDataReader().ReadDataset(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestResponseAndDesign(t *testing.T) {
	path := writeTempCSV(t, "y,x1,x2\n1,4,7\n2,5,8\n3,6,9\n")
	ds, err := NewDataReader().ReadDataset(context.Background(), path)
	require.NoError(t, err)

	response, design, err := ResponseAndDesign(ds, "y", []string{"x2", "x1"})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, response)
	require.Len(t, design, 3)
	assert.Equal(t, []float64{7, 4}, design[0], "columns follow the requested order")
	assert.Equal(t, []float64{9, 6}, design[2])
}

func TestResponseAndDesign_NoCovariates(t *testing.T) {
	path := writeTempCSV(t, "y\n1\n2\n")
	ds, err := NewDataReader().ReadDataset(context.Background(), path)
	require.NoError(t, err)

	response, design, err := ResponseAndDesign(ds, "y", nil)
	require.NoError(t, err)
	assert.Nil(t, design)
	assert.Equal(t, []float64{1, 2}, response)
}

func TestResponseAndDesign_UnknownColumns(t *testing.T) {
	path := writeTempCSV(t, "y,x\n1,2\n3,4\n")
	ds, err := NewDataReader().ReadDataset(context.Background(), path)
	require.NoError(t, err)

	_, _, err = ResponseAndDesign(ds, "z", nil)
	assert.Error(t, err)

	_, _, err = ResponseAndDesign(ds, "y", []string{"missing"})
	assert.Error(t, err)
}
