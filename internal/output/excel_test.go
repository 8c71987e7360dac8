// internal/output/excel_test.go
package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelWriterHeaderRow(t *testing.T) {
	w, err := NewExcelWriter(filepath.Join(t.TempDir(), "funds.xlsx"))
	require.NoError(t, err)

	row, err := w.File().GetRows(w.Sheet())
	require.NoError(t, err)
	require.NotEmpty(t, row)
	assert.Equal(t, excelHeaders, row[0])
}

func TestExcelWriterNumericAUM(t *testing.T) {
	w, err := NewExcelWriter(filepath.Join(t.TempDir(), "funds.xlsx"))
	require.NoError(t, err)

	require.NoError(t, w.Write(sampleRecord()))

	// The money format groups thousands, which only happens for a cell
	// stored as a number.
	value, err := w.File().GetCellValue(w.Sheet(), "C2")
	require.NoError(t, err)
	assert.Equal(t, "1,500,000,000", value)
}

func TestExcelWriterTextAUMFallback(t *testing.T) {
	w, err := NewExcelWriter(filepath.Join(t.TempDir(), "funds.xlsx"))
	require.NoError(t, err)

	rec := sampleRecord()
	rec.AUM = "undisclosed"
	require.NoError(t, w.Write(rec))

	value, err := w.File().GetCellValue(w.Sheet(), "C2")
	require.NoError(t, err)
	assert.Equal(t, "undisclosed", value)
}

func TestExcelWriterSavesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "funds.xlsx")

	w, err := NewExcelWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord()))
	require.NoError(t, w.Close())

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	name, err := file.GetCellValue(file.GetSheetName(0), "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alpha Ventures Fund", name)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
