// internal/output/csv_test.go
package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundscope/lpcrawler/internal/scraper"
)

func sampleRecord() *scraper.FundRecord {
	return &scraper.FundRecord{
		FundName:    "Alpha Ventures Fund",
		FundURL:     "https://www.vestbee.com/lp/alpha",
		AUM:         "1500000000",
		LinkedInURL: "https://www.linkedin.com/company/alpha-ventures",
		Geographies: "Europe, DACH",
		Description: "Backs early stage infrastructure companies.",
		Portfolio:   "Beta Capital; Gamma Fund",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriterHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funds.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	// The header is on disk before Close, so an aborted run still leaves a
	// readable file.
	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, csvHeader, rows[0])

	require.NoError(t, w.Close())
}

func TestCSVWriterFlushesEachRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funds.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleRecord()))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"Alpha Ventures Fund",
		"https://www.vestbee.com/lp/alpha",
		"1500000000",
		"https://www.linkedin.com/company/alpha-ventures",
		"Europe, DACH",
		"Backs early stage infrastructure companies.",
		"Beta Capital; Gamma Fund",
	}, rows[1])

	require.NoError(t, w.Close())
}

func TestCSVWriterCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "funds.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
