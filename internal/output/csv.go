// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fundscope/lpcrawler/internal/scraper"
)

// csvHeader is the fixed 7-column schema of the row export
var csvHeader = []string{
	"fund_name",
	"fund_url",
	"AUM (€)",
	"linkedin_url",
	"investment_geographies",
	"fund_description",
	"fund_portfolio",
}

// CSVWriter streams records to a UTF-8 comma-separated file. The header is
// written once at construction and every row is flushed as it arrives, so a
// run that dies mid-way still leaves a valid, readable partial file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates the output file (and its directory if needed) and
// writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	w := &CSVWriter{
		file:   file,
		writer: csv.NewWriter(file),
	}
	if err := w.writer.Write(csvHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to flush CSV header: %w", err)
	}
	return w, nil
}

// Write appends one record row and flushes it to disk
func (w *CSVWriter) Write(rec *scraper.FundRecord) error {
	row := []string{
		rec.FundName,
		rec.FundURL,
		rec.AUM,
		rec.LinkedInURL,
		rec.Geographies,
		rec.Description,
		rec.Portfolio,
	}
	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV row: %w", err)
	}
	return nil
}

// Close flushes any buffered output and closes the file
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return w.file.Close()
}
