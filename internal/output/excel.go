// internal/output/excel.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/fundscope/lpcrawler/internal/scraper"
)

// excelHeaders are the display headers of the batch export sheet
var excelHeaders = []string{
	"Fund Name",
	"Fund URL",
	"AUM (€)",
	"LinkedIn URL",
	"Investment Geographies",
	"Fund Description",
	"Fund Portfolio",
}

// excelColumnWidths is the per-column width profile, tuned to each field's
// expected content length.
var excelColumnWidths = []float64{30, 50, 15, 40, 30, 60, 50}

const aumColumn = 3 // 1-based index of the AUM column

// ExcelWriter accumulates records into a single styled worksheet and saves
// the workbook once, when the run ends. The AUM column becomes a numeric
// cell with thousands grouping whenever the stored value parses as a
// number; otherwise it is written as plain text.
type ExcelWriter struct {
	path  string
	file  *excelize.File
	sheet string
	row   int

	headerStyle int
	cellStyle   int
	moneyStyle  int
}

// NewExcelWriter prepares the workbook: styled frozen header row, column
// widths, nothing on disk yet.
func NewExcelWriter(path string) (*ExcelWriter, error) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	w := &ExcelWriter{
		path:  path,
		file:  file,
		sheet: sheet,
		row:   1,
	}
	if err := w.createStyles(); err != nil {
		return nil, err
	}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *ExcelWriter) createStyles() error {
	thinBorder := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	var err error
	w.headerStyle, err = w.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"000080"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	w.cellStyle, err = w.file.NewStyle(&excelize.Style{Border: thinBorder})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}

	moneyFormat := "#,##0"
	w.moneyStyle, err = w.file.NewStyle(&excelize.Style{
		Border:       thinBorder,
		CustomNumFmt: &moneyFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}
	return nil
}

func (w *ExcelWriter) writeHeader() error {
	for col, header := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
		if err := w.file.SetCellStyle(w.sheet, cell, cell, w.headerStyle); err != nil {
			return fmt.Errorf("failed to style header cell: %w", err)
		}
	}

	for col, width := range excelColumnWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(w.sheet, name, name, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := w.file.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	w.row = 2
	return nil
}

// Write appends one record as a bordered row in the in-memory workbook
func (w *ExcelWriter) Write(rec *scraper.FundRecord) error {
	values := []string{
		rec.FundName,
		rec.FundURL,
		rec.AUM,
		rec.LinkedInURL,
		rec.Geographies,
		rec.Description,
		rec.Portfolio,
	}

	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, w.row)
		if err != nil {
			return err
		}

		style := w.cellStyle
		if col+1 == aumColumn && value != "" {
			if aum, parseErr := strconv.ParseFloat(value, 64); parseErr == nil {
				if err := w.file.SetCellValue(w.sheet, cell, aum); err != nil {
					return fmt.Errorf("failed to write AUM cell: %w", err)
				}
				if err := w.file.SetCellStyle(w.sheet, cell, cell, w.moneyStyle); err != nil {
					return fmt.Errorf("failed to style AUM cell: %w", err)
				}
				continue
			}
		}

		if err := w.file.SetCellValue(w.sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
		if err := w.file.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style cell: %w", err)
		}
	}

	w.row++
	return nil
}

// Close saves the workbook to disk, creating the directory if needed
func (w *ExcelWriter) Close() error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return w.file.Close()
}

// File exposes the underlying workbook for inspection in tests
func (w *ExcelWriter) File() *excelize.File {
	return w.file
}

// Sheet returns the worksheet name records are written to
func (w *ExcelWriter) Sheet() string {
	return w.sheet
}
