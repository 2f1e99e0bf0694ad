package loader

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

// dateLike matches formatted cell text that renders as a calendar date
// (05/01/2024, 2024-01-05, 5/1/24 00:00, ...). A numeric cell whose raw value
// is an Excel serial is only treated as a date when its formatted rendering
// looks like one — plain number formats ("2000.00") must stay numeric.
var dateLike = regexp.MustCompile(`^\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}(\s|$)`)

// LoadXLSX reads an OOXML workbook's first sheet into the engine row stream.
func LoadXLSX(r io.Reader) ([]models.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	cols, err := findColumns(formatted)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Row, 0, len(formatted))
	for i := cols.headerRow + 1; i < len(formatted); i++ {
		var rawRow []string
		if i < len(raw) {
			rawRow = raw[i]
		}
		rows = append(rows, models.Row{
			History: historyCell(cellAt(rawRow, cols.history), cellAt(formatted[i], cols.history)),
			Key:     numericCell(cellAt(rawRow, cols.key), cellAt(formatted[i], cols.key)),
			Counter: numericCell(cellAt(rawRow, cols.counter), cellAt(formatted[i], cols.counter)),
			Value:   numericCell(cellAt(rawRow, cols.value), cellAt(formatted[i], cols.value)),
			Balance: numericCell(cellAt(rawRow, cols.balance), cellAt(formatted[i], cols.balance)),
		})
	}

	return rows, nil
}

// historyCell surfaces date-styled cells as time.Time and everything else as
// trimmed text. Date cells are stored as serial numbers with a date number
// format, so the raw value parses as a float while the formatted rendering
// looks like a calendar date.
func historyCell(raw, formatted string) any {
	raw = strings.TrimSpace(raw)
	formatted = strings.TrimSpace(formatted)

	if raw != "" && raw != formatted && dateLike.MatchString(formatted) {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			if when, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return when
			}
		}
	}
	return formatted
}

// numericCell prefers the raw stored value for number cells so that display
// formatting (thousands separators, currency) never reaches the engine's
// numeric normalizer in an ambiguous shape. Text cells pass through as-is.
func numericCell(raw, formatted string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return raw
		}
	}
	return strings.TrimSpace(formatted)
}
