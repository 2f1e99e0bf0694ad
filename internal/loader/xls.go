package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

// Serial values in this window cover 1954–2173; ledger dates live well inside
// it, and movement amounts that small are still amounts, so the window only
// applies to cells the BIFF reader could not render as text.
const (
	xlsSerialMin = 20000
	xlsSerialMax = 100000
)

// xlsDateLayouts are the renderings the BIFF reader produces for date cells
// that carry an explicit format.
var xlsDateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"01/02/06",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
}

// LoadXLS reads a legacy BIFF workbook's first sheet into the engine row
// stream. The xls reader yields every cell as text, so date detection falls
// back to rendering heuristics: known date layouts first, then bare Excel
// serials in a plausible window.
func LoadXLS(r io.ReadSeeker) ([]models.Row, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("could not read first sheet")
	}

	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}

	cols, err := findColumns(grid)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Row, 0, len(grid))
	for i := cols.headerRow + 1; i < len(grid); i++ {
		rows = append(rows, models.Row{
			History: xlsHistoryCell(cellAt(grid[i], cols.history)),
			Key:     cellAt(grid[i], cols.key),
			Counter: cellAt(grid[i], cols.counter),
			Value:   cellAt(grid[i], cols.value),
			Balance: cellAt(grid[i], cols.balance),
		})
	}

	return rows, nil
}

func xlsHistoryCell(cell string) any {
	if when, ok := parseXLSDate(cell); ok {
		return when
	}
	return cell
}

func parseXLSDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range xlsDateLayouts {
		if when, err := time.Parse(layout, cell); err == nil {
			return when, true
		}
	}
	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		if serial >= xlsSerialMin && serial <= xlsSerialMax {
			if when, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return when, true
			}
		}
	}
	return time.Time{}, false
}
