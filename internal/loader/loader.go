// Package loader reads ledger spreadsheets into the engine's row stream.
//
// The engine requires five columns — History, Key, Counter, Value, Balance —
// and requires date cells in the History column to arrive as typed dates, not
// text: the row classifier distinguishes date-header rows by cell type. The
// loader owns both obligations; a workbook missing any required column is
// rejected before a single row is handed over.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

// headerScanLimit caps how many leading rows are searched for the column
// header line. Real exports put it within the first few rows; banners and
// report titles come before it.
const headerScanLimit = 50

// columnAliases maps each logical column to the header spellings accepted
// for it. The Portuguese names are the ERP export's native captions.
var columnAliases = map[string][]string{
	"history": {"history", "histórico", "historico"},
	"key":     {"key", "chave"},
	"counter": {"counter", "contra"},
	"value":   {"value", "valor"},
	"balance": {"balance", "saldo"},
}

// columnIndex holds the resolved position of each required column.
type columnIndex struct {
	headerRow int
	history   int
	key       int
	counter   int
	value     int
	balance   int
}

// Load reads a ledger workbook, dispatching on the filename extension.
// Supported formats: .xlsx (OOXML) and legacy .xls (BIFF).
func Load(filename string, r io.ReadSeeker) ([]models.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return LoadXLSX(r)
	case ".xls":
		return LoadXLS(r)
	default:
		return nil, fmt.Errorf("unsupported file format %q: expected .xlsx or .xls", filepath.Ext(filename))
	}
}

// LoadFile reads a ledger workbook from disk.
func LoadFile(path string) ([]models.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()
	return Load(path, f)
}

// findColumns scans the leading rows for the line containing all five
// required column headers and resolves their positions.
func findColumns(rows [][]string) (*columnIndex, error) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		found := map[string]int{}
		for j, cell := range rows[i] {
			name := normalizeHeader(cell)
			for logical, aliases := range columnAliases {
				for _, alias := range aliases {
					if name == alias {
						if _, dup := found[logical]; !dup {
							found[logical] = j
						}
					}
				}
			}
		}
		if len(found) == len(columnAliases) {
			return &columnIndex{
				headerRow: i,
				history:   found["history"],
				key:       found["key"],
				counter:   found["counter"],
				value:     found["value"],
				balance:   found["balance"],
			}, nil
		}
	}

	return nil, fmt.Errorf("required columns not found (need History, Key, Counter, Value, Balance). Found: %v", sampleHeaders(rows))
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sampleHeaders collects the distinct non-empty cells of the leading rows for
// the missing-columns error message.
func sampleHeaders(rows [][]string) []string {
	seen := map[string]bool{}
	limit := len(rows)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				seen[cell] = true
			}
		}
	}
	headers := make([]string, 0, len(seen))
	for h := range seen {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}

// cellAt tolerates ragged rows: spreadsheets drop trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
