package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

const (
	summarySheet = "Summary"
	detailSheet  = "Detail"
)

// ReportWriter renders the analysis result as a two-sheet spreadsheet, one
// sheet per result table. The Summary sheet is always present (header-only
// when no account was flagged); the Detail sheet is only added when there
// are events, mirroring the sparse shape of the result.
type ReportWriter struct{}

// WriteToFile writes the spreadsheet report to the given path.
func (w *ReportWriter) WriteToFile(path string, result *models.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write renders the spreadsheet report to the given writer.
func (w *ReportWriter) Write(out io.Writer, result *models.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	// The workbook opens with one default sheet; claim it for the summary.
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to set up summary sheet: %w", err)
	}

	if err := setRow(f, summarySheet, 1, toAny(SummaryHeader(result.Policy))); err != nil {
		return err
	}
	for i, row := range result.Summary {
		if err := setRow(f, summarySheet, i+2, summaryCells(result.Policy, row)); err != nil {
			return err
		}
	}

	if len(result.Detail) > 0 {
		if _, err := f.NewSheet(detailSheet); err != nil {
			return fmt.Errorf("failed to add detail sheet: %w", err)
		}
		if err := setRow(f, detailSheet, 1, toAny(DetailHeader(result.Policy))); err != nil {
			return err
		}
		for i, ev := range result.Detail {
			if err := setRow(f, detailSheet, i+2, detailCells(result.Policy, ev)); err != nil {
				return err
			}
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Amounts are written as numeric cells so the report stays usable for
// spreadsheet-side filtering and sums.
func summaryCells(policy models.Policy, row models.AccountSummary) []any {
	cells := []any{row.Account, row.NegativeDays, row.FirstErrorDate}
	if policy == models.PolicyCommonAccount {
		flag := ""
		if row.OpeningNegative {
			flag = "yes"
		}
		cells = append(cells, flag)
	}
	return cells
}

func detailCells(policy models.Policy, ev models.BalanceEvent) []any {
	cells := []any{ev.Account, ev.Date}
	if policy == models.PolicyCommonAccount {
		cells = append(cells, ev.ErrorKind)
	}
	return append(cells, ev.PriorBalance, ev.Debit, ev.Credit, ev.ResultingBalance)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell (%d,%d): %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
