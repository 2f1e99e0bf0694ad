package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

// CSVWriter writes the analysis result tables in CSV format: the summary
// table, a blank line, then the detail table.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the analysis result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result *models.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write writes both result tables in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, result *models.AnalysisResult) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Write run metadata as comment rows
	if w.IncludeHeader {
		writer.Write([]string{"# Policy", string(result.Policy)})
		writer.Write([]string{"# Accounts Analyzed", strconv.Itoa(result.AccountCount)})
		writer.Write([]string{"# Accounts Flagged", strconv.Itoa(len(result.Summary))})
		writer.Write([]string{"# Events", strconv.Itoa(len(result.Detail))})
	}

	if err := writer.Write(SummaryHeader(result.Policy)); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, row := range result.Summary {
		if err := writer.Write(summaryRecord(result.Policy, row)); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	writer.Write([]string{""})

	if err := writer.Write(DetailHeader(result.Policy)); err != nil {
		return fmt.Errorf("failed to write detail header: %w", err)
	}
	for _, ev := range result.Detail {
		if err := writer.Write(detailRecord(result.Policy, ev)); err != nil {
			return fmt.Errorf("failed to write detail row: %w", err)
		}
	}

	return nil
}

// SummaryHeader returns the summary table columns for the given policy. The
// opening-balance flag column only exists under the common-account policy.
func SummaryHeader(policy models.Policy) []string {
	header := []string{"Account", "Days With Negative Balance", "First Occurrence"}
	if policy == models.PolicyCommonAccount {
		header = append(header, "Negative Opening Balance")
	}
	return header
}

// DetailHeader returns the detail table columns for the given policy.
func DetailHeader(policy models.Policy) []string {
	header := []string{"Account", "Date"}
	if policy == models.PolicyCommonAccount {
		header = append(header, "Error Kind")
	}
	return append(header, "Prior Balance", "Day Debit", "Day Credit", "Resulting Balance")
}

func summaryRecord(policy models.Policy, row models.AccountSummary) []string {
	record := []string{row.Account, strconv.Itoa(row.NegativeDays), row.FirstErrorDate}
	if policy == models.PolicyCommonAccount {
		flag := ""
		if row.OpeningNegative {
			flag = "yes"
		}
		record = append(record, flag)
	}
	return record
}

func detailRecord(policy models.Policy, ev models.BalanceEvent) []string {
	record := []string{ev.Account, ev.Date}
	if policy == models.PolicyCommonAccount {
		record = append(record, ev.ErrorKind)
	}
	return append(record,
		formatAmount(ev.PriorBalance),
		formatAmount(ev.Debit),
		formatAmount(ev.Credit),
		formatAmount(ev.ResultingBalance),
	)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
