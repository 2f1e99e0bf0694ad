package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

func sampleResult(policy models.Policy) *models.AnalysisResult {
	return &models.AnalysisResult{
		Policy: policy,
		Summary: []models.AccountSummary{
			{Account: "100 - Acme", NegativeDays: 2, FirstErrorDate: "05/01/2024"},
			{Account: "300 - ICMS", NegativeDays: 1, FirstErrorDate: models.OpeningLabel, OpeningNegative: true},
		},
		Detail: []models.BalanceEvent{
			{Account: "300 - ICMS", Date: models.OpeningLabel, ErrorKind: models.ErrKindNegativeOpening, ResultingBalance: -100},
			{Account: "100 - Acme", Date: "05/01/2024", ErrorKind: models.ErrKindNegativeDay, PriorBalance: 1000, Debit: 2000, ResultingBalance: -1000},
			{Account: "100 - Acme", Date: "06/01/2024", ErrorKind: models.ErrKindNegativeDay, PriorBalance: -1000, Debit: 50, Credit: 25, ResultingBalance: -1025},
		},
		RowCount:     10,
		AccountCount: 3,
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sampleResult(models.PolicyCommonAccount)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	// Check metadata headers
	if !strings.Contains(output, "# Policy,common-account") {
		t.Error("expected policy metadata header")
	}
	if !strings.Contains(output, "# Accounts Analyzed,3") {
		t.Error("expected account-count metadata")
	}

	// Check column headers
	if !strings.Contains(output, "Account,Days With Negative Balance,First Occurrence,Negative Opening Balance") {
		t.Error("expected summary column headers with opening-balance flag")
	}
	if !strings.Contains(output, "Account,Date,Error Kind,Prior Balance,Day Debit,Day Credit,Resulting Balance") {
		t.Error("expected detail column headers with error kind")
	}

	// Check table data
	if !strings.Contains(output, "100 - Acme,2,05/01/2024") {
		t.Error("expected first summary row")
	}
	if !strings.Contains(output, "300 - ICMS,1,opening,yes") {
		t.Error("expected opening-flagged summary row")
	}
	if !strings.Contains(output, "100 - Acme,05/01/2024,negative-balance-day,1000.00,2000.00,0.00,-1000.00") {
		t.Error("expected detail row with formatted amounts")
	}
}

func TestCSVWriter_VendorColumns(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, sampleResult(models.PolicyVendor)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if strings.Contains(output, "# Policy") {
		t.Error("metadata headers must be omitted without IncludeHeader")
	}
	if strings.Contains(output, "Negative Opening Balance") {
		t.Error("vendor policy must not include the opening-balance column")
	}
	if strings.Contains(output, "Error Kind") {
		t.Error("vendor policy must not include the error-kind column")
	}
	if !strings.Contains(output, "Account,Date,Prior Balance,Day Debit,Day Credit,Resulting Balance") {
		t.Error("expected vendor detail column headers")
	}
}

func TestCSVWriter_EmptyResult(t *testing.T) {
	result := &models.AnalysisResult{
		Policy:  models.PolicyVendor,
		Summary: []models.AccountSummary{},
		Detail:  []models.BalanceEvent{},
	}

	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Summary header + separator + detail header
	if len(lines) != 3 {
		t.Errorf("expected 3 lines for empty result, got %d: %q", len(lines), lines)
	}
}
