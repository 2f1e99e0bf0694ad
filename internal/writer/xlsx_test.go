package writer

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

func TestReportWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &ReportWriter{}
	if err := w.Write(&buf, sampleResult(models.PolicyCommonAccount)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Summary" || sheets[1] != "Detail" {
		t.Fatalf("sheets = %v, want [Summary Detail]", sheets)
	}

	// Summary sheet: header + 2 accounts
	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("failed to read summary sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("summary rows: got %d, want 3", len(rows))
	}
	if rows[0][0] != "Account" {
		t.Errorf("summary header[0] = %q, want Account", rows[0][0])
	}
	if rows[1][0] != "100 - Acme" || rows[1][1] != "2" {
		t.Errorf("summary row 1 = %v, want account 100 - Acme with 2 days", rows[1])
	}
	if rows[2][2] != "opening" || rows[2][3] != "yes" {
		t.Errorf("summary row 2 = %v, want opening label and flag", rows[2])
	}

	// Detail sheet: header + 3 events
	rows, err = f.GetRows("Detail")
	if err != nil {
		t.Fatalf("failed to read detail sheet: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("detail rows: got %d, want 4", len(rows))
	}
	if rows[1][2] != models.ErrKindNegativeOpening {
		t.Errorf("detail row 1 kind = %q, want opening event first", rows[1][2])
	}

	// Amounts round-trip as numbers
	resulting, err := f.GetCellValue("Detail", "G3")
	if err != nil {
		t.Fatalf("failed to read resulting balance: %v", err)
	}
	if resulting != "-1000" {
		t.Errorf("resulting balance cell = %q, want -1000", resulting)
	}
}

func TestReportWriter_VendorOmitsErrorKind(t *testing.T) {
	var buf bytes.Buffer
	w := &ReportWriter{}
	if err := w.Write(&buf, sampleResult(models.PolicyVendor)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Detail")
	if err != nil {
		t.Fatalf("failed to read detail sheet: %v", err)
	}
	if got := len(rows[0]); got != 6 {
		t.Errorf("vendor detail columns: got %d, want 6 (no error-kind column)", got)
	}
	rows, err = f.GetRows("Summary")
	if err != nil {
		t.Fatalf("failed to read summary sheet: %v", err)
	}
	if got := len(rows[0]); got != 3 {
		t.Errorf("vendor summary columns: got %d, want 3 (no opening-balance column)", got)
	}
}

func TestReportWriter_EmptyResult(t *testing.T) {
	result := &models.AnalysisResult{
		Policy:  models.PolicyVendor,
		Summary: []models.AccountSummary{},
		Detail:  []models.BalanceEvent{},
	}

	var buf bytes.Buffer
	w := &ReportWriter{}
	if err := w.Write(&buf, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Summary" {
		t.Errorf("sheets = %v, want a lone header-only Summary sheet", sheets)
	}
}
