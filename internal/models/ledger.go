package models

import (
	"fmt"
	"strings"
	"time"
)

// Row is one bookkeeping entry as it appears in the ledger spreadsheet.
// History holds either free text or a typed date (time.Time) — the engine
// distinguishes date-header rows by cell type, not by text format. The
// remaining fields arrive as raw cell text. Row order is document order and
// is meaningful: the engine is a single left-to-right pass over the stream.
type Row struct {
	History any    `json:"history"`
	Key     string `json:"key"`
	Counter string `json:"counter"` // present in the source layout, unused by the engine
	Value   string `json:"value"`
	Balance string `json:"balance"`
}

// RowKind is the classification assigned to a ledger row.
type RowKind int

const (
	KindIrrelevant RowKind = iota
	KindAccountHeader
	KindPriorBalanceMarker
	KindDateHeader
	KindDailyTotal
)

func (k RowKind) String() string {
	switch k {
	case KindAccountHeader:
		return "account-header"
	case KindPriorBalanceMarker:
		return "prior-balance-marker"
	case KindDateHeader:
		return "date-header"
	case KindDailyTotal:
		return "daily-total"
	default:
		return "irrelevant"
	}
}

// Policy selects one of the two negative-balance detection modes.
type Policy string

const (
	// PolicyVendor walks per-day balances only; a negative opening balance
	// is carried into the walk but not reported as its own event.
	PolicyVendor Policy = "vendor"
	// PolicyCommonAccount additionally reports a negative opening balance
	// as a dedicated event before the per-day walk.
	PolicyCommonAccount Policy = "common-account"
)

// ParsePolicy maps a user-supplied policy name to a Policy value.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vendor", "vendors":
		return PolicyVendor, nil
	case "common-account", "common", "common_account":
		return PolicyCommonAccount, nil
	default:
		return "", fmt.Errorf("unknown policy %q. Supported: vendor, common-account", s)
	}
}

// Error kinds attached to balance events.
const (
	ErrKindNegativeDay     = "negative-balance-day"
	ErrKindNegativeOpening = "negative-opening-balance"
)

// OpeningLabel is the date label used for opening-balance events, where no
// calendar date applies.
const OpeningLabel = "opening"

// DateLabelLayout is the calendar-day label format used in result tables.
const DateLabelLayout = "02/01/2006"

// FormatDateLabel renders a walked day the way the report shows it.
func FormatDateLabel(d time.Time) string {
	return d.Format(DateLabelLayout)
}

// BalanceEvent is one detail record: a day (or the opening balance) on which
// an account's running balance was negative.
type BalanceEvent struct {
	Account          string  `json:"account"`
	Date             string  `json:"date"` // DD/MM/YYYY, or OpeningLabel
	ErrorKind        string  `json:"errorKind"`
	PriorBalance     float64 `json:"priorBalance"`
	Debit            float64 `json:"debit"`
	Credit           float64 `json:"credit"`
	ResultingBalance float64 `json:"resultingBalance"`
}

// AccountSummary is one summary record per account with at least one event.
type AccountSummary struct {
	Account         string `json:"account"`
	NegativeDays    int    `json:"negativeDays"`
	FirstErrorDate  string `json:"firstErrorDate"`
	OpeningNegative bool   `json:"openingNegative,omitempty"` // common-account policy only
}

// AnalysisResult bundles both output tables plus run metadata.
// Summary and Detail are sparse: accounts with no negative balance appear in
// neither.
type AnalysisResult struct {
	Policy       Policy           `json:"policy"`
	Summary      []AccountSummary `json:"summary"`
	Detail       []BalanceEvent   `json:"detail"`
	RowCount     int              `json:"rowCount"`
	AccountCount int              `json:"accountCount"` // accounts seen in the input, not just flagged ones
}
