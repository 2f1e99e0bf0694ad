package engine

import (
	"regexp"
	"strings"
	"time"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

// Account header lines look like "100 - Acme Supplies": a numeric code,
// a dash with optional surrounding spaces, then the account name.
var accountHeaderPattern = regexp.MustCompile(`^\d+\s*-\s*`)

// priorBalancePhrase marks a row whose Balance field carries the account's
// opening balance rather than a movement.
const priorBalancePhrase = "prior balance"

// dailyTotalPhrase marks a row reporting the aggregate debit/credit for the
// current account/date context.
const dailyTotalPhrase = "total dia"

// RowClass is the classifier's verdict on a single row.
//
// Marker is tracked separately from Kind because a prior-balance marker can
// co-occur with an account header: a single row may open an account and carry
// its opening balance at the same time.
type RowClass struct {
	Kind    models.RowKind
	Account string    // trimmed header text, set for KindAccountHeader
	Date    time.Time // calendar date (time discarded), set for KindDateHeader
	Marker  bool      // prior-balance marker present on this row
}

// Classify assigns a row to exactly one kind, with account headers taking
// precedence over everything else. Classification is context-free; whether a
// date header or daily total is actually usable depends on the state machine
// having an active account, which Apply enforces.
func Classify(row models.Row) RowClass {
	marker := hasPriorBalanceMarker(row.Value)

	if hist, ok := row.History.(string); ok {
		trimmed := strings.TrimSpace(hist)
		if accountHeaderPattern.MatchString(trimmed) {
			return RowClass{Kind: models.KindAccountHeader, Account: trimmed, Marker: marker}
		}
		if marker {
			return RowClass{Kind: models.KindPriorBalanceMarker, Marker: true}
		}
		if strings.Contains(strings.ToLower(trimmed), dailyTotalPhrase) {
			return RowClass{Kind: models.KindDailyTotal}
		}
		return RowClass{Kind: models.KindIrrelevant}
	}

	if marker {
		return RowClass{Kind: models.KindPriorBalanceMarker, Marker: true}
	}

	if when, ok := row.History.(time.Time); ok {
		return RowClass{Kind: models.KindDateHeader, Date: truncateToDay(when)}
	}

	return RowClass{Kind: models.KindIrrelevant}
}

func hasPriorBalanceMarker(value string) bool {
	return strings.Contains(strings.ToLower(value), priorBalancePhrase)
}

// truncateToDay discards the time-of-day component; day buckets are keyed by
// calendar date only.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
