// Package engine interprets a tabular accounting ledger and detects every
// account and day on which the running balance goes negative.
//
// The engine is a single-pass, stateful row interpreter: it reconstructs
// account boundaries, daily subtotals, and opening balances from the row
// stream, then replays each account's days in chronological order carrying a
// running balance. It performs no I/O and holds no state across invocations;
// each call to Analyze is independent and deterministic.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/insightdelivered/ledger-analyzer/internal/models"
)

// dayTotals accumulates the debit/credit movement of one account on one day.
// Totals for the same account+date reported across several rows add into the
// same bucket.
type dayTotals struct {
	Debit  float64
	Credit float64
}

// ledgerState is the mutable context of the single pass over the row stream.
type ledgerState struct {
	currentAccount string
	currentDate    time.Time
	hasAccount     bool
	hasDate        bool

	// Output account order is observable and must match first-seen order,
	// so account keys are tracked in an explicit slice alongside the maps.
	order   []string
	opening map[string]float64
	days    map[string]map[time.Time]*dayTotals
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		opening: make(map[string]float64),
		days:    make(map[string]map[time.Time]*dayTotals),
	}
}

// Apply advances the state machine by one classified row. Rows seen before
// any account header, and movement rows seen before any date header, are
// dropped without effect.
func (s *ledgerState) Apply(row models.Row, class RowClass) {
	switch class.Kind {
	case models.KindAccountHeader:
		s.currentAccount = class.Account
		s.hasAccount = true
		s.hasDate = false
		if _, seen := s.opening[class.Account]; !seen {
			s.opening[class.Account] = 0.0
			s.days[class.Account] = make(map[time.Time]*dayTotals)
			s.order = append(s.order, class.Account)
		}
		if class.Marker {
			s.opening[class.Account] = ParseNum(row.Balance)
		}
		return

	case models.KindPriorBalanceMarker:
		if !s.hasAccount {
			return
		}
		// Last marker wins; the bucket was created on first header sight.
		s.opening[s.currentAccount] = ParseNum(row.Balance)
		return

	case models.KindDateHeader:
		if !s.hasAccount {
			return
		}
		s.currentDate = class.Date
		s.hasDate = true
		return

	case models.KindDailyTotal:
		if !s.hasAccount || !s.hasDate {
			return
		}
		bucket := s.days[s.currentAccount][s.currentDate]
		if bucket == nil {
			bucket = &dayTotals{}
			s.days[s.currentAccount][s.currentDate] = bucket
		}
		bucket.Debit += ParseNum(row.Key)
		bucket.Credit += ParseNum(row.Value)
		return
	}
	// Irrelevant rows change nothing.
}

// Analyze runs the full pipeline over the row stream: classification, state
// accumulation, then the chronological balance walk under the given policy.
// The only error condition is an unknown policy; row-level noise is ignored
// by design (ledgers contain many non-substantive rows).
func Analyze(rows []models.Row, policy models.Policy) (*models.AnalysisResult, error) {
	if policy != models.PolicyVendor && policy != models.PolicyCommonAccount {
		return nil, fmt.Errorf("unsupported policy: %q", policy)
	}

	state := newLedgerState()
	for _, row := range rows {
		state.Apply(row, Classify(row))
	}

	result := walk(state, policy)
	result.RowCount = len(rows)
	result.AccountCount = len(state.order)
	return result, nil
}

// walk replays each account's days in ascending calendar order, carrying the
// running balance forward from the opening balance, and collects every day
// the balance lands below zero. Under the common-account policy a negative
// opening balance is itself reported first, as a dedicated event; that event
// pre-sets the account's counter so it is never double-counted against
// day-level errors.
func walk(state *ledgerState, policy models.Policy) *models.AnalysisResult {
	summaries := make(map[string]*models.AccountSummary)
	detail := []models.BalanceEvent{}

	record := func(account string) *models.AccountSummary {
		s, ok := summaries[account]
		if !ok {
			s = &models.AccountSummary{Account: account}
			summaries[account] = s
		}
		return s
	}

	if policy == models.PolicyCommonAccount {
		for _, account := range state.order {
			opening := state.opening[account]
			if opening >= 0 {
				continue
			}
			s := record(account)
			s.NegativeDays = 1
			s.FirstErrorDate = models.OpeningLabel
			s.OpeningNegative = true
			detail = append(detail, models.BalanceEvent{
				Account:          account,
				Date:             models.OpeningLabel,
				ErrorKind:        models.ErrKindNegativeOpening,
				ResultingBalance: opening,
			})
		}
	}

	for _, account := range state.order {
		balance := state.opening[account]

		buckets := state.days[account]
		dates := make([]time.Time, 0, len(buckets))
		for d := range buckets {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		for _, date := range dates {
			day := buckets[date]
			before := balance
			balance = before - day.Debit + day.Credit
			if balance >= 0 {
				continue
			}

			s := record(account)
			s.NegativeDays++
			label := models.FormatDateLabel(date)
			if s.FirstErrorDate == "" {
				s.FirstErrorDate = label
			}
			detail = append(detail, models.BalanceEvent{
				Account:          account,
				Date:             label,
				ErrorKind:        models.ErrKindNegativeDay,
				PriorBalance:     before,
				Debit:            day.Debit,
				Credit:           day.Credit,
				ResultingBalance: balance,
			})
		}
	}

	// The summary table lists flagged accounts in first-seen input order.
	summary := make([]models.AccountSummary, 0, len(summaries))
	for _, account := range state.order {
		if s, ok := summaries[account]; ok {
			summary = append(summary, *s)
		}
	}

	return &models.AnalysisResult{
		Policy:  policy,
		Summary: summary,
		Detail:  detail,
	}
}
