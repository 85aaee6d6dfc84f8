package report

import (
	"time"

	"cardwatch/internal/core"
)

// RoundUpSummary is the reportable form of a round-up computation. It
// satisfies the sink Tabular contract so report-log wrappers can persist it.
type RoundUpSummary struct {
	Month string     `json:"month"`
	Limit int        `json:"limit"`
	Total core.Money `json:"-"`
}

// Records renders the summary as a single persistence record.
func (s RoundUpSummary) Records() []map[string]any {
	return []map[string]any{{
		"month": s.Month,
		"limit": s.Limit,
		"total": s.Total.Units(),
	}}
}

// RoundUp computes the total that rounding every purchase in the target
// month up to the next multiple of limit would feed into a savings pot.
// month is YYYY-MM; limit is a positive whole number of currency units.
//
// Selection is by operation date in [first of month, first of next month).
// An amount already sitting on a multiple of limit still rounds up a full
// tier, so the per-transaction remainder is never zero. Refunds (negative
// amounts) do not feed the pot.
//
// A non-positive limit or a malformed month is a caller bug and fails with
// ErrInvalidArgument; an empty selection is simply a zero total.
func RoundUp(month string, txs core.Table, limit int) (core.Money, error) {
	if limit <= 0 {
		return core.Money{}, core.InvalidArgumentf("round-up limit %d must be positive", limit)
	}

	start, err := time.Parse("2006-01", month)
	if err != nil {
		return core.Money{}, core.InvalidArgumentf("round-up month %q is not YYYY-MM", month)
	}
	// Day overflow normalizes away, so this is always the first day of the
	// following month regardless of month length.
	end := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, time.UTC)

	step := core.Money{Cents: int64(limit) * 100}

	var total int64
	for _, tx := range txs {
		op := tx.OperationDate.Time
		if op.Before(start) || !op.Before(end) {
			continue
		}
		if tx.Amount.Cents <= 0 {
			continue
		}
		total += tx.Amount.NextMultiple(step).Cents - tx.Amount.Cents
	}

	return core.Money{Cents: total}, nil
}
