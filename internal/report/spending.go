// Package report implements the card ledger analytics: category spend
// windows, the round-up savings calculator and the dashboard composer.
package report

import (
	"time"

	"cardwatch/internal/core"
)

// Clock supplies the current time. Production code passes nil for time.Now;
// tests inject a fixed instant.
type Clock func() time.Time

// CategoryRow is one aggregated line of a category spend report.
type CategoryRow struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"-"`
}

// CategoryTable is the tabular result of SpendingByCategory. It satisfies
// the sink Tabular contract so report-log wrappers can persist it.
type CategoryTable struct {
	Rows []CategoryRow
}

// Records renders the table as one map per row for persistence.
func (t CategoryTable) Records() []map[string]any {
	out := make([]map[string]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, map[string]any{
			"category": r.Category,
			"amount":   r.Amount.Units(),
		})
	}
	return out
}

// Empty reports whether the table has no rows.
func (t CategoryTable) Empty() bool {
	return len(t.Rows) == 0
}

// SpendingByCategory sums the amounts of all transactions in the given
// category whose payment date falls in the three calendar months up to and
// including the reference date. refDate is ISO YYYY-MM-DD; empty means the
// current date. A category with no matches yields a zero-row table, not an
// error. The input table is never mutated.
func SpendingByCategory(tb core.Table, category, refDate string, clock Clock) (CategoryTable, error) {
	if clock == nil {
		clock = time.Now
	}

	var ref core.Date
	if refDate == "" {
		now := clock()
		ref = core.NewDate(now.Year(), int(now.Month()), now.Day())
	} else {
		parsed, err := core.ParseDate(refDate)
		if err != nil {
			return CategoryTable{}, err
		}
		ref = parsed
	}

	start := addMonthsClamped(ref, -3)

	var sum int64
	matched := false
	for _, tx := range tb {
		if tx.Category != category {
			continue
		}
		if !tx.PaymentDate.In(start, ref) {
			continue
		}
		sum += tx.Amount.Cents
		matched = true
	}

	if !matched {
		return CategoryTable{}, nil
	}
	return CategoryTable{
		Rows: []CategoryRow{{Category: category, Amount: core.Money{Cents: sum}}},
	}, nil
}

// addMonthsClamped shifts a date by whole calendar months, preserving the
// day of month where valid and clamping to the last day of the target month
// otherwise (2023-05-31 minus 3 months is 2023-02-28). time.AddDate
// normalizes overflow instead of clamping, so it cannot be used here.
func addMonthsClamped(d core.Date, months int) core.Date {
	first := time.Date(d.Year(), time.Month(d.Month()+months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return core.NewDate(first.Year(), int(first.Month()), day)
}
