package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no meaningful time-of-day component.
	Date struct {
		time.Time
	}

	// Money is an amount in cents. Ledger amounts are positive spend
	// magnitudes; refunds and credits are negative.
	Money struct {
		Cents int64
	}

	// Transaction is a single card ledger entry. OperationDate is when the
	// card was charged, PaymentDate when the charge settled; they may differ.
	Transaction struct {
		OperationDate Date
		PaymentDate   Date
		Amount        Money
		Category      string
		CardNumber    string // masked, e.g. "*3456", or full PAN from export
		Description   string
	}

	// Table is an ordered sequence of transactions. Order is irrelevant for
	// aggregation but is the tie-break for top-N selection.
	Table []Transaction
)

var (
	ErrInvalidDay   = errors.New("invalid day")
	ErrInvalidMonth = errors.New("invalid month")
	ErrZeroAmount   = errors.New("zero amount")
	ErrEmptyCard    = errors.New("empty card number")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD date. Failures wrap ErrParse.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ParseErrorf("parse date %q: %v", s, err)
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// In reports whether d falls in [from, to] inclusive.
func (d Date) In(from, to Date) bool {
	return !d.Time.Before(from.Time) && !d.Time.After(to.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.OperationDate.Validate(); err != nil {
		return errors.New("invalid operation date: " + err.Error())
	}
	if err := t.PaymentDate.Validate(); err != nil {
		return errors.New("invalid payment date: " + err.Error())
	}
	if t.Amount.Cents == 0 {
		return ErrZeroAmount
	}
	if strings.TrimSpace(t.CardNumber) == "" {
		return ErrEmptyCard
	}
	return nil
}

// LastDigits returns the last four digits of the card number, ignoring
// spaces and mask characters. Shorter inputs are returned as-is.
func (t Transaction) LastDigits() string {
	digits := make([]rune, 0, len(t.CardNumber))
	for _, r := range t.CardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

// Clone returns a fresh copy of the table.
func (tb Table) Clone() Table {
	out := make(Table, len(tb))
	copy(out, tb)
	return out
}
