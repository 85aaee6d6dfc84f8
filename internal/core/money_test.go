package core

import (
	"errors"
	"testing"
)

func TestParseAmountToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "integer", input: "1712", want: 171200},
		{name: "negative refund", input: "-5", want: -500},
		{name: "explicit plus", input: "+3.50", want: 350},
		{name: "third decimal rounds down", input: "12.344", want: 1234},
		{name: "third decimal rounds up", input: "12.346", want: 1235},
		{name: "single fractional digit", input: "0.5", want: 50},
		{name: "leading dot", input: ".75", want: 75},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "12a.00", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmountToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmountToCents(%q) expected error, got %d", tt.input, got)
				}
				if !errors.Is(err, ErrParse) {
					t.Errorf("error should wrap ErrParse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmountToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmountToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoney_NextMultiple(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		step   int64
		want   int64
	}{
		{name: "between multiples", amount: 171200, step: 5000, want: 175000},
		{name: "exact multiple advances full step", amount: 10000, step: 5000, want: 15000},
		{name: "below one step", amount: 1200, step: 5000, want: 5000},
		{name: "zero advances one step", amount: 0, step: 5000, want: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money{Cents: tt.amount}.NextMultiple(Money{Cents: tt.step})
			if got.Cents != tt.want {
				t.Errorf("NextMultiple(%d, %d) = %d, want %d", tt.amount, tt.step, got.Cents, tt.want)
			}
		})
	}
}

func TestMoney_Percent(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		p     int64
		want  int64
	}{
		{name: "one percent exact", cents: 200000, p: 1, want: 2000},
		{name: "one percent rounds half up", cents: 123456, p: 1, want: 1235},
		{name: "one percent rounds down", cents: 123432, p: 1, want: 1234},
		{name: "negative total", cents: -123456, p: 1, want: -1235},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money{Cents: tt.cents}.Percent(tt.p)
			if got.Cents != tt.want {
				t.Errorf("Percent(%d, %d%%) = %d, want %d", tt.cents, tt.p, got.Cents, tt.want)
			}
		})
	}
}

func TestTransaction_LastDigits(t *testing.T) {
	tests := []struct {
		name string
		card string
		want string
	}{
		{name: "full pan with spaces", card: "1234 5678 9012 3456", want: "3456"},
		{name: "masked", card: "*7197", want: "7197"},
		{name: "short", card: "97", want: "97"},
		{name: "empty", card: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transaction{CardNumber: tt.card}.LastDigits()
			if got != tt.want {
				t.Errorf("LastDigits(%q) = %q, want %q", tt.card, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2023 || d.Month() != 9 || d.Day() != 30 {
		t.Errorf("ParseDate = %v, want 2023-09-30", d)
	}

	if _, err := ParseDate("30.09.2023"); !errors.Is(err, ErrParse) {
		t.Errorf("malformed date should wrap ErrParse, got %v", err)
	}
}

func TestDate_In(t *testing.T) {
	from := NewDate(2023, 1, 1)
	to := NewDate(2023, 1, 31)

	tests := []struct {
		name string
		d    Date
		want bool
	}{
		{name: "inside", d: NewDate(2023, 1, 15), want: true},
		{name: "lower bound inclusive", d: NewDate(2023, 1, 1), want: true},
		{name: "upper bound inclusive", d: NewDate(2023, 1, 31), want: true},
		{name: "before window", d: NewDate(2022, 12, 31), want: false},
		{name: "after window", d: NewDate(2023, 2, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.In(from, to); got != tt.want {
				t.Errorf("In() = %v, want %v", got, tt.want)
			}
		})
	}
}
