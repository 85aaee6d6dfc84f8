package memory

import (
	"context"
	"errors"
	"testing"

	"cardwatch/internal/core"
)

func tx(day int, cents int64, category string) core.Transaction {
	d := core.NewDate(2023, 9, day)
	return core.Transaction{
		OperationDate: d,
		PaymentDate:   d,
		Amount:        core.Money{Cents: cents},
		Category:      category,
		CardNumber:    "*3456",
	}
}

func TestListTransactions_WindowInclusive(t *testing.T) {
	store := New(core.Table{
		tx(1, 1000, "Food"),
		tx(15, 2000, "Transport"),
		tx(30, 3000, "Food"),
	})

	got, err := store.ListTransactions(context.Background(),
		core.NewDate(2023, 9, 1), core.NewDate(2023, 9, 15))
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	if got[0].Category != "Food" || got[1].Category != "Transport" {
		t.Errorf("rows out of insertion order: %+v", got)
	}
}

func TestAppend(t *testing.T) {
	store := New(nil)
	if err := store.Append(context.Background(), tx(5, 1500, "Food")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := store.ListTransactions(context.Background(),
		core.NewDate(2023, 9, 1), core.NewDate(2023, 9, 30))
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 1 || got[0].Amount.Cents != 1500 {
		t.Errorf("rows = %+v, want the appended transaction", got)
	}
}

func TestAppend_Invalid(t *testing.T) {
	store := New(nil)

	bad := tx(5, 0, "Food")
	if err := store.Append(context.Background(), bad); !errors.Is(err, core.ErrZeroAmount) {
		t.Errorf("Append zero amount: err = %v, want ErrZeroAmount", err)
	}

	noCard := tx(5, 1000, "Food")
	noCard.CardNumber = "  "
	if err := store.Append(context.Background(), noCard); !errors.Is(err, core.ErrEmptyCard) {
		t.Errorf("Append empty card: err = %v, want ErrEmptyCard", err)
	}

	got, _ := store.ListTransactions(context.Background(),
		core.NewDate(2023, 9, 1), core.NewDate(2023, 9, 30))
	if len(got) != 0 {
		t.Errorf("invalid transactions were stored: %+v", got)
	}
}

func TestNew_CopiesInput(t *testing.T) {
	seed := core.Table{tx(5, 1000, "Food")}
	store := New(seed)
	seed[0].Category = "Mutated"

	got, _ := store.ListTransactions(context.Background(),
		core.NewDate(2023, 9, 1), core.NewDate(2023, 9, 30))
	if got[0].Category != "Food" {
		t.Errorf("store shares backing array with caller input")
	}
}
