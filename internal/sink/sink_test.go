package sink

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"cardwatch/internal/log"
)

type tabularResult struct {
	rows []map[string]any
}

func (r tabularResult) Records() []map[string]any { return r.rows }

type recordingSink struct {
	calls    int
	received []map[string]any
	err      error
}

func (s *recordingSink) Persist(_ context.Context, records []map[string]any) error {
	s.calls++
	s.received = records
	return s.err
}

func TestWithReportLog_PersistsTabularResult(t *testing.T) {
	want := []map[string]any{
		{"Category": "Food", "Total": 125.50},
		{"Category": "Transport", "Total": 42.00},
	}
	rec := &recordingSink{}

	wrapped := WithReportLog(func(context.Context) (tabularResult, error) {
		return tabularResult{rows: want}, nil
	}, rec, log.Discard())

	got, err := wrapped(context.Background())
	if err != nil {
		t.Fatalf("wrapped: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("persist calls = %d, want 1", rec.calls)
	}
	if !reflect.DeepEqual(rec.received, want) {
		t.Errorf("persisted = %+v, want %+v", rec.received, want)
	}
	if !reflect.DeepEqual(got.rows, want) {
		t.Errorf("result rows = %+v, want %+v", got.rows, want)
	}
}

func TestWithReportLog_NonTabularSkipsPersistence(t *testing.T) {
	rec := &recordingSink{}

	wrapped := WithReportLog(func(context.Context) (string, error) {
		return "not a table", nil
	}, rec, log.Discard())

	got, err := wrapped(context.Background())
	if err != nil {
		t.Fatalf("wrapped: %v", err)
	}
	if got != "not a table" {
		t.Errorf("result = %q, want pass-through", got)
	}
	if rec.calls != 0 {
		t.Errorf("persist calls = %d, want 0 for non-tabular result", rec.calls)
	}
}

func TestWithReportLog_ComputationErrorSkipsPersistence(t *testing.T) {
	rec := &recordingSink{}
	boom := errors.New("boom")

	wrapped := WithReportLog(func(context.Context) (tabularResult, error) {
		return tabularResult{}, boom
	}, rec, log.Discard())

	if _, err := wrapped(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want the computation error", err)
	}
	if rec.calls != 0 {
		t.Errorf("persist calls = %d, want 0 when the computation fails", rec.calls)
	}
}

func TestWithReportLog_PersistFailureIsSwallowed(t *testing.T) {
	rec := &recordingSink{err: errors.New("disk full")}

	wrapped := WithReportLog(func(context.Context) (tabularResult, error) {
		return tabularResult{rows: []map[string]any{{"Category": "Food"}}}, nil
	}, rec, log.Discard())

	got, err := wrapped(context.Background())
	if err != nil {
		t.Errorf("err = %v, want nil despite persistence failure", err)
	}
	if len(got.rows) != 1 {
		t.Errorf("result rows = %+v, want pass-through", got.rows)
	}
}

func TestWithReportLog_NilSink(t *testing.T) {
	wrapped := WithReportLog(func(context.Context) (tabularResult, error) {
		return tabularResult{rows: []map[string]any{{"Category": "Food"}}}, nil
	}, nil, log.Discard())

	if _, err := wrapped(context.Background()); err != nil {
		t.Errorf("err = %v, want nil with no sink configured", err)
	}
}
