// Package sink persists computed report tables. The report-log combinator
// is an explicit wrapper around a report-producing function, parameterized
// by a Sink; persistence problems are logged but never surfaced to the
// caller.
package sink

import (
	"context"

	"cardwatch/internal/log"
)

type (
	// Tabular is implemented by report results that can be persisted as a
	// sequence of flat records.
	Tabular interface {
		Records() []map[string]any
	}

	// Sink stores one report's records somewhere durable.
	Sink interface {
		Persist(ctx context.Context, records []map[string]any) error
	}

	// ReportFunc produces a report of type T.
	ReportFunc[T any] func(ctx context.Context) (T, error)
)

// WithReportLog wraps fn so that a successful tabular result is persisted to
// s as a side effect. Non-tabular results log a warning and skip
// persistence; persistence failures are logged and swallowed. The wrapped
// function's result and error pass through untouched either way.
func WithReportLog[T any](fn ReportFunc[T], s Sink, logger *log.Logger) ReportFunc[T] {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	sinkLogger := logger.WithComponent(log.ComponentSink)

	return func(ctx context.Context) (T, error) {
		result, err := fn(ctx)
		if err != nil || s == nil {
			return result, err
		}

		tab, ok := any(result).(Tabular)
		if !ok {
			sinkLogger.Warn("report result is not tabular, skipping persistence")
			return result, nil
		}

		if perr := s.Persist(ctx, tab.Records()); perr != nil {
			sinkLogger.Error("report persistence failed", log.FieldError, perr)
		} else {
			sinkLogger.Info("report persisted")
		}
		return result, nil
	}
}

// Noop discards every report.
type Noop struct{}

func (Noop) Persist(context.Context, []map[string]any) error { return nil }
