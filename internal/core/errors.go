package core

import (
	"errors"
	"fmt"
)

// Error taxonomy shared across the module. Components wrap these sentinels
// with fmt.Errorf("...: %w", ...) so callers can branch with errors.Is.
var (
	// ErrNotFound marks a missing settings or data file. Recovered locally
	// with an empty-value fallback, never surfaced to callers.
	ErrNotFound = errors.New("not found")

	// ErrParse marks a malformed document or unparseable date.
	ErrParse = errors.New("parse error")

	// ErrInvalidArgument marks a caller contract violation, e.g. a
	// non-positive round-up limit. Always surfaced as a hard failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLookupFailed marks a failed rate or price lookup. Recovered
	// per item as a null result, never aborts a batch.
	ErrLookupFailed = errors.New("lookup failed")
)

// ParseErrorf builds an error wrapping ErrParse.
func ParseErrorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrParse)...)
}

// InvalidArgumentf builds an error wrapping ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}
