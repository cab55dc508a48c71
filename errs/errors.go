// Package errs enumerates the error kinds of spec.md §7. Each kind is a
// sentinel wrapped with context via fmt.Errorf("%w", ...), so callers can use
// errors.Is against the sentinels below. Aggregate combines several errors
// with hashicorp/go-multierror; the scorer's worker pool reports only the
// first worker failure.
package errs

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Sentinels, one per layer named in spec.md §7.
var (
	// ErrConfiguration covers unknown field types, invalid per-kind field
	// settings, duplicate field names, and dangling interaction parents. Fatal
	// at model-construction time. A Text or Set field without a corpus is
	// accepted.
	ErrConfiguration = errors.New("configuration error")

	// ErrIngestion covers a pair naming an unknown record id, a record missing
	// a field that is not declared HasMissing, and overlapping record pools.
	// A field value of the wrong shape for its declared type is not rejected:
	// the kernels read it as an empty or zero value.
	ErrIngestion = errors.New("ingestion error")

	// ErrTraining covers degenerate training input: fewer than two examples of
	// either label, or zero-variance feature columns across the board.
	ErrTraining = errors.New("training error")

	// ErrBlocking covers blocking-stage failures: the candidate generator
	// returns it when a block exceeds the configured maximum size. An unmet
	// recall target is not an error; blocklearn reports it through
	// Result.RecallMet alongside the best-effort disjunction.
	ErrBlocking = errors.New("blocking error")

	// ErrScoring covers NaN feature vectors (a kernel bug, not user error).
	// Numerical overflow itself is not an error condition — the sigmoid is
	// computed in overflow-safe form — so it never raises ErrScoring.
	ErrScoring = errors.New("scoring error")

	// ErrCancelled is returned when a caller's cancellation token fires.
	// Distinct from every other failure: it is never wrapped with a partial
	// result, per spec.md §5.
	ErrCancelled = errors.New("operation cancelled")
)

// Wrap attaches a sentinel and a message to produce a caller-facing error.
func Wrap(sentinel error, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &wrapped{sentinel: sentinel, msg: msg}
}

type wrapped struct {
	sentinel error
	msg      string
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.sentinel }

// Aggregate combines zero or more errors into a single error using
// go-multierror, returning nil if every element is nil.
func Aggregate(errsIn ...error) error {
	var result *multierror.Error
	for _, e := range errsIn {
		if e != nil {
			result = multierror.Append(result, e)
		}
	}
	if result == nil {
		return nil
	}
	return result.ErrorOrNil()
}
