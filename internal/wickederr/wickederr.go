// Package wickederr defines the error kinds the contraction engine can
// raise. Per the engine's error-handling design, nothing here is transient
// or retried: an InvariantViolation or Unsupported error always means the
// caller must fix the input (or, for an invariant, that the engine itself
// has a bug) before calling again.
package wickederr

import "fmt"

// Kind identifies which of the two fatal error categories an Error belongs
// to. EmptyResult (no contraction in the requested rank band) is not an
// error at all and has no Kind value; callers see it as a zero-length
// Expression.
type Kind int

const (
	// KindInvariantViolation marks an internal consistency failure, e.g. an
	// op_map lookup miss or negative free legs. These indicate a bug in the
	// engine, not bad caller input.
	KindInvariantViolation Kind = iota
	// KindUnsupported marks input the engine intentionally refuses to
	// process, e.g. an odd-rank operator passed to the canonicalizer.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindInvariantViolation:
		return "invariant violation"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned for both fatal kinds.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error of the same Kind, so callers can
// use errors.Is(err, wickederr.ErrInvariantViolation) without caring about
// the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks; their Msg is irrelevant to Is.
var (
	ErrInvariantViolation = &Error{Kind: KindInvariantViolation}
	ErrUnsupported        = &Error{Kind: KindUnsupported}
)

// Invariantf builds an InvariantViolation error with a formatted message.
func Invariantf(format string, args ...any) *Error {
	return &Error{Kind: KindInvariantViolation, Msg: fmt.Sprintf(format, args...)}
}

// Unsupportedf builds an Unsupported error with a formatted message.
func Unsupportedf(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupported, Msg: fmt.Sprintf(format, args...)}
}
