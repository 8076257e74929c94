// Package kerror implements a small fixed set of error kinds plus a
// can-continue flag, modeled as a Go error rather than a panic, so
// every core function can return (*value.Value, error) and the
// evaluator trampoline decides where control goes next instead of
// unwinding the host stack.
//
// Grounded on original_source/src/kerror.c (klispE_throw writes
// "\n*ERROR*: %s\n" to stderr and records whether evaluation can
// resume).
package kerror

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

// Kind enumerates the error taxonomy.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindArgument
	KindType
	KindStructure
	KindMatch
	KindUnboundVariable
	KindUnboundKeyed
	KindImmutable
	KindArith
	KindNoPrimaryValue
	KindRange
	KindIO
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "argument-count-error"
	case KindType:
		return "type-error"
	case KindStructure:
		return "structure-error"
	case KindMatch:
		return "match-error"
	case KindUnboundVariable:
		return "unbound-symbol"
	case KindUnboundKeyed:
		return "unbound-keyed"
	case KindImmutable:
		return "immutability-error"
	case KindArith:
		return "arith-error"
	case KindNoPrimaryValue:
		return "no-primary-value"
	case KindRange:
		return "range-error"
	case KindIO:
		return "io-error"
	case KindInternal:
		return "internal-error"
	default:
		return "unknown-error"
	}
}

// Error is the Kernel-visible error taxonomy realized as a Go error.
// CanContinue mirrors klisp's K->error_can_cont: set for conditions a
// handler may resume from (e.g. continuable-error), clear for the rest.
type Error struct {
	Kind        Kind
	Message     string
	Extra       string
	CanContinue bool
	cause       error
}

func (e *Error) Error() string {
	if e.Extra != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Extra)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes a wrapped host-boundary cause (io-error only) so
// errors.Is/As still see through it.
func (e *Error) Unwrap() error { return e.cause }

// New builds a non-continuable error of the given kind.
func New(kind Kind, message string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(message, args...)}
}

// Newf is an alias of New kept for call sites that always format.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, format, args...)
}

// WithExtra attaches the extra diagnostic payload klisp prints
// alongside the message (e.g. the offending value's printed form).
func (e *Error) WithExtra(extra string) *Error {
	e.Extra = extra
	return e
}

// Continuable marks the error as resumable by a handler.
func (e *Error) Continuable() *Error {
	e.CanContinue = true
	return e
}

// WrapIO wraps a host I/O failure (a closed or unreadable port) as an
// io-error, keeping the original error as the traceable cause via
// github.com/pkg/errors — the one place in this module that needs a
// recoverable stack trace, since the failure originates below Kernel
// logic in the Go standard library rather than in the core itself.
func WrapIO(cause error, message string) *Error {
	return &Error{
		Kind:    KindIO,
		Message: message,
		cause:   errors.WithStack(cause),
	}
}

// Report writes the one mandated diagnostic line to stderr, matching
// klispE_throw's "*ERROR*: <message> [<extra>]" format. When verbose is
// true (used by the demo CLI's -v flag) it also dumps the wrapped cause
// with github.com/kr/pretty for a closed-port/io-error.
func Report(err *Error, verbose bool) {
	if err.Extra != "" {
		fmt.Fprintf(os.Stderr, "*ERROR*: %s [%s]\n", err.Message, err.Extra)
	} else {
		fmt.Fprintf(os.Stderr, "*ERROR*: %s\n", err.Message)
	}
	if verbose && err.cause != nil {
		fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(err.cause))
	}
}

// As is a small convenience wrapper around errors.As for the common
// case of narrowing a plain `error` back to *Error.
func As(err error) (*Error, bool) {
	var ke *Error
	if errors.As(err, &ke) {
		return ke, true
	}
	return nil, false
}
