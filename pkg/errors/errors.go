// Package errors implements the project's five-category error taxonomy
// (framing, schema, transport, back-pressure, fatal), a sixth
// not-implemented category for reserved commands, and the CLI's mapping
// from categories to process exit codes.
package errors

import (
	"fmt"
	"os"

	"github.com/drunlade/zwzniff/pkg/logger"
	"github.com/fatih/color"
)

// ExitCode is the process exit status the CLI reports for a given error.
type ExitCode int

const (
	ExitCodeSuccess        ExitCode = 0
	ExitCodeBadArgs        ExitCode = 1
	ExitCodeIO             ExitCode = 2
	ExitCodeNotImplemented ExitCode = 3
)

// Category classifies an Error per the error-handling design: framing
// errors resync locally, schema errors downgrade to opaque bytes, transport
// errors surface and shut down their source, back-pressure events are
// reported without redelivery, fatal errors restore terminal state before
// re-raising, and not-implemented marks a reserved command surface.
type Category int

const (
	CategoryFraming Category = iota
	CategorySchema
	CategoryTransport
	CategoryBackpressure
	CategoryFatal
	CategoryNotImplemented
)

func (c Category) String() string {
	switch c {
	case CategoryFraming:
		return "framing error"
	case CategorySchema:
		return "schema error"
	case CategoryTransport:
		return "transport error"
	case CategoryBackpressure:
		return "back-pressure event"
	case CategoryFatal:
		return "fatal error"
	case CategoryNotImplemented:
		return "not implemented"
	default:
		return "error"
	}
}

// Error is the typed error carried through the capture/decode pipeline.
type Error struct {
	Category   Category
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Underlying }

// New builds an Error of the given category.
func New(cat Category, message string) *Error {
	return &Error{Category: cat, Message: message}
}

// Wrap builds an Error of the given category around an underlying error.
func Wrap(cat Category, message string, err error) *Error {
	return &Error{Category: cat, Message: message, Underlying: err}
}

// Is reports whether err is an *Error of the given category.
func Is(err error, cat Category) bool {
	var e *Error
	if As(err, &e) {
		return e.Category == cat
	}
	return false
}

// As is a local re-implementation kept distinct from the stdlib errors
// package so callers importing this package under its own name do not
// need a second import; it mirrors stdlib errors.As for *Error targets.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// ExitCodeFor maps an error's category to the CLI exit code defined in the
// external-interfaces contract: bad arguments exit 1, everything else that
// reaches the CLI boundary (I/O, framing, schema, transport, fatal) exits 2,
// and a command reserved but not yet built exits 3.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}
	var e *Error
	if As(err, &e) {
		switch e.Category {
		case CategoryFraming, CategorySchema, CategoryTransport, CategoryFatal, CategoryBackpressure:
			return ExitCodeIO
		case CategoryNotImplemented:
			return ExitCodeNotImplemented
		}
	}
	return ExitCodeBadArgs
}

// HandleReturn logs err (if any) through log, prints a colorized summary to
// stderr, and returns the exit code the caller should pass to os.Exit. It
// does not call os.Exit itself, so it is safe to use from library code and
// from tests.
func HandleReturn(log logger.Logger, err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}
	log.Error("%v", err)

	red := color.New(color.FgRed, color.Bold)
	fmt.Fprint(os.Stderr, red.Sprint("Error: "))
	fmt.Fprintln(os.Stderr, err.Error())

	return ExitCodeFor(err)
}
