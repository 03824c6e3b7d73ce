// Package errs carries the error taxonomy shared by every layer of the box
// office. Each failure has a Code that names it and a Kind that groups it
// for the HTTP layer. Errors are built on cockroachdb/errors so they keep a
// stack trace while remaining comparable with errors.Is.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Kind groups error codes by how a caller is expected to react.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindExpiry     Kind = "expiry"
	KindIntegrity  Kind = "integrity"
	KindInternal   Kind = "internal"
)

// Code identifies a single failure condition.
type Code string

const (
	CodeEmptySelection        Code = "EmptySelection"
	CodeTooManySeats          Code = "TooManySeats"
	CodeDuplicateSeat         Code = "DuplicateSeat"
	CodeIncompatibleEntryType Code = "IncompatibleEntryType"
	CodeInvalidEntryType      Code = "InvalidEntryType"
	CodeUnknownSeat           Code = "UnknownSeat"
	CodeInvalidReason         Code = "InvalidReason"
	CodeInvalidSearch         Code = "InvalidSearch"
	CodeInvalidRequest        Code = "InvalidRequest"
	CodeUnknownScreening      Code = "UnknownScreening"
	CodeUnknownClient         Code = "UnknownClient"
	CodeSeatUnavailable       Code = "SeatUnavailable"
	CodeInvalidState          Code = "InvalidState"
	CodeAlreadyCancelled      Code = "AlreadyCancelled"
	CodeNotFound              Code = "NotFound"
	CodeReservationExpired    Code = "ReservationExpired"
	CodeIntegrityFault        Code = "IntegrityFault"
	CodeInternal              Code = "Internal"
)

var kinds = map[Code]Kind{
	CodeEmptySelection:        KindValidation,
	CodeTooManySeats:          KindValidation,
	CodeDuplicateSeat:         KindValidation,
	CodeIncompatibleEntryType: KindValidation,
	CodeInvalidEntryType:      KindValidation,
	CodeUnknownSeat:           KindValidation,
	CodeInvalidReason:         KindValidation,
	CodeInvalidSearch:         KindValidation,
	CodeInvalidRequest:        KindValidation,
	CodeUnknownScreening:      KindValidation,
	CodeUnknownClient:         KindValidation,
	CodeSeatUnavailable:       KindConflict,
	CodeInvalidState:          KindConflict,
	CodeAlreadyCancelled:      KindConflict,
	CodeNotFound:              KindNotFound,
	CodeReservationExpired:    KindExpiry,
	CodeIntegrityFault:        KindIntegrity,
	CodeInternal:              KindInternal,
}

// Error is the concrete error type behind every Code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// Kind reports the group the error's code belongs to.
func (e *Error) Kind() Kind {
	if k, ok := kinds[e.Code]; ok {
		return k
	}
	return KindInternal
}

// Is matches any *Error carrying the same code, so the package level
// sentinels below work with errors.Is regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrEmptySelection        = &Error{Code: CodeEmptySelection}
	ErrTooManySeats          = &Error{Code: CodeTooManySeats}
	ErrDuplicateSeat         = &Error{Code: CodeDuplicateSeat}
	ErrIncompatibleEntryType = &Error{Code: CodeIncompatibleEntryType}
	ErrInvalidEntryType      = &Error{Code: CodeInvalidEntryType}
	ErrUnknownSeat           = &Error{Code: CodeUnknownSeat}
	ErrInvalidReason         = &Error{Code: CodeInvalidReason}
	ErrInvalidSearch         = &Error{Code: CodeInvalidSearch}
	ErrInvalidRequest        = &Error{Code: CodeInvalidRequest}
	ErrUnknownScreening      = &Error{Code: CodeUnknownScreening}
	ErrUnknownClient         = &Error{Code: CodeUnknownClient}
	ErrSeatUnavailable       = &Error{Code: CodeSeatUnavailable}
	ErrInvalidState          = &Error{Code: CodeInvalidState}
	ErrAlreadyCancelled      = &Error{Code: CodeAlreadyCancelled}
	ErrNotFound              = &Error{Code: CodeNotFound}
	ErrReservationExpired    = &Error{Code: CodeReservationExpired}
	ErrIntegrityFault        = &Error{Code: CodeIntegrityFault}
)

// Newf builds a coded error with a formatted message and a stack trace.
func Newf(code Code, format string, args ...any) error {
	return cr.WithStackDepth(&Error{Code: code, Message: fmt.Sprintf(format, args...)}, 1)
}

// New returns an uncoded error with a stack trace. It is reported as
// internal.
func New(msg string) error {
	return cr.New(msg)
}

// Wrap annotates err with msg. A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

// Integrity reports a broken invariant observed in stored state. The
// underlying cause, if any, is kept as a secondary error for logging.
func Integrity(cause error, format string, args ...any) error {
	err := Newf(CodeIntegrityFault, format, args...)
	if cause != nil {
		err = cr.WithSecondaryError(err, cause)
	}
	return err
}

// Is reports whether err matches target anywhere in its chain.
func Is(err, target error) bool {
	return cr.Is(err, target)
}

// As finds the first coded error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if cr.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err. Errors without a code are internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind()
	}
	return KindInternal
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// ExtractStackLines renders err with its stack and returns at most maxLines
// lines of it.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
