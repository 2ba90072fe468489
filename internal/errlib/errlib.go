// Package errlib defines the abstract error kinds of spec §7 as typed
// structs, following the teacher's IndexingError convention: a constant
// Kind, an Operation label, an Underlying cause, and a Timestamp.
package errlib

import (
	"fmt"
	"time"
)

// Kind is the abstract error category from spec §7.
type Kind string

const (
	KindInvalidInput  Kind = "invalid_input"
	KindFileAccess    Kind = "file_access"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindTimeout       Kind = "timeout"
	KindCanceled      Kind = "canceled"
	KindCapacity      Kind = "capacity"
	KindSchema        Kind = "schema"
	KindInternal      Kind = "internal"
)

// Error is the single surfaced error type; per-file/per-symbol failures
// (ParseError, ResolutionWarning) never reach this type — they are logged
// and dropped at the point of failure instead.
type Error struct {
	Kind       Kind
	Operation  string
	Context    string // e.g. file path, tree_id, session_id
	Underlying error
	Timestamp  time.Time
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Operation: op, Underlying: err, Timestamp: time.Now()}
}

// WithContext attaches reproduction context (file, tree_id, session_id, ...).
func (e *Error) WithContext(ctx string) *Error {
	e.Context = ctx
	return e
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Operation, e.Context, e.Underlying)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Operation, e.Underlying)
}

func (e *Error) Unwrap() error { return e.Underlying }

// Is supports errors.Is(err, errlib.KindNotFound)-style checks by kind.
func (e *Error) Is(target error) bool {
	if k, ok := target.(*Error); ok {
		return e.Kind == k.Kind
	}
	return false
}

func InvalidInput(op string, err error) *Error { return New(KindInvalidInput, op, err) }
func FileAccess(op string, err error) *Error   { return New(KindFileAccess, op, err) }
func NotFound(op string, err error) *Error     { return New(KindNotFound, op, err) }
func Conflict(op string, err error) *Error     { return New(KindConflict, op, err) }
func Timeout(op string, err error) *Error      { return New(KindTimeout, op, err) }
func Canceled(op string, err error) *Error     { return New(KindCanceled, op, err) }
func Capacity(op string, err error) *Error     { return New(KindCapacity, op, err) }
func Schema(op string, err error) *Error       { return New(KindSchema, op, err) }
func Internal(op string, err error) *Error     { return New(KindInternal, op, err) }

// KindOf extracts the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	for err != nil {
		if asErr, ok := err.(*Error); ok {
			e = asErr
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return "", false
	}
	return e.Kind, true
}
