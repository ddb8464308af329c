package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store failure")
	ErrCycle      = errors.New("dependency cycle")
)

// Error carries an error kind, a message and an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validationf returns an ErrValidation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns an ErrNotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// StoreError wraps a persistence failure.
func StoreError(op string, err error) error {
	return &Error{Kind: ErrStore, Msg: op, Err: err}
}

// ResolutionWarning records a dependency reference that was dropped or
// resolved by a deterministic fallback. It never aborts an operation.
type ResolutionWarning struct {
	TaskID string `json:"task_id"`
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

const (
	ReasonSelfReference = "self reference"
	ReasonDangling      = "unknown task id"
	ReasonDuplicate     = "duplicate reference"
	ReasonUnknownName   = "no task with this name"
	ReasonAmbiguousName = "name shared by several tasks, first match used"
)

func (w ResolutionWarning) String() string {
	return fmt.Sprintf("task %s: dependency %q: %s", w.TaskID, w.Ref, w.Reason)
}
