// Package syncerr defines the error taxonomy shared by every layer of the
// sync daemon: frame codec, delta engine, store, watcher, session protocol,
// and the CLI. Code is consulted, never the error string, when deciding how
// to respond on the wire or what exit code to return.
package syncerr

import (
	"errors"
	"fmt"
)

// Code classifies why an operation failed.
type Code int

const (
	// Transport covers dial, accept, and stream I/O failures.
	Transport Code = iota + 1

	// ProtocolDecode means a frame's payload could not be decoded.
	ProtocolDecode

	// ProtocolTruncated means fewer bytes were available than the length
	// prefix promised.
	ProtocolTruncated

	// ProtocolUnexpected means a message arrived that is not valid in the
	// session's current state.
	ProtocolUnexpected

	// NotFound means a requested file or path does not exist.
	NotFound

	// PermissionDenied means the caller lacks authorization for the path.
	PermissionDenied

	// StorageCorruption means the metadata store returned malformed or
	// internally inconsistent data.
	StorageCorruption

	// FilesystemIO covers local read/write/stat/rename failures.
	FilesystemIO

	// DeltaFailure covers signature/delta/apply failures in the delta engine.
	DeltaFailure

	// CanonicalizationFailure means a path could not be resolved to an
	// absolute, symlink-free form.
	CanonicalizationFailure
)

// String returns a human-readable name for the code.
func (c Code) String() string {
	switch c {
	case Transport:
		return "Transport"
	case ProtocolDecode:
		return "ProtocolDecode"
	case ProtocolTruncated:
		return "ProtocolTruncated"
	case ProtocolUnexpected:
		return "ProtocolUnexpected"
	case NotFound:
		return "NotFound"
	case PermissionDenied:
		return "PermissionDenied"
	case StorageCorruption:
		return "StorageCorruption"
	case FilesystemIO:
		return "FilesystemIO"
	case DeltaFailure:
		return "DeltaFailure"
	case CanonicalizationFailure:
		return "CanonicalizationFailure"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Error is the concrete error type returned throughout the daemon.
type Error struct {
	Code    Code
	Message string
	Path    string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an Error with no path and no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithPath builds an Error scoped to a specific path.
func WithPath(code Code, path, message string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// Wrap attaches code and message to an underlying cause, preserving it for
// errors.Is/errors.As while giving the error a stable Code for dispatch.
func Wrap(code Code, path string, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Code: code, Message: msg, Path: path, cause: cause}
}

// NotFoundError builds a NotFound error for a path.
func NotFoundError(path string) *Error {
	return &Error{Code: NotFound, Message: "not found", Path: path}
}

// PermissionDeniedError builds the canonical StartSync denial.
func PermissionDeniedError() *Error {
	return &Error{Code: PermissionDenied, Message: "Access denied or path not allowed"}
}

// CodeOf extracts the Code from err if it is (or wraps) a *Error, else 0.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// Is reports whether err is a *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
