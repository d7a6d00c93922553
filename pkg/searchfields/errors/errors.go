package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	ErrBadArgument        ErrorCode = "bad_argument"
	ErrBackendUnavailable ErrorCode = "backend_unavailable"
	ErrIndexNotFound      ErrorCode = "index_not_found"
	ErrConfiguration      ErrorCode = "configuration"
)

type Error struct {
	Code  ErrorCode
	Msg   string
	Field string
	Cause error
}

func (e *Error) Error() string {
	base := fmt.Sprintf("%s: %s", e.Code, e.Msg)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, msg string) *Error { return &Error{Code: code, Msg: msg} }
func Wrap(code ErrorCode, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Cause: cause}
}

// BadArgument reports a rejected value for the named argument. The backend
// diagnostic travels as the cause.
func BadArgument(field, msg string, cause error) *Error {
	return &Error{Code: ErrBadArgument, Field: field, Msg: msg, Cause: cause}
}

// Configuration reports a malformed field descriptor.
func Configuration(field, msg string) *Error {
	return &Error{Code: ErrConfiguration, Field: field, Msg: msg}
}

func IndexNotFound(index string) *Error {
	return &Error{Code: ErrIndexNotFound, Msg: "no such index: " + index}
}

// IsCode reports whether the outermost *Error in err's chain has code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
