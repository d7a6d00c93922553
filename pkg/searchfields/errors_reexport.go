package searchfields

import sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"

// Re-export error types and functions for callers of the root package
type Error = sferrors.Error
type ErrorCode = sferrors.ErrorCode

const (
	ErrBadArgument        = sferrors.ErrBadArgument
	ErrBackendUnavailable = sferrors.ErrBackendUnavailable
	ErrIndexNotFound      = sferrors.ErrIndexNotFound
	ErrConfiguration      = sferrors.ErrConfiguration
)

func NewError(code ErrorCode, msg string) *Error          { return sferrors.NewError(code, msg) }
func Wrap(code ErrorCode, msg string, cause error) *Error { return sferrors.Wrap(code, msg, cause) }
func IsCode(err error, code ErrorCode) bool               { return sferrors.IsCode(err, code) }
