package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"osrs_profit/pkg/errcodes"
)

// Cache and computation level failures. None of them is fatal: each is
// scoped to one tick or one request.
var (
	ErrUpstreamUnavailable   = errors.New("upstream unavailable")
	ErrMalformedCacheData    = errors.New("malformed cache data")
	ErrRuleEvaluationSkipped = errors.New("rule evaluation skipped")
)

// AppError is a domain error carrying an API error code.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode extracts the code of the outermost AppError in the chain.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// IsNotFound reports whether err carries one of the not-found codes.
func IsNotFound(err error) bool {
	code, ok := GetCode(err)
	if !ok {
		return false
	}

	switch code {
	case errcodes.NotFound, errcodes.MethodNotFound, errcodes.VariantNotFound, errcodes.PlayerNotFound:
		return true
	default:
		return false
	}
}

// IsInvalidArgument reports whether err carries one of the bad input codes.
func IsInvalidArgument(err error) bool {
	code, ok := GetCode(err)
	if !ok {
		return false
	}

	switch code {
	case errcodes.ValidationError, errcodes.InvalidPaging, errcodes.InvalidListQuery,
		errcodes.InvalidHistoryQuery, errcodes.InvalidTimezone, errcodes.InvalidItemIDs:
		return true
	default:
		return false
	}
}
