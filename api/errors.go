// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-ring.

package api

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidCapacity
	ErrCodeOverrun
	ErrCodeUnderrun
	ErrCodeInvalidArgument
	ErrCodeNotSupported
	ErrCodeInternal
)

// String returns a short name for the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidCapacity:
		return "invalid_capacity"
	case ErrCodeOverrun:
		return "overrun"
	case ErrCodeUnderrun:
		return "underrun"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotSupported:
		return "not_supported"
	case ErrCodeInternal:
		return "internal"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Common errors used across the library.
// Ring operations return these values directly so hot paths never allocate.
var (
	ErrInvalidCapacity = NewError(ErrCodeInvalidCapacity, "invalid capacity")
	ErrBufferOverrun   = NewError(ErrCodeOverrun, "buffer overrun")
	ErrBufferUnderrun  = NewError(ErrCodeUnderrun, "buffer underrun")
	ErrInvalidArgument = NewError(ErrCodeInvalidArgument, "invalid argument")
	ErrNotSupported    = NewError(ErrCodeNotSupported, "operation not supported")
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is matches any *Error carrying the same code, so a contextual error still
// satisfies errors.Is against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithContext returns a copy of the error with an added context entry.
// The receiver is left untouched, sentinels stay shareable.
func (e *Error) WithContext(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// CodeOf extracts the ErrorCode of err, ErrCodeInternal for foreign errors
// and ErrCodeOK for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
