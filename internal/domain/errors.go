package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeAlreadyPaid    ErrorCode = "ALREADY_PAID"
	CodeAmountMismatch ErrorCode = "AMOUNT_MISMATCH"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeInvalidInput   ErrorCode = "INVALID_INPUT"
	CodeInternal       ErrorCode = "INTERNAL"
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on code, so errors.Is(err, ErrAlreadyPaid) holds for any
// ALREADY_PAID error regardless of its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyPaid    = &Error{Code: CodeAlreadyPaid, Message: "listing already paid"}
	ErrAmountMismatch = &Error{Code: CodeAmountMismatch, Message: "amount does not match price"}
	ErrUnauthorized   = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidInput   = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrInternal       = &Error{Code: CodeInternal, Message: "internal error"}
)

var (
	ErrReferralCycle    = errors.New("referral chain contains a cycle")
	ErrReferralTooDeep  = errors.New("referral chain exceeds max depth")
	ErrNonPositiveDelta = errors.New("increment must be positive")
)

// CodeOf returns the code of the first *Error in err's chain, INTERNAL otherwise.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
