package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, transport-independent failure code.
type ErrorCode string

const (
	CodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	CodeInsufficientBalance  ErrorCode = "INSUFFICIENT_BALANCE"
	CodeUnauthorizedTransfer ErrorCode = "UNAUTHORIZED_TRANSFER"
	CodeInvalidTransaction   ErrorCode = "INVALID_TRANSACTION"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeTransferFailed       ErrorCode = "TRANSFER_FAILED"
)

// Error is a domain failure carrying a stable code and, optionally, the
// underlying cause for operators.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Sentinel domain errors. Callers match them with errors.Is; the HTTP
// layer maps them to status codes.
var (
	ErrAccountNotFound     = &Error{Code: CodeUserNotFound, Message: "account not found"}
	ErrInsufficientBalance = &Error{Code: CodeInsufficientBalance, Message: "insufficient balance"}
	ErrMerchantPayer       = &Error{Code: CodeUnauthorizedTransfer, Message: "merchant accounts cannot send money"}
	ErrTransferDenied      = &Error{Code: CodeUnauthorizedTransfer, Message: "transfer not authorized by external service"}
	ErrInvalidTransaction  = &Error{Code: CodeInvalidTransaction, Message: "invalid transfer request"}
	ErrExternalService     = &Error{Code: CodeExternalServiceError, Message: "external service error"}
)

// NewTransferFailed wraps an unexpected fault from inside the atomic unit.
// The whole transaction has already been rolled back when this is returned.
func NewTransferFailed(cause error) *Error {
	return &Error{Code: CodeTransferFailed, Message: "transfer failed", cause: cause}
}

// NewInvalid returns an INVALID_TRANSACTION error with a specific message.
// Callers match it by code via CodeOf, not by sentinel identity.
func NewInvalid(message string) *Error {
	return &Error{Code: CodeInvalidTransaction, Message: message}
}

// CodeOf extracts the domain code from err, defaulting to TRANSFER_FAILED
// for unclassified failures.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeTransferFailed
}
