package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err (or anything it wraps) is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Error codes.
const (
	CodeInsufficientBalance   = "BAL_001"
	CodeInsufficientAllowance = "BAL_002"
	CodeInvalidAmount         = "BAL_003"
	CodeInvalidProof          = "INP_001"
	CodeRoundNotReady         = "RND_001"
	CodeRoundAlreadyPending   = "RND_002"
	CodeRoundPending          = "RND_003"
	CodeUnknownOrStaleRequest = "ORC_001"
	CodeAggregateMismatch     = "ORC_002"
	CodeTransferFailed        = "EXT_001"
	CodePoolCallFailed        = "EXT_002"
	CodeNotFound              = "GEN_004"
	CodeInvalidToken          = "AUTH_003"
	CodeForbidden             = "AUTH_005"
	CodeRateLimitExceeded     = "RATE_001"
	CodeInternal              = "SYS_001"
)

// ---- Ledger balances (BAL) ----

func ErrInsufficientBalance() *AppError {
	return New(CodeInsufficientBalance, "Insufficient confidential balance", http.StatusPaymentRequired)
}

func ErrInsufficientAllowance(err error) *AppError {
	return Wrap(CodeInsufficientAllowance, "Insufficient allowance for underlying asset", http.StatusPaymentRequired, err)
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Invalid amount", http.StatusBadRequest)
}

// ---- Confidential inputs (INP) ----

func ErrInvalidProof() *AppError {
	return New(CodeInvalidProof, "Confidential input proof is invalid", http.StatusBadRequest)
}

// ---- Round lifecycle (RND) ----

func ErrRoundNotReady() *AppError {
	return New(CodeRoundNotReady, "Minimum round duration has not elapsed", http.StatusTooEarly)
}

func ErrRoundAlreadyPending() *AppError {
	return New(CodeRoundAlreadyPending, "A round is already awaiting decryption", http.StatusConflict)
}

func ErrRoundPending() *AppError {
	return New(CodeRoundPending, "Round is awaiting decryption, retry once the next round opens", http.StatusConflict)
}

// ---- Decryption oracle (ORC) ----

func ErrUnknownOrStaleRequest() *AppError {
	return New(CodeUnknownOrStaleRequest, "Decryption result does not match the pending request", http.StatusConflict)
}

func ErrAggregateMismatch(detail string) *AppError {
	return New(CodeAggregateMismatch, "Decrypted aggregate mismatch: "+detail, http.StatusUnprocessableEntity)
}

// ---- External collaborators (EXT) ----

func ErrTransferFailed(err error) *AppError {
	return Wrap(CodeTransferFailed, "Underlying asset transfer failed", http.StatusBadGateway, err)
}

func ErrPoolCallFailed(err error) *AppError {
	return Wrap(CodePoolCallFailed, "Lending pool call failed", http.StatusBadGateway, err)
}

// ---- Generic ----

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New(CodeForbidden, "Caller is not allowed to perform this operation", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Confidential computation failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a BAL_003-style validation error.
func Validation(message string) *AppError {
	return New(CodeInvalidAmount, message, http.StatusBadRequest)
}
