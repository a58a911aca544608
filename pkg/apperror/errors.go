package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string            `json:"error_code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"` // Machine-readable payload
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"` // Wrapped internal error (not exposed to client)
}

// WithDetail attaches a machine-readable key/value to the error payload.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
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

// ---- Security (SEC) ----

func ErrInvalidAPIKey() *AppError {
	return New("SEC_001", "Invalid API key", http.StatusUnauthorized)
}

// ---- Employee & Vault (EMP / VAULT) ----

func ErrUnauthorizedEmployee(address string) *AppError {
	return New("EMP_001", fmt.Sprintf("Employee address not authorized: %s", address), http.StatusForbidden)
}

func ErrEmployeeNotFound(address string) *AppError {
	return New("VAULT_001", fmt.Sprintf("Employee not found: %s", address), http.StatusNotFound)
}

func ErrDecryptionFailure(err error) *AppError {
	return Wrap("VAULT_002", "Failed to decrypt stored secret", http.StatusInternalServerError, err)
}

func ErrVaultStorage(err error) *AppError {
	return Wrap("VAULT_003", "Vault storage failure", http.StatusInternalServerError, err)
}

// ---- Chain (CHAIN) ----

// ErrChainTransfer indicates a transfer failed before any ledger effect.
// The whole payout is safe to retry.
func ErrChainTransfer(err error) *AppError {
	return Wrap("CHAIN_001", "Chain transfer failed", http.StatusBadGateway, err)
}

// ErrStrandedFunds indicates the pool-to-employee leg succeeded but the
// employee-to-target leg did not. Funds sit at the employee address; the
// attempt must not be retried as a fresh payout. The phase-one transaction
// id rides in the details payload so a resumer can pick it up without
// parsing the message.
func ErrStrandedFunds(poolToEmployeeTxID string, err error) *AppError {
	return Wrap(
		"CHAIN_002",
		fmt.Sprintf("Funds stranded at employee account, phase-one tx: %s", poolToEmployeeTxID),
		http.StatusBadGateway,
		err,
	).WithDetail("fromPool", poolToEmployeeTxID)
}

func ErrChainQuery(err error) *AppError {
	return Wrap("CHAIN_003", "Chain query failed", http.StatusBadGateway, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
