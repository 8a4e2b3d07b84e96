package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidDecision    = errors.New("no active matching decision")
	ErrInvalidAmount      = errors.New("requested amount outside approved bounds")
	ErrTransactionFailure = errors.New("disbursement rejected by payment rail")
	ErrEvaluationFailure  = errors.New("decision evaluation failed")
	ErrSolverDiverged     = errors.New("installment solver did not converge")
	ErrScheduleOverflow   = errors.New("repayment schedule did not terminate")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidPeriod      = errors.New("period end must be after period start")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidDecision    = "INVALID_DECISION"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeTransactionFailure = "TRANSACTION_FAILURE"
	ErrCodeEvaluationFailure  = "EVALUATION_FAILURE"
	ErrCodeSolverDiverged     = "SOLVER_DIVERGED"
	ErrCodeScheduleOverflow   = "SCHEDULE_OVERFLOW"
	ErrCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapInvalidDecision(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDecision,
		fmt.Sprintf("Funding request rejected: %s", reason),
		ErrInvalidDecision,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Requested amount %s is outside the approved bounds", amount),
		ErrInvalidAmount,
	)
}

func WrapTransactionFailure(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeTransactionFailure,
		"Payment rail rejected the disbursement",
		errors.Join(ErrTransactionFailure, err),
	)
}

func WrapSolverDiverged(residual float64) *BusinessError {
	return NewBusinessError(
		ErrCodeSolverDiverged,
		fmt.Sprintf("Level installment solver left residual %.4f", residual),
		ErrSolverDiverged,
	)
}

func WrapScheduleOverflow(periods int) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleOverflow,
		fmt.Sprintf("Schedule generation exceeded %d periods", periods),
		ErrScheduleOverflow,
	)
}

func WrapAccountNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotFound,
		fmt.Sprintf("Account %s not found", id),
		ErrAccountNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
