package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrScheduleNotFound = errors.New("no scheduled repayment matches the given due date and currency")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrOverpayment      = errors.New("payment exceeds the remaining schedule")
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
	ErrCodeLoanNotFound     = "LOAN_NOT_FOUND"
	ErrCodeScheduleNotFound = "SCHEDULE_NOT_FOUND"
	ErrCodeInvalidArgument  = "INVALID_ARGUMENT"
	ErrCodeOverpayment      = "OVERPAYMENT"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeCacheError       = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapScheduleNotFound(loanID, dueDate, currencyCode string) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleNotFound,
		fmt.Sprintf("Loan %s has no scheduled repayment due %s in %s", loanID, dueDate, currencyCode),
		ErrScheduleNotFound,
	)
}

func WrapInvalidArgument(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidArgument,
		message,
		ErrInvalidArgument,
	)
}

func WrapOverpayment(loanID string, amount, outstanding int64) *BusinessError {
	return NewBusinessError(
		ErrCodeOverpayment,
		fmt.Sprintf("Payment of %d exceeds the remaining outstanding %d on loan %s", amount, outstanding, loanID),
		ErrOverpayment,
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
