package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrInvalidDate              = errors.New("invalid date")
	ErrInvalidDay               = errors.New("day of month must be between 1 and 31")
	ErrInvalidInstallmentCount  = errors.New("installment count must be at least 1")
	ErrInvalidAmount            = errors.New("amount must not be negative")
	ErrInvalidInstallmentNumber = errors.New("installment number out of range")
	ErrPurchaseNotFound         = errors.New("purchase not found")
	ErrCardNotFound             = errors.New("credit card not found")
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
	ErrCodeInvalidDate              = "INVALID_DATE"
	ErrCodeInvalidDay               = "INVALID_DAY"
	ErrCodeInvalidInstallmentCount  = "INVALID_INSTALLMENT_COUNT"
	ErrCodeInvalidAmount            = "INVALID_AMOUNT"
	ErrCodeInvalidInstallmentNumber = "INVALID_INSTALLMENT_NUMBER"
	ErrCodePurchaseNotFound         = "PURCHASE_NOT_FOUND"
	ErrCodeCardNotFound             = "CARD_NOT_FOUND"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeCacheError               = "CACHE_ERROR"
)

func WrapInvalidDate(value string, err error) *BusinessError {
	if err == nil {
		err = ErrInvalidDate
	} else {
		err = fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return NewBusinessError(
		ErrCodeInvalidDate,
		fmt.Sprintf("Date %q is not a valid calendar date", value),
		err,
	)
}

func WrapInvalidDay(field string, day int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDay,
		fmt.Sprintf("%s %d is outside 1-31", field, day),
		ErrInvalidDay,
	)
}

func WrapInvalidInstallmentCount(count int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInstallmentCount,
		fmt.Sprintf("Installment count %d must be at least 1", count),
		ErrInvalidInstallmentCount,
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Amount %s must not be negative", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidInstallmentNumber(number, count int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInstallmentNumber,
		fmt.Sprintf("Installment %d is outside 1-%d", number, count),
		ErrInvalidInstallmentNumber,
	)
}

func WrapPurchaseNotFound(purchaseID string) *BusinessError {
	return NewBusinessError(
		ErrCodePurchaseNotFound,
		fmt.Sprintf("Purchase with ID %s not found", purchaseID),
		ErrPurchaseNotFound,
	)
}

func WrapCardNotFound(cardID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCardNotFound,
		fmt.Sprintf("Credit card with ID %s not found", cardID),
		ErrCardNotFound,
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

// StatusCode maps an error to the HTTP status a handler should answer with.
func StatusCode(err error) int {
	var be *BusinessError
	if !errors.As(err, &be) {
		return http.StatusInternalServerError
	}

	switch be.Code {
	case ErrCodeInvalidDate, ErrCodeInvalidDay, ErrCodeInvalidInstallmentCount,
		ErrCodeInvalidAmount, ErrCodeInvalidInstallmentNumber:
		return http.StatusBadRequest
	case ErrCodePurchaseNotFound, ErrCodeCardNotFound:
		return http.StatusNotFound
	case ErrCodeCacheError, ErrCodeDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the business error code carried by err, or "" if there is none.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
