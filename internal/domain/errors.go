package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput covers negative or non-numeric amounts, unknown periods,
	// malformed years and sub-types that do not belong to the category.
	ErrInvalidInput = errors.New("invalid input")
	// ErrScheduleNotFound means no rate table is configured for the requested tuple
	ErrScheduleNotFound = errors.New("rate schedule not found")
	// ErrUnsupportedTaxType means the category is not one of the known categories
	ErrUnsupportedTaxType = errors.New("unsupported tax type")
)

// CalculationError reports a failed calculation together with the request that caused it
type CalculationError struct {
	Request CalculationRequest
	Err     error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculate %s/%s/%s: %v", e.Request.Category, e.Request.Period, e.Request.Year, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// ErrorKind returns a short machine readable name for the error class
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrScheduleNotFound):
		return "schedule_not_found"
	case errors.Is(err, ErrUnsupportedTaxType):
		return "unsupported_tax_type"
	default:
		return "internal"
	}
}
