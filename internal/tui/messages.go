package tui

import (
	"github.com/rgehrsitz/lktax/internal/domain"
)

// Field is an input row of the calculator form
type Field int

const (
	FieldCategory Field = iota
	FieldSubType
	FieldPeriod
	FieldYear
	FieldAmount
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldCategory:
		return "Tax type"
	case FieldSubType:
		return "Sub-type"
	case FieldPeriod:
		return "Period"
	case FieldYear:
		return "Tax year"
	case FieldAmount:
		return "Gross income"
	default:
		return "Unknown"
	}
}

// CalculationCompleteMsg carries the outcome of a calculation
type CalculationCompleteMsg struct {
	Request domain.CalculationRequest
	Result  *domain.CalculationResult
	Err     error
}
