package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CalculationRequest is the input to a single tax calculation
type CalculationRequest struct {
	Category TaxCategory
	Period   Period
	Gross    decimal.Decimal
	Year     TaxYear
	SubType  SubType
}

func (r CalculationRequest) String() string {
	cat := string(r.Category)
	if r.SubType != SubTypeNone {
		cat += "/" + string(r.SubType)
	}
	return fmt.Sprintf("%s %s %s gross=%s", cat, r.Period, r.Year, r.Gross.StringFixed(2))
}

// NewCalculationRequest parses raw string inputs into a request.
// An empty sub-type is allowed; the engine resolves defaults.
func NewCalculationRequest(category, period, gross, year, subType string) (CalculationRequest, error) {
	var req CalculationRequest
	var err error

	if req.Category, err = ParseTaxCategory(category); err != nil {
		return CalculationRequest{}, err
	}
	if req.Period, err = ParsePeriod(period); err != nil {
		return CalculationRequest{}, err
	}
	if req.Gross, err = ParseAmount(gross); err != nil {
		return CalculationRequest{}, err
	}
	if req.Year, err = ParseTaxYear(year); err != nil {
		return CalculationRequest{}, err
	}
	if req.SubType, err = ParseSubType(subType); err != nil {
		return CalculationRequest{}, err
	}
	return req, nil
}

// ParseAmount parses a non-negative monetary amount
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not numeric", ErrInvalidInput, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is negative", ErrInvalidInput, s)
	}
	return d, nil
}

// BracketContribution records how much income and tax fell into one bracket
type BracketContribution struct {
	Order           int
	RatePercent     decimal.Decimal
	Limit           decimal.Decimal
	TaxableAmount   decimal.Decimal
	TaxAmount       decimal.Decimal
	CumulativeLimit decimal.Decimal
	NextLimit       decimal.Decimal
}

// WithholdingResult is informational; it never reduces TotalTax
type WithholdingResult struct {
	Applicable  bool
	Amount      decimal.Decimal
	Threshold   decimal.Decimal
	RatePercent decimal.Decimal
}

// RentalBreakdown records the rental relief applied before the bracket walk
type RentalBreakdown struct {
	ReliefPercent decimal.Decimal
	ReliefAmount  decimal.Decimal
	NetIncome     decimal.Decimal
}

// AnnualEquivalent scales period figures to a full year
type AnnualEquivalent struct {
	GrossIncome decimal.Decimal
	TotalTax    decimal.Decimal
}

// CalculationResult is the immutable outcome of a calculation
type CalculationResult struct {
	Category         TaxCategory
	Period           Period
	Year             TaxYear
	SubType          SubType
	SubTypeDefaulted bool

	GrossIncome   decimal.Decimal
	ReliefAmount  decimal.Decimal
	TaxableIncome decimal.Decimal
	TotalTax      decimal.Decimal
	EffectiveRate decimal.Decimal
	Brackets      []BracketContribution

	Withholding *WithholdingResult
	Rental      *RentalBreakdown
	Annual      AnnualEquivalent
}

// NetIncome returns gross income less total tax
func (r *CalculationResult) NetIncome() decimal.Decimal {
	return r.GrossIncome.Sub(r.TotalTax)
}
