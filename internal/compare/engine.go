package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/lktax/internal/domain"
)

// Calculator computes a single request
type Calculator interface {
	Calculate(req domain.CalculationRequest) (*domain.CalculationResult, error)
}

// CompareEngine runs one request against several tax-year versions
type CompareEngine struct {
	Calc              Calculator
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calc Calculator) *CompareEngine {
	return &CompareEngine{
		Calc:              calc,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// Compare evaluates req for each year. The first year is the base and must
// calculate; later years that fail are kept in the set with their error.
func (ce *CompareEngine) Compare(ctx context.Context, req domain.CalculationRequest, years []domain.TaxYear) (*ComparisonSet, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: at least one tax year is required", domain.ErrInvalidInput)
	}
	seen := make(map[domain.TaxYear]bool, len(years))
	for _, y := range years {
		if seen[y] {
			return nil, fmt.Errorf("%w: tax year %s listed twice", domain.ErrInvalidInput, y)
		}
		seen[y] = true
	}

	baseReq := req
	baseReq.Year = years[0]
	baseResult, err := ce.Calc.Calculate(baseReq)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base year %s: %w", years[0], err)
	}
	base := ComparisonResult{Year: years[0], Result: baseResult}

	alternatives := []ComparisonResult{}
	for _, y := range years[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		altReq := req
		altReq.Year = y
		res, err := ce.Calc.Calculate(altReq)
		alt := ComparisonResult{Year: y, Result: res, Err: err}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, base))
	}

	compSet := &ComparisonSet{
		Request:            req,
		BaseYear:           years[0],
		BaseResult:         &base,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// ParseYears parses a list of tax-year strings
func ParseYears(raw []string) ([]domain.TaxYear, error) {
	years := make([]domain.TaxYear, 0, len(raw))
	for _, s := range raw {
		y, err := domain.ParseTaxYear(s)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}
