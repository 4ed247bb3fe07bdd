package compare

import (
	"fmt"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one tax-year version of the compared request
type ComparisonResult struct {
	Year   domain.TaxYear
	Result *domain.CalculationResult
	Err    error

	// Comparison to base, zero for the base itself and for failed years
	TaxDiffFromBase     decimal.Decimal
	TaxPctFromBase      decimal.Decimal
	TaxableDiffFromBase decimal.Decimal
	RateDiffFromBase    decimal.Decimal
}

// OK reports whether the year was calculated
func (r ComparisonResult) OK() bool { return r.Err == nil && r.Result != nil }

// ComparisonSet holds a request evaluated against a base year and its alternatives
type ComparisonSet struct {
	Request            domain.CalculationRequest
	BaseYear           domain.TaxYear
	BaseResult         *ComparisonResult
	AlternativeResults []ComparisonResult
	Recommendations    []string
}

// All returns the base followed by the alternatives
func (cs *ComparisonSet) All() []ComparisonResult {
	all := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		all = append(all, *cs.BaseResult)
	}
	return append(all, cs.AlternativeResults...)
}

// MetricsCalculator derives deltas between tax-year versions
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateComparison fills in the deltas of alt against base
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	if !alt.OK() || !base.OK() {
		return alt
	}
	a, b := alt.Result, base.Result
	alt.TaxDiffFromBase = a.TotalTax.Sub(b.TotalTax)
	alt.TaxableDiffFromBase = a.TaxableIncome.Sub(b.TaxableIncome)
	alt.RateDiffFromBase = a.EffectiveRate.Sub(b.EffectiveRate)
	if !b.TotalTax.IsZero() {
		alt.TaxPctFromBase = alt.TaxDiffFromBase.Mul(decimal.NewFromInt(100)).DivRound(b.TotalTax, 2)
	}
	return alt
}

// GenerateRecommendations summarises which year version is cheapest and how far apart they are
func GenerateRecommendations(cs *ComparisonSet) []string {
	recs := []string{}
	ok := lo.Filter(cs.All(), func(r ComparisonResult, _ int) bool { return r.OK() })
	if len(ok) < 2 {
		return recs
	}

	lowest := lo.MinBy(ok, func(a, b ComparisonResult) bool {
		return a.Result.TotalTax.LessThan(b.Result.TotalTax)
	})
	highest := lo.MaxBy(ok, func(a, b ComparisonResult) bool {
		return a.Result.TotalTax.GreaterThan(b.Result.TotalTax)
	})

	if lowest.Result.TotalTax.Equal(highest.Result.TotalTax) {
		return append(recs, fmt.Sprintf("Same tax in every year compared: %s", lowest.Result.TotalTax.StringFixed(2)))
	}
	recs = append(recs, fmt.Sprintf("Lowest tax: %s at %s (effective %s%%)",
		lowest.Year, lowest.Result.TotalTax.StringFixed(2), lowest.Result.EffectiveRate.StringFixed(2)))
	recs = append(recs, fmt.Sprintf("Highest tax: %s at %s, %s more",
		highest.Year, highest.Result.TotalTax.StringFixed(2),
		highest.Result.TotalTax.Sub(lowest.Result.TotalTax).StringFixed(2)))

	failed := lo.FilterMap(cs.All(), func(r ComparisonResult, _ int) (string, bool) {
		return string(r.Year), !r.OK()
	})
	if len(failed) > 0 {
		recs = append(recs, fmt.Sprintf("Not comparable: %v", failed))
	}
	return recs
}
