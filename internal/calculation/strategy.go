package calculation

import (
	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
)

// Strategy turns a gross amount and its schedule into a result for one category
type Strategy interface {
	Name() string
	Apply(gross decimal.Decimal, schedule domain.RateSchedule) *domain.CalculationResult
}

// CreateStrategy returns the strategy for a category and its resolved sub-type.
// Unknown categories yield nil.
func CreateStrategy(category domain.TaxCategory, subType domain.SubType) Strategy {
	if category.ZeroRateFirstBracket() {
		return NewProgressiveStrategy(ReliefFirstBracketZeroRate)
	}
	switch category {
	case domain.CategoryEmployment, domain.CategoryProfessional:
		return NewProgressiveStrategy(ReliefUpfront)
	case domain.CategoryBusiness:
		if subType == domain.SubTypeSpecial {
			return NewFlatStrategy(FlatOnTaxable, false)
		}
		return NewProgressiveStrategy(ReliefUpfront)
	case domain.CategoryForeign:
		if subType == domain.SubTypeRemitted {
			return NewFlatStrategy(FlatOnTaxable, false)
		}
		return NewProgressiveStrategy(ReliefUpfront)
	case domain.CategoryRental:
		return NewRentalStrategy()
	case domain.CategoryDividend, domain.CategoryCapitalGains:
		return NewFlatStrategy(FlatOnTaxable, false)
	case domain.CategoryInterest:
		return NewFlatStrategy(FlatOnTaxable, true)
	default:
		return nil
	}
}

// ProgressiveStrategy walks the brackets with the bracket-1 relief applied per mode
type ProgressiveStrategy struct {
	Mode ReliefMode
}

// NewProgressiveStrategy creates a progressive strategy using mode
func NewProgressiveStrategy(mode ReliefMode) *ProgressiveStrategy {
	return &ProgressiveStrategy{Mode: mode}
}

func (s *ProgressiveStrategy) Name() string {
	return "progressive_" + s.Mode.String()
}

func (s *ProgressiveStrategy) Apply(gross decimal.Decimal, schedule domain.RateSchedule) *domain.CalculationResult {
	relief := schedule.FirstBracketRelief()
	taxable := clampedSub(gross, relief)

	in := WalkInput{Base: taxable, Taxable: taxable, Relief: relief, Mode: s.Mode}
	if s.Mode == ReliefFirstBracketZeroRate {
		in.Base = gross
	}
	walk := Walk(schedule.Brackets, in)

	return &domain.CalculationResult{
		GrossIncome:   gross,
		ReliefAmount:  relief,
		TaxableIncome: taxable,
		TotalTax:      walk.TotalTax,
		Brackets:      walk.Contributions,
	}
}

// FlatStrategy applies a single rate after the bracket-1 relief, optionally
// reporting withholding tax.
type FlatStrategy struct {
	Base              FlatBase
	ReportWithholding bool
}

// NewFlatStrategy creates a flat-rate strategy
func NewFlatStrategy(base FlatBase, reportWithholding bool) *FlatStrategy {
	return &FlatStrategy{Base: base, ReportWithholding: reportWithholding}
}

func (s *FlatStrategy) Name() string {
	if s.ReportWithholding {
		return "flat_with_withholding"
	}
	return "flat"
}

func (s *FlatStrategy) Apply(gross decimal.Decimal, schedule domain.RateSchedule) *domain.CalculationResult {
	relief := schedule.FirstBracketRelief()
	taxable := clampedSub(gross, relief)

	walk := Walk(schedule.Brackets, WalkInput{
		Base:     taxable,
		Taxable:  taxable,
		Relief:   relief,
		Mode:     ReliefUpfront,
		FlatBase: s.Base,
	})

	result := &domain.CalculationResult{
		GrossIncome:   gross,
		ReliefAmount:  relief,
		TaxableIncome: taxable,
		TotalTax:      walk.TotalTax,
		Brackets:      walk.Contributions,
	}
	if s.ReportWithholding {
		result.Withholding = withholding(gross, schedule.Withholding)
	}
	return result
}

// RentalStrategy deducts the rental relief percentage, then the period relief,
// then walks the brackets. Withholding is reported but never deducted.
type RentalStrategy struct{}

// NewRentalStrategy creates the rental income strategy
func NewRentalStrategy() *RentalStrategy {
	return &RentalStrategy{}
}

func (s *RentalStrategy) Name() string {
	return "rental"
}

func (s *RentalStrategy) Apply(gross decimal.Decimal, schedule domain.RateSchedule) *domain.CalculationResult {
	params := domain.RentalParameters{
		ReliefPercent: domain.DefaultRentalReliefPercent,
		ReliefAmount:  schedule.FirstBracketRelief(),
	}
	if schedule.Rental != nil {
		params = *schedule.Rental
	}

	rentalRelief := gross.Mul(params.ReliefPercent).Div(decimal.NewFromInt(100))
	net := gross.Sub(rentalRelief)
	taxable := clampedSub(net, params.ReliefAmount)

	walk := Walk(schedule.Brackets, WalkInput{
		Base:    taxable,
		Taxable: taxable,
		Mode:    ReliefUpfront,
	})

	return &domain.CalculationResult{
		GrossIncome:   gross,
		ReliefAmount:  params.ReliefAmount,
		TaxableIncome: taxable,
		TotalTax:      walk.TotalTax,
		Brackets:      walk.Contributions,
		Rental: &domain.RentalBreakdown{
			ReliefPercent: params.ReliefPercent,
			ReliefAmount:  rentalRelief,
			NetIncome:     net,
		},
		Withholding: withholding(gross, schedule.Withholding),
	}
}

func withholding(gross decimal.Decimal, rule *domain.WithholdingRule) *domain.WithholdingResult {
	if rule == nil {
		return nil
	}
	return &domain.WithholdingResult{
		Applicable:  rule.Applies(gross),
		Amount:      rule.Amount(gross),
		Threshold:   rule.Threshold,
		RatePercent: rule.RatePercent,
	}
}

// clampedSub returns max(0, a-b)
func clampedSub(a, b decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, a.Sub(b))
}
