package calculation

import (
	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
)

// ReliefMode selects how the bracket-1 relief is applied during a walk
type ReliefMode int

const (
	// ReliefUpfront subtracts the relief before the walk; the walk distributes taxable income.
	ReliefUpfront ReliefMode = iota
	// ReliefFirstBracketZeroRate distributes gross income and exempts the relief inside bracket 1.
	ReliefFirstBracketZeroRate
)

func (m ReliefMode) String() string {
	switch m {
	case ReliefUpfront:
		return "upfront"
	case ReliefFirstBracketZeroRate:
		return "first_bracket_zero_rate"
	default:
		return "unknown"
	}
}

// FlatBase selects the income a flat-rate bracket is applied to
type FlatBase int

const (
	// FlatOnTaxable applies the flat rate to the whole taxable income
	FlatOnTaxable FlatBase = iota
	// FlatOnRemaining applies the flat rate to whatever income is left when the bracket is reached
	FlatOnRemaining
)

// WalkInput parameterizes a single bracket walk
type WalkInput struct {
	// Base is the income distributed across the brackets
	Base decimal.Decimal
	// Taxable is the income after relief, used by FlatOnTaxable
	Taxable  decimal.Decimal
	Relief   decimal.Decimal
	Mode     ReliefMode
	FlatBase FlatBase
}

// WalkResult is the per-bracket breakdown produced by Walk
type WalkResult struct {
	Contributions []domain.BracketContribution
	TotalTax      decimal.Decimal
}

// Walk distributes income across brackets in order and accumulates tax.
// Brackets must be sorted by order. The final bracket takes all remaining income
// regardless of its limit. Brackets that receive no income are not recorded.
func Walk(brackets []domain.Bracket, in WalkInput) WalkResult {
	result := WalkResult{TotalTax: decimal.Zero}
	remaining := in.Base
	cumulative := decimal.Zero

	for i, b := range brackets {
		if !remaining.IsPositive() {
			break
		}

		if b.IsFlatRate {
			base := in.Taxable
			if in.FlatBase == FlatOnRemaining {
				base = remaining
			}
			tax := base.Mul(b.Rate())
			result.Contributions = append(result.Contributions, contribution(b, base, tax, cumulative))
			result.TotalTax = tax
			break
		}

		allocated := decimal.Min(remaining, b.Limit)
		if i == len(brackets)-1 {
			allocated = remaining
		}

		taxable := allocated
		if in.Mode == ReliefFirstBracketZeroRate && b.Order == 1 {
			taxable = decimal.Max(decimal.Zero, allocated.Sub(in.Relief))
		}
		tax := taxable.Mul(b.Rate())

		if allocated.IsPositive() {
			result.Contributions = append(result.Contributions, contribution(b, taxable, tax, cumulative))
		}

		result.TotalTax = result.TotalTax.Add(tax)
		remaining = remaining.Sub(allocated)
		cumulative = cumulative.Add(b.Limit)
	}

	return result
}

func contribution(b domain.Bracket, taxable, tax, cumulative decimal.Decimal) domain.BracketContribution {
	return domain.BracketContribution{
		Order:           b.Order,
		RatePercent:     b.RatePercent,
		Limit:           b.Limit,
		TaxableAmount:   taxable,
		TaxAmount:       tax,
		CumulativeLimit: cumulative,
		NextLimit:       cumulative.Add(b.Limit),
	}
}
