package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
)

// ScheduleSource resolves the rate schedule for a key
type ScheduleSource interface {
	Lookup(key domain.ScheduleKey) (domain.RateSchedule, error)
}

// Engine calculates tax liabilities against a schedule source.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	Schedules       ScheduleSource
	DefaultSubTypes map[domain.TaxCategory]domain.SubType
	Logger          Logger
}

// NewEngine creates an engine that defaults business income to general and
// foreign income to other when no sub-type is given.
func NewEngine(schedules ScheduleSource) *Engine {
	return &Engine{
		Schedules: schedules,
		DefaultSubTypes: map[domain.TaxCategory]domain.SubType{
			domain.CategoryBusiness: domain.SubTypeGeneral,
			domain.CategoryForeign:  domain.SubTypeOther,
		},
		Logger: NopLogger{},
	}
}

// SetLogger installs l, or a no-op logger when l is nil
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate computes the tax for one request. Failures are returned as
// *domain.CalculationError wrapping one of the domain sentinel errors; no partial
// result is returned alongside an error.
func (e *Engine) Calculate(req domain.CalculationRequest) (*domain.CalculationResult, error) {
	result, err := e.calculate(req)
	if err != nil {
		e.Logger.Debugf("calculation failed for %s: %v", req, err)
		return nil, &domain.CalculationError{Request: req, Err: err}
	}
	e.Logger.Debugf("calculated %s: taxable=%s tax=%s", req, result.TaxableIncome.StringFixed(2), result.TotalTax.StringFixed(2))
	return result, nil
}

func (e *Engine) calculate(req domain.CalculationRequest) (*domain.CalculationResult, error) {
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedTaxType, req.Category)
	}
	if !req.Period.Valid() {
		return nil, fmt.Errorf("%w: unrecognized period %q", domain.ErrInvalidInput, req.Period)
	}
	year, err := domain.ParseTaxYear(string(req.Year))
	if err != nil {
		return nil, err
	}
	if req.Gross.IsNegative() {
		return nil, fmt.Errorf("%w: gross amount %s is negative", domain.ErrInvalidInput, req.Gross)
	}

	subType, defaulted, err := e.resolveSubType(req.Category, req.SubType)
	if err != nil {
		return nil, err
	}

	strategy := CreateStrategy(req.Category, subType)
	if strategy == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedTaxType, req.Category)
	}

	key := domain.ScheduleKey{Category: req.Category, Period: req.Period, Year: year, SubType: subType}
	schedule, err := e.Schedules.Lookup(key)
	if err != nil {
		return nil, err
	}

	e.Logger.Debugf("%s: %s strategy on %s", req, strategy.Name(), key)
	result := strategy.Apply(req.Gross, schedule)
	result.Category = req.Category
	result.Period = req.Period
	result.Year = year
	result.SubType = subType
	result.SubTypeDefaulted = defaulted
	result.EffectiveRate = EffectiveRate(result.TotalTax, result.GrossIncome)
	result.Annual = AnnualEquivalent(req.Period, result.GrossIncome, result.TotalTax)
	return result, nil
}

// resolveSubType applies the configured default for categories that need a
// sub-type. A sub-type on a category without sub-types is ignored.
func (e *Engine) resolveSubType(category domain.TaxCategory, subType domain.SubType) (domain.SubType, bool, error) {
	if !category.HasSubTypes() {
		if subType != domain.SubTypeNone {
			e.Logger.Debugf("ignoring sub-type %q for %s", subType, category)
		}
		return domain.SubTypeNone, false, nil
	}
	if subType == domain.SubTypeNone {
		def, ok := e.DefaultSubTypes[category]
		if !ok || !category.AcceptsSubType(def) {
			return "", false, fmt.Errorf("%w: %s requires a sub-type", domain.ErrInvalidInput, category)
		}
		e.Logger.Infof("no sub-type given for %s, using %s", category, def)
		return def, true, nil
	}
	if !category.AcceptsSubType(subType) {
		return "", false, fmt.Errorf("%w: sub-type %q is not valid for %s", domain.ErrInvalidInput, subType, category)
	}
	return subType, false, nil
}

// BatchEntry is the outcome of one request in a batch
type BatchEntry struct {
	Name    string
	Request domain.CalculationRequest
	Result  *domain.CalculationResult
	Err     error
}

// NamedRequest labels a request within a batch
type NamedRequest struct {
	Name    string
	Request domain.CalculationRequest
}

// CalculateAll evaluates requests in order. A failing request is recorded in its
// entry and does not stop the batch; a cancelled context does.
func (e *Engine) CalculateAll(ctx context.Context, requests []NamedRequest) ([]BatchEntry, error) {
	entries := make([]BatchEntry, 0, len(requests))
	for _, nr := range requests {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		result, err := e.Calculate(nr.Request)
		if err != nil {
			e.Logger.Warnf("request %s failed: %v", nr.Name, err)
		}
		entries = append(entries, BatchEntry{Name: nr.Name, Request: nr.Request, Result: result, Err: err})
	}
	return entries, nil
}

var hundred = decimal.NewFromInt(100)

// EffectiveRate returns tax as a percentage of gross, or zero when gross is zero
func EffectiveRate(tax, gross decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() {
		return decimal.Zero
	}
	return tax.Mul(hundred).DivRound(gross, 4)
}

// AnnualEquivalent scales period figures to a full year
func AnnualEquivalent(period domain.Period, gross, tax decimal.Decimal) domain.AnnualEquivalent {
	m := decimal.NewFromInt(period.AnnualMultiplier())
	return domain.AnnualEquivalent{
		GrossIncome: gross.Mul(m),
		TotalTax:    tax.Mul(m),
	}
}
