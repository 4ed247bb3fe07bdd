package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// UnboundedLimit is the sentinel limit carried by the final bracket of every schedule.
// The final bracket absorbs all remaining income regardless of this value.
var UnboundedLimit = decimal.RequireFromString("99999999.99")

var hundred = decimal.NewFromInt(100)

// ScheduleKey identifies exactly one rate schedule
type ScheduleKey struct {
	Category TaxCategory
	Period   Period
	Year     TaxYear
	SubType  SubType
}

func (k ScheduleKey) String() string {
	if k.SubType != SubTypeNone {
		return fmt.Sprintf("%s/%s %s %s", k.Category, k.SubType, k.Period, k.Year)
	}
	return fmt.Sprintf("%s %s %s", k.Category, k.Period, k.Year)
}

// Validate checks that the key names a known category, period and year and that the
// sub-type is consistent with the category.
func (k ScheduleKey) Validate() error {
	if !k.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedTaxType, k.Category)
	}
	if !k.Period.Valid() {
		return fmt.Errorf("%w: unrecognized period %q", ErrInvalidInput, k.Period)
	}
	if !k.Year.Valid() {
		return fmt.Errorf("%w: malformed tax year %q", ErrInvalidInput, k.Year)
	}
	if k.Category.HasSubTypes() {
		if !k.Category.AcceptsSubType(k.SubType) {
			return fmt.Errorf("%w: sub-type %q is not valid for %s", ErrInvalidInput, k.SubType, k.Category)
		}
	} else if k.SubType != SubTypeNone {
		return fmt.Errorf("%w: %s does not take a sub-type", ErrInvalidInput, k.Category)
	}
	return nil
}

// Bracket is one band of a rate schedule
type Bracket struct {
	Order       int
	RatePercent decimal.Decimal
	Limit       decimal.Decimal
	Relief      decimal.Decimal
	IsFlatRate  bool
}

// Rate returns the bracket rate as a fraction
func (b Bracket) Rate() decimal.Decimal {
	return b.RatePercent.Div(hundred)
}

// IsUnbounded reports whether the bracket carries the unbounded sentinel limit
func (b Bracket) IsUnbounded() bool {
	return b.Limit.GreaterThanOrEqual(UnboundedLimit)
}

// WithholdingRule describes withholding tax reported alongside a calculation
type WithholdingRule struct {
	RatePercent decimal.Decimal
	Threshold   decimal.Decimal
}

// Applies reports whether gross income is above the withholding threshold
func (w WithholdingRule) Applies(gross decimal.Decimal) bool {
	return gross.GreaterThan(w.Threshold)
}

// Amount returns the withholding on gross income, or zero below the threshold
func (w WithholdingRule) Amount(gross decimal.Decimal) decimal.Decimal {
	if !w.Applies(gross) {
		return decimal.Zero
	}
	return gross.Mul(w.RatePercent).Div(hundred)
}

// DefaultRentalReliefPercent is applied when a rental schedule does not name one
var DefaultRentalReliefPercent = decimal.NewFromInt(25)

// RentalParameters hold the two-stage relief applied to rental income
type RentalParameters struct {
	ReliefPercent decimal.Decimal
	ReliefAmount  decimal.Decimal
}

// RateSchedule is the immutable bracket table for one ScheduleKey
type RateSchedule struct {
	Key           ScheduleKey
	Brackets      []Bracket
	Withholding   *WithholdingRule
	Rental        *RentalParameters
	EffectiveFrom string
}

// Clone returns a deep copy so the caller can not mutate shared state
func (s RateSchedule) Clone() RateSchedule {
	out := s
	out.Brackets = append([]Bracket(nil), s.Brackets...)
	if s.Withholding != nil {
		w := *s.Withholding
		out.Withholding = &w
	}
	if s.Rental != nil {
		r := *s.Rental
		out.Rental = &r
	}
	return out
}

// SortBrackets orders the brackets by Order ascending
func (s *RateSchedule) SortBrackets() {
	sort.SliceStable(s.Brackets, func(i, j int) bool {
		return s.Brackets[i].Order < s.Brackets[j].Order
	})
}

// IsFlat reports whether the schedule is a single flat-rate bracket
func (s RateSchedule) IsFlat() bool {
	return len(s.Brackets) == 1 && s.Brackets[0].IsFlatRate
}

// FirstBracketRelief returns the relief carried on bracket 1, or zero
func (s RateSchedule) FirstBracketRelief() decimal.Decimal {
	for _, b := range s.Brackets {
		if b.Order == 1 {
			return b.Relief
		}
	}
	return decimal.Zero
}

// Validate checks the structural invariants of a schedule. Brackets must already be sorted.
func (s RateSchedule) Validate() error {
	if err := s.Key.Validate(); err != nil {
		return err
	}
	if len(s.Brackets) == 0 {
		return errors.New("schedule has no brackets")
	}

	flat := 0
	for i, b := range s.Brackets {
		if b.Order != i+1 {
			return fmt.Errorf("bracket orders must be contiguous from 1: found %d at position %d", b.Order, i+1)
		}
		if b.RatePercent.IsNegative() || b.RatePercent.GreaterThan(hundred) {
			return fmt.Errorf("bracket %d: rate %s%% outside 0-100", b.Order, b.RatePercent)
		}
		if !b.Limit.IsPositive() {
			return fmt.Errorf("bracket %d: limit must be positive", b.Order)
		}
		if b.Relief.IsNegative() {
			return fmt.Errorf("bracket %d: relief must not be negative", b.Order)
		}
		if b.Order != 1 && !b.Relief.IsZero() {
			return fmt.Errorf("bracket %d: relief is only allowed on bracket 1", b.Order)
		}
		last := i == len(s.Brackets)-1
		if last && !b.IsUnbounded() {
			return fmt.Errorf("bracket %d: final bracket must be unbounded", b.Order)
		}
		if !last && b.IsUnbounded() {
			return fmt.Errorf("bracket %d: only the final bracket may be unbounded", b.Order)
		}
		if b.IsFlatRate {
			flat++
		}
	}
	if flat > 0 && len(s.Brackets) != 1 {
		return errors.New("a flat-rate bracket must be the only bracket")
	}
	if first := s.Brackets[0]; s.Key.Category.ZeroRateFirstBracket() && first.Relief.GreaterThan(first.Limit) {
		return fmt.Errorf("bracket 1: relief %s exceeds its limit %s", first.Relief, first.Limit)
	}

	if w := s.Withholding; w != nil {
		if w.RatePercent.IsNegative() || w.RatePercent.GreaterThan(hundred) {
			return fmt.Errorf("withholding rate %s%% outside 0-100", w.RatePercent)
		}
		if w.Threshold.IsNegative() {
			return errors.New("withholding threshold must not be negative")
		}
	}
	if r := s.Rental; r != nil {
		if s.Key.Category != CategoryRental {
			return errors.New("rental parameters on a non-rental schedule")
		}
		if r.ReliefPercent.IsNegative() || r.ReliefPercent.GreaterThan(hundred) {
			return fmt.Errorf("rental relief %s%% outside 0-100", r.ReliefPercent)
		}
		if r.ReliefAmount.IsNegative() {
			return errors.New("rental relief amount must not be negative")
		}
	}
	return nil
}
