package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseTaxCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    TaxCategory
		wantErr error
	}{
		{"employment", CategoryEmployment, nil},
		{"  Rental ", CategoryRental, nil},
		{"capital_gain", CategoryCapitalGains, nil},
		{"capital_gains", CategoryCapitalGains, nil},
		{"crypto", "", ErrUnsupportedTaxType},
		{"", "", ErrUnsupportedTaxType},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTaxCategory(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("Annual")
	require.NoError(t, err)
	assert.Equal(t, PeriodAnnually, p)
	assert.Equal(t, int64(1), p.AnnualMultiplier())

	p, err = ParsePeriod("monthly")
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.AnnualMultiplier())
	assert.Equal(t, int64(4), PeriodQuarterly.AnnualMultiplier())

	_, err = ParsePeriod("weekly")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseTaxYear(t *testing.T) {
	tests := []struct {
		input string
		want  TaxYear
		ok    bool
	}{
		{"2025", "2025", true},
		{"2024/2025", "2024", true},
		{"2024/25", "2024", true},
		{" 2025 / 2026 ", "2025", true},
		{"25", "", false},
		{"next year", "", false},
		{"2024-2025", "", false},
		{"2099/00", "2099", true},
		{"2025/2030", "", false},
		{"2025/25", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTaxYear(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorySubTypes(t *testing.T) {
	assert.True(t, CategoryBusiness.AcceptsSubType(SubTypeSpecial))
	assert.False(t, CategoryBusiness.AcceptsSubType(SubTypeRemitted))
	assert.True(t, CategoryForeign.AcceptsSubType(SubTypeOther))
	assert.False(t, CategoryEmployment.HasSubTypes())
	assert.Nil(t, CategoryDividend.SubTypes())
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("2000000.50")
	require.NoError(t, err)
	assert.True(t, v.Equal(d("2000000.50")))

	_, err = ParseAmount("-1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseAmount("lots")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewCalculationRequest(t *testing.T) {
	req, err := NewCalculationRequest("business", "monthly", "500000", "2025/2026", "special")
	require.NoError(t, err)
	assert.Equal(t, CategoryBusiness, req.Category)
	assert.Equal(t, SubTypeSpecial, req.SubType)
	assert.Equal(t, TaxYear("2025"), req.Year)

	_, err = NewCalculationRequest("crypto", "monthly", "1", "2025", "")
	assert.ErrorIs(t, err, ErrUnsupportedTaxType)

	_, err = NewCalculationRequest("business", "monthly", "1", "2025", "premium")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func progressive(key ScheduleKey) RateSchedule {
	return RateSchedule{
		Key: key,
		Brackets: []Bracket{
			{Order: 1, RatePercent: d("6"), Limit: d("1000000"), Relief: d("1000000")},
			{Order: 2, RatePercent: d("18"), Limit: d("500000")},
			{Order: 3, RatePercent: d("36"), Limit: UnboundedLimit},
		},
	}
}

func TestRateScheduleValidate(t *testing.T) {
	key := ScheduleKey{Category: CategoryEmployment, Period: PeriodAnnually, Year: "2025"}

	t.Run("valid progressive", func(t *testing.T) {
		assert.NoError(t, progressive(key).Validate())
	})

	t.Run("valid flat", func(t *testing.T) {
		s := RateSchedule{
			Key:      ScheduleKey{Category: CategoryDividend, Period: PeriodAnnually, Year: "2025"},
			Brackets: []Bracket{{Order: 1, RatePercent: d("15"), Limit: UnboundedLimit, IsFlatRate: true}},
		}
		assert.NoError(t, s.Validate())
		assert.True(t, s.IsFlat())
	})

	tests := []struct {
		name   string
		mutate func(s *RateSchedule)
	}{
		{"gap in orders", func(s *RateSchedule) { s.Brackets[1].Order = 3; s.Brackets[2].Order = 4 }},
		{"rate above 100", func(s *RateSchedule) { s.Brackets[0].RatePercent = d("101") }},
		{"negative rate", func(s *RateSchedule) { s.Brackets[0].RatePercent = d("-1") }},
		{"zero limit", func(s *RateSchedule) { s.Brackets[1].Limit = decimal.Zero }},
		{"relief on bracket 2", func(s *RateSchedule) { s.Brackets[1].Relief = d("1") }},
		{"bounded final", func(s *RateSchedule) { s.Brackets[2].Limit = d("500000") }},
		{"unbounded middle", func(s *RateSchedule) { s.Brackets[1].Limit = UnboundedLimit }},
		{"flat among many", func(s *RateSchedule) { s.Brackets[0].IsFlatRate = true }},
		{"no brackets", func(s *RateSchedule) { s.Brackets = nil }},
		{"sub-type on employment", func(s *RateSchedule) { s.Key.SubType = SubTypeGeneral }},
		{"rental params on employment", func(s *RateSchedule) {
			s.Rental = &RentalParameters{ReliefPercent: d("25")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := progressive(key)
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestRateScheduleValidateZeroRateRelief(t *testing.T) {
	schedule := func(category TaxCategory, relief string) RateSchedule {
		return RateSchedule{
			Key: ScheduleKey{Category: category, Period: PeriodAnnually, Year: "2025"},
			Brackets: []Bracket{
				{Order: 1, RatePercent: decimal.Zero, Limit: d("100000"), Relief: d(relief)},
				{Order: 2, RatePercent: d("10"), Limit: UnboundedLimit},
			},
		}
	}

	tests := []struct {
		category TaxCategory
		relief   string
		ok       bool
	}{
		{CategoryRoyalty, "100000", true},
		{CategoryRoyalty, "150000", false},
		{CategoryPension, "100000.01", false},
		{CategoryEmployment, "150000", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+tt.relief, func(t *testing.T) {
			err := schedule(tt.category, tt.relief).Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, "exceeds its limit")
			}
		})
	}

	assert.True(t, CategoryRoyalty.ZeroRateFirstBracket())
	assert.True(t, CategoryPension.ZeroRateFirstBracket())
	assert.False(t, CategoryEmployment.ZeroRateFirstBracket())
}

func TestRateScheduleClone(t *testing.T) {
	s := progressive(ScheduleKey{Category: CategoryRental, Period: PeriodAnnually, Year: "2025"})
	s.Withholding = &WithholdingRule{RatePercent: d("10"), Threshold: d("1200000")}

	c := s.Clone()
	c.Brackets[0].RatePercent = d("99")
	c.Withholding.Threshold = decimal.Zero

	assert.True(t, s.Brackets[0].RatePercent.Equal(d("6")))
	assert.True(t, s.Withholding.Threshold.Equal(d("1200000")))
	assert.True(t, s.FirstBracketRelief().Equal(d("1000000")))
}

func TestWithholdingRule(t *testing.T) {
	w := WithholdingRule{RatePercent: d("10"), Threshold: d("1200000")}

	assert.False(t, w.Applies(d("1200000")), "threshold itself is not above the threshold")
	assert.True(t, w.Applies(d("1200000.01")))
	assert.True(t, w.Amount(d("2000000")).Equal(d("200000")))
	assert.True(t, w.Amount(d("100")).IsZero())
}

func TestCalculationErrorUnwrap(t *testing.T) {
	err := error(&CalculationError{
		Request: CalculationRequest{Category: "crypto"},
		Err:     ErrUnsupportedTaxType,
	})

	assert.ErrorIs(t, err, ErrUnsupportedTaxType)
	var ce *CalculationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, TaxCategory("crypto"), ce.Request.Category)
	assert.Equal(t, "unsupported_tax_type", ErrorKind(err))
	assert.Equal(t, "", ErrorKind(nil))
}
