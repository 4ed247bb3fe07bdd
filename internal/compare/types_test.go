package compare

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearResult(year string, taxable, tax, rate int64) ComparisonResult {
	return ComparisonResult{
		Year: domain.TaxYear(year),
		Result: &domain.CalculationResult{
			Year:          domain.TaxYear(year),
			GrossIncome:   decimal.NewFromInt(1000000),
			TaxableIncome: decimal.NewFromInt(taxable),
			TotalTax:      decimal.NewFromInt(tax),
			EffectiveRate: decimal.NewFromInt(rate),
		},
	}
}

func TestCalculateComparison(t *testing.T) {
	mc := NewMetricsCalculator()
	tests := []struct {
		name      string
		alt, base ComparisonResult
		wantDiff  int64
		wantPct   string
	}{
		{"higher", yearResult("2024", 500000, 60000, 6), yearResult("2025", 400000, 40000, 4), 20000, "50"},
		{"lower", yearResult("2024", 300000, 30000, 3), yearResult("2025", 400000, 40000, 4), -10000, "-25"},
		{"zero base", yearResult("2024", 100000, 6000, 1), yearResult("2025", 0, 0, 0), 6000, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mc.CalculateComparison(tt.alt, tt.base)
			assert.True(t, got.TaxDiffFromBase.Equal(decimal.NewFromInt(tt.wantDiff)), got.TaxDiffFromBase.String())
			assert.True(t, got.TaxPctFromBase.Equal(decimal.RequireFromString(tt.wantPct)), got.TaxPctFromBase.String())
		})
	}

	failed := ComparisonResult{Year: "2030", Err: domain.ErrScheduleNotFound}
	got := mc.CalculateComparison(failed, yearResult("2025", 1, 1, 1))
	assert.True(t, got.TaxDiffFromBase.IsZero())
}

func TestGenerateRecommendations(t *testing.T) {
	base := yearResult("2025", 400000, 40000, 4)
	set := &ComparisonSet{
		BaseYear:   "2025",
		BaseResult: &base,
		AlternativeResults: []ComparisonResult{
			yearResult("2024", 500000, 60000, 6),
			{Year: "2023", Err: errors.New("no schedule")},
		},
	}
	recs := GenerateRecommendations(set)
	require.Len(t, recs, 3)
	assert.Equal(t, "Lowest tax: 2025 at 40000.00 (effective 4.00%)", recs[0])
	assert.Equal(t, "Highest tax: 2024 at 60000.00, 20000.00 more", recs[1])
	assert.Equal(t, "Not comparable: [2023]", recs[2])

	same := yearResult("2024", 400000, 40000, 4)
	set.AlternativeResults = []ComparisonResult{same}
	recs = GenerateRecommendations(set)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Same tax")

	set.AlternativeResults = nil
	assert.Empty(t, GenerateRecommendations(set))
}

func TestAllOrdersBaseFirst(t *testing.T) {
	base := yearResult("2025", 0, 0, 0)
	set := &ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{yearResult("2024", 0, 0, 0)}}
	all := set.All()
	require.Len(t, all, 2)
	assert.Equal(t, domain.TaxYear("2025"), all[0].Year)
	assert.Equal(t, domain.TaxYear("2024"), all[1].Year)
}
