package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findSchedule(t *testing.T, schedules []domain.RateSchedule, key domain.ScheduleKey) domain.RateSchedule {
	t.Helper()
	for _, s := range schedules {
		if s.Key == key {
			return s
		}
	}
	t.Fatalf("schedule %s not found", key)
	return domain.RateSchedule{}
}

func TestLoadDefaults(t *testing.T) {
	schedules, err := NewInputParser().LoadDefaults()
	require.NoError(t, err)
	require.NotEmpty(t, schedules)

	t.Run("employment 2025 annually", func(t *testing.T) {
		s := findSchedule(t, schedules, domain.ScheduleKey{
			Category: domain.CategoryEmployment, Period: domain.PeriodAnnually, Year: "2025",
		})
		require.Len(t, s.Brackets, 5)
		assert.True(t, s.Brackets[0].RatePercent.Equal(decimal.NewFromInt(6)))
		assert.True(t, s.Brackets[0].Limit.Equal(decimal.NewFromInt(1000000)))
		assert.True(t, s.FirstBracketRelief().Equal(decimal.NewFromInt(1000000)))
		assert.True(t, s.Brackets[4].IsUnbounded())
		assert.Equal(t, "2025-04-01", s.EffectiveFrom)
	})

	t.Run("business special is flat", func(t *testing.T) {
		s := findSchedule(t, schedules, domain.ScheduleKey{
			Category: domain.CategoryBusiness, SubType: domain.SubTypeSpecial,
			Period: domain.PeriodMonthly, Year: "2025",
		})
		assert.True(t, s.IsFlat())
		assert.True(t, s.Brackets[0].RatePercent.Equal(decimal.NewFromInt(45)))
	})

	t.Run("rental carries parameters", func(t *testing.T) {
		s := findSchedule(t, schedules, domain.ScheduleKey{
			Category: domain.CategoryRental, Period: domain.PeriodAnnually, Year: "2025",
		})
		require.NotNil(t, s.Rental)
		require.NotNil(t, s.Withholding)
		assert.True(t, s.Rental.ReliefPercent.Equal(decimal.NewFromInt(25)))
		assert.True(t, s.Rental.ReliefAmount.Equal(decimal.NewFromInt(1800000)))
		assert.True(t, s.Withholding.Threshold.Equal(decimal.NewFromInt(1200000)))
	})

	t.Run("interest withholding per period", func(t *testing.T) {
		s := findSchedule(t, schedules, domain.ScheduleKey{
			Category: domain.CategoryInterest, Period: domain.PeriodQuarterly, Year: "2024",
		})
		assert.True(t, s.IsFlat())
		require.NotNil(t, s.Withholding)
		assert.True(t, s.Withholding.Threshold.Equal(decimal.NewFromInt(450000)))
	})

	t.Run("every category and period has a 2025 schedule", func(t *testing.T) {
		for _, c := range domain.AllCategories() {
			subs := c.SubTypes()
			if subs == nil {
				subs = []domain.SubType{domain.SubTypeNone}
			}
			for _, st := range subs {
				for _, p := range domain.AllPeriods() {
					findSchedule(t, schedules, domain.ScheduleKey{Category: c, SubType: st, Period: p, Year: "2025"})
				}
			}
		}
	})
}

func TestParseRateFile(t *testing.T) {
	yamlData := `
year: "2026/27"
tables:
  - categories: [dividend]
    flat_rate: 18
  - categories: [employment]
    periods:
      annually:
        brackets:
          - { rate: 6, limit: 1200000, relief: 1200000 }
          - { rate: 36, limit: unbounded }
`
	schedules, err := NewInputParser().Parse([]byte(yamlData))
	require.NoError(t, err)
	assert.Len(t, schedules, 4, "three dividend periods plus one employment period")

	s := findSchedule(t, schedules, domain.ScheduleKey{
		Category: domain.CategoryEmployment, Period: domain.PeriodAnnually, Year: "2026",
	})
	assert.Equal(t, 2, s.Brackets[1].Order)
}

func TestParseRateFileErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed year", "year: soon\ntables:\n  - categories: [dividend]\n    flat_rate: 15\n"},
		{"no tables", "year: 2025\n"},
		{"unknown category", "year: 2025\ntables:\n  - categories: [crypto]\n    flat_rate: 15\n"},
		{"non numeric rate", "year: 2025\ntables:\n  - categories: [dividend]\n    flat_rate: lots\n"},
		{"bounded final bracket", `year: 2025
tables:
  - categories: [employment]
    periods:
      monthly:
        brackets:
          - { rate: 6, limit: 100 }
`},
		{"duplicate schedule", `year: 2025
tables:
  - categories: [dividend]
    flat_rate: 15
  - categories: [dividend]
    flat_rate: 16
`},
		{"flat and brackets", `year: 2025
tables:
  - categories: [dividend]
    flat_rate: 15
    periods:
      monthly:
        brackets:
          - { rate: 6, limit: unbounded }
`},
		{"missing sub-type", "year: 2025\ntables:\n  - categories: [business]\n    flat_rate: 15\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2030\ntables:\n  - categories: [capital_gains]\n    flat_rate: 20\n"), 0o644))

	schedules, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, schedules, 3)

	_, err = NewInputParser().LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
