package schedule

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(category domain.TaxCategory, period domain.Period, year domain.TaxYear, rate int64) domain.RateSchedule {
	return domain.RateSchedule{
		Key: domain.ScheduleKey{Category: category, Period: period, Year: year},
		Brackets: []domain.Bracket{{
			Order: 1, RatePercent: decimal.NewFromInt(rate), Limit: domain.UnboundedLimit, IsFlatRate: true,
		}},
	}
}

func TestNewSnapshotSortsBrackets(t *testing.T) {
	s := domain.RateSchedule{
		Key: domain.ScheduleKey{Category: domain.CategoryPension, Period: domain.PeriodAnnually, Year: "2025"},
		Brackets: []domain.Bracket{
			{Order: 3, RatePercent: decimal.NewFromInt(12), Limit: domain.UnboundedLimit},
			{Order: 1, RatePercent: decimal.Zero, Limit: decimal.NewFromInt(10000000)},
			{Order: 2, RatePercent: decimal.NewFromInt(6), Limit: decimal.NewFromInt(10000000)},
		},
	}

	snap, err := NewSnapshot([]domain.RateSchedule{s})
	require.NoError(t, err)

	got, err := snap.Lookup(s.Key)
	require.NoError(t, err)
	for i, b := range got.Brackets {
		assert.Equal(t, i+1, b.Order)
	}
	assert.Equal(t, 3, s.Brackets[0].Order, "input slice is not mutated")
}

func TestNewSnapshotRejectsInvalid(t *testing.T) {
	bad := flat(domain.CategoryDividend, domain.PeriodMonthly, "2025", 150)
	_, err := NewSnapshot([]domain.RateSchedule{bad})
	assert.Error(t, err)

	royalty := domain.RateSchedule{
		Key: domain.ScheduleKey{Category: domain.CategoryRoyalty, Period: domain.PeriodAnnually, Year: "2025"},
		Brackets: []domain.Bracket{
			{Order: 1, RatePercent: decimal.Zero, Limit: decimal.NewFromInt(100000), Relief: decimal.NewFromInt(150000)},
			{Order: 2, RatePercent: decimal.NewFromInt(10), Limit: domain.UnboundedLimit},
		},
	}
	_, err = NewSnapshot([]domain.RateSchedule{royalty})
	assert.ErrorContains(t, err, "exceeds its limit")

	dup := flat(domain.CategoryDividend, domain.PeriodMonthly, "2025", 15)
	_, err = NewSnapshot([]domain.RateSchedule{dup, dup})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	snap, err := NewSnapshot([]domain.RateSchedule{
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2025", 15),
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		key     domain.ScheduleKey
		wantErr bool
	}{
		{"exact match", domain.ScheduleKey{Category: domain.CategoryDividend, Period: domain.PeriodMonthly, Year: "2025"}, false},
		{"other period", domain.ScheduleKey{Category: domain.CategoryDividend, Period: domain.PeriodAnnually, Year: "2025"}, true},
		{"unknown year", domain.ScheduleKey{Category: domain.CategoryDividend, Period: domain.PeriodMonthly, Year: "2023"}, true},
		{"other category", domain.ScheduleKey{Category: domain.CategoryInterest, Period: domain.PeriodMonthly, Year: "2025"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snap.Lookup(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLookupUnknownYearNamesKnownYears(t *testing.T) {
	snap, err := NewSnapshot([]domain.RateSchedule{
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2024", 14),
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2025", 15),
	})
	require.NoError(t, err)

	_, err = snap.Lookup(domain.ScheduleKey{Category: domain.CategoryDividend, Period: domain.PeriodMonthly, Year: "2030"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024, 2025")
}

func TestLookupReturnsCopy(t *testing.T) {
	key := domain.ScheduleKey{Category: domain.CategoryDividend, Period: domain.PeriodMonthly, Year: "2025"}
	snap, err := NewSnapshot([]domain.RateSchedule{flat(key.Category, key.Period, key.Year, 15)})
	require.NoError(t, err)

	first, _ := snap.Lookup(key)
	first.Brackets[0].RatePercent = decimal.NewFromInt(99)

	second, _ := snap.Lookup(key)
	assert.True(t, second.Brackets[0].RatePercent.Equal(decimal.NewFromInt(15)))
}

func TestSchedulesFilterAndOrder(t *testing.T) {
	snap, err := NewSnapshot([]domain.RateSchedule{
		flat(domain.CategoryInterest, domain.PeriodAnnually, "2025", 10),
		flat(domain.CategoryDividend, domain.PeriodAnnually, "2025", 15),
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2025", 15),
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2024", 14),
	})
	require.NoError(t, err)

	all := snap.Schedules(Filter{})
	require.Len(t, all, 4)
	assert.Equal(t, domain.TaxYear("2024"), all[0].Key.Year)
	assert.Equal(t, domain.PeriodMonthly, all[1].Key.Period)
	assert.Equal(t, domain.CategoryInterest, all[3].Key.Category)

	only := snap.Schedules(Filter{Year: "2025", Category: domain.CategoryDividend})
	assert.Len(t, only, 2)

	assert.Equal(t, []domain.TaxYear{"2024", "2025"}, snap.Years())
	assert.Equal(t, map[domain.TaxCategory]int{domain.CategoryDividend: 2, domain.CategoryInterest: 1}, snap.CountByCategory("2025"))
}

func TestMergeReplacesWholeYears(t *testing.T) {
	base, err := NewSnapshot([]domain.RateSchedule{
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2024", 14),
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2025", 15),
		flat(domain.CategoryInterest, domain.PeriodMonthly, "2025", 10),
	})
	require.NoError(t, err)
	overlay, err := NewSnapshot([]domain.RateSchedule{
		flat(domain.CategoryDividend, domain.PeriodMonthly, "2025", 20),
	})
	require.NoError(t, err)

	merged := base.Merge(overlay)
	assert.Equal(t, 2, merged.Len())

	got, err := merged.Lookup(domain.ScheduleKey{Category: domain.CategoryDividend, Period: domain.PeriodMonthly, Year: "2025"})
	require.NoError(t, err)
	assert.True(t, got.Brackets[0].RatePercent.Equal(decimal.NewFromInt(20)))

	_, err = merged.Lookup(domain.ScheduleKey{Category: domain.CategoryInterest, Period: domain.PeriodMonthly, Year: "2025"})
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound, "overlay replaces the whole year")

	assert.Equal(t, 3, base.Len(), "base snapshot is unchanged")
}

func TestStoreReplaceIsAtomic(t *testing.T) {
	key := domain.ScheduleKey{Category: domain.CategoryDividend, Period: domain.PeriodMonthly, Year: "2025"}
	v1, err := NewSnapshot([]domain.RateSchedule{flat(key.Category, key.Period, key.Year, 15)})
	require.NoError(t, err)
	v2, err := NewSnapshot([]domain.RateSchedule{flat(key.Category, key.Period, key.Year, 20)})
	require.NoError(t, err)

	store := NewStore(v1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s, err := store.Lookup(key)
				if assert.NoError(t, err) {
					rate := s.Brackets[0].RatePercent.IntPart()
					assert.True(t, rate == 15 || rate == 20)
				}
			}
		}()
	}
	prev := store.Replace(v2)
	wg.Wait()

	assert.Same(t, v1, prev)
	assert.Same(t, v2, store.Snapshot())
}

func TestEmptyStore(t *testing.T) {
	_, err := (&Store{}).Lookup(domain.ScheduleKey{})
	assert.ErrorIs(t, err, domain.ErrScheduleNotFound)
}

func TestLoadSnapshot(t *testing.T) {
	snap, err := LoadSnapshot("")
	require.NoError(t, err)
	assert.Equal(t, []domain.TaxYear{"2024", "2025"}, snap.Years())

	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: 2026\ntables:\n  - categories: [dividend]\n    flat_rate: 18\n"), 0o644))

	merged, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.TaxYear{"2024", "2025", "2026"}, merged.Years())

	_, err = LoadStore(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
