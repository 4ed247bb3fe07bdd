// Package schedule holds the versioned rate schedules the calculator reads from.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/samber/lo"
)

// Snapshot is an immutable, indexed set of rate schedules
type Snapshot struct {
	byKey map[domain.ScheduleKey]domain.RateSchedule
	years []domain.TaxYear
}

// NewSnapshot validates the schedules and indexes them by key.
// Brackets are sorted by order before validation.
func NewSnapshot(schedules []domain.RateSchedule) (*Snapshot, error) {
	byKey := make(map[domain.ScheduleKey]domain.RateSchedule, len(schedules))
	for _, s := range schedules {
		c := s.Clone()
		c.SortBrackets()
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", c.Key, err)
		}
		if _, dup := byKey[c.Key]; dup {
			return nil, fmt.Errorf("duplicate schedule for %s", c.Key)
		}
		byKey[c.Key] = c
	}

	years := lo.Uniq(lo.Map(lo.Keys(byKey), func(k domain.ScheduleKey, _ int) domain.TaxYear {
		return k.Year
	}))
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })

	return &Snapshot{byKey: byKey, years: years}, nil
}

// Lookup returns a copy of the schedule for key. Lookup is an exact match: there is
// no fallback between years or sub-types.
func (s *Snapshot) Lookup(key domain.ScheduleKey) (domain.RateSchedule, error) {
	if !lo.Contains(s.years, key.Year) {
		return domain.RateSchedule{}, fmt.Errorf("%w: no schedules for tax year %s (known: %s)",
			domain.ErrScheduleNotFound, key.Year, s.knownYears())
	}
	sched, ok := s.byKey[key]
	if !ok {
		return domain.RateSchedule{}, fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, key)
	}
	return sched.Clone(), nil
}

// Years returns the configured tax years in ascending order
func (s *Snapshot) Years() []domain.TaxYear {
	return append([]domain.TaxYear(nil), s.years...)
}

// Len returns the number of schedules in the snapshot
func (s *Snapshot) Len() int {
	return len(s.byKey)
}

// Filter narrows a schedule listing. Zero fields match everything.
type Filter struct {
	Year     domain.TaxYear
	Category domain.TaxCategory
	Period   domain.Period
}

func (f Filter) matches(k domain.ScheduleKey) bool {
	return (f.Year == "" || f.Year == k.Year) &&
		(f.Category == "" || f.Category == k.Category) &&
		(f.Period == "" || f.Period == k.Period)
}

// Schedules returns copies of the matching schedules ordered by year, category,
// sub-type and period.
func (s *Snapshot) Schedules(f Filter) []domain.RateSchedule {
	matched := lo.Filter(lo.Values(s.byKey), func(rs domain.RateSchedule, _ int) bool {
		return f.matches(rs.Key)
	})
	sort.Slice(matched, func(i, j int) bool {
		return keyLess(matched[i].Key, matched[j].Key)
	})
	return lo.Map(matched, func(rs domain.RateSchedule, _ int) domain.RateSchedule {
		return rs.Clone()
	})
}

// Merge returns a new snapshot in which every tax year present in overlay replaces
// the same year in s. Years only present in s are kept.
func (s *Snapshot) Merge(overlay *Snapshot) *Snapshot {
	replaced := lo.SliceToMap(overlay.years, func(y domain.TaxYear) (domain.TaxYear, bool) {
		return y, true
	})

	byKey := make(map[domain.ScheduleKey]domain.RateSchedule, len(s.byKey)+len(overlay.byKey))
	for k, v := range s.byKey {
		if !replaced[k.Year] {
			byKey[k] = v
		}
	}
	for k, v := range overlay.byKey {
		byKey[k] = v
	}

	years := lo.Uniq(append(s.Years(), overlay.years...))
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return &Snapshot{byKey: byKey, years: years}
}

// CountByCategory returns how many schedules each category has in year
func (s *Snapshot) CountByCategory(year domain.TaxYear) map[domain.TaxCategory]int {
	inYear := lo.Filter(lo.Keys(s.byKey), func(k domain.ScheduleKey, _ int) bool {
		return k.Year == year
	})
	return lo.CountValuesBy(inYear, func(k domain.ScheduleKey) domain.TaxCategory {
		return k.Category
	})
}

func (s *Snapshot) knownYears() string {
	if len(s.years) == 0 {
		return "none"
	}
	return strings.Join(lo.Map(s.years, func(y domain.TaxYear, _ int) string { return string(y) }), ", ")
}

var periodRank = map[domain.Period]int{
	domain.PeriodMonthly:   0,
	domain.PeriodQuarterly: 1,
	domain.PeriodAnnually:  2,
}

func categoryRank(c domain.TaxCategory) int {
	return lo.IndexOf(domain.AllCategories(), c)
}

func keyLess(a, b domain.ScheduleKey) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Category != b.Category {
		return categoryRank(a.Category) < categoryRank(b.Category)
	}
	if a.SubType != b.SubType {
		return a.SubType < b.SubType
	}
	return periodRank[a.Period] < periodRank[b.Period]
}

// Store serves lookups from the current snapshot. Replace swaps the whole snapshot
// atomically, so a lookup always sees one consistent version.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store serving snap
func NewStore(snap *Snapshot) *Store {
	st := &Store{}
	st.current.Store(snap)
	return st
}

// Lookup resolves key against the current snapshot
func (st *Store) Lookup(key domain.ScheduleKey) (domain.RateSchedule, error) {
	snap := st.current.Load()
	if snap == nil {
		return domain.RateSchedule{}, fmt.Errorf("%w: no schedules loaded", domain.ErrScheduleNotFound)
	}
	return snap.Lookup(key)
}

// Snapshot returns the snapshot currently being served
func (st *Store) Snapshot() *Snapshot {
	return st.current.Load()
}

// Replace installs snap and returns the previous snapshot
func (st *Store) Replace(snap *Snapshot) *Snapshot {
	return st.current.Swap(snap)
}
