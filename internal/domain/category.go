package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TaxCategory identifies a class of income with its own rate schedules
type TaxCategory string

const (
	CategoryEmployment   TaxCategory = "employment"
	CategoryProfessional TaxCategory = "professional"
	CategoryBusiness     TaxCategory = "business"
	CategoryForeign      TaxCategory = "foreign"
	CategoryRental       TaxCategory = "rental"
	CategoryDividend     TaxCategory = "dividend"
	CategoryInterest     TaxCategory = "interest"
	CategoryRoyalty      TaxCategory = "royalty"
	CategoryPension      TaxCategory = "pension"
	CategoryCapitalGains TaxCategory = "capital_gains"
)

// AllCategories returns every supported category in display order
func AllCategories() []TaxCategory {
	return []TaxCategory{
		CategoryEmployment,
		CategoryProfessional,
		CategoryBusiness,
		CategoryForeign,
		CategoryRental,
		CategoryDividend,
		CategoryInterest,
		CategoryRoyalty,
		CategoryPension,
		CategoryCapitalGains,
	}
}

// Valid reports whether the category is one of the supported categories
func (c TaxCategory) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// SubTypes returns the sub-types a category is split into, or nil
func (c TaxCategory) SubTypes() []SubType {
	switch c {
	case CategoryBusiness:
		return []SubType{SubTypeGeneral, SubTypeSpecial}
	case CategoryForeign:
		return []SubType{SubTypeRemitted, SubTypeOther}
	default:
		return nil
	}
}

// ZeroRateFirstBracket reports whether the category's relief is the untaxed
// head of bracket 1 instead of a deduction taken before the walk
func (c TaxCategory) ZeroRateFirstBracket() bool {
	return c == CategoryRoyalty || c == CategoryPension
}

// HasSubTypes reports whether schedules for the category are keyed by sub-type
func (c TaxCategory) HasSubTypes() bool {
	return len(c.SubTypes()) > 0
}

// AcceptsSubType reports whether s is a valid sub-type of the category
func (c TaxCategory) AcceptsSubType(s SubType) bool {
	for _, st := range c.SubTypes() {
		if st == s {
			return true
		}
	}
	return false
}

// ParseTaxCategory converts user input into a TaxCategory.
// Unknown names yield ErrUnsupportedTaxType.
func ParseTaxCategory(s string) (TaxCategory, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "capital_gain" || name == "capital-gains" {
		name = string(CategoryCapitalGains)
	}
	c := TaxCategory(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTaxType, s)
	}
	return c, nil
}

// Period is the length of the income period a schedule applies to
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodAnnually  Period = "annually"
)

// AllPeriods returns the supported periods, shortest first
func AllPeriods() []Period {
	return []Period{PeriodMonthly, PeriodQuarterly, PeriodAnnually}
}

// Valid reports whether the period is supported
func (p Period) Valid() bool {
	switch p {
	case PeriodMonthly, PeriodQuarterly, PeriodAnnually:
		return true
	}
	return false
}

// AnnualMultiplier returns how many periods make up a year
func (p Period) AnnualMultiplier() int64 {
	switch p {
	case PeriodMonthly:
		return 12
	case PeriodQuarterly:
		return 4
	default:
		return 1
	}
}

// ParsePeriod converts user input into a Period
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month":
		return PeriodMonthly, nil
	case "quarterly", "quarter":
		return PeriodQuarterly, nil
	case "annually", "annual", "yearly":
		return PeriodAnnually, nil
	}
	return "", fmt.Errorf("%w: unrecognized period %q", ErrInvalidInput, s)
}

// SubType refines business and foreign income
type SubType string

const (
	SubTypeNone     SubType = ""
	SubTypeGeneral  SubType = "general"
	SubTypeSpecial  SubType = "special"
	SubTypeRemitted SubType = "remitted"
	SubTypeOther    SubType = "other"
)

// ParseSubType converts user input into a SubType. Empty input yields SubTypeNone.
func ParseSubType(s string) (SubType, error) {
	switch st := SubType(strings.ToLower(strings.TrimSpace(s))); st {
	case SubTypeNone, SubTypeGeneral, SubTypeSpecial, SubTypeRemitted, SubTypeOther:
		return st, nil
	}
	return "", fmt.Errorf("%w: unrecognized sub-type %q", ErrInvalidInput, s)
}

// TaxYear is the version label of a set of rate schedules, e.g. "2025"
type TaxYear string

var (
	plainYear  = regexp.MustCompile(`^(\d{4})$`)
	fiscalYear = regexp.MustCompile(`^(\d{4})\s*/\s*(\d{2}|\d{4})$`)
)

// ParseTaxYear accepts "2025", "2025/2026" and "2025/26" and normalizes to the first year
func ParseTaxYear(s string) (TaxYear, error) {
	v := strings.TrimSpace(s)
	if m := plainYear.FindStringSubmatch(v); m != nil {
		return TaxYear(m[1]), nil
	}
	if m := fiscalYear.FindStringSubmatch(v); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if len(m[2]) == 2 {
			end += start / 100 * 100
			if end <= start {
				end += 100
			}
		}
		if end != start+1 {
			return "", fmt.Errorf("%w: tax year %q does not span consecutive years", ErrInvalidInput, s)
		}
		return TaxYear(m[1]), nil
	}
	return "", fmt.Errorf("%w: malformed tax year %q", ErrInvalidInput, s)
}

// Valid reports whether the year is a four digit label
func (y TaxYear) Valid() bool {
	return plainYear.MatchString(string(y))
}
