package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultRates embed.FS

// amount is a decimal that also accepts the literal "unbounded"
type amount struct {
	decimal.Decimal
	set bool
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	if strings.EqualFold(node.Value, "unbounded") {
		a.Decimal = domain.UnboundedLimit
		a.set = true
		return nil
	}
	v, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number", node.Line, node.Value)
	}
	a.Decimal = v
	a.set = true
	return nil
}

// RateFile is the on-disk layout of one tax year's rate tables
type RateFile struct {
	Year          scalar       `yaml:"year"`
	EffectiveFrom string       `yaml:"effective_from"`
	Tables        []TableEntry `yaml:"tables"`
}

// TableEntry assigns one set of per-period schedules to several categories.
// Categories are written "category" or "category/sub_type".
type TableEntry struct {
	Categories []string               `yaml:"categories"`
	FlatRate   *amount                `yaml:"flat_rate"`
	Relief     *amount                `yaml:"relief"`
	Periods    map[string]PeriodEntry `yaml:"periods"`
}

// PeriodEntry is the schedule for one period
type PeriodEntry struct {
	FlatRate    *amount           `yaml:"flat_rate"`
	Relief      *amount           `yaml:"relief"`
	Brackets    []BracketEntry    `yaml:"brackets"`
	Withholding *WithholdingEntry `yaml:"withholding"`
	Rental      *RentalEntry      `yaml:"rental"`
}

// BracketEntry is one progressive bracket
type BracketEntry struct {
	Rate   amount `yaml:"rate"`
	Limit  amount `yaml:"limit"`
	Relief amount `yaml:"relief"`
}

// WithholdingEntry describes withholding tax reported with a calculation
type WithholdingEntry struct {
	Rate      amount `yaml:"rate"`
	Threshold amount `yaml:"threshold"`
}

// RentalEntry holds the rental relief parameters
type RentalEntry struct {
	ReliefPercent amount `yaml:"relief_percent"`
	ReliefAmount  amount `yaml:"relief_amount"`
}

// InputParser turns rate files into validated schedules
type InputParser struct{}

// NewInputParser creates a new rate file parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a single rate file
func (ip *InputParser) LoadFromFile(filename string) ([]domain.RateSchedule, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	schedules, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return schedules, nil
}

// LoadDefaults returns the schedules embedded in the binary for every known year
func (ip *InputParser) LoadDefaults() ([]domain.RateSchedule, error) {
	names, err := fs.Glob(defaultRates, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var all []domain.RateSchedule
	for _, name := range names {
		data, err := defaultRates.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded %s: %w", name, err)
		}
		schedules, err := ip.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded %s: %w", name, err)
		}
		all = append(all, schedules...)
	}
	return all, nil
}

// Parse decodes a rate file and expands it into one schedule per key
func (ip *InputParser) Parse(data []byte) ([]domain.RateSchedule, error) {
	var file RateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	year, err := domain.ParseTaxYear(string(file.Year))
	if err != nil {
		return nil, fmt.Errorf("year: %w", err)
	}
	if len(file.Tables) == 0 {
		return nil, fmt.Errorf("no tables provided for %s", year)
	}

	var schedules []domain.RateSchedule
	for i, table := range file.Tables {
		built, err := ip.expandTable(year, file.EffectiveFrom, table)
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i+1, err)
		}
		schedules = append(schedules, built...)
	}

	if err := ip.ValidateSchedules(schedules); err != nil {
		return nil, fmt.Errorf("rate table validation failed: %w", err)
	}
	return schedules, nil
}

// ValidateSchedules checks each schedule and rejects duplicate keys
func (ip *InputParser) ValidateSchedules(schedules []domain.RateSchedule) error {
	seen := make(map[domain.ScheduleKey]bool, len(schedules))
	for _, s := range schedules {
		if seen[s.Key] {
			return fmt.Errorf("duplicate schedule for %s", s.Key)
		}
		seen[s.Key] = true
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.Key, err)
		}
	}
	return nil
}

func (ip *InputParser) expandTable(year domain.TaxYear, effectiveFrom string, table TableEntry) ([]domain.RateSchedule, error) {
	if len(table.Categories) == 0 {
		return nil, fmt.Errorf("categories are required")
	}

	periods := table.Periods
	if len(periods) == 0 {
		if table.FlatRate == nil {
			return nil, fmt.Errorf("either periods or flat_rate is required")
		}
		periods = make(map[string]PeriodEntry, 3)
		for _, p := range domain.AllPeriods() {
			periods[string(p)] = PeriodEntry{}
		}
	}

	var out []domain.RateSchedule
	for _, ref := range table.Categories {
		category, subType, err := parseCategoryRef(ref)
		if err != nil {
			return nil, err
		}
		for name, entry := range periods {
			period, err := domain.ParsePeriod(name)
			if err != nil {
				return nil, err
			}
			brackets, err := ip.buildBrackets(table, entry)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", ref, name, err)
			}
			schedule := domain.RateSchedule{
				Key: domain.ScheduleKey{
					Category: category,
					Period:   period,
					Year:     year,
					SubType:  subType,
				},
				Brackets:      brackets,
				EffectiveFrom: effectiveFrom,
			}
			if w := entry.Withholding; w != nil {
				schedule.Withholding = &domain.WithholdingRule{
					RatePercent: w.Rate.Decimal,
					Threshold:   w.Threshold.Decimal,
				}
			}
			if r := entry.Rental; r != nil {
				pct := domain.DefaultRentalReliefPercent
				if r.ReliefPercent.set {
					pct = r.ReliefPercent.Decimal
				}
				schedule.Rental = &domain.RentalParameters{
					ReliefPercent: pct,
					ReliefAmount:  r.ReliefAmount.Decimal,
				}
			}
			out = append(out, schedule)
		}
	}
	return out, nil
}

func (ip *InputParser) buildBrackets(table TableEntry, entry PeriodEntry) ([]domain.Bracket, error) {
	flat := entry.FlatRate
	if flat == nil {
		flat = table.FlatRate
	}
	if flat != nil {
		if len(entry.Brackets) > 0 {
			return nil, fmt.Errorf("flat_rate and brackets are mutually exclusive")
		}
		relief := entry.Relief
		if relief == nil {
			relief = table.Relief
		}
		b := domain.Bracket{
			Order:       1,
			RatePercent: flat.Decimal,
			Limit:       domain.UnboundedLimit,
			IsFlatRate:  true,
		}
		if relief != nil {
			b.Relief = relief.Decimal
		}
		return []domain.Bracket{b}, nil
	}

	if len(entry.Brackets) == 0 {
		return nil, fmt.Errorf("no brackets provided")
	}
	brackets := make([]domain.Bracket, 0, len(entry.Brackets))
	for i, be := range entry.Brackets {
		if !be.Rate.set || !be.Limit.set {
			return nil, fmt.Errorf("bracket %d: rate and limit are required", i+1)
		}
		brackets = append(brackets, domain.Bracket{
			Order:       i + 1,
			RatePercent: be.Rate.Decimal,
			Limit:       be.Limit.Decimal,
			Relief:      be.Relief.Decimal,
		})
	}
	return brackets, nil
}

// parseCategoryRef splits "business/special" into its category and sub-type
func parseCategoryRef(ref string) (domain.TaxCategory, domain.SubType, error) {
	name, sub, _ := strings.Cut(ref, "/")
	category, err := domain.ParseTaxCategory(name)
	if err != nil {
		return "", "", err
	}
	subType, err := domain.ParseSubType(sub)
	if err != nil {
		return "", "", err
	}
	return category, subType, nil
}
