package output

import (
	"strings"
	"time"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/shopspring/decimal"
)

// Entry is one calculation in a report. Exactly one of Result and Err is set.
type Entry struct {
	Name    string
	Request domain.CalculationRequest
	Result  *domain.CalculationResult
	Err     error
}

// Report is the unit every formatter renders
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Entries     []Entry
}

// NewReport creates a report stamped with the current time
func NewReport(runID string, entries []Entry) *Report {
	return &Report{RunID: runID, GeneratedAt: time.Now(), Entries: entries}
}

// Failed returns how many entries carry an error
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// GetFormatterByName returns the formatter registered under name, or nil
func GetFormatterByName(name string) Formatter {
	switch strings.ToLower(name) {
	case "console", "table", "":
		return ConsoleFormatter{}
	case "json":
		return JSONFormatter{Pretty: true}
	case "csv":
		return CSVFormatter{}
	case "pdf":
		return PDFFormatter{}
	default:
		return nil
	}
}

// FormatterNames lists the registered formatter names
func FormatterNames() []string {
	return []string{"console", "json", "csv", "pdf"}
}

// FormatCurrency formats an amount as rupees with thousands separators
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + "Rs. " + b.String() + "." + frac
}

// FormatPercentage formats a percentage value
func FormatPercentage(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// FormatLimit formats a bracket limit, printing the unbounded sentinel as "and above"
func FormatLimit(limit decimal.Decimal) string {
	if limit.GreaterThanOrEqual(domain.UnboundedLimit) {
		return "and above"
	}
	return FormatCurrency(limit)
}

func categoryLabel(category domain.TaxCategory, subType domain.SubType) string {
	if subType == domain.SubTypeNone {
		return string(category)
	}
	return string(category) + "/" + string(subType)
}
