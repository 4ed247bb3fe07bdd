package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/lktax/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a table comparing the tax-year versions
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder
	req := compSet.Request

	sb.WriteString("TAX YEAR COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	label := string(req.Category)
	if req.SubType != "" {
		label += "/" + string(req.SubType)
	}
	sb.WriteString(fmt.Sprintf("Request:   %s, %s, gross %s\n", label, req.Period, output.FormatCurrency(req.Gross)))
	sb.WriteString(fmt.Sprintf("Base year: %s\n\n", compSet.BaseYear))

	yearWidth := 10
	numWidth := 17

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		yearWidth, "Year",
		numWidth, "Relief",
		numWidth, "Taxable",
		numWidth, "Total Tax",
		numWidth-6, "Eff. Rate"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, yearWidth, numWidth, true))
	}
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], yearWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Year))
			if !alt.OK() {
				sb.WriteString(fmt.Sprintf("  %v\n", alt.Err))
				continue
			}
			sb.WriteString(fmt.Sprintf("  Total Tax:      %s%s (%s%%)\n",
				tf.deltaSymbol(alt.TaxDiffFromBase),
				output.FormatCurrency(alt.TaxDiffFromBase),
				alt.TaxPctFromBase.StringFixed(1)))
			sb.WriteString(fmt.Sprintf("  Taxable Income: %s%s\n",
				tf.deltaSymbol(alt.TaxableDiffFromBase),
				output.FormatCurrency(alt.TaxableDiffFromBase)))
			sb.WriteString(fmt.Sprintf("  Effective Rate: %s%s points\n",
				tf.deltaSymbol(alt.RateDiffFromBase),
				alt.RateDiffFromBase.StringFixed(2)))
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nSUMMARY\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("* %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(r *ComparisonResult, yearWidth, numWidth int, isBase bool) string {
	year := string(r.Year)
	if isBase {
		year += "*"
	}
	if !r.OK() {
		return fmt.Sprintf("%-*s %s\n", yearWidth, year, "not available")
	}
	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		yearWidth, year,
		numWidth, tf.formatDecimal(r.Result.ReliefAmount),
		numWidth, tf.formatDecimal(r.Result.TaxableIncome),
		numWidth, tf.formatDecimal(r.Result.TotalTax),
		numWidth-6, output.FormatPercentage(r.Result.EffectiveRate))
}

// formatDecimal abbreviates large rupee amounts
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return "Rs. " + d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	}
	return output.FormatCurrency(d)
}

// deltaSymbol returns "+" for increases; FormatCurrency already prints the minus sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// FormatCompact creates a one-line summary of tax per year
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Base %s: %s", compSet.BaseYear, output.FormatCurrency(compSet.BaseResult.Result.TotalTax)))
	for _, alt := range compSet.AlternativeResults {
		sb.WriteString(" | ")
		switch {
		case !alt.OK():
			sb.WriteString(fmt.Sprintf("%s: n/a", alt.Year))
		case alt.TaxDiffFromBase.IsZero():
			sb.WriteString(fmt.Sprintf("%s: =", alt.Year))
		default:
			sb.WriteString(fmt.Sprintf("%s: %s%s", alt.Year, tf.deltaSymbol(alt.TaxDiffFromBase), output.FormatCurrency(alt.TaxDiffFromBase)))
		}
	}
	return sb.String()
}
