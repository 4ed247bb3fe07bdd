package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/lktax/internal/domain"
)

// ConsoleFormatter renders a human readable text report
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (f ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var sb strings.Builder

	if len(report.Entries) > 1 {
		sb.WriteString("INCOME TAX CALCULATION BATCH\n")
		sb.WriteString(strings.Repeat("=", 72) + "\n")
		if report.RunID != "" {
			sb.WriteString(fmt.Sprintf("Run ID:     %s\n", report.RunID))
		}
		sb.WriteString(fmt.Sprintf("Requests:   %d (%d failed)\n\n", len(report.Entries), report.Failed()))
	}

	for i, e := range report.Entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		if e.Err != nil {
			f.writeError(&sb, e)
			continue
		}
		f.writeResult(&sb, e.Name, e.Result)
	}
	return []byte(sb.String()), nil
}

func (f ConsoleFormatter) writeError(sb *strings.Builder, e Entry) {
	title := e.Name
	if title == "" {
		title = e.Request.String()
	}
	sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	sb.WriteString(fmt.Sprintf("ERROR [%s]: %v\n", domain.ErrorKind(e.Err), e.Err))
}

func (f ConsoleFormatter) writeResult(sb *strings.Builder, name string, r *domain.CalculationResult) {
	title := fmt.Sprintf("%s income tax, %s, %s/%s", categoryLabel(r.Category, r.SubType), r.Period, r.Year, nextYearSuffix(r.Year))
	if name != "" {
		title = name + ": " + title
	}
	sb.WriteString(strings.ToUpper(title) + "\n")
	sb.WriteString(strings.Repeat("=", 72) + "\n")

	row := func(label, value string) {
		sb.WriteString(fmt.Sprintf("%-26s %20s\n", label, value))
	}
	row("Gross income:", FormatCurrency(r.GrossIncome))
	if r.Rental != nil {
		row(fmt.Sprintf("Rental relief (%s):", FormatPercentage(r.Rental.ReliefPercent)), FormatCurrency(r.Rental.ReliefAmount))
		row("Net rental income:", FormatCurrency(r.Rental.NetIncome))
	}
	row("Relief:", FormatCurrency(r.ReliefAmount))
	row("Taxable income:", FormatCurrency(r.TaxableIncome))
	row("Total tax:", FormatCurrency(r.TotalTax))
	row("Effective rate:", FormatPercentage(r.EffectiveRate))
	if r.Period != domain.PeriodAnnually {
		row("Annual gross income:", FormatCurrency(r.Annual.GrossIncome))
		row("Annual tax:", FormatCurrency(r.Annual.TotalTax))
	}
	if r.SubTypeDefaulted {
		sb.WriteString(fmt.Sprintf("(no sub-type given, %s assumed)\n", r.SubType))
	}

	if w := r.Withholding; w != nil {
		status := "not applicable"
		if w.Applicable {
			status = FormatCurrency(w.Amount)
		}
		row(fmt.Sprintf("WHT at %s:", FormatPercentage(w.RatePercent)), status)
		row("WHT threshold:", FormatCurrency(w.Threshold))
	}

	if len(r.Brackets) == 0 {
		sb.WriteString("\nNo income falls into any tax bracket.\n")
		return
	}

	sb.WriteString("\nBRACKET BREAKDOWN\n")
	sb.WriteString(fmt.Sprintf("%-3s %8s %20s %20s %18s\n", "#", "Rate", "Band", "Taxable", "Tax"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	for _, b := range r.Brackets {
		sb.WriteString(fmt.Sprintf("%-3d %8s %20s %20s %18s\n",
			b.Order,
			FormatPercentage(b.RatePercent),
			FormatLimit(b.Limit),
			FormatCurrency(b.TaxableAmount),
			FormatCurrency(b.TaxAmount)))
	}
	sb.WriteString(strings.Repeat("-", 72) + "\n")
	sb.WriteString(fmt.Sprintf("%-54s %18s\n", "Total", FormatCurrency(r.TotalTax)))
}

// nextYearSuffix renders the second half of a fiscal year label, e.g. "26" for 2025
func nextYearSuffix(y domain.TaxYear) string {
	var n int
	if _, err := fmt.Sscanf(string(y), "%d", &n); err != nil {
		return ""
	}
	return fmt.Sprintf("%02d", (n+1)%100)
}
