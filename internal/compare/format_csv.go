package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format writes one row per tax-year version, base first
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Year",
		"Type",
		"Gross Income",
		"Relief",
		"Taxable Income",
		"Total Tax",
		"Effective Rate",
		"Tax Diff from Base",
		"Tax Pct from Base",
		"Error",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i, r := range compSet.All() {
		kind := "alternative"
		if i == 0 {
			kind = "base"
		}
		if !r.OK() {
			row := []string{string(r.Year), kind, "", "", "", "", "", "", "", ""}
			if r.Err != nil {
				row[len(row)-1] = r.Err.Error()
			}
			if err := writer.Write(row); err != nil {
				return "", err
			}
			continue
		}
		row := []string{
			string(r.Year),
			kind,
			r.Result.GrossIncome.StringFixed(2),
			r.Result.ReliefAmount.StringFixed(2),
			r.Result.TaxableIncome.StringFixed(2),
			r.Result.TotalTax.StringFixed(2),
			r.Result.EffectiveRate.StringFixed(2),
			r.TaxDiffFromBase.StringFixed(2),
			r.TaxPctFromBase.StringFixed(2),
			"",
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
