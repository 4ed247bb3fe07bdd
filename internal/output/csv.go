package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/lktax/internal/domain"
)

// CSVFormatter writes one summary row per report entry
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

var csvHeader = []string{
	"Name", "TaxType", "SubType", "Period", "TaxYear",
	"GrossIncome", "ReliefAmount", "TaxableIncome", "TotalTax", "EffectiveRate",
	"Brackets", "WHTApplicable", "WHTAmount", "AnnualGrossIncome", "AnnualTotalTax", "Error",
}

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		if err := w.Write(c.formatRow(e)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c CSVFormatter) formatRow(e Entry) []string {
	if e.Err != nil {
		row := make([]string, len(csvHeader))
		row[0] = e.Name
		row[1] = string(e.Request.Category)
		row[2] = string(e.Request.SubType)
		row[3] = string(e.Request.Period)
		row[4] = string(e.Request.Year)
		row[len(row)-1] = e.Err.Error()
		return row
	}

	r := e.Result
	whtApplicable, whtAmount := "", ""
	if w := r.Withholding; w != nil {
		whtApplicable = strconv.FormatBool(w.Applicable)
		whtAmount = w.Amount.StringFixed(2)
	}
	subType := ""
	if r.SubType != domain.SubTypeNone {
		subType = string(r.SubType)
	}
	return []string{
		e.Name,
		string(r.Category),
		subType,
		string(r.Period),
		string(r.Year),
		r.GrossIncome.StringFixed(2),
		r.ReliefAmount.StringFixed(2),
		r.TaxableIncome.StringFixed(2),
		r.TotalTax.StringFixed(2),
		r.EffectiveRate.StringFixed(2),
		strconv.Itoa(len(r.Brackets)),
		whtApplicable,
		whtAmount,
		r.Annual.GrossIncome.StringFixed(2),
		r.Annual.TotalTax.StringFixed(2),
		"",
	}
}
