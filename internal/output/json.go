package output

import (
	"encoding/json"
	"time"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// JSONFormatter renders results with numbers as JSON floats
type JSONFormatter struct {
	Pretty bool
}

func (JSONFormatter) Name() string { return "json" }

// BracketJSON is the serialized form of a bracket contribution
type BracketJSON struct {
	Order           int     `json:"order"`
	Rate            float64 `json:"rate"`
	Limit           float64 `json:"limit"`
	TaxableAmount   float64 `json:"taxable_amount"`
	TaxAmount       float64 `json:"tax_amount"`
	CumulativeLimit float64 `json:"cumulative_limit"`
	NextLimit       float64 `json:"next_limit"`
}

// ResultJSON is the serialized form of one report entry
type ResultJSON struct {
	Name      string `json:"name,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`

	TaxType       string        `json:"tax_type"`
	Period        string        `json:"period"`
	TaxYear       string        `json:"tax_year"`
	GrossIncome   float64       `json:"gross_income"`
	ReliefAmount  float64       `json:"relief_amount"`
	TaxableIncome float64       `json:"taxable_income"`
	TotalTax      float64       `json:"total_tax"`
	EffectiveRate float64       `json:"effective_rate"`
	Brackets      []BracketJSON `json:"brackets"`

	BusinessType     string `json:"business_type,omitempty"`
	ForeignType      string `json:"foreign_type,omitempty"`
	SubTypeDefaulted bool   `json:"sub_type_defaulted,omitempty"`

	WHTApplicable          *bool    `json:"wht_applicable,omitempty"`
	WHTAmount              *float64 `json:"wht_amount,omitempty"`
	WHTThreshold           *float64 `json:"wht_threshold,omitempty"`
	WHTRate                *float64 `json:"wht_rate,omitempty"`
	RentalReliefPercentage *float64 `json:"rental_relief_percentage,omitempty"`
	RentalReliefAmount     *float64 `json:"rental_relief_amount,omitempty"`
	NetRentalIncome        *float64 `json:"net_rental_income,omitempty"`

	AnnualGrossIncome float64 `json:"annual_gross_income"`
	AnnualTotalTax    float64 `json:"annual_total_tax"`
}

// BatchJSON wraps several results
type BatchJSON struct {
	RunID       string       `json:"run_id,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
	Failed      int          `json:"failed"`
	Results     []ResultJSON `json:"results"`
}

// Format writes a single result object for a one-entry report and a batch
// envelope otherwise.
func (f JSONFormatter) Format(report *Report) ([]byte, error) {
	results := lo.Map(report.Entries, func(e Entry, _ int) ResultJSON {
		return NewResultJSON(e)
	})

	var v any = BatchJSON{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		Failed:      report.Failed(),
		Results:     results,
	}
	if len(results) == 1 {
		v = results[0]
	}

	var data []byte
	var err error
	if f.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// NewResultJSON converts an entry into its serialized form
func NewResultJSON(e Entry) ResultJSON {
	out := ResultJSON{
		Name:     e.Name,
		TaxType:  string(e.Request.Category),
		Period:   string(e.Request.Period),
		TaxYear:  string(e.Request.Year),
		Brackets: []BracketJSON{},
	}
	if e.Err != nil {
		out.Error = e.Err.Error()
		out.ErrorKind = domain.ErrorKind(e.Err)
		return out
	}

	r := e.Result
	out.Success = true
	out.TaxType = string(r.Category)
	out.Period = string(r.Period)
	out.TaxYear = string(r.Year)
	out.GrossIncome = toFloat(r.GrossIncome)
	out.ReliefAmount = toFloat(r.ReliefAmount)
	out.TaxableIncome = toFloat(r.TaxableIncome)
	out.TotalTax = toFloat(r.TotalTax)
	out.EffectiveRate = toFloat(r.EffectiveRate)
	out.AnnualGrossIncome = toFloat(r.Annual.GrossIncome)
	out.AnnualTotalTax = toFloat(r.Annual.TotalTax)
	out.SubTypeDefaulted = r.SubTypeDefaulted

	switch r.Category {
	case domain.CategoryBusiness:
		out.BusinessType = string(r.SubType)
	case domain.CategoryForeign:
		out.ForeignType = string(r.SubType)
	}

	out.Brackets = lo.Map(r.Brackets, func(b domain.BracketContribution, _ int) BracketJSON {
		return BracketJSON{
			Order:           b.Order,
			Rate:            toFloat(b.RatePercent),
			Limit:           toFloat(b.Limit),
			TaxableAmount:   toFloat(b.TaxableAmount),
			TaxAmount:       toFloat(b.TaxAmount),
			CumulativeLimit: toFloat(b.CumulativeLimit),
			NextLimit:       toFloat(b.NextLimit),
		}
	})

	if w := r.Withholding; w != nil {
		out.WHTApplicable = lo.ToPtr(w.Applicable)
		out.WHTAmount = lo.ToPtr(toFloat(w.Amount))
		out.WHTThreshold = lo.ToPtr(toFloat(w.Threshold))
		out.WHTRate = lo.ToPtr(toFloat(w.RatePercent))
	}
	if rb := r.Rental; rb != nil {
		out.RentalReliefPercentage = lo.ToPtr(toFloat(rb.ReliefPercent))
		out.RentalReliefAmount = lo.ToPtr(toFloat(rb.ReliefAmount))
		out.NetRentalIncome = lo.ToPtr(toFloat(rb.NetIncome))
	}
	return out
}

// toFloat converts at the serialization boundary, rounded to four places
func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(4).Float64()
	return f
}
