package compare

import (
	"encoding/json"

	"github.com/rgehrsitz/lktax/internal/output"
	"github.com/samber/lo"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool
}

type yearJSON struct {
	Year                string             `json:"tax_year"`
	Base                bool               `json:"base"`
	Result              *output.ResultJSON `json:"result,omitempty"`
	Error               string             `json:"error,omitempty"`
	TaxDiffFromBase     float64            `json:"tax_diff_from_base"`
	TaxPctFromBase      float64            `json:"tax_pct_from_base"`
	TaxableDiffFromBase float64            `json:"taxable_diff_from_base"`
	RateDiffFromBase    float64            `json:"effective_rate_diff_from_base"`
}

type comparisonJSON struct {
	TaxType         string     `json:"tax_type"`
	SubType         string     `json:"sub_type,omitempty"`
	Period          string     `json:"period"`
	GrossIncome     float64    `json:"gross_income"`
	BaseYear        string     `json:"base_year"`
	Years           []yearJSON `json:"years"`
	Recommendations []string   `json:"recommendations"`
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	gross, _ := compSet.Request.Gross.Float64()
	doc := comparisonJSON{
		TaxType:         string(compSet.Request.Category),
		SubType:         string(compSet.Request.SubType),
		Period:          string(compSet.Request.Period),
		GrossIncome:     gross,
		BaseYear:        string(compSet.BaseYear),
		Recommendations: compSet.Recommendations,
	}
	doc.Years = lo.Map(compSet.All(), func(r ComparisonResult, i int) yearJSON {
		y := yearJSON{Year: string(r.Year), Base: i == 0}
		if !r.OK() {
			if r.Err != nil {
				y.Error = r.Err.Error()
			}
			return y
		}
		y.Result = lo.ToPtr(output.NewResultJSON(output.Entry{Result: r.Result}))
		y.TaxDiffFromBase, _ = r.TaxDiffFromBase.Float64()
		y.TaxPctFromBase, _ = r.TaxPctFromBase.Float64()
		y.TaxableDiffFromBase, _ = r.TaxableDiffFromBase.Float64()
		y.RateDiffFromBase, _ = r.RateDiffFromBase.Float64()
		return y
	})

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
