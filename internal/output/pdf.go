package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/lktax/internal/domain"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFFormatter renders one page per report entry
type PDFFormatter struct{}

func (PDFFormatter) Name() string { return "pdf" }

type pdfReport struct {
	pdf    *fpdf.Fpdf
	report *Report
}

func (PDFFormatter) Format(report *Report) ([]byte, error) {
	r := &pdfReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		report: report,
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("Income Tax Calculation", false)

	if len(report.Entries) == 0 {
		r.pdf.AddPage()
		r.heading("Income Tax Calculation")
		r.pdf.SetFont("Arial", "", 11)
		r.pdf.CellFormat(contentWidth, 8, "No calculations.", "", 1, "L", false, 0, "")
	}
	for _, e := range report.Entries {
		r.addEntryPage(e)
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) heading(text string) {
	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, text, "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	stamp := fmt.Sprintf("Generated %s", r.report.GeneratedAt.Format("2 January 2006 15:04"))
	if r.report.RunID != "" {
		stamp += "  |  Run " + r.report.RunID
	}
	r.pdf.CellFormat(contentWidth, 6, stamp, "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *pdfReport) addEntryPage(e Entry) {
	r.pdf.AddPage()
	title := "Income Tax Calculation"
	if e.Name != "" {
		title += ": " + e.Name
	}
	r.heading(title)

	if e.Err != nil {
		r.pdf.SetFont("Arial", "B", 11)
		r.pdf.SetTextColor(170, 0, 0)
		r.pdf.MultiCell(contentWidth, 6, fmt.Sprintf("Calculation failed (%s): %v", domain.ErrorKind(e.Err), e.Err), "", "L", false)
		r.pdf.SetTextColor(50, 50, 50)
		return
	}

	res := e.Result
	r.sectionTitle("Summary")
	r.keyValue("Tax type", categoryLabel(res.Category, res.SubType))
	r.keyValue("Period", string(res.Period))
	r.keyValue("Year of assessment", fmt.Sprintf("%s/%s", res.Year, nextYearSuffix(res.Year)))
	r.keyValue("Gross income", FormatCurrency(res.GrossIncome))
	if rb := res.Rental; rb != nil {
		r.keyValue(fmt.Sprintf("Rental relief (%s)", FormatPercentage(rb.ReliefPercent)), FormatCurrency(rb.ReliefAmount))
		r.keyValue("Net rental income", FormatCurrency(rb.NetIncome))
	}
	r.keyValue("Relief", FormatCurrency(res.ReliefAmount))
	r.keyValue("Taxable income", FormatCurrency(res.TaxableIncome))
	r.keyValue("Total tax", FormatCurrency(res.TotalTax))
	r.keyValue("Effective rate", FormatPercentage(res.EffectiveRate))
	r.keyValue("Annual tax equivalent", FormatCurrency(res.Annual.TotalTax))
	if w := res.Withholding; w != nil {
		status := "not applicable"
		if w.Applicable {
			status = FormatCurrency(w.Amount)
		}
		r.keyValue(fmt.Sprintf("Withholding tax (%s above %s)", FormatPercentage(w.RatePercent), FormatCurrency(w.Threshold)), status)
	}

	r.pdf.Ln(6)
	r.sectionTitle("Bracket breakdown")
	if len(res.Brackets) == 0 {
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(contentWidth, 7, "No income falls into any tax bracket.", "", 1, "L", false, 0, "")
		return
	}

	widths := []float64{12, 24, 48, 48, 48}
	headers := []string{"#", "Rate", "Band", "Taxable", "Tax"}
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetFillColor(230, 236, 245)
	for i, h := range headers {
		r.pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 10)
	for _, b := range res.Brackets {
		r.pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", b.Order), "1", 0, "C", false, 0, "")
		r.pdf.CellFormat(widths[1], 7, FormatPercentage(b.RatePercent), "1", 0, "R", false, 0, "")
		r.pdf.CellFormat(widths[2], 7, FormatLimit(b.Limit), "1", 0, "R", false, 0, "")
		r.pdf.CellFormat(widths[3], 7, FormatCurrency(b.TaxableAmount), "1", 0, "R", false, 0, "")
		r.pdf.CellFormat(widths[4], 7, FormatCurrency(b.TaxAmount), "1", 1, "R", false, 0, "")
	}
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 8, "Total", "1", 0, "R", true, 0, "")
	r.pdf.CellFormat(widths[4], 8, FormatCurrency(res.TotalTax), "1", 1, "R", true, 0, "")
}

func (r *pdfReport) sectionTitle(text string) {
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, text, "B", 1, "L", false, 0, "")
	r.pdf.Ln(2)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *pdfReport) keyValue(key, value string) {
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.CellFormat(contentWidth*0.6, 6, key, "", 0, "L", false, 0, "")
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.CellFormat(contentWidth*0.4, 6, value, "", 1, "R", false, 0, "")
}
