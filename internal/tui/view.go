package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/rgehrsitz/lktax/internal/output"
	"github.com/rgehrsitz/lktax/internal/tui/components"
)

// View renders the form, the latest result or error, and the help footer
func (m Model) View() string {
	sections := []string{
		TitleStyle.Render("Sri Lanka Income Tax Calculator"),
		m.renderForm(),
	}

	switch {
	case m.calculating:
		sections = append(sections, InfoStyle.Render("Calculating..."))
	case m.err != nil:
		sections = append(sections, m.renderError())
	case m.result != nil:
		sections = append(sections, m.renderResult())
	}

	sections = append(sections, m.help.View(m.keys))
	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderForm() string {
	rows := []string{
		m.renderChoice(FieldCategory, string(m.Category())),
	}
	if m.Category().HasSubTypes() {
		rows = append(rows, m.renderChoice(FieldSubType, string(m.SubType())))
	}
	rows = append(rows,
		m.renderChoice(FieldPeriod, string(m.Period())),
		m.renderChoice(FieldYear, fmt.Sprintf("%s/%s", m.Year(), shortNextYear(m.Year()))),
		ParameterLabelStyle.Render(FieldAmount.String())+m.amount.View(),
	)
	return BorderStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderChoice(f Field, value string) string {
	label := ParameterLabelStyle.Render(f.String())
	if m.focus == f {
		return label + SelectedItemStyle.Render("‹ "+value+" ›")
	}
	return label + UnselectedItemStyle.Render("  "+value)
}

func (m Model) renderError() string {
	return ErrorStyle.Render(fmt.Sprintf("Error [%s]: %v", domain.ErrorKind(m.err), m.err))
}

func (m Model) renderResult() string {
	r := m.result

	figures := []*components.Figure{
		components.NewFigure("Taxable income", output.FormatCurrency(r.TaxableIncome)).
			WithNote("relief " + output.FormatCurrency(r.ReliefAmount)),
		components.NewFigure("Total tax", output.FormatCurrency(r.TotalTax)).
			WithNote("annual " + output.FormatCurrency(r.Annual.TotalTax)).
			WithTone(components.ToneHighlight),
		components.NewFigure("Effective rate", output.FormatPercentage(r.EffectiveRate)).
			WithNote("net " + output.FormatCurrency(r.NetIncome())),
	}

	notes := []string{}
	if r.SubTypeDefaulted {
		notes = append(notes, SubtitleStyle.Render(fmt.Sprintf("No sub-type given, %s assumed", r.SubType)))
	}
	if rb := r.Rental; rb != nil {
		notes = append(notes,
			components.NewFigure(fmt.Sprintf("Rental relief (%s)", output.FormatPercentage(rb.ReliefPercent)),
				output.FormatCurrency(rb.ReliefAmount)).Inline(),
			components.NewFigure("Net rental income", output.FormatCurrency(rb.NetIncome)).Inline())
	}
	if w := r.Withholding; w != nil {
		wht := components.NewFigure(
			fmt.Sprintf("WHT at %s above %s", output.FormatPercentage(w.RatePercent), output.FormatCurrency(w.Threshold)),
			"not applicable")
		if w.Applicable {
			wht.Value = output.FormatCurrency(w.Amount)
			wht.Tone = components.ToneWarning
		}
		notes = append(notes, wht.Inline())
	}

	parts := []string{components.Cards(figures, 3)}
	if len(notes) > 0 {
		parts = append(parts, strings.Join(notes, "\n"))
	}
	parts = append(parts, "", components.BracketTable(r.Brackets))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func shortNextYear(y domain.TaxYear) string {
	var n int
	if _, err := fmt.Sscanf(string(y), "%d", &n); err != nil {
		return "?"
	}
	return fmt.Sprintf("%02d", (n+1)%100)
}
