package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/rgehrsitz/lktax/internal/output"
	"github.com/rgehrsitz/lktax/internal/tui/tuistyles"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const bracketRowFormat = "%-3s %8s %18s %18s %16s"

// BracketTable renders a bracket breakdown with a total line
func BracketTable(brackets []domain.BracketContribution) string {
	if len(brackets) == 0 {
		return tuistyles.InfoStyle.Render("No income falls into any tax bracket.")
	}

	rows := []string{
		tuistyles.TableHeaderStyle.Render(fmt.Sprintf(bracketRowFormat, "#", "Rate", "Band", "Taxable", "Tax")),
	}
	for _, b := range brackets {
		rows = append(rows, tuistyles.TableCellStyle.Render(fmt.Sprintf(bracketRowFormat,
			fmt.Sprintf("%d", b.Order),
			output.FormatPercentage(b.RatePercent),
			output.FormatLimit(b.Limit),
			output.FormatCurrency(b.TaxableAmount),
			output.FormatCurrency(b.TaxAmount))))
	}

	total := lo.Reduce(brackets, func(acc decimal.Decimal, b domain.BracketContribution, _ int) decimal.Decimal {
		return acc.Add(b.TaxAmount)
	}, decimal.Zero)
	rows = append(rows, tuistyles.TableHighlightStyle.Render(fmt.Sprintf("%-50s %16s", "Total", output.FormatCurrency(total))))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
