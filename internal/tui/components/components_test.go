package components

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/lktax/internal/domain"
)

func TestFigure(t *testing.T) {
	f := NewFigure("Total tax", "Rs. 60,000.00").WithNote("annual Rs. 60,000.00").WithTone(ToneHighlight)
	assert.Equal(t, ToneHighlight, f.Tone)

	card := f.Card()
	assert.Contains(t, card, "Total tax")
	assert.Contains(t, card, "Rs. 60,000.00")
	assert.Contains(t, card, "annual")

	assert.Contains(t, f.Inline(), "Total tax: ")
}

func TestCards(t *testing.T) {
	assert.Empty(t, Cards(nil, 3))

	figures := []*Figure{
		NewFigure("A", "1"), NewFigure("B", "2"), NewFigure("C", "3"), NewFigure("D", "4"),
	}
	out := Cards(figures, 3)
	for _, label := range []string{"A", "B", "C", "D"} {
		assert.Contains(t, out, label)
	}

	// two rows of cards, three lines each plus borders
	assert.Greater(t, strings.Count(Cards(figures, 3), "\n"), strings.Count(Cards(figures[:3], 3), "\n"))
	assert.NotEmpty(t, Cards(figures, 0))
}

func TestBracketTable(t *testing.T) {
	assert.Contains(t, BracketTable(nil), "No income falls")

	out := BracketTable([]domain.BracketContribution{
		{Order: 1, RatePercent: decimal.NewFromInt(6), Limit: decimal.NewFromInt(1000000),
			TaxableAmount: decimal.NewFromInt(1000000), TaxAmount: decimal.NewFromInt(60000)},
		{Order: 2, RatePercent: decimal.NewFromInt(18), Limit: decimal.NewFromInt(500000),
			TaxableAmount: decimal.NewFromInt(100000), TaxAmount: decimal.NewFromInt(18000)},
	})
	assert.Contains(t, out, "Rate")
	assert.Contains(t, out, "18.00%")
	assert.Contains(t, out, "Rs. 78,000.00")
	assert.Equal(t, 4, strings.Count(out, "\n")+1)
}
