package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/lktax/internal/domain"
)

// Calculator computes a single request
type Calculator interface {
	Calculate(req domain.CalculationRequest) (*domain.CalculationResult, error)
}

// Model is the state of the interactive calculator
type Model struct {
	calc Calculator

	categories []domain.TaxCategory
	periods    []domain.Period
	years      []domain.TaxYear

	catIdx    int
	subIdx    int
	periodIdx int
	yearIdx   int

	focus  Field
	amount textinput.Model
	keys   keyMap
	help   help.Model

	result      *domain.CalculationResult
	err         error
	calculating bool

	width  int
	height int
}

// NewModel creates a calculator over the given tax years, preselecting
// defaultYear when it is one of them.
func NewModel(calc Calculator, years []domain.TaxYear, defaultYear domain.TaxYear) Model {
	if len(years) == 0 {
		years = []domain.TaxYear{defaultYear}
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. 2,000,000"
	ti.Prompt = "Rs. "
	ti.CharLimit = 20
	ti.Width = 20

	m := Model{
		calc:       calc,
		categories: domain.AllCategories(),
		periods:    domain.AllPeriods(),
		years:      years,
		periodIdx:  len(domain.AllPeriods()) - 1,
		yearIdx:    len(years) - 1,
		focus:      FieldCategory,
		amount:     ti,
		keys:       defaultKeyMap(),
		help:       help.New(),
		width:      80,
		height:     24,
	}
	for i, y := range years {
		if y == defaultYear {
			m.yearIdx = i
		}
	}
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Category returns the selected tax category
func (m Model) Category() domain.TaxCategory { return m.categories[m.catIdx] }

// SubType returns the selected sub-type, or SubTypeNone for categories without sub-types
func (m Model) SubType() domain.SubType {
	subs := m.Category().SubTypes()
	if len(subs) == 0 {
		return domain.SubTypeNone
	}
	return subs[m.subIdx%len(subs)]
}

// Period returns the selected period
func (m Model) Period() domain.Period { return m.periods[m.periodIdx] }

// Year returns the selected tax year
func (m Model) Year() domain.TaxYear { return m.years[m.yearIdx] }

// Focus returns the field that receives left/right and text input
func (m Model) Focus() Field { return m.focus }

// Request builds a calculation request from the form. The amount may contain
// thousands separators.
func (m Model) Request() (domain.CalculationRequest, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(m.amount.Value()), ",", "")
	if raw == "" {
		return domain.CalculationRequest{}, fmt.Errorf("%w: enter a gross income amount", domain.ErrInvalidInput)
	}
	gross, err := domain.ParseAmount(raw)
	if err != nil {
		return domain.CalculationRequest{}, err
	}
	return domain.CalculationRequest{
		Category: m.Category(),
		Period:   m.Period(),
		Gross:    gross,
		Year:     m.Year(),
		SubType:  m.SubType(),
	}, nil
}

// matches reports whether req is what the form currently describes
func (m Model) matches(req domain.CalculationRequest) bool {
	now, err := m.Request()
	return err == nil &&
		now.Category == req.Category &&
		now.SubType == req.SubType &&
		now.Period == req.Period &&
		now.Year == req.Year &&
		now.Gross.Equal(req.Gross)
}

// calculateCmd returns a command that runs the calculation off the update loop
func calculateCmd(calc Calculator, req domain.CalculationRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := calc.Calculate(req)
		return CalculationCompleteMsg{Request: req, Result: result, Err: err}
	}
}

func wrap(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}
