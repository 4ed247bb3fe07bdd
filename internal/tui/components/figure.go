package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/lktax/internal/tui/tuistyles"
	"github.com/samber/lo"
)

// Tone picks the colour of a figure's value
type Tone int

const (
	ToneNormal Tone = iota
	ToneHighlight
	ToneWarning
)

// Figure is one labelled amount on the result panel
type Figure struct {
	Label string
	Value string
	Note  string
	Tone  Tone
	Width int
}

// NewFigure creates a figure with the default card width
func NewFigure(label, value string) *Figure {
	return &Figure{Label: label, Value: value, Width: 28}
}

// WithNote adds a muted line under the value
func (f *Figure) WithNote(note string) *Figure {
	f.Note = note
	return f
}

// WithTone colours the value
func (f *Figure) WithTone(t Tone) *Figure {
	f.Tone = t
	return f
}

func (f *Figure) valueStyle() lipgloss.Style {
	switch f.Tone {
	case ToneHighlight:
		return tuistyles.TableHighlightStyle
	case ToneWarning:
		return tuistyles.ErrorStyle
	default:
		return tuistyles.MetricValueStyle
	}
}

// Card renders the figure inside a rounded border
func (f *Figure) Card() string {
	body := tuistyles.MetricLabelStyle.Render(f.Label) + "\n" + f.valueStyle().Render(f.Value)
	if f.Note != "" {
		body += "\n" + tuistyles.SubtitleStyle.Render(f.Note)
	}
	return tuistyles.BorderStyle.Width(f.Width).Render(body)
}

// Inline renders "label: value" on one line
func (f *Figure) Inline() string {
	return tuistyles.MetricLabelStyle.Render(f.Label+":") + " " + f.valueStyle().Render(f.Value)
}

// Cards lays figures out as bordered cards, columns per row
func Cards(figures []*Figure, columns int) string {
	if len(figures) == 0 {
		return ""
	}
	rows := lo.Map(lo.Chunk(figures, max(columns, 1)), func(row []*Figure, _ int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, lo.Map(row, func(f *Figure, _ int) string { return f.Card() })...)
	})
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
