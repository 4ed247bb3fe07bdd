package tui

import "github.com/rgehrsitz/lktax/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles with components
var (
	AppStyle            = tuistyles.AppStyle
	TitleStyle          = tuistyles.TitleStyle
	SubtitleStyle       = tuistyles.SubtitleStyle
	BorderStyle         = tuistyles.BorderStyle
	SelectedItemStyle   = tuistyles.SelectedItemStyle
	UnselectedItemStyle = tuistyles.UnselectedItemStyle
	ParameterLabelStyle = tuistyles.ParameterLabelStyle
	ErrorStyle          = tuistyles.ErrorStyle
	InfoStyle           = tuistyles.InfoStyle
)
