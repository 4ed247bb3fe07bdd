package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/rgehrsitz/lktax/internal/calculation"
	"github.com/rgehrsitz/lktax/internal/config"
	"github.com/rgehrsitz/lktax/internal/schedule"
	"github.com/rgehrsitz/lktax/internal/tui"
)

func main() {
	envFile := pflag.String("env-file", "", "Read settings from this .env file (default .env if present)")
	rates := pflag.String("rates", "", "Rate table file overlaying the built-in tables")
	pflag.Parse()

	settings, err := config.LoadSettings(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *rates != "" {
		settings.RatesFile = *rates
	}

	store, err := schedule.LoadStore(settings.RatesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	engine := calculation.NewEngine(store)
	engine.DefaultSubTypes = settings.DefaultSubTypes()

	model := tui.NewModel(engine, store.Snapshot().Years(), settings.DefaultYear)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
