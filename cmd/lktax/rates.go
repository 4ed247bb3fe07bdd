package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/lktax/internal/config"
	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/rgehrsitz/lktax/internal/output"
	"github.com/rgehrsitz/lktax/internal/schedule"
	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "List the active rate schedules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		var f schedule.Filter
		if v, _ := cmd.Flags().GetString("year"); v != "" {
			if f.Year, err = domain.ParseTaxYear(v); err != nil {
				return err
			}
		}
		if v, _ := cmd.Flags().GetString("type"); v != "" {
			if f.Category, err = domain.ParseTaxCategory(v); err != nil {
				return err
			}
		}
		if v, _ := cmd.Flags().GetString("period"); v != "" {
			if f.Period, err = domain.ParsePeriod(v); err != nil {
				return err
			}
		}

		schedules := a.store.Snapshot().Schedules(f)
		out := cmd.OutOrStdout()
		if len(schedules) == 0 {
			fmt.Fprintln(out, "No rate schedules match.")
			return nil
		}
		for i, s := range schedules {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printSchedule(out, s)
		}
		return nil
	},
}

func printSchedule(w io.Writer, s domain.RateSchedule) {
	title := s.Key.String()
	if s.EffectiveFrom != "" {
		title += " (effective " + s.EffectiveFrom + ")"
	}
	fmt.Fprintln(w, strings.ToUpper(title))
	fmt.Fprintln(w, strings.Repeat("-", 60))

	if s.IsFlat() {
		fmt.Fprintf(w, "  Flat rate %s on all income\n", output.FormatPercentage(s.Brackets[0].RatePercent))
	} else {
		for _, b := range s.Brackets {
			fmt.Fprintf(w, "  %d. %8s  %s\n", b.Order, output.FormatPercentage(b.RatePercent), output.FormatLimit(b.Limit))
		}
	}
	if relief := s.FirstBracketRelief(); relief.IsPositive() {
		fmt.Fprintf(w, "  Relief: %s\n", output.FormatCurrency(relief))
	}
	if r := s.Rental; r != nil {
		fmt.Fprintf(w, "  Rental relief: %s of gross, then %s\n", output.FormatPercentage(r.ReliefPercent), output.FormatCurrency(r.ReliefAmount))
	}
	if wht := s.Withholding; wht != nil {
		fmt.Fprintf(w, "  WHT: %s above %s\n", output.FormatPercentage(wht.RatePercent), output.FormatCurrency(wht.Threshold))
	}
}

var verifyCmd = &cobra.Command{
	Use:   "verify [rates-file]",
	Short: "Load and validate rate tables",
	Long: `Validates a rate table file, or the built-in tables with any --rates overlay,
and prints how many schedules each year and tax type has.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap *schedule.Snapshot
		var source string
		if len(args) == 1 {
			schedules, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if snap, err = schedule.NewSnapshot(schedules); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			source = args[0]
		} else {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			snap = a.store.Snapshot()
			source = "built-in tables"
			if a.settings.RatesFile != "" {
				source += " + " + a.settings.RatesFile
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Rate tables: %s\n", source)
		for _, year := range snap.Years() {
			counts := snap.CountByCategory(year)
			total := 0
			for _, n := range counts {
				total += n
			}
			fmt.Fprintf(out, "\nTax year %s: %d schedules\n", year, total)
			for _, c := range domain.AllCategories() {
				if n := counts[c]; n > 0 {
					fmt.Fprintf(out, "  %-15s %d\n", c, n)
				} else {
					fmt.Fprintf(out, "  %-15s missing\n", c)
				}
			}
		}
		fmt.Fprintln(out, "\nOK")
		return nil
	},
}

func init() {
	ratesCmd.Flags().StringP("year", "y", "", "Only this year of assessment")
	ratesCmd.Flags().StringP("type", "t", "", "Only this tax type")
	ratesCmd.Flags().StringP("period", "p", "", "Only this period")
}
