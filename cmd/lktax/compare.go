package main

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/lktax/internal/compare"
	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the tax on one income across years of assessment",
	Long: `Runs the same request against several tax-year versions. The first year is
the base that the others are compared to.`,
	Example: `  lktax compare -t employment -a 2000000 --years 2025,2024
  lktax compare -t rental -p monthly -a 250000 -f csv
  lktax compare -t dividend -a 100000 -f compact`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		req, err := requestFromFlags(cmd, a.settings.DefaultYear)
		if err != nil {
			return err
		}

		rawYears, _ := cmd.Flags().GetStringSlice("years")
		var years []domain.TaxYear
		if len(rawYears) == 0 {
			years = defaultCompareYears(a.store.Snapshot().Years(), a.settings.DefaultYear)
		} else if years, err = compare.ParseYears(rawYears); err != nil {
			return err
		}

		set, err := compare.NewCompareEngine(a.engine).Compare(cmd.Context(), req, years)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		var out string
		switch format {
		case "csv":
			out, err = (&compare.CSVFormatter{}).Format(set)
		case "json":
			out, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
			out += "\n"
		case "table", "console", "":
			out = (&compare.TableFormatter{}).Format(set)
		case "compact":
			out = (&compare.TableFormatter{}).FormatCompact(set) + "\n"
		default:
			return fmt.Errorf("unsupported output format %q (choose from table, compact, csv, json)", format)
		}
		if err != nil {
			return err
		}
		return writeOutput(cmd, []byte(out))
	},
}

// defaultCompareYears puts the default year first, then the rest newest first
func defaultCompareYears(configured []domain.TaxYear, defaultYear domain.TaxYear) []domain.TaxYear {
	rest := []domain.TaxYear{}
	base := defaultYear
	found := false
	for _, y := range configured {
		if y == defaultYear {
			found = true
			continue
		}
		rest = append(rest, y)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] > rest[j] })
	if !found && len(rest) > 0 {
		base, rest = rest[0], rest[1:]
	}
	return append([]domain.TaxYear{base}, rest...)
}

func init() {
	addRequestFlags(compareCmd)
	compareCmd.Flags().StringSlice("years", nil, "Years of assessment to compare, base first (default: every configured year)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().StringP("output", "o", "", "Write the comparison to this file instead of stdout")
}
