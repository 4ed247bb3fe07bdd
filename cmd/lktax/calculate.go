package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rgehrsitz/lktax/internal/calculation"
	"github.com/rgehrsitz/lktax/internal/config"
	"github.com/rgehrsitz/lktax/internal/domain"
	"github.com/rgehrsitz/lktax/internal/output"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the tax on one income amount",
	Example: `  lktax calculate --type employment --period annually --amount 2000000
  lktax calculate -t business -s special -p monthly -a 500000 -f json
  lktax calculate -t rental -a 2000000 --year 2024/25 -f pdf -o rental.pdf`,
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
		result, err := a.engine.Calculate(req)
		if err != nil {
			return err
		}
		return renderReport(cmd, output.NewReport("", []output.Entry{{Request: req, Result: result}}))
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch [requests-file]",
	Short: "Calculate every request in a YAML batch file",
	Long: `Evaluates a file of named requests. A request that fails is reported with
its error and does not stop the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		requests, err := config.NewInputParser().LoadRequests(args[0], a.settings.DefaultYear)
		if err != nil {
			return err
		}
		runID := uuid.NewString()
		log.WithField("run_id", runID).Infof("evaluating %d requests from %s", len(requests), args[0])

		results, err := a.engine.CalculateAll(cmd.Context(), lo.Map(requests, func(r config.NamedRequest, _ int) calculation.NamedRequest {
			return calculation.NamedRequest{Name: r.Name, Request: r.Request}
		}))
		if err != nil {
			return err
		}

		report := output.NewReport(runID, lo.Map(results, func(e calculation.BatchEntry, _ int) output.Entry {
			return output.Entry{Name: e.Name, Request: e.Request, Result: e.Result, Err: e.Err}
		}))
		if err := renderReport(cmd, report); err != nil {
			return err
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict && report.Failed() > 0 {
			return fmt.Errorf("%d of %d requests failed", report.Failed(), len(report.Entries))
		}
		return nil
	},
}

// requestFromFlags builds a request from the shared --type/--period/--amount/--year/--sub-type flags
func requestFromFlags(cmd *cobra.Command, defaultYear domain.TaxYear) (domain.CalculationRequest, error) {
	taxType, _ := cmd.Flags().GetString("type")
	period, _ := cmd.Flags().GetString("period")
	amount, _ := cmd.Flags().GetString("amount")
	subType, _ := cmd.Flags().GetString("sub-type")
	year := string(defaultYear)
	if cmd.Flags().Changed("year") {
		year, _ = cmd.Flags().GetString("year")
	}
	return domain.NewCalculationRequest(taxType, period, amount, year, subType)
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "", "Tax type: "+categoryNames())
	cmd.Flags().StringP("period", "p", string(domain.PeriodAnnually), "Period: monthly, quarterly, annually")
	cmd.Flags().StringP("amount", "a", "", "Gross income for the period")
	cmd.Flags().StringP("sub-type", "s", "", "Business type (general, special) or foreign income type (remitted, other)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
}

func categoryNames() string {
	names := lo.Map(domain.AllCategories(), func(c domain.TaxCategory, _ int) string { return string(c) })
	return fmt.Sprintf("%v", names)
}

func init() {
	addRequestFlags(calculateCmd)
	calculateCmd.Flags().StringP("year", "y", "", "Year of assessment, e.g. 2025 or 2025/26 (env "+config.EnvDefaultTaxYear+")")
	calculateCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, pdf)")
	calculateCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")

	batchCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv, pdf)")
	batchCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	batchCmd.Flags().Bool("strict", false, "Exit with an error when any request fails")
}
