package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/lktax/internal/calculation"
	"github.com/rgehrsitz/lktax/internal/config"
	"github.com/rgehrsitz/lktax/internal/output"
	"github.com/rgehrsitz/lktax/internal/schedule"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	logLevels = map[string]logrus.Level{
		"trace": logrus.TraceLevel,
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"off":   logrus.PanicLevel,
	}

	log = logrus.WithField("module", "lktax")
)

// app is what every command needs after flags and settings are resolved
type app struct {
	settings config.Settings
	store    *schedule.Store
	engine   *calculation.Engine
}

// newApp resolves settings from the env file and global flags, configures
// logging and loads the rate schedules.
func newApp(cmd *cobra.Command) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	settings, err := config.LoadSettings(envFile)
	if err != nil {
		return nil, err
	}
	if rates, _ := cmd.Flags().GetString("rates"); rates != "" {
		settings.RatesFile = rates
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		settings.LogLevel = level
	}
	if err := setupLogging(cmd, settings.LogLevel); err != nil {
		return nil, err
	}

	store, err := schedule.LoadStore(settings.RatesFile)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %d rate schedules for years %v", store.Snapshot().Len(), store.Snapshot().Years())

	engine := calculation.NewEngine(store)
	engine.DefaultSubTypes = settings.DefaultSubTypes()
	engine.SetLogger(log)

	return &app{settings: settings, store: store, engine: engine}, nil
}

func setupLogging(cmd *cobra.Command, level string) error {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}
	logrus.SetOutput(cmd.ErrOrStderr())
	logrus.SetLevel(lvl)
	return nil
}

// writeOutput sends data to the --output file, or to stdout
func writeOutput(cmd *cobra.Command, data []byte) error {
	outFile, _ := cmd.Flags().GetString("output")
	if outFile == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}
	log.Infof("report written to %s", outFile)
	return nil
}

// renderReport formats report with the --format formatter
func renderReport(cmd *cobra.Command, report *output.Report) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported output format %q (choose from %s)", format, strings.Join(output.FormatterNames(), ", "))
	}
	if outFile, _ := cmd.Flags().GetString("output"); f.Name() == "pdf" && outFile == "" {
		return fmt.Errorf("pdf output requires --output")
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lktax %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "lktax",
	Short: "Sri Lanka income tax calculator",
	Long: `Calculates Sri Lankan income tax for employment, business, rental, investment
and other income using the bracket tables for each year of assessment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("rates", "", "Rate table file overlaying the built-in tables (env "+config.EnvRatesFile+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error, off (env "+config.EnvLogLevel+")")
	rootCmd.PersistentFlags().String("env-file", "", "Read settings from this .env file (default .env if present)")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
