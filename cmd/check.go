package cmd

import (
	"context"
	"log/slog"
	"os"

	version "github.com/hashicorp/go-version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nsxbet/upgrade-checker/pkg/analyzer"
	"github.com/nsxbet/upgrade-checker/pkg/logger"
	"github.com/nsxbet/upgrade-checker/pkg/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file>...",
	Short: "Check export files for upgrade compatibility problems",
	Long: `Check the given export files for upgrade compatibility problems.

Files are classified by name: .sql files receive schema, query and data
scans; .cnf, .ini and extensionless files are treated as server option
files; .tsv and .txt files get a line-level data scan; files with "@." in
the name are read as export metadata. Progress markers (@.done.json,
load-progress*) are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("target-version", "t", analyzer.DefaultTargetVersion, "server version upgraded to")
	checkCmd.Flags().StringP("output", "o", "text", "output format (text, json, csv, report, sql)")
	checkCmd.Flags().StringP("rules", "r", "", "path to rules configuration file")
	checkCmd.Flags().Bool("fail-on-error", false, "exit with non-zero code if errors are found")
	checkCmd.Flags().Bool("fail-on-warning", false, "exit with non-zero code if warnings are found")

	_ = viper.BindPFlag("target-version", checkCmd.Flags().Lookup("target-version"))
	_ = viper.BindPFlag("output", checkCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("rules", checkCmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("fail-on-error", checkCmd.Flags().Lookup("fail-on-error"))
	_ = viper.BindPFlag("fail-on-warning", checkCmd.Flags().Lookup("fail-on-warning"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := newLogger()

	target, err := version.NewVersion(viper.GetString("target-version"))
	if err != nil {
		return errors.Wrapf(err, "invalid target version %q", viper.GetString("target-version"))
	}

	a := analyzer.New(
		analyzer.WithLogger(log),
		analyzer.WithTargetVersion(target),
	)
	if rulesPath := viper.GetString("rules"); rulesPath != "" {
		if err := a.WithConfigFile(rulesPath); err != nil {
			return err
		}
	}

	result, err := a.Analyze(context.Background(), args...)
	if err != nil {
		return err
	}

	if err := writeResult(result, viper.GetString("output")); err != nil {
		return err
	}

	if result.HasErrors() && viper.GetBool("fail-on-error") {
		os.Exit(1)
	}
	if result.HasWarnings() && viper.GetBool("fail-on-warning") {
		os.Exit(1)
	}
	return nil
}

func writeResult(result *analyzer.Result, format string) error {
	switch format {
	case "text":
		return report.Text(os.Stdout, result)
	case "json":
		return report.JSON(os.Stdout, result)
	case "csv":
		return report.CSV(os.Stdout, result)
	case "report":
		return report.Grouped(os.Stdout, result)
	case "sql":
		return report.FixScript(os.Stdout, result)
	default:
		return errors.Errorf("unsupported output format: %s", format)
	}
}

func newLogger() *logger.Logger {
	level := slog.LevelWarn
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	} else if viper.GetBool("verbose") {
		level = slog.LevelInfo
	}
	log := logger.NewWithLevel(level)
	slog.SetDefault(log.GetSlogLogger())
	return log
}
