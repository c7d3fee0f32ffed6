package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chmouel/go-html-test-report/internal/badge"
	"github.com/chmouel/go-html-test-report/internal/config"
	"github.com/chmouel/go-html-test-report/internal/generator"
	"github.com/chmouel/go-html-test-report/internal/logging"
	"github.com/chmouel/go-html-test-report/internal/model"
	"github.com/chmouel/go-html-test-report/internal/parser"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: exitUsage, err: err} }

type rootFlags struct {
	input      string
	output     string
	title      string
	badgePath  string
	jsonPath   string
	configPath string
	open       bool
	quiet      bool
	verbose    bool
	debug      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr, time.Now)
	cmd.SetArgs(args)
	return execute(cmd, stderr)
}

// execute runs cmd and maps its error to an exit code.
func execute(cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return exitRuntime
	}
	return exitOK
}

func newRootCmd(stdout, stderr io.Writer, now func() time.Time) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "test-report",
		Short: "Render a static HTML report from a plain-text test results file",
		Long: `test-report reads "<test name> : <status>" lines and writes a single
self-contained HTML page with pass/fail counts, percentages, charts and the
list of passed and failed tests.

A status of "pass" (any case) counts as passed; anything else counts as failed.
Malformed lines are skipped with a warning.

Examples:
  # Use weekly_regression.txt and write test_report.html
  test-report

  # Custom input and output, plus a pass-rate badge
  test-report -i results.txt -o report.html --badge badge.svg`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags, stdout, stderr, now)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	f := cmd.Flags()
	f.StringVarP(&flags.input, "input", "i", config.DefaultInput, "test results file")
	f.StringVarP(&flags.output, "output", "o", config.DefaultOutput, "output HTML file (- for stdout)")
	f.StringVar(&flags.title, "title", generator.DefaultTitle, "report title")
	f.StringVar(&flags.badgePath, "badge", "", "also write an SVG pass-rate badge to this path (- for stdout)")
	f.StringVar(&flags.jsonPath, "json", "", "also write the summary as JSON to this path (- for stdout)")
	f.StringVarP(&flags.configPath, "config", "c", "", "config file (default "+config.DefaultPath+", env: "+config.EnvPath+")")
	f.BoolVar(&flags.open, "open", false, "open the report in a browser")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "do not print the summary table")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	f.BoolVar(&flags.debug, "debug", false, "enable debug output")

	cmd.AddCommand(versionCmd())

	return cmd
}

func runReport(cmd *cobra.Command, flags rootFlags, stdout, stderr io.Writer, now func() time.Time) error {
	logger := logging.New(stderr, flags.verbose, flags.debug)

	cfgPath, explicit := config.ResolvePath(flags.configPath)
	cfg, err := config.Load(cfgPath, explicit)
	if err != nil {
		return usageError(err)
	}
	applyFlags(cmd, cfg, flags)
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}
	if stdoutWriters(cfg) > 1 {
		return usageError(errors.New("only one of the report, badge and JSON summary can be written to stdout"))
	}
	logger.Debug("configuration resolved",
		slog.String("config", cfgPath),
		slog.String("input", cfg.Input),
		slog.String("output", cfg.Output))

	res, err := parser.ParseFile(cfg.Input, logger)
	if err != nil {
		if errors.Is(err, parser.ErrInputNotFound) {
			fmt.Fprintf(stderr, "Error: File '%s' not found.\n", cfg.Input)
			return nil
		}
		return err
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(stderr, "No valid test results found in the file.")
		return nil
	}

	summary := model.Summarize(res.Results)
	generatedAt := now()
	logger.Info("parsed test results",
		slog.Int("total", summary.Total),
		slog.Int("passed", summary.Passed),
		slog.Int("failed", summary.Failed),
		slog.Int("skipped_lines", len(res.Malformed)))

	opts := generator.Options{
		Title:     cfg.Title,
		Footer:    cfg.Footer,
		Resources: cfg.Resources,
		Stdout:    stdout,
	}
	if err := generator.Generate(summary, generatedAt, cfg.Output, opts); err != nil {
		return fmt.Errorf("generating report: %w", err)
	}

	if cfg.Badge != "" {
		if err := writeBadge(cfg, summary, stdout); err != nil {
			return err
		}
		logger.Info("badge written", slog.String("path", cfg.Badge))
	}

	if cfg.JSON != "" {
		if err := generator.GenerateJSON(summary, generatedAt, cfg.JSON, stdout); err != nil {
			return fmt.Errorf("generating JSON summary: %w", err)
		}
		logger.Info("JSON summary written", slog.String("path", cfg.JSON))
	}

	if toStdout(cfg.Output) {
		return nil
	}

	absPath, err := filepath.Abs(cfg.Output)
	if err != nil {
		absPath = cfg.Output
	}
	// The badge or JSON summary owns stdout when written there.
	out := stdout
	if stdoutWriters(cfg) > 0 {
		out = stderr
	}
	fmt.Fprintf(out, "HTML report generated successfully: %s\n", absPath)
	if !flags.quiet {
		if err := printSummary(out, summary); err != nil {
			logger.Warn("failed to print summary", slog.String("error", err.Error()))
		}
	}

	if cfg.Open {
		openBrowser(absPath)
	}
	return nil
}

// applyFlags overrides cfg with the flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags rootFlags) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Input = flags.input
	}
	if f.Changed("output") {
		cfg.Output = flags.output
	}
	if f.Changed("title") {
		cfg.Title = flags.title
	}
	if f.Changed("badge") {
		cfg.Badge = flags.badgePath
	}
	if f.Changed("json") {
		cfg.JSON = flags.jsonPath
	}
	if f.Changed("open") {
		cfg.Open = flags.open
	}
}

func writeBadge(cfg *config.Config, summary model.Summary, stdout io.Writer) error {
	if cfg.Badge == "-" {
		return badge.Write(stdout, summary.PassPercent, cfg.BadgeThresholds)
	}
	if err := badge.GenerateBadge(summary.PassPercent, cfg.Badge, cfg.BadgeThresholds); err != nil {
		return fmt.Errorf("generating badge: %w", err)
	}
	return nil
}

func toStdout(path string) bool {
	return path == "" || path == "-"
}

// stdoutWriters counts the outputs that target stdout.
func stdoutWriters(cfg *config.Config) int {
	n := 0
	if toStdout(cfg.Output) {
		n++
	}
	if cfg.Badge == "-" {
		n++
	}
	if cfg.JSON == "-" {
		n++
	}
	return n
}

// printSummary writes the counts as a table.
func printSummary(w io.Writer, s model.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Append([]string{"Result", "Count", "Percent"})
	table.Append([]string{"Total", fmt.Sprintf("%d", s.Total), ""})
	table.Append([]string{"Passed", fmt.Sprintf("%d", s.Passed), fmt.Sprintf("%.1f%%", s.PassPercent)})
	table.Append([]string{"Failed", fmt.Sprintf("%d", s.Failed), fmt.Sprintf("%.1f%%", s.FailPercent)})
	return table.Render()
}

func openBrowser(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return
	}
	_ = cmd.Start()
}
