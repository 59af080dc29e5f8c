package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"annocheck/internal/diag"
	"annocheck/internal/diagfmt"
	"annocheck/internal/driver"
	"annocheck/internal/emit"
	"annocheck/internal/options"
	"annocheck/internal/version"
)

// errDiagnostics marks a run that printed error diagnostics. It carries no
// message: the diagnostics are the report.
var errDiagnostics = errors.New("")

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.java|directory>...",
	Short: "Validate annotations in Java sources",
	Long: `Check parses the given Java files (or every *.java file under the given
directories), validates annotation usage and reports the problems that
survive @SuppressWarnings`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	checkCmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	checkCmd.Flags().String("config", "", "path to "+options.FileName+" (default: search upwards from the first input)")
	checkCmd.Flags().StringArrayP("option", "O", nil, "override a problem severity: key=ignore|info|warning|error")
	checkCmd.Flags().String("compliance", "", "source level (1.5 .. 1.8, 9, 11, ...)")
	checkCmd.Flags().Bool("no-suppress", false, "ignore @SuppressWarnings")
	checkCmd.Flags().Bool("suppress-optional-errors", false, "let @SuppressWarnings silence configurable errors")
	checkCmd.Flags().Bool("warnings-as-errors", false, "report every enabled configurable problem as an error")
	checkCmd.Flags().Bool("no-warnings", false, "drop warnings and infos from the output")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Uint("max-syntax-errors", 0, "max syntax errors reported per file (0=unlimited)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().String("emit", "", "write retained annotation payloads to this file (msgpack)")
}

// checkFlags holds the parsed flags of one check invocation.
type checkFlags struct {
	format          string
	pathMode        diagfmt.PathMode
	withNotes       bool
	suggest         bool
	emitPath        string
	quiet           bool
	showTimings     bool
	maxDiagnostics  int
	noWarnings      bool
	jobs            int
	maxSyntaxErrors uint
	ui              uiMode
}

// runCheck executes the "check" command: it loads the configuration, runs
// the driver over the inputs, prints the diagnostics in the chosen format
// and fails when any error diagnostic remains.
func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	compiler, err := loadCompilerOptions(cmd, args[0])
	if err != nil {
		return err
	}

	opts := driver.Options{
		Compiler:        &compiler,
		MaxDiagnostics:  flags.maxDiagnostics,
		MaxSyntaxErrors: flags.maxSyntaxErrors,
		Jobs:            flags.jobs,
		IgnoreWarnings:  flags.noWarnings,
		EnableTimings:   flags.showTimings,
	}
	if wd, wdErr := os.Getwd(); wdErr == nil {
		opts.BaseDir = wd
	}

	files, err := driver.ListInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .java files found in %s", strings.Join(args, ", "))
	}

	var result *driver.Result
	if shouldUseTUI(flags.ui, flags.quiet, len(files)) {
		result, err = runCheckWithUI(cmd.Context(), "annocheck", args, files, opts)
	} else {
		result, err = driver.Check(cmd.Context(), args, opts)
	}
	if err != nil {
		flushTracing()
		return fmt.Errorf("check failed: %w", err)
	}

	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := writeDiagnostics(out, result, flags, colored, os.Args[1:]); err != nil {
		return err
	}

	if flags.emitPath != "" {
		if err := emit.WriteFile(flags.emitPath, result.Payloads); err != nil {
			return fmt.Errorf("failed to write %s: %w", flags.emitPath, err)
		}
	}

	errOut := cmd.ErrOrStderr()
	if !flags.quiet && flags.format == "pretty" {
		printSummary(errOut, result)
	}
	if flags.showTimings && result.Timing != nil {
		printTimings(errOut, result.Timing)
	}

	if result.Bag.HasErrors() {
		flushTracing()
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var (
		f   checkFlags
		err error
	)
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "json", "sarif", "short":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}

	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if f.pathMode, err = diagfmt.ParsePathMode(pathModeStr); err != nil {
		return f, err
	}

	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.emitPath, err = cmd.Flags().GetString("emit"); err != nil {
		return f, fmt.Errorf("failed to get emit flag: %w", err)
	}
	if f.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.maxSyntaxErrors, err = cmd.Flags().GetUint("max-syntax-errors"); err != nil {
		return f, fmt.Errorf("failed to get max-syntax-errors flag: %w", err)
	}

	root := cmd.Root().PersistentFlags()
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.showTimings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiStr, err := root.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	return f, nil
}

// loadCompilerOptions reads annocheck.toml (explicit or found upwards from
// firstInput) and applies the command-line overrides on top.
func loadCompilerOptions(cmd *cobra.Command, firstInput string) (options.Options, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return options.Options{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		found, ok, findErr := options.Find(firstInput)
		if findErr != nil {
			return options.Options{}, findErr
		}
		if ok {
			configPath = found
		}
	}

	compiler := options.Default()
	if configPath != "" {
		if compiler, err = options.Load(configPath); err != nil {
			return options.Options{}, err
		}
	}

	assignments, err := cmd.Flags().GetStringArray("option")
	if err != nil {
		return options.Options{}, fmt.Errorf("failed to get option flag: %w", err)
	}
	compliance, err := cmd.Flags().GetString("compliance")
	if err != nil {
		return options.Options{}, fmt.Errorf("failed to get compliance flag: %w", err)
	}
	noSuppress, err := cmd.Flags().GetBool("no-suppress")
	if err != nil {
		return options.Options{}, fmt.Errorf("failed to get no-suppress flag: %w", err)
	}
	suppressOptional, err := cmd.Flags().GetBool("suppress-optional-errors")
	if err != nil {
		return options.Options{}, fmt.Errorf("failed to get suppress-optional-errors flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return options.Options{}, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	err = applyOverrides(&compiler, overrides{
		assignments:            assignments,
		compliance:             compliance,
		noSuppress:             noSuppress,
		suppressOptionalErrors: suppressOptional,
		warningsAsErrors:       warningsAsErrors,
	})
	return compiler, err
}

type overrides struct {
	assignments            []string
	compliance             string
	noSuppress             bool
	suppressOptionalErrors bool
	warningsAsErrors       bool
}

func applyOverrides(o *options.Options, ov overrides) error {
	for _, a := range ov.assignments {
		if err := o.ParseAssignment(a); err != nil {
			return fmt.Errorf("-O %s: %w", a, err)
		}
	}
	if ov.compliance != "" {
		level, err := options.ParseCompliance(ov.compliance)
		if err != nil {
			return err
		}
		o.Compliance = level
	}
	if ov.noSuppress {
		o.SuppressWarnings = false
	}
	if ov.suppressOptionalErrors {
		o.SuppressOptionalErrors = true
	}
	if ov.warningsAsErrors {
		o.FatalOptionalError = true
	}
	return nil
}

func writeDiagnostics(w io.Writer, result *driver.Result, f checkFlags, colored bool, invocation []string) error {
	switch f.format {
	case "pretty":
		diagfmt.Pretty(w, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   1,
			PathMode:  f.pathMode,
			ShowNotes: f.withNotes,
			ShowFixes: f.suggest,
		})
	case "short":
		output := diag.FormatShortDiagnostics(result.Bag.Items(), result.FileSet, f.withNotes)
		if output != "" {
			fmt.Fprintln(w, output)
		}
	case "json":
		err := diagfmt.JSON(w, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         f.pathMode,
			IncludeNotes:     f.withNotes,
			IncludeFixes:     f.suggest,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		err := diagfmt.Sarif(w, result.Bag, result.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "annocheck",
			ToolVersion:    version.Version,
			InvocationArgs: invocation,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", f.format)
	}
	return nil
}

// printSummary prints "N errors, M warnings in K files".
func printSummary(w io.Writer, result *driver.Result) {
	errs := result.Bag.Count(diag.SevError)
	warns := result.Bag.Count(diag.SevWarning)
	infos := result.Bag.Count(diag.SevInfo)
	if errs+warns+infos == 0 {
		return
	}
	line := fmt.Sprintf("%s, %s", plural(errs, "error"), plural(warns, "warning"))
	if infos > 0 {
		line += ", " + plural(infos, "info")
	}
	line += " in " + plural(len(result.Units), "file")
	if result.Dropped > 0 {
		line += fmt.Sprintf(" (%d more not shown)", result.Dropped)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
