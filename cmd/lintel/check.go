package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"lintel/internal/changes"
	"lintel/internal/config"
	"lintel/internal/diag"
	"lintel/internal/diagfmt"
	"lintel/internal/driver"
	"lintel/internal/lang"
	"lintel/internal/lang/csharp"
	"lintel/internal/lang/golang"
	"lintel/internal/lint"
	"lintel/internal/observ"
	"lintel/internal/rules"
	"lintel/internal/source"
	"lintel/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory...]",
	Short: "Analyze Go and C# sources",
	Long: `Analyze the given files and directories (default: the current directory)
with the configured rules and print their findings`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Int("jobs", -1, "max files analyzed in parallel (0=auto, -1=from config)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse results of unchanged files from the user cache directory")
	checkCmd.Flags().Bool("include-generated", false, "run every rule on generated code")
	checkCmd.Flags().String("ui", "auto", "progress UI on stderr (auto|on|off)")
	checkCmd.Flags().String("path-mode", "auto", "paths in output (auto|relative|absolute|basename)")
	checkCmd.Flags().Int("context", 1, "source lines shown around each finding (pretty only)")
	checkCmd.Flags().Bool("show-internal", false, "include engine diagnostics (LINT*) in output")
	checkCmd.Flags().String("diff", "", "only report findings on lines added by this unified diff (- for stdin)")
	checkCmd.Flags().Bool("sort", false, "order findings of each file by location instead of rule dispatch order")
}

type checkSettings struct {
	format           string
	warningsAsErrors bool
	jobs             int
	maxDiagnostics   int
	diskCache        bool
	includeGenerated bool
	ui               uiMode
	pathMode         diagfmt.PathMode
	context          int
	showInternal     bool
	diffPath         string
	sort             bool
	quiet            bool
	timings          bool
	configPath       string
}

func readCheckFlags(cmd *cobra.Command) (checkSettings, error) {
	var s checkSettings
	var err error
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if s.format, err = flags.GetString("format"); err != nil {
		return s, fmt.Errorf("failed to get format flag: %w", err)
	}
	s.format = strings.ToLower(s.format)
	switch s.format {
	case "pretty", "json", "sarif", "short":
	default:
		return s, fmt.Errorf("unknown format %q (expected pretty|json|sarif|short)", s.format)
	}
	if s.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return s, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if s.diskCache, err = flags.GetBool("disk-cache"); err != nil {
		return s, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if s.includeGenerated, err = flags.GetBool("include-generated"); err != nil {
		return s, fmt.Errorf("failed to get include-generated flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return s, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if s.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return s, fmt.Errorf("invalid --path-mode value %q (expected auto|relative|absolute|basename)", pathMode)
	}
	if s.context, err = flags.GetInt("context"); err != nil {
		return s, fmt.Errorf("failed to get context flag: %w", err)
	}
	if s.showInternal, err = flags.GetBool("show-internal"); err != nil {
		return s, fmt.Errorf("failed to get show-internal flag: %w", err)
	}
	if s.diffPath, err = flags.GetString("diff"); err != nil {
		return s, fmt.Errorf("failed to get diff flag: %w", err)
	}
	if s.sort, err = flags.GetBool("sort"); err != nil {
		return s, fmt.Errorf("failed to get sort flag: %w", err)
	}

	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.configPath, err = root.GetString("config"); err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	return s, nil
}

// apply lets explicit flags override the configuration.
func (s checkSettings) apply(cfg *config.Config) {
	if s.jobs >= 0 {
		cfg.Analysis.Jobs = s.jobs
	}
	if s.maxDiagnostics >= 0 {
		cfg.Analysis.MaxDiagnostics = s.maxDiagnostics
	}
	if s.includeGenerated {
		cfg.Analysis.IncludeGenerated = true
	}
}

// runCheck executes the "check" command: it loads the configuration,
// builds the session, analyzes the collected files and renders the result.
// Findings are reported through the exit code, never as an error.
func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	settings, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	colorOn, err := applyColor(cmd)
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(settings.configPath, cwd)
	if err != nil {
		return err
	}
	settings.apply(cfg)

	changed, err := readChanges(cmd.InOrStdin(), settings.diffPath)
	if err != nil {
		return err
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	session, err := newSession(cfg, reg)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := driver.Collect(paths, reg, cfg.Analysis.Exclude, cfg.Root)
	if err != nil {
		return err
	}

	fingerprint, err := cfg.Fingerprint()
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	var cache *driver.DiskCache
	if settings.diskCache {
		cache, err = driver.OpenDiskCache("lintel")
		if err != nil && !settings.quiet {
			fmt.Fprintf(stderr, "lintel: disk cache disabled: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	req := driver.Request{
		Files:          files,
		Registry:       reg,
		Session:        session,
		Jobs:           cfg.Analysis.Jobs,
		MaxDiagnostics: cfg.Analysis.MaxDiagnostics,
		BaseDir:        cwd,
		Cache:          cache,
		Fingerprint:    fingerprint,
		ToolVersion:    version.String(),
		Sort:           settings.sort,
	}
	res, err := analyze(ctx, req, !settings.quiet && len(files) > 0 && shouldUseTUI(settings.ui, settings.format))
	if err != nil {
		return err
	}

	reportSetupErrors(stderr, res.SetupErrors)
	diags := res.Diagnostics()
	if changed != nil {
		diags = changed.Filter(cwd, diags)
	}
	if err := render(cmd.OutOrStdout(), diags, res.FileSet, session, settings, colorOn); err != nil {
		return err
	}
	if !settings.quiet {
		if n := res.Dropped(); n > 0 {
			fmt.Fprintf(stderr, "lintel: %d diagnostics dropped by the per-file limit\n", n)
		}
		if n := countInternal(diags); n > 0 && !settings.showInternal {
			fmt.Fprintf(stderr, "lintel: %d engine diagnostics hidden (use --show-internal)\n", n)
		}
	}
	if settings.timings {
		printTimings(stderr, res)
	}

	if code := exitCode(diags, res.SetupErrors, settings.warningsAsErrors); code != exitClean {
		return &exitError{code: code}
	}
	return nil
}

func loadConfig(path, cwd string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, _, err = config.Discover(cwd)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		cfg.Root = cwd
	}
	lookup, err := cfg.EnvLookup()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRegistry() (*lang.Registry, error) {
	return lang.NewRegistry(golang.New(), csharp.New())
}

func newSession(cfg *config.Config, reg *lang.Registry) (*lint.Session, error) {
	ruleCfg, err := cfg.RuleOptions()
	if err != nil {
		return nil, err
	}
	return lint.NewSession(lint.Options{
		Registry:         reg,
		Rules:            ruleCfg,
		IncludeGenerated: cfg.Analysis.IncludeGenerated,
		Suppressors:      []diag.Suppressor{diag.LineSuppressor{}},
	}, rules.Default()...)
}

func analyze(ctx context.Context, req driver.Request, withUI bool) (*driver.Result, error) {
	if withUI {
		return runAnalyzeWithUI(ctx, "lintel check", req)
	}
	return driver.Analyze(ctx, req)
}

func render(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, session *lint.Session, s checkSettings, colorOn bool) error {
	switch s.format {
	case "json":
		return diagfmt.JSON(w, diags, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeInternal:  s.showInternal,
		})
	case "sarif":
		return diagfmt.Sarif(w, diags, fs, diagfmt.SarifRunMeta{
			ToolName:       "lintel",
			ToolVersion:    version.String(),
			InvocationArgs: os.Args,
			Rules:          session.Descriptors(),
		})
	case "short":
		return diagfmt.Short(w, diags, s.showInternal)
	default:
		return diagfmt.Pretty(w, diags, fs, diagfmt.PrettyOpts{
			Color:        colorOn,
			Context:      s.context,
			PathMode:     s.pathMode,
			ShowInternal: s.showInternal,
		})
	}
}

func reportSetupErrors(w io.Writer, errs []*lint.EngineError) {
	for _, e := range errs {
		fmt.Fprintf(w, "lintel: %v\n", e)
	}
}

func countInternal(diags []diag.Diagnostic) int {
	n := 0
	for i := range diags {
		if diags[i].Internal {
			n++
		}
	}
	return n
}

// exitCode maps the reported diagnostics onto the process exit status.
// Engine problems win over findings.
func exitCode(diags []diag.Diagnostic, setup []*lint.EngineError, warningsAsErrors bool) int {
	if len(setup) > 0 || countInternal(diags) > 0 {
		return exitFailure
	}
	code := exitClean
	for i := range diags {
		switch {
		case diags[i].Severity >= diag.SevError:
			return exitFindings
		case diags[i].Severity == diag.SevWarning && warningsAsErrors:
			code = exitFindings
		}
	}
	return code
}

// readChanges loads the --diff argument; nil means no filtering.
func readChanges(stdin io.Reader, path string) (*changes.Set, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return changes.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open diff: %w", err)
	}
	defer f.Close()
	return changes.Parse(f)
}

func printTimings(w io.Writer, res *driver.Result) {
	fmt.Fprint(w, res.Timing.Summary("analysis"))
	perFile := make([]observ.Report, 0, len(res.Files))
	cached := 0
	for i := range res.Files {
		if res.Files[i].Cached {
			cached++
			continue
		}
		perFile = append(perFile, res.Files[i].Timing)
	}
	if len(perFile) > 0 {
		fmt.Fprint(w, observ.Merge(perFile...).Summary(fmt.Sprintf("per file (%d analyzed, %d cached)", len(perFile), cached)))
	}
}
