package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kj114022/abyss/internal/bundle"
	"github.com/kj114022/abyss/internal/clipboard"
	"github.com/kj114022/abyss/internal/config"
	"github.com/kj114022/abyss/internal/gitstats"
	"github.com/kj114022/abyss/internal/impact"
	"github.com/kj114022/abyss/internal/mermaid"
	"github.com/kj114022/abyss/internal/pipeline"
	"github.com/kj114022/abyss/internal/tui"
	"github.com/kj114022/abyss/internal/watch"
)

// scanFlags holds every flag the scan command recognizes, mirroring
// the configuration options table plus the CLI-only surface (§6).
type scanFlags struct {
	output          string
	ignore          []string
	include         []string
	maxFileSize     int64
	maxDepth        int
	compressionLvl  string
	redact          bool
	maxTokens       int
	splitTokens     int
	format          string
	graph           bool
	diff            string
	bundleArchive   bool
	bundleOutput    string
	configPath      string
	prompt          string
	tui             bool
	dryRun          bool
	query           string
	showImpact      bool
	tier            string
	watchMode       bool
	watchDebounce   time.Duration
	preset          string
	clipboardOut    bool
	noTokens        bool
}

// NewScanCommand builds the `abyss scan` command: the single entry
// point that drives a full run of the context compilation pipeline.
func NewScanCommand(verbose, quiet *bool) *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Compile a repository into a single context artifact",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			configureLogging(*verbose, *quiet)

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			return runScan(root, flags)
		},
	}

	bindScanFlags(cmd, flags)

	return cmd
}

func bindScanFlags(cmd *cobra.Command, f *scanFlags) {
	fs := cmd.Flags()

	fs.StringVarP(&f.output, "output", "o", "abyss.xml", "output file path")
	fs.StringSliceVar(&f.ignore, "ignore", nil, "additional ignore globs")
	fs.StringSliceVar(&f.include, "include", nil, "include globs (if set, only matches are kept)")
	fs.Int64Var(&f.maxFileSize, "max-file-size", 0, "max file size in bytes (0 = config default)")
	fs.IntVar(&f.maxDepth, "max-depth", -1, "max directory depth (-1 = config default)")
	fs.StringVar(&f.compressionLvl, "compression-level", "", "none|light|standard|aggressive")
	fs.BoolVar(&f.redact, "redact", false, "redact secrets/PII before compression")
	fs.IntVar(&f.maxTokens, "max-tokens", 0, "token budget (0 = unconstrained)")
	fs.IntVar(&f.splitTokens, "split-tokens", 0, "rotate output after N tokens (0 = never)")
	fs.StringVar(&f.format, "format", "", "xml|json|markdown|plain")
	fs.BoolVar(&f.graph, "graph", false, "include a Mermaid dependency diagram in the header")
	fs.StringVar(&f.diff, "diff", "", "restrict to files changed vs this git reference")
	fs.BoolVar(&f.bundleArchive, "bundle", false, "also emit a portable bundle archive")
	fs.StringVar(&f.bundleOutput, "bundle-output", "abyss-bundle.json", "bundle archive path (.json or .tar.gz)")
	fs.StringVar(&f.configPath, "config", "", "explicit abyss.toml path")
	fs.StringVar(&f.prompt, "prompt", "", "instruction text echoed in the output header")
	fs.BoolVar(&f.tui, "tui", false, "interactively select files before emitting")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print a pre-flight estimate and exit")
	fs.StringVar(&f.query, "query", "", "rank by keyword match against filename and content")
	fs.BoolVar(&f.showImpact, "show-impact", false, "compute the blast radius of --diff's changed files")
	fs.StringVar(&f.tier, "tier", "", "summary|detailed|full compression/budget preset")
	fs.BoolVar(&f.watchMode, "watch", false, "re-run on file change")
	fs.DurationVar(&f.watchDebounce, "watch-debounce", watch.DefaultDebounce, "watch debounce window")
	fs.StringVar(&f.preset, "preset", "", "model token budget preset: 128k|200k|1m")
	fs.BoolVar(&f.clipboardOut, "clipboard", false, "copy the output to the system clipboard")
	fs.BoolVar(&f.noTokens, "no-tokens", false, "skip the accurate tokenizer pass (fast estimate only)")
}

func configureLogging(verbose, quiet bool) {
	level := slog.LevelInfo

	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// runScan loads configuration, overlays flags, and dispatches to the
// dry-run, show-impact, or normal-run path.
func runScan(root string, f *scanFlags) error {
	cfg, err := loadScanConfig(f)
	if err != nil {
		return usageError("load config: %w", err)
	}

	if f.showImpact {
		return runShowImpact(root, cfg)
	}

	opts := pipeline.Options{
		Root:       root,
		OutputPath: f.output,
		Prompt:     f.prompt,
		Query:      f.query,
		NoTokens:   f.noTokens || f.dryRun,
	}

	if f.watchMode {
		return runWatch(root, cfg, opts, f)
	}

	return runOnce(root, cfg, opts, f)
}

func runOnce(root string, cfg *config.Config, opts pipeline.Options, f *scanFlags) error {
	ctx := context.Background()

	if f.dryRun {
		return runDryRun(ctx, cfg, opts)
	}

	d, err := pipeline.Discover(ctx, cfg, opts)
	if err != nil {
		return ioError(fmt.Errorf("scan %s: %w", root, err))
	}

	if f.tui {
		selected, tuiErr := tui.Select(d.Select.Admitted)
		if tuiErr != nil {
			return ioError(tuiErr)
		}

		d.Select.Admitted = selected
	}

	result, err := pipeline.Emit(ctx, cfg, opts, d)
	if err != nil {
		return ioError(err)
	}

	if f.bundleArchive {
		if err := writeBundle(f, cfg, d, result); err != nil {
			return ioError(err)
		}
	}

	if f.clipboardOut {
		if err := copyToClipboard(result.OutputPaths); err != nil {
			slog.Warn("clipboard copy failed", "error", err)
		}
	}

	fmt.Printf(
		"abyss: wrote %s (%d files, %s tokens)\n",
		strings.Join(result.OutputPaths, ", "),
		len(result.Admitted),
		humanize.Comma(int64(result.TotalTokens)),
	)

	return nil
}

func runDryRun(ctx context.Context, cfg *config.Config, opts pipeline.Options) error {
	d, err := pipeline.Discover(ctx, cfg, opts)
	if err != nil {
		return ioError(err)
	}

	estTokens := 0
	for _, file := range d.Select.Admitted {
		estTokens += file.Tokens
	}

	fmt.Printf("abyss dry-run: %s\n", opts.Root)
	fmt.Printf("  candidates admitted: %d\n", len(d.Select.Admitted))
	fmt.Printf("  candidates dropped:  %d\n", len(d.Select.Dropped))
	fmt.Printf("  estimated tokens:    %s\n", humanize.Comma(int64(estTokens)))

	if cfg.MaxTokens > 0 {
		fmt.Printf("  token budget:        %s\n", humanize.Comma(int64(cfg.MaxTokens)))
	}

	return nil
}

func runShowImpact(root string, cfg *config.Config) error {
	if cfg.Diff == "" {
		return usageError("--show-impact requires --diff <ref>")
	}

	ctx := context.Background()

	d, err := pipeline.Discover(ctx, cfg, pipeline.Options{Root: root})
	if err != nil {
		return ioError(err)
	}

	changed, err := gitstats.DiffFiles(d.AllRoot, cfg.Diff)
	if err != nil {
		return ioError(err)
	}

	report := impact.Compute(d.Graph, changed)

	fmt.Printf("abyss impact report vs %s\n", cfg.Diff)
	fmt.Printf("  changed files:    %d\n", len(report.Changed))
	fmt.Printf("  blast radius:     %d / %d nodes (%.1f%%)\n", len(report.BlastRadius), report.TotalNodes, report.AffectedRatio*100)
	fmt.Printf("  risk grade:       %s\n", report.Grade)

	return nil
}

func runWatch(root string, cfg *config.Config, opts pipeline.Options, f *scanFlags) error {
	run := func() {
		if err := runOnce(root, cfg, opts, f); err != nil {
			slog.Error("watch run failed", "error", err)
		}
	}

	run()

	stop := make(chan struct{})

	return watch.Run(root, f.watchDebounce, run, stop)
}

// loadScanConfig loads abyss.toml/env/defaults via viper and overlays
// any flag the operator actually set, so an unset flag never clobbers
// a config-file value.
func loadScanConfig(f *scanFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	if len(f.ignore) > 0 {
		cfg.IgnorePatterns = append(cfg.IgnorePatterns, f.ignore...)
	}

	if len(f.include) > 0 {
		cfg.IncludePatterns = f.include
	}

	if f.maxFileSize > 0 {
		cfg.MaxFileSize = f.maxFileSize
	}

	if f.maxDepth >= 0 {
		cfg.MaxDepth = f.maxDepth
	}

	if f.compressionLvl != "" {
		cfg.CompressionLevel = f.compressionLvl
	}

	if f.redact {
		cfg.Redact = true
	}

	if f.maxTokens > 0 {
		cfg.MaxTokens = f.maxTokens
	}

	applyPreset(cfg, f.preset)

	if f.splitTokens > 0 {
		cfg.SplitTokens = f.splitTokens
	}

	if f.format != "" {
		cfg.OutputFormat = f.format
	}

	if f.graph {
		cfg.Graph = true
	}

	if f.diff != "" {
		cfg.Diff = f.diff
	}

	if f.bundleArchive {
		cfg.Bundle = true
	}

	if f.tier != "" {
		tier, ok := config.ParseTier(f.tier)
		if !ok {
			return nil, fmt.Errorf("unrecognized tier %q", f.tier)
		}

		tier.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyPreset sets MaxTokens from a named model preset, unless the
// operator already gave an explicit --max-tokens.
func applyPreset(cfg *config.Config, preset string) {
	if preset == "" || cfg.MaxTokens > 0 {
		return
	}

	switch preset {
	case "128k":
		cfg.MaxTokens = config.PresetTokens128K
	case "200k":
		cfg.MaxTokens = config.PresetTokens200K
	case "1m":
		cfg.MaxTokens = config.PresetTokens1M
	}
}

func writeBundle(f *scanFlags, cfg *config.Config, d *pipeline.Discovery, result *pipeline.Result) error {
	root := pipeline.CommonRoot(result.Admitted)

	var diagram string
	if cfg.Graph {
		diagram = mermaid.Render(d.Graph, root)
	}

	head, _ := gitstats.Head(d.AllRoot)

	meta := bundle.Metadata{
		FormatVersion: bundle.FormatVersion,
		Timestamp:     time.Now().UTC(),
		GitCommit:     head.Commit,
		GitBranch:     head.Branch,
		FileCount:     len(result.Admitted),
		TokenEstimate: result.TotalTokens,
		Compression:   cfg.CompressionLevel,
		Query:         f.query,
	}

	return bundle.Write(f.bundleOutput, bundle.Input{
		Meta:  meta,
		Files: result.Admitted,
		Root:  root,
		Graph: diagram,
	})
}

func copyToClipboard(outputPaths []string) error {
	if len(outputPaths) == 0 {
		return nil
	}

	content, err := os.ReadFile(outputPaths[0])
	if err != nil {
		return fmt.Errorf("read output for clipboard: %w", err)
	}

	return clipboard.Write(string(content))
}
