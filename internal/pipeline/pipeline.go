// Package pipeline is the coordinator that wires the seven core stages
// (walker, analyzer, graph, ranker, selector, transformer, writer)
// plus the cache and git interface into one run. It owns the only
// view of the pipeline that needs to see every stage at once; every
// stage package itself stays stage-scoped and stateless across runs.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kj114022/abyss/internal/analyzer"
	"github.com/kj114022/abyss/internal/cache"
	"github.com/kj114022/abyss/internal/config"
	"github.com/kj114022/abyss/internal/events"
	"github.com/kj114022/abyss/internal/gitstats"
	"github.com/kj114022/abyss/internal/graph"
	"github.com/kj114022/abyss/internal/mermaid"
	"github.com/kj114022/abyss/internal/model"
	"github.com/kj114022/abyss/internal/query"
	"github.com/kj114022/abyss/internal/ranker"
	"github.com/kj114022/abyss/internal/selector"
	"github.com/kj114022/abyss/internal/transformer"
	"github.com/kj114022/abyss/internal/walker"
	"github.com/kj114022/abyss/internal/writer"
)

// Options configures a single coordinator run, beyond what already
// lives in *config.Config: the scan root (a path or a workspace
// descriptor), the output destination, and the optional keyword query
// and prompt text that shape ranking and the header respectively.
type Options struct {
	Root       string
	OutputPath string
	Prompt     string
	Query      string
	NoTokens   bool
	Events     events.Sink
}

// Result is everything a caller (CLI, TUI, --dry-run estimator) might
// want back from a completed run.
type Result struct {
	Admitted    []model.File
	Dropped     []string
	Graph       *graph.Graph
	Scores      map[string]model.Score
	TotalTokens int
	OutputPaths []string
}

// Discovery is the pipeline's state after walk/analyze/graph/rank/
// select but before transform/write: everything a caller needs to
// inspect or edit the admit set (--dry-run, --show-impact, --tui)
// before committing to the expensive transform-and-emit stages.
type Discovery struct {
	Files   []model.File
	Graph   *graph.Graph
	Scores  map[string]model.Score
	Select  selector.Result
	AllRoot string
}

// Discover runs every stage through the Selector: walk, analyze,
// build the dependency graph and PageRank, score (optionally boosted
// by a --query match), and select within cfg.MaxTokens.
func Discover(ctx context.Context, cfg *config.Config, opts Options) (*Discovery, error) {
	events.Send(opts.Events, events.Event{Kind: events.StartScanning})

	diff := diffFilter(cfg, opts.Root)

	found, err := walker.Walk(opts.Root, cfg, diff)
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	events.Send(opts.Events, events.Event{Kind: events.FilesFound, Count: len(found)})

	files := analyzer.Analyze(ctx, found, analyzer.Workers(), func(path string, analyzeErr error) {
		events.Send(opts.Events, events.Event{Kind: events.Error, Path: path, Message: analyzeErr.Error()})
	})

	files = dropBinary(files)

	churn := churnByRepo(files)

	g := graph.Build(files)
	pageRank := g.PageRank()

	scores := make(map[string]model.Score, len(files))

	qry := query.Parse(opts.Query)

	for _, f := range files {
		score := ranker.Score(f, churn[f.RepoRoot][f.Path], pageRank[f.Path])
		if qry.Active() {
			score.Heuristic += query.Score(f, qry)
		}

		scores[f.Path] = score
	}

	sel := selector.Select(files, scores, g, cfg.MaxTokens)

	for _, path := range sel.Dropped {
		events.Send(opts.Events, events.Event{Kind: events.Error, Path: path, Message: "dropped: over budget"})
	}

	return &Discovery{
		Files:   files,
		Graph:   g,
		Scores:  scores,
		Select:  sel,
		AllRoot: primaryRoot(files, opts.Root),
	}, nil
}

// Emit runs the transform and write stages over d.Select.Admitted
// (which a caller, e.g. the --tui selector, may have narrowed after
// Discover returned) and streams the result to opts.OutputPath.
func Emit(ctx context.Context, cfg *config.Config, opts Options, d *Discovery) (*Result, error) {
	repoCache := cache.Load(d.AllRoot)

	txCfg := *cfg
	txCfg.NoTokens = opts.NoTokens

	results := transformer.Transform(ctx, d.Select.Admitted, &txCfg, repoCache, transformer.Workers())

	repoCache.Save()

	summaries := make(map[string]string, len(results))
	for _, r := range results {
		if r.Summary != "" {
			summaries[r.File.Path] = r.Summary
		}
	}

	hdr := buildHeader(cfg, opts, d.Select, d.Graph, d.Files, summaries)

	w, err := writer.Open(writer.Options{
		Format:      cfg.Format(),
		OutputPath:  opts.OutputPath,
		SplitTokens: cfg.SplitTokens,
		Root:        CommonRoot(d.Select.Admitted),
		Header:      hdr,
	})
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}

	paths := make([]string, len(d.Select.Admitted))
	for i, f := range d.Select.Admitted {
		paths[i] = f.Path
	}

	if dirErr := w.WriteDirectoryStructure(paths); dirErr != nil {
		_ = w.Close(d.Select.Dropped)

		return nil, fmt.Errorf("write directory structure: %w", dirErr)
	}

	total := 0

	for _, r := range results {
		rec := writer.Record{
			Index:   r.Index,
			Path:    r.File.Path,
			Content: r.File.Content,
			Summary: r.Summary,
			Tokens:  r.File.Tokens,
		}

		if acceptErr := w.Accept(rec); acceptErr != nil {
			_ = w.Close(d.Select.Dropped)

			events.Send(opts.Events, events.Event{Kind: events.Error, Message: acceptErr.Error()})

			return nil, fmt.Errorf("write file %s: %w", rec.Path, acceptErr)
		}

		total += r.File.Tokens

		events.Send(opts.Events, events.Event{Kind: events.FileProcessed, Path: r.File.Path})
		events.Send(opts.Events, events.Event{Kind: events.TokenCountUpdate, Tokens: total})
	}

	if closeErr := w.Close(d.Select.Dropped); closeErr != nil {
		return nil, fmt.Errorf("close writer: %w", closeErr)
	}

	result := &Result{
		Admitted:    d.Select.Admitted,
		Dropped:     d.Select.Dropped,
		Graph:       d.Graph,
		Scores:      d.Scores,
		TotalTokens: total,
		OutputPaths: w.CreatedFiles(),
	}

	events.Send(opts.Events, events.Event{
		Kind: events.Complete,
		Summary: events.Summary{
			FilesAdmitted: len(d.Select.Admitted),
			FilesDropped:  len(d.Select.Dropped),
			TotalTokens:   total,
			OutputPaths:   result.OutputPaths,
		},
	})

	return result, nil
}

// Run executes the full pipeline: Discover then Emit, with no
// operator intervention in between. This is what a plain `abyss scan`
// invocation (no --tui) calls.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	d, err := Discover(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	return Emit(ctx, cfg, opts, d)
}

// diffFilter resolves cfg.Diff (if set) into a walker.DiffFilter: the
// set of absolute paths changed relative to the given reference. A
// workspace descriptor scan unions the diff set across every listed
// repository; a repository that isn't under git (or the reference
// doesn't resolve) simply contributes nothing, per §4.I.
func diffFilter(cfg *config.Config, root string) walker.DiffFilter {
	if cfg.Diff == "" {
		return nil
	}

	roots := []string{root}

	if config.LooksLikeWorkspace(root) {
		ws, err := config.LoadWorkspace(root)
		if err != nil {
			return nil
		}

		roots = roots[:0]
		for _, repo := range ws.Repositories {
			roots = append(roots, repo.Path)
		}
	}

	filter := make(walker.DiffFilter)

	for _, r := range roots {
		changed, err := gitstats.DiffFiles(r, cfg.Diff)
		if err != nil {
			continue
		}

		for path := range changed {
			filter[path] = struct{}{}
		}
	}

	return filter
}

// dropBinary removes files the analyzer flagged as binary from further
// pipeline stages; they were already excluded from import/entropy/token
// analysis but still appeared in the slice so callers could list them.
func dropBinary(files []model.File) []model.File {
	out := files[:0:0]

	for _, f := range files {
		if f.Binary {
			continue
		}

		out = append(out, f)
	}

	return out
}

// churnByRepo computes git churn once per distinct repository root
// among the analyzed files, since a workspace scan may merge several
// independent repositories.
func churnByRepo(files []model.File) map[string]map[string]model.ChurnStat {
	roots := make(map[string]struct{})

	for _, f := range files {
		roots[f.RepoRoot] = struct{}{}
	}

	out := make(map[string]map[string]model.ChurnStat, len(roots))

	for root := range roots {
		stats, err := gitstats.Churn(root)
		if err != nil {
			out[root] = map[string]model.ChurnStat{}

			continue
		}

		out[root] = stats
	}

	return out
}

// primaryRoot picks the repository root the on-disk cache file is
// scoped to: the scan root itself when it is a single repository, or
// the first discovered file's repo root for a workspace scan.
func primaryRoot(files []model.File, root string) string {
	if !config.LooksLikeWorkspace(root) {
		abs, err := filepath.Abs(root)
		if err == nil {
			return abs
		}

		return root
	}

	if len(files) > 0 {
		return files[0].RepoRoot
	}

	return root
}

// CommonRoot returns the longest common directory prefix of the
// admitted files' repo roots, used to render repo-relative paths in
// the output and bundle archive. Falls back to the first file's repo
// root when the set spans unrelated trees (a multi-repo workspace).
func CommonRoot(files []model.File) string {
	if len(files) == 0 {
		return ""
	}

	roots := make(map[string]struct{})
	for _, f := range files {
		roots[f.RepoRoot] = struct{}{}
	}

	if len(roots) == 1 {
		return files[0].RepoRoot
	}

	unique := make([]string, 0, len(roots))
	for r := range roots {
		unique = append(unique, r)
	}

	sort.Strings(unique)

	if prefix := commonPrefix(unique); prefix != "" {
		return prefix
	}

	return files[0].RepoRoot
}

// commonPrefix returns the longest shared path-component prefix of paths.
func commonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	prefix := paths[0]

	for _, p := range paths[1:] {
		prefix = sharedPrefix(prefix, p)
	}

	return prefix
}

func sharedPrefix(a, b string) string {
	aParts := strings.Split(a, string(filepath.Separator))
	bParts := strings.Split(b, string(filepath.Separator))

	n := len(aParts)
	if len(bParts) < n {
		n = len(bParts)
	}

	shared := make([]string, 0, n)

	for i := 0; i < n; i++ {
		if aParts[i] != bParts[i] {
			break
		}

		shared = append(shared, aParts[i])
	}

	return strings.Join(shared, string(filepath.Separator))
}

// buildHeader assembles the writer.Context for the run: the prompt
// text, total token estimate, optional Mermaid graph, and an executive
// overview of purpose, key files, and recent changes. summaries maps an
// admitted file's path to its transformer-computed summary.
func buildHeader(cfg *config.Config, opts Options, sel selector.Result, g *graph.Graph, files []model.File, summaries map[string]string) writer.Context {
	ctx := writer.Context{}

	if opts.Prompt != "" {
		ctx.Prompt = opts.Prompt
		ctx.HasPrompt = true
	}

	if cfg.Graph {
		diagram := mermaid.Render(g, CommonRoot(sel.Admitted))
		if diagram != "" {
			ctx.Graph = diagram
			ctx.HasGraph = true
		}
	}

	ctx.Overview = buildOverview(cfg, sel, files, summaries)

	return ctx
}

// buildOverview derives the executive summary: a purpose line lifted
// from a README's untransformed content (see purposeLine),
// the top-ranked admitted files paired with their path and summary, and
// recent commit summaries when a diff reference produced them.
func buildOverview(cfg *config.Config, sel selector.Result, files []model.File, summaries map[string]string) *writer.Overview {
	overview := &writer.Overview{}

	for _, f := range files {
		base := strings.ToLower(filepath.Base(f.Path))
		if base == "readme.md" || base == "readme.txt" || base == "readme" {
			overview.Purpose = purposeLine(f.Content)

			break
		}
	}

	const maxKeyFiles = 5

	n := len(sel.Admitted)
	if n > maxKeyFiles {
		n = maxKeyFiles
	}

	for i := 0; i < n; i++ {
		path := sel.Admitted[i].Path
		overview.KeyFiles = append(overview.KeyFiles, writer.KeyFile{Path: path, Summary: summaries[path]})
	}

	if cfg.Diff != "" && len(files) > 0 {
		diffCtx, err := gitstats.Context(files[0].RepoRoot, cfg.Diff)
		if err == nil && diffCtx != nil {
			overview.Changes = diffCtx.Commits
		}
	}

	if overview.Purpose == "" && len(overview.KeyFiles) == 0 && len(overview.Changes) == 0 {
		return nil
	}

	return overview
}

// purposeLine returns the first line of a README's content that is not
// empty, a "#" heading or a "//" comment, a reasonable one-line
// project description in almost every real README.
func purposeLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		return trimmed
	}

	return ""
}
