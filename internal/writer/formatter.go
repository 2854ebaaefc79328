// Package writer renders the final compiled artifact in one of four
// formats (XML, JSON, Markdown, plain text) behind a single Formatter
// interface, with part rotation once a configured token budget per
// part is exceeded.
package writer

import (
	"io"

	"github.com/kj114022/abyss/internal/model"
)

// KeyFile is one row of the executive overview's key-modules table: a
// repo-relative path and its transformer-produced summary.
type KeyFile struct {
	Path    string
	Summary string
}

// Overview is the optional executive summary shown ahead of the
// directory structure: a one-line purpose statement (usually lifted
// from a README), the highest-ranked files and their summaries, and a
// handful of recent commit messages.
type Overview struct {
	Purpose  string
	KeyFiles []KeyFile
	Changes  []string
}

// Context carries everything a format's header may render beyond the
// bare per-file content: an optional instruction prompt to echo back,
// the total token count once known, a Mermaid dependency graph, and
// the executive overview.
type Context struct {
	Prompt     string
	HasPrompt  bool
	TokenCount int
	HasTokens  bool
	Graph      string
	HasGraph   bool
	Overview   *Overview
}

// Formatter is the single interface every output format implements;
// the writer drives these four calls in order and never reaches past
// them into format-specific state.
type Formatter interface {
	// WriteHeader opens the artifact and renders ctx's optional prompt,
	// token count, graph, and executive overview.
	WriteHeader(w io.Writer, ctx Context) error
	// WriteDirectoryStructure renders the repo-relative listing of every
	// admitted path.
	WriteDirectoryStructure(w io.Writer, paths []string, root string) error
	// WriteFile renders one file's content (and optional summary).
	WriteFile(w io.Writer, path, content, summary, root string) error
	// WriteFooter closes the artifact, listing any dropped paths.
	WriteFooter(w io.Writer, dropped []string) error
}

// New returns a fresh Formatter instance for format. The writer calls
// this again on every part rotation so per-part state (the JSON
// formatter's first-file flag, in particular) resets cleanly.
func New(format model.OutputFormat) Formatter {
	switch format {
	case model.FormatJSON:
		return newJSONFormatter()
	case model.FormatMarkdown:
		return &markdownFormatter{}
	case model.FormatPlain:
		return &plainFormatter{}
	case model.FormatXML:
		return &xmlFormatter{}
	default:
		return &xmlFormatter{}
	}
}

// relativePath returns path relative to root, falling back to path
// unchanged if it does not share root as a prefix (mirrors the
// original's strip_prefix-or-keep behavior).
func relativePath(path, root string) string {
	rel, ok := stripPrefix(path, root)
	if !ok {
		return path
	}

	return rel
}

func stripPrefix(path, root string) (string, bool) {
	if root == "" {
		return path, false
	}

	if len(path) <= len(root) || path[:len(root)] != root {
		return path, false
	}

	rest := path[len(root):]
	for len(rest) > 0 && (rest[0] == '/' || rest[0] == '\\') {
		rest = rest[1:]
	}

	return rest, true
}

// languageHint maps a file extension to the fenced-code-block language
// tag Markdown uses.
func languageHint(extension string) string {
	switch extension {
	case "rs":
		return "rust"
	case "py":
		return "python"
	case "js":
		return "javascript"
	case "ts":
		return "typescript"
	case "go":
		return "go"
	case "c", "h":
		return "c"
	case "cpp", "hpp", "cc":
		return "cpp"
	case "java":
		return "java"
	case "rb":
		return "ruby"
	case "sh":
		return "bash"
	case "yml", "yaml":
		return "yaml"
	case "json":
		return "json"
	case "toml":
		return "toml"
	case "md":
		return "markdown"
	case "html":
		return "html"
	case "css":
		return "css"
	case "sql":
		return "sql"
	default:
		return ""
	}
}
