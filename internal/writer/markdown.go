package writer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// markdownFormatter renders a human-readable document: an executive
// summary, a fenced directory listing, and one heading plus fenced
// code block per file.
type markdownFormatter struct{}

func (f *markdownFormatter) WriteHeader(w io.Writer, ctx Context) error {
	if _, err := io.WriteString(w, "# Repository Context\n\n"); err != nil {
		return err
	}

	if ctx.Overview != nil {
		if err := writeMarkdownOverview(w, ctx.Overview); err != nil {
			return err
		}
	}

	if ctx.HasGraph {
		if _, err := fmt.Fprintf(w, "## Dependency Graph\n\n```mermaid\n%s\n```\n\n", ctx.Graph); err != nil {
			return err
		}
	}

	if ctx.HasPrompt {
		if _, err := fmt.Fprintf(w, "> **Instruction**\n> %s\n\n", quoteLines(ctx.Prompt)); err != nil {
			return err
		}
	}

	if ctx.HasTokens {
		if _, err := fmt.Fprintf(w, "> Total tokens: %d\n\n", ctx.TokenCount); err != nil {
			return err
		}
	}

	return nil
}

func writeMarkdownOverview(w io.Writer, overview *Overview) error {
	if _, err := io.WriteString(w, "## Executive Summary\n\n"); err != nil {
		return err
	}

	if overview.Purpose != "" {
		if _, err := fmt.Fprintf(w, "> **Purpose**\n> %s\n\n", quoteLines(overview.Purpose)); err != nil {
			return err
		}
	}

	if len(overview.KeyFiles) > 0 {
		if _, err := io.WriteString(w, "### Key Modules\n| File | Summary |\n|------|---------|\n"); err != nil {
			return err
		}

		for _, kf := range overview.KeyFiles {
			if _, err := fmt.Fprintf(w, "| %s | %s |\n", kf.Path, kf.Summary); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	if len(overview.Changes) > 0 {
		if _, err := io.WriteString(w, "### Recent Evolution\n*Latest changes from git history:*\n"); err != nil {
			return err
		}

		const maxShown = 5

		changes := overview.Changes
		if len(changes) > maxShown {
			changes = changes[:maxShown]
		}

		for _, msg := range changes {
			if _, err := fmt.Fprintf(w, "- %s\n", msg); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

func (f *markdownFormatter) WriteDirectoryStructure(w io.Writer, paths []string, root string) error {
	if _, err := io.WriteString(w, "## Directory Structure\n\n```\n"); err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := fmt.Fprintln(w, relativePath(path, root)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "```\n\n")

	return err
}

func (f *markdownFormatter) WriteFile(w io.Writer, path, content, summary, root string) error {
	relative := relativePath(path, root)
	lang := languageHint(strings.TrimPrefix(filepath.Ext(path), "."))

	if _, err := fmt.Fprintf(w, "## %s\n", relative); err != nil {
		return err
	}

	if summary != "" {
		if _, err := fmt.Fprintf(w, "> *summary: %s*\n", summary); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n```%s\n%s\n```\n\n", lang, content)

	return err
}

func (f *markdownFormatter) WriteFooter(w io.Writer, dropped []string) error {
	if len(dropped) > 0 {
		if _, err := io.WriteString(w, "## Dropped Files\nThe following files were excluded to fit within the token limit:\n\n"); err != nil {
			return err
		}

		for _, path := range dropped {
			if _, err := fmt.Fprintf(w, "- %s\n", path); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "---\n")

	return err
}

// quoteLines prefixes every line after the first with markdown
// blockquote continuation ("\n> ") so a multi-line prompt or purpose
// statement renders as one quoted block.
func quoteLines(text string) string {
	return strings.ReplaceAll(text, "\n", "\n> ")
}
