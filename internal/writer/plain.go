package writer

import (
	"fmt"
	"io"
)

// plainFormatter renders a human-readable banner-sectioned text file,
// with no markup of any kind.
type plainFormatter struct{}

func (f *plainFormatter) WriteHeader(w io.Writer, ctx Context) error {
	if _, err := io.WriteString(w, "=== REPOSITORY CONTEXT ===\n"); err != nil {
		return err
	}

	if ctx.HasPrompt {
		if _, err := fmt.Fprintf(w, "Instruction:\n%s\n\n", ctx.Prompt); err != nil {
			return err
		}
	}

	if ctx.HasTokens {
		if _, err := fmt.Fprintf(w, "Total tokens: %d\n", ctx.TokenCount); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")

	return err
}

func (f *plainFormatter) WriteDirectoryStructure(w io.Writer, paths []string, root string) error {
	if _, err := io.WriteString(w, "=== DIRECTORY STRUCTURE ===\n"); err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := fmt.Fprintln(w, relativePath(path, root)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")

	return err
}

func (f *plainFormatter) WriteFile(w io.Writer, path, content, summary, root string) error {
	relative := relativePath(path, root)

	if _, err := fmt.Fprintf(w, "--- %s ---\n", relative); err != nil {
		return err
	}

	if summary != "" {
		if _, err := fmt.Fprintf(w, "Summary: %s\n", summary); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s\n\n", content)

	return err
}

func (f *plainFormatter) WriteFooter(w io.Writer, dropped []string) error {
	if len(dropped) > 0 {
		if _, err := io.WriteString(w, "=== DROPPED FILES ===\n"); err != nil {
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

	_, err := io.WriteString(w, "=== END OF CONTEXT ===\n")

	return err
}
