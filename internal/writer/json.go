package writer

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonFormatter renders a single streamed JSON object: files emitted
// one object per line as they complete, with commas managed by a
// first_file flag so the whole document stays valid JSON without
// buffering every file in memory.
type jsonFormatter struct {
	firstFile bool
}

func newJSONFormatter() *jsonFormatter {
	return &jsonFormatter{firstFile: true}
}

type fileEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (f *jsonFormatter) WriteHeader(w io.Writer, ctx Context) error {
	if _, err := io.WriteString(w, "{\n"); err != nil {
		return err
	}

	if ctx.HasPrompt {
		encoded, err := json.Marshal(ctx.Prompt)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "  \"prompt\": %s,\n", encoded); err != nil {
			return err
		}
	}

	if ctx.HasTokens {
		if _, err := fmt.Fprintf(w, "  \"token_count\": %d,\n", ctx.TokenCount); err != nil {
			return err
		}
	}

	if ctx.HasGraph {
		encoded, err := json.Marshal(ctx.Graph)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "  \"graph\": %s,\n", encoded); err != nil {
			return err
		}
	}

	if ctx.Overview != nil {
		encoded, err := json.Marshal(ctx.Overview)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "  \"overview\": %s,\n", encoded); err != nil {
			return err
		}
	}

	return nil
}

func (f *jsonFormatter) WriteDirectoryStructure(w io.Writer, paths []string, root string) error {
	if _, err := io.WriteString(w, "  \"directory_structure\": [\n"); err != nil {
		return err
	}

	for i, path := range paths {
		encoded, err := json.Marshal(relativePath(path, root))
		if err != nil {
			return err
		}

		comma := ","
		if i == len(paths)-1 {
			comma = ""
		}

		if _, err := fmt.Fprintf(w, "    %s%s\n", encoded, comma); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "  ],\n  \"files\": [\n")

	return err
}

func (f *jsonFormatter) WriteFile(w io.Writer, path, content, _, root string) error {
	if !f.firstFile {
		if _, err := io.WriteString(w, ",\n"); err != nil {
			return err
		}
	}

	f.firstFile = false

	encoded, err := json.Marshal(fileEntry{Path: relativePath(path, root), Content: content})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "    %s", encoded)

	return err
}

func (f *jsonFormatter) WriteFooter(w io.Writer, dropped []string) error {
	if _, err := io.WriteString(w, "\n  ]"); err != nil {
		return err
	}

	if len(dropped) > 0 {
		encoded, err := json.Marshal(dropped)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, ",\n  \"dropped_files\": %s", encoded); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n}\n")

	return err
}
