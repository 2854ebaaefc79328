package writer

import (
	"fmt"
	"io"
	"strings"
)

// xmlFormatter renders the default format: a single <abyss> root
// element, file content wrapped in CDATA sections.
type xmlFormatter struct{}

func (f *xmlFormatter) WriteHeader(w io.Writer, ctx Context) error {
	if _, err := io.WriteString(w, "<abyss>\n"); err != nil {
		return err
	}

	if ctx.HasPrompt {
		if err := writeCDATAElement(w, "prompt", ctx.Prompt); err != nil {
			return err
		}
	}

	if ctx.HasTokens {
		if _, err := fmt.Fprintf(w, "<token_count>%d</token_count>\n", ctx.TokenCount); err != nil {
			return err
		}
	}

	if ctx.HasGraph {
		if err := writeCDATAElement(w, "graph", ctx.Graph); err != nil {
			return err
		}
	}

	if ctx.Overview != nil {
		if err := writeXMLOverview(w, ctx.Overview); err != nil {
			return err
		}
	}

	return nil
}

func writeXMLOverview(w io.Writer, overview *Overview) error {
	if _, err := io.WriteString(w, "<overview>\n"); err != nil {
		return err
	}

	if overview.Purpose != "" {
		if err := writeCDATAElement(w, "purpose", overview.Purpose); err != nil {
			return err
		}
	}

	for _, kf := range overview.KeyFiles {
		if _, err := fmt.Fprintf(w, "<key_file path=\"%s\">%s</key_file>\n", escapeXMLAttr(kf.Path), escapeXMLText(kf.Summary)); err != nil {
			return err
		}
	}

	for _, msg := range overview.Changes {
		if _, err := fmt.Fprintf(w, "<change>%s</change>\n", escapeXMLText(msg)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</overview>\n")

	return err
}

func (f *xmlFormatter) WriteDirectoryStructure(w io.Writer, paths []string, root string) error {
	if _, err := io.WriteString(w, "<directory_structure>\n"); err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := fmt.Fprintln(w, relativePath(path, root)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</directory_structure>\n")

	return err
}

func (f *xmlFormatter) WriteFile(w io.Writer, path, content, summary, root string) error {
	relative := relativePath(path, root)

	if _, err := fmt.Fprintf(w, "<file path=\"%s\">\n", escapeXMLAttr(relative)); err != nil {
		return err
	}

	if summary != "" {
		if err := writeCDATAElement(w, "summary", summary); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "    <![CDATA[\n"); err != nil {
		return err
	}

	if err := writeCDATABody(w, content); err != nil {
		return err
	}

	_, err := io.WriteString(w, "</file>\n")

	return err
}

func (f *xmlFormatter) WriteFooter(w io.Writer, dropped []string) error {
	if len(dropped) > 0 {
		if _, err := io.WriteString(w, "<dropped_files>\n"); err != nil {
			return err
		}

		for _, path := range dropped {
			if _, err := fmt.Fprintf(w, "<path>%s</path>\n", escapeXMLText(path)); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "</dropped_files>\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</abyss>\n")

	return err
}

// writeCDATAElement wraps text in a named element whose body is a
// single CDATA section.
func writeCDATAElement(w io.Writer, tag, text string) error {
	if _, err := fmt.Fprintf(w, "<%s>\n    <![CDATA[\n", tag); err != nil {
		return err
	}

	if err := writeCDATABody(w, text); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "</%s>\n", tag)

	return err
}

// writeCDATABody writes text inside an already-opened CDATA section,
// escaping any embedded "]]>" terminator by splitting it across two
// adjacent CDATA blocks.
func writeCDATABody(w io.Writer, text string) error {
	escaped := strings.ReplaceAll(text, "]]>", "]]]]><![CDATA[>")

	if _, err := fmt.Fprintln(w, escaped); err != nil {
		return err
	}

	_, err := io.WriteString(w, "    ]]>\n")

	return err
}

// escapeXMLText escapes "&", "<" and ">" in text used outside a CDATA
// section.
func escapeXMLText(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)

	return replacer.Replace(text)
}

// escapeXMLAttr escapes text for use inside a double-quoted XML
// attribute value.
func escapeXMLAttr(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
	)

	return replacer.Replace(text)
}
