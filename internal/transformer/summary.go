package transformer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// summaryQueries maps a language tag to a tree-sitter query whose
// capture names classify each match into a symbol bucket (struct,
// class, enum, trait, fn, impl).
var summaryQueries = map[string]string{
	"rs": `(struct_item name: (_) @struct) (enum_item name: (_) @enum) (trait_item name: (_) @trait) ` +
		`(function_item name: (_) @fn) (impl_item type: (_) @impl)`,
	"py": `(class_definition name: (_) @class) (function_definition name: (_) @fn)`,
	"ts": `(class_declaration name: (_) @class) (function_declaration name: (_) @fn) ` +
		`(interface_declaration name: (_) @interface)`,
	"js": `(class_declaration name: (_) @class) (function_declaration name: (_) @fn)`,
	"go": `(type_spec name: (_) @struct) (function_declaration name: (_) @fn)`,
	"c":  `(struct_specifier name: (_) @struct) (function_definition declarator: (function_declarator declarator: (identifier) @fn))`,
	"cpp": `(class_specifier name: (_) @class) ` +
		`(function_definition declarator: (function_declarator declarator: (identifier) @fn))`,
}

// Summarize produces a short, deterministic symbol digest for
// content ("Structs/Types: A, B; Functions: f (+3)") using the
// syntax-tree backend for a supported language, falling back to a
// line-oriented regex heuristic (suffixed "(Heuristic)") for anything
// else. Returns "" if no symbols are found.
func Summarize(content, language string) string {
	lang, hasLang := sitterLanguages[language]
	queryStr, hasQuery := summaryQueries[language]

	if !hasLang || !hasQuery {
		return summarizeHeuristic(content)
	}

	buckets := map[string][]string{}

	if !collectSummaryCaptures(content, lang, queryStr, buckets) {
		return summarizeHeuristic(content)
	}

	// impl blocks are attributed to the type they extend, same bucket
	// as structs.
	buckets["struct"] = append(buckets["struct"], buckets["impl"]...)

	var parts []string

	appendPart(&parts, "Structs/Types", buckets["struct"])
	appendPart(&parts, "Classes", buckets["class"])
	appendPart(&parts, "Enums", buckets["enum"])
	appendPart(&parts, "Traits/Interfaces", append(buckets["trait"], buckets["interface"]...))
	appendPart(&parts, "Functions", buckets["fn"])

	return strings.Join(parts, "; ")
}

// collectSummaryCaptures runs queryStr over content and files each
// capture's text into buckets keyed by capture name. Returns false on
// any parse/query failure so the caller can fall back to the regex
// heuristic.
func collectSummaryCaptures(content string, lang *sitter.Language, queryStr string, buckets map[string][]string) bool {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	source := []byte(content)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return false
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(queryStr), lang)
	if err != nil {
		return false
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, tree.RootNode())

	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}

		for _, capture := range m.Captures {
			name := query.CaptureNameForId(capture.Index)
			buckets[name] = append(buckets[name], capture.Node.Content(source))
		}
	}

	return true
}

// appendPart formats items (sorted, deduplicated, capped at 5 with an
// "(+N)" suffix for the remainder) under label and appends to parts if
// non-empty.
func appendPart(parts *[]string, label string, items []string) {
	if len(items) == 0 {
		return
	}

	items = dedupSortedStrings(items)

	const limit = 5

	count := len(items)
	shown := items

	if count > limit {
		shown = items[:limit]
	}

	part := fmt.Sprintf("%s: %s", label, strings.Join(shown, ", "))
	if count > limit {
		part += fmt.Sprintf(" (+%d)", count-limit)
	}

	*parts = append(*parts, part)
}

var (
	heuristicClassPattern = regexp.MustCompile(`^\s*(class|struct|module|interface|trait)\s+([a-zA-Z0-9_]+)`)
	heuristicFuncPattern  = regexp.MustCompile(`^\s*(function|def|fn|func|public\s+sub|sub)\s+([a-zA-Z0-9_]+)`)
)

// summarizeHeuristic is the line-oriented regex fallback for
// languages with no syntax-tree backend, labeled "(Heuristic)" so the
// reader knows the digest is best-effort.
func summarizeHeuristic(content string) string {
	var classes, functions []string

	for _, line := range strings.Split(content, "\n") {
		if m := heuristicClassPattern.FindStringSubmatch(line); m != nil {
			classes = append(classes, m[2])

			continue
		}

		if m := heuristicFuncPattern.FindStringSubmatch(line); m != nil {
			functions = append(functions, m[2])
		}
	}

	var parts []string

	appendPartCapped(&parts, "Classes/Modules", classes, 3)
	appendPartCapped(&parts, "Functions", functions, 3)

	if len(parts) == 0 {
		return ""
	}

	return strings.Join(parts, "; ") + " (Heuristic)"
}

func appendPartCapped(parts *[]string, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}

	items = dedupSortedStrings(items)

	count := len(items)
	shown := items

	if count > limit {
		shown = items[:limit]
	}

	part := fmt.Sprintf("%s: %s", label, strings.Join(shown, ", "))
	if count > limit {
		part += fmt.Sprintf(" (+%d)", count-limit)
	}

	*parts = append(*parts, part)
}

// readmeSkipPrefixes are line prefixes ReadmePurpose treats as
// non-prose: headers, HTML comments, images and links, inline code.
var readmeSkipPrefixes = []string{"#", "<!--", "!", "[", "`"}

// ReadmePurpose returns the first non-empty README line that is not a
// header, comment, image, link, or inline code span — a one-line
// purpose statement for the executive overview.
func ReadmePurpose(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if hasAnyPrefix(trimmed, readmeSkipPrefixes) {
			continue
		}

		return trimmed
	}

	return ""
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
