package transformer

import (
	"context"
	"regexp"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/kj114022/abyss/internal/model"
)

// sitterLanguages maps a language tag to its tree-sitter grammar, for
// the languages aggressive compression and concept extraction parse.
var sitterLanguages = map[string]*sitter.Language{
	"rs":  rust.GetLanguage(),
	"py":  python.GetLanguage(),
	"js":  javascript.GetLanguage(),
	"ts":  typescript.GetLanguage(),
	"go":  golang.GetLanguage(),
	"c":   c.GetLanguage(),
	"cpp": cpp.GetLanguage(),
}

var (
	blockComment     = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment      = regexp.MustCompile(`//.*`)
	multipleNewlines = regexp.MustCompile(`\n\s*\n`)
	getterPattern    = regexp.MustCompile(`(?m)^\s*(pub\s+)?fn\s+\w+\s*\([^)]*\)\s*(->\s*[^{]+)?\s*\{\s*(self\.)?\w+\s*\}`)
	setterPattern    = regexp.MustCompile(`(?m)^\s*(pub\s+)?fn\s+set_\w+\s*\([^)]*\)\s*\{\s*self\.\w+\s*=\s*\w+;\s*\}`)
	emptyImplPattern = regexp.MustCompile(`(?m)impl[^{]+\{\s*\}`)
)

// Compress applies compress-by-level to content for the given language
// tag, in the three escalating tiers described for the Transformer
// component: light strips comments and blank-line runs, standard
// additionally collapses boilerplate accessor bodies, aggressive
// parses the syntax tree and blanks every function/method body.
func Compress(content string, level model.CompressionLevel, language string) string {
	switch level {
	case model.CompressionNone:
		return content
	case model.CompressionLight:
		return compressLight(content)
	case model.CompressionStandard:
		return compressStandard(content)
	case model.CompressionAggressive:
		return compressAggressive(content, language)
	default:
		return content
	}
}

// compressLight removes block and line comments and replaces every run
// of blank or whitespace-only lines with a single newline, so no blank
// line remains.
func compressLight(content string) string {
	noBlock := blockComment.ReplaceAllString(content, "")
	noLine := lineComment.ReplaceAllString(noBlock, "")
	collapsed := multipleNewlines.ReplaceAllString(noLine, "\n")

	return trimEdges(collapsed)
}

// compressStandard applies light compression, then replaces
// getter/setter/one-liner accessor bodies with a placeholder comment
// and collapses empty impl-like blocks.
func compressStandard(content string) string {
	light := compressLight(content)

	noGetters := replaceBodyWithTag(light, getterPattern, "getter")
	noSetters := replaceBodyWithTag(noGetters, setterPattern, "setter")

	return emptyImplPattern.ReplaceAllString(noSetters, "/* empty impl */")
}

// replaceBodyWithTag replaces the brace body of every pattern match
// with "{ /* tag */ }", keeping the signature before the opening brace.
func replaceBodyWithTag(content string, pattern *regexp.Regexp, tag string) string {
	return pattern.ReplaceAllStringFunc(content, func(full string) string {
		idx := lastIndexByte(full, '{')
		if idx < 0 {
			return full
		}

		return full[:idx] + "{ /* " + tag + " */ }"
	})
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}

	return -1
}

// bodyQueries maps a language tag to the tree-sitter grammar and query
// locating every function/method block body for aggressive
// compression. Languages with no entry fall through to light.
var bodyQueries = map[string]string{
	"rs":  `(function_item body: (block) @body)`,
	"js":  `(function_declaration body: (statement_block) @body) (method_definition body: (statement_block) @body) (arrow_function body: (statement_block) @body)`,
	"ts":  `(function_declaration body: (statement_block) @body) (method_definition body: (statement_block) @body) (arrow_function body: (statement_block) @body)`,
	"py":  `(function_definition body: (block) @body)`,
	"go":  `(function_declaration body: (block) @body) (method_declaration body: (block) @body)`,
	"c":   `(function_definition body: (compound_statement) @body)`,
	"cpp": `(function_definition body: (compound_statement) @body)`,
}

// compressAggressive parses content with the grammar for language,
// locates every matched function/method body, and replaces each
// (braces included) with "{ /* ... */ }". Nested matches are filtered
// to keep only outermost ranges; unsupported languages or parse
// failures fall back to light compression.
func compressAggressive(content, language string) string {
	lang, ok := sitterLanguages[language]
	if !ok {
		return compressLight(content)
	}

	queryStr, ok := bodyQueries[language]
	if !ok {
		return compressLight(content)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	source := []byte(content)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return compressLight(content)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(queryStr), lang)
	if err != nil {
		return compressLight(content)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	type byteRange struct{ start, end int }

	var ranges []byteRange

	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}

		for _, capture := range m.Captures {
			ranges = append(ranges, byteRange{
				start: int(capture.Node.StartByte()),
				end:   int(capture.Node.EndByte()),
			})
		}
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}

		return ranges[i].end > ranges[j].end
	})

	var kept []byteRange

	lastEnd := 0

	for _, r := range ranges {
		if r.start >= lastEnd {
			kept = append(kept, r)
			lastEnd = r.end
		}
	}

	result := []byte(content)

	for i := len(kept) - 1; i >= 0; i-- {
		r := kept[i]
		if r.start >= len(result) || r.end > len(result) || r.start > r.end {
			continue
		}

		replacement := []byte("{ /* ... */ }")
		next := make([]byte, 0, len(result)-(r.end-r.start)+len(replacement))
		next = append(next, result[:r.start]...)
		next = append(next, replacement...)
		next = append(next, result[r.end:]...)
		result = next
	}

	return string(result)
}

// trimEdges trims leading and trailing whitespace, matching the
// original's final `.trim()` step of light compression.
func trimEdges(s string) string {
	start := 0
	for start < len(s) && isSpaceByte(s[start]) {
		start++
	}

	end := len(s)
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}

	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
