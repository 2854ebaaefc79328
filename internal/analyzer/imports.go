package analyzer

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// sitterLanguages maps a language tag to its tree-sitter grammar, for
// the languages abyss extracts imports from.
var sitterLanguages = map[string]*sitter.Language{
	"rs": rust.GetLanguage(),
	"py": python.GetLanguage(),
	"js": javascript.GetLanguage(),
	"ts": typescript.GetLanguage(),
	"go": golang.GetLanguage(),
}

// extractImports parses content with the grammar for language and
// returns the ordered, deduplicated list of raw import strings it
// contains. Unsupported languages and parse failures return nil.
func extractImports(content []byte, language string) []string {
	lang, ok := sitterLanguages[language]
	if !ok {
		return nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		return nil
	}

	var raw []string

	walkImportNodes(tree.RootNode(), content, language, &raw)

	return dedupSorted(raw)
}

// walkImportNodes recursively visits every node, collecting the import
// path/module text for nodes that represent an import of the given
// language.
func walkImportNodes(node *sitter.Node, source []byte, language string, out *[]string) {
	if node == nil {
		return
	}

	switch language {
	case "rs":
		collectRustImport(node, source, out)
	case "py":
		collectPythonImport(node, source, out)
	case "js", "ts":
		collectJSImport(node, source, out)
	case "go":
		collectGoImport(node, source, out)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkImportNodes(node.Child(i), source, language, out)
	}
}

func collectRustImport(node *sitter.Node, source []byte, out *[]string) {
	switch node.Type() {
	case "use_declaration":
		if arg := node.ChildByFieldName("argument"); arg != nil {
			*out = append(*out, trimImport(arg.Content(source), "rs"))
		}
	case "mod_item":
		if name := node.ChildByFieldName("name"); name != nil {
			*out = append(*out, trimImport(name.Content(source), "rs"))
		}
	}
}

func collectPythonImport(node *sitter.Node, source []byte, out *[]string) {
	switch node.Type() {
	case "import_statement":
		if name := node.ChildByFieldName("name"); name != nil {
			*out = append(*out, trimImport(name.Content(source), "py"))
		}
	case "import_from_statement":
		if mod := node.ChildByFieldName("module_name"); mod != nil {
			*out = append(*out, trimImport(mod.Content(source), "py"))
		}
	}
}

func collectJSImport(node *sitter.Node, source []byte, out *[]string) {
	switch node.Type() {
	case "import_statement":
		if src := node.ChildByFieldName("source"); src != nil {
			*out = append(*out, trimImport(src.Content(source), "js"))
		}
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn == nil || fn.Content(source) != "require" {
			return
		}

		args := node.ChildByFieldName("arguments")
		if args == nil {
			return
		}

		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if arg.Type() == "string" {
				*out = append(*out, trimImport(arg.Content(source), "js"))

				return
			}
		}
	}
}

func collectGoImport(node *sitter.Node, source []byte, out *[]string) {
	if node.Type() != "import_spec" {
		return
	}

	if path := node.ChildByFieldName("path"); path != nil {
		*out = append(*out, trimImport(path.Content(source), "go"))
	}
}

// trimImport strips surrounding quotes and, for Python, an "as" alias
// tail ("foo.bar as fb" -> "foo.bar").
func trimImport(text, language string) string {
	text = strings.Trim(text, "\"'")

	if language == "py" {
		if idx := strings.Index(text, " as "); idx >= 0 {
			text = text[:idx]
		}
	}

	return text
}

// dedupSorted sorts and removes duplicate entries in place.
func dedupSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	sort.Strings(items)

	out := items[:1]

	for _, item := range items[1:] {
		if item != out[len(out)-1] {
			out = append(out, item)
		}
	}

	return out
}
