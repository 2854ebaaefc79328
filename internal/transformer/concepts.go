package transformer

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// conceptQueries maps a language tag to the tree-sitter query
// capturing its top-level declaration names: structs, classes, enums,
// traits/interfaces, functions/methods.
var conceptQueries = map[string]string{
	"rs": `(struct_item name: (_) @name) (enum_item name: (_) @name) (trait_item name: (_) @name) ` +
		`(impl_item type: (_) @name) (function_item name: (_) @name) (mod_item name: (_) @name)`,
	"py": `(class_definition name: (_) @name) (function_definition name: (_) @name)`,
	"js": `(class_declaration name: (_) @name) (function_declaration name: (_) @name)`,
	"ts": `(class_declaration name: (_) @name) (interface_declaration name: (_) @name) (function_declaration name: (_) @name)`,
	"go": `(type_spec name: (_) @name) (function_declaration name: (_) @name) (method_declaration name: (_) @name)`,
}

// conceptLabelByParentKind prefixes a captured name with the kind of its parent
// node, so "User" becomes "struct User" or "fn helper".
var conceptLabelByParentKind = map[string]string{
	"struct_item":          "struct",
	"enum_item":             "enum",
	"trait_item":            "trait",
	"impl_item":             "impl",
	"function_item":         "fn",
	"class_definition":      "class",
	"class_declaration":     "class",
	"function_definition":   "fn",
	"function_declaration":  "fn",
	"interface_declaration": "interface",
	"type_spec":             "type",
	"method_declaration":    "fn",
}

// ExtractConcepts parses content with the grammar for language and
// returns the sorted, deduplicated list of top-level declaration
// labels it contains ("struct User", "fn helper", ...). Unsupported
// languages and parse failures return nil.
func ExtractConcepts(content, language string) []string {
	lang, ok := sitterLanguages[language]
	if !ok {
		return nil
	}

	queryStr, ok := conceptQueries[language]
	if !ok {
		return nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	source := []byte(content)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(queryStr), lang)
	if err != nil {
		return nil
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, tree.RootNode())

	var concepts []string

	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}

		for _, capture := range m.Captures {
			text := capture.Node.Content(source)
			if len(text) <= 1 || text == "_" {
				continue
			}

			parentKind := ""
			nested := false

			if parent := capture.Node.Parent(); parent != nil {
				parentKind = parent.Type()

				for p := parent.Parent(); p != nil; p = p.Parent() {
					if _, isDecl := conceptLabelByParentKind[p.Type()]; isDecl {
						nested = true
					}
				}
			}

			if nested {
				continue
			}

			label, ok := conceptLabelByParentKind[parentKind]
			if !ok {
				concepts = append(concepts, text)

				continue
			}

			concepts = append(concepts, label+" "+text)
		}
	}

	return dedupSortedStrings(concepts)
}

// dedupSortedStrings sorts s and removes adjacent duplicates in place.
func dedupSortedStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}

	sort.Strings(s)

	out := s[:1]

	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}

	return out
}

// ConceptComment formats concepts as a single comment line prepended
// to file content, using the comment syntax appropriate for language.
// Returns "" if concepts is empty.
func ConceptComment(concepts []string, language string) string {
	if len(concepts) == 0 {
		return ""
	}

	body := "concepts: " + joinComma(concepts)

	switch language {
	case "py", "rb":
		return "# " + body + "\n"
	case "html", "xml", "md":
		return "<!-- " + body + " -->\n"
	default:
		return "// " + body + "\n"
	}
}

func joinComma(items []string) string {
	out := items[0]

	for _, item := range items[1:] {
		out += ", " + item
	}

	return out
}
