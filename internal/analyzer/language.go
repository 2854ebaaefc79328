package analyzer

import (
	"path/filepath"
	"strings"
)

// languageOf maps a file's extension to abyss's internal language tag.
// Extensions with no import-extraction query still get a tag (used for
// formatting hints); unrecognized extensions return "".
func languageOf(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	switch ext {
	case "rs":
		return "rs"
	case "py":
		return "py"
	case "js", "jsx":
		return "js"
	case "ts", "tsx":
		return "ts"
	case "go":
		return "go"
	case "java":
		return "java"
	case "c", "h":
		return "c"
	case "cpp", "cc", "cxx", "hpp":
		return "cpp"
	case "rb":
		return "rb"
	default:
		return ""
	}
}
