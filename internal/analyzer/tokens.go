package analyzer

import "unicode"

// estimateTokens produces the Analyzer's fast token estimate, used
// before the Transformer's accurate tiktoken count is available (and
// as a cache-miss fallback). It is the larger of a byte-length
// heuristic and a whitespace word count, since dense code under-counts
// on the word metric and prose under-counts on the byte metric.
func estimateTokens(content string) int {
	byteEstimate := len(content) / 4

	words := countWhitespaceWords(content)

	if words > byteEstimate {
		return words
	}

	return byteEstimate
}

// countWhitespaceWords counts maximal runs of non-whitespace runes.
func countWhitespaceWords(content string) int {
	count := 0
	inWord := false

	for _, r := range content {
		if unicode.IsSpace(r) {
			inWord = false

			continue
		}

		if !inWord {
			count++

			inWord = true
		}
	}

	return count
}
