// Package query implements the --query keyword ranking mode: boost a
// file's rank by how well its filename and content match a short
// search phrase, expanded through a small synonym table and filtered
// through a stopword list so common words like "the" or "a" don't
// dominate every match.
package query

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kj114022/abyss/internal/model"
)

// Query is a parsed --query phrase: its significant terms (stopwords
// removed, lowercased). Synonyms are looked up at match time.
type Query struct {
	terms []string
}

// stopwords are common words dropped before matching; their presence
// in a query phrase shouldn't contribute to a file's match score.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "on": {}, "for": {},
	"to": {}, "and": {}, "or": {}, "with": {}, "is": {}, "are": {}, "how": {},
	"does": {}, "do": {}, "this": {}, "that": {},
}

// synonyms maps a handful of common code-search terms onto near
// synonyms, so a query for "auth" also matches files and content
// mentioning "login" or "credential".
var synonyms = map[string][]string{
	"auth":     {"login", "credential", "session", "token"},
	"config":   {"settings", "options", "configuration"},
	"test":     {"spec", "bench"},
	"error":    {"err", "failure", "exception"},
	"db":       {"database", "store", "storage"},
	"api":      {"endpoint", "handler", "route"},
	"log":      {"logger", "logging"},
	"cache":    {"memo", "memoize"},
	"parse":    {"parser", "parsing", "decode"},
	"graph":    {"dependency", "dependencies", "dag"},
	"compress": {"compression", "minify"},
}

// termMatchScore and filenameBonus weight how much a single matched
// term contributes to the overall boost, and how much extra a
// filename match is worth relative to a content match.
const (
	termMatchScore = 20
	filenameBonus  = 40
)

// Parse splits phrase into lowercased, stopword-filtered terms. An
// empty or all-stopword phrase produces an inactive Query.
func Parse(phrase string) Query {
	var terms []string

	for _, raw := range strings.Fields(strings.ToLower(phrase)) {
		term := strings.Trim(raw, ".,!?;:\"'()[]{}")
		if term == "" {
			continue
		}

		if _, stop := stopwords[term]; stop {
			continue
		}

		terms = append(terms, term)
	}

	return Query{terms: terms}
}

// Active reports whether q has any term to match against.
func (q Query) Active() bool {
	return len(q.terms) > 0
}

// Score returns the keyword-match boost for f: termMatchScore per
// distinct term (or synonym) found in the file's content, plus
// filenameBonus per term (or synonym) found in the file's base name.
func Score(f model.File, q Query) int {
	if !q.Active() {
		return 0
	}

	content := strings.ToLower(f.Content)
	name := strings.ToLower(filepath.Base(f.Path))

	total := 0

	for _, term := range q.terms {
		if matches(content, term) {
			total += termMatchScore
		}

		if matches(name, term) {
			total += filenameBonus
		}
	}

	return total
}

// matches reports whether text contains term or any of its synonyms.
func matches(text, term string) bool {
	if strings.Contains(text, term) {
		return true
	}

	for _, syn := range synonyms[term] {
		if strings.Contains(text, syn) {
			return true
		}
	}

	return false
}

// Explain renders a short human-readable description of a query for
// --dry-run/progress output.
func (q Query) Explain() string {
	if !q.Active() {
		return "(no query)"
	}

	return strconv.Itoa(len(q.terms)) + " term(s): " + strings.Join(q.terms, ", ")
}
