// Package tokenize turns item bodies into the deduplicated lowercase
// word sets the search index is built over.
package tokenize

import (
	"regexp"
	"sort"
	"strings"
)

// wordRun matches the runs the original indexer considered words:
// letters, digits, underscores and apostrophes.
var wordRun = regexp.MustCompile(`[\w']+`)

// Tokens returns the distinct lowercase tokens of body, sorted.
// An empty or whitespace-only body yields an empty slice.
func Tokens(body string) []string {
	seen := make(map[string]struct{})
	for _, run := range wordRun.FindAllString(body, -1) {
		seen[strings.ToLower(run)] = struct{}{}
	}
	tokens := make([]string, 0, len(seen))
	for t := range seen {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// Join renders a token set as the space-joined string stored in the
// document's word field.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}
