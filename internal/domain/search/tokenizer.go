// Package search implements fuzzy catalog search: a query is split into
// whitespace tokens, each token is fuzzy-matched independently against the
// name and variant of every entry, per-entry evidence is merged by id, and the
// matching entries are ranked and highlighted.
//
// Matching is additive across tokens. An entry that matches any token is a
// candidate; matching more tokens only improves its rank.
package search

import "strings"

// Tokenize splits a query on runs of whitespace. Token order carries no
// positional meaning.
func Tokenize(query string) []string {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
