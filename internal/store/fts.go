package store

import (
	"strings"
	"unicode"
)

type ftsTerm struct {
	text   string
	negate bool
}

// MatchExpr translates web-search style input into an FTS5 MATCH expression.
//
// Bare words are ANDed, "quoted text" is a phrase, a leading '-' excludes a
// word or phrase and the word "or" separates alternatives. Every term is
// emitted as an FTS5 string so user input never reaches the FTS5 query
// grammar. Alternatives with no positive term are dropped; if none remain
// the result is empty and the query matches nothing.
func MatchExpr(input string) string {
	var groups []string
	for _, g := range parseWebSearch(input) {
		var pos, neg []string
		for _, t := range g {
			if t.negate {
				neg = append(neg, quoteFTS(t.text))
			} else {
				pos = append(pos, quoteFTS(t.text))
			}
		}
		if len(pos) == 0 {
			continue
		}
		expr := strings.Join(pos, " AND ")
		for _, n := range neg {
			expr += " NOT " + n
		}
		groups = append(groups, expr)
	}
	switch len(groups) {
	case 0:
		return ""
	case 1:
		return groups[0]
	}
	for i, g := range groups {
		groups[i] = "(" + g + ")"
	}
	return strings.Join(groups, " OR ")
}

// HasPositiveTerms reports whether input has at least one alternative with
// a word or phrase to match. Input made only of exclusions matches nothing
// on every backend.
func HasPositiveTerms(input string) bool {
	for _, g := range parseWebSearch(input) {
		for _, t := range g {
			if !t.negate {
				return true
			}
		}
	}
	return false
}

func parseWebSearch(input string) [][]ftsTerm {
	var groups [][]ftsTerm
	var cur []ftsTerm
	r := []rune(input)
	i := 0
	for i < len(r) {
		if unicode.IsSpace(r[i]) {
			i++
			continue
		}
		negate := false
		if r[i] == '-' && i+1 < len(r) && !unicode.IsSpace(r[i+1]) {
			negate = true
			i++
		}
		quoted := false
		var text string
		if r[i] == '"' {
			quoted = true
			j := i + 1
			for j < len(r) && r[j] != '"' {
				j++
			}
			text = string(r[i+1 : j])
			i = j + 1
		} else {
			j := i
			for j < len(r) && !unicode.IsSpace(r[j]) && r[j] != '"' {
				j++
			}
			text = string(r[i:j])
			i = j
		}

		if !quoted && !negate && strings.EqualFold(text, "or") {
			if len(cur) > 0 {
				groups = append(groups, cur)
				cur = nil
			}
			continue
		}
		if !hasWordChar(text) {
			continue
		}
		cur = append(cur, ftsTerm{text: strings.TrimSpace(text), negate: negate})
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

func hasWordChar(s string) bool {
	for _, c := range s {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			return true
		}
	}
	return false
}

func quoteFTS(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
