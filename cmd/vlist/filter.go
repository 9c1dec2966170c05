package main

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// filter queries follow fzf's extended syntax:
//
//	foo      fuzzy subsequence
//	'foo     exact substring
//	^foo     prefix
//	foo$     suffix
//	!foo     negation, combinable with the three above
//	a b      every term must match
//	a | b    either side may match

func init() {
	algo.Init("default")
}

var slab = util.MakeSlab(100*1024, 2048)

type term struct {
	match         algo.Algo
	runes         []rune
	negated       bool
	caseSensitive bool
}

// query is a parsed filter: alternatives of terms that must all match.
type query [][]term

func parseQuery(raw string) query {
	var q query
	for _, alt := range strings.Split(strings.TrimSpace(raw), " | ") {
		var terms []term
		for _, tok := range strings.Fields(alt) {
			terms = append(terms, parseTerm(tok))
		}
		if len(terms) > 0 {
			q = append(q, terms)
		}
	}
	return q
}

func parseTerm(tok string) term {
	t := term{match: algo.FuzzyMatchV2}
	if len(tok) > 1 && tok[0] == '!' {
		t.negated = true
		tok = tok[1:]
	}
	switch {
	case len(tok) > 1 && tok[0] == '\'':
		t.match, tok = algo.ExactMatchNaive, tok[1:]
	case len(tok) > 1 && tok[0] == '^':
		t.match, tok = algo.PrefixMatch, tok[1:]
	case len(tok) > 1 && tok[len(tok)-1] == '$':
		t.match, tok = algo.SuffixMatch, tok[:len(tok)-1]
	}
	// smart case: any upper-case rune makes the term case sensitive
	t.caseSensitive = strings.IndexFunc(tok, unicode.IsUpper) >= 0
	if !t.caseSensitive {
		tok = strings.ToLower(tok)
	}
	t.runes = []rune(tok)
	return t
}

// score reports whether text matches and how well. The best alternative
// wins; within one alternative the term scores add up.
func (q query) score(text string) (int, bool) {
	chars := util.ToChars([]byte(text))
	best, matched := 0, false
	for _, terms := range q {
		total, ok := 0, true
		for _, t := range terms {
			res, _ := t.match(t.caseSensitive, false, true, &chars, t.runes, false, slab)
			hit := res.Start >= 0
			if hit == t.negated {
				ok = false
				break
			}
			if hit {
				total += res.Score
			}
		}
		if ok && (!matched || total > best) {
			best, matched = total, true
		}
	}
	return best, matched
}

type match struct {
	index int
	score int
}

// filterEntries matches query against every entry and returns the matches
// best first, ties kept in log order. An empty query returns all.
func filterEntries(entries []entry, raw string) []entry {
	q := parseQuery(raw)
	if len(q) == 0 {
		return entries
	}

	var matches []match
	for i, e := range entries {
		if score, ok := q.score(e.text()); ok {
			matches = append(matches, match{index: i, score: score})
		}
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.index]
	}
	return out
}

// datasetKey names the dataset a query produces.
func datasetKey(query string) string {
	return "query:" + strings.TrimSpace(query)
}
