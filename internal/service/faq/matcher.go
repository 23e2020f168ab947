package faq

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/cistcor/cistbot/backend/internal/model/faq"
)

// Result is the best-scoring entry for a query. Score is distance-style:
// 0 means an exact match, 1 means no similarity at all.
type Result struct {
	Entry faq.Entry
	Score float64
}

// Matcher performs fuzzy lookup of a query against a fixed question set.
// It is built once at startup and is safe for concurrent use.
type Matcher struct {
	entries []indexed
}

type indexed struct {
	entry      faq.Entry
	normalized string
	tokens     []string
}

// NewMatcher indexes the supplied entries.
func NewMatcher(entries []faq.Entry) *Matcher {
	m := &Matcher{entries: make([]indexed, 0, len(entries))}
	for _, e := range entries {
		norm := normalize(e.Question)
		if norm == "" {
			continue
		}
		m.entries = append(m.entries, indexed{
			entry:      e,
			normalized: norm,
			tokens:     strings.Fields(norm),
		})
	}
	return m
}

// Match returns the closest entry for the query. It returns false for an
// empty or whitespace-only query so that short questions cannot be matched
// by accident, and when no entries are indexed.
func (m *Matcher) Match(query string) (Result, bool) {
	norm := normalize(query)
	if norm == "" || len(m.entries) == 0 {
		return Result{}, false
	}

	tokens := strings.Fields(norm)
	best := Result{Score: 1}
	found := false
	for _, idx := range m.entries {
		s := score(norm, tokens, idx)
		if !found || s < best.Score {
			best = Result{Entry: idx.entry, Score: s}
			found = true
		}
	}
	return best, found
}

// score blends whole-string and per-token edit distances. The whole-string
// distance catches small typos; the token distance tolerates word
// reordering and partial phrasings of a longer question.
func score(query string, queryTokens []string, idx indexed) float64 {
	if query == idx.normalized {
		return 0
	}

	whole := normalizedDistance(query, idx.normalized)

	var tokenSum float64
	for _, qt := range queryTokens {
		closest := 1.0
		for _, ct := range idx.tokens {
			if d := normalizedDistance(qt, ct); d < closest {
				closest = d
			}
		}
		tokenSum += closest
	}
	token := tokenSum / float64(len(queryTokens))

	if token < whole {
		return token
	}
	return whole
}

func normalizedDistance(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// normalize lowercases and strips punctuation so that "¿Qué es Cistcor?"
// and "que es cistcor" compare equal up to accents.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
