// Package classify builds and queries the inverted keyword index used to
// detect a ticket's category from free text.
package classify

import (
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// posting records that a token belongs to a category's keyword bag with a
// term-frequency weight.
type posting struct {
	categoryID int64
	weight     float64
}

type index struct {
	postings map[string][]posting
}

// Index answers category detection queries against an atomically swapped
// inverted index. Detect never observes a half-built index: Build prepares a
// complete replacement before publishing it.
type Index struct {
	current atomic.Pointer[index]
}

// NewIndex returns an unbuilt index; Detect reports no match until the first
// successful Build.
func NewIndex() *Index {
	return &Index{}
}

// Build replaces the index wholesale from the given keyword entries. Entries
// for the same category accumulate. Safe to call concurrently with Detect.
func (x *Index) Build(entries []domain.CategoryKeywordEntry) {
	next := &index{postings: make(map[string][]posting)}

	for _, entry := range entries {
		counts := make(map[string]int)
		for _, keyword := range entry.Keywords {
			for _, token := range Tokenize(keyword) {
				counts[token]++
			}
		}
		for token, count := range counts {
			next.postings[token] = append(next.postings[token], posting{
				categoryID: entry.CategoryID,
				weight:     float64(count),
			})
		}
	}

	x.current.Store(next)
}

// Detect scores each category by term-frequency-weighted keyword overlap with
// text and returns the best match. Equal top scores resolve to the lowest
// category id. The second return is false when the index is unbuilt, empty,
// or no token overlaps.
func (x *Index) Detect(text string) (int64, bool) {
	idx := x.current.Load()
	if idx == nil || len(idx.postings) == 0 {
		return 0, false
	}

	scores := make(map[int64]float64)
	for _, token := range Tokenize(text) {
		for _, p := range idx.postings[token] {
			scores[p.categoryID] += p.weight
		}
	}
	if len(scores) == 0 {
		return 0, false
	}

	var best int64
	var bestScore float64
	found := false
	for categoryID, score := range scores {
		if !found || score > bestScore || (score == bestScore && categoryID < best) {
			best = categoryID
			bestScore = score
			found = true
		}
	}
	return best, true
}

// Tokenize lowercases text and splits it on any non-alphanumeric rune.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
