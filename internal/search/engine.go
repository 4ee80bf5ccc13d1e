package search

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
)

const (
	// maxQueryLen is a hard boundary on query length, not a truncation.
	maxQueryLen = 100
	// perTermLimit caps how many records a single term can retrieve from
	// the store. Records that never place in a term's top slice are
	// omitted; that precision/recall trade-off is intentional.
	perTermLimit = 3
)

// Matcher is the lookup surface the engine needs from the record store.
type Matcher interface {
	Match(term string, limit int) ([]store.IndexRecord, error)
}

// ScoredRecord pairs a retrieved record with its computed relevance score.
// It exists only for the duration of one query.
type ScoredRecord struct {
	Record store.IndexRecord
	Score  int
}

// Engine orchestrates retrieval: term split, per-term store lookup, scoring,
// ranking, and deduplication. It holds no mutable state; concurrent Search
// calls on one Engine are safe as long as the Matcher is.
type Engine struct {
	matcher Matcher
	trace   io.Writer // nil disables scoring diagnostics
}

// New creates an Engine over the given record store.
func New(m Matcher) *Engine {
	return &Engine{matcher: m}
}

// NewWithTrace creates an Engine that writes scoring diagnostics to w.
func NewWithTrace(m Matcher, w io.Writer) *Engine {
	return &Engine{matcher: m, trace: w}
}

// Search returns records relevant to the query, ranked by descending score
// and deduplicated by path. An empty result is a valid, successful outcome;
// only a store lookup failure is an error.
//
// Queries that are empty, longer than maxQueryLen characters, or contain no
// non-whitespace tokens return an empty result without touching the store.
func (e *Engine) Search(query string) ([]ScoredRecord, error) {
	if n := utf8.RuneCountInString(query); n == 0 || n > maxQueryLen {
		return nil, nil
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	// Each term retrieves independently, so a record matching several
	// terms shows up once per term here. Duplicates are resolved after
	// sorting.
	var retrieved []store.IndexRecord
	for _, term := range terms {
		records, err := e.matcher.Match(term, perTermLimit)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", term, err)
		}
		retrieved = append(retrieved, records...)
	}

	// Every retrieved record is scored against the full term list, not
	// just the term that retrieved it.
	scored := make([]ScoredRecord, len(retrieved))
	for i, r := range retrieved {
		scored[i] = ScoredRecord{Record: r, Score: Score(r, terms, e.trace)}
	}

	// Sort first, then keep the first occurrence per path. The stable
	// sort makes ties deterministic (retrieval order), and sorting before
	// dedup guarantees the kept occurrence is the highest-scoring one.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	seen := make(map[string]bool, len(scored))
	deduped := scored[:0]
	for _, sr := range scored {
		if seen[sr.Record.Path] {
			continue
		}
		seen[sr.Record.Path] = true
		deduped = append(deduped, sr)
	}
	return deduped, nil
}
