// Package search implements relevance-scored retrieval over the index
// records. It is the read-only heart of the system: term extraction,
// per-term store lookup, scoring, ranking, and deduplication.
package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
)

// Field weights. A term found in keywords counts double a term found in the
// description, and a term present in both fields earns a bonus on top.
const (
	keywordWeight   = 4
	descWeight      = 2
	bothFieldsBonus = 2
)

// Score computes the relevance of a record against a list of lowercase
// query terms. Each term contributes independently: keywordWeight if the
// keywords contain it, descWeight if the description contains it, and
// bothFieldsBonus when both do. A record matching no terms scores 0.
//
// When trace is non-nil, per-term contributions are written to it.
func Score(r store.IndexRecord, terms []string, trace io.Writer) int {
	keywords := strings.ToLower(r.Keywords)
	description := strings.ToLower(r.Description)

	total := 0
	for _, term := range terms {
		inKeywords := strings.Contains(keywords, term)
		inDescription := strings.Contains(description, term)

		points := 0
		if inKeywords {
			points += keywordWeight
		}
		if inDescription {
			points += descWeight
		}
		if inKeywords && inDescription {
			points += bothFieldsBonus
		}
		total += points

		if trace != nil && points > 0 {
			fmt.Fprintf(trace, "score %s: term %q +%d (keywords=%v description=%v)\n",
				r.Path, term, points, inKeywords, inDescription)
		}
	}
	return total
}
