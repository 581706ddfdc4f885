// Package search implements the query-time side of campaign search: merging
// node and session hits, ranking them, grouping by pluralized type, and
// deriving the navigation URL for each hit. Matching itself happens in SQL;
// everything here is pure and operates on already-fetched rows.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grimoire-app/grimoire/backend/pkg/taxonomy"
)

// MinQueryLength is the shortest query that produces results.
const MinQueryLength = 2

// Result is a single search hit, node or session.
type Result struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Subtype  *string `json:"subtype"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Summary  *string `json:"summary"`
	IsSecret bool    `json:"is_secret"`
	URL      string  `json:"url"`
}

// Rank orders results so that names starting with the query (case
// insensitive) come before names that merely contain it, with a case
// insensitive alphabetical tie-break.
func Rank(results []Result, query string) {
	q := strings.ToLower(query)
	sort.SliceStable(results, func(i, j int) bool {
		iPrefix := strings.HasPrefix(strings.ToLower(results[i].Name), q)
		jPrefix := strings.HasPrefix(strings.ToLower(results[j].Name), q)
		if iPrefix != jPrefix {
			return iPrefix
		}
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})
}

// Group buckets ranked results under their pluralized type key
// ("character" -> "characters"). Types with no hits get no key.
func Group(results []Result) map[string][]Result {
	grouped := make(map[string][]Result)
	for _, r := range results {
		key := taxonomy.Plural(r.Type)
		grouped[key] = append(grouped[key], r)
	}
	return grouped
}

// NodeURL derives the show-page URL for a node from its type. Types without
// a dedicated show page fall back to the campaign dashboard.
func NodeURL(campaignSlug, nodeType, nodeSlug string) string {
	switch nodeType {
	case "character", "place", "item", "faction", "plot":
		return fmt.Sprintf("/campaigns/%s/%s/%s", campaignSlug, taxonomy.Plural(nodeType), nodeSlug)
	default:
		return fmt.Sprintf("/campaigns/%s", campaignSlug)
	}
}

// SessionURL derives the show-page URL for a session by number.
func SessionURL(campaignSlug string, number int32) string {
	return fmt.Sprintf("/campaigns/%s/sessions/%d", campaignSlug, number)
}

// SessionName is the display name of a session hit, falling back to
// "Session N" when the session has no title.
func SessionName(title *string, number int32) string {
	if title != nil && *title != "" {
		return *title
	}
	return fmt.Sprintf("Session %d", number)
}
