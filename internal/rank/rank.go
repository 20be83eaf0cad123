// Package rank orders airport reference data against a free-text query for
// the origin/destination pickers.
package rank

import (
	"sort"
	"strings"

	"github.com/aircompany/bookingflow/internal/domain"
)

// Result-list caps. In Anywhere mode the reachable sub-list is shown above
// a shortened general list.
const (
	GeneralLimit           = 8
	AnywhereReachableLimit = 5
	AnywhereGeneralLimit   = 3
)

// Rank returns the locations matching the query, most relevant first. A
// location matches only if every whitespace-separated query token appears
// as a substring of its combined searchable text. Without a query the full
// list is returned in its original order. Rank is deterministic and never
// mutates its input.
func Rank(locations []domain.Location, query string) []domain.Location {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		out := make([]domain.Location, len(locations))
		copy(out, locations)
		return out
	}

	tokens := strings.Fields(term)
	matched := make([]domain.Location, 0, len(locations))
	for _, loc := range locations {
		if matchesAll(loc, tokens) {
			matched = append(matched, loc)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], term)
	})
	return matched
}

// Top returns at most n leading entries.
func Top(locations []domain.Location, n int) []domain.Location {
	if len(locations) <= n {
		return locations
	}
	return locations[:n]
}

func matchesAll(loc domain.Location, tokens []string) bool {
	searchable := strings.ToLower(strings.Join([]string{
		loc.Name, loc.City, loc.Code, loc.Country, loc.SearchLabel,
	}, " "))
	for _, tok := range tokens {
		if !strings.Contains(searchable, tok) {
			return false
		}
	}
	return true
}

// less implements the fixed tie-break priority: code starts-with the query,
// then city, then country, then alphabetical by city.
func less(a, b domain.Location, term string) bool {
	aCode := strings.HasPrefix(strings.ToLower(a.Code), term)
	bCode := strings.HasPrefix(strings.ToLower(b.Code), term)
	if aCode != bCode {
		return aCode
	}
	aCity := strings.HasPrefix(strings.ToLower(a.City), term)
	bCity := strings.HasPrefix(strings.ToLower(b.City), term)
	if aCity != bCity {
		return aCity
	}
	aCountry := strings.HasPrefix(strings.ToLower(a.Country), term)
	bCountry := strings.HasPrefix(strings.ToLower(b.Country), term)
	if aCountry != bCountry {
		return aCountry
	}
	return a.City < b.City
}
