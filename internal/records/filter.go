package records

import (
	"strconv"
	"strings"
)

// Filter is one view configuration. An empty collection puts no constraint
// on its facet; a non-empty one requires membership.
type Filter struct {
	Search    string
	Genres    []string
	Decades   []int
	Countries []string
	Sizes     []string
}

// Apply returns the records matching f, in their original order.
func Apply(recs []Record, f Filter) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if Matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether r satisfies every facet of f. Facets combine
// with AND, values within a facet with OR.
func Matches(r Record, f Filter) bool {
	return matchesSearch(r, f.Search) &&
		matchesMember(r.Genre.ValueOrZero(), f.Genres) &&
		matchesDecade(r.ReleaseYear.ValueOrZero(), f.Decades) &&
		matchesMember(r.Country.ValueOrZero(), f.Countries) &&
		matchesMember(r.Size, f.Sizes)
}

func matchesSearch(r Record, search string) bool {
	if search == "" {
		return true
	}

	needle := strings.ToLower(search)
	fields := []string{
		r.Artist,
		r.AlbumName,
		r.AlphabetArtist.ValueOrZero(),
		r.Label.ValueOrZero(),
		r.CatalogNumber.ValueOrZero(),
	}
	for _, v := range fields {
		if v == "" {
			continue
		}
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func matchesMember(v string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

func matchesDecade(year string, decades []int) bool {
	if len(decades) == 0 {
		return true
	}

	y, ok := parseYear(year)
	if !ok {
		return false
	}
	for _, d := range decades {
		if y >= d && y < d+10 {
			return true
		}
	}
	return false
}

// parseYear reads the leading digits of a free-text year, so values like
// "1987 (reissue)" still resolve to 1987.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
