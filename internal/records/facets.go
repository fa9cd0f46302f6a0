package records

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Metadata holds the distinct facet values available for filtering,
// recomputed whenever the record set itself changes.
type Metadata struct {
	Genres    []string `json:"genres"`
	Countries []string `json:"countries"`
	Decades   []int    `json:"decades"`
	Sizes     []string `json:"sizes"`
}

// Facets derives the distinct genre, country, decade and size values of recs.
func Facets(recs []Record) Metadata {
	c := collate.New(language.Japanese)

	genres := distinct(recs, func(r Record) string { return r.Genre.ValueOrZero() })
	countries := distinct(recs, func(r Record) string { return r.Country.ValueOrZero() })
	sizes := distinct(recs, func(r Record) string { return r.Size })

	c.SortStrings(genres)
	c.SortStrings(countries)

	// Sizes are numeric-looking strings. Sorting them lexically would yield
	// "10, 12, 7", so they are deliberately ordered numerically.
	sort.Slice(sizes, func(i, j int) bool {
		a, aerr := strconv.Atoi(sizes[i])
		b, berr := strconv.Atoi(sizes[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return sizes[i] < sizes[j]
	})

	seen := make(map[int]bool)
	var decades []int
	for _, r := range recs {
		y, ok := parseYear(r.ReleaseYear.ValueOrZero())
		if !ok {
			continue
		}
		d := y / 10 * 10
		if !seen[d] {
			seen[d] = true
			decades = append(decades, d)
		}
	}
	sort.Ints(decades)

	return Metadata{
		Genres:    genres,
		Countries: countries,
		Decades:   decades,
		Sizes:     sizes,
	}
}

func distinct(recs []Record, value func(Record) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range recs {
		v := value(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
