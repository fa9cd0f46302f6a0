package records

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/guregu/null.v3"
)

func TestFacets(t *testing.T) {
	recs := []Record{
		{Genre: null.StringFrom("Rock"), Country: null.StringFrom("UK"), Size: SizeTwelve, ReleaseYear: null.StringFrom("1969")},
		{Genre: null.StringFrom("Grunge"), Country: null.StringFrom("US"), Size: SizeSeven, ReleaseYear: null.StringFrom("1991")},
		{Genre: null.StringFrom("Rock"), Country: null.StringFrom("UK"), Size: SizeTen, ReleaseYear: null.StringFrom("1999")},
		{Size: SizeTwelve}, // empty optionals contribute nothing
	}

	got := Facets(recs)

	want := Metadata{
		Genres:    []string{"Grunge", "Rock"},
		Countries: []string{"UK", "US"},
		Decades:   []int{1960, 1990},
		Sizes:     []string{"7", "10", "12"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Facets mismatch (-want +got):\n%s", diff)
	}
}

func TestFacetsSizesNumericOrder(t *testing.T) {
	recs := []Record{
		{Size: SizeTen},
		{Size: SizeTwelve},
		{Size: SizeSeven},
	}

	got := Facets(recs)
	// Lexical order would be "10, 12, 7".
	if !equalStrings(got.Sizes, []string{"7", "10", "12"}) {
		t.Errorf("sizes = %v, want [7 10 12]", got.Sizes)
	}
}

func TestFacetsEmptySet(t *testing.T) {
	got := Facets(nil)
	if len(got.Genres) != 0 || len(got.Countries) != 0 || len(got.Decades) != 0 || len(got.Sizes) != 0 {
		t.Errorf("facets of empty set not empty: %+v", got)
	}
}

func TestPage(t *testing.T) {
	recs := testRecords()

	if got := Page(recs, 1, 2); len(got) != 2 || got[0].ID != "1" {
		t.Errorf("page 1: got %v", recordIDs(got))
	}
	if got := Page(recs, 2, 2); len(got) != 2 || got[0].ID != "3" {
		t.Errorf("page 2: got %v", recordIDs(got))
	}
	if got := Page(recs, 3, 2); len(got) != 0 {
		t.Errorf("page past end: got %v", recordIDs(got))
	}
	if got := Page(recs, 1, 0); len(got) != len(recs) {
		t.Errorf("perPage 0 should disable paging, got %d records", len(got))
	}
}
