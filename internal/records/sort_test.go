package records

import (
	"testing"

	"gopkg.in/guregu/null.v3"
)

func TestSortByArtistUsesAlphabetFallback(t *testing.T) {
	recs := []Record{
		{ID: "1", Artist: "ビートルズ", AlphabetArtist: null.StringFrom("Beatles")},
		{ID: "2", Artist: "Aphex Twin"},
		{ID: "3", Artist: "Nirvana"},
	}

	got := Sort(recs, SortConfig{Key: "artist"})
	if ids := recordIDs(got); !equalStrings(ids, []string{"2", "1", "3"}) {
		t.Errorf("artist sort order = %v, want [2 1 3]", ids)
	}
}

func TestSortDescReversesAsc(t *testing.T) {
	recs := testRecords()

	asc := Sort(recs, SortConfig{Key: "album_name"})
	desc := Sort(recs, SortConfig{Key: "album_name", Desc: true})

	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("desc order is not the reverse of asc: asc=%v desc=%v",
				recordIDs(asc), recordIDs(desc))
		}
	}
}

func TestSortNumericValues(t *testing.T) {
	recs := []Record{
		{ID: "1", ReleaseYear: null.StringFrom("1001")},
		{ID: "2", ReleaseYear: null.StringFrom("999")},
		{ID: "3", ReleaseYear: null.StringFrom("1991")},
	}

	got := Sort(recs, SortConfig{Key: "release_year"})
	if ids := recordIDs(got); !equalStrings(ids, []string{"2", "1", "3"}) {
		t.Errorf("numeric year sort = %v, want [2 1 3]", ids)
	}
}

func TestSortStableForTies(t *testing.T) {
	recs := []Record{
		{ID: "1", Genre: null.StringFrom("Rock")},
		{ID: "2", Genre: null.StringFrom("Rock")},
		{ID: "3", Genre: null.StringFrom("Rock")},
	}

	got := Sort(recs, SortConfig{Key: "genre"})
	if ids := recordIDs(got); !equalStrings(ids, []string{"1", "2", "3"}) {
		t.Errorf("tied keys reordered: %v", ids)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	recs := testRecords()
	before := recordIDs(recs)
	Sort(recs, SortConfig{Key: "album_name", Desc: true})
	if after := recordIDs(recs); !equalStrings(before, after) {
		t.Errorf("input mutated: before=%v after=%v", before, after)
	}
}
