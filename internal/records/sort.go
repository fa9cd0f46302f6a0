package records

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortConfig selects the column and direction for ordering the list view.
type SortConfig struct {
	Key  string
	Desc bool
}

// Sort returns a new slice ordered by cfg. When both comparison values
// parse as numbers they compare numerically, otherwise by collation order.
// Ties keep their input order.
func Sort(recs []Record, cfg SortConfig) []Record {
	out := make([]Record, len(recs))
	copy(out, recs)

	// A Collator is not safe for concurrent use, so each call gets its own.
	c := collate.New(language.Japanese)

	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareValues(c, sortValue(out[i], cfg.Key), sortValue(out[j], cfg.Key))
		if cfg.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// sortValue extracts the comparison value for key. Sorting by artist
// prefers the romanized name so it anchors the alphabetical position of
// native-script names.
func sortValue(r Record, key string) string {
	switch key {
	case "artist":
		if v := r.AlphabetArtist.ValueOrZero(); v != "" {
			return v
		}
		return r.Artist
	case "album_name":
		return r.AlbumName
	case "release_year":
		return r.ReleaseYear.ValueOrZero()
	case "genre":
		return r.Genre.ValueOrZero()
	case "country":
		return r.Country.ValueOrZero()
	case "size":
		return r.Size
	case "label":
		return r.Label.ValueOrZero()
	case "catalog_number":
		return r.CatalogNumber.ValueOrZero()
	case "star":
		return r.Star.ValueOrZero()
	case "music_link":
		return r.MusicLink.ValueOrZero()
	case "acquisition_date":
		return r.AcquisitionDate.ValueOrZero()
	case "storage_location":
		return r.StorageLocation.ValueOrZero()
	case "id":
		return r.ID
	default:
		return ""
	}
}

func compareValues(c *collate.Collator, a, b string) int {
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return c.CompareString(a, b)
}
