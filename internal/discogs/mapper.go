package discogs

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/tamatebox/record-collection-app/internal/records"
)

const defaultStorageLocation = "自宅"

// Discogs disambiguates duplicate artist names with a numeric suffix,
// e.g. "Nirvana (2)".
var artistSuffix = regexp.MustCompile(`\s*\(\d+\)$`)

// Mapped is a catalog payload converted to the local record shape. The
// cover image stays a remote URL; fetching it is the store's concern.
type Mapped struct {
	Record        records.Record
	CoverImageURL string
}

// MapRelease converts a release detail payload into a new record.
func MapRelease(rel *Release) Mapped {
	artist := ""
	if len(rel.Artists) > 0 {
		artist = cleanArtist(rel.Artists[0].Name)
	}

	label, catNo := "", ""
	if len(rel.Labels) > 0 {
		label = rel.Labels[0].Name
		catNo = rel.Labels[0].CatNo
	}

	genre := rel.Genres.First()
	if genre == "" {
		genre = rel.Styles.First()
	}

	compilation := 0
	if isCompilation(rel) {
		compilation = 1
	}

	coverImage := ""
	if len(rel.Images) > 0 {
		coverImage = rel.Images[0].URI
	}

	return Mapped{
		Record: records.Record{
			Artist:          artist,
			AlbumName:       rel.Title,
			AlphabetArtist:  optional(artist),
			ReleaseYear:     optional(string(rel.Year)),
			Genre:           optional(genre),
			Country:         optional(rel.Country),
			Size:            sizeFromFormats(rel.Formats),
			Label:           optional(label),
			CatalogNumber:   optional(strings.ToUpper(catNo)),
			Compilation:     compilation,
			MusicLink:       optional(rel.ResourceURL),
			AcquisitionDate: null.StringFrom(time.Now().Format("2006-01-02")),
			StorageLocation: null.StringFrom(defaultStorageLocation),
			DiscogsID:       optional(strconv.Itoa(rel.ID)),
		},
		CoverImageURL: coverImage,
	}
}

// MapSearchResult converts a single search hit into a new record. Search
// hits carry "Artist - Album" combined titles and coarser format data than
// release details.
func MapSearchResult(res SearchResult) Mapped {
	artist, album := SplitTitle(res.Title)
	artist = cleanArtist(artist)

	return Mapped{
		Record: records.Record{
			Artist:          artist,
			AlbumName:       album,
			AlphabetArtist:  optional(artist),
			ReleaseYear:     optional(string(res.Year)),
			Genre:           optional(res.Genre.First()),
			Country:         optional(res.Country),
			Size:            sizeFromDescriptions(res.Format),
			Label:           optional(res.Label.First()),
			CatalogNumber:   optional(strings.ToUpper(string(res.CatNo))),
			MusicLink:       optional(res.ResourceURL),
			AcquisitionDate: null.StringFrom(time.Now().Format("2006-01-02")),
			StorageLocation: null.StringFrom(defaultStorageLocation),
			DiscogsID:       optional(strconv.Itoa(res.ID)),
		},
		CoverImageURL: res.CoverImage,
	}
}

// SplitTitle separates a combined "Artist - Album" title. A title without
// a separator is treated as the artist alone.
func SplitTitle(title string) (string, string) {
	if title == "" {
		return "", ""
	}

	artist, album, found := strings.Cut(title, " - ")
	if !found {
		artist, album, found = strings.Cut(title, "-")
	}
	if !found {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(artist), strings.TrimSpace(album)
}

func cleanArtist(name string) string {
	return artistSuffix.ReplaceAllString(name, "")
}

func sizeFromFormats(formats []Format) string {
	if len(formats) == 0 {
		return records.SizeTwelve
	}

	format := formats[0]
	if format.Name != "Vinyl" {
		return records.SizeTwelve
	}
	return sizeFromDescriptions(format.Descriptions)
}

func sizeFromDescriptions(descriptions []string) string {
	for _, d := range descriptions {
		switch {
		case strings.Contains(d, `7"`):
			return records.SizeSeven
		case strings.Contains(d, `10"`):
			return records.SizeTen
		case strings.Contains(d, `12"`):
			return records.SizeTwelve
		}
	}
	return records.SizeTwelve
}

func isCompilation(rel *Release) bool {
	if len(rel.Formats) > 0 {
		for _, d := range rel.Formats[0].Descriptions {
			if strings.Contains(strings.ToLower(d), "compilation") {
				return true
			}
		}
	}

	if len(rel.Artists) > 0 &&
		strings.Contains(strings.ToLower(rel.Artists[0].Name), "various") {
		return true
	}
	return false
}

func optional(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
