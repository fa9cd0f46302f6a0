// Package records holds the vinyl record model and the collection view
// engine: pure filtering, sorting, facet derivation and paging over an
// in-memory record set.
package records

import (
	"gopkg.in/guregu/null.v3"
)

// Known disc diameters in inches.
const (
	SizeSeven  = "7"
	SizeTen    = "10"
	SizeTwelve = "12"
)

// Record is one cataloged vinyl disc entry.
type Record struct {
	ID              string      `json:"id" gorm:"primaryKey"`
	Artist          string      `json:"artist"`
	AlbumName       string      `json:"album_name"`
	AlphabetArtist  null.String `json:"alphabet_artist"`
	ReleaseYear     null.String `json:"release_year"`
	Genre           null.String `json:"genre"`
	Country         null.String `json:"country"`
	Size            string      `json:"size"`
	Label           null.String `json:"label"`
	CatalogNumber   null.String `json:"catalog_number"`
	Compilation     int         `json:"compilation"`
	Star            null.String `json:"star"`
	Review          null.String `json:"review"`
	MusicLink       null.String `json:"music_link"`
	AcquisitionDate null.String `json:"acquisition_date"`
	StorageLocation null.String `json:"storage_location"`
	DiscogsID       null.String `json:"discogs_id"`
	CoverImage      null.String `json:"cover_image"`
}

func (Record) TableName() string {
	return "records"
}

// ValidSize reports whether s is one of the known disc sizes.
func ValidSize(s string) bool {
	return s == SizeSeven || s == SizeTen || s == SizeTwelve
}

func (r *Record) String() string {
	str := `"` + r.AlbumName + `"`
	if r.Artist != "" {
		str += ` by ` + r.Artist
	}
	return str
}
