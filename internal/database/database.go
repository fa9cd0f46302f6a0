// Package database is the durable record store, backed by a single SQLite
// table.
package database

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tamatebox/record-collection-app/internal/records"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

type Database struct {
	db *gorm.DB
}

func New(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&records.Record{})
	if err != nil {
		return nil, err
	}

	return &Database{
		db: db,
	}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) AllRecords(ctx context.Context) ([]records.Record, error) {
	var recs []records.Record
	return recs, d.db.WithContext(ctx).Find(&recs).Error
}

func (d *Database) GetRecord(ctx context.Context, id string) (*records.Record, error) {
	var rec records.Record
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateRecord inserts rec and returns the persisted row as read back from
// the table. When rec carries no id, one is allocated as the highest
// existing numeric id plus one; an empty table explicitly yields "1".
func (d *Database) CreateRecord(ctx context.Context, rec *records.Record) (*records.Record, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rec.ID == "" {
			var maxID int64
			err := tx.Model(&records.Record{}).
				Select("COALESCE(MAX(CAST(id AS INTEGER)), 0)").
				Scan(&maxID).Error
			if err != nil {
				return err
			}
			rec.ID = strconv.FormatInt(maxID+1, 10)
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, err
	}

	return d.GetRecord(ctx, rec.ID)
}

// UpdateRecord overwrites every mutable field of the row with id. The cover
// image column is left untouched; it only changes through SetCoverImage.
func (d *Database) UpdateRecord(ctx context.Context, id string, rec *records.Record) (*records.Record, error) {
	res := d.db.WithContext(ctx).
		Model(&records.Record{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"artist":           rec.Artist,
			"album_name":       rec.AlbumName,
			"alphabet_artist":  rec.AlphabetArtist,
			"release_year":     rec.ReleaseYear,
			"genre":            rec.Genre,
			"country":          rec.Country,
			"size":             rec.Size,
			"label":            rec.Label,
			"catalog_number":   rec.CatalogNumber,
			"compilation":      rec.Compilation,
			"star":             rec.Star,
			"review":           rec.Review,
			"music_link":       rec.MusicLink,
			"acquisition_date": rec.AcquisitionDate,
			"storage_location": rec.StorageLocation,
			"discogs_id":       rec.DiscogsID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return d.GetRecord(ctx, id)
}

// SetCoverImage stores the public image path of the row with id.
func (d *Database) SetCoverImage(ctx context.Context, id, path string) error {
	res := d.db.WithContext(ctx).
		Model(&records.Record{}).
		Where("id = ?", id).
		Update("cover_image", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Database) DeleteRecord(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Where("id = ?", id).Delete(&records.Record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
