package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/guregu/null.v3"

	"github.com/tamatebox/record-collection-app/internal/database"
	"github.com/tamatebox/record-collection-app/internal/records"
)

// Cover image side-effect outcomes, reported alongside create/update
// responses instead of being swallowed.
const (
	imageStatusNone   = "none"
	imageStatusSaved  = "saved"
	imageStatusFailed = "failed"
)

type recordResponse struct {
	records.Record
	CoverImageStatus string `json:"cover_image_status"`
}

func (s *Server) getRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.db.AllRecords(r.Context())
	if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	q := r.URL.Query()

	filter := records.Filter{
		Search:    q.Get("search"),
		Genres:    q["genre"],
		Countries: q["country"],
		Sizes:     q["size"],
	}
	for _, d := range q["decade"] {
		n, err := strconv.Atoi(d)
		if err != nil {
			renderError(w, http.StatusBadRequest, fmt.Errorf("invalid decade %q", d))
			return
		}
		filter.Decades = append(filter.Decades, n)
	}
	recs = records.Apply(recs, filter)

	if key := q.Get("sort"); key != "" {
		recs = records.Sort(recs, records.SortConfig{
			Key:  key,
			Desc: q.Get("order") == "desc",
		})
	}

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			renderError(w, http.StatusBadRequest, fmt.Errorf("invalid page %q", pageStr))
			return
		}

		perPage := 0
		if perStr := q.Get("per_page"); perStr != "" {
			perPage, err = strconv.Atoi(perStr)
			if err != nil {
				renderError(w, http.StatusBadRequest, fmt.Errorf("invalid per_page %q", perStr))
				return
			}
		} else if p, err := s.prefs.Load(); err == nil {
			perPage = p.RecordsPerPage
		}
		recs = records.Page(recs, page, perPage)
	}

	renderJSON(w, http.StatusOK, recs)
}

func (s *Server) getFacets(w http.ResponseWriter, r *http.Request) {
	recs, err := s.db.AllRecords(r.Context())
	if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	renderJSON(w, http.StatusOK, records.Facets(recs))
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		renderError(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	// A row loses its cover_image path when phase two of a mutation died
	// between storing the file and updating the column. Recover it from
	// storage on read.
	if rec.CoverImage.ValueOrZero() == "" {
		if path, ok, err := s.images.Lookup(r.Context(), rec.ID); err == nil && ok {
			if err := s.db.SetCoverImage(r.Context(), rec.ID, path); err == nil {
				rec.CoverImage = null.StringFrom(path)
			}
		}
	}

	renderJSON(w, http.StatusOK, rec)
}

func (s *Server) postRecord(w http.ResponseWriter, r *http.Request) {
	parsed, err := parseRecordRequest(r)
	if err != nil {
		renderError(w, http.StatusBadRequest, err)
		return
	}

	// Size is free-form on the wire, only the known diameters are expected.
	if !records.ValidSize(parsed.record.Size) {
		slog.Warn("unknown record size", "size", parsed.record.Size)
	}

	// Phase one: commit the row. The image side effect never decides the
	// fate of the mutation.
	created, err := s.db.CreateRecord(r.Context(), parsed.record)
	if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	slog.Info("record created", "id", created.ID, "record", created.String())

	status := s.attachCoverImage(r.Context(), created, parsed)

	renderJSON(w, http.StatusCreated, recordResponse{
		Record:           *created,
		CoverImageStatus: status,
	})
}

func (s *Server) putRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	parsed, err := parseRecordRequest(r)
	if err != nil {
		renderError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := s.db.UpdateRecord(r.Context(), id, parsed.record)
	if errors.Is(err, database.ErrNotFound) {
		renderError(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	status := s.attachCoverImage(r.Context(), updated, parsed)

	renderJSON(w, http.StatusOK, recordResponse{
		Record:           *updated,
		CoverImageStatus: status,
	})
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.db.GetRecord(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		renderError(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	// Best-effort: a leftover file must not block the delete.
	_ = s.images.Remove(r.Context(), rec.ID)

	err = s.db.DeleteRecord(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		renderError(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "record deleted",
	})
}

type parsedRecord struct {
	record        *records.Record
	coverFile     multipart.File
	coverFilename string
	coverImageURL string
}

// parseRecordRequest accepts either a JSON body or a multipart form with a
// JSON-encoded "data" field, an optional "coverImage" file and an optional
// "coverImageUrl" string.
func parseRecordRequest(r *http.Request) (*parsedRecord, error) {
	type payload struct {
		records.Record
		CoverImageURL string `json:"coverImageUrl"`
	}

	var p payload
	parsed := &parsedRecord{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err := r.ParseMultipartForm(32 << 20)
		if err != nil {
			return nil, err
		}

		err = json.Unmarshal([]byte(r.FormValue("data")), &p)
		if err != nil {
			return nil, fmt.Errorf("invalid data field: %w", err)
		}

		file, header, err := r.FormFile("coverImage")
		if err == nil {
			parsed.coverFile = file
			parsed.coverFilename = header.Filename
		} else if !errors.Is(err, http.ErrMissingFile) {
			return nil, err
		}

		if v := r.FormValue("coverImageUrl"); v != "" {
			p.CoverImageURL = v
		}
	} else {
		err := json.NewDecoder(r.Body).Decode(&p)
		if err != nil {
			return nil, err
		}
	}

	// The image column is only written through the image side effect.
	p.Record.CoverImage = null.String{}

	parsed.record = &p.Record
	parsed.coverImageURL = p.CoverImageURL
	return parsed, nil
}

// attachCoverImage runs phase two of a mutation: persist the supplied
// image, if any, and point the committed row at it. Failures are logged
// and reported through the returned status, never as a request error.
func (s *Server) attachCoverImage(ctx context.Context, rec *records.Record, parsed *parsedRecord) string {
	var (
		path string
		err  error
	)

	switch {
	case parsed.coverFile != nil:
		defer parsed.coverFile.Close()
		path, err = s.images.SaveUpload(ctx, rec.ID, parsed.coverFilename, parsed.coverFile)
	case parsed.coverImageURL != "":
		path, err = s.images.FetchAndStore(ctx, rec.ID, parsed.coverImageURL)
	default:
		return imageStatusNone
	}

	if err != nil {
		slog.Error("storing cover image", "id", rec.ID, "error", err)
		return imageStatusFailed
	}

	err = s.db.SetCoverImage(ctx, rec.ID, path)
	if err != nil {
		slog.Error("recording cover image path", "id", rec.ID, "error", err)
		return imageStatusFailed
	}

	rec.CoverImage = null.StringFrom(path)
	return imageStatusSaved
}
