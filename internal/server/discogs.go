package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tamatebox/record-collection-app/internal/discogs"
	"github.com/tamatebox/record-collection-app/internal/records"
)

var errAuthRequired = errors.New("authentication required")

// discogsSearchHit is the flattened shape the UI consumes; the catalog's
// array-valued fields are reduced to their first element.
type discogsSearchHit struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Year        string `json:"year"`
	Country     string `json:"country"`
	Genre       string `json:"genre"`
	Style       string `json:"style"`
	Label       string `json:"label"`
	CatNo       string `json:"catno"`
	CoverImage  string `json:"coverImage"`
	ResourceURL string `json:"resourceUrl"`
}

type mappedRecord struct {
	Record        records.Record `json:"record"`
	CoverImageURL string         `json:"cover_image_url"`
}

func (s *Server) getDiscogsIdentity(w http.ResponseWriter, r *http.Request) {
	token := s.tokenFromRequest(r)
	if token == "" {
		renderError(w, http.StatusUnauthorized, errAuthRequired)
		return
	}

	identity, err := s.catalog.Identity(r.Context(), token)
	if errors.Is(err, discogs.ErrUnauthorized) {
		renderError(w, http.StatusUnauthorized, err)
		return
	} else if err != nil {
		renderError(w, http.StatusBadGateway, err)
		return
	}

	renderJSON(w, http.StatusOK, identity)
}

func (s *Server) getDiscogsToken(w http.ResponseWriter, r *http.Request) {
	if s.discogsToken == "" {
		renderError(w, http.StatusInternalServerError, errors.New("discogs token is not configured"))
		return
	}

	err := s.issueSessionCookie(w, r, s.discogsToken)
	if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]string{
		"accessToken": s.discogsToken,
	})
}

// Kept for compatibility with older clients.
func (s *Server) getDiscogsAutoToken(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/discogs/token", http.StatusFound)
}

// The manual OAuth flow is retired in favor of the shared token.
func (s *Server) postDiscogsAccessToken(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusForbidden, map[string]string{
		"error":   "authentication method has changed",
		"details": "this application only uses automatic authentication",
	})
}

func (s *Server) getDiscogsAuthorizeURL(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusForbidden, map[string]string{
		"error":   "authentication method has changed",
		"details": "this application only uses automatic authentication",
	})
}

func (s *Server) getDiscogsSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("query")
	if query == "" {
		renderError(w, http.StatusBadRequest, errors.New("search query is required"))
		return
	}

	searchType := q.Get("type")
	if searchType == "" {
		searchType = "release"
	}

	perPage := 10
	if v := q.Get("perPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			renderError(w, http.StatusBadRequest, errors.New("invalid perPage"))
			return
		}
		perPage = n
	}

	token := s.tokenFromRequest(r)
	if token == "" {
		renderError(w, http.StatusUnauthorized, errAuthRequired)
		return
	}

	results, err := s.catalog.Search(r.Context(), token, query, searchType, perPage)
	if errors.Is(err, discogs.ErrUnauthorized) {
		renderError(w, http.StatusUnauthorized, err)
		return
	} else if err != nil {
		renderError(w, http.StatusBadGateway, err)
		return
	}

	if q.Get("format") == "records" {
		mapped := make([]mappedRecord, 0, len(results.Results))
		for _, hit := range results.Results {
			m := discogs.MapSearchResult(hit)
			mapped = append(mapped, mappedRecord{
				Record:        m.Record,
				CoverImageURL: m.CoverImageURL,
			})
		}
		renderJSON(w, http.StatusOK, map[string]interface{}{
			"results":    mapped,
			"pagination": results.Pagination,
		})
		return
	}

	hits := make([]discogsSearchHit, 0, len(results.Results))
	for _, res := range results.Results {
		hits = append(hits, discogsSearchHit{
			ID:          res.ID,
			Title:       res.Title,
			Type:        res.Type,
			Year:        string(res.Year),
			Country:     res.Country,
			Genre:       res.Genre.First(),
			Style:       res.Style.First(),
			Label:       res.Label.First(),
			CatNo:       string(res.CatNo),
			CoverImage:  res.CoverImage,
			ResourceURL: res.ResourceURL,
		})
	}

	renderJSON(w, http.StatusOK, map[string]interface{}{
		"results":    hits,
		"pagination": results.Pagination,
	})
}

func (s *Server) getDiscogsRelease(w http.ResponseWriter, r *http.Request) {
	release, ok := s.fetchRelease(w, r)
	if !ok {
		return
	}
	renderJSON(w, http.StatusOK, release)
}

// getDiscogsReleaseRecord returns the release already mapped to the local
// record shape, ready for a create call.
func (s *Server) getDiscogsReleaseRecord(w http.ResponseWriter, r *http.Request) {
	release, ok := s.fetchRelease(w, r)
	if !ok {
		return
	}

	m := discogs.MapRelease(release)
	renderJSON(w, http.StatusOK, mappedRecord{
		Record:        m.Record,
		CoverImageURL: m.CoverImageURL,
	})
}

func (s *Server) fetchRelease(w http.ResponseWriter, r *http.Request) (*discogs.Release, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		renderError(w, http.StatusBadRequest, errors.New("release id is required"))
		return nil, false
	}

	token := s.tokenFromRequest(r)
	if token == "" {
		renderError(w, http.StatusUnauthorized, errAuthRequired)
		return nil, false
	}

	release, err := s.catalog.Release(r.Context(), token, id)
	if errors.Is(err, discogs.ErrUnauthorized) {
		renderError(w, http.StatusUnauthorized, err)
		return nil, false
	} else if err != nil {
		renderError(w, http.StatusBadGateway, err)
		return nil, false
	}
	return release, true
}

func (s *Server) getDiscogsValidateToken(w http.ResponseWriter, r *http.Request) {
	token := s.tokenFromRequest(r)
	if token == "" {
		renderJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"valid": false,
			"error": "no token available",
		})
		return
	}

	_, err := s.catalog.Identity(r.Context(), token)
	if errors.Is(err, discogs.ErrUnauthorized) {
		// An invalid session token is dropped so the next call falls back
		// to the configured one.
		s.clearSessionCookie(w, r)
		renderJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"valid": false,
			"error": "token is invalid",
		})
		return
	} else if err != nil {
		renderError(w, http.StatusBadGateway, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]interface{}{"valid": true})
}

func (s *Server) postDiscogsLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w, r)
	renderJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "logged out",
	})
}
