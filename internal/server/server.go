// Package server exposes the record collection over a JSON REST API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/tamatebox/record-collection-app/internal/discogs"
	"github.com/tamatebox/record-collection-app/internal/images"
	"github.com/tamatebox/record-collection-app/internal/prefs"
	"github.com/tamatebox/record-collection-app/internal/records"
)

// RecordStore is the persistence surface the handlers depend on.
type RecordStore interface {
	AllRecords(ctx context.Context) ([]records.Record, error)
	GetRecord(ctx context.Context, id string) (*records.Record, error)
	CreateRecord(ctx context.Context, rec *records.Record) (*records.Record, error)
	UpdateRecord(ctx context.Context, id string, rec *records.Record) (*records.Record, error)
	SetCoverImage(ctx context.Context, id, path string) error
	DeleteRecord(ctx context.Context, id string) error
}

type Options struct {
	// DiscogsToken is the shared catalog access token. Sessions receive a
	// copy of it; there is no per-user token scoping.
	DiscogsToken string
	// APIToken, when set, guards mutating record endpoints.
	APIToken string
	// SessionSecret signs the session cookie.
	SessionSecret []byte
}

type Server struct {
	db           RecordStore
	images       *images.Store
	catalog      *discogs.Client
	prefs        prefs.Store
	jwtAuth      *jwtauth.JWTAuth
	discogsToken string
	apiToken     string
}

func New(db RecordStore, imageStore *images.Store, catalog *discogs.Client, prefStore prefs.Store, opts Options) http.Handler {
	s := &Server{
		db:           db,
		images:       imageStore,
		catalog:      catalog,
		prefs:        prefStore,
		jwtAuth:      jwtauth.New("HS256", opts.SessionSecret, nil),
		discogsToken: opts.DiscogsToken,
		apiToken:     opts.APIToken,
	}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests)
	r.Use(jwtauth.Verifier(s.jwtAuth))

	r.Get("/health", s.getHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.getRecords)
			r.Get("/facets", s.getFacets)
			r.Get("/{id}", s.getRecord)

			r.Group(func(r chi.Router) {
				if s.apiToken != "" {
					r.Use(requireAPIToken(s.apiToken))
				}
				r.Post("/", s.postRecord)
				r.Put("/{id}", s.putRecord)
				r.Delete("/{id}", s.deleteRecord)
			})
		})

		r.Route("/discogs", func(r chi.Router) {
			r.Get("/identity", s.getDiscogsIdentity)
			r.Get("/token", s.getDiscogsToken)
			r.Get("/auto-token", s.getDiscogsAutoToken)
			r.Post("/access-token", s.postDiscogsAccessToken)
			r.Get("/authorize-url", s.getDiscogsAuthorizeURL)
			r.Get("/search", s.getDiscogsSearch)
			r.Get("/release/{id}", s.getDiscogsRelease)
			r.Get("/release/{id}/record", s.getDiscogsReleaseRecord)
			r.Get("/validate-token", s.getDiscogsValidateToken)
			r.Post("/logout", s.postDiscogsLogout)
		})

		r.Get("/preferences", s.getPreferences)
		r.Put("/preferences", s.putPreferences)
	})

	r.Get(images.PublicPrefix+"/{name}", s.getImage)

	return r
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "record-collection-app",
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func requireAPIToken(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Token "+token {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
