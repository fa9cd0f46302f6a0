package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tamatebox/record-collection-app/internal/discogs"
	"github.com/tamatebox/record-collection-app/internal/images"
	"github.com/tamatebox/record-collection-app/internal/prefs"
	"github.com/tamatebox/record-collection-app/internal/records"
)

func TestGetImage(t *testing.T) {
	dir := t.TempDir()
	provider, err := images.NewLocalProvider(dir)
	if err != nil {
		t.Fatal(err)
	}
	store := images.NewStore(provider)

	_, err = store.SaveUpload(context.Background(), "5", "cover.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	db := &mockStore{
		allRecords: func(ctx context.Context) ([]records.Record, error) { return nil, nil },
	}
	handler := New(db, store, discogs.NewClient(),
		prefs.NewFileStore(filepath.Join(dir, "prefs.json")),
		Options{SessionSecret: []byte("test-secret")})

	t.Run("serves stored cover", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, images.PublicPrefix+"/record_5_full.png", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if got := w.Header().Get("Content-Type"); got != "image/png" {
			t.Errorf("content type = %q", got)
		}
		if w.Body.String() != "png-bytes" {
			t.Errorf("body = %q", w.Body.String())
		}
	})

	t.Run("missing cover", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, images.PublicPrefix+"/record_99_full.png", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("rejects traversal", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, images.PublicPrefix+"/..%2Fprefs.json", nil))
		if w.Code != http.StatusBadRequest && w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want rejection", w.Code)
		}
	})
}
