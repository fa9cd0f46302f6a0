package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tamatebox/record-collection-app/internal/prefs"
	"github.com/tamatebox/record-collection-app/internal/records"
)

func TestPreferences(t *testing.T) {
	db := &mockStore{
		allRecords: func(ctx context.Context) ([]records.Record, error) { return nil, nil },
	}
	handler := newTestServer(t, db, Options{})

	t.Run("defaults when unset", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		var p prefs.Preferences
		if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p != prefs.Default() {
			t.Errorf("got %+v, want defaults", p)
		}
	})

	t.Run("update persists", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/preferences", strings.NewReader(`{"view_mode":"grid"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))

		var p prefs.Preferences
		if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p.ViewMode != "grid" {
			t.Errorf("view_mode = %q, want grid", p.ViewMode)
		}
		// Untouched fields keep their stored value.
		if p.RecordsPerPage != prefs.Default().RecordsPerPage {
			t.Errorf("records_per_page = %d", p.RecordsPerPage)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/preferences", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
