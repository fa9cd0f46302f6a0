package server

import (
	"encoding/json"
	"net/http"
)

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.prefs.Load()
	if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	renderJSON(w, http.StatusOK, p)
}

func (s *Server) putPreferences(w http.ResponseWriter, r *http.Request) {
	// Decode over the stored value so partial updates keep the other
	// fields intact.
	p, err := s.prefs.Load()
	if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		renderError(w, http.StatusBadRequest, err)
		return
	}
	p = p.Normalize()

	err = s.prefs.Save(p)
	if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}

	renderJSON(w, http.StatusOK, p)
}
