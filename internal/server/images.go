package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tamatebox/record-collection-app/internal/images"
)

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		renderError(w, http.StatusBadRequest, errors.New("invalid image name"))
		return
	}

	body, contentType, err := s.images.Open(r.Context(), name)
	if errors.Is(err, images.ErrNotExist) {
		renderError(w, http.StatusNotFound, errors.New("image not found"))
		return
	} else if err != nil {
		renderError(w, http.StatusInternalServerError, err)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
