package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix is the URL path covers are served from. Keys are appended
// directly, so a stored path is always PublicPrefix + "/" + key.
const PublicPrefix = "/images/record-covers/full-size"

var knownExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Store persists cover images under deterministic id-scoped keys.
type Store struct {
	provider Provider
	client   *http.Client
}

func NewStore(provider Provider) *Store {
	return &Store{
		provider: provider,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Key returns the deterministic object key for a record id and extension.
func Key(id, ext string) string {
	return "record_" + id + "_full" + ext
}

// SaveUpload persists an uploaded cover for the record with id and returns
// its public path.
func (s *Store) SaveUpload(ctx context.Context, id, filename string, body io.Reader) (string, error) {
	ext := normalizeExtension(filepath.Ext(filename))
	key := Key(id, ext)

	err := s.provider.Put(ctx, key, body, mime.TypeByExtension(ext))
	if err != nil {
		return "", err
	}
	return PublicPrefix + "/" + key, nil
}

// FetchAndStore downloads the image at rawURL and persists it for the
// record with id, returning its public path. The body is staged in a
// temporary file first so a broken download never becomes the stored cover.
func (s *Store) FetchAndStore(ctx context.Context, id, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	tmpPath := filepath.Join(os.TempDir(), "cover-"+uuid.NewString())
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpPath)

	_, err = io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return "", err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", err
	}
	defer tmp.Close()

	ext := extensionFor(resp.Header.Get("Content-Type"), rawURL)
	key := Key(id, ext)

	err = s.provider.Put(ctx, key, tmp, mime.TypeByExtension(ext))
	if err != nil {
		return "", err
	}
	return PublicPrefix + "/" + key, nil
}

// Open streams the stored cover with the given key.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.provider.Open(ctx, key)
}

// Lookup returns the public path of the cover stored for id, if any.
func (s *Store) Lookup(ctx context.Context, id string) (string, bool, error) {
	for _, ext := range knownExtensions {
		key := Key(id, ext)
		ok, err := s.provider.Exists(ctx, key)
		if err != nil {
			return "", false, err
		}
		if ok {
			return PublicPrefix + "/" + key, true, nil
		}
	}
	return "", false, nil
}

// Remove deletes any cover stored for id. Missing files are not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	var firstErr error
	for _, ext := range knownExtensions {
		err := s.provider.Delete(ctx, Key(id, ext))
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		slog.Error("removing cover image", "id", id, "error", firstErr)
	}
	return firstErr
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	for _, known := range knownExtensions {
		if ext == known {
			return ext
		}
	}
	return ".jpg"
}

func extensionFor(contentType, rawURL string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	}

	if u, err := url.Parse(rawURL); err == nil {
		return normalizeExtension(path.Ext(u.Path))
	}
	return ".jpg"
}
