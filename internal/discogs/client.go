// Package discogs is the client for the Discogs catalog API: keyword
// search, release detail and identity lookups, plus the mapping from
// catalog payloads to local records.
package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.discogs.com"

// ErrUnauthorized is returned when the catalog rejects the supplied token.
var ErrUnauthorized = errors.New("discogs: unauthorized")

type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		UserAgent: "RecordCollectionApp/1.0",
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Identity is the authenticated catalog user.
type Identity struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	ResourceURL string `json:"resource_url"`
}

// SearchResult is one hit of a keyword search. Fields the catalog returns
// with unstable shapes (scalar or array, string or number) are normalized
// at decode time.
type SearchResult struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Type        string      `json:"type"`
	Year        FlexString  `json:"year"`
	Country     string      `json:"country"`
	Genre       FlexStrings `json:"genre"`
	Style       FlexStrings `json:"style"`
	Label       FlexStrings `json:"label"`
	CatNo       FlexString  `json:"catno"`
	Format      FlexStrings `json:"format"`
	CoverImage  string      `json:"cover_image"`
	ResourceURL string      `json:"resource_url"`
}

type SearchResults struct {
	Results    []SearchResult  `json:"results"`
	Pagination json.RawMessage `json:"pagination"`
}

type Artist struct {
	Name        string `json:"name"`
	ID          int    `json:"id"`
	ResourceURL string `json:"resourceUrl"`
}

type Label struct {
	Name        string `json:"name"`
	CatNo       string `json:"catno"`
	ID          int    `json:"id"`
	ResourceURL string `json:"resourceUrl"`
}

type Format struct {
	Name         string      `json:"name"`
	Qty          FlexString  `json:"qty"`
	Descriptions FlexStrings `json:"descriptions"`
}

type Track struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

type Image struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	URI150 string `json:"uri150"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Release is the detail payload of one catalog release.
type Release struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Year        FlexString  `json:"year"`
	Country     string      `json:"country"`
	Genres      FlexStrings `json:"genres"`
	Styles      FlexStrings `json:"styles"`
	Artists     []Artist    `json:"artists"`
	Labels      []Label     `json:"labels"`
	Formats     []Format    `json:"formats"`
	Tracklist   []Track     `json:"tracklist"`
	Notes       string      `json:"notes"`
	Images      []Image     `json:"images"`
	ResourceURL string      `json:"resource_url"`
}

func (c *Client) Identity(ctx context.Context, token string) (*Identity, error) {
	var identity Identity
	err := c.get(ctx, token, "/oauth/identity", nil, &identity)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *Client) Search(ctx context.Context, token, query, searchType string, perPage int) (*SearchResults, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", searchType)
	q.Set("per_page", strconv.Itoa(perPage))

	var results SearchResults
	err := c.get(ctx, token, "/database/search", q, &results)
	if err != nil {
		return nil, err
	}
	return &results, nil
}

func (c *Client) Release(ctx context.Context, token, id string) (*Release, error) {
	var release Release
	err := c.get(ctx, token, "/releases/"+url.PathEscape(id), nil, &release)
	if err != nil {
		return nil, err
	}
	return &release, nil
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values, out interface{}) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Discogs token="+token)
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discogs: %s returned status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
