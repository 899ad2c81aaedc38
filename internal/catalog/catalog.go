// package catalog implements a read-only client for the YouTube Data API
// v3: playlist headers, paginated playlist entries, and batched video
// details.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"coursetrack/internal/shared"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// PageSize is the maximum number of playlist entries the catalog
	// returns per page.
	PageSize = 50

	// BatchSize is the maximum number of video IDs accepted by a single
	// details lookup.
	BatchSize = 50

	defaultRateLimit = 8.0
)

// Error describes a failed catalog request. Status is zero when the
// request never completed (network failure, decode failure).
type Error struct {
	Endpoint string
	Status   int
	Cause    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog request to %s failed: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("catalog request to %s failed: %v", e.Endpoint, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports a match for the shared catalog sentinel so that callers can
// discriminate with errors.Is without inspecting the concrete type.
func (e *Error) Is(target error) bool { return target == shared.ErrCatalogRequest }

// PlaylistHeader is the playlist-level metadata returned by the catalog.
type PlaylistHeader struct {
	ID    string
	Title string
}

// Entry is one playlist entry: a video ID and its display title, in
// playlist order.
type Entry struct {
	VideoID string
	Title   string
}

// EntryPage is one page of playlist entries. NextPageToken is empty on
// the final page.
type EntryPage struct {
	Entries       []Entry
	NextPageToken string
	TotalResults  int
}

// VideoDetail carries the per-video fields fetched from the batch details
// endpoint. Duration is the raw ISO-8601 token as returned by the catalog.
type VideoDetail struct {
	ID       string
	Duration string
}

// Client issues parameterized read requests against the catalog API.
// It owns query encoding, API-key injection, and client-side rate
// limiting. It performs no retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a catalog client from configuration. A missing API
// key is a configuration error, surfaced here before any request is
// attempted.
func NewClient(cfg shared.CatalogConfig, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set catalog.api_key in config.toml", shared.ErrMissingCredentials)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}, nil
}

// get issues one GET request to endpoint with the given query parameters
// and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Endpoint: endpoint, Cause: err}
	}

	query := url.Values{}
	for name, value := range params {
		query.Set(name, value)
	}
	query.Set("key", c.apiKey)

	apiURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return &Error{Endpoint: endpoint, Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return &Error{Endpoint: endpoint, Status: resp.StatusCode, Cause: fmt.Errorf("%s", errResp.Error.Message)}
		}
		return &Error{Endpoint: endpoint, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &Error{Endpoint: endpoint, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// Playlist fetches the playlist header for the given ID. A playlist the
// catalog reports zero items for (including private and deleted
// playlists, which the API cannot distinguish) returns
// [shared.ErrPlaylistNotFound].
func (c *Client) Playlist(ctx context.Context, playlistID string) (*PlaylistHeader, error) {
	var resp struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}

	params := map[string]string{
		"part": "snippet",
		"id":   playlistID,
	}
	if err := c.get(ctx, "playlists", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s (it may be private or deleted)", shared.ErrPlaylistNotFound, playlistID)
	}

	return &PlaylistHeader{
		ID:    resp.Items[0].ID,
		Title: resp.Items[0].Snippet.Title,
	}, nil
}

// PlaylistItems fetches one page of up to [PageSize] playlist entries.
// pageToken carries the continuation token from the previous page; pass
// an empty string for the first page. The returned page's NextPageToken
// is empty when no pages remain.
func (c *Client) PlaylistItems(ctx context.Context, playlistID, pageToken string) (*EntryPage, error) {
	var resp struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			ContentDetails struct {
				VideoID string `json:"videoId"`
			} `json:"contentDetails"`
		} `json:"items"`
		NextPageToken string `json:"nextPageToken"`
		PageInfo      struct {
			TotalResults int `json:"totalResults"`
		} `json:"pageInfo"`
	}

	params := map[string]string{
		"part":       "snippet,contentDetails",
		"playlistId": playlistID,
		"maxResults": fmt.Sprintf("%d", PageSize),
	}
	if pageToken != "" {
		params["pageToken"] = pageToken
	}
	if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
		return nil, err
	}

	page := &EntryPage{
		Entries:       make([]Entry, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
		TotalResults:  resp.PageInfo.TotalResults,
	}
	for i, item := range resp.Items {
		page.Entries[i] = Entry{
			VideoID: item.ContentDetails.VideoID,
			Title:   item.Snippet.Title,
		}
	}

	return page, nil
}

// Videos fetches details for up to [BatchSize] video IDs in one call.
// The catalog may return fewer items than requested (deleted or region-
// locked videos); callers must join results by ID, not by position.
func (c *Client) Videos(ctx context.Context, videoIDs []string) ([]VideoDetail, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	if len(videoIDs) > BatchSize {
		return nil, fmt.Errorf("%w: at most %d video IDs per details request, got %d", shared.ErrInvalidArgument, BatchSize, len(videoIDs))
	}

	var resp struct {
		Items []struct {
			ID             string `json:"id"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	params := map[string]string{
		"part": "contentDetails",
		"id":   strings.Join(videoIDs, ","),
	}
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}

	details := make([]VideoDetail, len(resp.Items))
	for i, item := range resp.Items {
		details[i] = VideoDetail{
			ID:       item.ID,
			Duration: item.ContentDetails.Duration,
		}
	}

	return details, nil
}
