package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursetrack/internal/shared"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(shared.CatalogConfig{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		RateLimit: 1000,
	}, server.Client())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewClient(shared.CatalogConfig{}, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("defaults base url and rate", func(t *testing.T) {
		client, err := NewClient(shared.CatalogConfig{APIKey: "k"}, nil)
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client.baseURL != defaultBaseURL {
			t.Errorf("baseURL = %q, want %q", client.baseURL, defaultBaseURL)
		}
	})
}

func TestPlaylist(t *testing.T) {
	t.Run("returns header", func(t *testing.T) {
		var gotQuery map[string]string
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"part": r.URL.Query().Get("part"),
				"id":   r.URL.Query().Get("id"),
				"key":  r.URL.Query().Get("key"),
			}
			fmt.Fprint(w, `{"items":[{"id":"PLabc","snippet":{"title":"Go Course"}}]}`)
		}))

		header, err := client.Playlist(context.Background(), "PLabc")
		if err != nil {
			t.Fatalf("Playlist failed: %v", err)
		}
		if header.ID != "PLabc" || header.Title != "Go Course" {
			t.Errorf("unexpected header: %+v", header)
		}
		if gotQuery["part"] != "snippet" || gotQuery["id"] != "PLabc" || gotQuery["key"] != "test-key" {
			t.Errorf("unexpected query parameters: %v", gotQuery)
		}
	})

	t.Run("empty items means not found", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items":[]}`)
		}))

		_, err := client.Playlist(context.Background(), "PLmissing")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("api error surfaces status and message", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
		}))

		_, err := client.Playlist(context.Background(), "PLabc")
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, shared.ErrCatalogRequest) {
			t.Errorf("error %v is not ErrCatalogRequest", err)
		}

		var catErr *Error
		if !errors.As(err, &catErr) {
			t.Fatalf("error %v is not *Error", err)
		}
		if catErr.Status != http.StatusForbidden {
			t.Errorf("status = %d, want %d", catErr.Status, http.StatusForbidden)
		}
		if catErr.Cause == nil || catErr.Cause.Error() != "quota exceeded" {
			t.Errorf("cause = %v, want quota message", catErr.Cause)
		}
	})

	t.Run("malformed error body still carries status", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "not json")
		}))

		_, err := client.Playlist(context.Background(), "PLabc")
		var catErr *Error
		if !errors.As(err, &catErr) {
			t.Fatalf("error %v is not *Error", err)
		}
		if catErr.Status != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", catErr.Status)
		}
	})
}

func TestPlaylistItems(t *testing.T) {
	t.Run("first page omits token", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Has("pageToken") {
				t.Errorf("first page request carried pageToken %q", r.URL.Query().Get("pageToken"))
			}
			if got := r.URL.Query().Get("maxResults"); got != "50" {
				t.Errorf("maxResults = %q, want 50", got)
			}
			fmt.Fprint(w, `{
				"items": [
					{"snippet":{"title":"Lesson 1"},"contentDetails":{"videoId":"v1"}},
					{"snippet":{"title":"Lesson 2"},"contentDetails":{"videoId":"v2"}}
				],
				"nextPageToken": "tok2",
				"pageInfo": {"totalResults": 120}
			}`)
		}))

		page, err := client.PlaylistItems(context.Background(), "PLabc", "")
		if err != nil {
			t.Fatalf("PlaylistItems failed: %v", err)
		}
		if len(page.Entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(page.Entries))
		}
		if page.Entries[0].VideoID != "v1" || page.Entries[0].Title != "Lesson 1" {
			t.Errorf("unexpected first entry: %+v", page.Entries[0])
		}
		if page.NextPageToken != "tok2" {
			t.Errorf("NextPageToken = %q, want tok2", page.NextPageToken)
		}
		if page.TotalResults != 120 {
			t.Errorf("TotalResults = %d, want 120", page.TotalResults)
		}
	})

	t.Run("continuation carries token", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("pageToken"); got != "tok2" {
				t.Errorf("pageToken = %q, want tok2", got)
			}
			fmt.Fprint(w, `{"items":[],"pageInfo":{"totalResults":120}}`)
		}))

		page, err := client.PlaylistItems(context.Background(), "PLabc", "tok2")
		if err != nil {
			t.Fatalf("PlaylistItems failed: %v", err)
		}
		if page.NextPageToken != "" {
			t.Errorf("final page NextPageToken = %q, want empty", page.NextPageToken)
		}
	})
}

func TestVideos(t *testing.T) {
	t.Run("joins ids into csv", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("id"); got != "v1,v2" {
				t.Errorf("id = %q, want v1,v2", got)
			}
			fmt.Fprint(w, `{"items":[
				{"id":"v2","contentDetails":{"duration":"PT5M"}},
				{"id":"v1","contentDetails":{"duration":"PT1H"}}
			]}`)
		}))

		details, err := client.Videos(context.Background(), []string{"v1", "v2"})
		if err != nil {
			t.Fatalf("Videos failed: %v", err)
		}
		if len(details) != 2 {
			t.Fatalf("got %d details, want 2", len(details))
		}
		// The API does not promise request order.
		if details[0].ID != "v2" || details[0].Duration != "PT5M" {
			t.Errorf("unexpected detail: %+v", details[0])
		}
	})

	t.Run("empty input short-circuits", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		details, err := client.Videos(context.Background(), nil)
		if err != nil {
			t.Fatalf("Videos failed: %v", err)
		}
		if details != nil {
			t.Errorf("expected nil details, got %v", details)
		}
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		ids := make([]string, BatchSize+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("v%d", i)
		}
		_, err := client.Videos(context.Background(), ids)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
