package catalog

import (
	"fmt"
	"net/url"

	"coursetrack/internal/shared"
)

// ExtractPlaylistID extracts the playlist identifier from a user-supplied
// URL string: the value of the `list` query parameter. Malformed input is
// an expected case and returns [shared.ErrInvalidURL], never a panic.
func ExtractPlaylistID(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidURL, raw)
	}

	id := u.Query().Get("list")
	if id == "" {
		return "", fmt.Errorf("%w: no list parameter in %q", shared.ErrInvalidURL, raw)
	}

	return id, nil
}

// WatchURL builds the watch page URL for a video in the context of its
// playlist, for display in the player pane.
func WatchURL(videoID, playlistID string) string {
	query := url.Values{}
	query.Set("v", videoID)
	query.Set("list", playlistID)
	return "https://www.youtube.com/watch?" + query.Encode()
}
