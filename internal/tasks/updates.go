package tasks

import (
	"fmt"

	"coursetrack/internal/models"
)

// ProgressUpdate represents a progress event during a long-running
// operation, sent to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase (0 when unknown)
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveURL Phase = iota
	FetchPlaylist
	FetchEntries
	FetchDetails
	Reconcile
	Assembled
)

func (p Phase) String() string {
	switch p {
	case ResolveURL:
		return "resolve_url"
	case FetchPlaylist:
		return "fetch_playlist"
	case FetchEntries:
		return "fetch_entries"
	case FetchDetails:
		return "fetch_details"
	case Reconcile:
		return "reconcile"
	case Assembled:
		return "assembled"
	default:
		return ""
	}
}

func resolveURLUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveURL,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolved playlist ID: %s", playlistID),
	}
}

func fetchPlaylistUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s", title),
	}
}

func fetchEntriesUpdate(page, accumulated, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchEntries,
		Step:    page,
		Total:   0,
		Message: fmt.Sprintf("Fetching entries (page %d, %d/%d videos)...", page, accumulated, total),
	}
}

func fetchDetailsUpdate(batch, totalBatches int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    batch,
		Total:   totalBatches,
		Message: fmt.Sprintf("Fetching video details (batch %d/%d)...", batch, totalBatches),
	}
}

func reconcileUpdate(restored int) ProgressUpdate {
	msg := "No saved progress for this playlist"
	if restored > 0 {
		msg = fmt.Sprintf("Restored progress: %d videos already completed", restored)
	}
	return ProgressUpdate{
		Phase:   Reconcile,
		Step:    1,
		Total:   1,
		Message: msg,
	}
}

func assembledUpdate(course *models.Course) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Assembled,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Course ready: %s (%d videos)", course.Title, len(course.Videos)),
		Data:    course,
	}
}
