package tasks

import (
	"context"
	"fmt"

	"coursetrack/internal/catalog"
	"coursetrack/internal/formatter"
	"coursetrack/internal/models"
	"coursetrack/internal/shared"
)

// maxEntryPages bounds the pagination loop. The catalog caps playlists
// well below this; a token stream that never ends is treated as a catalog
// fault rather than looping forever.
const maxEntryPages = 200

// zeroDuration is the fallback token for entries the details lookup
// returned nothing for (deleted or region-locked videos).
const zeroDuration = "PT0S"

// Catalog defines the read operations the pipeline needs from the
// catalog client. Satisfied by [catalog.Client].
type Catalog interface {
	// Playlist fetches the playlist header for the given ID.
	Playlist(ctx context.Context, playlistID string) (*catalog.PlaylistHeader, error)

	// PlaylistItems fetches one page of playlist entries, carrying the
	// continuation token from the previous page.
	PlaylistItems(ctx context.Context, playlistID, pageToken string) (*catalog.EntryPage, error)

	// Videos fetches details for up to catalog.BatchSize video IDs.
	Videos(ctx context.Context, videoIDs []string) ([]catalog.VideoDetail, error)
}

// Library defines what the pipeline needs from the course library: the
// duplicate check performed before any network I/O, and the saved
// progress record consulted during reconciliation.
type Library interface {
	HasCourse(courseID string) (bool, error)
	Progress(courseID string) (*models.CourseProgress, error)
}

// CourseEngine orchestrates playlist ingestion. The caller is
// responsible for inserting the returned course into the library and
// activating it; no partial course is ever committed.
type CourseEngine struct {
	catalog Catalog
	library Library
}

// NewCourseEngine creates a new CourseEngine with the provided
// dependencies.
func NewCourseEngine(cat Catalog, lib Library) *CourseEngine {
	return &CourseEngine{catalog: cat, library: lib}
}

// sendProgress sends a progress update through the channel without
// blocking. Uses select with default so progress reporting never stalls
// the pipeline.
func (e *CourseEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Ingest turns a playlist URL into an assembled course: resolve the
// playlist ID, fetch the header, paginate the entries, batch-fetch video
// details, and reconcile against any saved progress record.
//
// Failure modes: [shared.ErrInvalidURL] when no identifier can be
// extracted, [shared.ErrDuplicateCourse] when the library already holds
// this playlist (checked before any network I/O),
// [shared.ErrPlaylistNotFound] when the catalog reports no such playlist,
// and catalog errors propagated verbatim. A failed step aborts the whole
// call; accumulated pages and batches are discarded.
func (e *CourseEngine) Ingest(ctx context.Context, progress chan<- ProgressUpdate, rawURL string) (*models.Course, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrMissingConfig)
	}

	playlistID, err := catalog.ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, resolveURLUpdate(playlistID))

	if e.library != nil {
		exists, err := e.library.HasCourse(playlistID)
		if err != nil {
			return nil, fmt.Errorf("failed to check library: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateCourse, playlistID)
		}
	}

	header, err := e.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, fetchPlaylistUpdate(header.Title))

	entries, err := e.fetchEntries(ctx, progress, playlistID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrEmptyPlaylist, playlistID)
	}

	durations, err := e.fetchDurations(ctx, progress, entries)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:     playlistID,
		Title:  header.Title,
		Videos: make([]models.Video, len(entries)),
	}
	for i, entry := range entries {
		token, ok := durations[entry.VideoID]
		if !ok {
			token = zeroDuration
		}
		course.Videos[i] = models.Video{
			ID:       entry.VideoID,
			Title:    entry.Title,
			Duration: formatter.FormatDuration(token),
		}
	}

	if e.library != nil {
		record, err := e.library.Progress(playlistID)
		if err != nil {
			return nil, fmt.Errorf("failed to load saved progress: %w", err)
		}
		record.Apply(course)
		e.sendProgress(progress, reconcileUpdate(course.CompletedCount()))
	}

	if err := course.Validate(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, assembledUpdate(course))
	return course, nil
}

// fetchEntries paginates through the playlist entries, carrying the
// continuation token forward until a page arrives without one. Arrival
// order defines the final video order.
func (e *CourseEngine) fetchEntries(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	pageToken := ""

	for page := 1; ; page++ {
		if page > maxEntryPages {
			return nil, &catalog.Error{
				Endpoint: "playlistItems",
				Cause:    fmt.Errorf("pagination exceeded %d pages without a final page", maxEntryPages),
			}
		}

		result, err := e.catalog.PlaylistItems(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}

		entries = append(entries, result.Entries...)
		e.sendProgress(progress, fetchEntriesUpdate(page, len(entries), result.TotalResults))

		if result.NextPageToken == "" {
			return entries, nil
		}
		pageToken = result.NextPageToken
	}
}

// fetchDurations batch-fetches per-video details in groups of at most
// [catalog.BatchSize] IDs and returns raw duration tokens keyed by video
// ID. Joining by ID tolerates missing and reordered detail responses.
func (e *CourseEngine) fetchDurations(ctx context.Context, progress chan<- ProgressUpdate, entries []catalog.Entry) (map[string]string, error) {
	durations := make(map[string]string, len(entries))
	totalBatches := (len(entries) + catalog.BatchSize - 1) / catalog.BatchSize

	for i := 0; i < len(entries); i += catalog.BatchSize {
		end := min(i+catalog.BatchSize, len(entries))

		ids := make([]string, 0, end-i)
		for _, entry := range entries[i:end] {
			ids = append(ids, entry.VideoID)
		}

		e.sendProgress(progress, fetchDetailsUpdate(i/catalog.BatchSize+1, totalBatches))

		details, err := e.catalog.Videos(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			durations[detail.ID] = detail.Duration
		}
	}

	return durations, nil
}
