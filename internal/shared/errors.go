package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing API credential")

	// Catalog and ingestion errors
	ErrCatalogRequest   = fmt.Errorf("catalog request failed")
	ErrInvalidURL       = fmt.Errorf("invalid playlist URL")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrEmptyPlaylist    = fmt.Errorf("playlist has no videos")
	ErrDuplicateCourse  = fmt.Errorf("course already in library")

	// Library errors
	ErrCourseNotFound = fmt.Errorf("course not found")
	ErrVideoNotFound  = fmt.Errorf("video not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
