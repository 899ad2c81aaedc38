package models

import (
	"fmt"
	"slices"

	"coursetrack/internal/shared"
)

// Video is one catalog entry inside a course.
//
// ID is the opaque catalog-assigned video identifier. Duration is the
// formatted clock string ("M:SS" or "H:MM:SS"), derived at ingestion time.
// Completed is owned by the progress record and projected onto the video
// when the course is assembled or mutated.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	Completed bool   `json:"completed"`
}

// Course is one ingested playlist. ID equals the catalog playlist
// identifier. Videos are ordered by catalog playlist order. CurrentVideo
// is the user's resume point, an index into Videos.
type Course struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Videos       []Video `json:"videos"`
	CurrentVideo int     `json:"currentVideo"`
}

// Validate checks the course invariants: a non-empty ID, at least one
// video, and a resume index within bounds.
func (c *Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: course has no ID", shared.ErrInvalidInput)
	}
	if len(c.Videos) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrEmptyPlaylist, c.ID)
	}
	if c.CurrentVideo < 0 || c.CurrentVideo >= len(c.Videos) {
		return fmt.Errorf("%w: current video %d out of range [0, %d)", shared.ErrInvalidInput, c.CurrentVideo, len(c.Videos))
	}
	return nil
}

// CompletedCount returns the number of completed videos.
func (c *Course) CompletedCount() int {
	count := 0
	for _, v := range c.Videos {
		if v.Completed {
			count++
		}
	}
	return count
}

// CompletedIDs returns the IDs of all completed videos in playlist order.
// This is the authoritative recomputation used to keep the progress
// record in agreement with the video list after every toggle.
func (c *Course) CompletedIDs() []string {
	var ids []string
	for _, v := range c.Videos {
		if v.Completed {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// CourseProgress is the durable per-course completion and resume record,
// keyed by course ID and stored separately from the course itself.
type CourseProgress struct {
	CompletedVideos []string `json:"completedVideos"`
	CurrentVideo    int      `json:"currentVideo"`
}

// Contains reports whether the given video ID is in the completed set.
func (p *CourseProgress) Contains(videoID string) bool {
	return p != nil && slices.Contains(p.CompletedVideos, videoID)
}

// Apply projects the progress record onto a course: completed flags from
// set membership and the resume index clamped into range. A nil record
// leaves every flag false and the index at zero.
func (p *CourseProgress) Apply(c *Course) {
	if p == nil {
		return
	}
	for i := range c.Videos {
		c.Videos[i].Completed = p.Contains(c.Videos[i].ID)
	}
	if p.CurrentVideo >= 0 && p.CurrentVideo < len(c.Videos) {
		c.CurrentVideo = p.CurrentVideo
	}
}

// DisplayPrefs holds presentation settings persisted alongside the
// course data.
type DisplayPrefs struct {
	DarkMode bool `json:"darkMode"`
}
