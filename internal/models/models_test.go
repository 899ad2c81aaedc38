package models

import (
	"encoding/json"
	"errors"
	"testing"

	"coursetrack/internal/shared"
)

func validCourse() *Course {
	return &Course{
		ID:    "PLa",
		Title: "Course",
		Videos: []Video{
			{ID: "v1", Title: "One", Duration: "1:00"},
			{ID: "v2", Title: "Two", Duration: "2:00"},
		},
	}
}

func TestCourseValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := validCourse().Validate(); err != nil {
			t.Errorf("Validate failed: %v", err)
		}
	})

	t.Run("missing ID", func(t *testing.T) {
		c := validCourse()
		c.ID = ""
		if err := c.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("no videos", func(t *testing.T) {
		c := validCourse()
		c.Videos = nil
		if err := c.Validate(); !errors.Is(err, shared.ErrEmptyPlaylist) {
			t.Errorf("expected ErrEmptyPlaylist, got %v", err)
		}
	})

	t.Run("resume index out of range", func(t *testing.T) {
		c := validCourse()
		c.CurrentVideo = 5
		if err := c.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestCompletedHelpers(t *testing.T) {
	c := validCourse()
	c.Videos[1].Completed = true

	if got := c.CompletedCount(); got != 1 {
		t.Errorf("CompletedCount = %d, want 1", got)
	}

	ids := c.CompletedIDs()
	if len(ids) != 1 || ids[0] != "v2" {
		t.Errorf("CompletedIDs = %v, want [v2]", ids)
	}
}

func TestProgressApply(t *testing.T) {
	t.Run("nil record is a no-op", func(t *testing.T) {
		c := validCourse()
		var p *CourseProgress
		p.Apply(c)
		if c.CompletedCount() != 0 || c.CurrentVideo != 0 {
			t.Errorf("nil Apply mutated course: %+v", c)
		}
	})

	t.Run("projects set membership", func(t *testing.T) {
		c := validCourse()
		p := &CourseProgress{CompletedVideos: []string{"v2", "unknown"}, CurrentVideo: 1}
		p.Apply(c)

		if c.Videos[0].Completed || !c.Videos[1].Completed {
			t.Errorf("completion flags wrong: %v %v", c.Videos[0].Completed, c.Videos[1].Completed)
		}
		if c.CurrentVideo != 1 {
			t.Errorf("CurrentVideo = %d, want 1", c.CurrentVideo)
		}
	})

	t.Run("out of range index left at zero", func(t *testing.T) {
		c := validCourse()
		p := &CourseProgress{CurrentVideo: 10}
		p.Apply(c)
		if c.CurrentVideo != 0 {
			t.Errorf("CurrentVideo = %d, want 0", c.CurrentVideo)
		}
	})
}

func TestJSONShape(t *testing.T) {
	c := validCourse()
	c.CurrentVideo = 1

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"id", "title", "videos", "currentVideo"} {
		if _, ok := m[key]; !ok {
			t.Errorf("serialized course missing key %q (got %v)", key, m)
		}
	}

	record := CourseProgress{CompletedVideos: []string{"v1"}, CurrentVideo: 1}
	data, err = json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	m = nil
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"completedVideos", "currentVideo"} {
		if _, ok := m[key]; !ok {
			t.Errorf("serialized record missing key %q (got %v)", key, m)
		}
	}
}
