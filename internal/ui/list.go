package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"coursetrack/internal/models"
)

var (
	_ list.Item = courseItem{}
	_ list.Item = videoItem{}
)

// courseItem wraps [models.Course] to implement [list.Item].
type courseItem struct {
	course models.Course
}

func (i courseItem) FilterValue() string { return i.course.Title }
func (i courseItem) Title() string       { return i.course.Title }
func (i courseItem) Description() string {
	done := i.course.CompletedCount()
	total := len(i.course.Videos)
	desc := fmt.Sprintf("%d videos", total)
	if total > 0 {
		desc = fmt.Sprintf("%s • %d%% complete", desc, done*100/total)
	}
	return desc
}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
	index int
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string {
	marker := "○"
	if i.video.Completed {
		marker = "●"
	}
	return fmt.Sprintf("%s %d. %s", marker, i.index+1, i.video.Title)
}
func (i videoItem) Description() string { return i.video.Duration }
