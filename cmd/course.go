package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"coursetrack/internal/formatter"
	"coursetrack/internal/shared"
	"coursetrack/internal/tasks"
)

// CourseAdd ingests a playlist URL and stores the assembled course.
func (r *Runner) CourseAdd(ctx context.Context, cmd *cli.Command) error {
	rawURL := cmd.StringArg("url")
	if rawURL == "" {
		return fmt.Errorf("%w: playlist URL", shared.ErrMissingArgument)
	}

	logger := shared.WithLogger(r.logger, "op", shared.GenerateID())
	logger.Info("starting ingestion", "url", rawURL)

	engine, err := r.courseEngine()
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	course, err := engine.Ingest(ctx, progressCh, rawURL)
	close(progressCh)
	if err != nil {
		return err
	}

	if err := r.library.AddCourse(course); err != nil {
		return err
	}
	logger.Info("course added", "id", course.ID, "videos", len(course.Videos))

	if cmd.Bool("json") {
		return r.writeJSON(course, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Course Added")
	r.writePlain("%s (%s)\n", course.Title, course.ID)
	r.writePlain("%d videos, %d already completed\n", len(course.Videos), course.CompletedCount())
	return nil
}

// CourseList prints every course in the library.
func (r *Runner) CourseList(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	courses, err := library.Courses()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(courses, cmd.Bool("pretty"))
	}

	if len(courses) == 0 {
		r.writePlain("No courses yet. Run 'coursetrack course add <url>' to start one.\n")
		return nil
	}

	activeID, err := library.ActiveCourseID()
	if err != nil {
		return err
	}

	for _, course := range courses {
		marker := " "
		if course.ID == activeID {
			marker = "*"
		}
		done := course.CompletedCount()
		total := len(course.Videos)
		pct := 0
		if total > 0 {
			pct = done * 100 / total
		}
		r.writePlain("%s %s  %s  %d/%d (%d%%)\n", marker, course.ID, course.Title, done, total, pct)
	}
	return nil
}

// CourseShow prints one course with per-video status.
func (r *Runner) CourseShow(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	course, err := library.Course(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(course, cmd.Bool("pretty"))
	}

	r.writePlainHeader(course.Title)
	for i, video := range course.Videos {
		marker := "○"
		if video.Completed {
			marker = "●"
		}
		current := "  "
		if i == course.CurrentVideo {
			current = "▶ "
		}
		r.writePlain("%s%s %3d. %s (%s)\n", current, marker, i+1, video.Title, video.Duration)
	}
	r.writePlainln("%d/%d completed", course.CompletedCount(), len(course.Videos))
	return nil
}

// CourseSelect sets the current video and makes the course active.
func (r *Runner) CourseSelect(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	courseID := cmd.StringArg("id")
	index := cmd.Int("video") - 1

	course, err := library.SelectVideo(courseID, index)
	if err != nil {
		return err
	}
	if err := library.SetActiveCourse(courseID); err != nil {
		return err
	}

	video := course.Videos[course.CurrentVideo]
	r.writePlain("Now on video %d: %s\n", course.CurrentVideo+1, video.Title)
	return nil
}

// CourseToggle flips a video's completed flag.
func (r *Runner) CourseToggle(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	index := cmd.Int("video") - 1
	course, err := library.ToggleComplete(cmd.StringArg("id"), index)
	if err != nil {
		return err
	}

	video := course.Videos[index]
	state := "not completed"
	if video.Completed {
		state = "completed"
	}
	r.writePlain("%s is now %s (%d/%d done)\n", video.Title, state, course.CompletedCount(), len(course.Videos))
	return nil
}

// CourseDelete removes a course and its progress record.
func (r *Runner) CourseDelete(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	courseID := cmd.StringArg("id")
	if err := library.DeleteCourse(courseID); err != nil {
		return err
	}

	r.logger.Info("course deleted", "id", courseID)
	r.writePlain("Deleted course %s\n", courseID)
	return nil
}

// CourseNote shows, sets, or clears the note attached to a video.
func (r *Runner) CourseNote(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	courseID := cmd.StringArg("id")
	index := cmd.Int("video") - 1

	course, err := library.Course(courseID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(course.Videos) {
		return fmt.Errorf("%w: video %d of %s", shared.ErrVideoNotFound, index+1, courseID)
	}
	videoID := course.Videos[index].ID

	if cmd.Bool("clear") {
		if err := library.SaveNote(courseID, videoID, ""); err != nil {
			return err
		}
		r.writePlain("Note cleared\n")
		return nil
	}

	if text := cmd.String("set"); text != "" {
		if err := library.SaveNote(courseID, videoID, text); err != nil {
			return err
		}
		r.writePlain("Note saved\n")
		return nil
	}

	text, err := library.Note(courseID, videoID)
	if err != nil {
		return err
	}
	if text == "" {
		r.writePlain("No note for video %d\n", index+1)
		return nil
	}
	r.writePlain("%s\n", text)
	return nil
}

// CourseExport writes a course to a file in the requested format.
func (r *Runner) CourseExport(ctx context.Context, cmd *cli.Command) error {
	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	course, err := library.Course(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(course, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("course exported", "id", course.ID, "path", path)
	r.writePlain("Exported %s to %s\n", course.Title, path)
	return nil
}
