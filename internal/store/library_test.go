package store

import (
	"errors"
	"testing"

	"coursetrack/internal/models"
	"coursetrack/internal/shared"
)

func testLibrary(t *testing.T) *Library {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A single connection keeps every statement on the same in-memory DB.
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return NewLibrary(db, nil)
}

func sampleCourse(id string) *models.Course {
	return &models.Course{
		ID:    id,
		Title: "Sample Course",
		Videos: []models.Video{
			{ID: id + "-v1", Title: "Intro", Duration: "5:00"},
			{ID: id + "-v2", Title: "Middle", Duration: "10:00"},
			{ID: id + "-v3", Title: "End", Duration: "2:30"},
		},
	}
}

func TestAddCourse(t *testing.T) {
	t.Run("insert makes course active with matching progress", func(t *testing.T) {
		library := testLibrary(t)

		if err := library.AddCourse(sampleCourse("PLa")); err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}

		courses, err := library.Courses()
		if err != nil {
			t.Fatalf("Courses failed: %v", err)
		}
		if len(courses) != 1 || courses[0].ID != "PLa" {
			t.Errorf("unexpected course list: %+v", courses)
		}

		active, err := library.ActiveCourseID()
		if err != nil {
			t.Fatalf("ActiveCourseID failed: %v", err)
		}
		if active != "PLa" {
			t.Errorf("active course = %q, want PLa", active)
		}

		record, err := library.Progress("PLa")
		if err != nil {
			t.Fatalf("Progress failed: %v", err)
		}
		if record == nil {
			t.Fatal("expected a progress record after insert")
		}
		if len(record.CompletedVideos) != 0 || record.CurrentVideo != 0 {
			t.Errorf("fresh record not empty: %+v", record)
		}
	})

	t.Run("rejects duplicate ID", func(t *testing.T) {
		library := testLibrary(t)

		if err := library.AddCourse(sampleCourse("PLa")); err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}
		err := library.AddCourse(sampleCourse("PLa"))
		if !errors.Is(err, shared.ErrDuplicateCourse) {
			t.Errorf("expected ErrDuplicateCourse, got %v", err)
		}
	})

	t.Run("rejects invalid course", func(t *testing.T) {
		library := testLibrary(t)

		err := library.AddCourse(&models.Course{ID: "PLempty"})
		if !errors.Is(err, shared.ErrEmptyPlaylist) {
			t.Errorf("expected ErrEmptyPlaylist, got %v", err)
		}
	})

	t.Run("carries reconciled flags into the progress record", func(t *testing.T) {
		library := testLibrary(t)

		course := sampleCourse("PLa")
		course.Videos[1].Completed = true
		course.CurrentVideo = 1
		if err := library.AddCourse(course); err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}

		record, err := library.Progress("PLa")
		if err != nil {
			t.Fatalf("Progress failed: %v", err)
		}
		if len(record.CompletedVideos) != 1 || record.CompletedVideos[0] != "PLa-v2" {
			t.Errorf("completed set = %v, want [PLa-v2]", record.CompletedVideos)
		}
		if record.CurrentVideo != 1 {
			t.Errorf("CurrentVideo = %d, want 1", record.CurrentVideo)
		}
	})
}

func TestToggleComplete(t *testing.T) {
	library := testLibrary(t)
	if err := library.AddCourse(sampleCourse("PLa")); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	t.Run("toggle on updates both records", func(t *testing.T) {
		course, err := library.ToggleComplete("PLa", 1)
		if err != nil {
			t.Fatalf("ToggleComplete failed: %v", err)
		}
		if !course.Videos[1].Completed {
			t.Error("video 1 not marked completed")
		}

		record, err := library.Progress("PLa")
		if err != nil {
			t.Fatalf("Progress failed: %v", err)
		}
		if !record.Contains("PLa-v2") {
			t.Errorf("progress record missing PLa-v2: %v", record.CompletedVideos)
		}
	})

	t.Run("toggle twice is identity", func(t *testing.T) {
		if _, err := library.ToggleComplete("PLa", 0); err != nil {
			t.Fatalf("ToggleComplete failed: %v", err)
		}
		course, err := library.ToggleComplete("PLa", 0)
		if err != nil {
			t.Fatalf("ToggleComplete failed: %v", err)
		}
		if course.Videos[0].Completed {
			t.Error("video 0 still completed after double toggle")
		}

		record, err := library.Progress("PLa")
		if err != nil {
			t.Fatalf("Progress failed: %v", err)
		}
		if record.Contains("PLa-v1") {
			t.Errorf("progress record still holds PLa-v1: %v", record.CompletedVideos)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		if _, err := library.ToggleComplete("PLa", 7); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		if _, err := library.ToggleComplete("PLnope", 0); !errors.Is(err, shared.ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestSelectVideo(t *testing.T) {
	library := testLibrary(t)
	if err := library.AddCourse(sampleCourse("PLa")); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	course, err := library.SelectVideo("PLa", 2)
	if err != nil {
		t.Fatalf("SelectVideo failed: %v", err)
	}
	if course.CurrentVideo != 2 {
		t.Errorf("CurrentVideo = %d, want 2", course.CurrentVideo)
	}

	record, err := library.Progress("PLa")
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if record.CurrentVideo != 2 {
		t.Errorf("record CurrentVideo = %d, want 2", record.CurrentVideo)
	}

	if _, err := library.SelectVideo("PLa", -1); !errors.Is(err, shared.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestDeleteCourse(t *testing.T) {
	t.Run("removes course, progress, notes, and active pointer", func(t *testing.T) {
		library := testLibrary(t)
		if err := library.AddCourse(sampleCourse("PLa")); err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}
		if _, err := library.ToggleComplete("PLa", 0); err != nil {
			t.Fatalf("ToggleComplete failed: %v", err)
		}
		if err := library.SaveNote("PLa", "PLa-v1", "remember this"); err != nil {
			t.Fatalf("SaveNote failed: %v", err)
		}

		if err := library.DeleteCourse("PLa"); err != nil {
			t.Fatalf("DeleteCourse failed: %v", err)
		}

		if found, err := library.HasCourse("PLa"); err != nil || found {
			t.Errorf("HasCourse = %v, %v after delete", found, err)
		}
		record, err := library.Progress("PLa")
		if err != nil {
			t.Fatalf("Progress failed: %v", err)
		}
		if record != nil {
			t.Errorf("progress record survived delete: %+v", record)
		}
		note, err := library.Note("PLa", "PLa-v1")
		if err != nil {
			t.Fatalf("Note failed: %v", err)
		}
		if note != "" {
			t.Errorf("note survived delete: %q", note)
		}
		active, err := library.ActiveCourseID()
		if err != nil {
			t.Fatalf("ActiveCourseID failed: %v", err)
		}
		if active != "" {
			t.Errorf("active pointer survived delete: %q", active)
		}
	})

	t.Run("keeps active pointer for other courses", func(t *testing.T) {
		library := testLibrary(t)
		if err := library.AddCourse(sampleCourse("PLa")); err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}
		if err := library.AddCourse(sampleCourse("PLb")); err != nil {
			t.Fatalf("AddCourse failed: %v", err)
		}

		if err := library.DeleteCourse("PLa"); err != nil {
			t.Fatalf("DeleteCourse failed: %v", err)
		}

		active, err := library.ActiveCourseID()
		if err != nil {
			t.Fatalf("ActiveCourseID failed: %v", err)
		}
		if active != "PLb" {
			t.Errorf("active course = %q, want PLb", active)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		library := testLibrary(t)
		if err := library.DeleteCourse("PLnope"); !errors.Is(err, shared.ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestActiveCourse(t *testing.T) {
	library := testLibrary(t)
	if err := library.AddCourse(sampleCourse("PLa")); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	if err := library.AddCourse(sampleCourse("PLb")); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	if err := library.SetActiveCourse("PLa"); err != nil {
		t.Fatalf("SetActiveCourse failed: %v", err)
	}
	active, err := library.ActiveCourseID()
	if err != nil {
		t.Fatalf("ActiveCourseID failed: %v", err)
	}
	if active != "PLa" {
		t.Errorf("active course = %q, want PLa", active)
	}

	if err := library.SetActiveCourse("PLnope"); !errors.Is(err, shared.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestNotes(t *testing.T) {
	library := testLibrary(t)
	if err := library.AddCourse(sampleCourse("PLa")); err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		if err := library.SaveNote("PLa", "PLa-v1", "key insight at 3:40"); err != nil {
			t.Fatalf("SaveNote failed: %v", err)
		}
		note, err := library.Note("PLa", "PLa-v1")
		if err != nil {
			t.Fatalf("Note failed: %v", err)
		}
		if note != "key insight at 3:40" {
			t.Errorf("note = %q", note)
		}
	})

	t.Run("empty text deletes", func(t *testing.T) {
		if err := library.SaveNote("PLa", "PLa-v1", ""); err != nil {
			t.Fatalf("SaveNote failed: %v", err)
		}
		note, err := library.Note("PLa", "PLa-v1")
		if err != nil {
			t.Fatalf("Note failed: %v", err)
		}
		if note != "" {
			t.Errorf("note survived clear: %q", note)
		}
	})

	t.Run("missing note is empty", func(t *testing.T) {
		note, err := library.Note("PLa", "PLa-v3")
		if err != nil {
			t.Fatalf("Note failed: %v", err)
		}
		if note != "" {
			t.Errorf("expected empty note, got %q", note)
		}
	})
}

func TestPrefs(t *testing.T) {
	library := testLibrary(t)

	prefs, found, err := library.Prefs()
	if err != nil {
		t.Fatalf("Prefs failed: %v", err)
	}
	if found {
		t.Error("fresh library should have no stored prefs")
	}
	if prefs.DarkMode {
		t.Error("default prefs should have dark mode off")
	}

	if err := library.SetPrefs(models.DisplayPrefs{DarkMode: true}); err != nil {
		t.Fatalf("SetPrefs failed: %v", err)
	}
	prefs, found, err = library.Prefs()
	if err != nil {
		t.Fatalf("Prefs failed: %v", err)
	}
	if !found {
		t.Error("prefs should be stored after SetPrefs")
	}
	if !prefs.DarkMode {
		t.Error("dark mode preference not persisted")
	}
}
