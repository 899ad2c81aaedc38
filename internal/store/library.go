package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"coursetrack/internal/models"
	"coursetrack/internal/shared"
)

// Storage keys. The course list and the progress map are separate
// records; every mutation that touches one writes the other in the same
// transaction.
const (
	coursesKey      = "courses"
	activeCourseKey = "active-course"
	progressKey     = "course-progress"
	prefsKey        = "display-prefs"
	notesKey        = "video-notes"
)

// Library is the durable source of truth for tracked courses. It owns
// both the course list (with projected completed flags and resume
// indexes) and the per-course progress records, and is the only writer
// of either. All mutations go through its methods so the two records
// cannot diverge through a missed half-update.
type Library struct {
	db     *sql.DB
	kv     *KV
	mu     sync.RWMutex
	logger *log.Logger
}

// NewLibrary creates a Library over an open, migrated database.
func NewLibrary(db *sql.DB, logger *log.Logger) *Library {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Library{db: db, kv: NewKV(db), logger: logger}
}

// update runs fn inside a single transaction. This is the one path every
// dual-record write takes.
func (l *Library) update(fn func(tx *sql.Tx) error) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Courses returns all tracked courses in insertion order.
func (l *Library) Courses() ([]models.Course, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadCourses(l.db)
}

// Course returns the course with the given ID, or
// [shared.ErrCourseNotFound].
func (l *Library) Course(courseID string) (*models.Course, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	courses, err := l.loadCourses(l.db)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == courseID {
			return &courses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrCourseNotFound, courseID)
}

// HasCourse reports whether a course with the given ID is tracked.
func (l *Library) HasCourse(courseID string) (bool, error) {
	_, err := l.Course(courseID)
	if errors.Is(err, shared.ErrCourseNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Progress returns the saved progress record for a course ID, or nil
// when none exists.
func (l *Library) Progress(courseID string) (*models.CourseProgress, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records, err := l.loadProgress(l.db)
	if err != nil {
		return nil, err
	}
	record, ok := records[courseID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// AddCourse inserts an assembled course and makes it the active course.
// The course must already carry its reconciled completed flags and
// resume index; AddCourse persists the matching progress record in the
// same transaction so the two records agree from the first write.
func (l *Library) AddCourse(course *models.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.update(func(tx *sql.Tx) error {
		courses, err := l.loadCourses(tx)
		if err != nil {
			return err
		}
		for _, existing := range courses {
			if existing.ID == course.ID {
				return fmt.Errorf("%w: %s", shared.ErrDuplicateCourse, course.ID)
			}
		}

		courses = append(courses, *course)
		if err := kvSet(tx, coursesKey, courses); err != nil {
			return err
		}
		if err := l.writeProgress(tx, course); err != nil {
			return err
		}
		if err := kvSet(tx, activeCourseKey, course.ID); err != nil {
			return err
		}

		l.logger.Info("course added", "id", course.ID, "title", course.Title, "videos", len(course.Videos))
		return nil
	})
}

// ToggleComplete flips the completed flag of the video at index in the
// given course and recomputes the full completed-ID set for the progress
// record from the resulting video list. Returns the updated course.
func (l *Library) ToggleComplete(courseID string, index int) (*models.Course, error) {
	return l.mutateCourse(courseID, func(course *models.Course) error {
		if index < 0 || index >= len(course.Videos) {
			return fmt.Errorf("%w: video index %d out of range", shared.ErrVideoNotFound, index)
		}
		course.Videos[index].Completed = !course.Videos[index].Completed
		return nil
	})
}

// SelectVideo sets the resume point of the given course to index, on
// both the course and its progress record.
func (l *Library) SelectVideo(courseID string, index int) (*models.Course, error) {
	return l.mutateCourse(courseID, func(course *models.Course) error {
		if index < 0 || index >= len(course.Videos) {
			return fmt.Errorf("%w: video index %d out of range", shared.ErrVideoNotFound, index)
		}
		course.CurrentVideo = index
		return nil
	})
}

// DeleteCourse removes a course together with its progress record and
// notes. If it was the active course the pointer is cleared.
func (l *Library) DeleteCourse(courseID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.update(func(tx *sql.Tx) error {
		courses, err := l.loadCourses(tx)
		if err != nil {
			return err
		}

		found := false
		remaining := courses[:0]
		for _, course := range courses {
			if course.ID == courseID {
				found = true
				continue
			}
			remaining = append(remaining, course)
		}
		if !found {
			return fmt.Errorf("%w: %s", shared.ErrCourseNotFound, courseID)
		}

		if err := kvSet(tx, coursesKey, remaining); err != nil {
			return err
		}

		records, err := l.loadProgress(tx)
		if err != nil {
			return err
		}
		delete(records, courseID)
		if err := kvSet(tx, progressKey, records); err != nil {
			return err
		}

		notes, err := l.loadNotes(tx)
		if err != nil {
			return err
		}
		delete(notes, courseID)
		if err := kvSet(tx, notesKey, notes); err != nil {
			return err
		}

		var active string
		if _, err := kvGet(tx, activeCourseKey, &active); err != nil {
			return err
		}
		if active == courseID {
			if err := kvDelete(tx, activeCourseKey); err != nil {
				return err
			}
		}

		l.logger.Info("course deleted", "id", courseID)
		return nil
	})
}

// ActiveCourseID returns the ID of the active course, or an empty string
// when none is set.
func (l *Library) ActiveCourseID() (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var id string
	if _, err := kvGet(l.db, activeCourseKey, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SetActiveCourse makes the given course the active one.
func (l *Library) SetActiveCourse(courseID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	courses, err := l.loadCourses(l.db)
	if err != nil {
		return err
	}
	for _, course := range courses {
		if course.ID == courseID {
			return l.kv.Set(activeCourseKey, courseID)
		}
	}
	return fmt.Errorf("%w: %s", shared.ErrCourseNotFound, courseID)
}

// Prefs returns the persisted display preferences. The second return
// reports whether any preferences have been stored yet.
func (l *Library) Prefs() (models.DisplayPrefs, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var prefs models.DisplayPrefs
	found, err := kvGet(l.db, prefsKey, &prefs)
	if err != nil {
		return models.DisplayPrefs{}, false, err
	}
	return prefs, found, nil
}

// SetPrefs persists the display preferences.
func (l *Library) SetPrefs(prefs models.DisplayPrefs) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv.Set(prefsKey, prefs)
}

// Note returns the saved note for a video in a course, empty when none.
func (l *Library) Note(courseID, videoID string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	notes, err := l.loadNotes(l.db)
	if err != nil {
		return "", err
	}
	return notes[courseID][videoID], nil
}

// SaveNote stores a note for a video in a course. An empty note removes
// the entry.
func (l *Library) SaveNote(courseID, videoID, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.update(func(tx *sql.Tx) error {
		notes, err := l.loadNotes(tx)
		if err != nil {
			return err
		}
		if text == "" {
			delete(notes[courseID], videoID)
		} else {
			if notes[courseID] == nil {
				notes[courseID] = make(map[string]string)
			}
			notes[courseID][videoID] = text
		}
		return kvSet(tx, notesKey, notes)
	})
}

// mutateCourse applies fn to the named course and persists the course
// list and the recomputed progress record in one transaction.
func (l *Library) mutateCourse(courseID string, fn func(course *models.Course) error) (*models.Course, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var updated *models.Course
	err := l.update(func(tx *sql.Tx) error {
		courses, err := l.loadCourses(tx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range courses {
			if courses[i].ID == courseID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", shared.ErrCourseNotFound, courseID)
		}

		if err := fn(&courses[idx]); err != nil {
			return err
		}

		if err := kvSet(tx, coursesKey, courses); err != nil {
			return err
		}
		if err := l.writeProgress(tx, &courses[idx]); err != nil {
			return err
		}

		updated = &courses[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// writeProgress recomputes the progress record from the course's video
// list and resume index and stores it. Must run inside the same
// transaction as the course-list write.
func (l *Library) writeProgress(tx *sql.Tx, course *models.Course) error {
	records, err := l.loadProgress(tx)
	if err != nil {
		return err
	}
	records[course.ID] = models.CourseProgress{
		CompletedVideos: course.CompletedIDs(),
		CurrentVideo:    course.CurrentVideo,
	}
	return kvSet(tx, progressKey, records)
}

func (l *Library) loadCourses(q querier) ([]models.Course, error) {
	var courses []models.Course
	if _, err := kvGet(q, coursesKey, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (l *Library) loadProgress(q querier) (map[string]models.CourseProgress, error) {
	records := make(map[string]models.CourseProgress)
	if _, err := kvGet(q, progressKey, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (l *Library) loadNotes(q querier) (map[string]map[string]string, error) {
	notes := make(map[string]map[string]string)
	if _, err := kvGet(q, notesKey, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
