package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"coursetrack/internal/catalog"
	"coursetrack/internal/models"
	"coursetrack/internal/store"
	"coursetrack/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CourseListView ViewState = iota
	PlayerView
	AddCourseView
	ConfirmDeleteView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	library *store.Library
	engine  *tasks.CourseEngine

	width  int
	height int

	courseList list.Model
	videoList  list.Model
	courses    []models.Course
	active     *models.Course

	urlInput     textinput.Model
	noteArea     textarea.Model
	editingNote  bool
	ingesting    bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	ingestResult *models.Course
	ingestErr    error

	styles *Palette
	dark   bool
	status string
	err    error
	help   help.Model
	keys   keyMap
}

type coursesLoadedMsg struct {
	courses  []models.Course
	activeID string
	prefs    models.DisplayPrefs
	err      error
}

type ingestProgressMsg tasks.ProgressUpdate

type ingestCompleteMsg struct {
	course *models.Course
	err    error
}

type courseMutatedMsg struct {
	course *models.Course
	err    error
}

type courseDeletedMsg struct {
	err error
}

type noteLoadedMsg struct {
	text string
	err  error
}

type noteSavedMsg struct {
	err error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library *store.Library, engine *tasks.CourseEngine) *Model {
	input := textinput.New()
	input.Placeholder = "https://www.youtube.com/playlist?list=..."
	input.CharLimit = 512

	note := textarea.New()
	note.Placeholder = "Add your notes here..."

	courseList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	courseList.Title = "Courses"

	return &Model{
		ctx:        ctx,
		view:       CourseListView,
		library:    library,
		engine:     engine,
		courseList: courseList,
		videoList:  list.New(nil, list.NewDefaultDelegate(), 0, 0),
		urlInput:   input,
		noteArea:   note,
		styles:     LightPalette(),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI by loading the course library.
func (m *Model) Init() tea.Cmd {
	return m.loadCourses()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CourseListView:
			return m.handleCourseListKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		case AddCourseView:
			return m.handleAddCourseKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmDeleteKeys(msg)
		}

	case coursesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.courses = msg.courses
		m.setDarkMode(msg.prefs.DarkMode)
		m.rebuildCourseList()
		if msg.activeID != "" {
			for i := range m.courses {
				if m.courses[i].ID == msg.activeID {
					m.activateCourse(&m.courses[i])
					m.view = PlayerView
					break
				}
			}
		}
		return m, nil

	case ingestProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case ingestCompleteMsg:
		m.ingesting = false
		m.progressChan = nil
		if msg.err != nil {
			m.err = msg.err
			m.view = AddCourseView
			return m, nil
		}
		m.err = nil
		m.urlInput.SetValue("")
		m.status = fmt.Sprintf("Added course: %s", msg.course.Title)
		return m, m.loadCourses()

	case courseMutatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.replaceCourse(msg.course)
		return m, nil

	case courseDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.active = nil
		m.view = CourseListView
		m.status = "Course deleted"
		return m, m.loadCourses()

	case noteLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.noteArea.SetValue(msg.text)
		m.noteArea.Focus()
		m.editingNote = true
		return m, nil

	case noteSavedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Note saved"
		}
		m.editingNote = false
		m.noteArea.Blur()
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == CourseListView {
		return m.styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CourseListView:
		return m.renderCourseList()
	case PlayerView:
		return m.renderPlayer()
	case AddCourseView:
		return m.renderAddCourse()
	case ConfirmDeleteView:
		return m.renderConfirmDelete()
	default:
		return ""
	}
}

func (m *Model) handleCourseListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		m.err = nil
		m.view = AddCourseView
		m.urlInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.darkMode):
		return m, m.toggleDarkMode()
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.courseList.SelectedItem().(courseItem); ok {
			for i := range m.courses {
				if m.courses[i].ID == selected.course.ID {
					m.activateCourse(&m.courses[i])
					m.view = PlayerView
					return m, m.setActive(selected.course.ID)
				}
			}
		}
	}

	var cmd tea.Cmd
	m.courseList, cmd = m.courseList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingNote {
		switch msg.String() {
		case "esc":
			m.editingNote = false
			m.noteArea.Blur()
			return m, nil
		case "ctrl+s":
			return m, m.saveNote()
		}
		var cmd tea.Cmd
		m.noteArea, cmd = m.noteArea.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CourseListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.videoList.SelectedItem().(videoItem); ok {
			return m, m.selectVideo(selected.index)
		}
	case key.Matches(msg, m.keys.toggle):
		if selected, ok := m.videoList.SelectedItem().(videoItem); ok {
			return m, m.toggleComplete(selected.index)
		}
	case key.Matches(msg, m.keys.note):
		return m, m.loadNote()
	case key.Matches(msg, m.keys.delete):
		m.view = ConfirmDeleteView
		return m, nil
	case key.Matches(msg, m.keys.darkMode):
		return m, m.toggleDarkMode()
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) handleAddCourseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if !m.ingesting {
			m.err = nil
			m.view = CourseListView
		}
		return m, nil
	case "enter":
		// One ingestion at a time; re-submitting mid-flight is ignored.
		if m.ingesting {
			return m, nil
		}
		url := strings.TrimSpace(m.urlInput.Value())
		if url == "" {
			return m, nil
		}
		m.err = nil
		return m, m.startIngest(url)
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		return m, m.deleteCourse()
	case "n", "esc", "q":
		m.view = PlayerView
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CourseListView:
		m.courseList, cmd = m.courseList.Update(msg)
	case PlayerView:
		m.videoList, cmd = m.videoList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadCourses() tea.Cmd {
	return func() tea.Msg {
		courses, err := m.library.Courses()
		if err != nil {
			return coursesLoadedMsg{err: err}
		}
		activeID, err := m.library.ActiveCourseID()
		if err != nil {
			return coursesLoadedMsg{err: err}
		}
		prefs, _, err := m.library.Prefs()
		if err != nil {
			return coursesLoadedMsg{err: err}
		}
		return coursesLoadedMsg{courses: courses, activeID: activeID, prefs: prefs}
	}
}

func (m *Model) startIngest(url string) tea.Cmd {
	m.ingesting = true
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		course, err := m.engine.Ingest(m.ctx, m.progressChan, url)
		if err == nil {
			err = m.library.AddCourse(course)
		}
		m.ingestResult = course
		m.ingestErr = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return ingestCompleteMsg{course: m.ingestResult, err: m.ingestErr}
		}

		update, ok := <-m.progressChan
		if !ok {
			return ingestCompleteMsg{course: m.ingestResult, err: m.ingestErr}
		}
		return ingestProgressMsg(update)
	}
}

func (m *Model) selectVideo(index int) tea.Cmd {
	courseID := m.active.ID
	return func() tea.Msg {
		course, err := m.library.SelectVideo(courseID, index)
		return courseMutatedMsg{course: course, err: err}
	}
}

func (m *Model) toggleComplete(index int) tea.Cmd {
	courseID := m.active.ID
	return func() tea.Msg {
		course, err := m.library.ToggleComplete(courseID, index)
		return courseMutatedMsg{course: course, err: err}
	}
}

func (m *Model) deleteCourse() tea.Cmd {
	courseID := m.active.ID
	return func() tea.Msg {
		return courseDeletedMsg{err: m.library.DeleteCourse(courseID)}
	}
}

func (m *Model) setActive(courseID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.library.SetActiveCourse(courseID); err != nil {
			return courseMutatedMsg{err: err}
		}
		return nil
	}
}

func (m *Model) loadNote() tea.Cmd {
	course := m.active
	video := course.Videos[course.CurrentVideo]
	return func() tea.Msg {
		text, err := m.library.Note(course.ID, video.ID)
		return noteLoadedMsg{text: text, err: err}
	}
}

func (m *Model) saveNote() tea.Cmd {
	course := m.active
	video := course.Videos[course.CurrentVideo]
	text := m.noteArea.Value()
	return func() tea.Msg {
		return noteSavedMsg{err: m.library.SaveNote(course.ID, video.ID, text)}
	}
}

func (m *Model) toggleDarkMode() tea.Cmd {
	m.setDarkMode(!m.dark)
	prefs := models.DisplayPrefs{DarkMode: m.dark}
	return func() tea.Msg {
		if err := m.library.SetPrefs(prefs); err != nil {
			return courseMutatedMsg{err: err}
		}
		return nil
	}
}

func (m *Model) setDarkMode(dark bool) {
	m.dark = dark
	if dark {
		m.styles = DarkPalette()
	} else {
		m.styles = LightPalette()
	}
}

func (m *Model) activateCourse(course *models.Course) {
	m.active = course
	items := make([]list.Item, len(course.Videos))
	for i, video := range course.Videos {
		items[i] = videoItem{video: video, index: i}
	}
	m.videoList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.videoList.Title = course.Title
	m.videoList.Select(course.CurrentVideo)
	m.resizeLists()
}

func (m *Model) replaceCourse(course *models.Course) {
	for i := range m.courses {
		if m.courses[i].ID == course.ID {
			m.courses[i] = *course
			break
		}
	}
	selected := m.videoList.Index()
	m.activateCourse(course)
	m.videoList.Select(selected)
	m.rebuildCourseList()
}

func (m *Model) rebuildCourseList() {
	items := make([]list.Item, len(m.courses))
	for i, course := range m.courses {
		items[i] = courseItem{course: course}
	}
	m.courseList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.courseList.Title = "Courses"
	m.resizeLists()
}

func (m *Model) resizeLists() {
	if m.width == 0 {
		return
	}
	m.courseList.SetSize(m.width-4, m.height-8)
	m.videoList.SetSize(m.width/2-4, m.height-8)
}

func (m *Model) renderCourseList() string {
	var b strings.Builder
	b.WriteString(m.courseList.View())
	if m.status != "" {
		b.WriteString("\n" + m.styles.ok.Render(m.status))
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.add, m.keys.darkMode, m.keys.quit}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderPlayer() string {
	if m.active == nil {
		return m.styles.err.Render("No active course\n\nPress esc to go back")
	}

	course := m.active
	video := course.Videos[course.CurrentVideo]

	var pane strings.Builder
	pane.WriteString(m.styles.title.Render(video.Title) + "\n")
	pane.WriteString(fmt.Sprintf("Video %d of %d • %s\n", course.CurrentVideo+1, len(course.Videos), video.Duration))
	if video.Completed {
		pane.WriteString(m.styles.ok.Render("✓ completed") + "\n")
	}
	pane.WriteString(m.styles.muted.Render(catalog.WatchURL(video.ID, course.ID)) + "\n\n")
	pane.WriteString(m.renderProgressBar(course) + "\n")

	if m.editingNote {
		pane.WriteString("\nNotes (ctrl+s save, esc cancel)\n")
		pane.WriteString(m.noteArea.View())
	}

	if m.err != nil {
		pane.WriteString("\n" + m.styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	player := m.styles.pane.Width(max(m.width/2-2, 20)).Render(pane.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.videoList.View(), player)

	helpKeys := []key.Binding{m.keys.enter, m.keys.toggle, m.keys.note, m.keys.delete, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAddCourse() string {
	title := m.styles.title.Render("Add a course")
	body := "Paste a playlist URL and press enter:\n\n" + m.urlInput.View()

	if m.ingesting {
		body += fmt.Sprintf("\n\n%s", m.progress.Message)
	}
	if m.err != nil {
		body += "\n\n" + m.styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpView := m.styles.help.Render("enter: add • esc: back")
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderConfirmDelete() string {
	title := m.styles.title.Render(fmt.Sprintf("Delete '%s'?", m.active.Title))
	info := "\nThis removes the course and all of its progress.\n"

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

// renderProgressBar draws the completed/total bar for the active course.
func (m *Model) renderProgressBar(course *models.Course) string {
	done := course.CompletedCount()
	total := len(course.Videos)
	width := max(m.width/2-16, 10)

	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := m.styles.barFill.Render(strings.Repeat("█", filled)) +
		m.styles.muted.Render(strings.Repeat("░", width-filled))

	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	return fmt.Sprintf("%s %d/%d (%d%%)", bar, done, total, pct)
}
