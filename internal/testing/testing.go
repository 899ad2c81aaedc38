// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"coursetrack/internal/catalog"
	"coursetrack/internal/models"
)

// MockCatalog is a test double for [tasks.Catalog]. Pages are served in
// order; call counters expose how many requests the pipeline issued.
type MockCatalog struct {
	Header      *catalog.PlaylistHeader
	Pages       []*catalog.EntryPage
	Details     map[string]string
	PlaylistErr error
	ItemsErr    error
	VideosErr   error

	PlaylistCalls int
	ItemsCalls    int
	VideosCalls   int
	BatchSizes    []int
}

func (m *MockCatalog) Playlist(ctx context.Context, playlistID string) (*catalog.PlaylistHeader, error) {
	m.PlaylistCalls++
	if m.PlaylistErr != nil {
		return nil, m.PlaylistErr
	}
	if m.Header != nil {
		return m.Header, nil
	}
	return &catalog.PlaylistHeader{ID: playlistID, Title: "Test Course"}, nil
}

func (m *MockCatalog) PlaylistItems(ctx context.Context, playlistID, pageToken string) (*catalog.EntryPage, error) {
	m.ItemsCalls++
	if m.ItemsErr != nil {
		return nil, m.ItemsErr
	}
	if m.ItemsCalls > len(m.Pages) {
		return &catalog.EntryPage{}, nil
	}
	return m.Pages[m.ItemsCalls-1], nil
}

func (m *MockCatalog) Videos(ctx context.Context, videoIDs []string) ([]catalog.VideoDetail, error) {
	m.VideosCalls++
	m.BatchSizes = append(m.BatchSizes, len(videoIDs))
	if m.VideosErr != nil {
		return nil, m.VideosErr
	}
	details := make([]catalog.VideoDetail, 0, len(videoIDs))
	for _, id := range videoIDs {
		if duration, ok := m.Details[id]; ok {
			details = append(details, catalog.VideoDetail{ID: id, Duration: duration})
		}
	}
	return details, nil
}

// MockLibrary is a test double for [tasks.Library].
type MockLibrary struct {
	Existing    map[string]bool
	Records     map[string]*models.CourseProgress
	HasErr      error
	ProgressErr error

	HasCalls      int
	ProgressCalls int
}

func (m *MockLibrary) HasCourse(courseID string) (bool, error) {
	m.HasCalls++
	if m.HasErr != nil {
		return false, m.HasErr
	}
	return m.Existing[courseID], nil
}

func (m *MockLibrary) Progress(courseID string) (*models.CourseProgress, error) {
	m.ProgressCalls++
	if m.ProgressErr != nil {
		return nil, m.ProgressErr
	}
	return m.Records[courseID], nil
}

// EntryPageOf builds one page of numbered entries starting at offset.
func EntryPageOf(offset, count, total int, nextToken string) *catalog.EntryPage {
	page := &catalog.EntryPage{NextPageToken: nextToken, TotalResults: total}
	for i := 0; i < count; i++ {
		n := offset + i
		page.Entries = append(page.Entries, catalog.Entry{
			VideoID: fmt.Sprintf("vid%03d", n),
			Title:   fmt.Sprintf("Lesson %d", n+1),
		})
	}
	return page
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
