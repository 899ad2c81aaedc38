// package formatter provides pure formatting helpers: ISO-8601 duration
// tokens to clock strings, and course exports to CSV, Markdown, and plain
// text.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"coursetrack/internal/models"
)

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// FormatDuration converts an ISO-8601-style duration token ("PT1H2M10S")
// into a clock string: "H:MM:SS" when hours are present, "M:SS" otherwise.
// Input that carries no duration components at all maps to "00:00".
// Total over all inputs, never fails.
func FormatDuration(token string) string {
	match := durationPattern.FindStringSubmatch(token)
	if match == nil {
		return "00:00"
	}

	hours := atoiOrZero(match[1])
	minutes := atoiOrZero(match[2])
	seconds := atoiOrZero(match[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ExportToCSV converts a course to CSV with columns: Index, ID, Title, Duration, Completed
func ExportToCSV(course *models.Course) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "ID", "Title", "Duration", "Completed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, video := range course.Videos {
		record := []string{
			strconv.Itoa(i + 1),
			video.ID,
			video.Title,
			video.Duration,
			strconv.FormatBool(video.Completed),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a course to a Markdown checklist.
func ExportToMarkdown(course *models.Course) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", course.Title))
	buf.WriteString(fmt.Sprintf("**Videos**: %d\n", len(course.Videos)))
	buf.WriteString(fmt.Sprintf("**Completed**: %d/%d\n\n", course.CompletedCount(), len(course.Videos)))

	buf.WriteString("## Videos\n\n")
	for i, video := range course.Videos {
		check := " "
		if video.Completed {
			check = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %d. %s [%s]\n", check, i+1, video.Title, video.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a course to plain text format.
func ExportToText(course *models.Course) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Course: %s\n", course.Title))
	buf.WriteString(fmt.Sprintf("Videos: %d (%d completed)\n\n", len(course.Videos), course.CompletedCount()))

	for i, video := range course.Videos {
		marker := "  "
		if video.Completed {
			marker = "✓ "
		}
		buf.WriteString(fmt.Sprintf("%s%d. %s [%s]\n", marker, i+1, video.Title, video.Duration))
	}

	return buf.Bytes(), nil
}

// WriteExport serializes a course in the given format ("csv", "markdown",
// "md", or "txt") and writes it to path. Defaults the path to a name
// derived from the course ID and returns the path written.
func WriteExport(course *models.Course, format, path string) (string, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "csv":
		data, err = ExportToCSV(course)
		ext = "csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(course)
		ext = "md"
	case "txt", "text", "":
		data, err = ExportToText(course)
		ext = "txt"
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("%s_course.%s", course.ID, ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
