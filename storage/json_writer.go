package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"eventpulse/models"
)

// JSONWriter serializes the aggregate report to a file and echoes the same
// document to standard output.
type JSONWriter struct {
	path string
	echo io.Writer
}

// NewJSONWriter creates a writer targeting path. Intermediate directories are
// created on the first Write.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path, echo: os.Stdout}
}

// Write marshals the report, writes it to the target file and echoes it.
func (w *JSONWriter) Write(report *models.Report) error {
	data, err := marshalReport(report)
	if err != nil {
		return fmt.Errorf("json: marshal report: %w", err)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("json: create output dir: %w", err)
		}
	}

	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", w.path, err)
	}

	if w.echo != nil {
		fmt.Fprint(w.echo, string(data))
	}
	return nil
}

func marshalReport(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OutputFilename builds the auto-generated report name:
// {sanitized_keyword}_{YYYYMMDD_HHMMSS}_search_output.json. Sanitization
// keeps alphanumerics, spaces, hyphens and underscores, collapses spaces to
// underscores and lowercases the result.
func OutputFilename(keyword string, t time.Time) string {
	var b strings.Builder
	for _, r := range keyword {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	name := strings.TrimRightFunc(b.String(), unicode.IsSpace)
	name = strings.ToLower(strings.ReplaceAll(name, " ", "_"))

	return fmt.Sprintf("%s_%s_search_output.json", name, t.Format("20060102_150405"))
}
