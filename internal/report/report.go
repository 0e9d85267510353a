package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Writer persists one markdown report file per completed analysis run.
type Writer struct {
	Dir string

	now func() time.Time
}

// NewWriter creates a report writer targeting the given directory.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, now: time.Now}
}

// Save writes the recommendation body under a timestamp-derived
// filename and returns the path. Existing reports are never
// overwritten; a same-second collision gets a numeric suffix.
func (w *Writer) Save(body string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	generated := w.now()
	stamp := generated.Format("20060102_150405")

	content := fmt.Sprintf("# Gold Tracker Analysis Report\n**Generated:** %s\n\n---\n\n%s",
		generated.Format("2006-01-02 15:04:05"), body)

	for i := 0; ; i++ {
		name := fmt.Sprintf("gold_analysis_%s.md", stamp)
		if i > 0 {
			name = fmt.Sprintf("gold_analysis_%s_%d.md", stamp, i)
		}
		path := filepath.Join(w.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create report file: %w", err)
		}
		if _, err := f.WriteString(content); err != nil {
			f.Close()
			return "", fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close report: %w", err)
		}
		return path, nil
	}
}
