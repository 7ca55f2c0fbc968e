package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dkolev/docextract/internal/extract"
)

// WriteError is an output-stage failure: unwritable directory,
// insufficient space, I/O error.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("[write_failure] %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer renders results and persists them to an output directory.
type Writer struct {
	dir       string
	formatter *Formatter
	now       func() time.Time
}

// NewWriter creates a writer targeting dir. The directory must already
// exist and be writable; the caller validates that before invoking Write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, formatter: NewFormatter(), now: time.Now}
}

// Write formats the result and writes it to the derived filename inside
// the output directory, overwriting any existing file. Returns the full
// path of the written file.
func (w *Writer) Write(result *extract.Result) (string, error) {
	info, err := os.Stat(w.dir)
	if err != nil {
		return "", &WriteError{Path: w.dir, Err: fmt.Errorf("output directory not accessible: %w", err)}
	}
	if !info.IsDir() {
		return "", &WriteError{Path: w.dir, Err: fmt.Errorf("output path is not a directory")}
	}

	path := filepath.Join(w.dir, Filename(result.PersonalInfo, w.now()))
	content := w.formatter.Format(result)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &WriteError{Path: path, Err: fmt.Errorf("cannot write output file: %w", err)}
	}
	return path, nil
}
