package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkolev/docextract/internal/extract"
)

func sampleResult() *extract.Result {
	return &extract.Result{
		SourceFilename: "report.pdf",
		Keywords:       []string{"HTD"},
		PersonalInfo: extract.PersonalInformation{
			FirstName: "Ivan", MiddleName: "Yordanov", LastName: "Todorov", Age: intPtr(33),
			CharacterSet: extract.CharsetLatin,
		},
		Matches:     []extract.NumberMatch{{Keyword: "HTD", Value: "3,5"}},
		ProcessedAt: time.Date(2026, 8, 30, 14, 30, 5, 0, time.UTC),
	}
}

func TestWriterWrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "IYT-33.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Document: report.pdf")
	assert.Contains(t, string(content), "\r\n")
}

func TestWriterOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	first, err := w.Write(sampleResult())
	require.NoError(t, err)

	second, err := w.Write(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriterFallbackFilename(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.now = func() time.Time { return time.Date(2026, 8, 30, 14, 30, 5, 0, time.UTC) }

	result := sampleResult()
	result.PersonalInfo = extract.EmptyPersonalInformation()

	path, err := w.Write(result)
	require.NoError(t, err)
	assert.Equal(t, "output_20260830_143005.txt", filepath.Base(path))
}

func TestWriterDirectoryErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		w := NewWriter(filepath.Join(t.TempDir(), "missing"))
		_, err := w.Write(sampleResult())
		require.Error(t, err)

		var we *WriteError
		require.True(t, errors.As(err, &we))
		assert.True(t, strings.HasPrefix(we.Error(), "[write_failure]"))
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := NewWriter(path).Write(sampleResult())
		require.Error(t, err)

		var we *WriteError
		assert.True(t, errors.As(err, &we))
	})
}
