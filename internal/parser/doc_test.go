package parser

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkolev/docextract/internal/document"
)

// writeDOCFile creates a minimal compound-file shaped .doc. encrypted sets
// the FIB encryption bit.
func writeDOCFile(t *testing.T, encrypted bool) string {
	t.Helper()
	data := make([]byte, oleHeaderSize+64)
	copy(data, oleSignature)
	if encrypted {
		data[oleHeaderSize+fibEncryptedByte] |= fibEncryptedBit
	}
	path := filepath.Join(t.TempDir(), "sample.doc")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func cannedConverter(text string) Converter {
	return func(_ context.Context, _ string) ([]byte, error) {
		return []byte(text), nil
	}
}

func TestDOCParserParse(t *testing.T) {
	path := writeDOCFile(t, false)
	p := NewDOCParser(Options{Converter: cannedConverter("Име: Иван\nHTD 3,5\n")})

	result, err := p.Parse(path)
	require.NoError(t, err)
	require.NoError(t, result.Validate())
	require.Len(t, result.Pages, 1)
	assert.Contains(t, result.Pages[0].Lines, "Име: Иван")
	assert.Contains(t, result.Pages[0].Lines, "HTD 3,5")
}

func TestDOCParserParsePaginates(t *testing.T) {
	// 30 lines of 20 words against a 100 words-per-page threshold.
	line := "a b c d e f g h i j k l m n o p q r s t\n"
	var text string
	for i := 0; i < 30; i++ {
		text += line
	}
	p := NewDOCParser(Options{Converter: cannedConverter(text), WordsPerPage: 100})

	result, err := p.Parse(writeDOCFile(t, false))
	require.NoError(t, err)
	assert.Equal(t, 6, result.PageCount)

	count, err := p.PageCount(writeDOCFile(t, false))
	require.NoError(t, err)
	assert.Equal(t, result.PageCount, count)
}

func TestDOCParserPasswordProtected(t *testing.T) {
	path := writeDOCFile(t, true)
	p := NewDOCParser(Options{Converter: cannedConverter("ignored")})

	v := p.Validate(path)
	assert.False(t, v.Valid)
	assert.Equal(t, document.ErrPasswordProtected, v.ErrorKind)

	_, err := p.Parse(path)
	require.Error(t, err)
	assert.Equal(t, document.ErrPasswordProtected, KindOf(err))
}

func TestDOCParserInvalidContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.doc")
	require.NoError(t, os.WriteFile(path, []byte("just plain text"), 0o644))
	p := NewDOCParser(Options{Converter: cannedConverter("ignored")})

	v := p.Validate(path)
	assert.False(t, v.Valid)
	assert.Equal(t, document.ErrInvalidFormat, v.ErrorKind)
}

func TestDOCParserFileNotFound(t *testing.T) {
	p := NewDOCParser(Options{})
	v := p.Validate(filepath.Join(t.TempDir(), "missing.doc"))
	assert.False(t, v.Valid)
	assert.Equal(t, document.ErrFileNotFound, v.ErrorKind)
}

func TestDOCParserConverterTimeout(t *testing.T) {
	p := NewDOCParser(Options{Converter: func(ctx context.Context, _ string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}})
	p.timeout = 10 * time.Millisecond

	_, err := p.Parse(writeDOCFile(t, false))
	require.Error(t, err)
	assert.Equal(t, document.ErrTimeout, KindOf(err))
}

func TestDOCParserConverterExitFailure(t *testing.T) {
	p := NewDOCParser(Options{Converter: func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}})

	_, err := p.Parse(writeDOCFile(t, false))
	require.Error(t, err)
	assert.Equal(t, document.ErrCorrupted, KindOf(err))
}

func TestDOCParserConverterMissingDegrades(t *testing.T) {
	p := NewDOCParser(Options{Converter: func(_ context.Context, _ string) ([]byte, error) {
		return nil, &exec.Error{Name: "antiword", Err: exec.ErrNotFound}
	}})

	result, err := p.Parse(writeDOCFile(t, false))
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.Empty(t, result.Pages[0].Text)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "converter not available")
}

func TestDOCParserPageCountDegradesToOne(t *testing.T) {
	p := NewDOCParser(Options{Converter: func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}})

	count, err := p.PageCount(writeDOCFile(t, false))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDecodeConverterOutput(t *testing.T) {
	t.Run("utf8 passes through", func(t *testing.T) {
		assert.Equal(t, "Име", decodeConverterOutput([]byte("Име")))
	})

	t.Run("cp1251 cyrillic", func(t *testing.T) {
		// "Име" in Windows-1251
		got := decodeConverterOutput([]byte{0xC8, 0xEC, 0xE5})
		assert.Equal(t, "Име", got)
	})

	t.Run("cp1252 latin", func(t *testing.T) {
		// "café" in Windows-1252
		got := decodeConverterOutput([]byte{'c', 'a', 'f', 0xE9})
		assert.Equal(t, "café", got)
	})
}

func TestIsDOCEncryptedFailsOpen(t *testing.T) {
	// Shorter than the compound-file header: the probe cannot read the
	// flag byte and must treat the file as not encrypted.
	path := filepath.Join(t.TempDir(), "short.doc")
	require.NoError(t, os.WriteFile(path, oleSignature, 0o644))
	assert.False(t, isDOCEncrypted(path))
}
