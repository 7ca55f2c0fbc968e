package parser

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/dkolev/docextract/internal/document"
)

// DefaultConvertTimeout bounds the external converter subprocess. On
// expiry the parse fails with a timeout error instead of hanging.
const DefaultConvertTimeout = 30 * time.Second

// fibEncryptedByte is the offset of the FIB flag byte within the
// WordDocument stream; bit 0x01 is the encryption flag. The stream sits in
// the first sector of the compound file, right after the 512-byte header.
const (
	oleHeaderSize    = 512
	fibEncryptedByte = 11
	fibEncryptedBit  = 0x01
)

// Converter extracts plain text from a legacy .doc file. The production
// implementation shells out to antiword; tests inject canned output.
type Converter func(ctx context.Context, path string) ([]byte, error)

// AntiwordConverter runs antiword with line wrapping disabled. A non-zero
// exit code surfaces as an error, never as silent empty output.
func AntiwordConverter(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "antiword", "-w", "0", path)
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DOCParser reads the legacy binary word-processor format. Text extraction
// is delegated to an external converter subprocess; pagination uses the
// shared word-count heuristic since the format has no page boundaries.
type DOCParser struct {
	convert      Converter
	timeout      time.Duration
	wordsPerPage int
}

// NewDOCParser creates a DOC parser from options, filling in production
// defaults for anything unset.
func NewDOCParser(opts Options) *DOCParser {
	p := &DOCParser{
		convert:      opts.Converter,
		timeout:      DefaultConvertTimeout,
		wordsPerPage: opts.WordsPerPage,
	}
	if p.convert == nil {
		p.convert = AntiwordConverter
	}
	if opts.ConvertTimeout > 0 {
		p.timeout = time.Duration(opts.ConvertTimeout) * time.Second
	}
	if p.wordsPerPage <= 0 {
		p.wordsPerPage = document.DefaultWordsPerPage
	}
	return p
}

// Validate checks existence, readability, container format and the
// encryption flag. The converter is never invoked here, so .doc files can
// be validated even when it is not installed.
func (p *DOCParser) Validate(path string) document.ValidationResult {
	if err := checkFile(path); err != nil {
		return validationFromErr(err)
	}
	if !hasOLESignature(path) {
		return document.Invalid(document.ErrInvalidFormat,
			"unable to parse document, the file may be corrupted or invalid")
	}
	if isDOCEncrypted(path) {
		return document.Invalid(document.ErrPasswordProtected,
			"password-protected .doc files are not supported")
	}
	return document.OK()
}

// Parse extracts text via the converter and groups it into approximate
// pages. A missing converter degrades to a single empty page with a
// warning rather than failing the run.
func (p *DOCParser) Parse(path string) (*document.ParseResult, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	if v := p.Validate(path); !v.Valid {
		return nil, parseErr(v.ErrorKind, path, "%s", v.ErrorMessage)
	}

	text, err := p.extractText(path)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Kind == document.ErrParserUnavailable {
			return emptyPageResult(
				"DOC converter not available - extraction skipped, install antiword for full support"), nil
		}
		return nil, err
	}

	var paragraphs []string
	for _, line := range splitLines(text) {
		paragraphs = append(paragraphs, strings.TrimSpace(line))
	}

	pages := document.Paginate(paragraphs, p.wordsPerPage)
	if len(pages) == 0 {
		return emptyPageResult("document has no extractable text"), nil
	}

	var warnings []string
	if !pagesHaveText(pages) {
		warnings = append(warnings, "document has no extractable text")
	}
	return &document.ParseResult{Pages: pages, PageCount: len(pages), Warnings: warnings}, nil
}

// PageCount approximates the page count from the converter output. When
// the converter fails the count degrades to 1 so the file can still be
// selected for processing.
func (p *DOCParser) PageCount(path string) (int, error) {
	if err := checkFile(path); err != nil {
		return 0, err
	}
	text, err := p.extractText(path)
	if err != nil {
		return 1, nil
	}
	return document.ApproximatePageCount(text, p.wordsPerPage), nil
}

// extractText runs the converter under a hard timeout and decodes its
// output to UTF-8.
func (p *DOCParser) extractText(path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	out, err := p.convert(ctx, path)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", parseErr(document.ErrTimeout, path, "document processing timed out")
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", parseErr(document.ErrParserUnavailable, path, "converter binary not found")
		}
		return "", parseErr(document.ErrCorrupted, path,
			"unable to parse document, the file may be corrupted or invalid: %v", err)
	}
	return decodeConverterOutput(out), nil
}

// decodeConverterOutput converts raw converter bytes to UTF-8. Valid UTF-8
// passes through; otherwise the bytes are decoded as Windows-1251 when the
// result reads as mostly Cyrillic, falling back to Windows-1252.
func decodeConverterOutput(out []byte) string {
	if utf8.Valid(out) {
		return string(out)
	}
	if decoded, err := charmap.Windows1251.NewDecoder().Bytes(out); err == nil {
		if text := string(decoded); looksCyrillic(text) {
			return text
		}
	}
	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(out); err == nil {
		return string(decoded)
	}
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(out)
	return string(decoded)
}

// looksCyrillic reports whether Cyrillic letters outnumber ASCII letters.
// Cyrillic text encoded in cp1251 is almost entirely high bytes, while
// Latin text with a few accents is almost entirely ASCII, so the letter
// balance separates the two reliably.
func looksCyrillic(text string) bool {
	cyrillic, ascii := 0, 0
	for _, r := range text {
		switch {
		case r < 0x80 && unicode.IsLetter(r):
			ascii++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		}
	}
	return cyrillic > ascii
}

// isDOCEncrypted reads the FIB flag byte at a fixed offset in the
// document's structural header. This is a best-effort heuristic, not a
// security boundary: any structural-read failure fails open (treated as
// not encrypted) so a damaged header does not block validation.
func isDOCEncrypted(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, oleHeaderSize+fibEncryptedByte+1)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return header[oleHeaderSize+fibEncryptedByte]&fibEncryptedBit != 0
}
