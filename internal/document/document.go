// Package document defines the value objects shared by every parser and
// extractor: pages, parse results and validation results. A ParseResult is
// built once by a parser and read-only afterwards.
package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PageContent holds the text of a single logical page.
type PageContent struct {
	PageNumber int      // 1-indexed
	Text       string   // full page text
	Lines      []string // text split on line breaks, 1-indexed addressable
}

// NewPageContent builds a page, deriving Lines from Text when not supplied.
func NewPageContent(pageNumber int, text string, lines []string) (PageContent, error) {
	if pageNumber < 1 {
		return PageContent{}, fmt.Errorf("page number must be >= 1, got %d", pageNumber)
	}
	if lines == nil && text != "" {
		lines = strings.Split(text, "\n")
	}
	return PageContent{PageNumber: pageNumber, Text: text, Lines: lines}, nil
}

// ParseResult is the outcome of a successful document parse.
type ParseResult struct {
	Pages     []PageContent
	PageCount int
	Warnings  []string // non-fatal conditions, e.g. "no extractable text"
}

// Validate checks the structural invariants of a parse result: at least one
// page, 1-indexed contiguous page numbers.
func (r *ParseResult) Validate() error {
	if len(r.Pages) == 0 {
		return fmt.Errorf("parse result must have at least one page")
	}
	if r.PageCount != len(r.Pages) {
		return fmt.Errorf("page count %d does not match %d pages", r.PageCount, len(r.Pages))
	}
	for i, p := range r.Pages {
		if p.PageNumber != i+1 {
			return fmt.Errorf("page %d has number %d, want %d", i, p.PageNumber, i+1)
		}
	}
	return nil
}

// ValidationResult reports pre-flight document checks. Validation never
// fails with an error; problems are carried in the result itself.
type ValidationResult struct {
	Valid        bool
	ErrorKind    ErrorKind
	ErrorMessage string
}

// Invalid builds a failed validation result.
func Invalid(kind ErrorKind, format string, args ...any) ValidationResult {
	return ValidationResult{
		Valid:        false,
		ErrorKind:    kind,
		ErrorMessage: fmt.Sprintf(format, args...),
	}
}

// OK is the successful validation result.
func OK() ValidationResult {
	return ValidationResult{Valid: true}
}

// FileType identifies a supported document format.
type FileType string

const (
	TypePDF  FileType = "pdf"
	TypeDOCX FileType = "docx"
	TypeDOC  FileType = "doc"
)

// Document describes the file submitted for processing.
type Document struct {
	Path      string
	Filename  string
	Type      FileType
	PageCount int
}

// FromPath builds a Document from an absolute file path.
func FromPath(path string) (Document, error) {
	if !filepath.IsAbs(path) {
		return Document{}, fmt.Errorf("path must be absolute: %s", path)
	}
	var ft FileType
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		ft = TypePDF
	case ".docx":
		ft = TypeDOCX
	case ".doc":
		ft = TypeDOC
	default:
		return Document{}, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
	return Document{Path: path, Filename: filepath.Base(path), Type: ft}, nil
}
