// Package parser turns PDF, DOCX and legacy DOC files into page-indexed
// text. One concrete parser per format, selected by file extension; all
// three satisfy the same Parser contract and are stateless per call.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkolev/docextract/internal/document"
)

// Parser is the common contract of all format variants.
//
// Validate never returns an error; problems are reported in the result so
// the caller can present pre-flight feedback. Parse raises typed failures
// for genuine I/O or format problems but always returns at least one page
// on success. PageCount must agree with what Parse would produce.
type Parser interface {
	Validate(path string) document.ValidationResult
	Parse(path string) (*document.ParseResult, error)
	PageCount(path string) (int, error)
}

// Options tunes parser construction. The zero value selects production
// defaults (real antiword converter, 30s timeout, 500 words per page).
type Options struct {
	Converter      Converter // DOC text extraction strategy, nil = antiword
	ConvertTimeout int       // seconds, 0 = DefaultConvertTimeout
	WordsPerPage   int       // 0 = document.DefaultWordsPerPage
}

// ForFile returns the parser matching the file's extension.
func ForFile(path string, opts Options) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFParser(), nil
	case ".docx":
		return NewDOCXParser(opts.WordsPerPage), nil
	case ".doc":
		return NewDOCParser(opts), nil
	default:
		return nil, fmt.Errorf("unsupported file type %q, supported: %s",
			filepath.Ext(path), strings.Join(SupportedExtensions(), ", "))
	}
}

// Supported reports whether the file's extension has a parser.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".doc":
		return true
	}
	return false
}

// SupportedExtensions lists the extensions ForFile accepts.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".doc"}
}

// checkFile verifies existence, regularity and readability. Returned errors
// are typed ParseErrors.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return parseErr(document.ErrFileNotFound, path, "file not found")
	}
	if err != nil {
		return parseErr(document.ErrPermissionDenied, path, "cannot access file: %v", err)
	}
	if info.IsDir() {
		return parseErr(document.ErrInvalidFormat, path, "path is a directory, not a file")
	}
	f, err := os.Open(path)
	if err != nil {
		return parseErr(document.ErrPermissionDenied, path, "file is not readable: %v", err)
	}
	f.Close()
	return nil
}

// validationFromErr converts a checkFile failure into a ValidationResult.
func validationFromErr(err error) document.ValidationResult {
	var pe *ParseError
	if e, ok := err.(*ParseError); ok {
		pe = e
	} else {
		return document.Invalid(document.ErrUnknown, "%v", err)
	}
	return document.Invalid(pe.Kind, "%v", pe.Err)
}

// emptyPageResult is the minimum successful parse for content-free
// documents: one empty page plus a warning.
func emptyPageResult(warning string) *document.ParseResult {
	return &document.ParseResult{
		Pages:     []document.PageContent{{PageNumber: 1, Text: "", Lines: nil}},
		PageCount: 1,
		Warnings:  []string{warning},
	}
}
