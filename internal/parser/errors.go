package parser

import (
	"errors"
	"fmt"

	"github.com/dkolev/docextract/internal/document"
)

// ParseError is a typed parsing failure. Kind maps one-to-one to the
// user-facing message the caller presents.
type ParseError struct {
	Kind document.ErrorKind
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Path)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(kind document.ErrorKind, path string, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the error kind from an error chain, or ErrUnknown.
func KindOf(err error) document.ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return document.ErrUnknown
}
