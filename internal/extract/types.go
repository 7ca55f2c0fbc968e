// Package extract implements the keyword-number matcher, the personal
// information extractor and the engine that combines their results over a
// parsed document.
package extract

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// NumberMatch associates one keyword occurrence with the number found in
// its proximity window. Value keeps the literal textual representation;
// comma/period are never normalized.
type NumberMatch struct {
	Keyword    string
	Value      string
	PageNumber int
	LineNumber int // 0 when unknown
	Ambiguous  bool
	Note       string // human-readable reason when Ambiguous
}

// CharacterSet classifies the Unicode script of extracted name letters.
type CharacterSet string

const (
	CharsetCyrillic CharacterSet = "cyrillic"
	CharsetLatin    CharacterSet = "latin"
	CharsetMixed    CharacterSet = "mixed"
	CharsetUnknown  CharacterSet = "unknown"
)

// PersonalInformation holds identity fields extracted from a document.
// Fields degrade independently to their zero value when absent. Built once
// per document; corrections produce a fresh instance.
type PersonalInformation struct {
	FirstName      string
	MiddleName     string
	LastName       string
	Age            *int   // nil when absent; 0-150 when set
	IDNumberPrefix string // exactly 4 digits when present
	CharacterSet   CharacterSet
	ExtractionPage int // 0 when unknown
}

// Validate enforces the construction invariants: age range, ID prefix
// shape, character set and extraction page.
func (p *PersonalInformation) Validate() error {
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return fmt.Errorf("age must be between 0 and 150, got %d", *p.Age)
	}
	if p.IDNumberPrefix != "" {
		if len(p.IDNumberPrefix) != 4 || !allDigits(p.IDNumberPrefix) {
			return fmt.Errorf("ID number prefix must be exactly 4 digits, got %q", p.IDNumberPrefix)
		}
	}
	switch p.CharacterSet {
	case CharsetCyrillic, CharsetLatin, CharsetMixed, CharsetUnknown:
	default:
		return fmt.Errorf("invalid character set %q", p.CharacterSet)
	}
	if p.ExtractionPage < 0 {
		return fmt.Errorf("extraction page must be >= 1, got %d", p.ExtractionPage)
	}
	return nil
}

// IsComplete reports whether first name, last name and ID prefix were all
// extracted.
func (p *PersonalInformation) IsComplete() bool {
	return p.FirstName != "" && p.LastName != "" && p.IDNumberPrefix != ""
}

// FullName joins the present name parts first-middle-last, or "" when none
// are present.
func (p *PersonalInformation) FullName() string {
	parts := p.nameParts()
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ")
}

// AbbreviatedName uppercases the first letter of each present name part
// and concatenates them without a separator. Script-preserving: Cyrillic
// initials stay Cyrillic, Latin stay Latin.
func (p *PersonalInformation) AbbreviatedName() string {
	var b strings.Builder
	for _, part := range p.nameParts() {
		for _, r := range part {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}

func (p *PersonalInformation) nameParts() []string {
	var parts []string
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// EmptyPersonalInformation is the all-absent instance.
func EmptyPersonalInformation() PersonalInformation {
	return PersonalInformation{CharacterSet: CharsetUnknown}
}

// Error is a structured, non-raised failure recorded during extraction.
type Error struct {
	Kind    string
	Message string
	Context map[string]string
}

// Result aggregates everything a single extraction run produced. Built
// once, consumed once by the report formatter.
type Result struct {
	SourceFilename string
	Keywords       []string // requested order = report column order
	PersonalInfo   PersonalInformation
	Matches        []NumberMatch // document order
	NotFound       []string      // requested keywords with zero matches
	Warnings       []string
	Errors         []Error
	ProcessedAt    time.Time
	Elapsed        time.Duration
}

// MatchesFor returns the matches of one keyword, in document order.
func (r *Result) MatchesFor(keyword string) []NumberMatch {
	var out []NumberMatch
	for _, m := range r.Matches {
		if strings.EqualFold(m.Keyword, keyword) {
			out = append(out, m)
		}
	}
	return out
}

// SuccessCount counts unambiguous matches.
func (r *Result) SuccessCount() int {
	n := 0
	for _, m := range r.Matches {
		if !m.Ambiguous {
			n++
		}
	}
	return n
}

// AmbiguousCount counts matches flagged for review.
func (r *Result) AmbiguousCount() int {
	n := 0
	for _, m := range r.Matches {
		if m.Ambiguous {
			n++
		}
	}
	return n
}

// NotFoundCount counts requested keywords without a match.
func (r *Result) NotFoundCount() int {
	return len(r.NotFound)
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Result) addError(kind, msg string, ctx map[string]string) {
	r.Errors = append(r.Errors, Error{Kind: kind, Message: msg, Context: ctx})
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
