package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// SeparatorMode selects the decimal-separator convention for numeric
// recognition.
type SeparatorMode int

const (
	// SeparatorPeriod reads period as decimal, comma as thousands (3.5 / 1,234).
	SeparatorPeriod SeparatorMode = iota
	// SeparatorComma reads comma as decimal, period as thousands (3,5 / 1.234).
	SeparatorComma
	// SeparatorAuto tries both conventions and flags tokens whose
	// interpretation differs between them.
	SeparatorAuto
)

// ParseSeparatorMode maps a configuration string to a SeparatorMode.
func ParseSeparatorMode(s string) (SeparatorMode, error) {
	switch strings.ToLower(s) {
	case "period":
		return SeparatorPeriod, nil
	case "comma":
		return SeparatorComma, nil
	case "auto", "":
		return SeparatorAuto, nil
	default:
		return SeparatorAuto, fmt.Errorf("invalid decimal separator %q, want period, comma or auto", s)
	}
}

func (m SeparatorMode) String() string {
	switch m {
	case SeparatorPeriod:
		return "period"
	case SeparatorComma:
		return "comma"
	default:
		return "auto"
	}
}

// NumberToken is one numeric token recognized in a text window. Value is
// the literal text; separators are never normalized.
type NumberToken struct {
	Value     string
	Start     int // byte offset in the searched text
	Ambiguous bool
	Note      string
}

var (
	periodNumberRe = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*(?:\.\d+)?\b`)
	commaNumberRe  = regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})*(?:,\d+)?\b`)
	anyNumberRe    = regexp.MustCompile(`\b\d+(?:[.,]\d+)*\b`)

	periodFullRe = regexp.MustCompile(`^\d{1,3}(?:,\d{3})*(?:\.\d+)?$`)
	commaFullRe  = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*(?:,\d+)?$`)
)

// NumberParser recognizes numeric tokens under a separator convention.
type NumberParser struct {
	mode SeparatorMode
}

// NewNumberParser creates a parser for the given convention.
func NewNumberParser(mode SeparatorMode) *NumberParser {
	return &NumberParser{mode: mode}
}

// Find returns all numeric tokens in text, in order of appearance.
func (p *NumberParser) Find(text string) []NumberToken {
	switch p.mode {
	case SeparatorPeriod:
		return findWithConvention(text, periodNumberRe, ",", ".")
	case SeparatorComma:
		return findWithConvention(text, commaNumberRe, ".", ",")
	default:
		return findAuto(text)
	}
}

// findWithConvention scans with a single-convention pattern and flags
// tokens containing only the thousands separator, which could equally be a
// decimal in the other convention.
func findWithConvention(text string, re *regexp.Regexp, thousands, decimal string) []NumberToken {
	var tokens []NumberToken
	for _, loc := range re.FindAllStringIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		tok := NumberToken{Value: value, Start: loc[0]}
		if strings.Contains(value, thousands) && !strings.Contains(value, decimal) {
			tok.Ambiguous = true
			tok.Note = fmt.Sprintf("number %q interpreted with %q as thousands separator, review if incorrect",
				value, thousands)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// findAuto scans with a convention-free pattern and classifies each token:
// valid under exactly one convention is unambiguous; valid under both with
// diverging interpretations, or valid under neither, is flagged.
func findAuto(text string) []NumberToken {
	var tokens []NumberToken
	for _, loc := range anyNumberRe.FindAllStringIndex(text, -1) {
		value := text[loc[0]:loc[1]]
		tok := NumberToken{Value: value, Start: loc[0]}

		periodOK := periodFullRe.MatchString(value)
		commaOK := commaFullRe.MatchString(value)
		switch {
		case periodOK && commaOK:
			if canonicalPeriod(value) != canonicalComma(value) {
				tok.Ambiguous = true
				tok.Note = fmt.Sprintf("number %q is valid under both decimal conventions, review if incorrect", value)
			}
		case !periodOK && !commaOK:
			tok.Ambiguous = true
			tok.Note = fmt.Sprintf("number %q has an unusual format and may be ambiguous", value)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// canonicalPeriod normalizes a token under the period-decimal convention.
func canonicalPeriod(value string) string {
	return strings.ReplaceAll(value, ",", "")
}

// canonicalComma normalizes a token under the comma-decimal convention.
func canonicalComma(value string) string {
	return strings.ReplaceAll(strings.ReplaceAll(value, ".", ""), ",", ".")
}
