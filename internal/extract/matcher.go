package extract

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dkolev/docextract/internal/document"
)

// Proximity selects how far from a keyword a number may appear and still
// count as associated with it.
type Proximity int

const (
	// SameLine attaches the first number on the keyword's line.
	SameLine Proximity = iota
	// SameSentence attaches the first number before the next sentence
	// terminator, continuing across line breaks within the page.
	SameSentence
	// WithinNWords attaches the first number among the N words after the
	// keyword.
	WithinNWords
)

// ParseProximity maps a configuration string to a Proximity.
func ParseProximity(s string) (Proximity, error) {
	switch strings.ToLower(s) {
	case "same_line", "":
		return SameLine, nil
	case "same_sentence":
		return SameSentence, nil
	case "within_n_words":
		return WithinNWords, nil
	default:
		return SameLine, fmt.Errorf("invalid proximity %q, want same_line, same_sentence or within_n_words", s)
	}
}

func (p Proximity) String() string {
	switch p {
	case SameSentence:
		return "same_sentence"
	case WithinNWords:
		return "within_n_words"
	default:
		return "same_line"
	}
}

// DefaultWordWindow is the word count for WithinNWords when none is
// configured.
const DefaultWordWindow = 5

// Policy is a fully specified proximity rule. Whether the word window may
// continue across line breaks is configurable rather than fixed.
type Policy struct {
	Proximity  Proximity
	WordWindow int  // WithinNWords only; <=0 selects DefaultWordWindow
	CrossLines bool // WithinNWords only; window may continue onto later lines
}

// KeywordMatcher scans parsed pages for keyword occurrences and attaches
// nearby numbers under a proximity policy.
type KeywordMatcher struct {
	numbers *NumberParser
}

// NewKeywordMatcher creates a matcher using the given number parser.
func NewKeywordMatcher(numbers *NumberParser) *KeywordMatcher {
	return &KeywordMatcher{numbers: numbers}
}

// FindMatches returns every keyword occurrence with an attached number, in
// document order (page, then line, then position within line). Keywords
// without occurrences simply contribute nothing; the only error condition
// is a malformed page model.
func (m *KeywordMatcher) FindMatches(pages []document.PageContent, keywords []string, policy Policy) ([]NumberMatch, error) {
	if pages == nil {
		return nil, fmt.Errorf("page model must not be nil")
	}
	for i, p := range pages {
		if p.PageNumber != i+1 {
			return nil, fmt.Errorf("malformed page model: page %d has number %d", i, p.PageNumber)
		}
	}

	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}

	var matches []NumberMatch
	for _, page := range pages {
		for lineIdx, line := range page.Lines {
			for _, occ := range lineOccurrences(line, cleaned) {
				window := m.window(page, lineIdx, occ.end, policy)
				tokens := m.numbers.Find(window)
				if len(tokens) == 0 {
					continue
				}
				tok := tokens[0]
				match := NumberMatch{
					Keyword:    occ.keyword,
					Value:      tok.Value,
					PageNumber: page.PageNumber,
					LineNumber: lineIdx + 1,
					Ambiguous:  tok.Ambiguous,
					Note:       tok.Note,
				}
				if len(tokens) > 1 && !match.Ambiguous {
					match.Ambiguous = true
					match.Note = fmt.Sprintf("%d plausible numbers near keyword %q, first one kept",
						len(tokens), occ.keyword)
				}
				matches = append(matches, match)
			}
		}
	}
	return matches, nil
}

// occurrence is one keyword hit within a line.
type occurrence struct {
	keyword    string
	start, end int // byte offsets in the line
}

// lineOccurrences finds all keyword hits in a line across all keywords,
// ordered by position. Matching is case-insensitive with letter/digit
// boundaries on both sides, which works for any script, unlike regexp \b.
// Offsets refer to the original line, not its lowered form.
func lineOccurrences(line string, keywords []string) []occurrence {
	lowered, toOriginal := foldOffsets(line)

	var occs []occurrence
	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		for from := 0; ; {
			idx := strings.Index(lowered[from:], needle)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(needle)
			if isBoundary(lowered, start, end) {
				occs = append(occs, occurrence{keyword: kw, start: toOriginal[start], end: toOriginal[end]})
			}
			from = end
		}
	}
	sort.Slice(occs, func(i, j int) bool { return occs[i].start < occs[j].start })
	return occs
}

// foldOffsets lowercases line rune by rune and records, for every byte
// position in the lowered text, the corresponding byte position in the
// original. Case mapping can change a rune's encoded length (Ⱥ grows, the
// Kelvin sign shrinks), so positions found in the lowered text must be
// translated before slicing the original.
func foldOffsets(line string) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(line)+1)
	for i, r := range line {
		low := unicode.ToLower(r)
		for n := utf8.RuneLen(low); n > 0; n-- {
			offsets = append(offsets, i)
		}
		b.WriteRune(low)
	}
	offsets = append(offsets, len(line))
	return b.String(), offsets
}

// isBoundary reports whether [start,end) is delimited by non-word runes.
func isBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// window builds the text region to search for a number, according to the
// policy, starting right after the keyword occurrence.
func (m *KeywordMatcher) window(page document.PageContent, lineIdx, afterKeyword int, policy Policy) string {
	rest := page.Lines[lineIdx][afterKeyword:]

	switch policy.Proximity {
	case SameSentence:
		return sentenceWindow(rest, page.Lines[lineIdx+1:])
	case WithinNWords:
		n := policy.WordWindow
		if n <= 0 {
			n = DefaultWordWindow
		}
		words := strings.Fields(rest)
		if policy.CrossLines {
			for _, line := range page.Lines[lineIdx+1:] {
				if len(words) >= n {
					break
				}
				words = append(words, strings.Fields(line)...)
			}
		}
		if len(words) > n {
			words = words[:n]
		}
		return strings.Join(words, " ")
	default:
		return rest
	}
}

// sentenceWindow extends rest with following lines until a sentence
// terminator. A period counts as a terminator only when followed by space
// or end of line, so decimal points do not end the sentence.
func sentenceWindow(rest string, following []string) string {
	var b strings.Builder
	b.WriteString(rest)
	if cut, ok := cutAtSentenceEnd(b.String()); ok {
		return cut
	}
	for _, line := range following {
		b.WriteByte(' ')
		b.WriteString(line)
		if cut, ok := cutAtSentenceEnd(b.String()); ok {
			return cut
		}
	}
	return b.String()
}

func cutAtSentenceEnd(s string) (string, bool) {
	for i, r := range s {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		rest := s[i+utf8.RuneLen(r):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return s[:i], true
		}
	}
	return s, false
}
