package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dkolev/docextract/internal/document"
)

// Label patterns cover both Cyrillic and Latin document conventions. Name
// values are runs of letters, spaces and hyphens on the label's line.
var (
	nameAgeLineRe = regexp.MustCompile(`^[ \t]*([\p{L}][\p{L} \-]*[\p{L}]),[ \t]*(\d{1,3})(?:[^\d]|$)`)

	firstNameRe  = regexp.MustCompile(`(?i)(?:First Name|Given Name|Име|Имя|Личное имя|Name):[ \t]*([\p{L}][\p{L} \-]*)`)
	lastNameRe   = regexp.MustCompile(`(?i)(?:Last Name|Family Name|Surname|Фамилия|Фамілія):[ \t]*([\p{L}][\p{L} \-]*)`)
	middleNameRe = regexp.MustCompile(`(?i)(?:Middle Name|Patronymic|Отчество|По батькові):[ \t]*([\p{L}][\p{L} \-]*)`)
	idNumberRe   = regexp.MustCompile(`(?i)(?:ID Number|Identification|Identifier|ID|ЕГН|Номер):[ \t]*(\d{4})\d*`)
	ageAfterRe   = regexp.MustCompile(`,[ \t]*(\d{1,3})(?:\s|$)`)
)

// PersonalInfoExtractor scans parsed pages for identity fields: a name
// followed by a comma-separated age, labeled name fields and an ID number
// prefix. Page 1 is the primary search region; missing fields fall back to
// the remaining pages one by one. Extraction never fails; each field
// independently degrades to absent.
type PersonalInfoExtractor struct{}

// NewPersonalInfoExtractor creates an extractor.
func NewPersonalInfoExtractor() *PersonalInfoExtractor {
	return &PersonalInfoExtractor{}
}

// Extract builds a PersonalInformation from the document's pages.
func (e *PersonalInfoExtractor) Extract(pages []document.PageContent) PersonalInformation {
	info := EmptyPersonalInformation()
	if len(pages) == 0 {
		return info
	}

	e.scanPage(&info, pages[0])
	for _, page := range pages[1:] {
		if info.IsComplete() && info.Age != nil {
			break
		}
		e.scanPage(&info, page)
	}

	info.CharacterSet = detectCharacterSet(info.FullName())
	return info
}

// scanPage fills any still-missing fields from one page.
func (e *PersonalInfoExtractor) scanPage(info *PersonalInformation, page document.PageContent) {
	// "Name Parts, NN" line: name split on whitespace into up to three
	// parts, age validated at 0-150.
	if info.FirstName == "" {
		if first, middle, last, age, ok := findNameAgeLine(page.Lines); ok {
			info.FirstName = first
			info.MiddleName = middle
			info.LastName = last
			if info.Age == nil && age != nil {
				info.Age = age
			}
			markPage(info, page.PageNumber)
		}
	}

	if info.FirstName == "" {
		if v, ok := findLabel(firstNameRe, page.Text); ok {
			info.FirstName = v
			markPage(info, page.PageNumber)
		}
	}
	if info.LastName == "" {
		if v, ok := findLabel(lastNameRe, page.Text); ok {
			info.LastName = v
			markPage(info, page.PageNumber)
		}
	}
	if info.MiddleName == "" {
		if v, ok := findLabel(middleNameRe, page.Text); ok {
			info.MiddleName = v
			markPage(info, page.PageNumber)
		}
	}
	if info.IDNumberPrefix == "" {
		if m := idNumberRe.FindStringSubmatch(page.Text); m != nil {
			info.IDNumberPrefix = m[1]
			markPage(info, page.PageNumber)
		}
	}
	if info.Age == nil {
		if age := findAge(page.Text); age != nil {
			info.Age = age
		}
	}
}

// findNameAgeLine looks for a "Name Parts, NN" line. Name parts split on
// whitespace; 1, 2 and 3+ tokens map to first / first+last /
// first+middle+last. Extra whitespace never produces empty parts.
func findNameAgeLine(lines []string) (first, middle, last string, age *int, ok bool) {
	for _, line := range lines {
		m := nameAgeLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parts := strings.Fields(m[1])
		if len(parts) == 0 {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n >= 0 && n <= 150 {
			age = &n
		}
		switch len(parts) {
		case 1:
			first = parts[0]
		case 2:
			first, last = parts[0], parts[1]
		default:
			first, middle, last = parts[0], parts[1], strings.Join(parts[2:], " ")
		}
		return first, middle, last, age, true
	}
	return "", "", "", nil, false
}

func findLabel(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// findAge looks for a short numeric token after a comma, validated at
// 0-150. Out-of-range candidates are skipped, not clamped.
func findAge(text string) *int {
	for _, m := range ageAfterRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 || n > 150 {
			continue
		}
		return &n
	}
	return nil
}

func markPage(info *PersonalInformation, page int) {
	if info.ExtractionPage == 0 {
		info.ExtractionPage = page
	}
}

// detectCharacterSet inspects the Unicode script of the letters in text.
func detectCharacterSet(text string) CharacterSet {
	hasCyrillic, hasLatin := false, false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			hasCyrillic = true
		case unicode.Is(unicode.Latin, r):
			hasLatin = true
		}
	}
	switch {
	case hasCyrillic && hasLatin:
		return CharsetMixed
	case hasCyrillic:
		return CharsetCyrillic
	case hasLatin:
		return CharsetLatin
	default:
		return CharsetUnknown
	}
}
