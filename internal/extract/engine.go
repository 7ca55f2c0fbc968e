package extract

import (
	"strings"
	"time"

	"github.com/dkolev/docextract/internal/document"
)

// Engine runs the matcher and the personal-info extractor over one parsed
// document and combines their output into a Result. A failing stage is
// recorded as a structured error and never aborts the remaining stages.
// One extraction job at a time; the engine holds no cross-run state.
type Engine struct {
	matcher  *KeywordMatcher
	personal *PersonalInfoExtractor
	policy   Policy
}

// NewEngine wires an engine from a separator mode and proximity policy.
func NewEngine(mode SeparatorMode, policy Policy) *Engine {
	return &Engine{
		matcher:  NewKeywordMatcher(NewNumberParser(mode)),
		personal: NewPersonalInfoExtractor(),
		policy:   policy,
	}
}

// Extract processes parsed pages against the requested keywords. The
// result lists every requested keyword exactly once, either through its
// matches or through NotFound, so the report always renders one column per
// keyword.
func (e *Engine) Extract(pages []document.PageContent, keywords []string, doc document.Document) *Result {
	started := time.Now()
	result := &Result{
		SourceFilename: doc.Filename,
		Keywords:       dedupeKeywords(keywords),
		PersonalInfo:   EmptyPersonalInformation(),
		ProcessedAt:    started,
	}

	matches, err := e.matcher.FindMatches(pages, result.Keywords, e.policy)
	if err != nil {
		result.addError("keyword_matching_error", "failed to match keywords: "+err.Error(),
			map[string]string{"keywords": strings.Join(result.Keywords, ", ")})
	} else {
		result.Matches = matches
		for _, m := range matches {
			if m.Ambiguous && m.Note != "" {
				result.addWarning(m.Note)
			}
		}
		for _, kw := range result.Keywords {
			if len(result.MatchesFor(kw)) == 0 {
				result.NotFound = append(result.NotFound, kw)
			}
		}
	}

	info := e.personal.Extract(pages)
	if err := info.Validate(); err != nil {
		result.addError("personal_info_extraction_error",
			"failed to extract personal information: "+err.Error(), nil)
		info = EmptyPersonalInformation()
	}
	result.PersonalInfo = info

	if info.FirstName == "" {
		result.addWarning("first name not found in document")
	}
	if info.IDNumberPrefix == "" {
		result.addWarning("ID number not found in document")
	}

	result.Elapsed = time.Since(started)
	return result
}

// dedupeKeywords trims and removes case-insensitive duplicates, keeping
// first-encountered order. That order becomes the report's column order.
func dedupeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
	}
	return out
}
