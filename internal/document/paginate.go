package document

import "strings"

// DefaultWordsPerPage is the approximation threshold for formats without
// native page boundaries. DOCX and DOC pagination share this value so
// approximate page numbers stay consistent across the two formats.
const DefaultWordsPerPage = 500

// Paginate groups paragraphs into approximate pages by accumulating word
// counts. A new page starts when adding a paragraph would exceed the
// threshold. Returns nil for empty input; callers decide how to represent
// content-free documents.
func Paginate(paragraphs []string, wordsPerPage int) []PageContent {
	if wordsPerPage < 1 {
		wordsPerPage = DefaultWordsPerPage
	}
	if len(paragraphs) == 0 {
		return nil
	}

	var pages []PageContent
	var current []string
	words := 0
	number := 1

	for _, para := range paragraphs {
		n := len(strings.Fields(para))
		if words+n > wordsPerPage && len(current) > 0 {
			pages = append(pages, pageFromLines(number, current))
			number++
			current = []string{para}
			words = n
			continue
		}
		current = append(current, para)
		words += n
	}

	if len(current) > 0 {
		pages = append(pages, pageFromLines(number, current))
	}
	return pages
}

// ApproximatePageCount estimates the page count of a text body using the
// same words-per-page threshold as Paginate. Always at least 1.
func ApproximatePageCount(text string, wordsPerPage int) int {
	if wordsPerPage < 1 {
		wordsPerPage = DefaultWordsPerPage
	}
	total := len(strings.Fields(text))
	if total == 0 {
		return 1
	}
	return (total + wordsPerPage - 1) / wordsPerPage
}

func pageFromLines(number int, lines []string) PageContent {
	copied := make([]string, len(lines))
	copy(copied, lines)
	return PageContent{
		PageNumber: number,
		Text:       strings.Join(copied, "\n"),
		Lines:      copied,
	}
}
