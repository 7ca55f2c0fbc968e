package parser

import (
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dkolev/docextract/internal/document"
)

// scannedTextThreshold is the minimum number of non-space characters the
// first scannedSampleSize pages must contain before a PDF counts as having
// extractable text. Below it the document is treated as scanned.
const (
	scannedTextThreshold = 10
	scannedSampleSize    = 3
)

// PDFParser extracts per-page text from PDF files. Structural validation
// and encryption detection go through pdfcpu; text extraction through
// ledongthuc/pdf, which preserves page boundaries.
type PDFParser struct{}

// NewPDFParser creates a PDF parser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Validate checks existence, readability, structural validity and
// encryption without extracting full content.
func (p *PDFParser) Validate(path string) document.ValidationResult {
	if err := checkFile(path); err != nil {
		return validationFromErr(err)
	}

	if err := p.probeStructure(path); err != nil {
		var pe *ParseError
		if e, ok := err.(*ParseError); ok {
			pe = e
			return document.Invalid(pe.Kind, "%v", pe.Err)
		}
		return document.Invalid(document.ErrCorrupted, "%v", err)
	}

	// Scanned detection samples at most the first few pages.
	f, r, err := pdf.Open(path)
	if err != nil {
		return document.Invalid(document.ErrCorrupted, "invalid PDF file: %v", err)
	}
	defer f.Close()

	if r.NumPage() > 0 && !hasExtractableText(r) {
		return document.Invalid(document.ErrNoText,
			"document has no extractable text (scanned PDFs requiring OCR are not supported)")
	}
	return document.OK()
}

// Parse extracts text from all pages, preserving page boundaries.
func (p *PDFParser) Parse(path string) (*document.ParseResult, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	if err := p.probeStructure(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, parseErr(document.ErrCorrupted, path, "failed to open PDF: %v", err)
	}
	defer f.Close()

	var pages []document.PageContent
	var warnings []string

	for num := 1; num <= r.NumPage(); num++ {
		page := r.Page(num)
		text := ""
		if !page.V.IsNull() {
			content, err := page.GetPlainText(nil)
			if err != nil {
				warnings = append(warnings, "could not extract text from page "+itoa(num))
			} else {
				text = content
			}
		}
		pages = append(pages, document.PageContent{
			PageNumber: num,
			Text:       text,
			Lines:      splitLines(text),
		})
	}

	if len(pages) == 0 {
		return emptyPageResult("document has no pages"), nil
	}

	if !pagesHaveText(pages) {
		return nil, parseErr(document.ErrNoText, path,
			"document has no extractable text (scanned PDFs requiring OCR are not supported)")
	}

	return &document.ParseResult{
		Pages:     pages,
		PageCount: len(pages),
		Warnings:  warnings,
	}, nil
}

// PageCount returns the native page count. Agrees with Parse by
// construction: both walk the same page tree.
func (p *PDFParser) PageCount(path string) (int, error) {
	if err := checkFile(path); err != nil {
		return 0, err
	}
	if err := p.probeStructure(path); err != nil {
		return 0, err
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, parseErr(document.ErrCorrupted, path, "failed to open PDF: %v", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// probeStructure opens the PDF with pdfcpu under relaxed validation and
// rejects encrypted or structurally broken files. No content extraction.
func (p *PDFParser) probeStructure(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return parseErr(document.ErrPermissionDenied, path, "cannot open file: %v", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") {
			return parseErr(document.ErrPasswordProtected, path,
				"password-protected PDFs are not supported")
		}
		return parseErr(document.ErrCorrupted, path, "invalid PDF file: %v", err)
	}
	if ctx.Encrypt != nil {
		return parseErr(document.ErrPasswordProtected, path,
			"password-protected PDFs are not supported")
	}
	return nil
}

// hasExtractableText samples the first pages for meaningful text.
func hasExtractableText(r *pdf.Reader) bool {
	var b strings.Builder
	limit := r.NumPage()
	if limit > scannedSampleSize {
		limit = scannedSampleSize
	}
	for num := 1; num <= limit; num++ {
		page := r.Page(num)
		if page.V.IsNull() {
			continue
		}
		if content, err := page.GetPlainText(nil); err == nil {
			b.WriteString(content)
		}
	}
	return countNonSpace(b.String()) >= scannedTextThreshold
}

func pagesHaveText(pages []document.PageContent) bool {
	var b strings.Builder
	for i, p := range pages {
		if i >= scannedSampleSize {
			break
		}
		b.WriteString(p.Text)
	}
	return countNonSpace(b.String()) >= scannedTextThreshold
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			n++
		}
	}
	return n
}
