package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/dkolev/docextract/internal/document"
)

const docxDocumentEntry = "word/document.xml"

// oleSignature is the compound-file header shared by legacy .doc files and
// encrypted OOXML containers.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// DOCXParser reads the OOXML word-processing format: a ZIP container with
// the body text in word/document.xml. DOCX has no native page boundaries,
// so pages are approximated with the shared word-count heuristic.
type DOCXParser struct {
	wordsPerPage int
}

// NewDOCXParser creates a DOCX parser. wordsPerPage <= 0 selects the
// shared default threshold.
func NewDOCXParser(wordsPerPage int) *DOCXParser {
	if wordsPerPage <= 0 {
		wordsPerPage = document.DefaultWordsPerPage
	}
	return &DOCXParser{wordsPerPage: wordsPerPage}
}

// Validate checks the ZIP container and the presence of the document body
// without decoding its full content.
func (p *DOCXParser) Validate(path string) document.ValidationResult {
	if err := checkFile(path); err != nil {
		return validationFromErr(err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		// Password-protected OOXML files are OLE containers, not ZIPs.
		if hasOLESignature(path) {
			return document.Invalid(document.ErrPasswordProtected,
				"password-protected documents are not supported")
		}
		return document.Invalid(document.ErrCorrupted, "invalid or corrupted DOCX file")
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name == docxDocumentEntry {
			return document.OK()
		}
	}
	return document.Invalid(document.ErrCorrupted, "invalid DOCX file: missing %s", docxDocumentEntry)
}

// Parse extracts paragraph text and groups it into approximate pages.
func (p *DOCXParser) Parse(path string) (*document.ParseResult, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	paragraphs, err := p.readParagraphs(path)
	if err != nil {
		return nil, err
	}

	pages := document.Paginate(paragraphs, p.wordsPerPage)
	if len(pages) == 0 {
		return emptyPageResult("document has no content"), nil
	}
	return &document.ParseResult{Pages: pages, PageCount: len(pages)}, nil
}

// PageCount approximates the page count from the total word count.
func (p *DOCXParser) PageCount(path string) (int, error) {
	if err := checkFile(path); err != nil {
		return 0, err
	}
	paragraphs, err := p.readParagraphs(path)
	if err != nil {
		return 0, err
	}
	return document.ApproximatePageCount(strings.Join(paragraphs, "\n"), p.wordsPerPage), nil
}

// readParagraphs opens the container and decodes non-empty paragraphs from
// the document body.
func (p *DOCXParser) readParagraphs(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if hasOLESignature(path) {
			return nil, parseErr(document.ErrPasswordProtected, path,
				"password-protected documents are not supported")
		}
		return nil, parseErr(document.ErrCorrupted, path, "invalid or corrupted DOCX file")
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxDocumentEntry {
			body = f
			break
		}
	}
	if body == nil {
		return nil, parseErr(document.ErrCorrupted, path, "invalid DOCX file: missing %s", docxDocumentEntry)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, parseErr(document.ErrCorrupted, path, "cannot open %s: %v", docxDocumentEntry, err)
	}
	defer rc.Close()

	paragraphs, err := decodeDOCXParagraphs(rc)
	if err != nil {
		return nil, parseErr(document.ErrCorrupted, path, "cannot decode %s: %v", docxDocumentEntry, err)
	}
	return paragraphs, nil
}

// decodeDOCXParagraphs walks the WordprocessingML token stream collecting
// text runs (w:t) per paragraph (w:p). Tabs and line breaks inside a run
// become spaces; empty paragraphs are dropped, matching how the pagination
// heuristic counts words.
func decodeDOCXParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = true
			case "tab", "br":
				if inParagraph {
					current.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				inParagraph = false
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inParagraph && inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

// hasOLESignature reports whether the file starts with the compound-file
// magic bytes.
func hasOLESignature(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(oleSignature))
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header, oleSignature)
}
