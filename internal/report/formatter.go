// Package report renders extraction results into an aligned plain-text
// report and derives the output filename.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dkolev/docextract/internal/extract"
)

// columnGap is the minimum spacing between table columns.
const columnGap = 4

// Formatter renders a Result as UTF-8 plain text with Windows line
// endings, in fixed section order: metadata, personal information, keyword
// extractions, processing summary, warnings, errors.
type Formatter struct{}

// NewFormatter creates a formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders the full report. Lines are joined with CRLF.
func (f *Formatter) Format(result *extract.Result) string {
	var lines []string

	lines = append(lines,
		"Document: "+result.SourceFilename,
		"Processed: "+result.ProcessedAt.Format("2006-01-02 15:04:05"),
		"")

	lines = append(lines, "--- Personal Information ---")
	lines = append(lines, f.personalSection(result.PersonalInfo)...)
	lines = append(lines, "")

	lines = append(lines, "--- Keyword Extractions ---")
	lines = append(lines, f.keywordSection(result)...)
	lines = append(lines, "")

	lines = append(lines, "--- Processing Summary ---")
	lines = append(lines, f.summarySection(result)...)
	lines = append(lines, "")

	lines = append(lines, "--- Warnings ---")
	lines = append(lines, listSection(result.Warnings)...)
	lines = append(lines, "")

	lines = append(lines, "--- Errors ---")
	var errs []string
	for _, e := range result.Errors {
		errs = append(errs, e.Message)
	}
	lines = append(lines, listSection(errs)...)

	return strings.Join(lines, "\r\n")
}

// personalSection renders the name/age table, or per-field fallback lines
// when the table cannot be built. An age of zero counts as not extracted.
func (f *Formatter) personalSection(info extract.PersonalInformation) []string {
	if info.FullName() != "" && info.Age != nil && *info.Age != 0 {
		abbrev := info.AbbreviatedName()
		if abbrev == "" {
			abbrev = "???"
		}
		headers := []string{"ИМЕ", "ГОДИНИ"}
		row := []string{abbrev + ";", strconv.Itoa(*info.Age)}
		widths := columnWidths(headers, [][]string{row})
		return []string{formatRow(headers, widths), formatRow(row, widths)}
	}

	var lines []string
	lines = append(lines, fieldLine("First Name", info.FirstName))
	lines = append(lines, fieldLine("Last Name", info.LastName))
	if info.IDNumberPrefix != "" {
		lines = append(lines, "ID Number: "+info.IDNumberPrefix+"***")
	} else {
		lines = append(lines, "ID Number: Not found")
	}
	if info.CharacterSet != extract.CharsetUnknown {
		lines = append(lines, "Character Set: "+capitalize(string(info.CharacterSet)))
	}
	return lines
}

// keywordSection renders one column per requested keyword, in
// first-encountered order, with one value row per match. A keyword with no
// match renders a literal "Not found" with no semicolon.
func (f *Formatter) keywordSection(result *extract.Result) []string {
	if len(result.Keywords) == 0 {
		return []string{"No keyword extractions performed"}
	}

	perKeyword := make([][]extract.NumberMatch, len(result.Keywords))
	maxRows := 1
	for i, kw := range result.Keywords {
		perKeyword[i] = result.MatchesFor(kw)
		if len(perKeyword[i]) > maxRows {
			maxRows = len(perKeyword[i])
		}
	}

	rows := make([][]string, maxRows)
	for rowIdx := range rows {
		row := make([]string, len(result.Keywords))
		for col := range result.Keywords {
			matches := perKeyword[col]
			switch {
			case rowIdx < len(matches):
				row[col] = matchCell(matches[rowIdx])
			case rowIdx == 0 && len(matches) == 0:
				row[col] = "Not found"
			default:
				row[col] = ""
			}
		}
		rows[rowIdx] = row
	}

	widths := columnWidths(result.Keywords, rows)
	lines := []string{formatRow(result.Keywords, widths)}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths))
	}
	return lines
}

func (f *Formatter) summarySection(result *extract.Result) []string {
	var lines []string
	if len(result.Keywords) > 0 {
		sorted := append([]string(nil), result.Keywords...)
		sort.Strings(sorted)
		lines = append(lines, fmt.Sprintf("Total keywords: %d (%s)",
			len(result.Keywords), strings.Join(sorted, ", ")))
	} else {
		lines = append(lines, "Total keywords: 0")
	}
	lines = append(lines, fmt.Sprintf("Successful extractions: %d", result.SuccessCount()))
	lines = append(lines, fmt.Sprintf("Not found: %d", result.NotFoundCount()))
	if n := result.AmbiguousCount(); n > 0 {
		lines = append(lines, fmt.Sprintf("Ambiguous: %d", n))
	}
	lines = append(lines, fmt.Sprintf("Processing time: %.2f seconds", result.Elapsed.Seconds()))
	return lines
}

// matchCell renders one match value: numeric values get a semicolon
// suffix, ambiguous matches additionally carry a marker.
func matchCell(m extract.NumberMatch) string {
	cell := addSemicolonIfNumeric(m.Value)
	if m.Ambiguous {
		cell += " [Ambiguous]"
	}
	return cell
}

// addSemicolonIfNumeric suffixes numeric values with a semicolon; the
// literal separator in the value is preserved as extracted.
func addSemicolonIfNumeric(value string) string {
	if value == "" {
		return value
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
		return value
	}
	return value + ";"
}

// columnWidths returns, per column, the display width of the widest of the
// header and every value placed in that column. Nothing is ever truncated;
// long cells simply widen their column.
func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// formatRow renders cells left-aligned, each padded to its column width
// plus the fixed gap. Trailing spaces are trimmed.
func formatRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		b.WriteString(cell)
		if i < len(widths) {
			pad := widths[i] + columnGap - runewidth.StringWidth(cell)
			if pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func fieldLine(label, value string) string {
	if value == "" {
		value = "Not found"
	}
	return label + ": " + value
}

func listSection(items []string) []string {
	if len(items) == 0 {
		return []string{"None"}
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return lines
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
