package report

import (
	"fmt"
	"time"

	"github.com/dkolev/docextract/internal/extract"
)

// Extension is the fixed output file extension.
const Extension = ".txt"

// Filename derives the output filename: "{ABBREV}-{age}.txt" when both the
// abbreviated name and a non-zero age are present, otherwise a
// timestamp-based fallback that is unique enough for the purpose. No
// collision avoidance; an existing file with the same name is overwritten.
func Filename(info extract.PersonalInformation, now time.Time) string {
	if info.Age != nil && *info.Age != 0 {
		if abbrev := info.AbbreviatedName(); abbrev != "" {
			return fmt.Sprintf("%s-%d%s", abbrev, *info.Age, Extension)
		}
	}
	return "output_" + now.Format("20060102_150405") + Extension
}
