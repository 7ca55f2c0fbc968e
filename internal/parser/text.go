package parser

import (
	"strconv"
	"strings"
)

// splitLines splits text on both \n and \r\n line endings. Returns nil for
// empty text.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
