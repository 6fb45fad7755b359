package util

import (
	"regexp"
	"strings"
)

var (
	corporateSuffixes = regexp.MustCompile(`(?i)\s*\b(Inc|Incorporated|Corporation|Corp|Ltd|LLC|PLC)\b\.?,?\s*`)
	extraWhitespace   = regexp.MustCompile(`\s+`)
)

// ExtractCompanyName strips corporate suffixes so that headline matching
// finds "Apple" in articles that never spell out "Apple Inc.".
func ExtractCompanyName(fullName string) string {
	clean := corporateSuffixes.ReplaceAllString(fullName, " ")
	clean = extraWhitespace.ReplaceAllString(clean, " ")
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(clean), ".,"))
}
