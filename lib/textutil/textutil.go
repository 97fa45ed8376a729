package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims a string and folds every run of whitespace
// (including newlines from rendered HTML) into a single space.
func CollapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

var unsafeFilenameRegex = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFilename strips characters that are unsafe in file names on any of
// the filesystems the output may land on, then bounds the length so company
// and role names cannot blow past path limits.
func SanitizeFilename(s string, maxLen int) string {
	s = unsafeFilenameRegex.ReplaceAllString(s, "")
	s = CollapseWhitespace(s)
	if runes := []rune(s); maxLen > 0 && len(runes) > maxLen {
		s = strings.TrimSpace(string(runes[:maxLen]))
	}
	return s
}

// Preview bounds a description to maxRunes runes, appending an ellipsis when
// the text was actually cut.
func Preview(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
