package utils

import "regexp"

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SanitizeString removes control characters from user-supplied text
// before it is persisted.
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
