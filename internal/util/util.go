package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const objectIDNamespace = "druid:"

// StripNamespace removes the namespace token from an object id.
func StripNamespace(objectID string) string {
	return strings.ReplaceAll(objectID, objectIDNamespace, "")
}

// Capitalize upper-cases the first letter and lower-cases the rest, "3d" stays "3d".
func Capitalize(str string) string {
	r, size := utf8.DecodeRuneInString(str)
	if r == utf8.RuneError {
		return str
	}

	return string(unicode.ToUpper(r)) + strings.ToLower(str[size:])
}
