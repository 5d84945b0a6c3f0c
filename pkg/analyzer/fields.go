package analyzer

import "strings"

// SplitFields splits one physical line on delim. Quotes are not
// interpreted; an empty line yields a single empty field.
func SplitFields(line string, delim rune) []string {
	return strings.Split(line, string(delim))
}
