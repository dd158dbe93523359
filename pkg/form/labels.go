package form

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var labelAcronyms = map[string]string{
	"id":  "ID",
	"url": "URL",
	"api": "API",
}

// DefaultLabel converts a field name into a sentence-case label used by the
// default rule messages: "fullName" becomes "Full name", "employeeId"
// becomes "Employee ID".
func DefaultLabel(name string) string {
	if name == "" {
		return ""
	}

	words := labelWords(name)
	if len(words) == 0 {
		return ""
	}

	title := cases.Title(language.English)
	for i, word := range words {
		lower := strings.ToLower(word)
		if acronym, ok := labelAcronyms[lower]; ok {
			words[i] = acronym
			continue
		}
		if i == 0 {
			words[i] = title.String(lower)
			continue
		}
		words[i] = lower
	}
	return strings.Join(words, " ")
}

// labelWords splits name on '_', '-' and spaces, and inside each chunk on
// lower-to-upper and letter-digit transitions.
func labelWords(name string) []string {
	var words []string
	start := -1
	for i, r := range name {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, name[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev, _ := utf8.DecodeLastRuneInString(name[:i])
		lowerToUpper := unicode.IsLower(prev) && unicode.IsUpper(r)
		letterDigit := unicode.IsLetter(prev) != unicode.IsLetter(r) && (unicode.IsDigit(prev) || unicode.IsDigit(r))
		if lowerToUpper || letterDigit {
			words = append(words, name[start:i])
			start = i
		}
	}
	if start >= 0 {
		words = append(words, name[start:])
	}
	return words
}
