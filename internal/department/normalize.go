// Package department derives document metadata labels from filenames and
// extracted text using a fixed normalization table and a small set of
// syllabus-specific patterns.
package department

import (
	"regexp"
	"strings"
	"unicode"
)

// normalization is one ordered rewrite step applied to a filename.
type normalization struct {
	pattern *regexp.Regexp
	replace string
}

// normalizations is applied in order to a lowercased filename. Keeping this
// as a table makes the label derivation deterministic and easy to extend
// when new suffix tokens show up in the corpus.
var normalizations = []normalization{
	{pattern: regexp.MustCompile(`\.pdf$`), replace: ""},
	{pattern: regexp.MustCompile(`[-_]+`), replace: " "},
	{pattern: regexp.MustCompile(`\bsyllabus\b`), replace: ""},
	{pattern: regexp.MustCompile(`\bcurriculum\b`), replace: ""},
	{pattern: regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`), replace: ""},
	{pattern: regexp.MustCompile(`\bcore\b`), replace: ""},
	{pattern: regexp.MustCompile(`\belective\b`), replace: ""},
	{pattern: regexp.MustCompile(`\s+`), replace: " "},
}

var (
	// Course codes look like 21CSC204J: batch prefix, department letters,
	// a three digit number, optional variant letter.
	courseCodeRe = regexp.MustCompile(`(21[A-Z]{2,3}\d{3}[A-Z]?)`)

	unitRe = regexp.MustCompile(`(?i)Unit\s*[-–]\s*(\d+)\s*[-–]?\s*([^\n]+)`)
)

// Normalize maps a PDF filename to a department label by applying the
// normalization table and title-casing the remainder. An empty remainder
// returns "Unknown".
func Normalize(filename string) string {
	name := strings.ToLower(filename)
	for _, n := range normalizations {
		name = n.pattern.ReplaceAllString(name, n.replace)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown"
	}
	return titleCase(name)
}

// ExtractCourseCode returns the first course code found in text, or "".
func ExtractCourseCode(text string) string {
	return courseCodeRe.FindString(text)
}

// ExtractUnit returns a "Unit N: Title" label for the first unit heading
// found in text, or "".
func ExtractUnit(text string) string {
	m := unitRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	title := strings.TrimSpace(m[2])
	return "Unit " + m[1] + ": " + title
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
