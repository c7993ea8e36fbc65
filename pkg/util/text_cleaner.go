package util

import (
	"regexp"
	"strings"
)

var (
	// htmlTagPattern matches markup like <b>, </script>, <br/>.
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	// multiSpacePattern matches runs of whitespace, newlines included.
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips markup and entity noise from free text submitted through
// the public forms and collapses whitespace to single spaces.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, `<\/`, `</`)
	s = htmlTagPattern.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&nbsp;", " ")

	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanPhone keeps digits and a single leading plus sign.
func CleanPhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NeedsCleanup reports whether any of the values carries markup or escaped
// sequences that CleanText would rewrite.
func NeedsCleanup(values ...string) bool {
	for _, v := range values {
		if strings.Contains(v, "<") ||
			strings.Contains(v, "&nbsp;") ||
			strings.Contains(v, `\n`) ||
			strings.Contains(v, "  ") {
			return true
		}
	}
	return false
}
