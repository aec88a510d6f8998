package relevance

import (
	"regexp"
	"strings"
)

var declaration = regexp.MustCompile(`\b(func|class|struct|protocol|extension|enum|actor)\s+\w+`)

var codeIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\blet\s+\w+\s*[=:]`),
	regexp.MustCompile(`\bvar\s+\w+\s*[=:]`),
	regexp.MustCompile(`\breturn\s+\w+`),
	regexp.MustCompile(`\bguard\s+let`),
	regexp.MustCompile(`\bif\s+let`),
	regexp.MustCompile(`\basync\s+(func|let|var|throws)`),
	regexp.MustCompile(`\bawait\s+\w+`),
	regexp.MustCompile(`\b\w+\s*\(\s*\)\s*->\s*\w+`),
	regexp.MustCompile(`@\w+\s+(struct|class|func|var)`), // property wrappers
}

// HasCode reports whether content looks like it contains source code:
// HTML code blocks, fenced markdown, declarations, or common statements.
func HasCode(content string) bool {
	if strings.Contains(content, "<code>") || strings.Contains(content, "<pre>") {
		return true
	}
	if strings.Contains(content, "```") {
		return true
	}
	if declaration.MatchString(content) {
		return true
	}
	for _, re := range codeIndicators {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}
