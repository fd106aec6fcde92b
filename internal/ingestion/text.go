package ingestion

import (
	"regexp"
	"strings"
)

var (
	repeatedNewlines = regexp.MustCompile(`\n{2,}`)
	excessBlankLines = regexp.MustCompile(`\n\n\n+`)
	innerWhitespace  = regexp.MustCompile(`\s+`)
)

// RemoveMultipleNewlines collapses every run of two or more newlines into one.
func RemoveMultipleNewlines(content string) string {
	return repeatedNewlines.ReplaceAllString(content, "\n")
}

// CleanText normalizes line endings and whitespace while preserving
// markdown headings, bullet lists and leading indentation.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = excessBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	if isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + trimmed
	}

	return strings.Repeat(" ", indent) + innerWhitespace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}
