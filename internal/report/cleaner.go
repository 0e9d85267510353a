package report

import (
	"regexp"
	"strings"
)

var (
	headerRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.+?)\*`)
	underlineRe = regexp.MustCompile(`_(.+?)_`)
	bulletRe    = regexp.MustCompile(`(?m)^\s*[-*]\s+`)
	numberedRe  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
)

// Clean strips markdown formatting from generated commentary so the
// persisted report reads as structured plain text.
func Clean(text string) string {
	if text == "" {
		return text
	}
	text = headerRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = underlineRe.ReplaceAllString(text, "$1")
	text = bulletRe.ReplaceAllString(text, "  ")
	text = numberedRe.ReplaceAllString(text, "  ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
