package domain

import "fmt"

const DefaultSummaryWidth = 50

// SummaryLine abbreviates a turn for the history sidebar. Both halves are cut to
// width runes and always carry the ellipsis marker.
func SummaryLine(userText, assistantText string, width int) string {
	if width <= 0 {
		width = DefaultSummaryWidth
	}

	return fmt.Sprintf("%s... - %s...", truncateRunes(userText, width), truncateRunes(assistantText, width))
}

func truncateRunes(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}

	return string(runes[:width])
}
