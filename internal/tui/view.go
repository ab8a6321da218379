package tui

import (
	"charm.land/lipgloss/v2"
)

// contentWidth returns the uniform inner width used for dashboard sections
// so the boxes visually align.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 24 {
		w = 24
	}
	return w
}

// centerBlock centers rendered content within the available area.
func centerBlock(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cur, n int) int {
	if cur >= n {
		cur = n - 1
	}
	if cur < 0 {
		cur = 0
	}
	return cur
}
