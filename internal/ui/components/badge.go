package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"codemate/internal/ui/theme"
)

// Badge is one achievement chip on the dashboard.
type Badge struct {
	Name   string
	Earned bool
}

// RenderBadges lays badge chips out in rows no wider than maxWidth.
func RenderBadges(badges []Badge, maxWidth int) string {
	var rows []string
	var row []string
	rowWidth := 0

	for _, b := range badges {
		chip := theme.BadgeLocked.Render("· " + b.Name)
		if b.Earned {
			chip = theme.BadgeEarned.Render("★ " + b.Name)
		}
		w := lipgloss.Width(chip) + 2
		if rowWidth+w > maxWidth && len(row) > 0 {
			rows = append(rows, strings.Join(row, "  "))
			row = row[:0]
			rowWidth = 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, "  "))
	}

	return strings.Join(rows, "\n")
}

// SectionCard wraps content in a rounded card at the given inner width.
func SectionCard(title, content string, width int) string {
	header := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Padding(0, 1).
		Render(header + "\n" + content)
}
