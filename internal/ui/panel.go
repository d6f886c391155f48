package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	fmt.Fprintln(Stdout, PanelString(strings.Join(lines, "\n")))
}

func PanelString(inner string) string {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(inner)
}

// Tabs renders the filter bar, highlighting the filter isActive reports.
func Tabs(isActive func(model.Filter) bool) string {
	tabs := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		st := current.Tab
		if isActive(f) {
			st = current.ActiveTab
		}
		tabs = append(tabs, st.Render(f.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// TodoLine renders one todo: checkbox, body, and the id muted on the left.
func TodoLine(td model.Todo, maxBody int) string {
	box := current.Muted.Render(current.BoxUnchecked)
	body := Truncate(td.Body, maxBody)
	if td.Completed() {
		box = current.Success.Render(current.BoxChecked)
		body = current.Done.Render(body)
	}
	return fmt.Sprintf("%s %s %s", current.Muted.Render(fmt.Sprintf("#%-3d", td.ID)), box, body)
}

// Truncate shortens s to width display cells, ending in "...". A width of
// zero or less keeps s.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
