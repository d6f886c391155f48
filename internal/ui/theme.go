package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Done                                          lipgloss.Style
	Tab, ActiveTab                                lipgloss.Style
	BoxUnchecked, BoxChecked                      string
	SymDone, SymPending, SymBusy                  string
	Border                                        lipgloss.Border
}

var current = classic()

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Done:      lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Tab:       lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")),
			ActiveTab: lipgloss.NewStyle().Padding(0, 2).Bold(true).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("13")).Foreground(lipgloss.Color("13")),

			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•", SymBusy: "◌",
			Border: lipgloss.RoundedBorder(),
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Done:      plain.Strikethrough(true),
			Tab:       plain.Padding(0, 1),
			ActiveTab: plain.Padding(0, 1).Reverse(true),

			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-", SymBusy: "~",
			Border: lipgloss.ASCIIBorder(),
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Faint(true),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Done:      lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Tab:       lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 2).Bold(true).Border(lipgloss.RoundedBorder()).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("15")),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•", SymBusy: "◌",
		Border: lipgloss.NormalBorder(),
	}
}

// Expose what renderers need
func Current() Theme { return current }
