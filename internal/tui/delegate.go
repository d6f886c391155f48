package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
)

// listItem adapts a cached todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
	busy bool // a write for this todo is in flight
}

func (i listItem) Title() string       { return i.todo.Body }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Body }

var selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

// itemDelegate draws a todo on one line: a checkbox for its status, or a
// busy glyph while a write for it is in flight.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	body := ui.Truncate(it.todo.Body, m.Width()-6)
	if it.todo.Completed() {
		box = t.Success.Render(t.BoxChecked)
		body = t.Done.Render(body)
	}
	if it.busy {
		box = t.Pending.Render(t.SymBusy)
		body = t.Muted.Render(body)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, body)
}
