// Package tui is the interactive todo list: filter tabs over a list that
// stays in step with the backend.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/todolist"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options tune the interactive list.
type Options struct {
	Filter  model.Filter
	Timeout time.Duration
	Logger  *log.Logger
}

type Model struct {
	sync    *todolist.Synchronizer
	disp    *todolist.Dispatcher
	sel     *todolist.Selector
	timeout time.Duration
	logger  *log.Logger

	list    list.Model
	spinner spinner.Model
	keys    keyMap

	// Inline add
	adding bool
	ti     textinput.Model

	inflight int
	busy     map[int64]bool

	status    string
	statusErr bool

	width, height int
}

const statusReloading = "reloading…"

// Messages produced by commands.
type (
	loadedMsg struct{ err error }

	mutatedMsg struct {
		op  string
		id  int64
		err error
	}
)

func New(s *todolist.Synchronizer, d *todolist.Dispatcher, opt Options) Model {
	if opt.Timeout <= 0 {
		opt.Timeout = 10 * time.Second
	}
	if opt.Logger == nil {
		opt.Logger = logging.Discard().Logger
	}
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(true)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = ui.Current().Accent

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	m := Model{
		sync:    s,
		disp:    d,
		sel:     todolist.NewSelector(opt.Filter),
		timeout: opt.Timeout,
		logger:  opt.Logger,
		list:    l,
		spinner: sp,
		keys:    keys,
		ti:      ti,
		busy:    map[int64]bool{},

		inflight: 1,
	}
	m.resize(80, 24)
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init issues the first load; New already counts it as in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.done()
		switch {
		case msg.err != nil:
			m.setError("load failed: " + describe(msg.err) + " (r to retry)")
		case m.status == statusReloading, m.statusErr && strings.HasPrefix(m.status, "load failed"):
			m.setStatus("up to date")
		}
		cmd := m.refresh()
		return m, cmd

	case mutatedMsg:
		m.done()
		delete(m.busy, msg.id)
		switch {
		case !todolist.WriteSucceeded(msg.err):
			m.setError(msg.op + " failed: " + describe(msg.err))
		case msg.err != nil:
			m.setError(msg.op + " saved, but refresh failed: " + describe(errors.Unwrap(msg.err)) + " (r to retry)")
		default:
			m.setStatus(pastTense(msg.op))
		}
		cmd := m.refresh()
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		// Let the list own keys while the fuzzy filter is being typed.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.sel.Next()
			cmd := m.refresh()
			return m, cmd
		case key.Matches(msg, m.keys.PrevTab):
			m.sel.Prev()
			cmd := m.refresh()
			return m, cmd
		case key.Matches(msg, m.keys.All):
			m.sel.Select(model.FilterAll)
			cmd := m.refresh()
			return m, cmd
		case key.Matches(msg, m.keys.Pending):
			m.sel.Select(model.FilterPending)
			cmd := m.refresh()
			return m, cmd
		case key.Matches(msg, m.keys.Completed):
			m.sel.Select(model.FilterCompleted)
			cmd := m.refresh()
			return m, cmd
		case key.Matches(msg, m.keys.Reload):
			m.inflight++
			m.setStatus(statusReloading)
			return m, m.loadCmd()
		case key.Matches(msg, m.keys.Toggle):
			if td, ok := m.selected(); ok && !m.busy[td.ID] {
				m.start(td.ID)
				cmd := m.refresh()
				return m, tea.Batch(m.toggleCmd(td), cmd)
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if td, ok := m.selected(); ok && !m.busy[td.ID] {
				m.start(td.ID)
				cmd := m.refresh()
				return m, tea.Batch(m.deleteCmd(td.ID), cmd)
			}
			return m, nil
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.ti.SetValue("")
			m.resize(m.width, m.height)
			cmd := m.ti.Focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		body := strings.TrimSpace(m.ti.Value())
		if body == "" {
			m.setError(todolist.ErrEmptyBody.Error())
			return m, nil
		}
		m.stopAdding()
		m.inflight++
		return m, m.createCmd(body)
	case "esc":
		m.stopAdding()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) stopAdding() {
	m.adding = false
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize(m.width, m.height)
}

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder

	header := ui.Tabs(m.sel.IsActive)
	if m.inflight > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, "  ", m.spinner.View())
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.list.View())

	if m.adding {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		b.WriteString("\n")
		b.WriteString(bar.Render("Add todo\n" + m.ti.View()))
	}

	b.WriteString("\n")
	switch {
	case m.status == "":
		b.WriteString(t.Muted.Render(" "))
	case m.statusErr:
		b.WriteString(t.Error.Render(m.status))
	default:
		b.WriteString(t.Success.Render(m.status))
	}
	return ui.PanelString(b.String())
}

// refresh rebuilds the list from the cache's view of the active filter.
func (m *Model) refresh() tea.Cmd {
	todos := m.sync.View(m.sel.Active())
	items := make([]list.Item, 0, len(todos))
	for _, td := range todos {
		items = append(items, listItem{todo: td, busy: m.busy[td.ID]})
	}
	m.list.Title = m.title()
	return m.list.SetItems(items)
}

func (m Model) title() string {
	t := ui.Current()
	c := m.sync.Counts()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), c.Completed,
		t.Pending.Render(t.SymPending), c.Pending,
		t.Accent.Render("Total"), c.Total(),
	)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	// panel border + padding, tab bar, status line
	listHeight := h - 2 - 3 - 1
	if m.adding {
		listHeight -= 4
	}
	m.list.SetSize(max(w-4, 10), max(listHeight, 3))
	m.ti.Width = max(w-10, 10)
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m *Model) start(id int64) {
	m.inflight++
	m.busy[id] = true
}

func (m *Model) done() {
	if m.inflight > 0 {
		m.inflight--
	}
}

func (m *Model) setStatus(s string) { m.status, m.statusErr = s, false }
func (m *Model) setError(s string)  { m.status, m.statusErr = s, true }

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.sync.Load(ctx, nil)
		return loadedMsg{err: err}
	}
}

func (m Model) toggleCmd(td model.Todo) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.disp.ToggleStatus(ctx, td.ID, td.Status)
		return mutatedMsg{op: "toggle", id: td.ID, err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return mutatedMsg{op: "delete", id: id, err: m.disp.DeleteTodo(ctx, id)}
	}
}

func (m Model) createCmd(body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		_, err := m.disp.Create(ctx, body)
		return mutatedMsg{op: "add", err: err}
	}
}

func pastTense(op string) string {
	switch op {
	case "toggle":
		return "toggled"
	case "delete":
		return "deleted"
	case "add":
		return "added"
	}
	return op
}

// describe shortens backend errors for the status line.
func describe(err error) string {
	switch {
	case errors.Is(err, api.ErrNotFound):
		return "no longer exists"
	case errors.Is(err, api.ErrUnauthorized):
		return "not authorized (run `todo auth login`)"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	}
	return err.Error()
}
