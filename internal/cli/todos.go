package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/todolist"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

func newLsCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Browse todos interactively",
		Args:  exactArgs(0, "todo ls [--filter all|pending|completed]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usageError{err.Error()}
			}
			if err := a.open(); err != nil {
				return err
			}
			m := tui.New(a.sync, a.disp, tui.Options{
				Filter:  f,
				Timeout: a.cfg.Timeout.Duration,
				Logger:  a.logger.Logger,
			})
			if err := tui.Run(m); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "initial tab: all, pending or completed")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		filter string
		group  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print todos",
		Args:  exactArgs(0, "todo list [--filter all|pending|completed] [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return usageError{err.Error()}
			}
			if err := a.open(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			if _, err := a.sync.Load(ctx, f.Statuses()); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			printList(a.sync, f, group)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "which todos: all, pending or completed")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/completed")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <body...>",
		Short: "Add a new todo (body can be multiple words)",
		Args:  minArgs(1, "todo add <body...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			td, err := a.disp.Create(ctx, strings.Join(args, " "))
			if errors.Is(err, todolist.ErrEmptyBody) {
				return usagef("add: empty body")
			}
			if !todolist.WriteSucceeded(err) {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(fmt.Sprintf("added #%d", td.ID))
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a todo between pending and completed",
		Args:  exactArgs(1, "todo done <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			if _, err := a.sync.Load(ctx, nil); err != nil {
				return fmt.Errorf("load: %w", err)
			}
			td, ok := a.sync.Get(id)
			if !ok {
				ui.Hint("Hint: run `todo list` to see valid ids")
				return fmt.Errorf("no todo with id %d", id)
			}
			next, err := a.disp.ToggleStatus(ctx, id, td.Status)
			if !todolist.WriteSucceeded(err) {
				return fmt.Errorf("done: %w", err)
			}
			ui.OK(fmt.Sprintf("#%d is now %s", id, next))
			return nil
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  exactArgs(1, "todo rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			if err := a.open(); err != nil {
				return err
			}
			ctx, cancel := a.ctx()
			defer cancel()
			err = a.disp.DeleteTodo(ctx, id)
			if errors.Is(err, api.ErrNotFound) {
				ui.Hint("Hint: run `todo list` to see valid ids")
				return fmt.Errorf("rm: no todo with id %d", id)
			}
			if !todolist.WriteSucceeded(err) {
				return fmt.Errorf("rm: %w", err)
			}
			ui.OK("removed")
			return nil
		},
	}
}

// -------------- rendering helpers --------------

// printList renders the cached view for f. Only an All listing has loaded
// both statuses, so only it shows totals and progress.
func printList(s *todolist.Synchronizer, f model.Filter, group bool) {
	t := ui.Current()
	var lines []string
	if f == model.FilterAll {
		c := s.Counts()
		lines = append(lines, fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			t.Title.Render("Todos"),
			t.Success.Render(t.SymDone), c.Completed,
			t.Pending.Render(t.SymPending), c.Pending,
			t.Accent.Render("Total"), c.Total(),
		))
		lines = append(lines, t.Muted.Render(ui.ProgressBar(c.Completed, c.Total(), 28)))
	} else {
		lines = append(lines, fmt.Sprintf("%s  %s %d",
			t.Title.Render("Todos"), t.Accent.Render(f.String()), len(s.View(f))))
	}
	lines = append(lines, ui.Tabs(todolist.NewSelector(f).IsActive))
	lines = append(lines, "")

	if group && f == model.FilterAll {
		lines = append(lines, groupLines(s)...)
	} else {
		lines = append(lines, flatLines(s.View(f))...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
}

func flatLines(todos []model.Todo) []string {
	if len(todos) == 0 {
		return []string{ui.Current().Muted.Render("no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		out = append(out, ui.TodoLine(td, 80))
	}
	return out
}

func groupLines(s *todolist.Synchronizer) []string {
	t := ui.Current()
	var lines []string
	for i, f := range []model.Filter{model.FilterPending, model.FilterCompleted} {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render(f.String()))
		if todos := s.View(f); len(todos) == 0 {
			lines = append(lines, t.Muted.Render("(none)"))
		} else {
			lines = append(lines, flatLines(todos)...)
		}
	}
	return lines
}
