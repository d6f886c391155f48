package todolist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

// ErrEmptyBody is returned by Create for a blank body.
var ErrEmptyBody = errors.New("todo body cannot be empty")

// ReloadError reports a write that the backend accepted but whose follow-up
// reload failed. The cache still holds the pre-write state.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string { return "reload after write: " + e.Err.Error() }
func (e *ReloadError) Unwrap() error { return e.Err }

// WriteSucceeded reports whether err is nil or only a ReloadError.
func WriteSucceeded(err error) bool {
	var re *ReloadError
	return err == nil || errors.As(err, &re)
}

// Dispatcher turns user actions into backend writes and resynchronizes the
// cache after each successful write. Failed writes leave the cache alone.
type Dispatcher struct {
	backend api.Backend
	sync    *Synchronizer
	logger  *log.Logger
}

func NewDispatcher(b api.Backend, s *Synchronizer) *Dispatcher {
	return &Dispatcher{backend: b, sync: s, logger: s.logger}
}

// ToggleStatus flips the todo from current to its complement and returns the
// status that was sent.
func (d *Dispatcher) ToggleStatus(ctx context.Context, id int64, current model.Status) (model.Status, error) {
	if !current.Valid() {
		return current, fmt.Errorf("toggle todo %d: %w: %q", id, model.ErrInvalidStatus, current)
	}
	next := current.Toggle()
	if err := d.backend.UpdateStatus(ctx, id, next); err != nil {
		d.logger.Warn("toggle failed", "id", id, "status", next, "err", err)
		return current, err
	}
	d.logger.Info("toggled", "id", id, "from", current, "to", next)
	return next, d.resync(ctx)
}

// DeleteTodo removes the todo. Deleting an id the backend no longer has
// returns the backend's error, typically api.ErrNotFound.
func (d *Dispatcher) DeleteTodo(ctx context.Context, id int64) error {
	if err := d.backend.Delete(ctx, id); err != nil {
		d.logger.Warn("delete failed", "id", id, "err", err)
		return err
	}
	d.logger.Info("deleted", "id", id)
	return d.resync(ctx)
}

func (d *Dispatcher) Create(ctx context.Context, body string) (model.Todo, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return model.Todo{}, ErrEmptyBody
	}
	td, err := d.backend.Create(ctx, body)
	if err != nil {
		d.logger.Warn("create failed", "err", err)
		return model.Todo{}, err
	}
	d.logger.Info("created", "id", td.ID)
	return td, d.resync(ctx)
}

func (d *Dispatcher) resync(ctx context.Context) error {
	if err := d.sync.InvalidateAndReload(ctx); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}
