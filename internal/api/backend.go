// Package api describes the remote todo backend and speaks its HTTP binding.
package api

import (
	"context"

	"github.com/idilsaglam/tada/internal/model"
)

// Backend is the source of truth for todos. Implementations must be safe
// for concurrent use.
type Backend interface {
	// GetAll returns the todos whose status is in statuses. An empty set
	// selects every status.
	GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) error
	Delete(ctx context.Context, id int64) error
	Create(ctx context.Context, body string) (model.Todo, error)
}
