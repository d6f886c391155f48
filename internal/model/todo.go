package model

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the completion state of a todo as the backend reports it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ErrInvalidStatus is returned for any status other than pending or completed.
var ErrInvalidStatus = errors.New("invalid status")

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusPending, StatusCompleted}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the complement of s. Invalid statuses are returned unchanged.
func (s Status) Toggle() Status {
	switch s {
	case StatusPending:
		return StatusCompleted
	case StatusCompleted:
		return StatusPending
	}
	return s
}

// ParseStatus accepts "pending" or "completed" (also "done"), case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Todo is the client-side copy of a backend todo. IDs are assigned by the
// backend and never change.
type Todo struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	Status Status `json:"status"`
}

func (t Todo) Completed() bool { return t.Status == StatusCompleted }
