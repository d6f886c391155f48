package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

// JSON-backed backend. Single file, human-readable, portable.
// The mutex serializes access within one process only.

const DataFileName = "todos.json"

type file struct {
	NextID int64        `json:"next_id"`
	Todos  []model.Todo `json:"todos"`
}

// Store implements api.Backend on a local JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ api.Backend = (*Store)(nil)

// New returns a Store for path. An empty path means todos.json in the
// working directory.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DataFileName)
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Todo, 0, len(f.Todos))
	for _, td := range f.Todos {
		if len(statuses) == 0 || slices.Contains(statuses, td.Status) {
			out = append(out, td)
		}
	}
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("update todo %d: %w: %q", id, model.ErrInvalidStatus, status)
	}
	return s.mutate(ctx, func(f *file) error {
		i := index(f.Todos, id)
		if i < 0 {
			return notFound(id)
		}
		f.Todos[i].Status = status
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(f *file) error {
		i := index(f.Todos, id)
		if i < 0 {
			return notFound(id)
		}
		f.Todos = slices.Delete(f.Todos, i, i+1)
		return nil
	})
}

func (s *Store) Create(ctx context.Context, body string) (model.Todo, error) {
	var td model.Todo
	err := s.mutate(ctx, func(f *file) error {
		f.NextID++
		td = model.Todo{ID: f.NextID, Body: body, Status: model.StatusPending}
		f.Todos = append(f.Todos, td)
		return nil
	})
	return td, err
}

func (s *Store) mutate(ctx context.Context, fn func(*file) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.save(f)
}

func (s *Store) load() (*file, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &file{Todos: []model.Todo{}}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	for _, td := range f.Todos {
		if td.ID > f.NextID {
			f.NextID = td.ID
		}
	}
	return &f, nil
}

func (s *Store) save(f *file) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func index(todos []model.Todo, id int64) int {
	return slices.IndexFunc(todos, func(td model.Todo) bool { return td.ID == id })
}

func notFound(id int64) error {
	return &api.Error{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: fmt.Sprintf("todo %d not found", id)}
}
