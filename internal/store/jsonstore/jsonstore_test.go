package jsonstore

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", DataFileName))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMissingFileIsEmpty(t *testing.T) {
	s := newStore(t)
	todos, err := s.GetAll(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 0 {
		t.Fatalf("todos = %v", todos)
	}
}

func TestCreateToggleDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a, err := s.Create(ctx, "Buy milk")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Create(ctx, "Walk dog")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("duplicate ids %d", a.ID)
	}

	if err := s.UpdateStatus(ctx, a.ID, model.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	done, _ := s.GetAll(ctx, []model.Status{model.StatusCompleted})
	if len(done) != 1 || done[0].ID != a.ID {
		t.Fatalf("completed = %+v", done)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, a.ID); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	all, _ := s.GetAll(ctx, nil)
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("all = %+v", all)
	}

	// ids are not reused after delete
	c, _ := s.Create(ctx, "Call mom")
	if c.ID <= b.ID {
		t.Fatalf("reused id %d", c.ID)
	}
}

func TestUpdateStatusRejectsInvalid(t *testing.T) {
	s := newStore(t)
	td, _ := s.Create(context.Background(), "x")
	err := s.UpdateStatus(context.Background(), td.ID, model.Status("archived"))
	if !errors.Is(err, model.ErrInvalidStatus) {
		t.Fatalf("err = %v", err)
	}
}

func TestCorruptFile(t *testing.T) {
	s := newStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetAll(context.Background(), nil); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestCanceledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Create(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestMissingTodoIsHTTPNotFound(t *testing.T) {
	s := newStore(t)
	err := s.UpdateStatus(context.Background(), 42, model.StatusCompleted)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %#v, want a 404 api.Error", err)
	}
}
