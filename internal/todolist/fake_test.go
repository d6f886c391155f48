package todolist

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

var errBackendDown = errors.New("backend down")

// fakeBackend is an in-memory api.Backend with failure injection.
type fakeBackend struct {
	mu     sync.Mutex
	todos  []model.Todo
	nextID int64

	getAllCalls int
	updateCalls int
	// beforeGetAll runs outside the lock with the read's context and the
	// 1-based call number.
	beforeGetAll func(ctx context.Context, call int)

	failGetAll bool
	failUpdate bool
	failDelete bool
}

func newFakeBackend(todos ...model.Todo) *fakeBackend {
	f := &fakeBackend{todos: slices.Clone(todos)}
	for _, td := range todos {
		f.nextID = max(f.nextID, td.ID)
	}
	return f
}

func (f *fakeBackend) GetAll(ctx context.Context, statuses []model.Status) ([]model.Todo, error) {
	f.mu.Lock()
	f.getAllCalls++
	call, hook := f.getAllCalls, f.beforeGetAll
	f.mu.Unlock()
	if hook != nil {
		hook(ctx, call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGetAll {
		return nil, errBackendDown
	}
	var out []model.Todo
	for _, td := range f.todos {
		if len(statuses) == 0 || slices.Contains(statuses, td.Status) {
			out = append(out, td)
		}
	}
	return out, nil
}

func (f *fakeBackend) UpdateStatus(ctx context.Context, id int64, status model.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.failUpdate {
		return errBackendDown
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Status = status
			return nil
		}
	}
	return &api.Error{StatusCode: 404}
}

func (f *fakeBackend) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errBackendDown
	}
	i := slices.IndexFunc(f.todos, func(td model.Todo) bool { return td.ID == id })
	if i < 0 {
		return &api.Error{StatusCode: 404}
	}
	f.todos = slices.Delete(f.todos, i, i+1)
	return nil
}

func (f *fakeBackend) Create(ctx context.Context, body string) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	td := model.Todo{ID: f.nextID, Body: body, Status: model.StatusPending}
	f.todos = append(f.todos, td)
	return td, nil
}

func (f *fakeBackend) set(fn func(*fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getAllCalls
}
