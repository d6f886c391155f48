package todolist

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/idilsaglam/tada/internal/model"
)

func ids(todos []model.Todo) []int64 {
	out := make([]int64, len(todos))
	for i, td := range todos {
		out[i] = td.ID
	}
	return out
}

func contains(todos []model.Todo, id int64) bool {
	for _, td := range todos {
		if td.ID == id {
			return true
		}
	}
	return false
}

func sampleTodos() []model.Todo {
	return []model.Todo{
		{ID: 1, Body: "Buy milk", Status: model.StatusPending},
		{ID: 2, Body: "Walk dog", Status: model.StatusCompleted},
		{ID: 3, Body: "Call mom", Status: model.StatusPending},
	}
}

func TestLoadPopulatesViews(t *testing.T) {
	s := NewSynchronizer(newFakeBackend(sampleTodos()...))
	todos, err := s.Load(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(todos); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Load = %v", got)
	}
	if got := ids(s.View(model.FilterPending)); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Pending view = %v", got)
	}
	if got := ids(s.View(model.FilterCompleted)); len(got) != 1 || got[0] != 2 {
		t.Errorf("Completed view = %v", got)
	}
	if c := s.Counts(); c.Pending != 2 || c.Completed != 1 || c.Total() != 3 {
		t.Errorf("Counts = %+v", c)
	}
}

func TestLoadWithStatusesReturnsOnlyThoseStatuses(t *testing.T) {
	s := NewSynchronizer(newFakeBackend(sampleTodos()...))
	todos, err := s.Load(context.Background(), []model.Status{model.StatusCompleted})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(todos); len(got) != 1 || got[0] != 2 {
		t.Fatalf("Load(completed) = %v", got)
	}
}

func TestPartialLoadReplacesOnlyItsStatuses(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend(sampleTodos()...)
	s := NewSynchronizer(b)
	if _, err := s.Load(ctx, nil); err != nil {
		t.Fatal(err)
	}

	// id 3 is deleted and id 4 is added behind the client's back.
	b.set(func(f *fakeBackend) {
		f.todos = []model.Todo{
			{ID: 1, Body: "Buy milk", Status: model.StatusPending},
			{ID: 2, Body: "Walk dog", Status: model.StatusCompleted},
			{ID: 4, Body: "Pay rent", Status: model.StatusPending},
		}
	})
	if _, err := s.Load(ctx, []model.Status{model.StatusPending}); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.View(model.FilterAll)); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 4 {
		t.Fatalf("All view = %v", got)
	}
}

func TestLoadFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend(sampleTodos()...)
	s := NewSynchronizer(b)
	if _, err := s.Load(ctx, nil); err != nil {
		t.Fatal(err)
	}

	b.set(func(f *fakeBackend) { f.failGetAll = true })
	todos, err := s.Load(ctx, nil)
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("err = %v", err)
	}
	if len(todos) != 3 {
		t.Errorf("stale view has %d todos, want 3", len(todos))
	}
	if !errors.Is(s.LastError(), errBackendDown) {
		t.Errorf("LastError = %v", s.LastError())
	}

	// retry succeeds and clears the error
	b.set(func(f *fakeBackend) { f.failGetAll = false })
	if _, err := s.Load(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if s.LastError() != nil {
		t.Errorf("LastError after success = %v", s.LastError())
	}
}

func TestConcurrentLoadsAreCoalesced(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 4)
	b := newFakeBackend(sampleTodos()...)
	b.beforeGetAll = func(context.Context, int) {
		entered <- struct{}{}
		<-release
	}
	s := NewSynchronizer(b)

	var wg sync.WaitGroup
	first := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(first)
		_, _ = s.Load(context.Background(), nil)
	}()
	<-first
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Load(context.Background(), []model.Status{model.StatusCompleted, model.StatusPending})
	}()
	// give the second caller time to join the in-flight call
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := b.calls(); n != 1 {
		t.Fatalf("backend GetAll called %d times, want 1", n)
	}
}

func TestSupersededReloadIsDropped(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	b := newFakeBackend(sampleTodos()...)
	b.beforeGetAll = func(_ context.Context, call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}
	s := NewSynchronizer(b)

	done := make(chan error)
	go func() {
		_, err := s.Load(context.Background(), nil)
		done <- err
	}()
	<-entered

	// The first read has been issued but not answered. A write lands and a
	// fresh reload completes first.
	b.set(func(f *fakeBackend) { f.todos = f.todos[:1] })
	if err := s.InvalidateAndReload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.View(model.FilterAll)); len(got) != 1 {
		t.Fatalf("after reload All = %v", got)
	}

	// The stale answer reads the backend after the write too, so make it
	// return the old three-item state to prove it is discarded.
	b.set(func(f *fakeBackend) { f.todos = sampleTodos() })
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := ids(s.View(model.FilterAll)); len(got) != 1 || got[0] != 1 {
		t.Fatalf("superseded load overwrote cache: All = %v", got)
	}
	if n := b.calls(); n != 2 {
		t.Errorf("GetAll calls = %d, want 2", n)
	}
}

func backendIDs(b *fakeBackend, f model.Filter) []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []int64{}
	for _, td := range b.todos {
		if f.Match(td.Status) {
			out = append(out, td.ID)
		}
	}
	slices.Sort(out)
	return out
}

func checkViewsMatchBackend(t *testing.T, s *Synchronizer, b *fakeBackend) {
	t.Helper()
	for _, f := range model.Filters {
		got := ids(s.View(f))
		slices.Sort(got)
		if want := backendIDs(b, f); !slices.Equal(got, want) {
			t.Errorf("%v view = %v, backend has %v", f, got, want)
		}
	}
}

func TestPartialLoadAnsweringDuringResyncKeepsToggledTodo(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend(sampleTodos()...)
	s := NewSynchronizer(b)
	if _, err := s.Load(ctx, nil); err != nil {
		t.Fatal(err)
	}

	release := make(chan struct{})
	entered := make(chan struct{})
	b.set(func(f *fakeBackend) {
		f.beforeGetAll = func(_ context.Context, call int) {
			if call == 2 {
				close(entered)
				<-release
			}
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := NewDispatcher(b, s).ToggleStatus(ctx, 1, model.StatusPending)
		done <- err
	}()
	<-entered

	// A pending-only read issued after the resync answers before it.
	if _, err := s.Load(ctx, []model.Status{model.StatusPending}); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}

	checkViewsMatchBackend(t, s, b)
	if !contains(s.View(model.FilterCompleted), 1) {
		t.Fatalf("toggled todo missing from Completed: %v", ids(s.View(model.FilterAll)))
	}
}

func TestPartialLoadAnsweringAfterResyncIsDropped(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend(sampleTodos()...)
	s := NewSynchronizer(b)
	if _, err := s.Load(ctx, nil); err != nil {
		t.Fatal(err)
	}

	release := make(chan struct{})
	entered := make(chan struct{})
	b.set(func(f *fakeBackend) {
		f.beforeGetAll = func(_ context.Context, call int) {
			if call == 2 {
				close(entered)
				<-release
			}
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Load(ctx, []model.Status{model.StatusPending})
		done <- err
	}()
	<-entered

	if _, err := NewDispatcher(b, s).ToggleStatus(ctx, 1, model.StatusPending); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	var after []model.Todo
	b.set(func(f *fakeBackend) { after = slices.Clone(f.todos) })

	// The pending read answers with the state from before the toggle.
	b.set(func(f *fakeBackend) { f.todos = sampleTodos() })
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	b.set(func(f *fakeBackend) { f.todos = after })

	checkViewsMatchBackend(t, s, b)
}

func TestSupersededFailureLeavesLastErrorClear(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	b := newFakeBackend(sampleTodos()...)
	b.beforeGetAll = func(_ context.Context, call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}
	s := NewSynchronizer(b)

	done := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), nil)
		done <- err
	}()
	<-entered

	if err := s.InvalidateAndReload(context.Background()); err != nil {
		t.Fatal(err)
	}
	b.set(func(f *fakeBackend) { f.failGetAll = true })
	close(release)
	if err := <-done; !errors.Is(err, errBackendDown) {
		t.Fatalf("stale read err = %v", err)
	}
	if err := s.LastError(); err != nil {
		t.Errorf("LastError after a newer success = %v", err)
	}
	checkViewsMatchBackend(t, s, b)
}

func TestCanceledCallerDoesNotCancelSharedRead(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	readErr := make(chan error, 1)
	b := newFakeBackend(sampleTodos()...)
	b.beforeGetAll = func(ctx context.Context, call int) {
		if call == 1 {
			close(entered)
			<-release
			readErr <- ctx.Err()
		}
	}
	s := NewSynchronizer(b)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := s.Load(ctx, nil)
		first <- err
	}()
	<-entered
	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled caller err = %v", err)
	}

	second := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), nil)
		second <- err
	}()
	// give the second caller time to join the in-flight call
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := <-second; err != nil {
		t.Fatalf("live caller err = %v", err)
	}
	if err := <-readErr; err != nil {
		t.Errorf("backend read saw %v", err)
	}
	if got := s.View(model.FilterAll); len(got) != 3 {
		t.Errorf("All = %v", ids(got))
	}
}

func TestAllViewIsUnionOfPendingAndCompleted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 50; round++ {
		var todos []model.Todo
		n := int64(rng.Intn(20))
		for id := int64(1); id <= n; id++ {
			st := model.StatusPending
			if rng.Intn(2) == 0 {
				st = model.StatusCompleted
			}
			todos = append(todos, model.Todo{ID: id, Status: st})
		}
		s := NewSynchronizer(newFakeBackend(todos...))
		if _, err := s.Load(context.Background(), nil); err != nil {
			t.Fatal(err)
		}

		all := s.View(model.FilterAll)
		pending := s.View(model.FilterPending)
		completed := s.View(model.FilterCompleted)
		if len(all) != len(pending)+len(completed) {
			t.Fatalf("round %d: |All|=%d, |Pending|+|Completed|=%d", round, len(all), len(pending)+len(completed))
		}
		seen := map[int64]bool{}
		for _, td := range all {
			if seen[td.ID] {
				t.Fatalf("round %d: duplicate id %d in All", round, td.ID)
			}
			seen[td.ID] = true
			if !contains(pending, td.ID) && !contains(completed, td.ID) {
				t.Fatalf("round %d: id %d in All only", round, td.ID)
			}
		}
	}
}

func TestDuplicateIDsFromBackendAreCollapsed(t *testing.T) {
	b := newFakeBackend(
		model.Todo{ID: 1, Body: "old", Status: model.StatusPending},
		model.Todo{ID: 1, Body: "new", Status: model.StatusCompleted},
	)
	s := NewSynchronizer(b)
	if _, err := s.Load(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	all := s.View(model.FilterAll)
	if len(all) != 1 || all[0].Body != "new" {
		t.Fatalf("All = %+v", all)
	}
	if len(s.View(model.FilterPending)) != 0 {
		t.Fatal("collapsed entry still visible under Pending")
	}
}

func TestViewIsACopy(t *testing.T) {
	s := NewSynchronizer(newFakeBackend(sampleTodos()...))
	if _, err := s.Load(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	v := s.View(model.FilterAll)
	v[0].Body = "mutated"
	if td, _ := s.Get(1); td.Body != "Buy milk" {
		t.Fatalf("cache was mutated through view: %q", td.Body)
	}
}
