package todolist

import (
	"slices"

	"github.com/idilsaglam/tada/internal/model"
)

// cache is an immutable snapshot of the backend state. Updates build a new
// cache; readers never see a partially applied response.
type cache struct {
	byID  map[int64]model.Todo
	order []int64
}

// Counts holds per-status totals of the cache.
type Counts struct {
	Pending   int
	Completed int
}

func (c Counts) Total() int { return c.Pending + c.Completed }

func newCache(todos []model.Todo) *cache {
	c := &cache{byID: make(map[int64]model.Todo, len(todos))}
	for _, td := range todos {
		c.put(td)
	}
	return c
}

// put inserts or replaces td. A repeated id keeps its first position.
func (c *cache) put(td model.Todo) {
	if _, ok := c.byID[td.ID]; !ok {
		c.order = append(c.order, td.ID)
	}
	c.byID[td.ID] = td
}

// withStatuses returns a copy of c where every entry whose status is in
// statuses is replaced by todos. Entries of other statuses are kept.
func (c *cache) withStatuses(statuses []model.Status, todos []model.Todo) *cache {
	fresh := make(map[int64]model.Todo, len(todos))
	for _, td := range todos {
		fresh[td.ID] = td
	}
	next := &cache{byID: make(map[int64]model.Todo, len(c.byID)+len(todos))}
	for _, id := range c.order {
		if td, ok := fresh[id]; ok {
			next.put(td)
			continue
		}
		if old := c.byID[id]; !slices.Contains(statuses, old.Status) {
			next.put(old)
		}
	}
	for _, td := range todos {
		next.put(td)
	}
	return next
}

func (c *cache) view(f model.Filter) []model.Todo {
	out := make([]model.Todo, 0, len(c.order))
	for _, id := range c.order {
		if td := c.byID[id]; f.Match(td.Status) {
			out = append(out, td)
		}
	}
	return out
}

func (c *cache) get(id int64) (model.Todo, bool) {
	td, ok := c.byID[id]
	return td, ok
}

func (c *cache) counts() Counts {
	var n Counts
	for _, td := range c.byID {
		switch td.Status {
		case model.StatusPending:
			n.Pending++
		case model.StatusCompleted:
			n.Completed++
		}
	}
	return n
}
