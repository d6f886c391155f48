package todolist

import "github.com/idilsaglam/tada/internal/model"

// Selector tracks the one active filter. The zero value selects All.
type Selector struct {
	active model.Filter
}

func NewSelector(f model.Filter) *Selector {
	s := &Selector{}
	s.Select(f)
	return s
}

func (s *Selector) Active() model.Filter { return s.active }

// Select makes f the active filter. Unknown filters are ignored.
func (s *Selector) Select(f model.Filter) {
	if f.Valid() {
		s.active = f
	}
}

func (s *Selector) IsActive(f model.Filter) bool { return s.active == f }

func (s *Selector) Next() model.Filter {
	s.active = s.active.Next()
	return s.active
}

func (s *Selector) Prev() model.Filter {
	s.active = s.active.Prev()
	return s.active
}
