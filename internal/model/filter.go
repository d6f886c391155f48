package model

import (
	"fmt"
	"strings"
)

// Filter selects which subset of todos a view shows. The zero value is All.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted

	filterCount = 3
)

// Filters lists every filter in tab order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

func (f Filter) Valid() bool { return f >= 0 && f < filterCount }

func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterPending:
		return "Pending"
	case FilterCompleted:
		return "Completed"
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// Statuses returns the set of statuses the filter selects.
func (f Filter) Statuses() []Status {
	switch f {
	case FilterPending:
		return []Status{StatusPending}
	case FilterCompleted:
		return []Status{StatusCompleted}
	}
	return []Status{StatusPending, StatusCompleted}
}

func (f Filter) Match(s Status) bool {
	switch f {
	case FilterAll:
		return s.Valid()
	case FilterPending:
		return s == StatusPending
	case FilterCompleted:
		return s == StatusCompleted
	}
	return false
}

// Next and Prev cycle through the filters in tab order.
func (f Filter) Next() Filter { return Filter((int(f) + 1) % filterCount) }
func (f Filter) Prev() Filter { return Filter((int(f) + filterCount - 1) % filterCount) }

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return FilterAll, fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
	}
	if st == StatusCompleted {
		return FilterCompleted, nil
	}
	return FilterPending, nil
}
