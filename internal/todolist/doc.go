// Package todolist keeps a client-side todo list consistent with a remote
// backend.
//
// A Selector holds the active filter. A Synchronizer owns a single cache of
// todos keyed by id and derives every filtered view from it. A Dispatcher
// sends writes to the backend and reloads the cache after each success, so
// all views move to the new backend state together.
package todolist
