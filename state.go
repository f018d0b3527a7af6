package appkit

import (
	"maps"
	"slices"
)

// State is the application-lifetime key-value bag shared by every handler.
//
// State has no internal locking. Handlers that mutate it while requests are
// served concurrently must synchronize themselves, for example by storing a
// mutex-protected value once at startup and only reading the key afterwards.
type State struct {
	values map[string]any
}

// NewState returns an empty State.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *State) Set(key string, value any) {
	s.values[key] = value
}

func (s *State) Delete(key string) {
	delete(s.values, key)
}

func (s *State) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (s *State) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// StateValue returns the value stored under key if it has type T.
//
//	db, ok := appkit.StateValue[*sql.DB](app.State(), "db")
func StateValue[T any](s *State, key string) (T, bool) {
	v, ok := s.values[key].(T)
	return v, ok
}
