package exceptions

import (
	"iter"
	"net/http"

	"github.com/dmitrymomot/appkit/core"
)

// Handler converts a failure into a response. It has the shape
// (request, error) -> response.
type Handler func(r *http.Request, err error) core.Response

type entry struct {
	key     Key
	handler Handler
}

// Registry is an insertion ordered mapping from Key to Handler.
// Setting an existing key replaces its handler and keeps its position.
// A Registry is not safe for concurrent mutation.
type Registry struct {
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set inserts or overwrites the handler for key. Nil handlers are ignored.
func (r *Registry) Set(key Key, h Handler) {
	if h == nil || key.kind == 0 {
		return
	}
	for i := range r.entries {
		if r.entries[i].key.Equal(key) {
			r.entries[i].handler = h
			return
		}
	}
	r.entries = append(r.entries, entry{key: key, handler: h})
}

// Get returns the handler registered for key.
func (r *Registry) Get(key Key) (Handler, bool) {
	for _, e := range r.entries {
		if e.key.Equal(key) {
			return e.handler, true
		}
	}
	return nil, false
}

// Delete removes key and reports whether it was present.
func (r *Registry) Delete(key Key) bool {
	for i, e := range r.entries {
		if e.key.Equal(key) {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// All iterates entries in insertion order.
func (r *Registry) All() iter.Seq2[Key, Handler] {
	return func(yield func(Key, Handler) bool) {
		if r == nil {
			return
		}
		for _, e := range r.entries {
			if !yield(e.key, e.handler) {
				return
			}
		}
	}
}

// Clone returns an independent copy, used to snapshot configuration.
func (r *Registry) Clone() *Registry {
	c := &Registry{}
	if r != nil {
		c.entries = append([]entry(nil), r.entries...)
	}
	return c
}

// Partition splits reg into the active catch-all handler and the specific
// handlers. Every catch-all key overwrites the previous one while scanning in
// insertion order, so the last one registered wins. catchAll is nil when no
// catch-all key is present.
func Partition(reg *Registry) (catchAll Handler, specific *Registry) {
	specific = NewRegistry()
	for key, h := range reg.All() {
		if key.IsCatchAll() {
			catchAll = h
			continue
		}
		specific.Set(key, h)
	}
	return catchAll, specific
}
