// Package exceptions resolves failures raised inside a pipeline to registered
// exception handlers.
//
// Handlers are registered under a Key, a tagged value that is one of:
//
//   - StatusKey(code): matches a core.HTTPError carrying that status code.
//   - CategoryOf[E](): matches errors whose dynamic type is E, or implements E
//     when E is an interface type.
//   - SentinelKey(err): matches a specific error value (errors.Is semantics).
//
// AnyError, the category of the error interface itself, and StatusKey(500)
// are catch-all keys. Partition separates the single active catch-all
// handler (the last catch-all key in registration order) from the specific
// ones; the catch-all belongs to the outermost boundary, while Boundary only
// ever sees specific handlers.
//
// # Resolution
//
// For a failure err, Boundary first checks whether err wraps a
// core.HTTPError whose status code has a handler. Otherwise it walks the
// error tree depth first starting at err itself (the most specific error),
// following Unwrap() error and Unwrap() []error. At every node it tries, in
// order: sentinel keys, the exact dynamic type, then interface categories,
// each in registration order. The first match wins.
//
// Cancellation errors are never resolved; they pass through untouched.
package exceptions
