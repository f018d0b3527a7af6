package exceptions

import (
	"fmt"
	"net/http"
	"reflect"
)

type keyKind uint8

const (
	kindStatus keyKind = iota + 1
	kindCategory
	kindSentinel
)

var errorType = reflect.TypeFor[error]()

// Key identifies a registry entry: a status code, an error category or a
// sentinel error value. The zero Key is invalid.
type Key struct {
	kind     keyKind
	status   int
	category reflect.Type
	sentinel error
}

// AnyError is the most generic category. Handlers registered under it are
// catch-all handlers.
var AnyError = CategoryOf[error]()

// StatusKey returns the key for handlers of core.HTTPError values with the given code.
func StatusKey(code int) Key {
	return Key{kind: kindStatus, status: code}
}

// CategoryOf returns the key for errors of type E. When E is an interface,
// every error implementing it matches.
//
//	exceptions.CategoryOf[*PaymentError]()
//	exceptions.CategoryOf[interface{ Timeout() bool }]()
func CategoryOf[E error]() Key {
	return Key{kind: kindCategory, category: reflect.TypeFor[E]()}
}

// Category is the reflection based form of CategoryOf.
// It panics if t does not implement error.
func Category(t reflect.Type) Key {
	if t == nil || !t.Implements(errorType) {
		panic(fmt.Sprintf("exceptions: %v does not implement error", t))
	}
	return Key{kind: kindCategory, category: t}
}

// SentinelKey returns the key matching err anywhere in a failure's error tree.
// It panics on nil.
func SentinelKey(err error) Key {
	if err == nil {
		panic("exceptions: nil sentinel error")
	}
	return Key{kind: kindSentinel, sentinel: err}
}

// IsCatchAll reports whether k selects the catch-all handler.
func (k Key) IsCatchAll() bool {
	switch k.kind {
	case kindStatus:
		return k.status == http.StatusInternalServerError
	case kindCategory:
		return k.category == errorType
	}
	return false
}

// Status returns the status code of a status key.
func (k Key) Status() (int, bool) {
	return k.status, k.kind == kindStatus
}

// Equal reports whether both keys address the same registry entry.
func (k Key) Equal(o Key) bool {
	if k.kind != o.kind {
		return false
	}
	switch k.kind {
	case kindStatus:
		return k.status == o.status
	case kindCategory:
		return k.category == o.category
	case kindSentinel:
		return sameError(k.sentinel, o.sentinel)
	}
	return true
}

func (k Key) String() string {
	switch k.kind {
	case kindStatus:
		return fmt.Sprintf("status:%d", k.status)
	case kindCategory:
		return "category:" + k.category.String()
	case kindSentinel:
		return "sentinel:" + k.sentinel.Error()
	}
	return "invalid"
}

// matches reports whether the single node err (not its wrapped errors) is
// addressed by the category or sentinel key k.
func (k Key) matches(err error) bool {
	switch k.kind {
	case kindSentinel:
		if sameError(err, k.sentinel) {
			return true
		}
		if x, ok := err.(interface{ Is(error) bool }); ok {
			return x.Is(k.sentinel)
		}
	case kindCategory:
		t := reflect.TypeOf(err)
		if t == k.category {
			return true
		}
		return k.category.Kind() == reflect.Interface && k.category != errorType && t.Implements(k.category)
	}
	return false
}

// Match ranks, from most to least specific.
const (
	rankSentinel = iota
	rankType
	rankInterface
	rankCount
)

func (k Key) rank() int {
	switch {
	case k.kind == kindSentinel:
		return rankSentinel
	case k.kind == kindCategory && k.category.Kind() == reflect.Interface:
		return rankInterface
	default:
		return rankType
	}
}

func sameError(a, b error) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
