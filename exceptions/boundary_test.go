package exceptions_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/exceptions"
)

func render(t *testing.T, resp core.Response) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	return w
}

func failWith(err error) core.App {
	return core.AppFunc(func(http.ResponseWriter, *http.Request) error { return err })
}

func serve(b *exceptions.Boundary) (*httptest.ResponseRecorder, error) {
	w := httptest.NewRecorder()
	err := b.Serve(w, httptest.NewRequest(http.MethodGet, "/items", nil))
	return w, err
}

type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) PipelineBuilt()   {}
func (r *recorder) ServerError(bool) {}
func (r *recorder) ExceptionHandled(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func TestBoundary_Success(t *testing.T) {
	t.Parallel()

	b := exceptions.New(core.AppFunc(func(w http.ResponseWriter, _ *http.Request) error {
		return core.Text(http.StatusOK, "ok").Render(w, nil)
	}), nil, false)
	w, err := serve(b)
	require.NoError(t, err)
	assert.Equal(t, "ok", w.Body.String())
}

func TestBoundary_DefaultHTTPErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("plain text status", func(t *testing.T) {
		t.Parallel()
		w, err := serve(exceptions.New(failWith(core.ErrNotFound), nil, false))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not Found", w.Body.String())
	})

	t.Run("headers copied", func(t *testing.T) {
		t.Parallel()
		err := core.ErrMethodNotAllowed.WithHeader("Allow", "GET, HEAD")
		w, serr := serve(exceptions.New(failWith(err), nil, false))
		require.NoError(t, serr)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
	})

	t.Run("no body statuses", func(t *testing.T) {
		t.Parallel()
		w, err := serve(exceptions.New(failWith(core.NewHTTPError(http.StatusNotModified, "not_modified")), nil, false))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotModified, w.Code)
		assert.Zero(t, w.Body.Len())
	})

	t.Run("wrapped", func(t *testing.T) {
		t.Parallel()
		w, err := serve(exceptions.New(failWith(fmt.Errorf("loading: %w", core.ErrForbidden)), nil, false))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestBoundary_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("status handler beats category handler", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.CategoryOf[core.HTTPError](), textHandler("category"))
		reg.Set(exceptions.StatusKey(404), textHandler("status"))

		w, err := serve(exceptions.New(failWith(core.ErrNotFound), reg, false))
		require.NoError(t, err)
		assert.Equal(t, "status", w.Body.String())
	})

	t.Run("status handler only applies to its code", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.StatusKey(404), textHandler("status"))

		w, err := serve(exceptions.New(failWith(core.ErrGone), reg, false))
		require.NoError(t, err)
		assert.Equal(t, http.StatusGone, w.Code)
	})

	t.Run("sentinel beats type beats interface", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.CategoryOf[timeout](), textHandler("interface"))
		reg.Set(exceptions.CategoryOf[timeoutError](), textHandler("type"))

		b := exceptions.New(failWith(timeoutError{}), reg, false)
		w, err := serve(b)
		require.NoError(t, err)
		assert.Equal(t, "type", w.Body.String())

		sentinel := timeoutError{}
		reg.Set(exceptions.SentinelKey(sentinel), textHandler("sentinel"))
		w, err = serve(exceptions.New(failWith(sentinel), reg, false))
		require.NoError(t, err)
		assert.Equal(t, "sentinel", w.Body.String())
	})

	t.Run("interface category", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.CategoryOf[timeout](), textHandler("interface"))

		key, _, ok := exceptions.New(nil, reg, false).Lookup(fmt.Errorf("dial: %w", timeoutError{}))
		require.True(t, ok)
		assert.True(t, key.Equal(exceptions.CategoryOf[timeout]()))
	})

	t.Run("first branch wins", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.SentinelKey(errQuota), textHandler("quota"))
		reg.Set(exceptions.CategoryOf[*validationError](), textHandler("validation"))

		err := &wrapping{outer: &validationError{field: "email"}, inner: errQuota}
		key, _, ok := exceptions.New(nil, reg, false).Lookup(err)
		require.True(t, ok)
		assert.Equal(t, "category:*exceptions_test.validationError", key.String())
	})

	t.Run("joined errors depth first", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.SentinelKey(errQuota), textHandler("quota"))
		reg.Set(exceptions.CategoryOf[*validationError](), textHandler("validation"))

		err := errors.Join(fmt.Errorf("ctx: %w", errQuota), &validationError{field: "name"})
		key, _, ok := exceptions.New(nil, reg, false).Lookup(err)
		require.True(t, ok)
		assert.Equal(t, "sentinel:quota exceeded", key.String())
	})

	t.Run("catch-all keys are ignored", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.AnyError, textHandler("any"))
		reg.Set(exceptions.StatusKey(http.StatusInternalServerError), textHandler("500"))

		boom := errors.New("boom")
		w, err := serve(exceptions.New(failWith(boom), reg, false))
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, w.Body.Len())

		w, err = serve(exceptions.New(failWith(core.ErrInternalServerError), reg, false))
		require.NoError(t, err, "falls back to the default HTTPError handler")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("no match propagates", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := serve(exceptions.New(failWith(boom), nil, false))
		assert.Same(t, boom, err)
	})
}

type wrapping struct {
	outer error
	inner error
}

func (w *wrapping) Error() string   { return "wrapping" }
func (w *wrapping) Unwrap() []error { return []error{w.outer, w.inner} }

func TestBoundary_Panics(t *testing.T) {
	t.Parallel()

	t.Run("panic without handler propagates as PanicError", func(t *testing.T) {
		t.Parallel()
		b := exceptions.New(core.AppFunc(func(http.ResponseWriter, *http.Request) error {
			panic("kaboom")
		}), nil, false)
		_, err := serve(b)
		var pe *core.PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "kaboom", pe.Value)
	})

	t.Run("error panic is handled", func(t *testing.T) {
		t.Parallel()
		b := exceptions.New(core.AppFunc(func(http.ResponseWriter, *http.Request) error {
			panic(core.ErrConflict)
		}), nil, false)
		w, err := serve(b)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestBoundary_Cancellation(t *testing.T) {
	t.Parallel()

	reg := exceptions.NewRegistry()
	reg.Set(exceptions.SentinelKey(context.Canceled), textHandler("cancelled"))
	reg.Set(exceptions.SentinelKey(context.DeadlineExceeded), textHandler("timed out"))

	t.Run("request cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := httptest.NewRecorder()
		err := exceptions.New(failWith(context.Canceled), reg, false).
			Serve(w, httptest.NewRequest(http.MethodGet, "/items", nil).WithContext(ctx))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, w.Body.Len())
	})

	t.Run("inner timeout on a live request", func(t *testing.T) {
		t.Parallel()
		w, err := serve(exceptions.New(failWith(fmt.Errorf("query users: %w", context.DeadlineExceeded)), reg, false))
		require.NoError(t, err)
		assert.Equal(t, "timed out", w.Body.String())
	})
}

func TestBoundary_ResponseStarted(t *testing.T) {
	t.Parallel()

	b := exceptions.New(core.AppFunc(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusOK)
		return core.ErrNotFound
	}), nil, false)
	w, err := serve(b)
	assert.ErrorIs(t, err, exceptions.ErrResponseStarted)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBoundary_HandlerFailure(t *testing.T) {
	t.Parallel()

	handlerErr := errors.New("template missing")
	tests := []struct {
		name    string
		handler exceptions.Handler
		want    error
	}{
		{
			name: "render error",
			handler: func(*http.Request, error) core.Response {
				return core.ResponseFunc(func(http.ResponseWriter, *http.Request) error { return handlerErr })
			},
			want: handlerErr,
		},
		{
			name:    "nil response",
			handler: func(*http.Request, error) core.Response { return nil },
			want:    exceptions.ErrNilResponse,
		},
		{
			name:    "panic",
			handler: func(*http.Request, error) core.Response { panic(handlerErr) },
			want:    handlerErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := exceptions.NewRegistry()
			reg.Set(exceptions.SentinelKey(errQuota), tt.handler)

			_, err := serve(exceptions.New(failWith(errQuota), reg, false))
			var he *exceptions.HandlerError
			require.ErrorAs(t, err, &he)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, errQuota)
			assert.Equal(t, "sentinel:quota exceeded", he.Key.String())
			assert.Contains(t, he.Error(), "while handling: quota exceeded")
		})
	}
}

func TestBoundary_Recorder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	reg := exceptions.NewRegistry()
	reg.Set(exceptions.StatusKey(404), textHandler("missing"))
	b := exceptions.New(failWith(core.ErrNotFound), reg, false, exceptions.WithRecorder(rec), exceptions.WithLogger(nil))

	_, err := serve(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"status:404"}, rec.keys)
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	var got error
	h := func(_ *http.Request, err error) core.Response {
		got = err
		return core.Empty()
	}
	w := httptest.NewRecorder()
	require.NoError(t, exceptions.Invoke(h, w, httptest.NewRequest(http.MethodGet, "/", nil), errQuota))
	assert.Same(t, errQuota, got)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
