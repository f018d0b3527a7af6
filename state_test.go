package appkit_test

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appkit"
	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/router"
)

func TestState(t *testing.T) {
	t.Parallel()

	s := appkit.NewState()
	assert.Empty(t, s.Keys())

	s.Set("name", "appkit")
	s.Set("answer", 42)
	assert.True(t, s.Has("name"))
	assert.Equal(t, []string{"answer", "name"}, s.Keys())

	v, ok := s.Get("answer")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	n, ok := appkit.StateValue[int](s, "answer")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = appkit.StateValue[string](s, "answer")
	assert.False(t, ok, "wrong type")
	_, ok = appkit.StateValue[int](s, "missing")
	assert.False(t, ok)

	s.Delete("answer")
	assert.False(t, s.Has("answer"))
}

func TestState_SharedWithHandlers(t *testing.T) {
	t.Parallel()

	app, err := appkit.New(appkit.WithRoutes(router.NewRoute("/hit", func(r *http.Request) (core.Response, error) {
		hits, ok := appkit.StateValue[*atomic.Int64](appkit.FromContext(r.Context()).State(), "hits")
		if !ok {
			return nil, core.ErrInternalServerError
		}
		hits.Add(1)
		return core.Empty(), nil
	})))
	require.NoError(t, err)

	hits := new(atomic.Int64)
	app.State().Set("hits", hits)

	for range 3 {
		_, err := dispatch(t, app, http.MethodGet, "/hit")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), hits.Load())
}
