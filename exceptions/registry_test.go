package exceptions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/exceptions"
)

func textHandler(body string) exceptions.Handler {
	return func(*http.Request, error) core.Response {
		return core.Text(http.StatusTeapot, body)
	}
}

func keys(reg *exceptions.Registry) []string {
	var out []string
	for k := range reg.All() {
		out = append(out, k.String())
	}
	return out
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("insertion order and overwrite in place", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.StatusKey(404), textHandler("a"))
		reg.Set(exceptions.SentinelKey(errQuota), textHandler("b"))
		reg.Set(exceptions.StatusKey(404), textHandler("c"))

		assert.Equal(t, []string{"status:404", "sentinel:quota exceeded"}, keys(reg))
		assert.Equal(t, 2, reg.Len())

		h, ok := reg.Get(exceptions.StatusKey(404))
		require.True(t, ok)
		w := render(t, h(nil, nil))
		assert.Equal(t, "c", w.Body.String())
	})

	t.Run("nil handler and zero key ignored", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.StatusKey(404), nil)
		reg.Set(exceptions.Key{}, textHandler("x"))
		assert.Zero(t, reg.Len())
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.StatusKey(404), textHandler("a"))
		assert.True(t, reg.Delete(exceptions.StatusKey(404)))
		assert.False(t, reg.Delete(exceptions.StatusKey(404)))
		_, ok := reg.Get(exceptions.StatusKey(404))
		assert.False(t, ok)
	})

	t.Run("clone is independent", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.StatusKey(404), textHandler("a"))
		c := reg.Clone()
		reg.Set(exceptions.StatusKey(401), textHandler("b"))
		assert.Equal(t, 1, c.Len())

		var nilReg *exceptions.Registry
		assert.Zero(t, nilReg.Len())
		assert.Zero(t, nilReg.Clone().Len())
	})
}

func TestPartition(t *testing.T) {
	t.Parallel()

	t.Run("last catch-all wins", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.StatusKey(http.StatusInternalServerError), textHandler("status"))
		reg.Set(exceptions.StatusKey(404), textHandler("404"))
		reg.Set(exceptions.AnyError, textHandler("category"))

		catchAll, specific := exceptions.Partition(reg)
		require.NotNil(t, catchAll)
		assert.Equal(t, "category", render(t, catchAll(nil, nil)).Body.String())
		assert.Equal(t, []string{"status:404"}, keys(specific))
	})

	t.Run("reverse registration order", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.AnyError, textHandler("category"))
		reg.Set(exceptions.StatusKey(http.StatusInternalServerError), textHandler("status"))

		catchAll, specific := exceptions.Partition(reg)
		assert.Equal(t, "status", render(t, catchAll(nil, nil)).Body.String())
		assert.Zero(t, specific.Len())
	})

	t.Run("overwrite keeps the original position", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.AnyError, textHandler("first"))
		reg.Set(exceptions.StatusKey(http.StatusInternalServerError), textHandler("status"))
		reg.Set(exceptions.AnyError, textHandler("replaced"))

		catchAll, _ := exceptions.Partition(reg)
		assert.Equal(t, "status", render(t, catchAll(nil, nil)).Body.String())
	})

	t.Run("no catch-all", func(t *testing.T) {
		t.Parallel()
		reg := exceptions.NewRegistry()
		reg.Set(exceptions.StatusKey(404), textHandler("404"))
		catchAll, specific := exceptions.Partition(reg)
		assert.Nil(t, catchAll)
		assert.Equal(t, 1, specific.Len())
	})
}
