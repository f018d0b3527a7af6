package router_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appkit/router"
)

func TestLifespan(t *testing.T) {
	t.Parallel()

	t.Run("hooks run in order", func(t *testing.T) {
		t.Parallel()
		var events []string
		hook := func(name string) router.Hook {
			return func(context.Context) error {
				events = append(events, name)
				return nil
			}
		}

		rt, err := router.New(router.WithStartup(hook("start-1")), router.WithShutdown(hook("stop-1")))
		require.NoError(t, err)
		require.NoError(t, rt.AddEventHandler(router.EventStartup, hook("start-2")))
		require.NoError(t, rt.AddEventHandler(router.EventShutdown, hook("stop-2")))

		require.NoError(t, rt.Startup(context.Background()))
		require.NoError(t, rt.Shutdown(context.Background()))
		assert.Equal(t, []string{"start-1", "start-2", "stop-1", "stop-2"}, events)
	})

	t.Run("lifespan function", func(t *testing.T) {
		t.Parallel()
		var events []string
		rt, err := router.New(router.WithLifespan(func(context.Context) (router.Hook, error) {
			events = append(events, "open")
			return func(context.Context) error {
				events = append(events, "close")
				return nil
			}, nil
		}))
		require.NoError(t, err)

		require.NoError(t, rt.Startup(context.Background()))
		require.NoError(t, rt.Shutdown(context.Background()))
		require.NoError(t, rt.Shutdown(context.Background()))
		assert.Equal(t, []string{"open", "close"}, events)
	})

	t.Run("conflict at construction", func(t *testing.T) {
		t.Parallel()
		_, err := router.New(
			router.WithLifespan(func(context.Context) (router.Hook, error) { return nil, nil }),
			router.WithStartup(func(context.Context) error { return nil }),
		)
		assert.ErrorIs(t, err, router.ErrLifespanConflict)
	})

	t.Run("conflict when adding hooks", func(t *testing.T) {
		t.Parallel()
		rt, err := router.New(router.WithLifespan(func(context.Context) (router.Hook, error) { return nil, nil }))
		require.NoError(t, err)
		err = rt.AddEventHandler(router.EventShutdown, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, router.ErrLifespanConflict)
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		rt, err := router.New()
		require.NoError(t, err)
		err = rt.AddEventHandler("reload", func(context.Context) error { return nil })
		assert.ErrorIs(t, err, router.ErrUnknownEvent)
	})

	t.Run("startup failure stops early", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		called := false
		rt, err := router.New(router.WithStartup(
			func(context.Context) error { return boom },
			func(context.Context) error { called = true; return nil },
		))
		require.NoError(t, err)

		err = rt.Startup(context.Background())
		assert.ErrorIs(t, err, router.ErrStartup)
		assert.ErrorIs(t, err, boom)
		assert.False(t, called)
	})

	t.Run("shutdown collects failures", func(t *testing.T) {
		t.Parallel()
		first, second := errors.New("first"), errors.New("second")
		rt, err := router.New(router.WithShutdown(
			func(context.Context) error { return first },
			func(context.Context) error { return second },
		))
		require.NoError(t, err)

		err = rt.Shutdown(context.Background())
		assert.ErrorIs(t, err, router.ErrShutdown)
		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)
	})
}
