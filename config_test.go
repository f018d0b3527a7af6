package appkit_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appkit"
	"github.com/dmitrymomot/appkit/pkg/config"
	"github.com/dmitrymomot/appkit/router"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	var cfg appkit.Config
	require.NoError(t, config.Load(&cfg, config.WithEnvironment(map[string]string{
		"APP_DEBUG":       "true",
		"APP_EAGER_BUILD": "true",
	})))
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Eager)

	app, err := appkit.NewFromConfig(cfg, appkit.WithRoutes(router.NewRoute("/ping", ping)))
	require.NoError(t, err)
	assert.True(t, app.Debug())
	assert.True(t, app.Started())

	w, err := dispatch(t, app, http.MethodGet, "/ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", w.Body.String())
}

func TestNewFromConfig_OptionsOverride(t *testing.T) {
	t.Parallel()

	app, err := appkit.NewFromConfig(appkit.Config{Debug: true}, appkit.WithDebug(false))
	require.NoError(t, err)
	assert.False(t, app.Debug())
	assert.False(t, app.Started())
}
