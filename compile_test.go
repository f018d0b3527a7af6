package appkit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/appkit"
	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/exceptions"
	"github.com/dmitrymomot/appkit/router"
)

func TestDescribe_Defaults(t *testing.T) {
	t.Parallel()

	app, err := appkit.New()
	require.NoError(t, err)
	assert.Equal(t,
		[]string{appkit.LayerServerError, appkit.LayerExceptions, appkit.LayerRouter},
		appkit.Describe(app.Blueprint()),
	)
}

func TestCompile_Idempotent(t *testing.T) {
	t.Parallel()

	noop := appkit.Wrap(func(next core.App) core.App { return next }).Named("noop")
	app, err := appkit.New(
		appkit.WithMiddleware(noop),
		appkit.WithRoutes(
			router.NewRoute("/ping", ping),
			router.NewRoute("/fail", fail(errBoom)),
		),
		appkit.WithExceptionHandler(exceptions.SentinelKey(errBoom), text(http.StatusTeapot, "teapot")),
	)
	require.NoError(t, err)

	bp := app.Blueprint()
	assert.Equal(t, appkit.Describe(bp), appkit.Describe(bp))

	first, second := appkit.Compile(bp), appkit.Compile(bp)
	for _, target := range []string{"/ping", "/fail", "/missing"} {
		w1, w2 := httptest.NewRecorder(), httptest.NewRecorder()
		err1 := first.Serve(w1, httptest.NewRequest(http.MethodGet, target, nil))
		err2 := second.Serve(w2, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, err1, err2, target)
		assert.Equal(t, w1.Code, w2.Code, target)
		assert.Equal(t, w1.Body.String(), w2.Body.String(), target)
	}
	assert.False(t, app.Started(), "compiling a blueprint does not start the app")
}

func TestBlueprint_Snapshot(t *testing.T) {
	t.Parallel()

	app, err := appkit.New(appkit.WithRoutes(router.NewRoute("/fail", fail(errBoom))))
	require.NoError(t, err)

	bp := app.Blueprint()
	app.AddExceptionHandler(exceptions.SentinelKey(errBoom), text(http.StatusTeapot, "teapot"))
	require.NoError(t, app.AddMiddleware(appkit.Wrap(func(next core.App) core.App { return next }).Named("late")))

	assert.Equal(t, 0, bp.Handlers.Len())
	assert.Empty(t, bp.Middleware)
	assert.Equal(t,
		[]string{appkit.LayerServerError, "late", appkit.LayerExceptions, appkit.LayerRouter},
		appkit.Describe(app.Blueprint()),
	)
}
