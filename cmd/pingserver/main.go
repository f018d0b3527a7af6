// Command pingserver is a minimal appkit service: a /ping route, health
// probes, Prometheus metrics and a WebSocket echo endpoint.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/appkit"
	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/exceptions"
	"github.com/dmitrymomot/appkit/pkg/config"
	"github.com/dmitrymomot/appkit/pkg/httpserver"
	"github.com/dmitrymomot/appkit/pkg/logger"
	"github.com/dmitrymomot/appkit/pkg/metrics"
	"github.com/dmitrymomot/appkit/pkg/requestid"
	"github.com/dmitrymomot/appkit/router"
)

type cli struct {
	Addr    string   `help:"Listen address; overrides HTTP_ADDR."`
	Debug   bool     `help:"Render diagnostic error pages; overrides APP_DEBUG."`
	EnvFile []string `name:"env-file" help:"Extra .env files to read."`

	Log struct {
		Level  slog.Level    `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Minimum log level."`
		Format logger.Format `enum:"json,text,tint" default:"tint" help:"Log output format."`
	} `embed:"" prefix:"log-"`
}

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("pingserver"),
		kong.Description("Minimal appkit service."),
		kong.UsageOnError(),
		kong.DefaultEnvars("PINGSERVER"),
	)

	log := logger.New(
		logger.WithLevel(c.Log.Level),
		logger.WithFormat(c.Log.Format),
		logger.WithAttr(slog.String("service", "pingserver")),
		logger.WithContextExtractors(requestid.LogExtractor),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c, log); err != nil {
		log.Error("pingserver stopped", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, c cli, log *slog.Logger) error {
	var appCfg appkit.Config
	if err := config.Load(&appCfg, config.WithFiles(c.EnvFile...)); err != nil {
		return err
	}
	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg, config.WithFiles(c.EnvFile...)); err != nil {
		return err
	}
	if c.Addr != "" {
		srvCfg.Addr = c.Addr
	}
	appCfg.Debug = appCfg.Debug || c.Debug

	rec, err := metrics.NewRecorder(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	app, err := newApp(appCfg, log, rec)
	if err != nil {
		return err
	}

	srv := httpserver.NewFromConfig(srvCfg,
		httpserver.WithLogger(log),
		httpserver.WithLifecycle(app),
	)
	return srv.Run(ctx, app)
}

func newApp(cfg appkit.Config, log *slog.Logger, rec *metrics.Recorder) (*appkit.App, error) {
	return appkit.NewFromConfig(cfg,
		appkit.WithLogger(log),
		appkit.WithRecorder(rec),
		appkit.WithMiddleware(
			appkit.Use(requestid.New),
			appkit.HTTP(middleware.RealIP).Named("real_ip"),
			appkit.Wrap(rec.Instrument).Named("metrics"),
		),
		appkit.WithRoutes(
			router.NewRoute("/ping", ping, router.WithName("ping")),
			router.NewRoute("/hello/{name}", hello, router.WithName("hello")),
			router.NewRoute("/livez", httpserver.Liveness(), router.ExcludeFromSchema()),
			router.NewRoute("/readyz", httpserver.Readiness(log), router.ExcludeFromSchema()),
			router.NewRoute("/metrics", rec.Endpoint(), router.ExcludeFromSchema()),
			router.NewWebSocketRoute("/ws/echo", echo, router.WithName("echo")),
		),
		appkit.WithExceptionHandler(exceptions.StatusKey(http.StatusNotFound), notFound),
		appkit.WithStartup(func(ctx context.Context) error {
			log.InfoContext(ctx, "application starting", logger.Event(router.EventStartup))
			return nil
		}),
		appkit.WithShutdown(func(ctx context.Context) error {
			log.InfoContext(ctx, "application stopping", logger.Event(router.EventShutdown))
			return nil
		}),
	)
}

func ping(*http.Request) (core.Response, error) {
	return core.Text(http.StatusOK, "pong"), nil
}

func hello(r *http.Request) (core.Response, error) {
	name := router.Param(r, "name")
	if name == "" {
		return nil, core.ErrBadRequest
	}
	return core.JSON(map[string]string{"greeting": "hello, " + name}), nil
}

func echo(ws *router.WebSocket) error {
	for {
		kind, msg, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		if err := ws.WriteMessage(kind, msg); err != nil {
			return err
		}
	}
}

func notFound(_ *http.Request, err error) core.Response {
	return core.JSONError(err)
}
