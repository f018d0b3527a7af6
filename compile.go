package appkit

import (
	"log/slog"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/exceptions"
	"github.com/dmitrymomot/appkit/servererror"
)

// Layer names used by Describe.
const (
	LayerServerError = "server_error"
	LayerExceptions  = "exceptions"
	LayerRouter      = "router"
)

// Blueprint is the configuration snapshot a pipeline is compiled from.
type Blueprint struct {
	Router     core.App
	Handlers   *exceptions.Registry
	Middleware []Middleware
	Debug      bool
	Logger     *slog.Logger
	Recorder   core.Recorder
}

type layer struct {
	name string
	wrap func(next core.App) core.App
}

// layers returns the wrapping layers ordered from outermost to innermost:
//
//	server error boundary, middleware[0], ..., middleware[n-1], exception boundary
//
// The router sits below the last one.
func (bp Blueprint) layers() []layer {
	catchAll, specific := exceptions.Partition(bp.Handlers)

	ls := make([]layer, 0, len(bp.Middleware)+2)
	ls = append(ls, layer{
		name: LayerServerError,
		wrap: func(next core.App) core.App {
			return servererror.New(next, catchAll, bp.Debug,
				servererror.WithLogger(bp.Logger),
				servererror.WithRecorder(bp.Recorder),
			)
		},
	})
	for _, m := range bp.Middleware {
		ls = append(ls, layer{name: m.name, wrap: m.build})
	}
	ls = append(ls, layer{
		name: LayerExceptions,
		wrap: func(next core.App) core.App {
			return exceptions.New(next, specific, bp.Debug,
				exceptions.WithLogger(bp.Logger),
				exceptions.WithRecorder(bp.Recorder),
			)
		},
	})
	return ls
}

// Compile builds the pipeline described by bp. It folds the layers from the
// innermost outwards, so every layer wraps the result of the one below it.
// Compile has no side effects besides instantiating the layers; compiling
// the same blueprint twice gives equivalent pipelines.
func Compile(bp Blueprint) core.App {
	app := bp.Router
	ls := bp.layers()
	for i := len(ls) - 1; i >= 0; i-- {
		app = ls[i].wrap(app)
	}
	if bp.Recorder != nil {
		bp.Recorder.PipelineBuilt()
	}
	return app
}

// Describe lists the layer names of bp from outermost to innermost,
// ending with the router.
func Describe(bp Blueprint) []string {
	ls := bp.layers()
	names := make([]string, 0, len(ls)+1)
	for _, l := range ls {
		names = append(names, l.name)
	}
	return append(names, LayerRouter)
}
