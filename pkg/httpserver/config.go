package httpserver

import "time"

// Config holds the environment driven server settings. Zero values keep the
// defaults of New.
//
//	var cfg httpserver.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLifecycle(app))
type Config struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`        // Addr is the listen address.
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`  // ReadTimeout bounds reading a whole request.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"` // WriteTimeout bounds writing a response, WebSocket sessions excluded.
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"` // IdleTimeout bounds waiting for the next keep-alive request.

	// ShutdownTimeout is one budget shared by draining in-flight requests and
	// the Shutdown hooks of every registered Lifecycle, run in reverse order.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Options translates the non-zero settings of c into options.
func (c Config) Options() []Option {
	opts := make([]Option, 0, 5)
	if c.Addr != "" {
		opts = append(opts, WithAddr(c.Addr))
	}
	if c.ReadTimeout > 0 {
		opts = append(opts, WithReadTimeout(c.ReadTimeout))
	}
	if c.WriteTimeout > 0 {
		opts = append(opts, WithWriteTimeout(c.WriteTimeout))
	}
	if c.IdleTimeout > 0 {
		opts = append(opts, WithIdleTimeout(c.IdleTimeout))
	}
	if c.ShutdownTimeout > 0 {
		opts = append(opts, WithShutdownTimeout(c.ShutdownTimeout))
	}
	return opts
}

// NewFromConfig creates a Server from cfg. opts are applied after the
// settings from cfg and may override them; lifecycles such as an appkit.App
// are passed with WithLifecycle.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	return New(append(cfg.Options(), opts...)...)
}
