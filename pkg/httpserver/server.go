package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/appkit/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	server          *http.Server
	logger          *slog.Logger
	lifecycles      []Lifecycle
}

func defaultConfig() *config {
	return &config{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
	}
}

// Server wraps http.Server with graceful shutdown and application lifecycle.
type Server struct {
	cfg   *config
	log   *slog.Logger
	ready chan struct{}

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	started int // number of lifecycles whose Startup succeeded

	once    sync.Once
	stopErr error
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:   cfg,
		log:   log.With(logger.Component("httpserver")),
		ready: make(chan struct{}),
	}
}

// Ready is closed once the listener accepts connections.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr reports the bound listener address, or nil before Ready.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Run runs the startup hooks, starts serving handler and blocks until ctx is
// done, SIGINT or SIGTERM arrives, or Shutdown is called.
//
// A failing startup hook aborts Run before anything listens; hooks that
// already succeeded are shut down again. The returned error wraps ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	srv := s.cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = s.cfg.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = s.cfg.readTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = s.cfg.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = s.cfg.idleTimeout
	}
	srv.Handler = handler
	s.srv = srv
	s.mu.Unlock()

	if err := s.startup(ctx); err != nil {
		return errors.Join(ErrStart, err, s.shutdownLifecycles(context.Background()))
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Join(ErrStart, err, s.shutdownLifecycles(context.Background()))
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.InfoContext(ctx, "server started", slog.String("addr", ln.Addr().String()))
	close(s.ready)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.Shutdown(context.WithoutCancel(ctx))
	case sig := <-stop:
		s.log.InfoContext(ctx, "signal received", slog.String("signal", sig.String()))
		runErr = s.Shutdown(context.WithoutCancel(ctx))
	case runErr = <-errCh:
		if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			return errors.Join(ErrStart, runErr, s.shutdownLifecycles(context.Background()))
		}
		// Shutdown was called from another goroutine.
		return s.Shutdown(context.WithoutCancel(ctx))
	}

	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		runErr = errors.Join(runErr, serveErr)
	}
	return runErr
}

// Shutdown drains connections and then runs the shutdown hooks in reverse
// order. It is safe for repeated calls; every call returns the first result.
// Errors are wrapped with ErrShutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		if err := s.shutdownLifecycles(ctx); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			s.stopErr = errors.Join(append([]error{ErrShutdown}, errs...)...)
			s.log.ErrorContext(ctx, "shutdown failed", logger.Error(s.stopErr))
			return
		}
		s.log.InfoContext(ctx, "server stopped")
	})
	return s.stopErr
}

func (s *Server) startup(ctx context.Context) error {
	for _, l := range s.cfg.lifecycles {
		if err := l.Startup(ctx); err != nil {
			return err
		}
		s.mu.Lock()
		s.started++
		s.mu.Unlock()
	}
	return nil
}

func (s *Server) shutdownLifecycles(ctx context.Context) error {
	s.mu.Lock()
	n := s.started
	s.started = 0
	s.mu.Unlock()

	var errs []error
	for i := n - 1; i >= 0; i-- {
		if err := s.cfg.lifecycles[i].Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
