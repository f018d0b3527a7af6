package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option tunes a single Load call.
type Option func(*options)

type options struct {
	prefix   string
	files    []string
	environ  map[string]string
	skipDots bool
}

// WithPrefix restricts lookups to variables starting with prefix, e.g. "PING_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithFiles reads variables from the given .env files. Values already present
// in the process environment take precedence over file values. A missing file
// is an error, unlike the implicit default .env.
func WithFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithEnvironment replaces the process environment as the source of values.
// Mainly useful in tests.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
		o.skipDots = true
	}
}

var defaultEnvLoaded sync.Once

// Load parses the environment into v using the `env` and `envDefault` field
// tags of caarlos0/env.
//
// On first use the default .env file of the working directory is loaded into
// the process environment if it exists.
//
//	var cfg appkit.Config
//	if err := config.Load(&cfg, config.WithPrefix("PING_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if !o.skipDots {
		defaultEnvLoaded.Do(func() {
			// The default .env is optional.
			_ = godotenv.Load()
		})
	}

	environ := o.environ
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}

	if len(o.files) > 0 {
		fromFiles, err := godotenv.Read(o.files...)
		if err != nil {
			return errors.Join(ErrReadingEnvFile, err)
		}
		merged := make(map[string]string, len(environ)+len(fromFiles))
		for k, val := range fromFiles {
			merged[k] = val
		}
		for k, val := range environ {
			merged[k] = val
		}
		environ = merged
	}

	parsed, err := env.ParseAsWithOptions[T](env.Options{
		Environment: environ,
		Prefix:      o.prefix,
	})
	if err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if loading fails.
// Use it for settings the process cannot start without.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
