package appkit

// Config holds the environment driven application settings.
// Load it with config.Load.
type Config struct {
	Debug bool `env:"APP_DEBUG" envDefault:"false"`       // Debug enables diagnostic error responses.
	Eager bool `env:"APP_EAGER_BUILD" envDefault:"false"` // Eager compiles the pipeline in New.
}

// NewFromConfig creates an App from cfg. opts are applied after the
// settings from cfg and may override them.
func NewFromConfig(cfg Config, opts ...Option) (*App, error) {
	configOpts := make([]Option, 0, len(opts)+2)
	configOpts = append(configOpts, WithDebug(cfg.Debug))
	if cfg.Eager {
		configOpts = append(configOpts, WithEagerBuild())
	}
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
