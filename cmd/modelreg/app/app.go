// Package app provides the application context and dependency management
// for the modelreg CLI: configuration, logging, the lazily built registry
// and the hub client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/families"
	"github.com/agentstation/modelreg/pkg/hub"
	"github.com/agentstation/modelreg/pkg/logging"
	"github.com/agentstation/modelreg/pkg/registry"
)

// App represents the modelreg application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	mu       sync.Mutex
	registry *registry.Registry
	catalog  appcontext.Catalog
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config
	app.setLogger(NewLogger(config))

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (a *App) setLogger(logger zerolog.Logger) {
	a.logger = &logger
	logging.SetDefault(logger)
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format value.
func (a *App) OutputFormat() string { return a.config.Format }

// Settings returns the resolved configuration commands read.
func (a *App) Settings() appcontext.Settings {
	return appcontext.Settings{
		Publisher:       a.config.Publisher,
		IncludeOriginal: a.config.IncludeOriginal,
		Concurrency:     a.config.Concurrency,
		FamiliesFile:    a.config.FamiliesFile,
		ListenAddr:      a.config.ListenAddr,
		HubURL:          a.config.HubURL,
	}
}

// Registry returns the registry, registering the built-in families and any
// families file on first use. A failed build is not cached.
func (a *App) Registry(_ context.Context) (*registry.Registry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registry != nil {
		return a.registry, nil
	}

	all, err := families.Resolve(a.config.FamiliesFile)
	if err != nil {
		return nil, err
	}
	if a.config.FamiliesFile != "" {
		a.logger.Debug().
			Str("file", a.config.FamiliesFile).
			Int("families", len(all)).
			Msg("Loaded families file")
	}

	r := registry.New(
		registry.WithPublisher(a.config.Publisher),
		registry.WithLogger(a.logger),
	)
	// a broken family leaves the others usable
	if err := families.RegisterEach(r, a.config.IncludeOriginal, all); err != nil {
		if len(r.Families()) == 0 {
			return nil, err
		}
		a.logger.Warn().Err(err).Msg("Some families failed to register")
	}

	a.logger.Debug().
		Strs("families", r.Families()).
		Int("models", r.Len()).
		Msg("Registry built")
	a.registry = r
	return r, nil
}

// Catalog returns the hub client, creating it on first use.
func (a *App) Catalog() (appcontext.Catalog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog == nil {
		a.catalog = hub.New(
			hub.WithBaseURL(a.config.HubURL),
			hub.WithToken(a.config.HFToken),
			hub.WithLogger(a.logger),
		)
	}
	return a.catalog, nil
}

// Shutdown releases application resources. Nothing in the CLI holds
// background work past a command, so it only logs.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Application shutdown")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRegistry sets a prebuilt registry (useful for testing).
func WithRegistry(r *registry.Registry) Option {
	return func(a *App) error {
		a.registry = r
		return nil
	}
}

// WithCatalog sets a custom catalog client (useful for testing).
func WithCatalog(c appcontext.Catalog) Option {
	return func(a *App) error {
		a.catalog = c
		return nil
	}
}
