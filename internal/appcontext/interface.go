// Package appcontext provides the shared application context interface
// used by all commands, so command packages depend on an interface rather
// than on the concrete CLI application.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/pkg/hub"
	"github.com/agentstation/modelreg/pkg/registry"
)

// Catalog is the remote model catalog the commands talk to.
type Catalog interface {
	ModelInfo(ctx context.Context, id string) (*hub.ModelInfo, error)
	ListModels(ctx context.Context, author, search string) ([]hub.ModelSummary, error)
}

// Settings are the resolved configuration values commands read.
type Settings struct {
	Publisher       string
	IncludeOriginal bool
	Concurrency     int
	FamiliesFile    string
	ListenAddr      string
	HubURL          string
}

// Interface defines the application context that commands need.
type Interface interface {
	// Registry returns the registry with every family registered, building it
	// on first use.
	Registry(ctx context.Context) (*registry.Registry, error)

	// Catalog returns the hub client.
	Catalog() (Catalog, error)

	// Settings returns the resolved configuration.
	Settings() Settings

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml...).
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
