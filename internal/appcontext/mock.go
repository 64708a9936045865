package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/hub"
	"github.com/agentstation/modelreg/pkg/registry"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	RegistryFunc     func(ctx context.Context) (*registry.Registry, error)
	CatalogFunc      func() (Catalog, error)
	SettingsValue    Settings
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

var _ Interface = (*Mock)(nil)

// Registry returns the registry from the mock function or an empty registry.
func (m *Mock) Registry(ctx context.Context) (*registry.Registry, error) {
	if m.RegistryFunc != nil {
		return m.RegistryFunc(ctx)
	}
	return registry.New(), nil
}

// Catalog returns the catalog from the mock function or nil.
func (m *Mock) Catalog() (Catalog, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc()
	}
	return nil, nil
}

// Settings returns SettingsValue.
func (m *Mock) Settings() Settings {
	return m.SettingsValue
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// MockCatalog is an in-memory Catalog. ModelInfo resolves the ids in Known
// and reports everything else as not found; ListModels returns Models.
type MockCatalog struct {
	Known  map[string]bool
	Models []hub.ModelSummary
	Err    error
}

var _ Catalog = (*MockCatalog)(nil)

// ModelInfo returns a record for known ids.
func (c *MockCatalog) ModelInfo(_ context.Context, id string) (*hub.ModelInfo, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if !c.Known[id] {
		return nil, errors.NewNotFoundError("model", id)
	}
	return &hub.ModelInfo{ModelSummary: hub.ModelSummary{ID: id}}, nil
}

// ListModels returns Models, or Err.
func (c *MockCatalog) ListModels(_ context.Context, _, _ string) ([]hub.ModelSummary, error) {
	return c.Models, c.Err
}
