// Package registry expands model family metadata into every published
// variant and keeps them in a registry keyed by org/identifier.
//
// A Registry is an explicit object; nothing is registered at import time.
// Family registration is guarded per family so calling it again is a no-op:
//
//	r := registry.New()
//	err := r.RegisterFamily("deepseek-r1", true, metas...)
//	info, ok := r.Get("unsloth/DeepSeek-R1-GGUF")
package registry

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/logging"
	"github.com/agentstation/modelreg/pkg/naming"
	"github.com/agentstation/modelreg/pkg/quant"
)

// ModelInfo is one registered model variant. Family is the naming strategy
// the identifier was built with; RegisteredFamily is the family name it was
// registered under by RegisterFamily, empty for direct RegisterModels calls.
type ModelInfo struct {
	Org         string        `json:"org" yaml:"org"`
	Name        string        `json:"name" yaml:"name"`
	BaseName    string        `json:"base_name" yaml:"base_name"`
	Version     string        `json:"version,omitempty" yaml:"version,omitempty"`
	Size        string        `json:"size,omitempty" yaml:"size,omitempty"`
	InstructTag string        `json:"instruct_tag,omitempty" yaml:"instruct_tag,omitempty"`
	Quant       quant.Type    `json:"quant" yaml:"quant"`
	Family      naming.Family `json:"family" yaml:"family"`
	Multimodal  bool          `json:"multimodal" yaml:"multimodal"`
	Original    bool          `json:"original" yaml:"original"`

	RegisteredFamily string `json:"registered_family,omitempty" yaml:"registered_family,omitempty"`
}

// Path returns the registry key, org/name.
func (m ModelInfo) Path() string {
	return m.Org + "/" + m.Name
}

// Registry holds registered model variants in registration order.
type Registry struct {
	mu          sync.RWMutex
	models      map[string]ModelInfo
	order       []string
	families    map[string]struct{}
	familyOrder []string

	publisher string
	logger    *zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithPublisher sets the org quantized variants are published under.
func WithPublisher(org string) Option {
	return func(r *Registry) {
		if org != "" {
			r.publisher = org
		}
	}
}

// WithLogger sets the logger used for registration events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		models:    make(map[string]ModelInfo),
		families:  make(map[string]struct{}),
		publisher: constants.DefaultPublisher,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publisher returns the org quantized variants are registered under.
func (r *Registry) Publisher() string {
	return r.publisher
}

// RegisterModels expands meta and inserts every variant. When
// includeOriginal is set, the unquantized upstream model is registered under
// the meta's own org as well. Re-registering an existing key replaces it.
// Nothing is inserted if expansion fails.
func (r *Registry) RegisterModels(meta ModelMeta, includeOriginal bool) error {
	infos, err := Expand(meta, r.publisher, includeOriginal)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(infos)
	return nil
}

// RegisterFamily registers every meta of a family once per registry. Later
// calls for the same family return nil without touching the registry. The
// family is only marked registered when all metas expand successfully, and a
// failing family inserts nothing.
func (r *Registry) RegisterFamily(family string, includeOriginal bool, metas ...ModelMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, done := r.families[family]; done {
		r.logger.Debug().Str("family", family).Msg("Family already registered")
		return nil
	}

	var infos []ModelInfo
	for _, meta := range metas {
		expanded, err := Expand(meta, r.publisher, includeOriginal)
		if err != nil {
			return errors.WrapResource("register", "family", family, err)
		}
		infos = append(infos, expanded...)
	}
	for i := range infos {
		infos[i].RegisteredFamily = family
	}

	r.insertLocked(infos)
	r.families[family] = struct{}{}
	r.familyOrder = append(r.familyOrder, family)

	r.logger.Debug().
		Str("family", family).
		Int("metas", len(metas)).
		Int("models", len(infos)).
		Msg("Registered family")
	return nil
}

func (r *Registry) insertLocked(infos []ModelInfo) {
	for _, info := range infos {
		key := info.Path()
		if _, exists := r.models[key]; exists {
			r.logger.Debug().Str("model_id", key).Msg("Replacing registered model")
		} else {
			r.order = append(r.order, key)
		}
		r.models[key] = info
	}
}

// IsRegistered reports whether a family has been registered.
func (r *Registry) IsRegistered(family string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.families[family]
	return ok
}

// Families returns registered family names in registration order.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.familyOrder)
}

// Get returns the model registered under key (org/name).
func (r *Registry) Get(key string) (ModelInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.models[key]
	return info, ok
}

// Keys returns every key in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// List returns every model in registration order.
func (r *Registry) List() []ModelInfo {
	return r.Filter(nil)
}

// Filter returns the models matching keep, in registration order. A nil
// keep matches everything.
func (r *Registry) Filter(keep func(ModelInfo) bool) []ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ModelInfo, 0, len(r.order))
	for _, key := range r.order {
		info := r.models[key]
		if keep == nil || keep(info) {
			out = append(out, info)
		}
	}
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Reset empties the registry and forgets every family marker. It exists for
// tests; production code never removes entries.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = make(map[string]ModelInfo)
	r.order = nil
	r.families = make(map[string]struct{})
	r.familyOrder = nil
}
