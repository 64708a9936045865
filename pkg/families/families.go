// Package families indexes the built-in model families and loads
// user-defined ones from YAML, TOML or JSON files.
package families

import (
	"slices"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/families/deepseek"
	"github.com/agentstation/modelreg/pkg/registry"
)

// Family is a named group of metas registered together under one guard.
type Family struct {
	Name        string
	Description string
	Metas       []registry.ModelMeta
}

// Register registers the family in r. Repeated calls are no-ops.
func (f Family) Register(r *registry.Registry, includeOriginal bool) error {
	return r.RegisterFamily(f.Name, includeOriginal, f.Metas...)
}

// Builtin returns the families shipped with the module.
func Builtin() []Family {
	return []Family{
		{
			Name:        deepseek.FamilyV3,
			Description: "DeepSeek-V3 and DeepSeek-V3-0324",
			Metas:       deepseek.V3Metas(),
		},
		{
			Name:        deepseek.FamilyR1,
			Description: "DeepSeek-R1, R1-Zero and the R1 Llama/Qwen distillations",
			Metas:       deepseek.R1Metas(),
		},
	}
}

// Lookup returns the built-in family called name.
func Lookup(name string) (Family, bool) {
	fams := Builtin()
	i := slices.IndexFunc(fams, func(f Family) bool { return f.Name == name })
	if i < 0 {
		return Family{}, false
	}
	return fams[i], true
}

// Names returns the built-in family names.
func Names() []string {
	var names []string
	for _, f := range Builtin() {
		names = append(names, f.Name)
	}
	return names
}

// RegisterAll registers the built-in families plus extra. A family that fails
// does not stop the others; all failures are joined.
func RegisterAll(r *registry.Registry, includeOriginal bool, extra ...Family) error {
	return RegisterEach(r, includeOriginal, append(Builtin(), extra...))
}

// RegisterEach registers every family in fams, joining the failures.
func RegisterEach(r *registry.Registry, includeOriginal bool, fams []Family) error {
	var errs []error
	for _, f := range fams {
		if err := f.Register(r, includeOriginal); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Resolve returns the built-in families followed by those defined in path.
// An empty path yields just the built-ins. A file family may not reuse a
// built-in name, since the registry guard would skip it.
func Resolve(path string) ([]Family, error) {
	all := Builtin()
	if path == "" {
		return all, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	builtin := Names()
	for _, f := range extra {
		if slices.Contains(builtin, f.Name) {
			return nil, errors.NewValidationError("name", f.Name, "family name is reserved by a built-in family")
		}
	}
	return append(all, extra...), nil
}

// Summary describes a family for listings.
type Summary struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Metas       []string `json:"metas" yaml:"metas"`
	Registered  bool     `json:"registered" yaml:"registered"`
}

// Summarize describes each family and whether r has registered it.
func Summarize(all []Family, r *registry.Registry) []Summary {
	out := make([]Summary, 0, len(all))
	for _, f := range all {
		s := Summary{Name: f.Name, Description: f.Description, Registered: r != nil && r.IsRegistered(f.Name)}
		for _, m := range f.Metas {
			s.Metas = append(s.Metas, m.String())
		}
		out = append(out, s)
	}
	return out
}
