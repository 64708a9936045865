package registry

import (
	"fmt"
	"maps"
	"slices"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/naming"
	"github.com/agentstation/modelreg/pkg/quant"
)

// ErrMissingQuantTypes is wrapped by the configuration error returned when
// a size-keyed quantization mapping has no entry for a declared size.
var ErrMissingQuantTypes = errors.New("no quantization types declared for size")

// QuantTypes is the set of quantizations a family is published in. It is
// either uniform across sizes or keyed by size.
type QuantTypes struct {
	uniform []quant.Type
	perSize map[string][]quant.Type
	keyed   bool
}

// Uniform applies the same quantization types to every size.
func Uniform(types ...quant.Type) QuantTypes {
	return QuantTypes{uniform: slices.Clone(types)}
}

// PerSize declares quantization types separately for each size.
func PerSize(bySize map[string][]quant.Type) QuantTypes {
	m := make(map[string][]quant.Type, len(bySize))
	for size, types := range bySize {
		m[size] = slices.Clone(types)
	}
	return QuantTypes{perSize: m, keyed: true}
}

// IsPerSize reports whether the types are keyed by size.
func (q QuantTypes) IsPerSize() bool {
	return q.keyed
}

// For returns the quantization types for a size. The second result is false
// when the set is keyed by size and the size has no entry.
func (q QuantTypes) For(size string) ([]quant.Type, bool) {
	if !q.keyed {
		return q.uniform, true
	}
	types, ok := q.perSize[size]
	return types, ok
}

// Sizes returns the sizes a keyed set declares, sorted. It is nil for a
// uniform set.
func (q QuantTypes) Sizes() []string {
	if !q.keyed {
		return nil
	}
	return slices.Sorted(maps.Keys(q.perSize))
}

// ModelMeta describes one model family release: where it is published, how
// its identifiers are built and which variants exist.
type ModelMeta struct {
	Org          string
	BaseName     string
	Version      string
	InstructTags []string
	Sizes        []string
	Family       naming.Family
	Multimodal   bool
	Quants       QuantTypes
}

// Path returns org/base_name.
func (m ModelMeta) Path() string {
	return m.Org + "/" + m.BaseName
}

// String identifies the meta in logs and errors.
func (m ModelMeta) String() string {
	if m.Version == "" {
		return m.Path()
	}
	return fmt.Sprintf("%s@%s", m.Path(), m.Version)
}

// SizeList returns the sizes to expand. An empty list means one sizeless model.
func (m ModelMeta) SizeList() []string {
	if len(m.Sizes) == 0 {
		return []string{""}
	}
	return m.Sizes
}

// InstructTagList returns the instruct tags to expand. An empty list means
// only the plain variant.
func (m ModelMeta) InstructTagList() []string {
	if len(m.InstructTags) == 0 {
		return []string{""}
	}
	return m.InstructTags
}

// Validate checks the static shape of the meta. Missing size entries in a
// keyed quantization set are reported at expansion time instead.
func (m ModelMeta) Validate() error {
	if m.Org == "" {
		return errors.NewValidationError("org", m.Org, "cannot be empty")
	}
	if m.BaseName == "" {
		return errors.NewValidationError("base_name", m.BaseName, "cannot be empty")
	}
	if _, ok := naming.Lookup(m.Family); !ok {
		return errors.NewValidationError("family", m.Family, "no naming strategy registered")
	}
	sizes := m.SizeList()
	for _, size := range m.Quants.Sizes() {
		if !slices.Contains(sizes, size) {
			return errors.NewValidationError("quant_types", size, "size is not declared in model sizes")
		}
	}
	return nil
}
