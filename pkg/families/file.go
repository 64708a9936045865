package families

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/naming"
	"github.com/agentstation/modelreg/pkg/quant"
	"github.com/agentstation/modelreg/pkg/registry"
)

// File is the on-disk layout of a family file.
type File struct {
	Families []FamilySpec `json:"families" yaml:"families" toml:"families"`
}

// FamilySpec describes one family in a file.
type FamilySpec struct {
	Name        string     `json:"name" yaml:"name" toml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Metas       []MetaSpec `json:"metas" yaml:"metas" toml:"metas"`
}

// MetaSpec describes one meta in a file. Quants applies to every size;
// QuantsBySize gives a list per size instead. Exactly one must be set.
// Quant names are those accepted by quant.Parse. Strategy names one of the
// registered naming strategies.
type MetaSpec struct {
	Org          string              `json:"org" yaml:"org" toml:"org"`
	BaseName     string              `json:"base_name" yaml:"base_name" toml:"base_name"`
	Version      string              `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Strategy     string              `json:"strategy" yaml:"strategy" toml:"strategy"`
	Sizes        []string            `json:"sizes,omitempty" yaml:"sizes,omitempty" toml:"sizes,omitempty"`
	InstructTags []string            `json:"instruct_tags,omitempty" yaml:"instruct_tags,omitempty" toml:"instruct_tags,omitempty"`
	Multimodal   bool                `json:"multimodal,omitempty" yaml:"multimodal,omitempty" toml:"multimodal,omitempty"`
	Quants       []string            `json:"quants,omitempty" yaml:"quants,omitempty" toml:"quants,omitempty"`
	QuantsBySize map[string][]string `json:"quants_by_size,omitempty" yaml:"quants_by_size,omitempty" toml:"quants_by_size,omitempty"`
}

// Meta converts the spec into a validated registry.ModelMeta.
func (s MetaSpec) Meta() (registry.ModelMeta, error) {
	meta := registry.ModelMeta{
		Org:          s.Org,
		BaseName:     s.BaseName,
		Version:      s.Version,
		Sizes:        s.Sizes,
		InstructTags: s.InstructTags,
		Multimodal:   s.Multimodal,
		Family:       naming.Family(s.Strategy),
	}

	switch {
	case len(s.Quants) > 0 && len(s.QuantsBySize) > 0:
		return meta, errors.NewValidationError("quants", s.Quants, "quants and quants_by_size are mutually exclusive")
	case len(s.QuantsBySize) > 0:
		bySize := make(map[string][]quant.Type, len(s.QuantsBySize))
		for size, names := range s.QuantsBySize {
			types, err := parseQuants(names)
			if err != nil {
				return meta, err
			}
			bySize[size] = types
		}
		meta.Quants = registry.PerSize(bySize)
	case len(s.Quants) > 0:
		types, err := parseQuants(s.Quants)
		if err != nil {
			return meta, err
		}
		meta.Quants = registry.Uniform(types...)
	default:
		return meta, errors.NewValidationError("quants", nil, "one of quants or quants_by_size is required")
	}

	if err := meta.Validate(); err != nil {
		return meta, err
	}
	return meta, nil
}

func parseQuants(names []string) ([]quant.Type, error) {
	types := make([]quant.Type, 0, len(names))
	for _, n := range names {
		q, err := quant.Parse(n)
		if err != nil {
			return nil, err
		}
		types = append(types, q)
	}
	return types, nil
}

// Decode parses data in the given format ("yaml", "toml" or "json") into
// families.
func Decode(data []byte, format string) ([]Family, error) {
	var f File
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &f)
	case "toml":
		err = toml.Unmarshal(data, &f)
	case "json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, errors.NewValidationError("format", format, "must be yaml, toml or json")
	}
	if err != nil {
		return nil, errors.WrapParse(format, "", err)
	}

	seen := make(map[string]bool, len(f.Families))
	out := make([]Family, 0, len(f.Families))
	for _, spec := range f.Families {
		if spec.Name == "" {
			return nil, errors.NewValidationError("name", "", "family name is required")
		}
		if seen[spec.Name] {
			return nil, errors.NewValidationError("name", spec.Name, "duplicate family")
		}
		seen[spec.Name] = true

		fam := Family{Name: spec.Name, Description: spec.Description}
		for i, ms := range spec.Metas {
			meta, err := ms.Meta()
			if err != nil {
				return nil, errors.WrapResource("load", "family", fmt.Sprintf("%s[%d]", spec.Name, i), err)
			}
			fam.Metas = append(fam.Metas, meta)
		}
		out = append(out, fam)
	}
	return out, nil
}

// LoadFile reads families from path, choosing the format by extension:
// .yaml/.yml, .toml or .json.
func LoadFile(path string) ([]Family, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", path, "empty family file path")
	}

	var format string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		format = "yaml"
	case ".toml":
		format = "toml"
	case ".json":
		format = "json"
	default:
		return nil, errors.NewValidationError("path", path, fmt.Sprintf("unsupported family file extension %q", ext))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	fams, err := Decode(data, format)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return fams, nil
}
