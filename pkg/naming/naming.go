// Package naming builds canonical model identifiers.
//
// Every model family has a naming strategy: a pure function from
// (base name, version, size, quantization, instruct tag) to an identifier.
// Strategies are looked up by Family tag. Each strategy renders its own
// family specific prefix and then finishes with AppendInstructTag followed
// by AppendQuantType, so identifiers keep the same suffix shape across
// families.
package naming

import (
	"slices"
	"sync"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/quant"
)

// Family identifies a naming strategy.
type Family string

// Built-in families.
const (
	// FamilyDeepSeekV3 renders {base}-V{version}.
	FamilyDeepSeekV3 Family = "deepseek-v3"
	// FamilyDeepSeekR1 renders {base}[-{version}][-{size}B].
	FamilyDeepSeekR1 Family = "deepseek-r1"
)

// Strategy constructs an identifier. Strategies do not validate their input.
type Strategy func(baseName, version, size string, q quant.Type, instructTag string) string

var (
	mu         sync.RWMutex
	strategies = map[Family]Strategy{
		FamilyDeepSeekV3: deepseekV3,
		FamilyDeepSeekR1: deepseekR1,
	}
)

// Register adds or replaces the strategy for a family.
func Register(f Family, s Strategy) {
	mu.Lock()
	defer mu.Unlock()
	strategies[f] = s
}

// Lookup returns the strategy for a family.
func Lookup(f Family) (Strategy, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := strategies[f]
	return s, ok
}

// Families returns the registered family tags, sorted.
func Families() []Family {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Family, 0, len(strategies))
	for f := range strategies {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Construct builds the identifier for the given combination using the
// family's strategy.
func Construct(f Family, baseName, version, size string, q quant.Type, instructTag string) (string, error) {
	s, ok := Lookup(f)
	if !ok {
		return "", errors.NewNotFoundError("naming strategy", string(f))
	}
	return s(baseName, version, size, q, instructTag), nil
}

// AppendInstructTag appends "-{tag}" unless tag is empty.
func AppendInstructTag(key, instructTag string) string {
	if instructTag == "" {
		return key
	}
	return key + "-" + instructTag
}

// AppendQuantType appends "-{tag}" unless the quantization renders empty.
func AppendQuantType(key string, q quant.Type) string {
	tag := q.Tag()
	if tag == "" {
		return key
	}
	return key + "-" + tag
}

func deepseekV3(baseName, version, _ string, q quant.Type, instructTag string) string {
	key := baseName + "-V" + version
	key = AppendInstructTag(key, instructTag)
	return AppendQuantType(key, q)
}

func deepseekR1(baseName, version, size string, q quant.Type, instructTag string) string {
	key := baseName
	if version != "" {
		key += "-" + version
	}
	if size != "" {
		key += "-" + size + "B"
	}
	key = AppendInstructTag(key, instructTag)
	return AppendQuantType(key, q)
}
