// Package quant defines the quantization schemes a model variant can be
// published in, and the tag each one contributes to a model identifier.
package quant

import (
	"fmt"
	"strings"

	"github.com/agentstation/modelreg/pkg/errors"
)

// Type is a quantization scheme.
type Type int

// Quantization types. New schemes are appended; existing tags never change
// because they are part of published identifiers.
const (
	// None is the unquantized model. It contributes no tag.
	None Type = iota
	// BNB is a plain bitsandbytes 4-bit quantization.
	BNB
	// Unsloth is the unsloth dynamic bitsandbytes 4-bit quantization.
	Unsloth
	// GGUF is a llama.cpp GGUF export.
	GGUF
	// BF16 is a bfloat16 export.
	BF16
)

// Tags as they appear in identifiers.
const (
	BNBTag     = "bnb-4bit"
	UnslothTag = "unsloth-" + BNBTag
	GGUFTag    = "GGUF"
	BF16Tag    = "bf16"
)

var tags = map[Type]string{
	None:    "",
	BNB:     BNBTag,
	Unsloth: UnslothTag,
	GGUF:    GGUFTag,
	BF16:    BF16Tag,
}

var names = map[Type]string{
	None:    "none",
	BNB:     "bnb",
	Unsloth: "unsloth",
	GGUF:    "gguf",
	BF16:    "bf16",
}

// All returns every quantization type in declaration order.
func All() []Type {
	return []Type{None, BNB, Unsloth, GGUF, BF16}
}

// Tag returns the identifier suffix for the type. None and unknown types
// render as the empty string.
func (t Type) Tag() string {
	return tags[t]
}

// String returns the short enum name (none, bnb, unsloth, gguf, bf16).
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("quant(%d)", int(t))
}

// Valid reports whether t is a declared type.
func (t Type) Valid() bool {
	_, ok := names[t]
	return ok
}

// Parse converts an enum name or a tag into a Type, case-insensitively.
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(s)
	for _, t := range All() {
		if strings.EqualFold(s, names[t]) || (tags[t] != "" && strings.EqualFold(s, tags[t])) {
			return t, nil
		}
	}
	return None, errors.NewValidationError("quant", s, "unknown quantization type")
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid quantization type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
