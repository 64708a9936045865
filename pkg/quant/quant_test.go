package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/errors"
)

func TestTag(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{None, ""},
		{BNB, "bnb-4bit"},
		{Unsloth, "unsloth-bnb-4bit"},
		{GGUF, "GGUF"},
		{BF16, "bf16"},
		{Type(99), ""},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.Tag())
		})
	}
}

func TestParse(t *testing.T) {
	for _, typ := range All() {
		got, err := Parse(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	got, err := Parse("UNSLOTH-BNB-4BIT")
	require.NoError(t, err)
	assert.Equal(t, Unsloth, got)

	got, err = Parse(" GGUF ")
	require.NoError(t, err)
	assert.Equal(t, GGUF, got)

	_, err = Parse("awq")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestTextRoundTrip(t *testing.T) {
	b, err := BF16.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "bf16", string(b))

	var typ Type
	require.NoError(t, typ.UnmarshalText([]byte("bnb")))
	assert.Equal(t, BNB, typ)

	_, err = Type(42).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "quant(42)", Type(42).String())
	assert.False(t, Type(42).Valid())
}
