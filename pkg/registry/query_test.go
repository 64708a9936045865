package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/registry"
)

func TestQuerySelect(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterModels(r1Meta(), true))
	require.NoError(t, r.RegisterModels(distillMeta(), true))
	require.Equal(t, 9, r.Len())

	tests := []struct {
		name  string
		query registry.Query
		want  int
	}{
		{"everything", registry.Query{}, 9},
		{"quant tag", registry.Query{Quant: "gguf"}, 3},
		{"org is case-insensitive", registry.Query{Org: "DEEPSEEK-AI"}, 3},
		{"originals", registry.Query{OriginalOnly: true}, 3},
		{"search", registry.Query{Search: "llama-8b"}, 3},
		{"glob search", registry.Query{Search: "unsloth/*-GGUF"}, 3},
		{"regex search", registry.Query{Search: "^deepseek-ai/.*Distill"}, 2},
		{"other family", registry.Query{Family: "deepseek-v3"}, 0},
		{"limit", registry.Query{Limit: 2}, 2},
		{"limit above count", registry.Query{Limit: 50}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Select(r)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			for _, m := range got {
				assert.True(t, tt.query.Match(m))
			}
		})
	}
}

func TestQueryKeepsOrder(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterModels(distillMeta(), false))

	got, err := registry.Query{Limit: 2}.Select(r)
	require.NoError(t, err)
	assert.Equal(t, r.Keys()[:2], []string{got[0].Path(), got[1].Path()})
}

func TestQueryRejectsUnknownQuant(t *testing.T) {
	_, err := registry.Query{Quant: "fp8"}.Select(registry.New())
	assert.True(t, errors.IsValidationError(err))
}

func TestQueryRejectsBadSearch(t *testing.T) {
	q := registry.Query{Search: "(oops"}
	_, err := q.Select(registry.New())
	assert.True(t, errors.IsValidationError(err))
	assert.False(t, q.Match(registry.ModelInfo{Org: "a", Name: "(oops"}))
}

func TestQueryFamilyUsesRegisteredName(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterFamily("deepseek-r1", false, r1Meta()))
	require.NoError(t, r.RegisterFamily("acme", false, distillMeta()))

	r1, err := registry.Query{Family: "deepseek-r1"}.Select(r)
	require.NoError(t, err)
	acme, err := registry.Query{Family: "acme"}.Select(r)
	require.NoError(t, err)
	require.NotEmpty(t, acme)

	assert.Len(t, r1, r.Len()-len(acme))
	for _, m := range acme {
		assert.Equal(t, "acme", m.RegisteredFamily)
		assert.Contains(t, m.Name, "Distill")
	}

	// both families share the R1 naming strategy
	byStrategy, err := registry.Query{Strategy: "deepseek-r1"}.Select(r)
	require.NoError(t, err)
	assert.Len(t, byStrategy, r.Len())
}
