package registry_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/logging"
	"github.com/agentstation/modelreg/pkg/naming"
	"github.com/agentstation/modelreg/pkg/quant"
	"github.com/agentstation/modelreg/pkg/registry"
)

func r1Meta() registry.ModelMeta {
	return registry.ModelMeta{
		Org:      "deepseek-ai",
		BaseName: "DeepSeek-R1",
		Family:   naming.FamilyDeepSeekR1,
		Sizes:    []string{""},
		Quants:   registry.Uniform(quant.None, quant.BF16, quant.GGUF),
	}
}

func distillMeta() registry.ModelMeta {
	return registry.ModelMeta{
		Org:      "deepseek-ai",
		BaseName: "DeepSeek-R1-Distill",
		Version:  "Llama",
		Family:   naming.FamilyDeepSeekR1,
		Sizes:    []string{"8", "70"},
		Quants: registry.PerSize(map[string][]quant.Type{
			"8":  {quant.Unsloth, quant.GGUF},
			"70": {quant.GGUF},
		}),
	}
}

func TestRegisterModels(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterModels(distillMeta(), false))

	assert.Equal(t, []string{
		"unsloth/DeepSeek-R1-Distill-Llama-8B-unsloth-bnb-4bit",
		"unsloth/DeepSeek-R1-Distill-Llama-8B-GGUF",
		"unsloth/DeepSeek-R1-Distill-Llama-70B-GGUF",
	}, r.Keys())

	info, ok := r.Get("unsloth/DeepSeek-R1-Distill-Llama-8B-unsloth-bnb-4bit")
	require.True(t, ok)
	assert.Equal(t, registry.ModelInfo{
		Org:      "unsloth",
		Name:     "DeepSeek-R1-Distill-Llama-8B-unsloth-bnb-4bit",
		BaseName: "DeepSeek-R1-Distill",
		Version:  "Llama",
		Size:     "8",
		Quant:    quant.Unsloth,
		Family:   naming.FamilyDeepSeekR1,
	}, info)
}

func TestRegisterModelsIncludeOriginal(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterModels(r1Meta(), true))

	assert.Equal(t, []string{
		"unsloth/DeepSeek-R1",
		"unsloth/DeepSeek-R1-bf16",
		"unsloth/DeepSeek-R1-GGUF",
		"deepseek-ai/DeepSeek-R1",
	}, r.Keys())

	original, ok := r.Get("deepseek-ai/DeepSeek-R1")
	require.True(t, ok)
	assert.True(t, original.Original)
	assert.Equal(t, quant.None, original.Quant)
}

func TestRegisterModelsOnePerCombination(t *testing.T) {
	meta := registry.ModelMeta{
		Org:          "acme",
		BaseName:     "Base",
		Family:       naming.FamilyDeepSeekR1,
		Sizes:        []string{"1", "2", "3"},
		InstructTags: []string{"", "Instruct"},
		Quants:       registry.Uniform(quant.GGUF, quant.BNB),
	}
	r := registry.New(registry.WithPublisher("mirror"))
	require.NoError(t, r.RegisterModels(meta, true))

	// 3 sizes x 2 tags x (2 quants + 1 original)
	assert.Equal(t, 18, r.Len())
	_, ok := r.Get("mirror/Base-2B-Instruct-bnb-4bit")
	assert.True(t, ok)
	_, ok = r.Get("acme/Base-3B-Instruct")
	assert.True(t, ok)
	assert.Equal(t, "mirror", r.Publisher())
}

func TestRegisterModelsEmptyLists(t *testing.T) {
	meta := registry.ModelMeta{
		Org:      "acme",
		BaseName: "Solo",
		Family:   naming.FamilyDeepSeekR1,
		Quants:   registry.Uniform(quant.None),
	}
	r := registry.New()
	require.NoError(t, r.RegisterModels(meta, false))
	assert.Equal(t, []string{"unsloth/Solo"}, r.Keys())
}

func TestRegisterModelsMissingSizeIsConfigError(t *testing.T) {
	meta := distillMeta()
	meta.Sizes = append(meta.Sizes, "14")

	r := registry.New()
	err := r.RegisterModels(meta, true)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.ErrorIs(t, err, registry.ErrMissingQuantTypes)
	assert.Zero(t, r.Len(), "a failed expansion must not insert partial results")
}

func TestRegisterModelsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*registry.ModelMeta)
	}{
		{"empty org", func(m *registry.ModelMeta) { m.Org = "" }},
		{"empty base", func(m *registry.ModelMeta) { m.BaseName = "" }},
		{"unknown family", func(m *registry.ModelMeta) { m.Family = "nope" }},
		{"undeclared keyed size", func(m *registry.ModelMeta) {
			m.Quants = registry.PerSize(map[string][]quant.Type{"8": {quant.GGUF}, "70": {quant.GGUF}, "405": {quant.GGUF}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := distillMeta()
			tt.mutate(&meta)
			err := registry.New().RegisterModels(meta, false)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestReRegisterOverwrites(t *testing.T) {
	tl := logging.NewTestLogger(t)
	r := registry.New(registry.WithLogger(tl.Logger))

	require.NoError(t, r.RegisterModels(r1Meta(), false))
	before := r.List()
	require.NoError(t, r.RegisterModels(r1Meta(), false))

	if diff := cmp.Diff(before, r.List()); diff != "" {
		t.Errorf("re-registration changed the registry (-before +after):\n%s", diff)
	}
	tl.AssertContains(t, "Replacing registered model")
}

func TestRegisterFamilyIsIdempotent(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterFamily("deepseek-r1", true, r1Meta(), distillMeta()))
	once := r.List()

	require.NoError(t, r.RegisterFamily("deepseek-r1", true, r1Meta(), distillMeta()))
	if diff := cmp.Diff(once, r.List()); diff != "" {
		t.Errorf("second registration changed the registry (-once +twice):\n%s", diff)
	}
	assert.True(t, r.IsRegistered("deepseek-r1"))
	assert.False(t, r.IsRegistered("deepseek-v3"))
	assert.Equal(t, []string{"deepseek-r1"}, r.Families())
}

func TestRegisterFamilyGuardsAreIndependent(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterFamily("a", false, r1Meta()))

	// Same metas under a different family still expand.
	require.NoError(t, r.RegisterFamily("b", false, distillMeta()))
	assert.Equal(t, []string{"a", "b"}, r.Families())
	assert.Equal(t, 6, r.Len())
}

func TestRegisterFamilyFailureLeavesFamilyUnmarked(t *testing.T) {
	bad := distillMeta()
	bad.Sizes = []string{"8", "70", "14"}

	r := registry.New()
	err := r.RegisterFamily("deepseek-r1", false, r1Meta(), bad)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.False(t, r.IsRegistered("deepseek-r1"))
	assert.Zero(t, r.Len())

	// A corrected retry goes through.
	require.NoError(t, r.RegisterFamily("deepseek-r1", false, r1Meta(), distillMeta()))
	assert.Equal(t, 6, r.Len())
}

func TestRegisterFamilyConcurrent(t *testing.T) {
	tl := logging.NewTestLogger(t)
	r := registry.New(registry.WithLogger(tl.Logger))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.RegisterFamily("deepseek-r1", true, r1Meta(), distillMeta()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 9, r.Len())
	tl.AssertNotContains(t, "Replacing registered model")
}

func TestFilterAndReset(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.RegisterFamily("deepseek-r1", true, r1Meta(), distillMeta()))

	gguf := r.Filter(func(m registry.ModelInfo) bool { return m.Quant == quant.GGUF })
	assert.Len(t, gguf, 3)

	r.Reset()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Families())
	assert.False(t, r.IsRegistered("deepseek-r1"))
}
