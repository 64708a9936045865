package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/quant"
)

func TestConstruct(t *testing.T) {
	tests := []struct {
		name    string
		family  Family
		base    string
		version string
		size    string
		quant   quant.Type
		tag     string
		want    string
	}{
		{"r1 bare", FamilyDeepSeekR1, "DeepSeek-R1", "", "", quant.None, "", "DeepSeek-R1"},
		{"r1 zero gguf", FamilyDeepSeekR1, "DeepSeek-R1", "Zero", "", quant.GGUF, "", "DeepSeek-R1-Zero-GGUF"},
		{"r1 distill llama", FamilyDeepSeekR1, "DeepSeek-R1-Distill", "Llama", "8", quant.Unsloth, "", "DeepSeek-R1-Distill-Llama-8B-unsloth-bnb-4bit"},
		{"r1 distill qwen bnb", FamilyDeepSeekR1, "DeepSeek-R1-Distill", "Qwen", "32", quant.BNB, "", "DeepSeek-R1-Distill-Qwen-32B-bnb-4bit"},
		{"r1 bf16", FamilyDeepSeekR1, "DeepSeek-R1", "", "", quant.BF16, "", "DeepSeek-R1-bf16"},
		{"v3 none", FamilyDeepSeekV3, "DeepSeek", "3", "", quant.None, "", "DeepSeek-V3"},
		{"v3 0324 gguf", FamilyDeepSeekV3, "DeepSeek", "3-0324", "", quant.GGUF, "", "DeepSeek-V3-0324-GGUF"},
		{"v3 instruct", FamilyDeepSeekV3, "DeepSeek", "3", "", quant.BF16, "Instruct", "DeepSeek-V3-Instruct-bf16"},
		{"r1 size and instruct", FamilyDeepSeekR1, "Base", "", "7", quant.GGUF, "it", "Base-7B-it-GGUF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Construct(tt.family, tt.base, tt.version, tt.size, tt.quant, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Construct(tt.family, tt.base, tt.version, tt.size, tt.quant, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestConstructUnknownFamily(t *testing.T) {
	_, err := Construct("llama-4", "Llama", "4", "", quant.None, "")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAppendInstructTag(t *testing.T) {
	tests := []struct {
		key, tag, want string
	}{
		{"DeepSeek-R1", "", "DeepSeek-R1"},
		{"DeepSeek-R1", "Instruct", "DeepSeek-R1-Instruct"},
		{"Llama-3.1-8B", "it", "Llama-3.1-8B-it"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AppendInstructTag(tt.key, tt.tag), "%q + %q", tt.key, tt.tag)
	}
}

func TestAppendQuantType(t *testing.T) {
	tests := []struct {
		q    quant.Type
		want string
	}{
		{quant.None, "DeepSeek-V3"},
		{quant.BNB, "DeepSeek-V3-bnb-4bit"},
		{quant.Unsloth, "DeepSeek-V3-unsloth-bnb-4bit"},
		{quant.GGUF, "DeepSeek-V3-GGUF"},
		{quant.BF16, "DeepSeek-V3-bf16"},
	}
	require.Len(t, tests, len(quant.All()))
	for _, tt := range tests {
		assert.Equal(t, tt.want, AppendQuantType("DeepSeek-V3", tt.q), tt.q.String())
	}
}

func TestSuffixOrderIsSharedByEveryFamily(t *testing.T) {
	for _, f := range Families() {
		t.Run(string(f), func(t *testing.T) {
			plain, err := Construct(f, "Base", "1", "", quant.None, "")
			require.NoError(t, err)
			full, err := Construct(f, "Base", "1", "", quant.GGUF, "Instruct")
			require.NoError(t, err)
			assert.Equal(t, plain+"-Instruct-GGUF", full)
		})
	}
}

func TestRegister(t *testing.T) {
	custom := Family("test-plain")
	t.Cleanup(func() {
		mu.Lock()
		delete(strategies, custom)
		mu.Unlock()
	})

	Register(custom, func(base, version, size string, q quant.Type, tag string) string {
		return AppendQuantType(AppendInstructTag(base+"-"+version, tag), q)
	})

	got, err := Construct(custom, "Phi", "4", "", quant.GGUF, "")
	require.NoError(t, err)
	assert.Equal(t, "Phi-4-GGUF", got)
	assert.Contains(t, Families(), custom)
}
