package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/pkg/families"
	"github.com/agentstation/modelreg/pkg/families/deepseek"
	"github.com/agentstation/modelreg/pkg/registry"
	"github.com/agentstation/modelreg/pkg/verify"
)

func v3Models(t *testing.T) []registry.ModelInfo {
	t.Helper()
	r := registry.New()
	require.NoError(t, deepseek.RegisterV3(r, true))
	return r.List()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         "",
		"table":    FormatTable,
		"JSON":     FormatJSON,
		"yaml":     FormatYAML,
		"wide":     FormatWide,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, v3Models(t)))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 6)
	assert.Equal(t, "DeepSeek-V3-bf16", out[1]["name"])
	assert.Equal(t, "bf16", out[1]["quant"])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, v3Models(t)[:2]))
	assert.Contains(t, buf.String(), "name: DeepSeek-V3-bf16")
	assert.Contains(t, buf.String(), "quant: bf16")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, ModelsData(v3Models(t), false)))
	assert.Contains(t, buf.String(), "unsloth/DeepSeek-V3-0324-GGUF")
	assert.Contains(t, buf.String(), "deepseek-ai/DeepSeek-V3")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatWide).Format(&buf, ModelsData(v3Models(t), true)))
	assert.Contains(t, buf.String(), "3-0324")
}

func TestTableFormatterReflects(t *testing.T) {
	type row struct {
		Name  string `json:"model_name"`
		Count int
		skip  bool
	}
	d, ok := toData([]row{{Name: "a", Count: 1}, {Name: "b", Count: 2}})
	require.True(t, ok)
	assert.Equal(t, []string{"Model Name", "Count"}, d.Headers)
	assert.Equal(t, [][]string{{"a", "1"}, {"b", "2"}}, d.Rows)

	d, ok = toData(row{Name: "a"})
	require.True(t, ok)
	assert.Equal(t, []string{"Property", "Value"}, d.Headers)
	assert.Len(t, d.Rows, 2)

	_, ok = toData(42)
	assert.False(t, ok)
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatMarkdown).Format(&buf, ModelsData(v3Models(t), false)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Registered models"))
	assert.Contains(t, out, "| unsloth/DeepSeek-V3-bf16")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatMarkdown).Format(&buf, Data{Title: "Empty"}))
	assert.Contains(t, buf.String(), "No entries.")

	assert.Error(t, NewFormatter(FormatMarkdown).Format(&buf, 42))
}

func TestFamiliesData(t *testing.T) {
	r := registry.New()
	require.NoError(t, deepseek.RegisterR1(r, false))

	d := FamiliesData(families.Builtin(), r)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, []string{"deepseek-v3", "2", "-"}, d.Rows[0][:3])
	assert.Equal(t, []string{"deepseek-r1", "4", "✓"}, d.Rows[1][:3])
}

func TestReportData(t *testing.T) {
	report := &verify.Report{Results: []verify.Result{
		{ID: "unsloth/DeepSeek-R1", Status: verify.OK, LastModified: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "unsloth/DeepSeek-R2", Status: verify.Missing},
		{ID: "unsloth/DeepSeek-R1-GGUF", Status: verify.Error, Error: "boom"},
	}}

	d := ReportData(report)
	assert.Equal(t, [][]string{
		{"✓", "unsloth/DeepSeek-R1", "ok", "2025-01-20", ""},
		{"✗", "unsloth/DeepSeek-R2", "missing", "", ""},
		{"!", "unsloth/DeepSeek-R1-GGUF", "error", "", "boom"},
	}, d.Rows)
}
