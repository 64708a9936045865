package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/cmd/output"
	"github.com/agentstation/modelreg/pkg/families/deepseek"
	"github.com/agentstation/modelreg/pkg/registry"
)

func v3Registry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, deepseek.RegisterV3(r, false))
	return r
}

func TestWriteFormats(t *testing.T) {
	s := NewSnapshot(v3Registry(t))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, output.FormatJSON))
	var got Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "unsloth", got.Publisher)
	assert.Equal(t, []string{deepseek.FamilyV3}, got.Families)
	assert.Len(t, got.Models, 4)

	buf.Reset()
	require.NoError(t, Write(&buf, s, output.FormatTable))
	var fromYAML Snapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Len(t, fromYAML.Models, 4)

	buf.Reset()
	require.NoError(t, Write(&buf, s, output.FormatMarkdown))
	assert.Contains(t, buf.String(), "Model registry (4 identifiers)")
	assert.Contains(t, buf.String(), "unsloth/DeepSeek-V3-0324-GGUF")
}

func TestExportToFile(t *testing.T) {
	r := v3Registry(t)
	app := &appcontext.Mock{
		RegistryFunc:     func(context.Context) (*registry.Registry, error) { return r, nil },
		OutputFormatFunc: func() string { return "json" },
	}
	path := filepath.Join(t.TempDir(), "out", "registry.json")

	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--file", path})
	require.NoError(t, cmd.Execute())
	assert.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"unsloth/DeepSeek-V3-bf16"`)
}
