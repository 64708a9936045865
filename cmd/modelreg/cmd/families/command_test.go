package families

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/pkg/families/deepseek"
	"github.com/agentstation/modelreg/pkg/registry"
)

func run(t *testing.T, app *appcontext.Mock) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)
	err := cmd.Execute()
	return out.String(), err
}

func TestFamiliesTable(t *testing.T) {
	r := registry.New()
	require.NoError(t, deepseek.RegisterV3(r, true))

	out, err := run(t, &appcontext.Mock{
		RegistryFunc: func(context.Context) (*registry.Registry, error) { return r, nil },
	})
	require.NoError(t, err)
	assert.Contains(t, out, deepseek.FamilyV3)
	assert.Contains(t, out, deepseek.FamilyR1)
}

func TestFamiliesJSON(t *testing.T) {
	out, err := run(t, &appcontext.Mock{OutputFormatFunc: func() string { return "json" }})
	require.NoError(t, err)
	assert.Contains(t, out, `"registered": false`)
}

func TestFamiliesBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "families.yaml")
	require.NoError(t, os.WriteFile(path, []byte("families: [oops"), 0o600))

	_, err := run(t, &appcontext.Mock{SettingsValue: appcontext.Settings{FamiliesFile: path}})
	assert.Error(t, err)
}
