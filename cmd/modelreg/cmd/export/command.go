// Package export provides the command that writes a snapshot of the registry.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelreg/internal/appcontext"
	"github.com/agentstation/modelreg/internal/cmd/output"
	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/registry"
)

// Snapshot is the exported registry content.
type Snapshot struct {
	Generated time.Time            `json:"generated" yaml:"generated"`
	Publisher string               `json:"publisher" yaml:"publisher"`
	Families  []string             `json:"families" yaml:"families"`
	Models    []registry.ModelInfo `json:"models" yaml:"models"`
}

// NewSnapshot captures r.
func NewSnapshot(r *registry.Registry) Snapshot {
	return Snapshot{
		Generated: time.Now().UTC(),
		Publisher: r.Publisher(),
		Families:  r.Families(),
		Models:    r.List(),
	}
}

// Write renders s in format. Table formats fall back to YAML.
func Write(w io.Writer, s Snapshot, format output.Format) error {
	switch format {
	case output.FormatJSON:
		return output.NewFormatter(output.FormatJSON).Format(w, s)
	case output.FormatMarkdown:
		d := output.ModelsData(s.Models, true)
		d.Title = fmt.Sprintf("Model registry (%d identifiers)", len(s.Models))
		return output.NewFormatter(output.FormatMarkdown).Format(w, d)
	default:
		return output.NewFormatter(output.FormatYAML).Format(w, s)
	}
}

// NewCommand creates the export command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Export the registry as YAML, JSON or markdown",
		Example: `  modelreg export                          # YAML on stdout
  modelreg export -o json --file reg.json  # JSON file
  modelreg export -o markdown > MODELS.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			r, err := app.Registry(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := Write(&buf, NewSnapshot(r), format); err != nil {
				return err
			}

			if file == "" {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.MkdirAll(filepath.Dir(file), constants.DirPermissions); err != nil {
				return errors.WrapIO("create", filepath.Dir(file), err)
			}
			if err := os.WriteFile(file, buf.Bytes(), constants.FilePermissions); err != nil {
				return errors.WrapIO("write", file, err)
			}
			app.Logger().Info().Str("file", file).Int("models", r.Len()).Msg("Registry exported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of stdout")
	return cmd
}
