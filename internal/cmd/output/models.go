package output

import (
	"strconv"
	"strings"

	"github.com/agentstation/modelreg/internal/cmd/emoji"
	"github.com/agentstation/modelreg/pkg/families"
	"github.com/agentstation/modelreg/pkg/registry"
	"github.com/agentstation/modelreg/pkg/verify"
)

// ModelsData lays registered models out as a table. Wide adds the
// decomposed identifier columns.
func ModelsData(models []registry.ModelInfo, wide bool) Data {
	d := Data{Title: "Registered models", Headers: []string{"ID", "Family", "Quant"}}
	if wide {
		d.Headers = append(d.Headers, "Strategy", "Base", "Version", "Size", "Instruct", "Original")
	}
	for _, m := range models {
		row := []string{m.Path(), dash(m.RegisteredFamily), m.Quant.String()}
		if wide {
			row = append(row, string(m.Family), m.BaseName, dash(m.Version), sizeLabel(m.Size), dash(m.InstructTag), strconv.FormatBool(m.Original))
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// FamiliesData lists families with their registration state in r.
func FamiliesData(fams []families.Family, r *registry.Registry) Data {
	d := Data{
		Title:           "Model families",
		Headers:         []string{"Family", "Metas", "Registered", "Description"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignCenter, AlignLeft},
	}
	for _, f := range fams {
		mark := emoji.Optional
		if r != nil && r.IsRegistered(f.Name) {
			mark = emoji.Success
		}
		metas := make([]string, 0, len(f.Metas))
		for _, m := range f.Metas {
			metas = append(metas, m.String())
		}
		desc := f.Description
		if desc == "" {
			desc = strings.Join(metas, ", ")
		}
		d.Rows = append(d.Rows, []string{f.Name, strconv.Itoa(len(f.Metas)), mark, desc})
	}
	return d
}

// ReportData lays a verification report out as a table.
func ReportData(report *verify.Report) Data {
	d := Data{
		Title:           "Verification report",
		Headers:         []string{"", "ID", "Status", "Last Modified", "Error"},
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
	for _, res := range report.Results {
		modified := ""
		if !res.LastModified.IsZero() {
			modified = res.LastModified.UTC().Format("2006-01-02")
		}
		d.Rows = append(d.Rows, []string{StatusSymbol(res.Status), res.ID, res.Status.String(), modified, res.Error})
	}
	return d
}

// StatusSymbol maps a verification status to its CLI symbol.
func StatusSymbol(s verify.Status) string {
	switch s {
	case verify.OK:
		return emoji.Success
	case verify.Missing:
		return emoji.Error
	case verify.Error:
		return emoji.Warning
	default:
		return emoji.Unknown
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func sizeLabel(size string) string {
	if size == "" {
		return "-"
	}
	return size + "B"
}
