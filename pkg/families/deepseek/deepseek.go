// Package deepseek declares the DeepSeek model families and registers them.
package deepseek

import (
	"context"
	"strings"

	"github.com/agentstation/modelreg/pkg/hub"
	"github.com/agentstation/modelreg/pkg/naming"
	"github.com/agentstation/modelreg/pkg/quant"
	"github.com/agentstation/modelreg/pkg/registry"
)

// Family names used for the registration guard.
const (
	FamilyV3 = "deepseek-v3"
	FamilyR1 = "deepseek-r1"
)

// Org is the releasing organization on the hub.
const Org = "deepseek-ai"

// DistillPrefix precedes the distilled base model in distill identifiers.
const DistillPrefix = "DeepSeek-R1-Distill-"

var (
	// V3 is DeepSeek-V3.
	V3 = registry.ModelMeta{
		Org:      Org,
		BaseName: "DeepSeek",
		Version:  "3",
		Family:   naming.FamilyDeepSeekV3,
		Quants:   registry.Uniform(quant.None, quant.BF16),
	}

	// V3_0324 is the March 2025 revision of DeepSeek-V3.
	V3_0324 = registry.ModelMeta{
		Org:      Org,
		BaseName: "DeepSeek",
		Version:  "3-0324",
		Family:   naming.FamilyDeepSeekV3,
		Quants:   registry.Uniform(quant.None, quant.GGUF),
	}

	// R1 is DeepSeek-R1.
	R1 = registry.ModelMeta{
		Org:      Org,
		BaseName: "DeepSeek-R1",
		Family:   naming.FamilyDeepSeekR1,
		Quants:   registry.Uniform(quant.None, quant.BF16, quant.GGUF),
	}

	// R1Zero is DeepSeek-R1-Zero.
	R1Zero = registry.ModelMeta{
		Org:      Org,
		BaseName: "DeepSeek-R1",
		Version:  "Zero",
		Family:   naming.FamilyDeepSeekR1,
		Quants:   registry.Uniform(quant.None, quant.GGUF),
	}

	// R1DistillLlama are the R1 distillations into Llama.
	R1DistillLlama = registry.ModelMeta{
		Org:      Org,
		BaseName: "DeepSeek-R1-Distill",
		Version:  "Llama",
		Sizes:    []string{"8", "70"},
		Family:   naming.FamilyDeepSeekR1,
		Quants: registry.PerSize(map[string][]quant.Type{
			"8":  {quant.Unsloth, quant.GGUF},
			"70": {quant.GGUF},
		}),
	}

	// R1DistillQwen are the R1 distillations into Qwen.
	R1DistillQwen = registry.ModelMeta{
		Org:      Org,
		BaseName: "DeepSeek-R1-Distill",
		Version:  "Qwen",
		Sizes:    []string{"1.5", "7", "14", "32"},
		Family:   naming.FamilyDeepSeekR1,
		Quants: registry.PerSize(map[string][]quant.Type{
			"1.5": {quant.Unsloth, quant.GGUF},
			"7":   {quant.Unsloth},
			"14":  {quant.Unsloth, quant.GGUF},
			"32":  {quant.GGUF, quant.BNB},
		}),
	}
)

// V3Metas returns the metas registered by RegisterV3.
func V3Metas() []registry.ModelMeta {
	return []registry.ModelMeta{V3, V3_0324}
}

// R1Metas returns the metas registered by RegisterR1.
func R1Metas() []registry.ModelMeta {
	return []registry.ModelMeta{R1, R1Zero, R1DistillLlama, R1DistillQwen}
}

// RegisterV3 registers DeepSeek-V3 and its revisions. Repeated calls are no-ops.
func RegisterV3(r *registry.Registry, includeOriginal bool) error {
	return r.RegisterFamily(FamilyV3, includeOriginal, V3Metas()...)
}

// RegisterR1 registers DeepSeek-R1, R1-Zero and the R1 distillations.
// Repeated calls are no-ops.
func RegisterR1(r *registry.Registry, includeOriginal bool) error {
	return r.RegisterFamily(FamilyR1, includeOriginal, R1Metas()...)
}

// Lister lists models on a hub.
type Lister interface {
	ListModels(ctx context.Context, author, search string) ([]hub.ModelSummary, error)
}

// ListDistillVersions lists the distill repositories the publisher has
// uploaded and returns the part of each name after DistillPrefix, such as
// "Qwen-14B-GGUF".
func ListDistillVersions(ctx context.Context, lister Lister, publisher string) ([]string, error) {
	models, err := lister.ListModels(ctx, publisher, "Distill")
	if err != nil {
		return nil, err
	}

	versions := make([]string, 0, len(models))
	for _, m := range models {
		name := m.ID[strings.LastIndex(m.ID, "/")+1:]
		if v, ok := strings.CutPrefix(name, DistillPrefix); ok {
			versions = append(versions, v)
		}
	}
	return versions, nil
}
