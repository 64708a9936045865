package registry

import (
	"fmt"

	"github.com/agentstation/modelreg/pkg/errors"
	"github.com/agentstation/modelreg/pkg/naming"
	"github.com/agentstation/modelreg/pkg/quant"
)

// Expand computes every variant of meta without registering anything.
// Quantized variants (and the unquantized re-upload) are published under
// publisher; with includeOriginal, one upstream entry per (size, instruct
// tag) is added under meta.Org. Order: sizes, then instruct tags, then
// quantization types, with the upstream entry last for each tag.
func Expand(meta ModelMeta, publisher string, includeOriginal bool) ([]ModelInfo, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	strategy, _ := naming.Lookup(meta.Family)

	sizes := meta.SizeList()
	quants := make([][]quant.Type, len(sizes))
	for i, size := range sizes {
		types, ok := meta.Quants.For(size)
		if !ok {
			return nil, errors.NewConfigError(meta.String(),
				fmt.Sprintf("size %q has no quantization types", size),
				fmt.Errorf("%w %q", ErrMissingQuantTypes, size))
		}
		quants[i] = types
	}

	tags := meta.InstructTagList()
	infos := make([]ModelInfo, 0, len(sizes)*len(tags)*2)
	build := func(org, size, tag string, q quant.Type, original bool) ModelInfo {
		return ModelInfo{
			Org:         org,
			Name:        strategy(meta.BaseName, meta.Version, size, q, tag),
			BaseName:    meta.BaseName,
			Version:     meta.Version,
			Size:        size,
			InstructTag: tag,
			Quant:       q,
			Family:      meta.Family,
			Multimodal:  meta.Multimodal,
			Original:    original,
		}
	}

	for i, size := range sizes {
		for _, tag := range tags {
			for _, q := range quants[i] {
				infos = append(infos, build(publisher, size, tag, q, false))
			}
			if includeOriginal {
				infos = append(infos, build(meta.Org, size, tag, quant.None, true))
			}
		}
	}
	return infos, nil
}
