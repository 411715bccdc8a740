package models

import (
	"fmt"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

// PatchDiscriminatorConfig configures the PatchGAN discriminator. Zero
// values select the reference architecture: 64 base filters and 3
// downsampling stages on 256x256 RGB input.
type PatchDiscriminatorConfig struct {
	BatchSize        int
	InputSize        int
	Filters          int
	DownsampleBlocks int
	Name             string
}

func (cfg *PatchDiscriminatorConfig) applyDefaults() {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1
	}
	if cfg.InputSize == 0 {
		cfg.InputSize = 256
	}
	if cfg.Filters == 0 {
		cfg.Filters = 64
	}
	if cfg.DownsampleBlocks == 0 {
		cfg.DownsampleBlocks = 3
	}
	if cfg.Name == "" {
		cfg.Name = "discriminator"
	}
}

// PatchDiscriminator builds the PatchGAN discriminator: a 4x4 stride-2
// convolution with LeakyReLU, then downsampling stages whose channel count
// doubles each time (all stride 2 except the last, which is stride 1), and
// a final 4x4 stride-1 convolution to a single channel. The output is a
// spatial map of per-patch real/fake logits; no activation is applied.
func PatchDiscriminator(cfg PatchDiscriminatorConfig) (*layers.ModelSpec, error) {
	cfg.applyDefaults()

	inputShape := []int{cfg.BatchSize, 3, cfg.InputSize, cfg.InputSize}
	builder := layers.NewModelBuilder(inputShape)

	name := cfg.Name
	builder.AddConv2D(cfg.Filters, 4, 2, 1, true, name+"_conv_in").
		AddLeakyReLU(0.2, name+"_lrelu_in")

	filters := cfg.Filters
	for i := 0; i < cfg.DownsampleBlocks; i++ {
		filters *= 2
		stride := 2
		if i == cfg.DownsampleBlocks-1 {
			stride = 1
		}
		builder.AddDownsample(filters, 4, stride, 1, layers.ActivationLeakyReLU,
			fmt.Sprintf("%s_down_%d", name, i+1))
	}

	builder.AddConv2D(1, 4, 1, 1, true, name+"_conv_out")

	model, err := builder.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %v", name, err)
	}

	out := model.OutputShape
	if out[1] != 1 || out[2] >= cfg.InputSize || out[3] >= cfg.InputSize {
		return nil, fmt.Errorf("%s produced patch map %v; expected single-channel map smaller than input",
			name, out)
	}

	return model, nil
}
