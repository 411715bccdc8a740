// Package models builds the CycleGAN network architectures as compiled
// layer specifications: a ResNet-style generator, an EfficientNet-based
// generator, and a PatchGAN discriminator. The builders are pure functions
// from configuration to model graph; training, losses and data handling are
// the caller's concern.
package models

import (
	"fmt"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

// ResNetGeneratorConfig configures the encoder-bottleneck-decoder generator.
// Zero values select the reference architecture: 64 base filters, 2
// downsampling blocks, 5 residual blocks, 2 upsampling blocks on 256x256
// RGB input.
type ResNetGeneratorConfig struct {
	BatchSize        int
	InputSize        int
	Filters          int
	DownsampleBlocks int
	ResidualBlocks   int
	UpsampleBlocks   int
	Name             string
}

func (cfg *ResNetGeneratorConfig) applyDefaults() {
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
		cfg.DownsampleBlocks = 2
	}
	if cfg.ResidualBlocks == 0 {
		cfg.ResidualBlocks = 5
	}
	if cfg.UpsampleBlocks == 0 {
		cfg.UpsampleBlocks = 2
	}
	if cfg.Name == "" {
		cfg.Name = "generator"
	}
}

// ResNetGenerator builds the ResNet-style image-to-image generator:
// reflect-pad and 7x7 convolution in, strided downsampling, a residual
// bottleneck, transposed-convolution upsampling, then reflect-pad, a 7x7
// convolution back to 3 channels and tanh. Output shape equals input shape
// and values lie in [-1, 1].
func ResNetGenerator(cfg ResNetGeneratorConfig) (*layers.ModelSpec, error) {
	cfg.applyDefaults()

	inputShape := []int{cfg.BatchSize, 3, cfg.InputSize, cfg.InputSize}
	builder := layers.NewModelBuilder(inputShape)

	name := cfg.Name
	builder.AddReflectionPad2D(3, 3, name+"_pad_in").
		AddConv2D(cfg.Filters, 7, 1, 0, false, name+"_conv_in").
		AddInstanceNorm(name + "_norm_in").
		AddReLU(name + "_relu_in")

	filters := cfg.Filters
	for i := 0; i < cfg.DownsampleBlocks; i++ {
		filters *= 2
		builder.AddDownsample(filters, 3, 2, 1, layers.ActivationReLU,
			fmt.Sprintf("%s_down_%d", name, i+1))
	}

	for i := 0; i < cfg.ResidualBlocks; i++ {
		builder.AddResidualBlock(filters, fmt.Sprintf("%s_res_%d", name, i+1))
	}

	for i := 0; i < cfg.UpsampleBlocks; i++ {
		filters /= 2
		builder.AddUpsample(filters, 3, 2, layers.ActivationReLU,
			fmt.Sprintf("%s_up_%d", name, i+1))
	}

	builder.AddReflectionPad2D(3, 3, name+"_pad_out").
		AddConv2D(3, 7, 1, 0, true, name+"_conv_out").
		AddTanh(name + "_tanh")

	model, err := builder.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %v", name, err)
	}

	// The decoder must undo the encoder exactly; mismatched block counts or
	// an input size the strides cannot divide evenly both land here.
	if !sameShape(model.OutputShape, inputShape) {
		return nil, fmt.Errorf("%s maps %v to %v; generator must preserve input shape",
			name, inputShape, model.OutputShape)
	}

	return model, nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
