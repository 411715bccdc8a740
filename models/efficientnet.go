package models

import (
	"fmt"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

// mbconvStage describes one stage of the EfficientNet encoder
type mbconvStage struct {
	expansion int
	kernel    int
	stride    int
	channels  int
	repeats   int
}

// EfficientNet-B3 stage table, stem through the stride-32 stage. The
// classifier head and the final 384-channel stage are beyond the
// truncation point and never built.
var efficientNetB3Stages = []mbconvStage{
	{expansion: 1, kernel: 3, stride: 1, channels: 24, repeats: 2},
	{expansion: 6, kernel: 3, stride: 2, channels: 32, repeats: 3},
	{expansion: 6, kernel: 5, stride: 2, channels: 48, repeats: 3},
	{expansion: 6, kernel: 3, stride: 2, channels: 96, repeats: 5},
	{expansion: 6, kernel: 5, stride: 1, channels: 136, repeats: 5},
	{expansion: 6, kernel: 5, stride: 2, channels: 232, repeats: 6},
}

const efficientNetStemFilters = 40

// decoder stages appended after the truncated encoder: transposed
// convolution, 2x2 stride-1 max pool, instance norm
var efficientNetDecoderStages = []struct {
	filters int
	kernel  int
	stride  int
}{
	{filters: 640, kernel: 2, stride: 2},
	{filters: 160, kernel: 4, stride: 4},
	{filters: 40, kernel: 2, stride: 2},
	{filters: 3, kernel: 2, stride: 2},
}

// EfficientNetGeneratorConfig configures the EfficientNet-based generator.
// Weights selects the encoder weights: "imagenet" (the default) resolves a
// pretrained checkpoint from EFFICIENTNET_WEIGHTS or the user cache
// directory and fails hard when none is found, "none" draws fresh random
// weights, and any other value is used as a checkpoint path directly.
type EfficientNetGeneratorConfig struct {
	BatchSize     int
	InputSize     int
	Weights       string
	BoundedOutput bool
	Seed          uint64
	Name          string
}

func (cfg *EfficientNetGeneratorConfig) applyDefaults() {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 1
	}
	if cfg.InputSize == 0 {
		cfg.InputSize = 256
	}
	if cfg.Weights == "" {
		cfg.Weights = "imagenet"
	}
	if cfg.Name == "" {
		cfg.Name = "efficientnet_generator"
	}
}

// addEfficientNetEncoder appends the truncated EfficientNet-B3 feature
// extractor. Layer names are canonical (no model-name prefix) so that
// pretrained checkpoints match any generator instance. Returns the channel
// count at the truncation point.
func addEfficientNetEncoder(builder *layers.ModelBuilder) int {
	builder.AddConv2D(efficientNetStemFilters, 3, 2, 1, false, "stem_conv").
		AddBatchNorm(1e-3, 0.01, "stem_bn").
		AddSiLU("stem_act")

	channels := efficientNetStemFilters
	for si, stage := range efficientNetB3Stages {
		for r := 0; r < stage.repeats; r++ {
			stride := 1
			if r == 0 {
				stride = stage.stride
			}
			builder.AddMBConv(channels, stage.channels, stage.expansion, stage.kernel, stride,
				4*stage.expansion, fmt.Sprintf("block%d_%d", si+1, r+1))
			channels = stage.channels
		}
	}

	return channels
}

// EfficientNetGenerator builds a generator that reuses a pretrained
// EfficientNet-B3 classification backbone as its encoder, truncated after
// the stride-32 stage, with a hand-built transposed-convolution decoder
// restoring spatial resolution down to 3 channels.
//
// The decoder's valid-padding transposed convolutions and stride-1 pools do
// not land back on the input size: a 256x256 input comes out 233x233. The
// reference model also applies no bounding activation, so pixel values are
// unbounded unless BoundedOutput appends a tanh.
//
// Returns the compiled graph and its full parameter set: encoder tensors
// from the pretrained checkpoint, decoder tensors freshly initialized.
func EfficientNetGenerator(cfg EfficientNetGeneratorConfig) (*layers.ModelSpec, []layers.ParameterTensor, error) {
	cfg.applyDefaults()

	inputShape := []int{cfg.BatchSize, 3, cfg.InputSize, cfg.InputSize}
	builder := layers.NewModelBuilder(inputShape)

	addEfficientNetEncoder(builder)

	for i, stage := range efficientNetDecoderStages {
		prefix := fmt.Sprintf("up%d", i+1)
		builder.AddConv2DTranspose(stage.filters, stage.kernel, stage.stride, false, false, prefix+"_deconv").
			AddMaxPool2D(2, 1, prefix+"_pool").
			AddInstanceNorm(prefix + "_norm")
	}

	if cfg.BoundedOutput {
		builder.AddTanh("tanh_out")
	}

	model, err := builder.Compile()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile %s: %v", cfg.Name, err)
	}

	params, err := model.InitializeParameters(cfg.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s parameters: %v", cfg.Name, err)
	}

	if cfg.Weights == "none" {
		return model, params, nil
	}

	params, err = loadEncoderWeights(cfg.Weights, params)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %v", cfg.Name, err)
	}

	return model, params, nil
}
