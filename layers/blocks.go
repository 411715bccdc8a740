package layers

import "fmt"

// BlockActivation selects the optional activation appended by the block
// helpers below.
type BlockActivation int

const (
	ActivationNone BlockActivation = iota
	ActivationReLU
	ActivationLeakyReLU
	ActivationSiLU
)

// leakySlope is the negative slope used wherever a block asks for LeakyReLU.
const leakySlope float32 = 0.2

func (mb *ModelBuilder) addBlockActivation(act BlockActivation, name string) *ModelBuilder {
	switch act {
	case ActivationReLU:
		return mb.AddReLU(name)
	case ActivationLeakyReLU:
		return mb.AddLeakyReLU(leakySlope, name)
	case ActivationSiLU:
		return mb.AddSiLU(name)
	default:
		return mb
	}
}

// AddResidualBlock adds the generator residual block: reflect-pad, 3x3
// convolution, instance norm, ReLU, reflect-pad, 3x3 convolution, instance
// norm, plus the identity skip. Channel count and spatial shape are
// preserved; dim must equal the incoming channel count.
func (mb *ModelBuilder) AddResidualBlock(dim int, name string) *ModelBuilder {
	pad := 1 // matches the 3x3 valid convolutions inside the body
	return mb.AddResidual(name, func(b *ModelBuilder) {
		b.AddReflectionPad2D(pad, pad, name+"_pad1").
			AddConv2D(dim, 3, 1, 0, false, name+"_conv1").
			AddInstanceNorm(name + "_norm1").
			AddReLU(name + "_relu").
			AddReflectionPad2D(pad, pad, name+"_pad2").
			AddConv2D(dim, 3, 1, 0, false, name+"_conv2").
			AddInstanceNorm(name + "_norm2")
	})
}

// AddDownsample adds a strided convolution followed by instance norm and an
// optional activation. With the default kernel 3 / stride 2 / padding 1 it
// halves the spatial resolution and sets the channel count to filters.
func (mb *ModelBuilder) AddDownsample(
	filters, kernelSize, stride, padding int,
	act BlockActivation, name string,
) *ModelBuilder {
	mb.AddConv2D(filters, kernelSize, stride, padding, false, name+"_conv").
		AddInstanceNorm(name + "_norm")
	return mb.addBlockActivation(act, name+"_act")
}

// AddUpsample adds a stride-2 transposed convolution ("same" output rule)
// followed by instance norm and an optional activation; doubles the spatial
// resolution.
func (mb *ModelBuilder) AddUpsample(
	filters, kernelSize, stride int,
	act BlockActivation, name string,
) *ModelBuilder {
	mb.AddConv2DTranspose(filters, kernelSize, stride, true, false, name+"_deconv").
		AddInstanceNorm(name + "_norm")
	return mb.addBlockActivation(act, name+"_act")
}

// AddMBConv adds a mobile inverted bottleneck block (the EfficientNet
// building block): 1x1 expansion, depthwise convolution, squeeze-excite,
// 1x1 projection, batch norm after each convolution, SiLU on all but the
// projection. When stride is 1 and the channel count is unchanged the block
// is wrapped in an identity skip.
func (mb *ModelBuilder) AddMBConv(
	inputChannels, outputChannels, expansion, kernelSize, stride, seRatio int,
	name string,
) *ModelBuilder {
	body := func(b *ModelBuilder) {
		expanded := inputChannels * expansion
		if expansion > 1 {
			b.AddConv2D(expanded, 1, 1, 0, false, name+"_expand").
				AddBatchNorm(1e-3, 0.01, name+"_expand_bn").
				AddSiLU(name + "_expand_act")
		}
		b.AddDepthwiseConv2D(kernelSize, stride, (kernelSize-1)/2, false, name+"_dw").
			AddBatchNorm(1e-3, 0.01, name+"_dw_bn").
			AddSiLU(name + "_dw_act").
			AddSqueezeExcite(seRatio, name+"_se").
			AddConv2D(outputChannels, 1, 1, 0, false, name+"_project").
			AddBatchNorm(1e-3, 0.01, name+"_project_bn")
	}

	if stride == 1 && inputChannels == outputChannels {
		return mb.AddResidual(name, body)
	}
	body(mb)
	return mb
}

// FindLayer returns the first layer with the given name, searching residual
// bodies depth-first.
func (ms *ModelSpec) FindLayer(name string) (*LayerSpec, error) {
	if found := findLayer(ms.Layers, name); found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("no layer named %q", name)
}

func findLayer(specs []LayerSpec, name string) *LayerSpec {
	for i := range specs {
		if specs[i].Name == name {
			return &specs[i]
		}
		if len(specs[i].Body) > 0 {
			if found := findLayer(specs[i].Body, name); found != nil {
				return found
			}
		}
	}
	return nil
}
