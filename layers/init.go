package layers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ParameterTensor holds one initialized model parameter.
type ParameterTensor struct {
	Name  string    `json:"name"`
	Layer string    `json:"layer"`
	Role  string    `json:"role"` // "weight", "bias", "gamma", "beta"
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

// InitializeParameters creates initialized tensors for every parameter of a
// compiled model. Convolution weights draw from a Glorot-uniform
// distribution, biases and shift terms start at zero, normalization scales
// at one. The draw sequence is deterministic for a given seed.
func (ms *ModelSpec) InitializeParameters(seed uint64) ([]ParameterTensor, error) {
	if !ms.Compiled {
		return nil, fmt.Errorf("model not compiled")
	}

	src := rand.NewSource(seed)
	return initializeLayers(ms.Layers, src)
}

func initializeLayers(specs []LayerSpec, src rand.Source) ([]ParameterTensor, error) {
	var tensors []ParameterTensor

	for i := range specs {
		layer := &specs[i]

		switch layer.Type {
		case Residual:
			inner, err := initializeLayers(layer.Body, src)
			if err != nil {
				return nil, fmt.Errorf("residual %s: %v", layer.Name, err)
			}
			tensors = append(tensors, inner...)

		case Conv2D, Conv2DTranspose, DepthwiseConv2D:
			conv, err := initializeConv(layer, src)
			if err != nil {
				return nil, err
			}
			tensors = append(tensors, conv...)

		case InstanceNorm, BatchNorm:
			channels := layer.InputShape[1]
			tensors = append(tensors,
				constantTensor(layer.Name, "gamma", []int{channels}, 1),
				constantTensor(layer.Name, "beta", []int{channels}, 0),
			)

		case SqueezeExcite:
			se, err := initializeSqueezeExcite(layer, src)
			if err != nil {
				return nil, err
			}
			tensors = append(tensors, se...)
		}
	}

	return tensors, nil
}

func initializeConv(layer *LayerSpec, src rand.Source) ([]ParameterTensor, error) {
	if len(layer.ParameterShapes) == 0 {
		return nil, fmt.Errorf("layer %s has no parameter shapes; model not compiled", layer.Name)
	}

	kernelSize := getIntParam(layer.Parameters, "kernel_size", 0)
	inputChannels := getIntParam(layer.Parameters, "input_channels", 0)
	outputChannels := getIntParam(layer.Parameters, "output_channels", inputChannels)
	if layer.Type == DepthwiseConv2D {
		// One filter per channel; fan counts see only the kernel window.
		inputChannels = 1
		outputChannels = 1
	}

	fanIn := float64(inputChannels * kernelSize * kernelSize)
	fanOut := float64(outputChannels * kernelSize * kernelSize)

	weightShape := layer.ParameterShapes[0]
	tensors := []ParameterTensor{
		glorotTensor(layer.Name, "weight", weightShape, fanIn, fanOut, src),
	}

	if getBoolParam(layer.Parameters, "use_bias", true) && len(layer.ParameterShapes) > 1 {
		tensors = append(tensors, constantTensor(layer.Name, "bias", layer.ParameterShapes[1], 0))
	}

	return tensors, nil
}

func initializeSqueezeExcite(layer *LayerSpec, src rand.Source) ([]ParameterTensor, error) {
	if len(layer.ParameterShapes) != 4 {
		return nil, fmt.Errorf("layer %s has no parameter shapes; model not compiled", layer.Name)
	}

	channels := layer.InputShape[1]
	reduced := getIntParam(layer.Parameters, "reduced_channels", 1)

	return []ParameterTensor{
		glorotTensor(layer.Name, "reduce_weight", layer.ParameterShapes[0], float64(channels), float64(reduced), src),
		constantTensor(layer.Name, "reduce_bias", layer.ParameterShapes[1], 0),
		glorotTensor(layer.Name, "expand_weight", layer.ParameterShapes[2], float64(reduced), float64(channels), src),
		constantTensor(layer.Name, "expand_bias", layer.ParameterShapes[3], 0),
	}, nil
}

func glorotTensor(layer, role string, shape []int, fanIn, fanOut float64, src rand.Source) ParameterTensor {
	limit := math.Sqrt(6.0 / (fanIn + fanOut))
	dist := distuv.Uniform{
		Min: -limit,
		Max: limit,
		Src: src,
	}

	data := make([]float32, numElements(shape))
	for i := range data {
		data[i] = float32(dist.Rand())
	}

	return ParameterTensor{
		Name:  layer + "." + role,
		Layer: layer,
		Role:  role,
		Shape: shape,
		Data:  data,
	}
}

func constantTensor(layer, role string, shape []int, value float32) ParameterTensor {
	data := make([]float32, numElements(shape))
	if value != 0 {
		for i := range data {
			data[i] = value
		}
	}

	return ParameterTensor{
		Name:  layer + "." + role,
		Layer: layer,
		Role:  role,
		Shape: shape,
		Data:  data,
	}
}

func numElements(shape []int) int {
	n := 1
	for _, dim := range shape {
		n *= dim
	}
	return n
}
