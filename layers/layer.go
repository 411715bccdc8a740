package layers

import (
	"fmt"
)

// LayerType represents the type of neural network layer
type LayerType int

const (
	Conv2D LayerType = iota
	Conv2DTranspose
	DepthwiseConv2D
	ReflectionPad2D
	InstanceNorm
	MaxPool2D
	SqueezeExcite
	Residual
	BatchNorm
	ReLU
	LeakyReLU
	SiLU
	Tanh
	Sigmoid
)

func (lt LayerType) String() string {
	switch lt {
	case Conv2D:
		return "Conv2D"
	case Conv2DTranspose:
		return "Conv2DTranspose"
	case DepthwiseConv2D:
		return "DepthwiseConv2D"
	case ReflectionPad2D:
		return "ReflectionPad2D"
	case InstanceNorm:
		return "InstanceNorm"
	case MaxPool2D:
		return "MaxPool2D"
	case SqueezeExcite:
		return "SqueezeExcite"
	case Residual:
		return "Residual"
	case BatchNorm:
		return "BatchNorm"
	case ReLU:
		return "ReLU"
	case LeakyReLU:
		return "LeakyReLU"
	case SiLU:
		return "SiLU"
	case Tanh:
		return "Tanh"
	case Sigmoid:
		return "Sigmoid"
	default:
		return "Unknown"
	}
}

// LayerSpec defines layer configuration for graph construction.
// This is pure configuration - no execution logic.
type LayerSpec struct {
	Type       LayerType              `json:"type"`
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`

	// Body holds the nested layer sequence of a Residual layer. The body
	// output is added back to the block input, so the body must preserve
	// shape. Empty for every other layer type.
	Body []LayerSpec `json:"body,omitempty"`

	// Shape information (computed during model compilation)
	InputShape  []int `json:"input_shape,omitempty"`
	OutputShape []int `json:"output_shape,omitempty"`

	// Parameter metadata (computed during model compilation)
	ParameterShapes [][]int `json:"parameter_shapes,omitempty"`
	ParameterCount  int64   `json:"parameter_count,omitempty"`
}

// ModelSpec defines a complete neural network model as layer configuration.
// Shapes follow the NCHW convention: [batch, channels, height, width].
type ModelSpec struct {
	Layers []LayerSpec `json:"layers"`

	// Compiled model information
	TotalParameters int64   `json:"total_parameters"`
	ParameterShapes [][]int `json:"parameter_shapes"`
	InputShape      []int   `json:"input_shape"`
	OutputShape     []int   `json:"output_shape"`
	Compiled        bool    `json:"compiled"`
}

// ModelBuilder helps construct neural network models
type ModelBuilder struct {
	layers     []LayerSpec
	inputShape []int
	compiled   bool
}

// NewModelBuilder creates a new model builder
func NewModelBuilder(inputShape []int) *ModelBuilder {
	return &ModelBuilder{
		layers:     make([]LayerSpec, 0),
		inputShape: inputShape,
		compiled:   false,
	}
}

// AddLayer adds a layer to the model
func (mb *ModelBuilder) AddLayer(layer LayerSpec) *ModelBuilder {
	mb.layers = append(mb.layers, layer)
	mb.compiled = false // Invalidate compilation
	return mb
}

// AddConv2D adds a Conv2D layer to the model.
// Input channels are inferred during compilation.
func (mb *ModelBuilder) AddConv2D(
	outputChannels, kernelSize, stride, padding int,
	useBias bool, name string,
) *ModelBuilder {
	layer := LayerSpec{
		Type: Conv2D,
		Name: name,
		Parameters: map[string]interface{}{
			"output_channels": outputChannels,
			"kernel_size":     kernelSize,
			"stride":          stride,
			"padding":         padding,
			"use_bias":        useBias,
		},
	}
	return mb.AddLayer(layer)
}

// AddConv2DTranspose adds a transposed convolution to the model.
// With samePadding the output spatial size is input*stride (the "same"
// rule); otherwise it is (input-1)*stride + kernelSize.
func (mb *ModelBuilder) AddConv2DTranspose(
	outputChannels, kernelSize, stride int,
	samePadding, useBias bool, name string,
) *ModelBuilder {
	layer := LayerSpec{
		Type: Conv2DTranspose,
		Name: name,
		Parameters: map[string]interface{}{
			"output_channels": outputChannels,
			"kernel_size":     kernelSize,
			"stride":          stride,
			"same_padding":    samePadding,
			"use_bias":        useBias,
		},
	}
	return mb.AddLayer(layer)
}

// AddDepthwiseConv2D adds a depthwise convolution (one filter per input
// channel, channel count preserved).
func (mb *ModelBuilder) AddDepthwiseConv2D(
	kernelSize, stride, padding int,
	useBias bool, name string,
) *ModelBuilder {
	layer := LayerSpec{
		Type: DepthwiseConv2D,
		Name: name,
		Parameters: map[string]interface{}{
			"kernel_size": kernelSize,
			"stride":      stride,
			"padding":     padding,
			"use_bias":    useBias,
		},
	}
	return mb.AddLayer(layer)
}

// AddReflectionPad2D adds reflect-mode spatial padding. Height grows by
// 2*padHeight and width by 2*padWidth; border pixels are mirrored rather
// than zero-filled. No trainable parameters.
func (mb *ModelBuilder) AddReflectionPad2D(padHeight, padWidth int, name string) *ModelBuilder {
	layer := LayerSpec{
		Type: ReflectionPad2D,
		Name: name,
		Parameters: map[string]interface{}{
			"pad_height": padHeight,
			"pad_width":  padWidth,
		},
	}
	return mb.AddLayer(layer)
}

// AddInstanceNorm adds an instance normalization layer (per-sample,
// per-channel). Feature count is inferred from the channel dimension during
// compilation; learnable scale and shift are always present.
func (mb *ModelBuilder) AddInstanceNorm(name string) *ModelBuilder {
	layer := LayerSpec{
		Type: InstanceNorm,
		Name: name,
		Parameters: map[string]interface{}{
			"eps": float32(1e-5),
		},
	}
	return mb.AddLayer(layer)
}

// AddBatchNorm adds a batch normalization layer. Feature count is inferred
// from the channel dimension during compilation.
// eps: small value added for numerical stability
// momentum: momentum for running statistics update
func (mb *ModelBuilder) AddBatchNorm(eps, momentum float32, name string) *ModelBuilder {
	layer := LayerSpec{
		Type: BatchNorm,
		Name: name,
		Parameters: map[string]interface{}{
			"eps":      eps,
			"momentum": momentum,
		},
	}
	return mb.AddLayer(layer)
}

// AddMaxPool2D adds a max pooling layer (valid padding).
func (mb *ModelBuilder) AddMaxPool2D(poolSize, stride int, name string) *ModelBuilder {
	layer := LayerSpec{
		Type: MaxPool2D,
		Name: name,
		Parameters: map[string]interface{}{
			"pool_size": poolSize,
			"stride":    stride,
		},
	}
	return mb.AddLayer(layer)
}

// AddSqueezeExcite adds a squeeze-and-excitation gate: global average pool,
// 1x1 reduction to channels/ratio, SiLU, 1x1 expansion back, sigmoid scale.
// Shape is preserved.
func (mb *ModelBuilder) AddSqueezeExcite(ratio int, name string) *ModelBuilder {
	layer := LayerSpec{
		Type: SqueezeExcite,
		Name: name,
		Parameters: map[string]interface{}{
			"ratio": ratio,
		},
	}
	return mb.AddLayer(layer)
}

// AddResidual adds an identity skip connection around the layers built by
// body. Compilation verifies that the body preserves shape, since its output
// is added element-wise to the block input.
func (mb *ModelBuilder) AddResidual(name string, body func(*ModelBuilder)) *ModelBuilder {
	sub := NewModelBuilder(nil)
	body(sub)
	layer := LayerSpec{
		Type:       Residual,
		Name:       name,
		Parameters: map[string]interface{}{},
		Body:       sub.layers,
	}
	return mb.AddLayer(layer)
}

// AddReLU adds a ReLU activation to the model
func (mb *ModelBuilder) AddReLU(name string) *ModelBuilder {
	layer := LayerSpec{
		Type:       ReLU,
		Name:       name,
		Parameters: map[string]interface{}{},
	}
	return mb.AddLayer(layer)
}

// AddLeakyReLU adds a Leaky ReLU activation to the model
// negativeSlope: slope for negative input values
func (mb *ModelBuilder) AddLeakyReLU(negativeSlope float32, name string) *ModelBuilder {
	layer := LayerSpec{
		Type: LeakyReLU,
		Name: name,
		Parameters: map[string]interface{}{
			"negative_slope": negativeSlope,
		},
	}
	return mb.AddLayer(layer)
}

// AddSiLU adds a SiLU (swish) activation to the model
func (mb *ModelBuilder) AddSiLU(name string) *ModelBuilder {
	layer := LayerSpec{
		Type:       SiLU,
		Name:       name,
		Parameters: map[string]interface{}{},
	}
	return mb.AddLayer(layer)
}

// AddTanh adds a Tanh activation to the model
func (mb *ModelBuilder) AddTanh(name string) *ModelBuilder {
	layer := LayerSpec{
		Type:       Tanh,
		Name:       name,
		Parameters: map[string]interface{}{},
	}
	return mb.AddLayer(layer)
}

// AddSigmoid adds a Sigmoid activation to the model
func (mb *ModelBuilder) AddSigmoid(name string) *ModelBuilder {
	layer := LayerSpec{
		Type:       Sigmoid,
		Name:       name,
		Parameters: map[string]interface{}{},
	}
	return mb.AddLayer(layer)
}

// Compile compiles the model and computes shapes and parameter counts
func (mb *ModelBuilder) Compile() (*ModelSpec, error) {
	if len(mb.layers) == 0 {
		return nil, fmt.Errorf("cannot compile empty model")
	}
	if len(mb.inputShape) != 4 {
		return nil, fmt.Errorf("model requires 4D input shape [batch, channels, height, width], got %v", mb.inputShape)
	}

	model := &ModelSpec{
		Layers:     make([]LayerSpec, len(mb.layers)),
		InputShape: mb.inputShape,
		Compiled:   false,
	}

	copy(model.Layers, mb.layers)

	currentShape := mb.inputShape
	var allParameterShapes [][]int
	totalParams := int64(0)

	for i := range model.Layers {
		layer := &model.Layers[i]

		layer.InputShape = make([]int, len(currentShape))
		copy(layer.InputShape, currentShape)

		outputShape, paramShapes, paramCount, err := computeLayerInfo(layer, currentShape)
		if err != nil {
			return nil, fmt.Errorf("failed to compute layer %d (%s) info: %v", i, layer.Name, err)
		}

		layer.OutputShape = outputShape
		layer.ParameterShapes = paramShapes
		layer.ParameterCount = paramCount

		allParameterShapes = append(allParameterShapes, paramShapes...)
		totalParams += paramCount

		currentShape = outputShape
	}

	model.OutputShape = currentShape
	model.ParameterShapes = allParameterShapes
	model.TotalParameters = totalParams
	model.Compiled = true
	mb.compiled = true

	return model, nil
}

// computeLayerInfo computes output shape and parameter information for a layer
func computeLayerInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	switch layer.Type {
	case Conv2D:
		return computeConv2DInfo(layer, inputShape)
	case Conv2DTranspose:
		return computeConv2DTransposeInfo(layer, inputShape)
	case DepthwiseConv2D:
		return computeDepthwiseConv2DInfo(layer, inputShape)
	case ReflectionPad2D:
		return computeReflectionPad2DInfo(layer, inputShape)
	case InstanceNorm, BatchNorm:
		return computeNormInfo(layer, inputShape)
	case MaxPool2D:
		return computeMaxPool2DInfo(layer, inputShape)
	case SqueezeExcite:
		return computeSqueezeExciteInfo(layer, inputShape)
	case Residual:
		return computeResidualInfo(layer, inputShape)
	case ReLU, LeakyReLU, SiLU, Tanh, Sigmoid:
		return computeActivationInfo(layer, inputShape)
	default:
		return nil, nil, 0, fmt.Errorf("unsupported layer type: %s", layer.Type.String())
	}
}

// computeConv2DInfo computes Conv2D layer information
func computeConv2DInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(inputShape) != 4 {
		return nil, nil, 0, fmt.Errorf("Conv2D layer requires 4D input [batch, channels, height, width]")
	}

	outputChannels, ok := layer.Parameters["output_channels"].(int)
	if !ok {
		return nil, nil, 0, fmt.Errorf("missing output_channels parameter")
	}

	kernelSize, ok := layer.Parameters["kernel_size"].(int)
	if !ok {
		return nil, nil, 0, fmt.Errorf("missing kernel_size parameter")
	}

	stride := getIntParam(layer.Parameters, "stride", 1)
	padding := getIntParam(layer.Parameters, "padding", 0)
	useBias := getBoolParam(layer.Parameters, "use_bias", true)

	batchSize := inputShape[0]
	inputChannels := inputShape[1]
	inputHeight := inputShape[2]
	inputWidth := inputShape[3]

	layer.Parameters["input_channels"] = inputChannels

	outputHeight := (inputHeight+2*padding-kernelSize)/stride + 1
	outputWidth := (inputWidth+2*padding-kernelSize)/stride + 1
	if outputHeight < 1 || outputWidth < 1 {
		return nil, nil, 0, fmt.Errorf("kernel %d stride %d padding %d reduces %dx%d input below 1x1",
			kernelSize, stride, padding, inputHeight, inputWidth)
	}

	outputShape := []int{batchSize, outputChannels, outputHeight, outputWidth}

	var paramShapes [][]int
	paramCount := int64(0)

	// Weight tensor: [outputChannels, inputChannels, kernelSize, kernelSize]
	weightShape := []int{outputChannels, inputChannels, kernelSize, kernelSize}
	paramShapes = append(paramShapes, weightShape)
	paramCount += int64(outputChannels * inputChannels * kernelSize * kernelSize)

	if useBias {
		paramShapes = append(paramShapes, []int{outputChannels})
		paramCount += int64(outputChannels)
	}

	return outputShape, paramShapes, paramCount, nil
}

// computeConv2DTransposeInfo computes transposed convolution layer information
func computeConv2DTransposeInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(inputShape) != 4 {
		return nil, nil, 0, fmt.Errorf("Conv2DTranspose layer requires 4D input [batch, channels, height, width]")
	}

	outputChannels, ok := layer.Parameters["output_channels"].(int)
	if !ok {
		return nil, nil, 0, fmt.Errorf("missing output_channels parameter")
	}

	kernelSize, ok := layer.Parameters["kernel_size"].(int)
	if !ok {
		return nil, nil, 0, fmt.Errorf("missing kernel_size parameter")
	}

	stride := getIntParam(layer.Parameters, "stride", 1)
	samePadding := getBoolParam(layer.Parameters, "same_padding", false)
	useBias := getBoolParam(layer.Parameters, "use_bias", true)

	batchSize := inputShape[0]
	inputChannels := inputShape[1]
	inputHeight := inputShape[2]
	inputWidth := inputShape[3]

	layer.Parameters["input_channels"] = inputChannels

	var outputHeight, outputWidth int
	if samePadding {
		outputHeight = inputHeight * stride
		outputWidth = inputWidth * stride
	} else {
		outputHeight = (inputHeight-1)*stride + kernelSize
		outputWidth = (inputWidth-1)*stride + kernelSize
	}

	outputShape := []int{batchSize, outputChannels, outputHeight, outputWidth}

	var paramShapes [][]int
	paramCount := int64(0)

	// Weight tensor: [inputChannels, outputChannels, kernelSize, kernelSize]
	weightShape := []int{inputChannels, outputChannels, kernelSize, kernelSize}
	paramShapes = append(paramShapes, weightShape)
	paramCount += int64(inputChannels * outputChannels * kernelSize * kernelSize)

	if useBias {
		paramShapes = append(paramShapes, []int{outputChannels})
		paramCount += int64(outputChannels)
	}

	return outputShape, paramShapes, paramCount, nil
}

// computeDepthwiseConv2DInfo computes depthwise convolution layer information
func computeDepthwiseConv2DInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(inputShape) != 4 {
		return nil, nil, 0, fmt.Errorf("DepthwiseConv2D layer requires 4D input [batch, channels, height, width]")
	}

	kernelSize, ok := layer.Parameters["kernel_size"].(int)
	if !ok {
		return nil, nil, 0, fmt.Errorf("missing kernel_size parameter")
	}

	stride := getIntParam(layer.Parameters, "stride", 1)
	padding := getIntParam(layer.Parameters, "padding", 0)
	useBias := getBoolParam(layer.Parameters, "use_bias", true)

	batchSize := inputShape[0]
	channels := inputShape[1]
	inputHeight := inputShape[2]
	inputWidth := inputShape[3]

	outputHeight := (inputHeight+2*padding-kernelSize)/stride + 1
	outputWidth := (inputWidth+2*padding-kernelSize)/stride + 1
	if outputHeight < 1 || outputWidth < 1 {
		return nil, nil, 0, fmt.Errorf("kernel %d stride %d padding %d reduces %dx%d input below 1x1",
			kernelSize, stride, padding, inputHeight, inputWidth)
	}

	outputShape := []int{batchSize, channels, outputHeight, outputWidth}

	var paramShapes [][]int
	paramCount := int64(0)

	// One kernel per channel: [channels, 1, kernelSize, kernelSize]
	weightShape := []int{channels, 1, kernelSize, kernelSize}
	paramShapes = append(paramShapes, weightShape)
	paramCount += int64(channels * kernelSize * kernelSize)

	if useBias {
		paramShapes = append(paramShapes, []int{channels})
		paramCount += int64(channels)
	}

	return outputShape, paramShapes, paramCount, nil
}

// computeReflectionPad2DInfo computes reflection padding layer information
func computeReflectionPad2DInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(inputShape) != 4 {
		return nil, nil, 0, fmt.Errorf("ReflectionPad2D layer requires 4D input [batch, channels, height, width]")
	}

	padHeight := getIntParam(layer.Parameters, "pad_height", 0)
	padWidth := getIntParam(layer.Parameters, "pad_width", 0)
	if padHeight < 0 || padWidth < 0 {
		return nil, nil, 0, fmt.Errorf("negative padding (%d, %d)", padHeight, padWidth)
	}

	inputHeight := inputShape[2]
	inputWidth := inputShape[3]

	// Reflection mirrors interior pixels, so the margin must be strictly
	// smaller than the spatial extent.
	if padHeight >= inputHeight || padWidth >= inputWidth {
		return nil, nil, 0, fmt.Errorf("reflection padding (%d, %d) too large for %dx%d input",
			padHeight, padWidth, inputHeight, inputWidth)
	}

	outputShape := []int{inputShape[0], inputShape[1], inputHeight + 2*padHeight, inputWidth + 2*padWidth}

	return outputShape, [][]int{}, 0, nil
}

// computeNormInfo computes normalization layer information. Instance and
// batch normalization share shape semantics and per-channel scale/shift;
// they differ only in which axes the statistics are taken over, which is an
// execution-time concern. Running statistics are buffers, not parameters.
func computeNormInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(inputShape) != 4 {
		return nil, nil, 0, fmt.Errorf("%s layer requires 4D input [batch, channels, height, width]", layer.Type)
	}

	channels := inputShape[1]
	layer.Parameters["num_features"] = channels

	outputShape := make([]int, len(inputShape))
	copy(outputShape, inputShape)

	// Learnable scale (gamma) and shift (beta), one of each per channel
	paramShapes := [][]int{{channels}, {channels}}
	paramCount := int64(channels * 2)

	return outputShape, paramShapes, paramCount, nil
}

// computeMaxPool2DInfo computes max pooling layer information
func computeMaxPool2DInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(inputShape) != 4 {
		return nil, nil, 0, fmt.Errorf("MaxPool2D layer requires 4D input [batch, channels, height, width]")
	}

	poolSize, ok := layer.Parameters["pool_size"].(int)
	if !ok {
		return nil, nil, 0, fmt.Errorf("missing pool_size parameter")
	}
	stride := getIntParam(layer.Parameters, "stride", poolSize)

	inputHeight := inputShape[2]
	inputWidth := inputShape[3]

	outputHeight := (inputHeight-poolSize)/stride + 1
	outputWidth := (inputWidth-poolSize)/stride + 1
	if outputHeight < 1 || outputWidth < 1 {
		return nil, nil, 0, fmt.Errorf("pool %d stride %d reduces %dx%d input below 1x1",
			poolSize, stride, inputHeight, inputWidth)
	}

	outputShape := []int{inputShape[0], inputShape[1], outputHeight, outputWidth}

	return outputShape, [][]int{}, 0, nil
}

// computeSqueezeExciteInfo computes squeeze-and-excitation layer information
func computeSqueezeExciteInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(inputShape) != 4 {
		return nil, nil, 0, fmt.Errorf("SqueezeExcite layer requires 4D input [batch, channels, height, width]")
	}

	ratio := getIntParam(layer.Parameters, "ratio", 4)
	if ratio < 1 {
		return nil, nil, 0, fmt.Errorf("ratio must be >= 1, got %d", ratio)
	}

	channels := inputShape[1]
	reduced := channels / ratio
	if reduced < 1 {
		reduced = 1
	}
	layer.Parameters["reduced_channels"] = reduced

	outputShape := make([]int, len(inputShape))
	copy(outputShape, inputShape)

	// Two 1x1 convolutions with biases: reduce then expand
	paramShapes := [][]int{
		{reduced, channels, 1, 1},
		{reduced},
		{channels, reduced, 1, 1},
		{channels},
	}
	paramCount := int64(reduced*channels + reduced + channels*reduced + channels)

	return outputShape, paramShapes, paramCount, nil
}

// computeResidualInfo compiles the nested body of a residual block and
// enforces the identity-skip invariant: body output shape must equal the
// block input shape, since the two are added element-wise.
func computeResidualInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	if len(layer.Body) == 0 {
		return nil, nil, 0, fmt.Errorf("residual block has empty body")
	}

	currentShape := inputShape
	var paramShapes [][]int
	paramCount := int64(0)

	for i := range layer.Body {
		inner := &layer.Body[i]

		inner.InputShape = make([]int, len(currentShape))
		copy(inner.InputShape, currentShape)

		outputShape, innerShapes, innerCount, err := computeLayerInfo(inner, currentShape)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("body layer %d (%s): %v", i, inner.Name, err)
		}

		inner.OutputShape = outputShape
		inner.ParameterShapes = innerShapes
		inner.ParameterCount = innerCount

		paramShapes = append(paramShapes, innerShapes...)
		paramCount += innerCount
		currentShape = outputShape
	}

	if !shapesEqual(currentShape, inputShape) {
		return nil, nil, 0, fmt.Errorf("residual body maps %v to %v; skip connection requires matching shapes",
			inputShape, currentShape)
	}

	outputShape := make([]int, len(inputShape))
	copy(outputShape, inputShape)

	return outputShape, paramShapes, paramCount, nil
}

func computeActivationInfo(layer *LayerSpec, inputShape []int) ([]int, [][]int, int64, error) {
	// Activation layers don't change shape and have no parameters
	outputShape := make([]int, len(inputShape))
	copy(outputShape, inputShape)

	return outputShape, [][]int{}, 0, nil
}

func shapesEqual(a, b []int) bool {
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

// Summary returns a human-readable model summary
func (ms *ModelSpec) Summary() string {
	if !ms.Compiled {
		return "Model not compiled"
	}

	summary := "Model Summary:\n"
	summary += fmt.Sprintf("Input Shape: %v\n", ms.InputShape)
	summary += fmt.Sprintf("Output Shape: %v\n", ms.OutputShape)
	summary += fmt.Sprintf("Total Parameters: %d\n", ms.TotalParameters)
	summary += fmt.Sprintf("Layers: %d\n\n", len(ms.Layers))

	for i, layer := range ms.Layers {
		summary += fmt.Sprintf("Layer %d: %s (%s)\n", i+1, layer.Name, layer.Type.String())
		summary += fmt.Sprintf("  Input:  %v\n", layer.InputShape)
		summary += fmt.Sprintf("  Output: %v\n", layer.OutputShape)
		summary += fmt.Sprintf("  Params: %d\n", layer.ParameterCount)

		if layer.Type == Residual {
			for j, inner := range layer.Body {
				summary += fmt.Sprintf("    %d.%d: %s (%s) %v -> %v\n",
					i+1, j+1, inner.Name, inner.Type.String(), inner.InputShape, inner.OutputShape)
			}
		}
		summary += "\n"
	}

	return summary
}

// Helper functions for parameter extraction
func getIntParam(params map[string]interface{}, key string, defaultValue int) int {
	if val, exists := params[key]; exists {
		if intVal, ok := val.(int); ok {
			return intVal
		}
		// JSON numbers decode as float64
		if floatVal, ok := val.(float64); ok {
			return int(floatVal)
		}
	}
	return defaultValue
}

func getBoolParam(params map[string]interface{}, key string, defaultValue bool) bool {
	if val, exists := params[key]; exists {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

func getFloatParam(params map[string]interface{}, key string, defaultValue float32) float32 {
	if val, exists := params[key]; exists {
		if floatVal, ok := val.(float32); ok {
			return floatVal
		}
		if floatVal, ok := val.(float64); ok {
			return float32(floatVal)
		}
	}
	return defaultValue
}
