package checkpoints

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

// ONNX wire schema, as far as weight ingestion needs it. Field numbers are
// from onnx.proto3 (opset-independent): ModelProto.graph=7,
// GraphProto.initializer=5; TensorProto dims=1, data_type=2, float_data=4,
// name=8, raw_data=9.
const (
	onnxModelGraph       = 7
	onnxGraphInitializer = 5
	onnxTensorDims       = 1
	onnxTensorDataType   = 2
	onnxTensorFloatData  = 4
	onnxTensorName       = 8
	onnxTensorRawData    = 9

	onnxDataTypeFloat = 1
)

// ReadONNXInitializers extracts the initializer tensors of an ONNX model's
// graph as parameter tensors. Only float32 tensors are accepted; anything
// else in the file is an error, since pretrained weights that fail to load
// are a hard failure for the callers of this package.
func ReadONNXInitializers(path string) ([]layers.ParameterTensor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ONNX file: %v", err)
	}

	graph, err := findField(data, onnxModelGraph)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if graph == nil {
		return nil, fmt.Errorf("%s: no graph in ONNX model", path)
	}

	var tensors []layers.ParameterTensor
	err = eachField(graph, func(num protowire.Number, payload []byte) error {
		if num != onnxGraphInitializer {
			return nil
		}
		tensor, err := parseTensorProto(payload)
		if err != nil {
			return err
		}
		tensors = append(tensors, tensor)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}

	if len(tensors) == 0 {
		return nil, fmt.Errorf("%s: ONNX graph has no initializers", path)
	}

	return tensors, nil
}

// WriteONNXInitializers writes parameter tensors as the initializers of a
// minimal ONNX model, the inverse of ReadONNXInitializers. Tensor data is
// encoded little-endian in raw_data.
func WriteONNXInitializers(tensors []layers.ParameterTensor, path string) error {
	if len(tensors) == 0 {
		return fmt.Errorf("no tensors to write")
	}

	var graph []byte
	for _, t := range tensors {
		if err := validateTensor(t); err != nil {
			return err
		}

		var tensor []byte
		for _, d := range t.Shape {
			tensor = protowire.AppendTag(tensor, onnxTensorDims, protowire.VarintType)
			tensor = protowire.AppendVarint(tensor, uint64(d))
		}
		tensor = protowire.AppendTag(tensor, onnxTensorDataType, protowire.VarintType)
		tensor = protowire.AppendVarint(tensor, onnxDataTypeFloat)
		tensor = protowire.AppendTag(tensor, onnxTensorName, protowire.BytesType)
		tensor = protowire.AppendBytes(tensor, []byte(t.Name))

		raw := make([]byte, 4*len(t.Data))
		for i, f := range t.Data {
			binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(f))
		}
		tensor = protowire.AppendTag(tensor, onnxTensorRawData, protowire.BytesType)
		tensor = protowire.AppendBytes(tensor, raw)

		graph = protowire.AppendTag(graph, onnxGraphInitializer, protowire.BytesType)
		graph = protowire.AppendBytes(graph, tensor)
	}

	var model []byte
	model = protowire.AppendTag(model, 1, protowire.VarintType) // ir_version
	model = protowire.AppendVarint(model, 7)
	model = protowire.AppendTag(model, onnxModelGraph, protowire.BytesType)
	model = protowire.AppendBytes(model, graph)

	if err := os.WriteFile(path, model, 0644); err != nil {
		return fmt.Errorf("failed to write ONNX file: %v", err)
	}
	return nil
}

// parseTensorProto decodes a single ONNX TensorProto message
func parseTensorProto(b []byte) (layers.ParameterTensor, error) {
	var (
		name     string
		dims     []int
		dataType uint64 = onnxDataTypeFloat
		floats   []float32
		rawData  []byte
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return layers.ParameterTensor{}, fmt.Errorf("malformed tensor proto tag")
		}
		b = b[n:]

		switch {
		case num == onnxTensorDims && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed dims varint")
			}
			dims = append(dims, int(v))
			b = b[n:]

		case num == onnxTensorDims && typ == protowire.BytesType:
			// Packed encoding
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed packed dims")
			}
			b = b[n:]
			for len(packed) > 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return layers.ParameterTensor{}, fmt.Errorf("malformed packed dims varint")
				}
				dims = append(dims, int(v))
				packed = packed[m:]
			}

		case num == onnxTensorDataType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed data_type")
			}
			dataType = v
			b = b[n:]

		case num == onnxTensorFloatData && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed packed float_data")
			}
			b = b[n:]
			for len(packed) > 0 {
				v, m := protowire.ConsumeFixed32(packed)
				if m < 0 {
					return layers.ParameterTensor{}, fmt.Errorf("malformed float_data element")
				}
				floats = append(floats, math.Float32frombits(v))
				packed = packed[m:]
			}

		case num == onnxTensorFloatData && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed float_data element")
			}
			floats = append(floats, math.Float32frombits(v))
			b = b[n:]

		case num == onnxTensorName && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed tensor name")
			}
			name = string(v)
			b = b[n:]

		case num == onnxTensorRawData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed raw_data")
			}
			rawData = v
			b = b[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return layers.ParameterTensor{}, fmt.Errorf("malformed tensor proto field %d", num)
			}
			b = b[n:]
		}
	}

	if dataType != onnxDataTypeFloat {
		return layers.ParameterTensor{}, fmt.Errorf("tensor %s: unsupported data type %d (only float32)", name, dataType)
	}

	if rawData != nil {
		if len(rawData)%4 != 0 {
			return layers.ParameterTensor{}, fmt.Errorf("tensor %s: raw_data length %d not a multiple of 4", name, len(rawData))
		}
		floats = make([]float32, len(rawData)/4)
		for i := range floats {
			bits := binary.LittleEndian.Uint32(rawData[i*4:])
			floats[i] = math.Float32frombits(bits)
		}
	}

	tensor := layers.ParameterTensor{
		Name:  name,
		Layer: name,
		Shape: dims,
		Data:  floats,
	}
	if dot := strings.LastIndex(name, "."); dot > 0 {
		tensor.Layer = name[:dot]
		tensor.Role = name[dot+1:]
	}

	if err := validateTensor(tensor); err != nil {
		return layers.ParameterTensor{}, err
	}

	return tensor, nil
}

// findField returns the payload of the first length-delimited field with
// the given number at the top level of a message, or nil if absent.
func findField(b []byte, field protowire.Number) ([]byte, error) {
	var found []byte
	err := eachField(b, func(num protowire.Number, payload []byte) error {
		if num == field && found == nil {
			found = payload
		}
		return nil
	})
	return found, err
}

// eachField walks the top-level fields of a message, invoking fn with the
// payload of every length-delimited field and skipping the rest.
func eachField(b []byte, fn func(num protowire.Number, payload []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("malformed protobuf tag")
		}
		b = b[n:]

		if typ == protowire.BytesType {
			payload, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("malformed protobuf field %d", num)
			}
			if err := fn(num, payload); err != nil {
				return err
			}
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return fmt.Errorf("malformed protobuf field %d", num)
		}
		b = b[n:]
	}
	return nil
}
