package checkpoints_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/checkpoints"
	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

// appendTensorProto encodes a minimal ONNX TensorProto
func appendTensorProto(b []byte, name string, dims []int, dataType uint64, raw []float32, packed bool) []byte {
	var tensor []byte
	for _, d := range dims {
		tensor = protowire.AppendTag(tensor, 1, protowire.VarintType)
		tensor = protowire.AppendVarint(tensor, uint64(d))
	}
	tensor = protowire.AppendTag(tensor, 2, protowire.VarintType)
	tensor = protowire.AppendVarint(tensor, dataType)
	tensor = protowire.AppendTag(tensor, 8, protowire.BytesType)
	tensor = protowire.AppendBytes(tensor, []byte(name))

	if packed {
		var data []byte
		for _, f := range raw {
			data = protowire.AppendFixed32(data, math.Float32bits(f))
		}
		tensor = protowire.AppendTag(tensor, 4, protowire.BytesType)
		tensor = protowire.AppendBytes(tensor, data)
	} else {
		data := make([]byte, 4*len(raw))
		for i, f := range raw {
			binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
		}
		tensor = protowire.AppendTag(tensor, 9, protowire.BytesType)
		tensor = protowire.AppendBytes(tensor, data)
	}

	b = protowire.AppendTag(b, 5, protowire.BytesType)
	return protowire.AppendBytes(b, tensor)
}

func writeONNXModel(t *testing.T, graph []byte) string {
	t.Helper()

	var model []byte
	model = protowire.AppendTag(model, 1, protowire.VarintType) // ir_version
	model = protowire.AppendVarint(model, 7)
	model = protowire.AppendTag(model, 7, protowire.BytesType)
	model = protowire.AppendBytes(model, graph)

	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(path, model, 0644); err != nil {
		t.Fatalf("failed to write ONNX fixture: %v", err)
	}
	return path
}

func TestReadONNXInitializersRawData(t *testing.T) {
	graph := appendTensorProto(nil, "stem_conv.weight", []int{2, 1, 1, 1}, 1, []float32{0.25, -1.5}, false)
	graph = appendTensorProto(graph, "stem_bn.gamma", []int{2}, 1, []float32{1, 1}, false)
	path := writeONNXModel(t, graph)

	tensors, err := checkpoints.ReadONNXInitializers(path)
	if err != nil {
		t.Fatalf("ReadONNXInitializers: %v", err)
	}
	if len(tensors) != 2 {
		t.Fatalf("tensor count = %d, want 2", len(tensors))
	}

	first := tensors[0]
	if first.Name != "stem_conv.weight" {
		t.Errorf("name = %s, want stem_conv.weight", first.Name)
	}
	if first.Layer != "stem_conv" || first.Role != "weight" {
		t.Errorf("layer/role = %s/%s, want stem_conv/weight", first.Layer, first.Role)
	}
	if len(first.Shape) != 4 || first.Shape[0] != 2 {
		t.Errorf("shape = %v, want [2 1 1 1]", first.Shape)
	}
	if first.Data[0] != 0.25 || first.Data[1] != -1.5 {
		t.Errorf("data = %v, want [0.25 -1.5]", first.Data)
	}
}

func TestReadONNXInitializersFloatData(t *testing.T) {
	graph := appendTensorProto(nil, "conv.bias", []int{3}, 1, []float32{1, 2, 3}, true)
	path := writeONNXModel(t, graph)

	tensors, err := checkpoints.ReadONNXInitializers(path)
	if err != nil {
		t.Fatalf("ReadONNXInitializers: %v", err)
	}
	if len(tensors) != 1 {
		t.Fatalf("tensor count = %d, want 1", len(tensors))
	}
	if tensors[0].Data[2] != 3 {
		t.Errorf("data = %v, want [1 2 3]", tensors[0].Data)
	}
}

func TestWriteONNXInitializersRoundTrip(t *testing.T) {
	want := []layers.ParameterTensor{
		{Name: "stem_conv.weight", Layer: "stem_conv", Role: "weight", Shape: []int{2, 1, 1, 1}, Data: []float32{0.25, -1.5}},
		{Name: "stem_bn.gamma", Layer: "stem_bn", Role: "gamma", Shape: []int{2}, Data: []float32{1, 1}},
	}

	path := filepath.Join(t.TempDir(), "weights.onnx")
	if err := checkpoints.WriteONNXInitializers(want, path); err != nil {
		t.Fatalf("WriteONNXInitializers: %v", err)
	}

	got, err := checkpoints.ReadONNXInitializers(path)
	if err != nil {
		t.Fatalf("ReadONNXInitializers: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("tensor count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Layer != want[i].Layer || got[i].Role != want[i].Role {
			t.Errorf("tensor %d identity = %s (%s/%s), want %s (%s/%s)",
				i, got[i].Name, got[i].Layer, got[i].Role, want[i].Name, want[i].Layer, want[i].Role)
		}
		for j := range want[i].Data {
			if got[i].Data[j] != want[i].Data[j] {
				t.Errorf("tensor %s data[%d] = %v, want %v", want[i].Name, j, got[i].Data[j], want[i].Data[j])
			}
		}
	}
}

func TestWriteONNXInitializersRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.onnx")
	if err := checkpoints.WriteONNXInitializers(nil, path); err == nil {
		t.Fatal("expected error for empty tensor list, got nil")
	}
}

func TestReadONNXInitializersRejectsNonFloat(t *testing.T) {
	// data_type 7 is INT64
	graph := appendTensorProto(nil, "conv.weight", []int{1}, 7, []float32{0}, false)
	path := writeONNXModel(t, graph)

	if _, err := checkpoints.ReadONNXInitializers(path); err == nil {
		t.Fatal("expected error for non-float tensor, got nil")
	}
}

func TestReadONNXInitializersNoGraph(t *testing.T) {
	var model []byte
	model = protowire.AppendTag(model, 1, protowire.VarintType)
	model = protowire.AppendVarint(model, 7)

	path := filepath.Join(t.TempDir(), "empty.onnx")
	if err := os.WriteFile(path, model, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := checkpoints.ReadONNXInitializers(path); err == nil {
		t.Fatal("expected error for model without graph, got nil")
	}
}

func TestReadONNXInitializersMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.onnx")
	if err := os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := checkpoints.ReadONNXInitializers(path); err == nil {
		t.Fatal("expected error for malformed file, got nil")
	}
}
