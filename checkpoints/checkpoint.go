// Package checkpoints reads and writes model weights. JSON checkpoints
// carry a full model specification alongside its parameter tensors; ONNX
// files are read for their initializer tensors only, which is enough to
// ingest pretrained backbone weights exported from other frameworks.
package checkpoints

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

// CheckpointFormat defines the serialization format
type CheckpointFormat int

const (
	FormatJSON CheckpointFormat = iota
	FormatONNX
)

func (cf CheckpointFormat) String() string {
	switch cf {
	case FormatJSON:
		return "JSON"
	case FormatONNX:
		return "ONNX"
	default:
		return "Unknown"
	}
}

// Checkpoint represents a model architecture together with its weights
type Checkpoint struct {
	ModelSpec *layers.ModelSpec        `json:"model_spec,omitempty"`
	Weights   []layers.ParameterTensor `json:"weights"`
	Metadata  CheckpointMetadata       `json:"metadata"`
}

// CheckpointMetadata contains checkpoint metadata
type CheckpointMetadata struct {
	Version     string    `json:"version"`
	Framework   string    `json:"framework"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// WeightMap indexes checkpoint weights by tensor name
func (c *Checkpoint) WeightMap() map[string]layers.ParameterTensor {
	m := make(map[string]layers.ParameterTensor, len(c.Weights))
	for _, w := range c.Weights {
		m[w.Name] = w
	}
	return m
}

// SaveCheckpoint saves a checkpoint in JSON format
func SaveCheckpoint(checkpoint *Checkpoint, path string) error {
	if checkpoint.Metadata.Framework == "" {
		checkpoint.Metadata.Framework = "synthetic-image-generation"
		checkpoint.Metadata.Version = "1.0.0"
		checkpoint.Metadata.CreatedAt = time.Now()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(checkpoint); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %v", err)
	}

	return nil
}

// LoadCheckpoint loads a JSON checkpoint
func LoadCheckpoint(path string) (*Checkpoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file: %v", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %v", err)
	}

	for _, w := range checkpoint.Weights {
		if err := validateTensor(w); err != nil {
			return nil, fmt.Errorf("checkpoint %s: %v", path, err)
		}
	}

	return &checkpoint, nil
}

// LoadWeights loads parameter tensors from a checkpoint file, dispatching
// on format: .onnx files are read for their graph initializers, anything
// else is treated as a JSON checkpoint.
func LoadWeights(path string) ([]layers.ParameterTensor, error) {
	if isONNXPath(path) {
		return ReadONNXInitializers(path)
	}

	checkpoint, err := LoadCheckpoint(path)
	if err != nil {
		return nil, err
	}
	return checkpoint.Weights, nil
}

func isONNXPath(path string) bool {
	return len(path) > 5 && path[len(path)-5:] == ".onnx"
}

func validateTensor(w layers.ParameterTensor) error {
	if w.Name == "" {
		return fmt.Errorf("weight tensor with empty name")
	}
	n := 1
	for _, dim := range w.Shape {
		if dim < 1 {
			return fmt.Errorf("tensor %s has invalid shape %v", w.Name, w.Shape)
		}
		n *= dim
	}
	if n != len(w.Data) {
		return fmt.Errorf("tensor %s: shape %v wants %d elements, data has %d",
			w.Name, w.Shape, n, len(w.Data))
	}
	return nil
}
