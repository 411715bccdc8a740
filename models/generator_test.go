package models_test

import (
	"testing"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/models"
)

func TestResNetGeneratorDefaults(t *testing.T) {
	model, err := models.ResNetGenerator(models.ResNetGeneratorConfig{})
	if err != nil {
		t.Fatalf("ResNetGenerator: %v", err)
	}

	want := []int{1, 3, 256, 256}
	if !shapeEq(model.InputShape, want) {
		t.Errorf("input shape = %v, want %v", model.InputShape, want)
	}
	if !shapeEq(model.OutputShape, want) {
		t.Errorf("output shape = %v, want %v", model.OutputShape, want)
	}

	last := model.Layers[len(model.Layers)-1]
	if last.Type != layers.Tanh {
		t.Errorf("final layer = %s, want Tanh", last.Type)
	}
}

func TestResNetGeneratorPreservesShapeAcrossConfigs(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.ResNetGeneratorConfig
	}{
		{"reference", models.ResNetGeneratorConfig{}},
		{"narrow", models.ResNetGeneratorConfig{Filters: 32}},
		{"deep bottleneck", models.ResNetGeneratorConfig{ResidualBlocks: 9}},
		{"three scale levels", models.ResNetGeneratorConfig{DownsampleBlocks: 3, UpsampleBlocks: 3}},
		{"small input", models.ResNetGeneratorConfig{InputSize: 128, BatchSize: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := models.ResNetGenerator(tt.cfg)
			if err != nil {
				t.Fatalf("ResNetGenerator: %v", err)
			}
			if !shapeEq(model.OutputShape, model.InputShape) {
				t.Errorf("output shape %v != input shape %v", model.OutputShape, model.InputShape)
			}
		})
	}
}

func TestResNetGeneratorResidualBlockCount(t *testing.T) {
	model, err := models.ResNetGenerator(models.ResNetGeneratorConfig{ResidualBlocks: 7})
	if err != nil {
		t.Fatalf("ResNetGenerator: %v", err)
	}

	count := 0
	for _, layer := range model.Layers {
		if layer.Type == layers.Residual {
			count++
		}
	}
	if count != 7 {
		t.Errorf("residual block count = %d, want 7", count)
	}
}

func TestResNetGeneratorRejectsAsymmetricScales(t *testing.T) {
	// Two downsampling steps but one upsampling step cannot restore the
	// input resolution.
	_, err := models.ResNetGenerator(models.ResNetGeneratorConfig{
		DownsampleBlocks: 2,
		UpsampleBlocks:   1,
		ResidualBlocks:   1,
	})
	if err == nil {
		t.Fatal("expected error for mismatched block counts, got nil")
	}
}

func shapeEq(a, b []int) bool {
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
