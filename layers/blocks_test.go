package layers_test

import (
	"testing"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

func TestResidualBlockPreservesShape(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		size int
	}{
		{"bottleneck 256ch", 256, 64},
		{"small 32ch", 32, 16},
		{"single channel", 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputShape := []int{1, tt.dim, tt.size, tt.size}
			builder := layers.NewModelBuilder(inputShape)
			model, err := builder.
				AddResidualBlock(tt.dim, "res").
				Compile()
			if err != nil {
				t.Fatalf("failed to compile model: %v", err)
			}

			if !shapeEq(model.OutputShape, inputShape) {
				t.Errorf("output shape = %v, want %v", model.OutputShape, inputShape)
			}
		})
	}
}

func TestResidualBlockWrongDim(t *testing.T) {
	// The block convolves to dim channels; a dim that differs from the
	// incoming channel count breaks the skip connection.
	builder := layers.NewModelBuilder([]int{1, 64, 32, 32})
	_, err := builder.
		AddResidualBlock(128, "res").
		Compile()
	if err == nil {
		t.Fatal("expected error for channel-changing residual block, got nil")
	}
}

func TestDownsampleHalvesResolution(t *testing.T) {
	builder := layers.NewModelBuilder([]int{1, 64, 128, 128})
	model, err := builder.
		AddDownsample(128, 3, 2, 1, layers.ActivationReLU, "down").
		Compile()
	if err != nil {
		t.Fatalf("failed to compile model: %v", err)
	}

	if !shapeEq(model.OutputShape, []int{1, 128, 64, 64}) {
		t.Errorf("output shape = %v, want [1 128 64 64]", model.OutputShape)
	}
}

func TestDownsampleThenUpsampleRoundTrips(t *testing.T) {
	inputShape := []int{1, 64, 128, 128}
	builder := layers.NewModelBuilder(inputShape)
	model, err := builder.
		AddDownsample(128, 3, 2, 1, layers.ActivationReLU, "down").
		AddUpsample(64, 3, 2, layers.ActivationReLU, "up").
		Compile()
	if err != nil {
		t.Fatalf("failed to compile model: %v", err)
	}

	if !shapeEq(model.OutputShape, inputShape) {
		t.Errorf("output shape = %v, want %v", model.OutputShape, inputShape)
	}
}

func TestDownsampleWithoutActivation(t *testing.T) {
	builder := layers.NewModelBuilder([]int{1, 3, 64, 64})
	model, err := builder.
		AddDownsample(32, 3, 2, 1, layers.ActivationNone, "down").
		Compile()
	if err != nil {
		t.Fatalf("failed to compile model: %v", err)
	}

	// conv + norm only
	if len(model.Layers) != 2 {
		t.Errorf("layer count = %d, want 2 (no activation appended)", len(model.Layers))
	}
}

func TestMBConvResidualWrap(t *testing.T) {
	t.Run("stride 1 same channels wraps in skip", func(t *testing.T) {
		builder := layers.NewModelBuilder([]int{1, 32, 64, 64})
		model, err := builder.
			AddMBConv(32, 32, 6, 3, 1, 24, "block").
			Compile()
		if err != nil {
			t.Fatalf("failed to compile model: %v", err)
		}

		if len(model.Layers) != 1 || model.Layers[0].Type != layers.Residual {
			t.Fatalf("expected a single Residual layer, got %v", model.Layers[0].Type)
		}
		if !shapeEq(model.OutputShape, []int{1, 32, 64, 64}) {
			t.Errorf("output shape = %v, want input preserved", model.OutputShape)
		}
	})

	t.Run("strided block has no skip", func(t *testing.T) {
		builder := layers.NewModelBuilder([]int{1, 24, 128, 128})
		model, err := builder.
			AddMBConv(24, 32, 6, 3, 2, 24, "block").
			Compile()
		if err != nil {
			t.Fatalf("failed to compile model: %v", err)
		}

		for _, layer := range model.Layers {
			if layer.Type == layers.Residual {
				t.Fatal("strided MBConv must not carry a skip connection")
			}
		}
		if !shapeEq(model.OutputShape, []int{1, 32, 64, 64}) {
			t.Errorf("output shape = %v, want [1 32 64 64]", model.OutputShape)
		}
	})
}
