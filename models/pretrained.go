package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/checkpoints"
	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/layers"
)

// WeightsEnvVar names the environment variable consulted when resolving
// "imagenet" encoder weights.
const WeightsEnvVar = "EFFICIENTNET_WEIGHTS"

const imagenetWeightsFile = "efficientnet-b3-imagenet.onnx"

// resolveWeightsPath maps a Weights config value to a checkpoint file.
// "imagenet" looks at WeightsEnvVar, then the user cache directory; any
// other value is treated as an explicit path. A path that does not exist is
// an error - there is no fallback for missing pretrained weights.
func resolveWeightsPath(weights string) (string, error) {
	if weights != "imagenet" {
		if _, err := os.Stat(weights); err != nil {
			return "", fmt.Errorf("weights file %s: %v", weights, err)
		}
		return weights, nil
	}

	if env := os.Getenv(WeightsEnvVar); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%s=%s: %v", WeightsEnvVar, env, err)
		}
		return env, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate user cache directory: %v", err)
	}
	path := filepath.Join(cacheDir, "synthetic-image-generation", imagenetWeightsFile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("pretrained imagenet weights not found: set %s or place the checkpoint at %s",
			WeightsEnvVar, path)
	}
	return path, nil
}

// isEncoderLayer reports whether a canonical EfficientNet layer name
// belongs to the pretrained backbone rather than the hand-built decoder.
func isEncoderLayer(name string) bool {
	return strings.HasPrefix(name, "stem_") || strings.HasPrefix(name, "block")
}

// loadEncoderWeights replaces the encoder entries of params with tensors
// from the pretrained checkpoint. Every encoder tensor must be present with
// a matching shape; decoder tensors keep their fresh initialization.
func loadEncoderWeights(weights string, params []layers.ParameterTensor) ([]layers.ParameterTensor, error) {
	path, err := resolveWeightsPath(weights)
	if err != nil {
		return nil, err
	}

	loaded, err := checkpoints.LoadWeights(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load pretrained weights: %v", err)
	}

	byName := make(map[string]layers.ParameterTensor, len(loaded))
	for _, w := range loaded {
		byName[w.Name] = w
	}

	merged := make([]layers.ParameterTensor, len(params))
	for i, p := range params {
		if !isEncoderLayer(p.Layer) {
			merged[i] = p
			continue
		}

		pretrained, ok := byName[p.Name]
		if !ok {
			return nil, fmt.Errorf("pretrained checkpoint %s is missing tensor %s", path, p.Name)
		}
		if !sameShape(pretrained.Shape, p.Shape) {
			return nil, fmt.Errorf("pretrained tensor %s has shape %v, model expects %v",
				p.Name, pretrained.Shape, p.Shape)
		}
		merged[i] = pretrained
	}

	return merged, nil
}
