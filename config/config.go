// Package config loads model architecture definitions from HCL files. A
// file may declare at most one of each builder block:
//
//	generator {
//	  filters           = 64
//	  residual_blocks   = 5
//	}
//
//	efficientnet_generator {
//	  weights        = "none"
//	  bounded_output = true
//	}
//
//	discriminator {
//	  filters = 64
//	}
//
// Omitted attributes fall back to the builders' reference defaults.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Chris-Mayes/Synthetic-image-generation-with-EfficientNet/models"
)

// File is the decoded form of an architecture configuration file
type File struct {
	Generator             *GeneratorBlock     `hcl:"generator,block"`
	EfficientNetGenerator *EfficientNetBlock  `hcl:"efficientnet_generator,block"`
	Discriminator         *DiscriminatorBlock `hcl:"discriminator,block"`
}

// GeneratorBlock configures the ResNet generator builder
type GeneratorBlock struct {
	BatchSize        int    `hcl:"batch_size,optional"`
	InputSize        int    `hcl:"input_size,optional"`
	Filters          int    `hcl:"filters,optional"`
	DownsampleBlocks int    `hcl:"downsample_blocks,optional"`
	ResidualBlocks   int    `hcl:"residual_blocks,optional"`
	UpsampleBlocks   int    `hcl:"upsample_blocks,optional"`
	Name             string `hcl:"name,optional"`
}

// ModelConfig converts the block to a builder configuration
func (b *GeneratorBlock) ModelConfig() models.ResNetGeneratorConfig {
	return models.ResNetGeneratorConfig{
		BatchSize:        b.BatchSize,
		InputSize:        b.InputSize,
		Filters:          b.Filters,
		DownsampleBlocks: b.DownsampleBlocks,
		ResidualBlocks:   b.ResidualBlocks,
		UpsampleBlocks:   b.UpsampleBlocks,
		Name:             b.Name,
	}
}

// EfficientNetBlock configures the EfficientNet generator builder
type EfficientNetBlock struct {
	BatchSize     int    `hcl:"batch_size,optional"`
	InputSize     int    `hcl:"input_size,optional"`
	Weights       string `hcl:"weights,optional"`
	BoundedOutput bool   `hcl:"bounded_output,optional"`
	Seed          uint64 `hcl:"seed,optional"`
	Name          string `hcl:"name,optional"`
}

// ModelConfig converts the block to a builder configuration
func (b *EfficientNetBlock) ModelConfig() models.EfficientNetGeneratorConfig {
	return models.EfficientNetGeneratorConfig{
		BatchSize:     b.BatchSize,
		InputSize:     b.InputSize,
		Weights:       b.Weights,
		BoundedOutput: b.BoundedOutput,
		Seed:          b.Seed,
		Name:          b.Name,
	}
}

// DiscriminatorBlock configures the PatchGAN discriminator builder
type DiscriminatorBlock struct {
	BatchSize        int    `hcl:"batch_size,optional"`
	InputSize        int    `hcl:"input_size,optional"`
	Filters          int    `hcl:"filters,optional"`
	DownsampleBlocks int    `hcl:"downsample_blocks,optional"`
	Name             string `hcl:"name,optional"`
}

// ModelConfig converts the block to a builder configuration
func (b *DiscriminatorBlock) ModelConfig() models.PatchDiscriminatorConfig {
	return models.PatchDiscriminatorConfig{
		BatchSize:        b.BatchSize,
		InputSize:        b.InputSize,
		Filters:          b.Filters,
		DownsampleBlocks: b.DownsampleBlocks,
		Name:             b.Name,
	}
}

// Load parses and decodes an HCL architecture file
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}

	var config File
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", path, diags.Error())
	}

	return &config, nil
}

// LoadBytes parses and decodes HCL source held in memory; filename is used
// in diagnostics only.
func LoadBytes(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %s", filename, diags.Error())
	}

	var config File
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL source %s: %s", filename, diags.Error())
	}

	return &config, nil
}
