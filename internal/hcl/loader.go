package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/gridci/internal/config"
	"github.com/vk/gridci/internal/ctxlog"
	"github.com/vk/gridci/internal/fsutil"
	"github.com/vk/gridci/internal/schema"
)

// Loader loads grid configuration from .hcl files.
type Loader struct{}

// NewLoader returns a Loader ready for use.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. The path may be a single .hcl file or a
// directory that is searched recursively.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading grid configuration.", "path", path)

	files, err := fsutil.ResolveConfigPath(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grid path %q: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl grid files found at %q", path)
	}
	logger.Debug("Found grid files to process.", "count", len(files))

	parser := hclparse.NewParser()
	merged := &schema.GridFile{}
	for _, file := range files {
		decoded, err := decodeGridFile(parser, file)
		if err != nil {
			return nil, err
		}
		if err := mergeGridFile(merged, decoded, file); err != nil {
			return nil, err
		}
	}

	model, err := translate(merged)
	if err != nil {
		return nil, err
	}

	logger.Debug("Grid configuration loaded.",
		"platforms", len(model.Platforms),
		"toolchains", len(model.Toolchains),
		"steps", len(model.Steps),
	)
	return model, nil
}

// decodeGridFile parses and decodes a single HCL grid file.
func decodeGridFile(parser *hclparse.Parser, filePath string) (*schema.GridFile, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filePath, diags.Error())
	}

	var decoded schema.GridFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &decoded)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filePath, diags.Error())
	}

	return &decoded, nil
}

// mergeGridFile folds one decoded file into the merged view. The singleton
// blocks (matrix, settings, setup) may appear at most once across all files;
// steps accumulate in file order.
func mergeGridFile(merged, decoded *schema.GridFile, filePath string) error {
	if decoded.Matrix != nil {
		if merged.Matrix != nil {
			return fmt.Errorf("duplicate matrix block in %s: the matrix may only be declared once", filePath)
		}
		merged.Matrix = decoded.Matrix
	}
	if decoded.Settings != nil {
		if merged.Settings != nil {
			return fmt.Errorf("duplicate settings block in %s", filePath)
		}
		merged.Settings = decoded.Settings
	}
	if decoded.Setup != nil {
		if merged.Setup != nil {
			return fmt.Errorf("duplicate setup block in %s", filePath)
		}
		merged.Setup = decoded.Setup
	}
	merged.Steps = append(merged.Steps, decoded.Steps...)
	return nil
}

// translate validates the merged configuration and produces the model.
func translate(merged *schema.GridFile) (*config.Model, error) {
	if merged.Matrix == nil {
		return nil, fmt.Errorf("no matrix block found: platforms and toolchains must be declared")
	}
	if len(merged.Steps) == 0 {
		return nil, fmt.Errorf("no step blocks found: at least one step is required")
	}

	model := &config.Model{
		Platforms:  merged.Matrix.Platforms,
		Toolchains: merged.Matrix.Toolchains,
	}

	seen := make(map[string]struct{}, len(merged.Steps))
	for _, step := range merged.Steps {
		if _, dup := seen[step.Name]; dup {
			return nil, fmt.Errorf("duplicate step name %q: step names must be unique", step.Name)
		}
		seen[step.Name] = struct{}{}
		model.Steps = append(model.Steps, &config.Step{
			Name:    step.Name,
			Command: step.Command,
		})
	}

	if merged.Setup != nil {
		model.Setup = &config.Setup{Command: merged.Setup.Command}
	}

	if s := merged.Settings; s != nil {
		if s.MaxConcurrency != nil {
			if *s.MaxConcurrency <= 0 {
				return nil, fmt.Errorf("max_concurrency must be a positive integer, got %d", *s.MaxConcurrency)
			}
			model.MaxConcurrency = *s.MaxConcurrency
		}
		if s.RetryUnavailable != nil {
			model.RetryUnavailable = *s.RetryUnavailable
		}
		if s.StepTimeout != nil {
			d, err := time.ParseDuration(*s.StepTimeout)
			if err != nil {
				return nil, fmt.Errorf("invalid step_timeout %q: %w", *s.StepTimeout, err)
			}
			if d <= 0 {
				return nil, fmt.Errorf("step_timeout must be positive, got %q", *s.StepTimeout)
			}
			model.StepTimeout = d
		}
	}

	return model, nil
}
