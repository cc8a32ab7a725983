package matrix

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/gridci/internal/config"
)

// ErrEmptyMatrix is returned when either matrix axis has no entries. It is a
// configuration error and fatal to the run: no cell is ever dispatched.
var ErrEmptyMatrix = errors.New("empty matrix: platforms and toolchains must both be non-empty")

// Expand produces the ordered cross-product of the configured platforms and
// toolchains as a sequence of cells.
//
// The order is fixed: platforms outer, toolchains inner, both in declaration
// order. Identical inputs always yield an identical cell sequence.
func Expand(model *config.Model) ([]*Cell, error) {
	if len(model.Platforms) == 0 || len(model.Toolchains) == 0 {
		return nil, ErrEmptyMatrix
	}
	if len(model.Steps) == 0 {
		return nil, errors.New("expand: step template must be non-empty")
	}

	cells := make([]*Cell, 0, len(model.Platforms)*len(model.Toolchains))
	for _, platform := range model.Platforms {
		for _, toolchain := range model.Toolchains {
			cell, err := newCell(model, platform, toolchain)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// newCell resolves the shared step template against one (platform, toolchain)
// pair.
func newCell(model *config.Model, platform, toolchain string) (*Cell, error) {
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"platform":  cty.StringVal(platform),
			"toolchain": cty.StringVal(toolchain),
		},
	}

	cell := &Cell{
		Platform:  platform,
		Toolchain: toolchain,
		Steps:     make([]Step, 0, len(model.Steps)),
	}

	if model.Setup != nil {
		command, err := evaluateCommand(model.Setup.Command, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("cell %s: resolving setup command: %w", cell.ID(), err)
		}
		cell.Setup = command
	}

	for _, step := range model.Steps {
		command, err := evaluateCommand(step.Command, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("cell %s: resolving command of step %q: %w", cell.ID(), step.Name, err)
		}
		cell.Steps = append(cell.Steps, Step{Name: step.Name, Command: command})
	}

	return cell, nil
}

// evaluateCommand resolves a command template into a concrete string.
func evaluateCommand(expr hcl.Expression, evalCtx *hcl.EvalContext) (string, error) {
	if expr == nil {
		return "", errors.New("command expression is missing")
	}

	value, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("evaluating command expression: %s", diags.Error())
	}

	value, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", fmt.Errorf("command must be a string: %w", err)
	}
	if value.IsNull() {
		return "", errors.New("command must not be null")
	}

	return value.AsString(), nil
}
