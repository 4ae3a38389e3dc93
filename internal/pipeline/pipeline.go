// Pipeline runs a YAML described list of filters and adjustments over a bitmap
package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/knetic/govaluate"
	"gopkg.in/yaml.v2"

	"github.com/anas-shakeel/bmp24/internal/bmp"
)

type Job struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Steps  []Step `yaml:"steps"`
}

// A single operation. Every key besides "op" is a parameter; numeric
// parameters are expressions over the current `width` and `height`.
type Step struct {
	Op     string                 `yaml:"op"`
	Params map[string]interface{} `yaml:",inline"`
}

// Reads a job file. Relative input and output paths are resolved against
// the directory holding the job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file '%s': %w", path, err)
	}

	job, err := ParseJob(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job file '%s': %w", path, err)
	}

	dir := filepath.Dir(path)
	if job.Input != "" && !filepath.IsAbs(job.Input) {
		job.Input = filepath.Join(dir, job.Input)
	}
	if job.Output != "" && !filepath.IsAbs(job.Output) {
		job.Output = filepath.Join(dir, job.Output)
	}
	return job, nil
}

func ParseJob(data []byte) (*Job, error) {
	var job Job
	if err := yaml.UnmarshalStrict(data, &job); err != nil {
		return nil, err
	}
	if job.Input == "" {
		return nil, fmt.Errorf("job has no input")
	}
	if job.Output == "" {
		return nil, fmt.Errorf("job has no output")
	}
	for i, s := range job.Steps {
		if _, ok := operations[s.Op]; !ok {
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, s.Op)
		}
	}
	return &job, nil
}

// Loads the input, applies every step and saves the result
func (j *Job) Run() error {
	img, err := bmp.LoadFile(j.Input)
	if err != nil {
		return err
	}

	img, err = Apply(img, j.Steps)
	if err != nil {
		return err
	}

	if err := bmp.SaveFile(j.Output, img); err != nil {
		return err
	}
	slog.Info("job finished", "input", j.Input, "output", j.Output, "steps", len(j.Steps))
	return nil
}

// Applies steps in order and returns the resulting image. img itself may be
// modified by in-place steps.
func Apply(img *bmp.Image, steps []Step) (*bmp.Image, error) {
	for i, s := range steps {
		op, ok := operations[s.Op]
		if !ok {
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, s.Op)
		}

		out, err := op(img, params{step: s, width: img.Width(), height: img.Height()})
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
		slog.Debug("applied step", "step", i+1, "op", s.Op, "width", out.Width(), "height", out.Height())
		img = out
	}
	return img, nil
}

type params struct {
	step          Step
	width, height int
}

func (p params) str(name, def string) string {
	v, ok := p.step.Params[name]
	if !ok || v == nil {
		return def
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Evaluates a numeric parameter. def is used when the parameter is absent.
func (p params) num(name, def string) (float64, error) {
	expr := p.str(name, def)
	if expr == "" {
		return 0, fmt.Errorf("missing parameter %q", name)
	}

	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, expressionFunctions)
	if err != nil {
		return 0, fmt.Errorf("invalid expression for %s %q: %w", name, expr, err)
	}
	res, err := e.Evaluate(map[string]interface{}{
		"width":  float64(p.width),
		"height": float64(p.height),
	})
	if err != nil {
		return 0, fmt.Errorf("cannot evaluate %s %q: %w", name, expr, err)
	}

	f, ok := res.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s %q is not a number (got %v)", name, expr, res)
	}
	return f, nil
}

func (p params) has(name string) bool {
	v, ok := p.step.Params[name]
	return ok && v != nil
}

func (p params) integer(name, def string) (int, error) {
	f, err := p.num(name, def)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(f)), nil
}

var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"min": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("min expects 2 arguments, got %d", len(args))
		}
		a, aok := args[0].(float64)
		b, bok := args[1].(float64)
		if !aok || !bok {
			return nil, fmt.Errorf("min expects numbers")
		}
		return math.Min(a, b), nil
	},
	"max": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("max expects 2 arguments, got %d", len(args))
		}
		a, aok := args[0].(float64)
		b, bok := args[1].(float64)
		if !aok || !bok {
			return nil, fmt.Errorf("max expects numbers")
		}
		return math.Max(a, b), nil
	},
}
