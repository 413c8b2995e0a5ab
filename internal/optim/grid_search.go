// Package optim sweeps variant overrides over a grid and ranks the runs by a
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/letterfall/internal/config"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// Params lists the overrides a sweep may vary.
var Params = []string{
	"force", "total_mass", "linear_damping", "angular_damping", "friction",
	"cone_angle", "detach_delay", "fade_seconds", "reset_below_y", "gravity",
}

// Apply writes params into cfg's overrides.
func Apply(cfg *config.Config, params map[string]float64) error {
	o := &cfg.Overrides
	for name, v := range params {
		switch name {
		case "force":
			o.Force = &v
		case "total_mass":
			o.TotalMass = &v
		case "linear_damping":
			o.LinearDamping = &v
		case "angular_damping":
			o.AngularDamping = &v
		case "friction":
			o.Friction = &v
		case "cone_angle":
			o.ConeAngle = &v
		case "detach_delay":
			o.DetachDelay = &v
		case "fade_seconds":
			o.FadeSeconds = &v
		case "reset_below_y":
			o.ResetBelowY = &v
		case "gravity":
			cfg.Gravity = v
		default:
			return fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	return nil
}

// ParseRange reads "name=v1,v2,..." into a parameter name and its values.
func ParseRange(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("optim: expected name=v1,v2,... got %q", s)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("optim: %s: %w", name, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

// Trial is one point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// RunFunc runs one configuration and returns its metrics.
type RunFunc func(ctx context.Context, params map[string]float64) (map[string]float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if !known(name) {
			return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownParam, name, Params)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: %s has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func known(name string) bool {
	for _, p := range Params {
		if p == name {
			return true
		}
	}
	return false
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point and returns the trials ranked best first.
// Failed trials sort last. It stops early when ctx is cancelled.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string, maximize bool) ([]Trial, error) {
	trials := make([]Trial, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), run, metricName, &trials); err != nil {
		return nil, err
	}

	score := func(t Trial) float64 {
		switch {
		case t.Err != nil || math.IsNaN(t.Value):
			return math.Inf(1)
		case maximize:
			return -t.Value
		default:
			return t.Value
		}
	}
	sort.SliceStable(trials, func(i, j int) bool { return score(trials[i]) < score(trials[j]) })
	return trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		trial := Trial{Params: params}
		metrics, err := run(ctx, params)
		if err != nil {
			trial.Err = err
		} else if v, ok := metrics[metricName]; ok {
			trial.Value = v
		} else {
			trial.Err = fmt.Errorf("optim: run did not record %s", metricName)
		}
		*trials = append(*trials, trial)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, run, metricName, trials); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}
