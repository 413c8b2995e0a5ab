package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/letterfall/internal/metrics"
	"github.com/san-kum/letterfall/internal/sim"
)

// Registry maps metric names to constructors so runs can pick a subset.
type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func() sim.Metric)}
	r.Register("kinetic_energy", func() sim.Metric { return metrics.NewKineticEnergy() })
	r.Register("peak_energy", func() sim.Metric { return metrics.NewPeakEnergy() })
	r.Register("min_height", func() sim.Metric { return metrics.NewMinHeight() })
	r.Register("resets", func() sim.Metric { return metrics.NewResets() })
	r.Register("impulses", func() sim.Metric { return metrics.NewImpulses() })
	r.Register("ground_reveals", func() sim.Metric { return metrics.NewGroundReveals() })
	r.Register("ground_detaches", func() sim.Metric { return metrics.NewGroundDetaches() })
	return r
}

func (r *Registry) Register(name string, factory func() sim.Metric) {
	r.metrics[name] = factory
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, r.ListMetrics())
	}
	return fn(), nil
}

// Metrics resolves names in order. An empty list selects every metric.
func (r *Registry) Metrics(names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(), nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}
