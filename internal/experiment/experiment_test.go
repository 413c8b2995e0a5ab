package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/letterfall/internal/automation"
	"github.com/san-kum/letterfall/internal/config"
)

func shortConfig(variant string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Variant = variant
	cfg.Labels = []string{"Home", "Work"}
	cfg.Duration = 1
	cfg.Seed = 3
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := shortConfig("hinge")
	m, font, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := font.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Built() {
		t.Fatal("expected labels to wait for the first tick")
	}
	m.Tick(cfg.Dt)
	if !m.Built() || m.Variant().Name != "hinge" || len(m.Labels()) != 2 {
		t.Errorf("unexpected menu %s with %d labels", m.Variant().Name, len(m.Labels()))
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := shortConfig("bounce")
	if _, _, err := Build(context.Background(), cfg, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected invalid config, got %v", err)
	}
}

func TestRunBeforeSetup(t *testing.T) {
	e := New(shortConfig("drop"), nil)
	if _, err := e.Run(context.Background()); !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
}

func TestExperimentRun(t *testing.T) {
	script, err := automation.ParseScript([]byte(`
name: strike
events:
  - at: 0.2
    action: click
    label: 0
    letter: 1
`))
	if err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	metrics, err := reg.Metrics([]string{"impulses", "peak_energy"})
	if err != nil {
		t.Fatal(err)
	}

	e := New(shortConfig("sticky"), nil)
	if err := e.Setup(context.Background(), script, metrics); err != nil {
		t.Fatal(err)
	}
	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Metrics["impulses"] != 1 {
		t.Errorf("expected one impulse, got %v", result.Metrics["impulses"])
	}
	if result.Metrics["peak_energy"] <= 0 {
		t.Error("expected the strike to add energy")
	}

	info := e.Info()
	if info.Script != "strike" || info.Variant != "sticky" || info.Seed != 3 {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	names := reg.ListMetrics()
	if len(names) != len(reg.DefaultMetrics()) {
		t.Errorf("registry lists %d metrics, defaults have %d", len(names), len(reg.DefaultMetrics()))
	}
	if _, err := reg.GetMetric("nope"); err == nil {
		t.Error("expected unknown metric error")
	}

	a, _ := reg.GetMetric("resets")
	b, _ := reg.GetMetric("resets")
	if a == b {
		t.Error("expected a fresh metric per lookup")
	}

	all, err := reg.Metrics(nil)
	if err != nil || len(all) != len(names) {
		t.Errorf("expected every metric for an empty selection, got %d (%v)", len(all), err)
	}
}
