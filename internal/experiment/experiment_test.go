package experiment

import (
	"context"
	"slices"
	"testing"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/dynamo"
)

func TestRegistryCoversConfigMethods(t *testing.T) {
	reg := NewRegistry()
	got := reg.ListMethods()
	if !slices.Equal(got, config.Methods) {
		t.Errorf("ListMethods() = %v, want %v", got, config.Methods)
	}

	sys, err := reg.GetModel("pendulum", config.PendulumConfig{Damping: 0.1, Stiffness: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range got {
		p, err := reg.GetPropagator(sys, config.SolverConfig{Method: m, Samples: 10}, config.ToleranceConfig{})
		if err != nil {
			t.Fatalf("GetPropagator(%s): %v", m, err)
		}
		if p.Name() != m {
			t.Errorf("Name() = %s, want %s", p.Name(), m)
		}
	}
}

func TestRegistryUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.GetModel("lorenz", config.PendulumConfig{}); err == nil {
		t.Error("expected error for unknown model")
	}
	sys, _ := reg.GetModel("pendulum", config.PendulumConfig{})
	if _, err := reg.GetPropagator(sys, config.SolverConfig{Method: "rk9"}, config.ToleranceConfig{}); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestExperimentRun(t *testing.T) {
	for _, name := range config.ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := config.GetPreset(name)
			exp, err := New(cfg, nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			run, err := exp.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if len(run.Iterations) != cfg.Iterations {
				t.Errorf("iterations = %d, want %d", len(run.Iterations), cfg.Iterations)
			}
			if !run.Final()[0].Equal(dynamo.State(cfg.InitialState())) {
				t.Errorf("boundary 0 = %v, want %v", run.Final()[0], cfg.InitialState())
			}
		})
	}
}

func TestExperimentRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Intervals = 0
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected validation error")
	}
}
