package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/integrators"
	"github.com/san-kum/paraviz/internal/physics"
	"github.com/san-kum/paraviz/internal/propagate"
)

type methodFactory func(sys dynamo.System, sc config.SolverConfig, tol config.ToleranceConfig) propagate.Propagator

type Registry struct {
	models  map[string]func(config.PendulumConfig) dynamo.System
	methods map[string]methodFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func(config.PendulumConfig) dynamo.System),
		methods: make(map[string]methodFactory),
	}

	r.models["pendulum"] = func(pc config.PendulumConfig) dynamo.System {
		return &physics.DampedPendulum{Damping: pc.Damping, Stiffness: pc.Stiffness}
	}

	r.methods["euler"] = fixed("euler", func() dynamo.Integrator { return integrators.NewEuler() })
	r.methods["rk4"] = fixed("rk4", func() dynamo.Integrator { return integrators.NewRK4() })
	r.methods["verlet"] = fixed("verlet", func() dynamo.Integrator { return integrators.NewVerlet() })
	r.methods["rk45"] = func(sys dynamo.System, sc config.SolverConfig, tol config.ToleranceConfig) propagate.Propagator {
		return propagate.NewAdaptive("rk45", sys, integrators.NewRK45(tol.Rtol, tol.Atol))
	}

	return r
}

func fixed(name string, factory func() dynamo.Integrator) methodFactory {
	return func(sys dynamo.System, sc config.SolverConfig, _ config.ToleranceConfig) propagate.Propagator {
		return propagate.NewFixed(name, sys, factory, sc.Substeps)
	}
}

func (r *Registry) GetModel(name string, pc config.PendulumConfig) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(pc), nil
}

func (r *Registry) GetPropagator(sys dynamo.System, sc config.SolverConfig, tol config.ToleranceConfig) (propagate.Propagator, error) {
	fn, ok := r.methods[sc.Method]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", sc.Method)
	}
	return fn(sys, sc, tol), nil
}

func (r *Registry) ListMethods() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
