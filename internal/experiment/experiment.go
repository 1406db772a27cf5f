package experiment

import (
	"context"
	"fmt"

	"github.com/go-kit/log"

	"github.com/san-kum/paraviz/internal/config"
	"github.com/san-kum/paraviz/internal/dynamo"
	"github.com/san-kum/paraviz/internal/parareal"
)

// Experiment wires a validated config to a parareal solver.
type Experiment struct {
	cfg    *config.Config
	sys    dynamo.System
	solver *parareal.Solver
}

func New(cfg *config.Config, logger log.Logger) (*Experiment, error) {
	return NewWithRegistry(NewRegistry(), cfg, logger)
}

func NewWithRegistry(reg *Registry, cfg *config.Config, logger log.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sys, err := reg.GetModel("pendulum", cfg.Pendulum)
	if err != nil {
		return nil, err
	}

	coarse, err := reg.GetPropagator(sys, cfg.Coarse, cfg.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("coarse: %w", err)
	}
	fine, err := reg.GetPropagator(sys, cfg.Fine, cfg.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("fine: %w", err)
	}
	exact, err := reg.GetPropagator(sys, cfg.Exact, cfg.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("exact: %w", err)
	}

	mode, err := parareal.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	solver, err := parareal.NewSolver(coarse, fine, exact, parareal.Options{
		Horizon:       cfg.Horizon,
		Intervals:     cfg.Intervals,
		Iterations:    cfg.Iterations,
		Initial:       dynamo.State(cfg.InitialState()),
		Mode:          mode,
		CoarseSamples: cfg.Coarse.Samples,
		FineSamples:   cfg.Fine.Samples,
		ExactSamples:  cfg.Exact.Samples,
		Workers:       cfg.Workers,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Experiment{cfg: cfg, sys: sys, solver: solver}, nil
}

func (e *Experiment) Run(ctx context.Context) (*parareal.Run, error) {
	return e.solver.Run(ctx)
}

func (e *Experiment) System() dynamo.System { return e.sys }

func (e *Experiment) Config() *config.Config { return e.cfg }
