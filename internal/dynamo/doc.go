// Package dynamo provides core numerical primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// integrators, the propagators and the Parareal core:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator] and [AdaptiveIntegrator]: single-step schemes
//   - [Trajectory]: ordered (time, state) samples produced by integration
//
// # Example
//
//	sys := physics.NewDampedPendulum()
//	integ := integrators.NewRK4()
//	x := integ.Step(sys, dynamo.State{1, 0}, 0, 0.01)
//
// # Immutability
//
// A [Trajectory] is never modified after it is returned. Callers that need
// to change a state clone it first with [State.Clone].
package dynamo
