// Package physics provides the dynamical system models animated by paraviz.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [DampedPendulum]: y'' = -c*y' - k*sin(y), defaults c=0.1, k=1
//
// Models also implement [dynamo.Configurable] for parameter adjustment and
// [dynamo.Hamiltonian] for energy calculation:
//
//	var dyn dynamo.System = physics.NewDampedPendulum()
//	if h, ok := dyn.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
