package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/paraviz/internal/dynamo"
)

const (
	DefaultDamping   = 0.1
	DefaultStiffness = 1.0
)

// DampedPendulum is the unforced pendulum y'' = -c*y' - k*sin(y) written as a
// first-order system over (position, velocity).
type DampedPendulum struct {
	Damping   float64
	Stiffness float64
}

func NewDampedPendulum() *DampedPendulum {
	return &DampedPendulum{
		Damping:   DefaultDamping,
		Stiffness: DefaultStiffness,
	}
}

func (p *DampedPendulum) StateDim() int {
	return 2
}

func (p *DampedPendulum) Derive(x dynamo.State, t float64) dynamo.State {
	y := x[0]
	v := x[1]
	return dynamo.State{v, -p.Damping*v - p.Stiffness*math.Sin(y)}
}

func (p *DampedPendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * v^2
	// PE = k * (1 - cos(y))
	v := x[1]
	return 0.5*v*v + p.Stiffness*(1.0-math.Cos(x[0]))
}

func (p *DampedPendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"damping":   p.Damping,
		"stiffness": p.Stiffness,
	}
}

func (p *DampedPendulum) SetParam(name string, value float64) error {
	switch name {
	case "damping":
		p.Damping = value
	case "stiffness":
		p.Stiffness = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
