package loads

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gorail/internal/earth"
	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// EarthPressure applies a set of backfill pressure models on the shells of
// a wall. Each model loads every shell with its pressure at the shell
// centroid elevation, along Direction.
type EarthPressure struct {
	Base
	Target    fe.Selection
	Models    []earth.Pressure
	Direction mgl64.Vec3 // pushes from the backfill into the wall
	Factor    float64    // 0 is read as 1
}

func (l EarthPressure) factor() float64 {
	if l.Factor == 0 {
		return 1
	}
	return l.Factor
}

func (l EarthPressure) Scaled(f float64) Descriptor {
	l.Factor = l.factor() * f
	return l
}

func (l EarthPressure) Apply(p fe.Pattern) ([]*fe.Load, error) {
	if len(l.Models) == 0 {
		l.log().Warn("earth pressure without models", "load", l.Label)
		return nil, nil
	}
	shells := shellsOf(l.Target, l.Base)
	if len(shells) == 0 {
		return nil, fmt.Errorf("%w: %s has no shell elements", ErrEmptySelection, l.Target.Name())
	}
	d := geom.Unit(l.Direction)
	var out []*fe.Load
	for _, m := range l.Models {
		for _, e := range shells {
			pr := m.At(e.Centroid().Z()) * l.factor()
			if pr == 0 {
				continue
			}
			ld, err := p.NewElementalLoad(e, fe.UniformGlobal, vecSlice(d.Mul(pr)))
			if err != nil {
				return out, fmt.Errorf("%s pressure: %w", m.Name(), err)
			}
			out = append(out, ld)
		}
	}
	return out, nil
}

// Magnitude returns the largest model pressure at the lowest node of the target
func (l EarthPressure) Magnitude() float64 {
	zmin := math.Inf(1)
	for _, n := range l.Target.Nodes() {
		zmin = math.Min(zmin, n.InitialPos3d().Z())
	}
	if math.IsInf(zmin, 1) {
		return 0
	}
	return earth.Max(l.Models, zmin) * l.factor()
}
