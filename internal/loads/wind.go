package loads

import (
	"fmt"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Wind is the wind action common to the member and shell variants
type Wind struct {
	Base
	Target    fe.Selection
	Pressure  float64    // dynamic pressure q (Pa)
	Direction mgl64.Vec3 // wind direction, normalised on use
}

// memberLoad returns the wind load per unit length on a member of axis t
// and exposed width w: q·w·d⊥
func (w Wind) memberLoad(t mgl64.Vec3, width float64) mgl64.Vec3 {
	d := geom.Unit(w.Direction)
	return geom.Perpendicular(d, t).Mul(w.Pressure * width)
}

// WindOnBeams applies the wind on the beam elements as global uniform loads
type WindOnBeams struct {
	Wind
	Width float64 // exposed width of the members
}

func (l WindOnBeams) Scaled(f float64) Descriptor {
	l.Pressure *= f
	return l
}

func (l WindOnBeams) Apply(p fe.Pattern) ([]*fe.Load, error) {
	var out []*fe.Load
	for _, e := range l.Target.Elements() {
		if !e.Type().IsBeam() {
			l.log().Warn("element is not a beam, skipped", "load", l.Label, "element", e.Tag())
			continue
		}
		q := l.memberLoad(e.Axis(), l.Width)
		ld, err := p.NewElementalLoad(e, fe.UniformGlobal, vecSlice(q))
		if err != nil {
			return out, err
		}
		out = append(out, ld)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s has no beam elements", ErrEmptySelection, l.Target.Name())
	}
	return out, nil
}

// WindOnTrusses lumps the wind on the truss elements onto their end nodes
type WindOnTrusses struct {
	Wind
	Width float64
}

func (l WindOnTrusses) Scaled(f float64) Descriptor {
	l.Pressure *= f
	return l
}

func (l WindOnTrusses) Apply(p fe.Pattern) ([]*fe.Load, error) {
	elems := trusses(l.Target, l.Base)
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: %s has no truss elements", ErrEmptySelection, l.Target.Name())
	}
	var out []*fe.Load
	for _, e := range elems {
		ls, err := lumpOnEnds(p, e, l.memberLoad(e.Axis(), l.Width))
		out = append(out, ls...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// WindOnShells applies the normal component of the wind pressure,
// q·(d·n) along n, on the shell elements
type WindOnShells struct {
	Wind
}

func (l WindOnShells) Scaled(f float64) Descriptor {
	l.Pressure *= f
	return l
}

func (l WindOnShells) Apply(p fe.Pattern) ([]*fe.Load, error) {
	shells := shellsOf(l.Target, l.Base)
	if len(shells) == 0 {
		return nil, fmt.Errorf("%w: %s has no shell elements", ErrEmptySelection, l.Target.Name())
	}
	d := geom.Unit(l.Direction)
	var out []*fe.Load
	for _, e := range shells {
		n := e.Normal()
		q := n.Mul(l.Pressure * d.Dot(n))
		ld, err := p.NewElementalLoad(e, fe.UniformGlobal, vecSlice(q))
		if err != nil {
			return out, err
		}
		out = append(out, ld)
	}
	return out, nil
}
