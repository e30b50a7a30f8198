package loads

import (
	"fmt"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/go-gl/mathgl/mgl64"
)

// UniformOnBeams applies a uniform load per unit length to the beam
// elements of the selection through the element load primitives
type UniformOnBeams struct {
	Base
	Target fe.Selection
	Vector []float64
	Ref    fe.RefSystem
}

func (l UniformOnBeams) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

func (l UniformOnBeams) Apply(p fe.Pattern) ([]*fe.Load, error) {
	if _, _, err := forceMoment(l.Vector); err != nil {
		return nil, err
	}
	kind := fe.UniformGlobal
	if l.Ref == fe.Local {
		kind = fe.UniformLocal
	}
	var out []*fe.Load
	for _, e := range l.Target.Elements() {
		if !e.Type().IsBeam() {
			l.log().Warn("element is not a beam, skipped", "load", l.Label, "element", e.Tag(), "type", e.Type())
			continue
		}
		ld, err := p.NewElementalLoad(e, kind, l.Vector)
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

// UniformOnTrusses lumps a uniform load per unit length on the truss
// elements of the selection as two equal point loads of q·L/2 at the
// element ends
type UniformOnTrusses struct {
	Base
	Target fe.Selection
	Vector []float64 // force per unit length; moments are ignored
	Ref    fe.RefSystem
}

func (l UniformOnTrusses) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

func (l UniformOnTrusses) Apply(p fe.Pattern) ([]*fe.Load, error) {
	q, _, err := forceMoment(l.Vector)
	if err != nil {
		return nil, err
	}
	elems := trusses(l.Target, l.Base)
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: %s has no truss elements", ErrEmptySelection, l.Target.Name())
	}
	var out []*fe.Load
	for _, e := range elems {
		qe := q
		if l.Ref == fe.Local {
			qe = fe.LocalAxes(e).Mul3x1(q)
		}
		ls, err := lumpOnEnds(p, e, qe)
		out = append(out, ls...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func trusses(s fe.Selection, b Base) []fe.Element {
	var out []fe.Element
	for _, e := range s.Elements() {
		if e.Type() != fe.Truss {
			b.log().Warn("element is not a truss, skipped", "load", b.Label, "element", e.Tag(), "type", e.Type())
			continue
		}
		out = append(out, e)
	}
	return out
}

// lumpOnEnds applies q·L/2 to both end nodes of a 1D element
func lumpOnEnds(p fe.Pattern, e fe.Element, q mgl64.Vec3) ([]*fe.Load, error) {
	nodes := e.Nodes()
	half := q.Mul(e.Length() / 2)
	out := make([]*fe.Load, 0, 2)
	for _, n := range []fe.Node{nodes[0], nodes[len(nodes)-1]} {
		ld, err := applyNodal(p, n, half, mgl64.Vec3{})
		if err != nil {
			return out, err
		}
		out = append(out, ld)
	}
	return out, nil
}
