package loads

import (
	"fmt"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/svs"
	"github.com/go-gl/mathgl/mgl64"
)

// Nodal applies the same load vector to every node of the selection
type Nodal struct {
	Base
	Target fe.Selection
	Vector []float64 // force or force+moment, global axes
}

func (l Nodal) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

func (l Nodal) Apply(p fe.Pattern) ([]*fe.Load, error) {
	force, moment, err := forceMoment(l.Vector)
	if err != nil {
		return nil, err
	}
	nodes := l.Target.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s has no nodes", ErrEmptySelection, l.Target.Name())
	}
	out := make([]*fe.Load, 0, len(nodes))
	for _, n := range nodes {
		ld, err := applyNodal(p, n, force, moment)
		if err != nil {
			return out, err
		}
		out = append(out, ld)
	}
	return out, nil
}

// Inertial applies the self weight or any uniform acceleration field to
// the elements of the selection. Each element mass times Acceleration is
// split evenly between its nodes.
type Inertial struct {
	Base
	Target       fe.Selection
	Acceleration mgl64.Vec3
}

func (l Inertial) Scaled(f float64) Descriptor {
	l.Acceleration = l.Acceleration.Mul(f)
	return l
}

func (l Inertial) Apply(p fe.Pattern) ([]*fe.Load, error) {
	elems := l.Target.Elements()
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: %s has no elements", ErrEmptySelection, l.Target.Name())
	}
	var out []*fe.Load
	for _, e := range elems {
		nodes := e.Nodes()
		m := e.Mass()
		if m == 0 || len(nodes) == 0 {
			l.log().Warn("element without mass or nodes, skipped", "load", l.Label, "element", e.Tag(), "mass", m, "nodes", len(nodes))
			continue
		}
		share := l.Acceleration.Mul(m / float64(len(nodes)))
		for _, n := range nodes {
			ld, err := applyNodal(p, n, share, mgl64.Vec3{})
			if err != nil {
				return out, err
			}
			out = append(out, ld)
		}
	}
	return out, nil
}

// SlidingVector distributes a force and moment acting at Origin over an
// explicit node list, keeping the statics of the resultant
type SlidingVector struct {
	Base
	Nodes  []fe.Node
	Origin mgl64.Vec3
	Vector []float64 // force or force+moment
}

func (l SlidingVector) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

func (l SlidingVector) Apply(p fe.Pattern) ([]*fe.Load, error) {
	force, moment, err := forceMoment(l.Vector)
	if err != nil {
		return nil, err
	}
	if len(l.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes for %s", ErrEmptySelection, l.Label)
	}
	return svs.DistributeOnNodes(p, svs.System3d{O: l.Origin, F: force, M: moment}, l.Nodes)
}
