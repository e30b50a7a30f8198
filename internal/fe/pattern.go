package fe

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// LoadTarget tells whether a load acts on a node or on an element
type LoadTarget int

const (
	OnNode LoadTarget = iota
	OnElement
)

// Load is the handle of a load created in a pattern
type Load struct {
	ID      string
	Pattern string
	Target  LoadTarget
	Tag     int               // node or element tag
	Kind    ElementalLoadKind // elemental loads only
	Vector  []float64
}

// LoadPattern is the in-memory Pattern. Loads are kept in creation order.
type LoadPattern struct {
	name  string
	loads []*Load
	nodes map[int]Node
	elems map[int]Element
}

// NewLoadPattern creates an empty load pattern
func NewLoadPattern(name string) *LoadPattern {
	return &LoadPattern{
		name:  name,
		nodes: make(map[int]Node),
		elems: make(map[int]Element),
	}
}

// Name returns the pattern name
func (p *LoadPattern) Name() string { return p.name }

// Loads returns the loads in creation order
func (p *LoadPattern) Loads() []*Load { return p.loads }

// NewNodalLoad appends a load vector to node n
func (p *LoadPattern) NewNodalLoad(n Node, v []float64) (*Load, error) {
	if len(v) != n.NumDOF() {
		return nil, fmt.Errorf("node %d: load vector has %d components, node has %d DOF", n.Tag(), len(v), n.NumDOF())
	}
	l := &Load{
		ID:      uuid.NewString(),
		Pattern: p.name,
		Target:  OnNode,
		Tag:     n.Tag(),
		Vector:  append([]float64(nil), v...),
	}
	p.nodes[n.Tag()] = n
	p.loads = append(p.loads, l)
	return l, nil
}

// NewElementalLoad appends an elemental load to element e
func (p *LoadPattern) NewElementalLoad(e Element, kind ElementalLoadKind, v []float64) (*Load, error) {
	if kind != Strain && len(v) == 0 {
		return nil, fmt.Errorf("element %d: empty %s load vector", e.Tag(), kind)
	}
	l := &Load{
		ID:      uuid.NewString(),
		Pattern: p.name,
		Target:  OnElement,
		Tag:     e.Tag(),
		Kind:    kind,
		Vector:  append([]float64(nil), v...),
	}
	p.elems[e.Tag()] = e
	p.loads = append(p.loads, l)
	return l, nil
}

// NodalTotals returns the sum of the nodal load vectors per node tag
func (p *LoadPattern) NodalTotals() map[int][]float64 {
	totals := make(map[int][]float64)
	for _, l := range p.loads {
		if l.Target != OnNode {
			continue
		}
		t, ok := totals[l.Tag]
		if !ok {
			t = make([]float64, len(l.Vector))
			totals[l.Tag] = t
		}
		for i, c := range l.Vector {
			t[i] += c
		}
	}
	return totals
}

// equivalent returns the position, force and moment of a load, replacing
// uniform elemental loads by their resultant at the element centroid.
func (p *LoadPattern) equivalent(l *Load) (pos, force, moment mgl64.Vec3, ok bool) {
	switch l.Target {
	case OnNode:
		n := p.nodes[l.Tag]
		m, err := NodeModel(n)
		if err != nil {
			return pos, force, moment, false
		}
		force, moment = SplitVector(m, l.Vector)
		return n.InitialPos3d(), force, moment, true
	default:
		e := p.elems[l.Tag]
		if l.Kind == Strain || len(l.Vector) < 2 {
			return pos, force, moment, false
		}
		q := mgl64.Vec3{l.Vector[0], l.Vector[1]}
		if len(l.Vector) > 2 {
			q[2] = l.Vector[2]
		}
		if l.Kind == UniformLocal {
			q = LocalAxes(e).Mul3x1(q)
		}
		measure := e.Length()
		if e.Type() == Shell {
			measure = e.Area()
		}
		return e.Centroid(), q.Mul(measure), mgl64.Vec3{}, true
	}
}

// ResultantForce returns the sum of all forces in the pattern, uniform
// elemental loads included
func (p *LoadPattern) ResultantForce() mgl64.Vec3 {
	var f mgl64.Vec3
	for _, l := range p.loads {
		if _, force, _, ok := p.equivalent(l); ok {
			f = f.Add(force)
		}
	}
	return f
}

// ResultantMoment returns the moment of all loads in the pattern about o
func (p *LoadPattern) ResultantMoment(o mgl64.Vec3) mgl64.Vec3 {
	var m mgl64.Vec3
	for _, l := range p.loads {
		if pos, force, moment, ok := p.equivalent(l); ok {
			m = m.Add(pos.Sub(o).Cross(force)).Add(moment)
		}
	}
	return m
}

// LocalAxes returns the matrix whose columns are the element local axes.
// 1D elements: x along the axis, y along Normal. Shells: z along the normal.
func LocalAxes(e Element) mgl64.Mat3 {
	x, n := e.Axis(), e.Normal()
	if e.Type() == Shell {
		return mgl64.Mat3FromCols(x, n.Cross(x), n)
	}
	return mgl64.Mat3FromCols(x, n, x.Cross(n))
}
