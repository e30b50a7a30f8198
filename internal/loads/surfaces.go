package loads

import (
	"fmt"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/svs"
	"github.com/go-gl/mathgl/mgl64"
)

// UniformOnSurfaces applies a uniform load per unit area to the shell
// elements of the selection surfaces, and to any shell listed directly
type UniformOnSurfaces struct {
	Base
	Target fe.Selection
	Vector []float64
	Ref    fe.RefSystem
}

func (l UniformOnSurfaces) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

func (l UniformOnSurfaces) Apply(p fe.Pattern) ([]*fe.Load, error) {
	if _, _, err := forceMoment(l.Vector); err != nil {
		return nil, err
	}
	kind := fe.UniformGlobal
	if l.Ref == fe.Local {
		kind = fe.UniformLocal
	}
	shells := shellsOf(l.Target, l.Base)
	if len(shells) == 0 {
		return nil, fmt.Errorf("%w: %s has no shell elements", ErrEmptySelection, l.Target.Name())
	}
	out := make([]*fe.Load, 0, len(shells))
	for _, e := range shells {
		ld, err := p.NewElementalLoad(e, kind, l.Vector)
		if err != nil {
			return out, err
		}
		out = append(out, ld)
	}
	return out, nil
}

// shellsOf collects the shells of the selection surfaces and elements, once each
func shellsOf(s fe.Selection, b Base) []fe.Element {
	seen := make(map[int]bool)
	var out []fe.Element
	add := func(e fe.Element) {
		if seen[e.Tag()] {
			return
		}
		seen[e.Tag()] = true
		if e.Type() != fe.Shell {
			b.log().Warn("element is not a shell, skipped", "load", b.Label, "element", e.Tag(), "type", e.Type())
			return
		}
		out = append(out, e)
	}
	for _, srf := range s.Surfaces() {
		for _, e := range srf.Elements() {
			add(e)
		}
	}
	for _, e := range s.Elements() {
		add(e)
	}
	return out
}

// UnifOnSurfNodesDistributed turns a uniform load per unit area on each
// surface into its resultant at the surface centroid and distributes it
// over every node of the surface
type UnifOnSurfNodesDistributed struct {
	Base
	Target fe.Selection
	Vector []float64
}

func (l UnifOnSurfNodesDistributed) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

func (l UnifOnSurfNodesDistributed) Apply(p fe.Pattern) ([]*fe.Load, error) {
	force, moment, err := forceMoment(l.Vector)
	if err != nil {
		return nil, err
	}
	surfaces := l.Target.Surfaces()
	if len(surfaces) == 0 {
		return nil, fmt.Errorf("%w: %s has no surfaces", ErrEmptySelection, l.Target.Name())
	}
	var out []*fe.Load
	for i, srf := range surfaces {
		a := srf.Area()
		if a <= 0 {
			l.log().Warn("surface has no area, skipped", "load", l.Label, "surface", i)
			continue
		}
		s := svs.System3d{O: srf.Centroid(), F: force.Mul(a), M: moment.Mul(a)}
		ls, err := svs.DistributeOnNodes(p, s, srf.Nodes())
		out = append(out, ls...)
		if err != nil {
			return out, fmt.Errorf("surface %d: %w", i, err)
		}
	}
	return out, nil
}

// PointOverShellElems spreads a point load over the shells whose centroid
// lies inside a prism, as a uniform pressure |F| / ΣA along F
type PointOverShellElems struct {
	Base
	Target fe.Selection
	Prism  geom.Ring // load contact area
	Axis   geom.Axis // extrusion direction of the prism
	Vector []float64 // force
}

// RectangleRing returns the lx×ly rectangle centred on c
func RectangleRing(c mgl64.Vec2, lx, ly float64) geom.Ring {
	hx, hy := lx/2, ly/2
	return geom.NewRing([]mgl64.Vec2{
		{c.X() - hx, c.Y() - hy},
		{c.X() + hx, c.Y() - hy},
		{c.X() + hx, c.Y() + hy},
		{c.X() - hx, c.Y() + hy},
	})
}

func (l PointOverShellElems) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

// Inside returns the shells of the target whose centroid falls inside the prism
func (l PointOverShellElems) Inside() []fe.Element {
	var out []fe.Element
	for _, e := range shellsOf(l.Target, l.Base) {
		if l.Prism.PrismContains(e.Centroid(), l.Axis) {
			out = append(out, e)
		}
	}
	return out
}

func (l PointOverShellElems) Apply(p fe.Pattern) ([]*fe.Load, error) {
	force, _, err := forceMoment(l.Vector)
	if err != nil {
		return nil, err
	}
	elems := l.Inside()
	var area float64
	for _, e := range elems {
		area += e.Area()
	}
	if len(elems) == 0 || area <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoElementsInPrism, l.Label)
	}
	pressure := geom.Unit(force).Mul(force.Len() / area)
	out := make([]*fe.Load, 0, len(elems))
	for _, e := range elems {
		ld, err := p.NewElementalLoad(e, fe.UniformGlobal, vecSlice(pressure))
		if err != nil {
			return out, err
		}
		out = append(out, ld)
	}
	return out, nil
}
