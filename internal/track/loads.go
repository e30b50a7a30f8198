package track

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/spread"
	"github.com/alexiusacademia/gorail/internal/vehicle"
	"github.com/go-gl/mathgl/mgl64"
)

// RailLoad is a load per unit length on a rail chunk. The direction may
// change from one chunk segment to the next.
type RailLoad struct {
	Chunk                geom.Polyline3d
	Side                 Side
	Directions           []mgl64.Vec3 // unit direction of each chunk segment
	Magnitude            float64      // N/m before factors
	DynamicFactor        float64
	ClassificationFactor float64
}

func orOne(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

// Intensity returns the factored load per unit length
func (r RailLoad) Intensity() float64 {
	return r.Magnitude * orOne(r.DynamicFactor) * orOne(r.ClassificationFactor)
}

// SegmentLoad returns the factored load vector per unit length on segment i
func (r RailLoad) SegmentLoad(i int) mgl64.Vec3 {
	return r.Directions[i].Mul(r.Intensity())
}

// Resultant returns the total factored force of the load
func (r RailLoad) Resultant() mgl64.Vec3 {
	var f mgl64.Vec3
	for i, l := range r.Chunk.SegmentLengths() {
		f = f.Add(r.SegmentLoad(i).Mul(l))
	}
	return f
}

// railLoads builds one load per free chunk with the direction computed per segment
func (a *Axis) railLoads(loco vehicle.Locomotive, pos *float64, magnitude func(Side) float64,
	direction func(tangent mgl64.Vec3) mgl64.Vec3, dynamic, classification float64) []RailLoad {
	var out []RailLoad
	for _, c := range a.RailChunks(loco, pos) {
		m := magnitude(c.Side)
		if m == 0 {
			continue
		}
		dirs := make([]mgl64.Vec3, c.Polyline.NumVertices()-1)
		for i := range dirs {
			dirs[i] = direction(c.Polyline.SegmentDirection(i))
		}
		out = append(out, RailLoad{
			Chunk:                c.Polyline,
			Side:                 c.Side,
			Directions:           dirs,
			Magnitude:            m,
			DynamicFactor:        dynamic,
			ClassificationFactor: classification,
		})
	}
	return out
}

// outward returns the horizontal direction away from the curve centre for
// a segment of tangent t
func (a *Axis) outward(t mgl64.Vec3) mgl64.Vec3 {
	return geom.Unit(t.Cross(a.planeNormal()))
}

// UniformLoads returns a uniform load q (N/m, global) on every free chunk,
// with the dynamic and classification factors of the vehicle
func (a *Axis) UniformLoads(loco vehicle.Locomotive, pos *float64, q mgl64.Vec3) []RailLoad {
	d := geom.Unit(q)
	return a.railLoads(loco, pos,
		func(Side) float64 { return q.Len() },
		func(mgl64.Vec3) mgl64.Vec3 { return d },
		loco.DynamicFactor, loco.ClassificationFactor)
}

// CentrifugalLoads returns the centrifugal loads on the right and left
// rails, pointing away from the curve centre. They carry the
// classification factor only.
func (a *Axis) CentrifugalLoads(loco vehicle.Locomotive, pos *float64, qRight, qLeft float64) []RailLoad {
	return a.railLoads(loco, pos,
		func(s Side) float64 { return bySide(s, qRight, qLeft) },
		a.outward, 1, loco.ClassificationFactor)
}

// BrakingLoads returns the braking (q < 0) or traction loads along the
// rail tangents
func (a *Axis) BrakingLoads(loco vehicle.Locomotive, pos *float64, q float64) []RailLoad {
	sign := 1.0
	if q < 0 {
		sign = -1
	}
	return a.railLoads(loco, pos,
		func(Side) float64 { return math.Abs(q) },
		func(t mgl64.Vec3) mgl64.Vec3 { return t.Mul(sign) },
		1, loco.ClassificationFactor)
}

// WindLoads returns the wind loads on the rails, lateral and positive
// toward the right of the track
func (a *Axis) WindLoads(loco vehicle.Locomotive, pos *float64, qRight, qLeft float64) []RailLoad {
	return a.railLoads(loco, pos,
		func(s Side) float64 { return bySide(s, qRight, qLeft) },
		func(t mgl64.Vec3) mgl64.Vec3 { return geom.Unit(t.Cross(geom.UnitZ)) },
		1, 1)
}

func bySide(s Side, right, left float64) float64 {
	if s == Left {
		return left
	}
	return right
}

// ApplyOnDeck spreads the rail loads onto a deck, segment by segment, in
// pieces of at most step length
func ApplyOnDeck(p fe.Pattern, deck spread.Deck, rls []RailLoad, step float64) ([]*fe.Load, error) {
	var out []*fe.Load
	for k, r := range rls {
		for i := 0; i+1 < r.Chunk.NumVertices(); i++ {
			seg := geom.Polyline3d{Vertices: r.Chunk.Vertices[i : i+2]}
			ls, err := deck.UniformLoad(p, seg, r.SegmentLoad(i), step)
			out = append(out, ls...)
			if err != nil {
				return out, fmt.Errorf("%s rail load %d: %w", r.Side, k, err)
			}
		}
	}
	return out, nil
}

// ApplyOnBackfill applies the rail loads as surcharges on the wall behind
// the backfill. width is the loaded width across each rail at rail level.
func ApplyOnBackfill(p fe.Pattern, b spread.Backfill, name string, rls []RailLoad, width float64) ([]*fe.Load, error) {
	nodes := b.Wall.Nodes()
	pts := make([]mgl64.Vec3, len(nodes))
	for i, n := range nodes {
		pts[i] = n.InitialPos3d()
	}
	wall, _, err := geom.FitPlane(pts)
	if err != nil {
		return nil, fmt.Errorf("wall %s: %w", b.Wall.Name(), err)
	}
	lls := make([]spread.LineLoad, 0, len(rls))
	for _, r := range rls {
		l := r.Chunk.Length()
		if l == 0 {
			continue
		}
		f := r.Resultant().Mul(1 / l)
		horizontal := geom.Perpendicular(f, geom.UnitZ)
		lls = append(lls, spread.LineLoad{
			Vertical:   -f.Z(),
			Horizontal: math.Abs(horizontal.Dot(wall.Normal)),
			DistWall:   math.Abs(wall.SignedDistance(r.Chunk.PointAtLength(l / 2))),
			Width:      width,
			Length:     l,
		})
	}
	return b.Apply(p, name, lls)
}
