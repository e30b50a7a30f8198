// Package track describes a railway track axis: the centreline polyline,
// its rails and the rail chunks left free by a vehicle standing on it.
package track

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/vehicle"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidGauge is returned for a non positive gauge
var ErrInvalidGauge = errors.New("gauge must be positive")

// Side identifies a rail
type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Axis is a track centreline with its gauge and cant
type Axis struct {
	Centerline geom.Polyline3d
	Gauge      float64
	Cant       float64 // height of the outer rail over the inner one
	Logger     *slog.Logger
}

// New creates a track axis through the points
func New(points []mgl64.Vec3, gauge, cant float64) (*Axis, error) {
	return NewWithTolerance(points, gauge, cant, geom.DefaultTolerance)
}

// NewWithTolerance creates a track axis, merging points closer than tol
func NewWithTolerance(points []mgl64.Vec3, gauge, cant, tol float64) (*Axis, error) {
	if gauge <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidGauge, gauge)
	}
	pl, err := geom.NewPolyline3d(points, tol)
	if err != nil {
		return nil, fmt.Errorf("track axis: %w", err)
	}
	return &Axis{Centerline: pl, Gauge: gauge, Cant: cant}, nil
}

func (a *Axis) log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Length returns the length of the centreline
func (a *Axis) Length() float64 {
	return a.Centerline.Length()
}

// planeNormal is the normal the centreline turns counterclockwise about
func (a *Axis) planeNormal() mgl64.Vec3 {
	return a.Centerline.PlaneNormal()
}

// up is the plane normal oriented against gravity
func (a *Axis) up() mgl64.Vec3 {
	n := a.planeNormal()
	if n.Dot(geom.UnitZ) < 0 {
		return n.Mul(-1)
	}
	return n
}

// TurnsRight reports whether the centreline curves clockwise seen from above
func (a *Axis) TurnsRight() bool {
	return a.planeNormal().Dot(geom.UnitZ) < 0
}

// travelFrame returns the frame at arc length s with y to the left of the
// direction of travel and z up. A cant lifts the outer rail; on straight
// track the right rail is taken as the outer one.
func (a *Axis) travelFrame(s float64) geom.Frame {
	x := a.Centerline.TangentAtLength(s)
	f := geom.NewFrame(a.Centerline.PointAtLength(s), x, a.up().Cross(x))
	if a.Cant != 0 {
		tilt := math.Asin(math.Min(1, math.Max(-1, a.Cant/a.Gauge)))
		if !a.TurnsRight() {
			tilt = -tilt
		}
		f = f.RotatedAboutX(tilt)
	}
	return f
}

// VehicleFrameAt returns the frame a vehicle centred at λ ∈ [0,1] moves
// with: x along the tangent toward the end, y to the left, z up
func (a *Axis) VehicleFrameAt(lambda float64) geom.Frame {
	lambda = math.Min(1, math.Max(0, lambda))
	return a.travelFrame(lambda * a.Length())
}

// ReferenceAt returns the track frame at the relative position λ ∈ [0,1]:
// x along the tangent toward the end, y toward the concave side, z = x × y.
// On a right-hand curve z points down; use VehicleFrameAt to place wheels.
func (a *Axis) ReferenceAt(lambda float64) geom.Frame {
	f := a.VehicleFrameAt(lambda)
	if a.TurnsRight() {
		f.Y = f.Y.Mul(-1)
		f.Z = f.Z.Mul(-1)
	}
	return f
}

// RailAxes returns the right and left rails, offset from the centreline by
// half the gauge, on either side of the direction of travel
func (a *Axis) RailAxes() (right, left geom.Polyline3d) {
	n := a.up()
	return a.Centerline.Offset(-a.Gauge/2, n), a.Centerline.Offset(a.Gauge/2, n)
}

// RailChunk is a piece of rail
type RailChunk struct {
	Side     Side
	Polyline geom.Polyline3d
}

// RailChunks returns the rail pieces free of the vehicle standing with its
// centre at relative position *pos. A nil position returns both full
// rails. Pieces are cut by the planes normal to the track at the vehicle
// ends; a piece whose plane misses the rail is dropped.
func (a *Axis) RailChunks(loco vehicle.Locomotive, pos *float64) []RailChunk {
	right, left := a.RailAxes()
	if pos == nil {
		return []RailChunk{{Side: Right, Polyline: right}, {Side: Left, Polyline: left}}
	}
	s := math.Min(1, math.Max(0, *pos)) * a.Length()
	half := loco.FootprintLength() / 2
	back := a.cutPlane(s - half)
	front := a.cutPlane(s + half)

	var out []RailChunk
	counts := map[Side]int{}
	for _, rail := range []RailChunk{{Right, right}, {Left, left}} {
		if c, ok := a.behind(rail.Polyline, back); ok {
			out = append(out, RailChunk{Side: rail.Side, Polyline: c})
			counts[rail.Side]++
		}
		if c, ok := a.ahead(rail.Polyline, front); ok {
			out = append(out, RailChunk{Side: rail.Side, Polyline: c})
			counts[rail.Side]++
		}
	}
	if counts[Right] != counts[Left] {
		a.log().Warn("rails have different number of free chunks",
			"right", counts[Right], "left", counts[Left], "position", *pos)
	}
	return out
}

// cutPlane returns the plane normal to the track at arc length s,
// extrapolating the end tangents beyond the centreline
func (a *Axis) cutPlane(s float64) geom.Plane {
	l := a.Length()
	sc := math.Min(l, math.Max(0, s))
	t := a.Centerline.TangentAtLength(sc)
	o := a.Centerline.PointAtLength(sc).Add(t.Mul(s - sc))
	return geom.Plane{Origin: o, Normal: t}
}

// behind keeps the part of the rail before its first crossing with the plane
func (a *Axis) behind(rail geom.Polyline3d, pl geom.Plane) (geom.Polyline3d, bool) {
	params := rail.IntersectPlane(pl)
	if len(params) == 0 {
		return geom.Polyline3d{}, false
	}
	c, ok := rail.Sub(0, params[0])
	if !ok || pl.SignedDistance(c.PointAtLength(c.Length()/2)) > 0 {
		return geom.Polyline3d{}, false
	}
	return c, true
}

// ahead keeps the part of the rail after its last crossing with the plane
func (a *Axis) ahead(rail geom.Polyline3d, pl geom.Plane) (geom.Polyline3d, bool) {
	params := rail.IntersectPlane(pl)
	if len(params) == 0 {
		return geom.Polyline3d{}, false
	}
	c, ok := rail.Sub(params[len(params)-1], rail.Length())
	if !ok || pl.SignedDistance(c.PointAtLength(c.Length()/2)) < 0 {
		return geom.Polyline3d{}, false
	}
	return c, true
}
