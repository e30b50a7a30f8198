package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Axis identifies a global coordinate axis
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Ring is a closed planar polygon
type Ring struct {
	orb.Ring
}

// NewRing creates a ring from 2D vertices, closing it if needed
func NewRing(vertices []mgl64.Vec2) Ring {
	r := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		r = append(r, orb.Point{v.X(), v.Y()})
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return Ring{Ring: r}
}

// Contains reports whether the 2D point lies inside the ring (boundary included)
func (r Ring) Contains(p mgl64.Vec2) bool {
	return planar.RingContains(r.Ring, orb.Point{p.X(), p.Y()})
}

// Area returns the enclosed area
func (r Ring) Area() float64 {
	return math.Abs(planar.Area(r.Ring))
}

// ProjectAlong drops the coordinate of p along the given axis, giving the
// point seen in the plane orthogonal to it: X -> (y,z), Y -> (z,x), Z -> (x,y)
func ProjectAlong(p mgl64.Vec3, axis Axis) mgl64.Vec2 {
	switch axis {
	case AxisX:
		return mgl64.Vec2{p.Y(), p.Z()}
	case AxisY:
		return mgl64.Vec2{p.Z(), p.X()}
	default:
		return mgl64.Vec2{p.X(), p.Y()}
	}
}

// PrismContains reports whether p lies inside the prism obtained by
// extruding the ring along the axis
func (r Ring) PrismContains(p mgl64.Vec3, axis Axis) bool {
	return r.Contains(ProjectAlong(p, axis))
}
