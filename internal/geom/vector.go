// Package geom holds the geometric primitives used by the load engine:
// points and vectors, polylines, planes, local reference frames and
// planar rings.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTolerance is the distance under which two points are considered coincident (m)
const DefaultTolerance = 1e-6

// Global axes
var (
	UnitX = mgl64.Vec3{1, 0, 0}
	UnitY = mgl64.Vec3{0, 1, 0}
	UnitZ = mgl64.Vec3{0, 0, 1}
)

// Cross2d returns the scalar (z) component of the cross product a × b
func Cross2d(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Dist returns the distance between two points
func Dist(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// Centroid returns the arithmetic mean of the points.
// The zero vector is returned for an empty list.
func Centroid(points []mgl64.Vec3) mgl64.Vec3 {
	var c mgl64.Vec3
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(points)))
}

// Unit returns v normalized, or the zero vector when |v| is negligible
func Unit(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Perpendicular returns the component of v orthogonal to the unit vector t
func Perpendicular(v, t mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(t.Mul(v.Dot(t)))
}

// AnyNormal returns a unit vector orthogonal to v, preferring global Z
func AnyNormal(v mgl64.Vec3) mgl64.Vec3 {
	u := Unit(v)
	ref := UnitZ
	if math.Abs(u.Dot(ref)) > 0.9 {
		ref = UnitY
	}
	return Unit(ref.Cross(u))
}

// TriangleArea returns the area of the triangle abc
func TriangleArea(a, b, c mgl64.Vec3) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Len()
}

// PolygonArea returns the area of a planar polygon given by its vertices in 3D
// and the area-weighted centroid
func PolygonArea(vertices []mgl64.Vec3) (area float64, centroid mgl64.Vec3) {
	n := len(vertices)
	if n < 3 {
		return 0, Centroid(vertices)
	}
	// fan triangulation from the first vertex
	var sum mgl64.Vec3
	for i := 1; i < n-1; i++ {
		a := TriangleArea(vertices[0], vertices[i], vertices[i+1])
		c := vertices[0].Add(vertices[i]).Add(vertices[i+1]).Mul(1.0 / 3.0)
		area += a
		sum = sum.Add(c.Mul(a))
	}
	if area <= 0 {
		return 0, Centroid(vertices)
	}
	return area, sum.Mul(1 / area)
}

// PolygonNormal returns the unit normal of a planar polygon (Newell's method)
func PolygonNormal(vertices []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range vertices {
		a := vertices[i]
		b := vertices[(i+1)%len(vertices)]
		n = n.Add(mgl64.Vec3{
			(a.Y() - b.Y()) * (a.Z() + b.Z()),
			(a.Z() - b.Z()) * (a.X() + b.X()),
			(a.X() - b.X()) * (a.Y() + b.Y()),
		})
	}
	return Unit(n)
}
