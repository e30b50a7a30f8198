package geom

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// ErrDegeneratePlane is returned when the points do not define a plane
var ErrDegeneratePlane = errors.New("points do not define a plane")

// Plane is an infinite plane through Origin with unit Normal
type Plane struct {
	Origin mgl64.Vec3
	Normal mgl64.Vec3
}

// NewPlane creates a plane through origin with the given normal direction
func NewPlane(origin, normal mgl64.Vec3) (Plane, error) {
	n := Unit(normal)
	if n.Len() == 0 {
		return Plane{}, ErrDegeneratePlane
	}
	return Plane{Origin: origin, Normal: n}, nil
}

// NewPlaneFromPoints creates the plane through three points.
// The normal follows (b-a) × (c-a).
func NewPlaneFromPoints(a, b, c mgl64.Vec3) (Plane, error) {
	n := b.Sub(a).Cross(c.Sub(a))
	scale := math.Max(b.Sub(a).Len(), c.Sub(a).Len())
	if scale == 0 || n.Len() < 1e-10*scale*scale {
		return Plane{}, ErrDegeneratePlane
	}
	return Plane{Origin: a, Normal: Unit(n)}, nil
}

// SignedDistance returns the distance from p to the plane, positive on the normal side
func (pl Plane) SignedDistance(p mgl64.Vec3) float64 {
	return p.Sub(pl.Origin).Dot(pl.Normal)
}

// Project returns the orthogonal projection of p onto the plane
func (pl Plane) Project(p mgl64.Vec3) mgl64.Vec3 {
	return p.Sub(pl.Normal.Mul(pl.SignedDistance(p)))
}

// IntersectSegment returns the intersection of segment ab with the plane.
// ok is false when the segment does not cross (or lies in) the plane.
func (pl Plane) IntersectSegment(a, b mgl64.Vec3) (p mgl64.Vec3, t float64, ok bool) {
	da := pl.SignedDistance(a)
	db := pl.SignedDistance(b)
	if da == db || (da > 0 && db > 0) || (da < 0 && db < 0) {
		return mgl64.Vec3{}, 0, false
	}
	t = da / (da - db)
	return a.Add(b.Sub(a).Mul(t)), t, true
}

// FitPlane computes the least squares plane through the points. It returns
// the plane (origin at the centroid) and the maximum absolute deviation of
// the points from it.
func FitPlane(points []mgl64.Vec3) (Plane, float64, error) {
	if len(points) < 3 {
		return Plane{}, 0, ErrDegeneratePlane
	}
	c := Centroid(points)
	data := make([]float64, 0, 3*len(points))
	for _, p := range points {
		d := p.Sub(c)
		data = append(data, d.X(), d.Y(), d.Z())
	}
	a := mat.NewDense(len(points), 3, data)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return Plane{}, 0, ErrDegeneratePlane
	}
	values := svd.Values(nil)
	if values[0] == 0 || values[1] < 1e-10*values[0] {
		// all points coincident or collinear
		return Plane{}, 0, ErrDegeneratePlane
	}
	var v mat.Dense
	svd.VTo(&v)
	normal := Unit(mgl64.Vec3{v.At(0, 2), v.At(1, 2), v.At(2, 2)})
	pl := Plane{Origin: c, Normal: normal}

	var maxDev float64
	for _, p := range points {
		maxDev = math.Max(maxDev, math.Abs(pl.SignedDistance(p)))
	}
	return pl, maxDev, nil
}
