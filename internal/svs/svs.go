// Package svs implements sliding vector systems: a force and a moment about
// a reference point, reducible to any other point and distributable over a
// point cloud with the same resultant.
package svs

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// ErrMomentNotRepresentable is returned when the part of the moment that
// forces on the points cannot produce (rotation about the line through
// collinear points, or a single point) must be dropped because the points
// carry no moments
var ErrMomentNotRepresentable = errors.New("moment cannot be represented by point forces")

// relative tolerance for singular directions of the polar inertia tensor
const singularTol = 1e-9

// System3d is a force F and a moment M about the point O
type System3d struct {
	O mgl64.Vec3
	F mgl64.Vec3
	M mgl64.Vec3
}

// MomentAbout returns the moment of the system about p: M + (O - p) × F
func (s System3d) MomentAbout(p mgl64.Vec3) mgl64.Vec3 {
	return s.M.Add(s.O.Sub(p).Cross(s.F))
}

// MovedTo returns the equivalent system with reference point p
func (s System3d) MovedTo(p mgl64.Vec3) System3d {
	return System3d{O: p, F: s.F, M: s.MomentAbout(p)}
}

// Add returns the sum of both systems about s.O
func (s System3d) Add(o System3d) System3d {
	return System3d{O: s.O, F: s.F.Add(o.F), M: s.M.Add(o.MomentAbout(s.O))}
}

// Scaled returns the system with force and moment multiplied by f
func (s System3d) Scaled(f float64) System3d {
	return System3d{O: s.O, F: s.F.Mul(f), M: s.M.Mul(f)}
}

// To2d drops the out of plane components
func (s System3d) To2d() System2d {
	return System2d{O: s.O.Vec2(), F: s.F.Vec2(), M: s.M.Z()}
}

// Contribution is the share of a system assigned to one point
type Contribution struct {
	Point  mgl64.Vec3
	Force  mgl64.Vec3
	Moment mgl64.Vec3
}

// Resultant returns the system about o equivalent to the contributions
func Resultant(o mgl64.Vec3, cs []Contribution) System3d {
	r := System3d{O: o}
	for _, c := range cs {
		r.F = r.F.Add(c.Force)
		r.M = r.M.Add(c.Point.Sub(o).Cross(c.Force)).Add(c.Moment)
	}
	return r
}

// Distribute splits the system over the points. Every point takes F/n;
// the moment about the points' centroid is reproduced by the forces of a
// rigid rotation ω × r_i with J ω = M. The part of the moment the forces
// cannot reproduce goes to nodal moments when withMoments is set; otherwise
// it is dropped and ErrMomentNotRepresentable is returned with the
// contributions.
func (s System3d) Distribute(points []mgl64.Vec3, withMoments bool) ([]Contribution, error) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	var c mgl64.Vec3
	for _, p := range points {
		c = c.Add(p)
	}
	c = c.Mul(1 / float64(n))
	mc := s.MomentAbout(c)

	// polar inertia tensor J = Σ(|r|² I − r rᵀ)
	var j [9]float64
	for _, p := range points {
		r := p.Sub(c)
		r2 := r.LenSqr()
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				v := -r[a] * r[b]
				if a == b {
					v += r2
				}
				j[3*a+b] += v
			}
		}
	}
	omega := pseudoSolve(j, mc)

	fShare := s.F.Mul(1 / float64(n))
	out := make([]Contribution, n)
	var realised mgl64.Vec3
	for i, p := range points {
		r := p.Sub(c)
		f := fShare.Add(omega.Cross(r))
		out[i] = Contribution{Point: p, Force: f}
		realised = realised.Add(r.Cross(omega.Cross(r)))
	}

	residual := mc.Sub(realised)
	if residual.Len() <= singularTol*math.Max(1, mc.Len()) {
		return out, nil
	}
	if !withMoments {
		return out, fmt.Errorf("%w: residual %v", ErrMomentNotRepresentable, residual)
	}
	mShare := residual.Mul(1 / float64(n))
	for i := range out {
		out[i].Moment = mShare
	}
	return out, nil
}

// pseudoSolve solves the symmetric system J x = b by its eigen
// decomposition, ignoring singular directions
func pseudoSolve(j [9]float64, b mgl64.Vec3) mgl64.Vec3 {
	var es mat.EigenSym
	if ok := es.Factorize(mat.NewSymDense(3, j[:]), true); !ok {
		return mgl64.Vec3{}
	}
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	var maxVal float64
	for _, v := range values {
		maxVal = math.Max(maxVal, math.Abs(v))
	}
	var x mgl64.Vec3
	if maxVal == 0 {
		return x
	}
	for k, lambda := range values {
		if math.Abs(lambda) <= singularTol*maxVal {
			continue
		}
		v := mgl64.Vec3{vectors.At(0, k), vectors.At(1, k), vectors.At(2, k)}
		x = x.Add(v.Mul(v.Dot(b) / lambda))
	}
	return x
}
