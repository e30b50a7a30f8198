package svs

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// System2d is an in-plane force F and a scalar moment M about O
type System2d struct {
	O mgl64.Vec2
	F mgl64.Vec2
	M float64
}

// MomentAbout returns M + cross2d(O - p, F)
func (s System2d) MomentAbout(p mgl64.Vec2) float64 {
	return s.M + geom.Cross2d(s.O.Sub(p), s.F)
}

// MovedTo returns the equivalent system with reference point p
func (s System2d) MovedTo(p mgl64.Vec2) System2d {
	return System2d{O: p, F: s.F, M: s.MomentAbout(p)}
}

// Contribution2d is the share of a plane system assigned to one point
type Contribution2d struct {
	Point  mgl64.Vec2
	Force  mgl64.Vec2
	Moment float64
}

// Resultant2d returns the system about o equivalent to the contributions
func Resultant2d(o mgl64.Vec2, cs []Contribution2d) System2d {
	r := System2d{O: o}
	for _, c := range cs {
		r.F = r.F.Add(c.Force)
		r.M += geom.Cross2d(c.Point.Sub(o), c.Force) + c.Moment
	}
	return r
}

// Distribute is the plane version of System3d.Distribute: the forces of
// a rigid rotation ω ẑ × r_i with ω = M_C / Σ|r_i|² carry the moment.
func (s System2d) Distribute(points []mgl64.Vec2, withMoments bool) ([]Contribution2d, error) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	var c mgl64.Vec2
	for _, p := range points {
		c = c.Add(p)
	}
	c = c.Mul(1 / float64(n))
	mc := s.MomentAbout(c)

	var polar float64
	for _, p := range points {
		polar += p.Sub(c).LenSqr()
	}
	fShare := s.F.Mul(1 / float64(n))
	out := make([]Contribution2d, n)

	scale := 0.0
	for _, p := range points {
		scale = math.Max(scale, p.Sub(c).Len())
	}
	if polar > singularTol*math.Max(1, scale*scale) {
		omega := mc / polar
		for i, p := range points {
			r := p.Sub(c)
			out[i] = Contribution2d{Point: p, Force: fShare.Add(mgl64.Vec2{-omega * r.Y(), omega * r.X()})}
		}
		return out, nil
	}

	for i, p := range points {
		out[i] = Contribution2d{Point: p, Force: fShare}
	}
	if math.Abs(mc) <= singularTol*math.Max(1, math.Abs(mc)) {
		return out, nil
	}
	if !withMoments {
		return out, fmt.Errorf("%w: residual %g", ErrMomentNotRepresentable, mc)
	}
	for i := range out {
		out[i].Moment = mc / float64(n)
	}
	return out, nil
}
