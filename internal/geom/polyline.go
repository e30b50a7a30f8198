package geom

import (
	"errors"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// ErrTooFewVertices is returned when a polyline has less than two distinct vertices
var ErrTooFewVertices = errors.New("polyline needs at least 2 distinct vertices")

// Polyline3d is an open polyline in space
type Polyline3d struct {
	Vertices []mgl64.Vec3
}

// NewPolyline3d creates a polyline removing consecutive vertices closer than tol
func NewPolyline3d(points []mgl64.Vec3, tol float64) (Polyline3d, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	vertices := make([]mgl64.Vec3, 0, len(points))
	for _, p := range points {
		if len(vertices) > 0 && Dist(vertices[len(vertices)-1], p) < tol {
			continue
		}
		vertices = append(vertices, p)
	}
	if len(vertices) < 2 {
		return Polyline3d{}, ErrTooFewVertices
	}
	return Polyline3d{Vertices: vertices}, nil
}

// NumVertices returns the number of vertices
func (pl Polyline3d) NumVertices() int {
	return len(pl.Vertices)
}

// SegmentLengths returns the length of each segment
func (pl Polyline3d) SegmentLengths() []float64 {
	if len(pl.Vertices) < 2 {
		return nil
	}
	lengths := make([]float64, len(pl.Vertices)-1)
	for i := range lengths {
		lengths[i] = Dist(pl.Vertices[i], pl.Vertices[i+1])
	}
	return lengths
}

// Length returns the total length
func (pl Polyline3d) Length() float64 {
	return floats.Sum(pl.SegmentLengths())
}

// locate returns the segment containing arc length s and the local parameter in [0,1]
func (pl Polyline3d) locate(s float64) (int, float64) {
	lengths := pl.SegmentLengths()
	if s <= 0 {
		return 0, 0
	}
	var acc float64
	for i, l := range lengths {
		if s <= acc+l {
			if l == 0 {
				return i, 0
			}
			return i, (s - acc) / l
		}
		acc += l
	}
	return len(lengths) - 1, 1
}

// PointAtLength returns the point at arc length s, clamped to the polyline ends
func (pl Polyline3d) PointAtLength(s float64) mgl64.Vec3 {
	i, t := pl.locate(s)
	a, b := pl.Vertices[i], pl.Vertices[i+1]
	return a.Add(b.Sub(a).Mul(t))
}

// TangentAtLength returns the unit tangent (toward the end) at arc length s
func (pl Polyline3d) TangentAtLength(s float64) mgl64.Vec3 {
	i, _ := pl.locate(s)
	return pl.SegmentDirection(i)
}

// SegmentDirection returns the unit direction of segment i
func (pl Polyline3d) SegmentDirection(i int) mgl64.Vec3 {
	return Unit(pl.Vertices[i+1].Sub(pl.Vertices[i]))
}

// turning returns the sum of the cross products of consecutive segments
func (pl Polyline3d) turning() mgl64.Vec3 {
	var t mgl64.Vec3
	for i := 0; i+2 < len(pl.Vertices); i++ {
		t = t.Add(pl.SegmentDirection(i).Cross(pl.SegmentDirection(i + 1)))
	}
	return t
}

// PlaneNormal returns the normal of the plane containing the polyline,
// oriented so that the polyline turns counterclockwise about it. Straight
// polylines return the global Z axis (or Y if the polyline is vertical).
func (pl Polyline3d) PlaneNormal() mgl64.Vec3 {
	turn := pl.turning()
	if turn.Len() < 1e-9 {
		t := pl.SegmentDirection(0)
		if math.Abs(t.Dot(UnitZ)) > 0.9 {
			return UnitY
		}
		return UnitZ
	}
	n := Unit(turn)
	if len(pl.Vertices) > 3 {
		if fit, _, err := FitPlane(pl.Vertices); err == nil {
			n = fit.Normal
			if n.Dot(turn) < 0 {
				n = n.Mul(-1)
			}
		}
	}
	return n
}

// Offset returns the polyline offset by d in the plane with the given normal.
// Positive d moves toward normal × tangent (the left side). Interior
// vertices use the miter of adjacent segment normals.
func (pl Polyline3d) Offset(d float64, normal mgl64.Vec3) Polyline3d {
	n := len(pl.Vertices)
	segNormals := make([]mgl64.Vec3, n-1)
	for i := range segNormals {
		segNormals[i] = Unit(normal.Cross(pl.SegmentDirection(i)))
	}
	out := make([]mgl64.Vec3, n)
	out[0] = pl.Vertices[0].Add(segNormals[0].Mul(d))
	out[n-1] = pl.Vertices[n-1].Add(segNormals[n-2].Mul(d))
	for i := 1; i < n-1; i++ {
		m := Unit(segNormals[i-1].Add(segNormals[i]))
		cos := m.Dot(segNormals[i-1])
		if m.Len() == 0 || cos < 1e-6 {
			// reversal; fall back to the incoming normal
			out[i] = pl.Vertices[i].Add(segNormals[i-1].Mul(d))
			continue
		}
		out[i] = pl.Vertices[i].Add(m.Mul(d / cos))
	}
	return Polyline3d{Vertices: out}
}

// IntersectPlane returns the arc lengths where the polyline crosses the plane, ascending
func (pl Polyline3d) IntersectPlane(plane Plane) []float64 {
	var params []float64
	var acc float64
	for i, l := range pl.SegmentLengths() {
		if _, t, ok := plane.IntersectSegment(pl.Vertices[i], pl.Vertices[i+1]); ok {
			s := acc + t*l
			if len(params) == 0 || math.Abs(params[len(params)-1]-s) > DefaultTolerance {
				params = append(params, s)
			}
		}
		acc += l
	}
	sort.Float64s(params)
	return params
}

// Sub returns the part of the polyline between arc lengths s0 and s1.
// ok is false when the part is shorter than the default tolerance.
func (pl Polyline3d) Sub(s0, s1 float64) (Polyline3d, bool) {
	total := pl.Length()
	s0 = math.Max(0, s0)
	s1 = math.Min(total, s1)
	if s1-s0 < DefaultTolerance {
		return Polyline3d{}, false
	}
	pts := []mgl64.Vec3{pl.PointAtLength(s0)}
	var acc float64
	for i, l := range pl.SegmentLengths() {
		acc += l
		if acc > s0 && acc < s1 && i+1 < len(pl.Vertices)-1 {
			pts = append(pts, pl.Vertices[i+1])
		}
	}
	pts = append(pts, pl.PointAtLength(s1))
	sub, err := NewPolyline3d(pts, DefaultTolerance)
	if err != nil {
		return Polyline3d{}, false
	}
	return sub, true
}

// Samples returns the midpoints and lengths of pieces of at most step length
// covering the polyline. Each segment is split independently.
func (pl Polyline3d) Samples(step float64) (points []mgl64.Vec3, lengths []float64) {
	for i, l := range pl.SegmentLengths() {
		if l == 0 {
			continue
		}
		n := 1
		if step > 0 {
			n = int(math.Ceil(l / step))
		}
		a, b := pl.Vertices[i], pl.Vertices[i+1]
		ds := l / float64(n)
		for k := 0; k < n; k++ {
			t := (float64(k) + 0.5) / float64(n)
			points = append(points, a.Add(b.Sub(a).Mul(t)))
			lengths = append(lengths, ds)
		}
	}
	return points, lengths
}
