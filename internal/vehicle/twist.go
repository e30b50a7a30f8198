package vehicle

import (
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTwistTolerance is the largest wheel to node distance accepted,
// as a fraction of the average element side
const DefaultTwistTolerance = 0.7

// Twist measures the deck twist under a vehicle: the distance of one
// wheel to the plane through three others, two axles apart by AxisStep
type Twist struct {
	Deck            fe.Selection
	AxisStep        int     // axles between the measuring pairs, 0 for 1
	RequestedLength float64 // base length the twist is reported on, 0 for the measured one
	RemoveGeometric bool    // subtract the twist of the undeformed deck
	Tolerance       float64 // 0 for DefaultTwistTolerance
	Logger          *slog.Logger
}

// TwistResult is the twist measured between axle Axle and Axle+AxisStep.
// Points are ordered right, left, next right, next left (the diagonal).
type TwistResult struct {
	Axle       int
	Value      float64
	Deformed   [4]mgl64.Vec3
	Undeformed [4]mgl64.Vec3
}

func (tw Twist) log() *slog.Logger {
	if tw.Logger != nil {
		return tw.Logger
	}
	return slog.Default()
}

type wheelPoint struct {
	ok         bool
	undeformed mgl64.Vec3
	deformed   mgl64.Vec3
}

// Measure returns one twist value per axle group that has all four wheels
// over the deck
func (tw Twist) Measure(loco Locomotive, frame *geom.Frame) ([]TwistResult, error) {
	wheels, err := loco.WheelGlobalPositions(frame)
	if err != nil {
		return nil, err
	}
	step := tw.AxisStep
	if step <= 0 {
		step = 1
	}
	if loco.NumAxles <= step {
		return nil, nil
	}

	nodes := tw.Deck.Nodes()
	pts := make([]mgl64.Vec3, len(nodes))
	for i, n := range nodes {
		pts[i] = n.InitialPos3d()
	}
	mid, _, err := geom.FitPlane(pts)
	if err != nil {
		return nil, fmt.Errorf("deck %s mid-plane: %w", tw.Deck.Name(), err)
	}

	tolFactor := tw.Tolerance
	if tolFactor <= 0 {
		tolFactor = DefaultTwistTolerance
	}
	maxDist := tolFactor * fe.AverageSideLength(tw.Deck.Elements())

	points := make([]wheelPoint, len(wheels))
	for i, w := range wheels {
		proj := mid.Project(w)
		n, dist := fe.NearestNode(nodes, proj)
		if n == nil || dist > maxDist {
			tw.log().Warn("wheel too far from the deck, skipped",
				"wheel", i, "axle", i/2, "distance", dist, "tolerance", maxDist)
			continue
		}
		disp := n.Disp()
		u := mgl64.Vec3{}
		for k := 0; k < 3 && k < len(disp); k++ {
			u[k] = disp[k]
		}
		// lift the wheel to the deck surface at its node
		base := proj.Add(mid.Normal.Mul(mid.SignedDistance(n.InitialPos3d())))
		points[i] = wheelPoint{ok: true, undeformed: base, deformed: base.Add(u)}
	}

	scale := 1.0
	if tw.RequestedLength > 0 {
		scale = tw.RequestedLength / (loco.AxleSpacing * float64(step))
	}

	var out []TwistResult
	for axle := 0; axle+step < loco.NumAxles; axle++ {
		idx := [4]int{2 * axle, 2*axle + 1, 2 * (axle + step), 2*(axle+step) + 1}
		var r TwistResult
		complete := true
		for k, i := range idx {
			if !points[i].ok {
				complete = false
				break
			}
			r.Deformed[k] = points[i].deformed
			r.Undeformed[k] = points[i].undeformed
		}
		if !complete {
			continue
		}
		v, err := diagonalDistance(r.Deformed)
		if err != nil {
			tw.log().Warn("degenerate wheel triad", "axle", axle, "error", err)
			continue
		}
		if tw.RemoveGeometric {
			g, err := diagonalDistance(r.Undeformed)
			if err != nil {
				tw.log().Warn("degenerate undeformed wheel triad", "axle", axle, "error", err)
				continue
			}
			v -= g
		}
		r.Axle = axle
		r.Value = v * scale
		out = append(out, r)
	}
	return out, nil
}

// diagonalDistance returns the signed distance of the fourth point to the
// plane through the first three
func diagonalDistance(p [4]mgl64.Vec3) (float64, error) {
	pl, err := geom.NewPlaneFromPoints(p[0], p[1], p[2])
	if err != nil {
		return 0, err
	}
	return pl.SignedDistance(p[3]), nil
}
