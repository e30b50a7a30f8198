package loads

import (
	"fmt"
	"sort"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// UniformOnLines lumps a uniform load per unit length on the nodes of the
// selection lines using tributary lengths
type UniformOnLines struct {
	Base
	Target fe.Selection
	Vector []float64
}

func (l UniformOnLines) Scaled(f float64) Descriptor {
	l.Vector = scaleVector(l.Vector, f)
	return l
}

func (l UniformOnLines) Apply(p fe.Pattern) ([]*fe.Load, error) {
	force, moment, err := forceMoment(l.Vector)
	if err != nil {
		return nil, err
	}
	lines := l.Target.Lines()
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s has no lines", ErrEmptySelection, l.Target.Name())
	}
	var out []*fe.Load
	for i, ln := range lines {
		nodes, infl := TributaryLengths(ln.Nodes(), ln.From())
		if len(nodes) < 2 {
			l.log().Warn("line has fewer than two nodes, skipped", "load", l.Label, "line", i)
			continue
		}
		for k, n := range nodes {
			ld, err := applyNodal(p, n, force.Mul(infl[k]), moment.Mul(infl[k]))
			if err != nil {
				return out, err
			}
			out = append(out, ld)
		}
	}
	return out, nil
}

// TributaryLengths orders the nodes by distance from origin and returns
// the influence length of each: half the distance to each neighbour, one
// neighbour only for the end nodes. The lengths add up to the distance
// between the first and last node.
func TributaryLengths(nodes []fe.Node, origin mgl64.Vec3) ([]fe.Node, []float64) {
	sorted := append([]fe.Node(nil), nodes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return geom.Dist(sorted[i].InitialPos3d(), origin) < geom.Dist(sorted[j].InitialPos3d(), origin)
	})
	infl := make([]float64, len(sorted))
	for i := 0; i+1 < len(sorted); i++ {
		d := geom.Dist(sorted[i].InitialPos3d(), sorted[i+1].InitialPos3d())
		infl[i] += d / 2
		infl[i+1] += d / 2
	}
	return sorted, infl
}
