package svs

import (
	"errors"
	"fmt"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/go-gl/mathgl/mgl64"
)

// NodalShare is the load assigned to one node
type NodalShare struct {
	Node   fe.Node
	Vector []float64
}

// Shares computes the nodal load vectors statically equivalent to s on the
// nodes without applying them. All nodes must share one DOF model: 6 (3D
// translations and rotations), 3 (3D translations or 2D translations and
// rotation) or 2 (2D translations). A non-representable moment is reported
// together with the shares.
func Shares(s System3d, nodes []fe.Node) ([]NodalShare, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	model, err := fe.CommonModel(nodes)
	if err != nil {
		return nil, err
	}

	shares := make([]NodalShare, len(nodes))
	var distErr error
	switch model {
	case fe.Spatial6, fe.Spatial3:
		pts := make([]mgl64.Vec3, len(nodes))
		for i, n := range nodes {
			pts[i] = n.InitialPos3d()
		}
		cs, err := s.Distribute(pts, model.HasRotations())
		if err != nil && !errors.Is(err, ErrMomentNotRepresentable) {
			return nil, err
		}
		distErr = err
		for i, c := range cs {
			shares[i] = NodalShare{Node: nodes[i], Vector: fe.NodalVector(model, c.Force, c.Moment)}
		}
	default:
		plane := s.To2d()
		pts := make([]mgl64.Vec2, len(nodes))
		for i, n := range nodes {
			pts[i] = n.InitialPos2d()
		}
		cs, err := plane.Distribute(pts, model.HasRotations())
		if err != nil && !errors.Is(err, ErrMomentNotRepresentable) {
			return nil, err
		}
		distErr = err
		for i, c := range cs {
			f := mgl64.Vec3{c.Force.X(), c.Force.Y(), 0}
			shares[i] = NodalShare{Node: nodes[i], Vector: fe.NodalVector(model, f, mgl64.Vec3{0, 0, c.Moment})}
		}
	}
	return shares, distErr
}

// DistributeOnNodes applies to the pattern one nodal load per node, the
// whole being statically equivalent to s. Unsupported DOF models apply
// nothing. A non-representable moment is reported after the forces have
// been applied.
func DistributeOnNodes(p fe.Pattern, s System3d, nodes []fe.Node) ([]*fe.Load, error) {
	shares, shareErr := Shares(s, nodes)
	if shareErr != nil && !errors.Is(shareErr, ErrMomentNotRepresentable) {
		return nil, shareErr
	}
	loads := make([]*fe.Load, 0, len(shares))
	for _, sh := range shares {
		l, err := p.NewNodalLoad(sh.Node, sh.Vector)
		if err != nil {
			return loads, fmt.Errorf("distributing on node %d: %w", sh.Node.Tag(), err)
		}
		loads = append(loads, l)
	}
	return loads, shareErr
}
