// Package spread carries wheel and rail loads through the layers between
// the contact surface and the structure: ballast, sleepers and pavement
// down to a deck mid-surface, or embankment fill down to a backfill.
package spread

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/svs"
	"github.com/go-gl/mathgl/mgl64"
)

// Layer is one stratum crossed by the load, spreading it by Ratio
// (horizontal growth per unit depth) on each side
type Layer struct {
	Depth float64 `json:"depth"`
	Ratio float64 `json:"ratio"`
}

// PointLoad is a concentrated force at a global position
type PointLoad struct {
	Position mgl64.Vec3
	Force    mgl64.Vec3
}

// Growth returns how much each side of a contact area grows down to the
// deck mid-surface: 2·Σ depth·ratio over the layers plus thickness·ratio
// inside the deck
func Growth(layers []Layer, thickness, ratio float64) float64 {
	var g float64
	for _, l := range layers {
		g += 2 * l.Depth * l.Ratio
	}
	return g + thickness*ratio
}

// Deck spreads loads onto the nodes of a deck mid-surface
type Deck struct {
	Selection     fe.Selection
	Layers        []Layer
	Thickness     float64 // deck thickness
	Ratio         float64 // spreading ratio inside the deck
	ContactLength float64 // contact dimension along the track
	ContactWidth  float64 // contact dimension across the track
	Logger        *slog.Logger
}

func (d Deck) log() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Footprint returns the spread dimensions of a contact area of the given length
func (d Deck) Footprint(length float64) (float64, float64) {
	g := Growth(d.Layers, d.Thickness, d.Ratio)
	return length + g, d.ContactWidth + g
}

// nodesUnder returns the deck nodes whose projection on the frame XY
// plane falls inside the lx×ly rectangle centred on the frame origin
func (d Deck) nodesUnder(frame geom.Frame, lx, ly float64) []fe.Node {
	hx, hy := lx/2, ly/2
	rect := geom.NewRing([]mgl64.Vec2{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}})
	var out []fe.Node
	for _, n := range d.Selection.Nodes() {
		local := frame.ToLocal(n.InitialPos3d())
		if rect.Contains(local.Vec2()) {
			out = append(out, n)
		}
	}
	return out
}

// ConcentratedLoad spreads a force acting at pos over the deck nodes
// inside its footprint. frame orients the footprint: x along the track,
// z normal to the deck. When no node lies inside, the nearest node takes
// the whole load.
func (d Deck) ConcentratedLoad(p fe.Pattern, frame geom.Frame, pos, force mgl64.Vec3) ([]*fe.Load, error) {
	return d.spread(p, frame.Moved(pos), d.ContactLength, force)
}

func (d Deck) spread(p fe.Pattern, frame geom.Frame, length float64, force mgl64.Vec3) ([]*fe.Load, error) {
	lx, ly := d.Footprint(length)
	nodes := d.nodesUnder(frame, lx, ly)
	s := svs.System3d{O: frame.Origin, F: force}
	if len(nodes) == 0 {
		n, dist := fe.NearestNode(d.Selection.Nodes(), frame.Origin)
		if n == nil {
			return nil, fmt.Errorf("deck %s has no nodes", d.Selection.Name())
		}
		d.log().Warn("no deck node under the load footprint, using the nearest",
			"deck", d.Selection.Name(), "node", n.Tag(), "distance", dist, "footprint", fmt.Sprintf("%.3gx%.3g", lx, ly))
		nodes = []fe.Node{n}
		s = svs.System3d{O: n.InitialPos3d(), F: force}
	}
	ls, err := svs.DistributeOnNodes(p, s, nodes)
	if errors.Is(err, svs.ErrMomentNotRepresentable) {
		// forces are applied, only the residual moment is lost
		d.log().Warn("load moment not carried by the deck nodes",
			"deck", d.Selection.Name(), "nodes", len(nodes), "error", err)
		err = nil
	}
	return ls, err
}

// ConcentratedLoads spreads every point load in turn
func (d Deck) ConcentratedLoads(p fe.Pattern, frame geom.Frame, pls []PointLoad) ([]*fe.Load, error) {
	var out []*fe.Load
	for i, pl := range pls {
		ls, err := d.ConcentratedLoad(p, frame, pl.Position, pl.Force)
		out = append(out, ls...)
		if err != nil {
			return out, fmt.Errorf("point load %d: %w", i, err)
		}
	}
	return out, nil
}

// UniformLoad lumps a load per unit length q along the chunk into pieces
// of at most step length and spreads each piece. The footprint of a piece
// follows the chunk tangent.
func (d Deck) UniformLoad(p fe.Pattern, chunk geom.Polyline3d, q mgl64.Vec3, step float64) ([]*fe.Load, error) {
	pts, lengths := chunk.Samples(step)
	var out []*fe.Load
	var arc float64
	for i, pt := range pts {
		arc += lengths[i] / 2
		tangent := chunk.TangentAtLength(arc)
		frame := geom.NewFrame(pt, tangent, geom.UnitZ.Cross(tangent))
		ls, err := d.spread(p, frame, lengths[i], q.Mul(lengths[i]))
		out = append(out, ls...)
		if err != nil {
			return out, err
		}
		arc += lengths[i] / 2
	}
	return out, nil
}
