package scenario

import (
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/gorail/internal/combo"
	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/movable"
	"github.com/alexiusacademia/gorail/internal/spread"
	"github.com/alexiusacademia/gorail/internal/track"
	"github.com/alexiusacademia/gorail/internal/vehicle"
)

// Model is a scenario turned into meshes, a track and a vehicle
type Model struct {
	Scenario *Scenario
	Mesh     *fe.Mesh
	DeckSet  *fe.MeshSet
	Deck     spread.Deck
	Track    *track.Axis
	DOF      fe.DOFModel
	Logger   *slog.Logger
}

// Build meshes the deck, lays the track and applies the given
// displacements to the deck nodes
func (s *Scenario) Build(logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mesh, err := fe.NewMesh(s.Mesh.Dim, s.Mesh.NDOF)
	if err != nil {
		return nil, err
	}
	model, err := fe.ClassifyDOF(s.Mesh.Dim, s.Mesh.NDOF)
	if err != nil {
		return nil, err
	}
	d := s.Deck
	set, err := mesh.NewShellGrid("deck", d.Origin, d.Length, d.Width, d.NX, d.NY)
	if err != nil {
		return nil, fmt.Errorf("deck: %w", err)
	}
	if d.Rho > 0 {
		for _, e := range set.ElemList {
			if me, ok := e.(*fe.MeshElement); ok {
				me.Rho = d.Rho
			}
		}
	}
	tol := s.Tolerance
	if tol == 0 {
		tol = geom.DefaultTolerance
	}
	axis, err := track.NewWithTolerance(s.Track.Points, s.Track.Gauge, s.Track.Cant, tol)
	if err != nil {
		return nil, err
	}
	axis.Logger = logger

	m := &Model{
		Scenario: s,
		Mesh:     mesh,
		DeckSet:  set,
		Deck: spread.Deck{
			Selection:     set,
			Layers:        d.Layers,
			Thickness:     d.Thickness,
			Ratio:         d.Ratio,
			ContactLength: d.ContactLength,
			ContactWidth:  d.ContactWidth,
			Logger:        logger,
		},
		Track:  axis,
		DOF:    model,
		Logger: logger,
	}
	m.applyDisplacements()
	return m, nil
}

func (m *Model) applyDisplacements() {
	nodes := m.DeckSet.Nodes()
	for i, d := range m.Scenario.Displacements {
		n, dist := fe.NearestNode(nodes, d.Pos)
		mn, ok := n.(*fe.MeshNode)
		if !ok {
			continue
		}
		mn.Displacement = append([]float64(nil), d.Disp...)
		m.Logger.Debug("displacement assigned", "index", i, "node", mn.ID, "distance", dist)
	}
}

// Frame returns the vehicle frame at the scenario position
func (m *Model) Frame() (*geom.Frame, error) {
	if m.Scenario.Position == nil {
		return nil, ErrNoPosition
	}
	f := m.Track.VehicleFrameAt(*m.Scenario.Position)
	return &f, nil
}

// RailStep returns the lumping step of the rail loads
func (m *Model) RailStep() float64 {
	if m.Scenario.Rails.Step > 0 {
		return m.Scenario.Rails.Step
	}
	return fe.AverageSideLength(m.DeckSet.Elements())
}

// RailLoads returns the rail loads of the scenario by pattern name.
// Patterns without loads are left out.
func (m *Model) RailLoads() map[string][]track.RailLoad {
	s, loco, pos := m.Scenario, m.Scenario.Locomotive, m.Scenario.Position
	r := s.Rails
	out := make(map[string][]track.RailLoad)
	add := func(name string, rls []track.RailLoad) {
		if len(rls) > 0 {
			out[name] = rls
		}
	}
	if r.Uniform.Len() > 0 {
		add(combo.Vertical, m.Track.UniformLoads(loco, pos, r.Uniform))
	}
	add(combo.Centrifugal, m.Track.CentrifugalLoads(loco, pos, r.CentrifugalRight, r.CentrifugalLeft))
	if r.Braking != 0 {
		add(combo.Braking, m.Track.BrakingLoads(loco, pos, r.Braking))
	}
	add(combo.Wind, m.Track.WindLoads(loco, pos, r.WindRight, r.WindLeft))
	return out
}

// Patterns applies the wheel loads and the rail loads onto the deck, one
// pattern per load group. The wheel loads go to the vertical pattern when
// the vehicle has a position.
func (m *Model) Patterns() (map[string]*fe.LoadPattern, error) {
	out := map[string]*fe.LoadPattern{combo.Vertical: fe.NewLoadPattern(combo.Vertical)}
	if frame, err := m.Frame(); err == nil {
		if _, err := m.Scenario.Locomotive.SpreadThroughLayers(out[combo.Vertical], m.Deck, frame); err != nil {
			return out, fmt.Errorf("wheel loads: %w", err)
		}
	}
	step := m.RailStep()
	for name, rls := range m.RailLoads() {
		p, ok := out[name]
		if !ok {
			p = fe.NewLoadPattern(name)
			out[name] = p
		}
		if _, err := track.ApplyOnDeck(p, m.Deck, rls, step); err != nil {
			return out, fmt.Errorf("%s rail loads: %w", name, err)
		}
	}
	return out, nil
}

// Combinations returns the scenario combinations, or the default traffic
// groups and the characteristic combination
func (m *Model) Combinations() []combo.Combination {
	if len(m.Scenario.Combinations) > 0 {
		return m.Scenario.Combinations
	}
	return append(append([]combo.Combination(nil), combo.TrafficGroups...), combo.Characteristic...)
}

// Twist returns the twist measure configured by the scenario
func (m *Model) Twist() vehicle.Twist {
	t := m.Scenario.Twist
	return vehicle.Twist{
		Deck:            m.DeckSet,
		AxisStep:        t.AxisStep,
		RequestedLength: t.RequestedLength,
		RemoveGeometric: t.RemoveGeometric,
		Tolerance:       t.Tolerance,
		Logger:          m.Logger,
	}
}

// MeasureTwist measures the deck twist under the vehicle at the scenario position
func (m *Model) MeasureTwist() ([]vehicle.TwistResult, error) {
	frame, err := m.Frame()
	if err != nil {
		return nil, err
	}
	return m.Twist().Measure(m.Scenario.Locomotive, frame)
}

// MovableLoad returns the movable load row of the scenario
func (m *Model) MovableLoad() (*movable.Load, error) {
	mv := m.Scenario.Movable
	if mv == nil {
		return nil, ErrNoMovableLoad
	}
	return movable.New(movable.Constant(mv.Load), movable.Constant(mv.Speed), mv.T0, mv.Supports)
}
