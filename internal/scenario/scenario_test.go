package scenario

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/gorail/internal/combo"
	"gonum.org/v1/gonum/floats/scalar"
)

const deckJSON = `{
  "name": "single span deck",
  "mesh": {"dim": 3, "ndof": 6},
  "deck": {
    "origin": [0, -2, 0], "length": 20, "width": 4, "nx": 20, "ny": 4,
    "thickness": 0, "ratio": 0,
    "layers": [{"depth": 0.5, "ratio": 1}],
    "contact_length": 0.2, "contact_width": 0.2
  },
  "track": {"points": [[0, 0, 0.5], [20, 0, 0.5]], "gauge": 1.435},
  "locomotive": {"name": "2 axles", "num_axles": 2, "axle_load": 100000, "axle_spacing": 2, "gauge": 1.435},
  "position": 0.5,
  "rails": {"uniform": [0, 0, -10000], "braking": -2000, "step": 0.5},
  "displacements": [{"pos": [11, 1, 0], "disp": [0, 0, -0.01, 0, 0, 0]}],
  "movable": {"load": 100, "speed": 1, "t_end": 4, "step": 1,
    "supports": [{"id": "a", "x": 0}, {"id": "b", "x": 2}, {"id": "c", "x": 4}]}
}`

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func load(t *testing.T) *Model {
	t.Helper()
	s, err := LoadFromFile(writeScenario(t, deckJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := s.Build(quiet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestLoadFromFile(t *testing.T) {
	m := load(t)
	if m.Scenario.Name != "single span deck" || m.Mesh.NumNodes() != 21*5 {
		t.Errorf("scenario %q with %d nodes", m.Scenario.Name, m.Mesh.NumNodes())
	}
	if !scalar.EqualWithinAbs(m.Track.Length(), 20, 1e-12) {
		t.Errorf("track length: got %v", m.Track.Length())
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := LoadFromFile(writeScenario(t, "{")); err == nil {
		t.Error("expected an error for malformed json")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Scenario {
		s, err := LoadFromFile(writeScenario(t, deckJSON))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	out := 1.5
	cases := map[string]func(s *Scenario){
		"plane mesh":     func(s *Scenario) { s.Mesh.Dim = 2 },
		"empty deck":     func(s *Scenario) { s.Deck.Length = 0 },
		"short track":    func(s *Scenario) { s.Track.Points = s.Track.Points[:1] },
		"gauge mismatch": func(s *Scenario) { s.Locomotive.Gauge = 1 },
		"no axles":       func(s *Scenario) { s.Locomotive.NumAxles = 0 },
		"position":       func(s *Scenario) { s.Position = &out },
		"displacement":   func(s *Scenario) { s.Displacements[0].Disp = []float64{0} },
		"no supports":    func(s *Scenario) { s.Movable.Supports = nil },
		"combination":    func(s *Scenario) { s.Combinations = append(s.Combinations, combo.Combination{ID: "x"}) },
	}
	for name, mutate := range cases {
		s := base()
		mutate(s)
		var ve *ValidationError
		if err := s.Validate(); !errors.As(err, &ve) {
			t.Errorf("%s: expected a ValidationError, got %v", name, err)
		}
	}
}

func TestPatterns(t *testing.T) {
	m := load(t)
	ps, err := m.Patterns()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected vertical and braking patterns, got %d", len(ps))
	}
	// 4 wheels of 50 kN and 2×16 m of free rail at 10 kN/m
	want := -200e3 - 320e3
	if f := ps[combo.Vertical].ResultantForce(); !scalar.EqualWithinRel(f.Z(), want, 1e-9) {
		t.Errorf("vertical resultant: got %v, want %v", f.Z(), want)
	}
	if f := ps[combo.Braking].ResultantForce(); !scalar.EqualWithinRel(f.X(), -2000*32, 1e-9) {
		t.Errorf("braking resultant: got %v", f)
	}

	res := combo.Evaluate(m.DOF, ps, m.Combinations())
	if len(res) != len(combo.TrafficGroups)+len(combo.Characteristic) {
		t.Errorf("default combinations: got %d results", len(res))
	}
}

func TestPatternsWithoutPosition(t *testing.T) {
	m := load(t)
	m.Scenario.Position = nil
	ps, err := m.Patterns()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f := ps[combo.Vertical].ResultantForce(); !scalar.EqualWithinRel(f.Z(), -10e3*40, 1e-9) {
		t.Errorf("full rails: got %v", f.Z())
	}
	if _, err := m.MeasureTwist(); !errors.Is(err, ErrNoPosition) {
		t.Errorf("expected ErrNoPosition, got %v", err)
	}
}

func TestMeasureTwist(t *testing.T) {
	res, err := load(t).MeasureTwist()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected one axle group, got %d", len(res))
	}
	if !scalar.EqualWithinAbs(res[0].Value, 0.01, 1e-9) {
		t.Errorf("twist: got %v, want 0.01", res[0].Value)
	}
}

func TestMovableLoad(t *testing.T) {
	m := load(t)
	ml, err := m.MovableLoad()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mv := m.Scenario.Movable
	h, err := ml.History(mv.T0, mv.TEnd, mv.Step)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.Times) != 5 || h.Values["b"][2] != 100 || h.Values["a"][1] != 50 {
		t.Errorf("history: %v %v", h.Times, h.Values)
	}
	m.Scenario.Movable = nil
	if _, err := m.MovableLoad(); !errors.Is(err, ErrNoMovableLoad) {
		t.Errorf("expected ErrNoMovableLoad, got %v", err)
	}
}
