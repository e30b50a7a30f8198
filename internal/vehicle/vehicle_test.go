package vehicle

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/spread"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWheelLocalPositions(t *testing.T) {
	l := Locomotive{NumAxles: 4, AxleSpacing: 1.6, Gauge: 1.435}
	if err := l.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos := l.WheelLocalPositions()
	if len(pos) != 8 {
		t.Fatalf("expected 8 wheels, got %d", len(pos))
	}
	xs := []float64{-2.4, -0.8, 0.8, 2.4}
	for i, x := range xs {
		right, left := pos[2*i], pos[2*i+1]
		if !scalar.EqualWithinAbs(right.X(), x, 1e-12) || !scalar.EqualWithinAbs(left.X(), x, 1e-12) {
			t.Errorf("axle %d: x %v %v, want %v", i, right.X(), left.X(), x)
		}
		if !scalar.EqualWithinAbs(right.Y(), -0.7175, 1e-12) || !scalar.EqualWithinAbs(left.Y(), 0.7175, 1e-12) {
			t.Errorf("axle %d: y %v %v", i, right.Y(), left.Y())
		}
	}
	var sum mgl64.Vec3
	for _, p := range pos {
		sum = sum.Add(p)
	}
	if !sum.ApproxEqualThreshold(mgl64.Vec3{}, 1e-12) {
		t.Errorf("wheels should be centred on the vehicle midpoint, sum %v", sum)
	}
}

func TestWheelGlobalPositions(t *testing.T) {
	l := Locomotive{NumAxles: 2, AxleSpacing: 2, Gauge: 1}
	if _, err := l.WheelGlobalPositions(nil); !errors.Is(err, ErrNoReferenceFrame) {
		t.Errorf("expected ErrNoReferenceFrame, got %v", err)
	}
	// vehicle heading along global y
	frame := geom.NewFrame(mgl64.Vec3{10, 0, 1}, geom.UnitY, geom.UnitX.Mul(-1))
	pos, err := l.WheelGlobalPositions(&frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pos[0].ApproxEqualThreshold(mgl64.Vec3{10.5, -1, 1}, 1e-12) {
		t.Errorf("back right wheel: got %v", pos[0])
	}
	if !pos[3].ApproxEqualThreshold(mgl64.Vec3{9.5, 1, 1}, 1e-12) {
		t.Errorf("front left wheel: got %v", pos[3])
	}
}

func TestWheelLoadRefinements(t *testing.T) {
	l := Locomotive{NumAxles: 1, AxleLoad: 200e3, Gauge: 1.435}
	if l.WheelLoad() != 100e3 || l.ClassifiedWheelLoad() != 100e3 || l.DynamicWheelLoad() != 100e3 {
		t.Errorf("unit factors: %v %v %v", l.WheelLoad(), l.ClassifiedWheelLoad(), l.DynamicWheelLoad())
	}
	l.ClassificationFactor = 1.21
	l.DynamicFactor = 1.3
	if !scalar.EqualWithinRel(l.DynamicWheelLoad(), 100e3*1.21*1.3, 1e-12) {
		t.Errorf("dynamic wheel load: got %v", l.DynamicWheelLoad())
	}
	frame := geom.GlobalFrame()
	pls, err := l.WheelLoads(&frame, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pls) != 2 || !scalar.EqualWithinRel(pls[0].Force.Z(), -l.DynamicWheelLoad(), 1e-12) {
		t.Errorf("wheel loads: got %v", pls)
	}
}

func TestWheelLoadsDefaultDown(t *testing.T) {
	l := Locomotive{NumAxles: 1, AxleLoad: 200e3, Gauge: 1.5}
	// z down, as the concave side frame of a right-hand curve
	frame := geom.NewFrame(mgl64.Vec3{5, 0, 0}, geom.UnitX, geom.UnitY.Mul(-1))
	pls, err := l.WheelLoads(&frame, mgl64.Vec3{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, pl := range pls {
		if !pl.Force.ApproxEqualThreshold(mgl64.Vec3{0, 0, -100e3}, 1e-9) {
			t.Errorf("wheel %d: got %v, want a downward load", i, pl.Force)
		}
	}
	side := geom.UnitY
	pls, _ = l.WheelLoads(&frame, side)
	if !pls[0].Force.ApproxEqualThreshold(side.Mul(100e3), 1e-9) {
		t.Errorf("explicit direction: got %v", pls[0].Force)
	}
}

func TestValidate(t *testing.T) {
	bad := []Locomotive{
		{NumAxles: 0, Gauge: 1},
		{NumAxles: 2, AxleSpacing: 0, Gauge: 1},
		{NumAxles: 2, AxleSpacing: 1, Gauge: 0},
	}
	for i, l := range bad {
		var ve *ValidationError
		if err := l.Validate(); !errors.As(err, &ve) {
			t.Errorf("case %d: expected a ValidationError, got %v", i, err)
		}
	}
	if got := (Locomotive{NumAxles: 4, AxleSpacing: 2}).FootprintLength(); got != 8 {
		t.Errorf("footprint: got %v", got)
	}
}

func TestSpreadThroughLayers(t *testing.T) {
	m, _ := fe.NewMesh(3, 6)
	deck, _ := m.NewShellGrid("deck", mgl64.Vec3{}, 8, 4, 8, 4)
	l := Locomotive{NumAxles: 4, AxleLoad: 100e3, AxleSpacing: 2, Gauge: 2}
	frame := geom.GlobalFrame().Moved(mgl64.Vec3{4, 2, 0.6})
	d := spread.Deck{Selection: deck, Layers: []spread.Layer{{Depth: 0.6, Ratio: 1}}, ContactLength: 0.3, ContactWidth: 0.3}
	lp := fe.NewLoadPattern("wheels")
	if _, err := l.SpreadThroughLayers(lp, d, &frame); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f := lp.ResultantForce(); !scalar.EqualWithinRel(f.Z(), -400e3, 1e-9) {
		t.Errorf("total wheel load: got %v", f)
	}
	if _, err := l.SpreadThroughLayers(lp, d, nil); !errors.Is(err, ErrNoReferenceFrame) {
		t.Errorf("expected ErrNoReferenceFrame, got %v", err)
	}
}

// twistDeck meshes an 8×4 deck with 1 m shells
func twistDeck(t *testing.T) *fe.MeshSet {
	t.Helper()
	m, err := fe.NewMesh(3, 6)
	if err != nil {
		t.Fatal(err)
	}
	deck, err := m.NewShellGrid("deck", mgl64.Vec3{}, 8, 4, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	return deck
}

func nodeAt(t *testing.T, s fe.Selection, p mgl64.Vec3) *fe.MeshNode {
	t.Helper()
	for _, n := range s.Nodes() {
		if n.InitialPos3d().ApproxEqualThreshold(p, 1e-9) {
			return n.(*fe.MeshNode)
		}
	}
	t.Fatalf("no node at %v", p)
	return nil
}

func TestTwistMeasure(t *testing.T) {
	deck := twistDeck(t)
	nodeAt(t, deck, mgl64.Vec3{7, 3, 0}).Displacement = []float64{0, 0, -0.01}

	l := Locomotive{NumAxles: 4, AxleSpacing: 2, Gauge: 2}
	frame := geom.GlobalFrame().Moved(mgl64.Vec3{4, 2, 0})
	tw := Twist{Deck: deck, RequestedLength: 3, Logger: quiet}
	res, err := tw.Measure(l, &frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("expected 3 axle groups, got %d", len(res))
	}
	for _, r := range res[:2] {
		if !scalar.EqualWithinAbs(r.Value, 0, 1e-12) {
			t.Errorf("axle %d: got %v, want 0", r.Axle, r.Value)
		}
	}
	// 0.01 over the 2 m base, reported on 3 m
	if !scalar.EqualWithinAbs(res[2].Value, 0.015, 1e-9) {
		t.Errorf("axle 2: got %v, want 0.015", res[2].Value)
	}

	if _, err := tw.Measure(l, nil); !errors.Is(err, ErrNoReferenceFrame) {
		t.Errorf("expected ErrNoReferenceFrame, got %v", err)
	}
}

func TestTwistRemoveGeometric(t *testing.T) {
	deck := twistDeck(t)
	n := nodeAt(t, deck, mgl64.Vec3{7, 3, 0})
	n.Pos = mgl64.Vec3{7, 3, 0.02}
	n.Displacement = []float64{0, 0, -0.01}

	l := Locomotive{NumAxles: 4, AxleSpacing: 2, Gauge: 2}
	frame := geom.GlobalFrame().Moved(mgl64.Vec3{4, 2, 0})
	tw := Twist{Deck: deck, Logger: quiet}
	raw, err := tw.Measure(l, &frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw.RemoveGeometric = true
	net, err := tw.Measure(l, &frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) != 3 || len(net) != 3 {
		t.Fatalf("expected 3 results, got %d and %d", len(raw), len(net))
	}
	if !scalar.EqualWithinAbs(raw[2].Value, -0.01, 1e-4) {
		t.Errorf("raw twist includes the camber: got %v", raw[2].Value)
	}
	if !scalar.EqualWithinAbs(net[2].Value, 0.01, 1e-6) {
		t.Errorf("twist due to load only: got %v, want 0.01", net[2].Value)
	}
}

func TestTwistSkipsFarWheels(t *testing.T) {
	deck := twistDeck(t)
	l := Locomotive{NumAxles: 4, AxleSpacing: 2, Gauge: 2}
	// last axle at x = 9, off the deck
	frame := geom.GlobalFrame().Moved(mgl64.Vec3{6, 2, 0})
	res, err := Twist{Deck: deck, Logger: quiet}.Measure(l, &frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 2 {
		t.Errorf("expected the group with the far axle skipped, got %d results", len(res))
	}

	single := Locomotive{NumAxles: 1, Gauge: 2}
	res, err = Twist{Deck: deck}.Measure(single, &frame)
	if err != nil || len(res) != 0 {
		t.Errorf("one axle cannot measure a twist, got %v, %v", res, err)
	}
}
