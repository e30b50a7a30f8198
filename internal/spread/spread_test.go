package spread

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alexiusacademia/gorail/internal/earth"
	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-7

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func grid(t *testing.T, n int) *fe.MeshSet {
	t.Helper()
	m, err := fe.NewMesh(3, 6)
	if err != nil {
		t.Fatal(err)
	}
	set, err := m.NewShellGrid("deck", mgl64.Vec3{}, 4, 4, n, n)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestGrowth(t *testing.T) {
	g := Growth([]Layer{{Depth: 0.3, Ratio: 1}, {Depth: 0.2, Ratio: 0.5}}, 0.4, 1)
	if !scalar.EqualWithinAbs(g, 1.2, 1e-12) {
		t.Errorf("got %v, want 1.2", g)
	}
}

func TestConcentratedLoad(t *testing.T) {
	d := Deck{
		Selection:     grid(t, 4),
		Layers:        []Layer{{Depth: 0.9, Ratio: 1}},
		ContactLength: 0.4,
		ContactWidth:  0.4,
	}
	lx, ly := d.Footprint(d.ContactLength)
	if !scalar.EqualWithinAbs(lx, 2.2, 1e-12) || !scalar.EqualWithinAbs(ly, 2.2, 1e-12) {
		t.Fatalf("footprint: got %vx%v", lx, ly)
	}
	lp := fe.NewLoadPattern("wheel")
	pos := mgl64.Vec3{2, 2, 0.5}
	ls, err := d.ConcentratedLoad(lp, geom.GlobalFrame(), pos, mgl64.Vec3{0, 0, -100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ls) != 9 {
		t.Errorf("expected the 9 nodes under the footprint, got %d", len(ls))
	}
	if f := lp.ResultantForce(); !f.ApproxEqualThreshold(mgl64.Vec3{0, 0, -100}, tol) {
		t.Errorf("force: got %v", f)
	}
	if m := lp.ResultantMoment(pos); !m.ApproxEqualThreshold(mgl64.Vec3{}, tol) {
		t.Errorf("moment about the wheel: got %v", m)
	}
}

func TestConcentratedLoadResidualMoment(t *testing.T) {
	m, err := fe.NewMesh(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	set, err := m.NewShellGrid("deck", mgl64.Vec3{}, 4, 4, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	// a single row of nodes along x cannot carry a moment about x
	d := Deck{Selection: set, ContactLength: 2.5, ContactWidth: 0.2, Logger: quiet}
	lp := fe.NewLoadPattern("wheel")
	ls, err := d.ConcentratedLoad(lp, geom.GlobalFrame(), mgl64.Vec3{2, 2, 0.5}, mgl64.Vec3{0, 10, -100})
	if err != nil {
		t.Fatalf("the residual moment should only be logged, got %v", err)
	}
	if len(ls) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(ls))
	}
	if f := lp.ResultantForce(); !f.ApproxEqualThreshold(mgl64.Vec3{0, 10, -100}, tol) {
		t.Errorf("force: got %v", f)
	}
}

func TestConcentratedLoadNearestNode(t *testing.T) {
	d := Deck{Selection: grid(t, 1), ContactLength: 0.2, ContactWidth: 0.2, Logger: quiet}
	lp := fe.NewLoadPattern("wheel")
	ls, err := d.ConcentratedLoad(lp, geom.GlobalFrame(), mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 0, -100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ls) != 1 {
		t.Fatalf("expected a single load on the nearest node, got %d", len(ls))
	}
	if ls[0].Tag != 0 || !scalar.EqualWithinAbs(ls[0].Vector[2], -100, tol) {
		t.Errorf("got node %d with %v", ls[0].Tag, ls[0].Vector)
	}
}

func TestUniformLoad(t *testing.T) {
	d := Deck{Selection: grid(t, 4), Layers: []Layer{{Depth: 0.5, Ratio: 1}}, ContactWidth: 0.2}
	chunk, err := geom.NewPolyline3d([]mgl64.Vec3{{0.5, 2, 0}, {3.5, 2, 0}}, geom.DefaultTolerance)
	if err != nil {
		t.Fatal(err)
	}
	lp := fe.NewLoadPattern("rail")
	if _, err := d.UniformLoad(lp, chunk, mgl64.Vec3{0, 0, -10}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f := lp.ResultantForce(); !f.ApproxEqualThreshold(mgl64.Vec3{0, 0, -30}, tol) {
		t.Errorf("force: got %v", f)
	}
	if m := lp.ResultantMoment(mgl64.Vec3{2, 2, 0}); !m.ApproxEqualThreshold(mgl64.Vec3{}, tol) {
		t.Errorf("moment about the chunk centre: got %v", m)
	}
}

func wall(t *testing.T) *fe.MeshSet {
	t.Helper()
	m, _ := fe.NewMesh(3, 6)
	for z := 0; z <= 4; z++ {
		m.AddNode(mgl64.Vec3{0, 0, -float64(z)})
		m.AddNode(mgl64.Vec3{1, 0, -float64(z)})
	}
	set := &fe.MeshSet{SetName: "wall"}
	for z := 0; z < 4; z++ {
		e, err := m.AddElement(fe.Shell, 2*z, 2*z+1, 2*z+3, 2*z+2)
		if err != nil {
			t.Fatal(err)
		}
		set.ElemList = append(set.ElemList, e)
	}
	set.FillDownwards()
	return set
}

func TestBackfillSurcharges(t *testing.T) {
	b := Backfill{
		Wall:            wall(t),
		Direction:       mgl64.Vec3{0, -1, 0},
		Depth:           0.5,
		EmbankmentRatio: 1,
		GroundZ:         0,
		FrictionAngle:   0.5,
	}
	lls := []LineLoad{{Vertical: 1e4, Horizontal: 2e3, DistWall: 2, Width: 2.6, Length: 10}}
	models := b.Surcharges(lls)
	if len(models) != 2 {
		t.Fatalf("expected a strip and a horizontal surcharge, got %d", len(models))
	}
	strip, ok := models[0].(earth.StripSurcharge)
	if !ok {
		t.Fatalf("expected a strip surcharge first, got %T", models[0])
	}
	if !scalar.EqualWithinAbs(strip.Width, 3.6, 1e-12) || !scalar.EqualWithinAbs(strip.DistWall, 0.2, 1e-12) {
		t.Errorf("strip geometry: width %v dist %v", strip.Width, strip.DistWall)
	}
	if !scalar.EqualWithinAbs(strip.Q*strip.Width, 1e4, 1e-9) {
		t.Errorf("strip should keep the rail load, got %v", strip.Q*strip.Width)
	}

	narrow := Backfill{Wall: b.Wall, Direction: b.Direction, GroundZ: -0.5, Logger: quiet}
	models = narrow.Surcharges([]LineLoad{{Vertical: 1e4, Horizontal: 2e3, DistWall: 2, Length: 10}})
	if len(models) != 1 {
		t.Fatalf("a rail without loaded width gives one line surcharge, got %d", len(models))
	}
	line, ok := models[0].(earth.LineSurcharge)
	if !ok || line.Q != 1e4 || line.DistWall != 2 || line.ZLoad != -0.5 {
		t.Errorf("line surcharge: got %#v", models[0])
	}

	b.Soil = earth.SoilPressure{GroundZ: 0, Layers: []earth.SoilLayer{{BottomZ: -10, K: 0.5, Gamma: 18e3}}, WaterZ: -20, GammaWater: 10e3}
	lp := fe.NewLoadPattern("backfill")
	ls, err := b.Apply(lp, "rail surcharge", lls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ls) == 0 {
		t.Fatal("expected loads on the wall")
	}
	if f := lp.ResultantForce(); f.Y() >= 0 || !scalar.EqualWithinAbs(f.X(), 0, tol) {
		t.Errorf("pressure should push along the direction, got %v", f)
	}
}
