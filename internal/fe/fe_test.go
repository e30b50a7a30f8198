package fe

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestClassifyDOF(t *testing.T) {
	cases := []struct {
		dim, ndof int
		want      DOFModel
	}{
		{3, 6, Spatial6},
		{3, 3, Spatial3},
		{2, 3, Plane3},
		{2, 2, Plane2},
	}
	for _, c := range cases {
		got, err := ClassifyDOF(c.dim, c.ndof)
		if err != nil || got != c.want {
			t.Errorf("ClassifyDOF(%d,%d) = %v, %v", c.dim, c.ndof, got, err)
		}
	}
	if _, err := ClassifyDOF(3, 4); !errors.Is(err, ErrUnsupportedDOF) {
		t.Errorf("expected ErrUnsupportedDOF, got %v", err)
	}
	if _, err := NewMesh(2, 6); !errors.Is(err, ErrUnsupportedDOF) {
		t.Errorf("NewMesh: expected ErrUnsupportedDOF, got %v", err)
	}
}

func TestNodalVectorRoundTrip(t *testing.T) {
	f := mgl64.Vec3{1, 2, 3}
	m := mgl64.Vec3{4, 5, 6}
	v := NodalVector(Plane3, f, m)
	if len(v) != 3 || v[2] != 6 {
		t.Fatalf("unexpected plane vector %v", v)
	}
	gf, gm := SplitVector(Spatial6, NodalVector(Spatial6, f, m))
	if gf != f || gm != m {
		t.Errorf("round trip lost data: %v %v", gf, gm)
	}
}

func TestShellGrid(t *testing.T) {
	mesh, _ := NewMesh(3, 6)
	set, err := mesh.NewShellGrid("deck", mgl64.Vec3{}, 4, 2, 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Nodes()) != 15 || len(set.Elements()) != 8 {
		t.Fatalf("expected 15 nodes and 8 elements, got %d and %d", len(set.Nodes()), len(set.Elements()))
	}
	srf := set.Surfaces()[0]
	if !scalar.EqualWithinAbs(srf.Area(), 8, 1e-12) {
		t.Errorf("surface area: expected 8, got %v", srf.Area())
	}
	if c := srf.Centroid(); !c.ApproxEqual(mgl64.Vec3{2, 1, 0}) {
		t.Errorf("surface centroid: got %v", c)
	}
	if !scalar.EqualWithinAbs(AverageSideLength(set.Elements()), 1, 1e-12) {
		t.Errorf("average side: got %v", AverageSideLength(set.Elements()))
	}
	n, d := NearestNode(set.Nodes(), mgl64.Vec3{1.1, 0.9, 0.3})
	if n.InitialPos3d() != (mgl64.Vec3{1, 1, 0}) {
		t.Errorf("nearest node at %v, distance %v", n.InitialPos3d(), d)
	}
}

func TestLoadPatternResultants(t *testing.T) {
	mesh, _ := NewMesh(3, 6)
	set, _ := mesh.NewLineMesh("beam", Beam3d, mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}, 1)
	lp := NewLoadPattern("lp0")
	nodes := set.Nodes()
	if _, err := lp.NewNodalLoad(nodes[1], []float64{0, 0, -10, 0, 0, 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := lp.NewNodalLoad(nodes[0], []float64{0, 0, -10}); err == nil {
		t.Error("expected a DOF mismatch error")
	}
	if _, err := lp.NewElementalLoad(set.Elements()[0], UniformGlobal, []float64{0, 0, -5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := lp.ResultantForce()
	if !scalar.EqualWithinAbs(f.Z(), -20, 1e-12) {
		t.Errorf("resultant force: got %v", f)
	}
	m := lp.ResultantMoment(mgl64.Vec3{})
	// -10 at x=2 and -10 at x=1 about the origin
	if !scalar.EqualWithinAbs(m.Y(), 30, 1e-12) {
		t.Errorf("resultant moment: got %v", m)
	}
	if len(lp.Loads()) != 2 || lp.Loads()[0].ID == lp.Loads()[1].ID {
		t.Error("expected two loads with distinct ids")
	}
}
