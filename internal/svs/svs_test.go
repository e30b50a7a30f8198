package svs

import (
	"errors"
	"testing"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-7

func vecClose(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, tol)
}

func TestMomentTransport(t *testing.T) {
	s := System3d{O: mgl64.Vec3{0, 0, 0}, F: mgl64.Vec3{0, 0, -10}, M: mgl64.Vec3{1, 0, 0}}
	moved := s.MovedTo(mgl64.Vec3{2, 0, 0})
	// M' = M + (O - O') × F = (1,0,0) + (-2,0,0)×(0,0,-10) = (1,-20,0)
	if !vecClose(moved.M, mgl64.Vec3{1, -20, 0}) {
		t.Errorf("moved moment: got %v", moved.M)
	}
	back := moved.MovedTo(s.O)
	if !vecClose(back.M, s.M) {
		t.Errorf("moving back: got %v", back.M)
	}

	p := System2d{O: mgl64.Vec2{0, 0}, F: mgl64.Vec2{0, -10}, M: 5}
	if m := p.MovedTo(mgl64.Vec2{3, 0}).M; !scalar.EqualWithinAbs(m, 5+30, tol) {
		t.Errorf("2d moved moment: got %v", m)
	}
}

func TestUnitSquareScenario(t *testing.T) {
	mesh, _ := fe.NewMesh(3, 6)
	corners := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	var nodes []fe.Node
	for _, c := range corners {
		nodes = append(nodes, mesh.AddNode(c))
	}
	lp := fe.NewLoadPattern("lp")
	s := System3d{O: mgl64.Vec3{0.5, 0.5, 0}, F: mgl64.Vec3{0, 0, -100}}
	loads, err := DistributeOnNodes(lp, s, nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loads) != 4 {
		t.Fatalf("expected 4 loads, got %d", len(loads))
	}
	for _, l := range loads {
		want := []float64{0, 0, -25, 0, 0, 0}
		for i := range want {
			if !scalar.EqualWithinAbs(l.Vector[i], want[i], tol) {
				t.Errorf("node %d: got %v, want %v", l.Tag, l.Vector, want)
				break
			}
		}
	}
}

func checkEquivalence(t *testing.T, name string, lp *fe.LoadPattern, s System3d) {
	t.Helper()
	if f := lp.ResultantForce(); !vecClose(f, s.F) {
		t.Errorf("%s: force %v, want %v", name, f, s.F)
	}
	if m := lp.ResultantMoment(s.O); !vecClose(m, s.M) {
		t.Errorf("%s: moment %v, want %v", name, m, s.M)
	}
}

func TestStaticEquivalence(t *testing.T) {
	pts3 := []mgl64.Vec3{{0, 0, 0}, {2, 0.3, 0.1}, {1.5, 2, -0.4}, {-0.5, 1, 0.8}, {0.7, -1.2, 0.2}}
	pts2 := []mgl64.Vec3{{0, 0, 0}, {2, 0.3, 0}, {1.5, 2, 0}, {-0.5, 1, 0}}

	cases := []struct {
		name      string
		dim, ndof int
		pts       []mgl64.Vec3
		s         System3d
	}{
		{"3d-6dof", 3, 6, pts3, System3d{O: mgl64.Vec3{1, 1, 1}, F: mgl64.Vec3{10, -20, 30}, M: mgl64.Vec3{5, -7, 11}}},
		{"3d-3dof", 3, 3, pts3, System3d{O: mgl64.Vec3{-1, 2, 0}, F: mgl64.Vec3{3, 4, -50}, M: mgl64.Vec3{-8, 2, 6}}},
		{"2d-3dof", 2, 3, pts2, System3d{O: mgl64.Vec3{1, 0, 0}, F: mgl64.Vec3{12, -7, 0}, M: mgl64.Vec3{0, 0, 9}}},
		{"2d-2dof", 2, 2, pts2, System3d{O: mgl64.Vec3{0, 3, 0}, F: mgl64.Vec3{-4, 15, 0}, M: mgl64.Vec3{0, 0, -13}}},
	}
	for _, c := range cases {
		mesh, err := fe.NewMesh(c.dim, c.ndof)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		var nodes []fe.Node
		for _, p := range c.pts {
			nodes = append(nodes, mesh.AddNode(p))
		}
		lp := fe.NewLoadPattern(c.name)
		if _, err := DistributeOnNodes(lp, c.s, nodes); err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		checkEquivalence(t, c.name, lp, c.s)
	}
}

func TestCollinearPoints(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	s := System3d{O: mgl64.Vec3{1, 0, 0}, F: mgl64.Vec3{0, 0, -9}, M: mgl64.Vec3{4, 0, 0}}

	cs, err := s.Distribute(pts, true)
	if err != nil {
		t.Fatalf("with moments: unexpected error %v", err)
	}
	r := Resultant(s.O, cs)
	if !vecClose(r.F, s.F) || !vecClose(r.M, s.M) {
		t.Errorf("torsion about the line should go to nodal moments, got %v", r)
	}

	_, err = s.Distribute(pts, false)
	if !errors.Is(err, ErrMomentNotRepresentable) {
		t.Errorf("without moments: expected ErrMomentNotRepresentable, got %v", err)
	}
}

func TestSinglePoint2d(t *testing.T) {
	s := System2d{O: mgl64.Vec2{0, 0}, F: mgl64.Vec2{1, 0}, M: 2}
	cs, err := s.Distribute([]mgl64.Vec2{{1, 1}}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := Resultant2d(s.O, cs)
	if !scalar.EqualWithinAbs(r.M, 2, tol) || r.F != s.F {
		t.Errorf("got %v", r)
	}
}

func TestDistributeEdgeCases(t *testing.T) {
	lp := fe.NewLoadPattern("lp")
	loads, err := DistributeOnNodes(lp, System3d{F: mgl64.Vec3{0, 0, 1}}, nil)
	if err != nil || len(loads) != 0 {
		t.Errorf("empty node list should be a no-op, got %v, %v", loads, err)
	}

	odd := &oddNode{}
	_, err = DistributeOnNodes(lp, System3d{F: mgl64.Vec3{0, 0, 1}}, []fe.Node{odd})
	if !errors.Is(err, fe.ErrUnsupportedDOF) {
		t.Errorf("expected ErrUnsupportedDOF, got %v", err)
	}
	if len(lp.Loads()) != 0 {
		t.Error("no loads should be applied on an unsupported DOF model")
	}
}

type oddNode struct{}

func (oddNode) Tag() int { return 1 }
func (oddNode) Dim() int { return 3 }
func (oddNode) NumDOF() int { return 4 }
func (oddNode) InitialPos3d() mgl64.Vec3 { return mgl64.Vec3{} }
func (oddNode) InitialPos2d() mgl64.Vec2 { return mgl64.Vec2{} }
func (oddNode) Disp() []float64 { return make([]float64, 4) }
