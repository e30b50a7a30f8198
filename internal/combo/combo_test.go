package combo

import (
	"testing"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

func patterns(t *testing.T) (map[string]*fe.LoadPattern, fe.DOFModel) {
	t.Helper()
	m, err := fe.NewMesh(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	a := m.AddNode(mgl64.Vec3{0, 0, 0})
	b := m.AddNode(mgl64.Vec3{1, 0, 0})
	v := fe.NewLoadPattern(Vertical)
	v.NewNodalLoad(a, []float64{0, 0, -100})
	v.NewNodalLoad(b, []float64{0, 0, -50})
	br := fe.NewLoadPattern(Braking)
	br.NewNodalLoad(b, []float64{-20, 0, 0})
	model, _ := fe.ClassifyDOF(3, 3)
	return map[string]*fe.LoadPattern{Vertical: v, Braking: br}, model
}

func TestNodalTotals(t *testing.T) {
	ps, _ := patterns(t)
	c := Combination{ID: "t", Factors: map[string]float64{Vertical: 2, Braking: 0.5}}
	totals := c.NodalTotals(ps)
	if got := totals[0]; got[2] != -200 {
		t.Errorf("node 0: got %v", got)
	}
	if got := totals[1]; got[0] != -10 || got[2] != -100 {
		t.Errorf("node 1: got %v", got)
	}
	only := Combination{Factors: map[string]float64{Braking: 1}}
	if _, ok := only.NodalTotals(ps)[0]; ok {
		t.Error("node 0 has no braking load")
	}
}

func TestEvaluateAndGoverning(t *testing.T) {
	ps, model := patterns(t)
	res := Evaluate(model, ps, TrafficGroups)
	if len(res) != len(TrafficGroups) {
		t.Fatalf("expected %d results, got %d", len(TrafficGroups), len(res))
	}
	gr11 := res[0]
	if !scalar.EqualWithinAbs(gr11.Resultant.Z(), -150*1.45, 1e-9) || !scalar.EqualWithinAbs(gr11.Resultant.X(), -20*0.725, 1e-9) {
		t.Errorf("gr11 resultant: got %v", gr11.Resultant)
	}
	if gr11.PeakNode != 0 || !scalar.EqualWithinAbs(gr11.PeakForce, 145, 1e-9) {
		t.Errorf("gr11 peak: node %d force %v", gr11.PeakNode, gr11.PeakForce)
	}
	g, ok := Governing(res)
	if !ok || g.Combination.ID != "gr13" {
		t.Errorf("expected gr13 to govern, got %v", g.Combination.ID)
	}
	if _, ok := Governing(nil); ok {
		t.Error("no results cannot govern")
	}
}
