package earth

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSoilPressureLayers(t *testing.T) {
	s := SoilPressure{
		GroundZ: 0,
		Layers: []SoilLayer{
			{BottomZ: -2, K: 0.5, Gamma: 18e3},
			{BottomZ: -10, K: 0.3, Gamma: 20e3},
		},
		WaterZ:     -4,
		GammaWater: 10e3,
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := s.At(1); p != 0 {
		t.Errorf("above ground: got %v", p)
	}
	// first layer, 1 m deep
	if p := s.At(-1); !scalar.EqualWithinAbs(p, 0.5*18e3, 1e-6) {
		t.Errorf("z=-1: got %v", p)
	}
	// second layer, 2 m submerged: σv = 2·18 + 2·20 + 2·10 = 96 kPa, + water 20 kPa
	want := 0.3*96e3 + 20e3
	if p := s.At(-6); !scalar.EqualWithinAbs(p, want, 1e-6) {
		t.Errorf("z=-6: got %v, want %v", p, want)
	}

	bad := SoilPressure{GroundZ: 0, Layers: []SoilLayer{{BottomZ: 1, K: 0.5, Gamma: 18e3}}}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidModel) {
		t.Errorf("expected ErrInvalidModel, got %v", err)
	}
}

func TestStripSurchargeLimit(t *testing.T) {
	// a very wide strip starting at the wall tends to the half-space value q
	// multiplied by (β − sinβ cos2α)/π·2 with β → π/2, α → π/4: σ → q
	s := StripSurcharge{Q: 10e3, ZLoad: 0, DistWall: 0, Width: 1e6}
	if p := s.At(-1); !scalar.EqualWithinRel(p, 10e3, 1e-3) {
		t.Errorf("wide strip: got %v", p)
	}
	if p := s.At(1); p != 0 {
		t.Errorf("above the load: got %v", p)
	}
}

func TestLineSurchargeMaximum(t *testing.T) {
	l := LineSurcharge{Q: 1e4, ZLoad: 0, DistWall: 2}
	// maximum at h = x/√3
	h := 2 / math.Sqrt(3)
	peak := l.At(-h)
	if l.At(-h*0.8) >= peak || l.At(-h*1.2) >= peak {
		t.Errorf("expected the peak at h = x/√3, got %v", peak)
	}
}

func TestHorizontalSurchargeResultant(t *testing.T) {
	h := HorizontalSurcharge{Q: 1e3, ZLoad: 0, DistWall: 1, Width: 2, Length: 3, FrictionAngle: math.Pi / 6}
	top, bottom := h.band()
	// with no lateral spreading the band carries the whole resultant per unit wall length
	n := 1000
	dz := (top - bottom) / float64(n)
	var sum float64
	for i := 0; i < n; i++ {
		sum += h.At(top-(float64(i)+0.5)*dz) * dz * h.Length
	}
	if !scalar.EqualWithinRel(sum, h.Q*h.Width*h.Length, 1e-9) {
		t.Errorf("resultant: got %v, want %v", sum, h.Q*h.Width*h.Length)
	}
	if h.At(top+0.1) != 0 || h.At(bottom-0.1) != 0 {
		t.Error("pressure outside the band should be zero")
	}
}

func TestMaxAndSum(t *testing.T) {
	models := []Pressure{
		StripSurcharge{Q: 5e3, ZLoad: 0, DistWall: 0.5, Width: 2},
		LineSurcharge{Q: 1e4, ZLoad: 0, DistWall: 1},
	}
	z := -1.0
	m := Max(models, z)
	if m != math.Max(models[0].At(z), models[1].At(z)) {
		t.Errorf("max: got %v", m)
	}
	if s := Sum(models).At(z); !scalar.EqualWithinAbs(s, models[0].At(z)+models[1].At(z), 1e-9) {
		t.Errorf("sum: got %v", s)
	}
}
