// Package earth provides horizontal backfill pressure models for retaining
// walls and abutments. Elevations grow upward; pressures are magnitudes
// (Pa when inputs are in N and m).
package earth

import (
	"errors"
	"fmt"
	"math"
)

// Pressure gives the horizontal pressure on a wall at an elevation
type Pressure interface {
	Name() string
	At(z float64) float64
}

// ErrInvalidModel is returned by Validate for inconsistent model data
var ErrInvalidModel = errors.New("invalid earth pressure model")

// SoilLayer is a soil stratum down to BottomZ
type SoilLayer struct {
	BottomZ float64 `json:"bottom_z"`
	K       float64 `json:"k"`     // earth pressure coefficient
	Gamma   float64 `json:"gamma"` // unit weight (N/m³)
}

// SoilPressure is the pressure of a layered backfill with a water table.
// Below the water table the submerged unit weight γ − γw is used and the
// hydrostatic pressure is added.
type SoilPressure struct {
	GroundZ    float64     `json:"ground_z"`
	Layers     []SoilLayer `json:"layers"` // top to bottom
	WaterZ     float64     `json:"water_z"`
	GammaWater float64     `json:"gamma_water"`
}

// Validate checks the layers are ordered downward from the ground
func (s SoilPressure) Validate() error {
	if len(s.Layers) == 0 {
		return fmt.Errorf("%w: no soil layers", ErrInvalidModel)
	}
	top := s.GroundZ
	for i, l := range s.Layers {
		if l.BottomZ >= top {
			return fmt.Errorf("%w: layer %d bottom %g is not below %g", ErrInvalidModel, i, l.BottomZ, top)
		}
		if l.K < 0 || l.Gamma < 0 {
			return fmt.Errorf("%w: layer %d has negative K or gamma", ErrInvalidModel, i)
		}
		top = l.BottomZ
	}
	return nil
}

func (s SoilPressure) Name() string { return "soil" }

// At returns the soil plus water pressure at elevation z
func (s SoilPressure) At(z float64) float64 {
	if z >= s.GroundZ {
		return 0
	}
	var sigmaV, k float64
	top := s.GroundZ
	for _, l := range s.Layers {
		bottom := math.Max(l.BottomZ, z)
		k = l.K
		sigmaV += s.effectiveWeight(l.Gamma, top, bottom)
		if bottom <= z {
			break
		}
		top = l.BottomZ
	}
	p := k * sigmaV
	if z < s.WaterZ {
		p += s.GammaWater * (s.WaterZ - z)
	}
	return p
}

// effectiveWeight integrates the unit weight from top down to bottom,
// using submerged weight below the water table
func (s SoilPressure) effectiveWeight(gamma, top, bottom float64) float64 {
	if top <= bottom {
		return 0
	}
	dry := math.Max(0, top-math.Max(bottom, s.WaterZ))
	wet := (top - bottom) - dry
	return gamma*dry + (gamma-s.GammaWater)*wet
}

// StripSurcharge is a uniform strip load q at elevation ZLoad, from
// DistWall to DistWall+Width measured from the wall face. Boussinesq strip
// solution: σ = 2q/π (β − sin β cos 2α).
type StripSurcharge struct {
	Q        float64 `json:"q"`
	ZLoad    float64 `json:"z_load"`
	DistWall float64 `json:"dist_wall"`
	Width    float64 `json:"width"`
}

func (s StripSurcharge) Name() string { return "strip" }

func (s StripSurcharge) At(z float64) float64 {
	h := s.ZLoad - z
	if h <= 0 || s.Width <= 0 {
		return 0
	}
	a1 := math.Atan(s.DistWall / h)
	a2 := math.Atan((s.DistWall + s.Width) / h)
	beta := a2 - a1
	alpha := a1 + beta/2
	return 2 * s.Q / math.Pi * (beta - math.Sin(beta)*math.Cos(2*alpha))
}

// LineSurcharge is a line load Q (N/m) parallel to the wall at elevation
// ZLoad and DistWall from its face. The elastic half-space solution is
// doubled for a rigid wall: σ = 4Q/π · x²h / (x²+h²)².
type LineSurcharge struct {
	Q        float64 `json:"q"`
	ZLoad    float64 `json:"z_load"`
	DistWall float64 `json:"dist_wall"`
}

func (l LineSurcharge) Name() string { return "line" }

func (l LineSurcharge) At(z float64) float64 {
	h := l.ZLoad - z
	if h <= 0 {
		return 0
	}
	x := l.DistWall
	r2 := x*x + h*h
	return 4 * l.Q / math.Pi * x * x * h / (r2 * r2)
}

// HorizontalSurcharge is a horizontal surface load Q (Pa) acting on a
// Width×Length area DistWall from the wall (braking or traction on the
// embankment). Its resultant is spread uniformly over the wall band
// between ZLoad − d·tanφ and ZLoad − (d+B)·tan(π/4+φ/2), widened along
// the wall by HorDistrAngle on each side.
type HorizontalSurcharge struct {
	Q             float64 `json:"q"`
	ZLoad         float64 `json:"z_load"`
	DistWall      float64 `json:"dist_wall"`
	Width         float64 `json:"width"`
	Length        float64 `json:"length"`
	FrictionAngle float64 `json:"friction_angle"`  // rad
	HorDistrAngle float64 `json:"hor_distr_angle"` // rad
}

func (h HorizontalSurcharge) Name() string { return "horizontal" }

// band returns the top and bottom elevations of the loaded wall band
func (h HorizontalSurcharge) band() (top, bottom float64) {
	top = h.ZLoad - h.DistWall*math.Tan(h.FrictionAngle)
	bottom = h.ZLoad - (h.DistWall+h.Width)*math.Tan(math.Pi/4+h.FrictionAngle/2)
	return top, bottom
}

func (h HorizontalSurcharge) At(z float64) float64 {
	top, bottom := h.band()
	if z > top || z < bottom || top <= bottom {
		return 0
	}
	depth := h.ZLoad - z
	spread := h.Length + 2*depth*math.Tan(h.HorDistrAngle)
	if spread <= 0 {
		return 0
	}
	return h.Q * h.Width * h.Length / ((top - bottom) * spread)
}

// Sum adds several pressure models
type Sum []Pressure

func (s Sum) Name() string { return "sum" }

func (s Sum) At(z float64) float64 {
	var p float64
	for _, m := range s {
		p += m.At(z)
	}
	return p
}

// Max returns the largest pressure among the models at elevation z
func Max(models []Pressure, z float64) float64 {
	var m float64
	for _, p := range models {
		m = math.Max(m, p.At(z))
	}
	return m
}
