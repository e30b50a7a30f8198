// Package vehicle models railway vehicles as wheel sets: wheel positions
// along the track, wheel loads and their spreading onto a deck, and the
// twist a vehicle measures on a loaded deck.
package vehicle

import (
	"errors"
	"fmt"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/spread"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoReferenceFrame is returned when global wheel positions are requested without a frame
var ErrNoReferenceFrame = errors.New("no reference frame for the vehicle")

// ValidationError represents a vehicle definition error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// Locomotive is a vehicle with equally spaced axles
type Locomotive struct {
	Name                 string  `json:"name"`
	NumAxles             int     `json:"num_axles"`
	AxleLoad             float64 `json:"axle_load"`    // N
	AxleSpacing          float64 `json:"axle_spacing"` // m
	Gauge                float64 `json:"gauge"`        // m
	Length               float64 `json:"length"`       // overall length, 0 for NumAxles·AxleSpacing
	DynamicFactor        float64 `json:"dynamic_factor"`
	ClassificationFactor float64 `json:"classification_factor"`
}

// Validate checks the locomotive definition
func (l Locomotive) Validate() error {
	if l.NumAxles < 1 {
		return &ValidationError{fmt.Sprintf("locomotive needs at least one axle, got %d", l.NumAxles)}
	}
	if l.NumAxles > 1 && l.AxleSpacing <= 0 {
		return &ValidationError{"axle spacing must be positive"}
	}
	if l.Gauge <= 0 {
		return &ValidationError{"gauge must be positive"}
	}
	if l.AxleLoad < 0 {
		return &ValidationError{"axle load cannot be negative"}
	}
	if l.DynamicFactor < 0 || l.ClassificationFactor < 0 {
		return &ValidationError{"load factors cannot be negative"}
	}
	return nil
}

// FootprintLength returns the length the vehicle occupies on the track
func (l Locomotive) FootprintLength() float64 {
	if l.Length > 0 {
		return l.Length
	}
	return float64(l.NumAxles) * l.AxleSpacing
}

func factor(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

// WheelLoad returns half the axle load
func (l Locomotive) WheelLoad() float64 {
	return l.AxleLoad / 2
}

// ClassifiedWheelLoad returns the wheel load times the classification factor
func (l Locomotive) ClassifiedWheelLoad() float64 {
	return l.WheelLoad() * factor(l.ClassificationFactor)
}

// DynamicWheelLoad returns the classified wheel load times the dynamic factor
func (l Locomotive) DynamicWheelLoad() float64 {
	return l.ClassifiedWheelLoad() * factor(l.DynamicFactor)
}

// WheelLocalPositions returns the wheel contact points in the vehicle
// frame, centred on its midpoint: x along the track, y to the left.
// Wheels are listed axle by axle from the back, right wheel first.
func (l Locomotive) WheelLocalPositions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, 2*l.NumAxles)
	half := float64(l.NumAxles-1) / 2
	for i := 0; i < l.NumAxles; i++ {
		x := (float64(i) - half) * l.AxleSpacing
		out = append(out, mgl64.Vec3{x, -l.Gauge / 2, 0}, mgl64.Vec3{x, l.Gauge / 2, 0})
	}
	return out
}

// WheelGlobalPositions maps the wheel positions through the vehicle frame
func (l Locomotive) WheelGlobalPositions(frame *geom.Frame) ([]mgl64.Vec3, error) {
	if frame == nil {
		return nil, ErrNoReferenceFrame
	}
	local := l.WheelLocalPositions()
	out := make([]mgl64.Vec3, len(local))
	for i, p := range local {
		out[i] = frame.ToGlobal(p)
	}
	return out, nil
}

// WheelLoads returns the dynamic wheel loads at the global wheel positions
// acting along direction. A zero direction points down the global z axis.
func (l Locomotive) WheelLoads(frame *geom.Frame, direction mgl64.Vec3) ([]spread.PointLoad, error) {
	pos, err := l.WheelGlobalPositions(frame)
	if err != nil {
		return nil, err
	}
	d := geom.Unit(direction)
	if d.Len() == 0 {
		d = geom.UnitZ.Mul(-1)
	}
	f := d.Mul(l.DynamicWheelLoad())
	out := make([]spread.PointLoad, len(pos))
	for i, p := range pos {
		out[i] = spread.PointLoad{Position: p, Force: f}
	}
	return out, nil
}

// SpreadThroughLayers spreads every wheel load onto the deck through its layers
func (l Locomotive) SpreadThroughLayers(p fe.Pattern, deck spread.Deck, frame *geom.Frame) ([]*fe.Load, error) {
	pls, err := l.WheelLoads(frame, mgl64.Vec3{})
	if err != nil {
		return nil, err
	}
	return deck.ConcentratedLoads(p, *frame, pls)
}
