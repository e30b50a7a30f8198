package spread

import (
	"log/slog"
	"math"

	"github.com/alexiusacademia/gorail/internal/earth"
	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/loads"
	"github.com/go-gl/mathgl/mgl64"
)

// LineLoad is a rail load on the embankment behind a wall, per unit length
// along the rail
type LineLoad struct {
	Vertical   float64 // downward load (N/m)
	Horizontal float64 // load toward the wall (N/m)
	DistWall   float64 // distance from the rail to the wall face
	Width      float64 // loaded width across the rail at rail level
	Length     float64 // loaded length along the wall
}

// Backfill turns rail loads into surcharge pressures on a retaining wall
type Backfill struct {
	Wall            fe.Selection
	Direction       mgl64.Vec3     // pushes from the backfill into the wall
	Soil            earth.Pressure // optional soil pressure applied with the surcharges
	Depth           float64        // fill depth from rail level to the ground line
	EmbankmentRatio float64        // spreading ratio of the fill
	GroundZ         float64        // elevation of the ground line
	FrictionAngle   float64        // rad
	HorDistrAngle   float64        // rad
	Logger          *slog.Logger
}

// strips narrower than lineWidth are taken as line loads
const lineWidth = 1e-3

func (b Backfill) log() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// Surcharges returns the pressure models equivalent to the rail loads
func (b Backfill) Surcharges(lls []LineLoad) []earth.Pressure {
	var out []earth.Pressure
	grow := b.Depth * b.EmbankmentRatio
	for i, ll := range lls {
		width := ll.Width + 2*grow
		if width < lineWidth {
			if ll.Vertical != 0 {
				out = append(out, earth.LineSurcharge{
					Q:        ll.Vertical,
					ZLoad:    b.GroundZ,
					DistWall: ll.DistWall,
				})
			}
			if ll.Horizontal != 0 {
				b.log().Warn("horizontal rail load without a loaded width, skipped", "load", i, "width", width)
			}
			continue
		}
		dist := math.Max(0, ll.DistWall-ll.Width/2-grow)
		if ll.Vertical != 0 {
			out = append(out, earth.StripSurcharge{
				Q:        ll.Vertical / width,
				ZLoad:    b.GroundZ,
				DistWall: dist,
				Width:    width,
			})
		}
		if ll.Horizontal != 0 {
			out = append(out, earth.HorizontalSurcharge{
				Q:             ll.Horizontal / width,
				ZLoad:         b.GroundZ,
				DistWall:      dist,
				Width:         width,
				Length:        ll.Length,
				FrictionAngle: b.FrictionAngle,
				HorDistrAngle: b.HorDistrAngle,
			})
		}
	}
	return out
}

// Descriptor returns the earth pressure load of the soil and the rail surcharges
func (b Backfill) Descriptor(name string, lls []LineLoad) loads.EarthPressure {
	models := b.Surcharges(lls)
	if b.Soil != nil {
		models = append([]earth.Pressure{b.Soil}, models...)
	}
	return loads.EarthPressure{
		Base:      loads.Base{Label: name, Logger: b.Logger},
		Target:    b.Wall,
		Models:    models,
		Direction: b.Direction,
	}
}

// Apply applies the earth pressure of the rail loads on the wall
func (b Backfill) Apply(p fe.Pattern, name string, lls []LineLoad) ([]*fe.Load, error) {
	return b.Descriptor(name, lls).Apply(p)
}
