// Package scenario reads a railway deck scenario from JSON and builds the
// models it describes: the deck mesh, the track, the vehicle, the rail
// loads and the movable load row.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alexiusacademia/gorail/internal/combo"
	"github.com/alexiusacademia/gorail/internal/movable"
	"github.com/alexiusacademia/gorail/internal/spread"
	"github.com/alexiusacademia/gorail/internal/vehicle"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoPosition is returned when an operation needs the vehicle on the track
var ErrNoPosition = errors.New("scenario has no vehicle position")

// ErrNoMovableLoad is returned when the scenario has no movable load row
var ErrNoMovableLoad = errors.New("scenario has no movable load")

// Scenario is the JSON description of a loaded deck
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Tolerance merges track points closer than it, 0 for the geometric default
	Tolerance float64 `json:"tolerance,omitempty"`

	Mesh       MeshSpec           `json:"mesh"`
	Deck       DeckSpec           `json:"deck"`
	Track      TrackSpec          `json:"track"`
	Locomotive vehicle.Locomotive `json:"locomotive"`

	// Position is the relative position λ ∈ [0,1] of the vehicle centre
	// along the track. Without it the rails are loaded over their length.
	Position *float64 `json:"position,omitempty"`

	Rails         RailSpec            `json:"rails"`
	Twist         TwistSpec           `json:"twist"`
	Displacements []Displacement      `json:"displacements,omitempty"`
	Movable       *MovableSpec        `json:"movable,omitempty"`
	Combinations  []combo.Combination `json:"combinations,omitempty"`
}

// MeshSpec is the nodal model of the deck mesh
type MeshSpec struct {
	Dim  int `json:"dim"`
	NDOF int `json:"ndof"`
}

// DeckSpec is a rectangular shell deck with the layers above it
type DeckSpec struct {
	Origin        mgl64.Vec3     `json:"origin"`
	Length        float64        `json:"length"` // along x
	Width         float64        `json:"width"`  // along y
	NX            int            `json:"nx"`
	NY            int            `json:"ny"`
	Thickness     float64        `json:"thickness"`
	Ratio         float64        `json:"ratio"`
	Rho           float64        `json:"rho,omitempty"` // mass per unit area
	Layers        []spread.Layer `json:"layers,omitempty"`
	ContactLength float64        `json:"contact_length"`
	ContactWidth  float64        `json:"contact_width"`
}

// TrackSpec is the track centreline at rail level
type TrackSpec struct {
	Points []mgl64.Vec3 `json:"points"`
	Gauge  float64      `json:"gauge"`
	Cant   float64      `json:"cant,omitempty"`
}

// RailSpec holds the rail loads per unit length (N/m)
type RailSpec struct {
	Uniform          mgl64.Vec3 `json:"uniform"`
	CentrifugalRight float64    `json:"centrifugal_right,omitempty"`
	CentrifugalLeft  float64    `json:"centrifugal_left,omitempty"`
	Braking          float64    `json:"braking,omitempty"`
	WindRight        float64    `json:"wind_right,omitempty"`
	WindLeft         float64    `json:"wind_left,omitempty"`
	Step             float64    `json:"step,omitempty"` // lumping step, 0 for the deck mesh size
}

// TwistSpec configures the deck twist measure
type TwistSpec struct {
	AxisStep        int     `json:"axis_step,omitempty"`
	RequestedLength float64 `json:"requested_length,omitempty"`
	RemoveGeometric bool    `json:"remove_geometric,omitempty"`
	Tolerance       float64 `json:"tolerance,omitempty"`
}

// Displacement is a displacement vector given at the deck node nearest to Pos
type Displacement struct {
	Pos  mgl64.Vec3 `json:"pos"`
	Disp []float64  `json:"disp"`
}

// MovableSpec is a point load travelling over a row of supports
type MovableSpec struct {
	Load     float64           `json:"load"`
	Speed    float64           `json:"speed"`
	T0       float64           `json:"t0,omitempty"`
	TEnd     float64           `json:"t_end"`
	Step     float64           `json:"step,omitempty"`
	Supports []movable.Support `json:"supports"`
}

// LoadFromFile loads a scenario definition from a JSON file
func LoadFromFile(filepath string) (*Scenario, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filepath, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks if the scenario definition is valid
func (s *Scenario) Validate() error {
	if s.Mesh.Dim != 3 {
		return &ValidationError{fmt.Sprintf("deck mesh must be spatial, got dimension %d", s.Mesh.Dim)}
	}
	if s.Mesh.NDOF != 3 && s.Mesh.NDOF != 6 {
		return &ValidationError{fmt.Sprintf("deck nodes must have 3 or 6 DOF, got %d", s.Mesh.NDOF)}
	}
	if s.Deck.Length <= 0 || s.Deck.Width <= 0 {
		return &ValidationError{"deck length and width must be positive"}
	}
	if s.Deck.NX < 1 || s.Deck.NY < 1 {
		return &ValidationError{"deck needs at least one division per side"}
	}
	if s.Deck.Thickness < 0 || s.Deck.Ratio < 0 {
		return &ValidationError{"deck thickness and spreading ratio cannot be negative"}
	}
	for i, l := range s.Deck.Layers {
		if l.Depth < 0 || l.Ratio < 0 {
			return &ValidationError{fmt.Sprintf("layer %d has a negative depth or ratio", i+1)}
		}
	}
	if len(s.Track.Points) < 2 {
		return &ValidationError{"track needs at least 2 points"}
	}
	if s.Track.Gauge <= 0 {
		return &ValidationError{"track gauge must be positive"}
	}
	if err := s.Locomotive.Validate(); err != nil {
		return &ValidationError{fmt.Sprintf("locomotive: %v", err)}
	}
	if s.Locomotive.Gauge != s.Track.Gauge {
		return &ValidationError{fmt.Sprintf("locomotive gauge %g differs from track gauge %g", s.Locomotive.Gauge, s.Track.Gauge)}
	}
	if s.Position != nil && (*s.Position < 0 || *s.Position > 1) {
		return &ValidationError{fmt.Sprintf("position must be in [0,1], got %g", *s.Position)}
	}
	if s.Tolerance < 0 {
		return &ValidationError{"tolerance cannot be negative"}
	}
	if s.Rails.Step < 0 {
		return &ValidationError{"rail load step cannot be negative"}
	}
	for i, d := range s.Displacements {
		if len(d.Disp) != s.Mesh.NDOF {
			return &ValidationError{fmt.Sprintf("displacement %d must have %d components", i+1, s.Mesh.NDOF)}
		}
	}
	if m := s.Movable; m != nil {
		if len(m.Supports) == 0 {
			return &ValidationError{"movable load needs at least one support"}
		}
		if m.TEnd < m.T0 {
			return &ValidationError{"movable load history ends before it begins"}
		}
		if m.Step < 0 {
			return &ValidationError{"movable load step cannot be negative"}
		}
	}
	for i, c := range s.Combinations {
		if c.ID == "" || len(c.Factors) == 0 {
			return &ValidationError{fmt.Sprintf("combination %d needs an id and factors", i+1)}
		}
	}
	return nil
}

// ValidationError represents a scenario validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
