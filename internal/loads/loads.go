// Package loads binds mechanical actions to geometric selections. Every
// descriptor computes its nodal or elemental contributions and appends
// them to an explicit load pattern.
//
// Applying a descriptor is additive: applying it twice doubles the load.
// Callers keep track of what has been applied.
package loads

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrEmptySelection is returned when the target has nothing to load
	ErrEmptySelection = errors.New("target selection has nothing to load")

	// ErrNoElementsInPrism is returned when no shell centroid falls inside the load prism
	ErrNoElementsInPrism = errors.New("no elements inside the load prism")

	// ErrInvalidVector is returned for load vectors that are not 3 or 6 components long
	ErrInvalidVector = errors.New("load vector must have 3 or 6 components")
)

// Descriptor is one action bound to its target
type Descriptor interface {
	Name() string
	// Apply appends the contributions to the pattern and returns the created loads
	Apply(p fe.Pattern) ([]*fe.Load, error)
	// Scaled returns a copy with its intensity multiplied by f
	Scaled(f float64) Descriptor
}

// Base holds the fields shared by all descriptors
type Base struct {
	Label  string
	Logger *slog.Logger // nil uses slog.Default()
}

// Name returns the descriptor label
func (b Base) Name() string { return b.Label }

func (b Base) log() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// ScaleAndApply scales d by f and applies the result, returning the scaled
// descriptor together with the created loads
func ScaleAndApply(d Descriptor, f float64, p fe.Pattern) (Descriptor, []*fe.Load, error) {
	scaled := d.Scaled(f)
	ls, err := scaled.Apply(p)
	return scaled, ls, err
}

// ApplyAll applies the descriptors in order. Failures are logged and do not
// stop the remaining descriptors; they are returned joined.
func ApplyAll(p fe.Pattern, ds []Descriptor, logger *slog.Logger) ([]*fe.Load, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var all []*fe.Load
	var errs []error
	for _, d := range ds {
		ls, err := d.Apply(p)
		all = append(all, ls...)
		if err != nil {
			logger.Error("load not applied", "load", d.Name(), "pattern", p.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		logger.Debug("load applied", "load", d.Name(), "pattern", p.Name(), "count", len(ls))
	}
	return all, errors.Join(errs...)
}

// forceMoment reads a 3 (force) or 6 (force, moment) component vector
func forceMoment(v []float64) (force, moment mgl64.Vec3, err error) {
	switch len(v) {
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, mgl64.Vec3{}, nil
	case 6:
		return mgl64.Vec3{v[0], v[1], v[2]}, mgl64.Vec3{v[3], v[4], v[5]}, nil
	}
	return force, moment, fmt.Errorf("%w: got %d", ErrInvalidVector, len(v))
}

func scaleVector(v []float64, f float64) []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = c * f
	}
	return out
}

// applyNodal appends force and moment to node n, packed for its DOF model
func applyNodal(p fe.Pattern, n fe.Node, force, moment mgl64.Vec3) (*fe.Load, error) {
	m, err := fe.NodeModel(n)
	if err != nil {
		return nil, err
	}
	return p.NewNodalLoad(n, fe.NodalVector(m, force, moment))
}

func vecSlice(v mgl64.Vec3) []float64 {
	return []float64{v.X(), v.Y(), v.Z()}
}
