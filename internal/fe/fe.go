// Package fe defines the contract between the load engine and the finite
// element model it loads: nodes, elements, geometric selections and load
// patterns. The engine never assembles or solves the model; it only reads
// geometry and appends loads.
//
// The package also carries an in-memory implementation of the contract
// (Mesh, LoadPattern) used by the command line tool and the tests.
package fe

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnsupportedDOF is returned for a (dimension, DOF) pair the engine cannot load
var ErrUnsupportedDOF = errors.New("unsupported number of degrees of freedom")

// ElementType tags elements by their structural behaviour
type ElementType int

const (
	Beam2d ElementType = iota
	Beam3d
	Truss
	Shell
)

func (t ElementType) String() string {
	switch t {
	case Beam2d:
		return "beam2d"
	case Beam3d:
		return "beam3d"
	case Truss:
		return "truss"
	case Shell:
		return "shell"
	}
	return fmt.Sprintf("ElementType(%d)", int(t))
}

// IsBeam reports whether the element carries bending
func (t ElementType) IsBeam() bool {
	return t == Beam2d || t == Beam3d
}

// Node is a mesh node
type Node interface {
	Tag() int
	Dim() int    // spatial dimension, 2 or 3
	NumDOF() int // degrees of freedom per node
	InitialPos3d() mgl64.Vec3
	InitialPos2d() mgl64.Vec2
	Disp() []float64 // current displacement, NumDOF components
}

// Element is a mesh element
type Element interface {
	Tag() int
	Type() ElementType
	Dim() int
	Nodes() []Node
	Length() float64 // 1D elements: distance between end nodes
	Area() float64   // shell elements: surface area
	Centroid() mgl64.Vec3
	Axis() mgl64.Vec3   // unit local x axis
	Normal() mgl64.Vec3 // unit normal (shells)
	Mass() float64
}

// Line is an edge of the geometric model carrying mesh nodes
type Line interface {
	From() mgl64.Vec3
	To() mgl64.Vec3
	Nodes() []Node
}

// Surface is a face of the geometric model meshed with shell elements
type Surface interface {
	Area() float64
	Centroid() mgl64.Vec3
	Nodes() []Node // face, edge and vertex nodes without repetition
	Elements() []Element
}

// Selection is a named group of model entities. Lower rank members
// (the nodes and elements of lines and surfaces) must be materialised
// before the selection is handed to the engine.
type Selection interface {
	Name() string
	Nodes() []Node
	Elements() []Element
	Lines() []Line
	Surfaces() []Surface
}

// ElementalLoadKind tells the model how to interpret an elemental load vector
type ElementalLoadKind int

const (
	UniformLocal  ElementalLoadKind = iota // uniform load in element local axes
	UniformGlobal                          // uniform load in global axes
	Strain                                 // imposed strain, no load vector semantics
)

func (k ElementalLoadKind) String() string {
	switch k {
	case UniformLocal:
		return "uniform-local"
	case UniformGlobal:
		return "uniform-global"
	case Strain:
		return "strain"
	}
	return fmt.Sprintf("ElementalLoadKind(%d)", int(k))
}

// Pattern is the load pattern loads are appended to. It is a single
// writer, append-only sink for the duration of one application pass.
type Pattern interface {
	Name() string
	NewNodalLoad(n Node, v []float64) (*Load, error)
	NewElementalLoad(e Element, kind ElementalLoadKind, v []float64) (*Load, error)
}

// RefSystem selects the axes a load vector is expressed in
type RefSystem int

const (
	Global RefSystem = iota
	Local
)

// DOFModel is one of the supported nodal degrees of freedom layouts
type DOFModel int

const (
	Spatial6 DOFModel = iota // 3D: ux uy uz rx ry rz
	Spatial3                 // 3D: ux uy uz
	Plane3                   // 2D: ux uy rz
	Plane2                   // 2D: ux uy
)

// ClassifyDOF returns the DOF model for a spatial dimension and DOF count
func ClassifyDOF(dim, ndof int) (DOFModel, error) {
	switch {
	case dim == 3 && ndof == 6:
		return Spatial6, nil
	case dim == 3 && ndof == 3:
		return Spatial3, nil
	case dim == 2 && ndof == 3:
		return Plane3, nil
	case dim == 2 && ndof == 2:
		return Plane2, nil
	}
	return 0, fmt.Errorf("%w: dim=%d ndof=%d", ErrUnsupportedDOF, dim, ndof)
}

func (m DOFModel) String() string {
	switch m {
	case Spatial6:
		return "3D 6-DOF"
	case Spatial3:
		return "3D 3-DOF"
	case Plane3:
		return "2D 3-DOF"
	case Plane2:
		return "2D 2-DOF"
	}
	return fmt.Sprintf("DOFModel(%d)", int(m))
}

// HasRotations reports whether the model carries nodal moments
func (m DOFModel) HasRotations() bool {
	return m == Spatial6 || m == Plane3
}

// NodalVector packs a force and a moment into a nodal load vector for the model.
// Components the model cannot carry are dropped.
func NodalVector(m DOFModel, force, moment mgl64.Vec3) []float64 {
	switch m {
	case Spatial6:
		return []float64{force.X(), force.Y(), force.Z(), moment.X(), moment.Y(), moment.Z()}
	case Spatial3:
		return []float64{force.X(), force.Y(), force.Z()}
	case Plane3:
		return []float64{force.X(), force.Y(), moment.Z()}
	default:
		return []float64{force.X(), force.Y()}
	}
}

// SplitVector is the inverse of NodalVector
func SplitVector(m DOFModel, v []float64) (force, moment mgl64.Vec3) {
	at := func(i int) float64 {
		if i < len(v) {
			return v[i]
		}
		return 0
	}
	switch m {
	case Spatial6:
		return mgl64.Vec3{at(0), at(1), at(2)}, mgl64.Vec3{at(3), at(4), at(5)}
	case Spatial3:
		return mgl64.Vec3{at(0), at(1), at(2)}, mgl64.Vec3{}
	case Plane3:
		return mgl64.Vec3{at(0), at(1), 0}, mgl64.Vec3{0, 0, at(2)}
	default:
		return mgl64.Vec3{at(0), at(1), 0}, mgl64.Vec3{}
	}
}

// NodeModel returns the DOF model of a node
func NodeModel(n Node) (DOFModel, error) {
	return ClassifyDOF(n.Dim(), n.NumDOF())
}

// CommonModel returns the DOF model shared by all the nodes
func CommonModel(nodes []Node) (DOFModel, error) {
	if len(nodes) == 0 {
		return 0, errors.New("no nodes")
	}
	m, err := NodeModel(nodes[0])
	if err != nil {
		return 0, err
	}
	for _, n := range nodes[1:] {
		mi, err := NodeModel(n)
		if err != nil {
			return 0, err
		}
		if mi != m {
			return 0, fmt.Errorf("%w: node %d differs from node %d", ErrUnsupportedDOF, n.Tag(), nodes[0].Tag())
		}
	}
	return m, nil
}
