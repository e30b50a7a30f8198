package fe

import (
	"fmt"
	"math"
	"sort"

	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/stat"
)

// MeshNode is the in-memory Node
type MeshNode struct {
	ID           int        `json:"id"`
	Pos          mgl64.Vec3 `json:"pos"`
	Dimension    int        `json:"dim"`
	DOF          int        `json:"ndof"`
	Displacement []float64  `json:"disp,omitempty"`
}

func (n *MeshNode) Tag() int { return n.ID }
func (n *MeshNode) Dim() int { return n.Dimension }
func (n *MeshNode) NumDOF() int { return n.DOF }
func (n *MeshNode) InitialPos3d() mgl64.Vec3 { return n.Pos }
func (n *MeshNode) InitialPos2d() mgl64.Vec2 { return n.Pos.Vec2() }

// Disp returns the displacement, zero filled to NumDOF components
func (n *MeshNode) Disp() []float64 {
	d := make([]float64, n.DOF)
	copy(d, n.Displacement)
	return d
}

// MeshElement is the in-memory Element
type MeshElement struct {
	ID       int
	Kind     ElementType
	Conn     []*MeshNode
	Rho      float64    // mass per unit length (1D) or unit area (shells)
	XAxisRef mgl64.Vec3 // optional local x axis for shells
}

func (e *MeshElement) Tag() int { return e.ID }
func (e *MeshElement) Type() ElementType { return e.Kind }

func (e *MeshElement) Dim() int {
	if len(e.Conn) == 0 {
		return 3
	}
	return e.Conn[0].Dimension
}

func (e *MeshElement) Nodes() []Node {
	nodes := make([]Node, len(e.Conn))
	for i, n := range e.Conn {
		nodes[i] = n
	}
	return nodes
}

func (e *MeshElement) positions() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, len(e.Conn))
	for i, n := range e.Conn {
		pts[i] = n.Pos
	}
	return pts
}

func (e *MeshElement) Length() float64 {
	if len(e.Conn) < 2 {
		return 0
	}
	return geom.Dist(e.Conn[0].Pos, e.Conn[len(e.Conn)-1].Pos)
}

func (e *MeshElement) Area() float64 {
	if e.Kind != Shell {
		return 0
	}
	a, _ := geom.PolygonArea(e.positions())
	return a
}

func (e *MeshElement) Centroid() mgl64.Vec3 {
	if e.Kind == Shell {
		_, c := geom.PolygonArea(e.positions())
		return c
	}
	return geom.Centroid(e.positions())
}

func (e *MeshElement) Axis() mgl64.Vec3 {
	if e.Kind == Shell && e.XAxisRef.Len() > 0 {
		return geom.Unit(geom.Perpendicular(e.XAxisRef, e.Normal()))
	}
	if len(e.Conn) < 2 {
		return geom.UnitX
	}
	return geom.Unit(e.Conn[1].Pos.Sub(e.Conn[0].Pos))
}

func (e *MeshElement) Normal() mgl64.Vec3 {
	if e.Kind == Shell {
		return geom.PolygonNormal(e.positions())
	}
	return geom.AnyNormal(e.Axis())
}

func (e *MeshElement) Mass() float64 {
	if e.Kind == Shell {
		return e.Rho * e.Area()
	}
	return e.Rho * e.Length()
}

// MeshLine is the in-memory Line
type MeshLine struct {
	A, B     mgl64.Vec3
	NodeList []Node
}

func (l *MeshLine) From() mgl64.Vec3 { return l.A }
func (l *MeshLine) To() mgl64.Vec3 { return l.B }
func (l *MeshLine) Nodes() []Node { return l.NodeList }

// MeshSurface is the in-memory Surface
type MeshSurface struct {
	ElemList []Element
}

func (s *MeshSurface) Elements() []Element { return s.ElemList }

func (s *MeshSurface) Area() float64 {
	var a float64
	for _, e := range s.ElemList {
		a += e.Area()
	}
	return a
}

func (s *MeshSurface) Centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	var area float64
	for _, e := range s.ElemList {
		a := e.Area()
		sum = sum.Add(e.Centroid().Mul(a))
		area += a
	}
	if area == 0 {
		return sum
	}
	return sum.Mul(1 / area)
}

// Nodes returns every node of the surface elements once, ordered by tag
func (s *MeshSurface) Nodes() []Node {
	return uniqueNodes(s.ElemList)
}

// MeshSet is the in-memory Selection
type MeshSet struct {
	SetName  string
	NodeList []Node
	ElemList []Element
	LineList []Line
	SurfList []Surface
}

func (s *MeshSet) Name() string { return s.SetName }
func (s *MeshSet) Nodes() []Node { return s.NodeList }
func (s *MeshSet) Elements() []Element { return s.ElemList }
func (s *MeshSet) Lines() []Line { return s.LineList }
func (s *MeshSet) Surfaces() []Surface { return s.SurfList }

// FillDownwards materialises the nodes and elements of the set's lines and
// surfaces into its own lists. Callers run it before handing the set to
// the load engine.
func (s *MeshSet) FillDownwards() {
	elems := append([]Element(nil), s.ElemList...)
	for _, srf := range s.SurfList {
		elems = append(elems, srf.Elements()...)
	}
	s.ElemList = uniqueElements(elems)

	nodes := append([]Node(nil), s.NodeList...)
	for _, e := range s.ElemList {
		nodes = append(nodes, e.Nodes()...)
	}
	for _, l := range s.LineList {
		nodes = append(nodes, l.Nodes()...)
	}
	s.NodeList = dedupNodes(nodes)
}

func uniqueElements(elems []Element) []Element {
	seen := make(map[int]bool, len(elems))
	out := make([]Element, 0, len(elems))
	for _, e := range elems {
		if !seen[e.Tag()] {
			seen[e.Tag()] = true
			out = append(out, e)
		}
	}
	return out
}

func uniqueNodes(elems []Element) []Node {
	var nodes []Node
	for _, e := range elems {
		nodes = append(nodes, e.Nodes()...)
	}
	return dedupNodes(nodes)
}

func dedupNodes(nodes []Node) []Node {
	seen := make(map[int]bool, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if !seen[n.Tag()] {
			seen[n.Tag()] = true
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag() < out[j].Tag() })
	return out
}

// Mesh stores nodes and elements by tag
type Mesh struct {
	Dimension int
	DOF       int

	nodes    map[int]*MeshNode
	elements map[int]*MeshElement
	nextNode int
	nextElem int
}

// NewMesh creates an empty mesh whose nodes have the given dimension and DOF count
func NewMesh(dim, ndof int) (*Mesh, error) {
	if _, err := ClassifyDOF(dim, ndof); err != nil {
		return nil, err
	}
	return &Mesh{
		Dimension: dim,
		DOF:       ndof,
		nodes:     make(map[int]*MeshNode),
		elements:  make(map[int]*MeshElement),
	}, nil
}

// AddNode creates a node at pos
func (m *Mesh) AddNode(pos mgl64.Vec3) *MeshNode {
	n := &MeshNode{ID: m.nextNode, Pos: pos, Dimension: m.Dimension, DOF: m.DOF}
	m.nodes[n.ID] = n
	m.nextNode++
	return n
}

// AddElement creates an element connecting the nodes with the given tags
func (m *Mesh) AddElement(kind ElementType, tags ...int) (*MeshElement, error) {
	conn := make([]*MeshNode, len(tags))
	for i, t := range tags {
		n, ok := m.nodes[t]
		if !ok {
			return nil, fmt.Errorf("element %d: node %d not found", m.nextElem, t)
		}
		conn[i] = n
	}
	minNodes := 2
	if kind == Shell {
		minNodes = 3
	}
	if len(conn) < minNodes {
		return nil, fmt.Errorf("element %d: %s needs at least %d nodes, got %d", m.nextElem, kind, minNodes, len(conn))
	}
	e := &MeshElement{ID: m.nextElem, Kind: kind, Conn: conn}
	m.elements[e.ID] = e
	m.nextElem++
	return e, nil
}

// Node returns the node with the given tag
func (m *Mesh) Node(tag int) (*MeshNode, bool) {
	n, ok := m.nodes[tag]
	return n, ok
}

// Element returns the element with the given tag
func (m *Mesh) Element(tag int) (*MeshElement, bool) {
	e, ok := m.elements[tag]
	return e, ok
}

// NumNodes returns the number of nodes
func (m *Mesh) NumNodes() int { return len(m.nodes) }

// NumElements returns the number of elements
func (m *Mesh) NumElements() int { return len(m.elements) }

// AllNodes returns the nodes ordered by tag
func (m *Mesh) AllNodes() []Node {
	out := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag() < out[j].Tag() })
	return out
}

// AllElements returns the elements ordered by tag
func (m *Mesh) AllElements() []Element {
	out := make([]Element, 0, len(m.elements))
	for _, e := range m.elements {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag() < out[j].Tag() })
	return out
}

// NearestNode returns the node of the list nearest to p and its distance
func NearestNode(nodes []Node, p mgl64.Vec3) (Node, float64) {
	var best Node
	bestDist := math.Inf(1)
	for _, n := range nodes {
		if d := geom.Dist(n.InitialPos3d(), p); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, bestDist
}

// AverageSideLength returns the mean length of the element sides
func AverageSideLength(elems []Element) float64 {
	var sides []float64
	for _, e := range elems {
		nodes := e.Nodes()
		if len(nodes) == 2 {
			sides = append(sides, geom.Dist(nodes[0].InitialPos3d(), nodes[1].InitialPos3d()))
			continue
		}
		for i := range nodes {
			j := (i + 1) % len(nodes)
			sides = append(sides, geom.Dist(nodes[i].InitialPos3d(), nodes[j].InitialPos3d()))
		}
	}
	if len(sides) == 0 {
		return 0
	}
	return stat.Mean(sides, nil)
}
