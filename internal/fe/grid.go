package fe

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// NewShellGrid meshes the rectangle origin + [0,lx]×[0,ly] (in the XY plane)
// with nx×ny quadrilateral shells and returns the set holding its nodes,
// elements and single surface, already filled downwards.
func (m *Mesh) NewShellGrid(name string, origin mgl64.Vec3, lx, ly float64, nx, ny int) (*MeshSet, error) {
	if nx < 1 || ny < 1 || lx <= 0 || ly <= 0 {
		return nil, fmt.Errorf("invalid grid %gx%g with %dx%d divisions", lx, ly, nx, ny)
	}
	if m.Dimension != 3 {
		return nil, fmt.Errorf("shell grids need a 3D mesh, got dim=%d", m.Dimension)
	}
	tags := make([][]int, nx+1)
	for i := 0; i <= nx; i++ {
		tags[i] = make([]int, ny+1)
		for j := 0; j <= ny; j++ {
			p := origin.Add(mgl64.Vec3{lx * float64(i) / float64(nx), ly * float64(j) / float64(ny), 0})
			tags[i][j] = m.AddNode(p).ID
		}
	}
	srf := &MeshSurface{}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			e, err := m.AddElement(Shell, tags[i][j], tags[i+1][j], tags[i+1][j+1], tags[i][j+1])
			if err != nil {
				return nil, err
			}
			srf.ElemList = append(srf.ElemList, e)
		}
	}
	set := &MeshSet{SetName: name, SurfList: []Surface{srf}}
	set.FillDownwards()
	return set, nil
}

// NewLineMesh divides the segment ab into n elements of the given kind and
// returns the set holding its nodes, elements and line
func (m *Mesh) NewLineMesh(name string, kind ElementType, a, b mgl64.Vec3, n int) (*MeshSet, error) {
	if n < 1 {
		return nil, fmt.Errorf("line %s needs at least one division", name)
	}
	if kind == Shell {
		return nil, fmt.Errorf("line %s: shells cannot mesh a line", name)
	}
	line := &MeshLine{A: a, B: b}
	set := &MeshSet{SetName: name}
	prev := m.AddNode(a)
	line.NodeList = append(line.NodeList, prev)
	for i := 1; i <= n; i++ {
		node := m.AddNode(a.Add(b.Sub(a).Mul(float64(i) / float64(n))))
		e, err := m.AddElement(kind, prev.ID, node.ID)
		if err != nil {
			return nil, err
		}
		set.ElemList = append(set.ElemList, e)
		line.NodeList = append(line.NodeList, node)
		prev = node
	}
	set.LineList = []Line{line}
	set.FillDownwards()
	return set, nil
}
