package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/alexiusacademia/gorail/internal/svs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

var (
	distLength float64
	distWidth  float64
	distNX     int
	distNY     int
	distDOF    int
	distOrigin []float64
	distForce  []float64
	distMoment []float64
)

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Distribute a force and moment over a grid of nodes",
	Long: `Distribute a force F and moment M acting at a point O over the nodes
of a rectangular grid, preserving static equivalence.

Every node takes F/n; the moment about the node centroid is carried by
forces of a rigid rotation, and what those cannot carry goes to nodal
moments when the nodes have rotational DOF.

Examples:
  # 100 kN down at the centre of a 4×2 m grid
  gorail distribute --length 4 --width 2 --force 0,0,-100000 --origin 2,1,0

  # Eccentric load on nodes without rotations
  gorail distribute -L 4 -W 2 --ndof 3 --force 0,0,-100000 --origin 3,1.5,0`,
	Run: runDistribute,
}

func init() {
	rootCmd.AddCommand(distributeCmd)

	distributeCmd.Flags().Float64VarP(&distLength, "length", "L", 4, "Grid length along X (m)")
	distributeCmd.Flags().Float64VarP(&distWidth, "width", "W", 2, "Grid width along Y (m)")
	distributeCmd.Flags().IntVar(&distNX, "nx", 4, "Divisions along X")
	distributeCmd.Flags().IntVar(&distNY, "ny", 2, "Divisions along Y")
	distributeCmd.Flags().IntVar(&distDOF, "ndof", 6, "Degrees of freedom per node (3 or 6)")
	distributeCmd.Flags().Float64SliceVar(&distOrigin, "origin", []float64{0, 0, 0}, "Point of application x,y,z (m)")
	distributeCmd.Flags().Float64SliceVar(&distForce, "force", []float64{0, 0, 0}, "Force fx,fy,fz (N)")
	distributeCmd.Flags().Float64SliceVar(&distMoment, "moment", []float64{0, 0, 0}, "Moment mx,my,mz (N·m)")
}

func runDistribute(cmd *cobra.Command, args []string) {
	o, err := vec3("origin", distOrigin)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	f, err := vec3("force", distForce)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	m, err := vec3("moment", distMoment)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	mesh, err := fe.NewMesh(3, distDOF)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	grid, err := mesh.NewShellGrid("grid", mgl64.Vec3{}, distLength, distWidth, distNX, distNY)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	model, _ := fe.ClassifyDOF(3, distDOF)

	lp := fe.NewLoadPattern("distributed")
	sys := svs.System3d{O: o, F: f, M: m}
	loads, err := svs.DistributeOnNodes(lp, sys, grid.Nodes())
	partial := errors.Is(err, svs.ErrMomentNotRepresentable)
	if err != nil && !partial {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("              SLIDING VECTOR DISTRIBUTION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Printf("  %d nodes, %d loads, %s nodes\n", len(grid.Nodes()), len(loads), model)
	fmt.Println()

	fmt.Println("NODAL LOADS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	printNodalTotals(lp.NodalTotals(), mesh, model, 0)
	fmt.Println()

	printEquilibrium(lp, sys)
	if partial {
		fmt.Println("  ⚠ Part of the moment cannot be carried by these nodes.")
		fmt.Println()
	}
}

// printNodalTotals prints the total load on every node, sorted by tag.
// limit > 0 keeps the nodes with the largest forces only.
func printNodalTotals(totals map[int][]float64, mesh *fe.Mesh, model fe.DOFModel, limit int) {
	tags := make([]int, 0, len(totals))
	for t := range totals {
		tags = append(tags, t)
	}
	sort.Ints(tags)
	if limit > 0 && len(tags) > limit {
		sort.SliceStable(tags, func(i, j int) bool {
			fi, _ := fe.SplitVector(model, totals[tags[i]])
			fj, _ := fe.SplitVector(model, totals[tags[j]])
			return fi.Len() > fj.Len()
		})
		tags = tags[:limit]
		sort.Ints(tags)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Node\tX\tY\tZ\tFx\tFy\tFz\tMx\tMy\tMz\n")
	fmt.Fprintf(w, "  ────\t─\t─\t─\t──\t──\t──\t──\t──\t──\n")
	for _, t := range tags {
		n, _ := mesh.Node(t)
		force, moment := fe.SplitVector(model, totals[t])
		fmt.Fprintf(w, "  %d\t%.2f\t%.2f\t%.2f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n", t,
			n.Pos.X(), n.Pos.Y(), n.Pos.Z(),
			force.X(), force.Y(), force.Z(), moment.X(), moment.Y(), moment.Z())
	}
	w.Flush()
}

// printEquilibrium compares the pattern resultant with the applied system
func printEquilibrium(lp *fe.LoadPattern, sys svs.System3d) {
	r := lp.ResultantForce()
	rm := lp.ResultantMoment(sys.O)

	fmt.Println("EQUILIBRIUM CHECK:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  \tApplied\tDistributed\tDifference\n")
	fmt.Fprintf(w, "  \t───────\t───────────\t──────────\n")
	labels := []string{"Fx", "Fy", "Fz", "Mx", "My", "Mz"}
	for i, l := range labels {
		applied, got := sys.F, r
		if i >= 3 {
			applied, got = sys.M, rm
		}
		k := i % 3
		fmt.Fprintf(w, "  %s\t%.3f\t%.3f\t%.3e\n", l, applied[k], got[k], got[k]-applied[k])
	}
	w.Flush()
	fmt.Println()
}
