package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/alexiusacademia/gorail/internal/combo"
	"github.com/alexiusacademia/gorail/internal/svs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

var (
	applyFile  string
	applyTop   int
	applyNodes bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the wheel and rail loads of a scenario onto the deck",
	Long: `Spread the wheel loads of the vehicle and the rail loads of the
scenario through the layers onto the deck nodes, one load pattern per
load group (vertical, centrifugal, braking, wind), then combine the
patterns and report the governing combination.

Examples:
  gorail apply --file deck.json
  gorail apply -f deck.json --nodes --top 10`,
	Run: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Path to scenario JSON file [required]")
	applyCmd.MarkFlagRequired("file")
	applyCmd.Flags().BoolVar(&applyNodes, "nodes", false, "Show the nodal totals of each pattern")
	applyCmd.Flags().IntVar(&applyTop, "top", 12, "Nodes shown per pattern, largest forces first (0 for all)")
}

func runApply(cmd *cobra.Command, args []string) {
	m, err := loadModel(applyFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	patterns, err := m.Patterns()
	if err != nil {
		fmt.Printf("Error applying loads: %v\n", err)
		return
	}
	names := make([]string, 0, len(patterns))
	for n := range patterns {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                  DECK LOAD GENERATION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	printScenarioHeader(m)

	fmt.Println("LOAD PATTERNS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Pattern\tLoads\tNodes\tFx (kN)\tFy (kN)\tFz (kN)\n")
	fmt.Fprintf(w, "  ───────\t─────\t─────\t───────\t───────\t───────\n")
	for _, n := range names {
		p := patterns[n]
		f := p.ResultantForce()
		fmt.Fprintf(w, "  %s\t%d\t%d\t%.2f\t%.2f\t%.2f\n", n, len(p.Loads()), len(p.NodalTotals()),
			f.X()/1e3, f.Y()/1e3, f.Z()/1e3)
	}
	w.Flush()
	fmt.Println()

	if frame, err := m.Frame(); err == nil {
		loco := m.Scenario.Locomotive
		pls, _ := loco.WheelLoads(frame, mgl64.Vec3{})
		var wheels svs.System3d
		wheels.O = frame.Origin
		for _, pl := range pls {
			wheels = wheels.Add(svs.System3d{O: pl.Position, F: pl.Force})
		}
		fmt.Println("WHEEL LOADS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Wheels:\t%d × %.2f kN\n", len(pls), loco.DynamicWheelLoad()/1e3)
		fmt.Fprintf(w, "  Resultant:\t(%.2f, %.2f, %.2f) kN\n", wheels.F.X()/1e3, wheels.F.Y()/1e3, wheels.F.Z()/1e3)
		fmt.Fprintf(w, "  Moment about vehicle centre:\t(%.3f, %.3f, %.3f) kN·m\n", wheels.M.X()/1e3, wheels.M.Y()/1e3, wheels.M.Z()/1e3)
		w.Flush()
		fmt.Println()
	}

	if applyNodes {
		for _, n := range names {
			fmt.Printf("NODAL TOTALS (%s):\n", n)
			fmt.Println("───────────────────────────────────────────────────────────────")
			printNodalTotals(patterns[n].NodalTotals(), m.Mesh, m.DOF, applyTop)
			fmt.Println()
		}
	}

	results := combo.Evaluate(m.DOF, patterns, m.Combinations())
	governing, ok := combo.Governing(results)

	fmt.Println("LOAD COMBINATIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tCombination\t|R| (kN)\tPeak node\tPeak (kN)\n")
	fmt.Fprintf(w, "  ─\t───────────\t────────\t─────────\t─────────\n")
	for _, r := range results {
		marker := ""
		if ok && r.Combination.ID == governing.Combination.ID {
			marker = " ← GOVERNS"
		}
		fmt.Fprintf(w, "  %s\t%s\t%.2f\t%d\t%.2f%s\n", r.Combination.ID, r.Combination.Description,
			r.Resultant.Len()/1e3, r.PeakNode, r.PeakForce/1e3, marker)
	}
	w.Flush()
	fmt.Println()

	if ok {
		fmt.Println("RESULT:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		fmt.Printf("  Governing Combination: %s (%s)\n", governing.Combination.ID, governing.Combination.Description)
		fmt.Println()
		fmt.Printf("  ╔═══════════════════════════════════════════╗\n")
		fmt.Printf("  ║  RESULTANT = (%.1f, %.1f, %.1f) kN\n", governing.Resultant.X()/1e3,
			governing.Resultant.Y()/1e3, governing.Resultant.Z()/1e3)
		fmt.Printf("  ╚═══════════════════════════════════════════╝\n")
		fmt.Println()
	}
}
