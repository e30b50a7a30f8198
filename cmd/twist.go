package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	twistFile      string
	twistStep      int
	twistLength    float64
	twistGeometric bool
)

var twistCmd = &cobra.Command{
	Use:   "twist",
	Short: "Measure the deck twist under the vehicle of a scenario",
	Long: `Measure the twist of a displaced deck under the vehicle: for each
pair of axles, the distance of one wheel to the plane through the other
three. Node displacements are given in the scenario.

Wheels farther from the nearest deck node than the tolerance times the
average element side are skipped.

Examples:
  gorail twist --file deck.json
  gorail twist -f deck.json --axis-step 2 --base 3 --remove-geometric`,
	Run: runTwist,
}

func init() {
	rootCmd.AddCommand(twistCmd)

	twistCmd.Flags().StringVarP(&twistFile, "file", "f", "", "Path to scenario JSON file [required]")
	twistCmd.MarkFlagRequired("file")
	twistCmd.Flags().IntVar(&twistStep, "axis-step", 0, "Axles between the measuring pairs (overrides the scenario)")
	twistCmd.Flags().Float64Var(&twistLength, "base", 0, "Base length the twist is reported on (m, overrides the scenario)")
	twistCmd.Flags().BoolVar(&twistGeometric, "remove-geometric", false, "Subtract the twist of the undeformed deck")
}

func runTwist(cmd *cobra.Command, args []string) {
	m, err := loadModel(twistFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	frame, err := m.Frame()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	tw := m.Twist()
	if twistStep > 0 {
		tw.AxisStep = twistStep
	}
	if twistLength > 0 {
		tw.RequestedLength = twistLength
	}
	if twistGeometric {
		tw.RemoveGeometric = true
	}
	if tw.Tolerance <= 0 {
		tw.Tolerance = settings().TwistTolerance
	}
	results, err := tw.Measure(m.Scenario.Locomotive, frame)
	if err != nil {
		fmt.Printf("Error measuring twist: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                      DECK TWIST")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	printScenarioHeader(m)

	if len(results) == 0 {
		fmt.Println("  No axle group has all its wheels over the deck.")
		fmt.Println()
		return
	}

	step := tw.AxisStep
	if step <= 0 {
		step = 1
	}
	fmt.Println("TWIST PER AXLE GROUP:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Axles\tTwist (mm)\tDiagonal wheel z (m)\n")
	fmt.Fprintf(w, "  ─────\t──────────\t────────────────────\n")
	var worst int
	for i, r := range results {
		fmt.Fprintf(w, "  %d-%d\t%.3f\t%.4f\n", r.Axle+1, r.Axle+step+1, r.Value*1e3, r.Deformed[3].Z())
		if math.Abs(r.Value) > math.Abs(results[worst].Value) {
			worst = i
		}
	}
	w.Flush()
	fmt.Println()

	r := results[worst]
	fmt.Println("RESULT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	fmt.Printf("  Maximum twist between axles %d and %d\n", r.Axle+1, r.Axle+step+1)
	fmt.Println()
	fmt.Printf("  ╔═══════════════════════════════════╗\n")
	fmt.Printf("  ║  TWIST = %.3f mm\n", r.Value*1e3)
	fmt.Printf("  ╚═══════════════════════════════════╝\n")
	fmt.Println()
}
