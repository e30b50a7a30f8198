package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gorail/internal/diagram"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

var (
	trackFile   string
	trackOutput string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Show the rail axes and free rail chunks of a scenario",
	Long: `Compute the right and left rails of the scenario track and the rail
chunks left free by the vehicle standing at the scenario position.

Examples:
  gorail track --file deck.json
  gorail track -f deck.json -o plan.svg`,
	Run: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringVarP(&trackFile, "file", "f", "", "Path to scenario JSON file [required]")
	trackCmd.MarkFlagRequired("file")
	trackCmd.Flags().StringVarP(&trackOutput, "output", "o", "", "Export track plan to file (png, svg, pdf)")
}

func runTrack(cmd *cobra.Command, args []string) {
	m, err := loadModel(trackFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	loco := m.Scenario.Locomotive
	right, left := m.Track.RailAxes()
	chunks := m.Track.RailChunks(loco, m.Scenario.Position)

	var wheels []mgl64.Vec3
	if frame, err := m.Frame(); err == nil {
		wheels, _ = loco.WheelGlobalPositions(frame)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                    TRACK AND RAILS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	printScenarioHeader(m)

	fmt.Println("RAIL AXES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Centreline:\t%.3f m\n", m.Track.Length())
	fmt.Fprintf(w, "  Right rail:\t%.3f m\n", right.Length())
	fmt.Fprintf(w, "  Left rail:\t%.3f m\n", left.Length())
	w.Flush()
	fmt.Println()

	fmt.Println("FREE RAIL CHUNKS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tSide\tStart\tEnd\tLength (m)\n")
	fmt.Fprintf(w, "  ─\t────\t─────\t───\t──────────\n")
	for i, c := range chunks {
		a := c.Polyline.Vertices[0]
		b := c.Polyline.Vertices[len(c.Polyline.Vertices)-1]
		fmt.Fprintf(w, "  %d\t%s\t(%.2f, %.2f)\t(%.2f, %.2f)\t%.3f\n", i+1, c.Side,
			a.X(), a.Y(), b.X(), b.Y(), c.Polyline.Length())
	}
	w.Flush()
	fmt.Println()

	if trackOutput != "" {
		if err := diagram.ExportTrack(m.Track, chunks, wheels, trackOutput); err != nil {
			fmt.Printf("Error exporting plan: %v\n", err)
			return
		}
		fmt.Printf("  ✓ Track plan exported to: %s\n", trackOutput)
		fmt.Println()
	}
}
