package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gorail/internal/geom"
	"github.com/alexiusacademia/gorail/internal/vehicle"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

var (
	wheelsLoco    vehicle.Locomotive
	wheelsOrigin  []float64
	wheelsHeading float64
)

var wheelsCmd = &cobra.Command{
	Use:   "wheels",
	Short: "Compute wheel positions and wheel loads of a locomotive",
	Long: `Compute the global wheel contact points of a locomotive and the
refined wheel loads (static, classified and dynamic).

The vehicle centre is placed at --origin and heads along --heading
(degrees from global X, counterclockwise). Wheels are listed axle by
axle from the back, right wheel first.

Examples:
  # 4 axles of 250 kN at 1.6 m, standard gauge
  gorail wheels --axles 4 --axle-load 250000 --spacing 1.6

  # With dynamic and classification factors, heading along Y
  gorail wheels -n 4 -P 250000 -s 1.6 --dynamic 1.2 --alpha 1.21 --heading 90`,
	Run: runWheels,
}

func init() {
	rootCmd.AddCommand(wheelsCmd)

	wheelsCmd.Flags().IntVarP(&wheelsLoco.NumAxles, "axles", "n", 4, "Number of axles")
	wheelsCmd.Flags().Float64VarP(&wheelsLoco.AxleLoad, "axle-load", "P", 250e3, "Axle load (N)")
	wheelsCmd.Flags().Float64VarP(&wheelsLoco.AxleSpacing, "spacing", "s", 1.6, "Axle spacing (m)")
	wheelsCmd.Flags().Float64VarP(&wheelsLoco.Gauge, "gauge", "g", 1.435, "Track gauge (m)")
	wheelsCmd.Flags().Float64Var(&wheelsLoco.DynamicFactor, "dynamic", 1, "Dynamic factor")
	wheelsCmd.Flags().Float64Var(&wheelsLoco.ClassificationFactor, "alpha", 1, "Classification factor")
	wheelsCmd.Flags().Float64SliceVar(&wheelsOrigin, "origin", []float64{0, 0, 0}, "Vehicle centre x,y,z (m)")
	wheelsCmd.Flags().Float64Var(&wheelsHeading, "heading", 0, "Heading from global X (degrees)")
}

// vec3 converts a 3 component flag to a vector
func vec3(name string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("--%s needs 3 components, got %d", name, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

func runWheels(cmd *cobra.Command, args []string) {
	if err := wheelsLoco.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	origin, err := vec3("origin", wheelsOrigin)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	a := mgl64.DegToRad(wheelsHeading)
	x := mgl64.Vec3{math.Cos(a), math.Sin(a), 0}
	frame := geom.NewFrame(origin, x, geom.UnitZ.Cross(x))

	loads, err := wheelsLoco.WheelLoads(&frame, mgl64.Vec3{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                 LOCOMOTIVE WHEEL LOADS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("VEHICLE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Axles:\t%d\n", wheelsLoco.NumAxles)
	fmt.Fprintf(w, "  Axle spacing:\t%.3f m\n", wheelsLoco.AxleSpacing)
	fmt.Fprintf(w, "  Gauge:\t%.3f m\n", wheelsLoco.Gauge)
	fmt.Fprintf(w, "  Footprint length:\t%.3f m\n", wheelsLoco.FootprintLength())
	fmt.Fprintf(w, "  Wheel load:\t%.1f N\n", wheelsLoco.WheelLoad())
	fmt.Fprintf(w, "  Classified wheel load:\t%.1f N\n", wheelsLoco.ClassifiedWheelLoad())
	fmt.Fprintf(w, "  Dynamic wheel load:\t%.1f N\n", wheelsLoco.DynamicWheelLoad())
	w.Flush()
	fmt.Println()

	fmt.Println("WHEELS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Axle\tSide\tX (m)\tY (m)\tZ (m)\tFz (N)\n")
	fmt.Fprintf(w, "  ────\t────\t─────\t─────\t─────\t──────\n")
	for i, l := range loads {
		side := "right"
		if i%2 == 1 {
			side = "left"
		}
		fmt.Fprintf(w, "  %d\t%s\t%.3f\t%.3f\t%.3f\t%.1f\n", i/2+1, side,
			l.Position.X(), l.Position.Y(), l.Position.Z(), l.Force.Z())
	}
	w.Flush()
	fmt.Println()
}
