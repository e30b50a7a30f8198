package diagram

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/alexiusacademia/gorail/internal/movable"
	"github.com/alexiusacademia/gorail/internal/track"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrEmptyHistory is returned when a history has no samples to draw
var ErrEmptyHistory = errors.New("history has no samples")

// ExportHistory exports the support load histories, one line per support,
// to an image file
func ExportHistory(h movable.History, filename string) error {
	if len(h.Times) == 0 || len(h.IDs) == 0 {
		return ErrEmptyHistory
	}
	p := plot.New()
	p.Title.Text = "Movable Load on Supports"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Load"
	p.Add(plotter.NewGrid())

	for i, id := range h.IDs {
		pts := make(plotter.XYs, len(h.Times))
		for k, t := range h.Times {
			pts[k] = plotter.XY{X: t, Y: h.Values[id][k]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(id, line)
	}
	p.Legend.Top = true

	return save(p, filename)
}

// ExportTrack exports a plan view of the track: the centreline, the free
// rail chunks and the wheel positions
func ExportTrack(axis *track.Axis, chunks []track.RailChunk, wheels []mgl64.Vec3, filename string) error {
	p := plot.New()
	p.Title.Text = "Track Plan"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	centre, err := plotter.NewLine(planXYs(axis.Centerline.Vertices))
	if err != nil {
		return err
	}
	centre.LineStyle.Width = vg.Points(1)
	centre.LineStyle.Color = color.Gray{Y: 128}
	centre.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(centre)
	p.Legend.Add("centreline", centre)

	for i, c := range chunks {
		line, err := plotter.NewLine(planXYs(c.Polyline.Vertices))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
		if c.Side == track.Left {
			line.LineStyle.Color = color.RGBA{R: 0, G: 128, B: 0, A: 255}
		}
		p.Add(line)
		if i < 2 {
			p.Legend.Add(fmt.Sprintf("%s rail", c.Side), line)
		}
	}

	if len(wheels) > 0 {
		sc, err := plotter.NewScatter(planXYs(wheels))
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("wheels", sc)
	}

	start := axis.Centerline.Vertices[0]
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: start.X(), Y: start.Y()}},
		Labels: []string{fmt.Sprintf("L=%.2fm", axis.Length())},
	})
	if err != nil {
		return err
	}
	p.Add(l)

	return save(p, filename)
}

func planXYs(pts []mgl64.Vec3) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, v := range pts {
		out[i] = plotter.XY{X: v.X(), Y: v.Y()}
	}
	return out
}

// save writes the plot in the format given by the file extension, PNG by default
func save(p *plot.Plot, filename string) error {
	ext := filepath.Ext(filename)
	width := 8 * vg.Inch
	height := 6 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch ext {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
