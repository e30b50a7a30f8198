// Package diagram draws movable load histories and track plans, as images
// through gonum/plot or as terminal charts.
package diagram

import (
	"github.com/alexiusacademia/gorail/internal/movable"
	"github.com/guptarohit/asciigraph"
)

// ASCIIHistory draws the support load histories as a terminal chart, one
// series per support
func ASCIIHistory(h movable.History, height int) (string, error) {
	if len(h.Times) == 0 || len(h.IDs) == 0 {
		return "", ErrEmptyHistory
	}
	series := make([][]float64, len(h.IDs))
	for i, id := range h.IDs {
		series[i] = h.Values[id]
	}
	if height <= 0 {
		height = 12
	}
	colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Green, asciigraph.Red, asciigraph.Yellow, asciigraph.Cyan, asciigraph.Magenta}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Caption("load on supports vs time step"),
		asciigraph.SeriesLegends(h.IDs...),
	}
	if len(series) <= len(colors) {
		opts = append(opts, asciigraph.SeriesColors(colors[:len(series)]...))
	}
	return asciigraph.PlotMany(series, opts...), nil
}
