// Package combo combines the load patterns of a railway deck with partial
// factors and finds the governing combination.
package combo

import (
	"math"
	"sort"

	"github.com/alexiusacademia/gorail/internal/fe"
	"github.com/go-gl/mathgl/mgl64"
)

// Pattern names used by the default combinations
const (
	Vertical    = "vertical"    // wheel loads and uniform rail loads
	Centrifugal = "centrifugal" // centrifugal rail loads
	Braking     = "braking"     // braking or traction rail loads
	Wind        = "wind"        // wind on the rails
)

// Combination is a set of partial factors, one per pattern name. Patterns
// without a factor do not take part in the combination.
type Combination struct {
	ID          string             `json:"id"`
	Description string             `json:"description"`
	Factors     map[string]float64 `json:"factors"`
}

// TrafficGroups are ultimate limit state combinations of the traffic load
// groups with wind as accompanying action
var TrafficGroups = []Combination{
	{
		ID:          "gr11",
		Description: "1.45(V + C) + 0.725B + 0.9W",
		Factors:     map[string]float64{Vertical: 1.45, Centrifugal: 1.45, Braking: 0.725, Wind: 0.9},
	},
	{
		ID:          "gr13",
		Description: "1.45(V + B) + 0.725C + 0.9W",
		Factors:     map[string]float64{Vertical: 1.45, Centrifugal: 0.725, Braking: 1.45, Wind: 0.9},
	},
	{
		ID:          "w",
		Description: "1.16(V + C + B) + 1.5W",
		Factors:     map[string]float64{Vertical: 1.16, Centrifugal: 1.16, Braking: 1.16, Wind: 1.5},
	},
}

// Characteristic is the serviceability combination
var Characteristic = []Combination{
	{
		ID:          "sls",
		Description: "V + C + B + 0.75W",
		Factors:     map[string]float64{Vertical: 1, Centrifugal: 1, Braking: 1, Wind: 0.75},
	},
}

// NodalTotals returns the factored sum of the nodal loads of the patterns
func (c Combination) NodalTotals(patterns map[string]*fe.LoadPattern) map[int][]float64 {
	out := make(map[int][]float64)
	for name, p := range patterns {
		f, ok := c.Factors[name]
		if !ok || f == 0 {
			continue
		}
		for tag, v := range p.NodalTotals() {
			t, ok := out[tag]
			if !ok {
				t = make([]float64, len(v))
				out[tag] = t
			}
			for i, x := range v {
				t[i] += f * x
			}
		}
	}
	return out
}

// ResultantForce returns the factored resultant force of the patterns,
// elemental loads included
func (c Combination) ResultantForce(patterns map[string]*fe.LoadPattern) mgl64.Vec3 {
	var r mgl64.Vec3
	for name, p := range patterns {
		if f := c.Factors[name]; f != 0 {
			r = r.Add(p.ResultantForce().Mul(f))
		}
	}
	return r
}

// PeakNodalForce returns the node with the largest force norm in totals
func PeakNodalForce(m fe.DOFModel, totals map[int][]float64) (tag int, force float64) {
	tags := make([]int, 0, len(totals))
	for t := range totals {
		tags = append(tags, t)
	}
	sort.Ints(tags)
	tag = -1
	for _, t := range tags {
		f, _ := fe.SplitVector(m, totals[t])
		if l := f.Len(); l > force {
			tag, force = t, l
		}
	}
	return tag, force
}

// Result is the outcome of one combination
type Result struct {
	Combination Combination
	Resultant   mgl64.Vec3
	PeakNode    int
	PeakForce   float64
}

// Evaluate combines the patterns with every combination
func Evaluate(m fe.DOFModel, patterns map[string]*fe.LoadPattern, combinations []Combination) []Result {
	out := make([]Result, len(combinations))
	for i, c := range combinations {
		tag, f := PeakNodalForce(m, c.NodalTotals(patterns))
		out[i] = Result{Combination: c, Resultant: c.ResultantForce(patterns), PeakNode: tag, PeakForce: f}
	}
	return out
}

// Governing returns the result with the largest resultant force norm
func Governing(results []Result) (Result, bool) {
	var best Result
	found := false
	top := math.Inf(-1)
	for _, r := range results {
		if l := r.Resultant.Len(); l > top {
			top = l
			best = r
			found = true
		}
	}
	return best, found
}
