// Package route implements route competition (L10): given the baseline
// FILTER tile, optionally evaluate the screen and natural alternates and
// select the shortest by byte length, per §4.9.
//
// Grounded on github.com/deepteams/webp's comparative
// encode-and-keep-smallest pattern (internal/lossy/encode_compare_test.go
// exercises exactly this shape: build several candidate encodings, keep
// the best) and on encode.go's "try palette, try cross-color, keep
// smallest" transform selection.
package route

import (
	"github.com/loco-codec/loco/internal/classify"
	"github.com/loco-codec/loco/internal/model"
	"github.com/loco-codec/loco/internal/preset"
)

// CompeteEnabled reports whether route competition should run at all for
// a plane, combining the preset plan's compete flags with the §4.9
// conservative-chroma policy for Co/Cg planes.
func CompeteEnabled(plan preset.Plan, kind model.PlaneKind, pf classify.Preflight, chromaMadMax, chromaAvgRunMin int) bool {
	if !kind.IsChroma() {
		return plan.CompeteY
	}
	if !plan.CompeteChroma {
		return false
	}
	if !plan.ConservativeChroma {
		return true
	}
	return pf.MAD <= float64(chromaMadMax) && pf.AvgRun >= float64(chromaAvgRunMin)
}

// Name identifies which route a competition picked.
type Name string

const (
	RouteBaseline Name = "baseline"
	RouteNatural  Name = "natural"
	RouteScreen   Name = "screen"
)

// Candidates holds the baseline tile (always present) plus the optional
// natural/screen alternates. A nil alternate means it was not attempted
// or failed to produce output, per §4.9 ("silently skipped").
type Candidates struct {
	Baseline []byte
	Natural  []byte
	Screen   []byte
}

// Winner is the selected route's name and bytes.
type Winner struct {
	Route Name
	Data  []byte
}

// Compete selects the shortest candidate, ties broken by the stable
// preferred order {baseline, natural, screen}. The baseline is never
// eliminated: it seeds the comparison and only loses to a strictly
// shorter alternate.
func Compete(c Candidates) Winner {
	best := Winner{Route: RouteBaseline, Data: c.Baseline}
	if c.Natural != nil && len(c.Natural) < len(best.Data) {
		best = Winner{Route: RouteNatural, Data: c.Natural}
	}
	if c.Screen != nil && len(c.Screen) < len(best.Data) {
		best = Winner{Route: RouteScreen, Data: c.Screen}
	}
	return best
}
