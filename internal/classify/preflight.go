// Package classify implements the block classifier (L4) and the shared
// preflight statistics pass used by profile detection and by route
// eligibility (§4.9's conservative-chroma policy, §4.8's natural-like
// gating).
//
// Grounded on github.com/deepteams/webp's transform-selection shape
// (internal/lossless/transform.go picks among
// a small set of whole-image transforms much the way this classifier
// picks among a small set of per-block types) and, for the shared
// preflight struct, on the codec's C++ original's
// encode_lossless_routes_impl.h, which computes unique/avg_run/mad/
// entropy once and reuses it across both profile detection and route
// eligibility rather than recomputing it per route (§9 supplemented
// feature).
package classify

import (
	"github.com/loco-codec/loco/internal/model"
	"gonum.org/v1/gonum/stat"
)

// Preflight holds the cheap statistical summary of a plane used to pick
// a Profile and to gate route eligibility.
type Preflight struct {
	Unique       int
	AvgRun       float64
	MAD          float64
	EntropyHint  float64 // bits/symbol, order-0
}

// Compute runs the preflight pass over a padded plane's pixels in raster
// scan order.
func Compute(p *model.Plane) Preflight {
	if len(p.Pix) == 0 {
		return Preflight{}
	}
	counts := map[int16]int{}
	var runs, runLen int
	var madSum float64
	var prev int16
	for i, v := range p.Pix {
		counts[v]++
		if i == 0 {
			runLen = 1
		} else {
			if v == prev {
				runLen++
			} else {
				runs++
				runLen = 1
			}
			diff := int(v) - int(prev)
			if diff < 0 {
				diff = -diff
			}
			madSum += float64(diff)
		}
		prev = v
	}
	runs++ // close the final run

	n := len(p.Pix)
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/float64(n))
	}
	entropy := stat.Entropy(probs) / ln2 // convert nats to bits

	return Preflight{
		Unique:      len(counts),
		AvgRun:      float64(n) / float64(runs),
		MAD:         madSum / float64(n-1+boolToInt(n == 1)),
		EntropyHint: entropy,
	}
}

const ln2 = 0.6931471805599453

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LikelyScreen reports whether the plane looks screen-like: a small
// unique-sample count, long average runs, and a low mean-abs-diff, per
// §4.7.
func (pf Preflight) LikelyScreen(uniqueMax int, avgRunMin, madMax float64) bool {
	return pf.Unique <= uniqueMax && pf.AvgRun >= avgRunMin && pf.MAD <= madMax
}

// LikelyNatural reports whether the plane looks natural-texture-like,
// per §4.8's thresholds (all configurable).
func (pf Preflight) LikelyNatural(uniqueMin int, avgRunMax, madMin, entropyMin float64) bool {
	return !pf.LikelyScreen(uniqueMin/2, avgRunMax*2, madMin*2) &&
		pf.Unique >= uniqueMin &&
		pf.AvgRun <= avgRunMax &&
		pf.MAD >= madMin &&
		pf.EntropyHint >= entropyMin
}

// DetectProfile derives a content Profile from the preflight statistics,
// per §3's Profile definition. UI content has very few unique samples
// and long runs; ANIME content has a moderate palette with flat regions;
// PHOTO content has high uniqueness and entropy.
func DetectProfile(pf Preflight) model.Profile {
	switch {
	case pf.Unique <= 32 && pf.AvgRun >= 6:
		return model.ProfileUI
	case pf.Unique <= 4096 && pf.EntropyHint < 6.5:
		return model.ProfileAnime
	default:
		return model.ProfilePhoto
	}
}
