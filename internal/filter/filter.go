// Package filter implements the per-row predictive filter builder (L5).
//
// Grounded on github.com/deepteams/webp's spatial predictor set
// (internal/lossless/decode_transform.go's predict/selectPredictor
// functions), adapted from VP8L's per-tile 2D predictor selection to
// a per-row 1D selection with a
// profile-gated candidate set and a choice of SAD or ENTROPY cost model.
package filter

import (
	"github.com/loco-codec/loco/internal/model"
)

// Predictor is one candidate row predictor, per §3's FilterRow.
type Predictor uint8

const (
	PredNone    Predictor = iota // predicted = 0
	PredSubLeft                  // predicted = left neighbor
	PredUp                       // predicted = pixel directly above
	PredAvg                      // predicted = (left + up) / 2
	PredPaeth                    // predicted = Paeth(left, up, upLeft)
)

func (p Predictor) String() string {
	switch p {
	case PredNone:
		return "NONE"
	case PredSubLeft:
		return "SUB"
	case PredUp:
		return "UP"
	case PredAvg:
		return "AVG"
	case PredPaeth:
		return "PAETH"
	default:
		return "UNKNOWN"
	}
}

// CandidatesFor returns the predictor set a profile may choose from, per
// §3 ("standard image filters ... plus profile-specific variants").
// PHOTO content benefits from Paeth's edge-detection behavior; UI/ANIME
// content rarely needs it and skipping it saves a cost-model pass.
func CandidatesFor(profile model.Profile) []Predictor {
	switch profile {
	case model.ProfilePhoto:
		return []Predictor{PredNone, PredSubLeft, PredUp, PredAvg, PredPaeth}
	default:
		return []Predictor{PredNone, PredSubLeft, PredUp, PredAvg}
	}
}

// Predict exposes the predictor function so a decoder can reproduce the
// same predicted value from already-reconstructed neighbors.
func Predict(pred Predictor, left, up, upLeft int16) int16 {
	return predict(pred, left, up, upLeft)
}

func predict(pred Predictor, left, up, upLeft int16) int16 {
	switch pred {
	case PredSubLeft:
		return left
	case PredUp:
		return up
	case PredAvg:
		return int16((int32(left) + int32(up)) / 2)
	case PredPaeth:
		return paeth(left, up, upLeft)
	default:
		return 0
	}
}

// paeth is the classic PNG/VP8L edge predictor.
func paeth(left, up, upLeft int16) int16 {
	p := int32(left) + int32(up) - int32(upLeft)
	pa, pb, pc := abs32(p-int32(left)), abs32(p-int32(up)), abs32(p-int32(upLeft))
	switch {
	case pa <= pb && pa <= pc:
		return left
	case pb <= pc:
		return up
	default:
		return upLeft
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// CostModel selects how a row's filter_id is scored, per §4.4.
type CostModel uint8

const (
	CostSAD CostModel = iota
	CostEntropy
)

// estimateFilterSymbolBits2 approximates the entropy cost, in bits, of
// coding one residual of the given magnitude under a profile's symbol
// model. The exact constants are a tuning parameter; this uses a
// log-domain shape consistent with a Golomb-like coder (small residuals
// cost little, magnitude grows logarithmically).
func estimateFilterSymbolBits2(absResidual int, profile model.Profile) float64 {
	base := 1.0
	if profile == model.ProfilePhoto {
		base = 0.75 // photo content's residual distribution is peakier
	}
	bits := base
	for v := absResidual; v > 0; v >>= 1 {
		bits++
	}
	return bits
}

// Rows is the result of building filter rows for one plane: one
// Predictor per padded row, and the residual stream for all non-anchor
// pixels in raster (row-major) order.
type Rows struct {
	IDs       []Predictor
	Residuals []int16
}

// BuildRows selects a per-row predictor and emits residuals, per §4.4.
// blockTypes is indexed by model.Plane.BlockIndex and marks which 8x8
// blocks are PALETTE-, COPY-, or TILE4-classified anchors whose pixels
// are known to the decoder by other means and therefore skipped here.
//
// Column 0 of every row is filtered like any other column, using a left
// neighbor of 0 (and, for row 0, an up/up-left of 0 too): every
// predictor degenerates to predicting 0 there, so the residual is
// simply the pixel's own value and no out-of-band seed is needed to
// decode it back. This keeps the residual stream's length a fixed
// function of the plane's non-anchor pixel count, which a decoder can
// reproduce without extra bookkeeping. Concrete scenario: an 8-wide
// horizontal ramp [0..7] padded to 8x8 by row replication selects
// SUB-left on row 0, emitting residuals [0,1,1,1,1,1,1,1].
func BuildRows(p *model.Plane, blockTypes []model.BlockType, profile model.Profile, cost CostModel) Rows {
	candidates := CandidatesFor(profile)
	var out Rows
	out.IDs = make([]Predictor, p.PH)

	for y := 0; y < p.PH; y++ {
		best := candidates[0]
		bestCost := -1.0
		var bestResiduals []int16
		for _, cand := range candidates {
			residuals, c := scoreRow(p, blockTypes, y, cand, profile, cost)
			if bestCost < 0 || c < bestCost {
				bestCost = c
				best = cand
				bestResiduals = residuals
			}
		}
		out.IDs[y] = best
		out.Residuals = append(out.Residuals, bestResiduals...)
	}
	return out
}

func scoreRow(p *model.Plane, blockTypes []model.BlockType, y int, pred Predictor, profile model.Profile, cost CostModel) ([]int16, float64) {
	bw := p.BlocksWide()
	var residuals []int16
	var total float64
	for x := 0; x < p.PW; x++ {
		bx, by := x/model.BlockSize, y/model.BlockSize
		bt := blockTypes[by*bw+bx]
		if bt == model.BlockPalette || bt == model.BlockCopy || bt == model.BlockTile4 {
			continue
		}
		var left, up, upLeft int16
		if x > 0 {
			left = p.At(x-1, y)
		}
		if y > 0 {
			up = p.At(x, y-1)
			if x > 0 {
				upLeft = p.At(x-1, y-1)
			}
		}
		r := p.At(x, y) - predict(pred, left, up, upLeft)
		residuals = append(residuals, r)
		abs := int(r)
		if abs < 0 {
			abs = -abs
		}
		if cost == CostSAD {
			total += float64(abs)
		} else {
			total += estimateFilterSymbolBits2(abs, profile)
		}
	}
	return residuals, total
}
