package classify

import (
	"github.com/loco-codec/loco/internal/model"
	"github.com/loco-codec/loco/internal/palette"
)

// Thresholds bundles the profile-dependent acceptance gates for PALETTE
// and COPY, per §4.3 ("PHOTO profile narrows PALETTE to <= 4 colors").
type Thresholds struct {
	MaxPaletteColors int
	MinCopyLength    int
}

// ThresholdsFor returns the classification thresholds for a profile.
// PHOTO content rarely benefits from small inline palettes and pays for
// the attempt in wasted cycles, so it narrows the palette gate; UI/ANIME
// content is palette-rich and keeps the full budget.
func ThresholdsFor(p model.Profile) Thresholds {
	switch p {
	case model.ProfilePhoto:
		return Thresholds{MaxPaletteColors: 4, MinCopyLength: model.BlockSize * model.BlockSize}
	default:
		return Thresholds{MaxPaletteColors: palette.MaxSize, MinCopyLength: model.BlockSize * model.BlockSize}
	}
}

// Result is one block's classification outcome.
type Result struct {
	Type    model.BlockType
	Palette palette.Block // valid iff Type == BlockPalette
	Copy    model.CopyParams // valid iff Type == BlockCopy
	Tile4   []byte          // opaque 2-byte-per-subblock descriptor, valid iff Type == BlockTile4
}

// Classifier walks a plane's blocks in raster order, keeping enough
// state (the already-classified prefix) to search COPY candidates
// against previously encoded block-aligned regions.
type Classifier struct {
	plane  *model.Plane
	thr    Thresholds
	scratch [model.BlockSize * model.BlockSize]int16
}

// NewClassifier builds a classifier for plane under the given profile.
func NewClassifier(p *model.Plane, profile model.Profile) *Classifier {
	return &Classifier{plane: p, thr: ThresholdsFor(profile)}
}

// ClassifyAll classifies every block of the plane in raster order,
// returning one Result per block, indexed by model.Plane.BlockIndex.
func (c *Classifier) ClassifyAll() []Result {
	bw, bh := c.plane.BlocksWide(), c.plane.BlocksHigh()
	out := make([]Result, bw*bh)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			out[c.plane.BlockIndex(bx, by)] = c.classifyBlock(bx, by)
		}
	}
	return out
}

func (c *Classifier) classifyBlock(bx, by int) Result {
	px := c.plane.BlockPixels(bx, by, c.scratch[:])

	if b, ok := palette.Extract(px); ok && b.Size <= c.thr.MaxPaletteColors {
		return Result{Type: model.BlockPalette, Palette: b}
	}

	if cp, ok := c.findCopy(bx, by, px); ok {
		return Result{Type: model.BlockCopy, Copy: cp}
	}

	if t4, ok := c.tryTile4(px); ok {
		return Result{Type: model.BlockTile4, Tile4: t4}
	}

	return Result{Type: model.BlockFilter}
}

// findCopy searches block-aligned, already-encoded regions (blocks
// strictly before (bx,by) in raster order) for one whose pixels exactly
// match px. The search is causal: only candidates the decoder would
// already have reconstructed are eligible, matching the hash-chain LZ
// causality (internal/entropy/hashchain.go) applied here
// at block rather than byte granularity.
func (c *Classifier) findCopy(bx, by int, px []int16) (model.CopyParams, bool) {
	if c.thr.MinCopyLength > model.BlockSize*model.BlockSize {
		return model.CopyParams{}, false
	}
	bw := c.plane.BlocksWide()
	var cand [model.BlockSize * model.BlockSize]int16
	for cy := by; cy >= 0; cy-- {
		maxCx := bw - 1
		if cy == by {
			maxCx = bx - 1
		}
		for cx := maxCx; cx >= 0; cx-- {
			c.plane.BlockPixels(cx, cy, cand[:])
			if blockPixelsEqual(cand[:], px) {
				return model.CopyParams{
					DX:     (bx - cx) * model.BlockSize,
					DY:     (by - cy) * model.BlockSize,
					Length: model.BlockSize * model.BlockSize,
				}, true
			}
		}
	}
	return model.CopyParams{}, false
}

// tryTile4 attempts a TILE4 classification: the block splits into four
// 4x4 quadrants, each of which must be a single uniform color for the
// opaque 2-byte-per-subblock encoding to apply (per spec's invariant
// that TILE4 carries a fixed 2-byte cost per sub-block). Any quadrant
// with more than one distinct color falls through to FILTER.
func (c *Classifier) tryTile4(px []int16) ([]byte, bool) {
	out := make([]byte, 0, 8)
	for qy := 0; qy < 2; qy++ {
		for qx := 0; qx < 2; qx++ {
			v, ok := uniformQuadrant(px, qx, qy)
			if !ok {
				return nil, false
			}
			out = append(out, byte(uint16(v)), byte(uint16(v)>>8))
		}
	}
	return out, true
}

func blockPixelsEqual(a, b []int16) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uniformQuadrant(px []int16, qx, qy int) (int16, bool) {
	x0, y0 := qx*4, qy*4
	first := px[y0*model.BlockSize+x0]
	for y := y0; y < y0+4; y++ {
		for x := x0; x < x0+4; x++ {
			if px[y*model.BlockSize+x] != first {
				return 0, false
			}
		}
	}
	return first, true
}
