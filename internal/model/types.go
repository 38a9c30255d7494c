// Package model holds the zero-dependency core types shared across the
// plane encoder pipeline (Plane, BlockType, Profile, Preset, and the
// small per-block value types), so every stage package (classify,
// filter, palette, route, ...) can depend on the data model without
// depending on the plane driver that assembles them.
package model

// BlockSize is the side length, in pixels, of one classification block.
const BlockSize = 8

// Plane is a padded 2D array of signed 16-bit samples, per §3. Width and
// height are the original dimensions; PW/PH are padded up to a multiple
// of BlockSize.
type Plane struct {
	W, H   int
	PW, PH int
	Pix    []int16 // row-major, len == PW*PH
}

// BlocksWide/BlocksHigh return the block-grid dimensions.
func (p *Plane) BlocksWide() int { return p.PW / BlockSize }
func (p *Plane) BlocksHigh() int { return p.PH / BlockSize }

// Row returns the y-th padded row as a slice into Pix.
func (p *Plane) Row(y int) []int16 {
	return p.Pix[y*p.PW : (y+1)*p.PW]
}

// At returns the sample at (x, y) in the padded plane.
func (p *Plane) At(x, y int) int16 {
	return p.Pix[y*p.PW+x]
}

// Set assigns the sample at (x, y) in the padded plane.
func (p *Plane) Set(x, y int, v int16) {
	p.Pix[y*p.PW+x] = v
}

// BlockIndex returns the linear raster-order block index bi = by*bw + bx.
func (p *Plane) BlockIndex(bx, by int) int {
	return by*p.BlocksWide() + bx
}

// BlockPixels copies the 64 samples of block (bx,by) in raster order into
// dst (which must have length BlockSize*BlockSize), returning dst.
func (p *Plane) BlockPixels(bx, by int, dst []int16) []int16 {
	x0, y0 := bx*BlockSize, by*BlockSize
	for row := 0; row < BlockSize; row++ {
		copy(dst[row*BlockSize:(row+1)*BlockSize], p.Row(y0+row)[x0:x0+BlockSize])
	}
	return dst
}

// Pad builds a plane whose dimensions are rounded up to a multiple of
// BlockSize, replicating the last valid row/column into the new border.
// Pad is idempotent: padding an already-padded buffer returns an
// identical copy (testable property 3).
func Pad(src []int16, w, h int) *Plane {
	pw := roundUp8(w)
	ph := roundUp8(h)
	p := &Plane{W: w, H: h, PW: pw, PH: ph, Pix: make([]int16, pw*ph)}
	for y := 0; y < ph; y++ {
		sy := y
		if sy >= h {
			sy = h - 1
		}
		for x := 0; x < pw; x++ {
			sx := x
			if sx >= w {
				sx = w - 1
			}
			p.Pix[y*pw+x] = src[sy*w+sx]
		}
	}
	return p
}

func roundUp8(v int) int {
	return (v + BlockSize - 1) &^ (BlockSize - 1)
}

// PaddedDims returns the block-aligned padded dimensions for an
// original w x h plane, the same rounding Pad applies.
func PaddedDims(w, h int) (pw, ph int) {
	return roundUp8(w), roundUp8(h)
}

// BlockType classifies one 8x8 block, per §3.
type BlockType uint8

const (
	BlockPalette BlockType = iota
	BlockCopy
	BlockTile4
	BlockFilter
)

func (t BlockType) String() string {
	switch t {
	case BlockPalette:
		return "PALETTE"
	case BlockCopy:
		return "COPY"
	case BlockTile4:
		return "TILE4"
	case BlockFilter:
		return "FILTER"
	default:
		return "UNKNOWN"
	}
}

// Profile is the content profile derived from image statistics, per §3.
type Profile uint8

const (
	ProfileUI Profile = iota
	ProfileAnime
	ProfilePhoto
)

// Preset is the user-selected compression effort level, per §3.
type Preset uint8

const (
	PresetFast Preset = iota
	PresetBalanced
	PresetMax
)

// CopyParams identifies a run that reproduces an earlier region exactly.
type CopyParams struct {
	DX, DY int
	Length int
}

// FilterRow is one row's chosen predictor id, per §3/§4.4.
type FilterRow struct {
	FilterID uint8
}

// PlaneKind distinguishes the luma plane from the two chroma planes (and
// a lone grayscale plane) for the conservative-chroma policy (§4.9).
type PlaneKind uint8

const (
	PlaneY PlaneKind = iota
	PlaneCo
	PlaneCg
	PlaneGray
)

func (k PlaneKind) IsChroma() bool { return k == PlaneCo || k == PlaneCg }
