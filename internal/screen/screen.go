// Package screen implements the screen content route (L8): a global
// palette over the whole plane plus an rANS-coded index stream, for
// content with very few unique samples and long runs (screenshots, flat
// UI chrome), per §4.7.
//
// Grounded on github.com/deepteams/webp's global color cache
// (internal/lossless/colorcache.go), which
// indexes recently seen colors the same way this route indexes every
// distinct sample up front, and on decode_image.go's palette-indexed
// plane shape for the general approach of replacing samples with
// palette indices before entropy coding.
package screen

import (
	"sort"

	"github.com/loco-codec/loco/internal/classify"
	"github.com/loco-codec/loco/internal/entropy"
	"github.com/loco-codec/loco/internal/model"
)

// MaxPaletteSize is the largest global palette the screen route can
// index with a single byte per pixel.
const MaxPaletteSize = 256

// Result is the screen route's output: either a successful tile payload
// or a distinguishable failure reason, per §4.7.
type Result struct {
	Data       []byte
	Ok         bool
	FailReason string
}

// Eligible reports whether a plane's preflight statistics look
// screen-like, per §4.7's thresholds.
func Eligible(pf classify.Preflight, chromaMadMax, chromaAvgRunMin int) bool {
	return pf.LikelyScreen(MaxPaletteSize, 4, float64(chromaMadMax)) ||
		pf.AvgRun >= float64(chromaAvgRunMin)
}

// Encode builds the screen route's tile: a palette header (count + LE
// signed-16 colors) followed by an rANS-coded byte-per-pixel index
// stream. It fails if the plane has more than MaxPaletteSize distinct
// samples, or if the resulting payload is not smaller than baselineSize
// (a baselineSize of 0 skips that check).
func Encode(p *model.Plane, baselineSize int) Result {
	palette, indices, ok := buildGlobalPalette(p)
	if !ok {
		return Result{FailReason: "palette_too_large"}
	}

	header := make([]byte, 0, 2+2*len(palette))
	header = append(header, byte(len(palette)), byte(len(palette)>>8))
	for _, c := range palette {
		u := uint16(c)
		header = append(header, byte(u), byte(u>>8))
	}

	coded := entropy.EncodeByteStream(indices)
	out := append(header, coded...)

	if baselineSize > 0 && len(out) >= baselineSize {
		return Result{FailReason: "index_stream_too_large"}
	}
	return Result{Data: out, Ok: true}
}

// Decode reverses Encode.
func Decode(data []byte, pixelCount int) []int16 {
	n := int(data[0]) | int(data[1])<<8
	pos := 2
	palette := make([]int16, n)
	for i := 0; i < n; i++ {
		u := uint16(data[pos]) | uint16(data[pos+1])<<8
		palette[i] = int16(u)
		pos += 2
	}
	indices := entropy.DecodeByteStream(data[pos:])
	out := make([]int16, pixelCount)
	for i := 0; i < pixelCount; i++ {
		out[i] = palette[indices[i]]
	}
	return out
}

func buildGlobalPalette(p *model.Plane) ([]int16, []byte, bool) {
	seen := map[int16]int{}
	var order []int16
	for _, v := range p.Pix {
		if _, ok := seen[v]; !ok {
			if len(order) >= MaxPaletteSize {
				return nil, nil, false
			}
			seen[v] = len(order)
			order = append(order, v)
		}
	}

	freq := make([]int, len(order))
	for _, v := range p.Pix {
		freq[seen[v]]++
	}
	perm := make([]int, len(order))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool { return freq[perm[i]] > freq[perm[j]] })
	inv := make([]int, len(order))
	for newPos, oldPos := range perm {
		inv[oldPos] = newPos
	}
	palette := make([]int16, len(order))
	for oldPos, newPos := range inv {
		palette[newPos] = order[oldPos]
	}

	indices := make([]byte, len(p.Pix))
	for i, v := range p.Pix {
		indices[i] = byte(inv[seen[v]])
	}
	return palette, indices, true
}
