// Package palette implements the per-block palette extractor and the
// palette+indices stream codec (L3): mask-dictionary and palette-dictionary
// optimization, signed-color promotion, and per-block reorder optimization.
//
// Grounded on github.com/deepteams/webp's color cache
// (internal/lossless/colorcache.go — a small
// hash-addressed recent-colors table) generalized here to an exhaustive
// per-block palette, and on the codec's C++ original
// (original_source/src/codec/palette_codec.h, palette_extractor.h) for
// the exact stream layout described only at a high level above.
package palette

import "sort"

// MaxSize is the largest palette a single 8x8 block can carry.
const MaxSize = 8

// BlockPixels is the number of pixels (and indices) per 8x8 block.
const BlockPixels = 64

// Block is one PALETTE-classified block's extracted representation.
type Block struct {
	Size    int
	Colors  [MaxSize]int16
	Indices [BlockPixels]uint8 // indices into Colors[:Size], raster order
}

// Extract builds the palette of an 8x8 block of signed samples in raster
// order. It returns ok=false if the block has more than MaxSize distinct
// colors (the classifier should then try another block type).
func Extract(block []int16) (Block, bool) {
	var b Block
	seen := make(map[int16]int, MaxSize)
	order := make([]int16, 0, MaxSize)
	counts := make([]int, 0, MaxSize)
	for i, v := range block {
		idx, ok := seen[v]
		if !ok {
			if len(order) >= MaxSize {
				return Block{}, false
			}
			idx = len(order)
			seen[v] = idx
			order = append(order, v)
			counts = append(counts, 0)
		}
		counts[idx]++
		b.Indices[i] = uint8(idx)
	}
	// Frequency-sorted order (the "current"/default candidate for reorder).
	perm := make([]int, len(order))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool { return counts[perm[i]] > counts[perm[j]] })
	inv := make([]int, len(order))
	for newPos, oldPos := range perm {
		inv[oldPos] = newPos
	}
	b.Size = len(order)
	for newPos, oldPos := range perm {
		b.Colors[newPos] = order[oldPos]
	}
	for i, idx := range b.Indices[:BlockPixels] {
		if int(idx) < len(order) {
			b.Indices[i] = uint8(inv[idx])
		}
	}
	return b, true
}

// Mask packs a 2-color block's 64 indices into a 64-bit mask: bit i set
// means pixel i uses color index 1.
func (b Block) Mask() uint64 {
	var m uint64
	for i := 0; i < BlockPixels; i++ {
		if b.Indices[i] != 0 {
			m |= 1 << uint(i)
		}
	}
	return m
}

// Equal reports whether two blocks are byte-identical (size, colors in
// order, and indices), the definition of palette equality used by the
// same-as-previous encoding.
func (a Block) Equal(b Block) bool {
	if a.Size != b.Size {
		return false
	}
	for i := 0; i < a.Size; i++ {
		if a.Colors[i] != b.Colors[i] {
			return false
		}
	}
	return a.Indices == b.Indices
}
