package palette

import "sort"

// MaskDict is a small table of recurring 2-color index masks, letting a
// 2-color block reference a mask by a 1-byte id instead of inlining the
// 8-byte mask.
type MaskDict struct {
	Masks []uint64
}

func (d *MaskDict) indexOf(mask uint64) (int, bool) {
	for i, m := range d.Masks {
		if m == mask {
			return i, true
		}
	}
	return -1, false
}

// BuildMaskDict collects the distinct masks among twoColorBlocks (raster
// order) and adopts a dictionary if it actually saves bytes, per §4.2:
// adopted iff 1 + 8*|dict| + N < 8*N, and |dict| <= 255.
func BuildMaskDict(twoColorBlocks []Block) (*MaskDict, bool) {
	n := len(twoColorBlocks)
	if n == 0 {
		return nil, false
	}
	freq := map[uint64]int{}
	for _, b := range twoColorBlocks {
		freq[b.Mask()]++
	}
	masks := make([]uint64, 0, len(freq))
	for m := range freq {
		masks = append(masks, m)
	}
	sort.Slice(masks, func(i, j int) bool { return freq[masks[i]] > freq[masks[j]] })
	if len(masks) > 255 {
		masks = masks[:255]
	}
	dict := &MaskDict{Masks: masks}

	cost := 1 + 8*len(dict.Masks) + n
	baseline := 8 * n
	if cost < baseline {
		return dict, true
	}
	return nil, false
}

// PaletteDict is a small table of recurring full (size+colors) palettes.
type PaletteDict struct {
	Entries []Block // only Size/Colors are meaningful
}

func (d *PaletteDict) indexOf(b Block) (int, bool) {
	for i, e := range d.Entries {
		if e.Size == b.Size && e.Colors == b.Colors {
			return i, true
		}
	}
	return -1, false
}

// BuildPaletteDict collects recurring palettes into a dictionary.
// colorBytes is set by the caller (1 for v2/v3 8-bit colors, 2
// for v4 signed 16-bit colors) so the byte-gain estimate in BuildPaletteDict
// matches the stream's actual color width.
func BuildPaletteDict(blocks []Block, colorBytes int) (*PaletteDict, bool) {
	type key struct {
		size   int
		colors [MaxSize]int16
	}
	freq := map[key]int{}
	for _, b := range blocks {
		freq[key{b.Size, b.Colors}]++
	}
	type cand struct {
		k    key
		m    int
		gain int
	}
	var cands []cand
	for k, m := range freq {
		if m < 2 {
			continue // a palette that occurs once can't be "recurring"
		}
		inlineBytes := k.size * colorBytes
		gain := m*inlineBytes - (m + 1 + inlineBytes)
		if gain <= 0 {
			continue
		}
		cands = append(cands, cand{k, m, gain})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].gain != cands[j].gain {
			return cands[i].gain > cands[j].gain
		}
		if cands[i].m != cands[j].m {
			return cands[i].m > cands[j].m
		}
		return cands[i].k.size > cands[j].k.size
	})
	if len(cands) > 255 {
		cands = cands[:255]
	}
	if len(cands) == 0 {
		return nil, false
	}
	dict := &PaletteDict{}
	for _, c := range cands {
		dict.Entries = append(dict.Entries, Block{Size: c.k.size, Colors: c.k.colors})
	}
	return dict, true
}
