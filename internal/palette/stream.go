package palette

import (
	"math/bits"

	"github.com/loco-codec/loco/internal/bitio"
)

// Stream magic bytes, versioned per §4.2.
const (
	MagicV2 = 0x40 // 8-bit unsigned colors (offset by 128 from signed)
	MagicV3 = 0x41 // v2 + palette dictionary
	MagicV4 = 0x42 // v3 but signed 16-bit colors when any color needs it
)

// Flag bits in the stream's flags byte.
const (
	FlagMaskDict    = 1 << 0
	FlagPaletteDict = 1 << 1
)

// EncodeResult carries the encoded bytes plus diagnostics for telemetry.
type EncodeResult struct {
	Data    []byte
	Reorder ReorderStats
}

// needsSigned16 reports whether any color across all blocks falls
// outside [-128,127], forcing the v4 signed-16 color representation.
func needsSigned16(blocks []Block) bool {
	for _, b := range blocks {
		for i := 0; i < b.Size; i++ {
			if b.Colors[i] < -128 || b.Colors[i] > 127 {
				return true
			}
		}
	}
	return false
}

// Encode serializes blocks (one per PALETTE-classified block, raster
// order) into a versioned palette stream.
func Encode(blocks []Block) EncodeResult {
	var res EncodeResult
	if len(blocks) == 0 {
		return res
	}

	reordered := make([]Block, len(blocks))
	for i, b := range blocks {
		reordered[i] = Reorder(b, &res.Reorder)
	}

	signed16 := needsSigned16(reordered)
	colorBytes := 1
	if signed16 {
		colorBytes = 2
	}

	var twoColor []Block
	for _, b := range reordered {
		if b.Size == 2 {
			twoColor = append(twoColor, b)
		}
	}
	maskDict, useMaskDict := BuildMaskDict(twoColor)
	paletteDict, usePaletteDict := BuildPaletteDict(reordered, colorBytes)

	magic := byte(MagicV2)
	if usePaletteDict {
		magic = MagicV3
	}
	if signed16 {
		magic = MagicV4
	}

	var flags byte
	if useMaskDict {
		flags |= FlagMaskDict
	}
	if usePaletteDict {
		flags |= FlagPaletteDict
	}

	out := []byte{magic, flags}
	if useMaskDict {
		out = append(out, byte(len(maskDict.Masks)))
		for _, m := range maskDict.Masks {
			out = appendU64LE(out, m)
		}
	}
	if usePaletteDict {
		out = append(out, byte(len(paletteDict.Entries)))
		for _, e := range paletteDict.Entries {
			out = append(out, byte(e.Size-1))
			out = appendColors(out, e.Colors[:e.Size], colorBytes)
		}
	}

	var prev *Block
	for _, b := range reordered {
		var head byte
		sameAsPrev := prev != nil && prev.Equal(b)
		if sameAsPrev {
			head |= 1 << 7
			out = append(out, head|byte(b.Size-1))
			prevCopy := b
			prev = &prevCopy
			continue
		}

		useDict := false
		dictID := -1
		if b.Size == 2 && useMaskDict {
			if id, ok := maskDict.indexOf(b.Mask()); ok {
				useDict = true
				dictID = id
			}
		} else if b.Size != 2 && usePaletteDict {
			if id, ok := paletteDict.indexOf(b); ok {
				useDict = true
				dictID = id
			}
		}
		if useDict {
			head |= 1 << 6
		}
		head |= byte(b.Size - 1)
		out = append(out, head)

		if b.Size == 2 {
			out = appendColors(out, b.Colors[:2], colorBytes)
			if useDict {
				out = append(out, byte(dictID))
			} else {
				out = appendU64LE(out, b.Mask())
			}
		} else {
			if useDict {
				out = append(out, byte(dictID))
			} else {
				out = appendColors(out, b.Colors[:b.Size], colorBytes)
			}
			if b.Size > 2 {
				out = append(out, packIndices(b.Indices[:], b.Size)...)
			}
		}

		prevCopy := b
		prev = &prevCopy
	}

	res.Data = out
	return res
}

// Decode reverses Encode, given the number of blocks the plane's block
// classifier assigned to PALETTE (carried externally via block_types).
func Decode(data []byte, numBlocks int) []Block {
	if len(data) == 0 || numBlocks == 0 {
		return nil
	}
	magic := data[0]
	flags := data[1]
	pos := 2
	colorBytes := 1
	if magic == MagicV4 {
		colorBytes = 2
	}

	var maskDict *MaskDict
	if flags&FlagMaskDict != 0 {
		n := int(data[pos])
		pos++
		maskDict = &MaskDict{}
		for i := 0; i < n; i++ {
			maskDict.Masks = append(maskDict.Masks, readU64LE(data[pos:]))
			pos += 8
		}
	}
	var paletteDict *PaletteDict
	if flags&FlagPaletteDict != 0 {
		n := int(data[pos])
		pos++
		paletteDict = &PaletteDict{}
		for i := 0; i < n; i++ {
			size := int(data[pos]) + 1
			pos++
			var e Block
			e.Size = size
			readColors(data[pos:], e.Colors[:size], colorBytes)
			pos += size * colorBytes
			paletteDict.Entries = append(paletteDict.Entries, e)
		}
	}

	blocks := make([]Block, 0, numBlocks)
	var prev Block
	for i := 0; i < numBlocks; i++ {
		head := data[pos]
		pos++
		sameAsPrev := head&(1<<7) != 0
		size := int(head&0x07) + 1
		if sameAsPrev {
			blocks = append(blocks, prev)
			continue
		}
		useDict := head&(1<<6) != 0
		var b Block
		b.Size = size

		if size == 2 {
			readColors(data[pos:], b.Colors[:2], colorBytes)
			pos += 2 * colorBytes
			if useDict {
				id := int(data[pos])
				pos++
				mask := maskDict.Masks[id]
				fillIndicesFromMask(&b, mask)
			} else {
				mask := readU64LE(data[pos:])
				pos += 8
				fillIndicesFromMask(&b, mask)
			}
		} else {
			if useDict {
				id := int(data[pos])
				pos++
				e := paletteDict.Entries[id]
				b.Size = e.Size
				b.Colors = e.Colors
			} else {
				readColors(data[pos:], b.Colors[:size], colorBytes)
				pos += size * colorBytes
			}
			if size > 2 {
				n := unpackIndices(data[pos:], b.Indices[:], size)
				pos += n
			}
			// size == 1: all indices already zero-valued.
		}
		blocks = append(blocks, b)
		prev = b
	}
	return blocks
}

func fillIndicesFromMask(b *Block, mask uint64) {
	for i := 0; i < BlockPixels; i++ {
		if mask&(1<<uint(i)) != 0 {
			b.Indices[i] = 1
		} else {
			b.Indices[i] = 0
		}
	}
}

func bitsPerIndex(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

func packIndices(indices []uint8, size int) []byte {
	w := bitio.NewWriter(BlockPixels*bitsPerIndex(size)/8 + 4)
	bpi := bitsPerIndex(size)
	for i := 0; i < BlockPixels; i++ {
		w.WriteBits(uint32(indices[i]), bpi)
	}
	return w.Finish()
}

func unpackIndices(data []byte, out []uint8, size int) int {
	bpi := bitsPerIndex(size)
	byteLen := (BlockPixels*bpi + 7) / 8
	r := bitio.NewReader(data[:byteLen])
	for i := 0; i < BlockPixels; i++ {
		out[i] = uint8(r.ReadBits(bpi))
	}
	return byteLen
}

func appendU64LE(out []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		out = append(out, byte(v>>(8*i)))
	}
	return out
}

func readU64LE(data []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(data[i]) << (8 * i)
	}
	return v
}

func appendColors(out []byte, colors []int16, colorBytes int) []byte {
	for _, c := range colors {
		if colorBytes == 1 {
			out = append(out, byte(int(c)+128))
		} else {
			u := uint16(c)
			out = append(out, byte(u), byte(u>>8))
		}
	}
	return out
}

func readColors(data []byte, out []int16, colorBytes int) {
	for i := range out {
		if colorBytes == 1 {
			out[i] = int16(data[i]) - 128
		} else {
			u := uint16(data[i*2]) | uint16(data[i*2+1])<<8
			out[i] = int16(u)
		}
	}
}
