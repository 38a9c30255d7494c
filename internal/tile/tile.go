// Package tile implements the v2 tile byte layout (L7): a 32-byte fixed
// header of eight little-endian u32 fields followed by the sub-stream
// payloads concatenated in header order, per §4.6.
//
// Grounded on the fixed-size little-endian header pattern
// github.com/deepteams/webp uses for its RIFF chunk headers (this repo
// carries its own container format instead of the WebP one) and on
// original_source/.../lossless_tile_packer.h for the exact field order
// and the sub-stream size-sum invariant (§9 supplemented feature).
package tile

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed v2 tile header length in bytes.
const HeaderSize = 32

// SubStreams holds one plane tile's seven byte-sized sub-streams plus
// the filter_pixel_count metadata field, per §4.6.
type SubStreams struct {
	FilterIDs        []byte
	LoStream         []byte
	HiStream         []byte
	FilterPixelCount int
	BlockTypes       []byte
	Palette          []byte
	Copy             []byte
	Tile4            []byte
}

// Pack serializes s into the v2 tile byte layout. The header's sizes are
// computed from the actual payload slice lengths, so the size-sum
// invariant holds by construction.
func Pack(s SubStreams) []byte {
	payloads := [][]byte{s.FilterIDs, s.LoStream, s.HiStream, s.BlockTypes, s.Palette, s.Copy, s.Tile4}

	total := HeaderSize
	for _, p := range payloads {
		total += len(p)
	}
	out := make([]byte, HeaderSize, total)

	binary.LittleEndian.PutUint32(out[0:4], uint32(len(s.FilterIDs)))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(s.LoStream)))
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(s.HiStream)))
	binary.LittleEndian.PutUint32(out[12:16], uint32(s.FilterPixelCount))
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(s.BlockTypes)))
	binary.LittleEndian.PutUint32(out[20:24], uint32(len(s.Palette)))
	binary.LittleEndian.PutUint32(out[24:28], uint32(len(s.Copy)))
	binary.LittleEndian.PutUint32(out[28:32], uint32(len(s.Tile4)))

	for _, p := range payloads {
		out = append(out, p...)
	}
	return out
}

// Unpack reverses Pack, defensively validating that the declared sizes
// sum (plus the 32-byte header) to the total tile length, per §9's
// supplemented packer invariant.
func Unpack(data []byte) (SubStreams, error) {
	if len(data) < HeaderSize {
		return SubStreams{}, errors.Errorf("tile: truncated header, got %d bytes", len(data))
	}
	sizes := [8]int{}
	for i := 0; i < 8; i++ {
		sizes[i] = int(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
	}
	filterIDsLen, loLen, hiLen, pixelCount := sizes[0], sizes[1], sizes[2], sizes[3]
	blockTypesLen, paletteLen, copyLen, tile4Len := sizes[4], sizes[5], sizes[6], sizes[7]

	want := HeaderSize + filterIDsLen + loLen + hiLen + blockTypesLen + paletteLen + copyLen + tile4Len
	if len(data) != want {
		return SubStreams{}, errors.Errorf("tile: declared sub-stream sizes sum to %d bytes, got %d", want, len(data))
	}

	pos := HeaderSize
	take := func(n int) []byte {
		b := data[pos : pos+n]
		pos += n
		return b
	}
	return SubStreams{
		FilterIDs:        take(filterIDsLen),
		LoStream:         take(loLen),
		HiStream:         take(hiLen),
		FilterPixelCount: pixelCount,
		BlockTypes:       take(blockTypesLen),
		Palette:          take(paletteLen),
		Copy:             take(copyLen),
		Tile4:            take(tile4Len),
	}, nil
}
