// Package container packs the output file format: a 48-byte FileHeader
// followed by a ChunkDirectory and the tile payloads, per §6.
//
// Grounded on the fixed-size little-endian header + directory-of-chunks
// shape of github.com/deepteams/webp's RIFF container (its mux/ code),
// replaced here by the codec's own flat format.
package container

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Magic identifies this container format.
var Magic = [4]byte{'L', 'O', 'C', 'O'}

// FlagLossless is bit 0 of FileHeader.Flags.
const FlagLossless = 1 << 0

// Colorspace byte values, preserved verbatim for container compatibility
// (§9): the labels look swapped but the values are intentional.
const (
	ColorspaceYCoCgR       = 1
	ColorspaceRGBGrayscale = 2
)

// HeaderSize is the fixed FileHeader length in bytes.
const HeaderSize = 48

// FileHeader is the container's fixed-size leading record.
type FileHeader struct {
	Width, Height   uint32
	BitDepth        uint8
	NumChannels     uint8
	Colorspace      uint8
	Subsampling     uint8
	TileCols        uint16
	TileRows        uint16
	Quality         uint8
	Flags           uint8
	PIndexDensity   uint32
}

// ChunkEntry is one ChunkDirectory record: a 4-byte tag plus the tile
// payload's offset and length within the file.
type ChunkEntry struct {
	Tag    [4]byte
	Offset uint32
	Length uint32
}

const chunkEntrySize = 4 + 4 + 4

// Pack serializes a FileHeader, its ChunkDirectory, and the tile
// payloads (in directory order) into one file buffer.
func Pack(h FileHeader, tiles [][]byte, tags [][4]byte) []byte {
	dirSize := len(tiles) * chunkEntrySize
	offset := uint32(HeaderSize + dirSize)

	entries := make([]ChunkEntry, len(tiles))
	for i, t := range tiles {
		entries[i] = ChunkEntry{Tag: tags[i], Offset: offset, Length: uint32(len(t))}
		offset += uint32(len(t))
	}

	out := make([]byte, HeaderSize, offset)
	copy(out[0:4], Magic[:])
	binary.LittleEndian.PutUint32(out[4:8], h.Width)
	binary.LittleEndian.PutUint32(out[8:12], h.Height)
	out[12] = h.BitDepth
	out[13] = h.NumChannels
	out[14] = h.Colorspace
	out[15] = h.Subsampling
	binary.LittleEndian.PutUint16(out[16:18], h.TileCols)
	binary.LittleEndian.PutUint16(out[18:20], h.TileRows)
	out[20] = h.Quality
	out[21] = h.Flags
	binary.LittleEndian.PutUint32(out[22:26], h.PIndexDensity)
	// out[26:48] reserved, zero-filled.

	for _, e := range entries {
		buf := make([]byte, chunkEntrySize)
		copy(buf[0:4], e.Tag[:])
		binary.LittleEndian.PutUint32(buf[4:8], e.Offset)
		binary.LittleEndian.PutUint32(buf[8:12], e.Length)
		out = append(out, buf...)
	}
	for _, t := range tiles {
		out = append(out, t...)
	}
	return out
}

// Unpack reverses Pack.
func Unpack(data []byte) (FileHeader, []ChunkEntry, [][]byte, error) {
	if len(data) < HeaderSize {
		return FileHeader{}, nil, nil, errors.New("container: truncated header")
	}
	if string(data[0:4]) != string(Magic[:]) {
		return FileHeader{}, nil, nil, errors.Errorf("container: bad magic %q", data[0:4])
	}
	h := FileHeader{
		Width:         binary.LittleEndian.Uint32(data[4:8]),
		Height:        binary.LittleEndian.Uint32(data[8:12]),
		BitDepth:      data[12],
		NumChannels:   data[13],
		Colorspace:    data[14],
		Subsampling:   data[15],
		TileCols:      binary.LittleEndian.Uint16(data[16:18]),
		TileRows:      binary.LittleEndian.Uint16(data[18:20]),
		Quality:       data[20],
		Flags:         data[21],
		PIndexDensity: binary.LittleEndian.Uint32(data[22:26]),
	}

	numChunks := int(h.NumChannels)
	dirEnd := HeaderSize + numChunks*chunkEntrySize
	if len(data) < dirEnd {
		return FileHeader{}, nil, nil, errors.New("container: truncated chunk directory")
	}
	entries := make([]ChunkEntry, numChunks)
	tiles := make([][]byte, numChunks)
	pos := HeaderSize
	for i := 0; i < numChunks; i++ {
		var tag [4]byte
		copy(tag[:], data[pos:pos+4])
		offset := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		length := binary.LittleEndian.Uint32(data[pos+8 : pos+12])
		entries[i] = ChunkEntry{Tag: tag, Offset: offset, Length: length}
		pos += chunkEntrySize

		if int(offset)+int(length) > len(data) {
			return FileHeader{}, nil, nil, errors.Errorf("container: chunk %d out of bounds", i)
		}
		tiles[i] = data[offset : offset+length]
	}
	return h, entries, tiles, nil
}
