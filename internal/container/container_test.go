package container

import (
	"bytes"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	h := FileHeader{
		Width: 640, Height: 480,
		BitDepth: 8, NumChannels: 3,
		Colorspace:  ColorspaceYCoCgR,
		Subsampling: 0,
		TileCols:    80, TileRows: 60,
		Quality: 100,
		Flags:   FlagLossless,
	}
	tiles := [][]byte{
		bytes.Repeat([]byte{1}, 10),
		bytes.Repeat([]byte{2}, 20),
		bytes.Repeat([]byte{3}, 5),
	}
	tags := [][4]byte{{'T', 'I', 'L', '0'}, {'T', 'I', 'L', '1'}, {'T', 'I', 'L', '2'}}

	data := Pack(h, tiles, tags)
	gotHeader, entries, gotTiles, err := Unpack(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotHeader.Width != h.Width || gotHeader.Height != h.Height || gotHeader.Colorspace != h.Colorspace {
		t.Fatalf("header mismatch: %+v", gotHeader)
	}
	if gotHeader.Flags&FlagLossless == 0 {
		t.Fatalf("expected lossless flag to round trip")
	}
	if len(entries) != 3 || len(gotTiles) != 3 {
		t.Fatalf("expected 3 chunks, got %d entries / %d tiles", len(entries), len(gotTiles))
	}
	for i, tile := range tiles {
		if !bytes.Equal(gotTiles[i], tile) {
			t.Fatalf("tile %d mismatch", i)
		}
		if entries[i].Tag != tags[i] {
			t.Fatalf("tile %d tag mismatch: got %v want %v", i, entries[i].Tag, tags[i])
		}
	}
}

func TestUnpackRejectsBadMagic(t *testing.T) {
	data := make([]byte, HeaderSize)
	_, _, _, err := Unpack(data)
	if err == nil {
		t.Fatalf("expected an error for a missing magic")
	}
}

func TestColorspaceValuesPreservedVerbatim(t *testing.T) {
	if ColorspaceYCoCgR != 1 {
		t.Fatalf("expected YCoCg-R colorspace value 1, got %d", ColorspaceYCoCgR)
	}
	if ColorspaceRGBGrayscale != 2 {
		t.Fatalf("expected RGB-grayscale colorspace value 2, got %d", ColorspaceRGBGrayscale)
	}
}
