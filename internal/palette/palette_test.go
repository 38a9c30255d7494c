package palette

import "testing"

func solidBlock(v int16) []int16 {
	b := make([]int16, BlockPixels)
	for i := range b {
		b[i] = v
	}
	return b
}

func checkerBlock(a, b int16) []int16 {
	out := make([]int16, BlockPixels)
	for i := range out {
		x, y := i%8, i/8
		if (x+y)%2 == 0 {
			out[i] = a
		} else {
			out[i] = b
		}
	}
	return out
}

// TestSolidColorBlock pins scenario (a): an 8x8 single-color plane's
// palette block declares size 1.
func TestSolidColorBlock(t *testing.T) {
	px := solidBlock(42)
	b, ok := Extract(px)
	if !ok {
		t.Fatalf("expected solid block to extract a palette")
	}
	if b.Size != 1 {
		t.Fatalf("expected size 1, got %d", b.Size)
	}
	if b.Colors[0] != 42 {
		t.Fatalf("expected color 42, got %d", b.Colors[0])
	}
	res := Encode([]Block{b})
	if res.Data[0] != MagicV2 {
		t.Fatalf("expected v2 magic for small in-range colors, got %#x", res.Data[0])
	}
	decoded := Decode(res.Data, 1)
	if len(decoded) != 1 || decoded[0].Size != 1 || decoded[0].Colors[0] != 42 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

// TestCheckerboardMaskDict pins a reduced form of scenario (b): two 8x8
// blocks, each a checkerboard of the same two colors, should adopt the
// mask dictionary with a single shared mask.
func TestCheckerboardMaskDict(t *testing.T) {
	b1, ok1 := Extract(checkerBlock(0, 1))
	b2, ok2 := Extract(checkerBlock(0, 1))
	if !ok1 || !ok2 {
		t.Fatalf("expected checkerboard blocks to extract")
	}
	if b1.Size != 2 || b2.Size != 2 {
		t.Fatalf("expected size-2 palettes, got %d and %d", b1.Size, b2.Size)
	}

	res := Encode([]Block{b1, b2})
	if res.Data[1]&FlagMaskDict == 0 {
		t.Fatalf("expected mask dict to be adopted for two identical checkerboard blocks")
	}
	decoded := Decode(res.Data, 2)
	if len(decoded) != 2 {
		t.Fatalf("expected 2 decoded blocks, got %d", len(decoded))
	}
	for i, orig := range []Block{b1, b2} {
		if decoded[i].Indices != orig.Indices {
			t.Fatalf("block %d indices mismatch after round trip", i)
		}
	}
}

func TestReorderPreservesPixelMeaning(t *testing.T) {
	px := make([]int16, BlockPixels)
	colors := []int16{10, -5, 100, 0}
	for i := range px {
		px[i] = colors[i%len(colors)]
	}
	b, ok := Extract(px)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	var stats ReorderStats
	reordered := Reorder(b, &stats)
	for i := 0; i < BlockPixels; i++ {
		if reordered.Colors[reordered.Indices[i]] != b.Colors[b.Indices[i]] {
			t.Fatalf("pixel %d meaning changed by reorder", i)
		}
	}
}

func TestEncodeDecodeRoundTripVariedSizes(t *testing.T) {
	var blocks []Block
	blocks = append(blocks, mustExtract(t, solidBlock(7)))
	blocks = append(blocks, mustExtract(t, checkerBlock(3, -3)))
	px3 := make([]int16, BlockPixels)
	vals3 := []int16{1, 2, 3}
	for i := range px3 {
		px3[i] = vals3[i%3]
	}
	blocks = append(blocks, mustExtract(t, px3))

	px8 := make([]int16, BlockPixels)
	for i := range px8 {
		px8[i] = int16(i % 8)
	}
	blocks = append(blocks, mustExtract(t, px8))
	// Duplicate the last block to exercise same-as-previous.
	blocks = append(blocks, blocks[len(blocks)-1])

	res := Encode(blocks)
	decoded := Decode(res.Data, len(blocks))
	if len(decoded) != len(blocks) {
		t.Fatalf("expected %d blocks, got %d", len(blocks), len(decoded))
	}
	for i, orig := range blocks {
		if decoded[i].Size != orig.Size {
			t.Fatalf("block %d: size mismatch got %d want %d", i, decoded[i].Size, orig.Size)
		}
		for p := 0; p < BlockPixels; p++ {
			gotColor := decoded[i].Colors[decoded[i].Indices[p]]
			wantColor := orig.Colors[orig.Indices[p]]
			if gotColor != wantColor {
				t.Fatalf("block %d pixel %d: got %d want %d", i, p, gotColor, wantColor)
			}
		}
	}
}

func mustExtract(t *testing.T, px []int16) Block {
	t.Helper()
	b, ok := Extract(px)
	if !ok {
		t.Fatalf("expected extraction to succeed")
	}
	return b
}

func TestSignedColorsForceV4(t *testing.T) {
	px := make([]int16, BlockPixels)
	vals := []int16{-200, 300}
	for i := range px {
		px[i] = vals[i%2]
	}
	b := mustExtract(t, px)
	res := Encode([]Block{b})
	if res.Data[0] != MagicV4 {
		t.Fatalf("expected v4 magic for out-of-range colors, got %#x", res.Data[0])
	}
	decoded := Decode(res.Data, 1)
	for p := 0; p < BlockPixels; p++ {
		if decoded[0].Colors[decoded[0].Indices[p]] != b.Colors[b.Indices[p]] {
			t.Fatalf("pixel %d mismatch after v4 round trip", p)
		}
	}
}
