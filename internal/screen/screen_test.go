package screen

import (
	"testing"

	"github.com/loco-codec/loco/internal/model"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	px := make([]int16, 64)
	colors := []int16{10, -20, 30}
	for i := range px {
		px[i] = colors[i%len(colors)]
	}
	p := model.Pad(px, 8, 8)
	res := Encode(p, 0)
	if !res.Ok {
		t.Fatalf("expected encode to succeed, got failure reason %q", res.FailReason)
	}
	decoded := Decode(res.Data, len(p.Pix))
	for i, v := range decoded {
		if v != p.Pix[i] {
			t.Fatalf("pixel %d mismatch: got %d want %d", i, v, p.Pix[i])
		}
	}
}

func TestEncodeFailsOnTooManyColors(t *testing.T) {
	px := make([]int16, 512)
	for i := range px {
		px[i] = int16(i) // 512 distinct values, over the 256 cap
	}
	p := model.Pad(px, 512, 1)
	res := Encode(p, 0)
	if res.Ok {
		t.Fatalf("expected failure for a plane with more than 256 distinct samples")
	}
	if res.FailReason != "palette_too_large" {
		t.Fatalf("unexpected fail reason: %q", res.FailReason)
	}
}

func TestEncodeFailsWhenNotSmallerThanBaseline(t *testing.T) {
	px := make([]int16, 64)
	for i := range px {
		px[i] = int16(i % 5)
	}
	p := model.Pad(px, 8, 8)
	res := Encode(p, 1) // impossibly small baseline forces rejection
	if res.Ok {
		t.Fatalf("expected failure when baseline is unbeatable")
	}
	if res.FailReason != "index_stream_too_large" {
		t.Fatalf("unexpected fail reason: %q", res.FailReason)
	}
}
