package color

import (
	"math/rand"
	"testing"
)

func TestRGBToYCoCgRRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	w, h := 13, 9
	rgb := make([]byte, w*h*3)
	for i := range rgb {
		rgb[i] = byte(r.Intn(256))
	}
	y, co, cg := RGBToYCoCgR(rgb, w, h)
	got := YCoCgRToRGB(y, co, cg, w, h)
	for i := range rgb {
		if got[i] != rgb[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got[i], rgb[i])
		}
	}
}

func TestRGBToYCoCgRBlackAndWhite(t *testing.T) {
	rgb := []byte{0, 0, 0, 255, 255, 255}
	y, co, cg := RGBToYCoCgR(rgb, 2, 1)
	got := YCoCgRToRGB(y, co, cg, 2, 1)
	for i := range rgb {
		if got[i] != rgb[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got[i], rgb[i])
		}
	}
}
