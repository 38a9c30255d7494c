package plane

import (
	"math/rand"
	"testing"

	"github.com/loco-codec/loco/internal/entropy"
	"github.com/loco-codec/loco/internal/model"
	"github.com/loco-codec/loco/internal/preset"
	"github.com/loco-codec/loco/internal/screen"
	"github.com/loco-codec/loco/internal/tile"
)

func makePlane(pix []int16, w, h int) *model.Plane {
	return model.Pad(pix, w, h)
}

func assertRoundTrip(t *testing.T, p *model.Plane, kind model.PlaneKind, profile model.Profile, pr model.Preset) {
	t.Helper()
	tl, report := Encode(p, kind, profile, pr)
	got, err := Decode(tl.Data, p.W, p.H)
	if err != nil {
		t.Fatalf("decode: %v (route %s)", err, report.Route)
	}
	if got.PW != p.PW || got.PH != p.PH {
		t.Fatalf("padded size mismatch: got %dx%d want %dx%d", got.PW, got.PH, p.PW, p.PH)
	}
	for i := range p.Pix {
		if got.Pix[i] != p.Pix[i] {
			t.Fatalf("route %s: pixel %d mismatch: got %d want %d", report.Route, i, got.Pix[i], p.Pix[i])
		}
	}
}

func TestEncodeDecodeRoundTripSolidPlane(t *testing.T) {
	pix := make([]int16, 16*16)
	for i := range pix {
		pix[i] = 7
	}
	p := makePlane(pix, 16, 16)
	assertRoundTrip(t, p, model.PlaneY, model.ProfileUI, model.PresetBalanced)
}

func TestEncodeDecodeRoundTripCopyBlock(t *testing.T) {
	pix := make([]int16, 16*8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := int16((x + y*3) % 13)
			pix[y*16+x] = v
			pix[y*16+8+x] = v
		}
	}
	p := makePlane(pix, 16, 8)
	assertRoundTrip(t, p, model.PlaneY, model.ProfileUI, model.PresetBalanced)
}

func TestEncodeDecodeRoundTripRamp(t *testing.T) {
	pix := make([]int16, 8)
	for i := range pix {
		pix[i] = int16(i * 5)
	}
	p := makePlane(pix, 8, 1)
	assertRoundTrip(t, p, model.PlaneY, model.ProfilePhoto, model.PresetMax)
}

func TestEncodeDecodeRoundTripNoise(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	pix := make([]int16, 64*64)
	for i := range pix {
		pix[i] = int16(r.Intn(256))
	}
	p := makePlane(pix, 64, 64)
	assertRoundTrip(t, p, model.PlaneY, model.ProfilePhoto, model.PresetBalanced)
}

func TestEncodeDecodeRoundTripChromaPlane(t *testing.T) {
	pix := make([]int16, 32*32)
	for i := range pix {
		pix[i] = int16((i % 5) - 2)
	}
	p := makePlane(pix, 32, 32)
	assertRoundTrip(t, p, model.PlaneCo, model.ProfileUI, model.PresetFast)
}

// TestBuildNaturalRoundTrip exercises the natural route's build/decode
// pair directly, independent of whether route competition would select
// it for this particular input (eligibility is covered separately by
// internal/classify's preflight tests).
func TestBuildNaturalRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	pix := make([]int16, 40*24)
	for i := range pix {
		pix[i] = int16(r.Intn(64))
	}
	p := makePlane(pix, 40, 24)
	plan := preset.For(model.PresetBalanced, model.ProfileUI)
	lzParams := entropy.DefaultParams()
	lzParams.NiceLength = plan.NiceLength
	lzParams.MatchStrategy = plan.MatchStrategy

	body := buildNatural(p, model.ProfileUI, plan, lzParams)
	got, err := decodeNatural(body, p.W, p.H)
	if err != nil {
		t.Fatalf("decodeNatural: %v", err)
	}
	for i := range p.Pix {
		if got.Pix[i] != p.Pix[i] {
			t.Fatalf("pixel %d mismatch: got %d want %d", i, got.Pix[i], p.Pix[i])
		}
	}
}

// TestBuildScreenRoundTrip exercises the screen route's tile shape
// directly, mirroring the inline packing Encode does for the screen
// candidate.
func TestBuildScreenRoundTrip(t *testing.T) {
	pix := make([]int16, 32*32)
	for i := range pix {
		pix[i] = int16(i % 3)
	}
	p := makePlane(pix, 32, 32)

	sres := screen.Encode(p, 0)
	if !sres.Ok {
		t.Fatalf("expected screen encode to succeed, got failure %q", sres.FailReason)
	}
	body := tile.Pack(tile.SubStreams{LoStream: sres.Data, FilterPixelCount: len(p.Pix)})

	got, err := decodeScreen(body, p.W, p.H)
	if err != nil {
		t.Fatalf("decodeScreen: %v", err)
	}
	for i := range p.Pix {
		if got.Pix[i] != p.Pix[i] {
			t.Fatalf("pixel %d mismatch: got %d want %d", i, got.Pix[i], p.Pix[i])
		}
	}
}

func TestDecodeRejectsEmptyTile(t *testing.T) {
	if _, err := Decode(nil, 8, 8); err == nil {
		t.Fatalf("expected an error for an empty tile")
	}
}

func TestDecodeRejectsUnknownRouteTag(t *testing.T) {
	if _, err := Decode([]byte{99, 1, 2, 3}, 8, 8); err == nil {
		t.Fatalf("expected an error for an unknown route tag")
	}
}
