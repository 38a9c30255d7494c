// Package loco is the public entry point for the lossless still-image
// codec: encode raw grayscale or RGB pixel buffers to the container
// format described in internal/container, and decode them back.
//
// Grounded on github.com/deepteams/webp's top-level package API
// (its Encode/Decode functions in webp.go),
// which validates inputs, builds one encoder per call, and returns a
// single byte slice — this package does the same one level up from
// internal/plane's per-plane pipeline, fanning the Y/Co/Cg planes out
// across a bounded worker pool the way internal/lossy/encode_parallel.go
// fans out macroblock rows.
package loco

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/loco-codec/loco/internal/classify"
	"github.com/loco-codec/loco/internal/color"
	"github.com/loco-codec/loco/internal/container"
	"github.com/loco-codec/loco/internal/model"
	"github.com/loco-codec/loco/internal/plane"
)

// Preset re-exports the model-level compression effort knob so callers
// don't need to import an internal package.
type Preset = model.Preset

const (
	PresetFast     = model.PresetFast
	PresetBalanced = model.PresetBalanced
	PresetMax      = model.PresetMax
)

// Profile re-exports the model-level content profile. EncodeLossless and
// EncodeColorLossless detect the profile themselves and take none.
type Profile = model.Profile

const (
	ProfileUI    = model.ProfileUI
	ProfileAnime = model.ProfileAnime
	ProfilePhoto = model.ProfilePhoto
)

// planeThreadBudget bounds the number of planes encoded/decoded
// concurrently, per SPEC_FULL.md §5: at most 3 planes ever exist for
// this codec (Y, Co, Cg), so there is never a reason to ask for more
// goroutines than GOMAXPROCS makes useful.
func planeThreadBudget() int {
	n := runtime.GOMAXPROCS(0)
	if n > 3 {
		n = 3
	}
	if n < 1 {
		n = 1
	}
	return n
}

// EncodeLossless encodes a single-channel (grayscale) 8-bit pixel buffer
// of length w*h into the container format.
func EncodeLossless(pixels []byte, w, h int, pr Preset) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("loco: invalid dimensions %dx%d", w, h)
	}
	if len(pixels) < w*h {
		return nil, errors.Errorf("loco: pixel buffer too short: got %d bytes, want >= %d", len(pixels), w*h)
	}

	samples := make([]int16, w*h)
	for i, v := range pixels[:w*h] {
		samples[i] = int16(v)
	}
	p := model.Pad(samples, w, h)
	profile := detectProfile(p)

	tl, _ := plane.Encode(p, model.PlaneGray, profile, pr)

	h0 := container.FileHeader{
		Width: uint32(w), Height: uint32(h),
		BitDepth:    8,
		NumChannels: 1,
		Colorspace:  container.ColorspaceRGBGrayscale,
		Quality:     qualityFor(pr),
		Flags:       container.FlagLossless,
	}
	return container.Pack(h0, [][]byte{tl.Data}, [][4]byte{{'G', 'R', 'A', 'Y'}}), nil
}

// EncodeColorLossless encodes an interleaved 8-bit RGB pixel buffer of
// length w*h*3 into the container format, splitting it into YCoCg-R
// planes and encoding each independently (fanned out across a bounded
// worker pool), per SPEC_FULL.md §5.
func EncodeColorLossless(rgb []byte, w, h int, pr Preset) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("loco: invalid dimensions %dx%d", w, h)
	}
	if len(rgb) < w*h*3 {
		return nil, errors.Errorf("loco: rgb buffer too short: got %d bytes, want >= %d", len(rgb), w*h*3)
	}

	y, co, cg := color.RGBToYCoCgR(rgb, w, h)
	profile := detectProfile(y)

	planes := []*model.Plane{y, co, cg}
	kinds := []model.PlaneKind{model.PlaneY, model.PlaneCo, model.PlaneCg}
	tags := [][4]byte{{'L', 'U', 'M', 'A'}, {'C', 'O', 'P', 'L'}, {'C', 'G', 'P', 'L'}}
	tiles := make([][]byte, 3)

	g := new(errgroup.Group)
	g.SetLimit(planeThreadBudget())
	for i := range planes {
		i := i
		g.Go(func() error {
			tl, _ := plane.Encode(planes[i], kinds[i], profile, pr)
			tiles[i] = tl.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "loco: plane encode")
	}

	h0 := container.FileHeader{
		Width: uint32(w), Height: uint32(h),
		BitDepth:    8,
		NumChannels: 3,
		Colorspace:  container.ColorspaceYCoCgR,
		Quality:     qualityFor(pr),
		Flags:       container.FlagLossless,
	}
	return container.Pack(h0, tiles, tags), nil
}

// Decode reverses EncodeLossless or EncodeColorLossless, returning the
// pixel buffer (grayscale: w*h bytes; color: w*h*3 interleaved RGB
// bytes) and the image dimensions.
func Decode(data []byte) (pixels []byte, w, h int, err error) {
	h0, _, tiles, err := container.Unpack(data)
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "loco: container")
	}
	w, h = int(h0.Width), int(h0.Height)

	switch h0.NumChannels {
	case 1:
		p, err := plane.Decode(tiles[0], w, h)
		if err != nil {
			return nil, 0, 0, errors.Wrap(err, "loco: decode gray plane")
		}
		out := make([]byte, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out[y*w+x] = byte(p.At(x, y))
			}
		}
		return out, w, h, nil
	case 3:
		planesOut := make([]*model.Plane, 3)
		g := new(errgroup.Group)
		g.SetLimit(planeThreadBudget())
		for i := 0; i < 3; i++ {
			i := i
			g.Go(func() error {
				p, err := plane.Decode(tiles[i], w, h)
				if err != nil {
					return err
				}
				planesOut[i] = p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, 0, 0, errors.Wrap(err, "loco: decode color planes")
		}
		rgb := color.YCoCgRToRGB(planesOut[0], planesOut[1], planesOut[2], w, h)
		return rgb, w, h, nil
	default:
		return nil, 0, 0, errors.Errorf("loco: unsupported channel count %d", h0.NumChannels)
	}
}

// detectProfile runs the shared preflight statistics once on the luma
// (or sole) plane and classifies its content profile, per §4.3.
func detectProfile(p *model.Plane) model.Profile {
	return classify.DetectProfile(classify.Compute(p))
}

func qualityFor(pr Preset) uint8 {
	switch pr {
	case model.PresetFast:
		return 50
	case model.PresetMax:
		return 100
	default:
		return 80
	}
}
