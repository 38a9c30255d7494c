// Package wrap implements the per-sub-stream envelope competition (L6):
// for each secondary sub-stream, pick the smallest among raw, rANS-coded,
// and LZ-coded-then-rANS, per §4.5.
//
// Grounded on github.com/deepteams/webp's own "try every available
// encoding, keep the smallest" shape in its internal/lossless/encode.go
// (which picks among cross-color/subtract-green/palette transform
// combinations by trial size), generalized here to a fixed three-way
// candidate set with a single leading magic byte instead of a
// transform bitmask.
package wrap

import (
	"github.com/loco-codec/loco/internal/entropy"
	"github.com/loco-codec/loco/internal/pool"
)

// Mode identifies which envelope a wrapped sub-stream used.
type Mode uint8

const (
	ModeRaw Mode = iota
	ModeRans
	ModeLZRans
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeRans:
		return "rans"
	case ModeLZRans:
		return "lz+rans"
	default:
		return "unknown"
	}
}

// Result carries the wrapped bytes (magic byte prefix included) and the
// mode chosen, for telemetry.
type Result struct {
	Data []byte
	Mode Mode
}

// Wrap tries {raw, rANS, LZ-then-rANS} for src and keeps the smallest,
// breaking ties by the preferred order {raw, rANS, LZ+rANS} per §4.5.
// lzProbe gates whether the LZ+rANS candidate is attempted at all (used
// by the caller to implement filter_lo_lz_probe_enable).
func Wrap(src []byte, p entropy.Params, lzProbe bool) Result {
	if len(src) == 0 {
		return Result{Data: []byte{byte(ModeRaw)}, Mode: ModeRaw}
	}

	candidates := make([]Result, 0, 3)
	candidates = append(candidates, Result{Data: prefixed(ModeRaw, src), Mode: ModeRaw})
	candidates = append(candidates, Result{Data: prefixed(ModeRans, entropy.EncodeByteStream(src)), Mode: ModeRans})
	if lzProbe {
		candidates = append(candidates, Result{
			Data: prefixed(ModeLZRans, entropy.EncodeByteStreamSharedLZ(src, p)),
			Mode: ModeLZRans,
		})
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.Data) < len(best.Data) {
			best = c
		}
	}
	for _, c := range candidates {
		if &c.Data[0] != &best.Data[0] {
			pool.Release(c.Data)
		}
	}
	return best
}

// Unwrap reverses Wrap, dispatching on the leading magic byte.
func Unwrap(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	mode := Mode(data[0])
	body := data[1:]
	switch mode {
	case ModeRaw:
		return body
	case ModeRans:
		return entropy.DecodeByteStream(body)
	case ModeLZRans:
		return entropy.DecodeByteStreamSharedLZ(body)
	default:
		return nil
	}
}

// prefixed draws its backing buffer from the shared byte pool (internal/pool)
// rather than allocating fresh per candidate: Wrap tries up to three
// candidates per sub-stream and every plane encode wraps several
// sub-streams, so this runs often enough to be worth pooling.
func prefixed(m Mode, body []byte) []byte {
	out := pool.Checkout(len(body) + 1)
	out[0] = byte(m)
	copy(out[1:], body)
	return out
}
