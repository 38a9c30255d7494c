// Package natural implements the natural-texture route (L9): row-level
// predictive filtering, zig-zag mapping of signed residuals to unsigned
// 16-bit values, and a split into low/high byte streams, per §4.8.
//
// Grounded directly on the codec's C++ original
// (original_source/.../lossless_natural_route_lz_impl.h), which is the
// chained-LZ route described above; github.com/deepteams/webp's hash-chain shape
// (internal/lossless/hashchain.go) informed internal/entropy's chain
// table that this route's low stream shares via its LZ back-end.
package natural

import (
	"github.com/loco-codec/loco/internal/entropy"
	"github.com/loco-codec/loco/internal/filter"
	"github.com/loco-codec/loco/internal/model"
	"github.com/loco-codec/loco/internal/wrap"
)

// zigzag maps a signed residual to an unsigned value so small magnitudes
// of either sign map to small codes, the classic zig-zag encoding.
func zigzag(v int16) uint16 {
	return uint16((int32(v) << 1) ^ (int32(v) >> 15))
}

func unzigzag(v uint16) int16 {
	return int16((v >> 1)) ^ -int16(v&1)
}

// Result is the natural route's encoded tile fragment: the filter_ids
// sub-stream plus the wrapped low/high streams, and the filter pixel
// count needed to reconstruct the residual stream on decode.
type Result struct {
	FilterIDs        []byte
	LoStream         wrap.Result
	HiStream         wrap.Result
	FilterPixelCount int
}

// Encode builds the natural route's sub-streams from a plane's filter
// rows. lzParams carries the preset plan's nice_length/match_strategy
// overrides into the LZ back-end for this route only, per §4.8.
func Encode(p *model.Plane, blockTypes []model.BlockType, profile model.Profile, cost filter.CostModel, lzParams entropy.Params, hiLZProbe bool) Result {
	rows := filter.BuildRows(p, blockTypes, profile, cost)

	filterIDs := make([]byte, len(rows.IDs))
	for i, id := range rows.IDs {
		filterIDs[i] = byte(id)
	}

	lo := make([]byte, len(rows.Residuals))
	hi := make([]byte, len(rows.Residuals))
	for i, r := range rows.Residuals {
		z := zigzag(r)
		lo[i] = byte(z)
		hi[i] = byte(z >> 8)
	}

	loCoded := entropy.EncodeByteStreamSharedLZ(lo, lzParams)

	return Result{
		FilterIDs:        filterIDs,
		LoStream:         wrap.Result{Data: prependMode(loCoded), Mode: wrap.ModeLZRans},
		HiStream:         wrap.Wrap(hi, lzParams, hiLZProbe),
		FilterPixelCount: len(rows.Residuals),
	}
}

// prependMode matches wrap.Wrap's leading-magic-byte convention for the
// low stream, which always uses the shared-LZ path rather than
// competing against raw/plain-rANS (§4.8: "low stream uses the
// shared-LZ entropy path" unconditionally).
func prependMode(body []byte) []byte {
	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(wrap.ModeLZRans))
	return append(out, body...)
}

// Decode reverses Encode, reconstructing the residual stream.
// filterPixelCount is the total number of residuals to read back from
// the low/high streams.
func Decode(filterIDs []byte, loData, hiData []byte, filterPixelCount int) (ids []filter.Predictor, residuals []int16) {
	ids = make([]filter.Predictor, len(filterIDs))
	for i, b := range filterIDs {
		ids[i] = filter.Predictor(b)
	}

	lo := wrap.Unwrap(loData)
	hi := wrap.Unwrap(hiData)
	residuals = make([]int16, filterPixelCount)
	for i := 0; i < filterPixelCount; i++ {
		z := uint16(lo[i]) | uint16(hi[i])<<8
		residuals[i] = unzigzag(z)
	}
	return ids, residuals
}
