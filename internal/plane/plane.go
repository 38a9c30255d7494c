// Package plane implements the plane encode driver (L12): pad -> classify
// -> build filter rows -> encode lo/hi -> wrap auxiliary streams -> pack
// the baseline tile -> optionally run route competition -> return the
// chosen tile, per §4.11.
//
// Grounded on github.com/deepteams/webp's top-level encode
// orchestration (encode.go's Encode function), which walks
// the same shape (apply transforms, try alternates, keep the smallest)
// one level up from the individual transform/route implementations.
package plane

import (
	"time"

	"github.com/pkg/errors"

	"github.com/loco-codec/loco/internal/classify"
	"github.com/loco-codec/loco/internal/config"
	"github.com/loco-codec/loco/internal/entropy"
	"github.com/loco-codec/loco/internal/filter"
	"github.com/loco-codec/loco/internal/model"
	"github.com/loco-codec/loco/internal/natural"
	"github.com/loco-codec/loco/internal/palette"
	"github.com/loco-codec/loco/internal/preset"
	"github.com/loco-codec/loco/internal/route"
	"github.com/loco-codec/loco/internal/screen"
	"github.com/loco-codec/loco/internal/telemetry"
	"github.com/loco-codec/loco/internal/tile"
	"github.com/loco-codec/loco/internal/wrap"
)

// routeTag is a single leading byte identifying which route produced a
// Tile's bytes, the supplemented piece of state a decoder needs that
// the route competition itself has no reason to carry (§9): the v2 tile
// layout is shared across all three routes, so nothing else in the byte
// stream distinguishes them.
const (
	routeTagBaseline byte = 0
	routeTagNatural  byte = 1
	routeTagScreen   byte = 2
)

func routeTagFor(name route.Name) byte {
	switch name {
	case route.RouteNatural:
		return routeTagNatural
	case route.RouteScreen:
		return routeTagScreen
	default:
		return routeTagBaseline
	}
}

// Tile is one plane's winning encoded byte payload.
type Tile struct {
	Data []byte
}

// Report carries per-encode diagnostics alongside the Tile, the
// supplemented feature described in SPEC_FULL.md §9: which route won,
// the preflight stats, the profile, and the accumulated counters (block
// counts, route wins, pass durations, screen failure reason), without
// the caller needing to re-derive any of it from the packed bytes.
// Sub-stream wrapper modes are not recorded.
type Report struct {
	Route      route.Name
	Preflight  classify.Preflight
	Profile    model.Profile
	Counters   *telemetry.Counters
}

// Encode runs the full per-plane pipeline and returns the winning tile
// plus its diagnostics report.
func Encode(p *model.Plane, kind model.PlaneKind, profile model.Profile, pr model.Preset) (Tile, Report) {
	cfg := config.Get()
	counters := telemetry.New()
	pf := classify.Compute(p)
	plan := preset.For(pr, profile)

	lzParams := entropy.DefaultParams()
	lzParams.NiceLength = plan.NiceLength
	lzParams.MatchStrategy = plan.MatchStrategy

	baselineStart := time.Now()
	baselineData := buildBaseline(p, profile, plan, lzParams, counters)
	counters.RecordDuration("baseline", time.Since(baselineStart))

	var naturalData, screenData []byte
	if route.CompeteEnabled(plan, kind, pf, cfg.ChromaMadMax, cfg.ChromaAvgRunMin) {
		naturalStart := time.Now()
		if naturalEligible(pf, cfg) {
			naturalData = buildNatural(p, profile, plan, lzParams)
		}
		counters.RecordDuration("natural", time.Since(naturalStart))

		screenStart := time.Now()
		if screen.Eligible(pf, cfg.ChromaMadMax, cfg.ChromaAvgRunMin) {
			sres := screen.Encode(p, len(baselineData))
			if sres.Ok {
				screenData = tile.Pack(tile.SubStreams{LoStream: sres.Data, FilterPixelCount: len(p.Pix)})
			} else {
				counters.ScreenFailure = sres.FailReason
			}
		}
		counters.RecordDuration("screen", time.Since(screenStart))
	}

	winner := route.Compete(route.Candidates{Baseline: baselineData, Natural: naturalData, Screen: screenData})
	counters.RecordRoute(string(winner.Route))

	data := make([]byte, 0, len(winner.Data)+1)
	data = append(data, routeTagFor(winner.Route))
	data = append(data, winner.Data...)

	return Tile{Data: data}, Report{
		Route:     winner.Route,
		Preflight: pf,
		Profile:   profile,
		Counters:  counters,
	}
}

// Decode reverses Encode, reconstructing the plane's padded samples from
// its winning tile. w, h are the plane's original (unpadded) dimensions,
// carried alongside the tile by the caller (the container header, for a
// full image) since the tile itself only ever stores padded content.
func Decode(data []byte, w, h int) (*model.Plane, error) {
	if len(data) == 0 {
		return nil, errors.New("plane: empty tile")
	}
	tag, body := data[0], data[1:]
	switch tag {
	case routeTagBaseline:
		return decodeBaseline(body, w, h)
	case routeTagNatural:
		return decodeNatural(body, w, h)
	case routeTagScreen:
		return decodeScreen(body, w, h)
	default:
		return nil, errors.Errorf("plane: unknown route tag %d", tag)
	}
}

func decodeBaseline(body []byte, w, h int) (*model.Plane, error) {
	ss, err := tile.Unpack(body)
	if err != nil {
		return nil, errors.Wrap(err, "plane: baseline tile")
	}
	pw, ph := model.PaddedDims(w, h)
	bw := pw / model.BlockSize

	blockTypeBytes := wrap.Unwrap(ss.BlockTypes)
	blockTypes := make([]model.BlockType, len(blockTypeBytes))
	for i, b := range blockTypeBytes {
		blockTypes[i] = model.BlockType(b)
	}

	var numPalette, numCopy, numTile4 int
	for _, bt := range blockTypes {
		switch bt {
		case model.BlockPalette:
			numPalette++
		case model.BlockCopy:
			numCopy++
		case model.BlockTile4:
			numTile4++
		}
	}

	paletteBlocks := palette.Decode(wrap.Unwrap(ss.Palette), numPalette)
	copies := decodeCopyBytes(wrap.Unwrap(ss.Copy))
	tile4Bytes := wrap.Unwrap(ss.Tile4)

	filterIDBytes := wrap.Unwrap(ss.FilterIDs)
	filterIDs := make([]filter.Predictor, len(filterIDBytes))
	for i, b := range filterIDBytes {
		filterIDs[i] = filter.Predictor(b)
	}
	residuals := joinZigzag(wrap.Unwrap(ss.LoStream), wrap.Unwrap(ss.HiStream))

	blockPalette := make([]palette.Block, len(blockTypes))
	blockCopy := make([]model.CopyParams, len(blockTypes))
	blockTile4 := make([][]byte, len(blockTypes))
	var pi, ci, ti int
	for bi, bt := range blockTypes {
		switch bt {
		case model.BlockPalette:
			blockPalette[bi] = paletteBlocks[pi]
			pi++
		case model.BlockCopy:
			blockCopy[bi] = copies[ci]
			ci++
		case model.BlockTile4:
			blockTile4[bi] = tile4Bytes[ti*8 : ti*8+8]
			ti++
		}
	}

	p := &model.Plane{W: w, H: h, PW: pw, PH: ph, Pix: make([]int16, pw*ph)}
	residualPos := 0
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			bx, by := x/model.BlockSize, y/model.BlockSize
			bi := by*bw + bx
			switch blockTypes[bi] {
			case model.BlockPalette:
				b := blockPalette[bi]
				lx, ly := x%model.BlockSize, y%model.BlockSize
				idx := b.Indices[ly*model.BlockSize+lx]
				p.Set(x, y, b.Colors[idx])
			case model.BlockCopy:
				c := blockCopy[bi]
				p.Set(x, y, p.At(x-c.DX, y-c.DY))
			case model.BlockTile4:
				desc := blockTile4[bi]
				qx, qy := (x%model.BlockSize)/4, (y%model.BlockSize)/4
				qi := qy*2 + qx
				v := int16(uint16(desc[qi*2]) | uint16(desc[qi*2+1])<<8)
				p.Set(x, y, v)
			default:
				left, up, upLeft := neighbors(p, x, y)
				pred := filter.Predict(filterIDs[y], left, up, upLeft)
				p.Set(x, y, pred+residuals[residualPos])
				residualPos++
			}
		}
	}
	return p, nil
}

func decodeNatural(body []byte, w, h int) (*model.Plane, error) {
	ss, err := tile.Unpack(body)
	if err != nil {
		return nil, errors.Wrap(err, "plane: natural tile")
	}
	pw, ph := model.PaddedDims(w, h)
	filterIDBytes := wrap.Unwrap(ss.FilterIDs)
	ids, residuals := natural.Decode(filterIDBytes, ss.LoStream, ss.HiStream, ss.FilterPixelCount)

	p := &model.Plane{W: w, H: h, PW: pw, PH: ph, Pix: make([]int16, pw*ph)}
	pos := 0
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			left, up, upLeft := neighbors(p, x, y)
			pred := filter.Predict(ids[y], left, up, upLeft)
			p.Set(x, y, pred+residuals[pos])
			pos++
		}
	}
	return p, nil
}

func decodeScreen(body []byte, w, h int) (*model.Plane, error) {
	ss, err := tile.Unpack(body)
	if err != nil {
		return nil, errors.Wrap(err, "plane: screen tile")
	}
	pw, ph := model.PaddedDims(w, h)
	pix := screen.Decode(ss.LoStream, ss.FilterPixelCount)
	if len(pix) != pw*ph {
		return nil, errors.Errorf("plane: screen pixel count mismatch: got %d want %d", len(pix), pw*ph)
	}
	return &model.Plane{W: w, H: h, PW: pw, PH: ph, Pix: pix}, nil
}

// neighbors returns the left/up/up-left samples for (x, y), defaulting
// to 0 at plane edges, mirroring filter.scoreRow's boundary handling so
// predict() sees exactly the values the encoder scored against.
func neighbors(p *model.Plane, x, y int) (left, up, upLeft int16) {
	if x > 0 {
		left = p.At(x-1, y)
	}
	if y > 0 {
		up = p.At(x, y-1)
		if x > 0 {
			upLeft = p.At(x-1, y-1)
		}
	}
	return left, up, upLeft
}

func decodeCopyBytes(b []byte) []model.CopyParams {
	n := len(b) / 4
	out := make([]model.CopyParams, n)
	for i := 0; i < n; i++ {
		dx := int16(uint16(b[i*4]) | uint16(b[i*4+1])<<8)
		dy := int16(uint16(b[i*4+2]) | uint16(b[i*4+3])<<8)
		out[i] = model.CopyParams{DX: int(dx), DY: int(dy), Length: model.BlockSize * model.BlockSize}
	}
	return out
}

func joinZigzag(lo, hi []byte) []int16 {
	n := len(lo)
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		z := uint16(lo[i]) | uint16(hi[i])<<8
		out[i] = int16(z>>1) ^ -int16(z&1)
	}
	return out
}

// naturalEligible applies §4.8's natural-like thresholds.
func naturalEligible(pf classify.Preflight, cfg *config.Snapshot) bool {
	return pf.LikelyNatural(
		cfg.NaturalUniqueMin,
		float64(cfg.NaturalAvgRunMax),
		float64(cfg.NaturalMadMin),
		float64(cfg.NaturalEntropyMinX1000)/1000,
	)
}

// buildBaseline runs the block classifier and packs the FILTER-route
// baseline tile, per §4.3-4.6.
func buildBaseline(p *model.Plane, profile model.Profile, plan preset.Plan, lzParams entropy.Params, counters *telemetry.Counters) []byte {
	classifier := classify.NewClassifier(p, profile)
	results := classifier.ClassifyAll()

	blockTypes := make([]model.BlockType, len(results))
	var paletteBlocks []palette.Block
	var copyParams []model.CopyParams
	var tile4Bytes []byte
	for i, r := range results {
		blockTypes[i] = r.Type
		counters.AddBlock(r.Type.String())
		switch r.Type {
		case model.BlockPalette:
			paletteBlocks = append(paletteBlocks, r.Palette)
		case model.BlockCopy:
			copyParams = append(copyParams, r.Copy)
		case model.BlockTile4:
			tile4Bytes = append(tile4Bytes, r.Tile4...)
		}
	}

	rows := filter.BuildRows(p, blockTypes, profile, plan.FilterCost)
	filterIDs := make([]byte, len(rows.IDs))
	for i, id := range rows.IDs {
		filterIDs[i] = byte(id)
	}
	lo, hi := splitZigzag(rows.Residuals)

	blockTypeBytes := make([]byte, len(blockTypes))
	for i, bt := range blockTypes {
		blockTypeBytes[i] = byte(bt)
	}

	copyBytes := make([]byte, 0, len(copyParams)*4)
	for _, c := range copyParams {
		copyBytes = append(copyBytes, byte(int16(c.DX)), byte(int16(c.DX)>>8), byte(int16(c.DY)), byte(int16(c.DY)>>8))
	}

	paletteStream := palette.Encode(paletteBlocks)

	return tile.Pack(tile.SubStreams{
		FilterIDs:        wrap.Wrap(filterIDs, lzParams, true).Data,
		LoStream:         wrap.Wrap(lo, lzParams, plan.LoLZProbe).Data,
		HiStream:         wrap.Wrap(hi, lzParams, true).Data,
		FilterPixelCount: len(rows.Residuals),
		BlockTypes:       wrap.Wrap(blockTypeBytes, lzParams, true).Data,
		Palette:          wrap.Wrap(paletteStream.Data, lzParams, true).Data,
		Copy:             wrap.Wrap(copyBytes, lzParams, true).Data,
		Tile4:            wrap.Wrap(tile4Bytes, lzParams, true).Data,
	})
}

// buildNatural bypasses the block classifier entirely: every pixel is
// row-filtered, per §4.8.
func buildNatural(p *model.Plane, profile model.Profile, plan preset.Plan, lzParams entropy.Params) []byte {
	bw, bh := p.BlocksWide(), p.BlocksHigh()
	blockTypes := make([]model.BlockType, bw*bh)
	for i := range blockTypes {
		blockTypes[i] = model.BlockFilter
	}

	res := natural.Encode(p, blockTypes, profile, plan.FilterCost, lzParams, true)
	return tile.Pack(tile.SubStreams{
		FilterIDs:        wrap.Wrap(res.FilterIDs, lzParams, true).Data,
		LoStream:         res.LoStream.Data,
		HiStream:         res.HiStream.Data,
		FilterPixelCount: res.FilterPixelCount,
	})
}

func splitZigzag(residuals []int16) (lo, hi []byte) {
	lo = make([]byte, len(residuals))
	hi = make([]byte, len(residuals))
	for i, r := range residuals {
		z := uint16((int32(r) << 1) ^ (int32(r) >> 15))
		lo[i] = byte(z)
		hi[i] = byte(z >> 8)
	}
	return lo, hi
}
