// Package entropy implements the codec's entropy back-end (L1): a
// data-adaptive rANS byte-stream coder, an LZ77-prefixed variant for
// sharing a dictionary across several streams, and the stand-alone
// chained LZ77 compressor used directly by the natural-texture route.
//
// The hash-chain matcher here plays the same role as
// github.com/deepteams/webp's VP8L hash chain (its internal/lossless/hashchain.go)
// but is generalized to raw bytes (3-byte hash instead of 2-pixel hash)
// and to the three match strategies — greedy, lazy-1, optimal-parse — the
// codec's C++ original implements in lossless_natural_route_lz_impl.h.
package entropy

import "github.com/loco-codec/loco/internal/config"

// MatchStrategy selects how the chained LZ77 compressor resolves ties
// between the current position's best match and alternatives.
type MatchStrategy int

const (
	StrategyGreedy MatchStrategy = iota
	StrategyLazy1
	StrategyOptimalParse
)

// Params holds the tunable parameters of the chained LZ77 compressor.
// Defaults mirror the documented ranges in the external interface.
type Params struct {
	WindowSize    int // 1024..65535
	ChainDepth    int // 1..128
	MinDistLen3   int // 0..65535
	NiceLength    int // 4..255
	MatchStrategy MatchStrategy

	OptMaxMatches         int
	OptLitMax             int
	OptMemcapMB           int
	OptProbeSrcMaxBytes   int
	OptProbeRatioMinX1000 int
	OptProbeRatioMaxX1000 int
	OptMinGainBytes       int
}

// DefaultParams returns the Params derived from the frozen environment
// configuration snapshot.
func DefaultParams() Params {
	c := config.Get()
	return Params{
		WindowSize:    c.LZWindowSize,
		ChainDepth:    c.LZChainDepth,
		MinDistLen3:   c.LZMinDistLen3,
		NiceLength:    c.LZNiceLength,
		MatchStrategy: MatchStrategy(c.LZMatchStrategy),

		OptMaxMatches:         c.LZOptMaxMatches,
		OptLitMax:             c.LZOptLitMax,
		OptMemcapMB:           c.LZOptMemcapMB,
		OptProbeSrcMaxBytes:   c.LZOptProbeSrcMaxBytes,
		OptProbeRatioMinX1000: c.LZOptProbeRatioMinX1000,
		OptProbeRatioMaxX1000: c.LZOptProbeRatioMaxX1000,
		OptMinGainBytes:       c.LZOptMinGainBytes,
	}
}

// Counters accumulates diagnostics for one or more compress calls. A nil
// *Counters is legal everywhere it is accepted; the add and Merge
// methods below are no-ops on a nil receiver.
type Counters struct {
	Calls       uint64
	SrcBytes    uint64
	OutBytes    uint64
	MatchCount  uint64
	MatchBytes  uint64
	LiteralBytes uint64
	ChainSteps  uint64

	DepthLimitHits uint64
	EarlyMaxLenHits uint64
	NiceCutoffHits uint64
	Len3RejectDist uint64

	OptparseEnabled       uint64
	OptparseFallbackMemcap uint64
	OptparseFallbackAllocfail uint64
	OptparseFallbackUnreachable uint64
	OptparseProbeAccept   uint64
	OptparseProbeReject   uint64
	OptparseAdopt         uint64
	OptparseRejectSmallGain uint64
}

func (c *Counters) add(f func(*Counters)) {
	if c == nil {
		return
	}
	f(c)
}

// Merge adds src's counts into c (additive accumulator, per the
// thread-local telemetry merge rule in the concurrency model).
func (c *Counters) Merge(src *Counters) {
	if c == nil || src == nil {
		return
	}
	c.Calls += src.Calls
	c.SrcBytes += src.SrcBytes
	c.OutBytes += src.OutBytes
	c.MatchCount += src.MatchCount
	c.MatchBytes += src.MatchBytes
	c.LiteralBytes += src.LiteralBytes
	c.ChainSteps += src.ChainSteps
	c.DepthLimitHits += src.DepthLimitHits
	c.EarlyMaxLenHits += src.EarlyMaxLenHits
	c.NiceCutoffHits += src.NiceCutoffHits
	c.Len3RejectDist += src.Len3RejectDist
	c.OptparseEnabled += src.OptparseEnabled
	c.OptparseFallbackMemcap += src.OptparseFallbackMemcap
	c.OptparseFallbackAllocfail += src.OptparseFallbackAllocfail
	c.OptparseFallbackUnreachable += src.OptparseFallbackUnreachable
	c.OptparseProbeAccept += src.OptparseProbeAccept
	c.OptparseProbeReject += src.OptparseProbeReject
	c.OptparseAdopt += src.OptparseAdopt
	c.OptparseRejectSmallGain += src.OptparseRejectSmallGain
}
