package entropy

import (
	"encoding/binary"
	"math"
)

// Token kinds in the chained LZ77 byte stream, per the external
// interface's LZ token stream format: [0, len, <len bytes>] for a
// literal run, [1, len, dist_lo, dist_hi] for a match (distance
// little-endian).
const (
	tokenLitRun = 0
	tokenMatch  = 1
)

type matchCandidate struct {
	len  int
	dist int
}

// acceptable reports whether a candidate match is acceptable under the
// codec's length/distance rule: len>=4, or len==3 with a short distance.
func acceptable(length, dist, minDistLen3 int) bool {
	return length >= 4 || (length == 3 && dist <= minDistLen3)
}

// CompressChainLZ runs the chained LZ77 compressor over src, selecting a
// match strategy per p.MatchStrategy. It never fails externally: an empty
// src returns an empty output. Internal degradation (optparse falling
// back to lazy-1) is recorded in counters only.
func CompressChainLZ(src []byte, p Params, counters *Counters) []byte {
	if len(src) == 0 {
		return nil
	}
	counters.add(func(c *Counters) {
		c.Calls++
		c.SrcBytes += uint64(len(src))
	})

	var out []byte
	switch p.MatchStrategy {
	case StrategyOptimalParse:
		out = compressOptimalParse(src, p, counters)
	case StrategyLazy1:
		out = compressLazyOrGreedy(src, p, counters, true)
	default:
		out = compressLazyOrGreedy(src, p, counters, false)
	}
	counters.add(func(c *Counters) { c.OutBytes += uint64(len(out)) })
	return out
}

// compressLazyOrGreedy implements match_strategy 0 (greedy) and 1 (lazy-1).
func compressLazyOrGreedy(src []byte, p Params, counters *Counters, lazy bool) []byte {
	n := len(src)
	out := make([]byte, 0, n+n/16+64)
	t := acquireChainTable(n)
	defer releaseChainTable(t)

	findBest := func(pos int) (length, dist int) {
		if pos+2 >= n {
			return 0, 0
		}
		ref := t.get(hash3(src, pos))
		depth := 0
		for ref >= 0 && depth < p.ChainDepth {
			counters.add(func(c *Counters) { c.ChainSteps++ })
			refPos := int(ref)
			d := pos - refPos
			if d <= 0 || d > p.WindowSize {
				break
			}
			if src[refPos] == src[pos] && src[refPos+1] == src[pos+1] && src[refPos+2] == src[pos+2] {
				maxLen := n - pos
				if maxLen > 255 {
					maxLen = 255
				}
				l := 3
				if pos+3 < n && refPos+3 < len(src) && src[refPos+3] == src[pos+3] {
					l = matchLen(src, refPos, pos, maxLen)
				}
				ok := acceptable(l, d, p.MinDistLen3)
				if !ok && l == 3 {
					counters.add(func(c *Counters) { c.Len3RejectDist++ })
				}
				if ok && (l > length || (l == length && d < dist)) {
					length, dist = l, d
					if length == 255 {
						counters.add(func(c *Counters) { c.EarlyMaxLenHits++ })
						break
					}
					if length >= p.NiceLength {
						counters.add(func(c *Counters) { c.NiceCutoffHits++ })
						break
					}
				}
			}
			ref = t.prev[refPos]
			depth++
		}
		if depth >= p.ChainDepth && ref >= 0 {
			counters.add(func(c *Counters) { c.DepthLimitHits++ })
		}
		return length, dist
	}

	insert := func(pos int) {
		if pos+2 >= n {
			return
		}
		h := hash3(src, pos)
		t.prev[pos] = t.get(h)
		t.set(h, int32(pos))
	}

	flushLit := func(start, end int) {
		for cur := start; cur < end; {
			chunk := end - cur
			if chunk > 255 {
				chunk = 255
			}
			out = append(out, tokenLitRun, byte(chunk))
			out = append(out, src[cur:cur+chunk]...)
			counters.add(func(c *Counters) { c.LiteralBytes += uint64(chunk) })
			cur += chunk
		}
	}

	pos, litStart := 0, 0
	for pos+2 < n {
		bestLen, bestDist := findBest(pos)
		insert(pos)

		deferToNext := false
		if lazy && bestLen > 0 && pos+3 < n {
			nextLen, nextDist := findBest(pos + 1)
			if nextLen > bestLen || (nextLen == bestLen && nextLen > 0 && nextDist < bestDist) {
				deferToNext = true
			}
		}

		if bestLen > 0 && !deferToNext {
			flushLit(litStart, pos)
			out = append(out, tokenMatch, byte(bestLen), byte(bestDist), byte(bestDist>>8))
			counters.add(func(c *Counters) {
				c.MatchCount++
				c.MatchBytes += uint64(bestLen)
			})
			for i := 1; i < bestLen && pos+i+2 < n; i++ {
				insert(pos + i)
			}
			pos += bestLen
			litStart = pos
		} else {
			pos++
		}
	}
	flushLit(litStart, n)
	return out
}

// optToken mirrors the C++ OptparseTok: a DP edge label.
type optToken struct {
	kind byte // 0 litrun, 1 match
	len  int
	dist int
}

// compressOptimalParse implements match_strategy 2: run lazy-1 first,
// and only attempt the DP parse when the lazy ratio falls in the probe
// window and the source is small enough; adopt the DP result only if it
// beats lazy by at least OptMinGainBytes.
func compressOptimalParse(src []byte, p Params, counters *Counters) []byte {
	lazyParams := p
	lazyParams.MatchStrategy = StrategyLazy1
	lazyCounters := &Counters{}
	lazyOut := compressLazyOrGreedy(src, lazyParams, lazyCounters, true)
	mergeNonIO(counters, lazyCounters)

	n := len(src)
	ratio := 1000
	if n > 0 {
		ratio = len(lazyOut) * 1000 / n
	}
	probePass := n <= p.OptProbeSrcMaxBytes && ratio >= p.OptProbeRatioMinX1000 && ratio <= p.OptProbeRatioMaxX1000
	if !probePass {
		counters.add(func(c *Counters) { c.OptparseProbeReject++ })
		counters.add(func(c *Counters) { c.OutBytes += uint64(len(lazyOut)) })
		return lazyOut
	}
	counters.add(func(c *Counters) {
		c.OptparseProbeAccept++
		c.OptparseEnabled++
	})

	optCounters := &Counters{}
	optOut, ok := optimalParseDP(src, p, optCounters)
	mergeNonIO(counters, optCounters)
	if ok && len(optOut)+p.OptMinGainBytes <= len(lazyOut) {
		counters.add(func(c *Counters) { c.OptparseAdopt++ })
		return optOut
	}
	if ok {
		counters.add(func(c *Counters) { c.OptparseRejectSmallGain++ })
	}
	return lazyOut
}

func mergeNonIO(dst, src *Counters) {
	if dst == nil || src == nil {
		return
	}
	tmp := *src
	tmp.Calls, tmp.SrcBytes, tmp.OutBytes = 0, 0, 0
	dst.Merge(&tmp)
}

// optimalParseDP runs the dynamic-program parse described in the
// external interface: state i in [0,n] tracks the minimum (cost, bytes,
// tokens) lexicographically, with literal-run and match edges out of
// each reachable state. Returns (nil, false) on memory-cap or
// unreachable-state fallback.
func optimalParseDP(src []byte, p Params, counters *Counters) ([]byte, bool) {
	n := len(src)
	stateCount := n + 1
	const approxPerState = 8 + 4 + 4 + 4 + 4 + 1 + 8
	memcapBytes := p.OptMemcapMB * 1024 * 1024
	if stateCount*approxPerState > memcapBytes {
		counters.add(func(c *Counters) { c.OptparseFallbackMemcap++ })
		return nil, false
	}

	const inf = math.MaxUint64 / 4
	dpCost := make([]uint64, stateCount)
	dpBytes := make([]uint32, stateCount)
	dpTokens := make([]uint32, stateCount)
	prevPos := make([]int32, stateCount)
	prevTok := make([]optToken, stateCount)
	for i := range dpCost {
		dpCost[i] = inf
		prevPos[i] = -1
	}
	dpCost[0] = 0

	litCostPrefix := make([]uint64, stateCount)
	for i := 0; i < n; i++ {
		litCostPrefix[i+1] = litCostPrefix[i] + 256 // Q8: ~8 bits/byte proxy
	}

	optMaxMatches := p.OptMaxMatches
	if optMaxMatches > 32 {
		optMaxMatches = 32
	}
	if optMaxMatches < 1 {
		optMaxMatches = 1
	}
	optLitMax := p.OptLitMax
	if optLitMax < 1 {
		optLitMax = 1
	}

	t := acquireChainTable(n)
	defer releaseChainTable(t)

	relax := func(from, to int, tok optToken, deltaCost uint64, deltaBytes uint32) {
		if dpCost[from] >= inf {
			return
		}
		newCost := dpCost[from] + deltaCost
		newBytes := dpBytes[from] + deltaBytes
		newTokens := dpTokens[from] + 1
		take := false
		switch {
		case newCost < dpCost[to]:
			take = true
		case newCost == dpCost[to]:
			switch {
			case newBytes < dpBytes[to]:
				take = true
			case newBytes == dpBytes[to] && newTokens < dpTokens[to]:
				take = true
			}
		}
		if !take {
			return
		}
		dpCost[to] = newCost
		dpBytes[to] = newBytes
		dpTokens[to] = newTokens
		prevPos[to] = int32(from)
		prevTok[to] = tok
	}

	collectMatches := func(pos int) []matchCandidate {
		if pos+2 >= n {
			return nil
		}
		var cands []matchCandidate
		ref := t.get(hash3(src, pos))
		depth := 0
		for ref >= 0 && depth < p.ChainDepth {
			counters.add(func(c *Counters) { c.ChainSteps++ })
			refPos := int(ref)
			d := pos - refPos
			if d <= 0 || d > p.WindowSize {
				break
			}
			if src[refPos] == src[pos] && src[refPos+1] == src[pos+1] && src[refPos+2] == src[pos+2] {
				maxLen := n - pos
				if maxLen > 255 {
					maxLen = 255
				}
				l := 3
				if pos+3 < n && refPos+3 < len(src) && src[refPos+3] == src[pos+3] {
					l = matchLen(src, refPos, pos, maxLen)
				}
				if acceptable(l, d, p.MinDistLen3) {
					cands = appendCandidate(cands, matchCandidate{l, d}, optMaxMatches)
					if l == 255 {
						break
					}
					if l >= p.NiceLength {
						break
					}
				}
			}
			ref = t.prev[refPos]
			depth++
		}
		return cands
	}

	for pos := 0; pos < n; pos++ {
		if dpCost[pos] < inf {
			counters.add(func(c *Counters) {})
			maxLit := n - pos
			if maxLit > 255 {
				maxLit = 255
			}
			if maxLit > optLitMax {
				maxLit = optLitMax
			}
			for l := 1; l <= maxLit; l++ {
				next := pos + l
				litBody := litCostPrefix[next] - litCostPrefix[pos]
				tokenCost := uint64(256+256) + litBody
				relax(pos, next, optToken{tokenLitRun, l, 0}, tokenCost, uint32(2+l))
			}
			for _, cand := range collectMatches(pos) {
				next := pos + cand.len
				if next > n {
					continue
				}
				tokenCost := uint64(256 * 4)
				relax(pos, next, optToken{tokenMatch, cand.len, cand.dist}, tokenCost, 4)
			}
		}
		if pos+2 < n {
			h := hash3(src, pos)
			t.prev[pos] = t.get(h)
			t.set(h, int32(pos))
		}
	}

	if dpCost[n] >= inf {
		counters.add(func(c *Counters) { c.OptparseFallbackUnreachable++ })
		return nil, false
	}

	var toks []optToken
	for cur := n; cur > 0; {
		pre := prevPos[cur]
		if pre < 0 {
			counters.add(func(c *Counters) { c.OptparseFallbackUnreachable++ })
			return nil, false
		}
		toks = append(toks, prevTok[cur])
		cur = int(pre)
	}
	for i, j := 0, len(toks)-1; i < j; i, j = i+1, j-1 {
		toks[i], toks[j] = toks[j], toks[i]
	}

	out := make([]byte, 0, dpBytes[n])
	posIdx := 0
	for _, tok := range toks {
		if tok.kind == tokenLitRun {
			out = append(out, tokenLitRun, byte(tok.len))
			out = append(out, src[posIdx:posIdx+tok.len]...)
			posIdx += tok.len
			counters.add(func(c *Counters) { c.LiteralBytes += uint64(tok.len) })
		} else {
			out = append(out, tokenMatch, byte(tok.len), byte(tok.dist), byte(tok.dist>>8))
			posIdx += tok.len
			counters.add(func(c *Counters) {
				c.MatchCount++
				c.MatchBytes += uint64(tok.len)
			})
		}
	}
	if posIdx != n {
		counters.add(func(c *Counters) { c.OptparseFallbackUnreachable++ })
		return nil, false
	}
	return out, true
}

// appendCandidate keeps up to max candidates sorted by length desc, then
// distance asc, replacing the current worst entry when full.
func appendCandidate(cands []matchCandidate, m matchCandidate, max int) []matchCandidate {
	for _, c := range cands {
		if c.len == m.len && c.dist == m.dist {
			return cands
		}
	}
	if len(cands) < max {
		cands = append(cands, m)
	} else {
		worst := 0
		for i := 1; i < len(cands); i++ {
			if cands[i].len < cands[worst].len || (cands[i].len == cands[worst].len && cands[i].dist > cands[worst].dist) {
				worst = i
			}
		}
		if m.len > cands[worst].len || (m.len == cands[worst].len && m.dist < cands[worst].dist) {
			cands[worst] = m
		}
	}
	// keep sorted: length desc, distance asc.
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && (cands[j].len > cands[j-1].len || (cands[j].len == cands[j-1].len && cands[j].dist < cands[j-1].dist)); j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	return cands
}

// DecompressChainLZ reverses CompressChainLZ's token stream back into the
// original bytes.
func DecompressChainLZ(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	i := 0
	for i < len(data) {
		kind := data[i]
		i++
		switch kind {
		case tokenLitRun:
			length := int(data[i])
			i++
			out = append(out, data[i:i+length]...)
			i += length
		case tokenMatch:
			length := int(data[i])
			dist := int(binary.LittleEndian.Uint16(data[i+1:]))
			i += 3
			start := len(out) - dist
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		default:
			return out
		}
	}
	return out
}
