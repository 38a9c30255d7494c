package entropy

import (
	"bytes"
	"math/rand"
	"testing"
)

func defaultTestParams(strategy MatchStrategy) Params {
	p := DefaultParams()
	p.MatchStrategy = strategy
	return p
}

func TestCompressChainLZRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		bytes.Repeat([]byte("abcabcabc"), 50),
		[]byte("the quick brown fox jumps over the lazy dog the quick brown fox"),
	}
	for _, strategy := range []MatchStrategy{StrategyGreedy, StrategyLazy1, StrategyOptimalParse} {
		for _, in := range inputs {
			p := defaultTestParams(strategy)
			out := CompressChainLZ(in, p, &Counters{})
			got := DecompressChainLZ(out)
			if !bytes.Equal(got, in) {
				t.Fatalf("strategy %d: round trip mismatch: got %q want %q", strategy, got, in)
			}
		}
	}
}

func TestCompressChainLZRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		n := rng.Intn(4000)
		buf := make([]byte, n)
		// Biased alphabet so matches actually occur.
		for i := range buf {
			buf[i] = byte(rng.Intn(6))
		}
		for _, strategy := range []MatchStrategy{StrategyGreedy, StrategyLazy1, StrategyOptimalParse} {
			p := defaultTestParams(strategy)
			out := CompressChainLZ(buf, p, nil)
			got := DecompressChainLZ(out)
			if !bytes.Equal(got, buf) {
				t.Fatalf("trial %d strategy %d: mismatch (n=%d)", trial, strategy, n)
			}
		}
	}
}

// TestRunOfAsProducesExpectedTokenShape pins scenario (f) from the
// testable-properties list: a long run of 'a' compresses to one literal
// run token followed by maximum-length match tokens.
func TestRunOfAsProducesExpectedTokenShape(t *testing.T) {
	src := bytes.Repeat([]byte{'a'}, 100)
	p := defaultTestParams(StrategyGreedy)
	out := CompressChainLZ(src, p, nil)

	if len(out) < 2 || out[0] != tokenLitRun {
		t.Fatalf("expected stream to start with a literal run token, got %v", out[:min(4, len(out))])
	}
	litLen := int(out[1])
	pos := 2 + litLen
	if pos >= len(out) {
		t.Fatalf("expected at least one match token after the literal run")
	}
	if out[pos] != tokenMatch {
		t.Fatalf("expected a match token at byte %d, got kind %d", pos, out[pos])
	}
	dist := int(out[pos+2]) | int(out[pos+3])<<8
	if dist != 1 {
		t.Fatalf("expected distance 1 for a run of identical bytes, got %d", dist)
	}

	got := DecompressChainLZ(out)
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip failed for run-of-a input")
	}
}

// TestMatchValidity pins testable property 4: every emitted match has
// dist in [1, window] and either len>=4 or (len==3 && dist<=minDistLen3).
func TestMatchValidity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	buf := make([]byte, 8000)
	for i := range buf {
		buf[i] = byte(rng.Intn(10))
	}
	p := defaultTestParams(StrategyLazy1)
	p.WindowSize = 4096
	out := CompressChainLZ(buf, p, nil)

	i := 0
	for i < len(out) {
		kind := out[i]
		i++
		switch kind {
		case tokenLitRun:
			i += 1 + int(out[i])
		case tokenMatch:
			length := int(out[i])
			dist := int(out[i+1]) | int(out[i+2])<<8
			i += 3
			if dist < 1 || dist > p.WindowSize {
				t.Fatalf("match distance %d out of window [1,%d]", dist, p.WindowSize)
			}
			if !(length >= 4 || (length == 3 && dist <= p.MinDistLen3)) {
				t.Fatalf("match (len=%d, dist=%d) violates acceptance rule", length, dist)
			}
		default:
			t.Fatalf("unknown token kind %d", kind)
		}
	}

	got := DecompressChainLZ(out)
	if !bytes.Equal(got, buf) {
		t.Fatalf("round trip failed")
	}
}
