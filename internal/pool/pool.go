// Package pool reuses the candidate-buffer allocations internal/wrap
// churns through during its per-sub-stream envelope competition (L6):
// each Wrap call builds up to three candidate buffers (raw, rANS,
// LZ+rANS) and keeps only the smallest, so the other one or two are
// immediately discardable. Size classes are keyed to this codec's own
// sub-stream shapes rather than a generic size ladder: a lone 8x8
// block's worth of bytes up through a full plane.
package pool

import "sync"

// Size classes matching the sub-stream shapes Wrap actually produces.
const (
	ClassBlock      = 64      // one 8x8 block's FilterIDs/Copy/Tile4 bytes
	ClassRow        = 1024    // a tile row's worth of residuals
	ClassTile       = 4096    // a small tile's packed sub-stream
	ClassQuadrant   = 16384   // a quarter-plane sub-stream
	ClassHalfPlane  = 65536
	ClassPlane      = 262144
	ClassLargePlane = 1048576
)

var classes = [7]int{ClassBlock, ClassRow, ClassTile, ClassQuadrant, ClassHalfPlane, ClassPlane, ClassLargePlane}

var buffers [7]sync.Pool

func init() {
	for i := range buffers {
		class := classes[i]
		buffers[i] = sync.Pool{
			New: func() any {
				b := make([]byte, class)
				return &b
			},
		}
	}
}

// classFor returns the index of the smallest class that fits size.
func classFor(size int) int {
	for i, c := range classes {
		if size <= c {
			return i
		}
	}
	return len(classes) - 1
}

// Checkout returns a byte slice of length size, drawn from the pool
// whose class best fits it. The caller must pass the slice to Release
// once it's no longer needed.
func Checkout(size int) []byte {
	idx := classFor(size)
	bp := buffers[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
		*bp = b
		return b
	}
	return b[:size]
}

// Release returns buf to its size class. Buffers smaller than
// ClassBlock aren't pooled; a fresh allocation at that size is already
// cheaper than the bookkeeping.
func Release(buf []byte) {
	c := cap(buf)
	if c < ClassBlock {
		return
	}
	idx := classFor(c)
	buf = buf[:c]
	buffers[idx].Put(&buf)
}
