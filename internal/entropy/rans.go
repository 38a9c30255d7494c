package entropy

import "encoding/binary"

// scaleBits/scaleTotal fix the rANS probability scale at 4096, a size
// that keeps the per-block frequency header small while still
// resolving skewed residual/index distributions well.
const (
	scaleBits   = 12
	scaleTotal  = 1 << scaleBits
	ransL       = 1 << 23
	ransHeaderFixedBytes = 2 + 4 // numSymbols + originalLen
)

// ByteStreamCoder is the dynamic-dispatch entropy back-end interface
// (design note: "define a single byte-stream encoder interface with two
// methods and pass an instance through the pipeline" rather than
// templating the codec over three concrete encode-bytes functions).
type ByteStreamCoder interface {
	Encode(src []byte) []byte
	EncodeSharedLZ(src []byte) []byte
}

// RansCoder is the default ByteStreamCoder: a data-adaptive rANS coder,
// and its LZ77-prefixed variant for dictionary sharing across streams.
type RansCoder struct {
	LZParams Params
}

// NewRansCoder returns a RansCoder using the given LZ parameters for its
// shared-LZ variant.
func NewRansCoder(lzParams Params) *RansCoder {
	return &RansCoder{LZParams: lzParams}
}

func (c *RansCoder) Encode(src []byte) []byte { return EncodeByteStream(src) }
func (c *RansCoder) EncodeSharedLZ(src []byte) []byte {
	return EncodeByteStreamSharedLZ(src, c.LZParams)
}

// freqTable holds a normalized order-0 frequency model for one byte
// stream, scaled to sum exactly to scaleTotal.
type freqTable struct {
	freq [256]uint32
	cum  [257]uint32
}

func buildFreqTable(src []byte) *freqTable {
	var counts [256]int
	for _, b := range src {
		counts[b]++
	}
	ft := &freqTable{}
	if len(src) == 0 {
		return ft
	}
	sum := 0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		f := c * scaleTotal / len(src)
		if f == 0 {
			f = 1
		}
		sum += f
	}
	diff := scaleTotal - sum
	best := -1
	for i, c := range counts {
		if c == 0 {
			continue
		}
		f := c * scaleTotal / len(src)
		if f == 0 {
			f = 1
		}
		ft.freq[i] = uint32(f)
		if best == -1 || ft.freq[i] > ft.freq[best] {
			best = i
		}
	}
	if best >= 0 {
		nv := int(ft.freq[best]) + diff
		if nv < 1 {
			nv = 1
		}
		ft.freq[best] = uint32(nv)
	}
	var acc uint32
	for i := 0; i < 256; i++ {
		ft.cum[i] = acc
		acc += ft.freq[i]
	}
	ft.cum[256] = acc
	return ft
}

// decodeTable maps every slot in [0, scaleTotal) directly to the symbol
// whose [cum[s], cum[s+1]) range contains it; it is built once per
// stream via newDecodeTable.
type decodeTable struct {
	bySlot [scaleTotal]byte
}

func newDecodeTable(ft *freqTable) *decodeTable {
	dt := &decodeTable{}
	for sym := 0; sym < 256; sym++ {
		for slot := ft.cum[sym]; slot < ft.cum[sym+1]; slot++ {
			dt.bySlot[slot] = byte(sym)
		}
	}
	return dt
}

func encodeHeader(ft *freqTable, originalLen int) []byte {
	var numSymbols int
	for i := 0; i < 256; i++ {
		if ft.freq[i] > 0 {
			numSymbols++
		}
	}
	hdr := make([]byte, 0, ransHeaderFixedBytes+numSymbols*3)
	var tmp [4]byte
	binary.LittleEndian.PutUint16(tmp[:2], uint16(numSymbols))
	hdr = append(hdr, tmp[:2]...)
	binary.LittleEndian.PutUint32(tmp[:4], uint32(originalLen))
	hdr = append(hdr, tmp[:4]...)
	for i := 0; i < 256; i++ {
		if ft.freq[i] == 0 {
			continue
		}
		var fb [2]byte
		binary.LittleEndian.PutUint16(fb[:], uint16(ft.freq[i]))
		hdr = append(hdr, byte(i), fb[0], fb[1])
	}
	return hdr
}

func decodeHeader(data []byte) (ft *freqTable, originalLen int, body []byte) {
	numSymbols := int(binary.LittleEndian.Uint16(data[0:2]))
	originalLen = int(binary.LittleEndian.Uint32(data[2:6]))
	ft = &freqTable{}
	pos := 6
	for i := 0; i < numSymbols; i++ {
		sym := data[pos]
		f := binary.LittleEndian.Uint16(data[pos+1 : pos+3])
		ft.freq[sym] = uint32(f)
		pos += 3
	}
	var acc uint32
	for i := 0; i < 256; i++ {
		ft.cum[i] = acc
		acc += ft.freq[i]
	}
	ft.cum[256] = acc
	return ft, originalLen, data[pos:]
}

// EncodeByteStream range-codes src with a data-adaptive (per-call)
// order-0 CDF. An empty src returns an empty output.
func EncodeByteStream(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	ft := buildFreqTable(src)
	state := uint32(ransL)
	var body []byte
	for i := len(src) - 1; i >= 0; i-- {
		sym := src[i]
		freq := ft.freq[sym]
		start := ft.cum[sym]
		xMax := ((ransL >> scaleBits) << 8) * freq
		for state >= xMax {
			body = append(body, byte(state))
			state >>= 8
		}
		state = (state/freq)<<scaleBits + (state % freq) + start
	}
	var final [4]byte
	binary.LittleEndian.PutUint32(final[:], state)
	body = append(body, final[:]...)
	reverseBytes(body)

	out := encodeHeader(ft, len(src))
	out = append(out, body...)
	return out
}

// DecodeByteStream reverses EncodeByteStream.
func DecodeByteStream(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	ft, originalLen, body := decodeHeader(data)
	if originalLen == 0 {
		return nil
	}
	dt := newDecodeTable(ft)
	state := binary.LittleEndian.Uint32(body[0:4])
	pos := 4
	out := make([]byte, originalLen)
	mask := uint32(scaleTotal - 1)
	for i := 0; i < originalLen; i++ {
		slot := state & mask
		sym := dt.bySlot[slot]
		out[i] = sym
		state = ft.freq[sym]*(state>>scaleBits) + (state & mask) - ft.cum[sym]
		for state < ransL && pos < len(body) {
			state = state<<8 | uint32(body[pos])
			pos++
		}
	}
	return out
}

// EncodeByteStreamSharedLZ LZ77-prefixes src before rANS-coding it, so a
// shared dictionary across several streams (the natural route's low
// stream, see §4.8) can amortize repeated substrings that a straight
// order-0 model can't capture.
func EncodeByteStreamSharedLZ(src []byte, p Params) []byte {
	if len(src) == 0 {
		return nil
	}
	tokens := CompressChainLZ(src, p, nil)
	coded := EncodeByteStream(tokens)
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(len(tokens)))
	return append(hdr, coded...)
}

// DecodeByteStreamSharedLZ reverses EncodeByteStreamSharedLZ.
func DecodeByteStreamSharedLZ(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	tokenLen := int(binary.LittleEndian.Uint32(data[0:4]))
	tokens := DecodeByteStream(data[4:])
	if len(tokens) != tokenLen {
		tokens = tokens[:tokenLen]
	}
	return DecompressChainLZ(tokens)
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
