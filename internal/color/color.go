// Package color implements the reversible RGB <-> YCoCg-R integer color
// transform used to split an interleaved RGB buffer into the three
// planes the core codes independently, per §4.12.
//
// Grounded on github.com/deepteams/webp's YUV conversion pair shape
// (sharpyuv and internal/dsp's forward/inverse
// color transforms: integer-only arithmetic, a matched forward/inverse
// function pair, one plane per channel), adapted here to the lossless
// YCoCg-R transform instead of lossy YUV.
package color

import "github.com/loco-codec/loco/internal/model"

// RGBToYCoCgR splits an interleaved 8-bit RGB buffer (len == w*h*3) into
// three signed-16 planes. The transform is exactly reversible:
//
//	Co = R - B
//	t  = B + Co>>1
//	Cg = G - t
//	Y  = t + Cg>>1
func RGBToYCoCgR(rgb []byte, w, h int) (y, co, cg *model.Plane) {
	n := w * h
	yPix := make([]int16, n)
	coPix := make([]int16, n)
	cgPix := make([]int16, n)
	for i := 0; i < n; i++ {
		r := int32(rgb[i*3+0])
		g := int32(rgb[i*3+1])
		b := int32(rgb[i*3+2])

		co := r - b
		t := b + (co >> 1)
		cg := g - t
		yy := t + (cg >> 1)

		yPix[i] = int16(yy)
		coPix[i] = int16(co)
		cgPix[i] = int16(cg)
	}
	return model.Pad(yPix, w, h), model.Pad(coPix, w, h), model.Pad(cgPix, w, h)
}

// YCoCgRToRGB inverts RGBToYCoCgR, reading the original (unpadded)
// w x h region of each plane and producing an interleaved 8-bit RGB
// buffer.
func YCoCgRToRGB(y, co, cg *model.Plane, w, h int) []byte {
	out := make([]byte, w*h*3)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			yy := int32(y.At(col, row))
			coV := int32(co.At(col, row))
			cgV := int32(cg.At(col, row))

			t := yy - (cgV >> 1)
			g := cgV + t
			b := t - (coV >> 1)
			r := coV + b

			i := row*w + col
			out[i*3+0] = byte(r)
			out[i*3+1] = byte(g)
			out[i*3+2] = byte(b)
		}
	}
	return out
}
