package dicomjpeg

import "math"

// cosTable[x][u] = cos((2x+1)*u*pi/16), the shared separable basis for
// both the forward and inverse transform.
var cosTable [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			cosTable[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

func alpha(u int) float64 {
	if u == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// idct1D performs an 8-point inverse DCT-II (the classic separable form);
// idctBlock below applies it to rows then columns, matching spec.md
// §4.6's "rows then columns, in place on a 64-entry block" shape. The
// per-frequency normalisation comes from alpha(u) and dequantisation uses
// qt.raw; the quantTable's dequant/quant entries (see quant.go) are not
// used here. The fast butterfly network the
// standard AA&N/LLM algorithms use to avoid explicit multiplies is not
// reproduced; see DESIGN.md for why a direct separable transform was
// chosen instead.
func idct1D(in [8]float64) [8]float64 {
	var out [8]float64
	for x := 0; x < 8; x++ {
		var sum float64
		for u := 0; u < 8; u++ {
			sum += alpha(u) * in[u] * cosTable[x][u]
		}
		out[x] = sum / 2
	}
	return out
}

func fdct1D(in [8]float64) [8]float64 {
	var out [8]float64
	for u := 0; u < 8; u++ {
		var sum float64
		for x := 0; x < 8; x++ {
			sum += in[x] * cosTable[x][u]
		}
		out[u] = alpha(u) * sum / 2
	}
	return out
}

// idctBlock dequantizes zz (zigzag-ordered coefficients) through qt and
// performs the full 2D IDCT, returning natural-order, level-shifted-back
// (+128 for 8-bit, or the general 2^(precision-1)) sample values. The
// caller is responsible for clamping to the valid sample range.
func idctBlock(zz [64]int32, qt *quantTable, levelShift int32) [64]int32 {
	nat := dezigzag(zz)
	var coeffs [64]float64
	for i := 0; i < 64; i++ {
		coeffs[i] = float64(nat[i]) * float64(qt.raw[i])
	}

	var rows [8][8]float64
	for r := 0; r < 8; r++ {
		var row [8]float64
		copy(row[:], coeffs[r*8:r*8+8])
		rows[r] = idct1D(row)
	}
	var out [64]int32
	for c := 0; c < 8; c++ {
		var col [8]float64
		for r := 0; r < 8; r++ {
			col[r] = rows[r][c]
		}
		col = idct1D(col)
		for r := 0; r < 8; r++ {
			v := int32(math.Round(col[r])) + levelShift
			out[r*8+c] = v
		}
	}
	return out
}

// fdctBlock performs the forward 2D DCT on natural-order, level-shifted
// samples and quantizes through qt, returning zigzag-ordered coefficients
// ready for Huffman coding.
func fdctBlock(samples [64]int32, qt *quantTable, levelShift int32) [64]int32 {
	var in [64]float64
	for i, s := range samples {
		in[i] = float64(s - levelShift)
	}
	var rows [8][8]float64
	for r := 0; r < 8; r++ {
		var row [8]float64
		copy(row[:], in[r*8:r*8+8])
		rows[r] = fdct1D(row)
	}
	var coeffs [64]float64
	for c := 0; c < 8; c++ {
		var col [8]float64
		for r := 0; r < 8; r++ {
			col[r] = rows[r][c]
		}
		col = fdct1D(col)
		for r := 0; r < 8; r++ {
			coeffs[r*8+c] = col[r]
		}
	}

	var nat [64]int32
	for i := 0; i < 64; i++ {
		q := float64(qt.raw[i])
		nat[i] = int32(math.Round(coeffs[i] / q))
	}
	return zigzag(nat)
}
