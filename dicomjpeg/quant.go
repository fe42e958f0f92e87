package dicomjpeg

// zigzagOrder maps natural 8x8 block index (row-major) position in the
// zigzag-ordered stream to the de-zigzagged (row-major) position.
var zigzagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// Quality is the preset spec.md §4.6 names; each scales the standard
// luminance/chrominance tables by Q/medium before building the
// compression/decompression scale tables.
type Quality int

const (
	QualityVeryHigh Quality = iota
	QualityHigh
	QualityMedium
	QualityLow
	QualityVeryLow
)

func qualityScale(q Quality) int {
	// Standard IJG-style quality percentages, medium pinned at 50 (scale
	// factor 1.0).
	switch q {
	case QualityVeryHigh:
		return 95
	case QualityHigh:
		return 75
	case QualityMedium:
		return 50
	case QualityLow:
		return 25
	case QualityVeryLow:
		return 10
	}
	return 50
}

// standardLuminanceQT and standardChrominanceQT are the Annex K tables,
// in natural (row-major) order.
var standardLuminanceQT = [64]int{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

var standardChrominanceQT = [64]int{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// scaleQuantTable scales base by IJG's quality-to-scale-factor convention
// and clamps to [1,255].
func scaleQuantTable(base [64]int, quality int) [64]int {
	var scaleFactor int
	if quality < 50 {
		scaleFactor = 5000 / quality
	} else {
		scaleFactor = 200 - quality*2
	}
	var out [64]int
	for i, v := range base {
		s := (v*scaleFactor + 50) / 100
		if s < 1 {
			s = 1
		}
		if s > 255 {
			s = 255
		}
		out[i] = s
	}
	return out
}

// aanScale is the AA&N per-frequency scale factor (8 entries, row/col
// symmetric), used to build both the FDCT compression table and the IDCT
// decompression table (spec.md §4.6).
var aanScale = [8]float64{
	1.0, 1.387039845, 1.306562965, 1.175875602,
	1.0, 0.785694958, 0.541196100, 0.275899379,
}

const q14Shift = 14

// quantTable holds a block's dequantization (IDCT) and quantization
// (FDCT) fixed-point Q14 scale tables, de-zigzagged, per spec.md §4.6:
// "decompression is q * idctScale[row] * idctScale[col] << 14,
// compression is 1 / (q * fdctScale[row] * fdctScale[col] << 3)".
type quantTable struct {
	dequant [64]int32 // Q14 fixed point, natural order
	quant   [64]float64 // reciprocal scale, natural order
	raw     [64]int
}

// buildQuantTable constructs the scale tables for a natural-order
// (already de-zigzagged) quantization matrix q.
func buildQuantTable(q [64]int) *quantTable {
	t := &quantTable{raw: q}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			i := row*8 + col
			scale := aanScale[row] * aanScale[col]
			t.dequant[i] = int32(float64(q[i]) * scale * float64(int64(1)<<q14Shift))
			t.quant[i] = 1.0 / (float64(q[i]) * scale * 8)
		}
	}
	return t
}

// dezigzag reorders a zigzag-ordered 64-entry block into natural
// (row-major) order.
func dezigzag(zz [64]int32) [64]int32 {
	var out [64]int32
	for zzIdx, natIdx := range zigzagOrder {
		out[natIdx] = zz[zzIdx]
	}
	return out
}

// zigzag reorders a natural-order block into zigzag order.
func zigzag(nat [64]int32) [64]int32 {
	var out [64]int32
	for zzIdx, natIdx := range zigzagOrder {
		out[zzIdx] = nat[natIdx]
	}
	return out
}
