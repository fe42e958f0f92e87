package dicomjpeg

import (
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomstream"
)

// losslessPredict implements spec.md §4.6's predictor table (P 0..7),
// with the frame-start and row/column overrides it describes: the very
// first sample of the image uses the default value; the rest of the
// first row uses P=1 (left); the first column of later rows uses P=2
// (above); forceDefault (set for one sample after a restart marker)
// overrides all of the above, matching "restart markers ... reset each
// channel's lastDCValue".
func losslessPredict(plane []int32, width, row, col, predictorSel int, defaultVal int32, forceDefault bool) int32 {
	if forceDefault || (row == 0 && col == 0) {
		return defaultVal
	}
	var left, above, diag int32
	if col > 0 {
		left = plane[row*width+col-1]
	}
	if row > 0 {
		above = plane[(row-1)*width+col]
	}
	if row > 0 && col > 0 {
		diag = plane[(row-1)*width+col-1]
	}

	p := predictorSel
	switch {
	case row == 0:
		p = 1
	case col == 0:
		p = 2
	}

	switch p {
	case 0:
		return defaultVal
	case 1:
		return left
	case 2:
		return above
	case 3:
		return diag
	case 4:
		return left + above - diag
	case 5:
		return left + ((above - diag) >> 1)
	case 6:
		return above + ((left - diag) >> 1)
	case 7:
		return (left + above) >> 1
	}
	return defaultVal
}

// decodeLosslessAmplitude decodes one DC-style Huffman-coded amplitude,
// with the DICOM-specific special case spec.md §4.6 calls out: a code
// length of 16 denotes the fixed value 2^(precision-1), not a 16-bit
// amplitude per the JPEG standard.
func decodeLosslessAmplitude(br *dicomstream.BitReader, tab *huffmanTable, precision int) (int32, error) {
	l, err := tab.decodeValue(br)
	if err != nil {
		return 0, err
	}
	if l == 16 {
		return int32(1) << uint(precision-1), nil
	}
	return receiveExtend(br, uint(l))
}

// decodeLosslessScan decodes a SOF3-family scan per spec.md §4.6's
// lossless path: sample-interleaved across scan components, predicted
// per component plane, restart markers resetting each component's
// predictor context.
func decodeLosslessScan(br *dicomstream.BitReader, st *decodeState, f *frameInfo, scan *scanInfo, img *dicomimage.Image) error {
	defaultVal := int32(1) << uint(f.precision-1)
	width, height := f.width, f.height

	planes := make([][]int32, len(scan.comps))
	for i := range planes {
		planes[i] = make([]int32, width*height)
	}
	forceDefault := make([]bool, len(scan.comps))

	mcuCount := 0

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if st.restart > 0 && mcuCount > 0 && mcuCount%st.restart == 0 {
				br.AlignToByte()
				if _, err := br.ReadBit(); err != nil {
					if err == dicomstream.ErrMarkerInEntropyStream {
						if isRST(br.Marker()) {
							for i := range forceDefault {
								forceDefault[i] = true
							}
							br.Reset()
						} else {
							return dicomerr.ErrCorruptedFile
						}
					} else {
						return err
					}
				}
			}
			for ci, sc := range scan.comps {
				tab := st.dcTab[sc.dcTable]
				if tab == nil {
					return dicomerr.ErrCorruptedFile
				}
				pred := losslessPredict(planes[ci], width, row, col, scan.ss, defaultVal, forceDefault[ci])
				diff, err := decodeLosslessAmplitude(br, tab, f.precision)
				if err != nil {
					return err
				}
				mask := (int32(1) << uint(f.precision)) - 1
				val := (pred + diff) & mask
				planes[ci][row*width+col] = val
				forceDefault[ci] = false
			}
			mcuCount++
		}
	}

	for i, p := range planes {
		plane := make([]uint16, len(p))
		for j, v := range p {
			plane[j] = uint16(v)
		}
		img.Planes[i] = plane
	}
	return nil
}
