package dicomjpeg

import "github.com/odincare/dicomcore/dicomimage"

// encodeLossless emits a SOF3 frame per spec.md §4.6's predictive path: a
// single shared DC-style Huffman table (built from the image's own
// category histogram — see optimal.go) used across all components, the
// predictor selected by opts.Predictor (default 1, left-neighbor), and
// modular differencing so the category-16 sentinel (spec.md's "code
// length 16 denotes the fixed +2^(P-1) difference") is reachable exactly
// like a conforming encoder's. Restart markers force the predictor back
// to the frame default for the sample immediately following, mirroring
// decodeLosslessScan's forceDefault handling so a round trip matches.
func encodeLossless(w *writer, img *dicomimage.Image, precision int, opts EncodeOptions) error {
	comps := buildComponents(img)
	predictor := opts.Predictor
	if predictor == 0 {
		predictor = 1
	}
	writeSOF(w, markerSOF3, precision, img.Height, img.Width, comps)

	width, height := img.Width, img.Height
	half := int32(1) << uint(precision-1)
	full := int32(1) << uint(precision)

	planes := make([][]int32, img.Channels)
	for ci := range planes {
		planes[ci] = make([]int32, width*height)
		src := img.Planes[ci]
		for i, v := range src {
			planes[ci][i] = int32(v)
		}
	}

	diffOf := func(ci, row, col int, forceDefault bool) int32 {
		pred := losslessPredict(planes[ci], width, row, col, predictor, half, forceDefault)
		actual := planes[ci][row*width+col]
		d := actual - pred
		d = ((d+half)%full+full)%full - half
		return d
	}

	// visit replays the identical raster/restart traversal decode uses,
	// calling fn(ci, row, col, forceDefault) once per sample in order.
	visit := func(fn func(ci, row, col int, forceDefault bool)) {
		mcuCount := 0
		forceDefault := make([]bool, img.Channels)
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				if opts.RestartInterval > 0 && mcuCount > 0 && mcuCount%opts.RestartInterval == 0 {
					for i := range forceDefault {
						forceDefault[i] = true
					}
				}
				for ci := 0; ci < img.Channels; ci++ {
					fn(ci, row, col, forceDefault[ci])
					forceDefault[ci] = false
				}
				mcuCount++
			}
		}
	}

	freq := map[byte]int{}
	visit(func(ci, row, col int, forceDefault bool) {
		d := diffOf(ci, row, col, forceDefault)
		freq[losslessCategory(d, half)]++
	})
	tab := buildOptimalTable(freq)
	for _, c := range comps {
		c.dcTable = 0
	}
	writeDHT(w, 0, 0, specOf(tab))

	if opts.RestartInterval > 0 {
		payload := []byte{byte(opts.RestartInterval >> 8), byte(opts.RestartInterval)}
		w.segment(markerDRI, payload)
	}

	writeSOS(w, comps, predictor, 0, 0, 0)

	bw := &bitWriter{}
	mcuCount := 0
	rstIdx := 0
	forceDefault := make([]bool, img.Channels)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if opts.RestartInterval > 0 && mcuCount > 0 && mcuCount%opts.RestartInterval == 0 {
				bw.flush()
				w.bytes(bw.bytes())
				bw.buf = nil
				w.marker(markerRST0 + byte(rstIdx%8))
				rstIdx++
				for i := range forceDefault {
					forceDefault[i] = true
				}
			}
			for ci := 0; ci < img.Channels; ci++ {
				d := diffOf(ci, row, col, forceDefault[ci])
				forceDefault[ci] = false
				cat := losslessCategory(d, half)
				code, length := tab.code(cat)
				bw.putBits(uint32(code), uint(length))
				if cat != 16 && cat > 0 {
					bw.putBits(amplitudeBits(d, uint(cat)), uint(cat))
				}
			}
			mcuCount++
		}
	}
	bw.flush()
	w.bytes(bw.bytes())
	return nil
}

// losslessCategory returns the DC-style size category for a modular
// difference d, with the DICOM/JPEG-lossless sentinel: d == +2^(P-1)
// (the one magnitude too large for the normal sign-extend scheme) is
// category 16.
func losslessCategory(d, half int32) byte {
	if d == half {
		return 16
	}
	return byte(bitLength(d))
}
