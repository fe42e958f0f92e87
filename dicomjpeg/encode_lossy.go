package dicomjpeg

import "github.com/odincare/dicomcore/dicomimage"

// encodeLossy emits a baseline/extended-sequential (SOF0) frame using the
// Annex K standard Huffman tables (huffman_std.go) — valid for the
// precision<=8 amplitude-category range those tables cover, which is
// baseline JPEG's entire domain and the overwhelmingly common case for
// lossy-compressed DICOM pixel data.
func encodeLossy(w *writer, img *dicomimage.Image, precision int, opts EncodeOptions) error {
	comps := buildComponents(img)

	lumaQT := buildQuantTable(scaleQuantTable(standardLuminanceQT, qualityScale(opts.Quality)))
	writeDQT(w, 0, lumaQT)
	var chromaQT *quantTable
	if img.Channels > 1 {
		chromaQT = buildQuantTable(scaleQuantTable(standardChrominanceQT, qualityScale(opts.Quality)))
		writeDQT(w, 1, chromaQT)
	}

	writeSOF(w, markerSOF0, precision, img.Height, img.Width, comps)

	dcLuma, acLuma := stdDCLuminanceTable(), stdACLuminanceTable()
	writeDHT(w, 0, 0, specOf(dcLuma))
	writeDHT(w, 1, 0, specOf(acLuma))
	var dcChroma, acChroma *huffmanTable
	if img.Channels > 1 {
		dcChroma, acChroma = stdDCChrominanceTable(), stdACChrominanceTable()
		writeDHT(w, 0, 1, specOf(dcChroma))
		writeDHT(w, 1, 1, specOf(acChroma))
	}
	for _, c := range comps {
		c.dcTable = c.quantID
		c.acTable = c.quantID
	}

	if opts.RestartInterval > 0 {
		payload := []byte{byte(opts.RestartInterval >> 8), byte(opts.RestartInterval)}
		w.segment(markerDRI, payload)
	}

	writeSOS(w, comps, 0, 63, 0, 0)

	bw := &bitWriter{}
	mcusX := (img.Width + 7) / 8
	mcusY := (img.Height + 7) / 8
	levelShift := int32(1) << uint(precision-1)
	mcuCount := 0
	rstIdx := 0
	for my := 0; my < mcusY; my++ {
		for mx := 0; mx < mcusX; mx++ {
			if opts.RestartInterval > 0 && mcuCount > 0 && mcuCount%opts.RestartInterval == 0 {
				bw.flush()
				w.bytes(bw.bytes())
				bw.buf = nil
				w.marker(markerRST0 + byte(rstIdx%8))
				rstIdx++
				for _, c := range comps {
					c.lastDC = 0
				}
			}
			for ci, c := range comps {
				qt := lumaQT
				dcTab, acTab := dcLuma, acLuma
				if c.quantID == 1 {
					qt, dcTab, acTab = chromaQT, dcChroma, acChroma
				}
				samples := extractBlock(img, ci, mx, my)
				coeffs := fdctBlock(samples, qt, levelShift)
				encodeLossyBlock(bw, dcTab, acTab, c, coeffs)
			}
			mcuCount++
		}
	}
	bw.flush()
	w.bytes(bw.bytes())
	return nil
}

// extractBlock reads one 8x8 block from img's plane ci at MCU (mx,my),
// replicating the last valid row/column to pad blocks that run past the
// image edge (the standard JPEG edge-padding convention).
func extractBlock(img *dicomimage.Image, ci, mx, my int) [64]int32 {
	var out [64]int32
	plane := img.Planes[ci]
	for y := 0; y < 8; y++ {
		py := my*8 + y
		if py >= img.Height {
			py = img.Height - 1
		}
		for x := 0; x < 8; x++ {
			px := mx*8 + x
			if px >= img.Width {
				px = img.Width - 1
			}
			out[y*8+x] = int32(plane[py*img.Width+px])
		}
	}
	return out
}

func encodeLossyBlock(bw *bitWriter, dcTab, acTab *huffmanTable, comp *component, zz [64]int32) {
	diff := zz[0] - comp.lastDC
	comp.lastDC = zz[0]
	cat := bitLength(diff)
	code, length := dcTab.code(byte(cat))
	bw.putBits(uint32(code), uint(length))
	if cat > 0 {
		bw.putBits(amplitudeBits(diff, cat), cat)
	}

	run := 0
	last := 63
	for last > 0 && zz[last] == 0 {
		last--
	}
	k := 1
	for k <= last {
		if zz[k] == 0 {
			run++
			k++
			if run == 16 {
				code, length := acTab.code(0xF0)
				bw.putBits(uint32(code), uint(length))
				run = 0
			}
			continue
		}
		cat := bitLength(zz[k])
		sym := byte(run<<4) | byte(cat)
		code, length := acTab.code(sym)
		bw.putBits(uint32(code), uint(length))
		bw.putBits(amplitudeBits(zz[k], cat), cat)
		run = 0
		k++
	}
	if last < 63 {
		code, length := acTab.code(0x00)
		bw.putBits(uint32(code), uint(length))
	}
}
