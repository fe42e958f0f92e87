package dicomjpeg

import (
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomstream"
)

// decodeLossyScan decodes a baseline/extended-sequential scan (SOF0/SOF1)
// per spec.md §4.6's "lossy decode per block" and "MCU and scan" rules.
// Components with sampling factors below the frame max are upsampled by
// nearest-neighbor replication, which covers DICOM's overwhelmingly
// common non-subsampled case exactly and subsampled inputs
// approximately (a simplification).
func decodeLossyScan(br *dicomstream.BitReader, st *decodeState, f *frameInfo, scan *scanInfo, img *dicomimage.Image) error {
	levelShift := int32(1) << uint(f.precision-1)
	mcusX, mcusY := f.mcusAcross(), f.mcusDown()
	mcuCount := 0

	for my := 0; my < mcusY; my++ {
		for mx := 0; mx < mcusX; mx++ {
			if st.restart > 0 && mcuCount > 0 && mcuCount%st.restart == 0 {
				br.AlignToByte()
				if _, err := br.ReadBit(); err != nil {
					if err == dicomstream.ErrMarkerInEntropyStream {
						if isRST(br.Marker()) {
							for _, sc := range scan.comps {
								sc.comp.lastDC = 0
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
				qt := st.quant[sc.comp.quantID]
				dcTab := st.dcTab[sc.dcTable]
				acTab := st.acTab[sc.acTable]
				if qt == nil || dcTab == nil || acTab == nil {
					return dicomerr.ErrCorruptedFile
				}
				for by := 0; by < sc.comp.vSampling; by++ {
					for bx := 0; bx < sc.comp.hSampling; bx++ {
						block, err := decodeLossyBlock(br, dcTab, acTab, sc.comp)
						if err != nil {
							return err
						}
						samples := idctBlock(block, qt, levelShift)
						placeLossyBlock(img, ci, f, sc.comp, mx, my, bx, by, samples)
					}
				}
			}
			mcuCount++
		}
	}
	return nil
}

// decodeLossyBlock decodes one 8x8 block's DC difference + AC
// run-length-coded coefficients, per spec.md §4.6 steps 1-3.
func decodeLossyBlock(br *dicomstream.BitReader, dcTab, acTab *huffmanTable, comp *component) ([64]int32, error) {
	var zz [64]int32

	l, err := dcTab.decodeValue(br)
	if err != nil {
		return zz, err
	}
	diff, err := receiveExtend(br, uint(l))
	if err != nil {
		return zz, err
	}
	comp.lastDC += diff
	zz[0] = comp.lastDC

	k := 1
	for k < 64 {
		rs, err := acTab.decodeValue(br)
		if err != nil {
			return zz, err
		}
		run := int(rs >> 4)
		size := rs & 0x0F
		if rs == 0x00 {
			break // EOB
		}
		if rs == 0xF0 {
			k += 16
			continue
		}
		k += run
		if k >= 64 {
			return zz, dicomerr.ErrCorruptedFile
		}
		v, err := receiveExtend(br, uint(size))
		if err != nil {
			return zz, err
		}
		zz[k] = v
		k++
	}
	return zz, nil
}

// placeLossyBlock writes a decoded 8x8 sample block into img's plane for
// component index ci, replicating samples when the component's sampling
// factor is below the frame max (chroma upsampling).
func placeLossyBlock(img *dicomimage.Image, ci int, f *frameInfo, comp *component, mx, my, bx, by int, samples [64]int32) {
	hScale := f.maxH / comp.hSampling
	vScale := f.maxV / comp.vSampling
	if hScale < 1 {
		hScale = 1
	}
	if vScale < 1 {
		vScale = 1
	}

	baseX := (mx*comp.hSampling + bx) * 8 * hScale
	baseY := (my*comp.vSampling + by) * 8 * vScale

	plane := img.Planes[ci]
	maxVal := int32(1)<<uint(f.precision) - 1
	for sy := 0; sy < 8; sy++ {
		for sx := 0; sx < 8; sx++ {
			v := samples[sy*8+sx]
			if v < 0 {
				v = 0
			}
			if v > maxVal {
				v = maxVal
			}
			for ry := 0; ry < vScale; ry++ {
				py := baseY + sy*vScale + ry
				if py >= img.Height {
					continue
				}
				for rx := 0; rx < hScale; rx++ {
					px := baseX + sx*hScale + rx
					if px >= img.Width {
						continue
					}
					plane[py*img.Width+px] = uint16(v)
				}
			}
		}
	}
}
