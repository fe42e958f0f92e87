package dicomjpeg

import (
	"encoding/binary"

	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
)

// writer is the mirror of cursor for emitting JPEG's big-endian
// marker/segment framing.
type writer struct{ buf []byte }

func (w *writer) marker(m byte)   { w.buf = append(w.buf, 0xFF, m) }
func (w *writer) u8(v byte)       { w.buf = append(w.buf, v) }
func (w *writer) u16(v uint16)    { w.buf = append(w.buf, 0, 0); binary.BigEndian.PutUint16(w.buf[len(w.buf)-2:], v) }
func (w *writer) bytes(b []byte)  { w.buf = append(w.buf, b...) }
func (w *writer) segment(m byte, payload []byte) {
	w.marker(m)
	w.u16(uint16(len(payload) + 2))
	w.bytes(payload)
}

// EncodeOptions selects the encode profile, per spec.md §4.6's supported
// set: baseline/extended-sequential lossy (DCT, standard Annex K Huffman
// tables) or lossless (first-order predictor, an optimal table built
// from the image's own DC-category histogram).
type EncodeOptions struct {
	Lossless        bool
	Quality         Quality // ignored when Lossless
	Predictor       int     // 1..7, used only when Lossless; 0 defaults to 1
	RestartInterval int     // MCUs (lossy) or samples (lossless) per restart; 0 disables
}

// Encode produces a JPEG-family byte stream for img per opts, the inverse
// of Decode. Components are encoded 1:1 sampled (no chroma subsampling),
// matching the non-subsampled convention DICOM pixel data overwhelmingly
// uses and that Decode's upsampling path already assumes.
func Encode(img *dicomimage.Image, opts EncodeOptions) ([]byte, error) {
	if img.Channels < 1 {
		return nil, dicomerr.ErrInvalidValue
	}
	precision := img.BitsStored
	if precision <= 0 {
		precision = img.BitsAllocated
	}

	w := &writer{}
	w.marker(markerSOI)

	if opts.Lossless {
		if err := encodeLossless(w, img, precision, opts); err != nil {
			return nil, err
		}
	} else {
		if err := encodeLossy(w, img, precision, opts); err != nil {
			return nil, err
		}
	}

	w.marker(markerEOI)
	return w.buf, nil
}

// writeSOF emits a SOF segment for the given marker/precision/components.
func writeSOF(w *writer, marker byte, precision, height, width int, comps []*component) {
	payload := []byte{byte(precision)}
	var hw [4]byte
	binary.BigEndian.PutUint16(hw[0:2], uint16(height))
	binary.BigEndian.PutUint16(hw[2:4], uint16(width))
	payload = append(payload, hw[:]...)
	payload = append(payload, byte(len(comps)))
	for _, c := range comps {
		payload = append(payload, c.id, byte(c.hSampling<<4|c.vSampling), byte(c.quantID))
	}
	w.segment(marker, payload)
}

func writeDHT(w *writer, class, id byte, spec tableSpec) {
	payload := []byte{class<<4 | id}
	payload = append(payload, spec.counts[:]...)
	payload = append(payload, spec.values...)
	w.segment(markerDHT, payload)
}

func writeDQT(w *writer, id byte, qt *quantTable) {
	payload := []byte{id}
	zz := zigzagFromRaw(qt.raw)
	for _, v := range zz {
		payload = append(payload, byte(v))
	}
	w.segment(markerDQT, payload)
}

// zigzagFromRaw reorders a natural-order quant matrix into zigzag order
// for wire emission (the inverse of the de-zigzag done on parse).
func zigzagFromRaw(raw [64]int) [64]int {
	var out [64]int
	for zzIdx, natIdx := range zigzagOrder {
		out[zzIdx] = raw[natIdx]
	}
	return out
}

func writeSOS(w *writer, comps []*component, ss, se, ah, al int) {
	payload := []byte{byte(len(comps))}
	for _, c := range comps {
		payload = append(payload, c.id, byte(c.dcTable<<4|c.acTable))
	}
	payload = append(payload, byte(ss), byte(se), byte(ah<<4|al))
	w.segment(markerSOS, payload)
}

// buildComponents assigns one component per image channel, 1:1 sampled,
// quantID/table-group 0 for the first (luminance-role) channel and 1 for
// the rest (chrominance-role), the conventional JPEG grouping.
func buildComponents(img *dicomimage.Image) []*component {
	comps := make([]*component, img.Channels)
	for i := range comps {
		group := 0
		if i > 0 {
			group = 1
		}
		comps[i] = &component{id: byte(i + 1), hSampling: 1, vSampling: 1, quantID: group}
	}
	return comps
}
