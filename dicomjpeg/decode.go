package dicomjpeg

import (
	"bytes"
	"encoding/binary"

	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomstream"
)

// cursor is a minimal big-endian byte-slice reader for JPEG's
// marker-and-segment framing, which (unlike the DICOM element stream) is
// always big-endian.
type cursor struct {
	b   []byte
	pos int
}

func (c *cursor) u8() (byte, bool) {
	if c.pos >= len(c.b) {
		return 0, false
	}
	v := c.b[c.pos]
	c.pos++
	return v, true
}

func (c *cursor) u16() (uint16, bool) {
	if c.pos+2 > len(c.b) {
		return 0, false
	}
	v := binary.BigEndian.Uint16(c.b[c.pos:])
	c.pos += 2
	return v, true
}

func (c *cursor) bytes(n int) ([]byte, bool) {
	if c.pos+n > len(c.b) {
		return nil, false
	}
	v := c.b[c.pos : c.pos+n]
	c.pos += n
	return v, true
}

// nextMarker scans forward past any fill bytes (0xFF repeated, or stray
// non-0xFF bytes between segments) to the next marker byte, returning it.
func (c *cursor) nextMarker() (byte, bool) {
	for {
		b, ok := c.u8()
		if !ok {
			return 0, false
		}
		if b != 0xFF {
			continue
		}
		m, ok := c.u8()
		if !ok {
			return 0, false
		}
		if m == 0x00 || m == 0xFF {
			continue
		}
		return m, true
	}
}

// decodeState carries everything the decoder needs across markers within
// one image: quant tables, Huffman tables, the frame, restart interval.
type decodeState struct {
	quant   [4]*quantTable
	dcTab   [4]*huffmanTable
	acTab   [4]*huffmanTable
	frame   *frameInfo
	restart int
}

// Decode parses a single JPEG-family frame (baseline, extended sequential,
// or lossless) per spec.md §4.6's supported-profile list, returning the
// decoded samples as a dicomimage.Image whose channel/dimension fields
// are filled from the SOF header. Callers (the Dataset↔ImageCodec bridge)
// overwrite ColorSpace/Planar afterward from the Dataset's own attributes.
func Decode(data []byte) (*dicomimage.Image, error) {
	c := &cursor{b: data}
	m, ok := c.nextMarker()
	if !ok || m != markerSOI {
		return nil, dicomerr.ErrWrongFormat
	}

	st := &decodeState{}
	var img *dicomimage.Image

	for {
		m, ok := c.nextMarker()
		if !ok {
			return nil, dicomerr.ErrCorruptedFile
		}
		switch {
		case m == markerEOI:
			if img == nil {
				return nil, dicomerr.ErrCorruptedFile
			}
			return img, nil

		case m == markerDQT:
			if err := parseDQT(c, st); err != nil {
				return nil, err
			}

		case m == markerDHT:
			if err := parseDHT(c, st); err != nil {
				return nil, err
			}

		case m == markerDRI:
			if err := parseDRI(c, st); err != nil {
				return nil, err
			}

		case isSOF(m):
			if m != markerSOF0 && m != markerSOF1 && m != markerSOF3 {
				return nil, dicomerr.ErrJpegUnsupported
			}
			f, err := parseSOF(c, m)
			if err != nil {
				return nil, err
			}
			st.frame = f

		case m == markerSOS:
			if st.frame == nil {
				return nil, dicomerr.ErrCorruptedFile
			}
			scan, err := parseSOS(c, st.frame)
			if err != nil {
				return nil, err
			}
			out, rest, err := decodeScan(c.b[c.pos:], st, scan)
			if err != nil {
				return nil, err
			}
			img = out
			c.pos += rest

		default:
			if err := skipSegment(c); err != nil {
				return nil, err
			}
		}
	}
}

// parseSegmentLength reads the 2-byte big-endian segment length
// (including itself) and returns the payload length.
func parseSegmentLength(c *cursor) (int, error) {
	l, ok := c.u16()
	if !ok || l < 2 {
		return 0, dicomerr.ErrCorruptedFile
	}
	return int(l) - 2, nil
}

// skipSegment discards an unrecognized marker's segment using its own
// length word, per spec.md §4.6 / jrm-1535-jpeg's segment.go shape.
func skipSegment(c *cursor) error {
	n, err := parseSegmentLength(c)
	if err != nil {
		return err
	}
	if _, ok := c.bytes(n); !ok {
		return dicomerr.ErrCorruptedFile
	}
	return nil
}

func parseDQT(c *cursor, st *decodeState) error {
	n, err := parseSegmentLength(c)
	if err != nil {
		return err
	}
	end := c.pos + n
	for c.pos < end {
		pq, ok := c.u8()
		if !ok {
			return dicomerr.ErrCorruptedFile
		}
		precision := pq >> 4
		id := pq & 0x0F
		if id > 3 {
			return dicomerr.ErrCorruptedFile
		}
		var zz [64]int
		for i := 0; i < 64; i++ {
			if precision == 0 {
				v, ok := c.u8()
				if !ok {
					return dicomerr.ErrCorruptedFile
				}
				zz[i] = int(v)
			} else {
				v, ok := c.u16()
				if !ok {
					return dicomerr.ErrCorruptedFile
				}
				zz[i] = int(v)
			}
		}
		var nat [64]int
		for zzIdx, natIdx := range zigzagOrder {
			nat[natIdx] = zz[zzIdx]
		}
		st.quant[id] = buildQuantTable(nat)
	}
	return nil
}

func parseDHT(c *cursor, st *decodeState) error {
	n, err := parseSegmentLength(c)
	if err != nil {
		return err
	}
	end := c.pos + n
	for c.pos < end {
		tc, ok := c.u8()
		if !ok {
			return dicomerr.ErrCorruptedFile
		}
		class := tc >> 4 // 0 = DC, 1 = AC
		id := tc & 0x0F
		if id > 3 {
			return dicomerr.ErrCorruptedFile
		}
		var counts [16]byte
		total := 0
		for i := 0; i < 16; i++ {
			v, ok := c.u8()
			if !ok {
				return dicomerr.ErrCorruptedFile
			}
			counts[i] = v
			total += int(v)
		}
		values, ok := c.bytes(total)
		if !ok {
			return dicomerr.ErrCorruptedFile
		}
		t := buildHuffmanTable(counts, append([]byte(nil), values...))
		if class == 0 {
			st.dcTab[id] = t
		} else {
			st.acTab[id] = t
		}
	}
	return nil
}

func parseDRI(c *cursor, st *decodeState) error {
	if _, err := parseSegmentLength(c); err != nil {
		return err
	}
	v, ok := c.u16()
	if !ok {
		return dicomerr.ErrCorruptedFile
	}
	st.restart = int(v)
	return nil
}

func parseSOF(c *cursor, marker byte) (*frameInfo, error) {
	if _, err := parseSegmentLength(c); err != nil {
		return nil, err
	}
	precision, ok := c.u8()
	height, ok2 := c.u16()
	width, ok3 := c.u16()
	nc, ok4 := c.u8()
	if !ok || !ok2 || !ok3 || !ok4 {
		return nil, dicomerr.ErrCorruptedFile
	}
	f := &frameInfo{
		sofMarker: marker,
		precision: int(precision),
		height:    int(height),
		width:     int(width),
		lossless:  isLosslessSOF(marker),
	}
	for i := 0; i < int(nc); i++ {
		id, ok1 := c.u8()
		samp, ok2 := c.u8()
		qid, ok3 := c.u8()
		if !ok1 || !ok2 || !ok3 {
			return nil, dicomerr.ErrCorruptedFile
		}
		comp := &component{
			id:        id,
			hSampling: int(samp >> 4),
			vSampling: int(samp & 0x0F),
			quantID:   int(qid),
		}
		if comp.hSampling > f.maxH {
			f.maxH = comp.hSampling
		}
		if comp.vSampling > f.maxV {
			f.maxV = comp.vSampling
		}
		f.comps = append(f.comps, comp)
	}
	return f, nil
}

func parseSOS(c *cursor, f *frameInfo) (*scanInfo, error) {
	if _, err := parseSegmentLength(c); err != nil {
		return nil, err
	}
	ns, ok := c.u8()
	if !ok {
		return nil, dicomerr.ErrCorruptedFile
	}
	scan := &scanInfo{}
	for i := 0; i < int(ns); i++ {
		cs, ok1 := c.u8()
		tables, ok2 := c.u8()
		if !ok1 || !ok2 {
			return nil, dicomerr.ErrCorruptedFile
		}
		var comp *component
		for _, cc := range f.comps {
			if cc.id == cs {
				comp = cc
				break
			}
		}
		if comp == nil {
			return nil, dicomerr.ErrCorruptedFile
		}
		comp.dcTable = int(tables >> 4)
		comp.acTable = int(tables & 0x0F)
		scan.comps = append(scan.comps, scanComponent{comp: comp, dcTable: comp.dcTable, acTable: comp.acTable})
	}
	ss, ok1 := c.u8()
	se, ok2 := c.u8()
	ahal, ok3 := c.u8()
	if !ok1 || !ok2 || !ok3 {
		return nil, dicomerr.ErrCorruptedFile
	}
	scan.ss = int(ss)
	scan.se = int(se)
	scan.ah = int(ahal >> 4)
	scan.al = int(ahal & 0x0F)
	return scan, nil
}

// decodeScan decodes the entropy-coded segment starting at data (right
// after the SOS header) and returns the assembled image plus the number
// of bytes of data consumed (stopping at the marker that ends the scan,
// not including it).
func decodeScan(data []byte, st *decodeState, scan *scanInfo) (*dicomimage.Image, int, error) {
	view := dicomstream.NewReaderView(bytes.NewReader(data), int64(len(data)))
	br := dicomstream.NewBitReader(view)

	f := st.frame
	img := &dicomimage.Image{
		Width:         f.width,
		Height:        f.height,
		Channels:      len(f.comps),
		BitsAllocated: bitsAllocatedForPrecision(f.precision),
		BitsStored:    f.precision,
		HighBit:       f.precision - 1,
		Planar:        true,
	}
	img.Planes = make([][]uint16, len(f.comps))
	for i := range img.Planes {
		img.Planes[i] = make([]uint16, f.width*f.height)
	}

	for _, c := range f.comps {
		c.lastDC = 0
	}

	var err error
	if f.lossless {
		err = decodeLosslessScan(br, st, f, scan, img)
	} else {
		err = decodeLossyScan(br, st, f, scan, img)
	}
	if err != nil {
		return nil, 0, err
	}

	// Resynchronize the outer cursor: BitReader.fillByte reads both the
	// 0xFF and its follower byte from view before reporting
	// ErrMarkerInEntropyStream, so view.Position() is already 2 bytes past
	// the last genuine entropy byte. Back up over both so the caller's
	// cursor.nextMarker() can re-discover the full 2-byte marker.
	consumed := int(view.Position()) - 2
	if consumed < 0 {
		consumed = 0
	}
	return img, consumed, nil
}

func bitsAllocatedForPrecision(precision int) int {
	if precision <= 8 {
		return 8
	}
	return 16
}
