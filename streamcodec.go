package dicom

import (
	"encoding/binary"
	"io"

	"github.com/odincare/dicomcore/dicombuffer"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicommemory"
	"github.com/odincare/dicomcore/dicomtag"
)

// ParseStream decodes a DICOM file (preamble+DICM, or the bare
// meta-group-first variant some senders use) into a Dataset, per spec.md
// §4.5. It walks the same readTag/readImplicit/readExplicit wire-level
// primitives as the rest of the module, building a tag tree of Buffers.
func ParseStream(in io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes is ParseStream over an in-memory buffer.
func ParseBytes(data []byte) (*Dataset, error) {
	ds := NewDataset()

	var d *dicomio.Decoder
	switch {
	case len(data) >= 132 && string(data[128:132]) == "DICM":
		d = dicomio.NewBytesDecoder(data[132:], binary.LittleEndian, dicomio.ExplicitVR)
	case looksLikeBareMetaGroup(data):
		d = dicomio.NewBytesDecoder(data, binary.LittleEndian, dicomio.ExplicitVR)
	default:
		return nil, dicomerr.ErrWrongFormat
	}

	if err := readMetaGroup(d, ds); err != nil {
		return nil, err
	}

	endian, implicit, err := dicomio.ParseTransferSyntaxUID(ds.TransferSyntax())
	if err != nil {
		return nil, dicomerr.ErrWrongTransferSyntax
	}
	d.PushTransferSyntax(endian, implicit)
	defer d.PopTransferSyntax()

	for !d.EOF() {
		if err := readDatasetElement(d, ds); err != nil {
			return nil, err
		}
	}
	if d.Error() != nil {
		return nil, d.Error()
	}
	return ds, nil
}

// looksLikeBareMetaGroup reports whether data opens directly on a group
// 0002 element, the no-preamble variant of the file-meta-first rule.
func looksLikeBareMetaGroup(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint16(data[0:2]) == 0x0002
}

// readMetaGroup reads the file-meta group (always explicit-VR
// little-endian, regardless of the body's own transfer syntax) and
// records the transfer syntax it names on ds.
func readMetaGroup(d *dicomio.Decoder, ds *Dataset) error {
	if err := readDatasetElement(d, ds); err != nil {
		return err
	}
	groupLen, err := ds.GetUint32s(dicomtag.FileMetaInformationGroupLength)
	if err != nil || len(groupLen) == 0 {
		return dicomerr.ErrWrongFormat
	}

	d.PushLimit(int64(groupLen[0]))
	for !d.EOF() {
		if err := readDatasetElement(d, ds); err != nil {
			d.PopLimit()
			return err
		}
	}
	d.PopLimit()
	if d.Error() != nil {
		return d.Error()
	}

	ts, err := ds.GetUID(dicomtag.TransferSyntaxUID)
	if err != nil {
		return dicomerr.ErrWrongFormat
	}
	ds.SetTransferSyntax(ts)
	return nil
}

// readDatasetElement reads one element's tag, VR and length, then
// dispatches to the scalar, sequence or pixel-data reader.
func readDatasetElement(d *dicomio.Decoder, ds *Dataset) error {
	return readDatasetElementAt(d, ds, readTag(d))
}

func readDatasetElementAt(d *dicomio.Decoder, ds *Dataset, tag dicomtag.Tag) error {
	_, implicit := d.TransferSyntax()
	if tag.Group == dicomtag.ItemSeqGroup {
		implicit = dicomio.ImplicitVR
	}

	var vr string
	var vl uint32
	if implicit == dicomio.ImplicitVR {
		vr, vl = readImplicit(d, tag)
	} else {
		vr, vl = readExplicit(d, tag)
	}
	if d.Error() != nil {
		return d.Error()
	}
	if vr == "UN" && vl == UndefinedLength {
		vr = "SQ"
	}

	switch {
	case tag == dicomtag.PixelData:
		return readPixelData(d, ds, vr, vl)
	case vr == "SQ":
		return readSequence(d, ds, tag, vl)
	}

	if vl == UndefinedLength {
		return dicomerr.ErrCorruptedFile
	}
	raw := d.ReadBytes(int(vl))
	if d.Error() != nil {
		return d.Error()
	}
	if byteOrder, _ := d.TransferSyntax(); byteOrder == binary.BigEndian {
		raw = swapNumericWords(vr, raw)
	}

	t, err := ds.GetOrCreateTag(tag.Group, 0, tag.Element, vr)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.Buffers = []*dicombuffer.Buffer{dicombuffer.NewResident(dicommemory.New(raw))}
	t.mu.Unlock()

	if tag == dicomtag.SpecificCharacterSet {
		if names, err := ds.GetStrings(tag); err == nil {
			if cs, err := dicomio.ParseSpecificCharacterSet(names); err == nil {
				ds.SetCharsets(cs, names)
			}
		}
	}
	return nil
}

// readSequence reads an SQ tag's items, each becoming a child Dataset
// appended via AppendSequenceItem, handling both defined- and
// undefined-length sequences and items (spec.md §4.4/§4.5).
func readSequence(d *dicomio.Decoder, ds *Dataset, tag dicomtag.Tag, vl uint32) error {
	if _, err := ds.GetOrCreateTag(tag.Group, 0, tag.Element, "SQ"); err != nil {
		return err
	}

	readItems := func() error {
		for !d.EOF() {
			itemTag := readTag(d)
			if itemTag == dicomtag.SequenceDelimitationItem {
				d.ReadUInt32()
				return nil
			}
			if itemTag != dicomtag.Item {
				return dicomerr.ErrCorruptedFile
			}
			itemLen := d.ReadUInt32()
			child, err := ds.AppendSequenceItem(tag.Group, 0, tag.Element)
			if err != nil {
				return err
			}
			if itemLen == UndefinedLength {
				for {
					subTag := readTag(d)
					if subTag == dicomtag.ItemDelimitationItem {
						d.ReadUInt32()
						break
					}
					if err := readDatasetElementAt(d, child, subTag); err != nil {
						return err
					}
					if d.EOF() {
						break
					}
				}
			} else {
				d.PushLimit(int64(itemLen))
				for !d.EOF() {
					if err := readDatasetElement(d, child); err != nil {
						d.PopLimit()
						return err
					}
				}
				d.PopLimit()
			}
			if d.Error() != nil {
				return d.Error()
			}
		}
		return nil
	}

	if vl == UndefinedLength {
		return readItems()
	}
	d.PushLimit(int64(vl))
	err := readItems()
	d.PopLimit()
	return err
}

// swapNumericWords re-orders a numeric-family value's bytes from
// big-endian to little-endian, since every dicomhandler numeric reader
// assumes little-endian raw bytes regardless of wire transfer syntax.
// Explicit VR Big Endian is deprecated and read-only (spec.md §4.5), so
// only the read path needs this; the emitter never writes it. PixelData
// (OW/OB family, handled separately by readPixelData) is excluded — its
// rare big-endian form is left unswapped, a known limitation.
func swapNumericWords(vr string, raw []byte) []byte {
	unit := 0
	switch vr {
	case "SS", "US", "AT": // AT is a pair of 16-bit words
		unit = 2
	case "SL", "UL", "FL", "OL", "OF":
		unit = 4
	case "FD", "OD":
		unit = 8
	}
	if unit == 0 {
		return raw
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	for i := 0; i+unit <= len(out); i += unit {
		word := out[i : i+unit]
		for l, r := 0, len(word)-1; l < r; l, r = l+1, r-1 {
			word[l], word[r] = word[r], word[l]
		}
	}
	return out
}

// readPixelData reads the PixelData tag: a single native buffer for
// defined-length VL, or a basic offset table followed by one fragment
// buffer per Item for the undefined-length encapsulated form (spec.md
// §4.9 step 4).
func readPixelData(d *dicomio.Decoder, ds *Dataset, vr string, vl uint32) error {
	t, err := ds.GetOrCreateTag(dicomtag.PixelData.Group, 0, dicomtag.PixelData.Element, vr)
	if err != nil {
		return err
	}

	var buffers []*dicombuffer.Buffer
	if vl == UndefinedLength {
		bot, endOfData := readRawItem(d)
		if endOfData {
			return dicomerr.ErrCorruptedFile
		}
		if len(bot) == 0 {
			bot = []byte{}
		}
		buffers = append(buffers, dicombuffer.NewResident(dicommemory.New(bot)))
		for {
			frag, endOfData := readRawItem(d)
			if endOfData {
				break
			}
			buffers = append(buffers, dicombuffer.NewResident(dicommemory.New(frag)))
			if d.EOF() {
				break
			}
		}
	} else {
		raw := d.ReadBytes(int(vl))
		buffers = append(buffers, dicombuffer.NewResident(dicommemory.New(raw)))
	}
	if d.Error() != nil {
		return d.Error()
	}

	t.mu.Lock()
	t.Buffers = buffers
	t.mu.Unlock()
	return nil
}
