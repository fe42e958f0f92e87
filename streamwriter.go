package dicom

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/odincare/dicomcore/dicombuffer"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicomtag"
	"github.com/odincare/dicomcore/dicomuid"
)

// Save serializes ds as a DICOM file (128-byte preamble, "DICM" magic,
// file-meta group, then the body encoded per ds's transfer syntax),
// spec.md §4.5's emit direction. It walks the tag tree directly, reusing
// the encodeElementHeader/writeRawItem wire-level primitives.
func (ds *Dataset) Save(out io.Writer) error {
	b, err := ds.Bytes()
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

// Bytes renders ds to a complete DICOM file image.
func (ds *Dataset) Bytes() ([]byte, error) {
	ts := ds.TransferSyntax()
	if ts == "" {
		ts = "1.2.840.10008.1.2"
	}
	if ts == dicomuid.ExplicitVRBigEndian {
		return nil, dicomerr.ErrWrongTransferSyntax
	}
	endian, implicit, err := dicomio.ParseTransferSyntaxUID(ts)
	if err != nil {
		return nil, err
	}

	metaBytes, err := writeMetaGroup(ds, ts)
	if err != nil {
		return nil, err
	}

	body := dicomio.NewBytesEncoder(endian, implicit)
	if err := writeBody(body, ds); err != nil {
		return nil, err
	}
	if body.Error() != nil {
		return nil, body.Error()
	}

	buf := make([]byte, 0, 128+4+len(metaBytes)+len(body.Bytes()))
	buf = append(buf, make([]byte, 128)...)
	buf = append(buf, []byte("DICM")...)
	buf = append(buf, metaBytes...)
	buf = append(buf, body.Bytes()...)
	return buf, nil
}

// writeMetaGroup encodes the file-meta group, always explicit-VR
// little-endian regardless of the body's transfer syntax, stamping in
// the implementation identifiers used elsewhere in this module when the
// caller hasn't already set them.
func writeMetaGroup(ds *Dataset, ts string) ([]byte, error) {
	if err := ds.SetUID(dicomtag.TransferSyntaxUID, ts); err != nil {
		return nil, err
	}
	if _, err := ds.GetUID(dicomtag.ImplementationClassUID); err != nil {
		if err := ds.SetUID(dicomtag.ImplementationClassUID, GoDICOMImplementationClassUID); err != nil {
			return nil, err
		}
	}
	if _, err := ds.GetString(dicomtag.ImplementationVersionName); err != nil {
		if err := ds.SetString(dicomtag.ImplementationVersionName, "SH", GoDICOMImplementationVersionName); err != nil {
			return nil, err
		}
	}

	entries := collectSorted(ds, func(group uint16) bool { return group == dicomtag.MetadataGroup })
	sub := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	for _, e := range entries {
		tag := dicomtag.Tag{Group: e.group, Element: e.element}
		if tag == dicomtag.FileMetaInformationGroupLength {
			continue
		}
		if err := writeTag(sub, tag, e.t); err != nil {
			return nil, err
		}
	}
	if sub.Error() != nil {
		return nil, sub.Error()
	}

	metaBody := sub.Bytes()
	header := dicomio.NewBytesEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	encodeElementHeader(header, dicomtag.FileMetaInformationGroupLength, "UL", 4)
	header.WriteUInt32(uint32(len(metaBody)))
	return append(header.Bytes(), metaBody...), nil
}

// sortedEntry is one tag slot in group/order/element order, the order
// the DICOM wire format requires elements to appear in.
type sortedEntry struct {
	group, element uint16
	order          int
	t              *Tag
}

// collectSorted snapshots ds's tags passing keep(group), sorted into
// wire order.
func collectSorted(ds *Dataset, keep func(group uint16) bool) []sortedEntry {
	var entries []sortedEntry
	ds.ForEach(func(group uint16, order int, element uint16, t *Tag) bool {
		if keep(group) {
			entries = append(entries, sortedEntry{group, element, order, t})
		}
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].group != entries[j].group {
			return entries[i].group < entries[j].group
		}
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].element < entries[j].element
	})
	return entries
}

// writeBody encodes every non-meta tag of ds, in wire order, into enc.
// Used both for the top-level dataset and, recursively, for each
// sequence item's own Dataset.
func writeBody(enc *dicomio.Encoder, ds *Dataset) error {
	entries := collectSorted(ds, func(group uint16) bool { return group != dicomtag.MetadataGroup })
	for _, e := range entries {
		if err := writeTag(enc, dicomtag.Tag{Group: e.group, Element: e.element}, e.t); err != nil {
			return err
		}
	}
	return nil
}

// writeTag encodes one tag's header and payload.
func writeTag(enc *dicomio.Encoder, tag dicomtag.Tag, t *Tag) error {
	t.mu.Lock()
	vr := t.VR
	t.mu.Unlock()

	switch {
	case vr == "SQ":
		return writeSequenceTag(enc, tag, t)
	case tag == dicomtag.PixelData:
		return writePixelDataTag(enc, tag, t, vr)
	}

	raw, err := t.materializeBuffer0()
	if err != nil {
		return err
	}
	raw = padEven(vr, raw)
	encodeElementHeader(enc, tag, vr, uint32(len(raw)))
	enc.WriteBytes(raw)
	return nil
}

// writeSequenceTag encodes an SQ tag's items as nested, defined-length
// Item elements — spec.md doesn't require the undefined-length/
// delimiter form on write, only that readers accept it.
func writeSequenceTag(enc *dicomio.Encoder, tag dicomtag.Tag, t *Tag) error {
	byteOrder, implicit := enc.TransferSyntax()
	t.mu.Lock()
	items := append([]*Dataset(nil), t.Items...)
	t.mu.Unlock()

	sub := dicomio.NewBytesEncoder(byteOrder, implicit)
	for _, item := range items {
		itemBody := dicomio.NewBytesEncoder(byteOrder, implicit)
		if err := writeBody(itemBody, item); err != nil {
			return err
		}
		if itemBody.Error() != nil {
			return itemBody.Error()
		}
		writeRawItem(sub, itemBody.Bytes())
	}
	if sub.Error() != nil {
		return sub.Error()
	}

	encodeElementHeader(enc, tag, "SQ", uint32(len(sub.Bytes())))
	enc.WriteBytes(sub.Bytes())
	return nil
}

// writePixelDataTag encodes PixelData either as one native contiguous
// buffer (defined length) or, when fragmented, as an undefined-length
// basic-offset-table-plus-fragments sequence terminated by a
// SequenceDelimitationItem (spec.md §4.9 step 4).
func writePixelDataTag(enc *dicomio.Encoder, tag dicomtag.Tag, t *Tag, vr string) error {
	t.mu.Lock()
	buffers := append([]*dicombuffer.Buffer(nil), t.Buffers...)
	t.mu.Unlock()

	if len(buffers) <= 1 {
		var raw []byte
		if len(buffers) == 1 {
			mem, err := buffers[0].Materialize()
			if err != nil {
				return err
			}
			raw = mem.Bytes()
		}
		raw = padEven(vr, raw)
		encodeElementHeader(enc, tag, vr, uint32(len(raw)))
		enc.WriteBytes(raw)
		return nil
	}

	encodeElementHeader(enc, tag, vr, UndefinedLength)
	botMem, err := buffers[0].Materialize()
	if err != nil {
		return err
	}
	writeRawItem(enc, botMem.Bytes())
	for _, b := range buffers[1:] {
		mem, err := b.Materialize()
		if err != nil {
			return err
		}
		writeRawItem(enc, mem.Bytes())
	}
	encodeElementHeader(enc, dicomtag.SequenceDelimitationItem, "", 0)
	return nil
}

// materializeBuffer0 returns a tag's sole buffer's bytes (empty if it
// has none yet).
func (t *Tag) materializeBuffer0() ([]byte, error) {
	bufs, err := t.materialize()
	if err != nil {
		return nil, err
	}
	if len(bufs) == 0 {
		return nil, nil
	}
	return bufs[0], nil
}

// padEven appends vr's pad byte when raw is odd-length, since every
// DICOM value must occupy an even number of bytes on the wire.
func padEven(vr string, raw []byte) []byte {
	if len(raw)%2 == 0 {
		return raw
	}
	pad := byte(0x00)
	if params, ok := dicomtag.VRInfo(vr); ok {
		pad = params.Padding
	}
	out := make([]byte, len(raw)+1)
	copy(out, raw)
	out[len(raw)] = pad
	return out
}
