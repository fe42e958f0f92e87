package dicom

import (
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicomtag"
)

// UndefinedLength marks an element/item/sequence whose length is resolved
// by a delimiter instead of a byte count (PS3.5 7.1.1/7.5).
const UndefinedLength uint32 = 0xffffffff

// readTag reads a tag's (group, element) pair.
func readTag(buffer *dicomio.Decoder) dicomtag.Tag {
	group := buffer.ReadUInt16()
	element := buffer.ReadUInt16()
	return dicomtag.Tag{Group: group, Element: element}
}

// readImplicit looks up tag's VR in the dictionary and reads a 32-bit VL.
func readImplicit(buffer *dicomio.Decoder, tag dicomtag.Tag) (string, uint32) {
	vr := "UN"
	if entry, err := dicomtag.Find(tag); err == nil {
		vr = entry.VR
	}

	vl := buffer.ReadUInt32()
	if vl != UndefinedLength && vl%2 != 0 {
		buffer.SetErrorf("Encountered odd length (vl=%v) when reading implicit VR '%v' for tag %s", vl, vr, dicomtag.DebugString(tag))
		vl = 0
	}

	return vr, vl
}

// readExplicit reads a 2-byte VR followed by either a 16-bit or 32-bit VL,
// per PS3.5 7.1.2's long/short header split.
func readExplicit(buffer *dicomio.Decoder, tag dicomtag.Tag) (string, uint32) {
	vr := buffer.ReadString(2)
	var vl uint32

	switch vr {
	case "NA", "OB", "OD", "OF", "OL", "OW", "SQ", "UN", "UC", "UR", "UT":
		buffer.Skip(2) // reserved bytes (0000H)
		vl = buffer.ReadUInt32()
		if vl == UndefinedLength && (vr == "UC" || vr == "UR" || vr == "UT") {
			buffer.SetErrorf("UC, UR and UT may not have an undefined length")
			vl = 0
		}
	default:
		vl = uint32(buffer.ReadUInt16())
		if vl == 0xffff {
			vl = UndefinedLength
		}
	}

	if vl != UndefinedLength && vl%2 != 0 {
		buffer.SetErrorf("Encountered odd length (vl=%v) when reading explicit VR '%v' for tag %s", vl, vr, dicomtag.DebugString(tag))
		vl = 0
	}

	return vr, vl
}

// readRawItem reads one Item's header and bytes without decoding them as
// dataset elements, the form PixelData fragments and the basic offset
// table use. Returns (nil, true) on SequenceDelimitationItem.
func readRawItem(d *dicomio.Decoder) ([]byte, bool) {
	tag := readTag(d)

	// Item headers are always implicit-VR, PS3.6 7.5.
	vr, vl := readImplicit(d, tag)
	if d.Error() != nil {
		return nil, true
	}

	if tag == dicomtag.SequenceDelimitationItem {
		if vl != 0 {
			d.SetErrorf("SequenceDelimitationItem's VL != 0: %v", vl)
		}
		return nil, true
	}

	if tag != dicomtag.Item {
		d.SetErrorf("Expect Item in pixelData but found tag %v", dicomtag.DebugString(tag))
		return nil, false
	}

	if vl == UndefinedLength {
		d.SetErrorf("Expect defined-length item in pixelData")
		return nil, false
	}

	if vr != "NA" {
		d.SetErrorf("Expect NA item, but found %s", vr)
		return nil, true
	}

	return d.ReadBytes(int(vl)), false
}
