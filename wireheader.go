package dicom

import (
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicomtag"
)

// writeRawItem emits one Item header (always implicit-VR, "NA") followed
// by data, the form PixelData fragments and the basic offset table use.
func writeRawItem(e *dicomio.Encoder, data []byte) {
	encodeElementHeader(e, dicomtag.Item, "NA", uint32(len(data)))
	e.WriteBytes(data)
}

// encodeElementHeader writes a tag/VR/VL header in whatever form (implicit
// or explicit, short or long) the encoder's current transfer syntax calls
// for. Group 0xFFFE (Item/delimiters) is always implicit VR regardless of
// the surrounding syntax, PS3.6 7.5.
func encodeElementHeader(e *dicomio.Encoder, tag dicomtag.Tag, vr string, vl uint32) {
	dicomio.DoAssert(vl == UndefinedLength || vl%2 == 0, vl)

	e.WriteUInt16(tag.Group)
	e.WriteUInt16(tag.Element)

	_, implicit := e.TransferSyntax()
	if tag.Group == dicomtag.ItemSeqGroup {
		implicit = dicomio.ImplicitVR
	}

	if implicit == dicomio.ExplicitVR {
		dicomio.DoAssert(len(vr) == 2, vr)
		e.WriteString(vr)

		switch vr {
		case "NA", "OB", "OD", "OF", "OL", "OW", "SQ", "UN", "UC", "UR", "UT":
			e.WriteZeros(2) // reserved bytes (0000H)
			e.WriteUInt32(vl)
		default:
			e.WriteUInt16(uint16(vl))
		}
	} else {
		dicomio.DoAssert(implicit == dicomio.ImplicitVR, implicit)
		e.WriteUInt32(vl)
	}
}
