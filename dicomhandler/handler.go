// Package dicomhandler implements the per-VR ValueHandlers spec.md §4.3
// describes: typed read/write views over a dicombuffer.Buffer's raw
// bytes. Construction takes a *dicombuffer.Buffer directly (rather than
// Buffer exposing getReadingHandler/getWritingHandler itself) to avoid an
// import cycle between the byte-level Buffer and the VR catalog that
// drives interpretation.
package dicomhandler

import (
	"strings"

	"github.com/odincare/dicomcore/dicombuffer"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicomtag"
)

// ReadingHandler is an immutable, constructed-once read view over a
// Buffer's materialized bytes, interpreted per vr.
type ReadingHandler struct {
	vr       string
	params   dicomtag.VRParams
	raw      []byte
	charsets dicomio.CodingSystem
}

// NewReadingHandler materializes buf and constructs the handler variant
// for vr. Fails with dicomerr.ErrInvalidHandlerForSequence for vr == "SQ".
func NewReadingHandler(buf *dicombuffer.Buffer, vr string, charsets dicomio.CodingSystem) (*ReadingHandler, error) {
	if vr == "SQ" {
		return nil, dicomerr.ErrInvalidHandlerForSequence
	}
	params, ok := dicomtag.VRInfo(vr)
	if !ok {
		params = dicomtag.VRParams{VR: vr, Family: dicomtag.FamilyBytes, Padding: 0x00}
	}
	raw, err := buf.GetRawReadingHandler()
	if err != nil {
		return nil, err
	}
	return &ReadingHandler{vr: vr, params: params, raw: raw.Bytes(), charsets: charsets}, nil
}

// VR returns the handler's value representation.
func (h *ReadingHandler) VR() string { return h.vr }

// RawBytes returns the buffer's content unmodified, used by the
// numeric-family and binary handlers.
func (h *ReadingHandler) RawBytes() []byte { return h.raw }

// trimmedString strips the even-length padding byte spec.md §4.3
// describes: trailing 0x20 (or 0x00 for UI) is ignored on read.
func trimmedString(raw []byte, pad byte) string {
	s := string(raw)
	if pad == 0x00 {
		return strings.TrimRight(s, "\x00")
	}
	return strings.TrimRight(s, " ")
}

// splitComponents splits raw on sep into trimmed components, unless the VR
// is single-value-only (LT/ST/UT/UR), in which case the whole (trimmed)
// string is the sole component.
func (h *ReadingHandler) splitComponents() []string {
	s := trimmedString(h.raw, h.params.Padding)
	if h.params.SingleOnly || h.params.Separator == 0 {
		return []string{s}
	}
	return strings.Split(s, string(h.params.Separator))
}

// Count returns the number of values this handler exposes: components for
// string-family/unicode-family VRs, elements for numeric-family VRs.
func (h *ReadingHandler) Count() int {
	switch h.params.Family {
	case dicomtag.FamilyNumeric:
		unit := numericUnitSize(h.vr)
		if unit == 0 {
			return 0
		}
		return len(h.raw) / unit
	case dicomtag.FamilyBytes, dicomtag.FamilySequence:
		return 1
	default:
		return len(h.splitComponents())
	}
}

// WritingHandler accumulates values for a single-owner write; Commit
// serializes and publishes them to the source Buffer, matching the
// WritingHandler lifecycle spec.md §4.3 describes (accumulating →
// validate → commit → published).
type WritingHandler struct {
	vr        string
	params    dicomtag.VRParams
	buf       *dicombuffer.Buffer
	raw       *dicombuffer.RawWritingHandler
	strings   []string
	numeric   []byte
	published bool
}

// NewWritingHandler begins accumulating a write of vr into buf. hintSize
// is a capacity hint for the eventual serialized byte length.
func NewWritingHandler(buf *dicombuffer.Buffer, vr string, hintSize int) (*WritingHandler, error) {
	if vr == "SQ" {
		return nil, dicomerr.ErrInvalidHandlerForSequence
	}
	params, ok := dicomtag.VRInfo(vr)
	if !ok {
		params = dicomtag.VRParams{VR: vr, Family: dicomtag.FamilyBytes, Padding: 0x00}
	}
	raw, err := buf.GetRawWritingHandler(hintSize)
	if err != nil {
		return nil, err
	}
	return &WritingHandler{vr: vr, params: params, buf: buf, raw: raw}, nil
}

// VR returns the handler's value representation.
func (w *WritingHandler) VR() string { return w.vr }
