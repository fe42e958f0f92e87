package dicomhandler

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/odincare/dicomcore/dicomerr"
)

// GetString returns the i'th `\`-separated component, narrow-byte VRs
// only (AE, CS, DS, IS, UI, UR). Padding is already trimmed.
func (h *ReadingHandler) GetString(i int) (string, error) {
	parts := h.splitComponents()
	if i < 0 || i >= len(parts) {
		return "", dicomerr.ErrIndexOutOfRange
	}
	return parts[i], nil
}

// GetStrings returns every component.
func (h *ReadingHandler) GetStrings() ([]string, error) {
	return h.splitComponents(), nil
}

// GetDouble parses the i'th component as a float64 (DS, or any numeric
// string VR). Malformed content fails with dicomerr.ErrConversionError.
func (h *ReadingHandler) GetDouble(i int) (float64, error) {
	s, err := h.GetString(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, dicomerr.ErrConversionError
	}
	return v, nil
}

// GetInt parses the i'th component as an integer (IS, or any numeric
// string VR); for the binary integer VRs (US, SS, UL, SL) it decodes the
// i'th little-endian value instead. Malformed content fails with
// dicomerr.ErrConversionError.
func (h *ReadingHandler) GetInt(i int) (int64, error) {
	if unit := numericUnitSize(h.vr); unit == 2 || h.vr == "UL" || h.vr == "SL" {
		if i < 0 || (i+1)*unit > len(h.raw) {
			return 0, dicomerr.ErrIndexOutOfRange
		}
		switch h.vr {
		case "US":
			return int64(binary.LittleEndian.Uint16(h.raw[i*2:])), nil
		case "SS":
			return int64(int16(binary.LittleEndian.Uint16(h.raw[i*2:]))), nil
		case "UL":
			return int64(binary.LittleEndian.Uint32(h.raw[i*4:])), nil
		}
		return int64(int32(binary.LittleEndian.Uint32(h.raw[i*4:]))), nil
	}
	s, err := h.GetString(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, dicomerr.ErrConversionError
	}
	return v, nil
}

// SetString sets the handler's sole value. Multi-valued string-family
// writes go through SetStrings.
func (w *WritingHandler) SetString(s string) error {
	return w.SetStrings([]string{s})
}

// SetStrings replaces all component values and validates each against the
// VR's maximum unit length, failing with dicomerr.ErrValueTooLong.
func (w *WritingHandler) SetStrings(values []string) error {
	for _, v := range values {
		if w.params.MaxSize > 0 && len(v) > w.params.MaxSize {
			return dicomerr.ErrValueTooLong
		}
	}
	w.strings = values
	return nil
}

// SetInt formats v as a decimal string, for IS.
func (w *WritingHandler) SetInt(v int64) error {
	return w.SetString(strconv.FormatInt(v, 10))
}

// SetDouble formats v using DICOM's DS convention (shortest round-trip
// representation), for DS.
func (w *WritingHandler) SetDouble(v float64) error {
	return w.SetString(strconv.FormatFloat(v, 'g', -1, 64))
}

// commitStringFamily serializes the accumulated components joined by the
// VR's separator, padded to even length with the VR's padding byte, and
// publishes them to the Buffer.
func (w *WritingHandler) commitStringFamily() {
	sep := string(w.params.Separator)
	if w.params.SingleOnly {
		sep = ""
	}
	s := strings.Join(w.strings, sep)
	raw := []byte(s)
	if len(raw)%2 != 0 {
		raw = append(raw, w.params.Padding)
	}
	w.raw.SetBytes(raw)
}
