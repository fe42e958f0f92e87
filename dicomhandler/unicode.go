package dicomhandler

import (
	"strings"

	"github.com/odincare/dicomcore/dicomerr"
	"golang.org/x/text/encoding"
)

// decodeComponent runs raw through the charset decoder appropriate to its
// position (DICOM allows a distinct charset per PN group; for the
// non-PN unicode-string-family VRs the alphabetic decoder is used
// throughout). Charset transcoding itself is the external collaborator
// spec.md §1 calls out — this only dispatches to the decoder the Dataset
// already resolved via dicomio.ParseSpecificCharacterSet.
func (h *ReadingHandler) decodeComponent(raw []byte, which int) (string, error) {
	var dec *encoding.Decoder
	switch which {
	case 1:
		dec = h.charsets.Ideographic
	case 2:
		dec = h.charsets.Phonetic
	default:
		dec = h.charsets.Alphabetic
	}
	if dec == nil {
		return string(raw), nil
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", dicomerr.ErrConversionError
	}
	return string(out), nil
}

// GetUnicodeString returns the i'th `\`-separated component of a
// unicode-string-family VR (LO, SH, UC), or the whole trimmed value for
// the single-value VRs (LT, ST, UT), decoded through the Dataset's
// specific character set.
func (h *ReadingHandler) GetUnicodeString(i int) (string, error) {
	parts := h.splitComponents()
	if i < 0 || i >= len(parts) {
		return "", dicomerr.ErrIndexOutOfRange
	}
	return h.decodeComponent([]byte(parts[i]), 0)
}

// GetUnicodeStrings returns every component, decoded.
func (h *ReadingHandler) GetUnicodeStrings() ([]string, error) {
	parts := h.splitComponents()
	out := make([]string, len(parts))
	for i, p := range parts {
		s, err := h.decodeComponent([]byte(p), 0)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// PersonName is PN's decomposition into up to three representations, per
// spec.md §4.3: alphabetic, ideographic and phonetic, separated by `=` in
// the wire encoding. `^`-separated components within each group are not
// interpreted here; callers own component splitting.
type PersonName struct {
	Alphabetic  string
	Ideographic string
	Phonetic    string
}

// GetPersonName parses the handler's sole value as PN. More than three
// `=`-separated groups fails with dicomerr.ErrCorruptedBuffer.
func (h *ReadingHandler) GetPersonName() (PersonName, error) {
	raw := trimmedString(h.raw, h.params.Padding)
	groups := strings.Split(raw, "=")
	if len(groups) > 3 {
		return PersonName{}, dicomerr.ErrCorruptedBuffer
	}
	var pn PersonName
	decoded := make([]string, len(groups))
	for i, g := range groups {
		s, err := h.decodeComponent([]byte(g), i)
		if err != nil {
			return PersonName{}, err
		}
		decoded[i] = s
	}
	if len(decoded) > 0 {
		pn.Alphabetic = decoded[0]
	}
	if len(decoded) > 1 {
		pn.Ideographic = decoded[1]
	}
	if len(decoded) > 2 {
		pn.Phonetic = decoded[2]
	}
	return pn, nil
}

// SetUnicodeString sets the handler's sole value (LT/ST/UT) or first
// component (LO/SH/UC); use SetUnicodeStrings for a full multi-valued
// write. No charset re-encoding is performed: the caller is expected to
// supply bytes already in the dataset's target charset (or plain ASCII),
// matching the module's read-only charset adapter.
func (w *WritingHandler) SetUnicodeString(s string) error {
	return w.SetStrings([]string{s})
}

// SetUnicodeStrings replaces all component values of a unicode-string
// family VR.
func (w *WritingHandler) SetUnicodeStrings(values []string) error {
	return w.SetStrings(values)
}

// SetPersonName serializes pn as `alphabetic=ideographic=phonetic`,
// dropping trailing empty groups.
func (w *WritingHandler) SetPersonName(pn PersonName) error {
	groups := []string{pn.Alphabetic, pn.Ideographic, pn.Phonetic}
	for len(groups) > 1 && groups[len(groups)-1] == "" {
		groups = groups[:len(groups)-1]
	}
	return w.SetString(strings.Join(groups, "="))
}
