package dicomhandler

import (
	"strings"

	"github.com/odincare/dicomcore/dicomerr"
)

// NormalizeUID implements the exact normalization algorithm from
// original_source's dataHandlerStringUIImpl.cpp normalizeUid: it walks the
// string once, collapsing redundant leading zeros within each
// dot-separated component and turning a trailing (or doubled) empty
// component into a literal "0" component. Any character that is not a
// digit or a dot fails with dicomerr.ErrInvalidValue.
func NormalizeUID(uid string) (string, error) {
	var out strings.Builder
	atComponentStart := true
	pendingDot := false

	for i := 0; i < len(uid); i++ {
		c := uid[i]
		switch {
		case c >= '0' && c <= '9':
			if pendingDot {
				if out.Len() == 0 {
					out.WriteByte('0')
				}
				out.WriteByte('.')
				pendingDot = false
			}
			isLast := i == len(uid)-1
			nextIsDigit := !isLast && uid[i+1] >= '0' && uid[i+1] <= '9'
			if atComponentStart && c == '0' && nextIsDigit {
				// redundant leading zero: skip it, stay at component start
				continue
			}
			out.WriteByte(c)
			atComponentStart = false
		case c == '.':
			if pendingDot {
				// previous component was empty: materialize it as ".0"
				out.WriteString(".0")
			}
			pendingDot = true
			atComponentStart = true
		default:
			return "", dicomerr.ErrInvalidValue
		}
	}
	if pendingDot {
		out.WriteString(".0")
	}
	return out.String(), nil
}

// GetUID returns the handler's sole value, normalized.
func (h *ReadingHandler) GetUID() (string, error) {
	raw := trimmedString(h.raw, h.params.Padding)
	return NormalizeUID(raw)
}

// SetUID normalizes and sets the handler's sole value.
func (w *WritingHandler) SetUID(uid string) error {
	n, err := NormalizeUID(uid)
	if err != nil {
		return err
	}
	return w.SetString(n)
}
