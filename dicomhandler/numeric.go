package dicomhandler

import (
	"encoding/binary"
	"math"

	"github.com/odincare/dicomcore/dicomerr"
)

// numericUnitSize returns the per-element byte width of a numeric-family
// VR, or 0 if vr is not numeric-family.
func numericUnitSize(vr string) int {
	switch vr {
	case "SS", "US":
		return 2
	case "SL", "UL", "FL", "OL", "OF", "AT":
		return 4
	case "FD", "OD":
		return 8
	case "OB":
		return 1
	}
	return 0
}

// numericKind is implemented by every type the numeric-family handlers
// read/write, so CoerceInt64/CoerceFloat64 can be instantiated per type.
type numericKind interface {
	~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64 | ~uint8
}

// GetUint16s decodes a US/OW buffer as a uint16 array.
func (h *ReadingHandler) GetUint16s() ([]uint16, error) {
	if len(h.raw)%2 != 0 {
		return nil, dicomerr.ErrConversionError
	}
	out := make([]uint16, len(h.raw)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(h.raw[i*2:])
	}
	return out, nil
}

// GetInt16s decodes an SS buffer as an int16 array.
func (h *ReadingHandler) GetInt16s() ([]int16, error) {
	u, err := h.GetUint16s()
	if err != nil {
		return nil, err
	}
	out := make([]int16, len(u))
	for i, v := range u {
		out[i] = int16(v)
	}
	return out, nil
}

// GetUint32s decodes a UL/OL buffer as a uint32 array.
func (h *ReadingHandler) GetUint32s() ([]uint32, error) {
	if len(h.raw)%4 != 0 {
		return nil, dicomerr.ErrConversionError
	}
	out := make([]uint32, len(h.raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(h.raw[i*4:])
	}
	return out, nil
}

// GetInt32s decodes an SL buffer as an int32 array.
func (h *ReadingHandler) GetInt32s() ([]int32, error) {
	u, err := h.GetUint32s()
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(u))
	for i, v := range u {
		out[i] = int32(v)
	}
	return out, nil
}

// GetFloat32s decodes an FL/OF buffer as a float32 array.
func (h *ReadingHandler) GetFloat32s() ([]float32, error) {
	u, err := h.GetUint32s()
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(u))
	for i, v := range u {
		out[i] = math.Float32frombits(v)
	}
	return out, nil
}

// GetFloat64s decodes an FD/OD buffer as a float64 array.
func (h *ReadingHandler) GetFloat64s() ([]float64, error) {
	if len(h.raw)%8 != 0 {
		return nil, dicomerr.ErrConversionError
	}
	out := make([]float64, len(h.raw)/8)
	for i := range out {
		bits := binary.LittleEndian.Uint64(h.raw[i*8:])
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

// GetBytes returns the raw byte content for opaque VRs (OB, UN).
func (h *ReadingHandler) GetBytes() []byte { return h.raw }

// GetAtTag decodes an AT buffer (uint32-pairs, group then element) at
// index i into a group/element pair.
func (h *ReadingHandler) GetAtTag(i int) (group, element uint16, err error) {
	if i < 0 || (i+1)*4 > len(h.raw) {
		return 0, 0, dicomerr.ErrIndexOutOfRange
	}
	group = binary.LittleEndian.Uint16(h.raw[i*4:])
	element = binary.LittleEndian.Uint16(h.raw[i*4+2:])
	return group, element, nil
}

// numeric↔numeric coercion, with documented saturation/truncation per
// spec.md §4.3: signed↔unsigned reinterprets bit pattern (no range
// check); float→int truncates toward zero; int→float may lose precision
// above 2^53 for the float64 path but never saturates.

// CoerceInt64 widens/narrows any decoded numeric value to int64.
func CoerceInt64[T numericKind](v T) int64 {
	switch x := any(v).(type) {
	case int16:
		return int64(x)
	case uint16:
		return int64(x)
	case int32:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return int64(x)
	case float64:
		return int64(x)
	case uint8:
		return int64(x)
	default:
		return 0
	}
}

// CoerceFloat64 widens any decoded numeric value to float64.
func CoerceFloat64[T numericKind](v T) float64 {
	switch x := any(v).(type) {
	case int16:
		return float64(x)
	case uint16:
		return float64(x)
	case int32:
		return float64(x)
	case uint32:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case uint8:
		return float64(x)
	default:
		return 0
	}
}

// SetUint16s serializes a uint16 array (US/OW).
func (w *WritingHandler) SetUint16s(values []uint16) {
	buf := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	w.numeric = buf
}

// SetInt16s serializes an int16 array (SS).
func (w *WritingHandler) SetInt16s(values []int16) {
	u := make([]uint16, len(values))
	for i, v := range values {
		u[i] = uint16(v)
	}
	w.SetUint16s(u)
}

// SetUint32s serializes a uint32 array (UL/OL).
func (w *WritingHandler) SetUint32s(values []uint32) {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	w.numeric = buf
}

// SetInt32s serializes an int32 array (SL).
func (w *WritingHandler) SetInt32s(values []int32) {
	u := make([]uint32, len(values))
	for i, v := range values {
		u[i] = uint32(v)
	}
	w.SetUint32s(u)
}

// SetFloat32s serializes a float32 array (FL/OF).
func (w *WritingHandler) SetFloat32s(values []float32) {
	u := make([]uint32, len(values))
	for i, v := range values {
		u[i] = math.Float32bits(v)
	}
	w.SetUint32s(u)
}

// SetFloat64s serializes a float64 array (FD/OD).
func (w *WritingHandler) SetFloat64s(values []float64) {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	w.numeric = buf
}

// SetBytes sets the raw payload directly, for OB/UN.
func (w *WritingHandler) SetBytes(b []byte) {
	w.numeric = append([]byte(nil), b...)
}

func (w *WritingHandler) commitNumericFamily() {
	raw := w.numeric
	if len(raw)%2 != 0 {
		raw = append(raw, w.params.Padding)
	}
	w.raw.SetBytes(raw)
}
