package dicomjpeg

import (
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomstream"
)

// huffmanTable is a canonical Huffman code table, built from the 16
// counts-per-length plus the ordered value list a DHT segment carries
// (spec.md §4.6): "for each code length L, store the min/max code at L
// and the ordered-value base index; decode accumulates bits, comparing at
// each length to the range for that length".
type huffmanTable struct {
	// minCode[L], maxCode[L]: inclusive code range assigned at length L
	// (1-indexed by L, so index 0 is unused).
	minCode [17]int32
	maxCode [17]int32 // -1 means no codes of this length
	// valPtr[L]: index into values of the first value assigned at
	// length L.
	valPtr [17]int32
	values []byte

	// encoding: code + length per value, built from the same
	// construction.
	codeFor   map[byte]uint16
	lengthFor map[byte]uint8
}

// buildHuffmanTable derives a canonical table from counts (bits[1..16],
// 1-indexed number of codes of each length) and the values list in
// length-then-insertion order, exactly how a DHT segment encodes it.
func buildHuffmanTable(counts [16]byte, values []byte) *huffmanTable {
	t := &huffmanTable{values: values, codeFor: map[byte]uint16{}, lengthFor: map[byte]uint8{}}
	for l := 1; l <= 16; l++ {
		t.maxCode[l] = -1
	}

	code := int32(0)
	valIdx := int32(0)
	for l := 1; l <= 16; l++ {
		n := int32(counts[l-1])
		if n == 0 {
			t.minCode[l] = 0
			t.maxCode[l] = -1
			code <<= 1
			continue
		}
		t.valPtr[l] = valIdx
		t.minCode[l] = code
		for i := int32(0); i < n; i++ {
			t.codeFor[values[valIdx]] = uint16(code)
			t.lengthFor[values[valIdx]] = uint8(l)
			code++
			valIdx++
		}
		t.maxCode[l] = code - 1
		code <<= 1
	}
	return t
}

// decodeValue reads one Huffman-coded value from r, bit by bit, matching
// spec.md §4.6's "accumulate bits, comparing at each length to the range
// for that length" description.
func (t *huffmanTable) decodeValue(r *dicomstream.BitReader) (byte, error) {
	code := int32(0)
	for l := 1; l <= 16; l++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		code = (code << 1) | int32(bit)
		if t.maxCode[l] >= 0 && code >= t.minCode[l] && code <= t.maxCode[l] {
			idx := t.valPtr[l] + (code - t.minCode[l])
			if int(idx) >= len(t.values) {
				return 0, dicomerr.ErrCorruptedFile
			}
			return t.values[idx], nil
		}
	}
	return 0, dicomerr.ErrCorruptedFile
}

// code returns (bits, length) for value, used by the encoder. A value
// never present in the table (one the encoder never emits) returns
// length 0.
func (t *huffmanTable) code(value byte) (uint16, uint8) {
	return t.codeFor[value], t.lengthFor[value]
}

// bitLength returns the number of bits needed to represent the magnitude
// of v (0 for v==0), the amplitude-length convention spec.md §4.6 uses
// for both DC differences and AC coefficients.
func bitLength(v int32) uint {
	if v < 0 {
		v = -v
	}
	n := uint(0)
	for v != 0 {
		v >>= 1
		n++
	}
	return n
}

// receiveExtend decodes an amplitude of length l from r and sign-extends
// it per the JPEG convention: values in [0, 2^(l-1)) are negative,
// computed as value - (1<<l) + 1.
func receiveExtend(r *dicomstream.BitReader, l uint) (int32, error) {
	if l == 0 {
		return 0, nil
	}
	bits, err := r.ReadBits(int(l))
	if err != nil {
		return 0, err
	}
	v := int32(bits)
	if v < (1 << (l - 1)) {
		v = v - (1 << l) + 1
	}
	return v, nil
}

// amplitudeBits returns the bits to emit for amplitude v of length l, the
// inverse of receiveExtend: negative values store v + (1<<l) - 1.
func amplitudeBits(v int32, l uint) uint32 {
	if v < 0 {
		v += (1 << l) - 1
	}
	return uint32(v)
}
