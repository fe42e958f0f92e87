package dicomimage

import (
	"encoding/binary"

	"github.com/odincare/dicomcore/dicomerr"
)

// rleOffsetTableEntries is the fixed 15-entry offset table every RLE
// fragment's header carries, one slot per possible color plane (spec.md
// §4.7: plane count = channels × bytesPerSample, capped at 15 by the
// DICOM RLE header format).
const rleOffsetTableEntries = 15

// RLECodec implements the PackBits-style RLE Lossless transfer syntax
// codec, one color plane at a time, per spec.md §4.7.
type RLECodec struct{}

// Encode serializes img as an RLE fragment: a 64-byte header (uint32
// plane count, then 15 uint32 byte offsets of each plane's start within
// the fragment, relative to the header) followed by each plane's
// PackBits-encoded bytes in turn.
func (RLECodec) Encode(img *Image) []byte {
	bytesPerSample := (img.BitsAllocated + 7) / 8
	planeCount := img.Channels * bytesPerSample
	planes := make([][]byte, planeCount)

	n := img.Width * img.Height
	pi := 0
	for c := 0; c < img.Channels; c++ {
		for b := 0; b < bytesPerSample; b++ {
			raw := make([]byte, n)
			shift := uint(8 * (bytesPerSample - 1 - b))
			for i := 0; i < n; i++ {
				raw[i] = byte(img.Planes[c][i] >> shift)
			}
			planes[pi] = packBitsEncode(raw)
			pi++
		}
	}

	header := make([]byte, 4+4*rleOffsetTableEntries)
	binary.LittleEndian.PutUint32(header[0:4], uint32(planeCount))
	offset := uint32(len(header))
	for i, p := range planes {
		binary.LittleEndian.PutUint32(header[4+4*i:8+4*i], offset)
		offset += uint32(len(p))
	}

	out := header
	for _, p := range planes {
		out = append(out, p...)
	}
	return out
}

// Decode unpacks an RLE fragment into img, whose shape fields are already
// set by the caller.
func (RLECodec) Decode(raw []byte, img *Image) error {
	if len(raw) < 4 {
		return dicomerr.ErrCorruptedBuffer
	}
	planeCount := int(binary.LittleEndian.Uint32(raw[0:4]))
	if planeCount < 1 || planeCount > rleOffsetTableEntries {
		return dicomerr.ErrCorruptedBuffer
	}
	offsets := make([]uint32, planeCount)
	for i := 0; i < planeCount; i++ {
		offsets[i] = binary.LittleEndian.Uint32(raw[4+4*i : 8+4*i])
	}

	bytesPerSample := (img.BitsAllocated + 7) / 8
	if planeCount != img.Channels*bytesPerSample {
		return dicomerr.ErrCorruptedBuffer
	}

	n := img.Width * img.Height
	img.Planes = make([][]uint16, img.Channels)
	for c := range img.Planes {
		img.Planes[c] = make([]uint16, n)
	}

	pi := 0
	for c := 0; c < img.Channels; c++ {
		for b := 0; b < bytesPerSample; b++ {
			start := int(offsets[pi])
			end := len(raw)
			if pi+1 < planeCount {
				end = int(offsets[pi+1])
			}
			if start < 0 || end > len(raw) || start > end {
				return dicomerr.ErrCorruptedBuffer
			}
			plane, err := packBitsDecode(raw[start:end], n)
			if err != nil {
				return err
			}
			shift := uint(8 * (bytesPerSample - 1 - b))
			for i := 0; i < n; i++ {
				img.Planes[c][i] |= uint16(plane[i]) << shift
			}
			pi++
		}
	}
	return nil
}

// packBitsEncode implements Apple PackBits: a run of 2-128 identical bytes
// is written as (257-count, byte); a literal run of 1-128 distinct bytes
// is written as (count-1, bytes...).
func packBitsEncode(data []byte) []byte {
	var out []byte
	i := 0
	for i < len(data) {
		runLen := 1
		for i+runLen < len(data) && runLen < 128 && data[i+runLen] == data[i] {
			runLen++
		}
		if runLen >= 2 {
			out = append(out, byte(257-runLen), data[i])
			i += runLen
			continue
		}
		// accumulate a literal run until a repeat of length >= 2 appears
		litStart := i
		i++
		for i < len(data) && (i-litStart) < 128 {
			if i+1 < len(data) && data[i] == data[i+1] {
				break
			}
			i++
		}
		litLen := i - litStart
		out = append(out, byte(litLen-1))
		out = append(out, data[litStart:i]...)
	}
	return out
}

// packBitsDecode decodes a PackBits stream into exactly want bytes.
func packBitsDecode(data []byte, want int) ([]byte, error) {
	out := make([]byte, 0, want)
	i := 0
	for i < len(data) && len(out) < want {
		n := int8(data[i])
		i++
		switch {
		case n >= 0:
			count := int(n) + 1
			if i+count > len(data) {
				return nil, dicomerr.ErrCorruptedBuffer
			}
			out = append(out, data[i:i+count]...)
			i += count
		case n != -128:
			count := 1 - int(n)
			if i >= len(data) {
				return nil, dicomerr.ErrCorruptedBuffer
			}
			b := data[i]
			i++
			for j := 0; j < count; j++ {
				out = append(out, b)
			}
		default:
			// -128 is a no-op per PackBits convention
		}
	}
	if len(out) < want {
		return nil, dicomerr.ErrCorruptedBuffer
	}
	return out[:want], nil
}
