package dicomcodec

import (
	"encoding/binary"

	"github.com/odincare/dicomcore/dicomerr"
)

// encapsulatedStreamCodec locates/appends frames in a fragmented
// PixelData sequence per spec.md §4.9: fragments[0] is the basic offset
// table item's bytes (may be empty), fragments[1:] are the
// entropy-coded fragments.
type encapsulatedStreamCodec struct{}

func (encapsulatedStreamCodec) Kind() StreamKind { return KindEncapsulated }

func (encapsulatedStreamCodec) FrameBytes(fragments [][]byte, frameNumber, frameCount, imageSizeBits int) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, dicomerr.ErrCorruptedBuffer
	}
	bot := fragments[0]
	data := concatFragments(fragments[1:])

	if len(bot) > 0 && len(bot)%4 == 0 {
		offsets := parseBOT(bot)
		if frameNumber < len(offsets) {
			// BOT offsets count each fragment's 8-byte item header.
			end := ^uint32(0)
			if frameNumber+1 < len(offsets) {
				end = offsets[frameNumber+1]
			}
			var frame []byte
			pos := uint32(0)
			for _, frag := range fragments[1:] {
				if pos >= offsets[frameNumber] && pos < end {
					frame = append(frame, frag...)
				}
				pos += uint32(len(frag)) + 8 // item tag(4) + item length(4)
			}
			if frame != nil {
				return frame, nil
			}
		}
	}

	// No usable BOT: if there's exactly one fragment per frame (buffer
	// count == frameCount+1, counting the BOT item), each fragment is one
	// frame's whole encoded stream.
	if len(fragments)-1 == frameCount {
		if frameNumber+1 < len(fragments) {
			return fragments[frameNumber+1], nil
		}
	}

	// Single-frame image with possibly multiple fragments: concatenate
	// them all.
	if frameCount == 1 {
		return data, nil
	}

	return nil, dicomerr.ErrCorruptedFile
}

func (encapsulatedStreamCodec) AppendFrame(fragments [][]byte, encoded []byte) ([][]byte, error) {
	if len(fragments) == 0 {
		fragments = [][]byte{{}}
	}
	padded := encoded
	if len(padded)%2 != 0 {
		padded = append(append([]byte{}, padded...), 0x00)
	}
	newFragments := append(append([][]byte{}, fragments[1:]...), padded)

	offset := uint32(0)
	bot := make([]byte, 4*len(newFragments))
	for i, frag := range newFragments {
		binary.LittleEndian.PutUint32(bot[i*4:], offset)
		offset += uint32(len(frag)) + 8 // item tag(4) + item length(4)
	}

	out := make([][]byte, 0, len(newFragments)+1)
	out = append(out, bot)
	out = append(out, newFragments...)
	return out, nil
}

func parseBOT(bot []byte) []uint32 {
	n := len(bot) / 4
	offsets := make([]uint32, n)
	for i := 0; i < n; i++ {
		offsets[i] = binary.LittleEndian.Uint32(bot[i*4:])
	}
	return offsets
}

func concatFragments(frags [][]byte) []byte {
	n := 0
	for _, f := range frags {
		n += len(f)
	}
	out := make([]byte, 0, n)
	for _, f := range frags {
		out = append(out, f...)
	}
	return out
}
