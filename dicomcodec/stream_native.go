package dicomcodec

import (
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
)

// nativeStreamCodec locates a frame inside a single contiguous native
// (uncompressed) PixelData buffer, per spec.md §4.9 step 4's "Native"
// rule: compute imageSizeBits, seek to imageSizeBits*frameNumber/8, and
// shift into a scratch block when that offset isn't byte-aligned (the
// allocatedBits==1 bitmap case).
type nativeStreamCodec struct{}

func (nativeStreamCodec) Kind() StreamKind { return KindNative }

func (nativeStreamCodec) FrameBytes(fragments [][]byte, frameNumber, frameCount, imageSizeBits int) ([]byte, error) {
	if len(fragments) == 0 {
		return nil, dicomerr.ErrCorruptedBuffer
	}
	raw := fragments[0]
	bitOffset := int64(imageSizeBits) * int64(frameNumber)
	if bitOffset%8 == 0 {
		start := bitOffset / 8
		length := int64(imageSizeBits+7) / 8
		if int(start+length) > len(raw) {
			return nil, dicomerr.ErrCorruptedBuffer
		}
		return raw[start : start+length], nil
	}
	return dicomimage.ShiftBitmapFrame(raw, bitOffset, int64(imageSizeBits)), nil
}

// AppendFrame concatenates encoded onto the single native fragment
// (native PixelData is always exactly one buffer; the caller handles
// publishing it back to the Dataset).
func (nativeStreamCodec) AppendFrame(fragments [][]byte, encoded []byte) ([][]byte, error) {
	if len(fragments) == 0 {
		return [][]byte{encoded}, nil
	}
	out := make([]byte, len(fragments[0]), len(fragments[0])+len(encoded))
	copy(out, fragments[0])
	out = append(out, encoded...)
	return [][]byte{out}, nil
}
