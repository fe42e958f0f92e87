package dicomimage_test

import (
	"testing"

	"github.com/odincare/dicomcore/dicomimage"
	"github.com/stretchr/testify/require"
)

func TestNativeCodecRoundTripInterleaved(t *testing.T) {
	img := &dicomimage.Image{
		Width: 2, Height: 2, Channels: 1, BitsAllocated: 16, Planar: false,
		Planes: [][]uint16{{1, 256, 4095, 65535}},
	}
	raw := (dicomimage.NativeCodec{}).Encode(img)

	got := &dicomimage.Image{Width: 2, Height: 2, Channels: 1, BitsAllocated: 16, Planar: false}
	dicomimage.NativeCodec{}.Decode(raw, got)
	require.Equal(t, img.Planes, got.Planes)
}

func TestNativeCodecRoundTripPlanar(t *testing.T) {
	img := &dicomimage.Image{
		Width: 2, Height: 1, Channels: 3, BitsAllocated: 8, Planar: true,
		Planes: [][]uint16{{10, 20}, {30, 40}, {50, 60}},
	}
	raw := (dicomimage.NativeCodec{}).Encode(img)

	got := &dicomimage.Image{Width: 2, Height: 1, Channels: 3, BitsAllocated: 8, Planar: true}
	dicomimage.NativeCodec{}.Decode(raw, got)
	require.Equal(t, img.Planes, got.Planes)
}

func TestNativeCodecBitmapRoundTrip(t *testing.T) {
	img := &dicomimage.Image{
		Width: 4, Height: 2, Channels: 1, BitsAllocated: 1,
		Planes: [][]uint16{{1, 0, 1, 1, 0, 0, 0, 1}},
	}
	raw := (dicomimage.NativeCodec{}).Encode(img)
	require.Len(t, raw, 1) // 8 bits packs into exactly one byte

	got := &dicomimage.Image{Width: 4, Height: 2, Channels: 1, BitsAllocated: 1}
	dicomimage.NativeCodec{}.Decode(raw, got)
	require.Equal(t, img.Planes, got.Planes)
}

func TestShiftBitmapFrameUnaligned(t *testing.T) {
	// Two packed frames of 4 bits each: frame0 = 1010, frame1 = 0110,
	// packed LSB-first into a single byte: 0110_1010.
	raw := []byte{0b01101010}
	frame1 := dicomimage.ShiftBitmapFrame(raw, 4, 4)
	require.Equal(t, []byte{0b00000110}, frame1)
}
