package dicomimage_test

import (
	"testing"

	"github.com/odincare/dicomcore/dicomimage"
	"github.com/stretchr/testify/require"
)

func TestRLECodecRoundTripGrayscale8Bit(t *testing.T) {
	samples := make([]uint16, 16)
	for i := range samples {
		samples[i] = uint16(i % 3) // 0,1,2 repeating: no equal neighbours, so PackBits emits literal runs
	}
	img := &dicomimage.Image{
		Width: 4, Height: 4, Channels: 1, BitsAllocated: 8,
		Planes: [][]uint16{samples},
	}

	raw := (dicomimage.RLECodec{}).Encode(img)

	got := &dicomimage.Image{Width: 4, Height: 4, Channels: 1, BitsAllocated: 8}
	err := (dicomimage.RLECodec{}).Decode(raw, got)
	require.NoError(t, err)
	require.Equal(t, img.Planes, got.Planes)
}

func TestRLECodecRoundTripRGB(t *testing.T) {
	n := 6
	mk := func(base uint16) []uint16 {
		s := make([]uint16, n)
		for i := range s {
			s[i] = base + uint16(i)
		}
		return s
	}
	img := &dicomimage.Image{
		Width: 3, Height: 2, Channels: 3, BitsAllocated: 8,
		Planes: [][]uint16{mk(0), mk(100), mk(200)},
	}

	raw := (dicomimage.RLECodec{}).Encode(img)
	got := &dicomimage.Image{Width: 3, Height: 2, Channels: 3, BitsAllocated: 8}
	require.NoError(t, (dicomimage.RLECodec{}).Decode(raw, got))
	require.Equal(t, img.Planes, got.Planes)
}

func TestRLECodecDecodeRejectsTruncatedHeader(t *testing.T) {
	got := &dicomimage.Image{Width: 2, Height: 2, Channels: 1, BitsAllocated: 8}
	err := (dicomimage.RLECodec{}).Decode([]byte{1, 2, 3}, got)
	require.Error(t, err)
}
