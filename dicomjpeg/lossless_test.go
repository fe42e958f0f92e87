package dicomjpeg_test

import (
	"testing"

	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomjpeg"
	"github.com/stretchr/testify/require"
)

func grayscaleSample(w, h int) []uint16 {
	out := make([]uint16, w*h)
	for i := range out {
		out[i] = uint16((i*37 + 5) % 256)
	}
	return out
}

func TestLosslessRoundTrip(t *testing.T) {
	for _, predictor := range []int{1, 2, 3, 4, 5, 6, 7} {
		img := &dicomimage.Image{
			Width: 8, Height: 4, Channels: 1,
			BitsAllocated: 8, BitsStored: 8, HighBit: 7,
			Planes: [][]uint16{grayscaleSample(8, 4)},
		}

		encoded, err := dicomjpeg.Encode(img, dicomjpeg.EncodeOptions{Lossless: true, Predictor: predictor})
		require.NoError(t, err, "predictor %d", predictor)
		require.NotEmpty(t, encoded)

		decoded, err := dicomjpeg.Decode(encoded)
		require.NoError(t, err, "predictor %d", predictor)
		require.Equal(t, img.Width, decoded.Width)
		require.Equal(t, img.Height, decoded.Height)
		require.Equal(t, img.Planes[0], decoded.Planes[0], "predictor %d lost losslessness", predictor)
	}
}

func TestLosslessDefaultPredictor(t *testing.T) {
	img := &dicomimage.Image{
		Width: 4, Height: 4, Channels: 1,
		BitsAllocated: 8, BitsStored: 8, HighBit: 7,
		Planes: [][]uint16{grayscaleSample(4, 4)},
	}
	encoded, err := dicomjpeg.Encode(img, dicomjpeg.EncodeOptions{Lossless: true})
	require.NoError(t, err)

	decoded, err := dicomjpeg.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, img.Planes[0], decoded.Planes[0])
}
