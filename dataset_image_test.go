package dicom_test

import (
	"testing"

	"github.com/odincare/dicomcore"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/stretchr/testify/require"
)

func twoByTwoMonochrome(samples []uint16) *dicomimage.Image {
	return &dicomimage.Image{
		Width: 2, Height: 2, Channels: 1,
		ColorSpace:    "MONOCHROME2",
		BitsAllocated: 8, BitsStored: 8, HighBit: 7,
		Planes: [][]uint16{samples},
	}
}

func TestDatasetImageRoundTripNative(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2.1") // Explicit VR Little Endian

	img := twoByTwoMonochrome([]uint16{10, 20, 30, 40})
	require.NoError(t, ds.SetImage(0, img, 0))

	got, err := ds.GetImage(0)
	require.NoError(t, err)
	require.Equal(t, img.Width, got.Width)
	require.Equal(t, img.Height, got.Height)
	require.Equal(t, []uint16{10, 20, 30, 40}, got.Planes[0])
}

func TestDatasetImageMultiFrameNative(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2")

	require.NoError(t, ds.SetImage(0, twoByTwoMonochrome([]uint16{1, 2, 3, 4}), 0))
	require.NoError(t, ds.SetImage(1, twoByTwoMonochrome([]uint16{5, 6, 7, 8}), 0))

	frame0, err := ds.GetImage(0)
	require.NoError(t, err)
	require.Equal(t, []uint16{1, 2, 3, 4}, frame0.Planes[0])

	frame1, err := ds.GetImage(1)
	require.NoError(t, err)
	require.Equal(t, []uint16{5, 6, 7, 8}, frame1.Planes[0])
}

func TestDatasetImageWrongFrameOrder(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2")

	require.NoError(t, ds.SetImage(0, twoByTwoMonochrome([]uint16{1, 2, 3, 4}), 0))
	err := ds.SetImage(2, twoByTwoMonochrome([]uint16{5, 6, 7, 8}), 0)
	require.ErrorIs(t, err, dicomerr.ErrWrongFrame)
}

func TestDatasetImageDifferentFormatRejected(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2")

	require.NoError(t, ds.SetImage(0, twoByTwoMonochrome([]uint16{1, 2, 3, 4}), 0))

	mismatched := &dicomimage.Image{
		Width: 4, Height: 4, Channels: 1,
		ColorSpace:    "MONOCHROME2",
		BitsAllocated: 8, BitsStored: 8, HighBit: 7,
		Planes: [][]uint16{make([]uint16, 16)},
	}
	err := ds.SetImage(1, mismatched, 0)
	require.ErrorIs(t, err, dicomerr.ErrDifferentFormat)
}

func TestDatasetImageStreamRoundTrip(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2.1")
	require.NoError(t, ds.SetImage(0, twoByTwoMonochrome([]uint16{11, 22, 33, 44}), 0))

	raw, err := ds.Bytes()
	require.NoError(t, err)

	parsed, err := dicom.ParseBytes(raw)
	require.NoError(t, err)

	img, err := parsed.GetImage(0)
	require.NoError(t, err)
	require.Equal(t, []uint16{11, 22, 33, 44}, img.Planes[0])
}
