package dicomcodec_test

import (
	"testing"

	"github.com/odincare/dicomcore/dicomcodec"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomuid"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistersNativeAndEncapsulatedStreamCodecs(t *testing.T) {
	f := dicomcodec.Default()

	native, ok := f.StreamCodec(dicomcodec.KindNative)
	require.True(t, ok)
	require.Equal(t, dicomcodec.KindNative, native.Kind())

	enc, ok := f.StreamCodec(dicomcodec.KindEncapsulated)
	require.True(t, ok)
	require.Equal(t, dicomcodec.KindEncapsulated, enc.Kind())
}

func TestDefaultImageCodecForJPEG(t *testing.T) {
	f := dicomcodec.Default()
	c, ok := f.ImageCodecFor(dicomuid.JPEGBaseline)
	require.True(t, ok)
	require.True(t, c.Supports(dicomuid.JPEGBaseline))
}

func TestImageCodecForUnknownSyntaxFails(t *testing.T) {
	f := dicomcodec.Default()
	_, ok := f.ImageCodecFor("1.2.3.4.5.6.not.a.real.syntax")
	require.False(t, ok)
}

func TestCheckImageSizeUnlimitedByDefault(t *testing.T) {
	f := dicomcodec.NewFactory()
	require.NoError(t, f.CheckImageSize(100000, 100000))
}

func TestCheckImageSizeRejectsOverLimit(t *testing.T) {
	f := dicomcodec.NewFactory()
	f.SetMaxImageSize(512, 512)
	require.NoError(t, f.CheckImageSize(512, 512))
	require.ErrorIs(t, f.CheckImageSize(513, 512), dicomerr.ErrImageTooBig)
	require.ErrorIs(t, f.CheckImageSize(512, 513), dicomerr.ErrImageTooBig)
}

func TestFrameParamsValidate(t *testing.T) {
	p := dicomcodec.FrameParams{
		Width: 4, Height: 4, Channels: 1, ColorSpace: "MONOCHROME2",
		BitsAllocated: 8, BitsStored: 8, HighBit: 7,
	}
	require.NoError(t, p.Validate())

	bad := p
	bad.HighBit = 5
	require.ErrorIs(t, bad.Validate(), dicomerr.ErrInvalidValue)

	badChannels := p
	badChannels.Channels = 3
	require.ErrorIs(t, badChannels.Validate(), dicomerr.ErrInvalidValue)
}
