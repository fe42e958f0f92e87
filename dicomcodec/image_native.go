package dicomcodec

import (
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomuid"
)

// nativeImageCodec wraps dicomimage.NativeCodec for the three
// uncompressed transfer syntaxes.
type nativeImageCodec struct{}

func (nativeImageCodec) Supports(ts string) bool {
	switch ts {
	case dicomuid.ImplicitVRLittleEndian, dicomuid.ExplicitVRLittleEndian, dicomuid.ExplicitVRBigEndian:
		return true
	}
	return false
}

func (nativeImageCodec) Decode(raw []byte, p FrameParams) (*dicomimage.Image, error) {
	img := &dicomimage.Image{
		Width: p.Width, Height: p.Height, Channels: p.Channels,
		ColorSpace: p.ColorSpace, Planar: p.Planar, Signed: p.Signed,
		BitsAllocated: p.BitsAllocated, BitsStored: p.BitsStored, HighBit: p.HighBit,
	}
	var codec dicomimage.NativeCodec
	codec.Decode(raw, img)
	return img, nil
}

func (nativeImageCodec) Encode(img *dicomimage.Image, transferSyntaxUID string, quality int) ([]byte, error) {
	var codec dicomimage.NativeCodec
	return codec.Encode(img), nil
}
