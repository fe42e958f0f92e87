package dicomcodec

import (
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomuid"
)

// rleImageCodec wraps dicomimage.RLECodec for the RLE Lossless transfer
// syntax.
type rleImageCodec struct{}

func (rleImageCodec) Supports(ts string) bool { return ts == dicomuid.RLELossless }

func (rleImageCodec) Decode(raw []byte, p FrameParams) (*dicomimage.Image, error) {
	img := &dicomimage.Image{
		Width: p.Width, Height: p.Height, Channels: p.Channels,
		ColorSpace: p.ColorSpace, Planar: p.Planar, Signed: p.Signed,
		BitsAllocated: p.BitsAllocated, BitsStored: p.BitsStored, HighBit: p.HighBit,
	}
	var codec dicomimage.RLECodec
	if err := codec.Decode(raw, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (rleImageCodec) Encode(img *dicomimage.Image, transferSyntaxUID string, quality int) ([]byte, error) {
	var codec dicomimage.RLECodec
	return codec.Encode(img), nil
}
