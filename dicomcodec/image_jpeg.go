package dicomcodec

import (
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomjpeg"
	"github.com/odincare/dicomcore/dicomuid"
)

// jpegImageCodec wraps dicomjpeg for the baseline/extended/lossless JPEG
// transfer syntaxes spec.md §4.6 lists. The raw JPEG stream is
// self-describing (SOF/SOS carry width/height/precision/component
// count), so Decode takes those from the stream and copies only
// ColorSpace, Planar and Signed from FrameParams; it does not check the
// stream's header against FrameParams.
type jpegImageCodec struct{}

func (jpegImageCodec) Supports(ts string) bool {
	switch ts {
	case dicomuid.JPEGBaseline, dicomuid.JPEGExtended,
		dicomuid.JPEGLossless, dicomuid.JPEGLosslessFirstOrder:
		return true
	}
	return false
}

func (jpegImageCodec) Decode(raw []byte, p FrameParams) (*dicomimage.Image, error) {
	img, err := dicomjpeg.Decode(raw)
	if err != nil {
		return nil, err
	}
	img.ColorSpace = p.ColorSpace
	img.Planar = p.Planar
	img.Signed = p.Signed
	return img, nil
}

func (jpegImageCodec) Encode(img *dicomimage.Image, transferSyntaxUID string, quality int) ([]byte, error) {
	opts := dicomjpeg.EncodeOptions{}
	switch transferSyntaxUID {
	case dicomuid.JPEGLossless, dicomuid.JPEGLosslessFirstOrder:
		opts.Lossless = true
		opts.Predictor = 1
	default:
		opts.Quality = qualityFromPercent(quality)
	}
	return dicomjpeg.Encode(img, opts)
}

// qualityFromPercent maps an arbitrary 1-100 quality percentage (the
// convention a Dataset.setImage caller passes) onto the nearest
// dicomjpeg.Quality preset.
func qualityFromPercent(q int) dicomjpeg.Quality {
	switch {
	case q >= 90:
		return dicomjpeg.QualityVeryHigh
	case q >= 70:
		return dicomjpeg.QualityHigh
	case q >= 40:
		return dicomjpeg.QualityMedium
	case q >= 15:
		return dicomjpeg.QualityLow
	default:
		return dicomjpeg.QualityVeryLow
	}
}
