// Package dicomimage implements DicomNativeImage per spec.md §4.7: the
// decoded-pixel-data model shared by every ImageCodec (native, RLE,
// JPEG), plus the native bit-packing codec and the RLE (PackBits-style)
// codec.
package dicomimage

import "github.com/odincare/dicomcore/dicomerr"

// Image is a single decoded frame: one []uint16 sample plane per channel,
// samples widened from whatever BitsAllocated declared. Signed pixels keep
// their raw two's-complement bit pattern in the uint16 samples, with
// Signed set; callers that need the signed value sign-extend it from
// BitsStored.
type Image struct {
	Width, Height int
	Channels      int // SamplesPerPixel
	ColorSpace    string
	Planar        bool // true: one plane per channel; false: interleaved

	BitsAllocated int
	BitsStored    int
	HighBit       int
	Signed        bool

	// Planes holds Channels slices, each Width*Height samples, in
	// channel-major order regardless of how the wire format interleaves
	// them — planar vs interleaved is purely a codec framing detail.
	Planes [][]uint16

	// Palette is non-nil only when ColorSpace == "PALETTE COLOR": three
	// equal-length lookup tables (red, green, blue) indexed by the sole
	// plane's sample value, per spec.md §4.9 step 5.
	Palette *Palette
}

// Palette is a PALETTE COLOR lookup table, built from the Dataset's
// RedPaletteLUTData/GreenPaletteLUTData/BluePaletteLUTData tags.
type Palette struct {
	FirstMapped int
	Red, Green, Blue []uint16
}

// RequiredChannels returns how many samples per pixel a color space
// implies, used by the Dataset↔ImageCodec bridge's validation (spec.md
// §4.9 step 3).
func RequiredChannels(colorSpace string) int {
	switch colorSpace {
	case "MONOCHROME1", "MONOCHROME2", "PALETTE COLOR":
		return 1
	case "RGB", "YBR_FULL", "YBR_FULL_422", "YBR_PARTIAL_422", "YBR_PARTIAL_420", "YBR_ICT", "YBR_RCT":
		return 3
	default:
		return 1
	}
}

// Validate checks the cross-field invariants spec.md §4.9 step 3 names.
func (img *Image) Validate() error {
	if img.HighBit < img.BitsStored-1 {
		return dicomerr.ErrInvalidValue
	}
	if RequiredChannels(img.ColorSpace) != img.Channels {
		return dicomerr.ErrDifferentFormat
	}
	return nil
}

// SameFormat reports whether other shares this image's color space,
// channel count, bit depths, sign, planar layout and dimensions — the
// check setImage performs against the first stored frame (spec.md §4.4's
// frame-insertion invariant).
func (img *Image) SameFormat(other *Image) bool {
	return img.Width == other.Width &&
		img.Height == other.Height &&
		img.Channels == other.Channels &&
		img.ColorSpace == other.ColorSpace &&
		img.Planar == other.Planar &&
		img.BitsAllocated == other.BitsAllocated &&
		img.BitsStored == other.BitsStored &&
		img.HighBit == other.HighBit &&
		img.Signed == other.Signed
}
