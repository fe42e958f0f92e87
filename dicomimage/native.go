package dicomimage

// NativeCodec packs/unpacks an Image to/from the raw bytes DICOM's native
// (uncompressed) pixel data encoding uses: samples tightly packed at
// BitsAllocated width, little-endian, interleaved or planar per
// img.Planar, with the allocatedBits==1 bitmap special case of spec.md
// §4.7.
type NativeCodec struct{}

// imageSizeBits returns one frame's size in bits: width*height*channels*
// bitsAllocated.
func imageSizeBits(width, height, channels, bitsAllocated int) int64 {
	return int64(width) * int64(height) * int64(channels) * int64(bitsAllocated)
}

// Encode serializes img into raw native bytes.
func (NativeCodec) Encode(img *Image) []byte {
	if img.BitsAllocated == 1 {
		return encodeBitmap(img)
	}
	bytesPerSample := (img.BitsAllocated + 7) / 8
	n := img.Width * img.Height
	out := make([]byte, 0, n*img.Channels*bytesPerSample)
	if img.Planar {
		for c := 0; c < img.Channels; c++ {
			out = appendSamples(out, img.Planes[c], bytesPerSample)
		}
	} else {
		for i := 0; i < n; i++ {
			for c := 0; c < img.Channels; c++ {
				out = appendSample(out, img.Planes[c][i], bytesPerSample)
			}
		}
	}
	return out
}

func appendSamples(out []byte, samples []uint16, bytesPerSample int) []byte {
	for _, s := range samples {
		out = appendSample(out, s, bytesPerSample)
	}
	return out
}

func appendSample(out []byte, s uint16, bytesPerSample int) []byte {
	out = append(out, byte(s))
	if bytesPerSample == 2 {
		out = append(out, byte(s>>8))
	}
	return out
}

// Decode unpacks raw native bytes into an Image whose shape fields
// (Width/Height/Channels/ColorSpace/BitsAllocated/...) are already set by
// the caller (the Dataset↔ImageCodec bridge, which knows them from the
// Dataset's attribute tags).
func (NativeCodec) Decode(raw []byte, img *Image) {
	if img.BitsAllocated == 1 {
		decodeBitmap(raw, img)
		return
	}
	bytesPerSample := (img.BitsAllocated + 7) / 8
	n := img.Width * img.Height
	img.Planes = make([][]uint16, img.Channels)
	for c := range img.Planes {
		img.Planes[c] = make([]uint16, n)
	}
	readSample := func(off int) uint16 {
		if bytesPerSample == 1 {
			return uint16(raw[off])
		}
		return uint16(raw[off]) | uint16(raw[off+1])<<8
	}
	if img.Planar {
		off := 0
		for c := 0; c < img.Channels; c++ {
			for i := 0; i < n; i++ {
				img.Planes[c][i] = readSample(off)
				off += bytesPerSample
			}
		}
	} else {
		off := 0
		for i := 0; i < n; i++ {
			for c := 0; c < img.Channels; c++ {
				img.Planes[c][i] = readSample(off)
				off += bytesPerSample
			}
		}
	}
}

// encodeBitmap packs a single-channel, 1-bit-per-sample image, the form
// spec.md §4.7 calls out: frames only byte-align at their start when
// (imageSizeBits*frameIndex) mod 8 == 0, which for a single frame caller
// (this codec encodes/decodes one frame at a time) always holds since the
// frame itself starts the buffer. Multi-frame sub-byte shifting is the
// Dataset↔ImageCodec bridge's responsibility when assembling frames into
// a shared buffer.
func encodeBitmap(img *Image) []byte {
	n := img.Width * img.Height
	out := make([]byte, (n+7)/8)
	plane := img.Planes[0]
	for i := 0; i < n; i++ {
		if plane[i] != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func decodeBitmap(raw []byte, img *Image) {
	n := img.Width * img.Height
	plane := make([]uint16, n)
	for i := 0; i < n; i++ {
		byteOff := i / 8
		if byteOff >= len(raw) {
			break
		}
		if raw[byteOff]&(1<<uint(i%8)) != 0 {
			plane[i] = 1
		}
	}
	img.Channels = 1
	img.Planes = [][]uint16{plane}
}

// ShiftBitmapFrame extracts one frame's worth of bits from a multi-frame
// bitmap buffer starting at bitOffset, handling the case where bitOffset
// is not a multiple of 8 by shifting into a fresh scratch block (spec.md
// §4.7 / §4.9 step 4's "Native" frame-location rule).
func ShiftBitmapFrame(raw []byte, bitOffset, bitLength int64) []byte {
	out := make([]byte, (bitLength+7)/8)
	for i := int64(0); i < bitLength; i++ {
		srcBit := bitOffset + i
		byteOff := srcBit / 8
		if int(byteOff) >= len(raw) {
			break
		}
		if raw[byteOff]&(1<<uint(srcBit%8)) != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
