package dicom

import (
	"github.com/odincare/dicomcore/dicombuffer"
	"github.com/odincare/dicomcore/dicomcodec"
	"github.com/odincare/dicomcore/dicommemory"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicomtag"
)

// isEncapsulated reports whether a transfer syntax carries PixelData as
// fragmented items (basic offset table + per-frame fragments) rather than
// one contiguous native buffer, per spec.md §4.9 step 4.
func isEncapsulated(transferSyntaxUID string) bool {
	for _, ts := range dicomio.CompressedTransferSyntaxes {
		if ts == transferSyntaxUID {
			return true
		}
	}
	return false
}

// materialize returns every buffer's bytes for t, in order.
func (t *Tag) materialize() ([][]byte, error) {
	t.mu.Lock()
	buffers := append([]*dicombuffer.Buffer(nil), t.Buffers...)
	t.mu.Unlock()

	out := make([][]byte, len(buffers))
	for i, b := range buffers {
		mem, err := b.Materialize()
		if err != nil {
			return nil, err
		}
		out[i] = mem.Bytes()
	}
	return out, nil
}

// frameParamsOf collects the FrameParams spec.md §4.9 step 3 names from
// the Dataset's (0028,xxxx) image attribute tags.
func (ds *Dataset) frameParamsOf() (dicomcodec.FrameParams, error) {
	rows, err := ds.GetInt(dicomtag.Rows)
	if err != nil {
		return dicomcodec.FrameParams{}, err
	}
	cols, err := ds.GetInt(dicomtag.Columns)
	if err != nil {
		return dicomcodec.FrameParams{}, err
	}
	channels := ds.GetIntDefault(dicomtag.SamplesPerPixel, 1)
	colorSpace := ds.GetStringDefault(dicomtag.PhotometricInterpretation, "MONOCHROME2")
	planar := ds.GetIntDefault(dicomtag.PlanarConfiguration, 0) != 0
	signed := ds.GetIntDefault(dicomtag.PixelRepresentation, 0) != 0
	allocated := ds.GetIntDefault(dicomtag.BitsAllocated, 16)
	stored := ds.GetIntDefault(dicomtag.BitsStored, allocated)
	highBit := ds.GetIntDefault(dicomtag.HighBit, stored-1)

	p := dicomcodec.FrameParams{
		Width:         int(cols),
		Height:        int(rows),
		Channels:      int(channels),
		ColorSpace:    colorSpace,
		Planar:        planar,
		Signed:        signed,
		BitsAllocated: int(allocated),
		BitsStored:    int(stored),
		HighBit:       int(highBit),
	}
	return p, p.Validate()
}

// attachPalette builds a dicomimage.Palette from the three direct
// (0028,11xx/12xx) Palette Color LUT tags, per spec.md §4.9 step 5. These
// tags are NOT sequence items (unlike Modality/VOI LUT), so this reads
// them straight off the Dataset rather than through GetLUT.
func (ds *Dataset) attachPalette(img *dicomimage.Image) {
	if img.ColorSpace != "PALETTE COLOR" {
		return
	}
	descriptor, err := ds.GetUint16s(dicomtag.RedPaletteLUTDescriptor)
	if err != nil || len(descriptor) < 3 {
		return
	}
	red, errR := ds.GetUint16s(dicomtag.RedPaletteLUTData)
	green, errG := ds.GetUint16s(dicomtag.GreenPaletteLUTData)
	blue, errB := ds.GetUint16s(dicomtag.BluePaletteLUTData)
	if errR != nil || errG != nil || errB != nil {
		return
	}
	img.Palette = &dicomimage.Palette{
		FirstMapped: int(int16(descriptor[1])),
		Red:         red,
		Green:       green,
		Blue:        blue,
	}
}

// GetImage implements the Dataset.Image bridge's read direction, spec.md
// §4.9's `getImage(frameNumber)`.
func (ds *Dataset) GetImage(frameNumber int) (*dicomimage.Image, error) {
	ts := ds.TransferSyntax()
	if ts == "" {
		ts = "1.2.840.10008.1.2"
	}

	factory := dicomcodec.Default()
	codec, ok := factory.ImageCodecFor(ts)
	if !ok {
		return nil, dicomerr.ErrWrongTransferSyntax
	}

	params, err := ds.frameParamsOf()
	if err != nil {
		return nil, err
	}
	if err := factory.CheckImageSize(params.Width, params.Height); err != nil {
		return nil, err
	}

	pixelTag, err := ds.Get(dicomtag.PixelData)
	if err != nil {
		return nil, err
	}
	fragments, err := pixelTag.materialize()
	if err != nil {
		return nil, err
	}

	frameCount := int(ds.GetIntDefault(dicomtag.NumberOfFrames, 1))
	imageSizeBits := params.Width * params.Height * params.Channels * params.BitsAllocated

	kind := dicomcodec.KindNative
	if isEncapsulated(ts) {
		kind = dicomcodec.KindEncapsulated
	}
	streamCodec, ok := factory.StreamCodec(kind)
	if !ok {
		return nil, dicomerr.ErrWrongFormat
	}
	frameBytes, err := streamCodec.FrameBytes(fragments, frameNumber, frameCount, imageSizeBits)
	if err != nil {
		return nil, err
	}

	img, err := codec.Decode(frameBytes, params)
	if err != nil {
		return nil, err
	}
	ds.attachPalette(img)
	return img, nil
}

// SetImage implements the Dataset.Image bridge's write direction, spec.md
// §4.9's `setImage(frameNumber, image, quality)`. Frame insertion is
// append-only: frameNumber must equal the Dataset's current frame count.
func (ds *Dataset) SetImage(frameNumber int, img *dicomimage.Image, quality int) error {
	if frameNumber != ds.frameCount {
		return dicomerr.ErrWrongFrame
	}

	ts := ds.TransferSyntax()
	if ts == "" {
		ts = "1.2.840.10008.1.2"
	}
	factory := dicomcodec.Default()
	codec, ok := factory.ImageCodecFor(ts)
	if !ok {
		return dicomerr.ErrWrongTransferSyntax
	}
	if err := factory.CheckImageSize(img.Width, img.Height); err != nil {
		return err
	}

	if frameNumber == 0 {
		vr := "OW"
		if img.BitsAllocated <= 8 {
			vr = "OB"
		}
		if isEncapsulated(ts) {
			vr = "OB"
		}
		if _, err := ds.GetOrCreate(dicomtag.PixelData, vr); err != nil {
			return err
		}
		if err := ds.SetUint16s(dicomtag.Rows, "US", []uint16{uint16(img.Height)}); err != nil {
			return err
		}
		if err := ds.SetUint16s(dicomtag.Columns, "US", []uint16{uint16(img.Width)}); err != nil {
			return err
		}
		if err := ds.SetUint16s(dicomtag.SamplesPerPixel, "US", []uint16{uint16(img.Channels)}); err != nil {
			return err
		}
		if err := ds.SetString(dicomtag.PhotometricInterpretation, "CS", img.ColorSpace); err != nil {
			return err
		}
		planar := uint16(0)
		if img.Planar {
			planar = 1
		}
		if err := ds.SetUint16s(dicomtag.PlanarConfiguration, "US", []uint16{planar}); err != nil {
			return err
		}
		signed := uint16(0)
		if img.Signed {
			signed = 1
		}
		if err := ds.SetUint16s(dicomtag.PixelRepresentation, "US", []uint16{signed}); err != nil {
			return err
		}
		if err := ds.SetUint16s(dicomtag.BitsAllocated, "US", []uint16{uint16(img.BitsAllocated)}); err != nil {
			return err
		}
		if err := ds.SetUint16s(dicomtag.BitsStored, "US", []uint16{uint16(img.BitsStored)}); err != nil {
			return err
		}
		if err := ds.SetUint16s(dicomtag.HighBit, "US", []uint16{uint16(img.HighBit)}); err != nil {
			return err
		}
	} else {
		params, err := ds.frameParamsOf()
		if err != nil {
			return err
		}
		if params.Width != img.Width || params.Height != img.Height || params.Channels != img.Channels ||
			params.ColorSpace != img.ColorSpace || params.Planar != img.Planar || params.Signed != img.Signed ||
			params.BitsAllocated != img.BitsAllocated || params.BitsStored != img.BitsStored || params.HighBit != img.HighBit {
			return dicomerr.ErrDifferentFormat
		}
	}

	raw, err := codec.Encode(img, ts, quality)
	if err != nil {
		return err
	}

	pixelTag, err := ds.Get(dicomtag.PixelData)
	if err != nil {
		return err
	}
	fragments, err := pixelTag.materialize()
	if err != nil {
		return err
	}

	kind := dicomcodec.KindNative
	if isEncapsulated(ts) {
		kind = dicomcodec.KindEncapsulated
	}
	streamCodec, ok := factory.StreamCodec(kind)
	if !ok {
		return dicomerr.ErrWrongFormat
	}
	newFragments, err := streamCodec.AppendFrame(fragments, raw)
	if err != nil {
		return err
	}

	pixelTag.mu.Lock()
	pixelTag.Buffers = pixelTag.Buffers[:0]
	for _, f := range newFragments {
		pixelTag.Buffers = append(pixelTag.Buffers, dicombuffer.NewResident(dicommemory.New(f)))
	}
	pixelTag.mu.Unlock()

	ds.frameCount = frameNumber + 1
	if err := ds.SetInt(dicomtag.NumberOfFrames, int64(ds.frameCount)); err != nil {
		return err
	}
	return nil
}
