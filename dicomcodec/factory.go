// Package dicomcodec implements the CodecFactory spec.md §4.8 describes:
// a registry of pixel-data stream codecs (how a frame's raw bytes are
// gathered from the Dataset's PixelData fragments) and image codecs (how
// those bytes decode to/encode from a dicomimage.Image), plus the
// process-wide max-image-size limits. It deliberately has no dependency
// on the root `dicom` package's Dataset type — the Dataset↔ImageCodec
// bridge (spec.md §4.9) lives in the root package and calls into a
// Factory instance, rather than Factory depending on Dataset, avoiding
// an import cycle between the two.
package dicomcodec

import (
	"sync"

	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomimage"
)

// StreamKind names a pixel-data framing convention, matching spec.md
// §4.8's "streamCodecs: map<codecKind, StreamCodec> (kinds: dicom,
// jpeg)".
type StreamKind string

const (
	KindNative       StreamKind = "dicom"
	KindEncapsulated StreamKind = "jpeg"
)

// FrameParams carries the per-frame attributes spec.md §4.9 step 3 says
// to collect from the Dataset before decoding.
type FrameParams struct {
	Width, Height int
	Channels      int
	ColorSpace    string
	Planar        bool
	Signed        bool
	BitsAllocated int
	BitsStored    int
	HighBit       int
}

// Validate checks the two invariants spec.md §4.9 step 3 names.
func (p FrameParams) Validate() error {
	if p.HighBit < p.BitsStored-1 {
		return dicomerr.ErrInvalidValue
	}
	if dicomimage.RequiredChannels(p.ColorSpace) != p.Channels {
		return dicomerr.ErrInvalidValue
	}
	return nil
}

// StreamCodec gathers/assembles a frame's raw encoded bytes from the
// Dataset's PixelData fragment list (spec.md §4.9 step 4), and is the
// inverse for encoding (spec.md §4.9 setImage step 4).
type StreamCodec interface {
	Kind() StreamKind

	// FrameBytes returns the raw bytes for frameNumber out of fragments
	// (fragments[0] is the basic offset table item, which may be empty;
	// fragments[1:] are the entropy-coded/native fragments), per
	// spec.md's encapsulated/native lookup rules.
	FrameBytes(fragments [][]byte, frameNumber, frameCount, imageSizeBits int) ([]byte, error)

	// AppendFrame appends encoded as a new frame's fragment(s), returning
	// the updated fragment list (including a rewritten BOT item at index
	// 0 for the encapsulated codec; the native codec ignores the BOT and
	// returns fragments unchanged in shape).
	AppendFrame(fragments [][]byte, encoded []byte) ([][]byte, error)
}

// ImageCodec decodes/encodes one frame's pixel samples, keyed by
// transfer syntax support rather than a fixed map (spec.md §4.8:
// "imageCodecs: list<ImageCodec> queried in registration order").
type ImageCodec interface {
	Supports(transferSyntaxUID string) bool
	Decode(raw []byte, p FrameParams) (*dicomimage.Image, error)
	Encode(img *dicomimage.Image, transferSyntaxUID string, quality int) ([]byte, error)
}

// Factory is the explicitly constructed registry spec.md §9 requires:
// callers build one via NewFactory or take the shared pre-registered
// instance from Default(), which is built on first use rather than at
// package initialization.
type Factory struct {
	mu           sync.RWMutex
	streamCodecs map[StreamKind]StreamCodec
	imageCodecs  []ImageCodec

	maxImageWidth  int
	maxImageHeight int
}

// NewFactory returns an empty registry with no size limit.
func NewFactory() *Factory {
	return &Factory{streamCodecs: map[StreamKind]StreamCodec{}}
}

func (f *Factory) RegisterStreamCodec(c StreamCodec) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamCodecs[c.Kind()] = c
}

func (f *Factory) RegisterImageCodec(c ImageCodec) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageCodecs = append(f.imageCodecs, c)
}

func (f *Factory) StreamCodec(kind StreamKind) (StreamCodec, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.streamCodecs[kind]
	return c, ok
}

// ImageCodecFor returns the first registered ImageCodec that supports
// transferSyntaxUID, in registration order.
func (f *Factory) ImageCodecFor(transferSyntaxUID string) (ImageCodec, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, c := range f.imageCodecs {
		if c.Supports(transferSyntaxUID) {
			return c, true
		}
	}
	return nil, false
}

// SetMaxImageSize installs the process-wide image dimension limit
// (spec.md §4.8/§6: "no environment variable; callers set it
// explicitly").
func (f *Factory) SetMaxImageSize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxImageWidth, f.maxImageHeight = width, height
}

// CheckImageSize fails with ImageTooBig when either dimension exceeds
// the configured limit (0 means unlimited).
func (f *Factory) CheckImageSize(width, height int) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.maxImageWidth > 0 && width > f.maxImageWidth {
		return dicomerr.ErrImageTooBig
	}
	if f.maxImageHeight > 0 && height > f.maxImageHeight {
		return dicomerr.ErrImageTooBig
	}
	return nil
}

var (
	defaultOnce    sync.Once
	defaultFactory *Factory
)

// Default returns the shared Factory pre-registered with the native and
// encapsulated stream codecs and the native/RLE/JPEG image codecs —
// spec.md §4.8's "conventional default instance" for callers that don't
// need a custom registry. It is built on first use and every call returns
// the same instance, so a limit set on it with SetMaxImageSize applies to
// Dataset.GetImage/SetImage.
func Default() *Factory {
	defaultOnce.Do(func() {
		f := NewFactory()
		f.RegisterStreamCodec(nativeStreamCodec{})
		f.RegisterStreamCodec(encapsulatedStreamCodec{})
		f.RegisterImageCodec(nativeImageCodec{})
		f.RegisterImageCodec(rleImageCodec{})
		f.RegisterImageCodec(jpegImageCodec{})
		defaultFactory = f
	})
	return defaultFactory
}
