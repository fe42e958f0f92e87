// Package dicomerr collects the sentinel errors shared across the tree
// model, codec, and image packages (spec.md §7's error taxonomy). Each
// producing package still defines any error specific to itself
// (dicomstream.ErrStreamEOF, dicombuffer.ErrBufferBusy); this package holds
// the ones multiple packages need to recognize with errors.Is, following
// the teacher's habit of plain sentinel `error` values rather than custom
// exception hierarchies.
package dicomerr

import "errors"

var (
	// ErrWrongFormat means the bytes at hand do not match the codec
	// being tried. CodecFactory autodetect is the only caller allowed
	// to swallow this and try the next registered codec.
	ErrWrongFormat = errors.New("dicom: wrong format")

	// ErrWrongTransferSyntax means the declared transfer syntax UID is
	// unrecognized or unsupported for the requested operation.
	ErrWrongTransferSyntax = errors.New("dicom: wrong transfer syntax")

	// ErrMissingTag means a requested tag is absent from its group.
	ErrMissingTag = errors.New("dicom: missing tag")

	// ErrMissingGroup means a requested group occurrence is absent.
	ErrMissingGroup = errors.New("dicom: missing group")

	// ErrCorruptedBuffer means a Buffer's bytes violate the invariants
	// of the VR interpreting them (e.g. more than 3 '='-groups in a PN).
	ErrCorruptedBuffer = errors.New("dicom: corrupted buffer")

	// ErrCorruptedFile means the file-level framing (preamble, DICM
	// magic, file-meta group) is malformed in a way the stream codec
	// cannot recover from.
	ErrCorruptedFile = errors.New("dicom: corrupted file")

	// ErrConversionError means a value could not be coerced to the
	// requested type (e.g. getDouble on a non-numeric string).
	ErrConversionError = errors.New("dicom: conversion error")

	// ErrInvalidValue means a value fails VR-specific validation on
	// write (e.g. a UI component containing a non-digit character).
	ErrInvalidValue = errors.New("dicom: invalid value")

	// ErrValueTooLong means a write exceeds the VR's maximum unit
	// length.
	ErrValueTooLong = errors.New("dicom: value too long")

	// ErrImageTooBig means an image's dimensions exceed the CodecFactory
	// configured limits.
	ErrImageTooBig = errors.New("dicom: image too big")

	// ErrDifferentFormat means a subsequent frame's attributes (color
	// space, subsampling, bit depth, sign, dimensions) do not match the
	// first frame already stored.
	ErrDifferentFormat = errors.New("dicom: different image format")

	// ErrWrongFrame means setImage was called with frame !=
	// currentFrameCount: frames may only be appended in order.
	ErrWrongFrame = errors.New("dicom: wrong frame index")

	// ErrJpegUnsupported means the JPEG profile (SOF marker) in a
	// stream is recognized but not one dicomjpeg implements (e.g.
	// progressive/hierarchical).
	ErrJpegUnsupported = errors.New("dicom: unsupported JPEG profile")

	// ErrIndexOutOfRange means a handler index (buffer occurrence,
	// value-list index) is out of bounds.
	ErrIndexOutOfRange = errors.New("dicom: index out of range")

	// ErrInvalidHandlerForSequence means getReadingHandler/
	// getWritingHandler was called with vr=SQ, which has no byte-level
	// handler: SQ items are child Datasets, not Buffer content.
	ErrInvalidHandlerForSequence = errors.New("dicom: SQ has no value handler")
)
