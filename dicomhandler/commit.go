package dicomhandler

import "github.com/odincare/dicomcore/dicomtag"

// Commit serializes the accumulated values and publishes them to the
// source Buffer, ending the WritingHandler's accumulating state (spec.md
// §4.3's *accumulating* → *published* transition). A handler must not be
// reused after Commit.
func (w *WritingHandler) Commit() {
	if w.published {
		return
	}
	switch w.params.Family {
	case dicomtag.FamilyNumeric, dicomtag.FamilyBytes:
		w.commitNumericFamily()
	default:
		w.commitStringFamily()
	}
	w.published = true
	w.raw.Commit()
}

// Discard abandons the write without publishing, releasing the Buffer's
// writer-busy state. Used when a mid-flight validate() fails.
func (w *WritingHandler) Discard() {
	if w.published {
		return
	}
	w.published = true
	w.raw.Discard()
}
