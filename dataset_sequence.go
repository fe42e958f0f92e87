package dicom

import (
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicomtag"
)

// AppendSequenceItem returns a freshly constructed child Dataset appended
// to the end of the SQ tag's item list, creating the tag (as VR "SQ") if
// absent, per spec.md §4.4. The child inherits the parent's transfer
// syntax and charset so string/date handlers resolve consistently
// without re-walking up the tree on every read.
func (ds *Dataset) AppendSequenceItem(group uint16, order int, element uint16) (*Dataset, error) {
	t, err := ds.GetOrCreateTag(group, order, element, "SQ")
	if err != nil {
		return nil, err
	}
	if t.VR != "SQ" {
		return nil, dicomerr.ErrInvalidHandlerForSequence
	}

	ds.mu.Lock()
	ts := ds.transferSyntax
	cs := ds.charsets
	names := ds.charsetNames
	ds.mu.Unlock()

	child := NewDataset()
	child.transferSyntax = ts
	child.charsets = cs
	child.charsetNames = names

	t.mu.Lock()
	t.Items = append(t.Items, child)
	t.mu.Unlock()
	return child, nil
}

// Append is the common-case shorthand for
// AppendSequenceItem(tag.Group, 0, tag.Element).
func (ds *Dataset) Append(tag dicomtag.Tag) (*Dataset, error) {
	return ds.AppendSequenceItem(tag.Group, 0, tag.Element)
}

// GetSequenceItem returns the index'th item of the SQ tag at
// (group, order, element). Fails with dicomerr.ErrIndexOutOfRange if
// index is out of bounds.
func (ds *Dataset) GetSequenceItem(group uint16, order int, element uint16, index int) (*Dataset, error) {
	t, err := ds.GetTag(group, order, element)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.Items) {
		return nil, dicomerr.ErrIndexOutOfRange
	}
	return t.Items[index], nil
}

// SequenceLength returns the number of items in the SQ tag at
// (group, order, element), or 0 if the tag is absent.
func (ds *Dataset) SequenceLength(group uint16, order int, element uint16) int {
	t, err := ds.GetTag(group, order, element)
	if err != nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Items)
}

// LUT is the object spec.md §4.4's getLUT builds from the three
// conventional sub-tags of a Modality/VOI LUT sequence item: Descriptor
// (0028,3002) — {numEntries, firstValueMapped, bitsPerEntry} — Explanation
// (0028,3003), and Data (0028,3006).
type LUT struct {
	NumEntries   int
	FirstMapped  int
	BitsPerEntry int
	Explanation  string
	Data         []uint16
}

var (
	lutDescriptorElement = dicomtag.Tag{Group: 0x0028, Element: 0x3002}
	lutExplanationElement = dicomtag.Tag{Group: 0x0028, Element: 0x3003}
	lutDataElement        = dicomtag.Tag{Group: 0x0028, Element: 0x3006}
)

// GetLUT builds a LUT from the lutIndex'th item of the SQ tag at
// (group, 0, element) — e.g. ModalityLUTSequence (0028,3000) or
// VOILUTSequence (0028,3010).
func (ds *Dataset) GetLUT(group, element uint16, lutIndex int) (LUT, error) {
	item, err := ds.GetSequenceItem(group, 0, element, lutIndex)
	if err != nil {
		return LUT{}, err
	}

	desc, err := item.GetUint16s(lutDescriptorElement)
	if err != nil {
		return LUT{}, err
	}
	if len(desc) < 3 {
		return LUT{}, dicomerr.ErrCorruptedBuffer
	}
	numEntries := int(desc[0])
	if numEntries == 0 {
		numEntries = 1 << 16
	}

	lut := LUT{
		NumEntries:   numEntries,
		FirstMapped:  int(int16(desc[1])),
		BitsPerEntry: int(desc[2]),
	}
	lut.Explanation, _ = item.GetUnicodeString(lutExplanationElement)
	data, err := item.GetUint16s(lutDataElement)
	if err != nil {
		return LUT{}, err
	}
	lut.Data = data
	return lut, nil
}

// charsetsOf returns ds's charset; nothing in the package calls it
// currently.
func charsetsOf(ds *Dataset) dicomio.CodingSystem { return ds.Charsets() }
