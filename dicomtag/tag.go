package dicomtag

import (
	"fmt"
)

// Tag is the <group, element> pair identifying a DICOM element. Standard
// tags are listed in dict.go; see also PS3.6.
type Tag struct {
	Group   uint16
	Element uint16
}

func IsPrivate(group uint16) bool {
	return group%2 == 1
}

// String renders a tag as "(0008, 1234)".
func (t Tag) String() string {
	return fmt.Sprintf("(%04x, %04x)", t.Group, t.Element)
}

// TagInfo holds a tag's dictionary entry.
type TagInfo struct {
	Tag Tag
	// VR is the tag's defined value representation, e.g. "UL", "CS".
	VR string
	// Name is the tag's human-readable keyword, e.g. "CommandDataSetType".
	Name string
	// VM is the tag's value multiplicity, e.g. "1", "1-n".
	VM string
}

// MetadataGroup is the Tag.Group value file-meta elements use.
const MetadataGroup = 2

// ItemSeqGroup is the reserved group used by Item, ItemDelimitationItem and
// SequenceDelimitationItem tags. Elements in this group are always encoded
// as if the transfer syntax were Implicit VR, even under an explicit-VR
// transfer syntax.
const ItemSeqGroup uint16 = 0xFFFE

// Find looks up tag's dictionary entry. Returns an error if tag isn't
// part of the DICOM standard (or no longer is).
func Find(tag Tag) (TagInfo, error) {
	maybeInitTagDict()
	entry, ok := tagDict[tag]
	if !ok {
		// (0000-u-ffff,0000)	UL	GenericGroupLength	1	GENERIC
		if tag.Group%2 == 0 && tag.Element == 0x0000 {
			entry = TagInfo{tag, "UL", "GenericGroupLength", "1"}
		} else {
			return TagInfo{}, fmt.Errorf("Could not find tag (0x%x, 0x%x) in dictionary", tag.Group, tag.Element)
		}
	}
	return entry, nil
}

// DebugString returns a human-readable diagnostic string for tag, e.g.
// "(0008,0018)[SOPInstanceUID]".
func DebugString(tag Tag) string {
	e, err := Find(tag)
	if err != nil {
		if IsPrivate(tag.Group) {
			return fmt.Sprintf("(%04x,%04x)[private]", tag.Group, tag.Element)
		}
		return fmt.Sprintf("(%04x,%04x)[??]", tag.Group, tag.Element)
	}
	return fmt.Sprintf("(%04x,%04x)[%s]", tag.Group, tag.Element, e.Name)
}
