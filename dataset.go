package dicom

import (
	"sync"

	"github.com/odincare/dicomcore/dicombuffer"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomio"
	"github.com/odincare/dicomcore/dicomtag"
)

// Tag is one node of a Dataset's tag tree, per spec.md §3: most tags own
// exactly one Buffer (index 0); encapsulated PixelData owns one buffer
// per fragment (buffer 0 is the basic offset table); an SQ tag owns no
// buffers and instead owns an ordered list of sequence-item Datasets.
//
// Tag has its own mutex (rather than sharing the owning Dataset's) so
// that appending a PixelData fragment or a sequence item doesn't need to
// hold the Dataset lock for the duration — spec.md §5 only requires
// Dataset-before-Buffer ordering, not a single lock across the whole
// tree.
type Tag struct {
	mu      sync.Mutex
	VR      string
	Buffers []*dicombuffer.Buffer
	Items   []*Dataset
}

// groupOccurrence is one `order` slot of a repeated group, per spec.md
// §3's `map<group_id -> vector<group_occurrence>>` Dataset shape.
type groupOccurrence struct {
	order    int
	elements map[uint16]*Tag
}

// Dataset is the indexed tag tree spec.md §3/§4.4 describes. Go has no
// built-in recursive mutex, so instead of one lock guarding arbitrarily
// deep recursion, every Dataset gets its own non-reentrant mutex and
// every public method releases it before descending into a child
// Dataset or a Tag's own lock — preserving the required "Dataset before
// any Buffer it owns, parent Dataset before child sequence-item Dataset"
// ordering (spec.md §5) without ever holding two locks nested.
type Dataset struct {
	mu     sync.Mutex
	groups map[uint16][]*groupOccurrence

	transferSyntax string
	charsets       dicomio.CodingSystem
	charsetNames   []string
	itemOffset     int64

	frameCount int
}

// NewDataset builds an empty Dataset with the implicit-VR little-endian
// default transfer syntax (spec.md §4.9's "default when absent").
func NewDataset() *Dataset {
	return &Dataset{
		groups:         make(map[uint16][]*groupOccurrence),
		transferSyntax: "1.2.840.10008.1.2",
	}
}

// TransferSyntax returns the Dataset's transfer syntax UID.
func (ds *Dataset) TransferSyntax() string {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.transferSyntax
}

// SetTransferSyntax overrides the Dataset's transfer syntax UID, used by
// the stream codec once it has parsed `(0002,0010)`.
func (ds *Dataset) SetTransferSyntax(uid string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.transferSyntax = uid
}

// Charsets returns the Dataset's resolved charset decoders, shared by
// every string/PN/date tag in the tree per spec.md §3's invariant.
func (ds *Dataset) Charsets() dicomio.CodingSystem {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.charsets
}

// SetCharsets records the Dataset's specific character set, both the
// resolved decoders and the raw defined-term names read from
// `(0008,0005)`.
func (ds *Dataset) SetCharsets(cs dicomio.CodingSystem, names []string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.charsets = cs
	ds.charsetNames = names
}

// ItemOffset returns the byte position at which this Dataset was located
// within its enclosing stream (spec.md §3, used by DICOMDIR references).
func (ds *Dataset) ItemOffset() int64 { return ds.itemOffset }

// SetItemOffset records the Dataset's stream position.
func (ds *Dataset) SetItemOffset(pos int64) { ds.itemOffset = pos }

// findOccurrenceLocked returns the group_occurrence at the given order, or nil.
// Caller must hold ds.mu.
func (ds *Dataset) findOccurrenceLocked(group uint16, order int) *groupOccurrence {
	for _, occ := range ds.groups[group] {
		if occ.order == order {
			return occ
		}
	}
	return nil
}

// GetTag looks up a tag at (group, order, element). Fails with
// dicomerr.ErrMissingGroup if the group has no occurrence at order, or
// dicomerr.ErrMissingTag if the element is absent within it.
func (ds *Dataset) GetTag(group uint16, order int, element uint16) (*Tag, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	occ := ds.findOccurrenceLocked(group, order)
	if occ == nil {
		return nil, dicomerr.ErrMissingGroup
	}
	t, ok := occ.elements[element]
	if !ok {
		return nil, dicomerr.ErrMissingTag
	}
	return t, nil
}

// Get is the common-case shorthand for GetTag(tag.Group, 0, tag.Element).
func (ds *Dataset) Get(tag dicomtag.Tag) (*Tag, error) {
	return ds.GetTag(tag.Group, 0, tag.Element)
}

// GetOrCreateTag returns the tag at (group, order, element), creating an
// empty one if absent. vr, when empty, defaults to the static
// dictionary's canonical VR for (group, element), per spec.md §4.4.
func (ds *Dataset) GetOrCreateTag(group uint16, order int, element uint16, vr string) (*Tag, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	occ := ds.findOccurrenceLocked(group, order)
	if occ == nil {
		occ = &groupOccurrence{order: order, elements: make(map[uint16]*Tag)}
		ds.groups[group] = append(ds.groups[group], occ)
	}
	if t, ok := occ.elements[element]; ok {
		return t, nil
	}
	if vr == "" {
		if info, err := dicomtag.Find(dicomtag.Tag{Group: group, Element: element}); err == nil {
			vr = info.VR
		} else {
			vr = "UN"
		}
	}
	t := &Tag{VR: vr}
	occ.elements[element] = t
	return t, nil
}

// GetOrCreate is the common-case shorthand for
// GetOrCreateTag(tag.Group, 0, tag.Element, vr).
func (ds *Dataset) GetOrCreate(tag dicomtag.Tag, vr string) (*Tag, error) {
	return ds.GetOrCreateTag(tag.Group, 0, tag.Element, vr)
}

// DeleteTag removes a tag at (group, order, element), if present.
func (ds *Dataset) DeleteTag(group uint16, order int, element uint16) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	occ := ds.findOccurrenceLocked(group, order)
	if occ == nil {
		return
	}
	delete(occ.elements, element)
}

// ForEach calls fn for every tag in the Dataset (all group occurrences),
// in unspecified order. fn returning false stops iteration early.
func (ds *Dataset) ForEach(fn func(group uint16, order int, element uint16, t *Tag) bool) {
	ds.mu.Lock()
	snapshot := make([]struct {
		group, element uint16
		order          int
		t              *Tag
	}, 0)
	for group, occs := range ds.groups {
		for _, occ := range occs {
			for element, t := range occ.elements {
				snapshot = append(snapshot, struct {
					group, element uint16
					order          int
					t              *Tag
				}{group, element, occ.order, t})
			}
		}
	}
	ds.mu.Unlock()

	for _, e := range snapshot {
		if !fn(e.group, e.order, e.element, e.t) {
			return
		}
	}
}
