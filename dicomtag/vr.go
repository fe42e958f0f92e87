package dicomtag

// VRFamily classifies a VR into the handler family that mediates it. See
// dicomhandler for the implementations.
type VRFamily int

const (
	FamilyString VRFamily = iota
	FamilyUnicodeString
	FamilyNumeric
	FamilyDateTime
	FamilyUID
	FamilyAge
	FamilyPatientName
	FamilySequence
	FamilyBytes
)

// VRParams carries the construction parameters a handler needs: the
// component separator, the pad byte used to force even length on write, a
// fixed unit size (0 where none is recorded: the variable-length VRs and
// the binary numeric VRs), and the maximum byte
// length of a single value (0 if unbounded).
type VRParams struct {
	VR         string
	Family     VRFamily
	Separator  byte
	Padding    byte
	UnitSize   int
	MaxSize    int
	SingleOnly bool // true for LT/ST/UT/UR: never split on the separator
}

// vrCatalog lists every VR this module understands, grounded on the
// per-constructor parameters used throughout original_source's
// dataHandlerString*Impl.cpp / dataHandlerDateTimeBaseImpl.cpp files.
var vrCatalog = map[string]VRParams{
	"AE": {VR: "AE", Family: FamilyString, Separator: '\\', Padding: 0x20, MaxSize: 16},
	"AS": {VR: "AS", Family: FamilyAge, Separator: '\\', Padding: 0x20, UnitSize: 4, MaxSize: 4},
	"AT": {VR: "AT", Family: FamilyNumeric, Padding: 0x00},
	"CS": {VR: "CS", Family: FamilyString, Separator: '\\', Padding: 0x20, MaxSize: 16},
	"DA": {VR: "DA", Family: FamilyDateTime, Separator: '\\', Padding: 0x20, UnitSize: 8, MaxSize: 8},
	"DS": {VR: "DS", Family: FamilyString, Separator: '\\', Padding: 0x20, MaxSize: 16},
	"DT": {VR: "DT", Family: FamilyDateTime, Separator: '\\', Padding: 0x20, MaxSize: 26},
	"FD": {VR: "FD", Family: FamilyNumeric, Padding: 0x00},
	"FL": {VR: "FL", Family: FamilyNumeric, Padding: 0x00},
	"IS": {VR: "IS", Family: FamilyString, Separator: '\\', Padding: 0x20, MaxSize: 12},
	"LO": {VR: "LO", Family: FamilyUnicodeString, Separator: '\\', Padding: 0x20, MaxSize: 64},
	"LT": {VR: "LT", Family: FamilyUnicodeString, Padding: 0x20, MaxSize: 10240, SingleOnly: true},
	"OB": {VR: "OB", Family: FamilyBytes, Padding: 0x00},
	"OD": {VR: "OD", Family: FamilyNumeric, Padding: 0x00},
	"OF": {VR: "OF", Family: FamilyNumeric, Padding: 0x00},
	"OL": {VR: "OL", Family: FamilyNumeric, Padding: 0x00},
	"OW": {VR: "OW", Family: FamilyBytes, Padding: 0x00},
	"PN": {VR: "PN", Family: FamilyPatientName, Separator: '\\', Padding: 0x20, MaxSize: 64 * 3},
	"SH": {VR: "SH", Family: FamilyUnicodeString, Separator: '\\', Padding: 0x20, MaxSize: 16},
	"SL": {VR: "SL", Family: FamilyNumeric, Padding: 0x00},
	"SQ": {VR: "SQ", Family: FamilySequence},
	"SS": {VR: "SS", Family: FamilyNumeric, Padding: 0x00},
	"ST": {VR: "ST", Family: FamilyUnicodeString, Padding: 0x20, MaxSize: 1024, SingleOnly: true},
	"TM": {VR: "TM", Family: FamilyDateTime, Separator: '\\', Padding: 0x20, MaxSize: 16},
	"UC": {VR: "UC", Family: FamilyUnicodeString, Separator: '\\', Padding: 0x20},
	"UI": {VR: "UI", Family: FamilyUID, Separator: '\\', Padding: 0x00, MaxSize: 64},
	"UL": {VR: "UL", Family: FamilyNumeric, Padding: 0x00},
	"UN": {VR: "UN", Family: FamilyBytes, Padding: 0x00},
	"UR": {VR: "UR", Family: FamilyString, Padding: 0x20, SingleOnly: true},
	"US": {VR: "US", Family: FamilyNumeric, Padding: 0x00},
	"UT": {VR: "UT", Family: FamilyUnicodeString, Padding: 0x20, SingleOnly: true},
}

// VRInfo returns the construction parameters for vr, and whether vr is
// recognized.
func VRInfo(vr string) (VRParams, bool) {
	p, ok := vrCatalog[vr]
	return p, ok
}

// IsBinaryOnePerTag reports whether a VR stores its payload as a single
// opaque byte string rather than a value list (OB, OW, OD, OF, OL, UN).
func IsBinaryOnePerTag(vr string) bool {
	switch vr {
	case "OB", "OW", "OD", "OF", "OL", "UN":
		return true
	}
	return false
}
