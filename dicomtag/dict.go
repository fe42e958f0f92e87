package dicomtag

import "sync"

// Well-known tags used throughout the codec pipeline. This is a representative subset of
// PS3.6 — enough to drive the file-meta header, the image attributes the
// Dataset.Image bridge needs, and the common identification tags exercised
// by tests — not an exhaustive transcription of the standard's tag table.
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}

	SpecificCharacterSet = Tag{0x0008, 0x0005}
	StudyDate            = Tag{0x0008, 0x0020}
	Modality             = Tag{0x0008, 0x0060}
	InstitutionName      = Tag{0x0008, 0x0080}

	PatientName      = Tag{0x0010, 0x0010}
	PatientID        = Tag{0x0010, 0x0020}
	PatientBirthDate = Tag{0x0010, 0x0030}
	PatientSex       = Tag{0x0010, 0x0040}
	PatientAge       = Tag{0x0010, 0x1010}

	StudyInstanceUID  = Tag{0x0020, 0x000D}
	SeriesInstanceUID = Tag{0x0020, 0x000E}
	InstanceNumber    = Tag{0x0020, 0x0013}

	SamplesPerPixel           = Tag{0x0028, 0x0002}
	PhotometricInterpretation = Tag{0x0028, 0x0004}
	PlanarConfiguration       = Tag{0x0028, 0x0006}
	NumberOfFrames            = Tag{0x0028, 0x0008}
	Rows                      = Tag{0x0028, 0x0010}
	Columns                   = Tag{0x0028, 0x0011}
	PixelAspectRatio          = Tag{0x0028, 0x0034}
	BitsAllocated             = Tag{0x0028, 0x0100}
	BitsStored                = Tag{0x0028, 0x0101}
	HighBit                   = Tag{0x0028, 0x0102}
	PixelRepresentation       = Tag{0x0028, 0x0103}
	SmallestImagePixelValue   = Tag{0x0028, 0x0106}
	LargestImagePixelValue    = Tag{0x0028, 0x0107}
	RedPaletteLUTDescriptor   = Tag{0x0028, 0x1101}
	GreenPaletteLUTDescriptor = Tag{0x0028, 0x1102}
	BluePaletteLUTDescriptor  = Tag{0x0028, 0x1103}
	RedPaletteLUTData         = Tag{0x0028, 0x1201}
	GreenPaletteLUTData       = Tag{0x0028, 0x1202}
	BluePaletteLUTData        = Tag{0x0028, 0x1203}

	QueryRetrieveLevel = Tag{0x0008, 0x0052}

	Item                     = Tag{ItemSeqGroup, 0xE000}
	ItemDelimitationItem     = Tag{ItemSeqGroup, 0xE00D}
	SequenceDelimitationItem = Tag{ItemSeqGroup, 0xE0DD}

	PixelData = Tag{0x7FE0, 0x0010}
)

var tagDict map[Tag]TagInfo
var tagDictOnce sync.Once

// builtinTags is the static dictionary backing Find. Entries cover the
// tags named above plus a few more that tests and the image bridge rely
// on.
var builtinTags = []TagInfo{
	{FileMetaInformationGroupLength, "UL", "FileMetaInformationGroupLength", "1"},
	{FileMetaInformationVersion, "OB", "FileMetaInformationVersion", "1"},
	{MediaStorageSOPClassUID, "UI", "MediaStorageSOPClassUID", "1"},
	{MediaStorageSOPInstanceUID, "UI", "MediaStorageSOPInstanceUID", "1"},
	{TransferSyntaxUID, "UI", "TransferSyntaxUID", "1"},
	{ImplementationClassUID, "UI", "ImplementationClassUID", "1"},
	{ImplementationVersionName, "SH", "ImplementationVersionName", "1"},

	{SpecificCharacterSet, "CS", "SpecificCharacterSet", "1-n"},
	{StudyDate, "DA", "StudyDate", "1"},
	{Modality, "CS", "Modality", "1"},
	{InstitutionName, "LO", "InstitutionName", "1"},

	{PatientName, "PN", "PatientName", "1"},
	{PatientID, "LO", "PatientID", "1"},
	{PatientBirthDate, "DA", "PatientBirthDate", "1"},
	{PatientSex, "CS", "PatientSex", "1"},
	{PatientAge, "AS", "PatientAge", "1"},

	{StudyInstanceUID, "UI", "StudyInstanceUID", "1"},
	{SeriesInstanceUID, "UI", "SeriesInstanceUID", "1"},
	{InstanceNumber, "IS", "InstanceNumber", "1"},

	{SamplesPerPixel, "US", "SamplesPerPixel", "1"},
	{PhotometricInterpretation, "CS", "PhotometricInterpretation", "1"},
	{PlanarConfiguration, "US", "PlanarConfiguration", "1"},
	{NumberOfFrames, "IS", "NumberOfFrames", "1"},
	{Rows, "US", "Rows", "1"},
	{Columns, "US", "Columns", "1"},
	{PixelAspectRatio, "IS", "PixelAspectRatio", "2"},
	{BitsAllocated, "US", "BitsAllocated", "1"},
	{BitsStored, "US", "BitsStored", "1"},
	{HighBit, "US", "HighBit", "1"},
	{PixelRepresentation, "US", "PixelRepresentation", "1"},
	{SmallestImagePixelValue, "US", "SmallestImagePixelValue", "1"},
	{LargestImagePixelValue, "US", "LargestImagePixelValue", "1"},
	{RedPaletteLUTDescriptor, "US", "RedPaletteColorLookupTableDescriptor", "3"},
	{GreenPaletteLUTDescriptor, "US", "GreenPaletteColorLookupTableDescriptor", "3"},
	{BluePaletteLUTDescriptor, "US", "BluePaletteColorLookupTableDescriptor", "3"},
	{RedPaletteLUTData, "OW", "RedPaletteColorLookupTableData", "1"},
	{GreenPaletteLUTData, "OW", "GreenPaletteColorLookupTableData", "1"},
	{BluePaletteLUTData, "OW", "BluePaletteColorLookupTableData", "1"},

	{QueryRetrieveLevel, "CS", "QueryRetrieveLevel", "1"},

	{Item, "NA", "Item", "1"},
	{ItemDelimitationItem, "NA", "ItemDelimitationItem", "0"},
	{SequenceDelimitationItem, "NA", "SequenceDelimitationItem", "0"},

	{PixelData, "OW", "PixelData", "1"},
}

func maybeInitTagDict() {
	tagDictOnce.Do(func() {
		tagDict = make(map[Tag]TagInfo, len(builtinTags))
		for _, t := range builtinTags {
			tagDict[t.Tag] = t
		}
	})
}

// RegisterTag adds (or overrides) a dictionary entry. Intended for private
// or implementation-defined tags; callers should prefer the standard
// dictionary where a tag is already known.
func RegisterTag(info TagInfo) {
	maybeInitTagDict()
	tagDict[info.Tag] = info
}
