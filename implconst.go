package dicom

// Implementation identifiers stamped into the file-meta header by
// writeMetaGroup when the Dataset doesn't already carry one.
const (
	GoDICOMImplementationClassUID    = "1.2.826.0.1.3680043.9.7433.1.1"
	GoDICOMImplementationVersionName = "DICOMCORE_1_0"
)
