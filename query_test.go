package dicom_test

import (
	"testing"

	"github.com/odincare/dicomcore"
	"github.com/odincare/dicomcore/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestMatchIdentifierWildcard(t *testing.T) {
	ds := dicom.NewDataset()
	require.NoError(t, ds.SetString(dicomtag.PatientName, "PN", "DOE^JOHN"))

	filter := dicom.NewDataset()
	require.NoError(t, filter.SetString(dicomtag.PatientName, "PN", "DOE*"))

	match, err := dicom.MatchIdentifier(ds, filter)
	require.NoError(t, err)
	require.True(t, match)
}

func TestMatchIdentifierUniversalMatch(t *testing.T) {
	ds := dicom.NewDataset()
	require.NoError(t, ds.SetString(dicomtag.PatientID, "LO", "anything"))

	filter := dicom.NewDataset()
	require.NoError(t, filter.SetString(dicomtag.PatientID, "LO", ""))

	match, err := dicom.MatchIdentifier(ds, filter)
	require.NoError(t, err)
	require.True(t, match)
}

func TestMatchIdentifierMissingKeyFails(t *testing.T) {
	ds := dicom.NewDataset()

	filter := dicom.NewDataset()
	require.NoError(t, filter.SetString(dicomtag.PatientID, "LO", "REQUIRED"))

	match, err := dicom.MatchIdentifier(ds, filter)
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchIdentifierUIDExactNoWildcard(t *testing.T) {
	ds := dicom.NewDataset()
	require.NoError(t, ds.SetUID(dicomtag.StudyInstanceUID, "1.2.840.10008.5.1.4.1.1.7"))

	filter := dicom.NewDataset()
	// SetUID rejects '*', so the wildcard-looking key is stored as a raw UI string.
	require.NoError(t, filter.SetString(dicomtag.StudyInstanceUID, "UI", "1.2*"))

	match, err := dicom.MatchIdentifier(ds, filter)
	require.NoError(t, err)
	require.False(t, match, "UID keys must match exactly, not as a glob")
}

func TestMatchIdentifierSkipsQueryRetrieveLevel(t *testing.T) {
	ds := dicom.NewDataset()
	require.NoError(t, ds.SetString(dicomtag.PatientID, "LO", "P1"))

	filter := dicom.NewDataset()
	require.NoError(t, filter.SetString(dicomtag.QueryRetrieveLevel, "CS", "PATIENT"))
	require.NoError(t, filter.SetString(dicomtag.PatientID, "LO", "P1"))

	match, err := dicom.MatchIdentifier(ds, filter)
	require.NoError(t, err)
	require.True(t, match)
}

func TestMatchIdentifierMultipleKeysAllMustMatch(t *testing.T) {
	ds := dicom.NewDataset()
	require.NoError(t, ds.SetString(dicomtag.PatientID, "LO", "P1"))
	require.NoError(t, ds.SetString(dicomtag.PatientName, "PN", "DOE^JOHN"))

	filter := dicom.NewDataset()
	require.NoError(t, filter.SetString(dicomtag.PatientID, "LO", "P1"))
	require.NoError(t, filter.SetString(dicomtag.PatientName, "PN", "SMITH*"))

	match, err := dicom.MatchIdentifier(ds, filter)
	require.NoError(t, err)
	require.False(t, match)
}
