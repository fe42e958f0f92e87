package dicom_test

import (
	"testing"

	"github.com/odincare/dicomcore"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomhandler"
	"github.com/odincare/dicomcore/dicomtag"
	"github.com/stretchr/testify/require"
)

func TestDatasetSetGetRoundTrip(t *testing.T) {
	ds := dicom.NewDataset()

	require.NoError(t, ds.SetString(dicomtag.PatientID, "LO", "7DkT2Tp"))
	id, err := ds.GetString(dicomtag.PatientID)
	require.NoError(t, err)
	require.Equal(t, "7DkT2Tp", id)

	require.NoError(t, ds.SetDate(dicomtag.PatientBirthDate, dicomhandler.Date{Year: 1980, Month: 3, Day: 4}))
	bd, err := ds.GetDate(dicomtag.PatientBirthDate)
	require.NoError(t, err)
	require.Equal(t, dicomhandler.Date{Year: 1980, Month: 3, Day: 4}, bd)

	require.NoError(t, ds.SetUID(dicomtag.MediaStorageSOPInstanceUID, "1.2.840.10008.1.1"))
	uid, err := ds.GetUID(dicomtag.MediaStorageSOPInstanceUID)
	require.NoError(t, err)
	require.Equal(t, "1.2.840.10008.1.1", uid)
}

func TestDatasetMissingTag(t *testing.T) {
	ds := dicom.NewDataset()

	_, err := ds.GetString(dicomtag.PatientID)
	require.ErrorIs(t, err, dicomerr.ErrMissingGroup)

	require.Equal(t, "fallback", ds.GetStringDefault(dicomtag.PatientID, "fallback"))

	require.NoError(t, ds.SetString(dicomtag.PatientID, "LO", "known"))
	_, err = ds.GetString(dicomtag.PatientBirthDate)
	require.ErrorIs(t, err, dicomerr.ErrMissingTag)
}

func TestGetOrCreateTagDefaultsVR(t *testing.T) {
	ds := dicom.NewDataset()
	tag, err := ds.GetOrCreate(dicomtag.PatientName, "")
	require.NoError(t, err)
	require.Equal(t, "PN", tag.VR)
}

func TestDatasetSequenceRoundTrip(t *testing.T) {
	ds := dicom.NewDataset()
	sq := dicomtag.Tag{Group: 0x0028, Element: 0x3000} // ModalityLUTSequence

	require.Equal(t, 0, ds.SequenceLength(sq.Group, 0, sq.Element))

	item, err := ds.Append(sq)
	require.NoError(t, err)
	require.NoError(t, item.SetString(dicomtag.Tag{Group: 0x0028, Element: 0x3003}, "LO", "identity"))

	require.Equal(t, 1, ds.SequenceLength(sq.Group, 0, sq.Element))

	got, err := ds.GetSequenceItem(sq.Group, 0, sq.Element, 0)
	require.NoError(t, err)
	explanation, err := got.GetUnicodeString(dicomtag.Tag{Group: 0x0028, Element: 0x3003})
	require.NoError(t, err)
	require.Equal(t, "identity", explanation)

	_, err = ds.GetSequenceItem(sq.Group, 0, sq.Element, 1)
	require.ErrorIs(t, err, dicomerr.ErrIndexOutOfRange)
}

func TestStreamRoundTrip(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2.1") // Explicit VR Little Endian

	require.NoError(t, ds.SetUID(dicomtag.MediaStorageSOPClassUID, "1.2.840.10008.5.1.4.1.1.7"))
	require.NoError(t, ds.SetUID(dicomtag.MediaStorageSOPInstanceUID, "1.2.3.4.5.6.7.8.9"))
	require.NoError(t, ds.SetString(dicomtag.PatientID, "LO", "ROUNDTRIP01"))
	require.NoError(t, ds.SetDate(dicomtag.PatientBirthDate, dicomhandler.Date{Year: 1999, Month: 12, Day: 31}))

	raw, err := ds.Bytes()
	require.NoError(t, err)
	require.True(t, len(raw) > 132)
	require.Equal(t, "DICM", string(raw[128:132]))

	parsed, err := dicom.ParseBytes(raw)
	require.NoError(t, err)

	require.Equal(t, "1.2.840.10008.1.2.1", parsed.TransferSyntax())

	id, err := parsed.GetString(dicomtag.PatientID)
	require.NoError(t, err)
	require.Equal(t, "ROUNDTRIP01", id)

	bd, err := parsed.GetDate(dicomtag.PatientBirthDate)
	require.NoError(t, err)
	require.Equal(t, dicomhandler.Date{Year: 1999, Month: 12, Day: 31}, bd)

	sopClass, err := parsed.GetUID(dicomtag.MediaStorageSOPClassUID)
	require.NoError(t, err)
	require.Equal(t, "1.2.840.10008.5.1.4.1.1.7", sopClass)
}

func TestStreamRoundTripImplicitVR(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2") // Implicit VR Little Endian

	require.NoError(t, ds.SetUID(dicomtag.MediaStorageSOPClassUID, "1.2.840.10008.5.1.4.1.1.7"))
	require.NoError(t, ds.SetUID(dicomtag.MediaStorageSOPInstanceUID, "1.2.3.4.5.6.7.8.9"))
	require.NoError(t, ds.SetString(dicomtag.PatientID, "LO", "IMPLICIT01"))

	raw, err := ds.Bytes()
	require.NoError(t, err)

	parsed, err := dicom.ParseBytes(raw)
	require.NoError(t, err)
	require.Equal(t, "1.2.840.10008.1.2", parsed.TransferSyntax())

	id, err := parsed.GetString(dicomtag.PatientID)
	require.NoError(t, err)
	require.Equal(t, "IMPLICIT01", id)
}

func TestParseBytesWrongFormat(t *testing.T) {
	_, err := dicom.ParseBytes([]byte{0x01, 0x02, 0x03})
	require.ErrorIs(t, err, dicomerr.ErrWrongFormat)
}

func TestSaveRejectsExplicitVRBigEndian(t *testing.T) {
	ds := dicom.NewDataset()
	ds.SetTransferSyntax("1.2.840.10008.1.2.2")
	_, err := ds.Bytes()
	require.ErrorIs(t, err, dicomerr.ErrWrongTransferSyntax)
}
