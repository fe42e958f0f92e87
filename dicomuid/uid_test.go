package dicomuid_test

import (
	"testing"

	"github.com/odincare/dicomcore/dicomuid"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownTransferSyntax(t *testing.T) {
	e, err := dicomuid.Lookup(dicomuid.ExplicitVRLittleEndian)
	require.NoError(t, err)
	require.Equal(t, dicomuid.TypeTransferSyntax, e.Type)
	require.Equal(t, "Explicit VR Little Endian", e.Name)
}

func TestLookupUnknownUID(t *testing.T) {
	_, err := dicomuid.Lookup("1.2.3.4.5.6.not.a.real.uid")
	require.Error(t, err)
}

func TestIsTransferSyntax(t *testing.T) {
	require.True(t, dicomuid.IsTransferSyntax(dicomuid.ImplicitVRLittleEndian))
	require.True(t, dicomuid.IsTransferSyntax(dicomuid.JPEGBaseline))
	require.False(t, dicomuid.IsTransferSyntax(dicomuid.SecondaryCaptureSOPUID))
	require.False(t, dicomuid.IsTransferSyntax("not.a.uid"))
}
