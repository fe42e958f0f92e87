package dicomhandler_test

import (
	"testing"

	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomhandler"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUIDStripsRedundantLeadingZeros(t *testing.T) {
	got, err := dicomhandler.NormalizeUID("1.02.003.0004")
	require.NoError(t, err)
	require.Equal(t, "1.2.3.4", got)
}

func TestNormalizeUIDEmptyComponentBecomesZero(t *testing.T) {
	got, err := dicomhandler.NormalizeUID("1.2..3")
	require.NoError(t, err)
	require.Equal(t, "1.2.0.3", got)
}

func TestNormalizeUIDTrailingDot(t *testing.T) {
	got, err := dicomhandler.NormalizeUID("1.2.")
	require.NoError(t, err)
	require.Equal(t, "1.2.0", got)
}

func TestNormalizeUIDRejectsNonDigitNonDot(t *testing.T) {
	_, err := dicomhandler.NormalizeUID("1.2.a")
	require.ErrorIs(t, err, dicomerr.ErrInvalidValue)
}

// NormalizeUID must be idempotent: normalizing an already-normalized UID
// is a no-op, so repeated round trips through a Dataset never perturb it.
func TestNormalizeUIDIdempotent(t *testing.T) {
	cases := []string{
		"1.2.840.10008.1.2",
		"1.02.003.0004",
		"1.2.",
		"1.2..3",
		"0.0.0",
	}
	for _, c := range cases {
		once, err := dicomhandler.NormalizeUID(c)
		require.NoError(t, err)
		twice, err := dicomhandler.NormalizeUID(once)
		require.NoError(t, err)
		require.Equal(t, once, twice, "NormalizeUID(%q) not idempotent", c)
	}
}
