package dicomhandler_test

import (
	"testing"

	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomhandler"
	"github.com/stretchr/testify/require"
)

func TestParseFormatDateRoundTrip(t *testing.T) {
	d, err := dicomhandler.ParseDate("19991231")
	require.NoError(t, err)
	require.Equal(t, dicomhandler.Date{Year: 1999, Month: 12, Day: 31}, d)
	require.Equal(t, "19991231", dicomhandler.FormatDate(d))
}

func TestParseDateWrongLength(t *testing.T) {
	_, err := dicomhandler.ParseDate("2024")
	require.ErrorIs(t, err, dicomerr.ErrConversionError)
}

func TestParseAgeValidUnits(t *testing.T) {
	for _, unit := range []byte{'D', 'W', 'M', 'Y'} {
		a, err := dicomhandler.ParseAge("042" + string(unit))
		require.NoError(t, err)
		require.Equal(t, dicomhandler.Age{Count: 42, Unit: unit}, a)

		s, err := dicomhandler.FormatAge(a)
		require.NoError(t, err)
		require.Equal(t, "042"+string(unit), s)
	}
}

func TestParseAgeRejectsInvalidUnit(t *testing.T) {
	_, err := dicomhandler.ParseAge("042X")
	require.ErrorIs(t, err, dicomerr.ErrInvalidValue)
}

func TestParseAgeWrongLength(t *testing.T) {
	_, err := dicomhandler.ParseAge("42D")
	require.ErrorIs(t, err, dicomerr.ErrConversionError)
}

func TestFormatAgeRejectsInvalidUnit(t *testing.T) {
	_, err := dicomhandler.FormatAge(dicomhandler.Age{Count: 1, Unit: 'X'})
	require.ErrorIs(t, err, dicomerr.ErrInvalidValue)
}

func TestFormatAgeRejectsOutOfRangeCount(t *testing.T) {
	_, err := dicomhandler.FormatAge(dicomhandler.Age{Count: 1000, Unit: 'Y'})
	require.ErrorIs(t, err, dicomerr.ErrInvalidValue)
}

func TestParseTimeWithOffset(t *testing.T) {
	tm, err := dicomhandler.ParseTime("235959.500000-0130")
	require.NoError(t, err)
	require.Equal(t, 23, tm.Hour)
	require.Equal(t, 59, tm.Minute)
	require.Equal(t, 59, tm.Second)
	require.True(t, tm.HasOffset)
	require.Equal(t, -90, tm.OffsetMinutes)
}

func TestParseTimeShortForm(t *testing.T) {
	tm, err := dicomhandler.ParseTime("08")
	require.NoError(t, err)
	require.Equal(t, 8, tm.Hour)
	require.Equal(t, 0, tm.Minute)
}

func TestFormatTimeRejectsOutOfRange(t *testing.T) {
	_, err := dicomhandler.FormatTime(dicomhandler.Time{Hour: 24})
	require.ErrorIs(t, err, dicomerr.ErrInvalidValue)
}

func TestParseDateTime(t *testing.T) {
	d, tm, err := dicomhandler.ParseDateTime("20200101120000")
	require.NoError(t, err)
	require.Equal(t, dicomhandler.Date{Year: 2020, Month: 1, Day: 1}, d)
	require.Equal(t, 12, tm.Hour)
}
