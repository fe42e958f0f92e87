package dicomhandler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odincare/dicomcore/dicomerr"
)

// Date is DA's parsed form: exactly YYYYMMDD.
type Date struct {
	Year, Month, Day int
}

// Time is TM's parsed form: HHMMSS.ffffff±HHMM, with the offset expressed
// as total signed minutes rather than separately-signed hour/minute
// fields — see ParseTime for why.
type Time struct {
	Hour, Minute, Second, Microsecond int
	HasOffset                        bool
	OffsetMinutes                    int // signed, e.g. -90 for "-0130"
}

// Age is AS's parsed form: a count plus a unit in {D, W, M, Y}.
type Age struct {
	Count int
	Unit  byte
}

// ParseDate parses an 8-digit DA value.
func ParseDate(s string) (Date, error) {
	if len(s) != 8 {
		return Date{}, dicomerr.ErrConversionError
	}
	year, err1 := strconv.Atoi(s[0:4])
	month, err2 := strconv.Atoi(s[4:6])
	day, err3 := strconv.Atoi(s[6:8])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, dicomerr.ErrConversionError
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// FormatDate serializes d as YYYYMMDD.
func FormatDate(d Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// ParseTime parses a TM value `HHMMSS[.ffffff][±HHMM]` with left-to-right
// defaulting, per spec.md §4.3: short values are padded on the right
// ('0' for the clock digits, then a literal '.', then '0' for the
// fraction, then '+' for the offset sign, then '0' for the offset
// digits) up to the full 18-character form before splitting into fields.
//
// This intentionally diverges from the original implementation's offset
// handling (resolved Open Question, spec.md §9): the whole `±HHMM` suffix
// is parsed as one signed quantity before being split into hours and
// minutes, so a negative sub-hour offset like "-0030" round-trips as -30
// minutes instead of +30 (the source parsed the minute field unsigned and
// only negated it when the *hour* field was negative, so "-0030" and
// "+0030" parsed identically).
func ParseTime(s string) (Time, error) {
	padded := s
	if len(padded) < 6 {
		padded = padded + strings.Repeat("0", 6-len(padded))
	}
	if len(padded) < 7 {
		padded += "."
	}
	if len(padded) < 13 {
		padded = padded + strings.Repeat("0", 13-len(padded))
	}
	if len(padded) < 14 {
		padded += "+"
	}
	if len(padded) < 18 {
		padded = padded + strings.Repeat("0", 18-len(padded))
	}

	hour, err1 := strconv.Atoi(padded[0:2])
	minute, err2 := strconv.Atoi(padded[2:4])
	second, err3 := strconv.Atoi(padded[4:6])
	micros, err4 := strconv.Atoi(padded[7:13])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return Time{}, dicomerr.ErrConversionError
	}

	sign := 1
	switch padded[13] {
	case '-':
		sign = -1
	case '+':
		// default
	default:
		return Time{}, dicomerr.ErrConversionError
	}
	offHour, err5 := strconv.Atoi(padded[14:16])
	offMinute, err6 := strconv.Atoi(padded[16:18])
	if err5 != nil || err6 != nil {
		return Time{}, dicomerr.ErrConversionError
	}

	return Time{
		Hour:           hour,
		Minute:         minute,
		Second:         second,
		Microsecond:    micros,
		HasOffset:      true,
		OffsetMinutes:  sign * (offHour*60 + offMinute),
	}, nil
}

// FormatTime serializes t as HHMMSS.ffffff±HHMM, or HHMMSS.ffffff if
// t.HasOffset is false, per buildTimeSimple in the original
// implementation.
func FormatTime(t Time) (string, error) {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 || t.Microsecond < 0 || t.Microsecond > 999999 {
		return "", dicomerr.ErrInvalidValue
	}
	base := fmt.Sprintf("%02d%02d%02d.%06d", t.Hour, t.Minute, t.Second, t.Microsecond)
	if !t.HasOffset {
		return base, nil
	}
	if t.OffsetMinutes < -12*60 || t.OffsetMinutes > 14*60 {
		return "", dicomerr.ErrInvalidValue
	}
	sign := byte('+')
	abs := t.OffsetMinutes
	if abs < 0 {
		sign = '-'
		abs = -abs
	}
	return fmt.Sprintf("%s%c%02d%02d", base, sign, abs/60, abs%60), nil
}

// ParseDateTime parses DT as a DA prefix followed by a TM suffix.
func ParseDateTime(s string) (Date, Time, error) {
	if len(s) < 8 {
		return Date{}, Time{}, dicomerr.ErrConversionError
	}
	d, err := ParseDate(s[:8])
	if err != nil {
		return Date{}, Time{}, err
	}
	t, err := ParseTime(s[8:])
	if err != nil {
		return Date{}, Time{}, err
	}
	return d, t, nil
}

// ageUnits is the exhaustive, correct set of valid AS unit characters.
// This replaces the original implementation's validator — resolved Open
// Question, spec.md §9 — whose condition (`unit != D && unit != W &&
// unit == M && unit == Y`, expressed with the wrong boolean operators) can
// never be true and so never rejected anything.
var ageUnits = map[byte]bool{'D': true, 'W': true, 'M': true, 'Y': true}

// ParseAge parses a 4-character AS value: three digits then a unit in
// {D, W, M, Y}. Any other unit fails with dicomerr.ErrInvalidValue.
func ParseAge(s string) (Age, error) {
	if len(s) != 4 {
		return Age{}, dicomerr.ErrConversionError
	}
	count, err := strconv.Atoi(s[:3])
	if err != nil {
		return Age{}, dicomerr.ErrConversionError
	}
	unit := s[3]
	if !ageUnits[unit] {
		return Age{}, dicomerr.ErrInvalidValue
	}
	return Age{Count: count, Unit: unit}, nil
}

// FormatAge serializes a as NNN{D|W|M|Y}, zero-padded.
func FormatAge(a Age) (string, error) {
	if !ageUnits[a.Unit] {
		return "", dicomerr.ErrInvalidValue
	}
	if a.Count < 0 || a.Count > 999 {
		return "", dicomerr.ErrInvalidValue
	}
	return fmt.Sprintf("%03d%c", a.Count, a.Unit), nil
}

// GetDate parses the handler's sole value as DA.
func (h *ReadingHandler) GetDate() (Date, error) {
	return ParseDate(trimmedString(h.raw, h.params.Padding))
}

// GetTime parses the handler's sole value as TM.
func (h *ReadingHandler) GetTime() (Time, error) {
	return ParseTime(trimmedString(h.raw, h.params.Padding))
}

// GetDateTime parses the handler's sole value as DT.
func (h *ReadingHandler) GetDateTime() (Date, Time, error) {
	return ParseDateTime(trimmedString(h.raw, h.params.Padding))
}

// GetAge parses the handler's sole value as AS.
func (h *ReadingHandler) GetAge() (Age, error) {
	return ParseAge(trimmedString(h.raw, h.params.Padding))
}

// SetDate formats d as DA.
func (w *WritingHandler) SetDate(d Date) error {
	return w.SetString(FormatDate(d))
}

// SetTime formats t as TM.
func (w *WritingHandler) SetTime(t Time) error {
	s, err := FormatTime(t)
	if err != nil {
		return err
	}
	return w.SetString(s)
}

// SetDateTime formats d and t concatenated as DT.
func (w *WritingHandler) SetDateTime(d Date, t Time) error {
	ts, err := FormatTime(t)
	if err != nil {
		return err
	}
	return w.SetString(FormatDate(d) + ts)
}

// SetAge formats a as AS.
func (w *WritingHandler) SetAge(a Age) error {
	s, err := FormatAge(a)
	if err != nil {
		return err
	}
	return w.SetString(s)
}
