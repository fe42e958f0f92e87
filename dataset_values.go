package dicom

import (
	"github.com/odincare/dicomcore/dicombuffer"
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomhandler"
	"github.com/odincare/dicomcore/dicomtag"
)

// buffer0 returns a tag's buffer 0, creating an empty resident one if the
// tag has none yet (the usual case right after GetOrCreate).
func (t *Tag) buffer0() *dicombuffer.Buffer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.Buffers) == 0 {
		t.Buffers = append(t.Buffers, dicombuffer.NewEmpty())
	}
	return t.Buffers[0]
}

// readingHandler builds a ValueHandler over the tag's buffer 0.
func (ds *Dataset) readingHandler(tag dicomtag.Tag) (*dicomhandler.ReadingHandler, error) {
	t, err := ds.Get(tag)
	if err != nil {
		return nil, err
	}
	return dicomhandler.NewReadingHandler(t.buffer0(), t.VR, ds.Charsets())
}

// writingHandler begins a write on the tag's buffer 0, creating the tag
// (with vr, if it didn't already exist) first.
func (ds *Dataset) writingHandler(tag dicomtag.Tag, vr string, hintSize int) (*dicomhandler.WritingHandler, error) {
	t, err := ds.GetOrCreate(tag, vr)
	if err != nil {
		return nil, err
	}
	return dicomhandler.NewWritingHandler(t.buffer0(), t.VR, hintSize)
}

// GetString returns the first `\`-separated component of tag's buffer 0.
func (ds *Dataset) GetString(tag dicomtag.Tag) (string, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return "", err
	}
	return h.GetString(0)
}

// GetStringDefault is GetString but returns def when tag is absent.
// Conversion errors are not absence: like the Must* family, they panic
// rather than silently falling back to def.
func (ds *Dataset) GetStringDefault(tag dicomtag.Tag, def string) string {
	v, err := ds.GetString(tag)
	if err == dicomerr.ErrMissingTag || err == dicomerr.ErrMissingGroup {
		return def
	}
	if err != nil {
		panic(err)
	}
	return v
}

// GetStrings returns every component of tag's buffer 0.
func (ds *Dataset) GetStrings(tag dicomtag.Tag) ([]string, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return nil, err
	}
	return h.GetStrings()
}

// GetUnicodeString returns the first decoded component of a unicode-family
// VR tag (LO/SH/UC/LT/ST/UT).
func (ds *Dataset) GetUnicodeString(tag dicomtag.Tag) (string, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return "", err
	}
	return h.GetUnicodeString(0)
}

// GetInt parses tag's first component as an integer.
func (ds *Dataset) GetInt(tag dicomtag.Tag) (int64, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return 0, err
	}
	return h.GetInt(0)
}

// GetIntDefault is GetInt with a MissingTag/MissingGroup fallback; any
// other error panics (see GetStringDefault).
func (ds *Dataset) GetIntDefault(tag dicomtag.Tag, def int64) int64 {
	v, err := ds.GetInt(tag)
	if err == dicomerr.ErrMissingTag || err == dicomerr.ErrMissingGroup {
		return def
	}
	if err != nil {
		panic(err)
	}
	return v
}

// GetDouble parses tag's first component as a float64.
func (ds *Dataset) GetDouble(tag dicomtag.Tag) (float64, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return 0, err
	}
	return h.GetDouble(0)
}

// GetDate parses tag as DA.
func (ds *Dataset) GetDate(tag dicomtag.Tag) (dicomhandler.Date, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return dicomhandler.Date{}, err
	}
	return h.GetDate()
}

// GetDateDefault is GetDate with a MissingTag/MissingGroup fallback; any
// other error panics (see GetStringDefault).
func (ds *Dataset) GetDateDefault(tag dicomtag.Tag, def dicomhandler.Date) dicomhandler.Date {
	v, err := ds.GetDate(tag)
	if err == dicomerr.ErrMissingTag || err == dicomerr.ErrMissingGroup {
		return def
	}
	if err != nil {
		panic(err)
	}
	return v
}

// GetTime parses tag as TM.
func (ds *Dataset) GetTime(tag dicomtag.Tag) (dicomhandler.Time, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return dicomhandler.Time{}, err
	}
	return h.GetTime()
}

// GetAge parses tag as AS.
func (ds *Dataset) GetAge(tag dicomtag.Tag) (dicomhandler.Age, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return dicomhandler.Age{}, err
	}
	return h.GetAge()
}

// GetPersonName parses tag as PN.
func (ds *Dataset) GetPersonName(tag dicomtag.Tag) (dicomhandler.PersonName, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return dicomhandler.PersonName{}, err
	}
	return h.GetPersonName()
}

// GetUID returns tag's sole value, normalized per spec.md §4.3.
func (ds *Dataset) GetUID(tag dicomtag.Tag) (string, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return "", err
	}
	return h.GetUID()
}

// GetUint16s decodes a US/OW tag.
func (ds *Dataset) GetUint16s(tag dicomtag.Tag) ([]uint16, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return nil, err
	}
	return h.GetUint16s()
}

// GetInt16s decodes an SS tag.
func (ds *Dataset) GetInt16s(tag dicomtag.Tag) ([]int16, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return nil, err
	}
	return h.GetInt16s()
}

// GetUint32s decodes a UL/OL tag.
func (ds *Dataset) GetUint32s(tag dicomtag.Tag) ([]uint32, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return nil, err
	}
	return h.GetUint32s()
}

// GetBytes returns the raw bytes of an opaque (OB/OW/UN) tag.
func (ds *Dataset) GetBytes(tag dicomtag.Tag) ([]byte, error) {
	h, err := ds.readingHandler(tag)
	if err != nil {
		return nil, err
	}
	return h.GetBytes(), nil
}

// SetString sets tag's sole value, creating the tag with vr if absent.
func (ds *Dataset) SetString(tag dicomtag.Tag, vr, value string) error {
	w, err := ds.writingHandler(tag, vr, len(value)+1)
	if err != nil {
		return err
	}
	if err := w.SetString(value); err != nil {
		w.Discard()
		return err
	}
	w.Commit()
	return nil
}

// SetStrings sets all of tag's components.
func (ds *Dataset) SetStrings(tag dicomtag.Tag, vr string, values []string) error {
	w, err := ds.writingHandler(tag, vr, 32)
	if err != nil {
		return err
	}
	if err := w.SetStrings(values); err != nil {
		w.Discard()
		return err
	}
	w.Commit()
	return nil
}

// SetInt formats v as IS.
func (ds *Dataset) SetInt(tag dicomtag.Tag, v int64) error {
	w, err := ds.writingHandler(tag, "IS", 16)
	if err != nil {
		return err
	}
	if err := w.SetInt(v); err != nil {
		w.Discard()
		return err
	}
	w.Commit()
	return nil
}

// SetDouble formats v as DS.
func (ds *Dataset) SetDouble(tag dicomtag.Tag, v float64) error {
	w, err := ds.writingHandler(tag, "DS", 16)
	if err != nil {
		return err
	}
	if err := w.SetDouble(v); err != nil {
		w.Discard()
		return err
	}
	w.Commit()
	return nil
}

// SetDate formats d as DA.
func (ds *Dataset) SetDate(tag dicomtag.Tag, d dicomhandler.Date) error {
	w, err := ds.writingHandler(tag, "DA", 8)
	if err != nil {
		return err
	}
	if err := w.SetDate(d); err != nil {
		w.Discard()
		return err
	}
	w.Commit()
	return nil
}

// SetTime formats t as TM.
func (ds *Dataset) SetTime(tag dicomtag.Tag, t dicomhandler.Time) error {
	w, err := ds.writingHandler(tag, "TM", 16)
	if err != nil {
		return err
	}
	if err := w.SetTime(t); err != nil {
		w.Discard()
		return err
	}
	w.Commit()
	return nil
}

// SetUID normalizes and sets uid as UI.
func (ds *Dataset) SetUID(tag dicomtag.Tag, uid string) error {
	w, err := ds.writingHandler(tag, "UI", len(uid)+1)
	if err != nil {
		return err
	}
	if err := w.SetUID(uid); err != nil {
		w.Discard()
		return err
	}
	w.Commit()
	return nil
}

// SetUint16s serializes values as US/OW.
func (ds *Dataset) SetUint16s(tag dicomtag.Tag, vr string, values []uint16) error {
	w, err := ds.writingHandler(tag, vr, len(values)*2)
	if err != nil {
		return err
	}
	w.SetUint16s(values)
	w.Commit()
	return nil
}

// SetBytes sets the raw payload of an opaque (OB/OW/UN) tag.
func (ds *Dataset) SetBytes(tag dicomtag.Tag, vr string, b []byte) error {
	w, err := ds.writingHandler(tag, vr, len(b))
	if err != nil {
		return err
	}
	w.SetBytes(b)
	w.Commit()
	return nil
}
