package dicom

import (
	"github.com/odincare/dicomcore/dicomerr"
	"github.com/odincare/dicomcore/dicomtag"

	"github.com/gobwas/glob"
)

// MatchIdentifier reports whether ds satisfies every requested key in
// filter: the all-keys-must-match semantics of a C-FIND identifier
// (PS3.4 C.2.2.2). QueryRetrieveLevel and SpecificCharacterSet steer the
// query rather than filter it, so both are skipped. A key missing from ds
// fails the match rather than erroring, unless the key itself is
// malformed (e.g. carries more than one pattern value).
func MatchIdentifier(ds *Dataset, filter *Dataset) (bool, error) {
	match := true
	var matchErr error

	filter.ForEach(func(group uint16, order int, element uint16, ft *Tag) bool {
		tag := dicomtag.Tag{Group: group, Element: element}
		if tag == dicomtag.QueryRetrieveLevel || tag == dicomtag.SpecificCharacterSet {
			return true
		}

		ok, err := matchKey(ds, filter, tag, ft.VR)
		if err != nil {
			matchErr = err
			match = false
			return false
		}
		if !ok {
			match = false
		}
		return true
	})

	if matchErr != nil {
		return false, matchErr
	}
	return match, nil
}

// matchKey matches a single requested tag of filter against ds.
func matchKey(ds, filter *Dataset, tag dicomtag.Tag, vr string) (bool, error) {
	if vr == "SQ" {
		// Nested item filters (sequence matching) aren't supported; a
		// present SQ key always matches so callers can still gate on its
		// mere presence, PS3.4 C.2.2.2.5.
		return true, nil
	}

	filterValues, err := filter.GetStrings(tag)
	if err != nil {
		return false, err
	}
	if isEmptyQuery(filterValues) {
		// A universal-match key (PS3.4 C.2.2.2.4): empty value, or a glob
		// of bare "*" characters.
		return true, nil
	}

	dsValues, err := ds.GetStrings(tag)
	if err != nil {
		if err == dicomerr.ErrMissingTag || err == dicomerr.ErrMissingGroup {
			return false, nil
		}
		return false, err
	}

	params, _ := dicomtag.VRInfo(vr)
	exact := params.Family == dicomtag.FamilyUID
	for _, want := range filterValues {
		for _, have := range dsValues {
			ok, err := matchString(want, have, exact)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// matchString compares a single filter pattern against a single value,
// either as a PS3.4 C.2.2.2.4 wildcard glob or, for UI-family keys, as a
// plain equality test (UIDs never carry wildcards).
func matchString(pattern, value string, exact bool) (bool, error) {
	if exact {
		return pattern == value, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, err
	}
	return g.Match(value), nil
}

// isEmptyQuery reports whether values represents PS3.4's universal match:
// no value at all, or a pattern made up entirely of "*" characters.
func isEmptyQuery(values []string) bool {
	if len(values) == 0 {
		return true
	}
	isUniversalGlob := func(s string) bool {
		if s == "" {
			return true
		}
		for i := 0; i < len(s); i++ {
			if s[i] != '*' {
				return false
			}
		}
		return true
	}
	for _, v := range values {
		if !isUniversalGlob(v) {
			return false
		}
	}
	return true
}
