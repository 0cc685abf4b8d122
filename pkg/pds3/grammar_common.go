package pds3

// Header holds the shared preamble fields every catalog file carries,
// folded into the root object's Properties by ParseObjectTree.
type Header struct {
	PDSVersionID      string
	LabelRevisionNote string
	RecordType        string
}

// ParseHeader extracts the shared header fields from a root object. It
// does not fail on a missing PDS_VERSION_ID; the factory's candidate-kind
// dispatch is responsible for rejecting files that aren't PDS3 labels at
// all.
func ParseHeader(root *Object) Header {
	return Header{
		PDSVersionID:      root.Property("PDS_VERSION_ID").Str,
		LabelRevisionNote: root.Property("LABEL_REVISION_NOTE").Str,
		RecordType:        root.Property("RECORD_TYPE").Str,
	}
}

// requireOne returns the single child object of the given kind, or a
// ParseError if zero or more than one is present.
func requireOne(file string, parent *Object, kind string) (*Object, error) {
	matches := parent.ChildrenOf(kind)
	if len(matches) == 0 {
		return nil, MissingSubObject(file, parent.Line, parent.Kind, kind).AsError()
	}
	if len(matches) > 1 {
		return nil, (&ParseError{File: file, Line: matches[1].Line, Token: kind, Reason: "more than one " + kind}).AsError()
	}
	return matches[0], nil
}

// requireAtLeastOne returns all child objects of the given kind, or a
// ParseError if none are present.
func requireAtLeastOne(file string, parent *Object, kind string) ([]*Object, error) {
	matches := parent.ChildrenOf(kind)
	if len(matches) == 0 {
		return nil, MissingSubObject(file, parent.Line, parent.Kind, kind).AsError()
	}
	return matches, nil
}

// optionalOne returns the single child object of the given kind if
// present, or nil.
func optionalOne(parent *Object, kind string) *Object {
	matches := parent.ChildrenOf(kind)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// properties converts an object's raw Value map into a plain
// map[string]string property bag for unknown/extra keywords, per the
// tolerance policy: unrecognized keywords are retained, not dropped.
func properties(o *Object, known ...string) map[string]string {
	skip := make(map[string]bool, len(known))
	for _, k := range known {
		skip[k] = true
	}
	out := map[string]string{}
	for k, v := range o.Properties {
		if skip[k] {
			continue
		}
		out[k] = v.Str
	}
	return out
}
