package pds3

// InstrumentHost is the PDS3 INSTRUMENT_HOST catalog variant: one
// INSTRUMENT_HOST_INFORMATION, 0..n INSTRUMENT_HOST_REFERENCE_INFO.
type InstrumentHost struct {
	ID         string
	Name       string
	References []map[string]string
	Properties map[string]string
}

// ParseInstrumentHost validates and projects a generic object tree rooted
// at `OBJECT = INSTRUMENT_HOST` into an [InstrumentHost].
func ParseInstrumentHost(file string, root *Object) (*InstrumentHost, error) {
	obj, err := requireOne(file, root, "INSTRUMENT_HOST")
	if err != nil {
		return nil, err
	}
	info, err := requireOne(file, obj, "INSTRUMENT_HOST_INFORMATION")
	if err != nil {
		return nil, err
	}

	h := &InstrumentHost{
		ID:         info.Property("INSTRUMENT_HOST_ID").Str,
		Name:       info.Property("INSTRUMENT_HOST_NAME").Str,
		Properties: properties(info, "INSTRUMENT_HOST_ID", "INSTRUMENT_HOST_NAME"),
	}
	for _, ref := range obj.ChildrenOf("INSTRUMENT_HOST_REFERENCE_INFO") {
		h.References = append(h.References, properties(ref))
	}
	return h, nil
}
