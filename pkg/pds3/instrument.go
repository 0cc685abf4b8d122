package pds3

// Instrument is the PDS3 INSTRUMENT catalog variant: one
// INSTRUMENT_INFORMATION (accepting the alias INSTINFO), 0..n
// INSTRUMENT_REFERENCE_INFO (accepting the alias INSTREFINFO).
type Instrument struct {
	ID         string
	HostID     string
	Name       string
	References []map[string]string
	Properties map[string]string
}

// ParseInstrument validates and projects a generic object tree rooted at
// `OBJECT = INSTRUMENT` into an [Instrument].
func ParseInstrument(file string, root *Object) (*Instrument, error) {
	obj, err := requireOne(file, root, "INSTRUMENT")
	if err != nil {
		return nil, err
	}
	info := optionalOne(obj, "INSTRUMENT_INFORMATION")
	if info == nil {
		info = optionalOne(obj, "INSTINFO")
	}
	if info == nil {
		return nil, MissingSubObject(file, obj.Line, obj.Kind, "INSTRUMENT_INFORMATION").AsError()
	}

	inst := &Instrument{
		ID:         info.Property("INSTRUMENT_ID").Str,
		HostID:     info.Property("INSTRUMENT_HOST_ID").Str,
		Name:       info.Property("INSTRUMENT_NAME").Str,
		Properties: properties(info, "INSTRUMENT_ID", "INSTRUMENT_HOST_ID", "INSTRUMENT_NAME"),
	}
	refs := obj.ChildrenOf("INSTRUMENT_REFERENCE_INFO", "INSTREFINFO")
	for _, ref := range refs {
		inst.References = append(inst.References, properties(ref))
	}
	return inst, nil
}
