package pds3

// DataSet is the PDS3 DATA_SET catalog variant: one
// DATA_SET_INFORMATION, 1..n DATA_SET_TARGET, one DATA_SET_HOST, one
// DATA_SET_MISSION, 0..n DATA_SET_REFERENCE_INFORMATION.
type DataSet struct {
	ID         string
	Name       string
	Targets    []string
	HostID     string
	MissionID  string
	References []map[string]string
	Properties map[string]string
}

// ParseDataSet validates and projects a generic object tree rooted at
// `OBJECT = DATA_SET` into a [DataSet].
func ParseDataSet(file string, root *Object) (*DataSet, error) {
	obj, err := requireOne(file, root, "DATA_SET")
	if err != nil {
		return nil, err
	}
	info, err := requireOne(file, obj, "DATA_SET_INFORMATION")
	if err != nil {
		return nil, err
	}
	targets, err := requireAtLeastOne(file, obj, "DATA_SET_TARGET")
	if err != nil {
		return nil, err
	}
	host, err := requireOne(file, obj, "DATA_SET_HOST")
	if err != nil {
		return nil, err
	}
	mission, err := requireOne(file, obj, "DATA_SET_MISSION")
	if err != nil {
		return nil, err
	}

	ds := &DataSet{
		ID:         info.Property("DATA_SET_ID").Str,
		Name:       info.Property("DATA_SET_NAME").Str,
		HostID:     host.Property("INSTRUMENT_HOST_ID").Str,
		MissionID:  mission.Property("MISSION_NAME").Str,
		Properties: properties(info, "DATA_SET_ID", "DATA_SET_NAME"),
	}
	for _, t := range targets {
		ds.Targets = append(ds.Targets, t.Property("TARGET_NAME").Str)
	}
	for _, ref := range obj.ChildrenOf("DATA_SET_REFERENCE_INFORMATION") {
		ds.References = append(ds.References, properties(ref))
	}
	return ds, nil
}
