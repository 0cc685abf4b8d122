package pds3

// DataSetMapProjection is the PDS3 DATA_SET_MAP_PROJECTION catalog
// variant: one DATA_SET_MAP_PROJECTION_INFO with 0..n
// DS_MAP_PROJECTION_REF_INFO.
type DataSetMapProjection struct {
	DatasetID    string
	ProjectionID string
	References   []map[string]string
	Properties   map[string]string
}

// ParseDataSetMapProjection validates and projects a generic object tree
// rooted at `OBJECT = DATA_SET_MAP_PROJECTION` into a
// [DataSetMapProjection].
func ParseDataSetMapProjection(file string, root *Object) (*DataSetMapProjection, error) {
	obj, err := requireOne(file, root, "DATA_SET_MAP_PROJECTION")
	if err != nil {
		return nil, err
	}
	info, err := requireOne(file, obj, "DATA_SET_MAP_PROJECTION_INFO")
	if err != nil {
		return nil, err
	}

	p := &DataSetMapProjection{
		DatasetID:    info.Property("DATA_SET_ID").Str,
		ProjectionID: info.Property("MAP_PROJECTION_TYPE").Str,
		Properties:   properties(info, "DATA_SET_ID", "MAP_PROJECTION_TYPE"),
	}
	for _, ref := range info.ChildrenOf("DS_MAP_PROJECTION_REF_INFO") {
		p.References = append(p.References, properties(ref))
	}
	return p, nil
}
