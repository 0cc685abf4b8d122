package pds3

// VolumeFile is one PDS3 FILE sub-object within a volume descriptor's
// directory tree.
type VolumeFile struct {
	Name       string
	Properties map[string]string
}

// VolumeDirectory is one PDS3 DIRECTORY sub-object; directories nest
// recursively to mirror the physical volume layout.
type VolumeDirectory struct {
	Name        string
	Files       []VolumeFile
	Directories []VolumeDirectory
}

// VolumeDescriptor is the PDS3 VOLUME catalog variant: one DATA_PRODUCER,
// one CATALOG, 0..1 DATA_SUPPLIER, 0..n FILE, 0..n DIRECTORY (recursive).
type VolumeDescriptor struct {
	VolumeID     string
	DataProducer map[string]string
	Catalog      map[string]string
	DataSupplier map[string]string
	Files        []VolumeFile
	Directories  []VolumeDirectory
	Properties   map[string]string
}

// ParseVolumeDescriptor validates and projects a generic object tree
// rooted at `OBJECT = VOLUME` into a [VolumeDescriptor].
func ParseVolumeDescriptor(file string, root *Object) (*VolumeDescriptor, error) {
	obj, err := requireOne(file, root, "VOLUME")
	if err != nil {
		return nil, err
	}
	producer, err := requireOne(file, obj, "DATA_PRODUCER")
	if err != nil {
		return nil, err
	}
	catalog, err := requireOne(file, obj, "CATALOG")
	if err != nil {
		return nil, err
	}

	vd := &VolumeDescriptor{
		VolumeID:     obj.Property("VOLUME_ID").Str,
		DataProducer: properties(producer),
		Catalog:      properties(catalog),
		Properties:   properties(obj, "VOLUME_ID"),
	}
	if supplier := optionalOne(obj, "DATA_SUPPLIER"); supplier != nil {
		vd.DataSupplier = properties(supplier)
	}
	for _, f := range obj.ChildrenOf("FILE") {
		vd.Files = append(vd.Files, parseVolumeFile(f))
	}
	for _, d := range obj.ChildrenOf("DIRECTORY") {
		vd.Directories = append(vd.Directories, parseVolumeDirectory(d))
	}
	return vd, nil
}

func parseVolumeFile(o *Object) VolumeFile {
	return VolumeFile{
		Name:       o.Property("FILE_NAME").Str,
		Properties: properties(o, "FILE_NAME"),
	}
}

func parseVolumeDirectory(o *Object) VolumeDirectory {
	dir := VolumeDirectory{Name: o.Property("NAME").Str}
	for _, f := range o.ChildrenOf("FILE") {
		dir.Files = append(dir.Files, parseVolumeFile(f))
	}
	for _, d := range o.ChildrenOf("DIRECTORY") {
		dir.Directories = append(dir.Directories, parseVolumeDirectory(d))
	}
	return dir
}
