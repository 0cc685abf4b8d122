package pds3

// ReferenceRecord is one PDS3 REFERENCE record: a keyword set with no
// sub-objects, keyed by its reference key (e.g. "ZUBERETAL1992").
type ReferenceRecord struct {
	Key        string
	Properties map[string]string
}

// ParseReference validates and projects every `OBJECT = REFERENCE` block
// in the file into a slice of [ReferenceRecord]; a reference file may
// carry one or many records.
func ParseReference(file string, root *Object) ([]ReferenceRecord, error) {
	blocks, err := requireAtLeastOne(file, root, "REFERENCE")
	if err != nil {
		return nil, err
	}

	records := make([]ReferenceRecord, 0, len(blocks))
	for _, block := range blocks {
		records = append(records, ReferenceRecord{
			Key:        block.Property("REFERENCE_KEY_ID").Str,
			Properties: properties(block, "REFERENCE_KEY_ID"),
		})
	}
	return records, nil
}
