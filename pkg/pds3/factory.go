package pds3

import "strings"

// Catalog kind names, matching the root OBJECT name each grammar expects.
const (
	KindMission              = "MISSION"
	KindInstrumentHost       = "INSTRUMENT_HOST"
	KindInstrument           = "INSTRUMENT"
	KindDataSet              = "DATA_SET"
	KindDataSetMapProjection = "DATA_SET_MAP_PROJECTION"
	KindPersonnel            = "PERSONNEL"
	KindReference            = "REFERENCE"
	KindVolumeDescriptor     = "VOLUME"
)

// fixedOrder is the candidate order the factory falls back to when the
// filename heuristic is inconclusive, and the order in which multiple
// surviving candidates are tried.
var fixedOrder = []string{
	KindMission,
	KindInstrumentHost,
	KindInstrument,
	KindDataSetMapProjection,
	KindDataSet,
	KindPersonnel,
	KindReference,
	KindVolumeDescriptor,
}

// ParsedCatalog is the tagged result of [Factory.Parse]: exactly one of
// the typed fields matching Kind is populated.
type ParsedCatalog struct {
	Kind                 string
	Mission              *Mission
	InstrumentHost       *InstrumentHost
	Instrument           *Instrument
	DataSet              *DataSet
	DataSetMapProjection *DataSetMapProjection
	Personnel            []PersonnelRecord
	Reference            []ReferenceRecord
	VolumeDescriptor     *VolumeDescriptor
}

// Factory maps a filename heuristic, and on failure the root OBJECT name,
// to the grammar to apply. On ambiguity it tries candidate grammars in
// [fixedOrder] and returns the first one that parses successfully.
type Factory struct{}

// NewFactory constructs a parser factory. The factory is stateless.
func NewFactory() *Factory { return &Factory{} }

// Parse tokenizes data into a generic object tree and dispatches it to
// the matching variant grammar, by filename heuristic first and the root
// object's declared kind as fallback.
func (f *Factory) Parse(file string, data []byte) (*ParsedCatalog, error) {
	tree, err := ParseObjectTree(file, data)
	if err != nil {
		return nil, err
	}

	candidates := f.candidateKinds(file, tree)

	var lastErr error
	for _, kind := range candidates {
		cat, err := parseKind(file, tree, kind)
		if err == nil {
			return cat, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// candidateKinds orders the kinds to try: filename-heuristic matches
// first, then the root object's declared kind, then the remaining fixed
// order so that every grammar is eventually attempted.
func (f *Factory) candidateKinds(file string, tree *Object) []string {
	seen := map[string]bool{}
	var ordered []string
	add := func(kind string) {
		if kind != "" && !seen[kind] {
			seen[kind] = true
			ordered = append(ordered, kind)
		}
	}

	upper := strings.ToUpper(file)
	for _, kind := range fixedOrder {
		if strings.Contains(upper, kind) {
			add(kind)
		}
	}
	// Instrument-host catalog filenames rarely spell out INSTRUMENT_HOST
	// in full (INSTHOST.CAT is common), so any name containing HOST counts.
	if strings.Contains(upper, "HOST") {
		add(KindInstrumentHost)
	}
	if strings.Contains(upper, "VOL") {
		add(KindVolumeDescriptor)
	}

	for _, child := range tree.Children {
		add(strings.ToUpper(child.Kind))
	}

	for _, kind := range fixedOrder {
		add(kind)
	}
	return ordered
}

func parseKind(file string, tree *Object, kind string) (*ParsedCatalog, error) {
	switch kind {
	case KindMission:
		m, err := ParseMission(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, Mission: m}, nil
	case KindInstrumentHost:
		h, err := ParseInstrumentHost(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, InstrumentHost: h}, nil
	case KindInstrument:
		i, err := ParseInstrument(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, Instrument: i}, nil
	case KindDataSetMapProjection:
		p, err := ParseDataSetMapProjection(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, DataSetMapProjection: p}, nil
	case KindDataSet:
		d, err := ParseDataSet(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, DataSet: d}, nil
	case KindPersonnel:
		p, err := ParsePersonnel(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, Personnel: p}, nil
	case KindReference:
		r, err := ParseReference(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, Reference: r}, nil
	case KindVolumeDescriptor:
		v, err := ParseVolumeDescriptor(file, tree)
		if err != nil {
			return nil, err
		}
		return &ParsedCatalog{Kind: kind, VolumeDescriptor: v}, nil
	default:
		return nil, (&ParseError{File: file, Reason: "unrecognized catalog kind", Token: kind}).AsError()
	}
}
