package pds3

import "time"

// Mission is the PDS3 MISSION catalog variant: exactly one
// MISSION_INFORMATION, exactly one MISSION_HOST (carrying 1..n
// MISSION_TARGET), and 0..n MISSION_REFERENCE_INFORMATION.
type Mission struct {
	Name       string
	StartDate  time.Time
	StopDate   time.Time
	HostID     string
	Targets    []string
	References []map[string]string
	Properties map[string]string
}

// ParseMission validates and projects a generic object tree rooted at
// `OBJECT = MISSION` into a [Mission].
func ParseMission(file string, root *Object) (*Mission, error) {
	obj, err := requireOne(file, root, "MISSION")
	if err != nil {
		return nil, err
	}
	info, err := requireOne(file, obj, "MISSION_INFORMATION")
	if err != nil {
		return nil, err
	}
	host, err := requireOne(file, obj, "MISSION_HOST")
	if err != nil {
		return nil, err
	}
	targetObjs, err := requireAtLeastOne(file, host, "MISSION_TARGET")
	if err != nil {
		return nil, err
	}

	m := &Mission{
		Name:       info.Property("MISSION_NAME").Str,
		HostID:     host.Property("INSTRUMENT_HOST_ID").Str,
		Properties: properties(info, "MISSION_NAME", "MISSION_START_DATE", "MISSION_STOP_DATE"),
	}
	if v := info.Property("MISSION_START_DATE"); v.Kind == ValueDate {
		m.StartDate = v.Date
	}
	if v := info.Property("MISSION_STOP_DATE"); v.Kind == ValueDate {
		m.StopDate = v.Date
	}
	for _, t := range targetObjs {
		m.Targets = append(m.Targets, t.Property("TARGET_NAME").Str)
	}
	for _, ref := range obj.ChildrenOf("MISSION_REFERENCE_INFORMATION") {
		m.References = append(m.References, properties(ref))
	}
	return m, nil
}
