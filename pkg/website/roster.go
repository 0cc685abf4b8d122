package website

import "strings"

// rosterEntry pairs a PDS3 catalog kind with the keywords that identify
// it in an anchor's link text. Entries are checked in order, so a more
// specific keyword (e.g. "data_set_map_projection") must precede the
// broader one it's built from ("data_set").
type rosterEntry struct {
	kind     string
	keywords []string
}

var roster = []rosterEntry{
	{kind: "data_set_map_projection", keywords: []string{"data set map projection", "data_set_map_projection", "dsmap"}},
	{kind: "instrument_host", keywords: []string{"instrument host", "instrument_host", "insthost"}},
	{kind: "data_set", keywords: []string{"data set", "data_set", "dataset"}},
	{kind: "volume_descriptor", keywords: []string{"volume descriptor", "voldesc"}},
	{kind: "mission", keywords: []string{"mission"}},
	{kind: "personnel", keywords: []string{"personnel"}},
	{kind: "instrument", keywords: []string{"instrument"}},
	{kind: "reference", keywords: []string{"reference"}},
}

// matchRoster reports the catalog kind an anchor's link text identifies,
// case-insensitively, or ok=false if it matches none.
func matchRoster(text string) (kind string, ok bool) {
	lower := strings.ToLower(text)
	for _, entry := range roster {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.kind, true
			}
		}
	}
	return "", false
}
