package stac

import "strings"

// RootID is the fixed identifier of the tree's single root catalog.
const RootID = "root"

// normalizeID derives a STAC-safe identifier from an upstream name: the
// identifier-normalization rules left open by the PDS3 catalog files
// (casing, spaces, punctuation vary by archive) are resolved here, once,
// as lowercase with runs of non-alphanumeric characters collapsed to a
// single hyphen. Empty input normalizes to "unknown" so a catalog never
// ends up with an empty ID.
func normalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "unknown"
	}
	var b strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	id := strings.TrimRight(b.String(), "-")
	if id == "" {
		return "unknown"
	}
	return id
}

// Parent catalog ids are deterministic functions of the fingerprint's own
// components, never of PDS3-sourced names: a mission/host/instrument's
// identity must stay stable regardless of whether transform_pds3 has run
// yet, so that transform_records and transform_pds3 update the same node
// in either order. PDS3-sourced names become a catalog's Title, not its
// ID.
func missionID(fp string) string    { return normalizeID(fp) }
func hostID(fp string) string       { return normalizeID(fp) }
func instrumentID(fp string) string { return normalizeID(fp) }
func collectionID(fp string) string { return normalizeID(fp) }
