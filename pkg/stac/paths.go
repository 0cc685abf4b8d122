package stac

import "path/filepath"

// Global-tree relative paths. Every node above the leaf collection is
// shared by every collection under it, so it lives in the store's
// root-level stac/ tree (filestore.Store.GlobalStacPath) rather than
// under any one collection's directory.

func rootRelPath() string {
	return "catalog.json"
}

func missionRelPath(mission string) string {
	return filepath.Join(mission, "catalog.json")
}

func hostRelPath(mission, host string) string {
	return filepath.Join(mission, host, "catalog.json")
}

func instrumentRelPath(mission, host, instrument string) string {
	return filepath.Join(mission, host, instrument, "catalog.json")
}
