package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/fingerprint"
)

// Store is the file store: a root directory containing one
// self-contained subtree per collection fingerprint.
type Store struct {
	root string
}

// New creates a file store rooted at root. The directory is created on
// first write, not on construction.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// CollectionDir returns the self-contained directory for a fingerprint:
// `<root>/target/mission/host/instrument/dataset_id`.
func (s *Store) CollectionDir(fp fingerprint.Fingerprint) string {
	segments := append([]string{s.root}, fp.Path()...)
	return filepath.Join(segments...)
}

func (s *Store) recordsDir(fp fingerprint.Fingerprint) string {
	return filepath.Join(s.CollectionDir(fp), "records")
}

func (s *Store) pds3Dir(fp fingerprint.Fingerprint) string {
	return filepath.Join(s.CollectionDir(fp), "pds3")
}

func (s *Store) stacDir(fp fingerprint.Fingerprint) string {
	return filepath.Join(s.CollectionDir(fp), "stac")
}

func (s *Store) quarantineDir(fp fingerprint.Fingerprint) string {
	return filepath.Join(s.CollectionDir(fp), "quarantine")
}

// pageFilename derives the deterministic page index used by HasPage,
// WritePage, and ListMissingPages.
func pageFilename(index int) string {
	return fmt.Sprintf("page_%03d.json", index)
}

// PagePath returns the absolute path a page at index would occupy for
// fp, without writing anything. Used by the HTTP fetcher to target a
// download directly at its canonical on-disk location.
func (s *Store) PagePath(fp fingerprint.Fingerprint, index int) string {
	return filepath.Join(s.recordsDir(fp), pageFilename(index))
}

// HasPage reports whether the page at index exists for fp.
func (s *Store) HasPage(fp fingerprint.Fingerprint, index int) bool {
	_, err := os.Stat(filepath.Join(s.recordsDir(fp), pageFilename(index)))
	return err == nil
}

// WritePage atomically persists page bytes for fp at index: a partial
// page, or a crash mid-write, must never be observable. On failure the
// prior content is preserved.
func (s *Store) WritePage(fp fingerprint.Fingerprint, index int, data []byte) error {
	return atomicWrite(filepath.Join(s.recordsDir(fp), pageFilename(index)), data)
}

// ReadPage returns the bytes of a previously written page.
func (s *Store) ReadPage(fp fingerprint.Fingerprint, index int) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.recordsDir(fp), pageFilename(index)))
	if err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "reading page")
	}
	return data, nil
}

// ListMissingPages returns the indices in [0, totalPages) that have no
// page file on disk, used to resume extraction.
func (s *Store) ListMissingPages(fp fingerprint.Fingerprint, totalPages int) []int {
	var missing []int
	for i := 0; i < totalPages; i++ {
		if !s.HasPage(fp, i) {
			missing = append(missing, i)
		}
	}
	return missing
}

// ListPages enumerates the page indices already written for fp, sorted
// ascending. Used by the transformer to stream every record page
// without needing the collection's declared total up front.
func (s *Store) ListPages(fp fingerprint.Fingerprint) ([]int, error) {
	entries, err := os.ReadDir(s.recordsDir(fp))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "listing records directory")
	}
	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(e.Name(), "page_%03d.json", &idx); err == nil {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)
	return indices, nil
}

// PDS3File is one catalog object file found in a collection's pds3/
// directory.
type PDS3File struct {
	Kind string // catalog kind, derived from the filename
	Path string // absolute path on disk
}

// ListPDS3 enumerates the catalog object files present for fp.
func (s *Store) ListPDS3(fp fingerprint.Fingerprint) ([]PDS3File, error) {
	entries, err := os.ReadDir(s.pds3Dir(fp))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "listing pds3 directory")
	}
	files := make([]PDS3File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, PDS3File{
			Kind: catalogKindFromFilename(e.Name()),
			Path: filepath.Join(s.pds3Dir(fp), e.Name()),
		})
	}
	return files, nil
}

// WritePDS3 atomically persists a catalog object file named by its
// upstream filename.
func (s *Store) WritePDS3(fp fingerprint.Fingerprint, filename string, data []byte) error {
	return atomicWrite(filepath.Join(s.pds3Dir(fp), filename), data)
}

// PDS3Path returns the absolute path a catalog object file named by its
// upstream filename would occupy for fp, without writing anything. Used
// by the HTTP fetcher to target a download directly at its canonical
// on-disk location.
func (s *Store) PDS3Path(fp fingerprint.Fingerprint, filename string) string {
	return filepath.Join(s.pds3Dir(fp), filename)
}

// Quarantine retains a malformed upstream response under the collection's
// quarantine sibling directory, per the malformed-upstream error path.
func (s *Store) Quarantine(fp fingerprint.Fingerprint, filename string, data []byte) error {
	return atomicWrite(filepath.Join(s.quarantineDir(fp), filename), data)
}

// StacPath returns the absolute path for a STAC document relative to the
// collection's stac/ directory, e.g. "collection.json" or
// "items/1234.json".
func (s *Store) StacPath(fp fingerprint.Fingerprint, relPath string) string {
	return filepath.Join(s.stacDir(fp), relPath)
}

// WriteSTAC atomically writes a STAC document at relPath under the
// collection's stac/ directory.
func (s *Store) WriteSTAC(fp fingerprint.Fingerprint, relPath string, data []byte) error {
	return atomicWrite(s.StacPath(fp, relPath), data)
}

// ReadSTAC reads a previously written STAC document.
func (s *Store) ReadSTAC(fp fingerprint.Fingerprint, relPath string) ([]byte, error) {
	data, err := os.ReadFile(s.StacPath(fp, relPath))
	if err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "reading stac document")
	}
	return data, nil
}

// globalStacDir is the root-level STAC tree shared across collections:
// the root catalog.json and the mission/host/instrument catalogs deduplicated
// across every fingerprint that shares them.
func (s *Store) globalStacDir() string {
	return filepath.Join(s.root, "stac")
}

// GlobalStacPath returns the absolute path for a shared catalog document
// under the root-level STAC tree, e.g. "catalog.json" or
// "mars-global-surveyor/mgs/catalog.json".
func (s *Store) GlobalStacPath(relPath string) string {
	return filepath.Join(s.globalStacDir(), relPath)
}

// WriteGlobalSTAC atomically writes a shared catalog document at relPath
// under the root-level STAC tree.
func (s *Store) WriteGlobalSTAC(relPath string, data []byte) error {
	return atomicWrite(s.GlobalStacPath(relPath), data)
}

// ReadGlobalSTAC reads a previously written shared catalog document. It
// returns ErrCodeNotFound if relPath has never been written.
func (s *Store) ReadGlobalSTAC(relPath string) ([]byte, error) {
	data, err := os.ReadFile(s.GlobalStacPath(relPath))
	if os.IsNotExist(err) {
		return nil, pdserrors.New(pdserrors.ErrCodeNotFound, "global stac document %s not written yet", relPath)
	}
	if err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "reading global stac document")
	}
	return data, nil
}

// WriteSummary atomically writes a machine-readable per-phase summary at
// the root of the storage tree, per the driver's reporting contract.
func (s *Store) WriteSummary(name string, data []byte) error {
	return atomicWrite(filepath.Join(s.root, name), data)
}

// Scope names a reset operation's extent.
type Scope string

const (
	ScopeFiles Scope = "files"
	ScopeSTAC  Scope = "stac"
)

// Reset deletes the given scope for fp: ScopeFiles removes records/ and
// pds3/, ScopeSTAC removes stac/ (returning the collection's STAC
// subtree to the "absent" state), and an empty scope removes the entire
// collection directory.
func (s *Store) Reset(fp fingerprint.Fingerprint, scope Scope) error {
	var target string
	switch scope {
	case ScopeFiles:
		if err := os.RemoveAll(s.recordsDir(fp)); err != nil {
			return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "resetting records")
		}
		target = s.pds3Dir(fp)
	case ScopeSTAC:
		target = s.stacDir(fp)
	default:
		target = s.CollectionDir(fp)
	}
	if err := os.RemoveAll(target); err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "resetting scope")
	}
	return nil
}

// atomicWrite writes data to a temp sibling of path and renames it into
// place, so a crash between the two steps leaves the prior content (or
// nothing) intact, never a partial file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "creating directory")
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "creating temp file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "closing temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "renaming into place")
	}
	return nil
}

// catalogKindFromFilename derives a display kind from a PDS3 file name
// for reporting purposes; the parser factory does its own, more careful,
// dispatch independent of this heuristic.
func catalogKindFromFilename(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
