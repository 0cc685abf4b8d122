package registry

import (
	"bufio"
	"context"
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/model"
)

// entry is one line of the registry's on-disk JSON-lines snapshot.
type entry struct {
	Target     string                     `json:"target"`
	Mission    string                     `json:"mission"`
	Host       string                     `json:"host"`
	Instrument string                     `json:"instrument"`
	DatasetID  string                     `json:"dataset_id"`
	Descriptor model.CollectionDescriptor `json:"descriptor"`
}

func (e entry) fingerprint() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{
		Target: e.Target, Mission: e.Mission, Host: e.Host,
		Instrument: e.Instrument, DatasetID: e.DatasetID,
	}
}

// FileStore is the default [Store]: a JSON-lines snapshot file at the
// path given to [NewFileStore], with write-new-then-rename writes and an exclusive
// advisory file lock serializing writers. It holds a full in-memory copy
// and flushes the whole snapshot on every write, which is fine at the
// registry's scale (thousands, not millions, of descriptors).
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[fingerprint.Fingerprint]model.CollectionDescriptor
}

// NewFileStore opens (or creates) the registry snapshot file at path.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: map[fingerprint.Fingerprint]model.CollectionDescriptor{}}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	f, err := os.Open(fs.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "opening registry snapshot")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "decoding registry entry")
		}
		fs.data[e.fingerprint()] = e.Descriptor
	}
	return scanner.Err()
}

// Put inserts or replaces the descriptor for fp and flushes the snapshot.
func (fs *FileStore) Put(_ context.Context, fp fingerprint.Fingerprint, descriptor model.CollectionDescriptor) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data[fp] = descriptor
	return fs.flush()
}

// Get returns the descriptor for fp, or ok=false if absent.
func (fs *FileStore) Get(_ context.Context, fp fingerprint.Fingerprint) (model.CollectionDescriptor, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	d, ok := fs.data[fp]
	return d, ok, nil
}

// All returns a lazy sequence over stored descriptors, optionally
// filtered by target body.
func (fs *FileStore) All(_ context.Context, target string) iter.Seq2[fingerprint.Fingerprint, model.CollectionDescriptor] {
	return func(yield func(fingerprint.Fingerprint, model.CollectionDescriptor) bool) {
		fs.mu.RLock()
		snapshot := make(map[fingerprint.Fingerprint]model.CollectionDescriptor, len(fs.data))
		for k, v := range fs.data {
			snapshot[k] = v
		}
		fs.mu.RUnlock()

		for fp, d := range snapshot {
			if target != "" && fp.Target != target {
				continue
			}
			if !yield(fp, d) {
				return
			}
		}
	}
}

// Close is a no-op for the file store; nothing is held open between calls.
func (fs *FileStore) Close() error { return nil }

// flush writes the full snapshot to a temp sibling under an exclusive
// lock, then renames it over the live file, so a partial write never
// corrupts a prior snapshot.
func (fs *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "creating registry directory")
	}

	lock, err := os.OpenFile(fs.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "opening registry lock")
	}
	defer lock.Close()
	if err := syscall.Flock(int(lock.Fd()), syscall.LOCK_EX); err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "acquiring registry lock")
	}
	defer syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".registry-*.tmp")
	if err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "creating registry temp file")
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for fp, d := range fs.data {
		e := entry{
			Target: fp.Target, Mission: fp.Mission, Host: fp.Host,
			Instrument: fp.Instrument, DatasetID: fp.DatasetID, Descriptor: d,
		}
		if err := enc.Encode(e); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "encoding registry entry")
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "flushing registry snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "closing registry temp file")
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "renaming registry snapshot")
	}
	return nil
}
