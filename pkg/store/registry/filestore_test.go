package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/model"
)

func TestFileStorePutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer fs.Close()

	fp, _ := fingerprint.New("mars", "mgs", "mgs", "mola", "MGS-M-MOLA-3-PEDR-L1A-V1.0")
	descriptor := model.CollectionDescriptor{Target: "MARS", ProductCount: 1000, FootprintValid: true}

	ctx := context.Background()
	if err := fs.Put(ctx, fp, descriptor); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, ok, err := fs.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", got, ok, err)
	}
	if got.ProductCount != 1000 {
		t.Errorf("ProductCount = %d, want 1000", got.ProductCount)
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry")
	fp, _ := fingerprint.New("mars", "mgs", "mgs", "mola", "ds1")
	descriptor := model.CollectionDescriptor{Target: "MARS", ProductCount: 5, FootprintValid: true}

	fs, _ := NewFileStore(path)
	fs.Put(context.Background(), fp, descriptor)
	fs.Close()

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() reopen error: %v", err)
	}
	got, ok, _ := reopened.Get(context.Background(), fp)
	if !ok || got.ProductCount != 5 {
		t.Errorf("Get() after reopen = %+v, %v", got, ok)
	}
}

func TestFileStoreAllFiltersByTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry")
	fs, _ := NewFileStore(path)
	defer fs.Close()

	ctx := context.Background()
	marsFP, _ := fingerprint.New("mars", "mgs", "mgs", "mola", "ds1")
	moonFP, _ := fingerprint.New("moon", "apollo", "apollo", "camera", "ds2")
	fs.Put(ctx, marsFP, model.CollectionDescriptor{Target: "MARS"})
	fs.Put(ctx, moonFP, model.CollectionDescriptor{Target: "MOON"})

	count := 0
	for fp := range fs.All(ctx, "MARS") {
		count++
		if fp.Target != "MARS" {
			t.Errorf("unexpected target %q in filtered results", fp.Target)
		}
	}
	if count != 1 {
		t.Errorf("filtered count = %d, want 1", count)
	}

	total := 0
	for range fs.All(ctx, "") {
		total++
	}
	if total != 2 {
		t.Errorf("unfiltered count = %d, want 2", total)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry")
	fs, _ := NewFileStore(path)
	defer fs.Close()

	fp, _ := fingerprint.New("mars", "mgs", "mgs", "mola", "nonexistent")
	_, ok, err := fs.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("Get() should return ok=false for a missing fingerprint")
	}
}
