package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// HTTPKey
	httpKey := k.HTTPKey("ode:", "requests")
	if httpKey != "http:ode::requests" {
		t.Errorf("HTTPKey unexpected: %s", httpKey)
	}

	// PageKey should differ by page index
	pk1 := k.PageKey("MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0", 0)
	pk2 := k.PageKey("MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0", 1)
	if pk1 == pk2 {
		t.Error("Different page indices should produce different keys")
	}

	// DescriptorKey should differ by fingerprint
	dk1 := k.DescriptorKey("MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0")
	dk2 := k.DescriptorKey("MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1B-V1.0")
	if dk1 == dk2 {
		t.Error("Different fingerprints should produce different descriptor keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "mars:")

	// All keys should be prefixed
	httpKey := scoped.HTTPKey("ode:", "MGS-M-MOLA-3-PEDR-L1A-V1.0")
	if httpKey != "mars:http:ode::MGS-M-MOLA-3-PEDR-L1A-V1.0" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", httpKey)
	}

	pageKey := scoped.PageKey("MGS-M-MOLA-3-PEDR-L1A-V1.0", 3)
	if len(pageKey) < 5 || pageKey[:5] != "mars:" {
		t.Errorf("ScopedKeyer PageKey should be prefixed: %s", pageKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.HTTPKey("test:", "key")
	if key != "prefix:http:test::key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	k := NewDefaultKeyer()
	key := k.PageKey("MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0", 0)

	_, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	if err := c.Set(ctx, key, []byte(`{"page":0}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != `{"page":0}` {
		t.Errorf("Get data = %s, want %s", data, `{"page":0}`)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, key)
	if hit {
		t.Error("expected miss after Delete")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := "expiring-key"
	if err := c.Set(ctx, key, []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	_, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected expired entry to be a miss")
	}
}

