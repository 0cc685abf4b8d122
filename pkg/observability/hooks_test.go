package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// ETL hooks
	e := NoopETLHooks{}
	e.OnDiscoverStart(ctx, "MARS")
	e.OnDiscoverComplete(ctx, "MARS", 12, time.Second, nil)
	e.OnExtractStart(ctx, "MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0", 10)
	e.OnExtractComplete(ctx, "MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0", 10, time.Second, nil)
	e.OnTransformStart(ctx, "MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0")
	e.OnTransformComplete(ctx, "MARS/MGS/MOLA/MGS-M-MOLA-3-PEDR-L1A-V1.0", 6, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "page")
	c.OnCacheMiss(ctx, "descriptor")
	c.OnCacheSet(ctx, "http", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "oderest.rsl.wustl.edu", "/live2/?target=mars")
	h.OnResponse(ctx, "GET", "oderest.rsl.wustl.edu", "/live2/?target=mars", 200, time.Second)
	h.OnError(ctx, "GET", "oderest.rsl.wustl.edu", "/live2/?target=mars", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := ETL().(NoopETLHooks); !ok {
		t.Error("ETL() should return NoopETLHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customETL := &testETLHooks{}
	SetETLHooks(customETL)
	if ETL() != customETL {
		t.Error("SetETLHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := ETL().(NoopETLHooks); !ok {
		t.Error("Reset() should restore NoopETLHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testETLHooks{}
	SetETLHooks(custom)

	// Setting nil should be ignored
	SetETLHooks(nil)

	if ETL() != custom {
		t.Error("SetETLHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testETLHooks struct{ NoopETLHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
