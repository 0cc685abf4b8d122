package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func drain(events <-chan Event) []Event {
	var out []Event
	for e := range events {
		out = append(out, e)
	}
	return out
}

func TestFetchDownloadsToPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("record payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := New(DefaultOptions(), nil)
	path := filepath.Join(dir, "out.dat")

	completed, events := f.Fetch(context.Background(), []Job{{URL: srv.URL, Path: path}})
	drain(events)

	if len(completed) != 1 || completed[0] != path {
		t.Fatalf("completed = %v, want [%s]", completed, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "record payload" {
		t.Errorf("content = %q, want %q", data, "record payload")
	}
}

func TestFetchResumesExistingFile(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("abc"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.dat")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	f := New(DefaultOptions(), nil)
	_, events := f.Fetch(context.Background(), []Job{{URL: srv.URL, Path: path, ExpectedSize: 3}})
	drain(events)

	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("server hit %d times, want 0 (should have resumed from existing file)", hits)
	}
}

func TestFetchRetriesOn500ThenSucceeds(t *testing.T) {
	var attempt int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempt, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.dat")

	opts := DefaultOptions()
	opts.BaseBackoff = time.Millisecond
	f := New(opts, nil)

	completed, events := f.Fetch(context.Background(), []Job{{URL: srv.URL, Path: path}})
	evs := drain(events)

	if len(completed) != 1 {
		t.Fatalf("completed = %v, want one entry after eventual success", completed)
	}
	var sawFailed bool
	for _, e := range evs {
		if e.Kind == EventFailed {
			sawFailed = true
		}
	}
	if sawFailed {
		t.Error("job should have succeeded on retry, not reported failed")
	}
}

func TestFetchPermanentFailureDoesNotRetry(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.dat")
	f := New(DefaultOptions(), nil)

	_, events := f.Fetch(context.Background(), []Job{{URL: srv.URL, Path: path}})
	evs := drain(events)

	if atomic.LoadInt32(&attempts) != 1 {
		t.Errorf("attempts = %d, want 1 (404 is not retryable)", attempts)
	}
	var sawFailed bool
	for _, e := range evs {
		if e.Kind == EventFailed {
			sawFailed = true
		}
	}
	if !sawFailed {
		t.Error("expected a failed event for a permanent 404")
	}
}

func TestHostLimiterCapsPerHostConcurrency(t *testing.T) {
	h := newHostLimiter(1)
	ch := h.acquire("example.com")

	acquired := make(chan struct{})
	go func() {
		h.acquire("example.com")
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire on same host should block while cap is 1")
	case <-time.After(20 * time.Millisecond):
	}

	h.release(ch)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire should unblock once the first is released")
	}
}

func TestHostOfDerivesFromURL(t *testing.T) {
	job := Job{URL: "https://pds-imaging.jpl.nasa.gov/data/file.img"}
	if got := hostOf(job); got != "pds-imaging.jpl.nasa.gov" {
		t.Errorf("hostOf() = %q, want %q", got, "pds-imaging.jpl.nasa.gov")
	}

	job = Job{URL: "https://example.com/x", Host: "explicit-host"}
	if got := hostOf(job); got != "explicit-host" {
		t.Errorf("hostOf() = %q, want explicit Host field value", got)
	}
}
