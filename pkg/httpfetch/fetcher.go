package httpfetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdssp/pds-crawler/pkg/cache"
	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/httputil"
	"github.com/pdssp/pds-crawler/pkg/observability"
)

// Options configures the fetcher's concurrency and retry policy, per the
// HTTP fetcher design's enumerated contracts.
type Options struct {
	MaxInFlight   int
	PerHostCap    int
	MaxAttempts   int
	BaseBackoff   time.Duration
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// DefaultOptions returns conservative defaults suitable for polite
// crawling of a shared upstream service.
func DefaultOptions() Options {
	return Options{
		MaxInFlight:    8,
		PerHostCap:     2,
		MaxAttempts:    5,
		BaseBackoff:    time.Second,
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    60 * time.Second,
	}
}

// Fetcher is the bounded-concurrency client. The zero value is not
// usable; construct with [New].
type Fetcher struct {
	http    *http.Client
	opts    Options
	cache   cache.Cache // optional distributed dedup backend; may be nil
	keyer   cache.Keyer
	hostLim *hostLimiter
}

// New constructs a Fetcher. dedup may be nil, in which case every job is
// attempted without cross-process short-circuiting.
func New(opts Options, dedup cache.Cache) *Fetcher {
	return &Fetcher{
		http: &http.Client{
			Timeout: opts.ConnectTimeout + opts.ReadTimeout,
		},
		opts:    opts,
		cache:   dedup,
		keyer:   cache.NewDefaultKeyer(),
		hostLim: newHostLimiter(max(opts.PerHostCap, 1)),
	}
}

// Fetch downloads every job to its target path, bounded by
// Options.MaxInFlight globally and Options.PerHostCap per host. It
// returns once every job has been attempted, with the list of paths that
// exist (were downloaded or already present) and a closed channel that
// holds every job's lifecycle events.
//
// Cancellation finishes in-flight downloads to a safe boundary (no
// partial files) before returning; Fetch does not abort a download that
// is already past its final rename.
func (f *Fetcher) Fetch(ctx context.Context, jobs []Job) ([]string, <-chan Event) {
	events := make(chan Event, 2*len(jobs))
	completed := make([]string, 0, len(jobs))
	resultsMu := make(chan struct{}, 1)
	resultsMu <- struct{}{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.opts.MaxInFlight, 1))

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			sem := f.hostLim.acquire(hostOf(job))
			defer f.hostLim.release(sem)

			events <- Event{Job: job, Kind: EventStarted}

			if f.resumable(job) {
				events <- Event{Job: job, Kind: EventCompleted, BytesDone: job.ExpectedSize}
				<-resultsMu
				completed = append(completed, job.Path)
				resultsMu <- struct{}{}
				return nil
			}

			var suspect bool
			err := httputil.Retry(gctx, max(f.opts.MaxAttempts, 1), f.opts.BaseBackoff, func() error {
				var attemptErr error
				suspect, attemptErr = f.attempt(gctx, job)
				return attemptErr
			})
			if err != nil {
				events <- Event{Job: job, Kind: EventFailed, Err: err}
				// A single job's permanent failure does not abort the
				// others; the driver records it against the collection.
				return nil
			}

			events <- Event{Job: job, Kind: EventCompleted, BytesDone: job.ExpectedSize, Suspect: suspect}
			<-resultsMu
			completed = append(completed, job.Path)
			resultsMu <- struct{}{}
			return nil
		})
	}

	// Each job sends exactly two events (started, then completed or
	// failed), so the buffer never blocks a worker and waiting here is
	// safe; completed is final once Wait returns.
	g.Wait()
	close(events)
	return completed, events
}

// resumable reports whether job's target already exists with the
// expected size (and checksum, when known), per the fetcher's resume
// contract.
func (f *Fetcher) resumable(job Job) bool {
	info, err := os.Stat(job.Path)
	if err != nil {
		return false
	}
	if job.ExpectedSize > 0 && info.Size() != job.ExpectedSize {
		return false
	}
	if job.ExpectedChecksum != "" {
		sum, err := fileSHA256(job.Path)
		if err != nil || sum != job.ExpectedChecksum {
			return false
		}
	}
	return true
}

// attempt performs a single download attempt, writing to a temp sibling
// and renaming into place on success. Transport errors, 5xx, and 429 are
// wrapped as retryable; other 4xx are terminal. The returned bool
// reports whether the response's content-type didn't match
// job.AllowedContentType; the file is still written, and the caller
// surfaces this through the completed event so a phase can flag it
// instead of silently trusting a mismatched payload.
func (f *Fetcher) attempt(ctx context.Context, job Job) (bool, error) {
	if f.cache != nil {
		key := f.keyer.HTTPKey("fetch", job.URL)
		if data, hit, err := f.cache.Get(ctx, key); err == nil && hit {
			return false, writeTemp(job.Path, data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		return false, pdserrors.Wrap(pdserrors.ErrCodePermanentIO, err, "building request")
	}

	host := hostOf(job)
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, req.URL.Path)
	requestStart := time.Now()

	resp, err := f.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, req.URL.Path, err)
		return false, httputil.Retryable(pdserrors.Wrap(pdserrors.ErrCodeTransientIO, err, "transport error"))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, req.URL.Path, resp.StatusCode, time.Since(requestStart))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return false, httputil.Retryable(pdserrors.New(pdserrors.ErrCodeTransientIO, "server error or rate limited"))
	default:
		return false, pdserrors.New(pdserrors.ErrCodePermanentIO, "non-retriable http status")
	}

	suspect := len(job.AllowedContentType) > 0 && !contentTypeAllowed(resp.Header.Get("Content-Type"), job.AllowedContentType)
	if suspect {
		observability.HTTP().OnError(ctx, http.MethodGet, host, req.URL.Path, pdserrors.New(pdserrors.ErrCodeMalformedUpstream, "unexpected content-type %q", resp.Header.Get("Content-Type")))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return suspect, httputil.Retryable(pdserrors.Wrap(pdserrors.ErrCodeTransientIO, err, "reading response body"))
	}

	if err := writeTemp(job.Path, data); err != nil {
		return suspect, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "writing fetched file")
	}

	if f.cache != nil && !suspect {
		_ = f.cache.Set(ctx, f.keyer.HTTPKey("fetch", job.URL), data, time.Hour)
	}
	return suspect, nil
}

func contentTypeAllowed(got string, allowed []string) bool {
	got = strings.ToLower(strings.TrimSpace(strings.SplitN(got, ";", 2)[0]))
	for _, a := range allowed {
		if strings.ToLower(a) == got {
			return true
		}
	}
	return false
}

// writeTemp writes data to a fresh temp sibling of path and atomically
// renames it into place; on a write failure it removes its own temp
// file. Temp files left by earlier attempts are not cleaned up.
func writeTemp(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
