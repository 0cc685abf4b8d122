package httpfetch

import (
	"net/url"
	"sync"
)

// hostLimiter gives every host its own bounded semaphore, so that one
// slow or rate-limiting host cannot starve the global worker pool of
// slots other hosts could use; each host is capped independently of the
// global max_in_flight.
type hostLimiter struct {
	mu  sync.Mutex
	cap int
	sem map[string]chan struct{}
}

func newHostLimiter(perHostCap int) *hostLimiter {
	return &hostLimiter{cap: perHostCap, sem: make(map[string]chan struct{})}
}

func (h *hostLimiter) acquire(host string) chan struct{} {
	h.mu.Lock()
	ch, ok := h.sem[host]
	if !ok {
		ch = make(chan struct{}, h.cap)
		h.sem[host] = ch
	}
	h.mu.Unlock()
	ch <- struct{}{}
	return ch
}

func (h *hostLimiter) release(ch chan struct{}) {
	<-ch
}

func hostOf(job Job) string {
	if job.Host != "" {
		return job.Host
	}
	u, err := url.Parse(job.URL)
	if err != nil {
		return job.URL
	}
	return u.Host
}
