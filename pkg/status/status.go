// Package status exposes the ETL driver's current phase/collection
// progress over a local HTTP endpoint, for operators watching a long
// crawl. It is not a query API over the produced STAC catalog.
package status

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Snapshot is the progress state served at GET /status.
type Snapshot struct {
	Phase            string `json:"phase"`
	Collection       string `json:"collection,omitempty"`
	CollectionsDone  int    `json:"collections_done"`
	CollectionsTotal int    `json:"collections_total"`
	Failures         int    `json:"failures"`
}

// Server tracks a Snapshot and serves it as JSON. The zero value is not
// usable; construct with [New].
type Server struct {
	mu       sync.RWMutex
	snapshot Snapshot
	handler  http.Handler
}

// New constructs a status server. Call Update as the driver progresses
// and ListenAndServe (or Handler, for embedding) to expose it.
func New() *Server {
	s := &Server{}

	r := chi.NewRouter()
	r.Get("/status", s.handleStatus)
	s.handler = r

	return s
}

// Update replaces the current snapshot. Safe for concurrent use; the
// driver calls this from its single coordinator goroutine between
// collections.
func (s *Server) Update(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Handler returns the status endpoint's http.Handler, for embedding into
// a larger mux instead of listening directly.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves the status endpoint at addr until ctx-driven
// shutdown is handled by the caller (e.g. via http.Server.Shutdown).
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.handler)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}
