// Package healthserver exposes this module's own operational surface over
// HTTP: liveness, Prometheus scrape, and a small JSON stats endpoint over
// the publishers and cache a process has registered. It is optional and
// never started implicitly, mirroring the teacher's habit of keeping its
// HTTP surfaces as separately-composed, separately-started pieces rather
// than bundling them into the main pipeline.
package healthserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/cache"
)

// PublisherStats reports a QueuedPublisher's counters; satisfied by
// *publisher.QueuedPublisher.
type PublisherStats interface {
	Stats() (total, dropped, errors uint64)
}

// Server serves /healthz, /metrics, and /stats/* over a gorilla/mux router,
// the teacher's standard choice for its own HTTP surfaces (see
// internal/sinks' use of gorilla/mux path variables).
type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger

	publishers map[string]PublisherStats
	memCache   *cache.MemoryCache
}

// New builds a Server bound to addr. publishers and memCache are optional;
// a nil memCache simply omits the cache stats route's entry.
func New(addr string, publishers map[string]PublisherStats, memCache *cache.MemoryCache, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{logger: logger, publishers: publishers, memCache: memCache}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/stats/publishers", s.handlePublisherStats).Methods(http.MethodGet)
	r.HandleFunc("/stats/cache", s.handleCacheStats).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type publisherStatsResponse struct {
	Total   uint64 `json:"total"`
	Dropped uint64 `json:"dropped"`
	Errors  uint64 `json:"errors"`
}

func (s *Server) handlePublisherStats(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]publisherStatsResponse, len(s.publishers))
	for name, p := range s.publishers {
		total, dropped, errs := p.Stats()
		out[name] = publisherStatsResponse{Total: total, Dropped: dropped, Errors: errs}
	}
	s.writeJSON(w, out)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	if s.memCache == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, map[string]int{"memory_entries": len(s.memCache.Snapshot())})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode health server response")
	}
}

// Start runs the server in a background goroutine.
func (s *Server) Start() {
	s.logger.WithField("addr", s.httpServer.Addr).Info("starting health server")
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("health server error")
		}
	}()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping health server")
	return s.httpServer.Shutdown(ctx)
}
