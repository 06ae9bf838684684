// Package http serves the dashboard view models as JSON. Handlers fetch
// collections through the gateway ports, shape them with the query and
// aggregate packages, resolve labels through the reference-code cache
// and hand the result to the external rendering layer.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"paydash/internal/cache"
	"paydash/internal/core"
	"paydash/internal/gateway"
	"paydash/internal/log"
	"paydash/internal/middleware/ratelimit"
	"paydash/internal/refcodes"
)

const fetchTimeout = 7 * time.Second

type Server struct {
	http.Server
	source  gateway.Source
	codes   *refcodes.Cache
	logger  *log.Logger
	limiter *ratelimit.Limiter

	// Collection snapshots so repeated view requests within the TTL
	// reuse one gateway fetch.
	paymentsCache  *cache.Snapshot[[]core.Transaction]
	merchantsCache *cache.Snapshot[[]core.Merchant]
	detailsCache   *cache.Keyed[core.MerchantDetails]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, src gateway.Source, codes *refcodes.Cache, logger *log.Logger, snapshotTTL time.Duration) *Server {
	if snapshotTTL <= 0 {
		snapshotTTL = 30 * time.Second
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		source:           src,
		codes:            codes,
		logger:           logger.WithComponent(log.ComponentHTTP),
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		paymentsCache:    cache.NewSnapshot[[]core.Transaction](snapshotTTL),
		merchantsCache:   cache.NewSnapshot[[]core.Merchant](snapshotTTL),
		detailsCache:     cache.NewKeyed[core.MerchantDetails](200, snapshotTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/merchants", s.withMiddleware(s.handleMerchants))
	mux.HandleFunc("/api/merchants/", s.withMiddleware(s.handleMerchantDetails))
	mux.HandleFunc("/api/settlements", s.withMiddleware(s.handleSettlements))

	return s
}

// withMiddleware adds request IDs, rate limiting, security headers and
// request logging around a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := ratelimit.ClientIP(r)

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.DebugContext(ctx, "request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if !s.limiter.Allow(clientIP) {
			s.logger.WarnContext(ctx, "rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// payments returns the current transaction snapshot. A fetch failure is
// logged and degrades to an empty collection; the view renders empty
// instead of erroring.
func (s *Server) payments(ctx context.Context) []core.Transaction {
	if items, ok := s.paymentsCache.Get(); ok {
		return items
	}
	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	items, err := s.source.ListPayments(cctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "payment list fetch failed", "error", err)
		return nil
	}
	s.paymentsCache.Set(items)
	return items
}

// merchants mirrors payments for the merchant collection.
func (s *Server) merchants(ctx context.Context) []core.Merchant {
	if items, ok := s.merchantsCache.Get(); ok {
		return items
	}
	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	items, err := s.source.ListMerchants(cctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "merchant list fetch failed", "error", err)
		return nil
	}
	s.merchantsCache.Set(items)
	return items
}

func (s *Server) merchantDetails(ctx context.Context, mchtCode string) (core.MerchantDetails, error) {
	if d, ok := s.detailsCache.Get(mchtCode); ok {
		return d, nil
	}
	cctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	d, err := s.source.GetMerchant(cctx, mchtCode)
	if err != nil {
		return core.MerchantDetails{}, err
	}
	s.detailsCache.Set(mchtCode, d)
	return d, nil
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.detailsCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("cache cleanup completed", "details_entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
