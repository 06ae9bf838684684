// Package refcodes holds the shared label mappings for coded enums:
// payment status, payment type and merchant status. The cache is a
// process-wide service injected into the serving layer; it starts empty,
// loads lazily and refreshes after a staleness window.
package refcodes

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"paydash/internal/gateway"
	"paydash/internal/log"
)

// DefaultTTL is the staleness window after which a refresh is allowed.
const DefaultTTL = 5 * time.Minute

// Cache maps codes to human labels for the three reference kinds.
//
// Loading is single-flight: concurrent EnsureLoaded calls coalesce onto
// one in-flight refresh, so each mapping is fetched at most once per
// refresh. The three mappings are swapped in together or not at all, so
// readers never observe a mixed old/new state.
type Cache struct {
	src    gateway.CodeLister
	ttl    time.Duration
	logger *log.Logger
	sf     singleflight.Group

	mu          sync.RWMutex
	maps        map[gateway.CodeKind]map[string]string
	lastFetched time.Time
}

// New returns an empty cache backed by src. A non-positive ttl falls
// back to DefaultTTL.
func New(src gateway.CodeLister, ttl time.Duration, logger *log.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent("refcodes")
	}
	return &Cache{
		src:    src,
		ttl:    ttl,
		logger: logger,
		maps:   make(map[gateway.CodeKind]map[string]string),
	}
}

// EnsureLoaded refreshes the mappings unless the last successful fetch
// is still within the TTL (and force is false). It is idempotent and
// safe to call from every request path.
//
// A fetch failure is logged and swallowed: the previous consistent
// mappings stay in place and label lookups keep falling back to raw
// codes, so no error reaches the caller.
func (c *Cache) EnsureLoaded(ctx context.Context, force bool) {
	c.mu.RLock()
	fresh := !c.lastFetched.IsZero() && time.Since(c.lastFetched) < c.ttl
	c.mu.RUnlock()
	if fresh && !force {
		return
	}

	// The refresh is shared process-wide state, so detach it from the
	// initiating request: one client disconnecting must not cancel the
	// fetch for everyone coalesced onto it.
	_, _, _ = c.sf.Do("refresh", func() (any, error) {
		c.refresh(context.WithoutCancel(ctx))
		return nil, nil
	})
}

// Invalidate makes the next EnsureLoaded fetch regardless of age.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.lastFetched = time.Time{}
	c.mu.Unlock()
}

// Label returns the human label for code within kind, or the raw code
// when the mapping is absent or empty. It never fails.
func (c *Cache) Label(kind gateway.CodeKind, code string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if label, ok := c.maps[kind][code]; ok && label != "" {
		return label
	}
	return code
}

// Labels returns a copy of the full mapping for kind, used to build
// filter option lists.
func (c *Cache) Labels(kind gateway.CodeKind) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.maps[kind]))
	for k, v := range c.maps[kind] {
		out[k] = v
	}
	return out
}

func (c *Cache) refresh(ctx context.Context) {
	kinds := []gateway.CodeKind{
		gateway.PaymentStatusCodes,
		gateway.PaymentTypeCodes,
		gateway.MchtStatusCodes,
	}

	fetched := make([]map[string]string, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			items, err := c.src.ListCodes(gctx, kind)
			if err != nil {
				return err
			}
			m := make(map[string]string, len(items))
			for _, it := range items {
				if k := it.Key(); k != "" {
					m[k] = it.Description
				}
			}
			fetched[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.WarnContext(ctx, "reference code refresh failed, keeping previous labels", "error", err)
		return
	}

	c.mu.Lock()
	c.maps = map[gateway.CodeKind]map[string]string{
		gateway.PaymentStatusCodes: fetched[0],
		gateway.PaymentTypeCodes:   fetched[1],
		gateway.MchtStatusCodes:    fetched[2],
	}
	c.lastFetched = time.Now()
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "reference codes refreshed",
		"payment_status", len(fetched[0]),
		"payment_type", len(fetched[1]),
		"mcht_status", len(fetched[2]))
}
