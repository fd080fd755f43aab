package naming

import (
	"context"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// Chain is the ordered naming filter chain. It is built once and safe for
// concurrent use.
type Chain struct {
	filters []Filter
	// split is the index of the first request-scoped filter.
	split int
	cache *lru.Cache[string, *MetricName]
	log   logger.Logger
}

// NewChain sorts filters by descending priority, keeping registration order
// for ties, and returns the chain.
//
// Parameters:
//   - filters: the naming filters; nil entries are skipped. Filters reporting
//     RequestScoped run after the static prefix and are never cached.
//   - cfg: the cache size and the global tags applied by the tag filter
//   - log: logger for naming diagnostics; nil discards
//
// Returns:
//   - *Chain: the sorted chain with an empty static-prefix cache
//   - error: when the cache cannot be created
//
// Example:
//
//	chain, err := naming.NewChain(naming.DefaultFilters(requestctx.ContextProvider{}, nil), naming.Config{}, log)
//	name, err := chain.BuildName(ctx, callsite.FieldOf(widgetType, "total"), naming.KindCounter)
func NewChain(filters []Filter, cfg Config, log logger.Logger) (*Chain, error) {
	if log == nil {
		log = logger.NewNop()
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *MetricName](size)
	if err != nil {
		return nil, fmt.Errorf("naming: cache: %w", err)
	}

	sorted := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			sorted = append(sorted, f)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	split := len(sorted)
	for i, f := range sorted {
		if rs, ok := f.(RequestScoped); ok && rs.RequestScoped() {
			split = i
			break
		}
	}

	return &Chain{filters: sorted, split: split, cache: cache, log: log}, nil
}

// Filters returns the filters in execution order.
func (c *Chain) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

// BuildName names an observable of kind created at site.
func (c *Chain) BuildName(ctx context.Context, site *callsite.Site, kind Kind) (*MetricName, error) {
	return c.Build(ctx, Request{Site: site, Kind: kind})
}

// Build runs the chain for req. The returned name belongs to the caller.
// A filter error aborts the chain and is returned as is.
func (c *Chain) Build(ctx context.Context, req Request) (*MetricName, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	name, err := c.prefix(ctx, req)
	if err != nil {
		return nil, err
	}
	name, err = c.run(ctx, name, req, c.filters[c.split:])
	if err != nil {
		return nil, err
	}

	if name.Name() == "" {
		name.SetName(fallbackName(req.Site, req.Kind))
	}
	return name, nil
}

// NameOrFallback runs Build and, when the chain fails, logs the error and
// returns the plain positional name so callers never fail on naming.
func (c *Chain) NameOrFallback(ctx context.Context, req Request) *MetricName {
	name, err := c.Build(ctx, req)
	if err == nil {
		return name
	}

	plain := siteName(req.Site)
	if plain == "" {
		plain = fallbackName(req.Site, req.Kind)
	}
	c.log.Warn("Metric naming failed, using plain name", err, map[string]interface{}{
		"site": req.Site.ID(),
		"kind": req.Kind.String(),
		"name": plain,
	})
	return NewMetricName().SetName(plain)
}

// prefix returns a copy of the cached result of the filters before the
// first request-scoped one.
func (c *Chain) prefix(ctx context.Context, req Request) (*MetricName, error) {
	key, cacheable := cacheKey(req)
	if cacheable {
		if cached, ok := c.cache.Get(key); ok {
			return cached.Clone(), nil
		}
	}

	name, err := c.run(ctx, NewMetricName(), req, c.filters[:c.split])
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.cache.Add(key, name.Clone())
	}
	return name, nil
}

func (c *Chain) run(ctx context.Context, name *MetricName, req Request, filters []Filter) (*MetricName, error) {
	for _, f := range filters {
		next, err := f.Filter(ctx, name, req)
		if err != nil {
			return nil, fmt.Errorf("naming: filter %T: %w", f, err)
		}
		if next != nil {
			name = next
		}
	}
	return name, nil
}

func cacheKey(req Request) (string, bool) {
	if req.Site == nil {
		return "", false
	}
	return fmt.Sprintf("%s|%s|%#v", req.Site.Key(), req.Kind, req.Annotation), true
}
