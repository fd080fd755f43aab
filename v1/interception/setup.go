package interception

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aleph-Alpha/fxinstrument/v1/callsite"
	"github.com/Aleph-Alpha/fxinstrument/v1/capability"
	"github.com/Aleph-Alpha/fxinstrument/v1/logger"
)

// SiteFilter decides which call sites are considered for interception at all.
type SiteFilter func(site *callsite.Site) bool

// AllSites considers every site. Selectivity comes from the per-factory
// annotation match.
func AllSites(*callsite.Site) bool { return true }

// Service assembles and caches the interceptor chains of call sites.
type Service struct {
	resolver *Resolver
	filter   SiteFilter
	log      logger.Logger

	methods      *lru.Cache[string, []Interceptor]
	constructors *lru.Cache[string, []Interceptor]
}

// NewService creates the interception service.
//
// Parameters:
//   - resolver: matches factories against sites
//   - cfg: cache configuration
//   - log: logger for resolution diagnostics; nil discards
//
// Returns an error only when the caches cannot be created.
func NewService(resolver *Resolver, cfg Config, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.NewNop()
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}

	methods, err := lru.New[string, []Interceptor](size)
	if err != nil {
		return nil, fmt.Errorf("interception: method cache: %w", err)
	}
	constructors, err := lru.New[string, []Interceptor](size)
	if err != nil {
		return nil, fmt.Errorf("interception: constructor cache: %w", err)
	}

	return &Service{
		resolver:     resolver,
		filter:       AllSites,
		log:          log,
		methods:      methods,
		constructors: constructors,
	}, nil
}

// WithSiteFilter replaces the permissive default filter and returns s for chaining.
func (s *Service) WithSiteFilter(f SiteFilter) *Service {
	if f != nil {
		s.filter = f
	}
	return s
}

// MethodInterceptors returns the ordered interceptors for a method site.
// A site no factory accepts yields an empty list.
func (s *Service) MethodInterceptors(site *callsite.Site) []Interceptor {
	return s.interceptors(s.methods, site, capability.MethodInterceptor)
}

// ConstructorInterceptors returns the ordered interceptors for a constructor site.
func (s *Service) ConstructorInterceptors(site *callsite.Site) []Interceptor {
	return s.interceptors(s.constructors, site, capability.ConstructorInterceptor)
}

func (s *Service) interceptors(cache *lru.Cache[string, []Interceptor], site *callsite.Site, k capability.Kind) []Interceptor {
	if site == nil || !s.filter(site) {
		return nil
	}

	key := site.Key()
	if cached, ok := cache.Get(key); ok {
		return cached
	}

	bindings := s.resolver.Resolve(site, k)
	chain := make([]Interceptor, 0, len(bindings))
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		chain = append(chain, b.Interceptor)
		names = append(names, b.Name)
	}

	s.log.Debug("Interceptor chain resolved", nil, map[string]interface{}{
		"site":         site.ID(),
		"capability":   string(k),
		"interceptors": names,
	})

	cache.Add(key, chain)
	return chain
}

// WrapMethod returns h wrapped by the interceptors of the method site.
func (s *Service) WrapMethod(site *callsite.Site, h Handler) Handler {
	return bindSite(site, Chain(s.MethodInterceptors(site), h))
}

// WrapConstructor returns h wrapped by the interceptors of the constructor site.
func (s *Service) WrapConstructor(site *callsite.Site, h Handler) Handler {
	return bindSite(site, Chain(s.ConstructorInterceptors(site), h))
}

// Construct runs ctor through the constructor interceptors of site and
// returns the typed instance.
func Construct[T any](ctx context.Context, s *Service, site *callsite.Site, ctor func(ctx context.Context, args []any) (T, error), args ...any) (T, error) {
	h := s.WrapConstructor(site, func(ctx context.Context, inv *Invocation) (any, error) {
		return ctor(ctx, inv.Args)
	})

	var zero T
	out, err := h(ctx, &Invocation{Args: args})
	if err != nil {
		return zero, err
	}
	v, ok := out.(T)
	if !ok && out != nil {
		return zero, fmt.Errorf("interception: constructor of %s returned %T", site.ID(), out)
	}
	return v, nil
}
