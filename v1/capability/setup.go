package capability

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Registration describes an implementation contributed to the catalog.
type Registration struct {
	// Name identifies the implementation in logs.
	Name string

	// Rank orders implementations of the same capability; higher runs first.
	Rank int

	// Advertises lists the capabilities the implementation claims without
	// requiring reification. The catalog uses it to enumerate.
	Advertises []Kind

	// Contracts is the eagerly known metadata. Ignored when Describe is set.
	Contracts []Contract

	// Describe computes the full contracts lazily, on the first Reify.
	Describe func() ([]Contract, error)

	// New constructs the implementation on the first Instance call.
	New func() (any, error)
}

// Catalog is the in-process Registry fed from fx value groups or direct Add calls.
// It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	handles []*handle
}

// NewCatalog creates a catalog holding regs in the given order.
func NewCatalog(regs ...Registration) *Catalog {
	c := &Catalog{}
	for _, r := range regs {
		c.Add(r)
	}
	return c
}

// Add registers an implementation. Later registrations of equal rank
// enumerate after earlier ones.
func (c *Catalog) Add(reg Registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles = append(c.handles, &handle{reg: reg, seq: len(c.handles)})
}

// All returns the handles advertising k, higher rank first, ties in
// registration order.
func (c *Catalog) All(k Kind) []Handle {
	c.mu.RLock()
	matched := make([]*handle, 0, len(c.handles))
	for _, h := range c.handles {
		if slices.Contains(h.reg.Advertises, k) {
			matched = append(matched, h)
		}
	}
	c.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].reg.Rank != matched[j].reg.Rank {
			return matched[i].reg.Rank > matched[j].reg.Rank
		}
		return matched[i].seq < matched[j].seq
	})

	out := make([]Handle, len(matched))
	for i, h := range matched {
		out[i] = h
	}
	return out
}

// Len returns the number of registrations.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}

type handle struct {
	reg Registration
	seq int

	reifyOnce sync.Once
	meta      Metadata
	reifyErr  error

	newOnce  sync.Once
	instance any
	newErr   error
}

func (h *handle) Name() string {
	return h.reg.Name
}

func (h *handle) Reify() (Metadata, error) {
	h.reifyOnce.Do(func() {
		contracts := h.reg.Contracts
		if h.reg.Describe != nil {
			var err error
			contracts, err = h.reg.Describe()
			if err != nil {
				h.reifyErr = fmt.Errorf("%w: %s: %w", ErrReify, h.reg.Name, err)
				return
			}
		}
		h.meta = Metadata{
			Name:      h.reg.Name,
			Rank:      h.reg.Rank,
			Contracts: slices.Clone(contracts),
		}
	})
	return h.meta, h.reifyErr
}

func (h *handle) Instance() (any, error) {
	h.newOnce.Do(func() {
		if h.reg.New == nil {
			h.newErr = fmt.Errorf("%w: %s: no constructor", ErrInstantiate, h.reg.Name)
			return
		}
		inst, err := h.reg.New()
		if err != nil {
			h.newErr = fmt.Errorf("%w: %s: %w", ErrInstantiate, h.reg.Name, err)
			return
		}
		h.instance = inst
	})
	return h.instance, h.newErr
}
