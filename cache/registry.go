package cache

import (
	"log/slog"
	"slices"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/logging"
)

// Registry orders caches by the recency of their last replacement.
type Registry struct {
	caches map[string]*Cache
	// order runs oldest to newest.
	order  []string
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		caches: make(map[string]*Cache),
		logger: logging.OrDiscard(logger),
	}
}

// Replace discards the named cache's contents, installs bundles and moves
// the cache to the newest position. Nil entries are skipped one by one.
func (r *Registry) Replace(name string, bundles []*a11y.Bundle) {
	if r == nil {
		return
	}
	c, ok := r.caches[name]
	if !ok {
		c = newCache(name)
		r.caches[name] = c
	}
	installed, skipped := c.replace(bundles)
	if skipped > 0 {
		r.logger.Warn("skipped malformed bundles", "cache", name, "skipped", skipped)
	}
	r.promote(name)
	r.logger.Debug("cache replaced", "cache", name, "bundles", installed)
}

// Lookup returns the freshest bundle for id.
func (r *Registry) Lookup(id a11y.NodeID) (a11y.Bundle, bool) {
	c := r.holder(id)
	if c == nil {
		return a11y.Bundle{}, false
	}
	return c.Get(id)
}

// Has reports whether any cache holds id.
func (r *Registry) Has(id a11y.NodeID) bool {
	return r.holder(id) != nil
}

// UpdateBounds sets the bounds of the freshest copy of id, leaving every
// other field alone. A miss is logged and dropped.
func (r *Registry) UpdateBounds(id a11y.NodeID, bounds a11y.Bounds) bool {
	ok := r.Mutate(id, func(b *a11y.Bundle) {
		updated := bounds
		b.Bounds = &updated
	})
	if !ok && r != nil {
		r.logger.Error("bounds update for uncached node", "node", int(id))
	}
	return ok
}

// UpdateBoundsBatch applies the bounds carried by partial bundles. Entries
// that are nil or carry no bounds are skipped. It returns the number applied.
func (r *Registry) UpdateBoundsBatch(partials []*a11y.Bundle) int {
	applied := 0
	for _, p := range partials {
		if p == nil || p.Bounds == nil {
			continue
		}
		if r.UpdateBounds(p.ID, *p.Bounds) {
			applied++
		}
	}
	return applied
}

// Mutate edits the freshest copy of id in place.
func (r *Registry) Mutate(id a11y.NodeID, fn func(*a11y.Bundle)) bool {
	c := r.holder(id)
	if c == nil || fn == nil {
		return false
	}
	b, _ := c.Get(id)
	fn(&b)
	b.ID = id
	c.put(b)
	return true
}

// Cache returns the named cache, or nil if it was never replaced.
func (r *Registry) Cache(name string) *Cache {
	if r == nil {
		return nil
	}
	return r.caches[name]
}

// Order returns cache names newest first.
func (r *Registry) Order() []string {
	if r == nil {
		return nil
	}
	names := slices.Clone(r.order)
	slices.Reverse(names)
	return names
}

// Bundles returns the freshest bundle of every cached id, sorted by id.
func (r *Registry) Bundles() []a11y.Bundle {
	if r == nil {
		return nil
	}
	seen := make(map[a11y.NodeID]bool)
	var out []a11y.Bundle
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.caches[r.order[i]]
		for _, id := range c.IDs() {
			if seen[id] {
				continue
			}
			seen[id] = true
			b, _ := c.Get(id)
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b a11y.Bundle) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

func (r *Registry) holder(id a11y.NodeID) *Cache {
	if r == nil {
		return nil
	}
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.caches[r.order[i]]
		if _, ok := c.nodes[id]; ok {
			return c
		}
	}
	return nil
}

func (r *Registry) promote(name string) {
	if idx := slices.Index(r.order, name); idx >= 0 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}
	r.order = append(r.order, name)
}
