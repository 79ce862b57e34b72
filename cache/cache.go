// Package cache holds the attribute bundles pushed by the engine.
//
// The engine keeps several independently scoped views of its tree (what is
// on screen, the chain above the focused node) and replaces each one on its
// own schedule. A Registry keeps one Cache per view and resolves a node by
// scanning caches from the most recently replaced to the oldest, so the
// freshest push for an id always wins regardless of which view carried it.
//
// Neither type is safe for concurrent use. The bridge session guards its
// registry with the same mutex that protects its focus state.
package cache

import (
	"slices"

	"github.com/odvcencio/furry-a11y/a11y"
)

// Names of the caches the bridge maintains.
const (
	Viewport  = "viewport"
	FocusPath = "focus-path"
)

// Cache maps node ids to bundles for one named view of the tree.
type Cache struct {
	name  string
	nodes map[a11y.NodeID]a11y.Bundle
}

func newCache(name string) *Cache {
	return &Cache{name: name, nodes: make(map[a11y.NodeID]a11y.Bundle)}
}

// Name returns the cache name.
func (c *Cache) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.nodes)
}

// Get returns a copy of the bundle for id.
func (c *Cache) Get(id a11y.NodeID) (a11y.Bundle, bool) {
	if c == nil {
		return a11y.Bundle{}, false
	}
	b, ok := c.nodes[id]
	return b, ok
}

// IDs returns the cached ids in ascending order.
func (c *Cache) IDs() []a11y.NodeID {
	if c == nil {
		return nil
	}
	ids := make([]a11y.NodeID, 0, len(c.nodes))
	for id := range c.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// replace swaps the contents for bundles, skipping nil entries, and returns
// how many were installed and how many were skipped.
func (c *Cache) replace(bundles []*a11y.Bundle) (installed, skipped int) {
	next := make(map[a11y.NodeID]a11y.Bundle, len(bundles))
	for _, b := range bundles {
		if b == nil {
			skipped++
			continue
		}
		next[b.ID] = *b
	}
	c.nodes = next
	return len(next), skipped
}

func (c *Cache) put(b a11y.Bundle) {
	c.nodes[b.ID] = b
}
