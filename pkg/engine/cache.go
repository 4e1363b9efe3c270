package engine

import (
	"sync"
)

// DefaultCacheSize is the number of trees a TreeCache keeps by default.
const DefaultCacheSize = 1 << 12

// treeContext is everything besides the position that shapes a tree.
type treeContext struct {
	roll  Roll
	rules string
	zone  int
}

// cacheEntry stores one built root.
type cacheEntry struct {
	key   uint64
	ctx   treeContext
	root  RootNode
	valid bool
}

// cacheNode holds primary and secondary entries of a two-way associative set.
type cacheNode struct {
	primary   cacheEntry
	secondary cacheEntry
}

// TreeCache is a thread-safe cache of built play trees keyed by position,
// roll and rule set name. Rule sets sharing a name must share behavior.
type TreeCache struct {
	entries  []cacheNode
	size     uint32
	hashMask uint32

	// Statistics
	lookups uint64
	hits    uint64
	adds    uint64

	mu sync.RWMutex
}

// NewTreeCache creates a cache holding about size trees.
// Size will be adjusted to the nearest power of 2, with a minimum of 2.
func NewTreeCache(size uint32) *TreeCache {
	if size > 1<<24 {
		size = 1 << 24
	}
	p := uint32(2)
	for p < size {
		p <<= 1
	}
	size = p

	return &TreeCache{
		entries:  make([]cacheNode, size/2),
		size:     size,
		hashMask: (size / 2) - 1,
	}
}

// Flush clears all entries from the cache.
func (c *TreeCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.lookups = 0
	c.hits = 0
	c.adds = 0
}

// hash mixes the position key with the roll using the murmur3 64-bit finalizer.
func (c *TreeCache) hash(key uint64, ctx treeContext) uint32 {
	h := key ^ uint64(ctx.roll.First)<<56 ^ uint64(ctx.roll.Second)<<48 ^ uint64(ctx.zone)<<40
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return uint32(h) & c.hashMask
}

func (e *cacheEntry) matches(key uint64, ctx treeContext, pos Position) bool {
	return e.valid && e.key == key && e.ctx == ctx && e.root.primary.Position().Equal(pos)
}

// lookup returns a cached root, or the slot to store a miss in.
func (c *TreeCache) lookup(key uint64, ctx treeContext, pos Position) (RootNode, uint32, bool) {
	slot := c.hash(key, ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lookups++
	node := &c.entries[slot]

	if node.primary.matches(key, ctx, pos) {
		c.hits++
		return node.primary.root, slot, true
	}
	if node.secondary.matches(key, ctx, pos) {
		c.hits++
		node.primary, node.secondary = node.secondary, node.primary
		return node.primary.root, slot, true
	}
	return RootNode{}, slot, false
}

// add stores a root, demoting the previous primary entry of its set.
func (c *TreeCache) add(key uint64, ctx treeContext, root RootNode, slot uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot]
	node.secondary = node.primary
	node.primary = cacheEntry{key: key, ctx: ctx, root: root, valid: true}
	c.adds++
}

// BuildTree returns the cached trees for pos and roll, building them on a
// miss. Concurrent misses for the same key may build twice.
func (c *TreeCache) BuildTree(rules RuleSet, pos Position, roll Roll) RootNode {
	key := pos.Key()
	ctx := treeContext{roll: roll, rules: rules.Name, zone: pos.InnerZone()}

	if root, _, ok := c.lookup(key, ctx, pos); ok {
		return root
	}
	root := BuildTree(rules, pos, roll)
	c.add(key, ctx, root, c.hash(key, ctx))
	return root
}

// Stats returns cache statistics.
func (c *TreeCache) Stats() (lookups, hits, adds uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookups, c.hits, c.adds
}

// HitRate returns the cache hit rate as a percentage.
func (c *TreeCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(c.lookups) * 100
}
