// Package cache replays BYU address traces through a two-level cache
// hierarchy and counts hits and misses.
package cache

import (
	"github.com/sarchlab/memtrace/mem/cache/internal/tagging"
)

// Counters hold the hit and miss counts of one level.
type Counters struct {
	ReadHit   uint64 `json:"read_hit"`
	ReadMiss  uint64 `json:"read_miss"`
	WriteHit  uint64 `json:"write_hit"`
	WriteMiss uint64 `json:"write_miss"`
}

// Cache is one level of the hierarchy. It only tracks tags; no data is
// stored.
type Cache struct {
	Counters

	name         string
	writePolicy  string
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder
}

// Name returns the name of the level.
func (c *Cache) Name() string {
	return c.name
}

// WritePolicy returns the write policy of the level.
func (c *Cache) WritePolicy() string {
	return c.writePolicy
}

// Lookup reports whether addr is cached. A hit makes the block the most
// recently used of its set.
func (c *Cache) Lookup(addr uint64) bool {
	block, found := c.tags.Lookup(addr)
	if found {
		c.tags.Visit(block)
	}

	return found
}

// Insert places the block of addr into the cache. If a valid block had to
// make room, it is returned with evicted set.
func (c *Cache) Insert(addr uint64) (victim tagging.Block, evicted bool) {
	victim = c.victimFinder.FindVictim(c.tags, addr)

	block := victim
	block.Tag = c.tags.BlockAddress(addr)
	block.IsValid = true
	block.IsDirty = false

	c.tags.Update(block)
	c.tags.Visit(block)

	return victim, victim.IsValid
}

// MarkDirty flags the block of addr as modified. Nothing happens if the block
// is not cached.
func (c *Cache) MarkDirty(addr uint64) {
	block, found := c.tags.Lookup(addr)
	if !found {
		return
	}

	block.IsDirty = true
	c.tags.Update(block)
}

// IsDirty reports whether the block of addr is cached and modified.
func (c *Cache) IsDirty(addr uint64) bool {
	block, found := c.tags.Lookup(addr)
	return found && block.IsDirty
}

// Reset invalidates every block and clears the counters.
func (c *Cache) Reset() {
	c.tags.Reset()
	c.Counters = Counters{}
}
