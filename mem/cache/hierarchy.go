package cache

import (
	"context"
	"errors"
	"io"

	"github.com/sarchlab/memtrace/byutr"
	"github.com/sarchlab/memtrace/hooking"
)

// HookPosCacheAccess is triggered every time a level counts a hit or a miss.
// The item is an AccessEvent.
var HookPosCacheAccess = &hooking.HookPos{Name: "CacheAccess"}

// AccessKind tells whether a level saw a read or a write.
type AccessKind string

// Access kinds.
const (
	AccessRead  AccessKind = "read"
	AccessWrite AccessKind = "write"
)

// AccessEvent is the hook item for HookPosCacheAccess.
type AccessEvent struct {
	Level   string
	Kind    AccessKind
	Address uint64
	Hit     bool
}

const replayCtxCheckInterval = 4096

// Hierarchy is a split L1 (instruction and data) backed by a unified L2.
type Hierarchy struct {
	hooking.HookableBase

	L1I *Cache
	L1D *Cache
	L2  *Cache

	accesses  uint64
	ignored   uint64
	memWrites uint64
}

// Fetch models an instruction fetch.
func (h *Hierarchy) Fetch(addr uint64) {
	h.accesses++
	h.read(h.L1I, addr)
}

// Read models a data load.
func (h *Hierarchy) Read(addr uint64) {
	h.accesses++
	h.read(h.L1D, addr)
}

func (h *Hierarchy) read(l1 *Cache, addr uint64) {
	if h.lookup(l1, AccessRead, addr) {
		return
	}

	if h.lookup(h.L2, AccessRead, addr) {
		h.fill(l1, addr)
		return
	}

	h.fill(h.L2, addr)
	h.fill(l1, addr)
}

// Write models a data store.
func (h *Hierarchy) Write(addr uint64) {
	h.accesses++

	if h.L1D.writePolicy == WriteThrough {
		h.writeThrough(addr)
		return
	}

	h.writeBack(addr)
}

func (h *Hierarchy) writeThrough(addr uint64) {
	hit := h.lookup(h.L1D, AccessWrite, addr)

	h.writeL2(addr)

	if !hit {
		h.fill(h.L1D, addr)
	}
}

func (h *Hierarchy) writeBack(addr uint64) {
	if h.lookup(h.L1D, AccessWrite, addr) {
		h.L1D.MarkDirty(addr)
		return
	}

	h.fill(h.L1D, addr)
	h.L1D.MarkDirty(addr)

	if !h.lookup(h.L2, AccessWrite, addr) {
		h.fill(h.L2, addr)
	}
}

// writeL2 writes the block of addr into L2, allocating it on a miss.
func (h *Hierarchy) writeL2(addr uint64) {
	if !h.lookup(h.L2, AccessWrite, addr) {
		h.fill(h.L2, addr)
	}

	if h.L2.writePolicy == WriteBack {
		h.L2.MarkDirty(addr)
		return
	}

	h.memWrites++
}

// fill inserts the block of addr into c and handles a dirty victim. Dirty L1
// blocks are written back to L2; dirty L2 blocks go to memory.
func (h *Hierarchy) fill(c *Cache, addr uint64) {
	victim, evicted := c.Insert(addr)
	if !evicted || !victim.IsDirty {
		return
	}

	if c == h.L2 {
		h.memWrites++
		return
	}

	h.writeL2(victim.Tag)
}

func (h *Hierarchy) lookup(c *Cache, kind AccessKind, addr uint64) bool {
	hit := c.Lookup(addr)

	switch {
	case kind == AccessRead && hit:
		c.ReadHit++
	case kind == AccessRead:
		c.ReadMiss++
	case hit:
		c.WriteHit++
	default:
		c.WriteMiss++
	}

	h.InvokeHook(hooking.HookCtx{
		Domain: h,
		Pos:    HookPosCacheAccess,
		Item: AccessEvent{
			Level:   c.name,
			Kind:    kind,
			Address: addr,
			Hit:     hit,
		},
	})

	return hit
}

// Access dispatches a trace record. Fetches, reads and writes are modeled;
// every other request type is counted as ignored.
func (h *Hierarchy) Access(rec byutr.Record) {
	switch rec.Type {
	case byutr.Fetch:
		h.Fetch(rec.Address)
	case byutr.MemRead:
		h.Read(rec.Address)
	case byutr.MemWrite:
		h.Write(rec.Address)
	default:
		h.ignored++
	}
}

// Replay feeds every record of r through the hierarchy.
func (h *Hierarchy) Replay(ctx context.Context, r *byutr.Reader) error {
	for n := 0; ; n++ {
		if n%replayCtxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec, err := r.ReadRecord()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		h.Access(rec)
	}
}

// Reset clears every level and counter.
func (h *Hierarchy) Reset() {
	h.L1I.Reset()
	h.L1D.Reset()
	h.L2.Reset()
	h.accesses = 0
	h.ignored = 0
	h.memWrites = 0
}
