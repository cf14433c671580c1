// Package qcache memoizes compiled queries.
//
// Entries are keyed by a murmur3 128-bit hash of the dialect name and the
// canonical encoding of the condition tree (condition.Key), so two
// structurally identical trees share one entry. Only successful compiles
// are cached. Entries hold the whole compile report so degraded leaves can
// be reported again on a hit; reports are never mutated after compile and
// are safe to share.
package qcache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/spaolacci/murmur3"

	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
)

// Key identifies a compiled query.
type Key struct {
	Hi, Lo uint64
}

// KeyOf hashes root under dialect. root must be structurally valid.
func KeyOf(dialect string, root condition.Node) Key {
	h := murmur3.New128()
	h.Write([]byte(dialect))
	h.Write([]byte{0})
	h.Write([]byte(condition.Key(root)))
	hi, lo := h.Sum128()
	return Key{Hi: hi, Lo: lo}
}

type entry struct {
	key   Key
	value *compiler.Report
}

// LRU is a bounded least-recently-used map of compile reports. It is safe
// for concurrent use.
type LRU struct {
	mu        sync.Mutex
	capacity  int
	items     map[Key]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLRU creates a cache holding at most capacity entries. A capacity
// below one disables caching.
func NewLRU(capacity int) *LRU {
	return &LRU{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a cached report.
func (c *LRU) Get(key Key) (*compiler.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Put caches a report, evicting the least recently used entry when full.
func (c *LRU) Put(key Key, r *compiler.Report) {
	if c.capacity < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry).value = r
		return
	}
	for c.evictList.Len() >= c.capacity {
		c.removeElement(c.evictList.Back())
	}
	c.items[key] = c.evictList.PushFront(&entry{key: key, value: r})
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns the hit and miss counts since creation.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*entry).key)
}
