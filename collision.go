package phamt

import "sync/atomic"

// collisionList is the immutable, non-empty, ordered list of items
// backing a collision entry, which only appears at lastLevel. Its items
// are keys whose hashes agree on the low 60 bits (the bits consumed
// through lastLevel); the top 4 bits are not examined, so keys whose
// hashes differ only there share a list. It is refcounted exactly like a
// node, since collision entries can in principle be shared across
// structurally-sharing versions the same way subtree entries are.
type collisionList[K comparable, V any] struct {
	refs  atomic.Int64
	items []item[K, V]
}

func newCollisionList[K comparable, V any](items []item[K, V]) *collisionList[K, V] {
	c := &collisionList[K, V]{items: items}
	c.refs.Store(1)
	return c
}

func (c *collisionList[K, V]) clone() *collisionList[K, V] {
	c.refs.Add(1)
	return c
}

// release drops one owning reference, releasing every item in the list
// once the count reaches zero.
func (c *collisionList[K, V]) release() {
	if c.refs.Add(-1) == 0 {
		for _, it := range c.items {
			it.release()
		}
	}
}

func (c *collisionList[K, V]) find(h Hasher[K], key K) (V, bool) {
	for _, it := range c.items {
		if h.Equal(it.Key(), key) {
			return it.Value(), true
		}
	}
	var zero V
	return zero, false
}

// withReplacedOrAdded returns a new list (owning its own items, starting
// at refcount 1) with key's item replaced if present (added==false), or
// prepended if absent (added==true). The items carried over are cloned,
// matching spec.md's "prepend the new item" / "list with that position
// replaced" case in §4.4.
func (c *collisionList[K, V]) withReplacedOrAdded(h Hasher[K], newItem item[K, V]) (*collisionList[K, V], bool) {
	for i, it := range c.items {
		if h.Equal(it.Key(), newItem.Key()) {
			items := make([]item[K, V], len(c.items))
			for j, old := range c.items {
				if j == i {
					items[j] = newItem
				} else {
					items[j] = old.clone()
				}
			}
			return newCollisionList(items), false
		}
	}
	items := make([]item[K, V], 0, len(c.items)+1)
	items = append(items, newItem)
	for _, old := range c.items {
		items = append(items, old.clone())
	}
	return newCollisionList(items), true
}

// withRemoved returns the surviving items with key's item removed, each
// cloned so they can outlive the receiver's own lifetime. It
// deliberately returns a plain slice rather than a *collisionList: the
// caller must decide whether the survivors still satisfy the
// collision-list-length invariant (spec.md §3 invariant 3: a collision
// entry holds >= 2 items) — when exactly one survives, the caller
// unwraps it into a bare single-item entry instead of wrapping it back
// into a one-element collision list.
func (c *collisionList[K, V]) withRemoved(h Hasher[K], key K) (survivors []item[K, V], removed item[K, V], ok bool) {
	for i, it := range c.items {
		if h.Equal(it.Key(), key) {
			survivors = make([]item[K, V], 0, len(c.items)-1)
			for j, old := range c.items {
				if j != i {
					survivors = append(survivors, old.clone())
				}
			}
			return survivors, it, true
		}
	}
	return nil, nil, false
}
