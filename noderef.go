package phamt

import "sync/atomic"

// liveNodes counts nodeRefs currently allocated across the whole
// process. It exists solely to make spec.md §8 property #8 ("drop every
// map and assert node allocation counter returns to zero") testable in
// a language without destructors — see Map.Release in map.go and
// DESIGN.md's "Go-idiomatic substitutions" section.
var liveNodes atomic.Int64

// LiveNodes reports the number of node allocations that have not yet
// been released via Map.Release. Intended for leak-detection tests;
// not part of the map's steady-state operational surface.
func LiveNodes() int64 {
	return liveNodes.Load()
}

// nodeRef is an owning handle to a node with an atomic refcount,
// exactly as spec.md §4.1 describes: borrow for shared read access,
// mutate in place only when uniquely owned, clone bumps the count,
// release decrements it and destroys the node at zero.
type nodeRef[K comparable, V any] struct {
	refs atomic.Int64
	n    *node[K, V]
}

func newNodeRef[K comparable, V any](n *node[K, V]) *nodeRef[K, V] {
	r := &nodeRef[K, V]{n: n}
	r.refs.Store(1)
	liveNodes.Add(1)
	return r
}

// owned reports whether this handle is the sole owner of its node,
// i.e. whether mutating it in place is safe (spec.md §4.1
// try_borrow_owned, §5 "In-place safety").
func (r *nodeRef[K, V]) owned() bool {
	return r.refs.Load() == 1
}

// clone hands out a second owning reference to the same node (release
// ordering in the original; sequentially consistent here, see
// DESIGN.md).
func (r *nodeRef[K, V]) clone() *nodeRef[K, V] {
	r.refs.Add(1)
	return r
}

// release drops one owning reference, destroying the node and
// recursively releasing its entries when the count reaches zero
// (acquire ordering in the original; sequentially consistent here).
func (r *nodeRef[K, V]) release() {
	if r.refs.Add(-1) == 0 {
		for i := range r.n.entries {
			dropEntry(&r.n.entries[i])
		}
		liveNodes.Add(-1)
	}
}
