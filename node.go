package phamt

// entryKind discriminates which variant a node's slot holds. It plays
// the role spec.md §3 assigns to the out-of-band 2-bit entry_types tag;
// here it is simply a field on the slot's own struct rather than a
// separately packed bitfield (see DESIGN.md's "Go-idiomatic
// substitutions").
type entryKind uint8

const (
	entryInvalid entryKind = iota
	entryItem
	entrySubtree
	entryCollision
)

// entry is one physical slot in a node's packed entry tail. Exactly one
// of item, child, coll is populated, selected by kind — the tagged-union
// layout spec.md §9 explicitly licenses as a substitute for a byte-packed
// maximum-of-three-variants slot.
type entry[K comparable, V any] struct {
	kind  entryKind
	item  item[K, V]
	child *nodeRef[K, V]
	coll  *collisionList[K, V]
}

// node is the HAMT node: a sparse array of up to slotsPerNode entries
// indexed by local key via mask. capacity (spec.md §3) is represented by
// cap(entries) rather than a stored field, per spec.md §9's license to
// use the host language's native capacity tracking.
type node[K comparable, V any] struct {
	mask    uint32
	entries []entry[K, V]
}

// emptyNode returns a new empty node (mask==0, no entries, capacity 0)
// for a freshly constructed Map. Its zero capacity sends the first
// insert down the copy path, so the node itself is never mutated.
func emptyNode[K comparable, V any]() *node[K, V] {
	return &node[K, V]{}
}

// allocNode allocates a node with the given mask and tail capacity.
// Per spec.md §4.2, entries are left zero-valued (kind entryInvalid)
// until the caller assigns all popcount(mask) of them.
func allocNode[K comparable, V any](mask uint32, capacity int) *node[K, V] {
	if capacity < 0 {
		panic("phamt: negative node capacity")
	}
	return &node[K, V]{
		mask:    mask,
		entries: make([]entry[K, V], slotIndexCount(mask), capacity),
	}
}

// slotIndexCount is popcount(mask): the number of occupied slots a node
// with this mask must have entries for.
func slotIndexCount(mask uint32) int {
	return slotIndex(mask, slotsPerNode)
}

// dropEntry runs the destructor for the variant at this slot, per
// spec.md §4.2. It is invoked by nodeRef.release when a node's refcount
// reaches zero.
func dropEntry[K comparable, V any](e *entry[K, V]) {
	switch e.kind {
	case entryItem:
		e.item.release()
	case entrySubtree:
		e.child.release()
	case entryCollision:
		e.coll.release()
	case entryInvalid:
		// slot was never initialized (can occur for capacity beyond
		// popcount(mask) in a freshly allocated, not-yet-fully-filled
		// node); nothing to release.
	}
}

// cloneEntry produces a second independent handle for the payload at
// this slot: an item clone, a child refcount bump, or a collision-list
// refcount bump. Used by copyWithNewEntry/copyWithoutEntry when
// building a new node that shares unmodified entries with the old one.
func cloneEntry[K comparable, V any](e entry[K, V]) entry[K, V] {
	switch e.kind {
	case entryItem:
		return entry[K, V]{kind: entryItem, item: e.item.clone()}
	case entrySubtree:
		return entry[K, V]{kind: entrySubtree, child: e.child.clone()}
	case entryCollision:
		return entry[K, V]{kind: entryCollision, coll: e.coll.clone()}
	default:
		panic("phamt: cloning invalid entry")
	}
}
