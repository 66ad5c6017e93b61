package phamt

// removalKind is the tag of a removalResult, mirroring spec.md §4.6's
// four-way removal-result protocol exactly.
type removalKind uint8

const (
	rrNoChange removalKind = iota
	rrReplace
	rrCollapse
	rrKill
)

// removalResult is what a remove call communicates to its caller, per
// spec.md §4.6:
//   - rrNoChange: subtree unmodified (or, in the in-place variant, a
//     node mutated itself in place so the caller's handle to it is
//     still valid unchanged).
//   - rrReplace: caller should replace its subtree entry with node.
//   - rrCollapse: caller should replace its subtree entry with a
//     single-item entry holding item.
//   - rrKill: caller should remove its subtree entry entirely.
type removalResult[K comparable, V any] struct {
	kind removalKind
	node *node[K, V]
	item item[K, V]
}

// persistentRemove implements spec.md §4.6. Like persistentInsert, it
// never mutates or releases n: n (and everything reachable from it) is
// borrowed, since other Map versions may still be referencing it.
func persistentRemove[K comparable, V any](n *node[K, V], h Hasher[K], hash uint64, key K, level int) (removalResult[K, V], bool) {
	k := localKey(hash, level)
	bit := uint32(1) << k
	if n.mask&bit == 0 {
		return removalResult[K, V]{kind: rrNoChange}, false
	}

	idx := slotIndex(n.mask, k)
	e := n.entries[idx]

	switch e.kind {
	case entryItem:
		if !h.Equal(e.item.Key(), key) {
			return removalResult[K, V]{kind: rrNoChange}, false
		}
		return collapseKillOrChange(n, k, idx), true

	case entryCollision:
		if level != lastLevel {
			panic("phamt: collision entry above LAST_LEVEL")
		}
		survivors, _, ok := e.coll.withRemoved(h, key)
		if !ok {
			return removalResult[K, V]{kind: rrNoChange}, false
		}
		var replacement entry[K, V]
		if len(survivors) >= 2 {
			replacement = entry[K, V]{kind: entryCollision, coll: newCollisionList(survivors)}
		} else {
			replacement = entry[K, V]{kind: entryItem, item: survivors[0]}
		}
		return removalResult[K, V]{kind: rrReplace, node: copyWithNewEntry(n, n.mask, k, replacement, idx)}, true

	case entrySubtree:
		childResult, removed := persistentRemove(e.child.n, h, hash, key, level+1)
		if !removed {
			return removalResult[K, V]{kind: rrNoChange}, false
		}
		switch childResult.kind {
		case rrReplace:
			replacement := entry[K, V]{kind: entrySubtree, child: newNodeRef(childResult.node)}
			return removalResult[K, V]{kind: rrReplace, node: copyWithNewEntry(n, n.mask, k, replacement, idx)}, true
		case rrCollapse:
			if slotIndexCount(n.mask) == 1 {
				return removalResult[K, V]{kind: rrCollapse, item: childResult.item}, true
			}
			replacement := entry[K, V]{kind: entryItem, item: childResult.item}
			return removalResult[K, V]{kind: rrReplace, node: copyWithNewEntry(n, n.mask, k, replacement, idx)}, true
		case rrKill:
			return collapseKillOrChange(n, k, idx), true
		default:
			panic("phamt: remove produced no change on a removed key")
		}

	default:
		panic("phamt: invalid entry code during remove")
	}
}

// collapseKillOrChange implements spec.md §4.6's collapse_kill_or_change
// for the persistent (copying) path.
func collapseKillOrChange[K comparable, V any](n *node[K, V], k uint, idx int) removalResult[K, V] {
	switch slotIndexCount(n.mask) - 1 {
	case 0:
		return removalResult[K, V]{kind: rrKill}
	case 1:
		other := n.entries[1-idx]
		if other.kind == entryItem {
			return removalResult[K, V]{kind: rrCollapse, item: other.item.clone()}
		}
		return removalResult[K, V]{kind: rrReplace, node: copyWithoutEntry(n, k)}
	default:
		return removalResult[K, V]{kind: rrReplace, node: copyWithoutEntry(n, k)}
	}
}

// copyWithoutEntry implements spec.md §4.6's copy_without_entry:
// allocate a node with the slot for local key k cleared, cloning every
// other surviving entry.
func copyWithoutEntry[K comparable, V any](old *node[K, V], k uint) *node[K, V] {
	newMask := old.mask &^ (uint32(1) << k)
	removeIdx := slotIndex(old.mask, k)
	// Matches original_source/hamt.rs's copy_without_entry, which also
	// grows via expandedCapacity on every copy, shrink included — see
	// copyWithNewEntry's comment and DESIGN.md.
	n := allocNode[K, V](newMask, expandedCapacity(cap(old.entries)))
	oi := 0
	for ni := range n.entries {
		if oi == removeIdx {
			oi++
		}
		n.entries[ni] = cloneEntry(old.entries[oi])
		oi++
	}
	return n
}

// tryRemoveInPlace implements spec.md §4.7. The caller must already
// have established ref.owned() before calling. It mutates ref.n
// directly wherever the spec's algorithm allows a node to survive; it
// never needs to allocate a replacement node for itself (removal only
// shrinks), so it never returns rrReplace: an rrReplace from a child's
// persistent fallback is installed here and reported as rrNoChange.
func tryRemoveInPlace[K comparable, V any](ref *nodeRef[K, V], h Hasher[K], hash uint64, key K, level int) (removalResult[K, V], bool) {
	n := ref.n
	k := localKey(hash, level)
	bit := uint32(1) << k
	if n.mask&bit == 0 {
		return removalResult[K, V]{kind: rrNoChange}, false
	}

	idx := slotIndex(n.mask, k)
	e := &n.entries[idx]

	switch e.kind {
	case entryItem:
		if !h.Equal(e.item.Key(), key) {
			return removalResult[K, V]{kind: rrNoChange}, false
		}
		return collapseKillOrChangeInPlace(n, k, idx), true

	case entryCollision:
		if level != lastLevel {
			panic("phamt: collision entry above LAST_LEVEL")
		}
		survivors, _, ok := e.coll.withRemoved(h, key)
		if !ok {
			return removalResult[K, V]{kind: rrNoChange}, false
		}
		e.coll.release()
		if len(survivors) >= 2 {
			e.coll = newCollisionList(survivors)
		} else {
			e.kind = entryItem
			e.item = survivors[0]
			e.coll = nil
		}
		return removalResult[K, V]{kind: rrNoChange}, true

	case entrySubtree:
		var childResult removalResult[K, V]
		var removed bool
		if e.child.owned() {
			childResult, removed = tryRemoveInPlace(e.child, h, hash, key, level+1)
		} else {
			childResult, removed = persistentRemove(e.child.n, h, hash, key, level+1)
		}
		if !removed {
			return removalResult[K, V]{kind: rrNoChange}, false
		}
		switch childResult.kind {
		case rrNoChange:
			return removalResult[K, V]{kind: rrNoChange}, true
		case rrReplace:
			e.child.release()
			e.child = newNodeRef(childResult.node)
			return removalResult[K, V]{kind: rrNoChange}, true
		case rrCollapse:
			// The one special case spec.md §4.7 calls out: a child
			// collapsing to a single item bubbles straight through
			// when this node itself has exactly one occupied slot —
			// the node has no business surviving.
			if slotIndexCount(n.mask) == 1 {
				return removalResult[K, V]{kind: rrCollapse, item: childResult.item}, true
			}
			e.child.release()
			e.kind = entryItem
			e.item = childResult.item
			e.child = nil
			return removalResult[K, V]{kind: rrNoChange}, true
		case rrKill:
			return collapseKillOrChangeInPlace(n, k, idx), true
		default:
			panic("phamt: remove produced no change on a removed key")
		}

	default:
		panic("phamt: invalid entry code during in-place remove")
	}
}

// collapseKillOrChangeInPlace implements spec.md §4.7's in-place
// collapse_kill_or_change. Where the node survives it is mutated via
// removeEntryInPlace; where it does not (rrCollapse, rrKill), it is
// left untouched and handed back to the caller, which discards it via
// the normal nodeRef.release path — that release correctly tears down
// both the genuinely-removed entry and the spare reference left behind
// by cloning the surviving item into the result.
func collapseKillOrChangeInPlace[K comparable, V any](n *node[K, V], k uint, idx int) removalResult[K, V] {
	switch slotIndexCount(n.mask) - 1 {
	case 0:
		return removalResult[K, V]{kind: rrKill}
	case 1:
		other := n.entries[1-idx]
		if other.kind == entryItem {
			return removalResult[K, V]{kind: rrCollapse, item: other.item.clone()}
		}
		removeEntryInPlace(n, k)
		return removalResult[K, V]{kind: rrNoChange}
	default:
		removeEntryInPlace(n, k)
		return removalResult[K, V]{kind: rrNoChange}
	}
}

// removeEntryInPlace implements spec.md §4.7's remove_entry_in_place:
// drop the entry, shift the tail down by one slot, clear the mask bit.
func removeEntryInPlace[K comparable, V any](n *node[K, V], k uint) {
	idx := slotIndex(n.mask, k)
	dropEntry(&n.entries[idx])
	copy(n.entries[idx:], n.entries[idx+1:])
	n.entries = n.entries[:len(n.entries)-1]
	n.mask &^= uint32(1) << k
}
