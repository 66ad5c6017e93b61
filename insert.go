package phamt

// persistentInsert implements spec.md §4.4. It never mutates or
// releases n — n is borrowed, exactly as a shared node must be to keep
// every existing Map version that references it valid. It returns a
// brand-new node (owned by the caller, refcount to be established via
// newNodeRef) and whether a new key was added.
//
// copyWithNewEntry (its sole mutation primitive) clones every surviving
// entry, bumping child/collision refcounts or cloning Share-store
// items as appropriate, so the old node and the new one can coexist.
func persistentInsert[K comparable, V any](n *node[K, V], h Hasher[K], hash uint64, key K, newItem item[K, V], level int) (*node[K, V], bool) {
	k := localKey(hash, level)
	bit := uint32(1) << k

	if n.mask&bit == 0 {
		return copyWithNewEntry(n, n.mask|bit, k, entry[K, V]{kind: entryItem, item: newItem}, -1), true
	}

	idx := slotIndex(n.mask, k)
	e := n.entries[idx]

	switch e.kind {
	case entryItem:
		if h.Equal(e.item.Key(), key) {
			return copyWithNewEntry(n, n.mask, k, entry[K, V]{kind: entryItem, item: newItem}, idx), false
		}
		existingHash := h.Hash(e.item.Key())
		var replacement entry[K, V]
		if level == lastLevel {
			replacement = entry[K, V]{
				kind: entryCollision,
				coll: newCollisionList([]item[K, V]{e.item.clone(), newItem}),
			}
		} else {
			child := newWithEntries(e.item.clone(), newItem, existingHash, hash, level+1)
			replacement = entry[K, V]{kind: entrySubtree, child: newNodeRef(child)}
		}
		return copyWithNewEntry(n, n.mask, k, replacement, idx), true

	case entryCollision:
		if level != lastLevel {
			panic("phamt: collision entry above LAST_LEVEL")
		}
		newColl, added := e.coll.withReplacedOrAdded(h, newItem)
		return copyWithNewEntry(n, n.mask, k, entry[K, V]{kind: entryCollision, coll: newColl}, idx), added

	case entrySubtree:
		childNode, added := persistentInsert(e.child.n, h, hash, key, newItem, level+1)
		replacement := entry[K, V]{kind: entrySubtree, child: newNodeRef(childNode)}
		return copyWithNewEntry(n, n.mask, k, replacement, idx), added

	default:
		panic("phamt: invalid entry code during insert")
	}
}

// copyWithNewEntry implements spec.md §4.4's copy_with_new_entry:
// allocate a node with newMask and expandedCapacity(), clone every
// surviving entry in slot order, and splice in newEntry at the slot
// local key k maps to. replacingSlot is the old slot index being
// overwritten, or -1 if this is a brand-new slot (mask grew).
//
// original_source/hamt.rs's copy_with_new_entry grows capacity on
// every copy unconditionally, even a same-size replace — not only when
// the new mask needs more room than the old node had. Matched here
// rather than only growing capacity when strictly necessary, since
// spec.md is silent on this and the original's actual behavior is the
// tie-breaker (see DESIGN.md).
func copyWithNewEntry[K comparable, V any](old *node[K, V], newMask uint32, k uint, newEntry entry[K, V], replacingSlot int) *node[K, V] {
	capacity := expandedCapacity(cap(old.entries))
	isNew := replacingSlot < 0

	n := allocNode[K, V](newMask, capacity)
	targetIdx := slotIndex(newMask, k)
	oi := 0
	for ni := range n.entries {
		if ni == targetIdx {
			n.entries[ni] = newEntry
			if !isNew {
				oi++
			}
			continue
		}
		n.entries[ni] = cloneEntry(old.entries[oi])
		oi++
	}
	return n
}

// tryInsertInPlace implements spec.md §4.5. The caller must already
// have established ref.owned() before calling. It returns (nil, added)
// when the mutation happened in place (ref.n is unchanged as a pointer,
// just mutated), or (newNode, added) when ref.n had no spare capacity
// for a new slot and the copy path ran instead, in which case the caller
// must wrap newNode in a fresh nodeRef and release ref. A shared child is
// handled inside (its slot is repointed) and never causes a non-nil
// return.
func tryInsertInPlace[K comparable, V any](ref *nodeRef[K, V], h Hasher[K], hash uint64, key K, newItem item[K, V], level int) (*node[K, V], bool) {
	n := ref.n
	k := localKey(hash, level)
	bit := uint32(1) << k
	occupied := n.mask&bit != 0

	if !occupied {
		if slotIndexCount(n.mask|bit) > cap(n.entries) {
			return persistentInsert(n, h, hash, key, newItem, level)
		}
		insertEntryInPlace(n, n.mask|bit, k, entry[K, V]{kind: entryItem, item: newItem})
		return nil, true
	}

	idx := slotIndex(n.mask, k)
	e := &n.entries[idx]

	switch e.kind {
	case entryItem:
		if h.Equal(e.item.Key(), key) {
			e.item.release()
			e.item = newItem
			return nil, false
		}
		existingHash := h.Hash(e.item.Key())
		var replacement entry[K, V]
		if level == lastLevel {
			replacement = entry[K, V]{
				kind: entryCollision,
				coll: newCollisionList([]item[K, V]{e.item.clone(), newItem}),
			}
		} else {
			child := newWithEntries(e.item.clone(), newItem, existingHash, hash, level+1)
			replacement = entry[K, V]{kind: entrySubtree, child: newNodeRef(child)}
		}
		insertEntryInPlace(n, n.mask, k, replacement)
		return nil, true

	case entryCollision:
		if level != lastLevel {
			panic("phamt: collision entry above LAST_LEVEL")
		}
		newColl, added := e.coll.withReplacedOrAdded(h, newItem)
		e.coll.release()
		e.coll = newColl
		return nil, added

	case entrySubtree:
		if e.child.owned() {
			childReplacement, added := tryInsertInPlace(e.child, h, hash, key, newItem, level+1)
			if childReplacement != nil {
				e.child.release()
				e.child = newNodeRef(childReplacement)
			}
			return nil, added
		}
		childNode, added := persistentInsert(e.child.n, h, hash, key, newItem, level+1)
		e.child.release()
		e.child = newNodeRef(childNode)
		return nil, added

	default:
		panic("phamt: invalid entry code during in-place insert")
	}
}

// insertEntryInPlace implements spec.md §4.5's insert_entry_in_place.
// If the slot newEntry targets was already occupied (n.mask unchanged
// from newMask), the old entry is dropped and the new one takes its
// place. Otherwise the tail is shifted right by one slot to make room
// and mask is updated to newMask.
func insertEntryInPlace[K comparable, V any](n *node[K, V], newMask uint32, k uint, newEntry entry[K, V]) {
	wasOccupied := n.mask&(uint32(1)<<k) != 0
	if wasOccupied {
		idx := slotIndex(newMask, k)
		dropEntry(&n.entries[idx])
		n.entries[idx] = newEntry
		return
	}

	idx := slotIndex(newMask, k)
	n.mask = newMask
	n.entries = append(n.entries, entry[K, V]{})
	copy(n.entries[idx+1:], n.entries[idx:len(n.entries)-1])
	n.entries[idx] = newEntry
}
