package phamt

// expandedCapacity computes the tail capacity a copied node is given
// (copyWithNewEntry and copyWithoutEntry apply it on every copy), per
// spec.md §4.9:
// 0 -> minCapacity, >16 -> 32 (the maximum), otherwise double. This is
// a pure space/time tradeoff per spec.md §9's open question; the
// schedule is kept identical to original_source/hamt.rs's own.
func expandedCapacity(current int) int {
	switch {
	case current == 0:
		return minCapacity
	case current > 16:
		return slotsPerNode
	default:
		return current * 2
	}
}

// newWithEntries builds the minimal subtree holding exactly two items
// whose hashes agree on every local key above level, per spec.md §4.8.
// Used when a persistent or in-place insert discovers that an existing
// single-item slot's key differs from the key being inserted.
func newWithEntries[K comparable, V any](itemA, itemB item[K, V], hashA, hashB uint64, level int) *node[K, V] {
	ka := localKey(hashA, level)
	kb := localKey(hashB, level)

	if ka != kb {
		mask := (uint32(1) << ka) | (uint32(1) << kb)
		n := allocNode[K, V](mask, minCapacity)
		lo, loItem, hi, hiItem := ka, itemA, kb, itemB
		if kb < ka {
			lo, loItem, hi, hiItem = kb, itemB, ka, itemA
		}
		n.entries[slotIndex(mask, lo)] = entry[K, V]{kind: entryItem, item: loItem}
		n.entries[slotIndex(mask, hi)] = entry[K, V]{kind: entryItem, item: hiItem}
		return n
	}

	if level == lastLevel {
		mask := uint32(1) << ka
		n := allocNode[K, V](mask, minCapacity)
		n.entries[0] = entry[K, V]{
			kind: entryCollision,
			coll: newCollisionList([]item[K, V]{itemA, itemB}),
		}
		return n
	}

	child := newWithEntries(itemA, itemB, hashA, hashB, level+1)
	mask := uint32(1) << ka
	n := allocNode[K, V](mask, minCapacity)
	n.entries[0] = entry[K, V]{kind: entrySubtree, child: newNodeRef(child)}
	return n
}
