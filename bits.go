package phamt

import "math/bits"

// bitsPerLevel is the number of hash bits consumed at each trie level.
const bitsPerLevel = 5

// slotsPerNode is the branching factor of a node: 1<<bitsPerLevel.
const slotsPerNode = 1 << bitsPerLevel

const levelMask = slotsPerNode - 1

// lastLevel is the deepest trie level: floor(64/bitsPerLevel) - 1 = 11,
// giving 12 levels numbered 0..11 that consume the low 60 bits of the
// hash; the top 4 bits are never examined. See DESIGN.md for why this differs from spec.md's
// literal (self-contradictory) "LAST_LEVEL=12".
const lastLevel = 64/bitsPerLevel - 1

// minCapacity is the smallest entry-tail capacity a freshly grown node
// is given (see expandedCapacity in build.go).
const minCapacity = 4

// localKey extracts the 5-bit slice of hash consumed at the given level.
func localKey(hash uint64, level int) uint {
	return uint((hash >> uint(level*bitsPerLevel)) & levelMask)
}

// slotIndex computes the physical position of local key k in a node's
// packed entry tail: the count of set bits in mask strictly below k.
// This is the sparse-index law from spec.md §3/§8.
func slotIndex(mask uint32, k uint) int {
	return bits.OnesCount32(mask & ((uint32(1) << k) - 1))
}
