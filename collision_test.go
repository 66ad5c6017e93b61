package phamt

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// zeroHasher forces every key to the same 64-bit hash, so every insert
// beyond the first produces a collision entry at LAST_LEVEL rather than
// a normal subtree split. This is spec.md §8 property #9 and end-to-end
// scenario 5.
type zeroHasher struct{}

func (zeroHasher) Hash(int) uint64   { return 0 }
func (zeroHasher) Equal(a, b int) bool { return a == b }

func TestForcedCollisionsAllFindable(t *testing.T) {
	c := qt.New(t)
	m := New[int, int, CopyStrategy[int, int]](zeroHasher{})

	for i := 0; i < 16; i++ {
		var added bool
		m, added = m.Insert(i, i*100)
		c.Assert(added, qt.IsTrue)
	}
	c.Assert(m.Len(), qt.Equals, 16)

	for i := 0; i < 16; i++ {
		v, ok := m.Find(i)
		c.Assert(ok, qt.IsTrue)
		c.Assert(v, qt.Equals, i*100)
	}

	// The deepest node along the path must hold a single collision entry.
	n := m.root.n
	for level := 0; level < lastLevel; level++ {
		idx := slotIndex(n.mask, 0)
		e := n.entries[idx]
		c.Assert(e.kind, qt.Equals, entrySubtree)
		n = e.child.n
	}
	idx := slotIndex(n.mask, 0)
	e := n.entries[idx]
	c.Assert(e.kind, qt.Equals, entryCollision)
	c.Assert(len(e.coll.items), qt.Equals, 16)
}

func TestForcedCollisionRemoveDownToOne(t *testing.T) {
	c := qt.New(t)
	m := New[int, int, CopyStrategy[int, int]](zeroHasher{})
	for i := 0; i < 16; i++ {
		m, _ = m.Insert(i, i)
	}

	for i := 0; i < 15; i++ {
		var removed bool
		m, removed = m.Remove(i)
		c.Assert(removed, qt.IsTrue)
	}
	c.Assert(m.Len(), qt.Equals, 1)

	v, ok := m.Find(15)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, 15)

	for i := 0; i < 15; i++ {
		_, ok := m.Find(i)
		c.Assert(ok, qt.IsFalse)
	}
}

// TestCollisionOverwrite exercises the collision-entry "key present,
// replace in place" branch of spec.md §4.4/§4.6.
func TestCollisionOverwrite(t *testing.T) {
	c := qt.New(t)
	m := New[int, int, CopyStrategy[int, int]](zeroHasher{})
	m, _ = m.Insert(1, 10)
	m, _ = m.Insert(2, 20)
	m, added := m.Insert(1, 99)
	c.Assert(added, qt.IsFalse)
	c.Assert(m.Len(), qt.Equals, 2)
	v, _ := m.Find(1)
	c.Assert(v, qt.Equals, 99)
}

// TestCollisionShareStrategy runs the same forced-collision scenario
// against ShareStrategy, mirroring hamt.rs's practice of running its
// whole test matrix against both item-store backends.
func TestCollisionShareStrategy(t *testing.T) {
	c := qt.New(t)
	m := New[int, int, ShareStrategy[int, int]](zeroHasher{})
	for i := 0; i < 10; i++ {
		m, _ = m.Insert(i, i*2)
	}
	c.Assert(m.Len(), qt.Equals, 10)
	for i := 0; i < 10; i++ {
		v, ok := m.Find(i)
		c.Assert(ok, qt.IsTrue)
		c.Assert(v, qt.Equals, i*2)
	}
	for i := 0; i < 9; i++ {
		m, _ = m.Remove(i)
	}
	c.Assert(m.Len(), qt.Equals, 1)
	v, ok := m.Find(9)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, 18)
}
