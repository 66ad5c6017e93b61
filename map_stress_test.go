package phamt

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	qt "github.com/frankban/quicktest"
)

// TestRandomizedStress is spec.md §8 property #4: 50000 operations
// mixing insert and remove of random uint keys, checked after every
// operation against a trivial reference map.
func TestRandomizedStress(t *testing.T) {
	c := qt.New(t)
	rng := rand.New(rand.NewSource(20260731))
	oracle := make(map[uint64]int)
	m := New[uint64, int, CopyStrategy[uint64, int]](NewHasher[uint64]())

	const ops = 50000
	const keySpace = 2000

	for i := 0; i < ops; i++ {
		key := uint64(rng.Intn(keySpace))
		if rng.Intn(2) == 0 {
			val := rng.Int()
			m, _ = m.Insert(key, val)
			oracle[key] = val
		} else {
			var removed bool
			m, removed = m.Remove(key)
			_, wasPresent := oracle[key]
			c.Assert(removed, qt.Equals, wasPresent)
			delete(oracle, key)
		}
		c.Assert(m.Len(), qt.Equals, len(oracle))
	}

	for k, v := range oracle {
		got, ok := m.Find(k)
		c.Assert(ok, qt.IsTrue)
		c.Assert(got, qt.Equals, v)
	}
}

// TestUUIDKeys exercises Hasher[K] and ShareStrategy on a non-trivial,
// fixed-size-array key type bigger than a machine word, per
// SPEC_FULL.md's DOMAIN STACK wiring of github.com/google/uuid.
func TestUUIDKeys(t *testing.T) {
	c := qt.New(t)
	m := New[uuid.UUID, string, ShareStrategy[uuid.UUID, string]](NewHasher[uuid.UUID]())

	ids := make([]uuid.UUID, 200)
	for i := range ids {
		ids[i] = uuid.New()
		m, _ = m.Insert(ids[i], ids[i].String())
	}
	c.Assert(m.Len(), qt.Equals, len(ids))

	for _, id := range ids {
		v, ok := m.Find(id)
		c.Assert(ok, qt.IsTrue)
		c.Assert(v, qt.Equals, id.String())
	}

	// Remove every other id and confirm the rest remain findable.
	for i := 0; i < len(ids); i += 2 {
		var removed bool
		m, removed = m.Remove(ids[i])
		c.Assert(removed, qt.IsTrue)
	}
	c.Assert(m.Len(), qt.Equals, len(ids)/2)
	for i := 1; i < len(ids); i += 2 {
		_, ok := m.Find(ids[i])
		c.Assert(ok, qt.IsTrue)
	}
}
