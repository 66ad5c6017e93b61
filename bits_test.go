package phamt

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// TestSlotIndexLaw checks the sparse-index law spec.md §8 spells out
// explicitly, spot check by spot check.
func TestSlotIndexLaw(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		mask uint32
		k    uint
		want int
	}{
		{0b0001, 0, 0},
		{0b0010, 1, 0},
		{0b101010, 1, 0},
		{0b101010, 3, 1},
		{0b101010, 5, 2},
		{0x80000000, 31, 0},
	}
	for _, tc := range cases {
		got := slotIndex(tc.mask, tc.k)
		c.Assert(got, qt.Equals, tc.want, qt.Commentf("mask=%032b k=%d", tc.mask, tc.k))
	}
}

// TestSlotIndexLawExhaustive re-derives the law by brute-force popcount
// over every 12-bit mask and every local key k whose bit is set in it
// (so k in 0..11; higher bit positions are not reached by these masks)
// — more exhaustive than the spec's spot checks but
// implementing the identical law.
func TestSlotIndexLawExhaustive(t *testing.T) {
	c := qt.New(t)
	for k := uint(0); k < slotsPerNode; k++ {
		for mask := uint32(0); mask < 1<<12; mask++ {
			if mask&(1<<k) == 0 {
				continue
			}
			want := 0
			for j := uint(0); j < k; j++ {
				if mask&(1<<j) != 0 {
					want++
				}
			}
			c.Assert(slotIndex(mask, k), qt.Equals, want)
		}
	}
}

func TestLocalKey(t *testing.T) {
	c := qt.New(t)
	// Level 0 takes the low 5 bits; level 1 the next 5, etc.
	hash := uint64(0b10101_00001)
	c.Assert(localKey(hash, 0), qt.Equals, uint(0b00001))
	c.Assert(localKey(hash, 1), qt.Equals, uint(0b10101))
}

func TestExpandedCapacity(t *testing.T) {
	c := qt.New(t)
	c.Assert(expandedCapacity(0), qt.Equals, minCapacity)
	c.Assert(expandedCapacity(4), qt.Equals, 8)
	c.Assert(expandedCapacity(8), qt.Equals, 16)
	c.Assert(expandedCapacity(16), qt.Equals, 32)
	c.Assert(expandedCapacity(17), qt.Equals, slotsPerNode)
	c.Assert(expandedCapacity(32), qt.Equals, slotsPerNode)
}
