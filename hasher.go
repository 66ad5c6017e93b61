package phamt

import "hash/maphash"

// Hasher supplies the key behaviour a Map needs: a 64-bit digest and an
// equality test. Hash-function choice is delegated entirely to the
// caller's Hasher implementation; the core never picks one itself.
//
// Grounded on rogpeppe-generic's anyunique.Hasher[T] pattern, simplified
// to a direct 64-bit digest since the node machinery only ever needs the
// finished hash, never incremental writing.
type Hasher[K comparable] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

// seedHasher adapts maphash to any comparable key type via
// maphash.Comparable, giving callers a ready-made Hasher without forcing
// them to write one for ordinary key types. Each NewHasher call draws
// its own random seed, so hash values are unpredictable across runs and
// differ between Hasher values, without requiring the caller to supply
// one, mirroring the way maphash itself is normally
// used for map-like containers.
type seedHasher[K comparable] struct {
	seed maphash.Seed
}

// NewHasher returns a Hasher[K] backed by hash/maphash, suitable for any
// comparable key type. Use it when K needs no custom hashing behaviour
// (e.g. int, string, uuid.UUID, or a comparable struct of such fields).
func NewHasher[K comparable]() Hasher[K] {
	return seedHasher[K]{seed: maphash.MakeSeed()}
}

func (h seedHasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(h.seed, key)
}

func (seedHasher[K]) Equal(a, b K) bool {
	return a == b
}
