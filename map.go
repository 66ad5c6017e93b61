// Package phamt implements a persistent (immutable, structurally
// shared) associative map as a Hash Array Mapped Trie. Every mutating
// operation returns a new logical Map while the Map it was called on
// remains observable if the caller kept a separate reference to it
// (via Clone) — see Map.Insert and Map.Remove for the exact ownership
// contract.
package phamt

// KV is a key/value pair, returned by Map.Items and accepted by
// Map.Merge's traversal. It carries no behaviour of its own; it exists
// only so Items can return ordered pairs without forcing callers to
// juggle two parallel slices.
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a persistent associative map: a root node handle plus an
// element count, per spec.md §3. K must be comparable (Go's built-in
// equality is not used for key comparisons — Hasher.Equal is — but
// `comparable` is the minimal constraint Go's generics require to let a
// Strategy embed K by value). S selects the item-storage strategy
// (CopyStrategy or ShareStrategy) and is fixed for the lifetime of a
// Map family: every Map derived from another via Insert/Remove/Clone
// shares the same S.
//
// Ownership contract: Insert and Remove are documented, per spec.md §6,
// as consuming the Map they are called on and returning a new one. Go
// cannot enforce this at the type level (the receiver is an ordinary
// value), so it is a convention: do not keep using a Map value after
// passing it to Insert or Remove by value, unless you first obtained an
// independent handle to it via Clone. Violating this does not corrupt
// memory, but it defeats the unique-ownership fast path (see
// DESIGN.md) and may make the superseded value's later reads
// observably stale.
type Map[K comparable, V any, S Strategy[K, V]] struct {
	root   *nodeRef[K, V]
	count  int
	hasher Hasher[K]
}

// New returns an empty Map using h to hash and compare keys.
func New[K comparable, V any, S Strategy[K, V]](h Hasher[K]) Map[K, V, S] {
	return Map[K, V, S]{root: newNodeRef(emptyNode[K, V]()), hasher: h}
}

// Len returns the number of distinct keys reachable in m.
func (m Map[K, V, S]) Len() int {
	return m.count
}

// Find returns the value stored for key and whether it was present.
// Find performs no allocation and does not affect m's ownership state.
func (m Map[K, V, S]) Find(key K) (V, bool) {
	return find(m.root, m.hasher, m.hasher.Hash(key), key)
}

// Contains reports whether key is present in m.
func (m Map[K, V, S]) Contains(key K) bool {
	_, ok := m.Find(key)
	return ok
}

// Insert returns a new Map with key bound to value, and whether key was
// newly added (false if it replaced an existing binding). Per spec.md
// §4.10/§6: if m's root is uniquely owned, the insert mutates it in
// place and reuses the same root handle, unless the root has no spare
// capacity for a new slot, in which case a grown copy replaces it;
// otherwise it path-copies.
// See the Map doc comment for the ownership convention this implies.
func (m Map[K, V, S]) Insert(key K, value V) (Map[K, V, S], bool) {
	var strat S
	it := strat.new(key, value)
	hash := m.hasher.Hash(key)

	var newRoot *nodeRef[K, V]
	var added bool
	if m.root.owned() {
		replacement, a := tryInsertInPlace(m.root, m.hasher, hash, key, it, 0)
		added = a
		if replacement == nil {
			newRoot = m.root
		} else {
			newRoot = newNodeRef(replacement)
			m.root.release()
		}
	} else {
		replacement, a := persistentInsert(m.root.n, m.hasher, hash, key, it, 0)
		added = a
		newRoot = newNodeRef(replacement)
		m.root.release()
	}

	newCount := m.count
	if added {
		newCount++
	}
	return Map[K, V, S]{root: newRoot, count: newCount, hasher: m.hasher}, added
}

// Remove returns a new Map with key unbound, and whether key was
// actually present. See Insert's doc comment for the ownership
// convention and spec.md §4.10 for the root-level result mapping this
// implements.
func (m Map[K, V, S]) Remove(key K) (Map[K, V, S], bool) {
	hash := m.hasher.Hash(key)

	var result removalResult[K, V]
	var removed bool
	if m.root.owned() {
		result, removed = tryRemoveInPlace(m.root, m.hasher, hash, key, 0)
	} else {
		result, removed = persistentRemove(m.root.n, m.hasher, hash, key, 0)
	}
	if !removed {
		return m, false
	}

	switch result.kind {
	case rrNoChange:
		return Map[K, V, S]{root: m.root, count: m.count - 1, hasher: m.hasher}, true
	case rrReplace:
		newRoot := newNodeRef(result.node)
		m.root.release()
		return Map[K, V, S]{root: newRoot, count: m.count - 1, hasher: m.hasher}, true
	case rrCollapse:
		itemHash := m.hasher.Hash(result.item.Key())
		k0 := localKey(itemHash, 0)
		root := allocNode[K, V](uint32(1)<<k0, minCapacity)
		root.entries[0] = entry[K, V]{kind: entryItem, item: result.item}
		newRoot := newNodeRef(root)
		m.root.release()
		return Map[K, V, S]{root: newRoot, count: m.count - 1, hasher: m.hasher}, true
	case rrKill:
		m.root.release()
		return New[K, V, S](m.hasher), true
	default:
		panic("phamt: unreachable removal result")
	}
}

// Clone returns an independent handle to the same logical map: an O(1)
// refcount bump on the root, per spec.md §6's clone(&Map) -> Map. The
// clone and the original may each be mutated (via Insert/Remove)
// without affecting the other's observable Find behaviour — this is
// the structural-sharing guarantee spec.md §8 scenario 6 tests.
func (m Map[K, V, S]) Clone() Map[K, V, S] {
	return Map[K, V, S]{root: m.root.clone(), count: m.count, hasher: m.hasher}
}

// Release drops m's ownership of its root node, recursively releasing
// every entry once the refcount reaches zero. Go has no destructors, so
// callers that want spec.md §8 property #8 (no memory leaks) to be
// checkable must call Release explicitly once a Map value is done with;
// see LiveNodes and DESIGN.md.
func (m Map[K, V, S]) Release() {
	m.root.release()
}

// Keys returns every key reachable in m, in slot-index encounter order
// — an order spec.md §1 makes no guarantee about (ordered iteration is
// explicitly out of scope) and which may differ across structurally
// equivalent maps built via different insertion sequences.
func (m Map[K, V, S]) Keys() []K {
	keys := make([]K, 0, m.count)
	collectKeys(m.root.n, &keys)
	return keys
}

// Values returns every value reachable in m, in the same unspecified
// order as Keys.
func (m Map[K, V, S]) Values() []V {
	values := make([]V, 0, m.count)
	collectValues(m.root.n, &values)
	return values
}

// Items returns every key/value pair reachable in m, in the same
// unspecified order as Keys.
func (m Map[K, V, S]) Items() []KV[K, V] {
	items := make([]KV[K, V], 0, m.count)
	collectItems(m.root.n, &items)
	return items
}

// Merge returns a new Map containing every binding from m and other;
// where both contain a key, other's value wins. Grounded on the
// teacher's own PersistentMap.Merge (persistent_map.go), which folds
// one map's Items into the other via repeated Put.
func (m Map[K, V, S]) Merge(other Map[K, V, S]) Map[K, V, S] {
	result := m
	for _, kv := range other.Items() {
		result, _ = result.Insert(kv.Key, kv.Value)
	}
	return result
}

func collectKeys[K comparable, V any](n *node[K, V], out *[]K) {
	for _, e := range n.entries {
		switch e.kind {
		case entryItem:
			*out = append(*out, e.item.Key())
		case entryCollision:
			for _, it := range e.coll.items {
				*out = append(*out, it.Key())
			}
		case entrySubtree:
			collectKeys(e.child.n, out)
		}
	}
}

func collectValues[K comparable, V any](n *node[K, V], out *[]V) {
	for _, e := range n.entries {
		switch e.kind {
		case entryItem:
			*out = append(*out, e.item.Value())
		case entryCollision:
			for _, it := range e.coll.items {
				*out = append(*out, it.Value())
			}
		case entrySubtree:
			collectValues(e.child.n, out)
		}
	}
}

func collectItems[K comparable, V any](n *node[K, V], out *[]KV[K, V]) {
	for _, e := range n.entries {
		switch e.kind {
		case entryItem:
			*out = append(*out, KV[K, V]{Key: e.item.Key(), Value: e.item.Value()})
		case entryCollision:
			for _, it := range e.coll.items {
				*out = append(*out, KV[K, V]{Key: it.Key(), Value: it.Value()})
			}
		case entrySubtree:
			collectItems(e.child.n, out)
		}
	}
}
