package phamt

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"golang.org/x/sync/errgroup"
)

// TestConcurrentReadersAcrossVersions exercises spec.md §5: "multiple
// threads may hold and read distinct or shared map versions
// concurrently." One goroutine builds successive versions via Insert
// while N reader goroutines each hold their own snapshot (taken via
// Clone, an O(1) refcount bump) and read it repeatedly — a version, once
// handed out, never changes underneath a reader.
func TestConcurrentReadersAcrossVersions(t *testing.T) {
	c := qt.New(t)

	base := New[int, int, CopyStrategy[int, int]](NewHasher[int]())
	for i := 0; i < 200; i++ {
		base, _ = base.Insert(i, i)
	}

	g, _ := errgroup.WithContext(context.Background())
	const readers = 8
	for r := 0; r < readers; r++ {
		snapshot := base.Clone()
		g.Go(func() error {
			for iter := 0; iter < 500; iter++ {
				for i := 0; i < 200; i++ {
					v, ok := snapshot.Find(i)
					if !ok || v != i {
						return errBadRead
					}
				}
			}
			return nil
		})
	}

	// Meanwhile, mutate a separate, independently-owned clone; this must
	// never affect the readers' snapshots above.
	g.Go(func() error {
		mutator := base.Clone()
		for i := 200; i < 1000; i++ {
			mutator, _ = mutator.Insert(i, i)
		}
		for i := 0; i < 100; i++ {
			mutator, _ = mutator.Remove(i)
		}
		mutator.Release()
		return nil
	})

	err := g.Wait()
	c.Assert(err, qt.IsNil)
}

var errBadRead = errReadMismatch{}

type errReadMismatch struct{}

func (errReadMismatch) Error() string { return "phamt: concurrent reader observed a stale value" }
