package index

import (
	"testing"

	"diskvault/pkg/logger"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(&Config{Logger: logger.New("index-test")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return idx
}

// checkBalanced walks the tree and fails the test if any node's balance
// factor violates the AVL invariant or if a node's cached height disagrees
// with its subtrees.
func checkBalanced(t *testing.T, n *node) int {
	t.Helper()
	if n == nil {
		return 0
	}
	l := checkBalanced(t, n.left)
	r := checkBalanced(t, n.right)

	bf := l - r
	if bf < -1 || bf > 1 {
		t.Fatalf("node %v has balance factor %d", n.key, bf)
	}

	wantHeight := r + 1
	if l > r {
		wantHeight = l + 1
	}
	if n.height != wantHeight {
		t.Fatalf("node %v has cached height %d, want %d", n.key, n.height, wantHeight)
	}

	return wantHeight
}

func TestInsertSearchRoundTrip(t *testing.T) {
	idx := newTestIndex(t)

	for i := int64(0); i < 100; i++ {
		if err := idx.Insert(IntKey(i), int(i), int(i*2)); err != nil {
			t.Fatalf("Insert(%d) error = %v", i, err)
		}
	}

	checkBalanced(t, idx.root)

	for i := int64(0); i < 100; i++ {
		sector, offset, found := idx.Search(IntKey(i))
		if !found {
			t.Fatalf("Search(%d) not found", i)
		}
		if sector != int(i) || offset != int(i*2) {
			t.Errorf("Search(%d) = (%d, %d), want (%d, %d)", i, sector, offset, i, i*2)
		}
	}

	if idx.Size() != 100 {
		t.Errorf("Size() = %d, want 100", idx.Size())
	}
}

func TestInsertStaysBalancedUnderSortedInput(t *testing.T) {
	idx := newTestIndex(t)

	// Ascending insertion order is the classic case that degenerates an
	// unbalanced BST into a linked list; the AVL rotations should prevent that.
	for i := int64(0); i < 255; i++ {
		if err := idx.Insert(IntKey(i), 0, 0); err != nil {
			t.Fatalf("Insert(%d) error = %v", i, err)
		}
	}

	height := checkBalanced(t, idx.root)
	if height > 12 {
		t.Errorf("tree height %d looks unbalanced for 255 sorted keys", height)
	}
}

func TestInsertDuplicateOverwritesInPlace(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.Insert(IntKey(5), 1, 1); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := idx.Insert(IntKey(5), 9, 9); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if idx.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 after inserting a duplicate key", idx.Size())
	}
	sector, offset, found := idx.Search(IntKey(5))
	if !found || sector != 9 || offset != 9 {
		t.Errorf("Search(5) = (%d, %d, %v), want (9, 9, true)", sector, offset, found)
	}
}

func TestInsertRejectsMismatchedKeyKind(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.Insert(IntKey(1), 0, 0); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := idx.Insert(StringKey("a"), 0, 0); err == nil {
		t.Error("Insert() with a different key kind should fail once a kind is established")
	}
}

func TestDeleteLeafNode(t *testing.T) {
	idx := newTestIndex(t)
	for _, k := range []int64{10, 5, 15} {
		idx.Insert(IntKey(k), int(k), int(k))
	}

	if !idx.Delete(IntKey(5)) {
		t.Fatal("Delete(5) should report removed")
	}
	if _, _, found := idx.Search(IntKey(5)); found {
		t.Error("Search(5) should fail after deletion")
	}
	checkBalanced(t, idx.root)
}

func TestDeleteNodeWithTwoChildrenUsesSuccessor(t *testing.T) {
	idx := newTestIndex(t)
	for _, k := range []int64{10, 5, 15, 12, 20} {
		idx.Insert(IntKey(k), int(k), int(k))
	}

	if !idx.Delete(IntKey(15)) {
		t.Fatal("Delete(15) should report removed")
	}
	if _, _, found := idx.Search(IntKey(15)); found {
		t.Error("Search(15) should fail after deletion")
	}
	// 15's in-order successor (the leftmost node of its right subtree, here
	// 20) is promoted into its place and should still be reachable.
	if _, _, found := idx.Search(IntKey(20)); !found {
		t.Error("Search(20) should still find the promoted successor")
	}
	checkBalanced(t, idx.root)
}

func TestDeleteMissingKeyReportsNotRemoved(t *testing.T) {
	idx := newTestIndex(t)
	idx.Insert(IntKey(1), 0, 0)

	if idx.Delete(IntKey(99)) {
		t.Error("Delete() of an absent key should report not removed")
	}
}

func TestInOrderIsSorted(t *testing.T) {
	idx := newTestIndex(t)
	for _, k := range []int64{5, 1, 9, 3, 7} {
		idx.Insert(IntKey(k), 0, 0)
	}

	entries := idx.InOrder()
	if len(entries) != 5 {
		t.Fatalf("InOrder() returned %d entries, want 5", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key.Compare(entries[i].Key) >= 0 {
			t.Fatalf("InOrder() not sorted at index %d: %v then %v", i, entries[i-1].Key, entries[i].Key)
		}
	}
}

func TestStringKeyOrdering(t *testing.T) {
	idx := newTestIndex(t)
	for _, k := range []string{"banana", "apple", "cherry"} {
		idx.Insert(StringKey(k), 0, 0)
	}

	entries := idx.InOrder()
	want := []string{"apple", "banana", "cherry"}
	for i, e := range entries {
		if e.Key.StrVal != want[i] {
			t.Errorf("InOrder()[%d] = %q, want %q", i, e.Key.StrVal, want[i])
		}
	}
}

func TestCloseRejectsFurtherOperations(t *testing.T) {
	idx := newTestIndex(t)
	idx.Insert(IntKey(1), 0, 0)

	if err := idx.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := idx.Insert(IntKey(2), 0, 0); err != ErrIndexClosed {
		t.Errorf("Insert() after Close() = %v, want ErrIndexClosed", err)
	}
	if err := idx.Close(); err != ErrIndexClosed {
		t.Errorf("second Close() = %v, want ErrIndexClosed", err)
	}
}
