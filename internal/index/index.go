// Package index provides the in-memory AVL tree that maps a table's
// primary key values to the disk address of the record they identify.
//
// The tree keeps itself height-balanced on every insert and delete, so a
// lookup on n keys costs O(log n) comparisons regardless of the order
// records were ingested in, rather than degrading to a linked list the way
// a naive unbalanced BST would under sorted input.
package index

import (
	stdErrors "errors"

	"diskvault/pkg/errors"
)

// ErrIndexClosed is returned when attempting to perform operations on a closed index.
var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates and initializes a new, empty Index.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "index configuration requires a logger")
	}
	return &Index{log: config.Logger}, nil
}

// Close marks the index closed and drops the tree. Later Insert and Close
// calls return ErrIndexClosed; Search, Delete, and InOrder find no entries.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}
	idx.log.Infow("Closing index", "size", idx.size)
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.root = nil
	return nil
}

// Size returns the number of keys currently stored in the index.
func (idx *Index) Size() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.size
}

// Insert adds key to the index, or overwrites the address of an existing
// key's entry if key is already present. The first insert establishes the
// table's key kind (int or string); every later insert using the other
// kind is rejected.
func (idx *Index) Insert(key Key, sector, offset int) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.kindSet {
		idx.kind = key.Kind
		idx.kindSet = true
	} else if key.Kind != idx.kind {
		return errors.NewKeyKindMismatchError(key.String())
	}

	var inserted bool
	idx.root, inserted = insert(idx.root, key, sector, offset)
	if inserted {
		idx.size++
	}
	return nil
}

// insert recursively inserts key into the subtree rooted at n, returning
// the new subtree root and whether a new node was created (false when an
// existing key's address was overwritten in place).
func insert(n *node, key Key, sector, offset int) (*node, bool) {
	if n == nil {
		return &node{key: key, sector: sector, offset: offset, height: 1}, true
	}

	cmp := key.Compare(n.key)
	var inserted bool
	switch {
	case cmp < 0:
		n.left, inserted = insert(n.left, key, sector, offset)
	case cmp > 0:
		n.right, inserted = insert(n.right, key, sector, offset)
	default:
		n.sector, n.offset = sector, offset
		return n, false
	}

	return balance(n), inserted
}

// Search returns the (sector, offset) address stored for key, or
// found == false if key is not present in the index.
func (idx *Index) Search(key Key) (sector, offset int, found bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n := idx.root
	for n != nil {
		cmp := key.Compare(n.key)
		switch {
		case cmp < 0:
			n = n.left
		case cmp > 0:
			n = n.right
		default:
			return n.sector, n.offset, true
		}
	}
	return 0, 0, false
}

// Delete removes key from the index, reporting whether it was present.
func (idx *Index) Delete(key Key) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var removed bool
	idx.root, removed = deleteNode(idx.root, key)
	if removed {
		idx.size--
	}
	return removed
}

func deleteNode(n *node, key Key) (*node, bool) {
	if n == nil {
		return nil, false
	}

	cmp := key.Compare(n.key)
	var removed bool
	switch {
	case cmp < 0:
		n.left, removed = deleteNode(n.left, key)
	case cmp > 0:
		n.right, removed = deleteNode(n.right, key)
	default:
		removed = true
		switch {
		case n.left == nil:
			return n.right, true
		case n.right == nil:
			return n.left, true
		default:
			successor := leftmost(n.right)
			n.key, n.sector, n.offset = successor.key, successor.sector, successor.offset
			n.right, _ = deleteNode(n.right, successor.key)
		}
	}

	if n == nil {
		return nil, removed
	}
	return balance(n), removed
}

func leftmost(n *node) *node {
	for n.left != nil {
		n = n.left
	}
	return n
}

// InOrder returns every entry in the index in ascending key order.
func (idx *Index) InOrder() []Entry {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entries := make([]Entry, 0, idx.size)
	var walk func(*node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		walk(n.left)
		entries = append(entries, Entry{Key: n.key, Sector: n.sector, Offset: n.offset})
		walk(n.right)
	}
	walk(idx.root)
	return entries
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func updateHeight(n *node) {
	l, r := height(n.left), height(n.right)
	if l > r {
		n.height = l + 1
	} else {
		n.height = r + 1
	}
}

func balanceFactor(n *node) int {
	return height(n.left) - height(n.right)
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right

	x.right = y
	y.left = t2

	updateHeight(y)
	updateHeight(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left

	y.left = x
	x.right = t2

	updateHeight(x)
	updateHeight(y)
	return y
}

// balance restores the AVL height invariant at n after an insert or
// delete, applying whichever of the four standard rotation cases (LL, RR,
// LR, RL) the node's balance factor calls for.
func balance(n *node) *node {
	updateHeight(n)
	bf := balanceFactor(n)

	if bf > 1 && balanceFactor(n.left) >= 0 {
		return rotateRight(n)
	}
	if bf < -1 && balanceFactor(n.right) <= 0 {
		return rotateLeft(n)
	}
	if bf > 1 && balanceFactor(n.left) < 0 {
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	}
	if bf < -1 && balanceFactor(n.right) > 0 {
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}

	return n
}
