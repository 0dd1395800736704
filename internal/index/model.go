package index

import (
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// KeyKind identifies which of the two supported primary-key representations
// a Key holds. A single table uses exactly one kind throughout its lifetime;
// enforcing that consistency is the Index's job, not the Key's.
type KeyKind int

const (
	// KindInt marks a Key as holding a signed 64-bit integer value, used
	// for primary keys declared over one of the integer-family field types.
	KindInt KeyKind = iota

	// KindString marks a Key as holding a string value, used for primary
	// keys declared over one of the string-family field types.
	KindString
)

// Key is a tagged primary-key value: exactly one of IntVal or StrVal is
// meaningful, selected by Kind.
type Key struct {
	Kind   KeyKind
	IntVal int64
	StrVal string
}

// IntKey builds a Key holding an integer primary-key value.
func IntKey(v int64) Key {
	return Key{Kind: KindInt, IntVal: v}
}

// StringKey builds a Key holding a string primary-key value.
func StringKey(v string) Key {
	return Key{Kind: KindString, StrVal: v}
}

// Compare orders two keys of the same Kind, returning a negative number if
// k sorts before other, zero if equal, and a positive number if k sorts
// after other. Comparing keys of different kinds is a caller error; the
// Index never lets mismatched kinds reach Compare.
func (k Key) Compare(other Key) int {
	if k.Kind == KindInt {
		switch {
		case k.IntVal < other.IntVal:
			return -1
		case k.IntVal > other.IntVal:
			return 1
		default:
			return 0
		}
	}

	switch {
	case k.StrVal < other.StrVal:
		return -1
	case k.StrVal > other.StrVal:
		return 1
	default:
		return 0
	}
}

// String renders the key's active value for logging and error messages.
func (k Key) String() string {
	if k.Kind == KindInt {
		return strconv.FormatInt(k.IntVal, 10)
	}
	return k.StrVal
}

// node is one entry of the AVL tree: a key, the disk address of the
// record it points to, and the usual left/right/height bookkeeping.
type node struct {
	key    Key
	sector int
	offset int
	left   *node
	right  *node
	height int
}

// Entry is a single (key, disk address) pair returned by InOrder.
type Entry struct {
	Key    Key
	Sector int
	Offset int
}

// Index is an AVL tree keyed by a table's primary key, mapping each key to
// the (sector, offset) address of the first fragment of the record it
// identifies.
type Index struct {
	mu      sync.Mutex
	log     *zap.SugaredLogger
	root    *node
	size    int
	kind    KeyKind
	kindSet bool
	closed  atomic.Bool
}

// Config encapsulates the parameters required to initialize an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
