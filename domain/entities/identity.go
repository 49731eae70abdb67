package entities

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// InstanceID is the arena-assigned id of a shard instance. Zero is never issued.
type InstanceID uint64

// IdentityKey correlates a graph position with state retained by an external
// immediate-mode subsystem across ticks.
//
// Keys are comparable and stable for a fixed (owner, slot) pair. Two keys are
// equal only when both owner and slot are equal, so sibling slots of one owner
// never collide and distinct owners never collide as long as instance ids are
// not reused.
type IdentityKey struct {
	Owner InstanceID
	Slot  uint32
}

// NewIdentityKey derives the key of a slot of owner.
func NewIdentityKey(owner InstanceID, slot int) IdentityKey {
	return IdentityKey{Owner: owner, Slot: uint32(slot)}
}

// IsZero reports whether k is the zero key (no owner).
func (k IdentityKey) IsZero() bool {
	return k.Owner == 0
}

// Hash folds the key into 64 bits with FNV-1a for backends that need an integer id.
// Unlike the key itself the hash may collide.
func (k IdentityKey) Hash() uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(k.Owner))
	binary.LittleEndian.PutUint32(buf[8:], k.Slot)
	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func (k IdentityKey) String() string {
	return fmt.Sprintf("%d/%d", k.Owner, k.Slot)
}
