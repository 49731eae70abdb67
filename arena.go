package shards

import (
	"sync/atomic"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// Arena issues instance ids. Ids are never reused within one arena.
type Arena struct {
	next atomic.Uint64
}

// Next returns a fresh id. The first id is 1.
func (a *Arena) Next() entities.InstanceID {
	return entities.InstanceID(a.next.Add(1))
}

var defaultArena Arena

// NextInstanceID issues an id from the process arena.
func NextInstanceID() entities.InstanceID {
	return defaultArena.Next()
}
