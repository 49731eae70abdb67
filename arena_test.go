package shards_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

func TestArena_IssuesDistinctIDs(t *testing.T) {
	var arena shards.Arena
	assert.Equal(t, entities.InstanceID(1), arena.Next())
	assert.Equal(t, entities.InstanceID(2), arena.Next())
}

func TestArena_Concurrent(t *testing.T) {
	var (
		arena shards.Arena
		mu    sync.Mutex
		wg    sync.WaitGroup
		seen  = make(map[entities.InstanceID]bool)
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := arena.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 800)
}

func TestBase_UniqueAcrossInstances(t *testing.T) {
	a, b := shards.NewBase(), shards.NewBase()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotZero(t, a.ID())
	assert.Equal(t, a.Key(3), a.Key(3), "stable for a fixed position")
	assert.NotEqual(t, a.Key(0), a.Key(1))
	assert.NotEqual(t, a.Key(0), b.Key(0))
}

func TestIdentityKey_ThousandDistinctPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pairs := make(map[[2]uint64]bool)
	for len(pairs) < 1000 {
		pairs[[2]uint64{uint64(rng.Int63n(1 << 20)), uint64(rng.Intn(64))}] = true
	}

	keys := make(map[entities.IdentityKey]bool, len(pairs))
	hashes := make(map[uint64]bool, len(pairs))
	for p := range pairs {
		k := entities.NewIdentityKey(entities.InstanceID(p[0]), int(p[1]))
		keys[k] = true
		hashes[k.Hash()] = true
	}
	require.Len(t, keys, 1000)
	assert.Len(t, hashes, 1000)
}
