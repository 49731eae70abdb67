package registry

import (
	"fmt"
	"hash/crc32"

	"golang.org/x/mod/semver"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

// Factory constructs a fresh shard instance.
type Factory func() shards.Shard

// Entry is one registration: a kind name, its version and its factory.
type Entry struct {
	Factory Factory
	Name    string
	Version string
}

// Descriptor is the introspection record of a registered kind.
type Descriptor struct {
	Name        string
	Version     string
	Help        string
	Parameters  entities.Parameters
	InputTypes  entities.Types
	OutputTypes entities.Types
	Hash        uint32
}

// Hash derives the persisted 32-bit identity of a kind.
func Hash(name, version string) uint32 {
	return crc32.ChecksumIEEE([]byte(name + "-go-" + version))
}

func describe(e Entry) (Descriptor, error) {
	if e.Name == "" {
		return Descriptor{}, fmt.Errorf("shard name cannot be empty")
	}
	if !semver.IsValid(e.Version) {
		return Descriptor{}, fmt.Errorf("shard %q: invalid version %q", e.Name, e.Version)
	}
	if e.Factory == nil {
		return Descriptor{}, fmt.Errorf("shard %q: factory cannot be nil", e.Name)
	}
	proto := e.Factory()
	if proto.Name() != e.Name {
		return Descriptor{}, fmt.Errorf("shard %q: factory builds %q", e.Name, proto.Name())
	}
	return Descriptor{
		Name:        e.Name,
		Version:     semver.Canonical(e.Version),
		Help:        proto.Help(),
		Parameters:  proto.Parameters(),
		InputTypes:  proto.InputTypes(),
		OutputTypes: proto.OutputTypes(),
		Hash:        Hash(e.Name, semver.Canonical(e.Version)),
	}, nil
}
