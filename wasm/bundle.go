package wasm

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/registry"
)

// Bundle returns the registry entries of this package.
func Bundle(opts ...Option) registry.Bundle {
	return registry.NewBundle(
		registry.Entry{Name: "Wasm.Run", Version: "v1.0.0", Factory: func() shards.Shard { return NewRun(opts...) }},
	)
}
