package builtins

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/registry"
)

// Bundle returns the registry entries of this package.
func Bundle() registry.Bundle {
	return registry.NewBundle(
		registry.Entry{Name: "Const", Version: "v1.0.0", Factory: func() shards.Shard { return NewConst(entities.None()) }},
		registry.Entry{Name: "Set", Version: "v1.0.0", Factory: func() shards.Shard { return NewSet("") }},
		registry.Entry{Name: "Get", Version: "v1.0.0", Factory: func() shards.Shard { return NewGet("") }},
		registry.Entry{Name: "Log", Version: "v1.0.0", Factory: func() shards.Shard { return NewLog("") }},
		registry.Entry{Name: "Stop", Version: "v1.0.0", Factory: func() shards.Shard { return NewStop() }},
	)
}
