package physics

import (
	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
	"github.com/reglet-dev/shards-sdk/go/registry"
)

// Bundle returns the registry entries of this package. Simulations step
// backend, or the built-in integrator when backend is nil.
func Bundle(backend ports.PhysicsBackend) registry.Bundle {
	return registry.NewBundle(
		registry.Entry{Name: SimulationName, Version: "v1.0.0", Factory: func() shards.Shard { return NewSimulation(backend) }},
		registry.Entry{Name: "Physics.Ball", Version: "v1.0.0", Factory: NewBall},
		registry.Entry{Name: "Physics.Cuboid", Version: "v1.0.0", Factory: NewCuboid},
		registry.Entry{Name: "Physics.DynamicBody", Version: "v1.0.0", Factory: func() shards.Shard { return NewDynamicBody() }},
		registry.Entry{Name: "Physics.StaticBody", Version: "v1.0.0", Factory: func() shards.Shard { return NewStaticBody() }},
	)
}
