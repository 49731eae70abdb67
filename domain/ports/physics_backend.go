package ports

import "github.com/reglet-dev/shards-sdk/go/domain/entities"

// PhysicsBackend advances a rigid body world.
// Step mutates bodies in place.
type PhysicsBackend interface {
	Step(bodies []*entities.RigidBody, colliders []entities.Collider, joints []entities.Joint, dt float64) error
}
