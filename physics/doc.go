// Package physics provides rigid body shards stepping a ports.PhysicsBackend.
//
// Physics.Simulation exposes the protected Physics.Simulation variable to the
// shards after it. Shape shards (Physics.Ball, Physics.Cuboid) output shape
// objects which are usually stored with Set and attached to a body through
// the Shapes parameter of Physics.DynamicBody or Physics.StaticBody:
//
//	shards:
//	  - Physics.Simulation
//	  - Physics.Ball: {Radius: 0.25}
//	  - Set: {Name: ball}
//	  - Physics.DynamicBody: {Shapes: {var: ball}, Position: [0, 10, 0]}
//	  - Log
//
// Bodies join the simulation on their first activation and leave it on cleanup.
package physics
