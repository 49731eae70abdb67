// Package integrator is a minimal ports.PhysicsBackend stepping rigid bodies
// with semi-implicit Euler integration under constant gravity.
//
// Collisions are only resolved against an optional horizontal floor. Joints
// are validated but not solved.
package integrator

import (
	"fmt"
	"math"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

var _ ports.PhysicsBackend = (*Integrator)(nil)

type config struct {
	gravity     entities.Vec3
	floor       float64
	hasFloor    bool
	restitution float64
}

func defaultConfig() config {
	return config{
		gravity:     entities.Vec3{0, -9.81, 0},
		restitution: 0.5,
	}
}

// Option configures an Integrator.
type Option func(*config)

// WithGravity sets the constant acceleration applied to dynamic bodies.
func WithGravity(g entities.Vec3) Option {
	return func(c *config) {
		c.gravity = g
	}
}

// WithFloor adds a horizontal plane at height y that bodies bounce off.
func WithFloor(y float64) Option {
	return func(c *config) {
		c.floor = y
		c.hasFloor = true
	}
}

// WithRestitution sets the fraction of vertical speed kept on a floor bounce.
func WithRestitution(r float64) Option {
	return func(c *config) {
		c.restitution = math.Max(0, math.Min(r, 1))
	}
}

// Integrator implements ports.PhysicsBackend.
type Integrator struct {
	cfg config
}

// New creates an integrator.
func New(opts ...Option) *Integrator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Integrator{cfg: cfg}
}

// Step advances every dynamic body by dt seconds.
func (in *Integrator) Step(bodies []*entities.RigidBody, colliders []entities.Collider, joints []entities.Joint, dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("invalid time step %v", dt)
	}

	index := make(map[uint64]*entities.RigidBody, len(bodies))
	for _, b := range bodies {
		index[b.ID] = b
	}
	bottoms := make(map[uint64]float64, len(bodies))
	for _, c := range colliders {
		if _, ok := index[c.BodyID]; !ok {
			return fmt.Errorf("collider attached to unknown body %d", c.BodyID)
		}
		extent := c.Shape.Position[1] - reach(c.Shape)
		if cur, ok := bottoms[c.BodyID]; !ok || extent < cur {
			bottoms[c.BodyID] = extent
		}
	}
	for _, j := range joints {
		if _, ok := index[j.BodyA]; !ok {
			return fmt.Errorf("joint attached to unknown body %d", j.BodyA)
		}
		if _, ok := index[j.BodyB]; !ok {
			return fmt.Errorf("joint attached to unknown body %d", j.BodyB)
		}
	}

	for _, b := range bodies {
		if b.Static || b.Mass <= 0 {
			continue
		}
		b.Velocity = b.Velocity.Add(in.cfg.gravity.Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))

		if !in.cfg.hasFloor {
			continue
		}
		bottom := b.Position[1] + bottoms[b.ID]
		if bottom < in.cfg.floor {
			b.Position[1] += in.cfg.floor - bottom
			if b.Velocity[1] < 0 {
				b.Velocity[1] = -b.Velocity[1] * in.cfg.restitution
			}
		}
	}
	return nil
}

// reach is the distance from the shape center to its lowest point.
func reach(s entities.Shape) float64 {
	switch s.Kind {
	case entities.ShapeBall:
		return s.Radius
	case entities.ShapeCuboid:
		return s.HalfExtents[1]
	}
	return 0
}
