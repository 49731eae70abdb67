package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

func TestStep_SemiImplicitEuler(t *testing.T) {
	in := New(WithGravity(entities.Vec3{0, -10, 0}))
	body := &entities.RigidBody{ID: 1, Mass: 1, Position: entities.Vec3{0, 5, 0}}

	require.NoError(t, in.Step([]*entities.RigidBody{body}, nil, nil, 0.5))

	// velocity is updated before position
	assert.InDelta(t, -5.0, body.Velocity[1], 1e-9)
	assert.InDelta(t, 2.5, body.Position[1], 1e-9)
}

func TestStep_StaticAndMasslessBodiesDoNotMove(t *testing.T) {
	in := New()
	static := &entities.RigidBody{ID: 1, Mass: 1, Static: true, Position: entities.Vec3{1, 2, 3}}
	massless := &entities.RigidBody{ID: 2, Position: entities.Vec3{4, 5, 6}}

	require.NoError(t, in.Step([]*entities.RigidBody{static, massless}, nil, nil, 1))

	assert.Equal(t, entities.Vec3{1, 2, 3}, static.Position)
	assert.Equal(t, entities.Vec3{4, 5, 6}, massless.Position)
}

func TestStep_FloorBounce(t *testing.T) {
	in := New(WithGravity(entities.Vec3{0, -10, 0}), WithFloor(0), WithRestitution(0.5))
	body := &entities.RigidBody{ID: 7, Mass: 1, Position: entities.Vec3{0, 1, 0}}
	ball := entities.Collider{BodyID: 7, Shape: entities.Shape{Kind: entities.ShapeBall, Radius: 0.5}}

	require.NoError(t, in.Step([]*entities.RigidBody{body}, []entities.Collider{ball}, nil, 1))

	assert.InDelta(t, 0.5, body.Position[1], 1e-9, "ball rests on the floor")
	assert.InDelta(t, 5.0, body.Velocity[1], 1e-9)
}

func TestStep_Errors(t *testing.T) {
	in := New()
	body := &entities.RigidBody{ID: 1, Mass: 1}

	tests := []struct {
		name      string
		colliders []entities.Collider
		joints    []entities.Joint
		dt        float64
		want      string
	}{
		{name: "zero dt", dt: 0, want: "invalid time step"},
		{name: "negative dt", dt: -1, want: "invalid time step"},
		{name: "orphan collider", dt: 1, colliders: []entities.Collider{{BodyID: 9}}, want: "unknown body 9"},
		{name: "orphan joint", dt: 1, joints: []entities.Joint{{BodyA: 1, BodyB: 3}}, want: "unknown body 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := in.Step([]*entities.RigidBody{body}, tt.colliders, tt.joints, tt.dt)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
