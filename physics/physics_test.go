package physics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/builtins"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/infrastructure/integrator"
	"github.com/reglet-dev/shards-sdk/go/physics"
	"github.com/reglet-dev/shards-sdk/go/registry"
	"github.com/reglet-dev/shards-sdk/go/shardstest"
)

type scene struct {
	sim  *physics.Simulation
	body *physics.Body
	wire *shards.Wire
}

// newScene builds Simulation, Ball, Set, body with a half-second step.
func newScene(t *testing.T, body *physics.Body, position entities.Var) *scene {
	t.Helper()
	sim := physics.NewSimulation(integrator.New(integrator.WithGravity(entities.Vec3{0, -10, 0})))
	require.NoError(t, sim.SetParam(0, entities.Float(0.5)))

	ball := physics.NewBall()
	require.NoError(t, ball.SetParam(2, entities.Float(0.25)))

	require.NoError(t, body.SetParam(0, entities.ContextVar("ball")))
	require.NoError(t, body.SetParam(1, position))

	return &scene{
		sim:  sim,
		body: body,
		wire: shards.NewWire("scene", sim, ball, builtins.NewSet("ball"), body),
	}
}

func TestDynamicBody_Falls(t *testing.T) {
	s := newScene(t, physics.NewDynamicBody(), entities.Floats(0, 10, 0))

	r := shards.NewRunner(s.wire)
	result, err := r.Compose()
	require.NoError(t, err)
	assert.Equal(t, entities.FloatSeqType, result.OutputType)
	_, public := result.Exposed.FindPublic(physics.SimulationName)
	assert.False(t, public, "the simulation variable is protected")

	require.NoError(t, r.Start(context.Background()))

	out, err := r.Tick()
	require.NoError(t, err)
	assert.Equal(t, entities.Floats(0, 10, 0), out)

	out, err = r.Tick()
	require.NoError(t, err)
	assert.Equal(t, entities.Floats(0, 7.5, 0), out)

	world := s.sim.World()
	require.NotNil(t, world)
	require.Len(t, world.Bodies(), 1)
	require.Len(t, world.Colliders(), 1)
	assert.Equal(t, entities.ShapeBall, world.Colliders()[0].Shape.Kind)
	assert.Equal(t, 0.25, world.Colliders()[0].Shape.Radius)

	require.NoError(t, r.Stop())
	assert.Empty(t, world.Bodies(), "cleanup removes the body")
	assert.Empty(t, world.Colliders())
	assert.Nil(t, s.body.Body())
	assert.Nil(t, s.sim.World())
}

func TestStaticBody_DoesNotMove(t *testing.T) {
	s := newScene(t, physics.NewStaticBody(), entities.Floats(1, 2, 3))

	out, err := shards.NewRunner(s.wire).Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, entities.Floats(1, 2, 3), out)
}

func TestBody_RequiresSimulation(t *testing.T) {
	w := shards.NewWire("orphan", physics.NewDynamicBody())

	_, err := w.Compose(shards.InstanceData{InputType: entities.NoneType})
	ce := shardstest.RequireCompositionError(t, err, "Physics.DynamicBody", physics.SimulationName)
	assert.Contains(t, ce.Error(), "required variable not found")
}

func TestBody_RejectsNonShapeVariable(t *testing.T) {
	body := physics.NewDynamicBody()
	require.NoError(t, body.SetParam(0, entities.ContextVar("shape")))
	w := shards.NewWire("bad",
		physics.NewSimulation(nil),
		builtins.NewConst(entities.Int(3)),
		builtins.NewSet("shape"),
		body,
	)

	_, err := w.Compose(shards.InstanceData{InputType: entities.NoneType})
	ce := shardstest.RequireCompositionError(t, err, "Physics.DynamicBody", "shape")
	assert.Contains(t, ce.Error(), "expected a shape")
}

func TestBody_ShapeSequence(t *testing.T) {
	cuboid := physics.NewCuboid()
	require.NoError(t, cuboid.SetParam(2, entities.Floats(1, 2, 3)))
	ball := physics.NewBall()
	require.NoError(t, ball.SetParam(0, entities.Floats(0, 1, 0)))

	body := physics.NewStaticBody()
	require.NoError(t, body.SetParam(0, entities.ContextVar("shapes")))
	sim := physics.NewSimulation(nil)

	w := shards.NewWire("compound",
		sim,
		cuboid, builtins.NewSet("cuboid"),
		ball, builtins.NewSet("sphere"),
	)
	// the body sees both shapes through a sequence variable
	shapes := &shapeList{Base: shards.NewBase()}
	w.Add(shapes)
	w.Add(builtins.NewSet("shapes"))
	w.Add(body)

	r := shards.NewRunner(w)
	_, err := r.Compose()
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	_, err = r.Tick()
	require.NoError(t, err)

	colliders := sim.World().Colliders()
	require.Len(t, colliders, 2)
	assert.Equal(t, entities.ShapeCuboid, colliders[0].Shape.Kind)
	assert.Equal(t, entities.Vec3{1, 2, 3}, colliders[0].Shape.HalfExtents)
	assert.Equal(t, entities.ShapeBall, colliders[1].Shape.Kind)
	assert.Equal(t, entities.Vec3{0, 1, 0}, colliders[1].Shape.Position)
	assert.Equal(t, 0.5, colliders[1].Shape.Radius)
	assert.Equal(t, entities.IdentityQuat, colliders[1].Shape.Rotation)
	require.NoError(t, r.Stop())
}

// shapeList outputs the cuboid and sphere variables as one sequence.
type shapeList struct {
	shards.Base
	cuboid, sphere shards.ParamVar
}

func (s *shapeList) Name() string                     { return "Test.ShapeList" }
func (s *shapeList) InputTypes() entities.Types       { return entities.AnyTypes }
func (s *shapeList) OutputTypes() entities.Types      { return entities.Types{physics.ShapeSeqType} }
func (s *shapeList) Parameters() entities.Parameters  { return nil }
func (s *shapeList) SetParam(int, entities.Var) error { return nil }
func (s *shapeList) GetParam(int) entities.Var        { return entities.None() }
func (s *shapeList) Compose(shards.InstanceData) (entities.TypeInfo, error) {
	return physics.ShapeSeqType, nil
}

func (s *shapeList) Warmup(ctx *shards.Context) error {
	s.cuboid = shards.NewParamVar(entities.ContextVar("cuboid"))
	s.sphere = shards.NewParamVar(entities.ContextVar("sphere"))
	if err := s.cuboid.WarmupExisting(ctx); err != nil {
		return err
	}
	return s.sphere.WarmupExisting(ctx)
}

func (s *shapeList) Activate(*shards.Context, entities.Var) (entities.Var, error) {
	return entities.Seq(s.cuboid.Get(), s.sphere.Get()), nil
}

func (s *shapeList) Cleanup() error {
	s.cuboid.Cleanup()
	s.sphere.Cleanup()
	return nil
}

func TestShape_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		shard func() shards.Shard
		index int
		value entities.Var
		want  string
	}{
		{name: "short half-extents", shard: physics.NewCuboid, index: 2, value: entities.Floats(1, 2), want: "invalid half-extents"},
		{name: "bad rotation", shard: physics.NewBall, index: 1, value: entities.Floats(0, 0, 1), want: "invalid rotation"},
		{name: "negative radius", shard: physics.NewBall, index: 2, value: entities.Float(-1), want: "radius must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.shard()
			require.NoError(t, s.SetParam(tt.index, tt.value))

			_, err := shards.NewRunner(shards.NewWire("shape", s)).Run(context.Background(), 1)
			re := shardstest.RequireRuntimeError(t, err, s.Name())
			assert.Contains(t, re.Error(), tt.want)
		})
	}
}

type failingBackend struct{}

func (failingBackend) Step([]*entities.RigidBody, []entities.Collider, []entities.Joint, float64) error {
	return errors.New("solver diverged")
}

func TestSimulation_BackendError(t *testing.T) {
	w := shards.NewWire("broken", physics.NewSimulation(failingBackend{}))

	_, err := shards.NewRunner(w).Run(context.Background(), 1)
	re := shardstest.RequireRuntimeError(t, err, physics.SimulationName)
	assert.Contains(t, re.Error(), "failed to step simulation: solver diverged")
}

func TestBundle(t *testing.T) {
	reg, err := registry.New(registry.WithBundle(physics.Bundle(nil)))
	require.NoError(t, err)

	names, err := reg.Match("Physics.*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Physics.Ball",
		"Physics.Cuboid",
		"Physics.DynamicBody",
		"Physics.Simulation",
		"Physics.StaticBody",
	}, names)

	s, err := reg.Create("Physics.Simulation")
	require.NoError(t, err)
	assert.Equal(t, physics.SimulationName, s.Name())
}
