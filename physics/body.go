package physics

import (
	"errors"
	"fmt"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

var bodyParameters = entities.Parameters{
	{Name: "Shapes", Help: "The shape or shapes attached to the body.", Types: ShapesVarOrNone},
	{Name: "Position", Help: "The initial position of the body.", Types: Vec3VarOrNone},
	{Name: "Rotation", Help: "The initial rotation of the body, as (x, y, z, w).", Types: entities.FloatSeqVarOrNone},
	{Name: "Mass", Help: "The mass of the body. Defaults to 1.", Types: entities.FloatVarOrNone},
}

// Body adds a rigid body to the enclosing simulation on its first activation
// and outputs the body position every activation.
type Body struct {
	shards.Base
	name     string
	static   bool
	sim      shards.ParamVar
	shapes   shards.ParamVar
	position shards.ParamVar
	rotation shards.ParamVar
	mass     shards.ParamVar
	world    *World
	body     *entities.RigidBody
	params   *shards.ParamSet
}

func newBody(name string, static bool) *Body {
	b := &Body{
		Base:   shards.NewBase(),
		name:   name,
		static: static,
		sim:    shards.NewParamVar(entities.ContextVar(SimulationName)),
	}
	b.params = shards.NewParamSet(name, bodyParameters).
		Var(0, &b.shapes).
		Var(1, &b.position).
		Var(2, &b.rotation).
		Var(3, &b.mass)
	return b
}

// NewDynamicBody creates a body moved by the simulation.
func NewDynamicBody() *Body { return newBody("Physics.DynamicBody", false) }

// NewStaticBody creates a body that never moves.
func NewStaticBody() *Body { return newBody("Physics.StaticBody", true) }

func (b *Body) Name() string                    { return b.name }
func (b *Body) Help() string                    { return "A rigid body of the enclosing simulation." }
func (b *Body) InputTypes() entities.Types      { return entities.AnyTypes }
func (b *Body) OutputTypes() entities.Types     { return entities.FloatSeqTypes }
func (b *Body) Parameters() entities.Parameters { return bodyParameters }

func (b *Body) SetParam(index int, value entities.Var) error { return b.params.Set(index, value) }

func (b *Body) GetParam(index int) entities.Var { return b.params.Get(index) }

func (b *Body) RequiredVariables() entities.ExposedTypes {
	req := simulationRequirement.
		With(requirement(&b.shapes, entities.AnyType)...).
		With(requirement(&b.position, entities.FloatSeqType)...).
		With(requirement(&b.rotation, entities.FloatSeqType)...)
	return req.With(requirement(&b.mass, entities.FloatType)...)
}

func (b *Body) Compose(data shards.InstanceData) (entities.TypeInfo, error) {
	if b.shapes.IsVariable() {
		info, _ := data.Shared.Find(b.shapes.Name())
		if !ShapeType.Accepts(info.Type) && !ShapeSeqType.Accepts(info.Type) {
			return entities.TypeInfo{}, &sdkErrors.CompositionError{
				Shard:    b.name,
				Variable: b.shapes.Name(),
				Message:  fmt.Sprintf("expected a shape or a sequence of shapes, found %s", info.Type),
			}
		}
	}
	return entities.FloatSeqType, nil
}

func (b *Body) Warmup(ctx *shards.Context) error {
	if err := b.sim.WarmupExisting(ctx); err != nil {
		return err
	}
	for _, p := range []*shards.ParamVar{&b.shapes, &b.position, &b.rotation, &b.mass} {
		if err := p.Warmup(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Body) Activate(*shards.Context, entities.Var) (entities.Var, error) {
	if b.body == nil {
		if err := b.join(); err != nil {
			return entities.None(), err
		}
	}
	p := b.body.Position
	return entities.Floats(p[0], p[1], p[2]), nil
}

// join creates the body and adds it to the simulation.
func (b *Body) join() error {
	world, err := worldOf(b.sim.Get())
	if err != nil {
		return err
	}
	shapes, err := shapesOf(b.shapes.Get())
	if err != nil {
		return err
	}
	body := &entities.RigidBody{Static: b.static}
	if body.Position, err = vec3(b.position.Get(), entities.Vec3{}); err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}
	if body.Rotation, err = quat(b.rotation.Get()); err != nil {
		return fmt.Errorf("invalid rotation: %w", err)
	}
	if body.Mass, err = float(b.mass.Get(), 1); err != nil {
		return fmt.Errorf("invalid mass: %w", err)
	}
	world.Add(body, shapes)
	b.world = world
	b.body = body
	return nil
}

// Body returns the simulated body, nil before the first activation.
func (b *Body) Body() *entities.RigidBody { return b.body }

func (b *Body) Cleanup() error {
	if b.body != nil {
		b.world.Remove(b.body.ID)
	}
	b.body = nil
	b.world = nil
	b.mass.Cleanup()
	b.rotation.Cleanup()
	b.position.Cleanup()
	b.shapes.Cleanup()
	b.sim.Cleanup()
	return nil
}

var errNoShape = errors.New("expected a shape or a sequence of shapes")

func shapesOf(v entities.Var) ([]entities.Shape, error) {
	if v.IsNone() {
		return nil, nil
	}
	items := []entities.Var{v}
	if v.Kind() == entities.TypeSeq {
		items, _ = v.AsSeq()
	}
	out := make([]entities.Shape, 0, len(items))
	for _, item := range items {
		handle, err := item.AsObject(ShapeObjectType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errNoShape, err)
		}
		s, ok := handle.(*entities.Shape)
		if !ok {
			return nil, errNoShape
		}
		out = append(out, *s)
	}
	return out, nil
}
