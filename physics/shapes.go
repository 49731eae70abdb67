package physics

import (
	"fmt"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

var ballParameters = entities.Parameters{
	{Name: "Position", Help: "The position wrt. the body it is attached to.", Types: Vec3VarOrNone},
	{Name: "Rotation", Help: "The rotation wrt. the body it is attached to, as (x, y, z, w).", Types: entities.FloatSeqVarOrNone},
	{Name: "Radius", Help: "The radius of the sphere.", Types: entities.FloatVarOrNone},
}

var cuboidParameters = entities.Parameters{
	ballParameters[0],
	ballParameters[1],
	{Name: "HalfExtents", Help: "The half-extents of the cuboid.", Types: Vec3VarOrNone},
}

// shape holds what Ball and Cuboid share: a placement and a size parameter.
type shape struct {
	shards.Base
	name     string
	kind     entities.ShapeKind
	infos    entities.Parameters
	position shards.ParamVar
	rotation shards.ParamVar
	size     shards.ParamVar
	params   *shards.ParamSet
}

func newShape(name string, kind entities.ShapeKind, infos entities.Parameters) *shape {
	s := &shape{Base: shards.NewBase(), name: name, kind: kind, infos: infos}
	s.params = shards.NewParamSet(name, infos).
		Var(0, &s.position).
		Var(1, &s.rotation).
		Var(2, &s.size)
	return s
}

// NewBall creates a ball of radius 0.5.
func NewBall() shards.Shard {
	return newShape("Physics.Ball", entities.ShapeBall, ballParameters)
}

// NewCuboid creates a unit cube.
func NewCuboid() shards.Shard {
	return newShape("Physics.Cuboid", entities.ShapeCuboid, cuboidParameters)
}

func (s *shape) Name() string                    { return s.name }
func (s *shape) Help() string                    { return "Outputs a collision shape." }
func (s *shape) InputTypes() entities.Types      { return entities.AnyTypes }
func (s *shape) OutputTypes() entities.Types     { return ShapeTypes }
func (s *shape) Parameters() entities.Parameters { return s.infos }

func (s *shape) SetParam(index int, value entities.Var) error { return s.params.Set(index, value) }

func (s *shape) GetParam(index int) entities.Var { return s.params.Get(index) }

func (s *shape) RequiredVariables() entities.ExposedTypes {
	sizeType := entities.FloatSeqType
	if s.kind == entities.ShapeBall {
		sizeType = entities.FloatType
	}
	var req entities.ExposedTypes
	req = req.With(requirement(&s.position, entities.FloatSeqType)...)
	req = req.With(requirement(&s.rotation, entities.FloatSeqType)...)
	return req.With(requirement(&s.size, sizeType)...)
}

func (s *shape) Compose(shards.InstanceData) (entities.TypeInfo, error) {
	return ShapeType, nil
}

func (s *shape) Warmup(ctx *shards.Context) error {
	for _, p := range []*shards.ParamVar{&s.position, &s.rotation, &s.size} {
		if err := p.Warmup(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *shape) Activate(*shards.Context, entities.Var) (entities.Var, error) {
	var (
		out entities.Shape
		err error
	)
	out.Kind = s.kind
	if out.Position, err = vec3(s.position.Get(), entities.Vec3{}); err != nil {
		return entities.None(), fmt.Errorf("invalid position: %w", err)
	}
	if out.Rotation, err = quat(s.rotation.Get()); err != nil {
		return entities.None(), fmt.Errorf("invalid rotation: %w", err)
	}
	switch s.kind {
	case entities.ShapeBall:
		if out.Radius, err = float(s.size.Get(), 0.5); err != nil {
			return entities.None(), fmt.Errorf("invalid radius: %w", err)
		}
		if out.Radius <= 0 {
			return entities.None(), fmt.Errorf("radius must be positive, got %v", out.Radius)
		}
	case entities.ShapeCuboid:
		if out.HalfExtents, err = vec3(s.size.Get(), entities.Vec3{0.5, 0.5, 0.5}); err != nil {
			return entities.None(), fmt.Errorf("invalid half-extents: %w", err)
		}
	}
	return entities.NewObject(ShapeObjectType, &out), nil
}

func (s *shape) Cleanup() error {
	s.size.Cleanup()
	s.rotation.Cleanup()
	s.position.Cleanup()
	return nil
}
