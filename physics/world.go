package physics

import (
	"fmt"

	"github.com/reglet-dev/shards-sdk/go/domain/entities"
	"github.com/reglet-dev/shards-sdk/go/domain/ports"
)

// SimulationName is the protected variable holding the current World.
const SimulationName = "Physics.Simulation"

var (
	SimulationObjectType = entities.ObjectType{Vendor: entities.VendorCore, TypeID: entities.FourCC("phyS")}
	ShapeObjectType      = entities.ObjectType{Vendor: entities.VendorCore, TypeID: entities.FourCC("phyG")}

	SimulationType = entities.TypeInfo{Basic: entities.TypeObject, Object: SimulationObjectType}
	ShapeType      = entities.TypeInfo{Basic: entities.TypeObject, Object: ShapeObjectType}
	ShapeSeqType   = entities.TypeInfo{Basic: entities.TypeSeq, Elements: entities.Types{ShapeType}}

	ShapeTypes = entities.Types{ShapeType}
	// ShapesVarOrNone accepts a variable holding one shape or a sequence of shapes.
	ShapesVarOrNone = entities.Types{ShapeType.AsVariable(), ShapeSeqType.AsVariable(), entities.NoneType}
	// Vec3VarOrNone accepts three floats or a variable holding them.
	Vec3VarOrNone = entities.FloatSeqVarOrNone
)

var simulationRequirement = entities.ExposedTypes{
	{Name: SimulationName, Help: "The enclosing physics simulation.", Type: SimulationType},
}

// World is the set of bodies stepped by one simulation.
type World struct {
	backend   ports.PhysicsBackend
	bodies    []*entities.RigidBody
	colliders []entities.Collider
	joints    []entities.Joint
	nextID    uint64
}

// NewWorld creates an empty world stepped by backend.
func NewWorld(backend ports.PhysicsBackend) *World {
	return &World{backend: backend}
}

// Bodies returns the bodies currently in the world.
func (w *World) Bodies() []*entities.RigidBody { return w.bodies }

// Colliders returns the colliders currently in the world.
func (w *World) Colliders() []entities.Collider { return w.colliders }

// Add inserts body with shapes as its colliders and assigns its id.
func (w *World) Add(body *entities.RigidBody, shapes []entities.Shape) uint64 {
	w.nextID++
	body.ID = w.nextID
	w.bodies = append(w.bodies, body)
	for _, s := range shapes {
		w.colliders = append(w.colliders, entities.Collider{BodyID: body.ID, Shape: s})
	}
	return body.ID
}

// Remove drops the body with id together with its colliders and joints.
func (w *World) Remove(id uint64) {
	bodies := w.bodies[:0]
	for _, b := range w.bodies {
		if b.ID != id {
			bodies = append(bodies, b)
		}
	}
	w.bodies = bodies

	colliders := w.colliders[:0]
	for _, c := range w.colliders {
		if c.BodyID != id {
			colliders = append(colliders, c)
		}
	}
	w.colliders = colliders

	joints := w.joints[:0]
	for _, j := range w.joints {
		if j.BodyA != id && j.BodyB != id {
			joints = append(joints, j)
		}
	}
	w.joints = joints
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) error {
	if err := w.backend.Step(w.bodies, w.colliders, w.joints, dt); err != nil {
		return fmt.Errorf("failed to step simulation: %w", err)
	}
	return nil
}

func worldOf(v entities.Var) (*World, error) {
	handle, err := v.AsObject(SimulationObjectType)
	if err != nil {
		return nil, err
	}
	w, ok := handle.(*World)
	if !ok {
		return nil, fmt.Errorf("%s does not hold a simulation", SimulationName)
	}
	return w, nil
}

// vec3 reads three floats, or def when v is None.
func vec3(v entities.Var, def entities.Vec3) (entities.Vec3, error) {
	if v.IsNone() {
		return def, nil
	}
	fs, err := v.AsFloats()
	if err != nil {
		return entities.Vec3{}, err
	}
	if len(fs) != 3 {
		return entities.Vec3{}, fmt.Errorf("expected 3 floats, got %d", len(fs))
	}
	return entities.Vec3{fs[0], fs[1], fs[2]}, nil
}

// quat reads an (x, y, z, w) rotation, or the identity when v is None.
func quat(v entities.Var) (entities.Quat, error) {
	if v.IsNone() {
		return entities.IdentityQuat, nil
	}
	fs, err := v.AsFloats()
	if err != nil {
		return entities.Quat{}, err
	}
	if len(fs) != 4 {
		return entities.Quat{}, fmt.Errorf("expected 4 floats, got %d", len(fs))
	}
	return entities.Quat{fs[0], fs[1], fs[2], fs[3]}, nil
}

func float(v entities.Var, def float64) (float64, error) {
	if v.IsNone() {
		return def, nil
	}
	return v.AsFloat()
}

// requirement returns the requirement of a variable-bound parameter.
func requirement(p interface {
	IsVariable() bool
	Name() string
}, typ entities.TypeInfo) entities.ExposedTypes {
	if !p.IsVariable() {
		return nil
	}
	return entities.ExposedTypes{{Name: p.Name(), Type: typ}}
}
