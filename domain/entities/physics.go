package entities

// Vec3 is a 3D vector.
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Quat is a rotation quaternion (x, y, z, w).
type Quat [4]float64

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{0, 0, 0, 1}

// ShapeKind enumerates collider geometries.
type ShapeKind uint8

const (
	ShapeBall ShapeKind = iota
	ShapeCuboid
)

// Shape is collider geometry placed relative to the body it is attached to.
type Shape struct {
	Position Vec3
	Rotation Quat
	// HalfExtents is used by cuboids; Radius by balls.
	HalfExtents Vec3
	Radius      float64
	Kind        ShapeKind
}

// RigidBody is a simulated body.
type RigidBody struct {
	Position Vec3
	Velocity Vec3
	Rotation Quat
	Mass     float64
	ID       uint64
	Static   bool
}

// Collider attaches a shape to a body.
type Collider struct {
	Shape  Shape
	BodyID uint64
}

// Joint constrains two bodies.
type Joint struct {
	BodyA uint64
	BodyB uint64
}
