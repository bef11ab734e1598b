package clip

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Value is a field value. Its dynamic type is fixed by the field's FieldType.
type Value = interface{}

// A FieldType knows how to interpolate and compare values of one kind.
type FieldType interface {
	Name() string
	Lerp(a, b Value, t float64) Value
	Equal(a, b Value) bool
	Accepts(v Value) bool
}

// Registry maps field names to their types.
type Registry map[string]FieldType

type typedField[T any] struct {
	name  string
	lerp  func(a, b T, t float64) T
	equal func(a, b T) bool
}

// NewFieldType creates a FieldType for values of type T.
func NewFieldType[T any](name string, lerp func(a, b T, t float64) T, equal func(a, b T) bool) FieldType {
	f := new(typedField[T])
	f.name = name
	f.lerp = lerp
	f.equal = equal
	return f
}

func (f *typedField[T]) Name() string {
	return f.name
}

func (f *typedField[T]) Accepts(v Value) bool {
	_, ok := v.(T)
	return ok
}

// Lerp panics if either value is not a T. Compile guarantees they are.
func (f *typedField[T]) Lerp(a, b Value, t float64) Value {
	return f.lerp(a.(T), b.(T), t)
}

func (f *typedField[T]) Equal(a, b Value) bool {
	av, ok := a.(T)
	if !ok {
		return false
	}
	bv, ok := b.(T)
	if !ok {
		return false
	}
	return f.equal(av, bv)
}

// Vector3 is a point or direction in 3D space.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Vec3 is shorthand for a Vector3 literal.
func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Lerp moves from v towards w by t.
func (v Vector3) Lerp(w Vector3, t float64) Vector3 {
	return Vector3{
		X: lerp(v.X, w.X, t),
		Y: lerp(v.Y, w.Y, t),
		Z: lerp(v.Z, w.Z, t),
	}
}

const epsilon = 1e-9

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// Built-in field types.
var (
	NumberField = NewFieldType("number", lerp, almostEqual)

	Vector3Field = NewFieldType("vector3",
		func(a, b Vector3, t float64) Vector3 { return a.Lerp(b, t) },
		func(a, b Vector3) bool {
			return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
		})

	// BoolField switches to the target once the curve passes its midpoint.
	BoolField = NewFieldType("bool",
		func(a, b bool, t float64) bool {
			if t >= 0.5 {
				return b
			}
			return a
		},
		func(a, b bool) bool { return a == b })

	// ColourField blends in HCL space, like the frame crossfade.
	ColourField = NewFieldType("colour", blendColour,
		func(a, b colorful.Color) bool { return a.AlmostEqualRgb(b) })
)

func blendColour(a, b colorful.Color, t float64) colorful.Color {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	return a.BlendHcl(b, t).Clamped()
}
