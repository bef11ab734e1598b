package clip

// An Entry is what a keyframe declares for one field: either an Explicit
// value or an Inherit marker.
type Entry interface {
	entry()
}

// Explicit sets a new value at the keyframe's time.
type Explicit struct {
	Value    Value
	Override Override
}

// Inherit carries the field's current value forward to the keyframe's time
// without creating a clip.
type Inherit struct{}

func (Explicit) entry() {}
func (Inherit) entry()  {}

// State declares an explicit value, optionally with a curve. An empty curve
// keeps the default.
func State(v Value, curve Interpolation) Explicit {
	return Explicit{Value: v, Override: Override{Interpolation: curve}}
}

// ObjectState holds the base value of each field of one object, before any
// keyframe applies. BaseStates groups them by object name.
type (
	ObjectState map[string]Value
	BaseStates  map[string]ObjectState
)

// Keyframe maps field names to entries at a single timestamp.
type Keyframe map[string]Entry

// Timeline maps timestamps to keyframes for a single object. Timestamps need
// not be declared in order.
type Timeline map[float64]Keyframe

// Declarations maps object names to their timelines.
type Declarations map[string]Timeline
