package clip

import (
	"math"
	"time"
)

// Sink applies a resolved value to a live object.
type Sink func(object, field string, v Value)

// DefaultDampingRate is the smoothing rate, per second, used by damped fields.
const DefaultDampingRate = 12.0

type track struct {
	object  string
	field   string
	ft      FieldType
	initial Value
	clips   []Clip
	damping bool

	last    Value
	emitted bool
}

// Player commits evaluated values of a compiled timeline to a Sink. It
// remembers the last value sent for each object and field, which is the
// only state it keeps between calls. A Player is not safe for concurrent
// use; give each goroutine its own.
type Player struct {
	tracks []*track
	sink   Sink
	rate   float64
}

// NewPlayer creates an instance of a Player for every field of every object
// in compiled.
func NewPlayer(compiled *Compiled, fields Registry, sink Sink) *Player {
	p := new(Player)
	p.sink = sink
	p.rate = DefaultDampingRate

	for _, name := range compiled.Objects {
		obj := compiled.Keyframes[name]
		for _, field := range obj.Fields {
			t := new(track)
			t.object = name
			t.field = field
			t.ft = fields[field]
			t.initial = obj.Initial[field]
			t.clips = obj.Clips[field]
			t.damping = obj.Damping[field]
			p.tracks = append(p.tracks, t)
		}
	}

	return p
}

// SetDampingRate changes how quickly damped fields catch up with their
// target. Higher is faster.
func (p *Player) SetDampingRate(rate float64) {
	p.rate = rate
}

// SetDamping turns damping on or off for one field.
func (p *Player) SetDamping(object, field string, damping bool) {
	for _, t := range p.tracks {
		if t.object == object && t.field == field {
			t.damping = damping
		}
	}
}

// Reset forgets every emitted value, so the next Advance writes all fields
// without smoothing.
func (p *Player) Reset() {
	for _, t := range p.tracks {
		t.last = nil
		t.emitted = false
	}
}

// Advance resolves every field at progress and sends changed values to the
// sink. elapsed is the real time since the previous call and drives damping.
func (p *Player) Advance(progress float64, elapsed time.Duration) {
	for _, t := range p.tracks {
		p.advance(t, progress, elapsed)
	}
}

func (p *Player) advance(t *track, progress float64, elapsed time.Duration) {
	checkEq := true
	target := ValueAt(t.ft, t.initial, t.clips, progress)
	if c, ok := Active(t.clips, progress); ok {
		checkEq = c.Config.CheckEq
	}

	value := target
	if t.damping && t.emitted && elapsed > 0 {
		alpha := 1 - math.Exp(-p.rate*elapsed.Seconds())
		value = t.ft.Lerp(t.last, target, alpha)
		// Snap once close enough, or when the type cannot move partway.
		if t.ft.Equal(value, target) || t.ft.Equal(value, t.last) {
			value = target
		}
	}

	if t.emitted && checkEq && t.ft.Equal(value, t.last) {
		return
	}

	t.last = value
	t.emitted = true
	p.sink(t.object, t.field, value)
}
