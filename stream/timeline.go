package stream

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledclip/clip"
	"github.com/matt-g-everett/ledclip/scene"
)

// segment is the live state of one scene object on the strip.
type segment struct {
	colour     colorful.Color
	brightness float64
	visible    bool
	span       clip.Vector3
}

func newSegment() *segment {
	s := new(segment)
	s.colour = colorful.Color{R: 1, G: 1, B: 1}
	s.brightness = 1
	s.visible = true
	s.span = clip.Vec3(0, 1, 0)
	return s
}

// A Timeline is an Animation that plays a compiled scene in a loop.
type Timeline struct {
	name     string
	compiled *clip.Compiled
	fields   clip.Registry
	loop     time.Duration
	player   *clip.Player
	segments map[string]*segment

	started   bool
	offsetMs  int64
	runtimeMs int64
	seeking   bool
	seekTo    float64
}

// NewTimeline creates an instance of a Timeline from a loaded scene.
func NewTimeline(s *scene.Scene) (*Timeline, error) {
	compiled, err := s.Compile()
	if err != nil {
		return nil, err
	}

	t := new(Timeline)
	t.name = s.Name
	t.compiled = compiled
	t.fields = s.Fields
	t.loop = s.Loop
	t.segments = make(map[string]*segment, len(compiled.Objects))
	for _, name := range compiled.Objects {
		t.segments[name] = newSegment()
	}
	t.player = clip.NewPlayer(compiled, s.Fields, t.apply)

	return t, nil
}

// Name is the scene's name.
func (t *Timeline) Name() string {
	return t.name
}

// Compiled is the scene's compiled clips.
func (t *Timeline) Compiled() *clip.Compiled {
	return t.compiled
}

// Fields is the scene's field type registry.
func (t *Timeline) Fields() clip.Registry {
	return t.fields
}

// Loop is the real time taken to play the whole scene once.
func (t *Timeline) Loop() time.Duration {
	return t.loop
}

func (t *Timeline) apply(object, field string, v clip.Value) {
	s, ok := t.segments[object]
	if !ok {
		return
	}

	switch field {
	case scene.Colour:
		if c, ok := v.(colorful.Color); ok {
			s.colour = c
		}
	case scene.Brightness:
		if b, ok := v.(float64); ok {
			s.brightness = b
		}
	case scene.Visible:
		if b, ok := v.(bool); ok {
			s.visible = b
		}
	case scene.Span:
		if span, ok := v.(clip.Vector3); ok {
			s.span = span
		}
	}
}

// Progress maps a runtime onto the scene's time domain, looping every Loop.
func (t *Timeline) Progress(runtimeMs int64) float64 {
	loopMs := t.loop.Milliseconds()
	if loopMs <= 0 {
		return 0
	}
	elapsed := (runtimeMs - t.offsetMs) % loopMs
	if elapsed < 0 {
		elapsed += loopMs
	}
	return float64(elapsed) / float64(loopMs) * t.compiled.Length
}

// Seek jumps playback to a fraction of the loop. Damped fields glide to
// their new values.
func (t *Timeline) Seek(position float64) {
	position = position - math.Floor(position)
	if !t.started {
		t.seeking = true
		t.seekTo = position
		return
	}

	loopMs := t.loop.Milliseconds()
	current := t.Progress(t.runtimeMs)
	if t.compiled.Length > 0 {
		current /= t.compiled.Length
	}
	t.offsetMs -= int64(math.Round((position - current) * float64(loopMs)))
}

// SetDampingRate sets how fast damped fields catch up, per second.
func (t *Timeline) SetDampingRate(rate float64) {
	t.player.SetDampingRate(rate)
}

// Restart plays the scene from the beginning on the next frame, writing
// every field afresh.
func (t *Timeline) Restart() {
	t.started = false
	t.player.Reset()
}

// CalculateFrame creates a new Frame instance.
func (t *Timeline) CalculateFrame(runtimeMs int64) *Frame {
	if !t.started {
		t.offsetMs = runtimeMs
		t.runtimeMs = runtimeMs
		t.started = true
		if t.seeking {
			t.Seek(t.seekTo)
			t.seeking = false
		}
	}

	elapsed := time.Duration(runtimeMs-t.runtimeMs) * time.Millisecond
	t.runtimeMs = runtimeMs
	t.player.Advance(t.Progress(runtimeMs), elapsed)

	f := NewFrame()
	for _, name := range t.compiled.Objects {
		s := t.segments[name]
		if !s.visible {
			continue
		}
		f.Paint(s.span.X, s.span.Y, s.span.Z, s.colour, s.brightness)
	}

	return f
}
