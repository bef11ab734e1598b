package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ControlMessage is a command received on the control topic.
type ControlMessage struct {
	Type     string  `json:"type"`
	Name     string  `json:"name,omitempty"`
	Position float64 `json:"position,omitempty"`
}

// Control message types.
const (
	ControlNext  = "next"
	ControlScene = "scene"
	ControlSeek  = "seek"
)

// ParseControlMessage decodes a JSON control command.
func ParseControlMessage(payload []byte) (ControlMessage, error) {
	var msg ControlMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, fmt.Errorf("bad control message: %w", err)
	}
	return msg, nil
}

// Controller that cycles through scenes, crossfading between them.
type Controller struct {
	mu     sync.Mutex
	logger zerolog.Logger

	timelines []*Timeline
	current   int
	next      int
	fading    bool

	sceneTime           time.Duration
	transition          float64
	transitionIncrement float64
}

// NewController creates an instance of a Controller. It panics if timelines
// is empty.
func NewController(timelines []*Timeline, frameRate float64, sceneTime, transitionTime time.Duration,
	logger zerolog.Logger) *Controller {

	if len(timelines) == 0 {
		panic("stream: controller needs at least one timeline")
	}

	c := new(Controller)
	c.logger = logger
	c.timelines = timelines
	c.sceneTime = sceneTime

	c.transition = 0.0
	c.transitionIncrement = 1.0 / (frameRate * transitionTime.Seconds())

	return c
}

// Timelines lists the scenes in playlist order.
func (c *Controller) Timelines() []*Timeline {
	return c.timelines
}

// Current is the name of the scene on show, or being faded out.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timelines[c.current].Name()
}

// CalculateFrame creates a new Frame instance.
func (c *Controller) CalculateFrame(runtimeMs int64) *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.timelines[c.current].CalculateFrame(runtimeMs)
	if !c.fading {
		return f
	}

	f2 := c.timelines[c.next].CalculateFrame(runtimeMs)
	f = f.InterpolateFrame(f2, c.transition)
	c.transition += c.transitionIncrement

	if c.transition >= 1.0 {
		c.current = c.next
		c.fading = false
		c.transition = 0.0
	}

	return f
}

func (c *Controller) fadeTo(i int) {
	switch {
	case c.fading && i == c.next:
		return
	case i == c.current:
		c.fading = false
		c.transition = 0.0
		return
	}

	c.logger.Info().Str("from", c.timelines[c.current].Name()).Str("to", c.timelines[i].Name()).Msg("switching scene")
	c.timelines[i].Restart()
	c.next = i
	c.fading = true
	c.transition = 0.0
}

// Next fades to the following scene in the playlist.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.current
	if c.fading {
		from = c.next
	}
	c.fadeTo((from + 1) % len(c.timelines))
}

// Select fades to the named scene.
func (c *Controller) Select(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.timelines {
		if t.Name() == name {
			c.fadeTo(i)
			return nil
		}
	}
	return fmt.Errorf("no scene named %q", name)
}

// Seek moves the scene being shown to a fraction of its loop.
func (c *Controller) Seek(position float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.current
	if c.fading {
		target = c.next
	}
	c.timelines[target].Seek(position)
}

// Handle applies a control message.
func (c *Controller) Handle(msg ControlMessage) error {
	switch msg.Type {
	case ControlNext:
		c.Next()
	case ControlScene:
		return c.Select(msg.Name)
	case ControlSeek:
		c.Seek(msg.Position)
	default:
		return fmt.Errorf("unknown control message type %q", msg.Type)
	}
	return nil
}

// Run causes the Controller to cycle through scenes until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if len(c.timelines) < 2 {
		<-ctx.Done()
		return nil
	}

	publishTimer := time.NewTicker(c.sceneTime)
	defer publishTimer.Stop()
	for {
		select {
		case <-publishTimer.C:
			c.Next()
		case <-ctx.Done():
			return nil
		}
	}
}
