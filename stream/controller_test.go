package stream

import (
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/matt-g-everett/ledclip/scene"
	"github.com/rs/zerolog"
)

func TestControllerSelectCrossfades(t *testing.T) {
	is, c := setupControllerTest(t)

	c.CalculateFrame(0)
	is.Equal(c.Current(), "red")

	is.NoErr(c.Select("blue"))
	f := c.CalculateFrame(100)
	is.True(f.Pixel(0).R > 0.5) // the fade has only just begun

	for i := 0; i < 20 && c.Current() != "blue"; i++ {
		c.CalculateFrame(int64(200 + i*100))
	}
	is.Equal(c.Current(), "blue")

	f = c.CalculateFrame(5000)
	is.True(f.Pixel(0).B > 0.99)
	is.True(f.Pixel(0).R < 0.01)
}

func TestControllerSelectUnknown(t *testing.T) {
	is, c := setupControllerTest(t)

	err := c.Select("green")
	is.True(err != nil)
	is.Equal(c.Current(), "red")
}

func TestControllerNextWraps(t *testing.T) {
	is, c := setupControllerTest(t)

	c.Next()
	for i := 0; i < 20; i++ {
		c.CalculateFrame(int64(i * 100))
	}
	is.Equal(c.Current(), "blue")

	c.Next()
	for i := 20; i < 40; i++ {
		c.CalculateFrame(int64(i * 100))
	}
	is.Equal(c.Current(), "red")
}

func TestControllerSelectCurrentCancelsFade(t *testing.T) {
	is, c := setupControllerTest(t)

	is.NoErr(c.Select("blue"))
	is.NoErr(c.Select("red"))
	f := c.CalculateFrame(0)
	is.True(f.Pixel(0).R > 0.99)
	is.Equal(c.Current(), "red")
}

func TestControllerHandle(t *testing.T) {
	is, c := setupControllerTest(t)

	msg, err := ParseControlMessage([]byte(`{"type":"scene","name":"blue"}`))
	is.NoErr(err)
	is.NoErr(c.Handle(msg))

	is.NoErr(c.Handle(ControlMessage{Type: ControlSeek, Position: 0.5}))
	is.NoErr(c.Handle(ControlMessage{Type: ControlNext}))
	is.True(c.Handle(ControlMessage{Type: "dance"}) != nil)

	_, err = ParseControlMessage([]byte("{"))
	is.True(err != nil)
}

func setupControllerTest(t *testing.T) (*is.I, *Controller) {
	is := is.New(t)

	var timelines []*Timeline
	for _, doc := range []string{solidScene("red", "#ff0000"), solidScene("blue", "#0000ff")} {
		s, err := scene.Load(strings.NewReader(doc))
		is.NoErr(err)
		tl, err := NewTimeline(s)
		is.NoErr(err)
		timelines = append(timelines, tl)
	}

	c := NewController(timelines, 10, time.Minute, time.Second, zerolog.Nop())
	return is, c
}

func solidScene(name, colour string) string {
	return `
name: ` + name + `
loop: 1s
objects:
  fill:
    base: { colour: "` + colour + `", span: [0, 1, 0] }
`
}
