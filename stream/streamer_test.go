package stream

import (
	"errors"
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

type fakeToken struct {
	mqtt.Token
	err error
}

func (t fakeToken) Wait() bool   { return true }
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	mqtt.Client
	topics   []string
	payloads [][]byte
	handler  mqtt.MessageHandler
	err      error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, payload.([]byte))
	return fakeToken{err: c.err}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.topics = append(c.topics, topic)
	c.handler = callback
	return fakeToken{err: c.err}
}

type fakeMessage struct {
	mqtt.Message
	payload []byte
}

func (m fakeMessage) Topic() string   { return "control" }
func (m fakeMessage) Payload() []byte { return m.payload }

type fakeDirector struct {
	frames   int
	messages []ControlMessage
}

func (d *fakeDirector) CalculateFrame(runtimeMs int64) *Frame {
	d.frames++
	return NewFrame()
}

func (d *fakeDirector) Handle(msg ControlMessage) error {
	d.messages = append(d.messages, msg)
	return nil
}

func TestStreamerSendFrame(t *testing.T) {
	is, config, client, director := setupStreamerTest(t)
	s := NewStreamer(config, client, director, zerolog.Nop())

	is.NoErr(s.SendFrame())
	is.Equal(director.frames, 1)
	is.Equal(client.topics, []string{"tree/stream"})
	is.Equal(len(client.payloads[0]), 2+numPixels*3)

	client.err = errors.New("broker gone")
	is.True(s.SendFrame() != nil)
}

func TestStreamerControlMessages(t *testing.T) {
	is, config, client, director := setupStreamerTest(t)
	s := NewStreamer(config, client, director, zerolog.Nop())

	is.NoErr(s.Subscribe())
	is.Equal(client.topics, []string{"tree/control"})

	client.handler(client, fakeMessage{payload: []byte(`{"type":"seek","position":0.25}`)})
	client.handler(client, fakeMessage{payload: []byte(`not json`)})

	is.Equal(director.messages, []ControlMessage{{Type: ControlSeek, Position: 0.25}}) // bad payloads are dropped
}

func setupStreamerTest(t *testing.T) (*is.I, *Config, *fakeClient, *fakeDirector) {
	is := is.New(t)

	config := new(Config)
	config.Mqtt.Topics.Stream = "tree/stream"
	config.Mqtt.Topics.Control = "tree/control"
	config.Stream.FrameRate = DefaultFrameRate

	return is, config, new(fakeClient), new(fakeDirector)
}
